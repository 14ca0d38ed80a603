package voucher

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/httperr"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseRequestBody 定义了购买请求体
type PurchaseRequestBody struct {
	ID     ledger.VoucherID `json:"id"`
	Amount int              `json:"amount" binding:"required"`
}

// CreateRequestBody 定义了自定义条目请求体
type CreateRequestBody struct {
	ID          ledger.VoucherID `json:"id"`
	Name        string           `json:"name" binding:"required"`
	Cost        int64            `json:"cost" binding:"required"`
	Description string           `json:"description"`
}

// Handler 提供兑换券相关的HTTP接口
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Purchase 处理 POST /users/:id/purchase
func (h *Handler) Purchase(c *gin.Context) {
	var body PurchaseRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	res, err := h.svc.Purchase(c.Request.Context(), c.Param("id"), body.ID, body.Amount)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateTemplate 处理 POST /users/:id/templates
func (h *Handler) CreateTemplate(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	t, err := h.svc.CreateTemplate(c.Request.Context(), c.Param("id"), TemplateInput{
		ID:          body.ID,
		Name:        body.Name,
		Cost:        body.Cost,
		Description: body.Description,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Consume 处理 DELETE /users/:id/vouchers/:uuid
func (h *Handler) Consume(c *gin.Context) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		httperr.BadRequest(c, err)
		return
	}
	v, err := h.svc.Consume(c.Request.Context(), c.Param("id"), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Item Consumed", "voucher": v})
}

// List 处理 GET /users/:id/vouchers[?filter=<目录ID>]
func (h *Handler) List(c *gin.Context) {
	var f ListFilter
	if raw := c.Query("filter"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httperr.BadRequest(c, fmt.Errorf("filter 必须是目录ID: %w", err))
			return
		}
		id := ledger.VoucherID(n)
		f.ID = &id
	}
	vouchers, err := h.svc.List(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": vouchers})
}

// Store 处理 GET /users/:id/store
func (h *Handler) Store(c *gin.Context) {
	templates, err := h.svc.Store(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// MarkSeen 处理 POST /users/:id/vouchers/seen
func (h *Handler) MarkSeen(c *gin.Context) {
	n, err := h.svc.MarkSeen(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
