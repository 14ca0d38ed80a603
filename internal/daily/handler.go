package daily

import (
	"errors"
	"net/http"

	"github.com/SlpAus/life-gacha-backend/internal/platform/httperr"
	"github.com/gin-gonic/gin"
)

// ClaimRequestBody 定义了每日任务请求体。Info 为 true 时只刷新状态，否则必须给出槽位。
type ClaimRequestBody struct {
	Info bool `json:"info"`
	Slot *int `json:"id"`
}

// Handler 提供每日任务相关的HTTP接口
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Dailies 处理 POST /users/:id/dailies
func (h *Handler) Dailies(c *gin.Context) {
	var body ClaimRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	var (
		res Result
		err error
	)
	switch {
	case body.Info:
		res, err = h.svc.Info(c.Request.Context(), c.Param("id"))
	case body.Slot == nil:
		httperr.BadRequest(c, errors.New("缺少槽位 id"))
		return
	default:
		res, err = h.svc.Claim(c.Request.Context(), c.Param("id"), *body.Slot)
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Get 处理 GET /users/:id/dailies
func (h *Handler) Get(c *gin.Context) {
	res, err := h.svc.Info(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
