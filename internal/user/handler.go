package user

import (
	"net/http"

	"github.com/SlpAus/life-gacha-backend/internal/platform/httperr"
	"github.com/gin-gonic/gin"
)

// RegisterRequestBody 定义了注册请求体
type RegisterRequestBody struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

// Handler 提供用户相关的HTTP接口
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register 处理 POST /users
func (h *Handler) Register(c *gin.Context) {
	var body RegisterRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	l, err := h.svc.Register(c.Request.Context(), RegisterInput{ID: body.ID, Username: body.Username, Email: body.Email})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// Profile 处理 GET /users/:id
func (h *Handler) Profile(c *gin.Context) {
	l, err := h.svc.Profile(c.Request.Context(), c.Param(IDParam))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// Funds 处理 GET /users/:id/funds
func (h *Handler) Funds(c *gin.Context) {
	f, err := h.svc.Funds(c.Request.Context(), c.Param(IDParam))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
