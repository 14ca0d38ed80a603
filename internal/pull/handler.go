package pull

import (
	"net/http"

	"github.com/SlpAus/life-gacha-backend/internal/platform/httperr"
	"github.com/gin-gonic/gin"
)

// Handler 提供抽取相关的HTTP接口
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Pull 处理 POST /users/:id/pull
func (h *Handler) Pull(c *gin.Context) {
	res, err := h.svc.Pull(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if res.NoTickets {
		c.JSON(http.StatusPaymentRequired, gin.H{"status": "NoTickets", "no_tickets": true})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Odds 处理 GET /users/:id/odds
func (h *Handler) Odds(c *gin.Context) {
	odds, pity, err := h.svc.Odds(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"odds": odds, "pity": pity})
}
