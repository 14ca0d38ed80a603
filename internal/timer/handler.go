package timer

import (
	"net/http"

	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/httperr"
	"github.com/gin-gonic/gin"
)

// StartRequestBody 定义了启动计时器的请求体
type StartRequestBody struct {
	Category ledger.TimerCategory `json:"category" binding:"required"`
}

// Handler 提供计时器相关的HTTP接口
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Start 处理 POST /users/:id/timer/start
func (h *Handler) Start(c *gin.Context) {
	var body StartRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, err)
		return
	}
	res, err := h.svc.Start(c.Request.Context(), c.Param("id"), body.Category)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	status := "Timer Started"
	if !res.Accepted {
		status = "Timer Already Active"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "accepted": res.Accepted, "category": res.Category, "started": res.Started})
}

// Stop 处理 POST /users/:id/timer/stop
func (h *Handler) Stop(c *gin.Context) {
	res, err := h.svc.Stop(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !res.HadTimer {
		c.JSON(http.StatusOK, gin.H{"status": "No Active Timers", "reward": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "Timer Stopped",
		"category": res.Category,
		"reward":   res.Payout,
		"elapsed":  int64(res.Elapsed.Seconds()),
	})
}

// Get 处理 GET /users/:id/timer
func (h *Handler) Get(c *gin.Context) {
	t, err := h.svc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": t != nil, "timer": t})
}
