package api

import (
	"github.com/SlpAus/life-gacha-backend/internal/daily"
	"github.com/SlpAus/life-gacha-backend/internal/pull"
	"github.com/SlpAus/life-gacha-backend/internal/timer"
	"github.com/SlpAus/life-gacha-backend/internal/user"
	"github.com/SlpAus/life-gacha-backend/internal/voucher"
	"github.com/gin-gonic/gin"
)

// Handlers 汇总了所有模块的HTTP处理器
type Handlers struct {
	User    *user.Handler
	Pull    *pull.Handler
	Timer   *timer.Handler
	Daily   *daily.Handler
	Voucher *voucher.Handler
}

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")
	{
		api.POST("/users", h.User.Register)

		u := api.Group("/users/:"+user.IDParam, user.ValidateUserIDMiddleware())
		{
			u.GET("", h.User.Profile)
			u.GET("/funds", h.User.Funds)

			// 抽取
			u.POST("/pull", h.Pull.Pull)
			u.GET("/odds", h.Pull.Odds)

			// 计时器
			u.GET("/timer", h.Timer.Get)
			u.POST("/timer/start", h.Timer.Start)
			u.POST("/timer/stop", h.Timer.Stop)

			// 每日任务
			u.GET("/dailies", h.Daily.Get)
			u.POST("/dailies", h.Daily.Dailies)

			// 兑换券与商店
			u.GET("/store", h.Voucher.Store)
			u.POST("/templates", h.Voucher.CreateTemplate)
			u.POST("/purchase", h.Voucher.Purchase)
			u.GET("/vouchers", h.Voucher.List)
			u.POST("/vouchers/seen", h.Voucher.MarkSeen)
			u.DELETE("/vouchers/:uuid", h.Voucher.Consume)
		}
	}
}
