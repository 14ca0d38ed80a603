// Package httperr 把领域错误映射为HTTP响应。
package httperr

import (
	"errors"
	"net/http"

	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Status 返回错误对应的HTTP状态码。
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrVoucherNotFound),
		errors.Is(err, ledger.ErrCatalogEntryMissing):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAlreadyExists), errors.Is(err, ledger.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientFunds), errors.Is(err, ledger.ErrInsufficientTickets):
		return http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrInvalidCatalogEntry), errors.Is(err, ledger.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond 写出错误响应。业务拒绝只记录debug日志，其余错误记录error日志。
func Respond(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("请求处理失败")
		c.JSON(status, gin.H{"error": "服务器内部错误，操作未生效"})
		return
	}
	log.Debug().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("请求被拒绝")
	c.JSON(status, gin.H{"error": err.Error()})
}

// BadRequest 写出请求格式错误的响应。
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
}
