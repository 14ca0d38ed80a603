package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	// IDParam 是路由中用户ID参数的名称
	IDParam = "id"
	// UserIDKey 是用户ID在Gin上下文中的键
	UserIDKey = "userID"
)

// ValidateUserIDMiddleware 检查路径中的用户ID格式，并将其放入Gin上下文中。
func ValidateUserIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param(IDParam)
		if !IsValidUserID(userID) {
			log.Debug().Str("user", userID).Msg("检测到无效的用户ID")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "用户ID格式不正确"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
