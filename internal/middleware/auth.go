package middleware

import (
	"net/http"
	"strings"

	"snapvault-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// Identity 认证网关验证通过后的身份断言
type Identity struct {
	UserID uint
	Email  string
}

// AuthedHandler 需要认证的处理函数：身份作为显式参数传入，
// 不经由请求上下文隐式传递。
type AuthedHandler func(c *gin.Context, id Identity)

// RequireAuth 验证 Bearer Token 并以显式参数把身份交给处理函数。
//
// 未携带 Token 返回 401；携带但格式错误、签名无效或已过期返回 403，
// 两种失败信号对调用方是可区分的。
func RequireAuth(handler AuthedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求头 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要认证才能访问"})
			c.Abort()
			return
		}

		// 检查格式是否为 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Token 格式错误"})
			c.Abort()
			return
		}

		// 解析 Token
		claims, err := utils.ParseLoginToken(parts[1])
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Token 无效或已过期"})
			c.Abort()
			return
		}

		handler(c, Identity{UserID: claims.ID, Email: claims.Email})
	}
}
