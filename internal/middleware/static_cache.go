package middleware

import "github.com/gin-gonic/gin"

// StaticCacheMiddleware 为静态图片资源添加 Cache-Control 头。
// 存储文件名不可变（内容变更即换名），可以安全地长缓存。
func StaticCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=31536000, immutable")
		c.Next()
	}
}
