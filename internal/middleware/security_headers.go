package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders 添加安全相关的 HTTP 响应头
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止浏览器猜测内容类型
		c.Header("X-Content-Type-Options", "nosniff")

		// 防止点击劫持 (Clickjacking)
		c.Header("X-Frame-Options", "DENY")

		// 只允许同源资源，图片放开 data:/blob: 以便预览
		c.Header("Content-Security-Policy", "default-src 'self'; img-src 'self' data: blob:;")

		c.Next()
	}
}
