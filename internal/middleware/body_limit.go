package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"snapvault-server/internal/config"
	"snapvault-server/internal/consts"

	"github.com/gin-gonic/gin"
)

// BodyLimitMiddleware 限制普通 JSON 请求体大小
func BodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 上传接口单独限制，这里跳过
		if strings.HasSuffix(c.Request.URL.Path, "/upload") {
			c.Next()
			return
		}

		// JSON 请求体 2MB 足够
		maxBytes := int64(2) * 1024 * 1024

		// 使用 MaxBytesReader 限制读取的字节数
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		c.Next()
	}
}

// UploadBodyLimitMiddleware 限制上传接口的请求体大小。
// 上限为 单文件上限 × 单批最大文件数。
func UploadBodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := config.Get().Upload
		maxSizeMB := cfg.MaxFileSizeMB
		if maxSizeMB <= 0 {
			maxSizeMB = 50
		}
		maxFiles := cfg.MaxFiles
		if maxFiles <= 0 {
			maxFiles = consts.MaxUploadFiles
		}
		maxBytes := int64(maxSizeMB) * 1024 * 1024 * int64(maxFiles)

		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("请求体不能超过 %dMB", maxBytes/(1024*1024))})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
