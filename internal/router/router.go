package router

import (
	"snapvault-server/internal/handler"
	"snapvault-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Init 注册全部路由与中间件。
func Init(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())
	// 应用请求体大小限制中间件（上传接口单独限制）
	r.Use(middleware.BodyLimitMiddleware())

	// 认证限流：登录与注册共享同一个实例，保持行为一致
	authLimiter := middleware.AuthRateLimit()
	r.POST("/signup", authLimiter, handler.Signup)
	r.POST("/login", authLimiter, handler.Login)

	// 公开接口：水印预览不要求认证
	r.GET("/photos/watermarked/:filename", handler.GetWatermarkedPhoto)

	// 需认证接口：身份经认证网关显式传入处理函数
	r.GET("/protected", middleware.RequireAuth(handler.Protected))
	r.GET("/photos", middleware.RequireAuth(handler.GetMyPhotos))
	r.DELETE("/photos/:id", middleware.RequireAuth(handler.DeleteMyPhoto))

	uploadLimiter := middleware.UploadRateLimit()
	r.POST("/photos/upload",
		uploadLimiter,
		middleware.UploadBodyLimitMiddleware(),
		middleware.RequireAuth(handler.UploadPhotos),
	)
}
