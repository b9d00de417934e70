package handler

import (
	"net/http"

	"snapvault-server/internal/common/httpx"
	"snapvault-server/internal/service"

	"github.com/gin-gonic/gin"
)

// GetWatermarkedPhoto 按文件名实时合成水印图并返回 JPEG。
// 公开接口，不要求认证；合成结果不落盘。
func GetWatermarkedPhoto(c *gin.Context) {
	data, err := service.RenderWatermarked(c.Param("filename"))
	if err != nil {
		httpx.WriteServiceError(c, err, "图片处理失败")
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}
