package handler

import (
	"net/http"

	"snapvault-server/internal/common/httpx"
	"snapvault-server/internal/consts"
	"snapvault-server/internal/middleware"
	"snapvault-server/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadPhotos 批量上传图片。逐文件过滤，部分成功也返回 201。
func UploadPhotos(c *gin.Context, id middleware.Identity) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择文件"})
		return
	}

	files := form.File[consts.UploadFieldName]
	photos, rejected, err := service.ProcessPhotoUpload(files, id.UserID)
	if err != nil {
		httpx.WriteServiceError(c, err, "上传失败，请稍后重试")
		return
	}

	resp := gin.H{
		"message": "上传完成",
		"photos":  photos,
	}
	if len(rejected) > 0 {
		skipped := make([]gin.H, 0, len(rejected))
		for _, r := range rejected {
			skipped = append(skipped, gin.H{"original_name": r.OriginalName, "reason": r.Reason})
		}
		resp["rejected"] = skipped
	}

	c.JSON(http.StatusCreated, resp)
}

// GetMyPhotos 列出当前用户的全部图片，按上传时间倒序
func GetMyPhotos(c *gin.Context, id middleware.Identity) {
	photos, err := service.ListUserPhotos(id.UserID)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// DeleteMyPhoto 删除当前用户自己的图片。
// 不存在返回 404，存在但不属于请求者返回 403。
func DeleteMyPhoto(c *gin.Context, id middleware.Identity) {
	photo, err := service.GetPhotoByID(c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "图片不存在")
		return
	}

	if !service.CanMutate(photo, id.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "无权删除该图片"})
		return
	}

	if err := service.DeletePhoto(photo); err != nil {
		httpx.WriteServiceError(c, err, "删除失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// Protected 认证探测接口，回显当前身份
func Protected(c *gin.Context, id middleware.Identity) {
	c.JSON(http.StatusOK, gin.H{
		"message": "认证有效",
		"user_id": id.UserID,
		"email":   id.Email,
	})
}
