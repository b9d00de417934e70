package service

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"snapvault-server/internal/common/httpx"
	"snapvault-server/internal/config"
	"snapvault-server/internal/consts"
	"snapvault-server/internal/db"
	"snapvault-server/internal/model"
	"snapvault-server/internal/storage"
	"snapvault-server/internal/utils"
)

// RejectedFile 记录批量上传中被过滤掉的单个文件及原因
type RejectedFile struct {
	OriginalName string
	Reason       string
}

// UploadRoot 返回上传根目录（带默认值兜底）。
func UploadRoot() string {
	root := config.Get().Upload.Path
	if root == "" {
		root = "uploads"
	}
	return root
}

func uploadPolicy(uid uint) storage.SavePolicy {
	cfg := config.Get()
	maxSizeMB := cfg.Upload.MaxFileSizeMB
	if maxSizeMB <= 0 {
		maxSizeMB = 50
	}

	return storage.SavePolicy{
		Dir: func() (string, error) {
			root := UploadRoot()
			if err := os.MkdirAll(root, 0755); err != nil {
				return "", fmt.Errorf("无法创建存储目录: %w", err)
			}
			return root, nil
		},
		Filename: func(fh *multipart.FileHeader) string {
			ct := ""
			if filepath.Ext(fh.Filename) == "" {
				ct, _ = sniffHeader(fh)
			}
			return storage.GenerateFilename(uid, storage.NormalizeExt(fh.Filename, ct))
		},
		Accept: func(fh *multipart.FileHeader) error {
			ct, err := sniffHeader(fh)
			if err != nil {
				return err
			}
			if !utils.IsImageContentType(ct) {
				return fmt.Errorf("不支持的文件类型: %s", ct)
			}
			return nil
		},
		MaxSize: int64(maxSizeMB) * 1024 * 1024,
	}
}

func sniffHeader(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("无法打开上传的文件: %w", err)
	}
	defer func() { _ = src.Close() }()
	return utils.SniffContentType(src)
}

// ProcessPhotoUpload 处理一批图片上传。
// 逐文件过滤：单个文件被拒绝不影响同批其他文件；
// 已成功的文件不会因后续文件失败而回滚。
func ProcessPhotoUpload(files []*multipart.FileHeader, uid uint) ([]model.Photo, []RejectedFile, error) {
	if len(files) == 0 {
		return nil, nil, httpx.NewValidationError("未选择任何文件")
	}

	maxFiles := config.Get().Upload.MaxFiles
	if maxFiles <= 0 {
		maxFiles = consts.MaxUploadFiles
	}
	if len(files) > maxFiles {
		return nil, nil, httpx.NewValidationError(fmt.Sprintf("一次最多上传 %d 个文件", maxFiles))
	}

	policy := uploadPolicy(uid)

	var created []model.Photo
	var rejected []RejectedFile

	for _, fh := range files {
		mimeType, _ := sniffHeader(fh)

		filename, dst, err := policy.SaveFile(fh)
		if err != nil {
			rejected = append(rejected, RejectedFile{OriginalName: fh.Filename, Reason: err.Error()})
			continue
		}

		photo := model.Photo{
			Filename:     filename,
			OriginalName: fh.Filename,
			Size:         fh.Size,
			MimeType:     mimeType,
			UploadedAt:   time.Now().Unix(),
			UserID:       uid,
		}

		if err := db.DB.Create(&photo).Error; err != nil {
			// 索引写入失败：回收刚落盘的文件；回收也失败则留下孤儿文件并记录
			if rmErr := os.Remove(dst); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Printf("⚠️ 孤儿文件未能清理: %s: %v", dst, rmErr)
			}
			log.Printf("Photo index create error: %v\n", err)
			rejected = append(rejected, RejectedFile{OriginalName: fh.Filename, Reason: "数据库记录失败"})
			continue
		}

		created = append(created, photo)
	}

	return created, rejected, nil
}

// ListUserPhotos 列出指定用户的全部图片，按上传时间倒序。
func ListUserPhotos(uid uint) ([]model.Photo, error) {
	var photos []model.Photo
	if err := db.DB.Where("user_id = ?", uid).
		Order("uploaded_at DESC, id DESC").
		Find(&photos).Error; err != nil {
		log.Printf("List photos error: %v\n", err)
		return nil, httpx.NewInternalError("获取图片列表失败")
	}
	return photos, nil
}

// GetPhotoByID 按主键查找图片记录。
func GetPhotoByID(id string) (*model.Photo, error) {
	var photo model.Photo
	if err := db.DB.First(&photo, "id = ?", id).Error; err != nil {
		return nil, httpx.NewNotFoundError("图片不存在")
	}
	return &photo, nil
}

// CanMutate 所有权校验：只有图片归属者可以删除。
func CanMutate(photo *model.Photo, requesterID uint) bool {
	return photo.UserID == requesterID
}

// DeletePhoto 删除图片文件和索引记录。
//
// 先删文件后删索引：文件删除失败（非不存在）时保留索引记录，
// 使索引仍指向一个（可能）存在的文件，而不是悄悄丢失记录；
// 文件已不存在视为幂等成功，索引照常删除。
func DeletePhoto(photo *model.Photo) error {
	fullPath, err := utils.SecureJoin(UploadRoot(), photo.Filename)
	if err != nil {
		log.Printf("Delete photo path error: %v\n", err)
		return httpx.NewInternalError("删除失败")
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		log.Printf("Delete file error: %v, path: %s\n", err, fullPath)
		return httpx.NewInternalError("删除失败")
	}

	if err := db.DB.Delete(photo).Error; err != nil {
		log.Printf("Delete photo index error: %v\n", err)
		return httpx.NewInternalError("删除失败")
	}

	return nil
}
