package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SavePolicy 显式描述一次 multipart 保存的全部决策：
// 目标目录、文件名生成、内容校验与大小上限。
// 各字段互相独立，调用方按需组装。
type SavePolicy struct {
	// Dir 解析目标目录（保证存在）
	Dir func() (string, error)
	// Filename 为单个文件生成存储文件名
	Filename func(fh *multipart.FileHeader) string
	// Accept 内容校验，返回 nil 表示接受该文件
	Accept func(fh *multipart.FileHeader) error
	// MaxSize 单文件大小上限（字节），0 表示不限制
	MaxSize int64
}

// ErrFileTooLarge 文件超出大小上限
var ErrFileTooLarge = errors.New("文件超出大小限制")

// SaveFile 按照策略校验并保存一个 multipart 文件。
// 返回存储文件名与磁盘完整路径。
func (p SavePolicy) SaveFile(fh *multipart.FileHeader) (string, string, error) {
	if p.MaxSize > 0 && fh.Size > p.MaxSize {
		return "", "", ErrFileTooLarge
	}

	if p.Accept != nil {
		if err := p.Accept(fh); err != nil {
			return "", "", err
		}
	}

	dir, err := p.Dir()
	if err != nil {
		return "", "", err
	}

	filename := p.Filename(fh)
	dst := filepath.Join(dir, filename)

	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("无法读取上传文件: %w", err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return "", "", fmt.Errorf("无法创建文件: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err = io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return "", "", fmt.Errorf("文件保存失败: %w", err)
	}

	return filename, dst, nil
}

// GenerateFilename 生成存储文件名：{用户ID}-{Unix时间戳}-{随机后缀}{扩展名}。
// 同一用户并发上传也不会碰撞，且无法被外部枚举。
func GenerateFilename(userID uint, ext string) string {
	return fmt.Sprintf("%d-%d-%s%s", userID, time.Now().Unix(), uuid.New().String(), ext)
}

// NormalizeExt 推导存储扩展名：优先取原始文件名的扩展名，
// 否则根据探测到的 MIME 类型推导。
func NormalizeExt(originalName, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(originalName)); ext != "" {
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp", "image/x-ms-bmp":
		return ".bmp"
	default:
		return ".img"
	}
}
