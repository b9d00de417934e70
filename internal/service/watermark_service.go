package service

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"

	// 支持 png/gif 源图解码
	_ "image/gif"
	_ "image/png"

	"snapvault-server/internal/common/httpx"
	"snapvault-server/internal/config"
	"snapvault-server/internal/consts"
	"snapvault-server/internal/utils"

	xdraw "golang.org/x/image/draw"
)

var (
	logoMu   sync.Mutex
	logoPath string
	logoImg  image.Image
)

// loadLogo 加载品牌 Logo 图片，按路径缓存解码结果。
func loadLogo() (image.Image, error) {
	path := config.Get().Watermark.LogoPath
	if path == "" {
		path = "assets/logo.png"
	}

	logoMu.Lock()
	defer logoMu.Unlock()

	if logoImg != nil && logoPath == path {
		return logoImg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	logoImg = img
	logoPath = path
	return img, nil
}

// RenderWatermarked 渲染指定存储文件的水印预览图（JPEG 字节流）。
//
// 无需认证：这是对外的降质预览入口。纯读取，不修改任何状态，
// 任意并发调用安全且对同一文件输出字节一致。
func RenderWatermarked(filename string) ([]byte, error) {
	// 文件名来自 URL 路径段，存储为扁平目录，仅接受裸文件名
	if filename == "" || filepath.Base(filename) != filename {
		return nil, httpx.NewNotFoundError("图片不存在")
	}

	fullPath, err := utils.SecureJoin(UploadRoot(), filename)
	if err != nil {
		return nil, httpx.NewNotFoundError("图片不存在")
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, httpx.NewNotFoundError("图片不存在")
		}
		log.Printf("Watermark open error: %v\n", err)
		return nil, httpx.NewInternalError("图片读取失败")
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		log.Printf("Watermark decode error: %v, file: %s\n", err, filename)
		return nil, httpx.NewInternalError("图片解码失败")
	}

	logo, err := loadLogo()
	if err != nil {
		log.Printf("Watermark logo error: %v\n", err)
		return nil, httpx.NewInternalError("水印资源不可用")
	}

	srcBounds := src.Bounds()
	width := srcBounds.Dx()
	height := srcBounds.Dy()

	// Logo 宽度取原图宽度的固定比例，等比缩放
	logoWidth := int(math.Round(consts.WatermarkScaleRatio * float64(width)))
	if logoWidth < 1 {
		logoWidth = 1
	}
	logoBounds := logo.Bounds()
	logoHeight := int(math.Round(float64(logoWidth) * float64(logoBounds.Dy()) / float64(logoBounds.Dx())))
	if logoHeight < 1 {
		logoHeight = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, logoWidth, logoHeight))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), logo, logoBounds, xdraw.Over, nil)

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), src, srcBounds.Min, draw.Src)

	// 固定偏移策略：水平与垂直内缩量都取宽度推导的 logoWidth+margin
	inset := logoWidth + consts.WatermarkMargin
	offsetX := width - inset
	offsetY := height - inset

	mask := image.NewUniform(color.Alpha{A: consts.WatermarkOpacity})
	draw.DrawMask(canvas,
		image.Rect(offsetX, offsetY, offsetX+logoWidth, offsetY+logoHeight),
		scaled, image.Point{}, mask, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, nil); err != nil {
		log.Printf("Watermark encode error: %v\n", err)
		return nil, httpx.NewInternalError("图片编码失败")
	}

	return buf.Bytes(), nil
}
