package service

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"snapvault-server/internal/config"
	"snapvault-server/internal/testutils"
)

// setupServiceTest 初始化测试配置（独立上传目录与 Logo）并建立内存数据库。
func setupServiceTest(t *testing.T) {
	t.Helper()

	base := t.TempDir()
	logoPath := filepath.Join(base, "logo.png")
	// 2:1 宽高比的 Logo，便于验证等比缩放
	if err := os.WriteFile(logoPath, testutils.EncodedPNG(100, 50), 0644); err != nil {
		t.Fatalf("写入测试 Logo 失败: %v", err)
	}

	t.Setenv("SNAPVAULT_SERVER_MODE", "debug")
	t.Setenv("SNAPVAULT_JWT_SECRET", "test_secret")
	t.Setenv("SNAPVAULT_UPLOAD_PATH", filepath.Join(base, "uploads"))
	t.Setenv("SNAPVAULT_WATERMARK_LOGO_PATH", logoPath)
	t.Setenv("SNAPVAULT_REDIS_ENABLED", "false")
	config.InitConfig(filepath.Join(base, "config"))

	testutils.SetupDB(t)
}

// logoPathForTest 返回当前配置指向的 Logo 路径。
func logoPathForTest(t *testing.T) string {
	t.Helper()
	return config.Get().Watermark.LogoPath
}

// resetLogoCacheForTest 清空 Logo 解码缓存，使下一次渲染重新读盘。
func resetLogoCacheForTest() {
	logoMu.Lock()
	defer logoMu.Unlock()
	logoImg = nil
	logoPath = ""
}

// reloadConfigForTest 在调整环境变量后重新加载配置快照。
func reloadConfigForTest(t *testing.T) {
	t.Helper()
	config.InitConfig(filepath.Join(t.TempDir(), "config"))
}

func mustFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("photos", name)
	if err != nil {
		t.Fatalf("创建 form file 失败: %v", err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(64 << 20); err != nil {
		t.Fatalf("解析 multipart 失败: %v", err)
	}
	files := req.MultipartForm.File["photos"]
	if len(files) != 1 {
		t.Fatalf("期望 1 个文件，实际为 %d", len(files))
	}
	return files[0]
}
