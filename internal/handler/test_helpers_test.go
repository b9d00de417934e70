package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"snapvault-server/internal/config"
	"snapvault-server/internal/middleware"
	"snapvault-server/internal/testutils"

	"github.com/gin-gonic/gin"
)

// setupHandlerTest 初始化测试配置（独立上传目录与 Logo）、内存数据库，
// 并返回一个按生产路由形状注册的引擎。
func setupHandlerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := t.TempDir()
	logoPath := filepath.Join(base, "logo.png")
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

	r := gin.New()
	r.POST("/signup", Signup)
	r.POST("/login", Login)
	r.GET("/photos/watermarked/:filename", GetWatermarkedPhoto)
	r.GET("/protected", middleware.RequireAuth(Protected))
	r.GET("/photos", middleware.RequireAuth(GetMyPhotos))
	r.DELETE("/photos/:id", middleware.RequireAuth(DeleteMyPhoto))
	r.POST("/photos/upload", middleware.RequireAuth(UploadPhotos))
	return r
}

// signupUser 通过注册接口创建用户并返回登录令牌。
func signupUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()

	body, _ := json.Marshal(gin.H{"email": email, "password": "abc12345"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("注册失败：期望 201，实际为 %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Fatalf("注册后未返回 token")
	}
	return resp.Token
}

// uploadRequest 构造带一批图片文件的 multipart 上传请求。
func uploadRequest(t *testing.T, token string, contents map[string][]byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, data := range contents {
		part, err := w.CreateFormFile("photos", name)
		if err != nil {
			t.Fatalf("创建 form file 失败: %v", err)
		}
		_, _ = part.Write(data)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/photos/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// uploadOne 上传单张图片并返回其存储文件名与记录 ID。
func uploadOne(t *testing.T, r *gin.Engine, token string, name string, data []byte) (string, uint) {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, token, map[string][]byte{name: data}))
	if w.Code != http.StatusCreated {
		t.Fatalf("上传失败：期望 201，实际为 %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Photos []struct {
			ID       uint   `json:"id"`
			Filename string `json:"filename"`
		} `json:"photos"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Photos) != 1 {
		t.Fatalf("期望 1 条图片记录，实际为 %d body=%s", len(resp.Photos), w.Body.String())
	}
	return resp.Photos[0].Filename, resp.Photos[0].ID
}
