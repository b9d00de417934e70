package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"snapvault-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// 测试内容：验证注册接口成功返回 201、令牌可解析且不回显密码。
func TestSignupHandler_Success(t *testing.T) {
	r := setupHandlerTest(t)

	body, _ := json.Marshal(gin.H{
		"email":      "alice@example.com",
		"password":   "abc12345",
		"first_name": "Alice",
		"company":    "Acme",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际为 %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID        uint   `json:"id"`
			Email     string `json:"email"`
			FirstName string `json:"first_name"`
		} `json:"user"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.User.Email != "alice@example.com" || resp.User.ID == 0 {
		t.Fatalf("用户信息不完整: %s", w.Body.String())
	}

	claims, err := utils.ParseLoginToken(resp.Token)
	if err != nil {
		t.Fatalf("令牌解析失败: %v", err)
	}
	if claims.ID != resp.User.ID {
		t.Fatalf("令牌身份不匹配：期望 %d，实际为 %d", resp.User.ID, claims.ID)
	}

	if bytes.Contains(w.Body.Bytes(), []byte("abc12345")) {
		t.Fatalf("响应不应包含明文密码: %s", w.Body.String())
	}
}

// 测试内容：验证重复邮箱注册返回 400。
func TestSignupHandler_DuplicateEmail(t *testing.T) {
	r := setupHandlerTest(t)
	signupUser(t, r, "alice@example.com")

	body, _ := json.Marshal(gin.H{"email": "alice@example.com", "password": "abc12345"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际为 %d body=%s", w.Code, w.Body.String())
	}
}

// 测试内容：验证非法邮箱、过短密码与坏 JSON 一律返回 400。
func TestSignupHandler_BadPayload(t *testing.T) {
	r := setupHandlerTest(t)

	cases := []struct {
		name string
		body []byte
	}{
		{"非法邮箱", mustJSON(t, gin.H{"email": "not-an-email", "password": "abc12345"})},
		{"密码过短", mustJSON(t, gin.H{"email": "a@example.com", "password": "short"})},
		{"坏 JSON", []byte("{bad")},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(tc.body)))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: 期望 400，实际为 %d body=%s", tc.name, w.Code, w.Body.String())
		}
	}
}

// 测试内容：验证登录成功返回 200 与可解析令牌。
func TestLoginHandler_Success(t *testing.T) {
	r := setupHandlerTest(t)
	signupUser(t, r, "alice@example.com")

	body, _ := json.Marshal(gin.H{"email": "alice@example.com", "password": "abc12345"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if _, err := utils.ParseLoginToken(resp.Token); err != nil {
		t.Fatalf("令牌解析失败: %v", err)
	}
}

// 测试内容：验证未知邮箱与错误密码均返回 401，且错误提示完全一致。
func TestLoginHandler_UnauthorizedIndistinguishable(t *testing.T) {
	r := setupHandlerTest(t)
	signupUser(t, r, "alice@example.com")

	wrongPass := httptest.NewRecorder()
	body, _ := json.Marshal(gin.H{"email": "alice@example.com", "password": "wrongpass1"})
	r.ServeHTTP(wrongPass, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body)))

	unknown := httptest.NewRecorder()
	body2, _ := json.Marshal(gin.H{"email": "nobody@example.com", "password": "abc12345"})
	r.ServeHTTP(unknown, httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body2)))

	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401/401，实际为 %d/%d", wrongPass.Code, unknown.Code)
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Fatalf("两种失败的响应应当一致，避免用户枚举: %s vs %s",
			wrongPass.Body.String(), unknown.Body.String())
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	return b
}
