package middleware

import (
	"path/filepath"
	"testing"

	"snapvault-server/internal/config"
)

// setupMiddlewareTest 初始化中间件测试所需的最小配置。
func setupMiddlewareTest(t *testing.T) {
	t.Helper()

	t.Setenv("SNAPVAULT_SERVER_MODE", "debug")
	t.Setenv("SNAPVAULT_JWT_SECRET", "test_secret")
	t.Setenv("SNAPVAULT_REDIS_ENABLED", "false")
	t.Setenv("SNAPVAULT_RATELIMIT_ENABLED", "false")
	config.InitConfig(filepath.Join(t.TempDir(), "config"))
}

// reloadConfig 在调整环境变量后重新加载配置快照。
func reloadConfig(t *testing.T) {
	t.Helper()
	config.InitConfig(filepath.Join(t.TempDir(), "config"))
}
