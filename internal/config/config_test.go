package config

import (
	"os"
	"path/filepath"
	"testing"
)

// 测试内容：验证初始化配置会设置默认值并写入可用的配置目录。
func TestInitConfig_SetsDefaults(t *testing.T) {
	dir := t.TempDir()

	// 确保不在 release 模式（release 模式下不安全的 secret 可能导致 fatal）。
	t.Setenv("SNAPVAULT_SERVER_MODE", "debug")
	t.Setenv("SNAPVAULT_JWT_SECRET", "")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port == "" {
		t.Fatalf("期望 default server.port to be set")
	}
	if cfg.JWT.Secret == "" {
		t.Fatalf("期望 JWT secret to be set in non-release mode")
	}
	if cfg.Upload.MaxFileSizeMB != 50 {
		t.Fatalf("期望 default max_file_size_mb 50，实际为 %d", cfg.Upload.MaxFileSizeMB)
	}
	if cfg.Upload.MaxFiles != 10 {
		t.Fatalf("期望 default max_files 10，实际为 %d", cfg.Upload.MaxFiles)
	}
	if cfg.JWT.ExpirationHours != 24 {
		t.Fatalf("期望 default jwt.expiration_hours 24，实际为 %d", cfg.JWT.ExpirationHours)
	}
	if GetConfigDir() != dir {
		t.Fatalf("期望 config dir %q，实际为 %q", dir, GetConfigDir())
	}
}

// 测试内容：验证环境变量可以覆盖配置文件中的值。
func TestInitConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("SNAPVAULT_SERVER_MODE", "debug")
	t.Setenv("SNAPVAULT_SERVER_PORT", "9099")
	t.Setenv("SNAPVAULT_UPLOAD_PATH", "custom_uploads")
	t.Setenv("SNAPVAULT_WATERMARK_LOGO_PATH", "custom/logo.png")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port != "9099" {
		t.Fatalf("期望 env 覆盖 server.port=9099，实际为 %q", cfg.Server.Port)
	}
	if cfg.Upload.Path != "custom_uploads" {
		t.Fatalf("期望 env 覆盖 upload.path，实际为 %q", cfg.Upload.Path)
	}
	if cfg.Watermark.LogoPath != "custom/logo.png" {
		t.Fatalf("期望 env 覆盖 watermark.logo_path，实际为 %q", cfg.Watermark.LogoPath)
	}
}

// 测试内容：验证配置文件中的值能被加载。
func TestInitConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("SNAPVAULT_SERVER_MODE", "debug")

	yaml := "jwt:\n  secret: file_secret\n  expiration_hours: 12\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	InitConfig(dir)

	cfg := Get()
	if cfg.JWT.Secret != "file_secret" {
		t.Fatalf("期望 jwt.secret=file_secret，实际为 %q", cfg.JWT.Secret)
	}
	if cfg.JWT.ExpirationHours != 12 {
		t.Fatalf("期望 jwt.expiration_hours=12，实际为 %d", cfg.JWT.ExpirationHours)
	}
}
