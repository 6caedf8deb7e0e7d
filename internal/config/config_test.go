package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig 测试默认配置
func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "registration", cfg.Database.DBName)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)

	// 校验参考数据默认值
	assert.Contains(t, cfg.Validation.DisposableDomains, "mailinator.com")
	assert.Contains(t, cfg.Validation.BusinessTypes, "Proprietorship")
	assert.Len(t, cfg.Validation.BusinessTypes, 9)
	assert.Contains(t, cfg.Validation.States, "Maharashtra")
	assert.Len(t, cfg.Validation.States, 36)
}

// TestLoadWithoutFile 无配置文件时使用默认值
func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Validation.BusinessTypes)
}

// TestLoadFromFile 配置文件覆盖默认值,未出现的键保留默认
func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
env: production
server:
  port: 9090
database:
  host: db.internal
  dbname: registration_prod
validation:
  business_types:
    - Proprietorship
    - Partnership
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "registration_prod", cfg.Database.DBName)
	assert.Equal(t, []string{"Proprietorship", "Partnership"}, cfg.Validation.BusinessTypes)

	// 未覆盖的键保留默认值
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Contains(t, cfg.Validation.DisposableDomains, "mailinator.com")
}

// TestLoadMissingFile 指定的配置文件不存在时报错
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// TestIsProduction 测试环境判断
func TestIsProduction(t *testing.T) {
	assert.False(t, IsProduction(nil))
	assert.False(t, IsProduction(&Config{Env: "development"}))
	assert.True(t, IsProduction(&Config{Env: "production"}))
}
