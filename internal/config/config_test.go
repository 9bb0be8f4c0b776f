package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nostalgic/widgets/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, client.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Widgets.ToastDuration)
	assert.Equal(t, 30*time.Minute, cfg.Widgets.InstanceTTL)
	assert.False(t, cfg.Widgets.AcceptStaleLoads)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FileWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_REDIS_PASSWORD", "secret")
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
  env: production
api:
  base_url: "https://api.example.com/api"
  allowed_bases:
    - "https://staging.example.com/api"
  timeout: "2s"
redis:
  enabled: true
  addr: "redis:6379"
  password: "${TEST_REDIS_PASSWORD}"
widgets:
  toast_duration: "1500ms"
  accept_stale_loads: true
rate_limit:
  enabled: true
  requests: 5
  window: "10s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Widgets.ToastDuration)
	assert.True(t, cfg.Widgets.AcceptStaleLoads)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Window)
	// untouched defaults survive
	assert.Equal(t, 1000, cfg.Widgets.MaxInstances)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":7000\"\n")
	t.Setenv("WIDGETS_ADDR", ":7100")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("WIDGETS_ACCEPT_STALE_LOADS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7100", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.True(t, cfg.Widgets.AcceptStaleLoads)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad duration":         "widgets:\n  toast_duration: soon\n",
		"relative api base":    "api:\n  base_url: /api\n",
		"redis without addr":   "redis:\n  enabled: true\n  addr: \"\"\n",
		"rate limit w/o redis": "rate_limit:\n  enabled: true\n",
		"bad yaml":             "server: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAllowsAPIBase(t *testing.T) {
	cfg := Default()
	cfg.API.AllowedBases = []string{"https://staging.example.com/api/"}

	assert.True(t, cfg.AllowsAPIBase(client.DefaultBaseURL+"/"))
	assert.True(t, cfg.AllowsAPIBase("https://staging.example.com/api"))
	assert.False(t, cfg.AllowsAPIBase("https://evil.example.com/api"))
	assert.False(t, cfg.AllowsAPIBase(""))
}

func TestDotEnvFiles(t *testing.T) {
	assert.Equal(t, []string{
		filepath.Join("conf", ".env.local"),
		filepath.Join("conf", ".env.staging"),
		filepath.Join("conf", ".env"),
	}, DotEnvFiles("conf", "staging"))
	assert.Equal(t, []string{".env.local", ".env"}, DotEnvFiles(".", " "))
}

func TestLoadDotEnv_Priority(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WIDGETS_DOTENV_A=base\nWIDGETS_DOTENV_B=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("WIDGETS_DOTENV_A=local\n"), 0o600))
	t.Setenv("APP_ENV", "")
	t.Cleanup(func() {
		os.Unsetenv("WIDGETS_DOTENV_A")
		os.Unsetenv("WIDGETS_DOTENV_B")
	})

	loaded, err := LoadDotEnv(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, ".env.local"), filepath.Join(dir, ".env")}, loaded)
	assert.Equal(t, "local", os.Getenv("WIDGETS_DOTENV_A"))
	assert.Equal(t, "base", os.Getenv("WIDGETS_DOTENV_B"))
}

func TestLoadDotEnv_NothingToLoad(t *testing.T) {
	loaded, err := LoadDotEnv(t.TempDir())
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}
