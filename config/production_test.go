package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProductionConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, 10*time.Second, cfg.AI.ProcessTimeout)
	assert.Equal(t, 5*time.Second, cfg.AI.HealthTimeout)
	assert.Equal(t, 8, cfg.LCA.Parallelism)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadProductionConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("AI_PROCESS_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LCA_PARALLELISM", "not-a-number")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.AI.ProcessTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 8, cfg.LCA.Parallelism)
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ECOLCA_TEST_A=from-file\nECOLCA_TEST_B=\"quoted\"\n"), 0o600))

	t.Setenv("ECOLCA_TEST_A", "from-env")
	t.Setenv("ECOLCA_TEST_B", "")
	require.NoError(t, os.Unsetenv("ECOLCA_TEST_B"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-env", os.Getenv("ECOLCA_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("ECOLCA_TEST_B"))

	assert.NoError(t, loadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestValidateProductionConfigAccumulatesErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	cfg.Database.Host = ""
	cfg.Server.Port = 0
	cfg.Logging.Level = "verbose"
	cfg.AI.BaseURL = ""
	cfg.Security.RequireAPIKey = true
	cfg.Security.AllowedAPIKeys = nil

	err = ValidateProductionConfig(cfg)
	require.Error(t, err)
	for _, want := range []string{"DB_HOST", "SERVER_PORT", "LOG_LEVEL", "AI_SERVICE_URL", "ALLOWED_API_KEYS"} {
		assert.Contains(t, err.Error(), want)
	}
}
