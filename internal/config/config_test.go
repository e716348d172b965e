package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"einvoice/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		"EINVOICE_API_URL", "EINVOICE_TOKEN", "EINVOICE_API_KEY", "EINVOICE_TIMEOUT",
		"EINVOICE_CREDENTIALS_FILE", "CONFIDENCE_THRESHOLD", "BATCH_WORKERS",
		"GOOGLE_SHEET_URL", "GOOGLE_SHEET_WORKSHEET", "LOG_LEVEL", "LOG_FORMAT",
		"LOG_TIME_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}
	path := filepath.Join(dir, "config.yaml")
	t.Setenv("EINVOICE_CONFIG", path)
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, config.DefaultTimeout, cfg.Timeout)
	assert.InDelta(t, config.DefaultConfidenceThreshold, cfg.ConfidenceThreshold, 0.001)
	assert.Equal(t, config.DefaultBatchWorkers, cfg.BatchWorkers)
}

func TestLoad_FileValues(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: https://api.example.de
timeout: 15
confidence_threshold: 90
batch_workers: 8
log:
  level: debug
  format: json
`), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.de", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.InDelta(t, 90.0, cfg.ConfidenceThreshold, 0.001)
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://file.example.de\n"), 0o644))
	t.Setenv("EINVOICE_API_URL", "https://env.example.de")
	t.Setenv("EINVOICE_TIMEOUT", "5")
	t.Setenv("EINVOICE_TOKEN", "tok")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.de", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "tok", cfg.Token)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(path, []byte("{{{invalid"), 0o644))

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"ok", func(*config.Config) {}, ""},
		{"empty url", func(c *config.Config) { c.APIURL = "" }, "required"},
		{"ftp url", func(c *config.Config) { c.APIURL = "ftp://x" }, "http(s)"},
		{"negative timeout", func(c *config.Config) { c.Timeout = -time.Second }, "timeout"},
		{"threshold too high", func(c *config.Config) { c.ConfidenceThreshold = 101 }, "between 0 and 100"},
		{"no workers", func(c *config.Config) { c.BatchWorkers = 0 }, "batch workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
