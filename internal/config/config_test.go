package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"social-analytics-dashboard/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.AnalyticsAPIBaseURL)
	assert.Equal(t, time.Second, cfg.PollInitialDelay)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 20*time.Second, cfg.PollMaxBackoff)
	assert.Equal(t, 50, cfg.PollMaxRetries)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, config.ArchiveNone, cfg.ArchiveBackend)
	assert.Equal(t, "8080", cfg.Port)
	assert.Error(t, cfg.ValidateServer())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ANALYTICS_API_BASE_URL", "https://analytics.example.com")
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("POLL_MAX_RETRIES", "10")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("REPORT_ARCHIVE", "MinIO")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ACCESS_KEY", "minio")
	t.Setenv("MINIO_SECRET_KEY", "minio123")
	t.Setenv("MINIO_USE_SSL", "false")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "https://analytics.example.com", cfg.AnalyticsAPIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 10, cfg.PollMaxRetries)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, config.ArchiveMinIO, cfg.ArchiveBackend)
	assert.False(t, cfg.MinIOUseSSL)
	assert.NoError(t, cfg.ValidateServer())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "POLL_INTERVAL", "soon"},
		{"bad retries", "POLL_MAX_RETRIES", "many"},
		{"zero retries", "POLL_MAX_RETRIES", "0"},
		{"unknown archive", "REPORT_ARCHIVE", "s3"},
		{"supabase archive without credentials", "REPORT_ARCHIVE", "supabase"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()

			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ANALYTICS_API_KEY=from-file\n"), 0o600))
	t.Setenv("ANALYTICS_API_KEY", "")
	os.Unsetenv("ANALYTICS_API_KEY")

	require.NoError(t, config.LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	t.Cleanup(func() { os.Unsetenv("ANALYTICS_API_KEY") })

	assert.Equal(t, "from-file", os.Getenv("ANALYTICS_API_KEY"))
}
