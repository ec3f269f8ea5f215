package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusgate/statusgate/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, config.ProviderMock, cfg.Provider)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.False(t, cfg.OTelEnabled)
	assert.False(t, cfg.AdminEnabled())
}

func TestLoad_RealProvider(t *testing.T) {
	t.Setenv("STATUS_PROVIDER", "real")
	t.Setenv("STATUS_URL", "https://example.test/status.json")
	t.Setenv("STATUS_CACHE_TTL_MS", "5000")
	t.Setenv("STATUS_TIMEOUT_MS", "1500")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.ProviderReal, cfg.Provider)
	assert.Equal(t, "https://example.test/status.json", cfg.StatusURL)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, 1500*time.Millisecond, cfg.FetchTimeout)
}

func TestLoad_RealProviderRequiresURL(t *testing.T) {
	t.Setenv("STATUS_PROVIDER", "real")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATUS_URL")
}

func TestLoad_RejectsRelativeURL(t *testing.T) {
	t.Setenv("STATUS_PROVIDER", "real")
	t.Setenv("STATUS_URL", "/status.json")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute http(s) URL")
}

func TestLoad_UnknownProviderKind(t *testing.T) {
	t.Setenv("STATUS_PROVIDER", "carrier-pigeon")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider kind")
}

func TestLoad_NegativeTTL(t *testing.T) {
	t.Setenv("STATUS_CACHE_TTL_MS", "-1")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATUS_CACHE_TTL_MS")
}

func TestLoad_NonIntegerTimeout(t *testing.T) {
	t.Setenv("STATUS_TIMEOUT_MS", "soon")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an integer")
}

func TestLoad_CollectsAllErrors(t *testing.T) {
	t.Setenv("STATUS_PROVIDER", "real")
	t.Setenv("STATUS_CACHE_TTL_MS", "-5")
	t.Setenv("APP_PORT", "999999")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATUS_URL")
	assert.Contains(t, err.Error(), "STATUS_CACHE_TTL_MS")
	assert.Contains(t, err.Error(), "APP_PORT")
}

func TestLoad_ShortAdminKey(t *testing.T) {
	t.Setenv("ADMIN_SIGNING_KEY", "short")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_SIGNING_KEY")
}

func TestLoad_AdminEnabled(t *testing.T) {
	t.Setenv("ADMIN_SIGNING_KEY", "a-long-enough-signing-key")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.AdminEnabled())
}
