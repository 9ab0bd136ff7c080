package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "/uploads", cfg.UploadURLPrefix)
	assert.Equal(t, int64(16*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.OffsiteEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("COOKIE_SECURE", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Production(t *testing.T) {
	t.Setenv("APP_ENV", "Release")
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("ADMIN_PASSWORD", "a-real-password")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_OffsiteNeedsCredentials(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("OFFSITE_S3_BUCKET", "backups")
	t.Setenv("OFFSITE_S3_ACCESS_KEY", "")
	t.Setenv("OFFSITE_S3_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("SESSION_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
}
