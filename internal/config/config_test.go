package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/atelier_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AUTH_SERVICE_URL", "https://id.atelier.test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 168*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.Empty(t, cfg.SuperAdmin.Domains)
	assert.Empty(t, cfg.SuperAdmin.Emails)
}

func TestLoad_SplitsLists(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SUPER_ADMIN_DOMAINS", "admin.atelier.io, localhost,  ,staging.atelier.io")
	t.Setenv("SUPER_ADMIN_EMAILS", "boss@atelier.io")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"admin.atelier.io", "localhost", "staging.atelier.io"}, cfg.SuperAdmin.Domains)
	assert.Equal(t, []string{"boss@atelier.io"}, cfg.SuperAdmin.Emails)
}

func TestLoad_SessionExpiryOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_EXPIRY", "24h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.SessionExpiry)
}

func TestLoad_BadSessionExpiryFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_EXPIRY", "one week")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 168*time.Hour, cfg.SessionExpiry)
}

func TestLoad_IsProduction(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
