package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeMock, cfg.Mode)
	assert.Equal(t, "https://api.genz-store.com", cfg.API.BaseURL)
	assert.Equal(t, "v1", cfg.API.Version)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Mock.Delay)
	assert.False(t, cfg.Mock.SimulateErrors)
	assert.InDelta(t, 0.1, cfg.Mock.ErrorRate, 0.0001)
	assert.Equal(t, 24*time.Hour, cfg.Mock.JWTExpiration)
	assert.Equal(t, "authToken", cfg.Auth.TokenKey)
	assert.Equal(t, ".storefront/token.json", cfg.Auth.TokenPath)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_MODE", "real")
	t.Setenv("API_BASE_URL", "http://localhost:8080")
	t.Setenv("MOCK_DELAY", "0s")
	t.Setenv("MOCK_SIMULATE_ERRORS", "true")
	t.Setenv("MOCK_ERROR_RATE", "0.5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeReal, cfg.Mode)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.Mock.Delay)
	assert.True(t, cfg.Mock.SimulateErrors)
	assert.InDelta(t, 0.5, cfg.Mock.ErrorRate, 0.0001)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_RejectsUnknownMode(t *testing.T) {
	t.Setenv("STOREFRONT_MODE", "staging")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}
