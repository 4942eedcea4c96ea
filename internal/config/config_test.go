package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DB_DSN", "postgres://localhost/test")
	t.Setenv("JWT_ISSUER", "tradezone")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("WS_ORIGIN", "*")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.DriftInterval)
	assert.Equal(t, 30*time.Second, cfg.PressureWindow)
	assert.Equal(t, 120*time.Second, cfg.CollectWindow)
	assert.Equal(t, 5*time.Second, cfg.PassDelay)
	assert.Equal(t, 60*time.Second, cfg.ExpiryInterval)
	assert.Equal(t, 2*time.Minute, cfg.MaxOrderAge)
	assert.Equal(t, 0.02, cfg.MaxDriftStepPct)
	assert.Equal(t, 4, cfg.ClearingWorkers)
	assert.False(t, cfg.GateDrift)
	assert.False(t, cfg.GateExpiry)
	assert.Equal(t, "10000", cfg.StartingBalance)
	assert.Equal(t, "1000000000", cfg.AdminStartingBalance)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENGINE_COLLECT_WINDOW", "10s")
	t.Setenv("ENGINE_CLEARING_WORKERS", "8")
	t.Setenv("ENGINE_GATE_DRIFT", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.CollectWindow)
	assert.Equal(t, 8, cfg.ClearingWorkers)
	assert.True(t, cfg.GateDrift)
}

func TestLoadReportsAllMissing(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("WS_ORIGIN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_ADDR")
	assert.Contains(t, err.Error(), "DB_DSN")
	assert.Contains(t, err.Error(), "WS_ORIGIN")
}

func TestLoadRejectsZeroWorkers(t *testing.T) {
	setRequired(t)
	t.Setenv("ENGINE_CLEARING_WORKERS", "0")

	_, err := Load()
	assert.Error(t, err)
}
