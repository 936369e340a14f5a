package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 8080, cfg.Console.Port)
	assert.Equal(t, 15*time.Second, cfg.Console.ReadTimeout)
	assert.Equal(t, "./downloads", cfg.Download.Dir)
	assert.Equal(t, "./sweeptui.log", cfg.TUI.LogFile)
	assert.Equal(t, int64(32*1024*1024), cfg.FileStore.MaxFileSize)
	assert.True(t, cfg.Monitoring.MetricsEnabled)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("SWEEPS_BACKEND__URL", "https://sweeps.example.org/api")
	t.Setenv("SWEEPS_BACKEND__TIMEOUT", "3s")
	t.Setenv("SWEEPS_CONSOLE__PORT", "9000")
	t.Setenv("SWEEPS_DATABASE__HOST", "db.internal")
	t.Setenv("SWEEPS_TUI__LOG_FILE", "/var/log/sweeptui.log")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://sweeps.example.org/api", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 9000, cfg.Console.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "/var/log/sweeptui.log", cfg.TUI.LogFile)
}

func TestLoadRejectsBadBackendURL(t *testing.T) {
	resetViper(t)
	t.Setenv("SWEEPS_BACKEND__URL", "localhost:5000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend url")
}

func TestLoadRejectsPortOutOfRange(t *testing.T) {
	resetViper(t)
	t.Setenv("SWEEPS_SERVER__PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server port")
}

func TestRequireDatabase(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireDatabase())

	cfg.Database.Host = "localhost"
	cfg.Database.DBName = "sweeps"
	cfg.FileStore.BasePath = t.TempDir()
	assert.NoError(t, cfg.RequireDatabase())
}
