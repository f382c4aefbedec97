// filepath: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ParseAndValidate(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.ParseAndValidate()
		assert.NoError(t, err)
		assert.Equal(t, DefaultPort, cfg.Server.Port)
		assert.Equal(t, DefaultDBPath, cfg.Database.Path)
		assert.Equal(t, "melanoma", cfg.Analysis.Condition)
		assert.Equal(t, "miraclib", cfg.Analysis.Treatment)
		assert.Equal(t, "PBMC", cfg.Analysis.SampleType)
		assert.Equal(t, 0.05, cfg.Analysis.Alpha)
		assert.Equal(t, "1h", cfg.Housekeeping.Interval)
		assert.Equal(t, "1d", cfg.Housekeeping.MaxAge)
	})

	t.Run("Housekeeping Disabled", func(t *testing.T) {
		cfg := &Config{Housekeeping: HousekeepingConfig{Interval: "0", MaxAge: "0"}}
		assert.NoError(t, cfg.ParseAndValidate())
		assert.Equal(t, "0", cfg.Housekeeping.Interval)
	})

	t.Run("Log Level Normalized", func(t *testing.T) {
		cfg := &Config{Logging: LoggingConfig{Level: " WARN "}}
		assert.NoError(t, cfg.ParseAndValidate())
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("Invalid Values", func(t *testing.T) {
		tests := []struct {
			name string
			cfg  Config
			msg  string
		}{
			{"port", Config{Server: ServerConfig{Port: 70000}}, "invalid server port"},
			{"level", Config{Logging: LoggingConfig{Level: "loud"}}, "invalid log level"},
			{"alpha", Config{Analysis: AnalysisConfig{Alpha: 1.5}}, "invalid analysis alpha"},
			{"negative alpha", Config{Analysis: AnalysisConfig{Alpha: -0.1}}, "invalid analysis alpha"},
			{"interval", Config{Housekeeping: HousekeepingConfig{Interval: "hourly"}}, "invalid housekeeping interval"},
			{"max age", Config{Housekeeping: HousekeepingConfig{MaxAge: "1w"}}, "invalid housekeeping max_age"},
		}
		for _, tc := range tests {
			err := tc.cfg.ParseAndValidate()
			if assert.Error(t, err, tc.name) {
				assert.Contains(t, err.Error(), tc.msg)
			}
		}
	})
}

func TestLoadAndSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := []byte(`
[database]
path = "cohort.db"

[analysis]
condition = "carcinoma"
alpha = 0.01
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "cohort.db", cfg.Database.Path)
	assert.Equal(t, "carcinoma", cfg.Analysis.Condition)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)

	cfg.Server.Port = 9191
	require.NoError(t, SaveConfig(path, cfg))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, reloaded.Server.Port)
	assert.Equal(t, "carcinoma", reloaded.Analysis.Condition)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.True(t, os.IsNotExist(err))
}
