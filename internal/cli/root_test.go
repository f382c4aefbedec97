// filepath: internal/cli/root_test.go
package cli

import (
	"os"
	"path/filepath"
	"testing"
	"trialdb/internal/config"
	"trialdb/internal/output"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configFor parses args like the command line would and returns the resulting config.
func configFor(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	root := NewRootCmd()
	cmd, rest, err := root.Find(args)
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(rest))

	cfg = nil
	if err := initializeConfig(cmd); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fileConfig = `
[server]
port = 6060
[database]
path = "file.db"
[logging]
level = "error"
[analysis]
condition = "carcinoma"
`

func TestConfigPrecedence(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nonexistent.toml")

	t.Run("Defaults", func(t *testing.T) {
		c, err := configFor(t, "compare", "--config_path", missing)
		require.NoError(t, err)

		assert.Equal(t, 8080, c.Server.Port)
		assert.Equal(t, "info", c.Logging.Level)
		assert.Equal(t, config.DefaultDBPath, c.Database.Path)
		assert.Equal(t, config.DefaultSourcePath, c.Source.Path)
		assert.Equal(t, "melanoma", c.Analysis.Condition)
		assert.Equal(t, "miraclib", c.Analysis.Treatment)
		assert.Equal(t, "PBMC", c.Analysis.SampleType)
		assert.Equal(t, 0.05, c.Analysis.Alpha)
		assert.Equal(t, output.FormatTable, outFormat)
	})

	t.Run("Config File Loading", func(t *testing.T) {
		c, err := configFor(t, "serve", "--config_path", writeConfig(t, fileConfig))
		require.NoError(t, err)

		assert.Equal(t, 6060, c.Server.Port)
		assert.Equal(t, "file.db", c.Database.Path)
		assert.Equal(t, "error", c.Logging.Level)
		assert.Equal(t, "carcinoma", c.Analysis.Condition)
		assert.Equal(t, "miraclib", c.Analysis.Treatment, "unset values keep their default")
	})

	t.Run("Config Path From Environment", func(t *testing.T) {
		t.Setenv("TRIALDB_CONFIG_PATH", writeConfig(t, fileConfig))

		c, err := configFor(t, "overview")
		require.NoError(t, err)
		assert.Equal(t, "file.db", c.Database.Path)
	})

	t.Run("Environment Overrides File", func(t *testing.T) {
		t.Setenv("TRIALDB_PORT", "9090")
		t.Setenv("TRIALDB_LOG_LEVEL", "warn")
		t.Setenv("TRIALDB_DATABASE_PATH", "env.db")
		t.Setenv("TRIALDB_AUDIT_ENABLED", "true")
		t.Setenv("TRIALDB_FORMAT", "json")

		c, err := configFor(t, "serve", "--config_path", writeConfig(t, fileConfig))
		require.NoError(t, err)

		assert.Equal(t, 9090, c.Server.Port)
		assert.Equal(t, "warn", c.Logging.Level)
		assert.Equal(t, "env.db", c.Database.Path)
		assert.True(t, c.Logging.AuditEnabled)
		assert.Equal(t, output.FormatJSON, outFormat)
	})

	t.Run("Flags Override Environment", func(t *testing.T) {
		t.Setenv("TRIALDB_PORT", "9090")
		t.Setenv("TRIALDB_DATABASE_PATH", "env.db")
		t.Setenv("TRIALDB_CONDITION", "carcinoma")

		c, err := configFor(t, "serve", "--config_path", missing,
			"--port", "7070", "--db-path", "flag.db", "--condition", "melanoma", "--alpha", "0.01")
		require.NoError(t, err)

		assert.Equal(t, 7070, c.Server.Port)
		assert.Equal(t, "flag.db", c.Database.Path)
		assert.Equal(t, "melanoma", c.Analysis.Condition)
		assert.Equal(t, 0.01, c.Analysis.Alpha)
	})

	t.Run("Housekeeping Settings", func(t *testing.T) {
		t.Setenv("TRIALDB_HK_MAX_AGE", "12h")

		c, err := configFor(t, "serve", "--config_path", writeConfig(t, "[housekeeping]\ninterval = \"30m\"\nmax_age = \"7d\"\n"),
			"--hk-interval", "5m")
		require.NoError(t, err)
		assert.Equal(t, "5m", c.Housekeeping.Interval)
		assert.Equal(t, "12h", c.Housekeeping.MaxAge)
	})

	t.Run("Load Source Flag", func(t *testing.T) {
		c, err := configFor(t, "load", "--config_path", missing, "--source", "other.csv")
		require.NoError(t, err)
		assert.Equal(t, "other.csv", c.Source.Path)
	})
}

func TestConfigValidation(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nonexistent.toml")

	tests := []struct {
		name string
		args []string
	}{
		{"alpha out of range", []string{"compare", "--config_path", missing, "--alpha", "1.5"}},
		{"unknown log level", []string{"overview", "--config_path", missing, "--log-level", "loud"}},
		{"unknown format", []string{"overview", "--config_path", missing, "--format", "xml"}},
		{"port out of range", []string{"serve", "--config_path", missing, "--port", "70000"}},
		{"bad sweep interval", []string{"serve", "--config_path", missing, "--hk-interval", "often"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := configFor(t, tt.args...)
			assert.Error(t, err)
		})
	}

	t.Run("malformed file", func(t *testing.T) {
		_, err := configFor(t, "overview", "--config_path", writeConfig(t, "[server\nport = "))
		assert.Error(t, err)
	})
}

func TestApplyOverrides(t *testing.T) {
	c := &config.Config{
		Server:  config.ServerConfig{Port: 8080},
		Logging: config.LoggingConfig{Level: "info"},
	}

	v := viper.New()
	v.Set("port", 9999)
	v.Set("log_level", "debug")
	v.Set("audit_enabled", true)
	v.Set("sample_type", "WB")

	applyOverrides(c, v)

	assert.Equal(t, 9999, c.Server.Port)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.True(t, c.Logging.AuditEnabled)
	assert.Equal(t, "WB", c.Analysis.SampleType)
	assert.Empty(t, c.Database.Path, "unset settings are left alone")
}
