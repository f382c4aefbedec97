// filepath: internal/cli/config_loader.go
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"trialdb/internal/config"
	"trialdb/internal/logging"
	"trialdb/internal/output"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "TRIALDB"

// settingFlags maps a setting key to the flag that overrides it.
// The environment variable of a key is EnvPrefix_KEY, e.g. TRIALDB_DATABASE_PATH.
var settingFlags = map[string]string{
	"config_path":   "config_path",
	"log_level":     "log-level",
	"database_path": "db-path",
	"format":        "format",
	"audit_enabled": "audit-enabled",
	"source_path":   "source",
	"host":          "host",
	"port":          "port",
	"condition":     "condition",
	"treatment":     "treatment",
	"sample_type":   "sample-type",
	"alpha":         "alpha",
	"hk_interval":   "hk-interval",
	"hk_max_age":    "max-age",
}

func registerFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config_path", "config.toml", "Path to the base configuration file. (Env: TRIALDB_CONFIG_PATH)")
	pf.String("log-level", "", "Logging level (trace, debug, info, warn, error). (Env: TRIALDB_LOG_LEVEL)")
	pf.String("db-path", "", "Path to the SQLite store. (Env: TRIALDB_DATABASE_PATH)")
	pf.String("format", "table", "Output format: table, json, yaml or csv. (Env: TRIALDB_FORMAT)")
	pf.Bool("audit-enabled", false, "Enable audit logging of store maintenance. (Env: TRIALDB_AUDIT_ENABLED=true)")
}

// registerFilterFlags adds the cohort filter flags to the analytical commands.
func registerFilterFlags(fs *pflag.FlagSet) {
	fs.String("condition", "", "Cohort condition. (Env: TRIALDB_CONDITION)")
	fs.String("treatment", "", "Cohort treatment. (Env: TRIALDB_TREATMENT)")
	fs.String("sample-type", "", "Cohort sample type. (Env: TRIALDB_SAMPLE_TYPE)")
}

// newSettings returns a viper instance reading the environment and the flags of cmd.
// Flags take precedence over the environment.
func newSettings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for key, name := range settingFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.InheritedFlags().Lookup(name)
		}
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return v, nil
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	v, err := newSettings(cmd)
	if err != nil {
		return err
	}

	// 1. Config file; a missing file falls back to defaults.
	cfgFile := v.GetString("config_path")
	if cfgFile == "" {
		cfgFile = "config.toml"
	}
	cfgPath = cfgFile
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	// 2. Apply Overrides (Env Vars and CLI Flags)
	applyOverrides(cfg, v)

	// 3. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	outFormat, err = output.ParseFormat(v.GetString("format"))
	if err != nil {
		return err
	}

	// 4. Initialize Logging
	logging.Init(cfg.Logging.Level)
	goose.SetLogger(logging.Log)

	return nil
}

// applyOverrides copies every setting present in the environment or given
// as a flag over the file values. Unset settings keep the file value.
func applyOverrides(c *config.Config, v *viper.Viper) {
	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			if s := strings.TrimSpace(v.GetString(key)); s != "" {
				*dst = s
			}
		}
	}

	setString("log_level", &c.Logging.Level)
	setString("database_path", &c.Database.Path)
	setString("source_path", &c.Source.Path)
	setString("host", &c.Server.Host)
	setString("condition", &c.Analysis.Condition)
	setString("treatment", &c.Analysis.Treatment)
	setString("sample_type", &c.Analysis.SampleType)
	setString("hk_interval", &c.Housekeeping.Interval)
	setString("hk_max_age", &c.Housekeeping.MaxAge)

	if v.IsSet("port") {
		if p := v.GetInt("port"); p != 0 {
			c.Server.Port = p
		}
	}
	if v.IsSet("alpha") {
		if a := v.GetFloat64("alpha"); a != 0 {
			c.Analysis.Alpha = a
		}
	}
	if v.IsSet("audit_enabled") {
		c.Logging.AuditEnabled = v.GetBool("audit_enabled")
	}
}
