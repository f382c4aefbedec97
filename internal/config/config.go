// filepath: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"trialdb/internal/shared"

	"github.com/BurntSushi/toml"
)

// Config holds the application's configuration.
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Source       SourceConfig       `toml:"source"`
	Logging      LoggingConfig      `toml:"logging"`
	Analysis     AnalysisConfig     `toml:"analysis"`
	Housekeeping HousekeepingConfig `toml:"housekeeping"`
}

// ServerConfig holds the read-only API server configuration.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig holds the store location.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SourceConfig points at the flat CSV export used by the loader.
type SourceConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// AnalysisConfig holds the fixed cohort filter shared by the comparison and
// subset queries, and the significance threshold of the comparison.
type AnalysisConfig struct {
	Condition  string  `toml:"condition"`
	Treatment  string  `toml:"treatment"`
	SampleType string  `toml:"sample_type"`
	Alpha      float64 `toml:"alpha"`
}

// HousekeepingConfig controls the sweep of staging files abandoned by
// interrupted loads. Durations accept the "30d", "12h", "15m" and "30s" forms;
// "0" disables the periodic sweep (Interval) or the sweep itself (MaxAge).
type HousekeepingConfig struct {
	Interval string `toml:"interval"`
	MaxAge   string `toml:"max_age"`
}

// Defaults used when neither the file, the environment nor a flag sets a value.
const (
	DefaultHost       = "127.0.0.1"
	DefaultPort       = 8080
	DefaultDBPath     = "trialdb.db"
	DefaultSourcePath = "data/cell-count.csv"
	DefaultLogLevel   = "info"
	DefaultCondition  = "melanoma"
	DefaultTreatment  = "miraclib"
	DefaultSampleType = "PBMC"
	DefaultAlpha      = 0.05
	DefaultHkInterval = "1h"
	DefaultHkMaxAge   = "1d"
)

var validLogLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file for saving: %w", err)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config to file: %w", err)
	}
	return nil
}

// ApplyDefaults fills every unset value with its default.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
	if c.Source.Path == "" {
		c.Source.Path = DefaultSourcePath
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Analysis.Condition == "" {
		c.Analysis.Condition = DefaultCondition
	}
	if c.Analysis.Treatment == "" {
		c.Analysis.Treatment = DefaultTreatment
	}
	if c.Analysis.SampleType == "" {
		c.Analysis.SampleType = DefaultSampleType
	}
	if c.Analysis.Alpha == 0 {
		c.Analysis.Alpha = DefaultAlpha
	}
	if c.Housekeeping.Interval == "" {
		c.Housekeeping.Interval = DefaultHkInterval
	}
	if c.Housekeeping.MaxAge == "" {
		c.Housekeeping.MaxAge = DefaultHkMaxAge
	}
}

// ParseAndValidate applies defaults and checks that the values are usable.
func (c *Config) ParseAndValidate() error {
	c.ApplyDefaults()

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return fmt.Errorf("invalid analysis alpha: %v (must be between 0 and 1)", c.Analysis.Alpha)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if _, err := shared.ParseDuration(c.Housekeeping.Interval); err != nil {
		return fmt.Errorf("invalid housekeeping interval: %w", err)
	}
	if _, err := shared.ParseDuration(c.Housekeeping.MaxAge); err != nil {
		return fmt.Errorf("invalid housekeeping max_age: %w", err)
	}
	return nil
}
