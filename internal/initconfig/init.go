// filepath: internal/initconfig/init.go
// Package initconfig writes a starter configuration file.
package initconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"trialdb/internal/config"
	"trialdb/internal/logging"
)

// ErrConfigExists is returned when the target file is present and overwrite is not requested.
var ErrConfigExists = errors.New("config file already exists")

// Defaults returns a configuration with every setting at its default value.
func Defaults() *config.Config {
	c := &config.Config{}
	c.ApplyDefaults()
	return c
}

// Run writes base (or the defaults when base is nil) to path.
// An existing file is only replaced when overwrite is set.
func Run(path string, base *config.Config, overwrite bool) error {
	if base == nil {
		base = Defaults()
	}
	if err := base.ParseAndValidate(); err != nil {
		return fmt.Errorf("refusing to write invalid configuration: %w", err)
	}

	_, err := os.Stat(path)
	switch {
	case err == nil && !overwrite:
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("could not check %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create config directory: %w", err)
		}
	}
	if err := config.SaveConfig(path, base); err != nil {
		return err
	}
	logging.Log.Infof("Configuration written to %s", path)
	return nil
}
