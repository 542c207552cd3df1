// Package config wraps Viper access to the user-level config file
// (~/.occm/config.yaml) and the OCCM_* environment overlay.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/occm-labs/occm/internal/branding"
	"github.com/spf13/viper"
)

const fileName = "config.yaml"

var loadOnce sync.Once

// Dir returns the per-user state directory (~/.occm). When the home
// directory cannot be resolved the dot-directory is used relative to the
// working directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return branding.HomeDir()
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file location inside Dir.
func FilePath() string {
	return filepath.Join(Dir(), fileName)
}

// EnsureDir creates the state directory if it does not exist.
func EnsureDir() error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", Dir(), err)
	}
	return nil
}

// Load wires Viper to the config file and the environment overlay. Repeated
// calls are no-ops, so every command can call it unconditionally.
func Load() {
	loadOnce.Do(func() {
		viper.SetConfigFile(FilePath())
		viper.SetConfigType("yaml")
		viper.SetEnvPrefix(branding.EnvPrefix())
		viper.AutomaticEnv()

		// A missing file is a fresh install, not an error.
		_ = viper.ReadInConfig()
	})
}

// Get returns a config value by key, or the empty string when unset.
func Get(key string) string {
	return viper.GetString(key)
}

// Set stores key=value and persists the whole config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)
	if err := viper.WriteConfigAs(FilePath()); err != nil {
		return fmt.Errorf("writing %s: %w", FilePath(), err)
	}
	return nil
}
