package config

import (
	"fmt"
	"os"

	"github.com/xdg/llvmbuilder/internal/pathutil"
)

// Dir returns the llvmbuilder configuration directory path.
// By default, this is ~/.config/llvmbuilder/. If the XDG_CONFIG_HOME
// environment variable is set, it uses $XDG_CONFIG_HOME/llvmbuilder/ instead.
// The returned path always has a trailing slash.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = "~/.config"
	}
	return pathutil.ExpandHome(base) + "/llvmbuilder/"
}

// EnsureDir creates the configuration directory if it doesn't exist, with
// 0700 permissions.
func EnsureDir() error {
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return nil
}

// ConfigPath returns the full path to the configuration file.
// This is Dir() + "config.yaml".
func ConfigPath() string {
	return Dir() + "config.yaml"
}

// PresetsDir returns the default directory for named configurations.
// This is Dir() + "configurations/".
func PresetsDir() string {
	return Dir() + "configurations/"
}

// FieldDefaultsPath returns the default path of the per-field defaults file.
// This is Dir() + "defaults.yaml".
func FieldDefaultsPath() string {
	return Dir() + "defaults.yaml"
}
