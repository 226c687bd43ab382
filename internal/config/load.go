package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/xdg/llvmbuilder/internal/clog"
	"github.com/xdg/llvmbuilder/internal/pathutil"
)

// Load loads the configuration from ConfigPath.
// If the config file doesn't exist, it writes the default file and returns
// DefaultConfig(). If the file exists but cannot be read, parsed or
// validated, it returns an error. Unset fields are filled from the defaults
// and all paths containing ~ are expanded.
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile is Load for an explicit path. The default file is only written
// when path is ConfigPath.
func LoadFile(path string) (*Config, error) {
	clog.Debug("config: loading %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			clog.Debug("config: file not found, using defaults")
			if path == ConfigPath() {
				if writeErr := WriteDefaultConfig(); writeErr != nil {
					clog.Warn("config: failed to create default config: %v", writeErr)
				}
			}
			cfg := DefaultConfig()
			expandPaths(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	ApplyDefaults(cfg)
	expandPaths(cfg)
	return cfg, nil
}

// expandPaths expands ~ to the home directory in all path fields.
func expandPaths(cfg *Config) {
	cfg.Build.CMakePath = pathutil.ExpandHome(cfg.Build.CMakePath)
	cfg.Runner.TempDir = pathutil.ExpandHome(cfg.Runner.TempDir)
	cfg.Log.File = pathutil.ExpandHome(cfg.Log.File)
	cfg.Presets.Dir = pathutil.ExpandHome(cfg.Presets.Dir)
	cfg.Defaults.File = pathutil.ExpandHome(cfg.Defaults.File)
}
