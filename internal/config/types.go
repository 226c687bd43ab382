// Package config provides the application configuration for llvmbuilder.
// It controls how the tool runs (CMake binary, parallelism, grace periods,
// logging, storage locations), not what gets built: build options live in
// settings records and presets.
package config

import "time"

// Config represents the application configuration.
// It is typically stored at ~/.config/llvmbuilder/config.yaml.
type Config struct {
	Build    BuildConfig    `yaml:"build,omitempty"`
	Runner   RunnerConfig   `yaml:"runner,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
	Presets  PresetsConfig  `yaml:"presets,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
}

// BuildConfig contains renderer parameters.
type BuildConfig struct {
	CMakePath string `yaml:"cmake_path,omitempty"`
	Jobs      int    `yaml:"jobs,omitempty"`
}

// RunnerConfig contains process runner settings. Durations are strings in
// time.ParseDuration format.
type RunnerConfig struct {
	CancelGrace   string            `yaml:"cancel_grace,omitempty"`
	TeardownGrace string            `yaml:"teardown_grace,omitempty"`
	TempDir       string            `yaml:"temp_dir,omitempty"`
	Shell         string            `yaml:"shell,omitempty"`
	Env           map[string]string `yaml:"env,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	File     string `yaml:"file,omitempty"`
	Level    string `yaml:"level,omitempty"`
	KeepRuns int    `yaml:"keep_runs,omitempty"`
}

// PresetsConfig contains the named configuration store location.
type PresetsConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// DefaultsConfig contains the per-field defaults store settings.
type DefaultsConfig struct {
	File string `yaml:"file,omitempty"`
	// Remember stores the defaultable fields of every started build as the
	// new field defaults.
	Remember *bool `yaml:"remember,omitempty"`
}

// CancelGrace returns runner.cancel_grace as a duration, or the default
// when it is unset or unparseable.
func (c *Config) CancelGrace() time.Duration {
	return parseDurationOr(c.Runner.CancelGrace, defaultCancelGrace)
}

// TeardownGrace returns runner.teardown_grace as a duration, or the default
// when it is unset or unparseable.
func (c *Config) TeardownGrace() time.Duration {
	return parseDurationOr(c.Runner.TeardownGrace, defaultTeardownGrace)
}

// PresetsDir returns presets.dir, or PresetsDir() when unset.
func (c *Config) PresetsDir() string {
	if c.Presets.Dir != "" {
		return c.Presets.Dir
	}
	return PresetsDir()
}

// FieldDefaultsPath returns defaults.file, or FieldDefaultsPath() when unset.
func (c *Config) FieldDefaultsPath() string {
	if c.Defaults.File != "" {
		return c.Defaults.File
	}
	return FieldDefaultsPath()
}

// RememberDefaults reports whether defaults.remember is enabled.
func (c *Config) RememberDefaults() bool {
	return c.Defaults.Remember != nil && *c.Defaults.Remember
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
