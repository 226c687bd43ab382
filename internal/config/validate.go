package config

import (
	"fmt"
	"strings"
	"time"
)

// validLogLevels defines the allowed log level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that all fields of a parsed Config contain valid values:
//   - build.jobs is non-negative
//   - runner.cancel_grace and runner.teardown_grace are positive durations
//   - runner.env keys are non-empty and contain no '='
//   - log.level is one of: debug, info, warn, error (if non-empty)
//   - log.keep_runs is non-negative
//
// Returns nil if the config is valid, or an error naming the invalid field.
func Validate(cfg *Config) error {
	if cfg.Build.Jobs < 0 {
		return fmt.Errorf("build.jobs: must be non-negative, got %d", cfg.Build.Jobs)
	}

	if cfg.Runner.CancelGrace != "" {
		if err := validateDuration(cfg.Runner.CancelGrace, "runner.cancel_grace"); err != nil {
			return err
		}
	}
	if cfg.Runner.TeardownGrace != "" {
		if err := validateDuration(cfg.Runner.TeardownGrace, "runner.teardown_grace"); err != nil {
			return err
		}
	}
	for k := range cfg.Runner.Env {
		if k == "" || strings.Contains(k, "=") {
			return fmt.Errorf("runner.env: invalid variable name %q", k)
		}
	}

	if cfg.Log.Level != "" && !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level: invalid value %q, must be one of: debug, info, warn, error", cfg.Log.Level)
	}
	if cfg.Log.KeepRuns < 0 {
		return fmt.Errorf("log.keep_runs: must be non-negative, got %d", cfg.Log.KeepRuns)
	}

	return nil
}

// validateDuration validates that d parses with time.ParseDuration and is
// positive.
func validateDuration(d, field string) error {
	parsed, err := time.ParseDuration(d)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", field, d)
	}
	if parsed <= 0 {
		return fmt.Errorf("%s: must be positive, got %q", field, d)
	}
	return nil
}
