package config

// ApplyDefaults fills every unset field of cfg from DefaultConfig. Values
// present in the file always win; a zero value counts as unset.
func ApplyDefaults(cfg *Config) {
	def := DefaultConfig()

	if cfg.Build.CMakePath == "" {
		cfg.Build.CMakePath = def.Build.CMakePath
	}
	if cfg.Build.Jobs == 0 {
		cfg.Build.Jobs = def.Build.Jobs
	}

	if cfg.Runner.CancelGrace == "" {
		cfg.Runner.CancelGrace = def.Runner.CancelGrace
	}
	if cfg.Runner.TeardownGrace == "" {
		cfg.Runner.TeardownGrace = def.Runner.TeardownGrace
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.KeepRuns == 0 {
		cfg.Log.KeepRuns = def.Log.KeepRuns
	}

	if cfg.Defaults.Remember == nil {
		cfg.Defaults.Remember = def.Defaults.Remember
	}
}

// MergeEnv combines base and override environment maps. Keys in override
// replace keys in base. The result is a new map; nil when both are empty.
func MergeEnv(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
