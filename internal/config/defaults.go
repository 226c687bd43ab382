package config

import "time"

const (
	defaultCMakePath     = "/Applications/CMake.app/Contents/bin/cmake"
	defaultJobs          = 24
	defaultCancelGrace   = 5 * time.Second
	defaultTeardownGrace = 3 * time.Second
	defaultLogLevel      = "info"
	defaultKeepRuns      = 20
)

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// DefaultConfig returns a Config with all defaults populated. Empty path
// fields mean "derive from the XDG directories" and are resolved by the
// accessor methods on Config.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			CMakePath: defaultCMakePath,
			Jobs:      defaultJobs,
		},
		Runner: RunnerConfig{
			CancelGrace:   defaultCancelGrace.String(),
			TeardownGrace: defaultTeardownGrace.String(),
		},
		Log: LogConfig{
			Level:    defaultLogLevel,
			KeepRuns: defaultKeepRuns,
		},
		Defaults: DefaultsConfig{
			Remember: boolPtr(false),
		},
	}
}

// defaultConfigTemplate is written by WriteDefaultConfig. It carries the
// same values as DefaultConfig, with comments.
const defaultConfigTemplate = `# llvmbuilder configuration
#
# Build options (projects, toggles, paths) are not configured here; use
# "llvmbuilder settings" and "llvmbuilder preset" for those.

build:
  # CMake binary used by the configure command
  cmake_path: /Applications/CMake.app/Contents/bin/cmake
  # Parallelism for the build tool and LLVM's compile/link job limits
  jobs: 24

runner:
  # Wait between TERM and KILL when a build is cancelled (Ctrl-C)
  cancel_grace: 5s
  # Wait between TERM and KILL when llvmbuilder exits with a build running
  teardown_grace: 3s
  # Directory for temporary build scripts (default: system temp dir)
  # temp_dir: /tmp
  # Interpreter for build scripts (default: run the script directly)
  # shell: /bin/bash
  # Extra environment for the build process
  # env:
  #   MACOSX_DEPLOYMENT_TARGET: "14.0"

log:
  # Operational log (default: ~/.local/state/llvmbuilder/llvmbuilder.log)
  # file: ~/.local/state/llvmbuilder/llvmbuilder.log
  # One of: debug, info, warn, error
  level: info
  # Number of per-build output logs to keep (0 keeps all)
  keep_runs: 20

presets:
  # Directory for named configurations (default: ~/.config/llvmbuilder/configurations)
  # dir: ~/.config/llvmbuilder/configurations

defaults:
  # Per-field defaults file (default: ~/.config/llvmbuilder/defaults.yaml)
  # file: ~/.config/llvmbuilder/defaults.yaml
  # Remember paths, components and toolchain of each build as field defaults
  remember: false
`
