// Package cmd implements the CLI commands for llvmbuilder.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xdg/llvmbuilder/internal/clog"
	"github.com/xdg/llvmbuilder/internal/config"
	"github.com/xdg/llvmbuilder/internal/term"
	"github.com/xdg/llvmbuilder/internal/version"
)

// Global flag values, shared by every subcommand.
var (
	flagPreset  string
	flagSet     []string
	flagDebug   bool
	flagSilent  bool
	flagNoColor bool
)

// appConfig is the application configuration loaded before each command.
var appConfig *config.Config

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "llvmbuilder",
	Short: "Configure, build and install LLVM from source",
	Long: `llvmbuilder turns a set of build options into the CMake configure command and
build script for a multi-project LLVM checkout, and runs that script with
its output streamed to the terminal.

Build options start from the built-in defaults, then remembered field
defaults, then the preset named by --preset, then --set overrides. A
component selected both as a project and as a runtime is built as a runtime.`,
	Version:           version.String(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = clog.Close()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagPreset, "preset", "p", "", "start from the named preset")
	pf.StringArrayVar(&flagSet, "set", nil, "override a build option (key=value, repeatable)")
	pf.BoolVar(&flagDebug, "debug", false, "write debug messages to the log file")
	pf.BoolVar(&flagSilent, "silent", false, "suppress normal output")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and returns any error. Errors other than
// ExitCodeError are printed before returning.
func Execute() error {
	err := rootCmd.Execute()
	var exitErr *ExitCodeError
	if err != nil && !errors.As(err, &exitErr) {
		term.Error("%v", err)
	}
	return err
}

// setup applies the output flags, loads the configuration and configures
// logging. Configuration errors are fatal except for the config commands,
// which must keep working so a broken file can be inspected and fixed.
func setup(cmd *cobra.Command, args []string) error {
	term.SetSilent(flagSilent)
	if flagNoColor {
		term.SetColor(false)
	}

	cfg, err := config.Load()
	if err != nil {
		if !isConfigCommand(cmd) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		term.Warn("%v (using defaults)", err)
		cfg = config.DefaultConfig()
	}
	appConfig = cfg

	level := clog.EffectiveLevel(cfg.Log.Level, flagDebug)
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = clog.DefaultLogPath()
	}
	if err := clog.Configure(logPath, level, flagSilent); err != nil {
		term.Warn("logging to %s disabled: %v", logPath, err)
	}
	clog.RedirectStdLog()
	clog.Debug("running %q (version %s)", cmd.CommandPath(), version.String())
	return nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}
