package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xdg/llvmbuilder/internal/clog"
	"github.com/xdg/llvmbuilder/internal/prompt"
	"github.com/xdg/llvmbuilder/internal/term"
)

// testEnv points every XDG directory at fresh temp dirs and returns the
// llvmbuilder config directory.
func testEnv(t *testing.T) string {
	t.Helper()
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	term.SetColor(false)

	origConfirm, origSelect, origInteractive := confirmPrompter, selectPrompter, isInteractive
	t.Cleanup(func() {
		confirmPrompter, selectPrompter, isInteractive = origConfirm, origSelect, origInteractive
		term.Reset()
		clog.Reset()
		appConfig = nil
	})
	isInteractive = func() bool { return false }
	return filepath.Join(configHome, "llvmbuilder")
}

// writeTestConfig writes a config file that renders with "echo" as the
// CMake binary, so builds run quickly and print the configure line.
func writeTestConfig(t *testing.T, dir, extra string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	content := "build:\n  cmake_path: echo\n  jobs: 2\nrunner:\n  temp_dir: " + t.TempDir() + "\n  cancel_grace: 300ms\n  teardown_grace: 300ms\n" + extra
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// execute runs the root command with args and returns what was written
// through the term package.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	term.SetOutput(&stdout)
	term.SetErrOutput(&stderr)
	clog.SetErrOutput(io.Discard)

	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag in the tree to its default, since the
// command tree is shared between tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func mockConfirm(t *testing.T, answers ...bool) *prompt.MockYesNoPrompter {
	t.Helper()
	m := prompt.NewMockYesNoPrompter(answers...)
	confirmPrompter = m
	isInteractive = func() bool { return true }
	return m
}
