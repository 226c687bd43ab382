package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xdg/llvmbuilder/internal/fielddefaults"
	"github.com/xdg/llvmbuilder/internal/prompt"
	"github.com/xdg/llvmbuilder/internal/runner"
)

func TestBuild_DryRunRunsConfigure(t *testing.T) {
	dir := testEnv(t)
	writeTestConfig(t, dir, "")
	buildDir := filepath.Join(t.TempDir(), "build")

	out, _, err := execute(t, "build", "--set", "dryRun=true", "--set", "buildDir="+buildDir)
	if err != nil {
		t.Fatalf("build error = %v", err)
	}

	for _, want := range []string{
		"Starting build process...",
		"-DCMAKE_BUILD_TYPE=Release",
		"Process completed successfully",
		"Build finished.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("build output missing %q\nGot: %s", want, out)
		}
	}
	if _, err := os.Stat(buildDir); err != nil {
		t.Errorf("build directory not created: %v", err)
	}
}

func TestBuild_WritesRunLog(t *testing.T) {
	dir := testEnv(t)
	writeTestConfig(t, dir, "")

	if _, _, err := execute(t, "build", "--set", "dryRun=true", "--set", "buildDir="+t.TempDir()); err != nil {
		t.Fatal(err)
	}

	runs, err := filepath.Glob(filepath.Join(os.Getenv("XDG_STATE_HOME"), "llvmbuilder", "runs", "*.log"))
	if err != nil || len(runs) != 1 {
		t.Fatalf("run logs = %v, %v", runs, err)
	}
	data, err := os.ReadFile(runs[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "-DCMAKE_BUILD_TYPE=Release") {
		t.Errorf("run log missing build output: %q", data)
	}
}

func TestBuild_FailureExitCode(t *testing.T) {
	dir := testEnv(t)
	writeTestConfig(t, dir, "")
	cfg := filepath.Join(dir, "config.yaml")
	data, _ := os.ReadFile(cfg)
	if err := os.WriteFile(cfg, []byte(strings.Replace(string(data), "cmake_path: echo", "cmake_path: false", 1)), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "build", "--set", "dryRun=true", "--set", "buildDir="+t.TempDir())
	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("build error = %v, want ExitCodeError{1}", err)
	}
	if !strings.Contains(out, "Build failed: Process failed with exit code 1") {
		t.Errorf("build output = %q", out)
	}
}

func TestBuild_Confirmation(t *testing.T) {
	dir := testEnv(t)
	writeTestConfig(t, dir, "")
	buildDir := filepath.Join(t.TempDir(), "never")

	// Not a terminal and no --yes.
	_, _, err := execute(t, "build", "--set", "buildDir="+buildDir)
	if !errors.Is(err, prompt.ErrNotInteractive) {
		t.Fatalf("non-interactive build error = %v, want ErrNotInteractive", err)
	}

	mock := mockConfirm(t, false)
	out, _, err := execute(t, "build", "--set", "buildDir="+buildDir, "--set", "doInstall=true")
	if err != nil {
		t.Fatalf("declined build error = %v", err)
	}
	if !strings.Contains(out, "Build not started.") || !strings.Contains(out, "install:") {
		t.Errorf("declined build output = %q", out)
	}
	if len(mock.Calls) != 1 || !strings.HasSuffix(mock.Calls[0].Prompt, "[y/N]: ") {
		t.Errorf("confirm calls = %+v", mock.Calls)
	}
	if _, err := os.Stat(buildDir); !os.IsNotExist(err) {
		t.Error("declined build must not touch the build directory")
	}
}

func TestBuild_BotModeSkipsConfirmation(t *testing.T) {
	dir := testEnv(t)
	writeTestConfig(t, dir, "")
	mock := mockConfirm(t)

	if _, _, err := execute(t, "build", "-y", "--set", "dryRun=true", "--set", "buildDir="+t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := execute(t, "build", "--set", "dryRun=true", "--set", "botMode=true", "--set", "buildDir="+t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if len(mock.Calls) != 0 {
		t.Errorf("confirmation asked %d times, want 0", len(mock.Calls))
	}
}

func TestBuild_Timeout(t *testing.T) {
	dir := testEnv(t)
	writeTestConfig(t, dir, "")
	cfg := filepath.Join(dir, "config.yaml")
	data, _ := os.ReadFile(cfg)
	if err := os.WriteFile(cfg, []byte(strings.Replace(string(data), "cmake_path: echo", `cmake_path: "sleep 30 #"`, 1)), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "build", "--timeout", "200ms", "--set", "dryRun=true", "--set", "buildDir="+t.TempDir())
	var exitErr *ExitCodeError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("build error = %v, want ExitCodeError{1}", err)
	}
	if !strings.Contains(out, "The process timed out.") {
		t.Errorf("build output = %q", out)
	}
}

func TestBuild_RemembersDefaults(t *testing.T) {
	dir := testEnv(t)
	writeTestConfig(t, dir, "defaults:\n  remember: true\n")
	buildDir := t.TempDir()

	if _, _, err := execute(t, "build", "--set", "dryRun=true", "--set", "buildDir="+buildDir, "--set", "linker=lld"); err != nil {
		t.Fatal(err)
	}

	fd, err := fielddefaults.Open(filepath.Join(dir, "defaults.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := fd.Get("buildDir"); v != buildDir {
		t.Errorf("remembered buildDir = %q, want %q", v, buildDir)
	}
	if v, _ := fd.Get("linker"); v != "lld" {
		t.Errorf("remembered linker = %q, want lld", v)
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		res  runner.Result
		want int
	}{
		{"success", runner.Result{State: runner.StateCompleted}, 0},
		{"exit code", runner.Result{State: runner.StateFailed, Kind: runner.FailureExitCode, ExitCode: 3}, 3},
		{"cancelled", runner.Result{State: runner.StateCancelled, Kind: runner.FailureCancelled, ExitCode: -1}, exitCancelled},
		{"crashed", runner.Result{State: runner.StateFailed, Kind: runner.FailureCrashed, ExitCode: -1}, 1},
		{"timed out", runner.Result{State: runner.StateFailed, Kind: runner.FailureTimedOut, ExitCode: -1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.res); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
