package clog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	if got, want := StateDir(), "/custom/state/llvmbuilder"; got != want {
		t.Errorf("StateDir() = %q, want %q", got, want)
	}

	t.Setenv("XDG_STATE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("os.UserHomeDir() error = %v", err)
	}
	if got, want := StateDir(), filepath.Join(home, ".local", "state", "llvmbuilder"); got != want {
		t.Errorf("StateDir() = %q, want %q", got, want)
	}
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/s")
	if got, want := DefaultLogPath(), "/s/llvmbuilder/llvmbuilder.log"; got != want {
		t.Errorf("DefaultLogPath() = %q, want %q", got, want)
	}
}

func TestRunLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/s")
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	if got, want := RunLogPath(ts), "/s/llvmbuilder/runs/20240309-140507.log"; got != want {
		t.Errorf("RunLogPath() = %q, want %q", got, want)
	}
}

func TestOpenRunLog(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	f, err := OpenRunLog(time.Now())
	if err != nil {
		t.Fatalf("OpenRunLog() error = %v", err)
	}
	defer f.Close()

	if !strings.HasPrefix(f.Name(), RunsDir()) {
		t.Errorf("run log %s not under %s", f.Name(), RunsDir())
	}
}

func TestPruneRunLogs(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	// Missing directory is fine.
	if err := PruneRunLogs(2); err != nil {
		t.Fatalf("PruneRunLogs() on missing dir error = %v", err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f, err := OpenRunLog(base.Add(time.Duration(i) * time.Minute))
		if err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	if err := os.WriteFile(filepath.Join(RunsDir(), "notes.txt"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := PruneRunLogs(2); err != nil {
		t.Fatalf("PruneRunLogs() error = %v", err)
	}

	entries, err := os.ReadDir(RunsDir())
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"20240101-000300.log", "20240101-000400.log", "notes.txt"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("remaining = %v, want %v", names, want)
	}

	// keep <= 0 keeps everything
	if err := PruneRunLogs(0); err != nil {
		t.Fatal(err)
	}
	if entries, _ := os.ReadDir(RunsDir()); len(entries) != 3 {
		t.Errorf("PruneRunLogs(0) removed files")
	}
}
