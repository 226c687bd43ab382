package clog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// runLogTimeFormat sorts lexically in chronological order.
const runLogTimeFormat = "20060102-150405"

// StateDir returns the llvmbuilder state directory following XDG
// conventions: $XDG_STATE_HOME/llvmbuilder or ~/.local/state/llvmbuilder.
func StateDir() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "llvmbuilder")
}

// DefaultLogPath returns the operational log path,
// ~/.local/state/llvmbuilder/llvmbuilder.log by default.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "llvmbuilder.log")
}

// RunsDir returns the directory holding per-build output logs.
func RunsDir() string {
	return filepath.Join(StateDir(), "runs")
}

// RunLogPath returns the output log path for a build started at t.
func RunLogPath(t time.Time) string {
	return filepath.Join(RunsDir(), t.UTC().Format(runLogTimeFormat)+".log")
}

// OpenRunLog creates the output log for a build started at t.
func OpenRunLog(t time.Time) (*os.File, error) {
	return OpenLogFile(RunLogPath(t))
}

// PruneRunLogs removes all but the newest keep run logs. keep <= 0 keeps
// everything. A missing runs directory is not an error.
func PruneRunLogs(keep int) error {
	if keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(RunsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read runs dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".log") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(RunsDir(), name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove run log: %w", err)
		}
	}
	return nil
}
