package runner

import (
	"errors"
	"fmt"
	"time"
)

// State is the lifecycle state of a Runner.
type State int

// Runner states. A run moves Idle → Launching → Running → one of the
// terminal states, and the runner returns to Idle once the finished
// notification has been delivered.
const (
	StateIdle State = iota
	StateLaunching
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLaunching:
		return "launching"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// FailureKind classifies why a run did not succeed.
type FailureKind int

// Failure kinds.
const (
	FailureNone FailureKind = iota
	FailureFailedToStart
	FailureCrashed
	FailureTimedOut
	FailureReadError
	FailureWriteError
	FailureExitCode
	FailureCancelled
	FailureUnknown
)

// Message returns the human-readable description used in notifications.
// FailureExitCode is described by Result.Message, which carries the code.
func (k FailureKind) Message() string {
	switch k {
	case FailureNone:
		return "Process completed successfully"
	case FailureFailedToStart:
		return "The process failed to start."
	case FailureCrashed:
		return "The process crashed."
	case FailureTimedOut:
		return "The process timed out."
	case FailureReadError:
		return "Error reading from the process."
	case FailureWriteError:
		return "Error writing to the process."
	case FailureExitCode:
		return "Process failed with a non-zero exit code"
	case FailureCancelled:
		return "The process was cancelled."
	default:
		return "An unknown error occurred."
	}
}

// Result describes how the last run ended.
type Result struct {
	State    State
	Kind     FailureKind
	ExitCode int // -1 when the process did not exit normally
	Message  string
	Duration time.Duration
}

// Success reports whether the run completed with exit status 0.
func (r Result) Success() bool {
	return r.State == StateCompleted
}

var (
	// ErrAlreadyRunning is returned by Launch while a run is in progress.
	ErrAlreadyRunning = errors.New("a build process is already running")
	// ErrClosed is returned by Launch after Close.
	ErrClosed = errors.New("runner is closed")
	// ErrScriptFile wraps failures to create or write the temporary script.
	ErrScriptFile = errors.New("failed to create temporary script file")
)

// PermissionError reports that the temporary script could not be made
// executable.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("failed to make script executable %s: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// StartError reports that the process could not be started.
type StartError struct {
	Err error
}

func (e *StartError) Error() string {
	return "failed to start process: " + e.Err.Error()
}

func (e *StartError) Unwrap() error {
	return e.Err
}
