package cmd

import (
	"errors"
	"fmt"

	"github.com/xdg/llvmbuilder/internal/fielddefaults"
	"github.com/xdg/llvmbuilder/internal/presets"
	"github.com/xdg/llvmbuilder/internal/settings"
)

// ExitCodeError carries a specific process exit status to main.
type ExitCodeError struct {
	Code int
}

// NewExitCodeError returns an ExitCodeError for code.
func NewExitCodeError(code int) *ExitCodeError {
	return &ExitCodeError{Code: code}
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// presetError turns preset store errors into user-friendly messages.
// Other errors are returned wrapped.
func presetError(err error, name string) error {
	switch {
	case errors.Is(err, presets.ErrNotFound):
		return fmt.Errorf("preset %q does not exist; run \"llvmbuilder preset list\" to see saved presets", name)
	case errors.Is(err, presets.ErrExists):
		return fmt.Errorf("preset %q already exists; use --force to replace it", name)
	case errors.Is(err, presets.ErrInvalidName):
		return fmt.Errorf("invalid preset name %q: use letters, digits, '.', '_' and '-', starting with a letter or digit", name)
	}
	return fmt.Errorf("preset %q: %w", name, err)
}

// keyError explains settings and field defaults key errors.
// Returns nil if the error is not a key error.
func keyError(err error, key string) error {
	switch {
	case errors.Is(err, settings.ErrUnknownKey):
		return fmt.Errorf("unknown option %q; run \"llvmbuilder settings keys\" to list options", key)
	case errors.Is(err, fielddefaults.ErrNotDefaultable):
		return fmt.Errorf("option %q cannot have a remembered default; defaultable options are paths, projects, runtimes and compilers", key)
	}
	return nil
}
