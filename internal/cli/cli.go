// Package cli maps run outcomes onto the documented process exit codes.
package cli

import (
	"context"
	"errors"

	"github.com/goliatone/go-templfill/internal/discovery"
	"github.com/goliatone/go-templfill/pkg/output"
	"github.com/goliatone/go-templfill/pkg/values"
)

// Exit codes for automation and scripting.
const (
	ExitSuccess         = 0
	ExitInvalidInput    = 1
	ExitFileNotFound    = 2
	ExitPermissionError = 3
	ExitProcessingError = 4
	ExitInterrupted     = 130
)

// ExitError pairs an error message with a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Wrap classifies err into an ExitError. A nil err returns nil.
func Wrap(err error) *ExitError {
	if err == nil {
		return nil
	}
	return &ExitError{Code: CodeFor(err), Message: err.Error()}
}

// CodeFor maps an error to its exit code: referenced files that do not exist
// exit 2, permission problems exit 3, interruption exits 130, and every
// other pre-render failure is invalid input.
func CodeFor(err error) int {
	var (
		valuesNotFound *values.FileNotFoundError
		permission     *output.PermissionError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitInterrupted
	case errors.As(err, &valuesNotFound), errors.Is(err, discovery.ErrNoTemplates):
		return ExitFileNotFound
	case errors.As(err, &permission):
		return ExitPermissionError
	default:
		return ExitInvalidInput
	}
}
