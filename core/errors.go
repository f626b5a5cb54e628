package core

import (
	"errors"
	"fmt"
)

// ErrConcurrentRun reports re-entry on an instance whose previous run has not
// resolved yet. It is a programming error, never retried, and always passed
// through unwrapped so callers can tell "already running" apart from "failed
// while running".
var ErrConcurrentRun = errors.New("run already in progress")

// ValidationError reports malformed run input or options. It fails fast and
// is never retried.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message
}

// ExecutionError wraps an unexpected failure raised inside a run's work. It
// is the retry-eligible kind of the taxonomy; the original failure stays
// reachable through Unwrap.
type ExecutionError struct {
	Cause error
}

// NewExecutionError wraps cause as an ExecutionError.
func NewExecutionError(cause error) *ExecutionError {
	return &ExecutionError{Cause: cause}
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed: %v", e.Cause)
}

// Unwrap returns the original failure.
func (e *ExecutionError) Unwrap() error { return e.Cause }

// CancelledError resolves a run whose cancellation signal fired before
// completion. Terminal, never retried. The context error (or whatever the
// work surfaced while unwinding) stays reachable through Unwrap.
type CancelledError struct {
	Cause error
}

// NewCancelledError wraps cause as a CancelledError.
func NewCancelledError(cause error) *CancelledError {
	return &CancelledError{Cause: cause}
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	if e.Cause == nil {
		return "run cancelled"
	}
	return fmt.Sprintf("run cancelled: %v", e.Cause)
}

// Unwrap returns the underlying cancellation cause.
func (e *CancelledError) Unwrap() error { return e.Cause }

// isFrameworkError reports whether err already belongs to the taxonomy and
// must pass through normalization untouched.
func isFrameworkError(err error) bool {
	var (
		validationErr *ValidationError
		executionErr  *ExecutionError
		cancelledErr  *CancelledError
	)

	return errors.Is(err, ErrConcurrentRun) ||
		errors.As(err, &validationErr) ||
		errors.As(err, &executionErr) ||
		errors.As(err, &cancelledErr)
}
