package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Error Taxonomy Tests --------------------

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("run input requires a prompt")
	assert.Equal(t, "validation failed: run input requires a prompt", err.Error())
}

func TestExecutionError_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewExecutionError(cause)

	assert.Equal(t, "execution failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestCancelledError_Message(t *testing.T) {
	assert.Equal(t, "run cancelled", NewCancelledError(nil).Error())

	cause := errors.New("deadline hit")
	err := NewCancelledError(cause)
	assert.Equal(t, "run cancelled: deadline hit", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestErrorsMatchableThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while running step: %w", NewExecutionError(errors.New("boom")))

	var execErr *ExecutionError
	require.ErrorAs(t, wrapped, &execErr)
	assert.ErrorContains(t, execErr, "boom")

	assert.ErrorIs(t, fmt.Errorf("outer: %w", ErrConcurrentRun), ErrConcurrentRun)
}

func TestIsFrameworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "concurrent run sentinel", err: ErrConcurrentRun, want: true},
		{name: "wrapped sentinel", err: fmt.Errorf("outer: %w", ErrConcurrentRun), want: true},
		{name: "validation", err: NewValidationError("bad"), want: true},
		{name: "execution", err: NewExecutionError(errors.New("boom")), want: true},
		{name: "cancelled", err: NewCancelledError(nil), want: true},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isFrameworkError(tt.err))
		})
	}
}
