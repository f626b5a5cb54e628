package core

// Default execution policy bounds applied when run options leave the
// corresponding field unset.
const (
	DefaultTotalMaxRetries   = 2
	DefaultMaxRetriesPerStep = 3
	DefaultMaxIterations     = 20
)

// ExecutionConfig bounds retry behavior for a run. The zero value is not
// meaningful; start from DefaultExecutionConfig and override fields.
type ExecutionConfig struct {
	// TotalMaxRetries caps whole-workflow restarts after a step exhausts its
	// own retry budget.
	TotalMaxRetries int
	// MaxRetriesPerStep caps additional attempts of a single failing step
	// beyond its first, within one workflow pass.
	MaxRetriesPerStep int
	// MaxIterations bounds the total number of step executions across all
	// retries. Exceeding it terminates the run; it is never retried.
	MaxIterations int
}

// DefaultExecutionConfig returns the framework default bounds.
func DefaultExecutionConfig() ExecutionConfig {
	return ExecutionConfig{
		TotalMaxRetries:   DefaultTotalMaxRetries,
		MaxRetriesPerStep: DefaultMaxRetriesPerStep,
		MaxIterations:     DefaultMaxIterations,
	}
}

// Validate checks the config bounds, reporting the first violation as a
// ValidationError.
func (c ExecutionConfig) Validate() error {
	if c.TotalMaxRetries < 0 {
		return NewValidationError("total max retries must not be negative")
	}

	if c.MaxRetriesPerStep < 0 {
		return NewValidationError("max retries per step must not be negative")
	}

	if c.MaxIterations < 1 {
		return NewValidationError("max iterations must be at least 1")
	}

	return nil
}
