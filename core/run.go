package core

import (
	"github.com/vishnudev-k/bee-agent-framework/emitter"
)

// Run is the future-like handle returned when a run starts. The work executes
// on its own goroutine immediately; the caller decides when to await the
// result and may attach observers in between.
type Run[T any] struct {
	rc     *RunContext
	done   chan struct{}
	output T
	err    error
}

func newRun[T any](rc *RunContext) *Run[T] {
	return &Run[T]{rc: rc, done: make(chan struct{})}
}

// Observe invokes fn with the run's event bus so listeners can be registered.
// It returns the handle for chaining. Because run buses replay their journal
// to late registrations, an observer attached at any point before the run
// resolves receives the complete event history in emission order. Observing
// after resolution registers nothing: the bus is destroyed when the run
// concludes.
func (r *Run[T]) Observe(fn func(em *emitter.Emitter)) *Run[T] {
	if fn != nil {
		fn(r.rc.Emitter())
	}

	return r
}

// Wait blocks until the run resolves, returning its output or error exactly
// as normalized by the run context.
func (r *Run[T]) Wait() (T, error) {
	<-r.done
	return r.output, r.err
}

// Done returns a channel closed once the run has resolved.
func (r *Run[T]) Done() <-chan struct{} { return r.done }

// Cancel fires the run's cancellation signal. The run resolves with a
// CancelledError once the work unwinds; already-resolved runs are unaffected.
func (r *Run[T]) Cancel() { r.rc.Cancel() }

// Context returns the run-scoped execution context.
func (r *Run[T]) Context() *RunContext { return r.rc }

// resolve publishes the final result and unblocks every waiter. Called
// exactly once, after the instance's running flag is released and the run
// bus destroyed.
func (r *Run[T]) resolve(output T, err error) {
	r.output = output
	r.err = err
	close(r.done)
}
