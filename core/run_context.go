package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vishnudev-k/bee-agent-framework/emitter"
)

// Lifecycle event names emitted on every run bus. EventError doubles as the
// out-of-band channel for listener failures (see emitter.ErrorEventName);
// payloads tell the two apart.
const (
	EventStart   = "start"
	EventSuccess = "success"
	EventError   = emitter.ErrorEventName
	EventFinish  = "finish"
)

// RunContext is the per-invocation execution scope handed to a run's work
// function. It owns exactly one event bus and one cancellation signal for the
// lifetime of a single run and is destroyed when that run resolves. It is
// never shared across concurrent runs.
type RunContext struct {
	// Context carries the run's cancellation signal, derived from the
	// caller's context so an externally cancelled parent propagates in.
	Context context.Context

	// RunID uniquely identifies this invocation.
	RunID string

	cancel  context.CancelFunc
	emitter *emitter.Emitter

	*loggerAdapter
}

// Emitter returns the run-scoped event bus.
func (rc *RunContext) Emitter() *emitter.Emitter { return rc.emitter }

// Emit publishes an event on the run bus.
func (rc *RunContext) Emit(name string, payload any) { rc.emitter.Emit(name, payload) }

// Done returns a channel closed when the run's signal fires.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the run's signal.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// Cancel fires the run's cancellation signal.
func (rc *RunContext) Cancel() { rc.cancel() }

// Enter begins a run on inst and returns its handle immediately.
//
// It acquires the instance's single-flight flag (failing with
// ErrConcurrentRun, unwrapped, when a prior run is still unresolved), builds
// a fresh replaying bus nested under the instance's root bus, derives the
// cancellation signal from ctx and executes work on its own goroutine.
//
// The run bus sees EventStart before the work, then EventSuccess or
// EventError, then EventFinish. On every exit path, in order: the running
// flag is released, the bus is destroyed and the handle resolves. Failures
// are normalized into the framework taxonomy before resolution; panics
// inside work are recovered and treated as failures.
func Enter[T any](ctx context.Context, inst RunInstance, work func(rc *RunContext) (T, error)) (*Run[T], error) {
	if inst == nil {
		return nil, NewValidationError("run instance must not be nil")
	}

	if work == nil {
		return nil, NewValidationError("work function must not be nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := inst.Begin(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)

	rc := &RunContext{
		Context:       runCtx,
		RunID:         runID,
		cancel:        cancel,
		emitter:       inst.Emitter().Child("run:"+runID, emitter.WithReplay()),
		loggerAdapter: newLoggerAdapter(inst.Logger()),
	}

	r := newRun[T](rc)

	go func() {
		rc.LogDebug("run.start", "run_id", runID, "source", inst.Emitter().Source())
		rc.Emit(EventStart, nil)

		output, err := execute(rc, work)
		err = normalize(rc, err)

		if err != nil {
			var zero T
			output = zero

			rc.Emit(EventError, err)
			rc.LogError("run.error", "run_id", runID, "error", err.Error())
		} else {
			rc.Emit(EventSuccess, output)
			rc.LogDebug("run.success", "run_id", runID)
		}

		rc.Emit(EventFinish, nil)

		inst.End()
		rc.emitter.Destroy()
		cancel()
		r.resolve(output, err)
	}()

	return r, nil
}

// execute invokes work with panic recovery. A signal that fired before the
// work had a chance to start short-circuits into the cancellation path.
func execute[T any](rc *RunContext, work func(rc *RunContext) (T, error)) (output T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("work panicked: %v", rec)
		}
	}()

	if cerr := rc.Err(); cerr != nil {
		return output, cerr
	}

	return work(rc)
}

// normalize maps a raw work failure onto the framework taxonomy. Recognized
// framework errors pass through untouched (including nested runs' already
// normalized failures), anything carrying a context cancellation, and any
// failure surfaced while the run's own signal stands fired, becomes a
// CancelledError, and the remainder is wrapped as an ExecutionError.
func normalize(rc *RunContext, err error) error {
	if err == nil {
		return nil
	}

	if isFrameworkError(err) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || rc.Err() != nil {
		return NewCancelledError(err)
	}

	return NewExecutionError(err)
}
