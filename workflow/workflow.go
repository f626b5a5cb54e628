package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/vishnudev-k/bee-agent-framework/core"
	"github.com/vishnudev-k/bee-agent-framework/emitter"
	"github.com/vishnudev-k/bee-agent-framework/logging"
)

var (
	// ErrStepNotFound reports an operation on a step name absent from the
	// workflow.
	ErrStepNotFound = errors.New("workflow step not found")

	// ErrMaxIterations reports that a run hit its total step invocation bound.
	// Terminal; never retried.
	ErrMaxIterations = errors.New("workflow exceeded max iterations")
)

// Step lifecycle event names emitted on the run bus. Payloads are StepEvent.
const (
	EventStepStart   = "step_start"
	EventStepSuccess = "step_success"
	EventStepError   = "step_error"
	EventRetry       = "retry"
)

// StepEvent is the payload of step lifecycle and retry events.
type StepEvent struct {
	// Step is the step name (for EventRetry, the step whose failure caused
	// the restart).
	Step string
	// Attempt is the 1-based attempt within the current pass (for EventRetry,
	// the 1-based restart number).
	Attempt int
	// Err carries the failure on EventStepError and EventRetry.
	Err error
}

// StepFunc is one named unit of work in a workflow. It receives the committed
// state and returns the next committed state; the return value of a failed
// attempt is discarded, so retries and restarts always start from committed
// state.
type StepFunc[S any] func(rc *core.RunContext, state S) (S, error)

// StepExecution records one step invocation of a run, in execution order.
type StepExecution struct {
	Name    string
	Attempt int
	Err     error
}

// RunOutput is the result of a workflow run.
type RunOutput[S any] struct {
	// State is the final committed state.
	State S
	// Steps is the execution trace across all passes and retries.
	Steps []StepExecution
}

// Options configures a Workflow.
type Options struct {
	// Logger receives workflow diagnostics. Defaults to a no-op logger.
	Logger logging.Logger
}

// WithLogger sets the workflow's logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// RunOptions configures a single workflow run.
type RunOptions struct {
	// Execution bounds retry behavior. Nil means framework defaults.
	Execution *core.ExecutionConfig
}

// WithExecutionConfig sets the execution policy for a run.
func WithExecutionConfig(cfg core.ExecutionConfig) func(o *RunOptions) {
	return func(o *RunOptions) {
		o.Execution = &cfg
	}
}

// Workflow executes named steps sequentially, in insertion order, against one
// shared state value threaded from step to step.
//
// The step list may be mutated freely between runs; a run snapshots it at
// start, so mutations during an in-flight run affect the next run only. At
// most one run may be active at a time.
type Workflow[S any] struct {
	core.Lifecycle

	name   string
	em     *emitter.Emitter
	logger logging.Logger

	mu    sync.Mutex
	steps *orderedmap.OrderedMap[string, StepFunc[S]]

	destroyOnce sync.Once
}

// step is a snapshot entry: one name bound to one function.
type step[S any] struct {
	name string
	fn   StepFunc[S]
}

// New creates an empty workflow.
func New[S any](name string, optFns ...func(o *Options)) *Workflow[S] {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if name == "" {
		name = "Workflow"
	}

	return &Workflow[S]{
		name:   name,
		em:     emitter.New("workflow:" + name),
		logger: opts.Logger,
		steps:  orderedmap.New[string, StepFunc[S]](),
	}
}

// Name returns the workflow's name.
func (w *Workflow[S]) Name() string { return w.name }

// AddStep appends the named step to the end of the pipeline. When the name is
// already present the step is replaced in place, retaining its position.
func (w *Workflow[S]) AddStep(name string, fn StepFunc[S]) error {
	if name == "" {
		return core.NewValidationError("step name must not be empty")
	}
	if fn == nil {
		return core.NewValidationError("step function must not be nil")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.steps.Set(name, fn)
	return nil
}

// DeleteStep removes the named step from both the order and the mapping.
// Returns ErrStepNotFound when the name is absent.
func (w *Workflow[S]) DeleteStep(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, present := w.steps.Delete(name); !present {
		return fmt.Errorf("%w: %q", ErrStepNotFound, name)
	}
	return nil
}

// HasStep reports whether the named step is present.
func (w *Workflow[S]) HasStep(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, present := w.steps.Get(name)
	return present
}

// StepNames returns the currently-present step names in insertion order.
func (w *Workflow[S]) StepNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	names := make([]string, 0, w.steps.Len())
	for pair := w.steps.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of steps.
func (w *Workflow[S]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps.Len()
}

// Emitter returns the workflow's root event bus. Run-scoped buses are created
// as children of it, so listeners registered here observe every run.
func (w *Workflow[S]) Emitter() *emitter.Emitter { return w.em }

// Logger returns the workflow's logger.
func (w *Workflow[S]) Logger() logging.Logger { return w.logger }

// Destroy releases the workflow's root event bus. Idempotent; an in-flight
// run is not cancelled.
func (w *Workflow[S]) Destroy() {
	w.destroyOnce.Do(func() {
		w.logger.Debug("workflow.destroy", "workflow", w.name)
		w.em.Destroy()
	})
}

// Run executes the current steps in insertion order against state seeded from
// initial and returns the run handle. A run already in flight fails with
// core.ErrConcurrentRun.
//
// Retry policy: a failing step is retried up to MaxRetriesPerStep additional
// times within the pass; when it exhausts that budget the whole workflow
// restarts from the initial state, up to TotalMaxRetries times. MaxIterations
// bounds total step invocations across everything; exceeding it resolves the
// run with ErrMaxIterations. Cancellation, validation failures and re-entry
// are terminal at every level.
func (w *Workflow[S]) Run(ctx context.Context, initial S, optFns ...func(o *RunOptions)) (*core.Run[RunOutput[S]], error) {
	opts := RunOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := core.DefaultExecutionConfig()
	if opts.Execution != nil {
		cfg = *opts.Execution
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := w.snapshot()

	return core.Enter(ctx, w, func(rc *core.RunContext) (RunOutput[S], error) {
		return w.execute(rc, steps, initial, cfg)
	})
}

// snapshot copies the current pipeline in insertion order.
func (w *Workflow[S]) snapshot() []step[S] {
	w.mu.Lock()
	defer w.mu.Unlock()

	steps := make([]step[S], 0, w.steps.Len())
	for pair := w.steps.Oldest(); pair != nil; pair = pair.Next() {
		steps = append(steps, step[S]{name: pair.Key, fn: pair.Value})
	}
	return steps
}

func (w *Workflow[S]) execute(rc *core.RunContext, steps []step[S], initial S, cfg core.ExecutionConfig) (RunOutput[S], error) {
	out := RunOutput[S]{State: initial}

	if len(steps) == 0 {
		return out, nil
	}

	iterations := 0

	for pass := 0; ; pass++ {
		state, failedStep, err := w.runPass(rc, steps, initial, cfg, &iterations, &out.Steps)
		if err == nil {
			out.State = state
			return out, nil
		}

		if isTerminalError(err) || pass >= cfg.TotalMaxRetries {
			return out, err
		}

		restart := pass + 1
		rc.Emit(EventRetry, StepEvent{Step: failedStep, Attempt: restart, Err: err})
		rc.LogWarn("workflow.retry",
			"workflow", w.name, "step", failedStep, "restart", restart, "error", err.Error())
	}
}

// runPass executes every step once from the initial state, returning the
// final state or the name of the step whose retry budget was exhausted.
func (w *Workflow[S]) runPass(
	rc *core.RunContext,
	steps []step[S],
	initial S,
	cfg core.ExecutionConfig,
	iterations *int,
	trace *[]StepExecution,
) (S, string, error) {
	state := initial

	for _, st := range steps {
		next, err := w.runStep(rc, st, state, cfg, iterations, trace)
		if err != nil {
			return state, st.name, err
		}
		state = next
	}

	return state, "", nil
}

// runStep executes one step with per-step retries, committing state only on
// success.
func (w *Workflow[S]) runStep(
	rc *core.RunContext,
	st step[S],
	state S,
	cfg core.ExecutionConfig,
	iterations *int,
	trace *[]StepExecution,
) (S, error) {
	maxAttempts := 1 + cfg.MaxRetriesPerStep

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := rc.Err(); err != nil {
			return state, err
		}

		*iterations++
		if *iterations > cfg.MaxIterations {
			return state, fmt.Errorf("%w (max %d)", ErrMaxIterations, cfg.MaxIterations)
		}

		rc.Emit(EventStepStart, StepEvent{Step: st.name, Attempt: attempt})
		rc.LogDebug("workflow.step.start", "workflow", w.name, "step", st.name, "attempt", attempt)

		next, err := st.fn(rc, state)
		*trace = append(*trace, StepExecution{Name: st.name, Attempt: attempt, Err: err})

		if err == nil {
			rc.Emit(EventStepSuccess, StepEvent{Step: st.name, Attempt: attempt})
			rc.LogDebug("workflow.step.success", "workflow", w.name, "step", st.name, "attempt", attempt)
			return next, nil
		}

		rc.Emit(EventStepError, StepEvent{Step: st.name, Attempt: attempt, Err: err})
		rc.LogWarn("workflow.step.error",
			"workflow", w.name, "step", st.name, "attempt", attempt, "error", err.Error())

		if isTerminalError(err) {
			return state, err
		}

		lastErr = err
	}

	return state, fmt.Errorf("step %q failed after %d attempts: %w", st.name, maxAttempts, lastErr)
}

// isTerminalError reports failures that must never be retried at any level:
// cancellation, validation failures, concurrent re-entry and the iteration
// guard.
func isTerminalError(err error) bool {
	var (
		validationErr *core.ValidationError
		cancelledErr  *core.CancelledError
	)

	return errors.Is(err, ErrMaxIterations) ||
		errors.Is(err, core.ErrConcurrentRun) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &validationErr) ||
		errors.As(err, &cancelledErr)
}
