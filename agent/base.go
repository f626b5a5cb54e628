package agent

import (
	"context"
	"sync"

	"github.com/vishnudev-k/bee-agent-framework/core"
	"github.com/vishnudev-k/bee-agent-framework/emitter"
	"github.com/vishnudev-k/bee-agent-framework/logging"
	"github.com/vishnudev-k/bee-agent-framework/memory"
	"github.com/vishnudev-k/bee-agent-framework/tool"
)

// RunFunc is the work a concrete agent performs during one invocation. It
// receives the run context (event bus plus cancellation) together with the
// validated input and options.
type RunFunc func(rc *core.RunContext, input RunInput, opts RunOptions) (RunOutput, error)

// BaseAgentOptions configures the shared plumbing of a BaseAgent.
type BaseAgentOptions struct {
	// Memory holds the agent's conversation history. Defaults to an
	// unconstrained in-process memory.
	Memory memory.Memory
	// Logger receives lifecycle diagnostics. Defaults to a no-op logger.
	Logger logging.Logger
}

// BaseAgent bundles the single-flight lifecycle, root event bus, memory slot
// and metadata shared by all agents. Embed it in concrete implementations and
// supply a RunFunc; Run, Destroy, Memory/SetMemory, Meta and IsRunning are
// inherited. All exported methods are goroutine-safe.
type BaseAgent struct {
	core.Lifecycle

	meta   Meta
	runFn  RunFunc
	em     *emitter.Emitter
	logger logging.Logger

	memMu sync.RWMutex
	mem   memory.Memory

	destroyOnce sync.Once
}

// NewBaseAgent constructs the shared agent plumbing. Meta fields left empty
// are defaulted (generic name, generated description).
func NewBaseAgent(meta Meta, runFn RunFunc, optFns ...func(o *BaseAgentOptions)) *BaseAgent {
	opts := BaseAgentOptions{
		Memory: memory.NewUnconstrainedMemory(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if meta.Name == "" {
		meta.Name = "Agent"
	}
	if meta.Description == "" {
		meta.Description = "Agent " + meta.Name
	}

	return &BaseAgent{
		meta:   meta,
		runFn:  runFn,
		em:     emitter.New("agent:" + meta.Name),
		logger: opts.Logger,
		mem:    opts.Memory,
	}
}

// Run validates input and options, then enters the run lifecycle. The
// returned handle resolves with the RunFunc's result; a run already in flight
// fails with core.ErrConcurrentRun.
func (a *BaseAgent) Run(ctx context.Context, input RunInput, optFns ...func(o *RunOptions)) (*core.Run[RunOutput], error) {
	opts := RunOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if a.runFn == nil {
		return nil, core.NewValidationError("agent has no run function; embed BaseAgent in a concrete agent")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return core.Enter(ctx, a, func(rc *core.RunContext) (RunOutput, error) {
		return a.runFn(rc, input, opts)
	})
}

// Destroy releases the agent's root event bus. Idempotent; an in-flight run
// is not cancelled.
func (a *BaseAgent) Destroy() {
	a.destroyOnce.Do(func() {
		a.logger.Debug("agent.destroy", "agent", a.meta.Name)
		a.em.Destroy()
	})
}

// Memory returns the agent's conversational memory.
func (a *BaseAgent) Memory() memory.Memory {
	a.memMu.RLock()
	defer a.memMu.RUnlock()
	return a.mem
}

// SetMemory replaces the agent's conversational memory.
func (a *BaseAgent) SetMemory(mem memory.Memory) {
	a.memMu.Lock()
	defer a.memMu.Unlock()
	a.mem = mem
}

// Meta returns a copy of the agent's descriptive metadata.
func (a *BaseAgent) Meta() Meta {
	meta := a.meta
	if len(a.meta.Tools) > 0 {
		meta.Tools = append([]tool.Tool(nil), a.meta.Tools...)
	}
	return meta
}

// Emitter returns the agent's root event bus. Run-scoped buses are created
// as children of it, so listeners registered here observe every run.
func (a *BaseAgent) Emitter() *emitter.Emitter { return a.em }

// Logger returns the agent's logger.
func (a *BaseAgent) Logger() logging.Logger { return a.logger }
