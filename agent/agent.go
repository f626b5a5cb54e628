package agent

import (
	"context"

	"github.com/vishnudev-k/bee-agent-framework/backend"
	"github.com/vishnudev-k/bee-agent-framework/core"
	"github.com/vishnudev-k/bee-agent-framework/memory"
	"github.com/vishnudev-k/bee-agent-framework/tool"
)

// Agent is the capability set every runnable agent exposes.
//
// At most one Run may be active per agent instance; a second call while the
// first is unresolved fails with core.ErrConcurrentRun. Destroy releases the
// agent's event resources and is idempotent; it does not cancel an in-flight
// run.
type Agent interface {
	// Run starts one invocation and returns its handle. Input and option
	// validation failures surface immediately as the error return.
	Run(ctx context.Context, input RunInput, optFns ...func(o *RunOptions)) (*core.Run[RunOutput], error)

	// Destroy releases the agent's event bus resources.
	Destroy()

	// Memory returns the agent's conversational memory.
	Memory() memory.Memory

	// SetMemory replaces the agent's conversational memory.
	SetMemory(mem memory.Memory)

	// Meta returns descriptive metadata about the agent.
	Meta() Meta

	// IsRunning reports whether a run is currently in flight.
	IsRunning() bool
}

// Meta describes an agent: its name, purpose and the tools it may call.
type Meta struct {
	Name        string
	Description string
	Tools       []tool.Tool
}

// RunInput is the payload for one agent invocation. Provide a prompt, prior
// messages, or both. Treated as immutable once handed to a run.
type RunInput struct {
	// Prompt is appended to the conversation as a user message.
	Prompt string
	// Messages are prior conversation turns to process.
	Messages []backend.Message
}

// Validate checks that the input carries something to act on.
func (i RunInput) Validate() error {
	if i.Prompt == "" && len(i.Messages) == 0 {
		return core.NewValidationError("run input requires a prompt or messages")
	}
	return nil
}

// messages renders the input as a message slice, turning a prompt into a
// trailing user message.
func (i RunInput) messages() []backend.Message {
	msgs := make([]backend.Message, 0, len(i.Messages)+1)
	msgs = append(msgs, i.Messages...)
	if i.Prompt != "" {
		msgs = append(msgs, backend.UserMessage(i.Prompt))
	}
	return msgs
}

// RunOptions configures a single agent invocation. Cancellation is carried by
// the context passed to Run.
type RunOptions struct {
	// Execution bounds retry behavior for agents that perform internal
	// retries. Nil means a single attempt.
	Execution *core.ExecutionConfig
}

// Validate checks the execution config when present.
func (o RunOptions) Validate() error {
	if o.Execution != nil {
		return o.Execution.Validate()
	}
	return nil
}

// WithExecutionConfig sets the execution policy for a run.
func WithExecutionConfig(cfg core.ExecutionConfig) func(o *RunOptions) {
	return func(o *RunOptions) {
		o.Execution = &cfg
	}
}

// RunOutput is the result of one agent invocation.
type RunOutput struct {
	// Result is the message the agent produced.
	Result backend.Message
}

// EventUpdate is emitted on the run bus when an agent produces output text.
const EventUpdate = "update"
