package agent

import (
	"fmt"

	"github.com/vishnudev-k/bee-agent-framework/backend"
	"github.com/vishnudev-k/bee-agent-framework/core"
	"github.com/vishnudev-k/bee-agent-framework/logging"
	"github.com/vishnudev-k/bee-agent-framework/memory"
	"github.com/vishnudev-k/bee-agent-framework/tool"
)

// ChatAgentOptions configures a ChatAgent instance.
//
// Use functional options with NewChatAgent to override defaults.
type ChatAgentOptions struct {
	Name         string
	Description  string
	Instructions Instruction
	Tools        []tool.Tool
	Memory       memory.Memory
	Logger       logging.Logger
}

// ChatAgent answers each invocation with a single chat completion.
//
// It seeds the model call from its memory plus the run input, stores the
// exchange back into memory and emits an "update" event carrying the produced
// text. It performs no reasoning loop; tools listed in its metadata are
// descriptive only.
type ChatAgent struct {
	*BaseAgent
	llm          backend.ChatModel
	instructions Instruction
}

var _ Agent = (*ChatAgent)(nil)

// NewChatAgent creates a single-completion agent backed by the given model.
//
// Defaults: name "ChatAgent", unconstrained memory, no instructions, no-op
// logger.
func NewChatAgent(llm backend.ChatModel, optFns ...func(o *ChatAgentOptions)) *ChatAgent {
	opts := ChatAgentOptions{
		Name:   "ChatAgent",
		Memory: memory.NewUnconstrainedMemory(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Description == "" {
		opts.Description = "A conversational agent answering with a single chat completion"
	}

	a := &ChatAgent{
		llm:          llm,
		instructions: opts.Instructions,
	}

	a.BaseAgent = NewBaseAgent(
		Meta{Name: opts.Name, Description: opts.Description, Tools: opts.Tools},
		a.execute,
		func(o *BaseAgentOptions) {
			o.Memory = opts.Memory
			o.Logger = opts.Logger
		},
	)

	return a
}

func (a *ChatAgent) execute(rc *core.RunContext, input RunInput, opts RunOptions) (RunOutput, error) {
	if a.llm == nil {
		return RunOutput{}, core.NewValidationError("chat agent requires a model")
	}

	mem := a.Memory()

	if err := memory.AddMany(rc.Context, mem, input.messages()...); err != nil {
		return RunOutput{}, fmt.Errorf("store input: %w", err)
	}

	msgs := mem.Messages()

	if !a.instructions.IsZero() {
		text, err := a.instructions.Resolve(rc)
		if err != nil {
			return RunOutput{}, fmt.Errorf("resolve instructions: %w", err)
		}
		if text != "" {
			msgs = append([]backend.Message{backend.SystemMessage(text)}, msgs...)
		}
	}

	output, err := a.complete(rc, msgs, opts)
	if err != nil {
		return RunOutput{}, err
	}

	if err := mem.Add(rc.Context, output.Message); err != nil {
		return RunOutput{}, fmt.Errorf("store result: %w", err)
	}

	rc.Emit(EventUpdate, output.Message.Text)

	return RunOutput{Result: output.Message}, nil
}

// complete calls the model, retrying per the execution policy when one was
// provided. A cancelled run is never retried.
func (a *ChatAgent) complete(rc *core.RunContext, msgs []backend.Message, opts RunOptions) (*backend.ChatOutput, error) {
	attempts := 1
	if opts.Execution != nil {
		attempts += opts.Execution.MaxRetriesPerStep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := rc.Err(); err != nil {
			return nil, err
		}

		output, err := a.llm.Create(rc.Context, msgs)
		if err == nil {
			return output, nil
		}

		lastErr = err
		if attempt < attempts {
			rc.LogWarn("agent.completion.retry", "agent", a.meta.Name, "attempt", attempt, "error", err.Error())
		}
	}

	return nil, fmt.Errorf("chat completion failed: %w", lastErr)
}
