package workflow

import (
	"context"
	"fmt"

	"github.com/vishnudev-k/bee-agent-framework/agent"
	"github.com/vishnudev-k/bee-agent-framework/backend"
	"github.com/vishnudev-k/bee-agent-framework/core"
	"github.com/vishnudev-k/bee-agent-framework/emitter"
	"github.com/vishnudev-k/bee-agent-framework/memory"
	"github.com/vishnudev-k/bee-agent-framework/tool"
)

// AgentWorkflowState is the shared state threaded through agent steps: the
// evolving conversation plus the final answer produced by the last step that
// set one.
type AgentWorkflowState struct {
	Messages    []backend.Message
	FinalAnswer string
}

// AgentFactory builds a step's agent at execution time. It receives a fresh
// unconstrained memory seeded with the conversation so far.
type AgentFactory func(mem memory.Memory) (agent.Agent, error)

// AgentInput describes an agent step constructed by AddAgent.
type AgentInput struct {
	Name         string
	Instructions string
	LLM          backend.ChatModel
	Tools        []tool.Tool
}

// AgentWorkflow composes agents into a sequential pipeline over a shared
// conversation. Each step runs one agent against the state's messages and
// folds the produced message back into the state.
//
// Steps bound via factories get a fresh memory per execution; steps bound to
// an agent instance reuse that instance, and its memory, as is. Prefer
// factories when per-run memory isolation matters.
type AgentWorkflow struct {
	wf *Workflow[AgentWorkflowState]
}

// NewAgentWorkflow creates an empty agent pipeline.
func NewAgentWorkflow(name string, optFns ...func(o *Options)) *AgentWorkflow {
	return &AgentWorkflow{
		wf: New[AgentWorkflowState](name, optFns...),
	}
}

// Workflow exposes the underlying engine for step inspection and mutation
// beyond the agent-flavored surface.
func (aw *AgentWorkflow) Workflow() *Workflow[AgentWorkflowState] { return aw.wf }

// AddStep binds an already-constructed agent as a step, replacing in place if
// the name exists. The instance is reused across executions and keeps its own
// memory; it receives the full state conversation as input.
func (aw *AgentWorkflow) AddStep(name string, a agent.Agent) error {
	if a == nil {
		return core.NewValidationError("agent must not be nil")
	}

	return aw.wf.AddStep(name, func(rc *core.RunContext, state AgentWorkflowState) (AgentWorkflowState, error) {
		if len(state.Messages) == 0 {
			return state, core.NewValidationError("agent step requires at least one message in state")
		}

		msgs := make([]backend.Message, len(state.Messages))
		copy(msgs, state.Messages)

		return aw.runAgent(rc, state, a, agent.RunInput{Messages: msgs})
	})
}

// AddStepFactory binds a factory invoked on every execution of the step. The
// factory receives a fresh memory seeded with all but the newest state
// message; the built agent is then run with the newest message as its input,
// so its model sees the whole conversation exactly once.
func (aw *AgentWorkflow) AddStepFactory(name string, factory AgentFactory) error {
	if factory == nil {
		return core.NewValidationError("agent factory must not be nil")
	}

	return aw.wf.AddStep(name, func(rc *core.RunContext, state AgentWorkflowState) (AgentWorkflowState, error) {
		if len(state.Messages) == 0 {
			return state, core.NewValidationError("agent step requires at least one message in state")
		}

		history, current := splitConversation(state.Messages)

		mem := memory.NewUnconstrainedMemory()
		if err := memory.AddMany(rc.Context, mem, history...); err != nil {
			return state, fmt.Errorf("seed step memory: %w", err)
		}

		a, err := factory(mem)
		if err != nil {
			return state, fmt.Errorf("step %q factory: %w", name, err)
		}
		if a == nil {
			return state, core.NewValidationError(fmt.Sprintf("step %q factory returned nil agent", name))
		}

		return aw.runAgent(rc, state, a, agent.RunInput{Messages: current})
	})
}

// AddAgent appends a factory step building a ChatAgent from the given
// description on every execution.
func (aw *AgentWorkflow) AddAgent(input AgentInput) error {
	if input.Name == "" {
		return core.NewValidationError("agent input requires a name")
	}
	if input.LLM == nil {
		return core.NewValidationError("agent input requires a model")
	}

	return aw.AddStepFactory(input.Name, func(mem memory.Memory) (agent.Agent, error) {
		return agent.NewChatAgent(input.LLM, func(o *agent.ChatAgentOptions) {
			o.Name = input.Name
			o.Instructions = agent.NewInstructionFromText(input.Instructions)
			o.Tools = input.Tools
			o.Memory = mem
			o.Logger = aw.wf.logger
		}), nil
	})
}

// DeleteStep removes the named step. Returns ErrStepNotFound when absent.
func (aw *AgentWorkflow) DeleteStep(name string) error { return aw.wf.DeleteStep(name) }

// StepNames returns the currently-present step names in insertion order.
func (aw *AgentWorkflow) StepNames() []string { return aw.wf.StepNames() }

// Run executes the pipeline against a state seeded from messages.
func (aw *AgentWorkflow) Run(ctx context.Context, messages []backend.Message, optFns ...func(o *RunOptions)) (*core.Run[RunOutput[AgentWorkflowState]], error) {
	seed := make([]backend.Message, len(messages))
	copy(seed, messages)

	return aw.wf.Run(ctx, AgentWorkflowState{Messages: seed}, optFns...)
}

// Destroy releases the underlying workflow's event resources.
func (aw *AgentWorkflow) Destroy() { aw.wf.Destroy() }

// runAgent executes one nested agent run, piping its events into the
// workflow's run bus, and folds the produced message into the state.
func (aw *AgentWorkflow) runAgent(rc *core.RunContext, state AgentWorkflowState, a agent.Agent, input agent.RunInput) (AgentWorkflowState, error) {
	run, err := a.Run(rc.Context, input)
	if err != nil {
		return state, err
	}

	run.Observe(func(em *emitter.Emitter) {
		em.Pipe(rc.Emitter())
	})

	out, err := run.Wait()
	if err != nil {
		return state, err
	}

	state.Messages = append(state.Messages, out.Result)
	if out.Result.Text != "" {
		state.FinalAnswer = out.Result.Text
	}

	return state, nil
}

// splitConversation separates the newest message from the history before it.
func splitConversation(msgs []backend.Message) (history, current []backend.Message) {
	last := len(msgs) - 1
	history = make([]backend.Message, last)
	copy(history, msgs[:last])
	current = []backend.Message{msgs[last]}
	return history, current
}
