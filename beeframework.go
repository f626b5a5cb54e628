// Package beeframework provides a high-level façade over the framework's
// subpackages (agents, workflows, models, memory & logging) enabling rapid
// construction of agentic applications. Most applications interact with this
// package by:
//  1. Picking a chat model: a provider adapter (backend/openai,
//     backend/anthropic), backend.FromName for registry lookup, or
//     NewMockChatModel for offline development
//  2. Composing one or more agents into an AgentWorkflow (AddAgent for
//     declarative steps, AddStepFactory for full control)
//  3. Starting a run and observing its event stream, or simply waiting for
//     the folded final state
//
// The façade delegates to the underlying packages without adding behavior;
// applications needing the full surface (custom agents, generic workflows,
// token-bounded or persistent memory) import those packages directly. All
// defaults are safe for local development; production deployments typically
// supply a structured logger and a real provider adapter.
package beeframework

import (
	"github.com/vishnudev-k/bee-agent-framework/agent"
	"github.com/vishnudev-k/bee-agent-framework/backend"
	"github.com/vishnudev-k/bee-agent-framework/core"
	"github.com/vishnudev-k/bee-agent-framework/memory"
	"github.com/vishnudev-k/bee-agent-framework/workflow"
)

// Conversation and composition types re-exported for the common path.
type (
	// Message is one turn of a conversation.
	Message = backend.Message
	// Role identifies the author of a message.
	Role = backend.Role
	// ChatModel is the completion interface agents consume.
	ChatModel = backend.ChatModel
	// Memory stores a conversation on behalf of an agent.
	Memory = memory.Memory
	// Agent is the contract every runnable agent satisfies.
	Agent = agent.Agent
	// AgentWorkflow composes agents into a sequential pipeline.
	AgentWorkflow = workflow.AgentWorkflow
	// AgentInput describes an agent step for AgentWorkflow.AddAgent.
	AgentInput = workflow.AgentInput
	// AgentWorkflowState is the state threaded through agent workflow steps.
	AgentWorkflowState = workflow.AgentWorkflowState
	// ExecutionConfig bounds retry behavior for a run.
	ExecutionConfig = core.ExecutionConfig
)

// Message roles.
const (
	RoleSystem    = backend.RoleSystem
	RoleUser      = backend.RoleUser
	RoleAssistant = backend.RoleAssistant
	RoleTool      = backend.RoleTool
)

// SystemMessage builds a system message stamped with the current time.
func SystemMessage(text string) Message { return backend.SystemMessage(text) }

// UserMessage builds a user message stamped with the current time.
func UserMessage(text string) Message { return backend.UserMessage(text) }

// AssistantMessage builds an assistant message stamped with the current time.
func AssistantMessage(text string) Message { return backend.AssistantMessage(text) }

// NewAgentWorkflow creates an empty agent pipeline.
func NewAgentWorkflow(name string, optFns ...func(o *workflow.Options)) *workflow.AgentWorkflow {
	return workflow.NewAgentWorkflow(name, optFns...)
}

// NewChatAgent creates a conversational agent backed by llm.
func NewChatAgent(llm backend.ChatModel, optFns ...func(o *agent.ChatAgentOptions)) *agent.ChatAgent {
	return agent.NewChatAgent(llm, optFns...)
}

// NewUnconstrainedMemory creates an unbounded in-process conversation memory.
func NewUnconstrainedMemory() *memory.UnconstrainedMemory {
	return memory.NewUnconstrainedMemory()
}

// NewMockChatModel creates an offline model with canned completions, useful
// for tests and examples.
func NewMockChatModel() *backend.MockChatModel {
	return backend.NewMockChatModel()
}

// FromName resolves a "provider:model" identifier into a ChatModel. The
// matching provider package must be imported for its side effects.
func FromName(name string) (ChatModel, error) {
	return backend.FromName(name)
}
