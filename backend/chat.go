package backend

import "context"

// Info contains metadata about a chat model implementation.
type Info struct {
	Name     string
	Provider string // "openai", "anthropic", "mock", etc.
}

// TokenUsage captures token usage statistics for a completion.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ChatOutput is the result of a single completion.
type ChatOutput struct {
	Message      Message
	FinishReason string // "stop", "length", etc.
	Usage        *TokenUsage
}

// ChatModel is the minimal completion interface agents consume. Adapters for
// concrete providers live in subpackages; anything satisfying this interface
// can drive an agent.
type ChatModel interface {
	// Create produces one completion for the given conversation.
	Create(ctx context.Context, messages []Message) (*ChatOutput, error)

	// Info returns information about the model implementation.
	Info() Info
}
