// Package openai provides a ChatModel implementation using the OpenAI Chat
// Completions API. It adapts the framework's message format into the SDK's
// message unions and back.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/vishnudev-k/bee-agent-framework/backend"
)

func init() {
	backend.Register("openai", func(modelID string) (backend.ChatModel, error) {
		if modelID == "" {
			return NewModel(), nil
		}

		return NewModel(func(o *Options) { o.Model = modelID }), nil
	})
}

// Options configure the OpenAI model adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the backend.ChatModel
// interface. The client reads its API key from the environment unless one is
// injected through NewModelFromClient.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

// Create implements backend.ChatModel with a single non-streaming completion.
func (m *Model) Create(ctx context.Context, messages []backend.Message) (*backend.ChatOutput, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(messages),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	choice := resp.Choices[0]

	out := &backend.ChatOutput{
		Message:      backend.AssistantMessage(choice.Message.Content),
		FinishReason: choice.FinishReason,
	}

	if resp.Usage.TotalTokens > 0 {
		out.Usage = &backend.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	}

	return out, nil
}

// buildMessages converts framework messages into OpenAI chat messages. Tool
// results carry no call identifiers in the single-shot path, so they are
// folded in as user turns.
func buildMessages(messages []backend.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case backend.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Text))
		case backend.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Text))
		default:
			if msg.Text != "" {
				out = append(out, openai.UserMessage(msg.Text))
			}
		}
	}

	return out
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() backend.Info {
	return backend.Info{
		Name:     m.opts.Model,
		Provider: "openai",
	}
}
