// Package anthropic provides a ChatModel implementation using the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/vishnudev-k/bee-agent-framework/backend"
)

func init() {
	backend.Register("anthropic", func(modelID string) (backend.ChatModel, error) {
		if modelID == "" {
			return NewModel(), nil
		}

		return NewModel(func(o *Options) { o.Model = anthropic.Model(modelID) }), nil
	})
}

// Options configures the Anthropic model adapter (model id, temperature, max
// tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the backend.ChatModel
// interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// NewModel creates a new Anthropic model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{client: client, opts: opts}
}

// Create implements backend.ChatModel with a single non-streaming completion.
func (m *Model) Create(ctx context.Context, messages []backend.Message) (*backend.ChatOutput, error) {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(messages),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if systemBlocks := extractSystemBlocks(messages); len(systemBlocks) > 0 {
		params.System = systemBlocks
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder

	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}

	finishReason := "stop"
	if resp.StopReason != "" {
		finishReason = string(resp.StopReason)
	}

	out := &backend.ChatOutput{
		Message:      backend.AssistantMessage(text.String()),
		FinishReason: finishReason,
	}

	if resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0 {
		out.Usage = &backend.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		}
	}

	return out, nil
}

// buildMessages converts framework messages to the Anthropic message format.
// System messages are handled separately via the params System field.
func buildMessages(messages []backend.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == backend.RoleSystem || msg.Text == "" {
			continue
		}

		if msg.Role == backend.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text)))
			continue
		}

		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)))
	}

	return out
}

// extractSystemBlocks collects system message text blocks.
func extractSystemBlocks(messages []backend.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam

	for _, msg := range messages {
		if msg.Role == backend.RoleSystem && msg.Text != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: msg.Text})
		}
	}

	return blocks
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() backend.Info {
	return backend.Info{
		Name:     string(m.opts.Model),
		Provider: "anthropic",
	}
}
