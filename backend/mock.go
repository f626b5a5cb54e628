package backend

import (
	"context"
	"fmt"
	"sync"
)

// MockChatModel is a lightweight in-memory ChatModel useful for tests and
// examples. Canned completions are matched against the text of the latest
// message; anything without a match is echoed back.
type MockChatModel struct {
	info Info

	mu        sync.Mutex
	responses map[string]string
}

// NewMockChatModel constructs an empty mock model.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{
		info:      Info{Name: "mock-chat", Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockChatModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[prompt] = response
}

// Create implements ChatModel.
func (m *MockChatModel) Create(_ context.Context, messages []Message) (*ChatOutput, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	input := messages[len(messages)-1].Text

	m.mu.Lock()
	text, ok := m.responses[input]
	m.mu.Unlock()

	if !ok {
		text = fmt.Sprintf("Mock response to: %s", input)
	}

	return &ChatOutput{
		Message:      AssistantMessage(text),
		FinishReason: "stop",
	}, nil
}

// Info implements ChatModel.
func (m *MockChatModel) Info() Info { return m.info }
