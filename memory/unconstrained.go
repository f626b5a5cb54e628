package memory

import (
	"context"
	"sync"

	"github.com/vishnudev-k/bee-agent-framework/backend"
)

// UnconstrainedMemory keeps the full conversation history in process memory
// with no size limit. It is the default memory for agents and suits tests,
// demos and short-lived conversations.
//
// Concurrency: protected by RWMutex.
type UnconstrainedMemory struct {
	mu       sync.RWMutex
	messages []backend.Message
}

var _ Memory = (*UnconstrainedMemory)(nil)

// NewUnconstrainedMemory creates an empty unconstrained memory.
func NewUnconstrainedMemory() *UnconstrainedMemory {
	return &UnconstrainedMemory{}
}

// Add appends a message to the history.
func (m *UnconstrainedMemory) Add(_ context.Context, msg backend.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns a copy of the stored history in insertion order.
func (m *UnconstrainedMemory) Messages() []backend.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]backend.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Reset removes all stored messages.
func (m *UnconstrainedMemory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	return nil
}
