package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/vishnudev-k/bee-agent-framework/backend"
)

// TokenCounter estimates how many model tokens a piece of text occupies.
type TokenCounter interface {
	CountTokens(text string) (int, error)
}

// TokenCounterFunc adapts a plain function to the TokenCounter interface.
type TokenCounterFunc func(text string) (int, error)

// CountTokens calls f(text).
func (f TokenCounterFunc) CountTokens(text string) (int, error) {
	return f(text)
}

// TiktokenCounter counts tokens with the cl100k_base encoding used by most
// current chat models. The encoding is loaded lazily on first use; if loading
// fails the counter falls back to a bytes/4 estimate.
type TiktokenCounter struct {
	once      sync.Once
	tokenizer *tiktoken.Tiktoken
}

var _ TokenCounter = (*TiktokenCounter)(nil)

// NewTiktokenCounter creates a counter backed by the cl100k_base encoding.
func NewTiktokenCounter() *TiktokenCounter {
	return &TiktokenCounter{}
}

// CountTokens returns the number of tokens in text.
func (c *TiktokenCounter) CountTokens(text string) (int, error) {
	c.once.Do(func() {
		tokenizer, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return
		}
		c.tokenizer = tokenizer
	})

	if c.tokenizer == nil {
		return estimateTokens(text), nil
	}

	return len(c.tokenizer.Encode(text, nil, nil)), nil
}

// estimateTokens approximates the token count as one token per four bytes,
// with a floor of one token for non-empty text.
func estimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// TokenMemoryOptions configures a TokenMemory.
type TokenMemoryOptions struct {
	// MaxTokens is the token budget for the stored history.
	MaxTokens int
	// Counter estimates token counts for message text.
	Counter TokenCounter
}

// TokenMemory keeps the conversation history within a token budget by
// evicting the oldest messages when a new one would exceed it.
//
// Concurrency: protected by Mutex since Add both measures and evicts.
type TokenMemory struct {
	mu         sync.Mutex
	opts       TokenMemoryOptions
	messages   []backend.Message
	tokens     []int
	tokensUsed int
}

var _ Memory = (*TokenMemory)(nil)

// NewTokenMemory creates a token-bounded memory. The default budget is 4096
// tokens counted with the cl100k_base encoding.
func NewTokenMemory(optFns ...func(o *TokenMemoryOptions)) *TokenMemory {
	opts := TokenMemoryOptions{
		MaxTokens: 4096,
		Counter:   NewTiktokenCounter(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &TokenMemory{opts: opts}
}

// Add appends a message, evicting the oldest messages until the new message
// fits the budget. A single message larger than the whole budget is rejected.
func (m *TokenMemory) Add(_ context.Context, msg backend.Message) error {
	count, err := m.opts.Counter.CountTokens(msg.Text)
	if err != nil {
		return fmt.Errorf("count tokens: %w", err)
	}

	if count > m.opts.MaxTokens {
		return fmt.Errorf("message of %d tokens exceeds memory budget of %d", count, m.opts.MaxTokens)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for m.tokensUsed+count > m.opts.MaxTokens && len(m.messages) > 0 {
		m.tokensUsed -= m.tokens[0]
		m.messages = m.messages[1:]
		m.tokens = m.tokens[1:]
	}

	m.messages = append(m.messages, msg)
	m.tokens = append(m.tokens, count)
	m.tokensUsed += count

	return nil
}

// Messages returns a copy of the stored history in insertion order.
func (m *TokenMemory) Messages() []backend.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]backend.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Reset removes all stored messages.
func (m *TokenMemory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.tokens = nil
	m.tokensUsed = 0
	return nil
}

// TokensUsed reports the token count of the stored history.
func (m *TokenMemory) TokensUsed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokensUsed
}
