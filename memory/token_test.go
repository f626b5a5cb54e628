package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnudev-k/bee-agent-framework/backend"
)

// wordCounter counts one token per byte so budget math is exact in tests.
var wordCounter = TokenCounterFunc(func(text string) (int, error) {
	return len(text), nil
})

func TestTokenMemory_EvictsOldestWhenOverBudget(t *testing.T) {
	mem := NewTokenMemory(func(o *TokenMemoryOptions) {
		o.MaxTokens = 10
		o.Counter = wordCounter
	})
	ctx := context.Background()

	require.NoError(t, mem.Add(ctx, backend.UserMessage("aaaa")))   // 4 tokens
	require.NoError(t, mem.Add(ctx, backend.UserMessage("bbbb")))   // 8 tokens
	require.NoError(t, mem.Add(ctx, backend.UserMessage("cccccc"))) // would be 14, evicts "aaaa"

	msgs := mem.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "bbbb", msgs[0].Text)
	assert.Equal(t, "cccccc", msgs[1].Text)
	assert.Equal(t, 10, mem.TokensUsed())
}

func TestTokenMemory_RejectsOversizedMessage(t *testing.T) {
	mem := NewTokenMemory(func(o *TokenMemoryOptions) {
		o.MaxTokens = 5
		o.Counter = wordCounter
	})

	err := mem.Add(context.Background(), backend.UserMessage("toolongtofit"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds memory budget")
	assert.Empty(t, mem.Messages())
}

func TestTokenMemory_Reset(t *testing.T) {
	mem := NewTokenMemory(func(o *TokenMemoryOptions) {
		o.MaxTokens = 100
		o.Counter = wordCounter
	})
	require.NoError(t, mem.Add(context.Background(), backend.UserMessage("hello")))

	require.NoError(t, mem.Reset())

	assert.Empty(t, mem.Messages())
	assert.Zero(t, mem.TokensUsed())
}

func TestTiktokenCounter_CountTokens(t *testing.T) {
	counter := NewTiktokenCounter()

	n, err := counter.CountTokens("Hello, how are you today?")

	require.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestTiktokenCounter_EmptyText(t *testing.T) {
	counter := NewTiktokenCounter()

	n, err := counter.CountTokens("")

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEstimateTokens(t *testing.T) {
	assert.Zero(t, estimateTokens(""))
	assert.Equal(t, 1, estimateTokens("ab"))
	assert.Equal(t, 3, estimateTokens("abcdefghijkl"))
}
