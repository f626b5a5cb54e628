package memory

import (
	"context"

	"github.com/vishnudev-k/bee-agent-framework/backend"
)

// Memory stores the conversation history an agent reads before calling the
// model and writes back to after each turn.
//
// Messages returns a snapshot: mutating the returned slice must not affect
// the stored history. Implementations are safe for concurrent use.
type Memory interface {
	// Add appends a single message to the history.
	Add(ctx context.Context, msg backend.Message) error
	// Messages returns a copy of the stored history in insertion order.
	Messages() []backend.Message
	// Reset removes all stored messages.
	Reset() error
}

// AddMany appends the given messages in order, stopping at the first error.
func AddMany(ctx context.Context, mem Memory, msgs ...backend.Message) error {
	for _, msg := range msgs {
		if err := mem.Add(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
