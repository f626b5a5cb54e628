package backend

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleSystem marks instructions injected ahead of the conversation.
	RoleSystem Role = "system"
	// RoleUser marks caller-provided input.
	RoleUser Role = "user"
	// RoleAssistant marks model-produced output.
	RoleAssistant Role = "assistant"
	// RoleTool marks tool results fed back into the conversation.
	RoleTool Role = "tool"
)

// Message is one turn of a conversation. Messages are treated as immutable
// once handed to a run, a memory or a model.
type Message struct {
	Role      Role
	Text      string
	CreatedAt time.Time
}

// SystemMessage builds a system message stamped with the current time.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Text: text, CreatedAt: time.Now()}
}

// UserMessage builds a user message stamped with the current time.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text, CreatedAt: time.Now()}
}

// AssistantMessage builds an assistant message stamped with the current time.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text, CreatedAt: time.Now()}
}
