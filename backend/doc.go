// Package backend defines the conversation message types and the ChatModel
// completion contract consumed by agents, along with a provider registry so
// models can be resolved from "provider:model" identifiers.
//
// Concrete adapters live in subpackages (backend/openai, backend/anthropic)
// and self-register on import:
//
//	import _ "github.com/vishnudev-k/bee-agent-framework/backend/openai"
//
//	llm, err := backend.FromName("openai:gpt-4o-mini")
//
// A MockChatModel with canned responses is included for tests and examples.
package backend
