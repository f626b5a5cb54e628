// Package memory stores conversation history for agents.
//
// A Memory holds the messages an agent feeds to its model and records the
// turns the model produces. UnconstrainedMemory keeps everything,
// TokenMemory trims the oldest messages to stay within a token budget, and
// the sqlite subpackage persists history across process restarts.
package memory
