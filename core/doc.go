// Package core provides the run-lifecycle primitives shared by agents and
// workflows. It defines the central abstractions for:
//
//   - RunContext (per-invocation scope: cancellation signal + event bus)
//   - Run handles (future-like results with chainable observation)
//   - Lifecycle (the single-flight running flag and its acquisition rules)
//   - The framework error taxonomy and failure normalization
//   - ExecutionConfig (retry and iteration bounds shared by run options)
//
// The package intentionally keeps implementation concerns (concrete agents,
// workflow sequencing, model backends) out of scope, exposing small
// interfaces so those layers can be swapped or extended independently.
package core
