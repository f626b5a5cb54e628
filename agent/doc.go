// Package agent contains the agent contract and supporting utilities for
// building runnable agents on top of the core run lifecycle. The package
// focuses on three concerns:
//
//  1. The Agent capability set (Run, Destroy, Memory get/set, Meta)
//  2. Base lifecycle + event plumbing shared by all agents (BaseAgent)
//  3. A model-centric single-completion agent (ChatAgent)
//
// Design principles:
//   - Minimal hidden global state: explicit wiring via constructors
//   - Single-flight runs: one active Run per agent instance, enforced by core
//   - Observability: every run gets a scoped event bus observable via the
//     returned handle
//   - Extensibility: embed *BaseAgent and supply a run function; everything
//     else (validation, lifecycle, events, error normalization) is inherited
//
// The package intentionally keeps model specifics and memory implementations
// in their respective packages to avoid cyclic deps.
package agent
