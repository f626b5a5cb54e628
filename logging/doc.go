// Package logging provides a minimal logging interface and adapters for the
// framework.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the run context, agents and the workflow engine use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo)
//	wf := workflow.New[State]("pipeline", workflow.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
