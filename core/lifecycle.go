package core

import (
	"sync"

	"github.com/vishnudev-k/bee-agent-framework/emitter"
	"github.com/vishnudev-k/bee-agent-framework/logging"
)

// Lifecycle owns the single-flight running flag shared by agents and
// workflows. The flag is flipped only through Begin and End, which the run
// context pairs on every exit path, so an instance can never be left stuck
// in the running state. The zero value is ready to use.
type Lifecycle struct {
	mu      sync.Mutex
	running bool
}

// Begin transitions the instance into its running state. It fails with
// ErrConcurrentRun when a prior run has not resolved yet.
func (l *Lifecycle) Begin() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return ErrConcurrentRun
	}

	l.running = true

	return nil
}

// End resets the running state. Called exactly once for every successful
// Begin, regardless of how the run ended.
func (l *Lifecycle) End() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.running = false
}

// IsRunning reports whether a run is currently in flight.
func (l *Lifecycle) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.running
}

// RunInstance is the minimal surface the run context requires from anything
// runnable. Agents and workflows both satisfy it.
type RunInstance interface {
	// Emitter returns the instance's root bus. Run-scoped buses are created
	// as children of it, so listeners registered here observe every run.
	Emitter() *emitter.Emitter

	// Begin and End guard the instance's single-flight running flag; they are
	// called by the run context only.
	Begin() error
	End()

	// Logger returns the instance's logger. A nil return is tolerated and
	// treated as no-op logging.
	Logger() logging.Logger
}
