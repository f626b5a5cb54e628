package testutil

import (
	"sync"

	"github.com/vishnudev-k/bee-agent-framework/emitter"
)

// EventRecorder captures emitted events for later assertions.
//
// Listeners fire on the emitting goroutine, so the recorder guards its slice
// with a mutex and accessors return copies.
type EventRecorder struct {
	mu     sync.Mutex
	events []emitter.Event
}

// NewEventRecorder creates an empty recorder.
func NewEventRecorder() *EventRecorder { return &EventRecorder{} }

// Listener returns a listener that records every event it receives.
func (r *EventRecorder) Listener() emitter.Listener {
	return func(event emitter.Event) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, event)
		return nil
	}
}

// Attach subscribes the recorder to every event on em.
func (r *EventRecorder) Attach(em *emitter.Emitter) emitter.Unsubscribe {
	return em.OnAny(r.Listener())
}

// Events returns a copy of the recorded events in arrival order.
func (r *EventRecorder) Events() []emitter.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]emitter.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the recorded event names in arrival order.
func (r *EventRecorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, ev := range r.events {
		names[i] = ev.Name
	}
	return names
}

// Payloads returns the payloads of recorded events with the given name.
func (r *EventRecorder) Payloads(name string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var payloads []any
	for _, ev := range r.events {
		if ev.Name == name {
			payloads = append(payloads, ev.Payload)
		}
	}
	return payloads
}

// Len returns the number of recorded events.
func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
