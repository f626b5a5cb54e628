package emitter

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// AnyEvent subscribes a listener to every event name on a bus.
	AnyEvent = "*"

	// ErrorEventName carries listener failures out-of-band. Events with this
	// name wrap a ListenerError payload and never abort the emitting run.
	ErrorEventName = "error"
)

// EventMeta carries the identifying metadata attached to every event.
type EventMeta struct {
	// ID is a unique identifier assigned at emission time.
	ID string
	// CreatedAt records when the event was emitted.
	CreatedAt time.Time
	// Source names the bus that originally emitted the event. It is preserved
	// when an event is forwarded to ancestor buses or piped elsewhere.
	Source string
}

// Event is one typed observation record published on a bus.
type Event struct {
	Name    string
	Payload any
	Meta    EventMeta
}

// ListenerError is the payload of ErrorEventName events. It identifies the
// event whose listener failed together with the failure itself.
type ListenerError struct {
	EventName string
	Err       error
}

// Error implements the error interface.
func (e ListenerError) Error() string {
	return fmt.Sprintf("listener failed while handling %q: %v", e.EventName, e.Err)
}

// Unwrap returns the underlying listener failure.
func (e ListenerError) Unwrap() error { return e.Err }

// Listener handles one delivered event. A non-nil return is reported as an
// ErrorEventName event on the same bus; it never reaches the emitting caller.
type Listener func(event Event) error

// Unsubscribe removes a previously registered listener. Safe to call more
// than once.
type Unsubscribe func()

// Options configures bus construction.
type Options struct {
	// Replay keeps a journal of every emitted event and replays it, in order,
	// to listeners registered after emission. Run-scoped buses enable this so
	// observers attached between run start and resolution miss nothing. The
	// journal lives until the bus is destroyed.
	Replay bool
}

// WithReplay enables the event journal.
func WithReplay() func(o *Options) {
	return func(o *Options) { o.Replay = true }
}

type opKind int

const (
	opEmit opKind = iota
	opOn
	opOff
	opDestroy
)

type registration struct {
	name string
	fn   Listener
}

type op struct {
	kind  opKind
	event Event
	reg   *registration
}

// Emitter is a scoped publish/subscribe bus. Listeners for a given event name
// are invoked in registration order, delivery per listener is FIFO, and a
// failing listener never prevents delivery to the remaining ones. All
// operations are safe for concurrent use.
//
// Mutations flow through a single FIFO operation queue drained by whichever
// goroutine finds it idle, so emission from inside a listener enqueues
// instead of deadlocking and late registrations are serialized against
// in-flight deliveries.
type Emitter struct {
	source string
	parent *Emitter
	replay bool

	mu        sync.Mutex
	queue     []op
	draining  bool
	destroyed bool
	listeners []*registration
	journal   []Event
}

// New creates a standalone bus. The source string identifies it as the origin
// of its events.
func New(source string, optFns ...func(o *Options)) *Emitter {
	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Emitter{source: source, replay: opts.Replay}
}

// Child creates a bus nested under e. Every event emitted on the child is
// also forwarded, metadata intact, to e and its ancestors. Destroying the
// child leaves the parent untouched and vice versa.
func (e *Emitter) Child(source string, optFns ...func(o *Options)) *Emitter {
	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Emitter{source: source, parent: e, replay: opts.Replay}
}

// Source returns the identifier events emitted here carry.
func (e *Emitter) Source() string { return e.source }

// Emit publishes a new event with fresh metadata. It is a no-op on a
// destroyed bus.
func (e *Emitter) Emit(name string, payload any) {
	e.EmitEvent(Event{
		Name:    name,
		Payload: payload,
		Meta: EventMeta{
			ID:        uuid.NewString(),
			CreatedAt: time.Now(),
			Source:    e.source,
		},
	})
}

// EmitEvent publishes an already-built event, preserving its metadata. Used
// when forwarding events between buses.
func (e *Emitter) EmitEvent(event Event) {
	e.post(op{kind: opEmit, event: event})
}

// On registers a listener for the given event name (or every name when name
// is AnyEvent) and returns its unsubscribe handle. Listeners registered on a
// replay bus first receive the journaled history in emission order.
func (e *Emitter) On(name string, fn Listener) Unsubscribe {
	if fn == nil {
		return func() {}
	}

	reg := &registration{name: name, fn: fn}
	e.post(op{kind: opOn, reg: reg})

	var once sync.Once

	return func() {
		once.Do(func() { e.post(op{kind: opOff, reg: reg}) })
	}
}

// OnAny registers a listener for every event name.
func (e *Emitter) OnAny(fn Listener) Unsubscribe {
	return e.On(AnyEvent, fn)
}

// Pipe forwards every event delivered on e to dst, metadata intact. The
// returned handle stops the forwarding.
func (e *Emitter) Pipe(dst *Emitter) Unsubscribe {
	if dst == nil || dst == e {
		return func() {}
	}

	return e.OnAny(func(ev Event) error {
		dst.EmitEvent(ev)
		return nil
	})
}

// Destroy releases all listeners and the journal. Later Emit calls are
// no-ops and later On calls register nothing. Idempotent.
func (e *Emitter) Destroy() {
	e.post(op{kind: opDestroy})
}

// Destroyed reports whether Destroy has taken effect.
func (e *Emitter) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.destroyed
}

// ListenerCount returns the number of currently registered listeners.
func (e *Emitter) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.listeners)
}

// post enqueues one operation and drains the queue unless another goroutine
// already is. Draining outside the lock keeps listener code free to call
// back into the bus.
func (e *Emitter) post(o op) {
	e.mu.Lock()

	if e.destroyed {
		e.mu.Unlock()
		return
	}

	e.queue = append(e.queue, o)

	if e.draining {
		e.mu.Unlock()
		return
	}

	e.draining = true

	for {
		if len(e.queue) == 0 || e.destroyed {
			e.draining = false
			e.mu.Unlock()
			return
		}

		next := e.queue[0]
		e.queue = e.queue[1:]

		var (
			targets []*registration
			history []Event
		)

		switch next.kind {
		case opOn:
			if e.replay {
				history = matching(e.journal, next.reg.name)
			}

			e.listeners = append(e.listeners, next.reg)
		case opOff:
			e.listeners = remove(e.listeners, next.reg)
		case opDestroy:
			e.destroyed = true
			e.listeners = nil
			e.journal = nil
			e.queue = nil
		case opEmit:
			if e.replay {
				e.journal = append(e.journal, next.event)
			}

			targets = make([]*registration, 0, len(e.listeners))
			for _, reg := range e.listeners {
				if reg.name == AnyEvent || reg.name == next.event.Name {
					targets = append(targets, reg)
				}
			}
		}

		e.mu.Unlock()

		switch next.kind {
		case opOn:
			for _, ev := range history {
				e.invoke(next.reg, ev)
			}
		case opEmit:
			for _, reg := range targets {
				e.invoke(reg, next.event)
			}

			if e.parent != nil {
				e.parent.EmitEvent(next.event)
			}
		}

		e.mu.Lock()
	}
}

// invoke runs one listener, converting returned errors and recovered panics
// into an out-of-band error event. Failures of error listeners themselves
// are dropped to keep the error channel from feeding back on itself.
func (e *Emitter) invoke(reg *registration, ev Event) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("listener panic: %v", r)
			}
		}()

		return reg.fn(ev)
	}()

	if err == nil || ev.Name == ErrorEventName {
		return
	}

	e.Emit(ErrorEventName, ListenerError{EventName: ev.Name, Err: err})
}

func matching(journal []Event, name string) []Event {
	if len(journal) == 0 {
		return nil
	}

	out := make([]Event, 0, len(journal))
	for _, ev := range journal {
		if name == AnyEvent || name == ev.Name {
			out = append(out, ev)
		}
	}

	return out
}

func remove(regs []*registration, target *registration) []*registration {
	for i, reg := range regs {
		if reg == target {
			return append(regs[:i], regs[i+1:]...)
		}
	}

	return regs
}
