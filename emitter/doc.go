// Package emitter implements the scoped publish/subscribe bus that carries
// observability events for runs, agents and workflows.
//
// A bus delivers events to listeners in registration order and keeps
// per-listener delivery FIFO. Listener failures are reported out-of-band as
// "error" events instead of aborting the emitting code path. Buses nest:
// events emitted on a child are forwarded to its ancestors, so a listener on
// an agent's root bus observes every run of that agent while a listener on a
// single run's bus observes that run alone.
//
// Run-scoped buses are created with the replay option: they journal emitted
// events and replay the journal to listeners that register mid-run, which is
// what lets Run.Observe guarantee complete delivery regardless of when the
// observer attaches relative to the work.
package emitter
