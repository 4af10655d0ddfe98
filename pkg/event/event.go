// Package event implements the server's mod/plugin hook surface: a
// priority-ordered listener bus firing named events with a key/value
// payload, and a cancellable Event handle passed to each listener in
// turn.
package event

import "fmt"

// Priority orders listener invocation within a single Fire call, lowest
// first, so a Monitor listener always observes the final cancelled state
// other listeners left behind.
type Priority int

const (
	Lowest Priority = iota
	Low
	Normal
	High
	Highest
	Monitor
)

// Outcome is returned by a listener to say whether the event should be
// treated as cancelled from this point forward.
type Outcome int

const (
	Continue Outcome = iota
	Cancel
)

// Event is the payload handed to listeners during one Fire call. It is
// only valid for the duration of that call: once Fire returns, the
// struct is marked closed and every accessor returns ErrEventClosed
// instead of silently returning stale data. This is the one place in the
// server where a would-be "raw pointer that outlives its dispatch" hazard
// is caught by a runtime check rather than by the type system — encoding
// it as a compile-time-scoped handle would need generics machinery out of
// proportion to what this hook surface needs.
type Event struct {
	name      string
	values    map[string]any
	cancelled bool
	closed    bool
}

// ErrEventClosed is returned by Event accessors called after the Fire
// that produced them has returned.
var ErrEventClosed = fmt.Errorf("event: accessed after dispatch completed")

// Name returns the event's name, or an error if the event has closed.
func (e *Event) Name() (string, error) {
	if e.closed {
		return "", ErrEventClosed
	}
	return e.name, nil
}

// Value returns a payload value by key, or an error if the event has
// closed.
func (e *Event) Value(key string) (any, bool, error) {
	if e.closed {
		return nil, false, ErrEventClosed
	}
	v, ok := e.values[key]
	return v, ok, nil
}

// Cancelled reports whether an earlier listener in this dispatch already
// cancelled the event.
func (e *Event) Cancelled() (bool, error) {
	if e.closed {
		return false, ErrEventClosed
	}
	return e.cancelled, nil
}

func (e *Event) close() { e.closed = true }

// Listener is a mod's hook body. Returning Cancel marks the event
// cancelled for every listener still to run (and for Fire's return
// value), except when the listener is registered at Monitor priority,
// whose Cancel is ignored; returning Continue leaves the cancelled state
// as-is.
type Listener func(*Event) Outcome

// Handle identifies a registered listener, returned by Register so
// callers can later Unregister it.
type Handle struct {
	name string
	id   int64
}

// Dispatcher is the interface the tick engine depends on, rather than
// any concrete listener registry: game.Loop is handed a Dispatcher at
// construction and never imports this package's Bus type directly,
// keeping the mod surface out of the tick engine's own dependency graph.
type Dispatcher interface {
	Fire(name string, values map[string]any) (cancelled bool)
}
