package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrListenerPanic wraps the value recovered from a panicking listener.
var ErrListenerPanic = errors.New("listener panicked")

// EventName identifies an event channel. Its meaning is owned by the callers.
type EventName string

// Event is what a listener receives: the event name plus the positional
// arguments passed to Emit, untouched.
type Event struct {
	Name EventName
	Args []any
}

// ListenerFunc is the callback behind a Listener.
type ListenerFunc func(ctx context.Context, event Event) error

// Listener is a registration handle. Funcs are not comparable in Go, so Off
// matches listeners by handle identity: keep the *Listener returned by
// NewListener and pass the same pointer to Off.
type Listener struct {
	id uuid.UUID
	fn ListenerFunc
}

// NewListener wraps fn in a new handle.
func NewListener(fn ListenerFunc) *Listener {
	return &Listener{id: uuid.New(), fn: fn}
}

// ID is only used to tell listeners apart in logs.
func (l *Listener) ID() uuid.UUID {
	return l.id
}

// Call invokes the wrapped func. A listener without a func does nothing.
func (l *Listener) Call(ctx context.Context, event Event) error {
	if l.fn == nil {
		return nil
	}
	return l.fn(ctx, event)
}

// Emitter is our in-process publish/subscribe registry.
type Emitter interface {
	// On appends listener to the sequence for name.
	On(name EventName, listener *Listener)

	// Off removes every occurrence of listener from the sequence for name.
	Off(name EventName, listener *Listener)

	// Emit synchronously calls the current listeners of name, in
	// registration order, with args.
	Emit(ctx context.Context, name EventName, args ...any)

	// ListenerCount reports how many entries are registered for name.
	ListenerCount(name EventName) int
}

// EmitterHook observes registry activity. It replaces ad-hoc logging inside
// the registry itself.
type EmitterHook interface {
	ListenerAdded(name EventName, listener *Listener)
	ListenerRemoved(name EventName, listener *Listener, removed int)
	Emitted(name EventName, delivered int)
	ListenerFailed(name EventName, listener *Listener, err error)
}
