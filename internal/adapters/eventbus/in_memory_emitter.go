package eventbus

import (
	"TurnstileCore/internal/core/ports"
	"context"
	"fmt"
	"sync"
)

// inMemoryEmitter implements the ports.Emitter interface
type inMemoryEmitter struct {
	hook      ports.EmitterHook
	listeners map[ports.EventName][]*ports.Listener
	mu        sync.RWMutex
}

var _ ports.Emitter = (*inMemoryEmitter)(nil)

// NewInMemoryEmitter creates a new, empty registry. A nil hook means NopHook.
func NewInMemoryEmitter(hook ports.EmitterHook) ports.Emitter {
	if hook == nil {
		hook = NopHook{}
	}
	return &inMemoryEmitter{
		hook:      hook,
		listeners: make(map[ports.EventName][]*ports.Listener),
	}
}

// On registers a listener for an event. Registering the same handle twice
// means it is called twice per Emit.
func (e *inMemoryEmitter) On(name ports.EventName, listener *ports.Listener) {
	if listener == nil {
		return
	}

	e.mu.Lock()
	e.listeners[name] = append(e.listeners[name], listener)
	e.mu.Unlock()

	e.hook.ListenerAdded(name, listener)
}

// Off drops every occurrence of listener. The (possibly empty) sequence
// stays in the map.
func (e *inMemoryEmitter) Off(name ports.EventName, listener *ports.Listener) {
	e.mu.Lock()
	current, ok := e.listeners[name]
	if !ok {
		e.mu.Unlock()
		return
	}

	// Build a fresh slice so snapshots taken by in-flight Emits are untouched.
	kept := make([]*ports.Listener, 0, len(current))
	for _, l := range current {
		if l != listener {
			kept = append(kept, l)
		}
	}
	e.listeners[name] = kept
	e.mu.Unlock()

	if removed := len(current) - len(kept); removed > 0 {
		e.hook.ListenerRemoved(name, listener, removed)
	}
}

// Emit calls every listener registered for name at the time of the call.
// A failing or panicking listener is reported to the hook and the remaining
// listeners still run.
func (e *inMemoryEmitter) Emit(ctx context.Context, name ports.EventName, args ...any) {
	e.mu.RLock()
	current := e.listeners[name]
	snapshot := make([]*ports.Listener, len(current))
	copy(snapshot, current)
	e.mu.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	event := ports.Event{Name: name, Args: args}
	for _, l := range snapshot {
		if err := e.invoke(ctx, l, event); err != nil {
			e.hook.ListenerFailed(name, l, err)
		}
	}

	e.hook.Emitted(name, len(snapshot))
}

// ListenerCount counts duplicates separately.
func (e *inMemoryEmitter) ListenerCount(name ports.EventName) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[name])
}

func (e *inMemoryEmitter) invoke(ctx context.Context, l *ports.Listener, event ports.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ports.ErrListenerPanic, r)
		}
	}()
	return l.Call(ctx, event)
}
