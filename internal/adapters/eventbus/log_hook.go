package eventbus

import (
	"TurnstileCore/internal/core/ports"

	"github.com/rs/zerolog"
)

// NopHook ignores all registry activity.
type NopHook struct{}

func (NopHook) ListenerAdded(ports.EventName, *ports.Listener) {}
func (NopHook) ListenerRemoved(ports.EventName, *ports.Listener, int) {}
func (NopHook) Emitted(ports.EventName, int) {}
func (NopHook) ListenerFailed(ports.EventName, *ports.Listener, error) {}

// logHook reports registry activity through zerolog.
type logHook struct {
	log zerolog.Logger
}

// NewLogHook creates a hook that logs registrations and emits at debug level
// and listener failures at error level.
func NewLogHook(baseLogger *zerolog.Logger) ports.EmitterHook {
	return &logHook{
		log: baseLogger.With().Str("component", "in_memory_emitter").Logger(),
	}
}

func (h *logHook) ListenerAdded(name ports.EventName, listener *ports.Listener) {
	h.log.Debug().
		Str("event", string(name)).
		Str("listener_id", listener.ID().String()).
		Msg("Listener added")
}

func (h *logHook) ListenerRemoved(name ports.EventName, listener *ports.Listener, removed int) {
	h.log.Debug().
		Str("event", string(name)).
		Str("listener_id", listener.ID().String()).
		Int("removed", removed).
		Msg("Listener removed")
}

func (h *logHook) Emitted(name ports.EventName, delivered int) {
	h.log.Debug().Str("event", string(name)).Int("listeners", delivered).Msg("Event emitted")
}

func (h *logHook) ListenerFailed(name ports.EventName, listener *ports.Listener, err error) {
	h.log.Error().Err(err).
		Str("event", string(name)).
		Str("listener_id", listener.ID().String()).
		Msg("Event listener failed")
}
