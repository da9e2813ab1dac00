package eventbus

import (
	"TurnstileCore/internal/core/ports"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	defaultOnce    sync.Once
	defaultEmitter ports.Emitter
)

// Default returns the process-wide emitter, building it on first use.
// It logs through zerolog's global logger. Prefer passing an explicit
// emitter to collaborators; this exists for callers that have no wiring.
func Default() ports.Emitter {
	defaultOnce.Do(func() {
		defaultEmitter = NewInMemoryEmitter(NewLogHook(&log.Logger))
	})
	return defaultEmitter
}
