package widget

import (
	"TurnstileCore/internal/core/domain"
	"TurnstileCore/internal/core/ports"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recorder persists every widget lifecycle event it hears.
type Recorder struct {
	repo     ports.VerificationRepository
	sealer   ports.TokenSealer
	emitter  ports.Emitter
	listener *ports.Listener
	log      zerolog.Logger
}

// NewRecorder subscribes a recorder to all lifecycle events on emitter.
func NewRecorder(
	emitter ports.Emitter,
	repo ports.VerificationRepository,
	sealer ports.TokenSealer,
	baseLogger *zerolog.Logger,
) *Recorder {
	r := &Recorder{
		repo:    repo,
		sealer:  sealer,
		emitter: emitter,
		log:     baseLogger.With().Str("component", "verification_recorder").Logger(),
	}

	// One handle for all events, so Close can remove it from each.
	r.listener = ports.NewListener(r.record)
	for _, name := range ports.LifecycleEvents() {
		emitter.On(name, r.listener)
	}

	r.log.Info().Msg("Subscribed to widget lifecycle events")
	return r
}

// Close stops recording.
func (r *Recorder) Close() {
	for _, name := range ports.LifecycleEvents() {
		r.emitter.Off(name, r.listener)
	}
}

func (r *Recorder) record(ctx context.Context, event ports.Event) error {
	sig, ok := domain.SignalFromArgs(event.Args)
	if !ok {
		r.log.Error().Str("event", string(event.Name)).Msg("Received bad widget signal from emitter")
		return nil // Nothing to store
	}

	rec := &domain.VerificationRecord{
		ID:         uuid.New(),
		WidgetID:   sig.WidgetID,
		Event:      string(event.Name),
		OccurredAt: sig.At,
	}

	if sig.Token != "" {
		sealed, err := r.sealer.Seal(sig.Token)
		if err != nil {
			return fmt.Errorf("seal token for widget %s: %w", sig.WidgetID, err)
		}
		rec.SealedToken = &sealed
	}
	if sig.ErrorCode != "" {
		code := sig.ErrorCode
		rec.ErrorCode = &code
	}

	if err := r.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("record %s for widget %s: %w", event.Name, sig.WidgetID, err)
	}

	r.log.Debug().
		Str("event", string(event.Name)).
		Str("widget_id", sig.WidgetID.String()).
		Msg("Widget event recorded")
	return nil
}
