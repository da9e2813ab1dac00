package widget

import (
	"TurnstileCore/internal/core/domain"
	"TurnstileCore/internal/core/ports"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status is the state of a widget as seen through its lifecycle events.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusVerified    Status = "verified"
	StatusExpired     Status = "expired"
	StatusFailed      Status = "failed"
	StatusTimedOut    Status = "timed_out"
	StatusUnsupported Status = "unsupported"
)

// Session is the headless side of one rendered widget. Publishing a signal
// and reacting to it are separate: the publish helpers only emit, and state
// changes only happen in the session's own listeners.
type Session struct {
	id      uuid.UUID
	opts    domain.WidgetOptions
	emitter ports.Emitter
	log     zerolog.Logger
	now     func() time.Time

	listeners map[ports.EventName]*ports.Listener

	mu        sync.RWMutex
	status    Status
	token     string
	errorCode string
	closed    bool
}

// NewSession validates opts and subscribes the session to the lifecycle
// events on emitter.
func NewSession(opts domain.WidgetOptions, emitter ports.Emitter, baseLogger *zerolog.Logger) (*Session, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("new widget session: %w", err)
	}

	id := uuid.New()
	s := &Session{
		id:      id,
		opts:    opts,
		emitter: emitter,
		log:     baseLogger.With().Str("component", "widget_session").Str("widget_id", id.String()).Logger(),
		now:     time.Now,
		status:  StatusIdle,
	}

	s.listeners = map[ports.EventName]*ports.Listener{
		ports.EventVerified:    ports.NewListener(s.onSignal(s.applyVerified)),
		ports.EventExpired:     ports.NewListener(s.onSignal(s.applyStatus(StatusExpired))),
		ports.EventError:       ports.NewListener(s.onSignal(s.applyError)),
		ports.EventTimeout:     ports.NewListener(s.onSignal(s.applyStatus(StatusTimedOut))),
		ports.EventUnsupported: ports.NewListener(s.onSignal(s.applyStatus(StatusUnsupported))),
	}
	for _, name := range ports.LifecycleEvents() {
		emitter.On(name, s.listeners[name])
	}

	s.log.Info().
		Str("theme", string(opts.Theme)).
		Str("size", string(opts.Size)).
		Str("appearance", string(opts.Appearance)).
		Msg("Widget session created")
	return s, nil
}

// ID identifies this widget in every signal it publishes.
func (s *Session) ID() uuid.UUID { return s.id }

// Options returns the validated options, defaults applied.
func (s *Session) Options() domain.WidgetOptions { return s.opts }

// Styles returns the container styles for the configured position.
func (s *Session) Styles() domain.Styles { return domain.DefaultStyles(s.opts.Position) }

// Status returns the current state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Token returns the response token while the widget is verified.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ErrorCode returns the last error code reported by the widget.
func (s *Session) ErrorCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errorCode
}

// Verify publishes a successful challenge with its response token.
func (s *Session) Verify(ctx context.Context, token string) {
	s.publish(ctx, ports.EventVerified, domain.WidgetSignal{Token: token})
}

// Expire publishes that the current token expired.
func (s *Session) Expire(ctx context.Context) {
	s.publish(ctx, ports.EventExpired, domain.WidgetSignal{})
}

// Fail publishes a widget error with its client error code.
func (s *Session) Fail(ctx context.Context, code string) {
	s.publish(ctx, ports.EventError, domain.WidgetSignal{ErrorCode: code})
}

// Timeout publishes that the interactive challenge was not solved in time.
func (s *Session) Timeout(ctx context.Context) {
	s.publish(ctx, ports.EventTimeout, domain.WidgetSignal{})
}

// Unsupported publishes that the browser cannot run the widget.
func (s *Session) Unsupported(ctx context.Context) {
	s.publish(ctx, ports.EventUnsupported, domain.WidgetSignal{})
}

// Reset returns the session to idle, dropping any token.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusIdle
	s.token = ""
	s.errorCode = ""
}

// Close unsubscribes the session. Calling it more than once is harmless.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	for name, l := range s.listeners {
		s.emitter.Off(name, l)
	}
	s.log.Info().Msg("Widget session closed")
}

func (s *Session) publish(ctx context.Context, name ports.EventName, sig domain.WidgetSignal) {
	sig.WidgetID = s.id
	sig.At = s.now()
	s.emitter.Emit(ctx, name, sig)
}

// onSignal adapts a state transition into a listener that ignores other
// widgets' signals.
func (s *Session) onSignal(apply func(sig domain.WidgetSignal)) ports.ListenerFunc {
	return func(_ context.Context, event ports.Event) error {
		sig, ok := domain.SignalFromArgs(event.Args)
		if !ok || sig.WidgetID != s.id {
			return nil
		}

		s.mu.Lock()
		apply(sig)
		status := s.status
		s.mu.Unlock()

		s.log.Debug().Str("event", string(event.Name)).Str("status", string(status)).Msg("Widget state changed")
		return nil
	}
}

// The apply* helpers run with s.mu held.

func (s *Session) applyVerified(sig domain.WidgetSignal) {
	s.status = StatusVerified
	s.token = sig.Token
	s.errorCode = ""
}

func (s *Session) applyError(sig domain.WidgetSignal) {
	s.status = StatusFailed
	s.token = ""
	s.errorCode = sig.ErrorCode
}

func (s *Session) applyStatus(status Status) func(domain.WidgetSignal) {
	return func(domain.WidgetSignal) {
		s.status = status
		s.token = ""
	}
}
