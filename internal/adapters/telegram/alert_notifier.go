package telegram

import (
	"TurnstileCore/internal/core/domain"
	"TurnstileCore/internal/core/ports"
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the slice of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// alertEvents are the lifecycle events worth waking someone up for.
var alertEvents = []ports.EventName{ports.EventError, ports.EventUnsupported}

// AlertNotifier forwards widget failures to an ops chat.
type AlertNotifier struct {
	sender   Sender
	chatID   int64
	emitter  ports.Emitter
	listener *ports.Listener
	log      zerolog.Logger
}

// NewAlertNotifier subscribes a notifier to the failure events on emitter.
func NewAlertNotifier(
	sender Sender,
	chatID int64,
	emitter ports.Emitter,
	baseLogger *zerolog.Logger,
) *AlertNotifier {
	n := &AlertNotifier{
		sender:  sender,
		chatID:  chatID,
		emitter: emitter,
		log:     baseLogger.With().Str("component", "tg_alert_notifier").Logger(),
	}

	n.listener = ports.NewListener(n.handle)
	for _, name := range alertEvents {
		emitter.On(name, n.listener)
	}

	n.log.Info().Int64("chat_id", chatID).Msg("Subscribed to widget failure events")
	return n
}

// Close stops forwarding alerts.
func (n *AlertNotifier) Close() {
	for _, name := range alertEvents {
		n.emitter.Off(name, n.listener)
	}
}

func (n *AlertNotifier) handle(_ context.Context, event ports.Event) error {
	sig, ok := domain.SignalFromArgs(event.Args)
	if !ok {
		n.log.Error().Str("event", string(event.Name)).Msg("Received bad widget signal from emitter")
		return nil // Don't alert on garbage
	}

	msg := tgbotapi.NewMessage(n.chatID, formatAlert(event.Name, sig))
	if _, err := n.sender.Send(msg); err != nil {
		n.log.Error().Err(err).Int64("chat_id", n.chatID).Msg("Failed to send alert")
		return fmt.Errorf("send %s alert: %w", event.Name, err)
	}
	return nil
}

// formatAlert builds the plain-text alert body.
func formatAlert(name ports.EventName, sig domain.WidgetSignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turnstile widget %s\n", name)
	fmt.Fprintf(&b, "Widget: %s\n", sig.WidgetID)
	if sig.ErrorCode != "" {
		fmt.Fprintf(&b, "Error code: %s\n", sig.ErrorCode)
	}
	fmt.Fprintf(&b, "At: %s", sig.At.UTC().Format(time.RFC3339))
	return b.String()
}
