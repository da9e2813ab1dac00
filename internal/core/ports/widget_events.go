package ports

// Lifecycle events published by a widget session. Each carries a single
// domain.WidgetSignal argument.
const (
	EventVerified    EventName = "verified"
	EventExpired     EventName = "expired"
	EventError       EventName = "error"
	EventTimeout     EventName = "timeout"
	EventUnsupported EventName = "unsupported"
)

// LifecycleEvents lists every widget lifecycle event, in a fixed order.
func LifecycleEvents() []EventName {
	return []EventName{EventVerified, EventExpired, EventError, EventTimeout, EventUnsupported}
}
