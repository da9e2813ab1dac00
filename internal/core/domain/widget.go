package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidOption is wrapped by every WidgetOptions validation failure.
var ErrInvalidOption = errors.New("invalid widget option")

// Theme is the widget color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Size is the widget footprint.
type Size string

const (
	SizeCompact Size = "compact"
	SizeNormal  Size = "normal"
)

// Appearance controls when the widget becomes visible.
type Appearance string

const (
	AppearanceAlways          Appearance = "always"
	AppearanceExecute         Appearance = "execute"
	AppearanceInteractionOnly Appearance = "interaction-only"
)

// Position is the screen corner the widget is pinned to.
type Position string

const (
	PositionLeft  Position = "left"
	PositionRight Position = "right"
)

// Styles are the inline styles applied to the widget container.
// position, bottom and zIndex are always present.
type Styles map[string]string

// DefaultStyles pins the container to the bottom corner named by pos.
func DefaultStyles(pos Position) Styles {
	if pos != PositionLeft {
		pos = PositionRight
	}
	return Styles{
		"position":  "fixed",
		"bottom":    "10px",
		"zIndex":    "1000",
		string(pos): "10px",
	}
}

// WidgetOptions are the render options of one widget instance.
type WidgetOptions struct {
	SiteKey    string
	Theme      Theme
	Size       Size
	Appearance Appearance
	Position   Position
}

// WithDefaults fills every unset field except SiteKey.
func (o WidgetOptions) WithDefaults() WidgetOptions {
	if o.Theme == "" {
		o.Theme = ThemeAuto
	}
	if o.Size == "" {
		o.Size = SizeNormal
	}
	if o.Appearance == "" {
		o.Appearance = AppearanceAlways
	}
	if o.Position == "" {
		o.Position = PositionRight
	}
	return o
}

// Validate checks the site key and every enum field.
func (o WidgetOptions) Validate() error {
	if o.SiteKey == "" {
		return fmt.Errorf("%w: site key is required", ErrInvalidOption)
	}

	switch o.Theme {
	case ThemeLight, ThemeDark, ThemeAuto:
	default:
		return fmt.Errorf("%w: theme %q", ErrInvalidOption, o.Theme)
	}

	switch o.Size {
	case SizeCompact, SizeNormal:
	default:
		return fmt.Errorf("%w: size %q", ErrInvalidOption, o.Size)
	}

	switch o.Appearance {
	case AppearanceAlways, AppearanceExecute, AppearanceInteractionOnly:
	default:
		return fmt.Errorf("%w: appearance %q", ErrInvalidOption, o.Appearance)
	}

	switch o.Position {
	case PositionLeft, PositionRight:
	default:
		return fmt.Errorf("%w: position %q", ErrInvalidOption, o.Position)
	}

	return nil
}

// WidgetSignal is the single argument carried by every lifecycle event.
type WidgetSignal struct {
	WidgetID  uuid.UUID
	Token     string // Only set on verified
	ErrorCode string // Only set on error
	At        time.Time
}

// SignalFromArgs extracts the WidgetSignal from emitted args.
func SignalFromArgs(args []any) (WidgetSignal, bool) {
	if len(args) == 0 {
		return WidgetSignal{}, false
	}
	sig, ok := args[0].(WidgetSignal)
	return sig, ok
}
