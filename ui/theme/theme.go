package theme

// Centralized theming and styling initialization for the mockup studio UI.
// Provides palette constants and InitStyles to activate a base theme and
// configure semantic widget styles.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // panels, cards
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb" // buttons, accents
	ColorPrimaryHi = "#1d4ed8"
	ColorDanger    = "#dc2626"
	ColorDangerHi  = "#b91c1c"
	ColorAccent    = "#10b981" // active frame, detection success
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
)

// internal flag for current mode
var darkMode bool

// InitStyles (re)applies styles for the current darkMode value.
func InitStyles() { applyStyles(darkMode) }

// SetDark toggles dark mode and reapplies styles. Returns new mode value.
func SetDark(dark bool) bool {
	darkMode = dark
	applyStyles(darkMode)
	return darkMode
}

// ToggleDark flips dark mode and reapplies styles. Returns new mode value.
func ToggleDark() bool { return SetDark(!darkMode) }

// IsDark reports current mode.
func IsDark() bool { return darkMode }

// applyStyles encapsulates palette & style configuration for light/dark.
func applyStyles(dark bool) {
	_ = ActivateTheme("azure light") // baseline metrics
	if dark {
		App.Configure(Background("#0f172a"))
	} else {
		App.Configure(Background(ColorBg))
	}

	primary, danger, accent := ColorPrimary, ColorDanger, ColorAccent
	if dark {
		primary, danger = "#3b82f6", "#ef4444"
	}
	StyleConfigure(StylePrimaryButton,
		Background(primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStateLabel,
		Foreground("white"),
		Background(accent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
}
