package gesture

import "github.com/adlift/mockup-studio/domain/geometry"

// Mode enumerates the finite interaction states of the editor. Exactly one
// mode is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeDraggingCorner
	ModeDraggingFrame
	ModePanning
	ModePinching
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDrawing:
		return "drawing"
	case ModeDraggingCorner:
		return "dragging-corner"
	case ModeDraggingFrame:
		return "dragging-frame"
	case ModePanning:
		return "panning"
	case ModePinching:
		return "pinching"
	default:
		return "unknown"
	}
}

// Pointer is a device-agnostic pointer event sample (mouse, pen or touch) in
// canvas space. Slot 0 is the primary pointer; slot 1 is a second touch.
type Pointer struct {
	Slot        int
	Pos         geometry.Point
	Secondary   bool // secondary button held (pan, never reinterpreted)
	PanModifier bool // pan modifier key held (pan, reinterpreted as color sample when stationary)
}

// Listener is called on each mode transition.
type Listener func(prev, next Mode)

// SampleFunc receives the canvas point of a stationary modifier-click,
// resolved retroactively when a modifier pan ends under the pan threshold.
type SampleFunc func(canvas geometry.Point)
