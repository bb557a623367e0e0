package gesture

import (
	"log/slog"

	"github.com/adlift/mockup-studio/domain/frame"
	"github.com/adlift/mockup-studio/domain/geometry"
	"github.com/adlift/mockup-studio/domain/viewport"
)

// recognizer gives one gesture first refusal at gesture start. The list is
// evaluated in priority order; the first to claim wins.
type recognizer struct {
	name  string
	claim func(m *Machine, ev Pointer) (Mode, bool)
}

// Machine consumes pointer events and, per gesture, drives exactly one of
// pan, pinch-zoom, corner-drag, frame-drag or new-frame-draw, delegating to
// the viewport and the frame store. All transitions happen synchronously
// inside the event handlers; starting a new gesture is gated on the current
// one reaching idle, except the two-pointer promotion to pinching.
type Machine struct {
	logger *slog.Logger
	view   *viewport.View
	store  *frame.Store

	hitRadius    float64
	panThreshold float64

	mode        Mode
	recognizers []recognizer
	listeners   []Listener
	onSample    SampleFunc

	// gesture scratch
	downCanvas  geometry.Point // canvas point at gesture start
	moved       float64        // max distance traveled this gesture
	viaModifier bool           // pan started by modifier key, not button
	panOriginX  float64
	panOriginY  float64
	target      int // frame ref for corner/frame drags
	corner      int
	lastImage   geometry.Point // previous image point for frame translation
	drawStart   geometry.Point // image-space rubber band anchor
	drawCur     geometry.Point
	pointerPos  [2]geometry.Point
	pointerDown [2]bool
	pinch       viewport.Pinch
}

// NewMachine wires the machine to a viewport and store. hitRadius and
// panThreshold are in canvas pixels.
func NewMachine(view *viewport.View, store *frame.Store, hitRadius, panThreshold float64, logger *slog.Logger) *Machine {
	m := &Machine{
		view:         view,
		store:        store,
		hitRadius:    hitRadius,
		panThreshold: panThreshold,
		logger:       logger,
	}
	// Pinch outranks all of these but is claimed up front in PointerDown,
	// since it is the one gesture allowed to interrupt another.
	m.recognizers = []recognizer{
		{"pan", claimPan},
		{"corner", claimCorner},
		{"frame", claimFrame},
		{"draw", claimDraw},
	}
	return m
}

// AddListener registers a mode-transition callback.
func (m *Machine) AddListener(l Listener) {
	if l != nil {
		m.listeners = append(m.listeners, l)
	}
}

// OnSample registers the color-sample click callback.
func (m *Machine) OnSample(f SampleFunc) { m.onSample = f }

// Mode returns the active interaction mode.
func (m *Machine) Mode() Mode { return m.mode }

// RubberBand returns the in-flight drawing rectangle in image space while a
// draw gesture is active.
func (m *Machine) RubberBand() (geometry.Quad, bool) {
	if m.mode != ModeDrawing {
		return geometry.Quad{}, false
	}
	return geometry.RectQuad(m.drawStart, m.drawCur), true
}

func (m *Machine) transition(next Mode) {
	prev := m.mode
	if prev == next {
		return
	}
	m.mode = next
	if m.logger != nil {
		m.logger.Debug("gesture transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range m.listeners {
		l(prev, next)
	}
}

// PointerDown starts a gesture. A second pointer arriving during any gesture
// promotes to pinching; otherwise new gestures are only recognized from idle.
func (m *Machine) PointerDown(ev Pointer) {
	if ev.Slot < 0 || ev.Slot > 1 {
		return
	}
	m.pointerPos[ev.Slot] = ev.Pos
	m.pointerDown[ev.Slot] = true

	if m.pointerDown[0] && m.pointerDown[1] {
		// Two simultaneous pointers override everything else.
		m.pinch = m.view.BeginPinch(m.pointerPos[0], m.pointerPos[1])
		m.transition(ModePinching)
		return
	}
	if m.mode != ModeIdle {
		return
	}

	m.downCanvas = ev.Pos
	m.moved = 0
	for _, r := range m.recognizers {
		if next, ok := r.claim(m, ev); ok {
			m.transition(next)
			return
		}
	}
	// Click outside the image is ignored.
}

// PointerMove applies the active gesture's effect.
func (m *Machine) PointerMove(ev Pointer) {
	if ev.Slot < 0 || ev.Slot > 1 {
		return
	}
	m.pointerPos[ev.Slot] = ev.Pos
	if d := ev.Pos.Dist(m.downCanvas); d > m.moved {
		m.moved = d
	}

	switch m.mode {
	case ModePinching:
		m.pinch.Update(m.view, m.pointerPos[0], m.pointerPos[1])
	case ModePanning:
		m.view.PanX = m.panOriginX + (ev.Pos.X - m.downCanvas.X)
		m.view.PanY = m.panOriginY + (ev.Pos.Y - m.downCanvas.Y)
	case ModeDraggingCorner:
		m.store.UpdateCorner(m.target, m.corner, m.view.ToImage(ev.Pos))
	case ModeDraggingFrame:
		p := m.view.ToImage(ev.Pos)
		m.store.Translate(m.target, p.X-m.lastImage.X, p.Y-m.lastImage.Y)
		m.lastImage = p
	case ModeDrawing:
		m.drawCur = m.view.ToImage(ev.Pos)
	}
}

// PointerUp ends the gesture for the released slot. Drawing commits the
// rubber band into the store's draft; a stationary modifier pan resolves as a
// color-sample click.
func (m *Machine) PointerUp(ev Pointer) {
	if ev.Slot < 0 || ev.Slot > 1 {
		return
	}
	m.pointerDown[ev.Slot] = false

	switch m.mode {
	case ModePinching:
		if !m.pointerDown[0] && !m.pointerDown[1] {
			m.transition(ModeIdle)
		}
		return
	case ModeDrawing:
		m.drawCur = m.view.ToImage(ev.Pos)
		m.store.SetDraft(geometry.RectQuad(m.drawStart, m.drawCur))
	case ModePanning:
		if m.viaModifier && m.moved < m.panThreshold && m.onSample != nil {
			// Intent resolved retroactively by distance traveled: a
			// stationary modifier click samples a color instead of panning.
			m.onSample(ev.Pos)
		}
	}
	if m.mode != ModeIdle {
		m.transition(ModeIdle)
	}
}

// Cancel aborts the active gesture without committing anything.
func (m *Machine) Cancel() {
	m.pointerDown[0] = false
	m.pointerDown[1] = false
	m.transition(ModeIdle)
}

// --- recognizers, in priority order ---

func claimPan(m *Machine, ev Pointer) (Mode, bool) {
	if !ev.Secondary && !ev.PanModifier {
		return 0, false
	}
	m.viaModifier = ev.PanModifier && !ev.Secondary
	m.panOriginX = m.view.PanX
	m.panOriginY = m.view.PanY
	return ModePanning, true
}

func claimCorner(m *Machine, ev Pointer) (Mode, bool) {
	quads, refs := m.store.HitCandidates()
	for i := range quads {
		quads[i] = m.view.QuadToCanvas(quads[i])
	}
	hit, ok := geometry.NearestCorner(ev.Pos, quads, m.hitRadius)
	if !ok {
		return 0, false
	}
	m.target = refs[hit.Quad]
	m.corner = hit.Corner
	m.store.SetActive(m.target)
	return ModeDraggingCorner, true
}

func claimFrame(m *Machine, ev Pointer) (Mode, bool) {
	p := m.view.ToImage(ev.Pos)
	ref, ok := m.store.TopmostAt(p)
	if !ok {
		return 0, false
	}
	m.target = ref
	m.lastImage = p
	m.store.SetActive(ref)
	return ModeDraggingFrame, true
}

func claimDraw(m *Machine, ev Pointer) (Mode, bool) {
	if !m.view.InImage(ev.Pos) {
		return 0, false
	}
	m.drawStart = m.view.ToImage(ev.Pos)
	m.drawCur = m.drawStart
	return ModeDrawing, true
}
