package gesture

import (
	"testing"

	"github.com/adlift/mockup-studio/domain/frame"
	"github.com/adlift/mockup-studio/domain/geometry"
	"github.com/adlift/mockup-studio/domain/viewport"
)

func newMachine() (*Machine, *viewport.View, *frame.Store) {
	v := viewport.New(viewport.Fit{W: 800, H: 600, Scale: 1}, 0.5, 8)
	s := frame.NewStore()
	m := NewMachine(v, s, 12, 5, nil)
	return m, v, s
}

func down(m *Machine, x, y float64) { m.PointerDown(Pointer{Pos: geometry.Point{X: x, Y: y}}) }
func move(m *Machine, x, y float64) { m.PointerMove(Pointer{Pos: geometry.Point{X: x, Y: y}}) }
func up(m *Machine, x, y float64)   { m.PointerUp(Pointer{Pos: geometry.Point{X: x, Y: y}}) }

func TestMachine_ManualFrameScenario(t *testing.T) {
	m, _, s := newMachine()
	down(m, 100, 100)
	if m.Mode() != ModeDrawing {
		t.Fatalf("expected drawing, got %v", m.Mode())
	}
	move(m, 200, 150)
	if rb, ok := m.RubberBand(); !ok || rb[2] != (geometry.Point{X: 200, Y: 150}) {
		t.Fatalf("rubber band: %v ok=%v", rb, ok)
	}
	up(m, 300, 220)
	if m.Mode() != ModeIdle {
		t.Fatalf("expected idle after release, got %v", m.Mode())
	}
	if !s.DraftReady() {
		t.Fatalf("draw should fill the draft")
	}
	if _, err := s.Add(); err != nil {
		t.Fatalf("add: %v", err)
	}
	f, _ := s.Frame(0)
	want := geometry.Quad{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 300, Y: 220}, {X: 100, Y: 220}}
	if f.Quad != want {
		t.Fatalf("committed frame:\n got %v\nwant %v", f.Quad, want)
	}
}

func TestMachine_ClickOutsideImageIgnored(t *testing.T) {
	m, _, _ := newMachine()
	down(m, 900, 700)
	if m.Mode() != ModeIdle {
		t.Fatalf("outside click must stay idle, got %v", m.Mode())
	}
}

func TestMachine_CornerDragSelectsAndMoves(t *testing.T) {
	m, _, s := newMachine()
	s.SetDraft(geometry.RectQuad(geometry.Point{X: 100, Y: 100}, geometry.Point{X: 300, Y: 220}))
	if _, err := s.Add(); err != nil {
		t.Fatalf("add: %v", err)
	}
	s.SetActive(frame.ActiveNone)

	down(m, 298, 218) // near corner 2 (300,220), within 12 px
	if m.Mode() != ModeDraggingCorner {
		t.Fatalf("expected corner drag, got %v", m.Mode())
	}
	if s.Active() != 0 {
		t.Fatalf("corner drag must select the owning frame, active=%d", s.Active())
	}
	move(m, 320, 260)
	up(m, 320, 260)
	f, _ := s.Frame(0)
	want := geometry.Quad{{X: 100, Y: 100}, {X: 300, Y: 100}, {X: 320, Y: 260}, {X: 100, Y: 220}}
	if f.Quad != want {
		t.Fatalf("corner edit:\n got %v\nwant %v", f.Quad, want)
	}
}

func TestMachine_FrameDragTranslates(t *testing.T) {
	m, _, s := newMachine()
	s.SetDraft(geometry.RectQuad(geometry.Point{X: 100, Y: 100}, geometry.Point{X: 300, Y: 220}))
	if _, err := s.Add(); err != nil {
		t.Fatalf("add: %v", err)
	}

	down(m, 200, 160) // interior, away from all corners
	if m.Mode() != ModeDraggingFrame {
		t.Fatalf("expected frame drag, got %v", m.Mode())
	}
	move(m, 230, 180)
	up(m, 230, 180)
	f, _ := s.Frame(0)
	want := geometry.Quad{{X: 130, Y: 120}, {X: 330, Y: 120}, {X: 330, Y: 240}, {X: 130, Y: 240}}
	if f.Quad != want {
		t.Fatalf("translate:\n got %v\nwant %v", f.Quad, want)
	}
}

func TestMachine_PanPriorityOverHits(t *testing.T) {
	m, v, s := newMachine()
	s.SetDraft(geometry.RectQuad(geometry.Point{X: 100, Y: 100}, geometry.Point{X: 300, Y: 220}))
	if _, err := s.Add(); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Modifier held on top of a corner: pan wins over corner drag.
	m.PointerDown(Pointer{Pos: geometry.Point{X: 300, Y: 220}, PanModifier: true})
	if m.Mode() != ModePanning {
		t.Fatalf("pan modifier must outrank corner hit, got %v", m.Mode())
	}
	move(m, 340, 250)
	if v.PanX != 40 || v.PanY != 30 {
		t.Fatalf("pan offset: (%v,%v)", v.PanX, v.PanY)
	}
	up(m, 340, 250)
	f, _ := s.Frame(0)
	if f.Quad[2] != (geometry.Point{X: 300, Y: 220}) {
		t.Fatalf("pan must not move geometry: %v", f.Quad[2])
	}
}

func TestMachine_StationaryModifierClickSamples(t *testing.T) {
	m, _, _ := newMachine()
	var sampled []geometry.Point
	m.OnSample(func(p geometry.Point) { sampled = append(sampled, p) })

	// Under the threshold: reinterpreted as a color-sample click.
	m.PointerDown(Pointer{Pos: geometry.Point{X: 50, Y: 50}, PanModifier: true})
	move(m, 52, 51)
	up(m, 52, 51)
	if len(sampled) != 1 || sampled[0] != (geometry.Point{X: 52, Y: 51}) {
		t.Fatalf("expected one sample at release point, got %v", sampled)
	}

	// Beyond the threshold: it was a real pan.
	m.PointerDown(Pointer{Pos: geometry.Point{X: 50, Y: 50}, PanModifier: true})
	move(m, 90, 50)
	up(m, 90, 50)
	if len(sampled) != 1 {
		t.Fatalf("moving pan must not sample, got %v", sampled)
	}

	// Secondary-button pan never samples even when stationary.
	m.PointerDown(Pointer{Pos: geometry.Point{X: 50, Y: 50}, Secondary: true})
	up(m, 50, 50)
	if len(sampled) != 1 {
		t.Fatalf("button pan must not sample, got %v", sampled)
	}
}

func TestMachine_TwoPointerPromotionToPinch(t *testing.T) {
	m, v, _ := newMachine()
	down(m, 100, 100) // drawing begins
	if m.Mode() != ModeDrawing {
		t.Fatalf("precondition: %v", m.Mode())
	}
	m.PointerDown(Pointer{Slot: 1, Pos: geometry.Point{X: 300, Y: 100}})
	if m.Mode() != ModePinching {
		t.Fatalf("second pointer must promote to pinching, got %v", m.Mode())
	}
	m.PointerMove(Pointer{Slot: 1, Pos: geometry.Point{X: 500, Y: 100}})
	if v.Zoom <= 1 {
		t.Fatalf("spreading pointers should zoom in, zoom=%v", v.Zoom)
	}
	m.PointerUp(Pointer{Slot: 1, Pos: geometry.Point{X: 500, Y: 100}})
	if m.Mode() != ModePinching {
		t.Fatalf("pinch ends only when both pointers lift, got %v", m.Mode())
	}
	up(m, 100, 100)
	if m.Mode() != ModeIdle {
		t.Fatalf("expected idle, got %v", m.Mode())
	}
}

func TestMachine_GestureStartGatedOnIdle(t *testing.T) {
	m, _, s := newMachine()
	down(m, 100, 100)
	// A second down on the same slot mid-gesture must not restart recognition.
	down(m, 400, 400)
	if m.Mode() != ModeDrawing {
		t.Fatalf("gesture restart leaked: %v", m.Mode())
	}
	up(m, 150, 150)
	if !s.DraftReady() {
		t.Fatalf("original draw should have committed its rubber band")
	}
}

func TestMachine_TransitionListener(t *testing.T) {
	m, _, _ := newMachine()
	var trace []Mode
	m.AddListener(func(_, next Mode) { trace = append(trace, next) })
	down(m, 100, 100)
	up(m, 120, 120)
	if len(trace) != 2 || trace[0] != ModeDrawing || trace[1] != ModeIdle {
		t.Fatalf("transition trace: %v", trace)
	}
}
