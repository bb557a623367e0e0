package presenter

import (
	"fmt"
	"log/slog"

	"github.com/adlift/mockup-studio/domain/chroma"
	"github.com/adlift/mockup-studio/domain/frame"
	"github.com/adlift/mockup-studio/domain/geometry"
	"github.com/adlift/mockup-studio/domain/gesture"
	"github.com/adlift/mockup-studio/editor"
	"github.com/adlift/mockup-studio/ui/model"
)

// EditorView is the surface the editor presenter drives: the status readout,
// a full canvas repaint and the config panel's editable state.
type EditorView interface {
	SetEditorStatus(s model.EditorSnapshot)
	RedrawCanvas()
	SetConfigEditable(enabled bool)
}

// EditorPresenter translates raw canvas pointer callbacks into gesture
// machine events and flushes status snapshots at gesture boundaries. Pointer
// moves repaint the canvas directly but never touch the status widgets.
type EditorPresenter struct {
	session   *editor.Session
	model     *model.EditorModel
	detection *model.DetectionModel
	view      EditorView
	logger    *slog.Logger

	dirty bool
	hint  string

	lastActive  int
	activeKnown bool
	onSelection func()
}

// NewEditorPresenter wires the presenter to the session's gesture machine and
// frame store so boundary transitions mark the status dirty.
func NewEditorPresenter(session *editor.Session, em *model.EditorModel, dm *model.DetectionModel, view EditorView, logger *slog.Logger) *EditorPresenter {
	p := &EditorPresenter{session: session, model: em, detection: dm, view: view, logger: logger, dirty: true}
	if session != nil {
		session.Machine().AddListener(func(prev, next gesture.Mode) { p.dirty = true })
		session.Store().AddListener(func() { p.dirty = true })
	}
	return p
}

// OnSelectionChange registers a callback fired after the active frame changes,
// at the same boundary that flushes the status snapshot.
func (p *EditorPresenter) OnSelectionChange(fn func()) {
	if p != nil {
		p.onSelection = fn
	}
}

// PointerDown forwards a canvas press. slot 1 carries the second touch point.
func (p *EditorPresenter) PointerDown(slot int, x, y float64, secondary, modifier bool) {
	if p == nil || p.session == nil {
		return
	}
	p.session.Machine().PointerDown(gesture.Pointer{
		Slot: slot, Pos: geometry.Point{X: x, Y: y},
		Secondary: secondary, PanModifier: modifier,
	})
	p.repaint()
}

// PointerMove forwards a drag sample. The active gesture's effect applies
// synchronously; only the canvas repaints.
func (p *EditorPresenter) PointerMove(slot int, x, y float64) {
	if p == nil || p.session == nil {
		return
	}
	p.session.Machine().PointerMove(gesture.Pointer{Slot: slot, Pos: geometry.Point{X: x, Y: y}})
	p.repaint()
}

// PointerUp ends the gesture for the slot.
func (p *EditorPresenter) PointerUp(slot int, x, y float64, secondary, modifier bool) {
	if p == nil || p.session == nil {
		return
	}
	p.session.Machine().PointerUp(gesture.Pointer{
		Slot: slot, Pos: geometry.Point{X: x, Y: y},
		Secondary: secondary, PanModifier: modifier,
	})
	p.repaint()
}

// Wheel applies an anchor-invariant zoom step at the cursor.
func (p *EditorPresenter) Wheel(x, y float64, delta float64) {
	if p == nil || p.session == nil {
		return
	}
	v := p.session.View()
	factor := 1.1
	if delta < 0 {
		factor = 1 / 1.1
	}
	v.ZoomAt(v.Zoom*factor, geometry.Point{X: x, Y: y})
	p.dirty = true
	p.repaint()
}

// ResetView restores zoom 1 and centered pan.
func (p *EditorPresenter) ResetView() {
	if p == nil || p.session == nil {
		return
	}
	p.session.View().Reset()
	p.dirty = true
	p.repaint()
}

// CommitFrame promotes the draft to a committed frame.
func (p *EditorPresenter) CommitFrame() {
	if p == nil || p.session == nil {
		return
	}
	if _, err := p.session.AddFrame(); err != nil {
		p.setHint(err.Error())
		return
	}
	p.setHint("")
}

// RemoveActive deletes the active committed frame, if any.
func (p *EditorPresenter) RemoveActive() {
	if p == nil || p.session == nil {
		return
	}
	ref := p.session.Store().Active()
	if ref == frame.ActiveDraft {
		p.session.Store().ClearDraft()
		p.repaint()
		return
	}
	if ref < 0 {
		p.setHint("no frame selected")
		return
	}
	p.session.RemoveFrame(ref)
	p.repaint()
}

// Detect runs chroma detection and records the outcome for the status bar.
func (p *EditorPresenter) Detect() {
	if p == nil || p.session == nil {
		return
	}
	res, err := p.session.DetectRegion()
	if err != nil {
		p.setHint(err.Error())
		return
	}
	if p.detection != nil {
		p.detection.SetResult(res)
	}
	if res.Found {
		p.setHint(fmt.Sprintf("detected %d px region", res.Matched))
	} else {
		p.setHint(detectionHint(res))
	}
	p.repaint()
}

func detectionHint(res chroma.Result) string {
	if res.Matched == 0 {
		return "no matching pixels; sample the billboard color first"
	}
	return fmt.Sprintf("only %d matching px; raise tolerance or re-sample", res.Matched)
}

func (p *EditorPresenter) setHint(h string) {
	if p.hint != h {
		p.hint = h
		p.dirty = true
	}
}

func (p *EditorPresenter) repaint() {
	if p.view != nil {
		p.view.RedrawCanvas()
	}
}

// Tick flushes the status snapshot when a boundary marked it dirty.
func (p *EditorPresenter) Tick() {
	if p == nil || p.session == nil || p.view == nil || !p.dirty {
		return
	}
	p.dirty = false
	snap := model.EditorSnapshot{
		FrameCount:  p.session.Store().Len(),
		ActiveIndex: p.session.Store().Active(),
		Zoom:        p.session.View().Zoom,
		Mode:        p.session.Machine().Mode().String(),
		LastSample:  p.session.LastSample(),
		Hint:        p.hint,
	}
	if p.model == nil || p.model.Set(snap) {
		p.view.SetEditorStatus(snap)
	}
	if !p.activeKnown || snap.ActiveIndex != p.lastActive {
		p.lastActive = snap.ActiveIndex
		p.activeKnown = true
		p.view.SetConfigEditable(snap.ActiveIndex != frame.ActiveNone)
		if p.onSelection != nil {
			p.onSelection()
		}
	}
	p.repaint()
}
