package frame

import (
	"errors"

	"github.com/adlift/mockup-studio/domain/geometry"
)

// Frame is a committed quadrilateral region on the billboard photo plus its
// compositing parameters. The quad is always exactly 4 points in image space.
type Frame struct {
	Quad       geometry.Quad
	Appearance Appearance
}

// Selection sentinels for Store.Active. Committed frames are addressed by
// their non-negative index.
const (
	ActiveNone  = -2
	ActiveDraft = -1
)

// ErrIncompleteDraft is returned when committing a draft that does not have
// exactly 4 points.
var ErrIncompleteDraft = errors.New("frame: draft does not have 4 points")

// ChangeListener is invoked after structural changes (frame count, selection,
// draft commit). Per-move corner and translate updates do not notify; the
// renderer reads the store directly each frame.
type ChangeListener func()

// Store holds the ordered committed frames and the in-progress draft
// quadrilateral. It is mutated synchronously from pointer handlers and is not
// safe for concurrent use.
type Store struct {
	frames    []Frame
	draft     []geometry.Point // 0..4 points, image space
	draftApp  Appearance
	active    int
	listeners []ChangeListener
}

// NewStore returns an empty store with no selection.
func NewStore() *Store {
	return &Store{active: ActiveNone, draftApp: DefaultAppearance()}
}

// AddListener registers a structural-change callback.
func (s *Store) AddListener(l ChangeListener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

func (s *Store) notify() {
	for _, l := range s.listeners {
		l()
	}
}

// Len returns the number of committed frames.
func (s *Store) Len() int { return len(s.frames) }

// Frames returns the committed frames in add order. The slice is shared with
// the store; callers must not append to it.
func (s *Store) Frames() []Frame { return s.frames }

// Frame returns the committed frame at index i.
func (s *Store) Frame(i int) (*Frame, bool) {
	if i < 0 || i >= len(s.frames) {
		return nil, false
	}
	return &s.frames[i], true
}

// Draft returns the in-progress points (0..4).
func (s *Store) Draft() []geometry.Point { return s.draft }

// DraftReady reports whether the draft has the full 4 points.
func (s *Store) DraftReady() bool { return len(s.draft) == 4 }

// SetDraft replaces the in-progress quadrilateral wholesale, e.g. from a
// rubber-band drag or a chroma detection. Selects the draft as active.
func (s *Store) SetDraft(q geometry.Quad) {
	s.draft = []geometry.Point{q[0], q[1], q[2], q[3]}
	s.active = ActiveDraft
	s.notify()
}

// ClearDraft discards the in-progress quadrilateral.
func (s *Store) ClearDraft() {
	if s.draft == nil && s.active != ActiveDraft {
		return
	}
	s.draft = nil
	if s.active == ActiveDraft {
		s.active = ActiveNone
	}
	s.notify()
}

// Add commits the draft as a new frame and clears the draft slot. The new
// frame carries the draft's appearance and becomes the active selection.
func (s *Store) Add() (int, error) {
	if len(s.draft) != 4 {
		return -1, ErrIncompleteDraft
	}
	q := geometry.Quad{s.draft[0], s.draft[1], s.draft[2], s.draft[3]}
	s.frames = append(s.frames, Frame{Quad: q, Appearance: s.draftApp})
	s.draft = nil
	s.draftApp = DefaultAppearance()
	s.active = len(s.frames) - 1
	s.notify()
	return s.active, nil
}

// append is used by the codec to restore frames without touching the draft.
func (s *Store) appendFrame(f Frame) {
	s.frames = append(s.frames, f)
}

// ReplaceAll swaps the committed frames wholesale, discarding the draft and
// the selection; used when loading a stored template.
func (s *Store) ReplaceAll(frames []Frame) {
	s.frames = append(s.frames[:0:0], frames...)
	s.draft = nil
	s.draftApp = DefaultAppearance()
	s.active = ActiveNone
	s.notify()
}

// UpdateCorner replaces a single corner of the referenced frame (a committed
// index or ActiveDraft), leaving the other 3 points and the appearance
// untouched.
func (s *Store) UpdateCorner(ref, corner int, p geometry.Point) {
	if corner < 0 || corner > 3 {
		return
	}
	if ref == ActiveDraft {
		if len(s.draft) == 4 {
			s.draft[corner] = p
		}
		return
	}
	if ref >= 0 && ref < len(s.frames) {
		s.frames[ref].Quad[corner] = p
	}
}

// Translate shifts all 4 points of the referenced frame by (dx, dy).
func (s *Store) Translate(ref int, dx, dy float64) {
	if ref == ActiveDraft {
		for i := range s.draft {
			s.draft[i].X += dx
			s.draft[i].Y += dy
		}
		return
	}
	if ref >= 0 && ref < len(s.frames) {
		s.frames[ref].Quad = s.frames[ref].Quad.Translate(dx, dy)
	}
}

// Remove deletes the committed frame at index i. Selection moves to none.
func (s *Store) Remove(i int) bool {
	if i < 0 || i >= len(s.frames) {
		return false
	}
	s.frames = append(s.frames[:i], s.frames[i+1:]...)
	s.active = ActiveNone
	s.notify()
	return true
}

// Clear removes every committed frame and the draft.
func (s *Store) Clear() {
	s.frames = nil
	s.draft = nil
	s.draftApp = DefaultAppearance()
	s.active = ActiveNone
	s.notify()
}

// Active returns the current selection (index, ActiveDraft or ActiveNone).
func (s *Store) Active() int { return s.active }

// SetActive changes the selection. Out-of-range indices clear it.
func (s *Store) SetActive(ref int) {
	switch {
	case ref == ActiveDraft && s.draft != nil:
		s.active = ActiveDraft
	case ref >= 0 && ref < len(s.frames):
		s.active = ref
	default:
		s.active = ActiveNone
	}
	s.notify()
}

// ActiveAppearance returns a mutable pointer to the appearance of the active
// frame (or the draft's), so config edits apply in place. Returns nil when
// nothing is active.
func (s *Store) ActiveAppearance() *Appearance {
	switch {
	case s.active == ActiveDraft:
		return &s.draftApp
	case s.active >= 0 && s.active < len(s.frames):
		return &s.frames[s.active].Appearance
	}
	return nil
}

// ActiveQuad returns the active frame's quad. For the draft it requires the
// full 4 points.
func (s *Store) ActiveQuad() (geometry.Quad, bool) {
	switch {
	case s.active == ActiveDraft:
		if len(s.draft) == 4 {
			return geometry.Quad{s.draft[0], s.draft[1], s.draft[2], s.draft[3]}, true
		}
	case s.active >= 0 && s.active < len(s.frames):
		return s.frames[s.active].Quad, true
	}
	return geometry.Quad{}, false
}

// HitCandidates returns the quads scanned for corner hits, draft first (so it
// wins over committed frames when overlapping), then committed frames in add
// order, with the parallel frame references for each entry.
func (s *Store) HitCandidates() ([]geometry.Quad, []int) {
	quads := make([]geometry.Quad, 0, len(s.frames)+1)
	refs := make([]int, 0, len(s.frames)+1)
	if len(s.draft) == 4 {
		quads = append(quads, geometry.Quad{s.draft[0], s.draft[1], s.draft[2], s.draft[3]})
		refs = append(refs, ActiveDraft)
	}
	for i, f := range s.frames {
		quads = append(quads, f.Quad)
		refs = append(refs, i)
	}
	return quads, refs
}

// TopmostAt returns the reference of the frame containing the image-space
// point p: the draft if it contains p, else the last-added committed frame
// containing it (later additions draw on top).
func (s *Store) TopmostAt(p geometry.Point) (int, bool) {
	if len(s.draft) == 4 {
		q := geometry.Quad{s.draft[0], s.draft[1], s.draft[2], s.draft[3]}
		if q.Contains(p) {
			return ActiveDraft, true
		}
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Quad.Contains(p) {
			return i, true
		}
	}
	return ActiveNone, false
}
