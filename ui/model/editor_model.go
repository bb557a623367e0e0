package model

// EditorSnapshot is a cold copy of the editor state the status widgets show.
// It is refreshed at gesture boundaries, never per pointer move; the canvas
// redraw loop reads the live stores directly instead.
type EditorSnapshot struct {
	FrameCount  int
	ActiveIndex int // committed index, -1 draft, -2 none
	Zoom        float64
	Mode        string
	LastSample  string
	Hint        string
}

// EditorModel holds the latest snapshot for presenters to diff against. The
// zero value is usable. No synchronization needed: updates occur on the UI
// thread tick.
type EditorModel struct {
	snap EditorSnapshot
}

func NewEditorModel() *EditorModel { return &EditorModel{} }

// Set stores a new snapshot and reports whether it differs from the previous
// one, so presenters can skip redundant view updates.
func (m *EditorModel) Set(s EditorSnapshot) bool {
	if m == nil {
		return false
	}
	if s == m.snap {
		return false
	}
	m.snap = s
	return true
}

// Snapshot returns the current snapshot.
func (m *EditorModel) Snapshot() EditorSnapshot {
	if m == nil {
		return EditorSnapshot{}
	}
	return m.snap
}
