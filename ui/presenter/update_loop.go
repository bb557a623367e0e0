package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback. The
// zero value is usable (methods are nil-safe).
type Loop struct {
	Session   *SessionPresenter
	Editor    *EditorPresenter
	Preview   *PreviewPresenter
	Templates *TemplatePresenter
	Schedule  func()
}

func NewLoop(sess *SessionPresenter, ed *EditorPresenter, prev *PreviewPresenter, tmpl *TemplatePresenter, schedule func()) *Loop {
	return &Loop{Session: sess, Editor: ed, Preview: prev, Templates: tmpl, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Editor != nil {
		l.Editor.Tick()
	}
	if l.Preview != nil {
		l.Preview.Tick()
	}
	if l.Templates != nil {
		l.Templates.Tick()
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
