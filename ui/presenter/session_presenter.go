package presenter

import (
	"time"

	"github.com/adlift/mockup-studio/ui/model"
)

// EditingSource reports whether a photo is loaded and being edited.
type EditingSource interface{ Editing() bool }

// SessionView displays formatted session and total durations.
type SessionView interface {
	SetSession(session, total time.Duration)
}

// SessionPresenter formats editing durations from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	src  EditingSource
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, src EditingSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, src: src, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.src == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.src.Editing(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
}
