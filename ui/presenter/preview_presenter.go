package presenter

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"

	"github.com/adlift/mockup-studio/editor"
	"github.com/adlift/mockup-studio/preview"
	"github.com/adlift/mockup-studio/ui/images"
)

// PreviewView displays composite renders and preview status messages.
type PreviewView interface {
	UpdatePreview(img image.Image)
	SetPreviewStatus(text string)
}

// PreviewPresenter drives test-composite requests. Render results arrive on a
// worker goroutine and are queued; Tick flushes them on the UI thread, so the
// view is never touched off-thread.
type PreviewPresenter struct {
	session *editor.Session
	view    PreviewView
	logger  *slog.Logger

	mu      sync.Mutex
	pending []previewOutcome
}

type previewOutcome struct {
	img image.Image
	err error
}

func NewPreviewPresenter(session *editor.Session, view PreviewView, logger *slog.Logger) *PreviewPresenter {
	return &PreviewPresenter{session: session, view: view, logger: logger}
}

// Request submits the active frame for a test composite.
func (p *PreviewPresenter) Request(timeOfDay string) {
	if p == nil || p.session == nil || p.view == nil {
		return
	}
	err := p.session.RequestPreview(context.Background(), timeOfDay, func(key string, img image.Image, err error) {
		p.mu.Lock()
		p.pending = append(p.pending, previewOutcome{img: img, err: err})
		p.mu.Unlock()
	})
	switch {
	case err == nil:
		p.view.SetPreviewStatus("rendering...")
		p.showLocalHint()
	case errors.Is(err, preview.ErrPreviewInFlight):
		p.view.SetPreviewStatus("a preview is already rendering")
	default:
		p.view.SetPreviewStatus(err.Error())
	}
}

// showLocalHint pushes a locally adjusted copy of the creative into the panel
// so the operator sees the frame's appearance settings immediately, before
// the remote composite arrives and replaces it.
func (p *PreviewPresenter) showLocalHint() {
	creative := p.session.Creative()
	app := p.session.Store().ActiveAppearance()
	if creative == nil || app == nil {
		return
	}
	p.view.UpdatePreview(images.ApproximateAppearance(creative.RGBA, *app))
}

// ShowCached swaps the view to the active frame's cached render, if present.
// Called when the selection changes so previously rendered frames reappear
// without a new request.
func (p *PreviewPresenter) ShowCached() {
	if p == nil || p.session == nil || p.view == nil {
		return
	}
	if img, ok := p.session.CachedPreview(); ok {
		p.view.UpdatePreview(img)
	}
}

// Tick flushes queued render outcomes to the view.
func (p *PreviewPresenter) Tick() {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	outcomes := p.pending
	p.pending = nil
	p.mu.Unlock()
	for _, o := range outcomes {
		if o.err != nil {
			if p.logger != nil {
				p.logger.Error("preview render failed", "error", o.err)
			}
			p.view.SetPreviewStatus(o.err.Error())
			continue
		}
		p.view.UpdatePreview(o.img)
		p.view.SetPreviewStatus("")
	}
}
