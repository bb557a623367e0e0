package presenter

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/adlift/mockup-studio/editor"
	"github.com/adlift/mockup-studio/remote"
	"github.com/adlift/mockup-studio/ui/model"
)

// TemplateSource narrows the template store to what the picker consumes.
type TemplateSource interface {
	List(ctx context.Context, f remote.Filter) ([]remote.Template, error)
	Delete(ctx context.Context, location, photoID string) error
}

// TemplateListView displays the stored templates and picker status messages.
type TemplateListView interface {
	ShowTemplates(items []model.TemplateItem)
	SetTemplateStatus(text string)
}

// TemplatePresenter drives the template picker: listing stored templates with
// thumbnails, applying one into the session and deleting. Network work runs on
// a worker goroutine; Tick flushes results on the UI thread.
type TemplatePresenter struct {
	session *editor.Session
	source  TemplateSource
	view    TemplateListView
	logger  *slog.Logger

	mu       sync.Mutex
	location string
	items    []remote.Template
	pending  []templateOutcome
}

type templateOutcome struct {
	items     []remote.Template
	display   []model.TemplateItem
	statusErr error
	status    string
}

func NewTemplatePresenter(session *editor.Session, source TemplateSource, view TemplateListView, logger *slog.Logger) *TemplatePresenter {
	return &TemplatePresenter{session: session, source: source, view: view, logger: logger}
}

// Refresh lists the templates stored for the location and resolves their
// thumbnails, then queues the batch for the next Tick.
func (p *TemplatePresenter) Refresh(location string) {
	if p == nil || p.session == nil || p.source == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	p.location = location
	p.mu.Unlock()
	p.view.SetTemplateStatus("loading templates...")
	go p.queue(p.load(context.Background(), location))
}

// load fetches the list and its thumbnails. Runs off the UI thread.
func (p *TemplatePresenter) load(ctx context.Context, location string) templateOutcome {
	templates, err := p.source.List(ctx, remote.Filter{Location: location})
	if err != nil {
		return templateOutcome{statusErr: err}
	}
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		if t.Photo != "" {
			names = append(names, t.Photo)
		}
	}
	var tmu sync.Mutex
	thumbs := make(map[string]image.Image, len(names))
	p.session.Thumbnails().FetchBatch(ctx, location, names, func(filename string, img image.Image) {
		tmu.Lock()
		thumbs[filename] = img
		tmu.Unlock()
	})
	display := make([]model.TemplateItem, 0, len(templates))
	for _, t := range templates {
		count := 0
		if t.Frames != nil {
			count = t.Frames.Len()
		}
		display = append(display, model.TemplateItem{
			Photo:      t.Photo,
			Thumbnail:  thumbs[t.Photo],
			TimeOfDay:  t.TimeOfDay,
			Side:       t.Side,
			FrameCount: count,
		})
	}
	return templateOutcome{items: templates, display: display}
}

func (p *TemplatePresenter) queue(o templateOutcome) {
	p.mu.Lock()
	p.pending = append(p.pending, o)
	p.mu.Unlock()
}

// Apply loads the i-th listed template's frames into the session, replacing
// the current set.
func (p *TemplatePresenter) Apply(i int) {
	if p == nil || p.session == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	ok := i >= 0 && i < len(p.items)
	var t remote.Template
	if ok {
		t = p.items[i]
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	p.session.ApplyTemplate(t)
	p.view.SetTemplateStatus("template applied")
}

// Delete removes the i-th listed template from the store, then reloads the
// list so the picker reflects the deletion.
func (p *TemplatePresenter) Delete(i int) {
	if p == nil || p.session == nil || p.source == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	ok := i >= 0 && i < len(p.items)
	var photoID string
	location := p.location
	if ok {
		photoID = p.items[i].Photo
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	p.view.SetTemplateStatus("deleting...")
	go func() {
		ctx := context.Background()
		if err := p.source.Delete(ctx, location, photoID); err != nil {
			p.queue(templateOutcome{statusErr: err})
			return
		}
		o := p.load(ctx, location)
		o.status = "template deleted"
		p.queue(o)
	}()
}

// Tick flushes queued list results and status updates to the view.
func (p *TemplatePresenter) Tick() {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	outcomes := p.pending
	p.pending = nil
	p.mu.Unlock()
	for _, o := range outcomes {
		if o.statusErr != nil {
			if p.logger != nil {
				p.logger.Error("template picker request failed", "error", o.statusErr)
			}
			p.view.SetTemplateStatus(o.statusErr.Error())
			continue
		}
		p.mu.Lock()
		p.items = o.items
		p.mu.Unlock()
		p.view.ShowTemplates(o.display)
		p.view.SetTemplateStatus(o.status)
	}
}
