package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	. "modernc.org/tk9.0"

	"github.com/adlift/mockup-studio/assets"
	"github.com/adlift/mockup-studio/config"
	"github.com/adlift/mockup-studio/debug"
	"github.com/adlift/mockup-studio/editor"
	"github.com/adlift/mockup-studio/ui/theme"
	"github.com/adlift/mockup-studio/ui/view"
)

const tick = 50 * time.Millisecond

type app struct {
	container *AppContainer
	logger    *slog.Logger
	afterID   string
}

// NewApp builds the container and the top-level window.
func NewApp(title string, cfg *config.Config, logger *slog.Logger, cfgPath string) (*app, error) {
	c, err := BuildContainer(cfg, logger, cfgPath)
	if err != nil {
		return nil, err
	}
	a := &app{container: c, logger: logger}

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+60+60", cfg.CanvasWidth+420, cfg.CanvasHeight+220))
	return a, nil
}

// Start builds the layout, seeds the placeholder creative and runs the Tk
// event loop until exit.
func (a *app) Start() {
	c := a.container
	theme.InitStyles()

	c.RootView.Build(c.Session, c.EditorPresenter, c.Session.Store(), c.Session, view.Handlers{
		LoadPhoto:    a.loadPhoto,
		LoadCreative: a.loadCreative,
		Detect:       c.EditorPresenter.Detect,
		CommitFrame:  c.EditorPresenter.CommitFrame,
		DeleteFrame:  c.EditorPresenter.RemoveActive,
		Preview:      c.PreviewPresenter.Request,
		Save:         a.save,
		ResetView:    c.EditorPresenter.ResetView,
		Exit:         a.exitHandler,
		Templates: view.PickerHandlers{
			Refresh: c.TemplatePresenter.Refresh,
			Apply:   c.TemplatePresenter.Apply,
			Delete:  c.TemplatePresenter.Delete,
		},
	})

	// Until the operator uploads a creative, previews composite the embedded
	// placeholder.
	if err := c.Session.LoadCreative(assets.PlaceholderCreativePNG); err != nil {
		a.logger.Warn("placeholder creative unavailable", "error", err)
	}

	if c.Config.Debug {
		debug.StartMemLogger(2*time.Second, a.logger)
		debug.StartGoroutineLogger(time.Second, a.logger)
	}

	c.Loop.Schedule = a.scheduleUpdate
	a.scheduleUpdate()

	App.Wait()
}

func (a *app) loadPhoto(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.container.UI.SetPreviewStatus(err.Error())
		return
	}
	if err := a.container.Session.LoadPhoto(data); err != nil {
		a.container.UI.SetPreviewStatus(err.Error())
		return
	}
	a.container.RootView.Preview.Reset()
	a.container.UI.RedrawCanvas()
}

func (a *app) loadCreative(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.container.UI.SetPreviewStatus(err.Error())
		return
	}
	if err := a.container.Session.LoadCreative(data); err != nil {
		a.container.UI.SetPreviewStatus(err.Error())
	}
}

func (a *app) save(d view.SaveDetails) {
	err := a.container.Session.Save(context.Background(), editor.SaveOptions{
		LocationKeys: d.LocationKeys,
		VenueType:    d.VenueType,
		TimeOfDay:    d.TimeOfDay,
		Side:         d.Side,
	})
	if err != nil {
		a.container.UI.SetPreviewStatus(err.Error())
		return
	}
	a.container.UI.SetPreviewStatus("template saved")
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.container.Session.Close()
	Destroy(App)
}

// scheduleUpdate arms the next presenter tick on Tk's event loop thread.
func (a *app) scheduleUpdate() {
	a.afterID = TclAfter(tick, func() { a.container.Loop.Tick() })
}
