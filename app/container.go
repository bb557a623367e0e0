package app

import (
	"log/slog"

	"github.com/adlift/mockup-studio/config"
	"github.com/adlift/mockup-studio/editor"
	"github.com/adlift/mockup-studio/remote"
	"github.com/adlift/mockup-studio/ui/model"
	"github.com/adlift/mockup-studio/ui/presenter"
	"github.com/adlift/mockup-studio/ui/view"
)

// AppContainer assembles models, the editing session, presenters and the
// root view.
type AppContainer struct {
	Config *config.Config
	Logger *slog.Logger

	Compositor *remote.Compositor
	Templates  *remote.TemplateStore
	Session    *editor.Session

	EditorModel    *model.EditorModel
	SessionModel   *model.SessionModel
	DetectionModel *model.DetectionModel

	RootView *view.RootView
	UI       view.UI

	EditorPresenter   *presenter.EditorPresenter
	PreviewPresenter  *presenter.PreviewPresenter
	SessionPresenter  *presenter.SessionPresenter
	TemplatePresenter *presenter.TemplatePresenter
	Loop              *presenter.Loop
}

// editingSource adapts the session to the session presenter's contract.
type editingSource struct{ session *editor.Session }

func (s editingSource) Editing() bool { return s.session != nil && s.session.Photo() != nil }

// BuildContainer constructs all components. Side effects are limited to
// remote client construction; no network calls happen here.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Compositor = remote.NewCompositor(cfg.CompositorURL, logger)
	c.Templates = remote.NewTemplateStore(cfg.TemplateURL, logger)

	session, err := editor.NewSession(cfg, c.Compositor, c.Templates, c.Templates, logger)
	if err != nil {
		return nil, err
	}
	c.Session = session

	c.EditorModel = model.NewEditorModel()
	c.SessionModel = model.NewSessionModel()
	c.DetectionModel = model.NewDetectionModel()

	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView

	c.EditorPresenter = presenter.NewEditorPresenter(session, c.EditorModel, c.DetectionModel, c.RootView, logger)
	c.PreviewPresenter = presenter.NewPreviewPresenter(session, c.RootView, logger)
	c.SessionPresenter = presenter.NewSessionPresenter(c.SessionModel, editingSource{session}, c.RootView)
	c.TemplatePresenter = presenter.NewTemplatePresenter(session, c.Templates, c.RootView, logger)
	// Selecting a frame swaps its cached render into the preview panel.
	c.EditorPresenter.OnSelectionChange(c.PreviewPresenter.ShowCached)
	// Loop.Schedule is installed by the app wrapper once the Tk event loop
	// exists.
	c.Loop = presenter.NewLoop(c.SessionPresenter, c.EditorPresenter, c.PreviewPresenter, c.TemplatePresenter, nil)
	return c, nil
}
