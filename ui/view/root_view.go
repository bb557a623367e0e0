package view

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/adlift/mockup-studio/config"
	"github.com/adlift/mockup-studio/domain/frame"
	"github.com/adlift/mockup-studio/ui/model"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SaveDetails carries what the operator filled into the save bar: the
// location keys the template is stored under plus its classification.
type SaveDetails struct {
	LocationKeys []string
	VenueType    string
	TimeOfDay    string
	Side         string
}

// ParseLocationKeys splits a comma-separated location field into trimmed,
// non-empty keys.
func ParseLocationKeys(s string) []string {
	var keys []string
	for _, part := range strings.Split(s, ",") {
		if k := strings.TrimSpace(part); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Handlers carries the user-action callbacks the root view binds to buttons.
type Handlers struct {
	LoadPhoto    func(path string)
	LoadCreative func(path string)
	Detect       func()
	CommitFrame  func()
	DeleteFrame  func()
	Preview      func(timeOfDay string)
	Save         func(d SaveDetails)
	ResetView    func()
	Exit         func()
	Templates    PickerHandlers
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for
// presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Canvas      CanvasView
	Preview     PreviewPanel
	Picker      TemplatePicker

	// Widgets
	StateLabel    *LabelWidget
	HintLabel     *LabelWidget
	pathEntry     *TextWidget
	locationEntry *TextWidget
	venueEntry    *TextWidget
	timeSel       *TComboboxWidget
	sideSel       *TComboboxWidget
}

var (
	timeOfDayValues = []string{"day", "dusk", "night"}
	sideValues      = []string{"A", "B"}
)

// UI abstracts the subset of view operations needed by presenters, enabling
// decoupling from the concrete RootView implementation.
type UI interface {
	SetEditorStatus(s model.EditorSnapshot)
	RedrawCanvas()
	UpdatePreview(img image.Image)
	SetPreviewStatus(text string)
	SetSession(session, total time.Duration)
	SetConfigEditable(enabled bool)
	ShowTemplates(items []model.TemplateItem)
	SetTemplateStatus(text string)
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. scene and controller feed the canvas; source
// and target feed the config panel; handlers are invoked on user actions.
func (rv *RootView) Build(scene CanvasScene, controller CanvasController, source AppearanceSource, target DetectionTarget, h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: session stats, state label, hint label
	rv.Session = NewSessionStats(0, 0)
	rv.StateLabel = Label(Txt("frames: 0"), Borderwidth(1), Relief("ridge"))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.HintLabel = Label(Txt(""), Anchor("w"))
	Grid(rv.HintLabel, Row(0), Column(3), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	// Row 1: asset path entry plus load buttons
	rv.pathEntry = Text(Height(1), Width(48))
	Grid(rv.pathEntry, Row(1), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	photoBtn := Button(Txt("Load Photo"), Command(func() { rv.loadPath(h.LoadPhoto) }))
	Grid(photoBtn, Row(1), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	creativeBtn := Button(Txt("Load Creative"), Command(func() { rv.loadPath(h.LoadCreative) }))
	Grid(creativeBtn, Row(1), Column(4), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Rows 2+: canvas on the left, config panel and preview on the right
	rv.Canvas = NewCanvasView(scene, controller, 2, rv.cfg.CanvasWidth, rv.cfg.CanvasHeight)

	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, source, target, rv.logger)
	endRow := rv.ConfigPanel.Build(0)
	rv.Preview = NewPreviewPanel(endRow, 5, 360, 240)
	rv.Picker = NewTemplatePicker(h.Templates)

	// Row 3: action buttons under the canvas
	btnFrame := Frame()
	Grid(btnFrame, Row(3), Column(0), Columnspan(5), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	actions := []struct {
		label string
		fn    func()
	}{
		{"Detect Billboard", h.Detect},
		{"Commit Frame", h.CommitFrame},
		{"Delete Frame", h.DeleteFrame},
		{"Test Composite", func() {
			if h.Preview != nil {
				h.Preview(rv.timeOfDay())
			}
		}},
		{"Save Template", func() {
			if h.Save != nil {
				h.Save(rv.saveDetails())
			}
		}},
		{"Templates", func() {
			if rv.Picker != nil {
				rv.Picker.OpenOrFocus()
			}
		}},
		{"Reset View", h.ResetView},
		{"Exit", h.Exit},
	}
	for i, a := range actions {
		fn := a.fn
		btn := Button(Txt(a.label), Command(func() {
			if fn != nil {
				fn()
			}
		}))
		Grid(btn, In(btnFrame), Row(0), Column(i), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	}

	// Row 4: the save bar identifying where a saved template lands
	saveFrame := Frame()
	Grid(saveFrame, Row(4), Column(0), Columnspan(5), Sticky("we"), Padx("0.3m"), Pady("0.2m"))
	locLbl := Label(Txt("Locations"), Anchor("w"))
	Grid(locLbl, In(saveFrame), Row(0), Column(0), Sticky("w"), Padx("0.2m"))
	rv.locationEntry = Text(Height(1), Width(28))
	Grid(rv.locationEntry, In(saveFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"))
	venueLbl := Label(Txt("Venue"), Anchor("w"))
	Grid(venueLbl, In(saveFrame), Row(0), Column(2), Sticky("w"), Padx("0.2m"))
	rv.venueEntry = Text(Height(1), Width(12))
	Grid(rv.venueEntry, In(saveFrame), Row(0), Column(3), Sticky("we"), Padx("0.2m"))
	timeLbl := Label(Txt("Time"), Anchor("w"))
	Grid(timeLbl, In(saveFrame), Row(0), Column(4), Sticky("w"), Padx("0.2m"))
	rv.timeSel = TCombobox(Values(timeOfDayValues), Width(6))
	Grid(rv.timeSel, In(saveFrame), Row(0), Column(5), Sticky("we"), Padx("0.2m"))
	rv.timeSel.Current(0)
	sideLbl := Label(Txt("Side"), Anchor("w"))
	Grid(sideLbl, In(saveFrame), Row(0), Column(6), Sticky("w"), Padx("0.2m"))
	rv.sideSel = TCombobox(Values(sideValues), Width(4))
	Grid(rv.sideSel, In(saveFrame), Row(0), Column(7), Sticky("we"), Padx("0.2m"))
	rv.sideSel.Current(0)
}

func (rv *RootView) textOf(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func comboValue(w *TComboboxWidget, values []string) string {
	if w == nil {
		return values[0]
	}
	if idx, err := strconv.Atoi(w.Current(nil)); err == nil && idx >= 0 && idx < len(values) {
		return values[idx]
	}
	return values[0]
}

func (rv *RootView) timeOfDay() string {
	return comboValue(rv.timeSel, timeOfDayValues)
}

// saveDetails collects the save bar fields.
func (rv *RootView) saveDetails() SaveDetails {
	return SaveDetails{
		LocationKeys: ParseLocationKeys(rv.textOf(rv.locationEntry)),
		VenueType:    rv.textOf(rv.venueEntry),
		TimeOfDay:    rv.timeOfDay(),
		Side:         comboValue(rv.sideSel, sideValues),
	}
}

func (rv *RootView) loadPath(fn func(path string)) {
	if rv == nil || rv.pathEntry == nil || fn == nil {
		return
	}
	path := strings.TrimSpace(strings.Join(rv.pathEntry.Get("1.0", END), ""))
	if path == "" {
		return
	}
	fn(path)
}

// SetEditorStatus formats the snapshot into the state and hint labels.
func (rv *RootView) SetEditorStatus(s model.EditorSnapshot) {
	if rv == nil || rv.StateLabel == nil {
		return
	}
	active := "none"
	switch {
	case s.ActiveIndex == frame.ActiveDraft:
		active = "draft"
	case s.ActiveIndex >= 0:
		active = fmt.Sprintf("#%d", s.ActiveIndex+1)
	}
	text := fmt.Sprintf("frames: %d  active: %s  zoom: %.2fx  %s", s.FrameCount, active, s.Zoom, s.Mode)
	if s.LastSample != "" {
		text += "  sample: " + s.LastSample
	}
	rv.StateLabel.Configure(Txt(text))
	if rv.HintLabel != nil {
		rv.HintLabel.Configure(Txt(s.Hint))
	}
	if rv.ConfigPanel != nil {
		rv.ConfigPanel.Refresh()
	}
}

// RedrawCanvas repaints the editor surface.
func (rv *RootView) RedrawCanvas() {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.Redraw()
	}
}

// UpdatePreview proxies to the preview panel.
func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdatePreview(img)
	}
}

// SetPreviewStatus proxies to the preview panel's status line.
func (rv *RootView) SetPreviewStatus(text string) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.SetPreviewStatus(text)
	}
}

// SetSession updates the editing duration readouts.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetSession(session, total)
	}
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// ShowTemplates proxies the listed templates to the picker window.
func (rv *RootView) ShowTemplates(items []model.TemplateItem) {
	if rv != nil && rv.Picker != nil {
		rv.Picker.ShowTemplates(items)
	}
}

// SetTemplateStatus proxies to the picker's status line.
func (rv *RootView) SetTemplateStatus(text string) {
	if rv != nil && rv.Picker != nil {
		rv.Picker.SetTemplateStatus(text)
	}
}
