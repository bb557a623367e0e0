package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/adlift/mockup-studio/config"
	"github.com/adlift/mockup-studio/domain/frame"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// AppearanceSource yields the appearance record of the active frame for
// in-place editing. *frame.Store satisfies it.
type AppearanceSource interface {
	ActiveAppearance() *frame.Appearance
}

// DetectionTarget is the session surface the detection fields write to.
type DetectionTarget interface {
	SetTargetColor(hex string) error
	TargetColor() string
}

// ConfigPanel encapsulates the appearance and detection form widgets. It
// writes appearance values into the active frame and detection settings into
// *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	Refresh()      // reloads widget values from the active frame and config
	ApplyChanges() // parses widget text into the appearance/config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	source   AppearanceSource
	target   DetectionTarget
	applyBtn *ButtonWidget
	lightSel *TComboboxWidget
	widgets  map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg and the active-frame source.
func NewConfigPanel(cfg *config.Config, cfgPath string, source AppearanceSource, target DetectionTarget, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, source: source, target: target, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(5), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(10))
		Grid(w, Row(row), Column(6), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	app := v.appearance()
	makeRow("brightness", "Brightness", fmt.Sprintf("%.2f", app.Brightness))
	makeRow("contrast", "Contrast", fmt.Sprintf("%.2f", app.Contrast))
	makeRow("saturation", "Saturation", fmt.Sprintf("%.2f", app.Saturation))
	makeRow("imageBlur", "Image Blur", fmt.Sprintf("%.2f", app.ImageBlur))
	makeRow("edgeBlur", "Edge Blur", fmt.Sprintf("%.2f", app.EdgeBlur))
	makeRow("overlayOpacity", "Overlay Opacity", fmt.Sprintf("%.2f", app.OverlayOpacity))
	makeRow("depthMultiplier", "Depth Multiplier", fmt.Sprintf("%.1f", app.DepthMultiplier))
	makeRow("shadowIntensity", "Shadow Intensity", fmt.Sprintf("%.2f", app.ShadowIntensity))
	makeRow("lightingAdjust", "Lighting Adjust", fmt.Sprintf("%.2f", app.LightingAdjust))
	makeRow("colorTemp", "Color Temperature", fmt.Sprintf("%.2f", app.ColorTemp))
	makeRow("vignette", "Vignette", fmt.Sprintf("%.2f", app.Vignette))
	makeRow("edgeSmoothing", "Edge Smoothing", fmt.Sprintf("%.2f", app.EdgeSmoothing))
	makeRow("sharpening", "Sharpening", fmt.Sprintf("%.2f", app.Sharpening))

	lightLbl := Label(Txt("Light Direction"), Anchor("w"))
	Grid(lightLbl, Row(row), Column(5), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	dirs := frame.LightDirections()
	values := make([]string, len(dirs))
	current := 0
	for i, d := range dirs {
		values[i] = string(d)
		if d == app.LightDirection {
			current = i
		}
	}
	v.lightSel = TCombobox(Values(values), Width(8))
	Grid(v.lightSel, Row(row), Column(6), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.lightSel.Current(current)
	row++

	target := "#00b140"
	if v.target != nil {
		target = v.target.TargetColor()
	}
	makeRow("targetColor", "Target Color", target)
	makeRow("tolerance", "Tolerance", fmt.Sprintf("%.0f", v.cfg.Tolerance))
	makeRow("minPixels", "Min Pixels", fmt.Sprintf("%d", v.cfg.MinPixels))
	makeRow("dilationRadius", "Dilation Radius", fmt.Sprintf("%d", v.cfg.DilationRadius))

	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(5), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

// appearance returns the record the widgets display: the active frame's, or
// the defaults when nothing is selected.
func (v *configPanel) appearance() frame.Appearance {
	if v.source != nil {
		if app := v.source.ActiveAppearance(); app != nil {
			return *app
		}
	}
	return frame.DefaultAppearance()
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
	if v.lightSel != nil {
		v.lightSel.Configure(State(state))
	}
}

// Refresh reloads every widget from the active frame's appearance, called
// when the selection changes.
func (v *configPanel) Refresh() {
	app := v.appearance()
	set := func(id, value string) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		w.Delete("1.0", END)
		w.Insert("1.0", value)
	}
	set("brightness", fmt.Sprintf("%.2f", app.Brightness))
	set("contrast", fmt.Sprintf("%.2f", app.Contrast))
	set("saturation", fmt.Sprintf("%.2f", app.Saturation))
	set("imageBlur", fmt.Sprintf("%.2f", app.ImageBlur))
	set("edgeBlur", fmt.Sprintf("%.2f", app.EdgeBlur))
	set("overlayOpacity", fmt.Sprintf("%.2f", app.OverlayOpacity))
	set("depthMultiplier", fmt.Sprintf("%.1f", app.DepthMultiplier))
	set("shadowIntensity", fmt.Sprintf("%.2f", app.ShadowIntensity))
	set("lightingAdjust", fmt.Sprintf("%.2f", app.LightingAdjust))
	set("colorTemp", fmt.Sprintf("%.2f", app.ColorTemp))
	set("vignette", fmt.Sprintf("%.2f", app.Vignette))
	set("edgeSmoothing", fmt.Sprintf("%.2f", app.EdgeSmoothing))
	set("sharpening", fmt.Sprintf("%.2f", app.Sharpening))
	if v.target != nil {
		set("targetColor", v.target.TargetColor())
	}
	if v.lightSel != nil {
		for i, d := range frame.LightDirections() {
			if d == app.LightDirection {
				v.lightSel.Current(i)
				break
			}
		}
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	assignFloat := func(id string, dst *float64) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if f, ok := parseFloatField(strings.TrimSpace(v.text(w))); ok {
			*dst = f
		}
	}
	assignInt := func(id string, dst *int) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if i, ok := parseIntField(strings.TrimSpace(v.text(w))); ok {
			*dst = i
		}
	}

	// Appearance goes to the active frame, in place.
	if v.source != nil {
		if app := v.source.ActiveAppearance(); app != nil {
			assignFloat("brightness", &app.Brightness)
			assignFloat("contrast", &app.Contrast)
			assignFloat("saturation", &app.Saturation)
			assignFloat("imageBlur", &app.ImageBlur)
			assignFloat("edgeBlur", &app.EdgeBlur)
			assignFloat("overlayOpacity", &app.OverlayOpacity)
			assignFloat("depthMultiplier", &app.DepthMultiplier)
			assignFloat("shadowIntensity", &app.ShadowIntensity)
			assignFloat("lightingAdjust", &app.LightingAdjust)
			assignFloat("colorTemp", &app.ColorTemp)
			assignFloat("vignette", &app.Vignette)
			assignFloat("edgeSmoothing", &app.EdgeSmoothing)
			assignFloat("sharpening", &app.Sharpening)
			if v.lightSel != nil {
				dirs := frame.LightDirections()
				if idx, err := strconv.Atoi(v.lightSel.Current(nil)); err == nil && idx >= 0 && idx < len(dirs) {
					app.LightDirection = dirs[idx]
				}
			}
		}
	}

	// Detection settings go to the config and the session target.
	cfg := *v.cfg // copy
	assignFloat("tolerance", &cfg.Tolerance)
	assignInt("minPixels", &cfg.MinPixels)
	assignInt("dilationRadius", &cfg.DilationRadius)
	if w := v.widgets["targetColor"]; w != nil {
		val := strings.TrimSpace(v.text(w))
		if val != "" {
			cfg.TargetColor = val
			if v.target != nil {
				if err := v.target.SetTargetColor(val); err != nil && v.logger != nil {
					v.logger.Warn("invalid target color", "value", val, "error", err)
				}
			}
		}
	}
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
