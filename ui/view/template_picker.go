package view

import (
	"fmt"
	"strings"

	"github.com/adlift/mockup-studio/ui/images"
	"github.com/adlift/mockup-studio/ui/model"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PickerHandlers carries the callbacks the template picker invokes.
type PickerHandlers struct {
	Refresh func(location string)
	Apply   func(index int)
	Delete  func(index int)
}

// TemplatePicker manages the optional window listing stored templates with
// thumbnails, from which the operator applies or deletes one.
type TemplatePicker interface {
	OpenOrFocus()
	ShowTemplates(items []model.TemplateItem)
	SetTemplateStatus(text string)
}

type templatePicker struct {
	handlers PickerHandlers

	win       *ToplevelWidget
	entry     *TextWidget
	status    *LabelWidget
	list      *FrameWidget
	photos    []*Img
	lastItems []model.TemplateItem
}

// NewTemplatePicker creates the picker manager; the window is built lazily on
// first open.
func NewTemplatePicker(h PickerHandlers) TemplatePicker {
	return &templatePicker{handlers: h}
}

func (v *templatePicker) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2))
	win.WmTitle("Stored Templates")
	v.win = win
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.destroy)

	lbl := win.Label(Txt("Location"), Anchor("w"))
	Grid(lbl, Row(0), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	v.entry = win.Text(Height(1), Width(24))
	Grid(v.entry, Row(0), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	load := win.Button(Txt("Load"), Command(v.refresh))
	Grid(load, Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.3m"))
	closeBtn := win.Button(Txt("Close"), Command(v.destroy))
	Grid(closeBtn, Row(0), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.3m"))

	v.status = win.Label(Txt(""), Anchor("w"))
	Grid(v.status, Row(1), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"))

	v.list = win.Frame()
	Grid(v.list, Row(2), Column(0), Columnspan(4), Sticky("nsew"), Padx("0.4m"), Pady("0.3m"))
	if len(v.lastItems) > 0 {
		v.ShowTemplates(v.lastItems)
	}
}

func (v *templatePicker) refresh() {
	if v.handlers.Refresh == nil || v.entry == nil {
		return
	}
	location := strings.TrimSpace(strings.Join(v.entry.Get("1.0", END), ""))
	if location == "" {
		v.SetTemplateStatus("enter a location key")
		return
	}
	v.handlers.Refresh(location)
}

// ShowTemplates rebuilds the list rows. Obsolete Tk photo instances are
// deleted before the new thumbnails replace them.
func (v *templatePicker) ShowTemplates(items []model.TemplateItem) {
	v.lastItems = items
	if v.win == nil || v.list == nil {
		return
	}
	for _, ph := range v.photos {
		if ph != nil {
			ph.Delete()
		}
	}
	v.photos = nil
	Destroy(v.list)
	v.list = v.win.Frame()
	Grid(v.list, Row(2), Column(0), Columnspan(4), Sticky("nsew"), Padx("0.4m"), Pady("0.3m"))

	if len(items) == 0 {
		empty := v.win.Label(Txt("no templates for this location"), Anchor("w"))
		Grid(empty, In(v.list), Row(0), Column(0), Sticky("w"), Padx("0.2m"), Pady("0.2m"))
		return
	}
	for i, item := range items {
		idx := i
		var thumb *LabelWidget
		if item.Thumbnail != nil {
			ph := NewPhoto(Data(images.EncodePNG(item.Thumbnail)))
			v.photos = append(v.photos, ph)
			thumb = v.win.Label(Image(ph), Borderwidth(1), Relief("sunken"))
		} else {
			thumb = v.win.Label(Txt(item.Photo), Borderwidth(1), Relief("sunken"), Width(20))
		}
		Grid(thumb, In(v.list), Row(i), Column(0), Sticky("w"), Padx("0.2m"), Pady("0.2m"))

		desc := fmt.Sprintf("%s  %s  %d frame(s)", item.TimeOfDay, item.Side, item.FrameCount)
		info := v.win.Label(Txt(desc), Anchor("w"))
		Grid(info, In(v.list), Row(i), Column(1), Sticky("w"), Padx("0.4m"))

		apply := v.win.Button(Txt("Apply"), Command(func() {
			if v.handlers.Apply != nil {
				v.handlers.Apply(idx)
			}
		}))
		Grid(apply, In(v.list), Row(i), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		del := v.win.Button(Txt("Delete"), Command(func() {
			if v.handlers.Delete != nil {
				v.handlers.Delete(idx)
			}
		}))
		Grid(del, In(v.list), Row(i), Column(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	}
}

func (v *templatePicker) SetTemplateStatus(text string) {
	if v.win == nil || v.status == nil {
		return
	}
	v.status.Configure(Txt(text))
}

func (v *templatePicker) destroy() {
	if v.win == nil {
		return
	}
	for _, ph := range v.photos {
		if ph != nil {
			ph.Delete()
		}
	}
	v.photos = nil
	Destroy(v.win)
	v.win = nil
	v.entry = nil
	v.status = nil
	v.list = nil
}
