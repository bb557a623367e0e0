package view

import (
	"github.com/adlift/mockup-studio/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CanvasController receives the canvas pointer stream. *presenter.EditorPresenter
// satisfies it.
type CanvasController interface {
	PointerDown(slot int, x, y float64, secondary, modifier bool)
	PointerMove(slot int, x, y float64)
	PointerUp(slot int, x, y float64, secondary, modifier bool)
	Wheel(x, y, delta float64)
}

// CanvasView owns the editor drawing surface: a label holding the rendered
// scene, rebuilt per repaint, with pointer bindings feeding the controller.
type CanvasView interface {
	Redraw()
	Reset()
}

type canvasView struct {
	scene      CanvasScene
	controller CanvasController
	label      *LabelWidget
	prevPhoto  *Img // last Tk photo, disposed before replacement
	w, h       int
}

// NewCanvasView grids the drawing surface at the given row spanning the full
// width and binds the pointer events.
func NewCanvasView(scene CanvasScene, controller CanvasController, row, w, h int) CanvasView {
	v := &canvasView{scene: scene, controller: controller, w: w, h: h}
	blank := RenderScene(nil, w, h)
	v.prevPhoto = NewPhoto(Data(images.EncodePNG(blank)))
	v.label = Label(Image(v.prevPhoto), Borderwidth(1), Relief("sunken"))
	Grid(v.label, Row(row), Column(0), Columnspan(5), Padx("0.4m"), Pady("0.4m"))
	v.bind()
	return v
}

func (v *canvasView) bind() {
	c := v.controller
	if c == nil {
		return
	}
	Bind(v.label, "<ButtonPress-1>", Command(func(e *Event) {
		c.PointerDown(0, float64(e.X), float64(e.Y), false, false)
	}))
	Bind(v.label, "<B1-Motion>", Command(func(e *Event) {
		c.PointerMove(0, float64(e.X), float64(e.Y))
	}))
	Bind(v.label, "<ButtonRelease-1>", Command(func(e *Event) {
		c.PointerUp(0, float64(e.X), float64(e.Y), false, false)
	}))
	// Ctrl-click pans; released stationary it resolves as a color sample.
	Bind(v.label, "<Control-ButtonPress-1>", Command(func(e *Event) {
		c.PointerDown(0, float64(e.X), float64(e.Y), false, true)
	}))
	Bind(v.label, "<Control-ButtonRelease-1>", Command(func(e *Event) {
		c.PointerUp(0, float64(e.X), float64(e.Y), false, true)
	}))
	Bind(v.label, "<ButtonPress-3>", Command(func(e *Event) {
		c.PointerDown(0, float64(e.X), float64(e.Y), true, false)
	}))
	Bind(v.label, "<B3-Motion>", Command(func(e *Event) {
		c.PointerMove(0, float64(e.X), float64(e.Y))
	}))
	Bind(v.label, "<ButtonRelease-3>", Command(func(e *Event) {
		c.PointerUp(0, float64(e.X), float64(e.Y), true, false)
	}))
	Bind(v.label, "<MouseWheel>", Command(func(e *Event) {
		c.Wheel(float64(e.X), float64(e.Y), float64(e.Delta))
	}))
}

// Redraw rasterizes the scene and swaps the label image, deleting the
// previous Tk photo so obsolete pixel data is not retained.
func (v *canvasView) Redraw() {
	if v == nil || v.label == nil {
		return
	}
	rendered := RenderScene(v.scene, v.w, v.h)
	pngBytes := images.EncodePNG(rendered)
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}

// Reset repaints the empty backdrop.
func (v *canvasView) Reset() {
	if v == nil || v.label == nil {
		return
	}
	blank := RenderScene(nil, v.w, v.h)
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(images.EncodePNG(blank)))
	v.label.Configure(Image(v.prevPhoto))
}
