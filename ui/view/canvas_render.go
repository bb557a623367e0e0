package view

import (
	"image"
	"image/color"

	"github.com/adlift/mockup-studio/domain/frame"
	"github.com/adlift/mockup-studio/domain/geometry"
	"github.com/adlift/mockup-studio/domain/gesture"
	"github.com/adlift/mockup-studio/domain/photo"
	"github.com/adlift/mockup-studio/domain/viewport"
)

// CanvasScene is the read surface the canvas renderer consumes each repaint.
// *editor.Session satisfies it.
type CanvasScene interface {
	Photo() *photo.Photo
	View() *viewport.View
	Store() *frame.Store
	Machine() *gesture.Machine
}

var (
	colorBackdrop   = color.RGBA{30, 34, 42, 255}
	colorFrame      = color.RGBA{37, 99, 235, 255}
	colorActive     = color.RGBA{16, 185, 129, 255}
	colorDraft      = color.RGBA{234, 179, 8, 255}
	colorRubberBand = color.RGBA{234, 179, 8, 180}
)

const handleSize = 3 // half-extent of corner handles in canvas px

// RenderScene rasterizes the photo through the viewport with all frame
// overlays into a canvas-sized RGBA. Pure; no Tk types, so the draw pipeline
// is testable headless.
func RenderScene(scene CanvasScene, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = colorBackdrop.R
		out.Pix[i+1] = colorBackdrop.G
		out.Pix[i+2] = colorBackdrop.B
		out.Pix[i+3] = 255
	}
	if scene == nil {
		return out
	}
	p := scene.Photo()
	v := scene.View()
	if p == nil || v == nil {
		return out
	}

	blitPhoto(out, p, v)

	store := scene.Store()
	if store != nil {
		active := store.Active()
		for i, f := range store.Frames() {
			c := colorFrame
			if i == active {
				c = colorActive
			}
			strokeQuad(out, v.QuadToCanvas(f.Quad), c)
		}
		if draft := store.Draft(); len(draft) == 4 {
			q := geometry.Quad{draft[0], draft[1], draft[2], draft[3]}
			strokeQuad(out, v.QuadToCanvas(q), colorDraft)
		}
	}
	if m := scene.Machine(); m != nil {
		if band, ok := m.RubberBand(); ok {
			strokeQuad(out, v.QuadToCanvas(band), colorRubberBand)
		}
	}
	return out
}

// blitPhoto samples the photo nearest-neighbour through the inverse viewport
// transform so zoom and pan fall out of the mapping itself.
func blitPhoto(dst *image.RGBA, p *photo.Photo, v *viewport.View) {
	b := dst.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			ip := v.ToImage(geometry.Point{X: float64(x), Y: float64(y)})
			sx, sy := int(ip.X), int(ip.Y)
			if sx < 0 || sy < 0 || sx >= p.Width || sy >= p.Height {
				continue
			}
			si := p.RGBA.PixOffset(sx, sy)
			di := dst.PixOffset(x, y)
			copy(dst.Pix[di:di+4], p.RGBA.Pix[si:si+4])
		}
	}
}

// strokeQuad draws the 4 edges and corner handles in canvas space.
func strokeQuad(dst *image.RGBA, q geometry.Quad, c color.RGBA) {
	for i := 0; i < 4; i++ {
		drawLine(dst, q[i], q[(i+1)%4], c)
	}
	for _, p := range q {
		fillHandle(dst, p, c)
	}
}

// drawLine rasterizes a segment by uniform stepping; segments here are a few
// hundred pixels at most.
func drawLine(dst *image.RGBA, a, b geometry.Point, c color.RGBA) {
	dx, dy := b.X-a.X, b.Y-a.Y
	steps := int(max2(abs2(dx), abs2(dy))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		setPixel(dst, int(a.X+dx*t+0.5), int(a.Y+dy*t+0.5), c)
	}
}

func fillHandle(dst *image.RGBA, p geometry.Point, c color.RGBA) {
	cx, cy := int(p.X+0.5), int(p.Y+0.5)
	for y := cy - handleSize; y <= cy+handleSize; y++ {
		for x := cx - handleSize; x <= cx+handleSize; x++ {
			setPixel(dst, x, y, c)
		}
	}
}

func setPixel(dst *image.RGBA, x, y int, c color.RGBA) {
	if !(image.Point{x, y}).In(dst.Bounds()) {
		return
	}
	i := dst.PixOffset(x, y)
	dst.Pix[i] = c.R
	dst.Pix[i+1] = c.G
	dst.Pix[i+2] = c.B
	dst.Pix[i+3] = c.A
}

func abs2(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
