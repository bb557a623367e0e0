package viewport

import (
	"math"

	"github.com/adlift/mockup-studio/domain/geometry"
)

// Fit is the letterbox placement of a photo inside the fixed canvas, computed
// once per photo load: draw origin, drawn size and the base scale factor.
type Fit struct {
	X, Y  float64
	W, H  float64
	Scale float64
}

// FitImage letterbox-fits a natural image size into the canvas, centering it.
func FitImage(naturalW, naturalH, canvasW, canvasH float64) Fit {
	if naturalW <= 0 || naturalH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return Fit{Scale: 1}
	}
	scale := math.Min(canvasW/naturalW, canvasH/naturalH)
	w := naturalW * scale
	h := naturalH * scale
	return Fit{
		X:     (canvasW - w) / 2,
		Y:     (canvasH - h) / 2,
		W:     w,
		H:     h,
		Scale: scale,
	}
}

// View owns the zoom factor and pan offset of an editing session and converts
// between canvas-pixel and image-pixel space. Zoom is always clamped to
// [MinZoom, MaxZoom].
type View struct {
	Zoom float64
	PanX float64
	PanY float64

	MinZoom float64
	MaxZoom float64

	fit Fit
}

// New returns a view at zoom 1 with no pan for the given fit.
func New(fit Fit, minZoom, maxZoom float64) *View {
	if minZoom <= 0 {
		minZoom = 0.5
	}
	if maxZoom <= minZoom {
		maxZoom = minZoom * 16
	}
	return &View{Zoom: 1, MinZoom: minZoom, MaxZoom: maxZoom, fit: fit}
}

// Fit returns the base letterbox fit.
func (v *View) Fit() Fit { return v.fit }

// SetFit installs a new base fit and resets zoom and pan; called when a new
// photo is loaded.
func (v *View) SetFit(fit Fit) {
	v.fit = fit
	v.Reset()
}

// Reset restores zoom 1 and zero pan.
func (v *View) Reset() {
	v.Zoom = 1
	v.PanX = 0
	v.PanY = 0
}

func (v *View) clampZoom(z float64) float64 {
	if z < v.MinZoom {
		return v.MinZoom
	}
	if z > v.MaxZoom {
		return v.MaxZoom
	}
	return z
}

// ToImage converts a canvas-space point to image-pixel space under the
// current zoom and pan.
func (v *View) ToImage(c geometry.Point) geometry.Point {
	s := v.fit.Scale * v.Zoom
	return geometry.Point{
		X: (c.X - (v.fit.X + v.PanX)) / s,
		Y: (c.Y - (v.fit.Y + v.PanY)) / s,
	}
}

// ToCanvas converts an image-pixel point to canvas space.
func (v *View) ToCanvas(p geometry.Point) geometry.Point {
	s := v.fit.Scale * v.Zoom
	return geometry.Point{
		X: p.X*s + v.fit.X + v.PanX,
		Y: p.Y*s + v.fit.Y + v.PanY,
	}
}

// QuadToCanvas maps all 4 corners of an image-space quad to canvas space.
func (v *View) QuadToCanvas(q geometry.Quad) geometry.Quad {
	for i := range q {
		q[i] = v.ToCanvas(q[i])
	}
	return q
}

// InImage reports whether the canvas point lies over the drawn photo area.
func (v *View) InImage(c geometry.Point) bool {
	p := v.ToImage(c)
	w := v.fit.W / v.fit.Scale
	h := v.fit.H / v.fit.Scale
	return p.X >= 0 && p.Y >= 0 && p.X <= w && p.Y <= h
}

// ZoomAt sets the zoom to next (clamped) while keeping the image-space point
// currently under the canvas anchor fixed on screen.
func (v *View) ZoomAt(next float64, anchor geometry.Point) {
	next = v.clampZoom(next)
	if next == v.Zoom {
		return
	}
	// pan' = anchor - origin - (anchor - origin - pan) * z'/z
	ratio := next / v.Zoom
	ax := anchor.X - v.fit.X
	ay := anchor.Y - v.fit.Y
	v.PanX = ax - (ax-v.PanX)*ratio
	v.PanY = ay - (ay-v.PanY)*ratio
	v.Zoom = next
}

// Pan shifts the pan offset by a canvas-space delta.
func (v *View) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// Pinch tracks a two-pointer zoom gesture. Ok is false for a degenerate
// (near-zero) start distance, in which case the gesture is a no-op.
type Pinch struct {
	startDist float64
	startZoom float64
	ok        bool
}

// BeginPinch starts a pinch session from the two pointer positions.
func (v *View) BeginPinch(p0, p1 geometry.Point) Pinch {
	d := p0.Dist(p1)
	return Pinch{startDist: d, startZoom: v.Zoom, ok: d >= 1}
}

// Update applies the current pointer positions: zoom scales with the distance
// ratio and the midpoint stays anchored.
func (g Pinch) Update(v *View, p0, p1 geometry.Point) {
	if !g.ok {
		return
	}
	mid := geometry.Point{X: (p0.X + p1.X) / 2, Y: (p0.Y + p1.Y) / 2}
	v.ZoomAt(g.startZoom*p0.Dist(p1)/g.startDist, mid)
}
