package viewport

import (
	"math"
	"testing"

	"github.com/adlift/mockup-studio/domain/geometry"
)

const eps = 1e-9

func TestFitImage_Letterbox(t *testing.T) {
	// 2000x1000 into 960x600: width-bound, scale 0.48, vertically centered.
	fit := FitImage(2000, 1000, 960, 600)
	if math.Abs(fit.Scale-0.48) > eps {
		t.Fatalf("scale: got %v want 0.48", fit.Scale)
	}
	if fit.X != 0 || math.Abs(fit.Y-60) > eps {
		t.Fatalf("origin: got (%v,%v) want (0,60)", fit.X, fit.Y)
	}
}

func TestToImage_IdentityFit(t *testing.T) {
	v := New(Fit{Scale: 1}, 0.5, 8)
	got := v.ToImage(geometry.Point{X: 100, Y: 100})
	if got != (geometry.Point{X: 100, Y: 100}) {
		t.Fatalf("identity fit should be pass-through, got %v", got)
	}
	v.Pan(10, -20)
	got = v.ToImage(geometry.Point{X: 100, Y: 100})
	if got != (geometry.Point{X: 90, Y: 120}) {
		t.Fatalf("pan not applied: %v", got)
	}
}

func TestToCanvas_InvertsToImage(t *testing.T) {
	v := New(FitImage(1920, 1080, 960, 600), 0.5, 8)
	v.ZoomAt(2.5, geometry.Point{X: 123, Y: 456})
	v.Pan(-31, 17)
	p := geometry.Point{X: 640.5, Y: 333.25}
	back := v.ToCanvas(v.ToImage(p))
	if math.Abs(back.X-p.X) > eps || math.Abs(back.Y-p.Y) > eps {
		t.Fatalf("round trip drift: %v vs %v", back, p)
	}
}

func TestZoomAt_AnchorInvariant(t *testing.T) {
	anchors := []geometry.Point{{X: 0, Y: 0}, {X: 480, Y: 300}, {X: 77.5, Y: 599}}
	zooms := []float64{0.5, 1.3, 2, 7.9}
	v := New(FitImage(1200, 900, 960, 600), 0.5, 8)
	v.Pan(12, -7)
	for _, a := range anchors {
		for _, z := range zooms {
			before := v.ToImage(a)
			v.ZoomAt(z, a)
			after := v.ToImage(a)
			if math.Abs(before.X-after.X) > 1e-6 || math.Abs(before.Y-after.Y) > 1e-6 {
				t.Fatalf("anchor %v zoom %v: image point moved %v -> %v", a, z, before, after)
			}
		}
	}
}

func TestZoomAt_Clamps(t *testing.T) {
	v := New(Fit{Scale: 1}, 0.5, 8)
	v.ZoomAt(100, geometry.Point{})
	if v.Zoom != 8 {
		t.Fatalf("zoom not clamped high: %v", v.Zoom)
	}
	v.ZoomAt(0.001, geometry.Point{})
	if v.Zoom != 0.5 {
		t.Fatalf("zoom not clamped low: %v", v.Zoom)
	}
}

func TestPinch_ZoomAndClamp(t *testing.T) {
	v := New(Fit{Scale: 1}, 0.5, 8)
	p0 := geometry.Point{X: 100, Y: 100}
	p1 := geometry.Point{X: 200, Y: 100}
	g := v.BeginPinch(p0, p1)
	// Double the distance: zoom 2.
	g.Update(v, geometry.Point{X: 50, Y: 100}, geometry.Point{X: 250, Y: 100})
	if math.Abs(v.Zoom-2) > eps {
		t.Fatalf("pinch zoom: got %v want 2", v.Zoom)
	}
	// Absurd spread clamps at max.
	g.Update(v, geometry.Point{X: -5000, Y: 100}, geometry.Point{X: 5000, Y: 100})
	if v.Zoom != 8 {
		t.Fatalf("pinch did not clamp: %v", v.Zoom)
	}
}

func TestPinch_MidpointAnchored(t *testing.T) {
	v := New(FitImage(1200, 900, 960, 600), 0.5, 8)
	p0 := geometry.Point{X: 300, Y: 200}
	p1 := geometry.Point{X: 500, Y: 400}
	mid := geometry.Point{X: 400, Y: 300}
	g := v.BeginPinch(p0, p1)
	before := v.ToImage(mid)
	g.Update(v, geometry.Point{X: 250, Y: 150}, geometry.Point{X: 550, Y: 450})
	after := v.ToImage(mid)
	if math.Abs(before.X-after.X) > 1e-6 || math.Abs(before.Y-after.Y) > 1e-6 {
		t.Fatalf("midpoint moved %v -> %v", before, after)
	}
}

func TestPinch_DegenerateStartIsNoop(t *testing.T) {
	v := New(Fit{Scale: 1}, 0.5, 8)
	p := geometry.Point{X: 100, Y: 100}
	g := v.BeginPinch(p, p)
	g.Update(v, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 500, Y: 500})
	if v.Zoom != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Fatalf("degenerate pinch mutated view: zoom=%v pan=(%v,%v)", v.Zoom, v.PanX, v.PanY)
	}
}

func TestSetFit_ResetsView(t *testing.T) {
	v := New(Fit{Scale: 1}, 0.5, 8)
	v.ZoomAt(3, geometry.Point{X: 10, Y: 10})
	v.Pan(40, 40)
	v.SetFit(FitImage(800, 600, 960, 600))
	if v.Zoom != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Fatalf("new photo must reset view: zoom=%v pan=(%v,%v)", v.Zoom, v.PanX, v.PanY)
	}
}
