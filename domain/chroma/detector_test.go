package chroma

import (
	"image"
	"image/color"
	"testing"

	"github.com/adlift/mockup-studio/domain/geometry"
)

var (
	green = color.RGBA{0, 177, 64, 255}
	gray  = color.RGBA{120, 120, 120, 255}
)

// testPhoto returns a gray image with green rectangles painted at the given
// pixel rects.
func testPhoto(w, h int, blobs ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, gray)
		}
	}
	for _, r := range blobs {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetRGBA(x, y, green)
			}
		}
	}
	return img
}

func opts() Options {
	return Options{Target: green, Tolerance: 30, MinPixels: 1000, DilationRadius: 3}
}

func TestDetect_PixelFloor(t *testing.T) {
	// 27x37 = 999 matched pixels: below the floor.
	below := testPhoto(200, 120, image.Rect(40, 30, 67, 67))
	res := Detect(below, nil, opts())
	if res.Found {
		t.Fatalf("999 px should be below the floor, got %+v", res)
	}
	if res.Matched != 999 {
		t.Fatalf("matched count: got %d want 999", res.Matched)
	}

	// 13x77 = 1001 matched pixels in a compact blob: detected.
	above := testPhoto(200, 120, image.Rect(40, 20, 53, 97))
	res = Detect(above, nil, opts())
	if !res.Found {
		t.Fatalf("1001 px blob should be found, matched=%d", res.Matched)
	}
}

func TestDetect_RectangleCorners(t *testing.T) {
	// Matched pixels cover [40,100)x[30,80). Box dilation by 3 grows each
	// side by 3; the contour sits one more pixel out, so the extremal
	// corners land 4 px outside the painted rectangle.
	img := testPhoto(200, 120, image.Rect(40, 30, 100, 80))
	res := Detect(img, nil, opts())
	if !res.Found {
		t.Fatalf("expected detection, matched=%d", res.Matched)
	}
	want := geometry.Quad{
		{X: 36, Y: 26},  // TL: 40-4, 30-4
		{X: 103, Y: 26}, // TR: 99+4, 30-4
		{X: 103, Y: 83}, // BR: 99+4, 79+4
		{X: 36, Y: 83},  // BL
	}
	if res.Quad != want {
		t.Fatalf("corners:\n got %v\nwant %v", res.Quad, want)
	}
	if res.Bounds != image.Rect(37, 27, 103, 83) {
		t.Fatalf("bounds of dilated region: got %v", res.Bounds)
	}
}

func TestDetect_ExcludedFramesAreSkipped(t *testing.T) {
	left := image.Rect(20, 30, 60, 80)
	right := image.Rect(120, 30, 160, 80)
	img := testPhoto(200, 120, left, right)

	// Excluding the left blob makes the right one the only candidate.
	excl := []geometry.Quad{geometry.RectQuad(
		geometry.Point{X: 15, Y: 25}, geometry.Point{X: 65, Y: 85},
	)}
	res := Detect(img, excl, opts())
	if !res.Found {
		t.Fatalf("expected right blob, matched=%d", res.Matched)
	}
	min, max := res.Quad.Bounds()
	if min.X < 100 {
		t.Fatalf("detection leaked into the excluded region: %v-%v", min, max)
	}

	// Excluding both leaves nothing above the floor.
	excl = append(excl, geometry.RectQuad(
		geometry.Point{X: 115, Y: 25}, geometry.Point{X: 165, Y: 85},
	))
	res = Detect(img, excl, opts())
	if res.Found {
		t.Fatalf("everything excluded but still found %+v", res)
	}
}

func TestCorrectPerspective_TopNarrower(t *testing.T) {
	// topWidth=80, bottomWidth=100, ratio 0.8 below the 0.9 floor:
	// top edge moves up by round((1/0.8 - 1) * 15) = 4 px on both corners.
	q := geometry.Quad{{X: 10, Y: 0}, {X: 90, Y: 0}, {X: 100, Y: 50}, {X: 0, Y: 50}}
	got := correctPerspective(q, 15)
	if got[0].Y != -4 || got[1].Y != -4 {
		t.Fatalf("top corners: got %v,%v want y=-4", got[0], got[1])
	}
	if got[2] != q[2] || got[3] != q[3] {
		t.Fatalf("bottom corners must not move: %v %v", got[2], got[3])
	}
}

func TestCorrectPerspective_BottomAndRight(t *testing.T) {
	// bottomWidth=75, topWidth=100, ratio 4/3 > 1.1: bottom extends down by
	// round((4/3-1)*12) = 4.
	q := geometry.Quad{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 90, Y: 50}, {X: 15, Y: 50}}
	got := correctPerspective(q, 12)
	if got[2].Y != 54 || got[3].Y != 54 {
		t.Fatalf("bottom corners: got %v,%v want y=54", got[2], got[3])
	}

	// leftHeight=100, rightHeight=80 -> ratio 1.25 > 1.1: right edge
	// extends rightward by round((1.25-1)*20) = 5.
	q = geometry.Quad{{X: 0, Y: 0}, {X: 100, Y: 10}, {X: 100, Y: 90}, {X: 0, Y: 100}}
	got = correctPerspective(q, 20)
	if got[1].X != 105 || got[2].X != 105 {
		t.Fatalf("right corners: got %v,%v want x=105", got[1], got[2])
	}
}

func TestCorrectPerspective_WithinToleranceUntouched(t *testing.T) {
	q := geometry.Quad{{X: 0, Y: 0}, {X: 95, Y: 0}, {X: 100, Y: 50}, {X: 0, Y: 50}} // ratio 0.95
	if got := correctPerspective(q, 15); got != q {
		t.Fatalf("ratio within 10%% must not be corrected: %v", got)
	}
	if got := correctPerspective(q, 0); got != q {
		t.Fatalf("zero depth multiplier must be a no-op")
	}
}

func TestSampleColor(t *testing.T) {
	img := testPhoto(50, 50, image.Rect(10, 10, 20, 20))
	hex, ok := SampleColor(img, geometry.Point{X: 15, Y: 15})
	if !ok || hex != "#00b140" {
		t.Fatalf("got %q ok=%v", hex, ok)
	}
	if _, ok := SampleColor(img, geometry.Point{X: -1, Y: 5}); ok {
		t.Fatalf("out-of-bounds sample must fail")
	}
	c, err := ParseHex(hex)
	if err != nil || c != green {
		t.Fatalf("hex round trip: %v %v", c, err)
	}
	if _, err := ParseHex("#12zz34"); err == nil {
		t.Fatalf("expected parse error")
	}
}
