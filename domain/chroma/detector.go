package chroma

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/adlift/mockup-studio/domain/geometry"
	"github.com/adlift/mockup-studio/domain/photo"
)

// Options configures a chroma-key detection pass.
type Options struct {
	Target          color.RGBA // chroma color to match
	Tolerance       float64    // max euclidean RGB distance (default 60)
	MinPixels       int        // matched-pixel floor below which detection fails (default 1000)
	DilationRadius  int        // mask dilation radius in px (default 3)
	DepthMultiplier float64    // perspective plausibility correction strength
}

// Result holds the outcome of a detection pass.
type Result struct {
	Quad    geometry.Quad   // extremal corners after perspective correction
	Matched int             // matched pixels before dilation
	Bounds  image.Rectangle // bounding box of the matched region
	Found   bool
	Dur     time.Duration
}

const (
	defaultTolerance = 60
	defaultMinPixels = 1000
	defaultDilation  = 3
)

// Detect searches the photo for a contiguous region of the target chroma
// color and derives a quadrilateral from it. Pixels inside any excluded quad
// (already-placed frames) never become candidates, so a second detection
// cannot re-select the same region. Found=false with no error is the expected
// outcome of a bad color or tolerance choice.
func Detect(img *image.RGBA, excluded []geometry.Quad, opts Options) Result {
	start := time.Now()
	res := Result{}
	if img == nil {
		return res
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = defaultTolerance
	}
	if opts.MinPixels <= 0 {
		opts.MinPixels = defaultMinPixels
	}
	if opts.DilationRadius <= 0 {
		opts.DilationRadius = defaultDilation
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return res
	}

	mask := photo.AcquireMask(w * h)
	defer photo.RecycleMask(mask)
	markExcluded(mask, w, h, excluded)

	// Match pass: euclidean RGB distance against the target, skipping
	// excluded pixels.
	tol2 := opts.Tolerance * opts.Tolerance
	tr := float64(opts.Target.R)
	tg := float64(opts.Target.G)
	tb := float64(opts.Target.B)
	matched := 0
	for y := 0; y < h; y++ {
		row := img.Pix[(y+b.Min.Y-img.Rect.Min.Y)*img.Stride:]
		for x := 0; x < w; x++ {
			idx := y*w + x
			if mask[idx] == maskExcluded {
				continue
			}
			o := (x + b.Min.X - img.Rect.Min.X) * 4
			dr := float64(row[o]) - tr
			dg := float64(row[o+1]) - tg
			db := float64(row[o+2]) - tb
			if dr*dr+dg*dg+db*db <= tol2 {
				mask[idx] = maskMatched
				matched++
			}
		}
	}
	res.Matched = matched
	if matched < opts.MinPixels {
		res.Dur = time.Since(start)
		return res
	}

	dilate(mask, w, h, opts.DilationRadius)

	tl, tr2, br, bl, bounds, ok := extremalContourCorners(mask, w, h)
	if !ok {
		res.Dur = time.Since(start)
		return res
	}

	quad := geometry.Quad{tl, tr2, br, bl}
	quad = correctPerspective(quad, opts.DepthMultiplier)

	res.Quad = quad
	res.Bounds = bounds.Add(b.Min)
	res.Found = true
	res.Dur = time.Since(start)
	return res
}

const (
	maskExcluded byte = 1
	maskMatched  byte = 2
)

// markExcluded rasterizes the committed frame quads into the mask.
func markExcluded(mask []byte, w, h int, excluded []geometry.Quad) {
	for _, q := range excluded {
		min, max := q.Bounds()
		x0 := clampInt(int(math.Floor(min.X)), 0, w-1)
		x1 := clampInt(int(math.Ceil(max.X)), 0, w-1)
		y0 := clampInt(int(math.Floor(min.Y)), 0, h-1)
		y1 := clampInt(int(math.Ceil(max.Y)), 0, h-1)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if q.Contains(geometry.Point{X: float64(x), Y: float64(y)}) {
					mask[y*w+x] = maskExcluded
				}
			}
		}
	}
}

// dilate promotes any pixel with a matched pixel within radius (chebyshev
// neighborhood) to matched, bridging gaps from specular highlights and
// anti-aliased edges. Two separable box passes.
func dilate(mask []byte, w, h, radius int) {
	if radius <= 0 {
		return
	}
	tmp := photo.AcquireMask(w * h)
	defer photo.RecycleMask(tmp)

	// Horizontal pass.
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			if mask[row+x] != maskMatched {
				continue
			}
			x0 := x - radius
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + radius
			if x1 >= w {
				x1 = w - 1
			}
			for i := x0; i <= x1; i++ {
				tmp[row+i] = maskMatched
			}
		}
	}
	// Vertical pass, writing back into mask. Excluded pixels stay excluded.
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if tmp[y*w+x] != maskMatched {
				continue
			}
			y0 := y - radius
			if y0 < 0 {
				y0 = 0
			}
			y1 := y + radius
			if y1 >= h {
				y1 = h - 1
			}
			for j := y0; j <= y1; j++ {
				idx := j*w + x
				if mask[idx] != maskExcluded {
					mask[idx] = maskMatched
				}
			}
		}
	}
}

// extremalContourCorners walks the contour (unmatched pixels 8-adjacent to a
// matched pixel) and returns the 4 extremal corners: argmin(x+y),
// argmax(x-y), argmax(x+y), argmin(x-y). This is a convex-hull-corner
// heuristic valid for roughly quadrilateral regions; concave or multi-blob
// masks produce the hull of everything matched.
func extremalContourCorners(mask []byte, w, h int) (tl, tr, br, bl geometry.Point, bounds image.Rectangle, ok bool) {
	minSum := math.Inf(1)
	maxSum := math.Inf(-1)
	minDiff := math.Inf(1)
	maxDiff := math.Inf(-1)
	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask[y*w+x] == maskMatched {
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
				if x > maxX {
					maxX = x
				}
				if y > maxY {
					maxY = y
				}
				continue
			}
			if !touchesMatched(mask, w, h, x, y) {
				continue
			}
			fx, fy := float64(x), float64(y)
			if fx+fy < minSum {
				minSum = fx + fy
				tl = geometry.Point{X: fx, Y: fy}
			}
			if fx+fy > maxSum {
				maxSum = fx + fy
				br = geometry.Point{X: fx, Y: fy}
			}
			if fx-fy > maxDiff {
				maxDiff = fx - fy
				tr = geometry.Point{X: fx, Y: fy}
			}
			if fx-fy < minDiff {
				minDiff = fx - fy
				bl = geometry.Point{X: fx, Y: fy}
			}
			ok = true
		}
	}
	bounds = image.Rect(minX, minY, maxX+1, maxY+1)
	return tl, tr, br, bl, bounds, ok
}

func touchesMatched(mask []byte, w, h, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= h {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := x + dx
			if nx < 0 || nx >= w {
				continue
			}
			if mask[ny*w+nx] == maskMatched {
				return true
			}
		}
	}
	return false
}

// correctPerspective compensates for off-axis photography: the raw chroma
// mask captures the visible paint as a trapezoid while the mounting plane is
// a rectangle. When the top/bottom width ratio deviates from 1 by more than
// 10%, the narrower edge is extended outward by round((wide/narrow - 1) *
// depthMultiplier) whole pixels; the height ratio is corrected symmetrically
// on the left/right edges.
func correctPerspective(q geometry.Quad, depth float64) geometry.Quad {
	if depth <= 0 {
		return q
	}
	topWidth := math.Abs(q[1].X - q[0].X)
	bottomWidth := math.Abs(q[2].X - q[3].X)
	if topWidth > 0 && bottomWidth > 0 {
		ratio := topWidth / bottomWidth
		switch {
		case ratio < 0.9: // top narrower: extend top edge upward
			ext := math.Round((1/ratio - 1) * depth)
			q[0].Y -= ext
			q[1].Y -= ext
		case ratio > 1.1: // bottom narrower: extend bottom edge downward
			ext := math.Round((ratio - 1) * depth)
			q[2].Y += ext
			q[3].Y += ext
		}
	}
	leftHeight := math.Abs(q[3].Y - q[0].Y)
	rightHeight := math.Abs(q[2].Y - q[1].Y)
	if leftHeight > 0 && rightHeight > 0 {
		ratio := leftHeight / rightHeight
		switch {
		case ratio < 0.9: // left shorter: extend left edge outward
			ext := math.Round((1/ratio - 1) * depth)
			q[0].X -= ext
			q[3].X -= ext
		case ratio > 1.1: // right shorter: extend right edge outward
			ext := math.Round((ratio - 1) * depth)
			q[1].X += ext
			q[2].X += ext
		}
	}
	return q
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
