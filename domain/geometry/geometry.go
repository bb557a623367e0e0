package geometry

import "math"

// Point is a position in image-pixel space.
type Point struct {
	X float64
	Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Quad is a simple quadrilateral with corners in the canonical order
// top-left, top-right, bottom-right, bottom-left.
type Quad [4]Point

// Contains reports whether p lies inside the quadrilateral using the
// even-odd ray casting rule over the 4 edges.
func (q Quad) Contains(p Point) bool {
	inside := false
	j := 3
	for i := 0; i < 4; i++ {
		xi, yi := q[i].X, q[i].Y
		xj, yj := q[j].X, q[j].Y
		if (yi > p.Y) != (yj > p.Y) &&
			p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Translate returns the quad shifted by (dx, dy).
func (q Quad) Translate(dx, dy float64) Quad {
	for i := range q {
		q[i].X += dx
		q[i].Y += dy
	}
	return q
}

// Bounds returns the min and max corners of the quad's axis-aligned
// bounding box.
func (q Quad) Bounds() (min, max Point) {
	min, max = q[0], q[0]
	for _, p := range q[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// RectQuad builds an axis-aligned quad from two opposite drag endpoints,
// normalized to the canonical corner order regardless of drag direction.
func RectQuad(a, b Point) Quad {
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y, b.Y)
	return Quad{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
	}
}

// CornerHit identifies a corner of one quad in a candidate list.
type CornerHit struct {
	Quad   int // index into the candidate slice
	Corner int // 0..3
}

// NearestCorner scans the candidate quads in order and returns the first
// corner lying within radius of p. Candidates are given in canvas space so
// the radius is zoom-invariant on screen. Returns ok=false when no corner
// qualifies.
func NearestCorner(p Point, candidates []Quad, radius float64) (CornerHit, bool) {
	for qi, q := range candidates {
		for ci, c := range q {
			if p.Dist(c) <= radius {
				return CornerHit{Quad: qi, Corner: ci}, true
			}
		}
	}
	return CornerHit{}, false
}
