package scheme

import "math"

// Point is a position in scene coordinates.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Rect is an axis-aligned rectangle. W and H are non-negative after Normalize.
type Rect struct {
	X, Y, W, H float64
}

// RectFromPoints spans the rectangle between two corners in any order.
func RectFromPoints(a, b Point) Rect {
	return Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}.Normalize()
}

// Normalize flips negative extents.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X, r.W = r.X+r.W, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = r.Y+r.H, -r.H
	}
	return r
}

// Min is the top-left corner.
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Max is the bottom-right corner.
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Center returns the midpoint.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Translate moves the rectangle by d.
func (r Rect) Translate(d Point) Rect { return Rect{r.X + d.X, r.Y + d.Y, r.W, r.H} }

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Intersects reports whether r and o overlap (touching edges count).
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W && r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.Contains(o.Min()) && r.Contains(o.Max())
}

// Union returns the smallest rectangle covering r and o.
func (r Rect) Union(o Rect) Rect {
	minX, minY := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	maxX, maxY := math.Max(r.X+r.W, o.X+o.W), math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{minX, minY, maxX - minX, maxY - minY}
}
