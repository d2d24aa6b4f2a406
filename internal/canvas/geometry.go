package canvas

import (
	"math"

	"github.com/zjrosen/orchard/internal/scheme"
)

// Point and Rect are scene coordinates shared with the model.
type (
	Point = scheme.Point
	Rect  = scheme.Rect
)

// maxControlOffset caps the horizontal pull of link curve control points.
const maxControlOffset = 60.0

// Bezier is a cubic Bézier curve.
type Bezier struct {
	P0, P1, P2, P3 Point
}

// LinkCurve returns the curve from an output anchor to an input anchor.
// Control points leave the source to the right and enter the sink from the
// left; the offset shrinks for close anchors so the curve has no cusp.
func LinkCurve(from, to Point) Bezier {
	off := math.Min(from.Dist(to)/2, maxControlOffset)
	return Bezier{
		P0: from,
		P1: from.Add(Point{X: off}),
		P2: to.Sub(Point{X: off}),
		P3: to,
	}
}

// At evaluates the curve at t in [0, 1].
func (b Bezier) At(t float64) Point {
	u := 1 - t
	a, c, d, e := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*b.P0.X + c*b.P1.X + d*b.P2.X + e*b.P3.X,
		Y: a*b.P0.Y + c*b.P1.Y + d*b.P2.Y + e*b.P3.Y,
	}
}

// Flatten samples n+1 points along the curve.
func (b Bezier) Flatten(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, n+1)
	for i := range pts {
		pts[i] = b.At(float64(i) / float64(n))
	}
	return pts
}

// Bounds returns the bounding box of the sampled curve.
func (b Bezier) Bounds() Rect {
	pts := b.Flatten(16)
	r := scheme.RectFromPoints(pts[0], pts[0])
	for _, p := range pts[1:] {
		r = r.Union(scheme.RectFromPoints(p, p))
	}
	return r
}

// Distance approximates the distance from p to the curve.
func (b Bezier) Distance(p Point) float64 {
	pts := b.Flatten(32)
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		best = math.Min(best, segmentDistance(p, pts[i-1], pts[i]))
	}
	return best
}

func segmentDistance(p, a, b Point) float64 {
	d := b.Sub(a)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Point{X: a.X + t*d.X, Y: a.Y + t*d.Y})
}
