package canvas

import "math"

// Layout sizes node items. Node positions are centers.
type Layout struct {
	NodeWidth     float64
	MinNodeHeight float64
	AnchorSpacing float64
	// LinkHitTolerance is how close a point must be to a curve to hit it.
	LinkHitTolerance float64
}

// DefaultLayout is used unless a scene is given another one.
var DefaultLayout = Layout{
	NodeWidth:        80,
	MinNodeHeight:    48,
	AnchorSpacing:    16,
	LinkHitTolerance: 4,
}

// nodeSize returns the size of a node with the given channel counts.
func (l Layout) nodeSize(inputs, outputs int) (w, h float64) {
	n := math.Max(float64(inputs), float64(outputs))
	return l.NodeWidth, math.Max(l.MinNodeHeight, (n+1)*l.AnchorSpacing)
}

// anchorY spreads count anchors evenly over height, returning the offset of
// anchor i from the top edge.
func anchorY(i, count int, height float64) float64 {
	return height * float64(i+1) / float64(count+1)
}
