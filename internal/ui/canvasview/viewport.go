// Package canvasview draws a canvas scene onto a grid of terminal cells and
// maps pointer cells back to scene coordinates.
package canvasview

import (
	"math"

	"github.com/zjrosen/orchard/internal/canvas"
)

// Zoom limits, in scene units per column.
const (
	MinZoom     = 1.0
	MaxZoom     = 20.0
	DefaultZoom = 5.0
)

// Viewport maps scene coordinates to cells. A terminal cell is about twice
// as tall as it is wide, so a row spans twice the units of a column.
type Viewport struct {
	Origin canvas.Point // scene point at the top-left corner of cell (0, 0)
	Zoom   float64      // scene units per column
}

// NewViewport returns a viewport at the scene origin with the default zoom.
func NewViewport() Viewport {
	return Viewport{Zoom: DefaultZoom}
}

func (v Viewport) rowUnits() float64 { return v.Zoom * 2 }

// ToCanvas returns the scene point at the center of a cell.
func (v Viewport) ToCanvas(col, row int) canvas.Point {
	return canvas.Point{
		X: v.Origin.X + (float64(col)+0.5)*v.Zoom,
		Y: v.Origin.Y + (float64(row)+0.5)*v.rowUnits(),
	}
}

// ToCell returns the cell containing p. A point within rounding error of a
// cell edge belongs to the cell starting there, so a curve sampled along an
// edge stays on one row.
func (v Viewport) ToCell(p canvas.Point) (col, row int) {
	return cellIndex((p.X - v.Origin.X) / v.Zoom), cellIndex((p.Y - v.Origin.Y) / v.rowUnits())
}

func cellIndex(f float64) int {
	const eps = 1e-9
	return int(math.Floor(f + eps))
}

// Pan moves the viewport by whole cells.
func (v Viewport) Pan(dcol, drow int) Viewport {
	v.Origin = v.Origin.Add(canvas.Point{X: float64(dcol) * v.Zoom, Y: float64(drow) * v.rowUnits()})
	return v
}

// ZoomBy scales the zoom by f, keeping the scene point under (col, row) in
// place. The result is clamped to [MinZoom, MaxZoom].
func (v Viewport) ZoomBy(f float64, col, row int) Viewport {
	anchor := v.ToCanvas(col, row)
	v.Zoom = math.Max(MinZoom, math.Min(MaxZoom, v.Zoom*f))
	after := v.ToCanvas(col, row)
	v.Origin = v.Origin.Add(anchor.Sub(after))
	return v
}

// Percent returns the zoom relative to the default, for display.
func (v Viewport) Percent() int {
	return int(math.Round(DefaultZoom / v.Zoom * 100))
}

// Fit returns a viewport showing r centered in a cols×rows area, keeping the
// current zoom unless r does not fit.
func (v Viewport) Fit(r canvas.Rect, cols, rows int) Viewport {
	if cols <= 0 || rows <= 0 {
		return v
	}
	if r.W > 0 || r.H > 0 {
		need := math.Max(r.W/float64(cols), r.H/(2*float64(rows)))
		v.Zoom = math.Max(MinZoom, math.Min(MaxZoom, math.Max(v.Zoom, need*1.1)))
	}
	c := r.Center()
	v.Origin = canvas.Point{
		X: c.X - float64(cols)*v.Zoom/2,
		Y: c.Y - float64(rows)*v.rowUnits()/2,
	}
	return v
}
