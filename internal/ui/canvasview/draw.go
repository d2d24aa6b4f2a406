package canvasview

import (
	"math"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/orchard/internal/canvas"
	"github.com/zjrosen/orchard/internal/scheme"
)

// Options carries gesture state that lives outside the scene.
type Options struct {
	Band  *canvas.Rect     // rubber band being dragged
	Arrow *[2]canvas.Point // arrow being drawn, start and end
	Text  *canvas.Rect     // text box being drawn
	Plain bool             // render without styles
}

// Render draws sc through v into a block of w columns and h rows.
// Annotations are drawn first, then links, then nodes on top.
func Render(sc *canvas.Scene, v Viewport, w, h int, opts Options) string {
	g := newGrid(max(w, 0), max(h, 0))
	d := drawer{g: g, v: v}

	for _, a := range sc.Annotations() {
		d.annotation(a)
	}
	for _, l := range sc.Links() {
		d.link(l)
	}
	if t := sc.TempLink(); t != nil {
		d.tempLink(t)
	}
	for _, n := range sc.Nodes() {
		d.node(n)
	}
	if opts.Arrow != nil {
		d.arrow(opts.Arrow[0], opts.Arrow[1], classArrow)
	}
	if opts.Text != nil {
		d.frame(*opts.Text, classBand)
	}
	if opts.Band != nil {
		d.frame(*opts.Band, classBand)
	}

	if opts.Plain {
		return g.plain()
	}
	return g.render(themed)
}

type drawer struct {
	g *grid
	v Viewport
}

// box is a rectangle in cells, inclusive of both corners.
type box struct{ c0, r0, c1, r1 int }

func (d drawer) cells(r canvas.Rect) box {
	c0, r0 := d.v.ToCell(r.Min())
	// Max is exclusive; step back a hair so an edge on a cell boundary stays
	// in the previous cell.
	c1, r1 := d.v.ToCell(r.Max().Sub(canvas.Point{X: 1e-6, Y: 1e-6}))
	return box{c0, r0, max(c1, c0), max(r1, r0)}
}

type borderSet struct{ tl, tr, bl, br, h, v rune }

var (
	roundBorder  = borderSet{'╭', '╮', '╰', '╯', '─', '│'}
	heavyBorder  = borderSet{'┏', '┓', '┗', '┛', '━', '┃'}
	doubleBorder = borderSet{'╔', '╗', '╚', '╝', '═', '║'}
	dashedBorder = borderSet{'┌', '┐', '└', '┘', '┄', '┆'}
)

func (d drawer) outline(b box, bs borderSet, c class) {
	for x := b.c0 + 1; x < b.c1; x++ {
		d.g.set(x, b.r0, bs.h, c)
		d.g.set(x, b.r1, bs.h, c)
	}
	for y := b.r0 + 1; y < b.r1; y++ {
		d.g.set(b.c0, y, bs.v, c)
		d.g.set(b.c1, y, bs.v, c)
	}
	d.g.set(b.c0, b.r0, bs.tl, c)
	d.g.set(b.c1, b.r0, bs.tr, c)
	d.g.set(b.c0, b.r1, bs.bl, c)
	d.g.set(b.c1, b.r1, bs.br, c)
}

func (d drawer) node(it *canvas.NodeItem) {
	b := d.cells(it.Bounds())
	// Keep room for the border and one interior cell at any zoom.
	b.c1 = max(b.c1, b.c0+3)
	b.r1 = max(b.r1, b.r0+2)

	n := it.Node()
	bs, c := roundBorder, classNode
	switch {
	case n.IsMeta():
		bs, c = doubleBorder, classMeta
	case n.IsProxy():
		c = classProxy
	}
	if it.Selected() {
		bs, c = heavyBorder, classNodeSelected
	}

	d.g.fill(b.c0+1, b.r0+1, b.c1-b.c0-1, b.r1-b.r0-1)
	d.outline(b, bs, c)

	inner := b.c1 - b.c0 - 1
	title := it.Title()
	if n.IsMeta() {
		title = "▣ " + title
	}
	if inner > 2 {
		col := b.c0 + 1
		d.g.set(col, b.r0, ' ', c)
		used := d.g.text(col+1, b.r0, truncate(title, inner-2), inner-2, classTitle)
		d.g.set(col+1+used, b.r0, ' ', c)
	}

	half := max((inner-1)/2, 1)
	for _, a := range it.Inputs() {
		row := d.anchorRow(a, b)
		d.g.set(b.c0, row, '●', classAnchorIn)
		d.g.text(b.c0+1, row, a.Name(), half, classChannel)
	}
	for _, a := range it.Outputs() {
		row := d.anchorRow(a, b)
		d.g.set(b.c1, row, '●', classAnchorOut)
		name := truncate(a.Name(), half)
		d.g.text(b.c1-displayWidth(name), row, name, half, classChannel)
	}
}

func (d drawer) anchorRow(a *canvas.Anchor, b box) int {
	_, row := d.v.ToCell(a.Pos)
	return min(max(row, b.r0+1), b.r1-1)
}

func (d drawer) link(it *canvas.LinkItem) {
	c, dashed := classLink, false
	switch {
	case it.Selected():
		c = classLinkSelected
	case !it.Enabled():
		c, dashed = classLinkDisabled, true
	case it.Dynamic():
		c = classLinkDynamic
	}
	d.curve(it.Curve(), c, dashed)
}

func (d drawer) tempLink(t *canvas.TempLink) {
	c := classTempPending
	switch t.State {
	case canvas.LinkAccept:
		c = classTempAccept
	case canvas.LinkReject:
		c = classTempReject
	}
	d.curve(t.Curve(), c, false)
	col, row := d.v.ToCell(t.To)
	d.g.set(col, row, '◆', c)
}

// curve plots b one cell at a time, choosing each glyph from the direction
// the curve enters the cell.
func (d drawer) curve(b canvas.Bezier, c class, dashed bool) {
	n := int(b.P0.Dist(b.P3)/d.v.Zoom*2) + 8
	pts := b.Flatten(n)
	pc, pr := d.v.ToCell(pts[0])
	first := true
	for _, p := range pts[1:] {
		col, row := d.v.ToCell(p)
		if col == pc && row == pr {
			continue
		}
		r := lineGlyph(col-pc, row-pr, dashed)
		if first {
			d.g.set(pc, pr, r, c)
			first = false
		}
		d.g.set(col, row, r, c)
		pc, pr = col, row
	}
}

func lineGlyph(dc, dr int, dashed bool) rune {
	switch {
	case dr == 0 && dashed:
		return '╌'
	case dr == 0:
		return '─'
	case dc == 0 && dashed:
		return '╎'
	case dc == 0:
		return '│'
	case (dc > 0) == (dr > 0):
		return '╲'
	default:
		return '╱'
	}
}

func (d drawer) annotation(it *canvas.AnnotationItem) {
	switch a := it.Annotation().(type) {
	case *scheme.TextAnnotation:
		d.text(a, it.Bounds(), it.Selected())
	case *scheme.ArrowAnnotation:
		start, end := a.Line()
		off := it.Offset()
		c := classArrow
		if it.Selected() {
			c = classNodeSelected
		}
		d.arrow(start.Add(off), end.Add(off), c)
	}
}

func (d drawer) text(a *scheme.TextAnnotation, r canvas.Rect, selected bool) {
	b := d.cells(r)
	width := b.c1 - b.c0 + 1
	lines := strings.Split(wordwrap.String(a.Content(), width), "\n")
	for i, line := range lines {
		if b.r0+i > b.r1 {
			break
		}
		d.g.text(b.c0, b.r0+i, line, width, classAnnotation)
	}
	if selected {
		d.g.set(b.c0-1, b.r0-1, '┌', classNodeSelected)
		d.g.set(b.c1+1, b.r0-1, '┐', classNodeSelected)
		d.g.set(b.c0-1, b.r1+1, '└', classNodeSelected)
		d.g.set(b.c1+1, b.r1+1, '┘', classNodeSelected)
	}
}

func (d drawer) arrow(start, end canvas.Point, c class) {
	d.curve(canvas.Bezier{P0: start, P1: start, P2: end, P3: end}, c, false)
	col, row := d.v.ToCell(end)
	d.g.set(col, row, arrowHead(end.Sub(start)), c)
}

// arrowHead picks the head glyph nearest the direction of v.
func arrowHead(v canvas.Point) rune {
	heads := []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
	angle := math.Atan2(v.Y, v.X)
	i := int(math.Round(angle/(math.Pi/4))+8) % 8
	return heads[i]
}

func (d drawer) frame(r canvas.Rect, c class) {
	b := d.cells(r.Normalize())
	d.outline(b, dashedBorder, c)
}
