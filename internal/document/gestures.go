package document

import (
	"context"
	"errors"

	"github.com/zjrosen/orchard/internal/canvas"
	"github.com/zjrosen/orchard/internal/command"
	"github.com/zjrosen/orchard/internal/scheme"
)

// Interaction is a pointer gesture on the current scene. Press starts it;
// Release finishes it and pushes at most one undo step. Cancel abandons it
// without touching the model.
type Interaction interface {
	Press(p canvas.Point) bool
	Move(p canvas.Point)
	Release(p canvas.Point) error
	Cancel()
}

// Begin starts i, cancelling the running interaction. It reports whether i
// accepted the press at p.
func (c *Controller) Begin(i Interaction, p canvas.Point) bool {
	c.CancelInteraction()
	if !i.Press(p) {
		return false
	}
	c.interaction = i
	return true
}

// Interaction returns the running interaction, or nil.
func (c *Controller) Interaction() Interaction { return c.interaction }

// MovePointer forwards a pointer move to the running interaction.
func (c *Controller) MovePointer(p canvas.Point) {
	if c.interaction != nil {
		c.interaction.Move(p)
	}
}

// ReleasePointer finishes the running interaction.
func (c *Controller) ReleasePointer(p canvas.Point) error {
	i := c.interaction
	if i == nil {
		return nil
	}
	c.interaction = nil
	return i.Release(p)
}

// CancelInteraction abandons the running interaction.
func (c *Controller) CancelInteraction() {
	if c.interaction != nil {
		i := c.interaction
		c.interaction = nil
		i.Cancel()
	}
}

// ErrGestureCancelled is returned by Release when the gesture ends without
// a result, as over empty canvas.
var ErrGestureCancelled = errors.New("gesture cancelled")

// LinkGesture draws a new link from a node. Pressing an output anchor or a
// node body drags toward a sink; pressing an input anchor drags toward a
// source.
type LinkGesture struct {
	c       *Controller
	scene   *canvas.Scene
	from    *canvas.Anchor
	reverse bool
}

// NewLinkGesture returns a link gesture on the current scene.
func (c *Controller) NewLinkGesture() *LinkGesture {
	return &LinkGesture{c: c, scene: c.Scene()}
}

// Press implements Interaction.
func (g *LinkGesture) Press(p canvas.Point) bool {
	if a := g.scene.AnchorAt(p); a != nil {
		g.from, g.reverse = a, a.IsInput()
	} else if it, ok := g.scene.ItemAt(p).(*canvas.NodeItem); ok {
		g.from = &canvas.Anchor{Node: it, Pos: it.Pos()}
	} else {
		return false
	}
	g.scene.StartTempLink(g.from)
	return true
}

// Move implements Interaction. The temporary link shows whether a release
// at p would connect.
func (g *LinkGesture) Move(p canvas.Point) {
	state := canvas.LinkPending
	if g.target(p) != nil {
		state = canvas.LinkAccept
	} else if it, ok := g.scene.ItemAt(p).(*canvas.NodeItem); ok && it != g.from.Node {
		state = canvas.LinkReject
	}
	g.scene.UpdateTempLink(p, state)
}

// target returns the link a release at p would add, or nil.
func (g *LinkGesture) target(p canvas.Point) *scheme.Link {
	graph := g.scene.Graph()
	src := g.from.Node.Node()

	if a := g.scene.AnchorAt(p); a != nil && a.Node != g.from.Node {
		var l *scheme.Link
		switch {
		case !g.reverse && a.IsInput():
			out := g.from.Output
			if out == nil {
				out = bestOutput(g.c.reg, src.Outputs(), a.Input)
			}
			if out == nil {
				return nil
			}
			l = scheme.NewLink(src, out, a.Node.Node(), a.Input)
		case g.reverse && !a.IsInput():
			l = scheme.NewLink(a.Node.Node(), a.Output, src, g.from.Input)
		default:
			return nil
		}
		if err := graph.CheckConnect(l); err != nil && !errors.Is(err, scheme.ErrSinkOccupied) {
			return nil
		}
		return l
	}

	it, ok := g.scene.ItemAt(p).(*canvas.NodeItem)
	if !ok || it == g.from.Node {
		return nil
	}
	source, sink := src, it.Node()
	if g.reverse {
		source, sink = sink, source
	}
	for _, prop := range graph.ProposeLinks(source, sink) {
		if g.from.Output != nil && prop.Output != g.from.Output {
			continue
		}
		if g.from.Input != nil && prop.Input != g.from.Input {
			continue
		}
		return scheme.NewLink(source, prop.Output, sink, prop.Input)
	}
	return nil
}

// Release implements Interaction. A legal target pushes the link, replacing
// the link occupying the sink channel.
func (g *LinkGesture) Release(p canvas.Point) error {
	l := g.target(p)
	g.scene.RemoveTempLink()
	if l == nil {
		return ErrGestureCancelled
	}
	return g.c.run("new_link", func(ctx context.Context) error {
		return g.c.connect(ctx, g.scene.Graph(), l)
	})
}

// Cancel implements Interaction.
func (g *LinkGesture) Cancel() { g.scene.RemoveTempLink() }

// RubberBand selects the items covered by a dragged rectangle.
type RubberBand struct {
	scene *canvas.Scene
	mode  canvas.SelectMode
	start canvas.Point
	rect  canvas.Rect
	prior []canvas.Item
}

// NewRubberBand returns a rubber band selection on the current scene.
func (c *Controller) NewRubberBand(mode canvas.SelectMode) *RubberBand {
	return &RubberBand{scene: c.Scene(), mode: mode}
}

// Rect returns the current band.
func (r *RubberBand) Rect() canvas.Rect { return r.rect }

// Press implements Interaction. It only starts over empty canvas.
func (r *RubberBand) Press(p canvas.Point) bool {
	if r.scene.ItemAt(p) != nil {
		return false
	}
	r.start = p
	r.rect = canvas.Rect{X: p.X, Y: p.Y}
	for _, it := range r.scene.Items() {
		if it.Selected() {
			r.prior = append(r.prior, it)
		}
	}
	return true
}

// Move implements Interaction.
func (r *RubberBand) Move(p canvas.Point) {
	r.restore()
	r.rect = scheme.RectFromPoints(r.start, p)
	r.scene.SelectInRect(r.rect, r.mode)
}

// Release implements Interaction.
func (r *RubberBand) Release(p canvas.Point) error {
	r.Move(p)
	return nil
}

// Cancel implements Interaction. The selection from before the press is
// restored.
func (r *RubberBand) Cancel() { r.restore() }

func (r *RubberBand) restore() {
	r.scene.ClearSelection()
	for _, it := range r.prior {
		r.scene.Select(it, true)
	}
}

// minArrowLength is the shortest arrow a gesture creates.
const minArrowLength = 8.0

// ArrowGesture draws an arrow annotation.
type ArrowGesture struct {
	c          *Controller
	color      string
	start, end canvas.Point
}

// NewArrowGesture returns an arrow gesture drawing in color.
func (c *Controller) NewArrowGesture(color string) *ArrowGesture {
	return &ArrowGesture{c: c, color: color}
}

// Line returns the arrow drawn so far.
func (a *ArrowGesture) Line() (start, end canvas.Point) { return a.start, a.end }

// Press implements Interaction.
func (a *ArrowGesture) Press(p canvas.Point) bool {
	a.start, a.end = p, p
	return true
}

// Move implements Interaction.
func (a *ArrowGesture) Move(p canvas.Point) { a.end = p }

// Release implements Interaction. Arrows shorter than minArrowLength are
// discarded.
func (a *ArrowGesture) Release(p canvas.Point) error {
	a.end = p
	if a.start.Dist(a.end) < minArrowLength {
		return ErrGestureCancelled
	}
	ann := scheme.NewArrowAnnotation(a.start, a.end, a.color)
	return a.c.run("new_arrow", func(ctx context.Context) error {
		return a.c.pushGesture(ctx, command.NewAddAnnotation(a.c.Current(), ann))
	})
}

// Cancel implements Interaction.
func (a *ArrowGesture) Cancel() {}

// DefaultTextSize is used when a text gesture is released without dragging.
var DefaultTextSize = canvas.Point{X: 200, Y: 80}

// TextGesture draws a text annotation.
type TextGesture struct {
	c       *Controller
	content string
	start   canvas.Point
	rect    canvas.Rect
	created *scheme.TextAnnotation
}

// NewTextGesture returns a text gesture creating an annotation with content.
func (c *Controller) NewTextGesture(content string) *TextGesture {
	return &TextGesture{c: c, content: content}
}

// Rect returns the drawn rectangle.
func (t *TextGesture) Rect() canvas.Rect { return t.rect }

// Created returns the annotation added by Release.
func (t *TextGesture) Created() *scheme.TextAnnotation { return t.created }

// Press implements Interaction.
func (t *TextGesture) Press(p canvas.Point) bool {
	t.start = p
	t.rect = canvas.Rect{X: p.X, Y: p.Y}
	return true
}

// Move implements Interaction.
func (t *TextGesture) Move(p canvas.Point) { t.rect = scheme.RectFromPoints(t.start, p) }

// Release implements Interaction.
func (t *TextGesture) Release(p canvas.Point) error {
	t.Move(p)
	if t.rect.W < 1 || t.rect.H < 1 {
		t.rect = canvas.Rect{X: t.start.X, Y: t.start.Y, W: DefaultTextSize.X, H: DefaultTextSize.Y}
	}
	ann := scheme.NewTextAnnotation(t.rect, t.content)
	err := t.c.run("new_text", func(ctx context.Context) error {
		return t.c.pushGesture(ctx, command.NewAddAnnotation(t.c.Current(), ann))
	})
	if err != nil {
		return err
	}
	t.created = ann
	return nil
}

// Cancel implements Interaction.
func (t *TextGesture) Cancel() {}

// NodeDrag moves the selected nodes and annotations with the pointer.
// Pressing an unselected item selects only it.
type NodeDrag struct {
	c      *Controller
	scene  *canvas.Scene
	start  canvas.Point
	nodes  []*canvas.NodeItem
	origin []canvas.Point
	anns   []*canvas.AnnotationItem
}

// NewNodeDrag returns a drag gesture on the current scene.
func (c *Controller) NewNodeDrag() *NodeDrag {
	return &NodeDrag{c: c, scene: c.Scene()}
}

// Press implements Interaction.
func (d *NodeDrag) Press(p canvas.Point) bool {
	it := d.scene.ItemAt(p)
	switch it.(type) {
	case *canvas.NodeItem, *canvas.AnnotationItem:
	default:
		return false
	}
	if !it.Selected() {
		d.scene.SelectOnly(it)
	}
	d.start = p
	for _, n := range d.scene.Nodes() {
		if n.Selected() {
			d.nodes = append(d.nodes, n)
			d.origin = append(d.origin, n.Pos())
		}
	}
	for _, a := range d.scene.Annotations() {
		if a.Selected() {
			d.anns = append(d.anns, a)
		}
	}
	return true
}

// Move implements Interaction.
func (d *NodeDrag) Move(p canvas.Point) {
	delta := p.Sub(d.start)
	for i, n := range d.nodes {
		d.scene.DragNode(n, d.origin[i].Add(delta))
	}
	for _, a := range d.anns {
		d.scene.DragAnnotation(a, delta)
	}
}

// Release implements Interaction. All moves become one undo step.
func (d *NodeDrag) Release(p canvas.Point) error {
	d.Move(p)
	if p == d.start {
		return nil
	}
	d.c.commitErrs = nil
	err := d.c.group("Move", func() error {
		for _, n := range d.nodes {
			d.scene.EndNodeDrag(n)
		}
		for _, a := range d.anns {
			d.scene.EndAnnotationDrag(a)
		}
		return nil
	})
	return errors.Join(err, d.c.takeCommitErrors())
}

// Cancel implements Interaction. Items return to their model geometry.
func (d *NodeDrag) Cancel() {
	for i, n := range d.nodes {
		d.scene.DragNode(n, d.origin[i])
	}
	for _, a := range d.anns {
		d.scene.DragAnnotation(a, canvas.Point{})
	}
}
