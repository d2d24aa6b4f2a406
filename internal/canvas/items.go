package canvas

import (
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
)

// Item is one graphical element of a Scene.
type Item interface {
	Bounds() Rect
	Selected() bool
	setSelected(bool) bool
}

type selectable struct{ selected bool }

// Selected reports whether the item is selected.
func (s *selectable) Selected() bool { return s.selected }

func (s *selectable) setSelected(v bool) bool {
	if s.selected == v {
		return false
	}
	s.selected = v
	return true
}

// Anchor is a channel connection point on the edge of a node item.
type Anchor struct {
	Node   *NodeItem
	Input  *registry.InputSignal  // set for input anchors
	Output *registry.OutputSignal // set for output anchors
	Pos    Point
}

// Name returns the channel name.
func (a *Anchor) Name() string {
	if a.Input != nil {
		return a.Input.Name
	}
	return a.Output.Name
}

// IsInput reports whether the anchor is on the input edge.
func (a *Anchor) IsInput() bool { return a.Input != nil }

// NodeItem presents one node.
type NodeItem struct {
	selectable
	node    *scheme.Node
	pos     Point
	w, h    float64
	inputs  []*Anchor
	outputs []*Anchor
}

// Node returns the model node.
func (n *NodeItem) Node() *scheme.Node { return n.node }

// Pos returns the visual center, which differs from the model position only
// during a drag.
func (n *NodeItem) Pos() Point { return n.pos }

// Title returns the node title.
func (n *NodeItem) Title() string { return n.node.Title() }

// Bounds implements Item.
func (n *NodeItem) Bounds() Rect {
	return Rect{X: n.pos.X - n.w/2, Y: n.pos.Y - n.h/2, W: n.w, H: n.h}
}

// Inputs returns the input anchors, top to bottom.
func (n *NodeItem) Inputs() []*Anchor { return append([]*Anchor(nil), n.inputs...) }

// Outputs returns the output anchors, top to bottom.
func (n *NodeItem) Outputs() []*Anchor { return append([]*Anchor(nil), n.outputs...) }

// InputAnchor returns the anchor of input c, or nil.
func (n *NodeItem) InputAnchor(c *registry.InputSignal) *Anchor {
	for _, a := range n.inputs {
		if a.Input == c {
			return a
		}
	}
	return nil
}

// OutputAnchor returns the anchor of output c, or nil.
func (n *NodeItem) OutputAnchor(c *registry.OutputSignal) *Anchor {
	for _, a := range n.outputs {
		if a.Output == c {
			return a
		}
	}
	return nil
}

// AnchorAt returns the anchor within tol of p, or nil.
func (n *NodeItem) AnchorAt(p Point, tol float64) *Anchor {
	for _, a := range append(n.Inputs(), n.outputs...) {
		if a.Pos.Dist(p) <= tol {
			return a
		}
	}
	return nil
}

// layout rebuilds the anchors from the node channels.
func (n *NodeItem) layout(l Layout) {
	ins, outs := n.node.Inputs(), n.node.Outputs()
	n.w, n.h = l.nodeSize(len(ins), len(outs))
	top := n.pos.Y - n.h/2
	n.inputs = make([]*Anchor, len(ins))
	for i, c := range ins {
		n.inputs[i] = &Anchor{Node: n, Input: c, Pos: Point{X: n.pos.X - n.w/2, Y: top + anchorY(i, len(ins), n.h)}}
	}
	n.outputs = make([]*Anchor, len(outs))
	for i, c := range outs {
		n.outputs[i] = &Anchor{Node: n, Output: c, Pos: Point{X: n.pos.X + n.w/2, Y: top + anchorY(i, len(outs), n.h)}}
	}
}

// moveTo repositions the item and its anchors.
func (n *NodeItem) moveTo(p Point) {
	d := p.Sub(n.pos)
	n.pos = p
	for _, a := range n.inputs {
		a.Pos = a.Pos.Add(d)
	}
	for _, a := range n.outputs {
		a.Pos = a.Pos.Add(d)
	}
}

// LinkItem presents one link as a curve between two anchors.
type LinkItem struct {
	selectable
	link   *scheme.Link
	source *Anchor
	sink   *Anchor
	curve  Bezier
}

// Link returns the model link.
func (l *LinkItem) Link() *scheme.Link { return l.link }

// Source returns the output anchor.
func (l *LinkItem) Source() *Anchor { return l.source }

// Sink returns the input anchor.
func (l *LinkItem) Sink() *Anchor { return l.sink }

// Curve returns the current route.
func (l *LinkItem) Curve() Bezier { return l.curve }

// Enabled mirrors the link state.
func (l *LinkItem) Enabled() bool { return l.link.Enabled() }

// Dynamic mirrors the link dynamic flag.
func (l *LinkItem) Dynamic() bool { return l.link.Dynamic() }

// Bounds implements Item.
func (l *LinkItem) Bounds() Rect { return l.curve.Bounds() }

func (l *LinkItem) route() { l.curve = LinkCurve(l.source.Pos, l.sink.Pos) }

// AnnotationItem presents one annotation.
type AnnotationItem struct {
	selectable
	ann    scheme.Annotation
	offset Point // visual drag offset from the model geometry
}

// Annotation returns the model annotation.
func (a *AnnotationItem) Annotation() scheme.Annotation { return a.ann }

// Offset returns the pending drag offset.
func (a *AnnotationItem) Offset() Point { return a.offset }

// Bounds implements Item.
func (a *AnnotationItem) Bounds() Rect { return a.ann.Bounds().Translate(a.offset) }

// LinkState is the legality feedback of a temporary link.
type LinkState int

const (
	LinkPending LinkState = iota
	LinkAccept
	LinkReject
)

func (s LinkState) String() string {
	switch s {
	case LinkAccept:
		return "accept"
	case LinkReject:
		return "reject"
	default:
		return "pending"
	}
}

// TempLink is the link being drawn by a new-connection gesture. It follows
// the pointer and never exists in the model.
type TempLink struct {
	From  *Anchor
	To    Point
	State LinkState
}

// Curve returns the route from the fixed anchor to the pointer, oriented
// output to input.
func (t *TempLink) Curve() Bezier {
	if t.From.IsInput() {
		return LinkCurve(t.To, t.From.Pos)
	}
	return LinkCurve(t.From.Pos, t.To)
}
