package document

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/canvas"
	"github.com/zjrosen/orchard/internal/scheme"
)

func TestLinkGesture_AnchorToAnchor(t *testing.T) {
	c := newController(t)
	one := createAt(t, c, "orchard.math.One", 100, 100)
	add := createAt(t, c, "orchard.math.Add", 300, 100)
	sc := c.Scene()
	out := sc.NodeItem(one).Outputs()[0]
	right := sc.NodeItem(add).Inputs()[1]

	require.True(t, c.Begin(c.NewLinkGesture(), out.Pos))
	require.NotNil(t, sc.TempLink())

	c.MovePointer(canvas.Point{X: 200, Y: 400})
	require.Equal(t, canvas.LinkPending, sc.TempLink().State)
	c.MovePointer(right.Pos)
	require.Equal(t, canvas.LinkAccept, sc.TempLink().State)

	require.NoError(t, c.ReleasePointer(right.Pos))
	require.Nil(t, sc.TempLink())
	require.Nil(t, c.Interaction())

	links := c.Scheme().Links()
	require.Len(t, links, 1)
	require.Equal(t, one, links[0].Source())
	require.Equal(t, "right", links[0].SinkChannel().Name)
}

func TestLinkGesture_NodeBodies(t *testing.T) {
	c := newController(t)
	one := createAt(t, c, "orchard.math.One", 100, 100)
	add := createAt(t, c, "orchard.math.Add", 300, 100)
	sc := c.Scene()

	require.True(t, c.Begin(c.NewLinkGesture(), one.Position()))
	c.MovePointer(add.Position())
	require.Equal(t, canvas.LinkAccept, sc.TempLink().State)
	require.NoError(t, c.ReleasePointer(add.Position()))
	require.Equal(t, "left", c.Scheme().Links()[0].SinkChannel().Name)

	// Dragging back from an input anchor finds a source.
	right := sc.NodeItem(add).Inputs()[1]
	require.True(t, c.Begin(c.NewLinkGesture(), right.Pos))
	require.NoError(t, c.ReleasePointer(one.Position()))
	links := c.Scheme().Links()
	require.Len(t, links, 2)
	require.Equal(t, one, links[1].Source())
	require.Equal(t, "right", links[1].SinkChannel().Name)
}

func TestLinkGesture_ReplacesOccupiedSink(t *testing.T) {
	c := newController(t)
	one := createAt(t, c, "orchard.math.One", 100, 100)
	two := createAt(t, c, "orchard.math.One", 100, 300)
	add := createAt(t, c, "orchard.math.Add", 300, 100)
	old := connect(t, c, one, "value", add, "left")
	left := c.Scene().NodeItem(add).Inputs()[0]

	steps := c.Stack().Count()
	require.True(t, c.Begin(c.NewLinkGesture(), c.Scene().NodeItem(two).Outputs()[0].Pos))
	require.NoError(t, c.ReleasePointer(left.Pos))
	require.Nil(t, old.Graph())
	require.Equal(t, two, c.Scheme().Links()[0].Source())
	require.Equal(t, steps+1, c.Stack().Count())
}

func TestLinkGesture_RejectAndCancel(t *testing.T) {
	c := newController(t)
	one := createAt(t, c, "orchard.math.One", 100, 100)
	other := createAt(t, c, "orchard.math.One", 300, 100)
	sc := c.Scene()

	require.False(t, c.Begin(c.NewLinkGesture(), canvas.Point{X: 700, Y: 700}), "empty canvas")

	require.True(t, c.Begin(c.NewLinkGesture(), one.Position()))
	c.MovePointer(other.Position())
	require.Equal(t, canvas.LinkReject, sc.TempLink().State, "One has no inputs")
	require.ErrorIs(t, c.ReleasePointer(other.Position()), ErrGestureCancelled)
	require.Nil(t, sc.TempLink())

	require.True(t, c.Begin(c.NewLinkGesture(), one.Position()))
	require.ErrorIs(t, c.ReleasePointer(canvas.Point{X: 900, Y: 900}), ErrGestureCancelled)

	require.True(t, c.Begin(c.NewLinkGesture(), one.Position()))
	c.MovePointer(canvas.Point{X: 200, Y: 200})
	c.CancelInteraction()
	require.Nil(t, sc.TempLink())
	require.Nil(t, c.Interaction())
	require.Empty(t, c.Scheme().Links())
	require.Equal(t, 2, c.Stack().Count())
}

func TestNodeDrag(t *testing.T) {
	c := newController(t)
	a := createAt(t, c, "orchard.math.One", 100, 100)
	b := createAt(t, c, "orchard.math.One", 100, 300)
	note := scheme.NewTextAnnotation(scheme.Rect{X: 300, Y: 300, W: 50, H: 20}, "note")
	require.NoError(t, c.AddAnnotation(note))
	c.SelectAll()
	steps := c.Stack().Count()

	require.True(t, c.Begin(c.NewNodeDrag(), a.Position()))
	c.MovePointer(canvas.Point{X: 110, Y: 120})
	require.Equal(t, scheme.Point{X: 100, Y: 100}, a.Position(), "the model moves on release")
	require.Equal(t, canvas.Point{X: 110, Y: 120}, c.Scene().NodeItem(a).Pos())

	require.NoError(t, c.ReleasePointer(canvas.Point{X: 110, Y: 120}))
	require.Equal(t, scheme.Point{X: 110, Y: 120}, a.Position())
	require.Equal(t, scheme.Point{X: 110, Y: 320}, b.Position())
	require.Equal(t, scheme.Rect{X: 310, Y: 320, W: 50, H: 20}, note.Rect())
	require.Equal(t, steps+1, c.Stack().Count())

	require.NoError(t, c.Undo())
	require.Equal(t, scheme.Point{X: 100, Y: 100}, a.Position())
	require.Equal(t, scheme.Point{X: 100, Y: 300}, b.Position())
	require.Equal(t, scheme.Rect{X: 300, Y: 300, W: 50, H: 20}, note.Rect())
}

func TestNodeDrag_SelectsPressedAndCancels(t *testing.T) {
	c := newController(t)
	a := createAt(t, c, "orchard.math.One", 100, 100)
	b := createAt(t, c, "orchard.math.One", 100, 300)
	c.Scene().SelectOnly(c.Scene().NodeItem(a))

	require.False(t, c.Begin(c.NewNodeDrag(), canvas.Point{X: 600, Y: 600}))
	require.True(t, c.Begin(c.NewNodeDrag(), b.Position()))
	require.Equal(t, []*scheme.Node{b}, c.SelectedNodes())

	c.MovePointer(canvas.Point{X: 150, Y: 350})
	c.CancelInteraction()
	require.Equal(t, b.Position(), c.Scene().NodeItem(b).Pos())
	require.Equal(t, scheme.Point{X: 100, Y: 300}, b.Position())
	require.Equal(t, 2, c.Stack().Count())
}

func TestNodeDrag_ReportsRejectedMove(t *testing.T) {
	c := newController(t)
	a := createAt(t, c, "orchard.math.One", 100, 100)
	b := createAt(t, c, "orchard.math.One", 100, 300)
	c.SelectAll()
	steps := c.Stack().Count()

	require.True(t, c.Begin(c.NewNodeDrag(), a.Position()))
	c.MovePointer(canvas.Point{X: 120, Y: 100})
	// The node leaves the document while the pointer is still down.
	require.NoError(t, c.Scheme().Root().RemoveNode(a))

	err := c.ReleasePointer(canvas.Point{X: 140, Y: 100})
	require.ErrorIs(t, err, scheme.ErrNotInGraph)
	require.Equal(t, scheme.Point{X: 140, Y: 300}, b.Position(), "the other moves are kept")
	require.Equal(t, steps+1, c.Stack().Count())

	require.True(t, c.Begin(c.NewNodeDrag(), b.Position()))
	require.NoError(t, c.ReleasePointer(canvas.Point{X: 160, Y: 300}), "earlier failures are not reported again")
}

func TestRubberBand(t *testing.T) {
	c := newController(t)
	one := createAt(t, c, "orchard.math.One", 100, 100)
	add := createAt(t, c, "orchard.math.Add", 300, 100)
	sc := c.Scene()
	sc.SelectOnly(sc.NodeItem(add))

	require.False(t, c.Begin(c.NewRubberBand(canvas.SelectReplace), one.Position()), "starts on empty canvas only")

	band := c.NewRubberBand(canvas.SelectReplace)
	require.True(t, c.Begin(band, canvas.Point{}))
	c.MovePointer(canvas.Point{X: 150, Y: 150})
	require.Equal(t, canvas.Rect{W: 150, H: 150}, band.Rect())
	require.Equal(t, []*scheme.Node{one}, c.SelectedNodes())

	c.CancelInteraction()
	require.Equal(t, []*scheme.Node{add}, c.SelectedNodes())

	require.True(t, c.Begin(c.NewRubberBand(canvas.SelectReplace), canvas.Point{}))
	c.MovePointer(canvas.Point{X: 150, Y: 150})
	require.NoError(t, c.ReleasePointer(canvas.Point{X: 400, Y: 400}))
	require.ElementsMatch(t, []*scheme.Node{one, add}, c.SelectedNodes())
}

func TestArrowGesture(t *testing.T) {
	c := newController(t)

	require.True(t, c.Begin(c.NewArrowGesture("#C1272D"), canvas.Point{X: 10, Y: 10}))
	require.ErrorIs(t, c.ReleasePointer(canvas.Point{X: 13, Y: 12}), ErrGestureCancelled)
	require.Empty(t, c.Scheme().Annotations())

	require.True(t, c.Begin(c.NewArrowGesture("#C1272D"), canvas.Point{X: 10, Y: 10}))
	c.MovePointer(canvas.Point{X: 40, Y: 10})
	require.NoError(t, c.ReleasePointer(canvas.Point{X: 90, Y: 10}))

	anns := c.Scheme().Annotations()
	require.Len(t, anns, 1)
	arrow, ok := anns[0].(*scheme.ArrowAnnotation)
	require.True(t, ok)
	start, end := arrow.Line()
	require.Equal(t, scheme.Point{X: 10, Y: 10}, start)
	require.Equal(t, scheme.Point{X: 90, Y: 10}, end)
	require.Equal(t, "#C1272D", arrow.Color())
}

func TestTextGesture(t *testing.T) {
	c := newController(t)

	click := c.NewTextGesture("hello")
	require.True(t, c.Begin(click, canvas.Point{X: 10, Y: 10}))
	require.NoError(t, c.ReleasePointer(canvas.Point{X: 10, Y: 10}))
	require.NotNil(t, click.Created())
	require.Equal(t, scheme.Rect{X: 10, Y: 10, W: DefaultTextSize.X, H: DefaultTextSize.Y}, click.Created().Rect())

	drag := c.NewTextGesture("")
	require.True(t, c.Begin(drag, canvas.Point{X: 110, Y: 60}))
	require.NoError(t, c.ReleasePointer(canvas.Point{X: 10, Y: 10}))
	require.Equal(t, scheme.Rect{X: 10, Y: 10, W: 100, H: 50}, drag.Created().Rect())
	require.Len(t, c.Scheme().Annotations(), 2)

	require.NoError(t, c.Undo())
	require.Len(t, c.Scheme().Annotations(), 1)
}
