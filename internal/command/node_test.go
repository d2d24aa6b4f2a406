package command

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
)

func TestRemoveNode_RestoresLinksAtTheirIndexes(t *testing.T) {
	s, reg := newScheme(t)
	root := s.Root()
	st := NewStack()

	a := newNode(t, reg, "orchard.math.One")
	b := newNode(t, reg, "orchard.math.One")
	add := newNode(t, reg, "orchard.math.Add")
	scale := newNode(t, reg, "orchard.math.Scale")
	for _, n := range []*scheme.Node{a, add, b, scale} {
		require.NoError(t, st.Push(NewAddNode(root, n)))
	}
	other := newNode(t, reg, "orchard.math.Scale")
	require.NoError(t, st.Push(NewAddNode(root, other)))

	require.NoError(t, st.Push(NewAddLink(root, resolve(t, a, "value", add, "left"))))
	require.NoError(t, st.Push(NewAddLink(root, resolve(t, b, "value", other, "value"))))
	require.NoError(t, st.Push(NewAddLink(root, resolve(t, add, "result", scale, "value"))))
	require.NoError(t, st.Push(NewAddLink(root, resolve(t, b, "value", add, "right"))))
	before := take(root, st)

	rm := NewRemoveNode(root, add)
	require.NoError(t, st.Push(rm))
	require.Len(t, rm.Links(), 3)
	require.Equal(t, []*scheme.Node{a, b, scale, other}, root.Nodes())
	require.Len(t, root.Links(), 1)

	require.NoError(t, st.Undo())
	requireElems(t, before.nodes, root.Nodes())
	requireElems(t, before.links, root.Links())

	require.NoError(t, st.Redo())
	require.Len(t, root.Links(), 1)
	require.Nil(t, add.Graph())
}

func TestRemoveNode_ProxyRestoresBoundary(t *testing.T) {
	s, reg := newScheme(t)
	root := s.Root()
	st := NewStack()

	one := newNode(t, reg, "orchard.math.One")
	meta := scheme.NewMetaNode("group")
	require.NoError(t, st.Push(NewAddNode(root, one)))
	require.NoError(t, st.Push(NewAddNode(root, meta)))
	sub := meta.SubGraph()

	x := scheme.NewInputNode(&registry.InputSignal{Name: "x", Type: "int"})
	y := scheme.NewInputNode(&registry.InputSignal{Name: "y", Type: "int"})
	require.NoError(t, st.Push(NewAddNode(sub, x)))
	require.NoError(t, st.Push(NewAddNode(sub, y)))
	boundary := resolve(t, one, "value", meta, "x")
	require.NoError(t, st.Push(NewAddLink(root, boundary)))

	require.NoError(t, st.Push(NewRemoveNode(sub, x)))
	require.Equal(t, []string{"y"}, channelNames(meta))
	require.Empty(t, root.Links())

	require.NoError(t, st.Undo())
	require.Equal(t, []string{"x", "y"}, channelNames(meta), "channel order restored")
	require.Equal(t, []*scheme.Link{boundary}, root.Links())
}

func TestInsertNode_SplicesLink(t *testing.T) {
	s, reg := newScheme(t)
	root := s.Root()
	st := NewStack()

	one := newNode(t, reg, "orchard.math.One")
	scale := newNode(t, reg, "orchard.math.Scale")
	require.NoError(t, st.Push(NewAddNode(root, one)))
	require.NoError(t, st.Push(NewAddNode(root, scale)))
	old := resolve(t, one, "value", scale, "value")
	require.NoError(t, st.Push(NewAddLink(root, old)))
	before := take(root, st)

	add := newNode(t, reg, "orchard.math.Add")
	m, err := NewInsertNode(root, add, old, "left", "result")
	require.NoError(t, err)
	require.Equal(t, CmdInsertNode, m.Type())
	require.NoError(t, st.Push(m))

	require.Len(t, root.Links(), 2)
	require.Nil(t, old.Graph())
	require.Len(t, root.FindLinks(scheme.LinkQuery{Sink: add}), 1)
	require.Len(t, root.FindLinks(scheme.LinkQuery{Source: add, Sink: scale}), 1)

	require.NoError(t, st.Undo())
	requireElems(t, before.nodes, root.Nodes())
	requireElems(t, before.links, root.Links())

	_, err = NewInsertNode(root, add, old, "missing", "result")
	require.ErrorIs(t, err, scheme.ErrChannelNotFound)
}

func TestNodeEdits_UndoRestoresWholeValue(t *testing.T) {
	s, reg := newScheme(t)
	root := s.Root()
	st := NewStack()
	scale := newNode(t, reg, "orchard.math.Scale")
	require.NoError(t, st.Push(NewAddNode(root, scale)))

	labels, ok := scale.Property("labels")
	require.True(t, ok)

	require.NoError(t, st.Push(NewSetNodeProperty(scale, "labels", []any{"a"})))
	require.NoError(t, st.Push(NewSetNodeProperty(scale, "offset", 1.5)))
	require.ErrorIs(t, st.Push(NewSetNodeProperty(scale, "offset", 1.5)), ErrInvalidCommand)
	require.NoError(t, st.Push(NewRenameNode(scale, "Double")))
	require.NoError(t, st.Push(NewMoveNode(scale, scheme.Point{X: 40, Y: 10})))

	require.Equal(t, "Double", scale.Title())
	require.Equal(t, scheme.Point{X: 40, Y: 10}, scale.Position())

	for st.CanUndo() && st.Index() > 1 {
		require.NoError(t, st.Undo())
	}
	require.Equal(t, "Scale", scale.Title())
	require.Equal(t, scheme.Point{}, scale.Position())
	got, _ := scale.Property("labels")
	require.Equal(t, labels, got)
	_, ok = scale.Property("offset")
	require.False(t, ok, "absent key is deleted again")
}

func TestMoveNodeFrom_AfterVisualDrag(t *testing.T) {
	s, reg := newScheme(t)
	st := NewStack()
	n := newNode(t, reg, "orchard.math.One")
	require.NoError(t, st.Push(NewAddNode(s.Root(), n)))

	// The canvas already moved the item; the model still holds the start.
	cmd := NewMoveNodeFrom(n, scheme.Point{X: 0, Y: 0}, scheme.Point{X: 5, Y: 5})
	require.NoError(t, st.Push(cmd))
	require.Equal(t, scheme.Point{X: 5, Y: 5}, n.Position())
	require.NoError(t, st.Undo())
	require.Equal(t, scheme.Point{}, n.Position())
}

func TestMoveNode_RejectsDetachedAndNonFinite(t *testing.T) {
	s, reg := newScheme(t)
	st := NewStack()
	n := newNode(t, reg, "orchard.math.One")
	require.ErrorIs(t, st.Push(NewMoveNode(n, scheme.Point{X: 5})), scheme.ErrNotInGraph)

	require.NoError(t, st.Push(NewAddNode(s.Root(), n)))
	require.ErrorIs(t, st.Push(NewMoveNode(n, scheme.Point{X: math.NaN()})), ErrInvalidCommand)
	require.ErrorIs(t, st.Push(NewMoveNode(n, scheme.Point{Y: math.Inf(1)})), ErrInvalidCommand)
	require.Equal(t, scheme.Point{}, n.Position())
	require.Equal(t, 1, st.Count())
}

func channelNames(n *scheme.Node) []string {
	var names []string
	for _, c := range n.Inputs() {
		names = append(names, c.Name)
	}
	return names
}
