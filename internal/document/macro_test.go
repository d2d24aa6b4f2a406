package document

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/scheme"
)

// chain builds one -> add.left, two -> add.right, add.result -> scale.value.
func chain(t *testing.T, c *Controller) (one, two, add, scale *scheme.Node) {
	t.Helper()
	one = createAt(t, c, "orchard.math.One", 100, 100)
	two = createAt(t, c, "orchard.math.One", 100, 200)
	add = createAt(t, c, "orchard.math.Add", 300, 150)
	scale = createAt(t, c, "orchard.math.Scale", 500, 150)
	connect(t, c, one, "value", add, "left")
	connect(t, c, two, "value", add, "right")
	connect(t, c, add, "result", scale, "value")
	return one, two, add, scale
}

func kinds(nodes []*scheme.Node) map[scheme.Kind]int {
	out := make(map[scheme.Kind]int)
	for _, n := range nodes {
		out[n.Kind()]++
	}
	return out
}

func TestCreateMacroFromSelection(t *testing.T) {
	c := newController(t)
	one, two, add, scale := chain(t, c)
	root := c.Scheme().Root()
	links := root.Links()

	c.Scene().SelectOnly(c.Scene().NodeItem(add))
	steps := c.Stack().Count()
	meta, err := c.CreateMacroFromSelection()
	require.NoError(t, err)
	require.Equal(t, steps+1, c.Stack().Count())

	require.Equal(t, "Macro", meta.Title())
	require.Equal(t, add.Position(), meta.Position())
	require.Equal(t, []*scheme.Node{one, two, scale, meta}, root.Nodes())
	require.Equal(t, meta.SubGraph(), add.Graph())
	require.Equal(t, map[scheme.Kind]int{scheme.KindWidget: 1, scheme.KindInput: 2, scheme.KindOutput: 1}, kinds(meta.SubGraph().Nodes()))
	require.Len(t, meta.SubGraph().Links(), 3)
	require.Equal(t, []*scheme.Node{meta}, c.SelectedNodes())

	outer := root.Links()
	require.Len(t, outer, 3)
	require.Equal(t, "left", outer[0].SinkChannel().Name)
	require.Equal(t, meta, outer[0].Sink())
	require.Equal(t, "right", outer[1].SinkChannel().Name)
	require.Equal(t, meta, outer[2].Source())
	require.Equal(t, "result", outer[2].SourceChannel().Name)

	in := meta.SubGraph().NodeForInputChannel(outer[0].SinkChannel())
	require.NotNil(t, in)
	require.Equal(t, add.Position().X-proxyMargin, in.Position().X)

	require.NoError(t, c.Undo())
	require.Equal(t, []*scheme.Node{one, two, add, scale}, root.Nodes())
	require.Equal(t, links, root.Links())
	require.Nil(t, meta.Graph())
}

func TestCreateMacro_IncludesNodesBetween(t *testing.T) {
	c := newController(t)
	one, _, add, scale := chain(t, c)
	sc := c.Scene()
	sc.SelectOnly(sc.NodeItem(one))
	sc.Select(sc.NodeItem(scale), true)

	meta, err := c.CreateMacroFromSelection()
	require.NoError(t, err)
	inner := meta.SubGraph()
	require.Equal(t, inner, add.Graph(), "add lies between one and scale")
	require.Equal(t, inner, one.Graph())
	require.Equal(t, inner, scale.Graph())
	require.Len(t, meta.Inputs(), 1, "two feeds add.right from outside")
	require.Empty(t, meta.Outputs())
}

func TestCreateMacro_SharedChannelNames(t *testing.T) {
	c := newController(t)
	one := createAt(t, c, "orchard.math.One", 100, 100)
	a := createAt(t, c, "orchard.math.Add", 300, 100)
	b := createAt(t, c, "orchard.math.Add", 300, 200)
	connect(t, c, one, "value", a, "left")
	connect(t, c, one, "value", b, "left")

	sc := c.Scene()
	sc.SelectOnly(sc.NodeItem(a))
	sc.Select(sc.NodeItem(b), true)
	meta, err := c.CreateMacroFromSelection()
	require.NoError(t, err)

	var names []string
	for _, in := range meta.Inputs() {
		names = append(names, in.Name)
	}
	require.Equal(t, []string{"left", "left (1)"}, names)
}

func TestCreateMacro_NothingSelected(t *testing.T) {
	c := newController(t)
	create(t, c, "orchard.math.One")
	_, err := c.CreateMacroFromSelection()
	require.ErrorIs(t, err, ErrNothingSelected)
}

func TestExpandMacro(t *testing.T) {
	c := newController(t)
	one, two, add, scale := chain(t, c)
	c.Scene().SelectOnly(c.Scene().NodeItem(add))
	meta, err := c.CreateMacroFromSelection()
	require.NoError(t, err)
	root := c.Scheme().Root()
	require.Len(t, root.Nodes(), 4)

	disabled := root.Links()[1]
	require.NoError(t, c.SetLinkEnabled(disabled, false))

	require.NoError(t, c.ExpandMacro(meta))
	require.Equal(t, []*scheme.Node{one, two, scale, add}, root.Nodes())
	require.Nil(t, meta.Graph())

	links := root.Links()
	require.Len(t, links, 3)
	for _, l := range links {
		require.False(t, l.Source().IsProxy())
		require.False(t, l.Sink().IsProxy())
	}
	require.Equal(t, one, links[0].Source())
	require.Equal(t, add, links[0].Sink())
	require.True(t, links[0].Enabled())
	require.Equal(t, two, links[1].Source())
	require.False(t, links[1].Enabled(), "outer link state is kept")
	require.Equal(t, add, links[2].Source())
	require.Equal(t, scale, links[2].Sink())

	require.NoError(t, c.Undo())
	require.Equal(t, []*scheme.Node{one, two, scale, meta}, root.Nodes())
	require.Equal(t, meta.SubGraph(), add.Graph())
	require.Len(t, meta.SubGraph().Links(), 3)

	require.ErrorIs(t, c.ExpandMacro(one), ErrNotAMacro)
}

func TestOpenMetaNode(t *testing.T) {
	c := newController(t)
	_, _, add, _ := chain(t, c)
	c.Scene().SelectOnly(c.Scene().NodeItem(add))
	meta, err := c.CreateMacroFromSelection()
	require.NoError(t, err)

	var changes int
	c.Subscribe(func(ev Event) {
		if ev.Kind == EventContainerChanged {
			changes++
		}
	})

	rootScene := c.Scene()
	require.NoError(t, c.OpenMetaNode(meta))
	require.Equal(t, meta.SubGraph(), c.Current())
	require.Equal(t, []string{"Macro"}, c.Breadcrumbs())
	require.Len(t, c.Scene().Nodes(), 4)
	require.NotSame(t, rootScene, c.Scene())

	require.NoError(t, c.OpenParent())
	require.Equal(t, c.Scheme().Root(), c.Current())
	require.Same(t, rootScene, c.Scene(), "scenes are kept per container")
	require.ErrorIs(t, c.OpenParent(), ErrAtRoot)

	require.ErrorIs(t, c.OpenMetaNode(add), ErrNotAMacro)

	// Undoing the macro creation while it is open returns to the root.
	require.NoError(t, c.OpenMetaNode(meta))
	require.NoError(t, c.Undo())
	require.Equal(t, c.Scheme().Root(), c.Current())
	require.Empty(t, c.Breadcrumbs())
	require.Equal(t, 4, changes)
}
