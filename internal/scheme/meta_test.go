package scheme

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/registry"
)

type metaFixture struct {
	*fixture
	one, scale *Node
	meta       *Node
	in, out    *Node
	inner      *Node
}

// newMetaFixture builds one -> meta(x -> add.left, add.result -> y) -> scale.
func newMetaFixture(t *testing.T) *metaFixture {
	t.Helper()
	f := newFixture(t)
	m := &metaFixture{fixture: f}
	root := f.scheme.Root()

	m.one = f.node(t, "test.one")
	m.meta = NewMetaNode("group")
	require.NoError(t, root.AddNode(m.meta))
	m.scale = f.node(t, "test.scale")

	sub := m.meta.SubGraph()
	var err error
	m.in, err = sub.CreateInputNode(&registry.InputSignal{Name: "x", Type: "int"})
	require.NoError(t, err)
	m.out, err = sub.CreateOutputNode(&registry.OutputSignal{Name: "y", Type: "int"})
	require.NoError(t, err)
	m.inner = NewNode(widget(t, f.reg, "test.add"))
	require.NoError(t, sub.AddNode(m.inner))

	f.link(t, sub, m.in, "x", m.inner, "left")
	f.link(t, sub, m.inner, "result", m.out, "y")
	f.link(t, root, m.one, "value", m.meta, "x")
	f.link(t, root, m.meta, "y", m.scale, "value")
	return m
}

func TestMeta_ChannelsFollowProxies(t *testing.T) {
	m := newMetaFixture(t)

	require.Equal(t, []string{"x"}, inputNames(m.meta))
	require.Len(t, m.meta.Outputs(), 1)
	require.Equal(t, m.in, m.meta.SubGraph().NodeForInputChannel(m.meta.Inputs()[0]))
	require.Equal(t, m.out, m.meta.SubGraph().NodeForOutputChannel(m.meta.Outputs()[0]))
	require.Equal(t, m.fixture.scheme.Root(), m.meta.SubGraph().Parent())
	require.Equal(t, m.fixture.scheme, m.meta.SubGraph().Scheme())

	_, err := m.meta.SubGraph().CreateInputNode(&registry.InputSignal{Name: "z", Type: "int"})
	require.NoError(t, err)
	require.Equal(t, []string{"x", "z"}, inputNames(m.meta))

	_, err = m.meta.SubGraph().CreateInputNode(&registry.InputSignal{Name: "x", Type: "int"})
	require.ErrorIs(t, err, registry.ErrDuplicateChannel)

	require.ErrorIs(t, m.meta.InsertInputChannel(0, &registry.InputSignal{Name: "w"}), ErrFixedChannels)
}

func TestMeta_ProxyNodesOnlyInsideMeta(t *testing.T) {
	f := newFixture(t)
	require.ErrorIs(t, f.scheme.AddNode(NewInputNode(&registry.InputSignal{Name: "x", Type: "int"})), ErrNotMeta)
	_, err := f.scheme.Root().CreateOutputNode(&registry.OutputSignal{Name: "y"})
	require.ErrorIs(t, err, ErrNotMeta)

	m := NewMetaNode("self")
	require.ErrorIs(t, m.SubGraph().AddNode(m), ErrTopology)

	outer := NewMetaNode("outer")
	inner := NewMetaNode("inner")
	require.NoError(t, outer.SubGraph().AddNode(inner))
	require.NoError(t, f.scheme.AddNode(outer))
	require.Len(t, f.scheme.AllNodes(), 2)
	require.Equal(t, f.scheme, inner.SubGraph().Scheme())
}

func TestMeta_EventsReachScheme(t *testing.T) {
	m := newMetaFixture(t)
	m.reset()

	var inner []Event
	m.meta.SubGraph().Subscribe(func(ev Event) { inner = append(inner, ev) })

	m.inner.SetTitle("sum")
	require.Len(t, inner, 1)
	require.Equal(t, []EventKind{NodeChanged}, m.kinds())
	require.Equal(t, m.meta.SubGraph(), m.events[0].Graph)
}

func TestMeta_RemovingProxyCascadesBoundaryLinks(t *testing.T) {
	m := newMetaFixture(t)
	root := m.fixture.scheme.Root()
	sub := m.meta.SubGraph()
	m.reset()

	require.ErrorIs(t, sub.RemoveNode(m.in), ErrNodeHasLinks)

	removed, err := sub.RemoveNodeCascade(m.in)
	require.NoError(t, err)
	require.Len(t, removed, 2)
	require.Equal(t, root, m.events[1].Graph, "boundary link lives in the parent graph")
	require.Equal(t, []EventKind{LinkRemoved, LinkRemoved, NodeRemoved, NodeChanged}, m.kinds())
	require.Equal(t, m.meta, m.events[3].Node)
	require.Equal(t, PropInputs, m.events[3].Property)
	require.Empty(t, m.meta.Inputs())
	require.Empty(t, root.FindLinks(LinkQuery{Sink: m.meta}))
}

func TestMeta_TraversalCrossesBoundaries(t *testing.T) {
	m := newMetaFixture(t)

	down := DownstreamNodes(m.one)
	require.ElementsMatch(t, []*Node{m.meta, m.in, m.inner, m.out, m.scale}, down)

	up := UpstreamNodes(m.scale)
	require.ElementsMatch(t, []*Node{m.meta, m.out, m.inner, m.in, m.one}, up)

	require.ElementsMatch(t, []*Node{m.inner, m.out, m.scale}, DownstreamNodes(m.in))
	require.ElementsMatch(t, []*Node{m.in, m.one}, UpstreamNodes(m.inner))
	require.NotContains(t, down, m.one)
}

func TestMeta_ClearEmptiesNestedGraphs(t *testing.T) {
	m := newMetaFixture(t)
	m.reset()

	m.fixture.scheme.Clear()
	require.Empty(t, m.fixture.scheme.AllNodes())
	require.Empty(t, m.meta.SubGraph().Nodes())
	require.Empty(t, m.meta.SubGraph().Links())
	require.Nil(t, m.meta.Graph())
}

func inputNames(n *Node) []string {
	var names []string
	for _, c := range n.Inputs() {
		names = append(names, c.Name)
	}
	return names
}
