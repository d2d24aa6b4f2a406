package scheme

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/registry"
)

func testRegistry(t testing.TB) *registry.Registry {
	t.Helper()
	reg, err := registry.NewBuilder().
		AddCategory(registry.NewCategory("Math", "", "", 0, false)).
		AddCategory(registry.NewCategory("Data", "", "", 1, false)).
		AddWidgetBuilder(registry.NewWidget("test.one").Name("one").Category("Math").
			Output("value", "int", registry.FlagDefault)).
		AddWidgetBuilder(registry.NewWidget("test.add").Name("add").Category("Math").
			Input("left", "int", "set_left").
			Input("right", "int", "set_right").
			Output("result", "int")).
		AddWidgetBuilder(registry.NewWidget("test.scale").Name("scale").Category("Math").
			Input("value", "float", "set_value").
			Output("result", "float")).
		AddWidgetBuilder(registry.NewWidget("test.file").Name("file").Category("Data").
			Output("data", "Table", registry.FlagDynamic, registry.FlagDefault)).
		AddWidgetBuilder(registry.NewWidget("test.corpus").Name("corpus").Category("Data").
			Input("corpus", "Corpus", "set_corpus").
			Output("corpus", "Corpus")).
		AddWidgetBuilder(registry.NewWidget("test.view").Name("view").Category("Data").
			Input("data", "Table", "set_data", registry.FlagDefault).
			Input("data_subset", "Table", "set_subset").
			Input("extra", "Table", "set_extra", registry.FlagExplicit)).
		Adapter("int", "float").
		Adapter("Corpus", "Table").
		Build()
	require.NoError(t, err)
	return reg
}

func widget(t testing.TB, reg *registry.Registry, name string) *registry.WidgetDescription {
	t.Helper()
	w, err := reg.Widget(name)
	require.NoError(t, err)
	return w
}

type fixture struct {
	reg    *registry.Registry
	scheme *Scheme
	events []Event
}

func newFixture(t testing.TB, opts ...Option) *fixture {
	t.Helper()
	reg := testRegistry(t)
	f := &fixture{reg: reg, scheme: New(append([]Option{WithTypes(reg)}, opts...)...)}
	f.scheme.Subscribe(func(ev Event) { f.events = append(f.events, ev) })
	return f
}

func (f *fixture) node(t testing.TB, qname string, opts ...NodeOption) *Node {
	t.Helper()
	n := NewNode(widget(t, f.reg, qname), opts...)
	require.NoError(t, f.scheme.AddNode(n))
	return n
}

func (f *fixture) link(t testing.TB, g *Graph, src *Node, out string, sink *Node, in string) *Link {
	t.Helper()
	l, err := g.NewLink(src, out, sink, in)
	require.NoError(t, err)
	return l
}

func (f *fixture) kinds() []EventKind {
	out := make([]EventKind, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Kind)
	}
	return out
}

func (f *fixture) reset() { f.events = nil }
