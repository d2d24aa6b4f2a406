package command

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
)

func newScheme(t testing.TB) (*scheme.Scheme, *registry.Registry) {
	t.Helper()
	reg := registry.MustBuiltin()
	return scheme.New(scheme.WithTypes(reg)), reg
}

func newNode(t testing.TB, reg *registry.Registry, qname string) *scheme.Node {
	t.Helper()
	desc, err := reg.Widget(qname)
	require.NoError(t, err)
	return scheme.NewNode(desc)
}

func resolve(t testing.TB, src *scheme.Node, out string, sink *scheme.Node, in string) *scheme.Link {
	t.Helper()
	l, err := scheme.ResolveLink(src, out, sink, in)
	require.NoError(t, err)
	return l
}

// snapshot captures the container lists by identity.
type snapshot struct {
	nodes       []*scheme.Node
	links       []*scheme.Link
	annotations []scheme.Annotation
	clean       bool
}

func take(g *scheme.Graph, st *Stack) snapshot {
	return snapshot{nodes: g.Nodes(), links: g.Links(), annotations: g.Annotations(), clean: st.IsClean()}
}

// requireElems compares two lists by identity and order. A removed element
// leaves an empty list behind, so nil and empty compare equal.
func requireElems[T any](t require.TestingT, want, got []T, msgAndArgs ...any) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.Len(t, got, len(want), msgAndArgs...)
	for i := range want {
		require.Equal(t, want[i], got[i], msgAndArgs...)
	}
}
