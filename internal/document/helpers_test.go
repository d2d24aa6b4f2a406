package document

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/infrastructure/sqlite"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
)

func newController(t testing.TB, opts ...Option) *Controller {
	t.Helper()
	c := New(registry.MustBuiltin(), opts...)
	t.Cleanup(c.Close)
	return c
}

func widget(t testing.TB, c *Controller, qname string) *registry.WidgetDescription {
	t.Helper()
	desc, err := c.Registry().Widget(qname)
	require.NoError(t, err)
	return desc
}

// create adds a qname node at the next free position.
func create(t testing.TB, c *Controller, qname string) *scheme.Node {
	t.Helper()
	n, err := c.CreateNewNode(widget(t, c, qname), "", nil)
	require.NoError(t, err)
	return n
}

func createAt(t testing.TB, c *Controller, qname string, x, y float64) *scheme.Node {
	t.Helper()
	n, err := c.CreateNewNode(widget(t, c, qname), "", &scheme.Point{X: x, Y: y})
	require.NoError(t, err)
	return n
}

func connect(t testing.TB, c *Controller, src *scheme.Node, out string, sink *scheme.Node, in string) *scheme.Link {
	t.Helper()
	l, err := c.Connect(src, out, sink, in)
	require.NoError(t, err)
	return l
}

func titles(nodes []*scheme.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title()
	}
	return out
}

type fakeUsage struct {
	mu     sync.Mutex
	events []sqlite.UsageEvent
}

func (f *fakeUsage) Record(_ context.Context, e sqlite.UsageEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeUsage) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Action + ":" + e.QualifiedName
	}
	return out
}
