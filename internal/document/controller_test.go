package document

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/tracing"
)

func TestCreateNewNode_EnumeratesTitlesAndPositions(t *testing.T) {
	c := newController(t)

	a := create(t, c, "orchard.math.One")
	b := create(t, c, "orchard.math.One")
	require.Equal(t, "One", a.Title(), "first title is the widget name")
	require.Equal(t, "One (1)", b.Title())
	require.Equal(t, scheme.Point{X: 150, Y: 150}, a.Position())
	require.Equal(t, scheme.Point{X: 300, Y: 150}, b.Position())

	named, err := c.CreateNewNode(widget(t, c, "orchard.math.Add"), "Sum", &scheme.Point{X: 10, Y: 20})
	require.NoError(t, err)
	require.Equal(t, "Sum", named.Title())
	require.Equal(t, scheme.Point{X: 10, Y: 20}, named.Position())

	require.NoError(t, c.Undo())
	require.Len(t, c.Scheme().Nodes(), 2)
	require.Equal(t, "One (2)", c.EnumerateTitle("One"))
	require.Equal(t, "Add", c.EnumerateTitle("Add"))
}

func TestOneAddScenario(t *testing.T) {
	c := newController(t)
	one := create(t, c, "orchard.math.One")
	add := create(t, c, "orchard.math.Add")

	connect(t, c, one, "value", add, "left")
	connect(t, c, one, "value", add, "right")
	require.Len(t, c.Scheme().Links(), 2)

	_, err := c.Connect(one, "value", add, "left")
	require.ErrorIs(t, err, scheme.ErrDuplicatedLink)

	other := create(t, c, "orchard.math.One")
	_, err = c.Connect(other, "value", add, "left")
	require.ErrorIs(t, err, scheme.ErrSinkOccupied)

	_, err = c.Connect(add, "result", add, "left")
	require.ErrorIs(t, err, scheme.ErrTopology)

	require.True(t, c.IsModified())
	for c.Stack().CanUndo() {
		require.NoError(t, c.Undo())
	}
	require.Empty(t, c.Scheme().Nodes())
	require.Empty(t, c.Scheme().Links())
	require.False(t, c.IsModified())
}

func TestConnectNodes_ReplacesOccupiedSink(t *testing.T) {
	c := newController(t)
	one1 := create(t, c, "orchard.math.One")
	one2 := create(t, c, "orchard.math.One")
	one3 := create(t, c, "orchard.math.One")
	add := create(t, c, "orchard.math.Add")

	l1, err := c.ConnectNodes(one1, add)
	require.NoError(t, err)
	require.Equal(t, "left", l1.SinkChannel().Name)

	l2, err := c.ConnectNodes(one2, add)
	require.NoError(t, err)
	require.Equal(t, "right", l2.SinkChannel().Name, "free sink channels win")

	steps := c.Stack().Count()
	l3, err := c.ConnectNodes(one3, add)
	require.NoError(t, err)
	require.Equal(t, "left", l3.SinkChannel().Name)
	require.Nil(t, l1.Graph())
	require.Equal(t, steps+1, c.Stack().Count(), "replacement is one step")

	require.NoError(t, c.Undo())
	require.Equal(t, c.Scheme().Root(), l1.Graph())
	require.Nil(t, l3.Graph())

	_, err = c.ConnectNodes(add, one1)
	require.ErrorIs(t, err, ErrNoProposal)
}

func TestInsertNode_SplicesLink(t *testing.T) {
	c := newController(t)
	one := createAt(t, c, "orchard.math.One", 100, 100)
	scale := createAt(t, c, "orchard.math.Scale", 300, 100)
	l := connect(t, c, one, "value", scale, "value")

	add, err := c.InsertNode(widget(t, c, "orchard.math.Add"), l)
	require.NoError(t, err)
	require.Equal(t, scheme.Point{X: 200, Y: 100}, add.Position())
	require.Len(t, c.Scheme().Nodes(), 3)

	links := c.Scheme().Links()
	require.Len(t, links, 2)
	require.Equal(t, "left", links[0].SinkChannel().Name)
	require.Equal(t, add, links[1].Source())

	require.NoError(t, c.Undo())
	require.Len(t, c.Scheme().Nodes(), 2)
	require.Equal(t, []*scheme.Link{l}, c.Scheme().Links())

	_, err = c.InsertNode(widget(t, c, "orchard.data.Corpus"), l)
	require.ErrorIs(t, err, ErrNoProposal)
}

func TestRemoveSelected(t *testing.T) {
	c := newController(t)
	one := create(t, c, "orchard.math.One")
	add := create(t, c, "orchard.math.Add")
	l := connect(t, c, one, "value", add, "left")
	note := scheme.NewTextAnnotation(scheme.Rect{X: 0, Y: 0, W: 50, H: 20}, "note")
	require.NoError(t, c.AddAnnotation(note))

	require.ErrorIs(t, c.RemoveSelected(), ErrNothingSelected)

	sc := c.Scene()
	sc.SelectOnly(sc.NodeItem(one))
	sc.Select(sc.AnnotationItem(note), true)
	require.NoError(t, c.RemoveSelected())
	require.Equal(t, []*scheme.Node{add}, c.Scheme().Nodes())
	require.Empty(t, c.Scheme().Links())
	require.Empty(t, c.Scheme().Annotations())

	require.NoError(t, c.Undo())
	require.Equal(t, []*scheme.Node{one, add}, c.Scheme().Nodes())
	require.Equal(t, []*scheme.Link{l}, c.Scheme().Links())
	require.Len(t, c.Scheme().Annotations(), 1)
}

func TestMoveSelected_OneStep(t *testing.T) {
	c := newController(t)
	a := create(t, c, "orchard.math.One")
	b := create(t, c, "orchard.math.One")
	c.SelectAll()

	steps := c.Stack().Count()
	require.NoError(t, c.MoveSelected(scheme.Point{X: 5, Y: -5}))
	require.Equal(t, scheme.Point{X: 155, Y: 145}, a.Position())
	require.Equal(t, scheme.Point{X: 305, Y: 145}, b.Position())
	require.Equal(t, steps+1, c.Stack().Count())

	require.NoError(t, c.Undo())
	require.Equal(t, scheme.Point{X: 150, Y: 150}, a.Position())
}

func TestDocumentVerbs(t *testing.T) {
	c := newController(t)
	require.NoError(t, c.SetTitle("Iris"))
	require.NoError(t, c.SetDescription("Flowers"))
	require.Equal(t, 2, c.Stack().Count())
	require.NoError(t, c.SetTitle("Iris"), "unchanged title is not recorded")
	require.Equal(t, 2, c.Stack().Count())

	n := create(t, c, "orchard.math.Scale")
	require.NoError(t, c.RenameNode(n, "  Double "))
	require.Equal(t, "Double", n.Title())
	require.NoError(t, c.SetNodeProperty(n, "factor", 4.0))
	v, _ := n.Property("factor")
	require.Equal(t, 4.0, v)

	presets := []scheme.WindowGroup{{Name: "Main", Default: true, State: []scheme.WindowState{{Node: n, Data: []byte{1}}}}}
	require.NoError(t, c.SetWindowPresets(presets))
	require.Len(t, c.Scheme().WindowPresets(), 1)

	require.NoError(t, c.Undo())
	require.Empty(t, c.Scheme().WindowPresets())
	require.NoError(t, c.Redo())
	require.Len(t, c.Scheme().WindowPresets(), 1)
}

func TestEvents_ModifiedChanged(t *testing.T) {
	c := newController(t)
	var modified []bool
	c.Subscribe(func(ev Event) {
		if ev.Kind == EventModifiedChanged {
			modified = append(modified, ev.Modified)
		}
	})

	create(t, c, "orchard.math.One")
	create(t, c, "orchard.math.One")
	require.NoError(t, c.Undo())
	require.NoError(t, c.Undo())
	require.Equal(t, []bool{true, false}, modified)

	c.SetModified(true)
	require.True(t, c.IsModified())
	c.SetModified(false)
	require.False(t, c.IsModified())
}

func TestUsageRecorded(t *testing.T) {
	usage := &fakeUsage{}
	c := newController(t, WithUsage(usage))
	one := create(t, c, "orchard.math.One")
	add := create(t, c, "orchard.math.Add")
	connect(t, c, one, "value", add, "left")
	require.NoError(t, c.RemoveNode(one))

	require.Equal(t, []string{
		"created:orchard.math.One",
		"created:orchard.math.Add",
		"connected:orchard.math.Add",
		"removed:orchard.math.One",
	}, usage.actions())
}

func TestVerbSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	c := newController(t, WithTracer(tp.Tracer("test")))

	add := create(t, c, "orchard.math.Add")
	_, err := c.Connect(add, "result", add, "left")
	require.ErrorIs(t, err, scheme.ErrTopology)

	spans := exp.GetSpans()
	require.Len(t, spans, 2)

	created := spans[0]
	require.Equal(t, tracing.SpanPrefixVerb+"create_node", created.Name)
	require.Equal(t, codes.Ok, created.Status.Code)
	require.Len(t, created.Events, 1)
	require.Equal(t, tracing.EventCommandPushed, created.Events[0].Name)

	failed := spans[1]
	require.Equal(t, tracing.SpanPrefixVerb+"add_link", failed.Name)
	require.Equal(t, codes.Error, failed.Status.Code)

	cmd, ok := c.Stack().Command(0).(interface{ TraceID() string })
	require.True(t, ok)
	require.Equal(t, created.SpanContext.TraceID().String(), cmd.TraceID())
}
