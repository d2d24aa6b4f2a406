package scheme

import (
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/zjrosen/orchard/internal/registry"
)

// Link connects an output channel of one node to an input channel of another.
type Link struct {
	id            string
	source        *Node
	sourceChannel *registry.OutputSignal
	sink          *Node
	sinkChannel   *registry.InputSignal
	enabled       bool
	dynamic       bool
	properties    map[string]any

	graph *Graph
}

// NewLink creates an enabled, detached link between resolved channels.
// Legality is checked when the link is added to a graph.
func NewLink(source *Node, out *registry.OutputSignal, sink *Node, in *registry.InputSignal) *Link {
	return &Link{
		id:            uuid.New().String(),
		source:        source,
		sourceChannel: out,
		sink:          sink,
		sinkChannel:   in,
		enabled:       true,
		properties:    make(map[string]any),
	}
}

// ResolveLink looks up the named channels (exact name or unique prefix) and
// creates a detached link.
func ResolveLink(source *Node, outName string, sink *Node, inName string) (*Link, error) {
	out, err := source.OutputChannel(outName)
	if err != nil {
		return nil, err
	}
	in, err := sink.InputChannel(inName)
	if err != nil {
		return nil, err
	}
	return NewLink(source, out, sink, in), nil
}

// ID returns the link id.
func (l *Link) ID() string { return l.id }

// SetID replaces the id of a detached link. Used when loading documents.
func (l *Link) SetID(id string) {
	if l.graph == nil {
		l.id = id
	}
}

// Source returns the source node.
func (l *Link) Source() *Node { return l.source }

// SourceChannel returns the source output channel.
func (l *Link) SourceChannel() *registry.OutputSignal { return l.sourceChannel }

// Sink returns the sink node.
func (l *Link) Sink() *Node { return l.sink }

// SinkChannel returns the sink input channel.
func (l *Link) SinkChannel() *registry.InputSignal { return l.sinkChannel }

// Graph returns the containing graph, nil when detached.
func (l *Link) Graph() *Graph { return l.graph }

// Enabled reports whether the link carries data.
func (l *Link) Enabled() bool { return l.enabled }

// Dynamic reports whether the link is legal only through a dynamic output.
// It is computed when the link is added to a graph.
func (l *Link) Dynamic() bool { return l.dynamic }

// SetEnabled toggles the link. Enabling an attached link fails with
// ErrSinkOccupied when another enabled link already feeds the sink channel.
func (l *Link) SetEnabled(enabled bool) error {
	if l.enabled == enabled {
		return nil
	}
	if l.graph != nil && enabled {
		if other := l.graph.enabledLinkInto(l.sink, l.sinkChannel); other != nil && other != l {
			return fmt.Errorf("%w: %s", ErrSinkOccupied, l.sinkLabel())
		}
	}
	l.enabled = enabled
	if l.graph != nil {
		l.graph.emit(Event{Kind: LinkChanged, Index: -1, Graph: l.graph, Link: l, Property: PropEnabled})
	}
	return nil
}

// Properties returns a copy of the link property bag.
func (l *Link) Properties() map[string]any { return maps.Clone(l.properties) }

// SetProperties replaces the link property bag.
func (l *Link) SetProperties(props map[string]any) {
	l.properties = maps.Clone(props)
	if l.properties == nil {
		l.properties = make(map[string]any)
	}
}

// SameEndpoints reports whether o connects the same node channels.
func (l *Link) SameEndpoints(o *Link) bool {
	return l.source == o.source && l.sourceChannel == o.sourceChannel &&
		l.sink == o.sink && l.sinkChannel == o.sinkChannel
}

func (l *Link) sinkLabel() string {
	return fmt.Sprintf("%q.%s", l.sink.title, l.sinkChannel.Name)
}

func (l *Link) String() string {
	return fmt.Sprintf("%q.%s -> %q.%s", l.source.title, l.sourceChannel.Name, l.sink.title, l.sinkChannel.Name)
}

// LinkQuery filters links. Nil fields match anything.
type LinkQuery struct {
	Source        *Node
	SourceChannel *registry.OutputSignal
	Sink          *Node
	SinkChannel   *registry.InputSignal
}

// Matches reports whether l satisfies q.
func (q LinkQuery) Matches(l *Link) bool {
	return (q.Source == nil || q.Source == l.source) &&
		(q.SourceChannel == nil || q.SourceChannel == l.sourceChannel) &&
		(q.Sink == nil || q.Sink == l.sink) &&
		(q.SinkChannel == nil || q.SinkChannel == l.sinkChannel)
}
