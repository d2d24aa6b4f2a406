package scheme

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/zjrosen/orchard/internal/registry"
)

// Kind is the closed set of node variants.
type Kind int

const (
	// KindWidget is an instance of a registry widget.
	KindWidget Kind = iota
	// KindMeta owns a nested graph.
	KindMeta
	// KindInput exposes one input of the enclosing meta node inside its graph.
	KindInput
	// KindOutput exposes one output of the enclosing meta node inside its graph.
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindWidget:
		return "widget"
	case KindMeta:
		return "meta"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Node is a vertex of the workflow graph.
type Node struct {
	id         string
	kind       Kind
	desc       *registry.WidgetDescription
	title      string
	position   Point
	properties map[string]any

	inputs  []*registry.InputSignal
	outputs []*registry.OutputSignal

	// graph is the containing graph (non-owning).
	graph *Graph
	// sub is the owned nested graph of a meta node.
	sub *Graph
	// boundaryIn or boundaryOut is the meta node channel a proxy stands for.
	boundaryIn  *registry.InputSignal
	boundaryOut *registry.OutputSignal
}

// NodeOption configures a node at construction.
type NodeOption func(*Node)

// WithID sets the node id. Used when loading documents.
func WithID(id string) NodeOption {
	return func(n *Node) { n.id = id }
}

// WithTitle overrides the default title.
func WithTitle(title string) NodeOption {
	return func(n *Node) { n.title = title }
}

// WithPosition sets the initial position.
func WithPosition(p Point) NodeOption {
	return func(n *Node) { n.position = p }
}

// WithProperties merges props over the defaults.
func WithProperties(props map[string]any) NodeOption {
	return func(n *Node) {
		for k, v := range props {
			n.properties[k] = v
		}
	}
}

func newNode(kind Kind, opts []NodeOption) *Node {
	n := &Node{
		id:         uuid.New().String(),
		kind:       kind,
		properties: make(map[string]any),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewNode instantiates a widget description. The channel lists start as
// copies of the description's lists.
func NewNode(desc *registry.WidgetDescription, opts ...NodeOption) *Node {
	n := &Node{
		id:         uuid.New().String(),
		kind:       KindWidget,
		desc:       desc,
		title:      desc.Name(),
		properties: desc.DefaultProperties(),
		inputs:     desc.Inputs(),
		outputs:    desc.Outputs(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewMetaNode creates an empty meta node.
func NewMetaNode(title string, opts ...NodeOption) *Node {
	n := newNode(KindMeta, append([]NodeOption{WithTitle(title)}, opts...))
	n.sub = newGraph(n)
	return n
}

// NewInputNode creates a proxy exposing the meta node input sig inside the
// meta node graph. The proxy has one output of the same name and type.
func NewInputNode(sig *registry.InputSignal, opts ...NodeOption) *Node {
	n := newNode(KindInput, append([]NodeOption{WithTitle(sig.Name)}, opts...))
	n.boundaryIn = sig
	n.outputs = []*registry.OutputSignal{{Name: sig.Name, Type: sig.Type, Flags: sig.Flags}}
	return n
}

// NewOutputNode creates a proxy exposing the meta node output sig inside the
// meta node graph. The proxy has one input of the same name and type.
func NewOutputNode(sig *registry.OutputSignal, opts ...NodeOption) *Node {
	n := newNode(KindOutput, append([]NodeOption{WithTitle(sig.Name)}, opts...))
	n.boundaryOut = sig
	n.inputs = []*registry.InputSignal{{Name: sig.Name, Type: sig.Type, Flags: sig.Flags &^ registry.FlagDynamic}}
	return n
}

// ID returns the node id.
func (n *Node) ID() string { return n.id }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// IsMeta reports whether the node owns a nested graph.
func (n *Node) IsMeta() bool { return n.kind == KindMeta }

// IsProxy reports whether the node is an Input or Output proxy.
func (n *Node) IsProxy() bool { return n.kind == KindInput || n.kind == KindOutput }

// Description returns the widget description, nil for non-widget nodes.
func (n *Node) Description() *registry.WidgetDescription { return n.desc }

// QualifiedName returns the widget qualified name, or "" for non-widget nodes.
func (n *Node) QualifiedName() string {
	if n.desc == nil {
		return ""
	}
	return n.desc.QualifiedName()
}

// Graph returns the containing graph, nil when detached.
func (n *Node) Graph() *Graph { return n.graph }

// SubGraph returns the nested graph of a meta node, nil otherwise.
func (n *Node) SubGraph() *Graph { return n.sub }

// BoundaryInput returns the meta node input an Input proxy stands for.
func (n *Node) BoundaryInput() *registry.InputSignal { return n.boundaryIn }

// BoundaryOutput returns the meta node output an Output proxy stands for.
func (n *Node) BoundaryOutput() *registry.OutputSignal { return n.boundaryOut }

// Title returns the user-visible title.
func (n *Node) Title() string { return n.title }

// SetTitle renames the node.
func (n *Node) SetTitle(title string) {
	if n.title == title {
		return
	}
	n.title = title
	n.changed(PropTitle)
}

// Position returns the scene position.
func (n *Node) Position() Point { return n.position }

// SetPosition moves the node.
func (n *Node) SetPosition(p Point) {
	if n.position == p {
		return
	}
	n.position = p
	n.changed(PropPosition)
}

// Properties returns a copy of the property bag.
func (n *Node) Properties() map[string]any {
	return maps.Clone(n.properties)
}

// Property returns one property value.
func (n *Node) Property(key string) (any, bool) {
	v, ok := n.properties[key]
	return v, ok
}

// SetProperty sets one property. Passing a nil value deletes the key.
func (n *Node) SetProperty(key string, value any) {
	if value == nil {
		delete(n.properties, key)
	} else {
		n.properties[key] = value
	}
	n.changed(PropProperties)
}

// SetProperties replaces the whole property bag.
func (n *Node) SetProperties(props map[string]any) {
	n.properties = maps.Clone(props)
	if n.properties == nil {
		n.properties = make(map[string]any)
	}
	n.changed(PropProperties)
}

// Inputs returns the instance input channels. For a meta node these are the
// channels of its Input proxies, in proxy order.
func (n *Node) Inputs() []*registry.InputSignal {
	if n.kind == KindMeta {
		var out []*registry.InputSignal
		for _, p := range n.sub.nodes {
			if p.kind == KindInput {
				out = append(out, p.boundaryIn)
			}
		}
		return out
	}
	return slices.Clone(n.inputs)
}

// Outputs returns the instance output channels. For a meta node these are
// the channels of its Output proxies, in proxy order.
func (n *Node) Outputs() []*registry.OutputSignal {
	if n.kind == KindMeta {
		var out []*registry.OutputSignal
		for _, p := range n.sub.nodes {
			if p.kind == KindOutput {
				out = append(out, p.boundaryOut)
			}
		}
		return out
	}
	return slices.Clone(n.outputs)
}

// InputChannel resolves an input by exact name or unique prefix.
func (n *Node) InputChannel(name string) (*registry.InputSignal, error) {
	c, err := registry.FindChannel(n.Inputs(), name)
	if err != nil {
		return nil, fmt.Errorf("node %q input: %w", n.title, err)
	}
	return c, nil
}

// OutputChannel resolves an output by exact name or unique prefix.
func (n *Node) OutputChannel(name string) (*registry.OutputSignal, error) {
	c, err := registry.FindChannel(n.Outputs(), name)
	if err != nil {
		return nil, fmt.Errorf("node %q output: %w", n.title, err)
	}
	return c, nil
}

func (n *Node) hasInput(c *registry.InputSignal) bool {
	return slices.Contains(n.Inputs(), c)
}

func (n *Node) hasOutput(c *registry.OutputSignal) bool {
	return slices.Contains(n.Outputs(), c)
}

// InsertInputChannel adds an instance-level input at index.
func (n *Node) InsertInputChannel(index int, c *registry.InputSignal) error {
	if n.kind != KindWidget {
		return fmt.Errorf("%w: %s node", ErrFixedChannels, n.kind)
	}
	if index < 0 || index > len(n.inputs) {
		return fmt.Errorf("%w: input index %d", ErrIndexRange, index)
	}
	for _, existing := range n.inputs {
		if existing.Name == c.Name {
			return fmt.Errorf("%w: %q", registry.ErrDuplicateChannel, c.Name)
		}
	}
	n.inputs = slices.Insert(n.inputs, index, c)
	n.changed(PropInputs)
	return nil
}

// RemoveInputChannel removes an instance-level input. It fails while links use it.
func (n *Node) RemoveInputChannel(c *registry.InputSignal) (int, error) {
	if n.kind != KindWidget {
		return -1, fmt.Errorf("%w: %s node", ErrFixedChannels, n.kind)
	}
	i := slices.Index(n.inputs, c)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrChannelNotFound, c.Name)
	}
	if n.graph != nil && len(n.graph.FindLinks(LinkQuery{Sink: n, SinkChannel: c})) > 0 {
		return -1, fmt.Errorf("%w: %q", ErrChannelInUse, c.Name)
	}
	n.inputs = slices.Delete(n.inputs, i, i+1)
	n.changed(PropInputs)
	return i, nil
}

// InsertOutputChannel adds an instance-level output at index.
func (n *Node) InsertOutputChannel(index int, c *registry.OutputSignal) error {
	if n.kind != KindWidget {
		return fmt.Errorf("%w: %s node", ErrFixedChannels, n.kind)
	}
	if index < 0 || index > len(n.outputs) {
		return fmt.Errorf("%w: output index %d", ErrIndexRange, index)
	}
	for _, existing := range n.outputs {
		if existing.Name == c.Name {
			return fmt.Errorf("%w: %q", registry.ErrDuplicateChannel, c.Name)
		}
	}
	n.outputs = slices.Insert(n.outputs, index, c)
	n.changed(PropOutputs)
	return nil
}

// RemoveOutputChannel removes an instance-level output. It fails while links use it.
func (n *Node) RemoveOutputChannel(c *registry.OutputSignal) (int, error) {
	if n.kind != KindWidget {
		return -1, fmt.Errorf("%w: %s node", ErrFixedChannels, n.kind)
	}
	i := slices.Index(n.outputs, c)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrChannelNotFound, c.Name)
	}
	if n.graph != nil && len(n.graph.FindLinks(LinkQuery{Source: n, SourceChannel: c})) > 0 {
		return -1, fmt.Errorf("%w: %q", ErrChannelInUse, c.Name)
	}
	n.outputs = slices.Delete(n.outputs, i, i+1)
	n.changed(PropOutputs)
	return i, nil
}

func (n *Node) changed(prop string) {
	if n.graph != nil {
		n.graph.emit(Event{Kind: NodeChanged, Index: -1, Graph: n.graph, Node: n, Property: prop})
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%q)", n.kind, n.title)
}
