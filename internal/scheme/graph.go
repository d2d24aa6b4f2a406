package scheme

import (
	"fmt"
	"slices"

	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/pubsub"
	"github.com/zjrosen/orchard/internal/registry"
)

// Graph is one container of nodes, links and annotations: the scheme root or
// the content of a meta node.
type Graph struct {
	owner       *Node   // meta node owning this graph, nil for the root
	scheme      *Scheme // set on the root graph only
	nodes       []*Node
	links       []*Link
	annotations []Annotation
	events      *pubsub.Dispatcher[Event]
}

func newGraph(owner *Node) *Graph {
	return &Graph{owner: owner, events: pubsub.NewDispatcher[Event]()}
}

// Owner returns the meta node owning the graph, nil for the root graph.
func (g *Graph) Owner() *Node { return g.owner }

// Parent returns the graph containing the owner meta node.
func (g *Graph) Parent() *Graph {
	if g.owner == nil {
		return nil
	}
	return g.owner.graph
}

// Scheme returns the document the graph is attached to, or nil when the graph
// belongs to a detached meta node.
func (g *Graph) Scheme() *Scheme {
	for cur := g; cur != nil; cur = cur.Parent() {
		if cur.scheme != nil {
			return cur.scheme
		}
		if cur.owner == nil {
			return nil
		}
	}
	return nil
}

// Subscribe registers fn for events of this graph only.
func (g *Graph) Subscribe(fn func(Event)) (unsubscribe func()) {
	return g.events.Subscribe(fn)
}

func (g *Graph) emit(ev Event) {
	log.Debug(log.CatScheme, ev.Kind.String(), "index", ev.Index, "property", ev.Property)
	if s := g.Scheme(); s != nil {
		s.deliver(g, ev)
		return
	}
	g.events.Publish(ev)
}

func (g *Graph) types() registry.TypeChecker {
	if s := g.Scheme(); s != nil && s.types != nil {
		return s.types
	}
	return (*registry.TypeSystem)(nil)
}

func (g *Graph) loopPolicy() LoopPolicy {
	if s := g.Scheme(); s != nil {
		return s.loops
	}
	return AllowLoops
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Links returns the links in insertion order.
func (g *Graph) Links() []*Link { return slices.Clone(g.links) }

// Annotations returns the annotations in insertion order.
func (g *Graph) Annotations() []Annotation { return slices.Clone(g.annotations) }

// NodeIndex returns the position of n, or -1.
func (g *Graph) NodeIndex(n *Node) int { return slices.Index(g.nodes, n) }

// LinkIndex returns the position of l, or -1.
func (g *Graph) LinkIndex(l *Link) int { return slices.Index(g.links, l) }

// AnnotationIndex returns the position of a, or -1.
func (g *Graph) AnnotationIndex(a Annotation) int { return slices.Index(g.annotations, a) }

// AddNode appends n.
func (g *Graph) AddNode(n *Node) error {
	return g.InsertNode(len(g.nodes), n)
}

// InsertNode inserts n at index. Proxy nodes may only be inserted into a meta
// node graph; they add the corresponding channel to the owner.
func (g *Graph) InsertNode(index int, n *Node) error {
	if n.graph != nil {
		return fmt.Errorf("%w: node %q", ErrAlreadyInGraph, n.title)
	}
	if index < 0 || index > len(g.nodes) {
		return fmt.Errorf("%w: node index %d", ErrIndexRange, index)
	}
	if n == g.owner || (n.sub != nil && n.sub.isAncestorOf(g)) {
		return fmt.Errorf("%w: meta node cannot contain itself", ErrTopology)
	}
	if n.IsProxy() {
		if g.owner == nil {
			return fmt.Errorf("%w: proxy %q outside a meta node", ErrNotMeta, n.title)
		}
		if err := g.checkBoundaryName(n); err != nil {
			return err
		}
	}

	g.nodes = slices.Insert(g.nodes, index, n)
	n.graph = g
	g.emit(Event{Kind: NodeInserted, Index: index, Graph: g, Node: n})
	g.ownerChannelsChanged(n)
	return nil
}

func (g *Graph) isAncestorOf(other *Graph) bool {
	for cur := other; cur != nil; cur = cur.Parent() {
		if cur == g {
			return true
		}
	}
	return false
}

func (g *Graph) checkBoundaryName(proxy *Node) error {
	switch proxy.kind {
	case KindInput:
		for _, c := range g.owner.Inputs() {
			if c.Name == proxy.boundaryIn.Name {
				return fmt.Errorf("%w: meta input %q", registry.ErrDuplicateChannel, c.Name)
			}
		}
	case KindOutput:
		for _, c := range g.owner.Outputs() {
			if c.Name == proxy.boundaryOut.Name {
				return fmt.Errorf("%w: meta output %q", registry.ErrDuplicateChannel, c.Name)
			}
		}
	}
	return nil
}

func (g *Graph) ownerChannelsChanged(proxy *Node) {
	switch proxy.kind {
	case KindInput:
		g.owner.changed(PropInputs)
	case KindOutput:
		g.owner.changed(PropOutputs)
	}
}

// boundaryLinks returns the links in the parent graph attached to the meta
// node channel a proxy stands for.
func (g *Graph) boundaryLinks(proxy *Node) []*Link {
	parent := g.Parent()
	if parent == nil {
		return nil
	}
	switch proxy.kind {
	case KindInput:
		return parent.FindLinks(LinkQuery{Sink: g.owner, SinkChannel: proxy.boundaryIn})
	case KindOutput:
		return parent.FindLinks(LinkQuery{Source: g.owner, SourceChannel: proxy.boundaryOut})
	}
	return nil
}

// TouchingLinks returns the links that must go before n can be removed:
// outgoing links, then incoming links, then parent links on a proxy's
// boundary channel.
func (g *Graph) TouchingLinks(n *Node) []*Link {
	links := g.FindLinks(LinkQuery{Source: n})
	links = append(links, g.FindLinks(LinkQuery{Sink: n})...)
	if n.IsProxy() && n.graph == g {
		links = append(links, g.boundaryLinks(n)...)
	}
	return links
}

// RemoveNode detaches n. It fails with ErrNodeHasLinks while any link
// returned by TouchingLinks remains.
func (g *Graph) RemoveNode(n *Node) error {
	index := g.NodeIndex(n)
	if index < 0 {
		return fmt.Errorf("%w: node %q", ErrNotInGraph, n.title)
	}
	if links := g.TouchingLinks(n); len(links) > 0 {
		return fmt.Errorf("%w: %q has %d", ErrNodeHasLinks, n.title, len(links))
	}

	g.nodes = slices.Delete(g.nodes, index, index+1)
	n.graph = nil
	g.emit(Event{Kind: NodeRemoved, Index: index, Graph: g, Node: n})
	g.ownerChannelsChanged(n)
	return nil
}

// RemoveNodeCascade removes every link touching n, one notification each,
// and then n. It returns the removed links in removal order.
func (g *Graph) RemoveNodeCascade(n *Node) ([]*Link, error) {
	if g.NodeIndex(n) < 0 {
		return nil, fmt.Errorf("%w: node %q", ErrNotInGraph, n.title)
	}
	links := g.TouchingLinks(n)
	for _, l := range links {
		if err := l.graph.RemoveLink(l); err != nil {
			return nil, err
		}
	}
	if err := g.RemoveNode(n); err != nil {
		return nil, err
	}
	return links, nil
}

// AddLink validates and appends l.
func (g *Graph) AddLink(l *Link) error {
	return g.InsertLink(len(g.links), l)
}

// InsertLink validates l (see CheckConnect) and inserts it at index.
func (g *Graph) InsertLink(index int, l *Link) error {
	if l.graph != nil {
		return fmt.Errorf("%w: link %s", ErrAlreadyInGraph, l)
	}
	if index < 0 || index > len(g.links) {
		return fmt.Errorf("%w: link index %d", ErrIndexRange, index)
	}
	dynamic, err := g.checkConnect(l)
	if err != nil {
		return err
	}

	g.links = slices.Insert(g.links, index, l)
	l.graph = g
	l.dynamic = dynamic
	g.emit(Event{Kind: LinkInserted, Index: index, Graph: g, Link: l})
	return nil
}

// NewLink resolves the named channels, validates and appends a new enabled
// link. Validation order: self loop (and cycles under NoLoops), channel
// lookup, type compatibility, duplicates, sink occupancy.
func (g *Graph) NewLink(source *Node, outName string, sink *Node, inName string) (*Link, error) {
	if err := g.checkEndpoints(source, sink); err != nil {
		return nil, err
	}
	if err := g.checkTopology(source, sink); err != nil {
		return nil, err
	}
	l, err := ResolveLink(source, outName, sink, inName)
	if err != nil {
		return nil, err
	}
	if err := g.AddLink(l); err != nil {
		return nil, err
	}
	return l, nil
}

// RemoveLink detaches l.
func (g *Graph) RemoveLink(l *Link) error {
	index := g.LinkIndex(l)
	if index < 0 {
		return fmt.Errorf("%w: link %s", ErrNotInGraph, l)
	}
	g.links = slices.Delete(g.links, index, index+1)
	l.graph = nil
	g.emit(Event{Kind: LinkRemoved, Index: index, Graph: g, Link: l})
	return nil
}

// CanConnect reports whether l could be added.
func (g *Graph) CanConnect(l *Link) bool {
	return g.CheckConnect(l) == nil
}

// CheckConnect returns the error AddLink would fail with, or nil.
func (g *Graph) CheckConnect(l *Link) error {
	if l.graph != nil {
		return fmt.Errorf("%w: link %s", ErrAlreadyInGraph, l)
	}
	_, err := g.checkConnect(l)
	return err
}

func (g *Graph) checkEndpoints(source, sink *Node) error {
	if source.graph != g {
		return fmt.Errorf("%w: source %q", ErrNotInGraph, source.title)
	}
	if sink.graph != g {
		return fmt.Errorf("%w: sink %q", ErrNotInGraph, sink.title)
	}
	return nil
}

func (g *Graph) checkTopology(source, sink *Node) error {
	if source == sink {
		return fmt.Errorf("%w: self loop on %q", ErrTopology, source.title)
	}
	if g.loopPolicy() == NoLoops {
		if slices.Contains(DownstreamNodes(sink), source) {
			return fmt.Errorf("%w: link %q -> %q closes a cycle", ErrTopology, source.title, sink.title)
		}
	}
	return nil
}

func (g *Graph) checkConnect(l *Link) (dynamic bool, err error) {
	if err := g.checkEndpoints(l.source, l.sink); err != nil {
		return false, err
	}
	if err := g.checkTopology(l.source, l.sink); err != nil {
		return false, err
	}
	if !l.source.hasOutput(l.sourceChannel) {
		return false, fmt.Errorf("%w: %q has no output %q", ErrChannelNotFound, l.source.title, l.sourceChannel.Name)
	}
	if !l.sink.hasInput(l.sinkChannel) {
		return false, fmt.Errorf("%w: %q has no input %q", ErrChannelNotFound, l.sink.title, l.sinkChannel.Name)
	}

	strict, dyn := g.types().Classify(l.sourceChannel, l.sinkChannel)
	if !strict && !dyn {
		return false, fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrIncompatibleType,
			l.sourceChannel.Name, l.sourceChannel.Type, l.sinkChannel.Name, l.sinkChannel.Type)
	}

	for _, existing := range g.links {
		if existing.SameEndpoints(l) {
			return false, fmt.Errorf("%w: %s", ErrDuplicatedLink, l)
		}
	}

	if l.enabled {
		if g.enabledLinkInto(l.sink, l.sinkChannel) != nil {
			return false, fmt.Errorf("%w: %s", ErrSinkOccupied, l.sinkLabel())
		}
	}
	return !strict && dyn, nil
}

func (g *Graph) enabledLinkInto(sink *Node, ch *registry.InputSignal) *Link {
	for _, l := range g.links {
		if l.enabled && l.sink == sink && l.sinkChannel == ch {
			return l
		}
	}
	return nil
}

// FindLinks returns links matching q in insertion order.
func (g *Graph) FindLinks(q LinkQuery) []*Link {
	var out []*Link
	for _, l := range g.links {
		if q.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// InputLinks returns links into n.
func (g *Graph) InputLinks(n *Node) []*Link { return g.FindLinks(LinkQuery{Sink: n}) }

// OutputLinks returns links out of n.
func (g *Graph) OutputLinks(n *Node) []*Link { return g.FindLinks(LinkQuery{Source: n}) }

// AddAnnotation appends a.
func (g *Graph) AddAnnotation(a Annotation) error {
	return g.InsertAnnotation(len(g.annotations), a)
}

// InsertAnnotation inserts a at index.
func (g *Graph) InsertAnnotation(index int, a Annotation) error {
	b := a.base()
	if b.graph != nil {
		return fmt.Errorf("%w: annotation %s", ErrAlreadyInGraph, b.id)
	}
	if index < 0 || index > len(g.annotations) {
		return fmt.Errorf("%w: annotation index %d", ErrIndexRange, index)
	}
	g.annotations = slices.Insert(g.annotations, index, a)
	b.graph = g
	g.emit(Event{Kind: AnnotationInserted, Index: index, Graph: g, Annotation: a})
	return nil
}

// RemoveAnnotation detaches a.
func (g *Graph) RemoveAnnotation(a Annotation) error {
	index := g.AnnotationIndex(a)
	if index < 0 {
		return fmt.Errorf("%w: annotation %s", ErrNotInGraph, a.ID())
	}
	g.annotations = slices.Delete(g.annotations, index, index+1)
	a.base().graph = nil
	g.emit(Event{Kind: AnnotationRemoved, Index: index, Graph: g, Annotation: a})
	return nil
}

// Clear removes everything. Terminal nodes (no outgoing links) go first, so
// links are always removed before their endpoint nodes; meta node contents
// are cleared before the meta node itself; annotations go last.
func (g *Graph) Clear() {
	for len(g.nodes) > 0 {
		terminal := g.terminalNodes()
		if len(terminal) == 0 {
			// Only cycles remain.
			terminal = []*Node{g.nodes[len(g.nodes)-1]}
		}
		for _, n := range terminal {
			if n.sub != nil {
				n.sub.Clear()
			}
			if _, err := g.RemoveNodeCascade(n); err != nil {
				log.ErrorErr(log.CatScheme, "clear: remove node", err, "node", n.title)
				return
			}
		}
	}
	for i := len(g.annotations) - 1; i >= 0; i-- {
		_ = g.RemoveAnnotation(g.annotations[i])
	}
}

func (g *Graph) terminalNodes() []*Node {
	var out []*Node
	for i := len(g.nodes) - 1; i >= 0; i-- {
		n := g.nodes[i]
		if len(g.OutputLinks(n)) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// AllNodes returns the nodes of g and, recursively, of every meta node
// graph, depth first in insertion order.
func (g *Graph) AllNodes() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		out = append(out, n)
		if n.sub != nil {
			out = append(out, n.sub.AllNodes()...)
		}
	}
	return out
}

// AllLinks returns the links of g and of every nested graph.
func (g *Graph) AllLinks() []*Link {
	out := slices.Clone(g.links)
	for _, n := range g.nodes {
		if n.sub != nil {
			out = append(out, n.sub.AllLinks()...)
		}
	}
	return out
}

// UpstreamNodes returns every node n transitively depends on.
func (g *Graph) UpstreamNodes(n *Node) []*Node { return UpstreamNodes(n) }

// DownstreamNodes returns every node transitively depending on n.
func (g *Graph) DownstreamNodes(n *Node) []*Node { return DownstreamNodes(n) }

// CreateInputNode creates an Input proxy for sig and adds it to the meta
// node graph g.
func (g *Graph) CreateInputNode(sig *registry.InputSignal, opts ...NodeOption) (*Node, error) {
	if g.owner == nil {
		return nil, ErrNotMeta
	}
	n := NewInputNode(sig, opts...)
	if err := g.AddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateOutputNode creates an Output proxy for sig and adds it to the meta
// node graph g.
func (g *Graph) CreateOutputNode(sig *registry.OutputSignal, opts ...NodeOption) (*Node, error) {
	if g.owner == nil {
		return nil, ErrNotMeta
	}
	n := NewOutputNode(sig, opts...)
	if err := g.AddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

// InputNodes returns the Input proxies of the graph.
func (g *Graph) InputNodes() []*Node { return g.nodesOfKind(KindInput) }

// OutputNodes returns the Output proxies of the graph.
func (g *Graph) OutputNodes() []*Node { return g.nodesOfKind(KindOutput) }

func (g *Graph) nodesOfKind(k Kind) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.kind == k {
			out = append(out, n)
		}
	}
	return out
}

// NodeForInputChannel returns the Input proxy standing for the owner's input c.
func (g *Graph) NodeForInputChannel(c *registry.InputSignal) *Node {
	for _, n := range g.nodes {
		if n.kind == KindInput && n.boundaryIn == c {
			return n
		}
	}
	return nil
}

// NodeForOutputChannel returns the Output proxy standing for the owner's output c.
func (g *Graph) NodeForOutputChannel(c *registry.OutputSignal) *Node {
	for _, n := range g.nodes {
		if n.kind == KindOutput && n.boundaryOut == c {
			return n
		}
	}
	return nil
}
