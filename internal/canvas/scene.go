// Package canvas keeps the graphical presentation of one graph container in
// step with the model. Items are created and destroyed only in response to
// inserted and removed notifications; SetGraph is the one wholesale rebuild.
package canvas

import (
	"slices"

	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/pubsub"
	"github.com/zjrosen/orchard/internal/scheme"
)

// SceneEventKind describes a presentation change.
type SceneEventKind int

const (
	ItemAdded SceneEventKind = iota
	ItemRemoved
	ItemChanged
	SelectionChanged
	TempLinkChanged
	SceneRebuilt
)

// SceneEvent is published after the scene changed.
type SceneEvent struct {
	Kind SceneEventKind
	Item Item // nil for SelectionChanged, TempLinkChanged and SceneRebuilt
}

// GeometryCommitter receives the final geometry of user drags so it can be
// recorded as an undoable command.
type GeometryCommitter interface {
	CommitNodeMove(n *scheme.Node, from, to Point)
	CommitAnnotationMove(a scheme.Annotation, offset Point)
}

// SceneOption configures a Scene.
type SceneOption func(*Scene)

// WithLayout overrides DefaultLayout.
func WithLayout(l Layout) SceneOption {
	return func(s *Scene) { s.layout = l }
}

// WithCommitter sets the receiver of drag results.
func WithCommitter(c GeometryCommitter) SceneOption {
	return func(s *Scene) { s.committer = c }
}

// Scene mirrors one graph: exactly one item per node, link and annotation.
type Scene struct {
	graph       *scheme.Graph
	layout      Layout
	committer   GeometryCommitter
	unsubscribe func()

	nodes       []*NodeItem
	links       []*LinkItem
	annotations []*AnnotationItem
	nodeIndex   map[*scheme.Node]*NodeItem
	linkIndex   map[*scheme.Link]*LinkItem
	annIndex    map[scheme.Annotation]*AnnotationItem

	temp   *TempLink
	events *pubsub.Dispatcher[SceneEvent]
}

// NewScene builds a scene for g and follows its notifications.
func NewScene(g *scheme.Graph, opts ...SceneOption) *Scene {
	s := &Scene{layout: DefaultLayout, events: pubsub.NewDispatcher[SceneEvent]()}
	for _, opt := range opts {
		opt(s)
	}
	s.SetGraph(g)
	return s
}

// Graph returns the presented container.
func (s *Scene) Graph() *scheme.Graph { return s.graph }

// SetCommitter replaces the receiver of drag results.
func (s *Scene) SetCommitter(c GeometryCommitter) { s.committer = c }

// Subscribe registers fn for scene events.
func (s *Scene) Subscribe(fn func(SceneEvent)) (unsubscribe func()) {
	return s.events.Subscribe(fn)
}

// SetGraph discards every item and rebuilds from g.
func (s *Scene) SetGraph(g *scheme.Graph) {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.graph = g
	s.nodes, s.links, s.annotations = nil, nil, nil
	s.nodeIndex = make(map[*scheme.Node]*NodeItem)
	s.linkIndex = make(map[*scheme.Link]*LinkItem)
	s.annIndex = make(map[scheme.Annotation]*AnnotationItem)
	s.temp = nil

	if g != nil {
		for i, n := range g.Nodes() {
			s.addNode(i, n)
		}
		for i, l := range g.Links() {
			s.addLink(i, l)
		}
		for i, a := range g.Annotations() {
			s.addAnnotation(i, a)
		}
		s.unsubscribe = g.Subscribe(s.handle)
	}
	log.Debug(log.CatCanvas, "scene rebuilt", "nodes", len(s.nodes), "links", len(s.links))
	s.events.Publish(SceneEvent{Kind: SceneRebuilt})
}

// Close stops following the graph.
func (s *Scene) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Nodes returns node items in model order.
func (s *Scene) Nodes() []*NodeItem { return append([]*NodeItem(nil), s.nodes...) }

// Links returns link items in model order.
func (s *Scene) Links() []*LinkItem { return append([]*LinkItem(nil), s.links...) }

// Annotations returns annotation items in model order.
func (s *Scene) Annotations() []*AnnotationItem {
	return append([]*AnnotationItem(nil), s.annotations...)
}

// NodeItem returns the item of n, or nil.
func (s *Scene) NodeItem(n *scheme.Node) *NodeItem { return s.nodeIndex[n] }

// LinkItem returns the item of l, or nil.
func (s *Scene) LinkItem(l *scheme.Link) *LinkItem { return s.linkIndex[l] }

// AnnotationItem returns the item of a, or nil.
func (s *Scene) AnnotationItem(a scheme.Annotation) *AnnotationItem { return s.annIndex[a] }

// Items returns every item: annotations, links, then nodes (paint order).
func (s *Scene) Items() []Item {
	out := make([]Item, 0, len(s.nodes)+len(s.links)+len(s.annotations))
	for _, a := range s.annotations {
		out = append(out, a)
	}
	for _, l := range s.links {
		out = append(out, l)
	}
	for _, n := range s.nodes {
		out = append(out, n)
	}
	return out
}

// BoundingRect covers every item.
func (s *Scene) BoundingRect() Rect {
	var r Rect
	for i, it := range s.Items() {
		if i == 0 {
			r = it.Bounds()
			continue
		}
		r = r.Union(it.Bounds())
	}
	return r
}

func (s *Scene) handle(ev scheme.Event) {
	switch ev.Kind {
	case scheme.NodeInserted:
		s.addNode(ev.Index, ev.Node)
	case scheme.NodeRemoved:
		s.removeNode(ev.Node)
	case scheme.LinkInserted:
		s.addLink(ev.Index, ev.Link)
	case scheme.LinkRemoved:
		s.removeLink(ev.Link)
	case scheme.AnnotationInserted:
		s.addAnnotation(ev.Index, ev.Annotation)
	case scheme.AnnotationRemoved:
		s.removeAnnotation(ev.Annotation)
	case scheme.NodeChanged:
		s.nodeChanged(ev)
	case scheme.LinkChanged:
		if it := s.linkIndex[ev.Link]; it != nil {
			s.events.Publish(SceneEvent{Kind: ItemChanged, Item: it})
		}
	case scheme.AnnotationChanged:
		if it := s.annIndex[ev.Annotation]; it != nil {
			it.offset = Point{}
			s.events.Publish(SceneEvent{Kind: ItemChanged, Item: it})
		}
	}
}

func (s *Scene) addNode(index int, n *scheme.Node) {
	it := &NodeItem{node: n, pos: n.Position()}
	it.layout(s.layout)
	s.nodes = insertAt(s.nodes, index, it)
	s.nodeIndex[n] = it
	s.events.Publish(SceneEvent{Kind: ItemAdded, Item: it})
}

func (s *Scene) removeNode(n *scheme.Node) {
	it := s.nodeIndex[n]
	if it == nil {
		return
	}
	for _, l := range s.links {
		if l.source.Node == it || l.sink.Node == it {
			log.Warn(log.CatCanvas, "node removed before its link", "node", n.Title())
		}
	}
	delete(s.nodeIndex, n)
	s.nodes = removeItem(s.nodes, it)
	s.events.Publish(SceneEvent{Kind: ItemRemoved, Item: it})
}

func (s *Scene) addLink(index int, l *scheme.Link) {
	src, sink := s.nodeIndex[l.Source()], s.nodeIndex[l.Sink()]
	if src == nil || sink == nil {
		log.Warn(log.CatCanvas, "link endpoints not in scene", "link", l.String())
		return
	}
	it := &LinkItem{link: l, source: src.OutputAnchor(l.SourceChannel()), sink: sink.InputAnchor(l.SinkChannel())}
	if it.source == nil || it.sink == nil {
		log.Warn(log.CatCanvas, "link anchors missing", "link", l.String())
		return
	}
	it.route()
	s.links = insertAt(s.links, index, it)
	s.linkIndex[l] = it
	s.events.Publish(SceneEvent{Kind: ItemAdded, Item: it})
}

func (s *Scene) removeLink(l *scheme.Link) {
	it := s.linkIndex[l]
	if it == nil {
		return
	}
	delete(s.linkIndex, l)
	s.links = removeItem(s.links, it)
	s.events.Publish(SceneEvent{Kind: ItemRemoved, Item: it})
}

func (s *Scene) addAnnotation(index int, a scheme.Annotation) {
	it := &AnnotationItem{ann: a}
	s.annotations = insertAt(s.annotations, index, it)
	s.annIndex[a] = it
	s.events.Publish(SceneEvent{Kind: ItemAdded, Item: it})
}

func (s *Scene) removeAnnotation(a scheme.Annotation) {
	it := s.annIndex[a]
	if it == nil {
		return
	}
	delete(s.annIndex, a)
	s.annotations = removeItem(s.annotations, it)
	s.events.Publish(SceneEvent{Kind: ItemRemoved, Item: it})
}

func (s *Scene) nodeChanged(ev scheme.Event) {
	it := s.nodeIndex[ev.Node]
	if it == nil {
		return
	}
	switch ev.Property {
	case scheme.PropPosition:
		it.moveTo(ev.Node.Position())
		s.rerouteNode(it)
	case scheme.PropInputs, scheme.PropOutputs:
		it.layout(s.layout)
		s.reanchorNode(it)
	}
	s.events.Publish(SceneEvent{Kind: ItemChanged, Item: it})
}

// rerouteNode recomputes the curves of links attached to it. This is a pure
// presentation update; nothing is pushed.
func (s *Scene) rerouteNode(it *NodeItem) {
	for _, l := range s.links {
		if l.source.Node == it || l.sink.Node == it {
			l.route()
			s.events.Publish(SceneEvent{Kind: ItemChanged, Item: l})
		}
	}
}

// reanchorNode rebinds attached links to the rebuilt anchors.
func (s *Scene) reanchorNode(it *NodeItem) {
	for _, l := range s.links {
		switch {
		case l.source.Node == it:
			if a := it.OutputAnchor(l.link.SourceChannel()); a != nil {
				l.source = a
			}
		case l.sink.Node == it:
			if a := it.InputAnchor(l.link.SinkChannel()); a != nil {
				l.sink = a
			}
		default:
			continue
		}
		l.route()
	}
}

func insertAt[T any](items []T, index int, it T) []T {
	if index < 0 || index > len(items) {
		index = len(items)
	}
	return slices.Insert(items, index, it)
}

func removeItem[T comparable](items []T, it T) []T {
	if i := slices.Index(items, it); i >= 0 {
		return slices.Delete(items, i, i+1)
	}
	return items
}
