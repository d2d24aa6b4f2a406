package scheme

import (
	"maps"
	"slices"

	"github.com/zjrosen/orchard/internal/pubsub"
	"github.com/zjrosen/orchard/internal/registry"
)

// LoopPolicy controls whether links may close cycles.
type LoopPolicy int

const (
	// AllowLoops rejects only self loops.
	AllowLoops LoopPolicy = iota
	// NoLoops also rejects links that would close a cycle.
	NoLoops
)

// WindowState is the saved state of one node's window.
type WindowState struct {
	Node *Node
	Data []byte
}

// WindowGroup is a named window arrangement preset.
type WindowGroup struct {
	Name    string
	Default bool
	State   []WindowState
}

// Scheme is the workflow document.
type Scheme struct {
	root        *Graph
	title       string
	description string
	presets     []WindowGroup
	env         map[string]any
	loops       LoopPolicy
	types       registry.TypeChecker
	events      *pubsub.Dispatcher[Event]

	// pending holds events published while a delivery is in progress. Every
	// attached graph routes through it so graph and scheme subscribers see
	// the same order.
	pending    []delivery
	delivering bool
}

type delivery struct {
	graph *Graph // nil for scheme-level events
	event Event
}

// Option configures a new Scheme.
type Option func(*Scheme)

// WithTypes sets the type checker used for link validation. Without it only
// identical channel types connect.
func WithTypes(t registry.TypeChecker) Option {
	return func(s *Scheme) { s.types = t }
}

// WithLoopPolicy sets the loop policy.
func WithLoopPolicy(p LoopPolicy) Option {
	return func(s *Scheme) { s.loops = p }
}

// WithSchemeTitle sets the initial title.
func WithSchemeTitle(title string) Option {
	return func(s *Scheme) { s.title = title }
}

// New creates an empty document.
func New(opts ...Option) *Scheme {
	s := &Scheme{
		env:    make(map[string]any),
		events: pubsub.NewDispatcher[Event](),
	}
	s.root = newGraph(nil)
	s.root.scheme = s
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the top-level graph.
func (s *Scheme) Root() *Graph { return s.root }

// Subscribe registers fn for events from every attached graph.
func (s *Scheme) Subscribe(fn func(Event)) (unsubscribe func()) {
	return s.events.Subscribe(fn)
}

// Types returns the type checker, nil when none was configured.
func (s *Scheme) Types() registry.TypeChecker { return s.types }

// LoopPolicy returns the loop policy.
func (s *Scheme) LoopPolicy() LoopPolicy { return s.loops }

// Title returns the document title.
func (s *Scheme) Title() string { return s.title }

// SetTitle changes the document title.
func (s *Scheme) SetTitle(title string) {
	if s.title == title {
		return
	}
	s.title = title
	s.changed(PropTitle)
}

// Description returns the document description.
func (s *Scheme) Description() string { return s.description }

// SetDescription changes the document description.
func (s *Scheme) SetDescription(d string) {
	if s.description == d {
		return
	}
	s.description = d
	s.changed(PropDescription)
}

// WindowPresets returns a copy of the window group presets.
func (s *Scheme) WindowPresets() []WindowGroup {
	out := make([]WindowGroup, len(s.presets))
	for i, g := range s.presets {
		out[i] = WindowGroup{Name: g.Name, Default: g.Default, State: slices.Clone(g.State)}
	}
	return out
}

// SetWindowPresets replaces the window group presets.
func (s *Scheme) SetWindowPresets(groups []WindowGroup) {
	s.presets = make([]WindowGroup, len(groups))
	for i, g := range groups {
		s.presets[i] = WindowGroup{Name: g.Name, Default: g.Default, State: slices.Clone(g.State)}
	}
	s.changed(PropPresets)
}

// Env returns a copy of the runtime environment.
func (s *Scheme) Env() map[string]any { return maps.Clone(s.env) }

// SetEnv sets one runtime environment value; nil deletes it.
func (s *Scheme) SetEnv(key string, value any) {
	if value == nil {
		delete(s.env, key)
	} else {
		s.env[key] = value
	}
	s.changed(PropEnv)
}

func (s *Scheme) changed(prop string) {
	s.deliver(nil, Event{Kind: SchemeChanged, Index: -1, Property: prop})
}

// deliver sends ev to the handlers of g, then to the scheme handlers. An event
// published from any handler is queued behind the current one.
func (s *Scheme) deliver(g *Graph, ev Event) {
	s.pending = append(s.pending, delivery{graph: g, event: ev})
	if s.delivering {
		return
	}

	s.delivering = true
	defer func() {
		s.delivering = false
		s.pending = nil
	}()

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		if next.graph != nil {
			next.graph.events.Publish(next.event)
		}
		s.events.Publish(next.event)
	}
}

// Nodes returns the top-level nodes.
func (s *Scheme) Nodes() []*Node { return s.root.Nodes() }

// Links returns the top-level links.
func (s *Scheme) Links() []*Link { return s.root.Links() }

// Annotations returns the top-level annotations.
func (s *Scheme) Annotations() []Annotation { return s.root.Annotations() }

// AllNodes returns every node of the document, nested ones included.
func (s *Scheme) AllNodes() []*Node { return s.root.AllNodes() }

// AddNode appends n to the root graph.
func (s *Scheme) AddNode(n *Node) error { return s.root.AddNode(n) }

// NewLink creates a link in the root graph.
func (s *Scheme) NewLink(source *Node, outName string, sink *Node, inName string) (*Link, error) {
	return s.root.NewLink(source, outName, sink, inName)
}

// Clear empties the document graph. Metadata is kept.
func (s *Scheme) Clear() { s.root.Clear() }

// FindNode returns the node with the given id anywhere in the document.
func (s *Scheme) FindNode(id string) *Node {
	for _, n := range s.root.AllNodes() {
		if n.id == id {
			return n
		}
	}
	return nil
}
