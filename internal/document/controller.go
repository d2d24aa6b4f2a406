// Package document is the editing controller of a workflow document. It owns
// the scheme, the undo stack and one canvas scene per opened container, and
// exposes the user verbs. Every edit goes through the stack as a command;
// model errors are returned to the caller unchanged.
package document

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/orchard/internal/canvas"
	"github.com/zjrosen/orchard/internal/command"
	"github.com/zjrosen/orchard/internal/infrastructure/sqlite"
	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/pubsub"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/tracing"
)

// Controller errors
var (
	ErrNothingSelected = errors.New("nothing selected")
	ErrNoProposal      = errors.New("no compatible channels")
	ErrNotAMacro       = errors.New("node is not a meta node")
	ErrAtRoot          = errors.New("already at the workflow root")
	ErrNoFragment      = errors.New("clipboard holds no workflow fragment")
	ErrDropRejected    = errors.New("no handler accepts the drop")
	ErrDropCancelled   = errors.New("drop cancelled")
	ErrNoPath          = errors.New("document has no file path")
)

// Defaults for placing new and pasted nodes.
const (
	DefaultNodeSpacing = 150.0
	DefaultOffset      = 20.0
)

// UsageRecorder receives widget usage for the statistics store.
// *sqlite.UsageRepository satisfies it.
type UsageRecorder interface {
	Record(ctx context.Context, e sqlite.UsageEvent) error
}

// EventKind enumerates controller notifications.
type EventKind int

const (
	// EventLoaded follows Load and New documents.
	EventLoaded EventKind = iota
	// EventSaved follows a successful Save.
	EventSaved
	// EventModifiedChanged follows a change of IsModified.
	EventModifiedChanged
	// EventContainerChanged follows OpenMetaNode, OpenParent and resets.
	EventContainerChanged
	// EventHistoryChanged follows every push, undo and redo.
	EventHistoryChanged
)

// Event reports a controller change.
type Event struct {
	Kind     EventKind
	Path     string
	Modified bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClipboard sets the clipboard; the default is an in-memory one.
func WithClipboard(c Clipboard) Option {
	return func(d *Controller) { d.clipboard = c }
}

// WithTracer wraps each verb in a span of t.
func WithTracer(t trace.Tracer) Option {
	return func(d *Controller) { d.tracer = t }
}

// WithUsage records widget usage to u.
func WithUsage(u UsageRecorder) Option {
	return func(d *Controller) { d.usage = u }
}

// WithDropHandlers replaces the drop handler chain.
func WithDropHandlers(handlers ...DropHandler) Option {
	return func(d *Controller) { d.drops = handlers }
}

// WithDisambiguator sets the chooser used when several drop handlers accept.
func WithDisambiguator(fn Disambiguator) Option {
	return func(d *Controller) { d.disambiguate = fn }
}

// WithDuplicateOffset sets the distance between the original of a copy and
// the copy.
func WithDuplicateOffset(offset float64) Option {
	return func(d *Controller) { d.offset = scheme.Point{X: offset, Y: offset} }
}

// WithNodeSpacing sets the horizontal distance between new nodes.
func WithNodeSpacing(spacing float64) Option {
	return func(d *Controller) { d.spacing = spacing }
}

// WithLoopPolicy sets the loop policy of documents created by the controller.
func WithLoopPolicy(p scheme.LoopPolicy) Option {
	return func(d *Controller) { d.loops = p }
}

// WithLayout sets the scene layout.
func WithLayout(l canvas.Layout) Option {
	return func(d *Controller) { d.layout = l }
}

// Controller edits one workflow document.
type Controller struct {
	reg          *registry.Registry
	scheme       *scheme.Scheme
	stack        *command.Stack
	clipboard    Clipboard
	tracer       trace.Tracer
	usage        UsageRecorder
	drops        []DropHandler
	disambiguate Disambiguator
	offset       scheme.Point
	spacing      float64
	loops        scheme.LoopPolicy
	layout       canvas.Layout

	path  string
	saved []byte

	opened      []*scheme.Graph // root first
	scenes      map[*scheme.Graph]*canvas.Scene
	pasteOrigin *scheme.Point
	interaction Interaction
	commitErrs  []error // drag commits rejected since the last takeCommitErrors

	unsubscribe []func()
	events      *pubsub.Dispatcher[Event]
}

// New returns a controller editing an empty document.
func New(reg *registry.Registry, opts ...Option) *Controller {
	c := &Controller{
		reg:     reg,
		stack:   command.NewStack(),
		tracer:  noop.NewTracerProvider().Tracer(tracing.DefaultServiceName),
		offset:  scheme.Point{X: DefaultOffset, Y: DefaultOffset},
		spacing: DefaultNodeSpacing,
		layout:  canvas.DefaultLayout,
		events:  pubsub.NewDispatcher[Event](),
		drops:   DefaultDropHandlers(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clipboard == nil {
		c.clipboard = NewMemoryClipboard()
	}

	wasClean := true
	c.stack.Subscribe(func(ev command.StackEvent) {
		if ev.Kind != command.StackCleanChanged {
			c.events.Publish(Event{Kind: EventHistoryChanged, Path: c.path, Modified: !ev.Clean})
		}
		if ev.Clean != wasClean {
			wasClean = ev.Clean
			c.events.Publish(Event{Kind: EventModifiedChanged, Path: c.path, Modified: !ev.Clean})
		}
	})
	c.SetScheme(c.newScheme(), "")
	return c
}

func (c *Controller) newScheme() *scheme.Scheme {
	return scheme.New(scheme.WithTypes(c.reg), scheme.WithLoopPolicy(c.loops))
}

// Subscribe registers fn for controller events.
func (c *Controller) Subscribe(fn func(Event)) (unsubscribe func()) {
	return c.events.Subscribe(fn)
}

// Registry returns the widget registry.
func (c *Controller) Registry() *registry.Registry { return c.reg }

// Scheme returns the edited document.
func (c *Controller) Scheme() *scheme.Scheme { return c.scheme }

// Stack returns the undo stack.
func (c *Controller) Stack() *command.Stack { return c.stack }

// Path returns the file the document was loaded from or saved to.
func (c *Controller) Path() string { return c.path }

// SetScheme replaces the document. The history is cleared and the new
// document is clean.
func (c *Controller) SetScheme(s *scheme.Scheme, path string) {
	c.CancelInteraction()
	for _, fn := range c.unsubscribe {
		fn()
	}
	for _, sc := range c.scenes {
		sc.Close()
	}

	c.scheme = s
	c.path = path
	c.pasteOrigin = nil
	c.scenes = make(map[*scheme.Graph]*canvas.Scene)
	c.opened = []*scheme.Graph{s.Root()}
	c.unsubscribe = []func(){s.Subscribe(c.schemeChanged)}
	c.saved = c.snapshot()
	c.stack.Clear()
	c.stack.SetClean()
	c.events.Publish(Event{Kind: EventLoaded, Path: path})
}

// Close releases the scenes and subscriptions.
func (c *Controller) Close() {
	for _, fn := range c.unsubscribe {
		fn()
	}
	c.unsubscribe = nil
	for _, sc := range c.scenes {
		sc.Close()
	}
	c.scenes = make(map[*scheme.Graph]*canvas.Scene)
}

// schemeChanged returns to the root when an opened meta node leaves the
// document, as when its creation is undone.
func (c *Controller) schemeChanged(ev scheme.Event) {
	if ev.Kind != scheme.NodeRemoved || !ev.Node.IsMeta() {
		return
	}
	for _, g := range c.opened[1:] {
		if g.Scheme() == nil {
			c.resetToRoot()
			return
		}
	}
}

func (c *Controller) resetToRoot() {
	c.CancelInteraction()
	c.opened = c.opened[:1]
	log.Debug(log.CatDocument, "container reset to root")
	c.events.Publish(Event{Kind: EventContainerChanged, Path: c.path})
}

// Current returns the container being edited: the root, or the graph of the
// innermost opened meta node.
func (c *Controller) Current() *scheme.Graph { return c.opened[len(c.opened)-1] }

// Breadcrumbs returns the titles of the opened meta nodes, outermost first.
func (c *Controller) Breadcrumbs() []string {
	var out []string
	for _, g := range c.opened[1:] {
		out = append(out, g.Owner().Title())
	}
	return out
}

// Scene returns the scene presenting Current. Scenes are created on first
// use and kept while the document is open.
func (c *Controller) Scene() *canvas.Scene { return c.sceneFor(c.Current()) }

func (c *Controller) sceneFor(g *scheme.Graph) *canvas.Scene {
	if sc, ok := c.scenes[g]; ok {
		return sc
	}
	sc := canvas.NewScene(g, canvas.WithLayout(c.layout), canvas.WithCommitter(c))
	c.scenes[g] = sc
	return sc
}

// run wraps a verb in a span.
func (c *Controller) run(verb string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := tracing.StartVerb(context.Background(), c.tracer, verb, attrs...)
	err := fn(ctx)
	if err != nil {
		log.Debug(log.CatDocument, "verb failed", "verb", verb, "error", err)
	}
	return tracing.End(span, err)
}

type sourced interface {
	SetSource(command.CommandSource)
}

// commitFailed records a drag commit the stack rejected. The scene has
// already put the item back; the error is reported by the releasing gesture.
func (c *Controller) commitFailed(verb string, err error) {
	log.Warn(log.CatDocument, "drag not recorded", "verb", verb, "error", err)
	c.commitErrs = append(c.commitErrs, err)
}

// takeCommitErrors returns the rejected commits joined and forgets them.
func (c *Controller) takeCommitErrors() error {
	err := errors.Join(c.commitErrs...)
	c.commitErrs = nil
	return err
}

// pushGesture records cmd as the result of a canvas gesture.
func (c *Controller) pushGesture(ctx context.Context, cmd command.Command) error {
	if s, ok := cmd.(sourced); ok {
		s.SetSource(command.SourceGesture)
	}
	return c.push(ctx, cmd)
}

// push stamps cmd with the span of ctx and records it.
func (c *Controller) push(ctx context.Context, cmd command.Command) error {
	if sc, ok := cmd.(tracing.SpanContextCarrier); ok {
		tracing.Stamp(ctx, sc, cmd.ID(), string(cmd.Type()))
	}
	if err := c.stack.Push(cmd); err != nil {
		trace.SpanFromContext(ctx).AddEvent(tracing.EventRejected)
		return err
	}
	return nil
}

// group records every push made by fn as one undo step named text. When fn
// fails the pushes are reverted.
func (c *Controller) group(text string, fn func() error) error {
	c.stack.BeginMacro(text)
	if err := fn(); err != nil {
		if abortErr := c.stack.AbortMacro(); abortErr != nil {
			log.ErrorErr(log.CatDocument, "abort failed", abortErr, "macro", text)
		}
		return err
	}
	_, err := c.stack.EndMacro()
	return err
}

func (c *Controller) record(ctx context.Context, action string, nodes ...*scheme.Node) {
	if c.usage == nil {
		return
	}
	for _, n := range nodes {
		if n.Kind() != scheme.KindWidget {
			continue
		}
		e := sqlite.UsageEvent{QualifiedName: n.QualifiedName(), Action: action, Document: c.path}
		if err := c.usage.Record(ctx, e); err != nil {
			log.Warn(log.CatDocument, "usage not recorded", "widget", e.QualifiedName, "error", err)
		}
	}
}
