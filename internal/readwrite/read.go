package readwrite

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
)

// Option configures Read and ReadFragment.
type Option func(*reader)

// WithErrorHandler makes Read skip unknown widgets and illegal links,
// reporting each to fn, instead of failing.
func WithErrorHandler(fn func(error)) Option {
	return func(r *reader) { r.onError = fn }
}

// WithSchemeOptions passes options to scheme.New.
func WithSchemeOptions(opts ...scheme.Option) Option {
	return func(r *reader) { r.schemeOpts = append(r.schemeOpts, opts...) }
}

type reader struct {
	reg        *registry.Registry
	onError    func(error)
	schemeOpts []scheme.Option
	// freshIDs drops stored ids so pasted entities get new identities.
	freshIDs bool
	byID     map[string]*scheme.Node
}

// fail reports err and returns nil when a handler is set, else returns err.
func (r *reader) fail(err error) error {
	if r.onError == nil {
		return err
	}
	log.Warn(log.CatDocument, "skipping document entry", "error", err.Error())
	r.onError(err)
	return nil
}

// Read decodes a workflow document.
func Read(in io.Reader, reg *registry.Registry, opts ...Option) (*scheme.Scheme, error) {
	r := &reader{reg: reg, byID: make(map[string]*scheme.Node)}
	for _, opt := range opts {
		opt(r)
	}

	var doc documentFile
	if err := decode(in, &doc, FormatWorkflow); err != nil {
		return nil, err
	}

	s := scheme.New(append([]scheme.Option{scheme.WithTypes(reg)}, r.schemeOpts...)...)
	s.SetTitle(doc.Title)
	s.SetDescription(doc.Description)
	if err := r.readGraph(s.Root(), doc.Graph); err != nil {
		return nil, err
	}

	var groups []scheme.WindowGroup
	for _, p := range doc.Presets {
		g := scheme.WindowGroup{Name: p.Name, Default: p.Default}
		for _, st := range p.State {
			n, ok := r.byID[st.Node]
			if !ok {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(st.Data)
			if err != nil {
				if err := r.fail(fmt.Errorf("%w: window state of %q: %v", ErrInvalidDocument, st.Node, err)); err != nil {
					return nil, err
				}
				continue
			}
			g.State = append(g.State, scheme.WindowState{Node: n, Data: data})
		}
		groups = append(groups, g)
	}
	if len(groups) > 0 {
		s.SetWindowPresets(groups)
	}
	for k, v := range doc.Env {
		s.SetEnv(k, v)
	}
	return s, nil
}

// Fragment is a decoded selection. Its entities are detached and carry fresh
// ids; Links connect only Nodes of the fragment.
type Fragment struct {
	Nodes       []*scheme.Node
	Links       []*scheme.Link
	Annotations []scheme.Annotation
}

// Empty reports whether the fragment holds nothing.
func (f *Fragment) Empty() bool {
	return len(f.Nodes) == 0 && len(f.Annotations) == 0
}

// ReadFragment decodes a fragment written by WriteFragment.
func ReadFragment(in io.Reader, reg *registry.Registry, opts ...Option) (*Fragment, error) {
	r := &reader{reg: reg, byID: make(map[string]*scheme.Node), freshIDs: true}
	for _, opt := range opts {
		opt(r)
	}

	var doc documentFile
	if err := decode(in, &doc, FormatFragment); err != nil {
		return nil, err
	}

	// Meta content is filled while parked in a scratch scheme carrying the
	// registry types, then detached again.
	scratch := scheme.New(scheme.WithTypes(reg)).Root()
	f := &Fragment{}
	for _, def := range doc.Graph.Nodes {
		n, err := r.readNode(def)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		if n.IsMeta() && def.Graph != nil {
			if err := scratch.AddNode(n); err != nil {
				return nil, err
			}
			if err := r.readGraph(n.SubGraph(), *def.Graph); err != nil {
				return nil, err
			}
			if err := scratch.RemoveNode(n); err != nil {
				return nil, err
			}
		}
		f.Nodes = append(f.Nodes, n)
	}
	for _, def := range doc.Graph.Links {
		l, err := r.readLink(def)
		if err != nil {
			return nil, err
		}
		if l != nil {
			f.Links = append(f.Links, l)
		}
	}
	for _, def := range doc.Graph.Annotations {
		a, err := r.readAnnotation(def)
		if err != nil {
			return nil, err
		}
		if a != nil {
			f.Annotations = append(f.Annotations, a)
		}
	}
	return f, nil
}

func decode(in io.Reader, doc *documentFile, format string) error {
	if err := yaml.NewDecoder(in).Decode(doc); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Format != format {
		return fmt.Errorf("%w: format %q, want %q", ErrInvalidDocument, doc.Format, format)
	}
	if major, _, _ := strings.Cut(doc.Version, "."); major != "1" {
		return fmt.Errorf("%w: %q", ErrUnsupported, doc.Version)
	}
	return nil
}

func (r *reader) readGraph(g *scheme.Graph, def graphDef) error {
	for _, nd := range def.Nodes {
		n, err := r.readNode(nd)
		if err != nil {
			return err
		}
		if n == nil {
			continue
		}
		if err := g.AddNode(n); err != nil {
			if err := r.fail(fmt.Errorf("node %q: %w", nd.ID, err)); err != nil {
				return err
			}
			delete(r.byID, nd.ID)
			continue
		}
		// Meta content is read once attached so links see the document types.
		if n.IsMeta() && nd.Graph != nil {
			if err := r.readGraph(n.SubGraph(), *nd.Graph); err != nil {
				return err
			}
		}
	}
	for _, ld := range def.Links {
		l, err := r.readLink(ld)
		if err != nil {
			return err
		}
		if l == nil {
			continue
		}
		if err := g.AddLink(l); err != nil {
			if err := r.fail(fmt.Errorf("link %q: %w", ld.ID, err)); err != nil {
				return err
			}
		}
	}
	for _, ad := range def.Annotations {
		a, err := r.readAnnotation(ad)
		if err != nil {
			return err
		}
		if a == nil {
			continue
		}
		if err := g.AddAnnotation(a); err != nil {
			return err
		}
	}
	return nil
}

// readNode builds a detached node, or returns nil when a handler skipped it.
func (r *reader) readNode(def nodeDef) (*scheme.Node, error) {
	opts := []scheme.NodeOption{
		scheme.WithTitle(def.Title),
		scheme.WithPosition(scheme.Point{X: def.Position[0], Y: def.Position[1]}),
	}
	if !r.freshIDs && def.ID != "" {
		opts = append(opts, scheme.WithID(def.ID))
	}

	var n *scheme.Node
	switch def.Kind {
	case "", kindWidget:
		desc, err := r.reg.Widget(def.Widget)
		if err != nil {
			return nil, r.fail(fmt.Errorf("%w: %q (node %q)", ErrUnknownWidget, def.Widget, def.Title))
		}
		n = scheme.NewNode(desc, opts...)
		if err := r.applyChannels(n, def); err != nil {
			return nil, err
		}
	case kindMeta:
		n = scheme.NewMetaNode(def.Title, opts...)
	case kindInput, kindOutput:
		if def.Channel == nil {
			return nil, fmt.Errorf("%w: proxy %q has no channel", ErrInvalidDocument, def.ID)
		}
		flags, err := registry.ParseFlags(def.Channel.Flags)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		if def.Kind == kindInput {
			n = scheme.NewInputNode(&registry.InputSignal{Name: def.Channel.Name, Type: def.Channel.Type, Handler: def.Channel.Handler, Flags: flags}, opts...)
		} else {
			n = scheme.NewOutputNode(&registry.OutputSignal{Name: def.Channel.Name, Type: def.Channel.Type, Flags: flags}, opts...)
		}
	default:
		return nil, fmt.Errorf("%w: node kind %q", ErrInvalidDocument, def.Kind)
	}

	if def.Properties != nil {
		n.SetProperties(def.Properties)
	}
	r.byID[def.ID] = n
	return n, nil
}

// applyChannels makes the instance channels match the stored lists.
func (r *reader) applyChannels(n *scheme.Node, def nodeDef) error {
	if def.Inputs == nil && def.Outputs == nil {
		return nil
	}
	want := make(map[string]bool)
	for _, c := range def.Inputs {
		want[c.Name] = true
	}
	for _, c := range n.Inputs() {
		if !want[c.Name] {
			if _, err := n.RemoveInputChannel(c); err != nil {
				return err
			}
		}
	}
	for i, c := range def.Inputs {
		if _, err := n.InputChannel(c.Name); err == nil {
			continue
		}
		flags, err := registry.ParseFlags(c.Flags)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		if err := n.InsertInputChannel(min(i, len(n.Inputs())), &registry.InputSignal{Name: c.Name, Type: c.Type, Handler: c.Handler, Flags: flags}); err != nil {
			return err
		}
	}

	want = make(map[string]bool)
	for _, c := range def.Outputs {
		want[c.Name] = true
	}
	for _, c := range n.Outputs() {
		if !want[c.Name] {
			if _, err := n.RemoveOutputChannel(c); err != nil {
				return err
			}
		}
	}
	for i, c := range def.Outputs {
		if _, err := n.OutputChannel(c.Name); err == nil {
			continue
		}
		flags, err := registry.ParseFlags(c.Flags)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		if err := n.InsertOutputChannel(min(i, len(n.Outputs())), &registry.OutputSignal{Name: c.Name, Type: c.Type, Flags: flags}); err != nil {
			return err
		}
	}
	return nil
}

// readLink builds a detached link between already read nodes.
func (r *reader) readLink(def linkDef) (*scheme.Link, error) {
	src, ok := r.byID[def.Source]
	if !ok {
		return nil, r.fail(fmt.Errorf("%w: source %q of link %q", ErrUnknownNode, def.Source, def.ID))
	}
	sink, ok := r.byID[def.Sink]
	if !ok {
		return nil, r.fail(fmt.Errorf("%w: sink %q of link %q", ErrUnknownNode, def.Sink, def.ID))
	}
	out, err := findOutput(src, def.SourceChannel)
	if err != nil {
		return nil, r.fail(err)
	}
	in, err := findInput(sink, def.SinkChannel)
	if err != nil {
		return nil, r.fail(err)
	}

	l := scheme.NewLink(src, out, sink, in)
	if !r.freshIDs && def.ID != "" {
		l.SetID(def.ID)
	}
	if def.Enabled != nil && !*def.Enabled {
		_ = l.SetEnabled(false)
	}
	if def.Properties != nil {
		l.SetProperties(def.Properties)
	}
	return l, nil
}

// Stored channel names are matched exactly.
func findOutput(n *scheme.Node, name string) (*registry.OutputSignal, error) {
	for _, c := range n.Outputs() {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q has no output %q", registry.ErrChannelNotFound, n.Title(), name)
}

func findInput(n *scheme.Node, name string) (*registry.InputSignal, error) {
	for _, c := range n.Inputs() {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q has no input %q", registry.ErrChannelNotFound, n.Title(), name)
}

func (r *reader) readAnnotation(def annotationDef) (scheme.Annotation, error) {
	var a scheme.Annotation
	switch def.Type {
	case "text":
		if def.Rect == nil {
			return nil, fmt.Errorf("%w: text annotation %q has no rect", ErrInvalidDocument, def.ID)
		}
		t := scheme.NewTextAnnotation(scheme.Rect{X: def.Rect[0], Y: def.Rect[1], W: def.Rect[2], H: def.Rect[3]}, def.Content)
		if def.ContentType != "" {
			t.SetContent(def.Content, def.ContentType)
		}
		if def.Font != nil {
			t.SetFont(scheme.Font{Family: def.Font.Family, Size: def.Font.Size})
		}
		a = t
	case "arrow":
		if def.Start == nil || def.End == nil {
			return nil, fmt.Errorf("%w: arrow annotation %q needs start and end", ErrInvalidDocument, def.ID)
		}
		a = scheme.NewArrowAnnotation(scheme.Point{X: def.Start[0], Y: def.Start[1]}, scheme.Point{X: def.End[0], Y: def.End[1]}, def.Color)
	default:
		log.Warn(log.CatDocument, "ignoring unknown annotation type", "type", def.Type)
		return nil, nil
	}
	if !r.freshIDs && def.ID != "" {
		scheme.SetAnnotationID(a, def.ID)
	}
	return a, nil
}
