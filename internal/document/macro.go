package document

import (
	"context"
	"fmt"
	"math"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/orchard/internal/command"
	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/tracing"
)

// proxyMargin is the horizontal distance between the selection bounds and
// the proxies of a new macro.
const proxyMargin = 200.0

// macroPatch is the plan of a selection to macro conversion.
type macroPatch struct {
	nodes    []*scheme.Node
	internal []*scheme.Link
	in       []*scheme.Link // external source, selected sink
	out      []*scheme.Link // selected source, external sink
}

// planMacro widens the selection with every node lying on a path between two
// selected nodes and classifies the links.
func planMacro(g *scheme.Graph, selected []*scheme.Node) macroPatch {
	set := make(map[*scheme.Node]bool)
	for _, n := range selected {
		if !n.IsProxy() {
			set[n] = true
		}
	}
	down := make(map[*scheme.Node]bool)
	up := make(map[*scheme.Node]bool)
	for n := range set {
		for _, m := range scheme.DownstreamNodes(n) {
			down[m] = true
		}
		for _, m := range scheme.UpstreamNodes(n) {
			up[m] = true
		}
	}
	var p macroPatch
	for _, n := range g.Nodes() {
		if n.IsProxy() {
			continue
		}
		if set[n] || (down[n] && up[n]) {
			set[n] = true
			p.nodes = append(p.nodes, n)
		}
	}
	for _, l := range g.Links() {
		src, sink := set[l.Source()], set[l.Sink()]
		switch {
		case src && sink:
			p.internal = append(p.internal, l)
		case sink:
			p.in = append(p.in, l)
		case src:
			p.out = append(p.out, l)
		}
	}
	return p
}

// endpoint is a node channel seen from one side of the macro boundary.
type endpoint struct {
	node    *scheme.Node
	channel string
}

// CreateMacroFromSelection moves the selected nodes of the current container
// into a new meta node. Links crossing the selection boundary are rerouted
// through Input and Output proxies. The meta node is selected afterwards.
func (c *Controller) CreateMacroFromSelection() (*scheme.Node, error) {
	g := c.Current()
	patch := planMacro(g, c.SelectedNodes())
	if len(patch.nodes) == 0 {
		return nil, ErrNothingSelected
	}

	bounds := positionBounds(patch.nodes)
	meta := scheme.NewMetaNode(c.EnumerateTitle("Macro"), scheme.WithPosition(meanPosition(patch.nodes)))
	sub := meta.SubGraph()

	// One proxy per distinct crossing channel. Names colliding with an
	// earlier proxy are numbered.
	inProxies := make(map[endpoint]*scheme.Node)
	var inOrder []*scheme.Node
	inNames := make(map[string]bool)
	for _, l := range patch.in {
		key := endpoint{l.Sink(), l.SinkChannel().Name}
		if inProxies[key] != nil {
			continue
		}
		sig := l.SinkChannel().Clone()
		sig.Name = uniqueName(sig.Name, inNames)
		proxy := scheme.NewInputNode(sig, scheme.WithPosition(scheme.Point{X: bounds.X - proxyMargin, Y: l.Sink().Position().Y}))
		inProxies[key] = proxy
		inOrder = append(inOrder, proxy)
	}
	outProxies := make(map[endpoint]*scheme.Node)
	var outOrder []*scheme.Node
	outNames := make(map[string]bool)
	for _, l := range patch.out {
		key := endpoint{l.Source(), l.SourceChannel().Name}
		if outProxies[key] != nil {
			continue
		}
		sig := l.SourceChannel().Clone()
		sig.Name = uniqueName(sig.Name, outNames)
		proxy := scheme.NewOutputNode(sig, scheme.WithPosition(scheme.Point{X: bounds.X + bounds.W + proxyMargin, Y: l.Source().Position().Y}))
		outProxies[key] = proxy
		outOrder = append(outOrder, proxy)
	}

	removed := slices.Concat(patch.internal, patch.in, patch.out)
	err := c.run("create_macro", func(ctx context.Context) error {
		return c.group("Create macro node", func() error {
			for _, l := range removed {
				if err := c.push(ctx, command.NewRemoveLink(g, l)); err != nil {
					return err
				}
			}
			for _, n := range patch.nodes {
				if err := c.push(ctx, command.NewRemoveNode(g, n)); err != nil {
					return err
				}
			}
			if err := c.push(ctx, command.NewAddNode(g, meta)); err != nil {
				return err
			}
			for _, n := range slices.Concat(patch.nodes, inOrder, outOrder) {
				if err := c.push(ctx, command.NewAddNode(sub, n)); err != nil {
					return err
				}
			}

			var inner []*scheme.Link
			for _, l := range patch.internal {
				inner = append(inner, relink(l, l.Source(), l.SourceChannel(), l.Sink(), l.SinkChannel()))
			}
			seen := make(map[*scheme.Node]bool)
			for _, l := range patch.in {
				proxy := inProxies[endpoint{l.Sink(), l.SinkChannel().Name}]
				if !seen[proxy] {
					seen[proxy] = true
					inner = append(inner, scheme.NewLink(proxy, proxy.Outputs()[0], l.Sink(), l.SinkChannel()))
				}
			}
			for _, l := range patch.out {
				proxy := outProxies[endpoint{l.Source(), l.SourceChannel().Name}]
				if !seen[proxy] {
					seen[proxy] = true
					inner = append(inner, scheme.NewLink(l.Source(), l.SourceChannel(), proxy, proxy.Inputs()[0]))
				}
			}
			for _, l := range inner {
				if err := c.push(ctx, command.NewAddLink(sub, l)); err != nil {
					return err
				}
			}

			var outer []*scheme.Link
			for _, l := range patch.in {
				proxy := inProxies[endpoint{l.Sink(), l.SinkChannel().Name}]
				outer = append(outer, relink(l, l.Source(), l.SourceChannel(), meta, proxy.BoundaryInput()))
			}
			for _, l := range patch.out {
				proxy := outProxies[endpoint{l.Source(), l.SourceChannel().Name}]
				outer = append(outer, relink(l, meta, proxy.BoundaryOutput(), l.Sink(), l.SinkChannel()))
			}
			for _, l := range outer {
				if err := c.push(ctx, command.NewAddLink(g, l)); err != nil {
					return err
				}
			}
			return nil
		})
	}, attribute.Int(tracing.AttrCount, len(patch.nodes)))
	if err != nil {
		return nil, err
	}
	c.selectNodes([]*scheme.Node{meta})
	return meta, nil
}

// ExpandMacro replaces meta by its content. Links through a proxy are merged
// into direct links, which keep the enabled state of the outer link. Links
// passing straight from an Input to an Output proxy are dropped.
func (c *Controller) ExpandMacro(meta *scheme.Node) error {
	if !meta.IsMeta() {
		return fmt.Errorf("%w: %q", ErrNotAMacro, meta.Title())
	}
	g := meta.Graph()
	if g == nil {
		return fmt.Errorf("%w: node %q", scheme.ErrNotInGraph, meta.Title())
	}
	sub := meta.SubGraph()

	var nodes []*scheme.Node
	for _, n := range sub.Nodes() {
		if !n.IsProxy() {
			nodes = append(nodes, n)
		}
	}
	var merged []*scheme.Link
	for _, outer := range g.FindLinks(scheme.LinkQuery{Sink: meta}) {
		proxy := sub.NodeForInputChannel(outer.SinkChannel())
		if proxy == nil {
			continue
		}
		for _, inner := range sub.FindLinks(scheme.LinkQuery{Source: proxy}) {
			if inner.Sink().IsProxy() {
				continue
			}
			merged = append(merged, relink(outer, outer.Source(), outer.SourceChannel(), inner.Sink(), inner.SinkChannel()))
		}
	}
	for _, l := range sub.Links() {
		if !l.Source().IsProxy() && !l.Sink().IsProxy() {
			merged = append(merged, relink(l, l.Source(), l.SourceChannel(), l.Sink(), l.SinkChannel()))
		}
	}
	for _, outer := range g.FindLinks(scheme.LinkQuery{Source: meta}) {
		proxy := sub.NodeForOutputChannel(outer.SourceChannel())
		if proxy == nil {
			continue
		}
		for _, inner := range sub.FindLinks(scheme.LinkQuery{Sink: proxy}) {
			if inner.Source().IsProxy() {
				continue
			}
			merged = append(merged, relink(outer, inner.Source(), inner.SourceChannel(), outer.Sink(), outer.SinkChannel()))
		}
	}

	return c.run("expand_macro", func(ctx context.Context) error {
		return c.group("Expand macro node", func() error {
			if err := c.push(ctx, command.NewRemoveNode(g, meta)); err != nil {
				return err
			}
			for _, l := range sub.Links() {
				if err := c.push(ctx, command.NewRemoveLink(sub, l)); err != nil {
					return err
				}
			}
			for _, n := range nodes {
				if err := c.push(ctx, command.NewRemoveNode(sub, n)); err != nil {
					return err
				}
				if err := c.push(ctx, command.NewAddNode(g, n)); err != nil {
					return err
				}
			}
			for _, l := range merged {
				if dup := slices.IndexFunc(g.Links(), l.SameEndpoints); dup >= 0 {
					log.Debug(log.CatDocument, "merged link already present", "link", l.String())
					continue
				}
				if err := c.push(ctx, command.NewAddLink(g, l)); err != nil {
					return err
				}
			}
			return nil
		})
	}, attribute.String(tracing.AttrNodeID, meta.ID()), attribute.Int(tracing.AttrCount, len(nodes)))
}

// OpenMetaNode makes the graph of meta the current container. meta must be
// a node of the current container.
func (c *Controller) OpenMetaNode(meta *scheme.Node) error {
	if !meta.IsMeta() {
		return fmt.Errorf("%w: %q", ErrNotAMacro, meta.Title())
	}
	if meta.Graph() != c.Current() {
		return fmt.Errorf("%w: node %q", scheme.ErrNotInGraph, meta.Title())
	}
	c.CancelInteraction()
	c.opened = append(c.opened, meta.SubGraph())
	log.Debug(log.CatDocument, "opened meta node", "title", meta.Title(), "depth", len(c.opened)-1)
	c.events.Publish(Event{Kind: EventContainerChanged, Path: c.path})
	return nil
}

// OpenParent returns to the container holding the current meta node.
func (c *Controller) OpenParent() error {
	if len(c.opened) == 1 {
		return ErrAtRoot
	}
	c.CancelInteraction()
	c.opened = c.opened[:len(c.opened)-1]
	c.events.Publish(Event{Kind: EventContainerChanged, Path: c.path})
	return nil
}

// relink copies the enabled state and properties of l onto a new link.
func relink(l *scheme.Link, src *scheme.Node, out *registry.OutputSignal, sink *scheme.Node, in *registry.InputSignal) *scheme.Link {
	nl := scheme.NewLink(src, out, sink, in)
	_ = nl.SetEnabled(l.Enabled()) // detached links always accept
	nl.SetProperties(l.Properties())
	return nl
}

// uniqueName returns name, or "name (k)" when name is taken, and marks the
// result as used.
func uniqueName(name string, used map[string]bool) string {
	if used[name] {
		name = uniquify(name, used)
	}
	used[name] = true
	return name
}

func meanPosition(nodes []*scheme.Node) scheme.Point {
	var p scheme.Point
	for _, n := range nodes {
		p = p.Add(n.Position())
	}
	k := float64(len(nodes))
	return scheme.Point{X: p.X / k, Y: p.Y / k}
}

func positionBounds(nodes []*scheme.Node) scheme.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		p := n.Position()
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	return scheme.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
