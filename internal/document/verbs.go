package document

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/orchard/internal/canvas"
	"github.com/zjrosen/orchard/internal/command"
	"github.com/zjrosen/orchard/internal/infrastructure/sqlite"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/tracing"
)

// firstPosition is where the first node of an empty container goes.
var firstPosition = scheme.Point{X: 150, Y: 150}

// AddNode adds a detached node to the current container.
func (c *Controller) AddNode(n *scheme.Node) error {
	return c.run("add_node", func(ctx context.Context) error {
		if err := c.push(ctx, command.NewAddNode(c.Current(), n)); err != nil {
			return err
		}
		c.record(ctx, sqlite.ActionCreated, n)
		return nil
	}, attribute.String(tracing.AttrNodeID, n.ID()))
}

// CreateNewNode instantiates desc in the current container. An empty title
// is replaced by the widget name, numbered to be unique among the document
// titles. A nil pos places the node next to the most recent one.
func (c *Controller) CreateNewNode(desc *registry.WidgetDescription, title string, pos *scheme.Point) (*scheme.Node, error) {
	if title == "" {
		title = c.EnumerateTitle(desc.Name())
	}
	p := c.NextPosition()
	if pos != nil {
		p = *pos
	}
	n := scheme.NewNode(desc, scheme.WithTitle(title), scheme.WithPosition(p))
	err := c.run("create_node", func(ctx context.Context) error {
		if err := c.push(ctx, command.NewAddNode(c.Current(), n)); err != nil {
			return err
		}
		c.record(ctx, sqlite.ActionCreated, n)
		return nil
	}, attribute.String(tracing.AttrWidget, desc.QualifiedName()))
	if err != nil {
		return nil, err
	}
	return n, nil
}

// EnumerateTitle returns name when no node in the document uses it as a
// title, otherwise "name (k)" with the smallest free k >= 1.
func (c *Controller) EnumerateTitle(name string) string {
	used := make(map[string]bool)
	for _, n := range c.scheme.AllNodes() {
		used[n.Title()] = true
	}
	if !used[name] {
		return name
	}
	return uniquify(name, used)
}

func uniquify(name string, used map[string]bool) string {
	for k := 1; ; k++ {
		candidate := name + " (" + strconv.Itoa(k) + ")"
		if !used[candidate] {
			return candidate
		}
	}
}

var copyNumber = regexp.MustCompile(`\s+\(\d+\)\s*$`)

// removeCopyNumber strips a trailing " (k)".
func removeCopyNumber(title string) string {
	return copyNumber.ReplaceAllString(title, "")
}

// NextPosition is one spacing to the right of the most recently added node
// of the current container.
func (c *Controller) NextPosition() scheme.Point {
	nodes := c.Current().Nodes()
	if len(nodes) == 0 {
		return firstPosition
	}
	return nodes[len(nodes)-1].Position().Add(scheme.Point{X: c.spacing})
}

// RemoveNode removes n and the links touching it as one step.
func (c *Controller) RemoveNode(n *scheme.Node) error {
	return c.run("remove_node", func(ctx context.Context) error {
		if err := c.push(ctx, command.NewRemoveNode(n.Graph(), n)); err != nil {
			return err
		}
		c.record(ctx, sqlite.ActionRemoved, n)
		return nil
	}, attribute.String(tracing.AttrNodeID, n.ID()))
}

// RenameNode sets the title of n.
func (c *Controller) RenameNode(n *scheme.Node, title string) error {
	return c.run("rename_node", func(ctx context.Context) error {
		return c.push(ctx, command.NewRenameNode(n, strings.TrimSpace(title)))
	}, attribute.String(tracing.AttrNodeID, n.ID()))
}

// MoveNode moves n to pos.
func (c *Controller) MoveNode(n *scheme.Node, pos scheme.Point) error {
	if n.Position() == pos {
		return nil
	}
	return c.run("move_node", func(ctx context.Context) error {
		return c.push(ctx, command.NewMoveNode(n, pos))
	}, attribute.String(tracing.AttrNodeID, n.ID()))
}

// MoveSelected moves every selected node by delta as one step.
func (c *Controller) MoveSelected(delta scheme.Point) error {
	nodes := c.SelectedNodes()
	if len(nodes) == 0 {
		return ErrNothingSelected
	}
	return c.run("move_selected", func(ctx context.Context) error {
		return c.group("Move", func() error {
			for _, n := range nodes {
				if err := c.push(ctx, command.NewMoveNode(n, n.Position().Add(delta))); err != nil {
					return err
				}
			}
			return nil
		})
	}, attribute.Int(tracing.AttrCount, len(nodes)))
}

// SetNodeProperty sets one node property.
func (c *Controller) SetNodeProperty(n *scheme.Node, key string, value any) error {
	return c.run("set_node_property", func(ctx context.Context) error {
		return c.push(ctx, command.NewSetNodeProperty(n, key, value))
	}, attribute.String(tracing.AttrNodeID, n.ID()))
}

// AddLink adds a detached link to the graph of its source.
func (c *Controller) AddLink(l *scheme.Link) error {
	return c.run("add_link", func(ctx context.Context) error {
		g := l.Source().Graph()
		if g == nil {
			return fmt.Errorf("%w: link source %q", scheme.ErrNotInGraph, l.Source().Title())
		}
		if err := c.push(ctx, command.NewAddLink(g, l)); err != nil {
			return err
		}
		c.record(ctx, sqlite.ActionConnected, l.Sink())
		return nil
	})
}

// Connect links the named channels of source and sink. The names may be
// unique prefixes.
func (c *Controller) Connect(source *scheme.Node, out string, sink *scheme.Node, in string) (*scheme.Link, error) {
	l, err := scheme.ResolveLink(source, out, sink, in)
	if err != nil {
		return nil, err
	}
	if err := c.AddLink(l); err != nil {
		return nil, err
	}
	return l, nil
}

// ConnectNodes links source to sink through the best proposed channel pair.
// An occupied sink channel is freed by removing its link in the same step.
func (c *Controller) ConnectNodes(source, sink *scheme.Node) (*scheme.Link, error) {
	g := source.Graph()
	if g == nil || sink.Graph() != g {
		return nil, fmt.Errorf("%w: nodes are not in one graph", scheme.ErrNotInGraph)
	}
	props := g.ProposeLinks(source, sink)
	if len(props) == 0 {
		return nil, fmt.Errorf("%w: %q -> %q", ErrNoProposal, source.Title(), sink.Title())
	}
	best := props[0]
	l := scheme.NewLink(source, best.Output, sink, best.Input)
	err := c.run("connect_nodes", func(ctx context.Context) error {
		return c.connect(ctx, g, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// connect adds l, replacing the enabled link occupying its sink channel.
func (c *Controller) connect(ctx context.Context, g *scheme.Graph, l *scheme.Link) error {
	old := g.Occupied(l.Sink(), l.SinkChannel())
	if old == nil {
		if err := c.pushGesture(ctx, command.NewAddLink(g, l)); err != nil {
			return err
		}
	} else {
		err := c.group("Replace link", func() error {
			if err := c.pushGesture(ctx, command.NewRemoveLink(g, old)); err != nil {
				return err
			}
			return c.pushGesture(ctx, command.NewAddLink(g, l))
		})
		if err != nil {
			return err
		}
	}
	c.record(ctx, sqlite.ActionConnected, l.Sink())
	return nil
}

// RemoveLink removes l.
func (c *Controller) RemoveLink(l *scheme.Link) error {
	return c.run("remove_link", func(ctx context.Context) error {
		return c.push(ctx, command.NewRemoveLink(l.Graph(), l))
	}, attribute.String(tracing.AttrLinkID, l.ID()))
}

// SetLinkEnabled enables or disables l.
func (c *Controller) SetLinkEnabled(l *scheme.Link, enabled bool) error {
	if l.Enabled() == enabled {
		return nil
	}
	return c.run("set_link_enabled", func(ctx context.Context) error {
		return c.push(ctx, command.NewSetLinkEnabled(l, enabled))
	}, attribute.String(tracing.AttrLinkID, l.ID()))
}

// InsertNode creates a desc node halfway along l and splices it in, using
// the best proposed channels on each side.
func (c *Controller) InsertNode(desc *registry.WidgetDescription, l *scheme.Link) (*scheme.Node, error) {
	g := l.Graph()
	if g == nil {
		return nil, fmt.Errorf("%w: link %s", scheme.ErrNotInGraph, l)
	}
	mid := scheme.Point{
		X: (l.Source().Position().X + l.Sink().Position().X) / 2,
		Y: (l.Source().Position().Y + l.Sink().Position().Y) / 2,
	}
	n := scheme.NewNode(desc, scheme.WithTitle(c.EnumerateTitle(desc.Name())), scheme.WithPosition(mid))

	in := bestInput(c.reg, l.SourceChannel(), n.Inputs())
	out := bestOutput(c.reg, n.Outputs(), l.SinkChannel())
	if in == nil || out == nil {
		return nil, fmt.Errorf("%w: %s cannot be inserted into %s", ErrNoProposal, desc.Name(), l)
	}
	err := c.run("insert_node", func(ctx context.Context) error {
		m, err := command.NewInsertNode(g, n, l, in.Name, out.Name)
		if err != nil {
			return err
		}
		if err := c.push(ctx, m); err != nil {
			return err
		}
		c.record(ctx, sqlite.ActionCreated, n)
		return nil
	}, attribute.String(tracing.AttrWidget, desc.QualifiedName()))
	if err != nil {
		return nil, err
	}
	return n, nil
}

// bestInput picks the first strictly compatible input, else the first
// dynamically compatible one.
func bestInput(types registry.TypeChecker, out *registry.OutputSignal, ins []*registry.InputSignal) *registry.InputSignal {
	var dyn *registry.InputSignal
	for _, in := range ins {
		strict, dynamic := types.Classify(out, in)
		if strict {
			return in
		}
		if dynamic && dyn == nil {
			dyn = in
		}
	}
	return dyn
}

func bestOutput(types registry.TypeChecker, outs []*registry.OutputSignal, in *registry.InputSignal) *registry.OutputSignal {
	var dyn *registry.OutputSignal
	for _, out := range outs {
		strict, dynamic := types.Classify(out, in)
		if strict {
			return out
		}
		if dynamic && dyn == nil {
			dyn = out
		}
	}
	return dyn
}

// AddAnnotation adds a to the current container.
func (c *Controller) AddAnnotation(a scheme.Annotation) error {
	return c.run("add_annotation", func(ctx context.Context) error {
		return c.push(ctx, command.NewAddAnnotation(c.Current(), a))
	})
}

// RemoveAnnotation removes a.
func (c *Controller) RemoveAnnotation(a scheme.Annotation) error {
	return c.run("remove_annotation", func(ctx context.Context) error {
		return c.push(ctx, command.NewRemoveAnnotation(a.Graph(), a))
	})
}

// SetTextContent replaces the text of a.
func (c *Controller) SetTextContent(a *scheme.TextAnnotation, content, contentType string) error {
	return c.run("set_text_content", func(ctx context.Context) error {
		return c.push(ctx, command.NewSetTextContent(a, content, contentType))
	})
}

// SetArrowColor recolors a.
func (c *Controller) SetArrowColor(a *scheme.ArrowAnnotation, color string) error {
	return c.run("set_arrow_color", func(ctx context.Context) error {
		return c.push(ctx, command.NewSetArrowColor(a, color))
	})
}

// RemoveSelected removes the selected links, annotations and nodes of the
// current scene as one step.
func (c *Controller) RemoveSelected() error {
	sc := c.Scene()
	nodes, links, anns := sc.SelectedNodes(), sc.SelectedLinks(), sc.SelectedAnnotations()
	count := len(nodes) + len(links) + len(anns)
	if count == 0 {
		return ErrNothingSelected
	}
	g := c.Current()
	return c.run("remove_selected", func(ctx context.Context) error {
		return c.group("Remove", func() error {
			for _, l := range links {
				if err := c.push(ctx, command.NewRemoveLink(g, l)); err != nil {
					return err
				}
			}
			for _, a := range anns {
				if err := c.push(ctx, command.NewRemoveAnnotation(g, a)); err != nil {
					return err
				}
			}
			for _, n := range nodes {
				if err := c.push(ctx, command.NewRemoveNode(g, n)); err != nil {
					return err
				}
				c.record(ctx, sqlite.ActionRemoved, n)
			}
			return nil
		})
	}, attribute.Int(tracing.AttrCount, count))
}

// SelectAll selects every item of the current scene.
func (c *Controller) SelectAll() { c.Scene().SelectAll() }

// SelectedNodes returns the selected nodes of the current scene.
func (c *Controller) SelectedNodes() []*scheme.Node { return c.Scene().SelectedNodes() }

// selectNodes replaces the selection with nodes.
func (c *Controller) selectNodes(nodes []*scheme.Node) {
	sc := c.Scene()
	sc.ClearSelection()
	for _, n := range nodes {
		if it := sc.NodeItem(n); it != nil {
			sc.Select(it, true)
		}
	}
}

// SetTitle sets the document title.
func (c *Controller) SetTitle(title string) error {
	if c.scheme.Title() == title {
		return nil
	}
	return c.run("set_title", func(ctx context.Context) error {
		return c.push(ctx, command.NewSetTitle(c.scheme, title))
	})
}

// SetDescription sets the document description.
func (c *Controller) SetDescription(description string) error {
	if c.scheme.Description() == description {
		return nil
	}
	return c.run("set_description", func(ctx context.Context) error {
		return c.push(ctx, command.NewSetDescription(c.scheme, description))
	})
}

// SetWindowPresets replaces the window presets.
func (c *Controller) SetWindowPresets(groups []scheme.WindowGroup) error {
	return c.run("set_window_presets", func(ctx context.Context) error {
		return c.push(ctx, command.NewSetWindowPresets(c.scheme, groups))
	}, attribute.Int(tracing.AttrCount, len(groups)))
}

// Undo reverts the last step.
func (c *Controller) Undo() error {
	c.CancelInteraction()
	return c.run("undo", func(context.Context) error { return c.stack.Undo() })
}

// Redo reapplies the last undone step.
func (c *Controller) Redo() error {
	c.CancelInteraction()
	return c.run("redo", func(context.Context) error { return c.stack.Redo() })
}

// CommitNodeMove records a finished node drag. A rejected move is logged
// and reported by the gesture that ended the drag.
func (c *Controller) CommitNodeMove(n *scheme.Node, from, to canvas.Point) {
	err := c.run("drag_node", func(ctx context.Context) error {
		return c.pushGesture(ctx, command.NewMoveNodeFrom(n, from, to))
	}, attribute.String(tracing.AttrNodeID, n.ID()))
	if err != nil {
		c.commitFailed("drag_node", err)
	}
}

// CommitAnnotationMove records a finished annotation drag.
func (c *Controller) CommitAnnotationMove(a scheme.Annotation, offset canvas.Point) {
	from := command.GeometryOf(a)
	to := from
	to.Rect = from.Rect.Translate(offset)
	to.Start, to.End = from.Start.Add(offset), from.End.Add(offset)
	err := c.run("drag_annotation", func(ctx context.Context) error {
		return c.pushGesture(ctx, command.NewSetAnnotationGeometryFrom(a, from, to))
	})
	if err != nil {
		c.commitFailed("drag_annotation", err)
	}
}
