package command

import (
	"fmt"
	"math"
	"reflect"

	"github.com/zjrosen/orchard/internal/scheme"
)

// AddNode inserts a detached node into a graph.
type AddNode struct {
	BaseCommand
	graph *scheme.Graph
	node  *scheme.Node
	index int
}

// NewAddNode appends node to g.
func NewAddNode(g *scheme.Graph, node *scheme.Node) *AddNode {
	return NewInsertNodeAt(g, node, -1)
}

// NewInsertNodeAt inserts node into g at index. A negative index appends.
func NewInsertNodeAt(g *scheme.Graph, node *scheme.Node, index int) *AddNode {
	return &AddNode{
		BaseCommand: NewBaseCommand(CmdAddNode, "Add "+node.Title()),
		graph:       g,
		node:        node,
		index:       index,
	}
}

// Node returns the node being added.
func (c *AddNode) Node() *scheme.Node { return c.node }

// Validate implements Command.
func (c *AddNode) Validate() error {
	if c.graph == nil || c.node == nil {
		return fmt.Errorf("%w: add node needs a graph and a node", ErrInvalidCommand)
	}
	if c.node.Graph() != nil {
		return fmt.Errorf("%w: node %q", scheme.ErrAlreadyInGraph, c.node.Title())
	}
	return nil
}

// Apply implements Command.
func (c *AddNode) Apply() error {
	c.index = insertIndex(c.index, len(c.graph.Nodes()))
	return c.graph.InsertNode(c.index, c.node)
}

// Undo implements Command.
func (c *AddNode) Undo() error { return c.graph.RemoveNode(c.node) }

// RemoveNode removes a node together with every link touching it, including
// the parent links on a proxy's boundary channel. The links are collected
// when the command first applies, so it composes with earlier link removals
// in the same macro.
type RemoveNode struct {
	BaseCommand
	graph    *scheme.Graph
	node     *scheme.Node
	index    int
	links    []*RemoveLink
	prepared bool
}

// NewRemoveNode removes node from g.
func NewRemoveNode(g *scheme.Graph, node *scheme.Node) *RemoveNode {
	return &RemoveNode{
		BaseCommand: NewBaseCommand(CmdRemoveNode, "Remove "+node.Title()),
		graph:       g,
		node:        node,
		index:       -1,
	}
}

// Node returns the node being removed.
func (c *RemoveNode) Node() *scheme.Node { return c.node }

// Links returns the link removals performed before the node is detached.
// Empty until the command has applied.
func (c *RemoveNode) Links() []*RemoveLink { return append([]*RemoveLink(nil), c.links...) }

// Validate implements Command.
func (c *RemoveNode) Validate() error {
	if c.graph == nil || c.node == nil {
		return fmt.Errorf("%w: remove node needs a graph and a node", ErrInvalidCommand)
	}
	if c.node.Graph() != c.graph {
		return fmt.Errorf("%w: node %q", scheme.ErrNotInGraph, c.node.Title())
	}
	return nil
}

// Apply implements Command.
func (c *RemoveNode) Apply() error {
	if !c.prepared {
		for _, l := range c.graph.TouchingLinks(c.node) {
			c.links = append(c.links, NewRemoveLink(l.Graph(), l))
		}
		c.prepared = true
	}
	for i, rl := range c.links {
		if err := rl.Apply(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.links[j].Undo()
			}
			return err
		}
	}
	c.index = c.graph.NodeIndex(c.node)
	if err := c.graph.RemoveNode(c.node); err != nil {
		for j := len(c.links) - 1; j >= 0; j-- {
			_ = c.links[j].Undo()
		}
		return err
	}
	return nil
}

// Undo implements Command.
func (c *RemoveNode) Undo() error {
	if err := c.graph.InsertNode(c.index, c.node); err != nil {
		return err
	}
	for i := len(c.links) - 1; i >= 0; i-- {
		if err := c.links[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

// NewInsertNode splices node into an existing link: the node is added, the
// link removed, and source -> node and node -> sink links added, as one step.
// in and out name the node channels to use.
func NewInsertNode(g *scheme.Graph, node *scheme.Node, link *scheme.Link, in, out string) (*Macro, error) {
	if link.Graph() != g {
		return nil, fmt.Errorf("%w: link %s", scheme.ErrNotInGraph, link)
	}
	inCh, err := node.InputChannel(in)
	if err != nil {
		return nil, err
	}
	outCh, err := node.OutputChannel(out)
	if err != nil {
		return nil, err
	}
	m := NewMacro("Insert "+node.Title(),
		NewAddNode(g, node),
		NewRemoveLink(g, link),
		NewAddLink(g, scheme.NewLink(link.Source(), link.SourceChannel(), node, inCh)),
		NewAddLink(g, scheme.NewLink(node, outCh, link.Sink(), link.SinkChannel())),
	)
	m.cmdType = CmdInsertNode
	return m, nil
}

// MoveNode changes a node position. The previous position is captured at
// construction.
type MoveNode struct {
	BaseCommand
	node     *scheme.Node
	from, to scheme.Point
}

// NewMoveNode moves node to pos.
func NewMoveNode(node *scheme.Node, pos scheme.Point) *MoveNode {
	return NewMoveNodeFrom(node, node.Position(), pos)
}

// NewMoveNodeFrom records a move whose start position differs from the
// current model position, as after a visual drag.
func NewMoveNodeFrom(node *scheme.Node, from, to scheme.Point) *MoveNode {
	return &MoveNode{BaseCommand: NewBaseCommand(CmdMoveNode, "Move "+node.Title()), node: node, from: from, to: to}
}

// Validate implements Command. The node must still be in a graph and the
// target must be finite.
func (c *MoveNode) Validate() error {
	if c.node.Graph() == nil {
		return fmt.Errorf("%w: node %q", scheme.ErrNotInGraph, c.node.Title())
	}
	for _, v := range []float64{c.to.X, c.to.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: position %v", ErrInvalidCommand, c.to)
		}
	}
	return nil
}

// Apply implements Command.
func (c *MoveNode) Apply() error {
	c.node.SetPosition(c.to)
	return nil
}

// Undo implements Command.
func (c *MoveNode) Undo() error {
	c.node.SetPosition(c.from)
	return nil
}

// RenameNode changes a node title.
type RenameNode struct {
	BaseCommand
	node     *scheme.Node
	old, new string
}

// NewRenameNode renames node to title.
func NewRenameNode(node *scheme.Node, title string) *RenameNode {
	return &RenameNode{
		BaseCommand: NewBaseCommand(CmdRenameNode, fmt.Sprintf("Rename %q", node.Title())),
		node:        node,
		old:         node.Title(),
		new:         title,
	}
}

// Validate implements Command.
func (c *RenameNode) Validate() error {
	if c.new == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidCommand)
	}
	return nil
}

// Apply implements Command.
func (c *RenameNode) Apply() error {
	c.node.SetTitle(c.new)
	return nil
}

// Undo implements Command.
func (c *RenameNode) Undo() error {
	c.node.SetTitle(c.old)
	return nil
}

// SetNodeProperty sets one property. The whole previous value is captured at
// construction; a nil value deletes the key.
type SetNodeProperty struct {
	BaseCommand
	node     *scheme.Node
	key      string
	old, new any
	had      bool
}

// NewSetNodeProperty sets key to value on node.
func NewSetNodeProperty(node *scheme.Node, key string, value any) *SetNodeProperty {
	old, had := node.Property(key)
	return &SetNodeProperty{
		BaseCommand: NewBaseCommand(CmdSetNodeProperty, fmt.Sprintf("Set %s of %q", key, node.Title())),
		node:        node,
		key:         key,
		old:         old,
		new:         value,
		had:         had,
	}
}

// Validate rejects no-op edits.
func (c *SetNodeProperty) Validate() error {
	if c.had && reflect.DeepEqual(c.old, c.new) {
		return fmt.Errorf("%w: %s unchanged", ErrInvalidCommand, c.key)
	}
	return nil
}

// Apply implements Command.
func (c *SetNodeProperty) Apply() error {
	c.node.SetProperty(c.key, c.new)
	return nil
}

// Undo implements Command.
func (c *SetNodeProperty) Undo() error {
	if c.had {
		c.node.SetProperty(c.key, c.old)
	} else {
		c.node.SetProperty(c.key, nil)
	}
	return nil
}
