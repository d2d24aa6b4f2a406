package command

import (
	"fmt"

	"github.com/zjrosen/orchard/internal/scheme"
)

// AddLink inserts a detached link into a graph.
type AddLink struct {
	BaseCommand
	graph *scheme.Graph
	link  *scheme.Link
	index int
}

// NewAddLink appends link to g.
func NewAddLink(g *scheme.Graph, link *scheme.Link) *AddLink {
	return &AddLink{
		BaseCommand: NewBaseCommand(CmdAddLink, "Add link"),
		graph:       g,
		link:        link,
		index:       -1,
	}
}

// Link returns the link being added.
func (c *AddLink) Link() *scheme.Link { return c.link }

// Validate runs the graph legality checks.
func (c *AddLink) Validate() error {
	if c.graph == nil || c.link == nil {
		return fmt.Errorf("%w: add link needs a graph and a link", ErrInvalidCommand)
	}
	return c.graph.CheckConnect(c.link)
}

// Apply implements Command.
func (c *AddLink) Apply() error {
	c.index = insertIndex(c.index, len(c.graph.Links()))
	return c.graph.InsertLink(c.index, c.link)
}

// Undo implements Command.
func (c *AddLink) Undo() error { return c.graph.RemoveLink(c.link) }

// RemoveLink detaches a link; undo restores it at its previous index.
type RemoveLink struct {
	BaseCommand
	graph *scheme.Graph
	link  *scheme.Link
	index int
}

// NewRemoveLink removes link from g.
func NewRemoveLink(g *scheme.Graph, link *scheme.Link) *RemoveLink {
	return &RemoveLink{
		BaseCommand: NewBaseCommand(CmdRemoveLink, "Remove link"),
		graph:       g,
		link:        link,
		index:       -1,
	}
}

// Link returns the link being removed.
func (c *RemoveLink) Link() *scheme.Link { return c.link }

// Validate implements Command.
func (c *RemoveLink) Validate() error {
	if c.graph == nil || c.link == nil {
		return fmt.Errorf("%w: remove link needs a graph and a link", ErrInvalidCommand)
	}
	if c.link.Graph() != c.graph {
		return fmt.Errorf("%w: link %s", scheme.ErrNotInGraph, c.link)
	}
	return nil
}

// Apply implements Command.
func (c *RemoveLink) Apply() error {
	c.index = c.graph.LinkIndex(c.link)
	return c.graph.RemoveLink(c.link)
}

// Undo implements Command.
func (c *RemoveLink) Undo() error { return c.graph.InsertLink(c.index, c.link) }

// SetLinkEnabled toggles a link.
type SetLinkEnabled struct {
	BaseCommand
	link    *scheme.Link
	enabled bool
}

// NewSetLinkEnabled enables or disables link.
func NewSetLinkEnabled(link *scheme.Link, enabled bool) *SetLinkEnabled {
	text := "Disable link"
	if enabled {
		text = "Enable link"
	}
	return &SetLinkEnabled{BaseCommand: NewBaseCommand(CmdSetLinkEnabled, text), link: link, enabled: enabled}
}

// Validate rejects enabling a link whose sink is fed by another enabled link.
func (c *SetLinkEnabled) Validate() error {
	if c.link.Enabled() == c.enabled {
		return fmt.Errorf("%w: link already in state", ErrInvalidCommand)
	}
	if g := c.link.Graph(); g != nil && c.enabled {
		if other := g.Occupied(c.link.Sink(), c.link.SinkChannel()); other != nil && other != c.link {
			return fmt.Errorf("%w: %s", scheme.ErrSinkOccupied, other)
		}
	}
	return nil
}

// Apply implements Command.
func (c *SetLinkEnabled) Apply() error { return c.link.SetEnabled(c.enabled) }

// Undo implements Command.
func (c *SetLinkEnabled) Undo() error { return c.link.SetEnabled(!c.enabled) }
