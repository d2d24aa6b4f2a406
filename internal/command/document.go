package command

import (
	"github.com/zjrosen/orchard/internal/scheme"
)

// SetTitle changes the document title.
type SetTitle struct {
	BaseCommand
	scheme   *scheme.Scheme
	old, new string
}

// NewSetTitle sets the title of s.
func NewSetTitle(s *scheme.Scheme, title string) *SetTitle {
	return &SetTitle{BaseCommand: NewBaseCommand(CmdSetTitle, "Set title"), scheme: s, old: s.Title(), new: title}
}

// Apply implements Command.
func (c *SetTitle) Apply() error {
	c.scheme.SetTitle(c.new)
	return nil
}

// Undo implements Command.
func (c *SetTitle) Undo() error {
	c.scheme.SetTitle(c.old)
	return nil
}

// SetDescription changes the document description.
type SetDescription struct {
	BaseCommand
	scheme   *scheme.Scheme
	old, new string
}

// NewSetDescription sets the description of s.
func NewSetDescription(s *scheme.Scheme, description string) *SetDescription {
	return &SetDescription{
		BaseCommand: NewBaseCommand(CmdSetDescription, "Set description"),
		scheme:      s,
		old:         s.Description(),
		new:         description,
	}
}

// Apply implements Command.
func (c *SetDescription) Apply() error {
	c.scheme.SetDescription(c.new)
	return nil
}

// Undo implements Command.
func (c *SetDescription) Undo() error {
	c.scheme.SetDescription(c.old)
	return nil
}

// SetWindowPresets replaces the saved window arrangements.
type SetWindowPresets struct {
	BaseCommand
	scheme   *scheme.Scheme
	old, new []scheme.WindowGroup
}

// NewSetWindowPresets sets the window presets of s.
func NewSetWindowPresets(s *scheme.Scheme, groups []scheme.WindowGroup) *SetWindowPresets {
	return &SetWindowPresets{
		BaseCommand: NewBaseCommand(CmdSetWindowPresets, "Set window presets"),
		scheme:      s,
		old:         s.WindowPresets(),
		new:         groups,
	}
}

// Apply implements Command.
func (c *SetWindowPresets) Apply() error {
	c.scheme.SetWindowPresets(c.new)
	return nil
}

// Undo implements Command.
func (c *SetWindowPresets) Undo() error {
	c.scheme.SetWindowPresets(c.old)
	return nil
}
