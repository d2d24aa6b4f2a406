package command

import (
	"fmt"
	"strings"

	"github.com/zjrosen/orchard/internal/log"
)

// Macro groups children into one undo step. Apply runs the children in
// order and rolls back the applied prefix when one fails; Undo runs them in
// reverse.
type Macro struct {
	BaseCommand
	children []Command
}

// NewMacro creates a macro over children.
func NewMacro(text string, children ...Command) *Macro {
	return &Macro{BaseCommand: NewBaseCommand(CmdMacro, text), children: children}
}

// Add appends a child. Children added to an applied macro are not applied.
func (m *Macro) Add(c Command) { m.children = append(m.children, c) }

// Children returns the grouped commands.
func (m *Macro) Children() []Command { return append([]Command(nil), m.children...) }

// Len returns the number of children.
func (m *Macro) Len() int { return len(m.children) }

// Validate checks the first child. Later children depend on the effects of
// earlier ones and are validated by the model as they apply.
func (m *Macro) Validate() error {
	if len(m.children) == 0 {
		return nil
	}
	return m.children[0].Validate()
}

// Apply implements Command.
func (m *Macro) Apply() error {
	for i, c := range m.children {
		if err := c.Apply(); err != nil {
			m.rollback(i)
			return fmt.Errorf("%s: %w", m.Text(), err)
		}
	}
	return nil
}

// Undo implements Command.
func (m *Macro) Undo() error {
	for i := len(m.children) - 1; i >= 0; i-- {
		if err := m.children[i].Undo(); err != nil {
			return fmt.Errorf("undo %s: %w", m.Text(), err)
		}
	}
	return nil
}

// rollback undoes the first n children in reverse.
func (m *Macro) rollback(n int) {
	for j := n - 1; j >= 0; j-- {
		if err := m.children[j].Undo(); err != nil {
			log.ErrorErr(log.CatCommand, "macro rollback failed", err, "macro", m.Text(), "child", m.children[j].Text())
		}
	}
}

func (m *Macro) String() string {
	parts := make([]string, len(m.children))
	for i, c := range m.children {
		parts[i] = string(c.Type())
	}
	return fmt.Sprintf("Macro{%s: %s}", m.Text(), strings.Join(parts, ", "))
}

// Simple is a command built from an apply/undo pair.
type Simple struct {
	BaseCommand
	apply, undo func() error
}

// NewSimple creates a command from closures.
func NewSimple(text string, apply, undo func() error) *Simple {
	return &Simple{BaseCommand: NewBaseCommand(CmdSimple, text), apply: apply, undo: undo}
}

// Validate implements Command.
func (s *Simple) Validate() error {
	if s.apply == nil || s.undo == nil {
		return fmt.Errorf("%w: simple command needs apply and undo", ErrInvalidCommand)
	}
	return nil
}

// Apply implements Command.
func (s *Simple) Apply() error { return s.apply() }

// Undo implements Command.
func (s *Simple) Undo() error { return s.undo() }
