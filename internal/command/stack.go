package command

import (
	"fmt"

	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/pubsub"
)

// StackEventKind describes what changed on a Stack.
type StackEventKind int

const (
	StackPushed StackEventKind = iota
	StackUndone
	StackRedone
	StackCleanChanged
	StackCleared
)

func (k StackEventKind) String() string {
	switch k {
	case StackPushed:
		return "pushed"
	case StackUndone:
		return "undone"
	case StackRedone:
		return "redone"
	case StackCleanChanged:
		return "clean_changed"
	case StackCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// StackEvent reports the stack state after a change.
type StackEvent struct {
	Kind    StackEventKind
	Command Command // nil for clean changes and clears
	Index   int
	Clean   bool
}

// cleanUnreachable marks a clean state that was dropped with the redo tail.
const cleanUnreachable = -1

// Stack is a linear undo history. Index is the number of applied commands;
// commands above it form the redo tail.
type Stack struct {
	commands []Command
	index    int
	clean    int
	macros   []*Macro
	events   *pubsub.Dispatcher[StackEvent]
}

// NewStack returns an empty, clean stack.
func NewStack() *Stack {
	return &Stack{events: pubsub.NewDispatcher[StackEvent]()}
}

// Subscribe registers fn for stack events.
func (s *Stack) Subscribe(fn func(StackEvent)) (unsubscribe func()) {
	return s.events.Subscribe(fn)
}

// Push validates and applies cmd. Only a successful apply is recorded. While
// a macro is open the command joins the macro instead.
func (s *Stack) Push(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Text(), err)
	}
	if err := cmd.Apply(); err != nil {
		log.ErrorErr(log.CatCommand, "apply failed", err, "type", cmd.Type(), "id", cmd.ID())
		return err
	}
	if n := len(s.macros); n > 0 {
		s.macros[n-1].Add(cmd)
		return nil
	}
	s.record(cmd)
	return nil
}

func (s *Stack) record(cmd Command) {
	if s.clean > s.index {
		s.clean = cleanUnreachable
	}
	s.commands = append(s.commands[:s.index], cmd)
	s.index++
	log.Debug(log.CatCommand, "push", "type", cmd.Type(), "text", cmd.Text(), "index", s.index)
	s.emit(StackPushed, cmd)
}

// BeginMacro opens a macro; following pushes are applied and collected into
// it until EndMacro. Macros nest.
func (s *Stack) BeginMacro(text string) {
	s.macros = append(s.macros, NewMacro(text))
}

// EndMacro closes the innermost macro and records it as one step. Empty
// macros are discarded. It returns the closed macro.
func (s *Stack) EndMacro() (*Macro, error) {
	n := len(s.macros)
	if n == 0 {
		return nil, ErrNoMacro
	}
	m := s.macros[n-1]
	s.macros = s.macros[:n-1]
	if m.Len() == 0 {
		return m, nil
	}
	if n > 1 {
		s.macros[n-2].Add(m)
		return m, nil
	}
	s.record(m)
	return m, nil
}

// AbortMacro closes the innermost macro and reverts what it applied.
func (s *Stack) AbortMacro() error {
	n := len(s.macros)
	if n == 0 {
		return ErrNoMacro
	}
	m := s.macros[n-1]
	s.macros = s.macros[:n-1]
	return m.Undo()
}

// InMacro reports whether a macro is open.
func (s *Stack) InMacro() bool { return len(s.macros) > 0 }

// Undo reverts the command below the index.
func (s *Stack) Undo() error {
	if s.InMacro() {
		return ErrMacroOpen
	}
	if !s.CanUndo() {
		return ErrNothingToUndo
	}
	cmd := s.commands[s.index-1]
	if err := cmd.Undo(); err != nil {
		return err
	}
	s.index--
	s.emit(StackUndone, cmd)
	return nil
}

// Redo reapplies the command at the index.
func (s *Stack) Redo() error {
	if s.InMacro() {
		return ErrMacroOpen
	}
	if !s.CanRedo() {
		return ErrNothingToRedo
	}
	cmd := s.commands[s.index]
	if err := cmd.Apply(); err != nil {
		return err
	}
	s.index++
	s.emit(StackRedone, cmd)
	return nil
}

// CanUndo reports whether Undo would do anything.
func (s *Stack) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether Redo would do anything.
func (s *Stack) CanRedo() bool { return s.index < len(s.commands) }

// UndoText returns the label of the next undo, or "".
func (s *Stack) UndoText() string {
	if !s.CanUndo() {
		return ""
	}
	return s.commands[s.index-1].Text()
}

// RedoText returns the label of the next redo, or "".
func (s *Stack) RedoText() string {
	if !s.CanRedo() {
		return ""
	}
	return s.commands[s.index].Text()
}

// SetClean marks the current index as the saved state.
func (s *Stack) SetClean() {
	if s.clean == s.index {
		return
	}
	s.clean = s.index
	s.emit(StackCleanChanged, nil)
}

// SetDirty makes the clean state unreachable, so the document reports
// modified until the next SetClean.
func (s *Stack) SetDirty() {
	if s.clean == cleanUnreachable {
		return
	}
	s.clean = cleanUnreachable
	s.emit(StackCleanChanged, nil)
}

// IsClean reports whether the index equals the saved state.
func (s *Stack) IsClean() bool { return s.index == s.clean }

// CleanIndex returns the saved index, or -1 when it is no longer reachable.
func (s *Stack) CleanIndex() int { return s.clean }

// Index returns the number of applied commands.
func (s *Stack) Index() int { return s.index }

// Count returns the number of recorded commands, including the redo tail.
func (s *Stack) Count() int { return len(s.commands) }

// Command returns the recorded command at i.
func (s *Stack) Command(i int) Command { return s.commands[i] }

// Clear drops the history without touching the model. The empty stack is
// clean.
func (s *Stack) Clear() {
	s.commands = nil
	s.macros = nil
	s.index = 0
	s.clean = 0
	s.emit(StackCleared, nil)
}

func (s *Stack) emit(kind StackEventKind, cmd Command) {
	s.events.Publish(StackEvent{Kind: kind, Command: cmd, Index: s.index, Clean: s.IsClean()})
}
