// Package command provides the reversible edit operations of a workflow
// document and the linear undo stack that records them.
//
// Every command wraps exactly the scheme.Graph operations it needs. Commands
// are validated before they are pushed; Stack.Push applies a command and only
// records it when Apply succeeds.
package command

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Command is one reversible edit.
type Command interface {
	// ID returns unique command identifier for tracing/correlation
	ID() string
	// Type returns the command type
	Type() CommandType
	// Text is the user-visible label shown in undo/redo menus
	Text() string
	// Validate checks command preconditions before the first Apply
	Validate() error
	// Apply performs (or redoes) the edit
	Apply() error
	// Undo reverts the edit
	Undo() error
	// CreatedAt returns when command was created
	CreatedAt() time.Time
}

// CommandType identifies the kind of command.
type CommandType string

const (
	// Node Commands

	CmdAddNode         CommandType = "add_node"
	CmdRemoveNode      CommandType = "remove_node"
	CmdInsertNode      CommandType = "insert_node"
	CmdMoveNode        CommandType = "move_node"
	CmdRenameNode      CommandType = "rename_node"
	CmdSetNodeProperty CommandType = "set_node_property"

	// Link Commands

	CmdAddLink        CommandType = "add_link"
	CmdRemoveLink     CommandType = "remove_link"
	CmdSetLinkEnabled CommandType = "set_link_enabled"

	// Annotation Commands

	CmdAddAnnotation         CommandType = "add_annotation"
	CmdRemoveAnnotation      CommandType = "remove_annotation"
	CmdSetAnnotationGeometry CommandType = "set_annotation_geometry"
	CmdSetTextContent        CommandType = "set_text_content"
	CmdSetArrowColor         CommandType = "set_arrow_color"

	// Document Commands

	CmdSetTitle         CommandType = "set_title"
	CmdSetDescription   CommandType = "set_description"
	CmdSetWindowPresets CommandType = "set_window_presets"

	// Composite Commands

	CmdMacro  CommandType = "macro"
	CmdSimple CommandType = "simple"
)

// String returns the string representation of the CommandType.
func (ct CommandType) String() string {
	return string(ct)
}

// CommandSource identifies where the command originated.
type CommandSource string

const (
	// SourceUser indicates a menu, key binding or CLI verb.
	SourceUser CommandSource = "user"
	// SourceGesture indicates a canvas gesture (drag, drop, new link).
	SourceGesture CommandSource = "gesture"
	// SourceInternal indicates the command was system-generated.
	SourceInternal CommandSource = "internal"
)

// String returns the string representation of the CommandSource.
func (cs CommandSource) String() string {
	return string(cs)
}

// Sentinel errors.
var (
	ErrInvalidCommand = errors.New("invalid command")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
	ErrMacroOpen      = errors.New("macro in progress")
	ErrNoMacro        = errors.New("no macro in progress")
)

// BaseCommand provides common fields for all commands.
// Concrete command types should embed this struct.
type BaseCommand struct {
	id          string
	cmdType     CommandType
	text        string
	createdAt   time.Time
	source      CommandSource
	spanContext trace.SpanContext
}

// NewBaseCommand creates a BaseCommand with a generated UUID and current timestamp.
func NewBaseCommand(cmdType CommandType, text string) BaseCommand {
	return BaseCommand{
		id:        uuid.New().String(),
		cmdType:   cmdType,
		text:      text,
		createdAt: time.Now(),
		source:    SourceUser,
	}
}

// ID returns the unique command identifier.
func (b *BaseCommand) ID() string { return b.id }

// Type returns the command type.
func (b *BaseCommand) Type() CommandType { return b.cmdType }

// Text returns the user-visible label.
func (b *BaseCommand) Text() string { return b.text }

// SetText replaces the user-visible label.
func (b *BaseCommand) SetText(text string) { b.text = text }

// CreatedAt returns when the command was created.
func (b *BaseCommand) CreatedAt() time.Time { return b.createdAt }

// Source returns the origin of this command.
func (b *BaseCommand) Source() CommandSource { return b.source }

// SetSource records the origin of this command.
func (b *BaseCommand) SetSource(s CommandSource) { b.source = s }

// SpanContext returns the OpenTelemetry span context of the verb that created
// the command.
func (b *BaseCommand) SpanContext() trace.SpanContext { return b.spanContext }

// SetSpanContext sets the OpenTelemetry span context for trace propagation.
func (b *BaseCommand) SetSpanContext(sc trace.SpanContext) { b.spanContext = sc }

// TraceID returns the trace id of the span context, or "".
func (b *BaseCommand) TraceID() string {
	if b.spanContext.IsValid() {
		return b.spanContext.TraceID().String()
	}
	return ""
}

// Validate is a no-op for BaseCommand. Concrete commands should override this.
func (b *BaseCommand) Validate() error { return nil }

// Sourced is implemented by commands embedding BaseCommand.
type Sourced interface {
	SetSource(CommandSource)
	SetSpanContext(trace.SpanContext)
}

// insertIndex resolves a recorded index against a list length; negative or
// stale indexes append.
func insertIndex(index, n int) int {
	if index < 0 || index > n {
		return n
	}
	return index
}
