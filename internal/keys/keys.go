// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// Common holds bindings shared by every view.
var Common = struct {
	Enter  key.Binding
	Escape key.Binding
	Help   key.Binding
	Quit   key.Binding
}{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Component holds list navigation bindings for pickers. j/k are omitted so
// they stay available for typing.
var Component = struct {
	Next key.Binding
	Prev key.Binding
}{
	Next: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓/ctrl+n", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑/ctrl+p", "previous"),
	),
}

// CanvasKeyMap defines the keybindings of the workflow canvas.
type CanvasKeyMap struct {
	// Selection
	NextNode  key.Binding
	PrevNode  key.Binding
	NextLink  key.Binding
	PrevLink  key.Binding
	SelectAll key.Binding

	// Geometry
	MoveLeft  key.Binding
	MoveRight key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding

	// Editing
	AddNode    key.Binding
	Connect    key.Binding
	ToggleLink key.Binding
	Rename     key.Binding
	Delete     key.Binding
	Duplicate  key.Binding
	Copy       key.Binding
	Paste      key.Binding
	Undo       key.Binding
	Redo       key.Binding
	Note       key.Binding
	Arrow      key.Binding

	// Macros
	CreateMacro key.Binding
	ExpandMacro key.Binding
	Open        key.Binding
	Parent      key.Binding

	// Document
	Actions  key.Binding
	Describe key.Binding
	Save     key.Binding
}

// Canvas holds the default canvas bindings.
var Canvas = CanvasKeyMap{
	NextNode: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next node"),
	),
	PrevNode: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous node"),
	),
	NextLink: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next link"),
	),
	PrevLink: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "previous link"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "select all"),
	),

	MoveLeft: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "move left"),
	),
	MoveRight: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "move right"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	),

	AddNode: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add node"),
	),
	Connect: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "connect selected"),
	),
	ToggleLink: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "toggle link"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename node"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x/del", "remove selected"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "duplicate"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p", "ctrl+v"),
		key.WithHelp("p", "paste"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u", "ctrl+z"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r", "ctrl+y"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Note: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "text note"),
	),
	Arrow: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "draw arrow"),
	),

	CreateMacro: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "create macro"),
	),
	ExpandMacro: key.NewBinding(
		key.WithKeys("M"),
		key.WithHelp("M", "expand macro"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open macro"),
	),
	Parent: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("bksp", "up one level"),
	),

	Actions: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "actions menu"),
	),
	Describe: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "describe widget"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
}

// ShortHelp returns keybindings for the status bar.
func (k CanvasKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddNode, k.Connect, k.Undo, k.Save, Common.Help, Common.Quit}
}

// FullHelp returns keybindings grouped for the help overlay.
func (k CanvasKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextNode, k.PrevNode, k.NextLink, k.PrevLink, k.SelectAll},
		{k.AddNode, k.Connect, k.ToggleLink, k.Rename, k.Delete, k.Duplicate, k.Copy, k.Paste, k.Note, k.Arrow},
		{k.MoveLeft, k.MoveRight, k.MoveUp, k.MoveDown, k.CreateMacro, k.ExpandMacro, k.Open, k.Parent},
		{k.Undo, k.Redo, k.Actions, k.Describe, k.Save, Common.Help, Common.Quit},
	}
}

// ViewKeyMap holds viewport bindings. They only move the camera and never
// edit the document.
type ViewKeyMap struct {
	PanLeft  key.Binding
	PanRight key.Binding
	PanUp    key.Binding
	PanDown  key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Fit      key.Binding
	Logs     key.Binding
}

// View holds the default viewport bindings.
var View = ViewKeyMap{
	PanLeft: key.NewBinding(
		key.WithKeys("shift+left"),
		key.WithHelp("shift+←", "pan left"),
	),
	PanRight: key.NewBinding(
		key.WithKeys("shift+right"),
		key.WithHelp("shift+→", "pan right"),
	),
	PanUp: key.NewBinding(
		key.WithKeys("shift+up"),
		key.WithHelp("shift+↑", "pan up"),
	),
	PanDown: key.NewBinding(
		key.WithKeys("shift+down"),
		key.WithHelp("shift+↓", "pan down"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "zoom out"),
	),
	Fit: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "fit scheme"),
	),
	Logs: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "toggle log"),
	),
}

// Bindings returns the viewport bindings in display order.
func (k ViewKeyMap) Bindings() []key.Binding {
	return []key.Binding{k.PanLeft, k.PanRight, k.PanUp, k.PanDown, k.ZoomIn, k.ZoomOut, k.Fit, k.Logs}
}
