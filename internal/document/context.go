package document

import (
	"github.com/zjrosen/orchard/internal/scheme"
)

// Action is one context menu entry.
type Action struct {
	Name    string
	Enabled bool
	Run     func() error
}

// Context menu action names.
const (
	ActionPaste       = "Paste"
	ActionSelectAll   = "Select all"
	ActionOpen        = "Open"
	ActionExpand      = "Expand macro"
	ActionCreateMacro = "Create macro"
	ActionDuplicate   = "Duplicate"
	ActionCopy        = "Copy"
	ActionRemove      = "Remove"
	ActionEnable      = "Enable"
	ActionDisable     = "Disable"
	ActionOpenParent  = "Up"
)

// ContextActions returns the actions for target: nil for the empty canvas,
// or a *scheme.Node, *scheme.Link or scheme.Annotation of the current
// container. Node actions apply to the selection, which is first narrowed to
// the node unless it already contains it.
func (c *Controller) ContextActions(target any) []Action {
	switch t := target.(type) {
	case nil:
		return []Action{
			{Name: ActionPaste, Enabled: c.HasPasteData(), Run: func() error { _, err := c.Paste(); return err }},
			{Name: ActionSelectAll, Enabled: len(c.Scene().Items()) > 0, Run: func() error { c.SelectAll(); return nil }},
			{Name: ActionOpenParent, Enabled: len(c.opened) > 1, Run: c.OpenParent},
		}
	case *scheme.Node:
		sc := c.Scene()
		it := sc.NodeItem(t)
		if it == nil {
			return nil
		}
		if !it.Selected() {
			sc.SelectOnly(it)
		}
		actions := []Action{
			{Name: ActionOpen, Enabled: t.IsMeta(), Run: func() error { return c.OpenMetaNode(t) }},
			{Name: ActionExpand, Enabled: t.IsMeta(), Run: func() error { return c.ExpandMacro(t) }},
			{Name: ActionCreateMacro, Enabled: !t.IsProxy(), Run: func() error { _, err := c.CreateMacroFromSelection(); return err }},
			{Name: ActionDuplicate, Enabled: true, Run: func() error { _, err := c.DuplicateSelected(); return err }},
			{Name: ActionCopy, Enabled: true, Run: c.CopySelected},
			{Name: ActionRemove, Enabled: true, Run: c.RemoveSelected},
		}
		return actions
	case *scheme.Link:
		toggle := Action{Name: ActionDisable, Enabled: true, Run: func() error { return c.SetLinkEnabled(t, false) }}
		if !t.Enabled() {
			toggle = Action{Name: ActionEnable, Enabled: t.Graph().Occupied(t.Sink(), t.SinkChannel()) == nil,
				Run: func() error { return c.SetLinkEnabled(t, true) }}
		}
		return []Action{
			toggle,
			{Name: ActionRemove, Enabled: true, Run: func() error { return c.RemoveLink(t) }},
		}
	case scheme.Annotation:
		return []Action{
			{Name: ActionRemove, Enabled: true, Run: func() error { return c.RemoveAnnotation(t) }},
		}
	}
	return nil
}
