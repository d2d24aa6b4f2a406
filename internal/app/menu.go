package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/orchard/internal/document"
	"github.com/zjrosen/orchard/internal/keys"
	"github.com/zjrosen/orchard/internal/ui/overlay"
	"github.com/zjrosen/orchard/internal/ui/styles"
)

// menu lists the context actions of the selection.
type menu struct {
	title   string
	actions []document.Action
	cursor  int
}

// openMenu shows the actions of the selected node or link, or of the empty
// canvas when nothing is selected.
func (m Model) openMenu() (Model, tea.Cmd) {
	sc := m.doc.Scene()
	var (
		target any
		title  = "Scheme"
	)
	if nodes := sc.SelectedNodes(); len(nodes) > 0 {
		target, title = nodes[0], nodes[0].Title()
	} else if links := sc.SelectedLinks(); len(links) > 0 {
		l := links[0]
		target, title = l, l.SourceChannel().Name+" → "+l.SinkChannel().Name
	} else if anns := sc.SelectedAnnotations(); len(anns) > 0 {
		target, title = anns[0], "Annotation"
	}
	actions := m.doc.ContextActions(target)
	if len(actions) == 0 {
		return m, nil
	}
	m.menu = menu{title: title, actions: actions}
	m.menu.cursor = m.menu.step(-1, 1)
	m.focus = focusMenu
	return m, nil
}

// step returns the next enabled entry from cursor in direction dir.
func (mn menu) step(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(mn.actions); i += dir {
		if mn.actions[i].Enabled {
			return i
		}
	}
	if from < 0 {
		return 0
	}
	return from
}

func (m Model) handleMenu(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Common.Escape, keys.Canvas.Actions):
		m.focus = focusCanvas
	case key.Matches(msg, keys.Component.Next, keys.Canvas.MoveDown):
		m.menu.cursor = m.menu.step(m.menu.cursor, 1)
	case key.Matches(msg, keys.Component.Prev, keys.Canvas.MoveUp):
		m.menu.cursor = m.menu.step(m.menu.cursor, -1)
	case key.Matches(msg, keys.Common.Enter):
		m.focus = focusCanvas
		a := m.menu.actions[m.menu.cursor]
		if !a.Enabled {
			return m, nil
		}
		return m.check(a.Run())
	}
	return m, nil
}

func (mn menu) overlay(bg string, width, height int) string {
	enabled := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	disabled := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).Render(mn.title))
	for i, a := range mn.actions {
		b.WriteString("\n")
		if i == mn.cursor {
			b.WriteString(styles.SelectionIndicatorStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		st := enabled
		if !a.Enabled {
			st = disabled
		}
		b.WriteString(st.Render(a.Name))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1).
		Render(b.String())
	return overlay.Place(overlay.Config{Width: width, Height: height, Position: overlay.Center}, box, bg)
}
