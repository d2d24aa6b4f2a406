package app

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/orchard/internal/keys"
	"github.com/zjrosen/orchard/internal/ui/styles"
)

// statusBar renders the document name, counts, the pending undo step and
// the short help.
func (m Model) statusBar() string {
	name := "untitled"
	if p := m.doc.Path(); p != "" {
		name = filepath.Base(p)
	}
	if t := m.doc.Scheme().Title(); t != "" {
		name = t + " (" + name + ")"
	}
	left := []string{name}
	if mark := styles.FormatModified(m.doc.IsModified()); mark != "" {
		left = append(left, mark)
	}

	g := m.doc.Current()
	left = append(left,
		styles.FormatCount(len(g.Nodes()), "node"),
		styles.FormatCount(len(g.Links()), "link"),
	)
	switch m.tool {
	case toolArrow:
		left = append(left, "[arrow]")
	case toolText:
		left = append(left, "[note]")
	}
	if u := m.doc.Stack().UndoText(); u != "" {
		left = append(left, "undo: "+u)
	}

	muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	var hints []string
	for _, b := range keys.Canvas.ShortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}

	leftText := strings.Join(left, " · ")
	right := muted.Render(strings.Join(hints, "  "))
	inner := m.width - 2
	gap := inner - lipgloss.Width(leftText) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = max(inner-lipgloss.Width(leftText), 0)
	}
	line := leftText + strings.Repeat(" ", gap) + right
	return styles.StatusBarStyle.MaxWidth(m.width).Render(line)
}
