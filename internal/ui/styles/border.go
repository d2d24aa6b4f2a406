// Package styles contains Lip Gloss style definitions.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Frame describes a rounded panel with a title set into its top edge:
//
//	╭─ Scheme ─────╮
//	│              │
//	╰──────────────╯
type Frame struct {
	Title   string
	Width   int
	Height  int
	Focused bool
	// Right is placed at the right end of the top edge, e.g. a zoom level.
	Right string
}

// Render draws content inside the frame. Content is clipped to the inner area.
func (f Frame) Render(content string) string {
	border := BorderDefaultColor
	if f.Focused {
		border = BorderFocusColor
	}
	edge := lipgloss.NewStyle().Foreground(border)
	title := lipgloss.NewStyle().Foreground(OverlayTitleColor).Bold(f.Focused)

	inner := max(f.Width-2, 1)
	rows := max(f.Height-2, 1)

	lines := strings.Split(content, "\n")
	var b strings.Builder
	b.WriteString(f.top(inner, edge, title))
	for i := range rows {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		line = lipgloss.NewStyle().MaxWidth(inner).Render(line)
		if w := lipgloss.Width(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		b.WriteString("\n")
		b.WriteString(edge.Render("│") + line + edge.Render("│"))
	}
	b.WriteString("\n")
	b.WriteString(edge.Render("╰" + strings.Repeat("─", inner) + "╯"))
	return b.String()
}

func (f Frame) top(inner int, edge, title lipgloss.Style) string {
	// "─ " + title + " " at minimum, plus the right label with its own padding.
	avail := inner - 3
	right := ""
	if f.Right != "" {
		right = TruncateString(f.Right, max(avail/2, 0))
		avail -= lipgloss.Width(right) + 3
	}
	if f.Title == "" || avail < 1 {
		return edge.Render("╭" + strings.Repeat("─", inner) + "╮")
	}

	// Titles may carry styles and click zones.
	text := ansi.Truncate(f.Title, avail, "...")
	fill := inner - 3 - lipgloss.Width(text)
	var b strings.Builder
	b.WriteString(edge.Render("╭─ "))
	b.WriteString(title.Render(text))
	if right == "" {
		b.WriteString(edge.Render(" " + strings.Repeat("─", fill) + "╮"))
		return b.String()
	}
	fill -= lipgloss.Width(right) + 3
	b.WriteString(edge.Render(" " + strings.Repeat("─", fill) + " "))
	b.WriteString(lipgloss.NewStyle().Foreground(TextMutedColor).Render(right))
	b.WriteString(edge.Render(" ─╮"))
	return b.String()
}
