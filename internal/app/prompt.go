package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/orchard/internal/keys"
	"github.com/zjrosen/orchard/internal/ui/overlay"
	"github.com/zjrosen/orchard/internal/ui/styles"
)

// prompt is what the text input collects.
type prompt int

const (
	promptRename prompt = iota
	promptNote
	promptSaveAs
)

var promptTitles = map[prompt]string{
	promptRename: "Rename node",
	promptNote:   "New text note",
	promptSaveAs: "Save scheme",
}

func (m Model) openPrompt(p prompt, label, value string) (Model, tea.Cmd) {
	m.prompt = p
	m.focus = focusPrompt
	m.input.Prompt = label
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) closePrompt() Model {
	m.focus = focusCanvas
	m.renaming = nil
	m.input.Blur()
	m.input.SetValue("")
	return m
}

func (m Model) handlePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Common.Escape):
		return m.closePrompt(), nil
	case key.Matches(msg, keys.Common.Enter):
		value := strings.TrimSpace(m.input.Value())
		p, node := m.prompt, m.renaming
		m = m.closePrompt()
		if value == "" {
			return m, nil
		}
		switch p {
		case promptRename:
			return m.check(m.doc.RenameNode(node, value))
		case promptNote:
			m.note = value
			m.tool = toolText
			return m.info("Drag on the canvas to place the note")
		case promptSaveAs:
			return m.saveAs(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) promptOverlay(bg string) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).Render(promptTitles[m.prompt])
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("enter confirm · esc cancel")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1).
		Render(title + "\n\n" + m.input.View() + "\n\n" + hint)
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Top, PadY: 3}, box, bg)
}

func (m Model) describeOverlay(bg string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Padding(0, 1).
		MaxHeight(max(m.height-2, 3)).
		Render(strings.TrimRight(m.describe, "\n"))
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, box, bg)
}
