// Package logview is an in-app log viewer fed by the log broker.
package logview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/ui/overlay"
	"github.com/zjrosen/orchard/internal/ui/styles"
)

const (
	maxEntries   = 500
	maxRows      = 20
	minRows      = 5
	boxMaxWidth  = 140
	boxMinWidth  = 40
	chromeHeight = 6 // header, footer and borders
)

// CloseMsg is sent when the viewer closes itself.
type CloseMsg struct{}

// Model holds the viewer state. Entries are kept while hidden so opening the
// viewer shows recent history.
type Model struct {
	entries  []string
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden viewer.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Append records one formatted entry, dropping the oldest past the limit.
func (m Model) Append(entry string) Model {
	m.entries = append(m.entries, strings.TrimSuffix(entry, "\n"))
	if over := len(m.entries) - maxEntries; over > 0 {
		m.entries = append([]string(nil), m.entries[over:]...)
	}
	if m.visible {
		m = m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// Entries returns the entries at or above the current level.
func (m Model) Entries() []string {
	var out []string
	for _, e := range m.entries {
		if levelOf(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

// Visible reports whether the viewer is showing.
func (m Model) Visible() bool { return m.visible }

// Toggle shows or hides the viewer.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m = m.refresh()
		m.viewport.GotoBottom()
	}
	return m
}

// SetSize updates the viewport dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m.refresh()
}

// Update handles keys while visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "c":
			m.entries = nil
			return m.refresh(), nil
		case "d":
			return m.filter(log.LevelDebug), nil
		case "i":
			return m.filter(log.LevelInfo), nil
		case "w":
			return m.filter(log.LevelWarn), nil
		case "e":
			return m.filter(log.LevelError), nil
		case "j", "down":
			m.viewport.ScrollDown(1)
		case "k", "up":
			m.viewport.ScrollUp(1)
		case "g":
			m.viewport.GotoTop()
		case "G":
			m.viewport.GotoBottom()
		case "esc", "L":
			m.visible = false
			return m, func() tea.Msg { return CloseMsg{} }
		}
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	}
	return m, nil
}

func (m Model) filter(level log.Level) Model {
	m.minLevel = level
	return m.refresh()
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) refresh() Model {
	if m.width == 0 || m.height == 0 {
		return m
	}
	width := m.boxWidth() - 2
	rows := max(min(maxRows, m.height-chromeHeight), minRows)
	m.viewport = viewport.New(width, rows)
	m.viewport.SetContent(m.content(width))
	return m
}

func (m Model) content(width int) string {
	entries := m.Entries()
	if len(entries) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("No logs to display")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		if ansi.StringWidth(e) > width {
			e = ansi.Truncate(e, width-3, "...")
		}
		lines[i] = lipgloss.NewStyle().Foreground(levelColor(levelOf(e))).Render(e)
	}
	return strings.Join(lines, "\n")
}

// View renders the viewer box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render("Logs"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.hints())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width).
		Render(b.String())
}

func (m Model) hints() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)
	parts := []string{hint.Render("[c] Clear")}
	for _, opt := range []struct {
		level log.Level
		label string
	}{
		{log.LevelDebug, "[d] Debug"},
		{log.LevelInfo, "[i] Info"},
		{log.LevelWarn, "[w] Warn"},
		{log.LevelError, "[e] Error"},
	} {
		if opt.level == m.minLevel {
			parts = append(parts, active.Render(opt.label))
		} else {
			parts = append(parts, hint.Render(opt.label))
		}
	}
	return strings.Join(parts, "  ")
}

// Overlay renders the viewer centered over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// levelOf reads the level tag written by log.Format. Untagged entries count
// as errors so they are never filtered out.
func levelOf(entry string) log.Level {
	for _, l := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo, log.LevelDebug} {
		if strings.Contains(entry, "["+l.String()+"]") {
			return l
		}
	}
	return log.LevelError
}

func levelColor(l log.Level) lipgloss.TerminalColor {
	switch l {
	case log.LevelError:
		return styles.StatusErrorColor
	case log.LevelWarn:
		return styles.StatusWarningColor
	case log.LevelInfo:
		return styles.ToastBorderInfoColor
	default:
		return styles.TextMutedColor
	}
}
