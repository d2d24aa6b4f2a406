// Package toaster provides a notification toast overlay component.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/orchard/internal/ui/overlay"
	"github.com/zjrosen/orchard/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up unless replaced.
const DefaultDuration = 3 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	// StyleSuccess shows ✅ with green border.
	StyleSuccess Style = iota
	// StyleError shows ❌ with red border.
	StyleError
	// StyleInfo shows ℹ️ with blue border.
	StyleInfo
	// StyleWarn shows ⚠️ with yellow border.
	StyleWarn
)

// Model holds the toaster state.
type Model struct {
	message  string
	style    Style
	visible  bool
	seq      int
	duration time.Duration
}

// New creates a new toaster model.
func New() Model {
	return Model{duration: DefaultDuration}
}

// WithDuration sets how long toasts stay visible.
func (m Model) WithDuration(d time.Duration) Model {
	m.duration = d
	return m
}

// Show displays message and returns the command that dismisses it. A later
// Show supersedes the pending dismissal of an earlier one.
func (m Model) Show(message string, style Style) (Model, tea.Cmd) {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	seq := m.seq
	return m, tea.Tick(m.duration, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}

// Error shows err as an error toast. A nil err shows nothing.
func (m Model) Error(err error) (Model, tea.Cmd) {
	if err == nil {
		return m, nil
	}
	return m.Show(err.Error(), StyleError)
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Update hides the toast when its own DismissMsg arrives.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		return m.Hide()
	}
	return m
}

// icons prefixes the message of each style.
var icons = [...]string{
	StyleSuccess: "✅",
	StyleError:   "❌",
	StyleInfo:    "ℹ️",
	StyleWarn:    "⚠️",
}

func (s Style) border() lipgloss.AdaptiveColor {
	switch s {
	case StyleError:
		return styles.ToastBorderErrorColor
	case StyleInfo:
		return styles.ToastBorderInfoColor
	case StyleWarn:
		return styles.ToastBorderWarnColor
	}
	return styles.ToastBorderSuccessColor
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}
	icon := icons[StyleSuccess]
	if int(m.style) < len(icons) {
		icon = icons[m.style]
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.style.border()).
		Render(icon + " " + m.message)
}

// Overlay renders the toast near the bottom edge of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg hides the toast that scheduled it.
type DismissMsg struct {
	seq int
}
