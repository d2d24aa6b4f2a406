// Package palette provides the quick-add widget picker: a search box over the
// registry whose selection becomes a new node.
package palette

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/orchard/internal/keys"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/ui/overlay"
	"github.com/zjrosen/orchard/internal/ui/styles"
)

// Searcher finds widgets for a query.
type Searcher interface {
	Search(ctx context.Context, query string) []*registry.WidgetDescription
}

// Config defines palette configuration.
type Config struct {
	Title       string
	Placeholder string
	Width       int // content width (default 50)
	MaxVisible  int // rows before scrolling (default 6)
	// Categories maps category names to their color hint.
	Categories map[string]string
}

// SelectMsg is sent when a widget is chosen.
type SelectMsg struct {
	Widget *registry.WidgetDescription
}

// CancelMsg is sent on Esc.
type CancelMsg struct{}

// Model holds the palette state.
type Model struct {
	config         Config
	searcher       Searcher
	input          textinput.Model
	results        []*registry.WidgetDescription
	cursor         int
	offset         int
	viewportWidth  int
	viewportHeight int
}

// New creates a palette listing every visible widget.
func New(s Searcher, cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	if ti.Placeholder == "" {
		ti.Placeholder = "Search widgets..."
	}
	ti.Prompt = ""
	ti.Focus()

	m := Model{config: cfg, searcher: s, input: ti}
	return m.refresh()
}

// Categories builds the color map for Config.Categories.
func Categories(reg *registry.Registry) map[string]string {
	out := make(map[string]string)
	for _, c := range reg.Categories() {
		out[c.Name()] = c.Background()
	}
	return out
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Component.Next):
			if m.cursor < len(m.results)-1 {
				m.cursor++
				m = m.scrollToCursor()
			}
			return m, nil
		case key.Matches(msg, keys.Component.Prev):
			if m.cursor > 0 {
				m.cursor--
				m = m.scrollToCursor()
			}
			return m, nil
		case key.Matches(msg, keys.Common.Enter):
			w, ok := m.Selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return SelectMsg{Widget: w} }
		case key.Matches(msg, keys.Common.Escape), msg.Type == tea.KeyCtrlC:
			return m, func() tea.Msg { return CancelMsg{} }
		case msg.Type == tea.KeyCtrlU:
			m.input.SetValue("")
			return m.refresh(), nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m.refresh(), cmd
		}
	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
	}
	return m, nil
}

func (m Model) refresh() Model {
	m.results = m.searcher.Search(context.Background(), m.input.Value())
	m.cursor = 0
	m.offset = 0
	return m
}

func (m Model) visible() int {
	n := m.config.MaxVisible
	if n <= 0 {
		n = 6
	}
	// border (2) + title (1) + search (1) + dividers (2)
	if m.viewportHeight > 0 {
		n = min(n, max(m.viewportHeight-6, 2))
	}
	return n
}

func (m Model) scrollToCursor() Model {
	n := m.visible()
	if m.cursor >= m.offset+n {
		m.offset = m.cursor - n + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	return m
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Selected returns the highlighted widget.
func (m Model) Selected() (*registry.WidgetDescription, bool) {
	if m.cursor < len(m.results) {
		return m.results[m.cursor], true
	}
	return nil, false
}

// Results returns the widgets matching the current query.
func (m Model) Results() []*registry.WidgetDescription {
	return m.results
}

// Query returns the search text.
func (m Model) Query() string {
	return m.input.Value()
}

// View renders the palette box.
func (m Model) View() string {
	width := m.config.Width
	if width <= 0 {
		width = 50
	}
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width))
	muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)

	var b strings.Builder
	title := m.config.Title
	if title == "" {
		title = "Add widget"
	}
	head := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render(title)
	hints := muted.Render("↑/↓ • Enter • Esc")
	b.WriteString(head + strings.Repeat(" ", max(width-lipgloss.Width(head)-lipgloss.Width(hints)-1, 1)) + hints)
	b.WriteString("\n")

	m.input.Width = width - 4
	b.WriteString(muted.Render(" > ") + m.input.View())
	b.WriteString("\n")
	b.WriteString(divider)

	n := m.visible()
	if len(m.results) == 0 {
		b.WriteString("\n")
		b.WriteString(muted.Italic(true).PaddingLeft(1).Render("No matching widgets"))
		n--
	}
	end := min(m.offset+n, len(m.results))
	for i := m.offset; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(m.results[i], i == m.cursor, width))
	}
	for i := max(end-m.offset, 0); i < n; i++ {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	more := ""
	if end < len(m.results) {
		more = "↓ more"
	}
	b.WriteString(muted.Render(styles.PadRight(" "+styles.FormatCount(len(m.results), "widget"), width-lipgloss.Width(more)) + more))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width).
		Render(b.String())
}

func (m Model) renderRow(w *registry.WidgetDescription, selected bool, width int) string {
	indicator := " "
	name := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">")
		name = name.Bold(true)
	}
	swatch := " "
	if hint := m.config.Categories[w.Category()]; hint != "" {
		swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(hint)).Render("■")
	}
	cat := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(w.Category())
	label := styles.TruncateString(w.Name(), max(width-lipgloss.Width(w.Category())-6, 1))
	gap := max(width-4-lipgloss.Width(label)-lipgloss.Width(w.Category()), 1)
	return indicator + swatch + " " + name.Render(label) + strings.Repeat(" ", gap) + cat
}

// Overlay renders the palette centered over background.
func (m Model) Overlay(background string) string {
	return overlay.Place(overlay.Config{
		Width:    m.viewportWidth,
		Height:   m.viewportHeight,
		Position: overlay.Top,
		PadY:     2,
	}, m.View(), background)
}
