// Package help contains the help overlay component.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/orchard/internal/keys"
	"github.com/zjrosen/orchard/internal/ui/overlay"
	"github.com/zjrosen/orchard/internal/ui/styles"
)

// Section is one titled column of the help overlay.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Sections returns the canvas bindings grouped for display. Group order
// follows CanvasKeyMap.FullHelp.
func Sections(km keys.CanvasKeyMap) []Section {
	titles := []string{"Select", "Edit", "Arrange", "Document"}
	groups := km.FullHelp()
	out := make([]Section, 0, len(groups))
	for i, g := range groups {
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		out = append(out, Section{Title: title, Bindings: g})
	}
	return out
}

// Mouse gestures are listed separately because they have no key binding.
var mouseHelp = [][2]string{
	{"drag node", "move selection"},
	{"drag anchor", "draw link"},
	{"drag empty", "select area"},
	{"right drag", "link from node"},
	{"wheel", "zoom"},
}

var (
	titleStyle   lipgloss.Style
	dividerStyle lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
	boxStyle     lipgloss.Style
	footerStyle  lipgloss.Style
)

func init() {
	rebuild()
	styles.RegisterStyleRebuilder(rebuild)
}

func rebuild() {
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(2)
	dividerStyle = lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).MarginTop(1)
	keyStyle = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Width(12)
	descStyle = lipgloss.NewStyle().Foreground(styles.TextDescriptionColor)
	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(styles.OverlayBorderColor)
	footerStyle = lipgloss.NewStyle().Foreground(styles.TextMutedColor).MarginTop(1)
}

// Model holds the help view state.
type Model struct {
	keys   keys.CanvasKeyMap
	width  int
	height int
}

// New creates a help view for the canvas bindings.
func New() Model {
	return Model{keys: keys.Canvas}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help box centered in an empty viewport.
func (m Model) View() string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.render())
}

// Overlay renders the help box on top of background.
func (m Model) Overlay(background string) string {
	if background == "" {
		return m.View()
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.render(), background)
}

func (m Model) render() string {
	column := lipgloss.NewStyle().MarginRight(4)

	var cols []string
	for _, s := range Sections(m.keys) {
		var b strings.Builder
		b.WriteString(sectionStyle.Render(s.Title))
		b.WriteString("\n")
		for _, binding := range s.Bindings {
			h := binding.Help()
			b.WriteString(keyDesc(h.Key, h.Desc))
		}
		cols = append(cols, column.Render(b.String()))
	}
	var view strings.Builder
	view.WriteString(sectionStyle.Render("View"))
	view.WriteString("\n")
	for _, binding := range keys.View.Bindings() {
		h := binding.Help()
		view.WriteString(keyDesc(h.Key, h.Desc))
	}
	cols = append(cols, column.Render(view.String()))

	var mouse strings.Builder
	mouse.WriteString(sectionStyle.Render("Mouse"))
	mouse.WriteString("\n")
	for _, row := range mouseHelp {
		mouse.WriteString(keyDesc(row[0], row[1]))
	}
	cols = append(cols, mouse.String())

	columns := m.pack(cols)
	width := lipgloss.Width(columns) + 4
	body := lipgloss.NewStyle().Padding(0, 2).Render(columns + "\n" + footerStyle.Render("Press ? or Esc to close"))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(dividerStyle.Render(strings.Repeat("─", width)))
	content.WriteString("\n")
	content.WriteString(body)
	return boxStyle.Width(width).Render(content.String())
}

// pack joins columns side by side, wrapping onto a new row when the next
// column would not fit the viewport.
func (m Model) pack(cols []string) string {
	limit := m.width - 8
	if limit <= 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	}
	var rows, row []string
	used := 0
	for _, c := range cols {
		w := lipgloss.Width(c)
		if len(row) > 0 && used+w > limit {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, c)
		used += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func keyDesc(k, desc string) string {
	return keyStyle.Render(k) + descStyle.Render(desc) + "\n"
}
