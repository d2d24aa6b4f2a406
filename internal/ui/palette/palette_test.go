package palette

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/registry"
)

func newPalette(t *testing.T) Model {
	t.Helper()
	reg := registry.MustBuiltin()
	return New(reg, Config{Categories: Categories(reg)})
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func names(ws []*registry.WidgetDescription) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.QualifiedName()
	}
	return out
}

func TestNew_ListsVisibleWidgets(t *testing.T) {
	m := newPalette(t)
	require.NotEmpty(t, m.Results())
	for _, w := range m.Results() {
		require.NotEqual(t, "Prototypes", w.Category())
	}
	sel, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "orchard.data.File", sel.QualifiedName())
}

func TestTyping_Filters(t *testing.T) {
	m := typeText(newPalette(t), "sum")
	require.Equal(t, "sum", m.Query())
	require.Equal(t, []string{"orchard.math.Add"}, names(m.Results()))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	require.Empty(t, m.Query())
	require.Greater(t, len(m.Results()), 1)
}

func TestTyping_LettersAreNotNavigation(t *testing.T) {
	m := typeText(newPalette(t), "j")
	require.Equal(t, "j", m.Query())
}

func TestNavigate(t *testing.T) {
	m := newPalette(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, _ := m.Selected()
	require.Equal(t, "orchard.data.Corpus", sel.QualifiedName())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	sel, _ = m.Selected()
	require.Equal(t, "orchard.data.File", sel.QualifiedName(), "cursor stops at the top")
}

func TestNavigate_Scrolls(t *testing.T) {
	m := New(registry.MustBuiltin(), Config{MaxVisible: 2})
	for range 3 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, 3, m.cursor)
	require.Equal(t, 2, m.offset)
}

func TestEnter_Selects(t *testing.T) {
	m := typeText(newPalette(t), "scale")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(SelectMsg)
	require.True(t, ok)
	require.Equal(t, "orchard.math.Scale", msg.Widget.QualifiedName())
}

func TestEnter_NoResults(t *testing.T) {
	m := typeText(newPalette(t), "zzz")
	require.Empty(t, m.Results())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Contains(t, ansi.Strip(m.View()), "No matching widgets")
}

func TestEscape_Cancels(t *testing.T) {
	_, cmd := newPalette(t).Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.IsType(t, CancelMsg{}, cmd())
}

func TestView(t *testing.T) {
	m := typeText(newPalette(t), "plot")
	view := ansi.Strip(m.View())
	require.Contains(t, view, "Add widget")
	require.Contains(t, view, ">■ Scatter Plot")
	require.Contains(t, view, "Visualize")
	require.Contains(t, view, "1 widget")
}
