package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFrame_Dimensions(t *testing.T) {
	out := Frame{Title: "Scheme", Width: 20, Height: 5}.Render("a\nb")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	for _, l := range lines {
		require.Equal(t, 20, lipgloss.Width(l), "line %q", l)
	}
	require.Equal(t, "╭─ Scheme ─────────╮", ansi.Strip(lines[0]))
	require.Equal(t, "│a                 │", ansi.Strip(lines[1]))
	require.Equal(t, "╰──────────────────╯", ansi.Strip(lines[4]))
}

func TestFrame_RightLabel(t *testing.T) {
	out := Frame{Title: "Scheme", Right: "100%", Width: 24, Height: 3}.Render("")
	top := ansi.Strip(strings.Split(out, "\n")[0])
	require.Equal(t, 24, lipgloss.Width(top))
	require.True(t, strings.HasPrefix(top, "╭─ Scheme "))
	require.True(t, strings.HasSuffix(top, " 100% ─╮"))
}

func TestFrame_ClipsWideContent(t *testing.T) {
	out := Frame{Width: 6, Height: 3}.Render("abcdefgh")
	lines := strings.Split(out, "\n")
	require.Equal(t, "╭────╮", ansi.Strip(lines[0]))
	require.Equal(t, "│abcd│", ansi.Strip(lines[1]))
}

func TestFrame_LongTitleTruncated(t *testing.T) {
	out := Frame{Title: "A very long scheme title", Width: 16, Height: 3}.Render("")
	top := ansi.Strip(strings.Split(out, "\n")[0])
	require.Equal(t, 16, lipgloss.Width(top))
	require.Contains(t, top, "...")
}
