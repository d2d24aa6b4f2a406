package canvasview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/orchard/internal/ui/styles"
)

// RootCrumb labels the top-level scheme in the breadcrumb trail.
const RootCrumb = "Scheme"

func crumbZone(depth int) string { return fmt.Sprintf("crumb:%d", depth) }

// Breadcrumbs renders the path of opened macros. Each crumb is a click zone;
// depth 0 is the root.
func Breadcrumbs(titles []string) string {
	sep := styles.BreadcrumbStyle.Render(" › ")
	parts := make([]string, 0, len(titles)+1)
	all := append([]string{RootCrumb}, titles...)
	for i, t := range all {
		st := styles.BreadcrumbStyle
		if i == len(all)-1 {
			st = lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)
		}
		parts = append(parts, zone.Mark(crumbZone(i), st.Render(t)))
	}
	return strings.Join(parts, sep)
}

// CrumbAt returns the depth of the crumb under a mouse event, given the number
// of opened macros.
func CrumbAt(msg tea.MouseMsg, opened int) (int, bool) {
	for i := 0; i <= opened; i++ {
		if z := zone.Get(crumbZone(i)); z != nil && z.InBounds(msg) {
			return i, true
		}
	}
	return 0, false
}
