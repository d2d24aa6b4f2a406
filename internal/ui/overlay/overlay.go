// Package overlay composites popups (menus, toasts, the widget palette) over
// the rendered canvas without clearing it.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the middle of the viewport.
	Center Position = iota
	// Top places the overlay at the top center of the viewport.
	Top
	// Bottom places the overlay at the bottom center of the viewport.
	Bottom
	// At places the overlay's top-left corner at (X, Y), shifted so the
	// overlay stays inside the viewport. Used for context menus.
	At
)

// Config controls overlay rendering behavior.
type Config struct {
	Width    int
	Height   int
	Position Position
	// PadY is the distance from the edge for Top and Bottom.
	PadY int
	// X and Y are cell coordinates for At.
	X, Y int
}

// Place renders fg on top of bg. Both may contain ANSI styling; cells of bg
// outside fg's box are kept.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))
	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], line, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice writes fg into bg starting at column x.
func splice(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(fg)
	var right string
	if end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}
	return left + fg + right
}

// origin returns the top-left cell of the overlay.
func origin(cfg Config, w, h int) (x, y int) {
	x = (cfg.Width - w) / 2
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - h - cfg.PadY
	case At:
		x = min(cfg.X, cfg.Width-w)
		y = min(cfg.Y, cfg.Height-h)
	default:
		y = (cfg.Height - h) / 2
	}
	return max(x, 0), max(y, 0)
}
