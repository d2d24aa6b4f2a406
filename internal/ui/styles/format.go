// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateString truncates s to fit within maxWidth cells, adding an ellipsis
// if needed. Wide runes count as two cells.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// FormatModified returns the status bar marker for unsaved changes.
func FormatModified(modified bool) string {
	if !modified {
		return ""
	}
	return ModifiedStyle.Render("●")
}

// FormatCount returns "n noun" with a plain plural.
func FormatCount(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
