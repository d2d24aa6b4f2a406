package canvasview

import (
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/orchard/internal/ui/styles"
)

func truncate(s string, width int) string {
	return styles.TruncateString(s, width)
}

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}
