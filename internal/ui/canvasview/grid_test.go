package canvasview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGrid_TextClusters(t *testing.T) {
	g := newGrid(8, 1)
	used := g.text(0, 0, "ét世", 8, classTitle)
	require.Equal(t, 4, used, "the accent shares a cell and the ideograph takes two")
	require.Equal(t, "ét世    ", g.plain())
}

func TestGrid_TextClipsWideRune(t *testing.T) {
	g := newGrid(4, 1)
	used := g.text(0, 0, "ab世", 3, classTitle)
	require.Equal(t, 2, used)
	require.Equal(t, "ab  ", g.plain())
}

func TestGrid_OverwriteBlanksWideHalf(t *testing.T) {
	g := newGrid(3, 1)
	g.text(0, 0, "世", 3, classTitle)
	g.set(1, 0, 'x', classLink)
	require.Equal(t, " x ", g.plain())
}
