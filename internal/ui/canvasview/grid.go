package canvasview

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"
)

// class selects the style of a cell.
type class uint8

const (
	classNone class = iota
	classNode
	classNodeSelected
	classTitle
	classMeta
	classProxy
	classChannel
	classAnchorIn
	classAnchorOut
	classLink
	classLinkDisabled
	classLinkDynamic
	classLinkSelected
	classTempPending
	classTempAccept
	classTempReject
	classAnnotation
	classArrow
	classBand
	classCount
)

// wideTail fills the cell after a double-width rune.
const wideTail rune = -1

type cell struct {
	r rune
	// mark holds the combining runes that follow r in its grapheme cluster.
	mark string
	c    class
}

type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

func (g *grid) in(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.w && row < g.h
}

func (g *grid) at(col, row int) cell {
	if !g.in(col, row) {
		return cell{}
	}
	return g.cells[row*g.w+col]
}

func (g *grid) set(col, row int, r rune, c class) {
	if !g.in(col, row) {
		return
	}
	i := row*g.w + col
	// Overwriting half of a wide rune blanks the other half.
	if g.cells[i].r == wideTail && col > 0 {
		g.cells[i-1] = cell{r: ' '}
	}
	if col+1 < g.w && g.cells[i+1].r == wideTail {
		g.cells[i+1] = cell{r: ' '}
	}
	g.cells[i] = cell{r: r, c: c}
}

// text writes s from (col, row) one grapheme cluster per cell, clipped to
// limit columns. It returns the number of columns used.
func (g *grid) text(col, row int, s string, limit int, c class) int {
	used := 0
	state := -1
	for s != "" {
		var (
			cluster    string
			boundaries int
		)
		cluster, s, boundaries, state = uniseg.StepString(s, state)
		w := boundaries >> uniseg.ShiftWidth
		if w == 0 {
			continue
		}
		w = min(w, 2)
		if used+w > limit {
			break
		}
		r, size := utf8.DecodeRuneInString(cluster)
		g.set(col+used, row, r, c)
		if g.in(col+used, row) {
			g.cells[row*g.w+col+used].mark = cluster[size:]
		}
		if w == 2 {
			g.set(col+used+1, row, wideTail, c)
		}
		used += w
	}
	return used
}

// fill blanks a rectangle of cells.
func (g *grid) fill(col, row, w, h int) {
	for y := row; y < row+h; y++ {
		for x := col; x < col+w; x++ {
			g.set(x, y, ' ', classNone)
		}
	}
}

// render joins the rows, styling runs of equal class.
func (g *grid) render(st *palette) string {
	var b strings.Builder
	var run strings.Builder
	for row := 0; row < g.h; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		cur := classNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(st.style(cur).Render(run.String()))
			run.Reset()
		}
		for col := 0; col < g.w; col++ {
			c := g.cells[row*g.w+col]
			if c.r == wideTail {
				continue
			}
			if c.c != cur {
				flush()
				cur = c.c
			}
			run.WriteRune(c.r)
			run.WriteString(c.mark)
		}
		flush()
	}
	return b.String()
}

// plain returns the grid without styling, for tests and clipboard dumps.
func (g *grid) plain() string {
	return g.render(&palette{})
}

// palette holds one style per class. The zero palette renders plain text.
type palette struct {
	styles [classCount]lipgloss.Style
	set    bool
}

func (p *palette) style(c class) lipgloss.Style {
	if !p.set {
		return lipgloss.NewStyle()
	}
	return p.styles[c]
}
