package canvasview

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/canvas"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fixture struct {
	reg   *registry.Registry
	graph *scheme.Graph
	scene *canvas.Scene
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := registry.MustBuiltin()
	s := scheme.New(scheme.WithTypes(reg))
	f := &fixture{reg: reg, graph: s.Root(), scene: canvas.NewScene(s.Root())}
	t.Cleanup(f.scene.Close)
	return f
}

func (f *fixture) node(t *testing.T, qname, title string, x, y float64) *scheme.Node {
	t.Helper()
	desc, err := f.reg.Widget(qname)
	require.NoError(t, err)
	n := scheme.NewNode(desc, scheme.WithTitle(title), scheme.WithPosition(scheme.Point{X: x, Y: y}))
	require.NoError(t, f.graph.AddNode(n))
	return n
}

func (f *fixture) link(t *testing.T, src *scheme.Node, out string, sink *scheme.Node, in string) *scheme.Link {
	t.Helper()
	l, err := scheme.ResolveLink(src, out, sink, in)
	require.NoError(t, err)
	require.NoError(t, f.graph.AddLink(l))
	return l
}

// view places scene point (50, 20) at the top-left cell.
var view = Viewport{Origin: canvas.Point{X: 50, Y: 20}, Zoom: DefaultZoom}

func rows(f *fixture, w, h int, opts Options) []string {
	opts.Plain = true
	return strings.Split(Render(f.scene, view, w, h, opts), "\n")
}

func TestRender_Node(t *testing.T) {
	f := newFixture(t)
	f.node(t, "orchard.math.One", "One", 100, 50)

	out := rows(f, 20, 7, Options{})
	require.Len(t, out, 7)
	require.Equal(t, "  ╭ One ─────────╮  ", out[0])
	require.Equal(t, "  │              │  ", out[1])
	require.Equal(t, "  │         value●  ", out[3])
	require.Equal(t, "  ╰──────────────╯  ", out[5])
	require.Equal(t, strings.Repeat(" ", 20), out[6])
}

func TestRender_SelectedAndMeta(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, "orchard.math.One", "One", 100, 50)
	f.scene.SelectOnly(f.scene.NodeItem(n))
	require.True(t, strings.HasPrefix(rows(f, 20, 6, Options{})[0], "  ┏ One ━"))

	f2 := newFixture(t)
	meta := scheme.NewMetaNode("Group", scheme.WithPosition(scheme.Point{X: 100, Y: 50}))
	require.NoError(t, f2.graph.AddNode(meta))
	require.True(t, strings.HasPrefix(rows(f2, 20, 6, Options{})[0], "  ╔ ▣ Group ═"))
}

func TestRender_Inputs(t *testing.T) {
	f := newFixture(t)
	f.node(t, "orchard.math.Add", "Add", 100, 58)
	out := rows(f, 20, 8, Options{})
	// The box spans y=34..82; inputs sit 16 and 32 units below the top edge
	// and the single output halfway down.
	require.True(t, strings.HasPrefix(out[1], "  ╭ Add "))
	require.Equal(t, "  ●left    result●  ", out[3])
	require.Equal(t, "  ●right         │  ", out[4])
}

func TestRender_Links(t *testing.T) {
	f := newFixture(t)
	one := f.node(t, "orchard.math.One", "One", 100, 50)
	add := f.node(t, "orchard.math.Add", "Add", 300, 58)
	l := f.link(t, one, "value", add, "left")

	row := rows(f, 70, 7, Options{})[3]
	require.Contains(t, row, "●"+strings.Repeat("─", 20))

	require.NoError(t, l.SetEnabled(false))
	row = rows(f, 70, 7, Options{})[3]
	require.Contains(t, row, strings.Repeat("╌", 20))
}

func TestRender_TempLink(t *testing.T) {
	f := newFixture(t)
	one := f.node(t, "orchard.math.One", "One", 100, 50)
	it := f.scene.NodeItem(one)
	f.scene.StartTempLink(it.Outputs()[0])
	f.scene.UpdateTempLink(canvas.Point{X: 202, Y: 54}, canvas.LinkReject)

	row := []rune(rows(f, 40, 7, Options{})[3])
	require.Equal(t, '◆', row[30])
}

func TestRender_Annotations(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.graph.AddAnnotation(scheme.NewTextAnnotation(scheme.Rect{X: 50, Y: 100, W: 50, H: 20}, "hello world")))
	require.NoError(t, f.graph.AddAnnotation(scheme.NewArrowAnnotation(scheme.Point{X: 52, Y: 22}, scheme.Point{X: 102, Y: 22}, "")))

	out := rows(f, 20, 10, Options{})
	require.Equal(t, "──────────→         ", out[0])
	require.Equal(t, "hello               ", out[8])
	require.Equal(t, "world               ", out[9])
}

func TestRender_Band(t *testing.T) {
	f := newFixture(t)
	band := canvas.Rect{X: 50, Y: 20, W: 25, H: 30}
	out := rows(f, 8, 4, Options{Band: &band})
	require.Equal(t, "┌┄┄┄┐   ", out[0])
	require.Equal(t, "┆   ┆   ", out[1])
	require.Equal(t, "└┄┄┄┘   ", out[2])
}

func TestRender_Styled(t *testing.T) {
	f := newFixture(t)
	f.node(t, "orchard.math.One", "One", 100, 50)
	out := Render(f.scene, view, 20, 7, Options{})
	require.Equal(t, "  ╭ One ─────────╮  ", ansi.Strip(strings.Split(out, "\n")[0]))
}

func TestBreadcrumbs(t *testing.T) {
	out := ansi.Strip(zone.Scan(Breadcrumbs([]string{"Macro (1)", "Inner"})))
	require.Equal(t, "Scheme › Macro (1) › Inner", out)
	require.Equal(t, RootCrumb, ansi.Strip(zone.Scan(Breadcrumbs(nil))))
}
