package app

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/orchard/internal/canvas"
	"github.com/zjrosen/orchard/internal/document"
	"github.com/zjrosen/orchard/internal/keys"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/ui/canvasview"
	"github.com/zjrosen/orchard/internal/ui/markdown"
)

// zoomStep is the factor applied per zoom key or wheel notch.
const zoomStep = 1.25

// canvasSize returns the cells available to the scene inside the frame.
func (m Model) canvasSize() (cols, rows int) {
	return max(m.width-2, 1), max(m.frameHeight()-2, 1)
}

func (m Model) frameHeight() int {
	if m.cfg.UI.ShowStatusBar {
		return max(m.height-1, 3)
	}
	return max(m.height, 3)
}

// cell maps a terminal position to a canvas cell.
func (m Model) cell(x, y int) (col, row int, inside bool) {
	cols, rows := m.canvasSize()
	col, row = x-1, y-1
	return col, row, col >= 0 && row >= 0 && col < cols && row < rows
}

func (m Model) zoom() float64 {
	z := m.cfg.UI.Zoom
	if z <= 0 {
		return canvasview.DefaultZoom
	}
	return min(max(z, canvasview.MinZoom), canvasview.MaxZoom)
}

// viewport returns the viewport of the current container.
func (m Model) viewport() canvasview.Viewport {
	if v, ok := m.views[m.doc.Current()]; ok {
		return v
	}
	return m.fitted(canvasview.Viewport{Zoom: m.zoom()})
}

// fitted centers the scene in v.
func (m Model) fitted(v canvasview.Viewport) canvasview.Viewport {
	sc := m.doc.Scene()
	if len(sc.Items()) == 0 {
		return v
	}
	cols, rows := m.canvasSize()
	return v.Fit(sc.BoundingRect(), cols, rows)
}

func (m Model) setViewport(v canvasview.Viewport) Model {
	m.views[m.doc.Current()] = v
	return m
}

// pin keeps the camera still once a container has been displayed, so that
// edits do not re-center it.
func (m Model) pin() Model {
	if m.width == 0 {
		return m
	}
	if _, ok := m.views[m.doc.Current()]; !ok {
		m.views[m.doc.Current()] = m.viewport()
	}
	return m
}

func percent(v canvasview.Viewport) string {
	return fmt.Sprintf("%d%%", v.Percent())
}

// gestureOptions exposes the running gesture to the renderer.
func (m Model) gestureOptions() canvasview.Options {
	var opts canvasview.Options
	switch g := m.doc.Interaction().(type) {
	case *document.RubberBand:
		r := g.Rect()
		opts.Band = &r
	case *document.ArrowGesture:
		start, end := g.Line()
		opts.Arrow = &[2]canvas.Point{start, end}
	case *document.TextGesture:
		r := g.Rect()
		opts.Text = &r
	}
	return opts
}

func (m Model) handleCanvasKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := keys.Canvas
	armed := m.quitArmed
	m.quitArmed = false
	d := m.doc
	sc := d.Scene()

	switch {
	case key.Matches(msg, keys.Common.Quit):
		m.quitArmed = armed
		return m.quit()
	case key.Matches(msg, keys.Common.Escape):
		d.CancelInteraction()
		if m.tool != toolSelect {
			m.tool = toolSelect
			return m, nil
		}
		sc.ClearSelection()
		return m, nil
	case key.Matches(msg, keys.Common.Help):
		m.focus = focusHelp
		return m, nil
	case key.Matches(msg, keys.View.Logs):
		m.logView = m.logView.Toggle()
		return m, nil

	// Camera
	case key.Matches(msg, keys.View.PanLeft):
		return m.setViewport(m.viewport().Pan(-4, 0)), nil
	case key.Matches(msg, keys.View.PanRight):
		return m.setViewport(m.viewport().Pan(4, 0)), nil
	case key.Matches(msg, keys.View.PanUp):
		return m.setViewport(m.viewport().Pan(0, -2)), nil
	case key.Matches(msg, keys.View.PanDown):
		return m.setViewport(m.viewport().Pan(0, 2)), nil
	case key.Matches(msg, keys.View.ZoomIn):
		return m.zoomAtCenter(1 / zoomStep), nil
	case key.Matches(msg, keys.View.ZoomOut):
		return m.zoomAtCenter(zoomStep), nil
	case key.Matches(msg, keys.View.Fit):
		return m.setViewport(m.fitted(m.viewport())), nil

	// Selection
	case key.Matches(msg, km.NextNode):
		return m.cycleNode(1), nil
	case key.Matches(msg, km.PrevNode):
		return m.cycleNode(-1), nil
	case key.Matches(msg, km.NextLink):
		return m.cycleLink(1), nil
	case key.Matches(msg, km.PrevLink):
		return m.cycleLink(-1), nil
	case key.Matches(msg, km.SelectAll):
		d.SelectAll()
		return m, nil

	// Geometry
	case key.Matches(msg, km.MoveLeft, km.MoveRight, km.MoveUp, km.MoveDown):
		return m.nudge(msg)

	// Editing
	case key.Matches(msg, km.AddNode):
		m.palette = newPalette(d.Registry()).SetSize(m.width, m.height)
		m.focus = focusPalette
		return m, m.palette.Init()
	case key.Matches(msg, km.Connect):
		return m.connectSelected()
	case key.Matches(msg, km.ToggleLink):
		return m.toggleLink()
	case key.Matches(msg, km.Rename):
		nodes := d.SelectedNodes()
		if len(nodes) != 1 {
			return m.info("Select one node to rename")
		}
		m.renaming = nodes[0]
		return m.openPrompt(promptRename, "Title: ", nodes[0].Title())
	case key.Matches(msg, km.Delete):
		return m.check(d.RemoveSelected())
	case key.Matches(msg, km.Duplicate):
		_, err := d.DuplicateSelected()
		return m.check(err)
	case key.Matches(msg, km.Copy):
		if err := d.CopySelected(); err != nil {
			return m.fail(err)
		}
		return m.info(fmt.Sprintf("Copied %s", countSelection(sc)))
	case key.Matches(msg, km.Paste):
		_, err := d.Paste()
		return m.check(err)
	case key.Matches(msg, km.Undo):
		return m.check(d.Undo())
	case key.Matches(msg, km.Redo):
		return m.check(d.Redo())
	case key.Matches(msg, km.Note):
		return m.openPrompt(promptNote, "Note: ", "")
	case key.Matches(msg, km.Arrow):
		m.tool = toolArrow
		return m.info("Drag on the canvas to draw an arrow")

	// Macros
	case key.Matches(msg, km.CreateMacro):
		_, err := d.CreateMacroFromSelection()
		return m.check(err)
	case key.Matches(msg, km.ExpandMacro):
		n, ok := m.singleSelected()
		if !ok {
			return m.info("Select one macro to expand")
		}
		return m.check(d.ExpandMacro(n))
	case key.Matches(msg, km.Open):
		n, ok := m.singleSelected()
		if !ok {
			return m.info("Select one macro to open")
		}
		return m.check(d.OpenMetaNode(n))
	case key.Matches(msg, km.Parent):
		err := d.OpenParent()
		if errors.Is(err, document.ErrAtRoot) {
			return m, nil
		}
		return m.check(err)

	// Document
	case key.Matches(msg, km.Actions):
		return m.openMenu()
	case key.Matches(msg, km.Describe):
		return m.describeSelected()
	case key.Matches(msg, km.Save):
		return m.save()
	}
	return m, nil
}

// check shows err when it is not nil.
func (m Model) check(err error) (Model, tea.Cmd) {
	if err != nil {
		return m.fail(err)
	}
	return m, nil
}

func (m Model) zoomAtCenter(f float64) Model {
	cols, rows := m.canvasSize()
	return m.setViewport(m.viewport().ZoomBy(f, cols/2, rows/2))
}

// nudge moves the selection by one cell.
func (m Model) nudge(msg tea.KeyMsg) (Model, tea.Cmd) {
	v := m.viewport()
	var delta scheme.Point
	switch {
	case key.Matches(msg, keys.Canvas.MoveLeft):
		delta.X = -v.Zoom
	case key.Matches(msg, keys.Canvas.MoveRight):
		delta.X = v.Zoom
	case key.Matches(msg, keys.Canvas.MoveUp):
		delta.Y = -2 * v.Zoom
	case key.Matches(msg, keys.Canvas.MoveDown):
		delta.Y = 2 * v.Zoom
	}
	return m.check(m.doc.MoveSelected(delta))
}

func (m Model) singleSelected() (*scheme.Node, bool) {
	nodes := m.doc.SelectedNodes()
	if len(nodes) != 1 {
		return nil, false
	}
	return nodes[0], true
}

// cycleNode selects the node step positions after the first selected one,
// in scene order.
func (m Model) cycleNode(step int) Model {
	sc := m.doc.Scene()
	items := sc.Nodes()
	if len(items) == 0 {
		return m
	}
	next := 0
	if step < 0 {
		next = len(items) - 1
	}
	for i, it := range items {
		if it.Selected() {
			next = (i + step + len(items)) % len(items)
			break
		}
	}
	sc.SelectOnly(items[next])
	return m
}

func (m Model) cycleLink(step int) Model {
	sc := m.doc.Scene()
	items := sc.Links()
	if len(items) == 0 {
		return m
	}
	next := 0
	if step < 0 {
		next = len(items) - 1
	}
	for i, it := range items {
		if it.Selected() {
			next = (i + step + len(items)) % len(items)
			break
		}
	}
	sc.SelectOnly(items[next])
	return m
}

// connectSelected links two selected nodes, left to right.
func (m Model) connectSelected() (Model, tea.Cmd) {
	nodes := m.doc.SelectedNodes()
	if len(nodes) != 2 {
		return m.info("Select two nodes to connect")
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Position().X < nodes[j].Position().X })
	l, err := m.doc.ConnectNodes(nodes[0], nodes[1])
	if err != nil {
		return m.fail(err)
	}
	return m.info(fmt.Sprintf("Connected %s → %s", l.SourceChannel().Name, l.SinkChannel().Name))
}

func (m Model) toggleLink() (Model, tea.Cmd) {
	links := m.doc.Scene().SelectedLinks()
	if len(links) == 0 {
		return m.info("Select a link to toggle")
	}
	for _, l := range links {
		if err := m.doc.SetLinkEnabled(l, !l.Enabled()); err != nil {
			return m.fail(err)
		}
	}
	return m, nil
}

// addWidget creates a node from the palette. A single selected link gets
// the node spliced into it; a single selected node is connected to it.
func (m Model) addWidget(desc *registry.WidgetDescription) (Model, tea.Cmd) {
	d := m.doc
	sc := d.Scene()
	from := d.SelectedNodes()
	links := sc.SelectedLinks()

	var (
		n   *scheme.Node
		err error
	)
	switch {
	case len(links) == 1 && len(from) == 0:
		n, err = d.InsertNode(desc, links[0])
	case len(from) == 1:
		pos := from[0].Position()
		pos.X += m.cfg.Editor.NodeSpacing
		n, err = d.CreateNewNode(desc, "", &pos)
	default:
		n, err = d.CreateNewNode(desc, "", nil)
	}
	if err != nil {
		return m.fail(err)
	}
	if len(from) == 1 && len(links) == 0 {
		if _, err := d.ConnectNodes(from[0], n); err != nil && !errors.Is(err, document.ErrNoProposal) {
			return m.fail(err)
		}
	}
	if it := sc.NodeItem(n); it != nil {
		sc.SelectOnly(it)
	}
	return m, nil
}

func (m Model) describeSelected() (Model, tea.Cmd) {
	n, ok := m.singleSelected()
	if !ok || n.Description() == nil {
		return m.info("Select one widget node to describe")
	}
	r, err := markdown.New(max(min(m.width-8, 80), 20), m.cfg.UI.MarkdownStyle)
	if err != nil {
		return m.fail(err)
	}
	out, err := r.RenderWidget(n.Description())
	if err != nil {
		return m.fail(err)
	}
	m.describe = out
	m.focus = focusDescribe
	return m, nil
}

func countSelection(sc *canvas.Scene) string {
	n := len(sc.SelectedNodes())
	if n == 0 {
		return "annotations"
	}
	if n == 1 {
		return "1 node"
	}
	return fmt.Sprintf("%d nodes", n)
}

// handleMouse drives the controller's pointer gestures.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.focus != focusCanvas {
		return m, nil
	}
	d := m.doc
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if depth, ok := canvasview.CrumbAt(msg, len(d.Breadcrumbs())); ok {
			return m.openDepth(depth)
		}
	}

	col, row, inside := m.cell(msg.X, msg.Y)
	v := m.viewport()
	p := v.ToCanvas(col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if !inside {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.setViewport(v.ZoomBy(1/zoomStep, col, row)), nil
		case tea.MouseButtonWheelDown:
			return m.setViewport(v.ZoomBy(zoomStep, col, row)), nil
		case tea.MouseButtonLeft:
			m.beginLeft(msg, p)
		case tea.MouseButtonRight:
			d.Begin(d.NewLinkGesture(), p)
		}
	case tea.MouseActionMotion:
		d.MovePointer(p)
	case tea.MouseActionRelease:
		if d.Interaction() == nil {
			return m, nil
		}
		err := d.ReleasePointer(p)
		m.tool = toolSelect
		return m.check(err)
	}
	return m, nil
}

// beginLeft starts the gesture for a left press at p: the armed tool, a link
// from an anchor, a drag of a node or a rubber band over empty canvas.
func (m Model) beginLeft(msg tea.MouseMsg, p canvas.Point) {
	d := m.doc
	sc := d.Scene()
	switch m.tool {
	case toolArrow:
		d.Begin(d.NewArrowGesture(scheme.DefaultArrowColor), p)
		return
	case toolText:
		d.Begin(d.NewTextGesture(m.note), p)
		return
	}
	if sc.AnchorAt(p) != nil {
		d.Begin(d.NewLinkGesture(), p)
		return
	}
	if it := sc.ItemAt(p); it != nil && (msg.Ctrl || msg.Shift) {
		sc.Select(it, !it.Selected())
		return
	}
	if d.Begin(d.NewNodeDrag(), p) {
		return
	}
	if _, ok := sc.ItemAt(p).(*canvas.LinkItem); ok {
		sc.SelectOnly(sc.ItemAt(p))
		return
	}
	mode := canvas.SelectReplace
	switch {
	case msg.Ctrl:
		mode = canvas.SelectToggle
	case msg.Shift:
		mode = canvas.SelectAdd
	}
	d.Begin(d.NewRubberBand(mode), p)
}

// openDepth returns to the container at depth of the breadcrumb trail.
func (m Model) openDepth(depth int) (Model, tea.Cmd) {
	for len(m.doc.Breadcrumbs()) > depth {
		if err := m.doc.OpenParent(); err != nil {
			return m.fail(err)
		}
	}
	return m, nil
}
