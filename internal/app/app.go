// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/orchard/internal/config"
	"github.com/zjrosen/orchard/internal/document"
	"github.com/zjrosen/orchard/internal/keys"
	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/pubsub"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/ui/canvasview"
	"github.com/zjrosen/orchard/internal/ui/help"
	"github.com/zjrosen/orchard/internal/ui/logview"
	"github.com/zjrosen/orchard/internal/ui/palette"
	"github.com/zjrosen/orchard/internal/ui/styles"
	"github.com/zjrosen/orchard/internal/ui/toaster"
	"github.com/zjrosen/orchard/internal/watcher"
)

// focus is the component receiving key input.
type focus int

const (
	focusCanvas focus = iota
	focusPalette
	focusPrompt
	focusMenu
	focusHelp
	focusDescribe
)

// tool decides the gesture started by the next left press on the canvas.
type tool int

const (
	toolSelect tool = iota
	toolArrow
	toolText
)

// Model is the root application state.
type Model struct {
	doc *document.Controller
	cfg config.Config

	// Global state
	width  int
	height int

	// One viewport per opened container, pinned on first display.
	views map[*scheme.Graph]canvasview.Viewport

	focus     focus
	tool      tool
	note      string
	quitArmed bool

	palette  palette.Model
	help     help.Model
	input    textinput.Model
	prompt   prompt
	renaming *scheme.Node
	menu     menu
	describe string

	toaster toaster.Model

	logView     logview.Model
	logCtx      context.Context
	logCancel   context.CancelFunc
	logListener *log.LogListener

	// File watcher for reloading the document (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.Relay[watcher.Change]
}

// New creates the application model editing doc.
func New(doc *document.Controller, cfg config.Config) Model {
	in := textinput.New()
	in.CharLimit = 200

	m := Model{
		doc:     doc,
		cfg:     cfg,
		views:   make(map[*scheme.Graph]canvasview.Viewport),
		palette: newPalette(doc.Registry()),
		help:    help.New(),
		input:   in,
		toaster: toaster.New(),
		logView: logview.New(),
	}

	m.logCtx, m.logCancel = context.WithCancel(context.Background())
	m.logListener = log.NewListener(m.logCtx)

	if cfg.Watcher.Enabled && doc.Path() != "" {
		m = m.watch(doc.Path())
	}
	return m
}

func newPalette(reg *registry.Registry) palette.Model {
	return palette.New(reg, palette.Config{
		Title:      "Add widget",
		Categories: palette.Categories(reg),
	})
}

// watch starts the file watcher for path. Errors are logged; the editor
// works without reloading.
func (m Model) watch(path string) Model {
	wcfg := watcher.DefaultConfig(path)
	if m.cfg.Watcher.DebounceMs > 0 {
		wcfg.DebounceDur = time.Duration(m.cfg.Watcher.DebounceMs) * time.Millisecond
	}
	w, err := watcher.New(wcfg)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "watcher init failed", err, "path", path)
		return m
	}
	if err := w.Start(); err != nil {
		log.ErrorErr(log.CatWatcher, "watcher start failed", err, "path", path)
		_ = w.Stop()
		return m
	}
	m.watcherHandle = w
	m.watcherCtx, m.watcherCancel = context.WithCancel(context.Background())
	m.watcherListener = pubsub.NewRelay[watcher.Change](m.watcherCtx, w.Broker(), nil)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Next())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Next())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	return m.pin(), cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette = m.palette.SetSize(msg.Width, msg.Height)
		m.help = m.help.SetSize(msg.Width, msg.Height)
		m.logView = m.logView.SetSize(msg.Width, msg.Height)
		m.input.Width = max(min(48, msg.Width-12), 8)
		return m, nil

	case log.LogEvent:
		m.logView = m.logView.Append(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Next()

	case pubsub.Event[watcher.Change]:
		return m.fileChanged(msg.Payload)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case logview.CloseMsg:
		return m, nil

	case palette.SelectMsg:
		m.focus = focusCanvas
		return m.addWidget(msg.Widget)

	case palette.CancelMsg:
		m.focus = focusCanvas
		return m, nil

	case tea.MouseMsg:
		if m.logView.Visible() {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.logView.Visible() {
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}
		switch m.focus {
		case focusPalette:
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		case focusPrompt:
			return m.handlePrompt(msg)
		case focusMenu:
			return m.handleMenu(msg)
		case focusHelp:
			if key.Matches(msg, keys.Common.Help, keys.Common.Escape) {
				m.focus = focusCanvas
			}
			return m, nil
		case focusDescribe:
			if key.Matches(msg, keys.Common.Escape, keys.Common.Enter, keys.Canvas.Describe) {
				m.focus = focusCanvas
				m.describe = ""
			}
			return m, nil
		}
		return m.handleCanvasKey(msg)
	}
	return m, nil
}

// fileChanged reloads the document after an outside write. Own saves and
// writes over unsaved edits are left alone.
func (m Model) fileChanged(c watcher.Change) (Model, tea.Cmd) {
	var next tea.Cmd
	if m.watcherListener != nil {
		next = m.watcherListener.Next()
	}
	name := filepath.Base(c.Path)
	if c.Removed {
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(name+" was removed from disk", toaster.StyleWarn)
		return m, tea.Batch(cmd, next)
	}

	data, err := os.ReadFile(c.Path) //nolint:gosec // G304: the watched document path
	if err != nil {
		log.Warn(log.CatWatcher, "reading changed document failed", "path", c.Path, "error", err)
		return m, next
	}
	if m.doc.MatchesSaved(data) {
		return m, next
	}
	if m.doc.IsModified() {
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show(name+" changed on disk; saving overwrites it", toaster.StyleWarn)
		return m, tea.Batch(cmd, next)
	}

	warnings, err := m.doc.Load(context.Background(), m.doc.Path())
	if err != nil {
		m, cmd := m.fail(err)
		return m, tea.Batch(cmd, next)
	}
	for _, w := range warnings {
		log.Warn(log.CatDocument, "reload warning", "error", w)
	}
	clear(m.views)
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show("Reloaded "+name, toaster.StyleInfo)
	return m, tea.Batch(cmd, next)
}

// save writes the document, prompting for a path when it has none.
func (m Model) save() (Model, tea.Cmd) {
	if m.doc.Path() == "" {
		return m.openPrompt(promptSaveAs, "Save as: ", "scheme.orchard.yaml")
	}
	return m.saveAs("")
}

func (m Model) saveAs(path string) (Model, tea.Cmd) {
	if err := m.doc.Save(context.Background(), path); err != nil {
		return m.fail(err)
	}
	var cmds []tea.Cmd
	if m.watcherHandle == nil && m.cfg.Watcher.Enabled {
		m = m.watch(m.doc.Path())
		if m.watcherListener != nil {
			cmds = append(cmds, m.watcherListener.Next())
		}
	}
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show("Saved "+filepath.Base(m.doc.Path()), toaster.StyleSuccess)
	return m, tea.Batch(append(cmds, cmd)...)
}

// quit exits, asking for a second press when there are unsaved changes.
func (m Model) quit() (Model, tea.Cmd) {
	if !m.doc.IsModified() || m.quitArmed {
		return m, tea.Quit
	}
	m.quitArmed = true
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show("Unsaved changes; press q again to quit", toaster.StyleWarn)
	return m, cmd
}

// fail shows err, except for gestures that ended without a result.
func (m Model) fail(err error) (Model, tea.Cmd) {
	if errors.Is(err, document.ErrGestureCancelled) {
		return m, nil
	}
	log.Debug(log.CatUI, "action failed", "error", err)
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Error(err)
	return m, cmd
}

func (m Model) info(msg string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(msg, toaster.StyleInfo)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	cols, rows := m.canvasSize()
	v := m.viewport()
	body := canvasview.Render(m.doc.Scene(), v, cols, rows, m.gestureOptions())
	view := styles.Frame{
		Title:   canvasview.Breadcrumbs(m.doc.Breadcrumbs()),
		Width:   m.width,
		Height:  m.frameHeight(),
		Focused: m.focus == focusCanvas,
		Right:   percent(v),
	}.Render(body)
	if m.cfg.UI.ShowStatusBar {
		view += "\n" + m.statusBar()
	}

	switch m.focus {
	case focusPalette:
		view = m.palette.Overlay(view)
	case focusHelp:
		view = m.help.Overlay(view)
	case focusPrompt:
		view = m.promptOverlay(view)
	case focusMenu:
		view = m.menu.overlay(view, m.width, m.height)
	case focusDescribe:
		view = m.describeOverlay(view)
	}

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.logView.Visible() {
		view = m.logView.Overlay(view)
	}
	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	if m.logCancel != nil {
		m.logCancel()
	}

	// Cancel watcher subscription context (stops listener)
	if m.watcherCancel != nil {
		m.watcherCancel()
	}

	// Close watcher if we own it
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
