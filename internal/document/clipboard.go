package document

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/orchard/internal/command"
	"github.com/zjrosen/orchard/internal/infrastructure/sqlite"
	"github.com/zjrosen/orchard/internal/readwrite"
	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/tracing"
)

// Clipboard stores text for copy and paste.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// SystemClipboard uses the desktop clipboard.
type SystemClipboard struct{}

// ReadText implements Clipboard.
func (SystemClipboard) ReadText() (string, error) { return clipboard.ReadAll() }

// WriteText implements Clipboard.
func (SystemClipboard) WriteText(text string) error { return clipboard.WriteAll(text) }

// SystemClipboardAvailable reports whether the desktop clipboard can be used.
func SystemClipboardAvailable() bool { return !clipboard.Unsupported }

// MemoryClipboard keeps the text in process.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// NewMemoryClipboard returns an empty in-memory clipboard.
func NewMemoryClipboard() *MemoryClipboard { return &MemoryClipboard{} }

// ReadText implements Clipboard.
func (m *MemoryClipboard) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// WriteText implements Clipboard.
func (m *MemoryClipboard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// The clipboard payload is the fragment MIME type on the first line followed
// by the fragment document.
func encodeClip(frag []byte) string {
	return readwrite.FragmentMIME + "\n" + string(frag)
}

func decodeClip(text string) ([]byte, bool) {
	head, body, ok := strings.Cut(text, "\n")
	if !ok || strings.TrimSpace(head) != readwrite.FragmentMIME {
		return nil, false
	}
	return []byte(body), true
}

// selection returns the selected nodes, the links among them and the
// selected annotations of the current scene.
func (c *Controller) selection() ([]*scheme.Node, []*scheme.Link, []scheme.Annotation) {
	sc := c.Scene()
	nodes := sc.SelectedNodes()
	inside := make(map[*scheme.Node]bool, len(nodes))
	for _, n := range nodes {
		inside[n] = true
	}
	var links []*scheme.Link
	for _, l := range c.Current().Links() {
		if inside[l.Source()] && inside[l.Sink()] {
			links = append(links, l)
		}
	}
	return nodes, links, sc.SelectedAnnotations()
}

func encodeSelection(nodes []*scheme.Node, links []*scheme.Link, anns []scheme.Annotation) ([]byte, error) {
	var buf bytes.Buffer
	if err := readwrite.WriteFragment(&buf, nodes, links, anns); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CopySelected writes the selection to the clipboard. The next Paste lands
// one offset away from the copied items.
func (c *Controller) CopySelected() error {
	nodes, links, anns := c.selection()
	if len(nodes) == 0 && len(anns) == 0 {
		return ErrNothingSelected
	}
	return c.run("copy", func(context.Context) error {
		data, err := encodeSelection(nodes, links, anns)
		if err != nil {
			return err
		}
		if err := c.clipboard.WriteText(encodeClip(data)); err != nil {
			return fmt.Errorf("writing clipboard: %w", err)
		}
		origin := topLeft(nodes, anns).Add(c.offset)
		c.pasteOrigin = &origin
		return nil
	}, attribute.Int(tracing.AttrCount, len(nodes)+len(anns)))
}

// HasPasteData reports whether the clipboard holds a workflow fragment.
func (c *Controller) HasPasteData() bool {
	text, err := c.clipboard.ReadText()
	if err != nil {
		return false
	}
	_, ok := decodeClip(text)
	return ok
}

// Paste inserts the clipboard fragment into the current container and
// selects it. Consecutive pastes step by the duplicate offset.
func (c *Controller) Paste() ([]*scheme.Node, error) {
	text, err := c.clipboard.ReadText()
	if err != nil {
		return nil, fmt.Errorf("reading clipboard: %w", err)
	}
	data, ok := decodeClip(text)
	if !ok {
		return nil, ErrNoFragment
	}
	frag, err := readwrite.ReadFragment(bytes.NewReader(data), c.reg)
	if err != nil {
		return nil, err
	}
	if frag.Empty() {
		return nil, ErrNoFragment
	}

	var at scheme.Point
	if c.pasteOrigin != nil {
		at = *c.pasteOrigin
	} else {
		at = topLeft(frag.Nodes, frag.Annotations).Add(c.offset)
	}
	var nodes []*scheme.Node
	err = c.run("paste", func(ctx context.Context) error {
		nodes, err = c.insertFragment(ctx, "Paste", frag, at)
		return err
	}, attribute.Int(tracing.AttrCount, len(frag.Nodes)))
	if err != nil {
		return nil, err
	}
	next := at.Add(c.offset)
	c.pasteOrigin = &next
	c.record(context.Background(), sqlite.ActionPasted, nodes...)
	return nodes, nil
}

// DuplicateSelected copies the selection in place, offset by the duplicate
// offset, and selects the copies. The clipboard is untouched.
func (c *Controller) DuplicateSelected() ([]*scheme.Node, error) {
	nodes, links, anns := c.selection()
	if len(nodes) == 0 && len(anns) == 0 {
		return nil, ErrNothingSelected
	}
	var out []*scheme.Node
	err := c.run("duplicate", func(ctx context.Context) error {
		data, err := encodeSelection(nodes, links, anns)
		if err != nil {
			return err
		}
		frag, err := readwrite.ReadFragment(bytes.NewReader(data), c.reg)
		if err != nil {
			return err
		}
		out, err = c.insertFragment(ctx, "Duplicate", frag, topLeft(nodes, anns).Add(c.offset))
		return err
	}, attribute.Int(tracing.AttrCount, len(nodes)+len(anns)))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// insertFragment shifts frag so its top left corner is at, uniquifies the
// node titles and adds nodes, then links, then annotations as one step.
func (c *Controller) insertFragment(ctx context.Context, text string, frag *readwrite.Fragment, at scheme.Point) ([]*scheme.Node, error) {
	delta := at.Sub(topLeft(frag.Nodes, frag.Annotations))
	used := make(map[string]bool)
	for _, n := range c.scheme.AllNodes() {
		used[n.Title()] = true
	}
	for _, n := range frag.Nodes {
		title := uniquify(removeCopyNumber(n.Title()), used)
		used[title] = true
		n.SetTitle(title)
		n.SetPosition(n.Position().Add(delta))
	}
	for _, a := range frag.Annotations {
		g := command.GeometryOf(a)
		switch a := a.(type) {
		case *scheme.TextAnnotation:
			a.SetRect(g.Rect.Translate(delta))
		case *scheme.ArrowAnnotation:
			a.SetLine(g.Start.Add(delta), g.End.Add(delta))
		}
	}

	g := c.Current()
	err := c.group(text, func() error {
		for _, n := range frag.Nodes {
			if err := c.push(ctx, command.NewAddNode(g, n)); err != nil {
				return err
			}
		}
		for _, l := range frag.Links {
			if err := c.push(ctx, command.NewAddLink(g, l)); err != nil {
				return err
			}
		}
		for _, a := range frag.Annotations {
			if err := c.push(ctx, command.NewAddAnnotation(g, a)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sc := c.Scene()
	sc.ClearSelection()
	for _, n := range frag.Nodes {
		sc.Select(sc.NodeItem(n), true)
	}
	for _, a := range frag.Annotations {
		sc.Select(sc.AnnotationItem(a), true)
	}
	return frag.Nodes, nil
}

// topLeft is the minimum corner over node positions and annotation bounds.
func topLeft(nodes []*scheme.Node, anns []scheme.Annotation) scheme.Point {
	p := scheme.Point{X: math.Inf(1), Y: math.Inf(1)}
	for _, n := range nodes {
		p.X, p.Y = math.Min(p.X, n.Position().X), math.Min(p.Y, n.Position().Y)
	}
	for _, a := range anns {
		b := a.Bounds().Normalize()
		p.X, p.Y = math.Min(p.X, b.X), math.Min(p.Y, b.Y)
	}
	if math.IsInf(p.X, 1) {
		return scheme.Point{}
	}
	return p
}
