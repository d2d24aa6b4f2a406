package document

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/orchard/internal/command"
	"github.com/zjrosen/orchard/internal/infrastructure/sqlite"
	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/tracing"
)

// Drop payload MIME types.
const (
	MIMEQualifiedName = "application/vnd.orchard.widget-qualified-name"
	MIMEURIList       = "text/uri-list"
)

// Drop is data dropped onto the canvas at Pos.
type Drop struct {
	MIME string
	Data []byte
	Pos  scheme.Point
}

// DropHandler turns a drop into an edit.
type DropHandler interface {
	// Name identifies the handler when choosing between several.
	Name() string
	Accepts(c *Controller, d Drop) bool
	Drop(c *Controller, d Drop) error
}

// Disambiguator picks one of several accepting handlers. Returning false
// cancels the drop.
type Disambiguator func(d Drop, candidates []DropHandler) (DropHandler, bool)

// DefaultDropHandlers returns the built-in chain: qualified names first,
// then data files.
func DefaultDropHandlers() []DropHandler {
	return []DropHandler{QualifiedNameHandler{}, FileDropHandler()}
}

// Accepts reports whether any handler accepts d.
func (c *Controller) Accepts(d Drop) bool {
	return len(c.accepting(d)) > 0
}

func (c *Controller) accepting(d Drop) []DropHandler {
	var out []DropHandler
	for _, h := range c.drops {
		if h.Accepts(c, d) {
			out = append(out, h)
		}
	}
	return out
}

// HandleDrop runs the handler chosen for d. Without a disambiguator the
// first accepting handler wins.
func (c *Controller) HandleDrop(d Drop) error {
	candidates := c.accepting(d)
	if len(candidates) == 0 {
		return fmt.Errorf("%w: %s", ErrDropRejected, d.MIME)
	}
	h := candidates[0]
	if len(candidates) > 1 && c.disambiguate != nil {
		chosen, ok := c.disambiguate(d, candidates)
		if !ok {
			return ErrDropCancelled
		}
		h = chosen
	}
	log.Debug(log.CatDocument, "drop", "mime", d.MIME, "handler", h.Name(), "candidates", len(candidates))
	return h.Drop(c, d)
}

// QualifiedNameHandler creates a node of the widget named by the payload.
type QualifiedNameHandler struct{}

// Name implements DropHandler.
func (QualifiedNameHandler) Name() string { return "widget" }

// Accepts implements DropHandler.
func (QualifiedNameHandler) Accepts(c *Controller, d Drop) bool {
	return d.MIME == MIMEQualifiedName && c.reg.HasWidget(strings.TrimSpace(string(d.Data)))
}

// Drop implements DropHandler.
func (QualifiedNameHandler) Drop(c *Controller, d Drop) error {
	desc, err := c.reg.Widget(strings.TrimSpace(string(d.Data)))
	if err != nil {
		return err
	}
	pos := d.Pos
	_, err = c.CreateNewNode(desc, "", &pos)
	return err
}

// NodeFromMimeHandler creates a Widget node whose properties are derived from
// the payload. Activate, when set, runs on the new node.
type NodeFromMimeHandler struct {
	ID         string
	MIME       string
	Widget     string
	Match      func(d Drop) bool
	Properties func(d Drop) (map[string]any, error)
	Activate   func(n *scheme.Node)
}

// Name implements DropHandler.
func (h NodeFromMimeHandler) Name() string { return h.ID }

// Accepts implements DropHandler.
func (h NodeFromMimeHandler) Accepts(c *Controller, d Drop) bool {
	if d.MIME != h.MIME || !c.reg.HasWidget(h.Widget) {
		return false
	}
	return h.Match == nil || h.Match(d)
}

// Drop implements DropHandler.
func (h NodeFromMimeHandler) Drop(c *Controller, d Drop) error {
	desc, err := c.reg.Widget(h.Widget)
	if err != nil {
		return err
	}
	n := scheme.NewNode(desc, scheme.WithTitle(c.EnumerateTitle(desc.Name())), scheme.WithPosition(d.Pos))
	if h.Properties != nil {
		props, err := h.Properties(d)
		if err != nil {
			return fmt.Errorf("drop %s: %w", h.ID, err)
		}
		for k, v := range props {
			n.SetProperty(k, v)
		}
	}
	err = c.run("drop_node", func(ctx context.Context) error {
		if err := c.pushGesture(ctx, command.NewAddNode(c.Current(), n)); err != nil {
			return err
		}
		c.record(ctx, sqlite.ActionCreated, n)
		return nil
	}, attribute.String(tracing.AttrWidget, h.Widget))
	if err != nil {
		return err
	}
	if h.Activate != nil {
		h.Activate(n)
	}
	return nil
}

// dataFileExtensions are opened by the File widget.
var dataFileExtensions = map[string]bool{".csv": true, ".tsv": true, ".tab": true, ".xlsx": true}

// FileDropHandler creates a File node for a dropped data file.
func FileDropHandler() NodeFromMimeHandler {
	return NodeFromMimeHandler{
		ID:     "file",
		MIME:   MIMEURIList,
		Widget: "orchard.data.File",
		Match: func(d Drop) bool {
			path, ok := firstPath(d.Data)
			return ok && dataFileExtensions[strings.ToLower(filepath.Ext(path))]
		},
		Properties: func(d Drop) (map[string]any, error) {
			path, _ := firstPath(d.Data)
			return map[string]any{"recent_paths": []any{path}}, nil
		},
	}
}

// firstPath returns the first local path of a text/uri-list payload.
func firstPath(data []byte) (string, bool) {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil {
			continue
		}
		switch u.Scheme {
		case "file":
			return u.Path, true
		case "":
			return line, true
		}
	}
	return "", false
}
