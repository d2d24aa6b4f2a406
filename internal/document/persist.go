package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/orchard/internal/log"
	"github.com/zjrosen/orchard/internal/readwrite"
	"github.com/zjrosen/orchard/internal/scheme"
	"github.com/zjrosen/orchard/internal/tracing"
)

// Load reads the document at path and makes it the edited document. Nodes
// and links that cannot be restored are skipped and returned as warnings.
func (c *Controller) Load(ctx context.Context, path string) (warnings []error, err error) {
	_, span := tracing.StartVerb(ctx, c.tracer, "load", attribute.String(tracing.AttrPath, path))
	defer func() { err = tracing.End(span, err) }()

	f, err := os.Open(path) //nolint:gosec // G304: the document path comes from the user
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	s, err := readwrite.Read(f, c.reg,
		readwrite.WithErrorHandler(func(e error) { warnings = append(warnings, e) }),
		readwrite.WithSchemeOptions(scheme.WithLoopPolicy(c.loops)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	c.SetScheme(s, path)
	span.SetAttributes(attribute.Int(tracing.AttrCount, len(s.AllNodes())))
	log.Info(log.CatDocument, "document loaded", "path", path, "nodes", len(s.AllNodes()), "warnings", len(warnings))
	return warnings, nil
}

// Save writes the document to path, or to the current path when path is
// empty, and marks the document clean.
func (c *Controller) Save(ctx context.Context, path string) (err error) {
	if path == "" {
		path = c.path
	}
	if path == "" {
		return ErrNoPath
	}
	_, span := tracing.StartVerb(ctx, c.tracer, "save", attribute.String(tracing.AttrPath, path))
	defer func() { err = tracing.End(span, err) }()

	var buf bytes.Buffer
	if err := readwrite.Write(&buf, c.scheme); err != nil {
		return err
	}
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	c.path = path
	c.saved = buf.Bytes()
	c.stack.SetClean()
	log.Info(log.CatDocument, "document saved", "path", path)
	c.events.Publish(Event{Kind: EventSaved, Path: path})
	return nil
}

// writeAtomic replaces path through a temporary file in the same directory.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// IsModified reports whether the document differs from its clean state.
func (c *Controller) IsModified() bool { return !c.stack.IsClean() }

// SetModified marks the document modified or clean without changing it.
func (c *Controller) SetModified(modified bool) {
	if modified {
		c.stack.SetDirty()
	} else {
		c.stack.SetClean()
	}
}

// MatchesSaved reports whether data is the document as last saved or loaded.
// The file watcher uses it to ignore its own writes.
func (c *Controller) MatchesSaved(data []byte) bool { return bytes.Equal(data, c.saved) }

func (c *Controller) snapshot() []byte {
	var buf bytes.Buffer
	if err := readwrite.Write(&buf, c.scheme); err != nil {
		log.ErrorErr(log.CatDocument, "snapshot failed", err)
		return nil
	}
	return buf.Bytes()
}

// UnsavedChanges returns a line diff of the last saved document against the
// current one: removed lines start with "-", added lines with "+". It is
// empty when the serialized documents are equal.
func (c *Controller) UnsavedChanges() string {
	current := c.snapshot()
	if bytes.Equal(current, c.saved) {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(c.saved), string(current))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return out.String()
}
