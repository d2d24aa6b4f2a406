// Package markdown renders widget documentation for the describe panel.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/orchard/internal/registry"
)

// noMarginStyle removes glamour's document margins so the text lines up with
// the panel border.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour renderer at a fixed wrap width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer. style is a glamour standard style name ("dark",
// "light", "notty") or "auto" to detect the terminal background.
func New(width int, style string) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	opts = append(opts, glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)))

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// RenderWidget renders the documentation page of a widget: its name,
// description and channel tables.
func (r *Renderer) RenderWidget(w *registry.WidgetDescription) (string, error) {
	return r.Render(WidgetDoc(w))
}

// WidgetDoc builds the markdown source of a widget's documentation page.
func WidgetDoc(w *registry.WidgetDescription) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", w.Name())
	fmt.Fprintf(&b, "`%s` in *%s*\n\n", w.QualifiedName(), w.Category())
	if d := strings.TrimSpace(w.Description()); d != "" {
		b.WriteString(d)
		b.WriteString("\n\n")
	}

	if in := w.Inputs(); len(in) > 0 {
		b.WriteString("## Inputs\n\n| Channel | Type | |\n|---|---|---|\n")
		for _, s := range in {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Name, s.Type, flagNotes(s.Flags))
		}
		b.WriteString("\n")
	}
	if out := w.Outputs(); len(out) > 0 {
		b.WriteString("## Outputs\n\n| Channel | Type | |\n|---|---|---|\n")
		for _, s := range out {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Name, s.Type, flagNotes(s.Flags))
		}
		b.WriteString("\n")
	}
	if kw := w.Keywords(); len(kw) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(kw, ", "))
	}
	return b.String()
}

func flagNotes(f registry.SignalFlag) string {
	var notes []string
	if f.Has(registry.FlagDefault) {
		notes = append(notes, "default")
	}
	if f.Has(registry.FlagExplicit) {
		notes = append(notes, "explicit")
	}
	if f.Has(registry.FlagDynamic) {
		notes = append(notes, "dynamic")
	}
	return strings.Join(notes, ", ")
}
