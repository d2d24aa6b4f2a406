package readwrite

import (
	"encoding/base64"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
)

// Write encodes s as a workflow document.
func Write(w io.Writer, s *scheme.Scheme) error {
	doc := documentFile{
		Format:      FormatWorkflow,
		Version:     Version,
		Title:       s.Title(),
		Description: s.Description(),
		Graph:       encodeGraph(s.Root().Nodes(), s.Root().Links(), s.Root().Annotations()),
	}
	if env := s.Env(); len(env) > 0 {
		doc.Env = env
	}
	for _, g := range s.WindowPresets() {
		p := presetDef{Name: g.Name, Default: g.Default}
		for _, st := range g.State {
			p.State = append(p.State, stateDef{Node: st.Node.ID(), Data: base64.StdEncoding.EncodeToString(st.Data)})
		}
		doc.Presets = append(doc.Presets, p)
	}
	return encode(w, doc)
}

// WriteFragment encodes a selection. Links are kept only when both endpoints
// are among nodes.
func WriteFragment(w io.Writer, nodes []*scheme.Node, links []*scheme.Link, annotations []scheme.Annotation) error {
	var kept []*scheme.Link
	for _, l := range links {
		if slices.Contains(nodes, l.Source()) && slices.Contains(nodes, l.Sink()) {
			kept = append(kept, l)
		}
	}
	return encode(w, documentFile{
		Format:  FormatFragment,
		Version: Version,
		Graph:   encodeGraph(nodes, kept, annotations),
	})
}

func encode(w io.Writer, doc documentFile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding workflow: %w", err)
	}
	return enc.Close()
}

func encodeGraph(nodes []*scheme.Node, links []*scheme.Link, annotations []scheme.Annotation) graphDef {
	var g graphDef
	for _, n := range nodes {
		g.Nodes = append(g.Nodes, encodeNode(n))
	}
	for _, l := range links {
		def := linkDef{
			ID:            l.ID(),
			Source:        l.Source().ID(),
			SourceChannel: l.SourceChannel().Name,
			Sink:          l.Sink().ID(),
			SinkChannel:   l.SinkChannel().Name,
		}
		if !l.Enabled() {
			disabled := false
			def.Enabled = &disabled
		}
		if props := l.Properties(); len(props) > 0 {
			def.Properties = props
		}
		g.Links = append(g.Links, def)
	}
	for _, a := range annotations {
		g.Annotations = append(g.Annotations, encodeAnnotation(a))
	}
	return g
}

func encodeNode(n *scheme.Node) nodeDef {
	pos := n.Position()
	def := nodeDef{
		ID:       n.ID(),
		Title:    n.Title(),
		Position: [2]float64{pos.X, pos.Y},
	}
	if props := n.Properties(); len(props) > 0 {
		def.Properties = props
	}

	switch n.Kind() {
	case scheme.KindWidget:
		def.Widget = n.QualifiedName()
		if desc := n.Description(); !sameInputs(desc.Inputs(), n.Inputs()) || !sameOutputs(desc.Outputs(), n.Outputs()) {
			for _, c := range n.Inputs() {
				def.Inputs = append(def.Inputs, channelDef{Name: c.Name, Type: c.Type, Handler: c.Handler, Flags: flagNames(c.Flags)})
			}
			for _, c := range n.Outputs() {
				def.Outputs = append(def.Outputs, channelDef{Name: c.Name, Type: c.Type, Flags: flagNames(c.Flags)})
			}
		}
	case scheme.KindMeta:
		def.Kind = kindMeta
		sub := n.SubGraph()
		g := encodeGraph(sub.Nodes(), sub.Links(), sub.Annotations())
		def.Graph = &g
	case scheme.KindInput:
		def.Kind = kindInput
		c := n.BoundaryInput()
		def.Channel = &channelDef{Name: c.Name, Type: c.Type, Handler: c.Handler, Flags: flagNames(c.Flags)}
	case scheme.KindOutput:
		def.Kind = kindOutput
		c := n.BoundaryOutput()
		def.Channel = &channelDef{Name: c.Name, Type: c.Type, Flags: flagNames(c.Flags)}
	}
	return def
}

func encodeAnnotation(a scheme.Annotation) annotationDef {
	def := annotationDef{ID: a.ID()}
	switch a := a.(type) {
	case *scheme.TextAnnotation:
		r := a.Rect()
		def.Type = "text"
		def.Rect = &[4]float64{r.X, r.Y, r.W, r.H}
		def.Content = a.Content()
		if a.ContentType() != scheme.ContentPlain {
			def.ContentType = a.ContentType()
		}
		if f := a.Font(); f != (scheme.Font{}) {
			def.Font = &fontDef{Family: f.Family, Size: f.Size}
		}
	case *scheme.ArrowAnnotation:
		start, end := a.Line()
		def.Type = "arrow"
		def.Start = &[2]float64{start.X, start.Y}
		def.End = &[2]float64{end.X, end.Y}
		def.Color = a.Color()
	}
	return def
}

func sameInputs(a, b []*registry.InputSignal) bool {
	return slices.EqualFunc(a, b, func(x, y *registry.InputSignal) bool { return x.Name == y.Name && x.Type == y.Type })
}

func sameOutputs(a, b []*registry.OutputSignal) bool {
	return slices.EqualFunc(a, b, func(x, y *registry.OutputSignal) bool { return x.Name == y.Name && x.Type == y.Type })
}

func flagNames(f registry.SignalFlag) []string {
	var out []string
	if f.Has(registry.FlagDefault) {
		out = append(out, "default")
	}
	if f.Has(registry.FlagExplicit) {
		out = append(out, "explicit")
	}
	if f.Has(registry.FlagDynamic) {
		out = append(out, "dynamic")
	}
	return out
}
