package scheme

import (
	"sort"

	"github.com/zjrosen/orchard/internal/registry"
)

// Proposal is a candidate channel pair for connecting two nodes.
type Proposal struct {
	Output  *registry.OutputSignal
	Input   *registry.InputSignal
	Weight  int
	Dynamic bool
}

// Proposal weights. Bigger is better.
const (
	weightFreeSink    = 16
	weightStrict      = 8
	weightDynamic     = 4
	weightDefaultFlag = 2
	weightSameName    = 1
)

// ProposeLinks ranks the compatible (output, input) pairs from source to sink,
// best first. Channels flagged Explicit are not proposed, and neither are
// pairs that would fail CheckConnect for reasons other than an occupied sink.
func (g *Graph) ProposeLinks(source, sink *Node) []Proposal {
	if source == sink || source.graph != g || sink.graph != g {
		return nil
	}
	if g.checkTopology(source, sink) != nil {
		return nil
	}

	types := g.types()
	var out []Proposal
	for _, o := range source.Outputs() {
		if o.Flags.Has(registry.FlagExplicit) {
			continue
		}
		for _, in := range sink.Inputs() {
			if in.Flags.Has(registry.FlagExplicit) {
				continue
			}
			strict, dynamic := types.Classify(o, in)
			if !strict && !dynamic {
				continue
			}
			if len(g.FindLinks(LinkQuery{Source: source, SourceChannel: o, Sink: sink, SinkChannel: in})) > 0 {
				continue
			}

			p := Proposal{Output: o, Input: in, Dynamic: !strict}
			if strict {
				p.Weight += weightStrict
			} else {
				p.Weight += weightDynamic
			}
			if g.enabledLinkInto(sink, in) == nil {
				p.Weight += weightFreeSink
			}
			if o.Flags.Has(registry.FlagDefault) {
				p.Weight += weightDefaultFlag
			}
			if in.Flags.Has(registry.FlagDefault) {
				p.Weight += weightDefaultFlag
			}
			if o.Name == in.Name {
				p.Weight += weightSameName
			}
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// Occupied returns the enabled link feeding input in of sink, or nil.
func (g *Graph) Occupied(sink *Node, in *registry.InputSignal) *Link {
	return g.enabledLinkInto(sink, in)
}
