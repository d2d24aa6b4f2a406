package scheme

// Reachability crosses meta node boundaries. Every link contributes the edge
// (source, sink). When the sink is a meta node the link also leads to the
// Input proxy of the sink channel, and when the source is a meta node the
// Output proxy of the source channel also leads along the link. Upstream and
// downstream are reverse and forward reachability over this one relation,
// so Y is downstream of X exactly when X is upstream of Y.

// successors returns the nodes one edge after n.
func successors(n *Node) []*Node {
	g := n.graph
	if g == nil {
		return nil
	}
	var out []*Node
	for _, l := range g.FindLinks(LinkQuery{Source: n}) {
		out = append(out, stepIn(l)...)
	}
	if n.kind == KindOutput && g.owner != nil {
		if parent := g.Parent(); parent != nil {
			for _, l := range parent.FindLinks(LinkQuery{Source: g.owner, SourceChannel: n.boundaryOut}) {
				out = append(out, stepIn(l)...)
			}
		}
	}
	return out
}

// predecessors returns the nodes one edge before n.
func predecessors(n *Node) []*Node {
	g := n.graph
	if g == nil {
		return nil
	}
	var out []*Node
	for _, l := range g.FindLinks(LinkQuery{Sink: n}) {
		out = append(out, stepBack(l)...)
	}
	if n.kind == KindInput && g.owner != nil {
		if parent := g.Parent(); parent != nil {
			for _, l := range parent.FindLinks(LinkQuery{Sink: g.owner, SinkChannel: n.boundaryIn}) {
				out = append(out, stepBack(l)...)
			}
		}
	}
	return out
}

// stepIn yields the sink of l and, for a meta sink, the matching Input proxy.
func stepIn(l *Link) []*Node {
	out := []*Node{l.sink}
	if l.sink.sub != nil {
		if p := l.sink.sub.NodeForInputChannel(l.sinkChannel); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// stepBack yields the source of l and, for a meta source, the matching
// Output proxy.
func stepBack(l *Link) []*Node {
	out := []*Node{l.source}
	if l.source.sub != nil {
		if p := l.source.sub.NodeForOutputChannel(l.sourceChannel); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func reach(start *Node, next func(*Node) []*Node) []*Node {
	seen := map[*Node]bool{start: true}
	queue := []*Node{start}
	var out []*Node
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, m := range next(cur) {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
			queue = append(queue, m)
		}
	}
	return out
}

// DownstreamNodes returns every node reachable from n, excluding n, in
// breadth-first order.
func DownstreamNodes(n *Node) []*Node { return reach(n, successors) }

// UpstreamNodes returns every node n is reachable from, excluding n, in
// breadth-first order.
func UpstreamNodes(n *Node) []*Node { return reach(n, predecessors) }
