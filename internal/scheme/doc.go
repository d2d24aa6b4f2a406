// Package scheme is the in-memory workflow graph.
//
// A Scheme is the document root. It owns a root Graph, and every Graph owns
// its nodes, links and annotations in insertion order. Meta nodes own a
// nested Graph whose Input and Output proxy nodes expose the meta node's
// channels to the inside. Nodes and links keep non-owning back-references to
// the Graph that contains them.
//
// Every mutation validates first and either fails with a sentinel error,
// leaving the graph untouched, or commits and then notifies subscribers
// synchronously, in subscription order. When a node is removed together with
// its links, the link removals are always announced before the node removal.
//
// The package is not safe for concurrent use. It is driven from a single
// event loop.
package scheme
