// Package diagram renders an agenda model as Mermaid or Graphviz DOT text.
//
// # Overview
//
// Rendering happens in two steps. [Build] walks an [agenda.Model] once and
// produces a grammar-neutral [Graph]: the root node, one [Cluster] per
// non-empty lane (past, current, future) and the full edge list. [Mermaid]
// and [DOT] are stateless formatting passes over that graph, so both outputs
// always contain the same nodes and edges:
//
//	m := agenda.Parse(text)
//	g := diagram.Build(m)
//	flow := diagram.Mermaid(g, diagram.Vertical)
//	dot := diagram.DOT(g, diagram.Horizontal)
//
// [Render] combines both steps for a [Format].
//
// # Edges
//
// The edge list is, in order: for every component a root edge followed by a
// parent edge when the component has a parent, then one edge per relation.
// Edges are never deduplicated. Components that share a name share one node,
// drawn in the lane of their first occurrence.
//
// # Dangling names
//
// Parents and relation endpoints that do not name a component still get an
// edge; their identifier is computed from the raw name with [agenda.ID]. Hand
// written agendas often misspell cross references, and an extra node is more
// useful than a failure.
package diagram
