package diagram

import (
	"fmt"
	"strings"
)

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`)

// DOT formats g as a Graphviz digraph. Lanes become clusters labeled Past,
// Current and Future. Relation edges get a label attribute only when their
// type is non-empty.
func DOT(g Graph, o Orientation) string {
	var b strings.Builder
	rankdir := "TB"
	if o == Horizontal {
		rankdir = "LR"
	}
	b.WriteString("digraph G {\n")
	fmt.Fprintf(&b, "  rankdir=%s;\n", rankdir)
	b.WriteString("  node [shape=box];\n")
	fmt.Fprintf(&b, "  %s [label=%s];\n", g.Root.ID, dotQuote(g.Root.Label))

	for _, c := range g.Clusters {
		fmt.Fprintf(&b, "  subgraph cluster_%s {\n", c.Lane)
		fmt.Fprintf(&b, "    label = %s;\n", dotQuote(c.Lane.Title()))
		for _, n := range c.Nodes {
			fmt.Fprintf(&b, "    %s [label=%s];\n", n.ID, dotQuote(n.Label))
		}
		b.WriteString("  }\n")
	}

	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&b, "  %s -> %s [label=%s];\n", e.From, e.To, dotQuote(e.Label))
		} else {
			fmt.Fprintf(&b, "  %s -> %s;\n", e.From, e.To)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
