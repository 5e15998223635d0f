package diagram

import (
	"fmt"
	"strings"
)

var mermaidEscaper = strings.NewReplacer(`"`, "#quot;", "|", "#124;", "\r\n", "<br/>", "\n", "<br/>")

// Mermaid formats g as a Mermaid flowchart. Lanes become subgraphs titled
// Past, Current and Future; relation edges carry their type as edge text.
func Mermaid(g Graph, o Orientation) string {
	var b strings.Builder
	dir := "TD"
	if o == Horizontal {
		dir = "LR"
	}
	fmt.Fprintf(&b, "graph %s\n", dir)
	fmt.Fprintf(&b, "%s\n", mermaidNode(g.Root))

	for _, c := range g.Clusters {
		fmt.Fprintf(&b, "  subgraph %s\n", c.Lane.Title())
		for _, n := range c.Nodes {
			fmt.Fprintf(&b, "    %s\n", mermaidNode(n))
		}
		b.WriteString("  end\n")
	}

	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&b, "%s -->|%s| %s\n", e.From, mermaidEscaper.Replace(e.Label), e.To)
		} else {
			fmt.Fprintf(&b, "%s --> %s\n", e.From, e.To)
		}
	}
	return b.String()
}

func mermaidNode(n Node) string {
	return fmt.Sprintf(`%s["%s"]`, n.ID, mermaidEscaper.Replace(n.Label))
}
