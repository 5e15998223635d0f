package diagram

import (
	"fmt"

	"github.com/matzehuels/agendagraph/pkg/agenda"
	"github.com/matzehuels/agendagraph/pkg/errors"
)

// DefaultTheme labels the root node when a model has no theme.
const DefaultTheme = "Theme"

// Orientation selects the flow direction of the diagram.
type Orientation string

const (
	Vertical   Orientation = "vertical"   // top to bottom
	Horizontal Orientation = "horizontal" // left to right
)

// ParseOrientation validates s as an orientation. The empty string is Vertical.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case Vertical, "":
		return Vertical, nil
	case Horizontal:
		return Horizontal, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOrientation,
		"invalid orientation: %s (must be 'vertical' or 'horizontal')", s)
}

// Node is a drawable node.
type Node struct {
	ID    string
	Label string
}

// Cluster holds the nodes of one lane, in model order.
type Cluster struct {
	Lane  agenda.Lane
	Nodes []Node
}

// EdgeKind tells why an edge exists.
type EdgeKind int

const (
	EdgeRoot     EdgeKind = iota // theme to component
	EdgeParent                   // parent to subcomponent
	EdgeRelation                 // typed relation
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeRoot:
		return "root"
	case EdgeParent:
		return "parent"
	case EdgeRelation:
		return "relation"
	}
	return fmt.Sprintf("EdgeKind(%d)", int(k))
}

// Edge is a directed edge between node identifiers. Label is only set for
// relations and may be empty.
type Edge struct {
	From  string
	To    string
	Label string
	Kind  EdgeKind
}

// Graph is the grammar-neutral form shared by all formatters.
type Graph struct {
	Root     Node
	Clusters []Cluster
	Edges    []Edge
}

// Build converts m into a Graph. It never fails; see the package
// documentation for the edge order and the handling of unknown names.
func Build(m *agenda.Model) Graph {
	theme := m.Theme
	if theme == "" {
		theme = DefaultTheme
	}
	g := Graph{Root: Node{ID: agenda.ID(theme), Label: theme}}

	ids := make(map[string]string, len(m.Components))
	byLane := m.ByLane()
	for _, lane := range agenda.Lanes {
		comps := byLane[lane]
		if len(comps) == 0 {
			continue
		}
		nodes := make([]Node, 0, len(comps))
		for _, c := range comps {
			ids[c.Name] = agenda.ID(c.Name)
			nodes = append(nodes, Node{ID: ids[c.Name], Label: c.Name})
		}
		g.Clusters = append(g.Clusters, Cluster{Lane: lane, Nodes: nodes})
	}

	resolve := func(name string) string {
		if id, ok := ids[name]; ok {
			return id
		}
		return agenda.ID(name)
	}

	for _, c := range m.Components {
		id := resolve(c.Name)
		g.Edges = append(g.Edges, Edge{From: g.Root.ID, To: id, Kind: EdgeRoot})
		if c.Parent != "" {
			g.Edges = append(g.Edges, Edge{From: resolve(c.Parent), To: id, Kind: EdgeParent})
		}
	}
	for _, r := range m.Relations {
		g.Edges = append(g.Edges, Edge{
			From:  resolve(r.From),
			To:    resolve(r.To),
			Label: r.Type,
			Kind:  EdgeRelation,
		})
	}
	return g
}
