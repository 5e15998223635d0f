package diagram

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/agendagraph/pkg/agenda"
)

// TestRendererInvariants checks properties that hold for any parsed agenda.
func TestRendererInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("rendering is deterministic", prop.ForAll(
		func(text string) bool {
			m := agenda.Parse(text)
			return Mermaid(Build(m), Vertical) == Mermaid(Build(m), Vertical) &&
				DOT(Build(m), Horizontal) == DOT(Build(m), Horizontal)
		},
		gen.AnyString(),
	))

	properties.Property("edge count is components + parents + relations", prop.ForAll(
		func(names []string, typ string) bool {
			m := &agenda.Model{Theme: "T"}
			parents := 0
			for i, name := range names {
				c := agenda.Component{Name: name, Time: agenda.Lanes[i%len(agenda.Lanes)]}
				if i > 0 {
					c.Parent = names[i-1]
					parents++
				}
				m.Components = append(m.Components, c)
				m.Relations = append(m.Relations, agenda.Relation{From: name, To: "T", Type: typ})
			}
			want := len(names) + parents + len(names)
			g := Build(m)
			return len(g.Edges) == want &&
				strings.Count(DOT(g, Vertical), " -> ") == want &&
				strings.Count(Mermaid(g, Vertical), " -->") == want
		},
		gen.SliceOf(gen.Identifier()),
		gen.Identifier(),
	))

	properties.Property("every output ends with a newline", prop.ForAll(
		func(text string) bool {
			g := Build(agenda.Parse(text))
			return strings.HasSuffix(Mermaid(g, Horizontal), "\n") && strings.HasSuffix(DOT(g, Vertical), "}\n")
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
