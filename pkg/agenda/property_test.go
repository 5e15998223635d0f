package agenda

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var validIDRe = regexp.MustCompile(`^N[A-Za-z0-9_]*$`)

// TestParserInvariants checks properties that hold for any input.
func TestParserInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ID is total, deterministic and syntactically safe", prop.ForAll(
		func(label string) bool {
			id := ID(label)
			return id == ID(label) && validIDRe.MatchString(id) && !strings.Contains(id, "__")
		},
		gen.AnyString(),
	))

	properties.Property("Parse never panics and normalizes lanes", prop.ForAll(
		func(text string) bool {
			m := Parse(text)
			for _, c := range m.Components {
				if c.Time != LanePast && c.Time != LaneCurrent && c.Time != LaneFuture {
					return false
				}
				if c.Name != strings.TrimSpace(c.Name) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("component count equals tag count", prop.ForAll(
		func(comps, subs []string) bool {
			var b strings.Builder
			for _, name := range comps {
				fmt.Fprintf(&b, "[component time=past]%s[/component] ", name)
			}
			for _, name := range subs {
				fmt.Fprintf(&b, "[subcomponent of=root]%s[/subcomponent] ", name)
			}
			m, src := NewParser().ParseWithSource(b.String())
			if len(comps)+len(subs) == 0 {
				return src != SourceTags
			}
			if len(m.Components) != len(comps)+len(subs) {
				return false
			}
			for i, name := range comps {
				if m.Components[i].Name != name || m.Components[i].Time != LanePast {
					return false
				}
			}
			for i, name := range subs {
				c := m.Components[len(comps)+i]
				if c.Name != name || c.Parent != "root" {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString().SuchThat(func(s string) bool { return s != "" })),
		gen.SliceOf(gen.AlphaString().SuchThat(func(s string) bool { return s != "" })),
	))

	properties.Property("one relation per well-formed pair, none for chains", prop.ForAll(
		func(from, to, typ string) bool {
			pair := fmt.Sprintf("[relation:%s]%s->%s[/relation:%s]", typ, from, to, typ)
			chain := fmt.Sprintf("[relation:%s]%s->%s->%s[/relation:%s]", typ, from, to, from, typ)
			got := Parse(pair).Relations
			return len(got) == 1 &&
				got[0] == Relation{From: from, To: to, Type: typ} &&
				len(Parse(chain).Relations) == 0
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
