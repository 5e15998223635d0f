package agenda_test

import (
	"fmt"

	"github.com/matzehuels/agendagraph/pkg/agenda"
)

func ExampleParse() {
	m := agenda.Parse(`[theme]Resilient grids[/theme]
[component time=past]Manual dispatch[/component]
[component]Smart meters[/component]
[subcomponent of=Smart meters]Edge gateways[/subcomponent]
[relation:replaces]Smart meters->Manual dispatch[/relation:replaces]`)

	fmt.Println(m.Theme)
	for _, c := range m.Components {
		fmt.Printf("%s (%s) parent=%q\n", c.Name, c.Time, c.Parent)
	}
	for _, r := range m.Relations {
		fmt.Printf("%s -%s-> %s\n", r.From, r.Type, r.To)
	}
	// Output:
	// Resilient grids
	// Manual dispatch (past) parent=""
	// Smart meters (current) parent=""
	// Edge gateways (current) parent="Smart meters"
	// Smart meters -replaces-> Manual dispatch
}

func ExampleParser_ParseWithSource() {
	p := agenda.NewParser(agenda.WithPhraseExtractor(agenda.CapitalizedPhrases))
	m, src := p.ParseWithSource("Ocean research. We combine Satellite Imaging with Autonomous Gliders.")

	fmt.Println(src)
	for _, c := range m.Components {
		fmt.Println(c.Name)
	}
	// Output:
	// phrases
	// Satellite Imaging
	// Autonomous Gliders
}

func ExampleID() {
	fmt.Println(agenda.ID("Smart meters"))
	fmt.Println(agenda.ID("2030 targets!"))
	// Output:
	// NSmart_meters
	// N2030_targets_
}
