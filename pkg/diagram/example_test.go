package diagram_test

import (
	"fmt"

	"github.com/matzehuels/agendagraph/pkg/agenda"
	"github.com/matzehuels/agendagraph/pkg/diagram"
)

func ExampleMermaid() {
	m := agenda.Parse(`[theme]Grid[/theme]
[component time=past]Meters[/component]
[component time=future]Storage[/component]
[relation:feeds]Meters->Storage[/relation:feeds]`)

	fmt.Print(diagram.Mermaid(diagram.Build(m), diagram.Horizontal))
	// Output:
	// graph LR
	// NGrid["Grid"]
	//   subgraph Past
	//     NMeters["Meters"]
	//   end
	//   subgraph Future
	//     NStorage["Storage"]
	//   end
	// NGrid --> NMeters
	// NGrid --> NStorage
	// NMeters -->|feeds| NStorage
}
