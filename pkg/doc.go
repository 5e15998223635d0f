// Package pkg provides the libraries behind agendagraph.
//
// # Overview
//
// Agendagraph turns a small tagged markup into diagrams. The pkg directory is
// organized into three areas:
//
//  1. Core: [agenda] parses text into a model, [diagram] formats it as
//     Mermaid or DOT. Both are pure and never fail.
//  2. Boundary: [render] runs mmdc, npx or dot (or Graphviz in-process),
//     [io] reads input and exports models, [cache] stores rendered images.
//  3. Services: [pipeline] ties the stages together for the CLI, [server]
//     and [watch]; [config], [metrics] and [observability] support them.
//
// # Architecture
//
// The typical data flow:
//
//	tagged agenda text
//	         ↓
//	    [agenda] (tags, then list / phrase / heuristic fallbacks)
//	         ↓
//	    [diagram] (one shared graph, two formatters)
//	         ↓
//	    Mermaid / DOT text ──→ [render] ──→ SVG / PNG
//
// # Quick Start
//
//	m := agenda.Parse(text)
//	out, _ := diagram.Render(m, diagram.FormatMermaid, diagram.Vertical)
//	fmt.Print(out)
//
// [agenda]: github.com/matzehuels/agendagraph/pkg/agenda
// [diagram]: github.com/matzehuels/agendagraph/pkg/diagram
// [render]: github.com/matzehuels/agendagraph/pkg/render
// [io]: github.com/matzehuels/agendagraph/pkg/io
// [cache]: github.com/matzehuels/agendagraph/pkg/cache
// [pipeline]: github.com/matzehuels/agendagraph/pkg/pipeline
// [server]: github.com/matzehuels/agendagraph/pkg/server
// [watch]: github.com/matzehuels/agendagraph/pkg/watch
// [config]: github.com/matzehuels/agendagraph/pkg/config
// [metrics]: github.com/matzehuels/agendagraph/pkg/metrics
// [observability]: github.com/matzehuels/agendagraph/pkg/observability
package pkg
