// Package render turns diagram text into image files.
//
// Three engines are supported:
//
//   - [EngineMermaid] runs the Mermaid CLI (mmdc), falling back to
//     "npx -y @mermaid-js/mermaid-cli mmdc" when mmdc is not on PATH.
//   - [EngineGraphviz] runs the Graphviz dot binary with -T<format>.
//   - [EngineEmbedded] renders DOT in-process with go-graphviz and needs no
//     external program.
//
// External engines receive a temporary diagram file (.mmd or .dot) and write
// their image to an output path. The temporary file is removed afterwards.
// A missing program is reported with errors.ErrCodeRendererNotFound and a
// non-zero exit with *errors.ExitError carrying the program's status.
//
// # Usage
//
//	r := render.New(logger)
//	png, err := r.Render(ctx, render.EngineGraphviz, render.PNG, dotText)
//
// Use [Renderer.Command] to inspect the argument vector without running it.
package render
