package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/agendagraph/pkg/pipeline"
)

// optionFlags holds the pipeline flags shared by convert, watch and serve.
// Flags override the config file only when set on the command line.
type optionFlags struct {
	format      string
	engine      string
	orientation string
	phrases     bool
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: mermaid (default), dot, svg, png")
	cmd.Flags().StringVarP(&f.engine, "engine", "e", "", "image engine: mermaid (default), graphviz, embedded")
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "flow direction: vertical (default), horizontal")
	cmd.Flags().BoolVar(&f.phrases, "phrases", false, "derive components from capitalized phrases when no tags are found")
}

// apply overlays the flags the user set onto opts.
func (f *optionFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		opts.Format = f.format
	}
	if flags.Changed("engine") {
		opts.Engine = f.engine
	}
	if flags.Changed("orientation") {
		opts.Orientation = f.orientation
	}
	if flags.Changed("phrases") {
		opts.Phrases = f.phrases
	}
}
