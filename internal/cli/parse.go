package cli

import (
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/agendagraph/pkg/io"
	"github.com/matzehuels/agendagraph/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output   string // output file, "-" for stdout
	encoding string // json or yaml; guessed from output when empty
	phrases  bool   // enable the capitalized-phrase fallback
}

// parseCommand creates the parse command, which prints the agenda model the
// diagrams are built from.
func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{output: pkgio.Stdio}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the parsed agenda model as JSON or YAML",
		Long: `Parse tagged agenda text and print the theme, components and relations it contains.

Reads stdin when no file (or -) is given. The encoding follows the output file's
extension unless --output-format is set.

Examples:
  agendagraph parse agenda.txt
  agendagraph parse agenda.txt -o agenda.yaml
  cat agenda.txt | agendagraph parse --output-format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := pkgio.Stdio
			if len(args) == 1 {
				input = args[0]
			}
			return c.runParse(cmd, input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file (- for stdout)")
	cmd.Flags().StringVar(&opts.encoding, "output-format", "", "model encoding: json, yaml (default from output extension)")
	cmd.Flags().BoolVar(&opts.phrases, "phrases", false, "derive components from capitalized phrases when no tags are found")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, input string, opts *parseOpts) error {
	ctx := cmd.Context()

	enc := pkgio.EncodingForPath(opts.output)
	if opts.encoding != "" {
		var err error
		if enc, err = pkgio.ParseEncoding(opts.encoding); err != nil {
			return err
		}
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := pipeline.Options{Phrases: cfg.Phrases}
	if cmd.Flags().Changed("phrases") {
		popts.Phrases = opts.phrases
	}

	text, err := pkgio.ReadText(input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	m, src := pipeline.NewRunner(nil, nil, loggerFromContext(ctx)).Parse(ctx, text, popts)

	if opts.output == pkgio.Stdio {
		return pkgio.WriteModel(cmd.OutOrStdout(), m, enc)
	}
	if err := pkgio.ExportModel(m, opts.output, enc); err != nil {
		return err
	}
	printSuccess("Parsed %q", m.Theme)
	printFile(opts.output)
	printStats(len(m.Components), len(m.Relations), string(src), nil)
	printNextStep("Preview it", appName+" preview "+opts.output)
	return nil
}
