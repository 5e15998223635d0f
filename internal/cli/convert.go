package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agendagraph/pkg/errors"
	pkgio "github.com/matzehuels/agendagraph/pkg/io"
	"github.com/matzehuels/agendagraph/pkg/pipeline"
	"github.com/matzehuels/agendagraph/pkg/render"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	optionFlags
	input   string // agenda file, "-" for stdin
	output  string // destination, "-" for stdout
	noCache bool   // disable the image cache
	refresh bool   // re-render even when cached
}

// convertCommand creates the convert command, the default agenda-to-diagram path.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{input: pkgio.Stdio, output: pkgio.Stdio}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert tagged agenda text into a diagram or image",
		Long: `Convert tagged agenda text into Mermaid or DOT diagram text, or render it to an image.

Text formats (mermaid, dot) are written to stdout unless -o is given. Image formats
(svg, png) need an output file and are rendered by the selected engine:

  mermaid   mmdc, or npx -y @mermaid-js/mermaid-cli when mmdc is not installed
  graphviz  the dot program
  embedded  Graphviz compiled into agendagraph, no external program needed

Examples:
  agendagraph convert -i agenda.txt
  agendagraph convert -i agenda.txt -f dot --orientation horizontal -o agenda.dot
  cat agenda.txt | agendagraph convert -f svg -o agenda.svg
  agendagraph convert -i agenda.txt -f png -e embedded -o agenda.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.input, "input", "i", opts.input, "agenda file (- for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file (- for stdout, text formats only)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered image cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render images even when cached")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, opts *convertOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := cfg.Options()
	opts.apply(cmd, &popts)
	popts.Refresh = opts.refresh
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	// Fail before reading stdin so a missing -o is reported immediately.
	if popts.IsImage() {
		if err := errors.ValidateOutputPath(opts.output); err != nil {
			return err
		}
		if err := errors.ValidateImageExt(opts.output, popts.Format); err != nil {
			logger.Warn(errors.UserMessage(err))
		}
	}

	text, err := pkgio.ReadText(opts.input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if !popts.IsImage() {
		result, err := runner.Convert(ctx, text, popts)
		if err != nil {
			return err
		}
		logger.Debug("converted agenda", "run", result.RunID, "source", result.Source,
			"components", result.Stats.Components, "relations", result.Stats.Relations)
		if err := pkgio.WriteText(opts.output, result.Text, cmd.OutOrStdout()); err != nil {
			return err
		}
		if opts.output != pkgio.Stdio {
			printSuccess("Wrote %s diagram", result.Grammar)
			printFile(opts.output)
			printStats(result.Stats.Components, result.Stats.Relations, string(result.Source), nil)
		}
		return nil
	}

	return renderImage(ctx, runner, text, popts, opts.output)
}

// renderImage converts text to an image file, showing a spinner while an
// external engine runs.
func renderImage(ctx context.Context, runner *pipeline.Runner, text string, opts pipeline.Options, output string) error {
	prog := newProgress(loggerFromContext(ctx))

	var spinner *Spinner
	if render.Engine(opts.Engine) != render.EngineEmbedded {
		spinner = newSpinner(ctx, uiOut, fmt.Sprintf("Rendering %s with %s", opts.Format, opts.Engine))
		spinner.Start()
	}
	result, err := runner.Convert(ctx, text, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if errors.Is(err, errors.ErrCodeRendererNotFound) {
			printWarning("No %s renderer found; install it or use --engine embedded", opts.Engine)
		}
		return err
	}

	if err := os.WriteFile(output, result.Image, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputFailed, err, "write %s", output)
	}

	prog.done("Rendered "+output, "engine", opts.Engine, "bytes", len(result.Image))
	printSuccess("Rendered %s with %s", opts.Format, opts.Engine)
	printFile(output)
	cached := result.CacheHit
	printStats(result.Stats.Components, result.Stats.Relations, string(result.Source), &cached)
	return nil
}
