package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agendagraph/pkg/errors"
	pkgio "github.com/matzehuels/agendagraph/pkg/io"
	"github.com/matzehuels/agendagraph/pkg/pipeline"
	"github.com/matzehuels/agendagraph/pkg/watch"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	optionFlags
	output   string
	debounce time.Duration
	noCache  bool
}

// watchCommand creates the watch command, which re-converts a file on every save.
func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{output: pkgio.Stdio}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-convert an agenda file whenever it changes",
		Long: `Convert an agenda file once, then again after every change until interrupted.

Takes the same format and engine flags as convert. Conversion errors are
logged and watching continues.

Examples:
  agendagraph watch agenda.txt -o agenda.mmd
  agendagraph watch agenda.txt -f svg -e embedded -o agenda.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file (- for stdout, text formats only)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "quiet period before re-converting (default from config, 150ms)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered image cache")

	return cmd
}

func (c *CLI) runWatch(cmd *cobra.Command, input string, opts *watchOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := cfg.Options()
	opts.apply(cmd, &popts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if popts.IsImage() {
		if err := errors.ValidateOutputPath(opts.output); err != nil {
			return err
		}
	}
	debounce := cfg.WatchDebounce
	if opts.debounce > 0 {
		debounce = opts.debounce
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	convert := func(ctx context.Context) {
		if err := convertFile(ctx, cmd, runner, input, opts.output, popts); err != nil {
			printError("%s: %s", input, errors.UserMessage(err))
			logger.Debug("conversion failed", "file", input, "err", err)
		}
	}

	convert(ctx)
	printInfo("Watching %s", input)
	return watch.File(ctx, input, debounce, convert)
}

// convertFile runs one conversion of input and writes the result to output.
func convertFile(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, input, output string, opts pipeline.Options) error {
	text, err := pkgio.ReadText(input, nil)
	if err != nil {
		return err
	}
	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Convert(ctx, text, opts)
	if err != nil {
		return err
	}

	if result.Image != nil {
		if err := os.WriteFile(output, result.Image, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeOutputFailed, err, "write %s", output)
		}
	} else if err := pkgio.WriteText(output, result.Text, cmd.OutOrStdout()); err != nil {
		return err
	}
	prog.done("Converted "+input, "components", result.Stats.Components, "relations", result.Stats.Relations, "cached", result.CacheHit)
	return nil
}
