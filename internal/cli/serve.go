package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agendagraph/pkg/cache"
	"github.com/matzehuels/agendagraph/pkg/metrics"
	"github.com/matzehuels/agendagraph/pkg/observability"
	"github.com/matzehuels/agendagraph/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	optionFlags
	listen    string
	noMetrics bool
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion HTTP API",
		Long: `Serve agenda conversion over HTTP until interrupted.

Endpoints:
  GET  /healthz      liveness
  POST /v1/parse     agenda model as JSON
  POST /v1/diagram   Mermaid or DOT text (?format=, ?orientation=)
  POST /v1/image     SVG or PNG bytes (?format=, ?engine=, ?orientation=)
  GET  /metrics      Prometheus metrics

The format, engine and orientation flags set the defaults for requests that
omit them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.listen, "listen", "l", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	defaults := cfg.Options()
	opts.apply(cmd, &defaults)
	if err := defaults.ValidateAndSetDefaults(); err != nil {
		return err
	}
	addr := cfg.Listen
	if opts.listen != "" {
		addr = opts.listen
	}

	runner, err := c.newRunner(cfg, false)
	if err != nil {
		return err
	}
	defer runner.Close()
	if rc, ok := runner.Cache.(*cache.RedisCache); ok {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			printWarning("Redis cache unreachable, rendering uncached until it recovers: %v", err)
		}
		cancel()
	}

	srvOpts := []server.Option{server.WithDefaults(defaults), server.WithLogger(logger)}
	if !opts.noMetrics {
		reg := metrics.NewRegistry()
		observability.SetPipelineHooks(reg)
		observability.SetCacheHooks(reg)
		observability.SetHTTPHooks(reg)
		defer observability.Reset()
		srvOpts = append(srvOpts, server.WithMetrics(reg.Handler()))
	}

	printKeyValue("listen", addr)
	printKeyValue("format", defaults.Format)
	printKeyValue("engine", defaults.Engine)
	if !opts.noMetrics {
		printKeyValue("metrics", "/metrics")
	}
	return server.New(runner, srvOpts...).ListenAndServe(ctx, addr)
}
