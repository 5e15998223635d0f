package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/agendagraph/pkg/buildinfo"
	"github.com/matzehuels/agendagraph/pkg/cache"
	"github.com/matzehuels/agendagraph/pkg/config"
	"github.com/matzehuels/agendagraph/pkg/errors"
	"github.com/matzehuels/agendagraph/pkg/pipeline"
	"github.com/matzehuels/agendagraph/pkg/render"
)

// appName names the binary and its config and cache directories.
const appName = "agendagraph"

// Log levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit statuses that are not taken from a renderer.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// CLI holds state shared by every command.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New returns a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel changes the level of c.Logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Agendagraph turns tagged agenda text into Mermaid and Graphviz diagrams",
		Long: `Agendagraph reads a lightweight tagged markup ([theme], [component], [subcomponent],
[relation:TYPE]) and writes a Mermaid flowchart or Graphviz DOT diagram grouped into
past, current and future lanes. Image formats are rendered by mmdc, npx or dot.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/agendagraph/config.toml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		c.convertCommand(),
		c.parseCommand(),
		c.previewCommand(),
		c.watchCommand(),
		c.serveCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)
	return root
}

// ExitCode maps an error from the command tree to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	}
	if code, ok := errors.ExitCode(err); ok && code > 0 {
		return code
	}
	if errors.Is(err, errors.ErrCodeOutputRequired) {
		return exitUsage
	}
	return exitFailure
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(cfg.CacheURL, noCache)
	if err != nil {
		return nil, err
	}
	r := render.New(c.Logger)
	r.Timeout = cfg.RenderTimeout
	runner := pipeline.NewRunner(store, r, c.Logger)
	if _, shared := store.(*cache.RedisCache); shared {
		runner.Keyer = cache.NewScopedKeyer(nil, appName+":")
	}
	return runner, nil
}

// newCache opens the configured cache, falling back to the local cache
// directory when no cache URL is set.
func newCache(url string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url != "" {
		return cache.Open(url)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/agendagraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
