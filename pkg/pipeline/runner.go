package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/agendagraph/pkg/agenda"
	"github.com/matzehuels/agendagraph/pkg/cache"
	"github.com/matzehuels/agendagraph/pkg/diagram"
	"github.com/matzehuels/agendagraph/pkg/observability"
	"github.com/matzehuels/agendagraph/pkg/render"
)

// ImageRenderer converts diagram text into image bytes.
// *render.Renderer is the production implementation.
type ImageRenderer interface {
	Render(ctx context.Context, engine render.Engine, format render.Format, text string) ([]byte, error)
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators; multiple goroutines
// can safely use the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Renderer ImageRenderer
	Logger   *log.Logger
}

// NewRunner creates a runner.
// If c is nil, a NullCache is used (caching disabled).
// If r is nil, a render.Renderer logging to logger is used.
func NewRunner(c cache.Cache, r ImageRenderer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if r == nil {
		r = render.New(logger)
	}
	return &Runner{
		Cache:    c,
		Keyer:    cache.NewDefaultKeyer(),
		Renderer: r,
		Logger:   logger,
	}
}

// Parse runs only the parse stage.
func (r *Runner) Parse(ctx context.Context, text string, opts Options) (*agenda.Model, agenda.Source) {
	start := time.Now()
	m, src := agenda.NewParser(opts.ParserOptions()...).ParseWithSource(text)
	elapsed := time.Since(start)

	observability.Pipeline().OnParse(ctx, string(src), len(m.Components), len(m.Relations), elapsed)
	r.Logger.Debug("parsed agenda",
		"source", src,
		"components", len(m.Components),
		"relations", len(m.Relations),
		"duration", elapsed)
	return m, src
}

// Convert runs the complete parse → diagram → image pipeline.
//
// For image formats a renderer failure is returned together with a Result
// whose Text holds the diagram, so callers can still show or save it.
func (r *Runner) Convert(ctx context.Context, text string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}

	parseStart := time.Now()
	result.Model, result.Source = r.Parse(ctx, text, opts)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Components = len(result.Model.Components)
	result.Stats.Relations = len(result.Model.Relations)

	orientation, err := diagram.ParseOrientation(opts.Orientation)
	if err != nil {
		return nil, err
	}
	result.Grammar = opts.Grammar()
	result.Text, err = diagram.Render(result.Model, result.Grammar, orientation)
	if err != nil {
		return nil, err
	}

	if !opts.IsImage() {
		return result, nil
	}

	renderStart := time.Now()
	result.Image, result.CacheHit, err = r.image(ctx, result.Text, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		return result, err
	}

	r.Logger.Debug("rendered image",
		"run", result.RunID,
		"engine", opts.Engine,
		"format", opts.Format,
		"bytes", len(result.Image),
		"cached", result.CacheHit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// image renders text with caching and returns cache hit info.
func (r *Runner) image(ctx context.Context, text string, opts Options) ([]byte, bool, error) {
	engine := render.Engine(opts.Engine)
	format := render.Format(opts.Format)
	key := r.keyer().ArtifactKey(text, cache.ArtifactKeyOpts{Engine: opts.Engine, Format: opts.Format})

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache lookup failed", "err", err)
		}
		if err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Engine, opts.Format)
	start := time.Now()
	data, err := r.Renderer.Render(ctx, engine, format, text)
	observability.Pipeline().OnRenderComplete(ctx, opts.Engine, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache store failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

func (r *Runner) keyer() cache.Keyer {
	if r.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return r.Keyer
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
