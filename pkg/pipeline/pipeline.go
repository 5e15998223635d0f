// Package pipeline converts agenda text into diagram text and images.
//
// This package implements the complete parse → diagram → image pipeline used
// by the CLI, the HTTP server and watch mode, so every entry point resolves
// formats, engines and caching the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: extract an agenda.Model from tagged text
//  2. Diagram: format the model as Mermaid or DOT text
//  3. Image: for svg/png, hand the diagram text to a render engine
//
// Only the image stage can fail at runtime; the first two are total.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, render.New(logger), logger)
//	result, err := runner.Convert(ctx, text, pipeline.Options{
//	    Format: "png",
//	    Engine: "graphviz",
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("agenda.png", result.Image, 0o644)
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/agendagraph/pkg/agenda"
	"github.com/matzehuels/agendagraph/pkg/diagram"
	"github.com/matzehuels/agendagraph/pkg/errors"
	"github.com/matzehuels/agendagraph/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Watch
// =============================================================================

const (
	// DefaultFormat is the output format when none is given.
	DefaultFormat = string(diagram.FormatMermaid)

	// DefaultEngine renders images with the Mermaid CLI.
	DefaultEngine = string(render.EngineMermaid)

	// DefaultOrientation is top to bottom.
	DefaultOrientation = string(diagram.Vertical)
)

// ValidFormats lists the accepted values of Options.Format.
var ValidFormats = []string{"mermaid", "dot", "svg", "png"}

// validate is a singleton validator instance.
var validate = validator.New()

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a conversion. This struct supports JSON serialization
// for API requests and TOML decoding for the config file.
type Options struct {
	Format      string `json:"format" toml:"format" validate:"oneof=mermaid dot svg png"`
	Engine      string `json:"engine" toml:"engine" validate:"oneof=mermaid graphviz embedded"`
	Orientation string `json:"orientation" toml:"orientation" validate:"oneof=vertical horizontal"`
	Phrases     bool   `json:"phrases,omitempty" toml:"phrases"` // enable the capitalized-phrase fallback tier
	Refresh     bool   `json:"refresh,omitempty" toml:"-"`       // skip the image cache lookup
}

// Result contains the outputs of a conversion.
type Result struct {
	// RunID identifies this conversion in logs and API responses.
	RunID string

	// Model is the parsed agenda.
	Model *agenda.Model

	// Source names the parser tier that supplied the components.
	Source agenda.Source

	// Grammar is the diagram language of Text.
	Grammar diagram.Format

	// Text is the Mermaid or DOT diagram.
	Text string

	// Image holds the rendered image for svg/png formats, nil otherwise.
	Image []byte

	// CacheHit reports whether Image came from the cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains conversion statistics.
type Stats struct {
	Components int
	Relations  int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills empty fields and normalizes case.
func (o *Options) SetDefaults() {
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	o.Engine = strings.ToLower(strings.TrimSpace(o.Engine))
	o.Orientation = strings.ToLower(strings.TrimSpace(o.Orientation))
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Orientation == "" {
		o.Orientation = DefaultOrientation
	}
}

// Validate checks every field, reporting the first failure with a coded error.
func (o *Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInternal, err, "validate options")
	}

	e := verrs[0]
	code := errors.ErrCodeInvalidInput
	switch e.Field() {
	case "Format":
		code = errors.ErrCodeInvalidFormat
	case "Engine":
		code = errors.ErrCodeInvalidEngine
	case "Orientation":
		code = errors.ErrCodeInvalidOrientation
	}
	return errors.New(code, "invalid %s: %q (must be one of: %s)",
		strings.ToLower(e.Field()), fmt.Sprint(e.Value()), strings.ReplaceAll(e.Param(), " ", ", "))
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// IsImage reports whether the format produces an image.
func (o *Options) IsImage() bool {
	return render.IsImage(o.Format)
}

// Grammar returns the diagram language the conversion produces: the format
// itself for text formats, the engine's input grammar for images.
func (o *Options) Grammar() diagram.Format {
	if o.IsImage() {
		return render.Engine(o.Engine).Grammar()
	}
	return diagram.Format(o.Format)
}

// ParserOptions returns the agenda parser options selected by o.
func (o *Options) ParserOptions() []agenda.Option {
	if o.Phrases {
		return []agenda.Option{agenda.WithPhraseExtractor(agenda.CapitalizedPhrases)}
	}
	return nil
}
