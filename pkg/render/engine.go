package render

import (
	"strings"

	"github.com/matzehuels/agendagraph/pkg/diagram"
	"github.com/matzehuels/agendagraph/pkg/errors"
)

// Engine names the program that converts diagram text into an image.
type Engine string

const (
	EngineMermaid  Engine = "mermaid"
	EngineGraphviz Engine = "graphviz"
	EngineEmbedded Engine = "embedded"
)

// Engines lists the supported engines.
var Engines = []Engine{EngineMermaid, EngineGraphviz, EngineEmbedded}

// ParseEngine validates an engine name. Matching is case-insensitive.
func ParseEngine(s string) (Engine, error) {
	e := Engine(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Engines {
		if e == known {
			return e, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidEngine, "invalid engine: %s (must be 'mermaid', 'graphviz' or 'embedded')", s)
}

// Grammar returns the diagram grammar the engine reads.
func (e Engine) Grammar() diagram.Format {
	if e == EngineMermaid {
		return diagram.FormatMermaid
	}
	return diagram.FormatDOT
}

// Format is an image output format.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat validates an image format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case SVG, PNG:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid image format: %s (must be 'svg' or 'png')", s)
}

// IsImage reports whether s names an image format rather than a diagram grammar.
func IsImage(s string) bool {
	_, err := ParseFormat(s)
	return err == nil
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}
