package diagram

import (
	"github.com/matzehuels/agendagraph/pkg/agenda"
	"github.com/matzehuels/agendagraph/pkg/errors"
)

// Format names a diagram text grammar.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatDOT     Format = "dot"
)

// Formatter renders a Graph in one grammar.
type Formatter func(Graph, Orientation) string

var formatters = map[Format]Formatter{
	FormatMermaid: Mermaid,
	FormatDOT:     DOT,
}

// FormatterFor returns the formatter for f.
func FormatterFor(f Format) (Formatter, error) {
	if fn, ok := formatters[f]; ok {
		return fn, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid diagram format: %s (must be 'mermaid' or 'dot')", f)
}

// Render builds m and formats it. The only error is an unknown format.
func Render(m *agenda.Model, f Format, o Orientation) (string, error) {
	fn, err := FormatterFor(f)
	if err != nil {
		return "", err
	}
	return fn(Build(m), o), nil
}
