package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/agendagraph/pkg/errors"
)

var graphvizFormats = map[Format]graphviz.Format{
	SVG: graphviz.SVG,
	PNG: graphviz.PNG,
}

// RenderDOT lays out and draws a DOT digraph in-process using the
// WebAssembly build of Graphviz. No external program is needed.
func RenderDOT(ctx context.Context, dot string, format Format) ([]byte, error) {
	gvFormat, ok := graphvizFormats[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid image format: %s", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererNotFound, err, "start embedded graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererFailed, err, "parse dot")
	}
	defer g.Close()

	var out bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererFailed, err, "draw %s", format)
	}
	if format == SVG {
		return normalizeViewBox(out.Bytes()), nil
	}
	return out.Bytes(), nil
}

// svgOpenTag captures the width and height of the root element's viewBox.
var svgOpenTag = regexp.MustCompile(`<svg[^>]*\bviewBox="[0-9.]+\s+[0-9.]+\s+([0-9.]+)\s+([0-9.]+)"[^>]*>`)

// normalizeViewBox replaces Graphviz's point-sized root tag with one whose
// viewBox starts at the origin and whose width and height are in pixels.
func normalizeViewBox(svg []byte) []byte {
	loc := svgOpenTag.FindSubmatchIndex(svg)
	if loc == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(svg[loc[2]:loc[3]]), 64)
	h, _ := strconv.ParseFloat(string(svg[loc[4]:loc[5]]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	var b bytes.Buffer
	b.Write(svg[:loc[0]])
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	b.Write(svg[loc[1]:])
	return b.Bytes()
}
