package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderFormat(ctx, dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderFormat(ctx, dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format, buf *bytes.Buffer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the svg element so the viewBox starts at the
// origin and the pixel size matches it, which embeds cleanly in both
// browsers and image converters.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
