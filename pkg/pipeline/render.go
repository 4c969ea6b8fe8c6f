package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	docio "github.com/matzehuels/graphcanvas/pkg/io"
	"github.com/matzehuels/graphcanvas/pkg/render"
	"github.com/matzehuels/graphcanvas/pkg/render/dot"
	"github.com/matzehuels/graphcanvas/pkg/render/png"
	"github.com/matzehuels/graphcanvas/pkg/render/svg"
)

// source is everything a single format may render from.
type source struct {
	doc   *docio.Document
	c     *canvas.Canvas
	scene *render.Scene
}

// renderFormat produces one artifact. It is safe to call concurrently for
// different formats of the same source.
func renderFormat(ctx context.Context, src *source, format string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		if opts.Graphviz {
			return dot.RenderSVG(ctx, dot.ToDOT(src.scene, dot.Options{ShowIDs: opts.ShowIDs}))
		}
		if err := svg.Render(src.scene, &buf, svgOptions(src, opts)); err != nil {
			return nil, err
		}
	case FormatPDF:
		if opts.Graphviz {
			return dot.RenderPDF(ctx, dot.ToDOT(src.scene, dot.Options{ShowIDs: opts.ShowIDs}))
		}
		if err := svg.Render(src.scene, &buf, svgOptions(src, opts)); err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, buf.Bytes())
	case FormatPNG:
		err := png.Render(src.scene, &buf, png.Options{
			Scale:      opts.Scale,
			Background: opts.Background,
			HideLabels: opts.HideLabels,
		})
		if err != nil {
			return nil, err
		}
	case FormatDOT:
		buf.WriteString(dot.ToDOT(src.scene, dot.Options{ShowIDs: opts.ShowIDs}))
	case FormatJSON:
		if err := docio.WriteJSON(src.doc, &buf); err != nil {
			return nil, err
		}
	case FormatTikZ:
		if err := docio.WriteTikZ(src.c, &buf, opts.DPI); err != nil {
			return nil, err
		}
	case FormatEdges:
		if err := docio.WriteEdgeList(src.c, &buf); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
	return buf.Bytes(), nil
}

func svgOptions(src *source, opts Options) svg.Options {
	return svg.Options{
		Background: opts.Background,
		Title:      src.doc.Name,
		HideLabels: opts.HideLabels,
	}
}

// RenderScene renders a single format straight from a canvas, bypassing
// the cache. The canvas is captured as a document named name.
func RenderScene(ctx context.Context, c *canvas.Canvas, name, format string, opts Options) ([]byte, error) {
	opts.Formats = []string{format}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	src := &source{doc: docio.FromCanvas(c, name), c: c, scene: render.Flatten(c, opts.Margin)}
	data, err := renderFormat(ctx, src, format, opts)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
