// Package render turns a canvas into pictures.
//
// # Overview
//
// Rendering happens in two steps. [Flatten] resolves every root graph of a
// canvas into scene space and produces a [Scene]: discs for nodes and
// segments for edges, in drawing order, together with the padded scene
// bounds. The format subpackages then draw a Scene:
//
//   - [svg]: vector output through svgo
//   - [png]: raster output through gg
//   - [dot]: Graphviz DOT with pinned node positions, rendered with go-graphviz
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using the external rsvg-convert tool
// (from librsvg).
//
//	scene := render.Flatten(c, render.DefaultMargin)
//	var buf bytes.Buffer
//	if err := svg.Render(scene, &buf, svg.Options{}); err != nil {
//	    return err
//	}
//	pdf, err := render.ToPDF(ctx, buf.Bytes())
package render
