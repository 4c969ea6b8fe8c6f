// Package svg draws a flattened scene as an SVG document.
package svg

import (
	"fmt"
	"io"
	"strconv"

	svgo "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/graphcanvas/pkg/render"
)

// Options configures SVG output.
type Options struct {
	// Background fills the whole picture when set, e.g. "#ffffff".
	Background string

	// Scale multiplies the document width and height. The view box stays
	// in scene units. Zero means 1.
	Scale float64

	// Title is written as the document title when set.
	Title string

	// HideLabels omits node and edge labels.
	HideLabels bool
}

// Render writes s to w.
func Render(s *render.Scene, w io.Writer, opts Options) error {
	ew := &errWriter{w: w}
	doc := svgo.New(ew)

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	minX, minY := s.Bounds.Min.X, s.Bounds.Min.Y
	doc.Startview(s.Width()*scale, s.Height()*scale, minX, minY, s.Width(), s.Height())
	if opts.Title != "" {
		doc.Title(opts.Title)
	}
	if opts.Background != "" {
		doc.Rect(minX, minY, s.Width(), s.Height(), "fill:"+opts.Background)
	}

	doc.Gid("edges")
	for _, e := range s.Edges {
		doc.Line(e.From.X, e.From.Y, e.To.X, e.To.Y,
			fmt.Sprintf("stroke:%s;stroke-width:%s", e.Style.Color, num(e.Style.PenWidth)))
	}
	doc.Gend()

	doc.Gid("nodes")
	for _, n := range s.Nodes {
		doc.Circle(n.Center.X, n.Center.Y, n.Radius,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%s", n.Style.Fill, n.Style.Line, num(n.Style.PenWidth)))
	}
	doc.Gend()

	if !opts.HideLabels {
		doc.Gid("labels")
		for _, n := range s.Nodes {
			if n.Label != "" {
				doc.Text(n.Center.X, n.Center.Y, n.Label, labelStyle(n.Style.LabelSize, n.Style.Line))
			}
		}
		for _, e := range s.Edges {
			if e.Label != "" {
				m := e.Mid()
				doc.Text(m.X, m.Y, e.Label, labelStyle(e.Style.LabelSize, e.Style.Color))
			}
		}
		doc.Gend()
	}

	doc.End()
	if ew.err != nil {
		return fmt.Errorf("write svg: %w", ew.err)
	}
	return nil
}

func labelStyle(size float64, colour string) string {
	return fmt.Sprintf("font-family:sans-serif;font-size:%spx;fill:%s;text-anchor:middle;dominant-baseline:central", num(size), colour)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// errWriter keeps the first write error; svgo itself ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
