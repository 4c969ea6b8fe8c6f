// Package png rasterizes a flattened scene with gg.
package png

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/render"
)

// MaxPixels bounds the image area.
const MaxPixels = 64 << 20

// Options configures PNG output.
type Options struct {
	// Scale is the number of pixels per scene unit. Zero means 1.
	Scale float64

	// Background fills the image before drawing. Empty leaves it
	// transparent.
	Background string

	// HideLabels omits node and edge labels.
	HideLabels bool
}

// Render rasterizes s and writes it to w as PNG.
func Render(s *render.Scene, w io.Writer, opts Options) error {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	width := int(math.Ceil(s.Width() * scale))
	height := int(math.Ceil(s.Height() * scale))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render png: empty image %dx%d", width, height)
	}
	if width*height > MaxPixels {
		return fmt.Errorf("render png: image %dx%d exceeds %d pixels", width, height, MaxPixels)
	}

	if !opts.HideLabels {
		if err := loadFont(); err != nil {
			return err
		}
	}

	dc := gg.NewContext(width, height)
	if opts.Background != "" {
		dc.SetHexColor(opts.Background)
		dc.Clear()
	}
	dev := func(p r2.Vec) r2.Vec { return r2.Scale(scale, r2.Sub(p, s.Bounds.Min)) }

	for _, e := range s.Edges {
		a, b := dev(e.From), dev(e.To)
		dc.SetHexColor(e.Style.Color)
		dc.SetLineWidth(e.Style.PenWidth * scale)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}
	for _, n := range s.Nodes {
		c := dev(n.Center)
		dc.DrawCircle(c.X, c.Y, n.Radius*scale)
		dc.SetHexColor(n.Style.Fill)
		dc.FillPreserve()
		dc.SetHexColor(n.Style.Line)
		dc.SetLineWidth(n.Style.PenWidth * scale)
		dc.Stroke()
	}

	if !opts.HideLabels {
		faces := make(map[float64]font.Face)
		face := func(size float64) font.Face {
			size = math.Max(1, math.Round(size*4)/4)
			if _, ok := faces[size]; !ok {
				faces[size] = truetype.NewFace(goFont, &truetype.Options{Size: size, DPI: 72})
			}
			return faces[size]
		}
		for _, n := range s.Nodes {
			if n.Label == "" {
				continue
			}
			c := dev(n.Center)
			dc.SetFontFace(face(n.Style.LabelSize * scale))
			dc.SetHexColor(n.Style.Line)
			dc.DrawStringAnchored(n.Label, c.X, c.Y, 0.5, 0.5)
		}
		for _, e := range s.Edges {
			if e.Label == "" {
				continue
			}
			m := dev(e.Mid())
			dc.SetFontFace(face(e.Style.LabelSize * scale))
			dc.SetHexColor(e.Style.Color)
			dc.DrawStringAnchored(e.Label, m.X, m.Y, 0.5, 0.5)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

// loadFont parses the embedded Go regular font once. Faces are created
// per render since they are not safe for concurrent use.
func loadFont() error {
	fontOnce.Do(func() {
		goFont, fontErr = truetype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("parse label font: %w", fontErr)
		}
	})
	return fontErr
}
