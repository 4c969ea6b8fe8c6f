// Package dot writes a flattened scene as a Graphviz graph with pinned
// node positions and renders it through go-graphviz.
//
// One scene unit maps to one point. Graphviz has y pointing up, so y is
// negated.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphcanvas/pkg/render"
)

// Options configures DOT output.
type Options struct {
	// ShowIDs appends the canvas id to every node label.
	ShowIDs bool
}

// pointsPerInch converts scene diameters to Graphviz node widths.
const pointsPerInch = 72

const header = `graph G {
  bgcolor="transparent";
  splines=false;
  overlap=true;
  node [shape=circle, fixedsize=true, style=filled, fontname="Helvetica"];
`

// attrs collects the attribute list of one statement in insertion order.
type attrs []string

func (a *attrs) str(key, v string)         { *a = append(*a, key+"="+strconv.Quote(v)) }
func (a *attrs) num(key string, v float64) { *a = append(*a, key+"="+num(v)) }

func (a attrs) String() string { return "[" + strings.Join(a, ", ") + "]" }

// ToDOT converts a scene to an undirected DOT graph. Every node is pinned
// at its scene position so that neato keeps the canvas layout.
func ToDOT(s *render.Scene, opts Options) string {
	var b strings.Builder
	b.WriteString(header)

	b.WriteByte('\n')
	for _, n := range s.Nodes {
		label := n.Label
		if opts.ShowIDs {
			label = strings.TrimSpace(label + " #" + n.ID.String())
		}
		var a attrs
		a.str("label", label)
		a.str("pos", num(n.Center.X)+","+num(-n.Center.Y)+"!")
		a.num("width", 2*n.Radius/pointsPerInch)
		a.str("fillcolor", n.Style.Fill)
		a.str("color", n.Style.Line)
		a.num("penwidth", n.Style.PenWidth)
		a.num("fontsize", n.Style.LabelSize)
		fmt.Fprintf(&b, "  %q %s;\n", nodeName(n.ID.String()), a)
	}

	b.WriteByte('\n')
	for _, e := range s.Edges {
		var a attrs
		a.str("color", e.Style.Color)
		a.num("penwidth", e.Style.PenWidth)
		if e.Label != "" {
			a.str("label", e.Label)
			a.num("fontsize", e.Style.LabelSize)
		}
		fmt.Fprintf(&b, "  %q -- %q %s;\n", nodeName(e.Source.String()), nodeName(e.Dest.String()), a)
	}

	b.WriteString("}\n")
	return b.String()
}

func nodeName(id string) string { return "n" + id }

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG lays out a DOT graph with neato, which honours the pinned
// positions, and returns the SVG with unitless dimensions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("graphviz render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	openTag = regexp.MustCompile(`<svg\b[^>]*>`)
	viewBox = regexp.MustCompile(`viewBox="\s*[-0-9.]+\s+[-0-9.]+\s+([0-9.]+)\s+([0-9.]+)\s*"`)
)

// normalizeViewBox swaps the opening svg tag graphviz writes, sized in pt,
// for one sized in plain user units taken from its view box. Tags without
// a usable view box are left alone.
func normalizeViewBox(svg []byte) []byte {
	tag := openTag.Find(svg)
	m := viewBox.FindSubmatch(tag)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[1]), 64)
	h, _ := strconv.ParseFloat(string(m[2]), 64)
	if w <= 0 || h <= 0 {
		return svg
	}
	repl := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(w), num(h), num(w), num(h))
	return bytes.Replace(svg, tag, []byte(repl), 1)
}

// RenderPDF renders a DOT graph to SVG and converts it with
// [render.ToPDF].
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
