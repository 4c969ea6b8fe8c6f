package io

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
)

// DefaultDPI converts scene units to inches when no resolution is given.
const DefaultDPI = 96

// WriteTikZ writes c as a LaTeX tikzpicture in inches, centred on the
// middle of the node positions with the y axis pointing up. dpi is the
// number of scene units per inch.
func WriteTikZ(c *canvas.Canvas, w io.Writer, dpi float64) error {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	t := &tikz{c: c, w: bufio.NewWriter(w), dpi: dpi, colours: make(map[string]string)}
	t.write()
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("write tikz: %w", err)
	}
	return nil
}

type tikz struct {
	c   *canvas.Canvas
	w   *bufio.Writer
	dpi float64

	nodes []canvas.ID
	index map[canvas.ID]int
	ns    canvas.NodeStyle
	es    canvas.EdgeStyle

	// colours maps a hex colour already defined in the picture to its name.
	colours map[string]string
}

func (t *tikz) write() {
	t.nodes = t.c.NodeIDs()
	t.index = make(map[canvas.ID]int, len(t.nodes))
	for i, id := range t.nodes {
		t.index[id] = i
	}
	t.findDefaults()

	fill, fillDef := t.styleColour(t.ns.Fill, "defNodeFillColour")
	line, lineDef := t.styleColour(t.ns.Line, "defNodeLineColour")
	edge, edgeDef := t.styleColour(t.es.Color, "defEdgeLineColour")

	fmt.Fprintf(t.w, "\\begin{tikzpicture}[x=1in, y=1in, xscale=1, yscale=1,\n")
	fmt.Fprintf(t.w, "\tn/.style={fill=%s, draw=%s, shape=circle,\n", fill, line)
	fmt.Fprintf(t.w, "\tminimum size=%sin, inner sep=0, font=%s,\n", t.inches(t.ns.Diameter), font(t.ns.LabelSize))
	fmt.Fprintf(t.w, "\tline width=%sin},\n", t.inches(t.ns.PenWidth))
	fmt.Fprintf(t.w, "\te/.style={draw=%s, line width=%sin},\n", edge, t.inches(t.es.PenWidth))
	fmt.Fprintf(t.w, "\tl/.style={font=%s}]\n", font(t.es.LabelSize))
	for _, d := range []struct {
		needed bool
		name   string
		hex    string
	}{{fillDef, fill, t.ns.Fill}, {lineDef, line, t.ns.Line}, {edgeDef, edge, t.es.Color}} {
		if d.needed {
			t.define(d.name, d.hex)
		}
	}

	mid := t.middle()
	for i, id := range t.nodes {
		t.writeNode(i, id, mid)
	}
	for i, id := range t.nodes {
		for _, eid := range t.c.Node(id).Edges {
			e := t.c.Edge(eid)
			if t.index[e.Other(id)] > i {
				t.writeEdge(e)
			}
		}
	}
	fmt.Fprintf(t.w, "\\end{tikzpicture}\n")
}

func (t *tikz) writeNode(i int, id canvas.ID, mid [2]float64) {
	n := t.c.Node(id)
	p, _ := t.c.ScenePos(id)
	var opts []string
	if n.Style.Fill != t.ns.Fill {
		opts = append(opts, "fill="+t.colour(n.Style.Fill, fmt.Sprintf("n%dfillClr", i)))
	}
	if n.Style.Line != t.ns.Line {
		opts = append(opts, "draw="+t.colour(n.Style.Line, fmt.Sprintf("n%dlineClr", i)))
	}
	if n.Style.Diameter != t.ns.Diameter {
		opts = append(opts, "minimum size="+t.inches(n.Style.Diameter)+"in")
	}
	if n.Style.PenWidth != t.ns.PenWidth {
		opts = append(opts, "line width="+t.inches(n.Style.PenWidth)+"in")
	}
	if n.Label != "" && n.Style.LabelSize != t.ns.LabelSize {
		opts = append(opts, "font="+font(n.Style.LabelSize))
	}
	fmt.Fprintf(t.w, "\\node (v%d) at (%s,%s) [%s] {$%s$};\n",
		i, t.inches(p.X-mid[0]), t.inches(mid[1]-p.Y),
		strings.Join(append([]string{"n"}, opts...), ", "), mathLabel(n.Label))
}

func (t *tikz) writeEdge(e *canvas.Edge) {
	src, dst := t.index[e.Source], t.index[e.Dest]
	edgeOpts := []string{"e"}
	if e.Style.Color != t.es.Color {
		edgeOpts = append(edgeOpts, "draw="+t.colour(e.Style.Color, fmt.Sprintf("e%d_%dlineClr", src, dst)))
	}
	if e.Style.PenWidth != t.es.PenWidth {
		edgeOpts = append(edgeOpts, "line width="+t.inches(e.Style.PenWidth)+"in")
	}
	labelOpts := []string{"l"}
	if e.Label != "" && e.Style.LabelSize != t.es.LabelSize {
		labelOpts = append(labelOpts, "font="+font(e.Style.LabelSize))
	}
	fmt.Fprintf(t.w, "\\path (v%d) edge[%s] node[%s] {$%s$} (v%d);\n",
		src, strings.Join(edgeOpts, ", "), strings.Join(labelOpts, ", "), e.Label, dst)
}

// findDefaults picks the most common value of every style attribute.
func (t *tikz) findDefaults() {
	t.ns, t.es = canvas.DefaultNodeStyle, canvas.DefaultEdgeStyle
	if len(t.nodes) == 0 {
		return
	}
	var fills, lines []string
	var diams, pens, sizes []float64
	var ecols []string
	var epens, esizes []float64
	for _, id := range t.nodes {
		n := t.c.Node(id)
		fills = append(fills, n.Style.Fill)
		lines = append(lines, n.Style.Line)
		diams = append(diams, n.Style.Diameter)
		pens = append(pens, n.Style.PenWidth)
		sizes = append(sizes, n.Style.LabelSize)
		for _, eid := range n.Edges {
			e := t.c.Edge(eid)
			if e.Source != id {
				continue
			}
			ecols = append(ecols, e.Style.Color)
			epens = append(epens, e.Style.PenWidth)
			esizes = append(esizes, e.Style.LabelSize)
		}
	}
	t.ns = canvas.NodeStyle{
		Fill:      mostCommon(fills, t.ns.Fill),
		Line:      mostCommon(lines, t.ns.Line),
		Diameter:  mostCommon(diams, t.ns.Diameter),
		PenWidth:  mostCommon(pens, t.ns.PenWidth),
		LabelSize: mostCommon(sizes, t.ns.LabelSize),
	}
	t.es = canvas.EdgeStyle{
		Color:     mostCommon(ecols, t.es.Color),
		PenWidth:  mostCommon(epens, t.es.PenWidth),
		LabelSize: mostCommon(esizes, t.es.LabelSize),
	}
}

// middle returns the centre of the box spanned by the node positions.
func (t *tikz) middle() [2]float64 {
	if len(t.nodes) == 0 {
		return [2]float64{}
	}
	lo, _ := t.c.ScenePos(t.nodes[0])
	hi := lo
	for _, id := range t.nodes[1:] {
		p, _ := t.c.ScenePos(id)
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return [2]float64{(lo.X + hi.X) / 2, (lo.Y + hi.Y) / 2}
}

// styleColour names a style default colour. When TikZ has no name for it,
// fallback is returned together with true to request a definition.
func (t *tikz) styleColour(hex, fallback string) (string, bool) {
	if name, ok := tikzName(hex); ok {
		return name, false
	}
	return fallback, true
}

// colour names a per-item colour, defining it under fresh on first use.
func (t *tikz) colour(hex, fresh string) string {
	if name, ok := tikzName(hex); ok {
		return name
	}
	key := strings.ToLower(hex)
	if name, ok := t.colours[key]; ok {
		return name
	}
	t.define(fresh, hex)
	return fresh
}

func (t *tikz) define(name, hex string) {
	r, g, b := parseHex(hex)
	t.colours[strings.ToLower(hex)] = name
	fmt.Fprintf(t.w, "\\definecolor{%s} {RGB} {%d,%d,%d}\n", name, r, g, b)
}

func (t *tikz) inches(v float64) string {
	return strconv.FormatFloat(v/t.dpi, 'f', 4, 64)
}

func font(size float64) string {
	return `\fontsize{` + strconv.FormatFloat(size, 'g', -1, 64) + `}{1}\selectfont`
}

// mathLabel gives subscripted labels an empty superscript so that TikZ
// sets the subscript low.
func mathLabel(s string) string {
	if strings.Contains(s, "_") && !strings.Contains(s, "^") {
		return s + "^{}"
	}
	return s
}

// mostCommon returns the value occurring most often in vals, or fallback
// when vals is empty. Ties go to the value that appears first in vals, so
// the shared style follows the earliest drawn item.
func mostCommon[T comparable](vals []T, fallback T) T {
	counts := make(map[T]int, len(vals))
	bestN := 0
	for _, v := range vals {
		counts[v]++
		bestN = max(bestN, counts[v])
	}
	for _, v := range vals {
		if counts[v] == bestN {
			return v
		}
	}
	return fallback
}

// parseHex decodes #rgb or #rrggbb. Anything else is black.
func parseHex(s string) (r, g, b int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

// Colours TikZ knows by name. Fractional channels such as 0.5 may come out
// one higher when converted to 0..255.
var tikzColours = []struct {
	name    string
	r, g, b int
}{
	{"black", 0, 0, 0},
	{"green", 0, 255, 0},
	{"blue", 0, 0, 255},
	{"cyan", 0, 255, 255},
	{"teal", 0, 127, 127},
	{"darkgray", 63, 63, 63},
	{"gray", 127, 127, 127},
	{"olive", 127, 127, 0},
	{"violet", 127, 0, 127},
	{"purple", 191, 0, 63},
	{"brown", 191, 127, 63},
	{"lime", 191, 255, 0},
	{"lightgray", 191, 191, 191},
	{"white", 255, 255, 255},
	{"red", 255, 0, 0},
	{"magenta", 255, 0, 255},
	{"yellow", 255, 255, 0},
	{"orange", 255, 127, 0},
	{"pink", 255, 191, 191},
}

func tikzName(hex string) (string, bool) {
	r, g, b := parseHex(hex)
	near := func(x, c int) bool { return x == c || (c != 0 && c != 255 && x == c+1) }
	for _, tc := range tikzColours {
		if near(r, tc.r) && near(g, tc.g) && near(b, tc.b) {
			return tc.name, true
		}
	}
	return "", false
}
