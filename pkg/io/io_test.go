package io

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	"github.com/matzehuels/graphcanvas/pkg/layout"
)

func sample(t *testing.T) *canvas.Canvas {
	t.Helper()
	c := canvas.New()
	g, err := layout.Generate(c, layout.Params{Kind: layout.Petersen, N: 5, M: 2, Pos: r2.Vec{X: 100, Y: 80}, Labels: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	c.RotateGraph(g, 30, false)
	first := c.Graph(g).NodeIDs()[0]
	if err := c.SetNodeStyle(first, canvas.NodeStyle{Diameter: 30, PenWidth: 2, Fill: "#ff0000", Line: "#000", LabelSize: 12}); err != nil {
		t.Fatal(err)
	}
	if _, err := layout.Generate(c, layout.Params{Kind: layout.Path, N: 3, Pos: r2.Vec{X: -50}}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return c
}

func TestDocumentRoundTrip(t *testing.T) {
	c := sample(t)
	d := FromCanvas(c, "sample")
	if got, want := len(d.Graphs), 2; got != want {
		t.Fatalf("graphs = %d, want %d", got, want)
	}
	if d.Graphs[0].Nodes[0].Style == nil {
		t.Error("styled node lost its style")
	}
	if d.Graphs[0].Nodes[1].Style != nil {
		t.Errorf("default style written: %+v", d.Graphs[0].Nodes[1].Style)
	}

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}

	c2, err := got.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := c2.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
	again := FromCanvas(c2, "sample")
	if diff := cmp.Diff(d, again, cmpopts.IgnoreFields(Document{}, "ID")); diff != "" {
		t.Errorf("canvas round trip mismatch (-want +got):\n%s", diff)
	}

	ids1, ids2 := c.NodeIDs(), c2.NodeIDs()
	for i := range ids1 {
		p1, _ := c.ScenePos(ids1[i])
		p2, _ := c2.ScenePos(ids2[i])
		if r2.Norm(r2.Sub(p1, p2)) > 1e-9 {
			t.Errorf("node %d at %v, want %v", i, p2, p1)
		}
	}
}

func TestDocumentCounts(t *testing.T) {
	d := FromCanvas(sample(t), "")
	g, n, e := d.Counts()
	if g != 2 || n != 13 || e != 17 {
		t.Errorf("Counts() = %d, %d, %d, want 2, 13, 17", g, n, e)
	}
}

func TestDocumentValidate(t *testing.T) {
	nodes := []Node{{}, {X: 10}}
	tests := []struct {
		name string
		doc  Document
	}{
		{"endpoint out of range", Document{Graphs: []Graph{{Nodes: nodes, Edges: []Edge{{From: 0, To: 2}}}}}},
		{"negative endpoint", Document{Graphs: []Graph{{Nodes: nodes, Edges: []Edge{{From: -1, To: 1}}}}}},
		{"self loop", Document{Graphs: []Graph{{Nodes: nodes, Edges: []Edge{{From: 1, To: 1}}}}}},
		{"bad node colour", Document{Graphs: []Graph{{Nodes: []Node{{Style: &NodeStyle{Fill: "red", Line: "#000"}}}}}}},
		{"bad edge colour", Document{Graphs: []Graph{{Nodes: nodes, Edges: []Edge{{From: 0, To: 1, Style: &EdgeStyle{Color: "#12"}}}}}}},
		{"future version", Document{Version: FormatVersion + 1}},
		{"bad id", Document{ID: "not-a-uuid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("Validate() = %v, want INVALID_DOCUMENT", err)
			}
			c := canvas.New()
			if _, err := tt.doc.AppendTo(c); err == nil {
				t.Error("AppendTo accepted an invalid document")
			}
			if got := c.GraphCount(); got != 0 {
				t.Errorf("GraphCount = %d after rejected document, want 0", got)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(`{"graphs": [{"x": 5, "y": 5, "nodes": [{"x": 0, "y": 0}, {"x": 1, "y": 0}], "edges": [{"from": 0, "to": 1}]}]}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if err := errors.ValidateDocumentID(d.ID); err != nil {
		t.Errorf("generated ID %q: %v", d.ID, err)
	}
	if d.Version != FormatVersion {
		t.Errorf("Version = %d, want %d", d.Version, FormatVersion)
	}

	if _, err := ReadJSON(strings.NewReader(`{"graphs": [`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("malformed JSON error = %v, want INVALID_FORMAT", err)
	}
}

func TestExportImportFiles(t *testing.T) {
	dir := t.TempDir()
	c := sample(t)
	d := FromCanvas(c, "sample")

	path := filepath.Join(dir, "sample.json")
	if err := ExportJSON(d, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("file round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := ImportJSON(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	edges := filepath.Join(dir, "ring.edges")
	if err := ExportEdgeList(c, edges); err != nil {
		t.Fatalf("ExportEdgeList: %v", err)
	}
	el, err := ImportEdgeList(edges)
	if err != nil {
		t.Fatalf("ImportEdgeList: %v", err)
	}
	if el.Name != "ring" {
		t.Errorf("Name = %q, want %q", el.Name, "ring")
	}
	if _, n, e := el.Counts(); n != 13 || e != 17 {
		t.Errorf("edge list counts = %d nodes, %d edges, want 13, 17", n, e)
	}

	if err := ExportTikZ(c, filepath.Join(dir, "sample.tikz"), 0); err != nil {
		t.Fatalf("ExportTikZ: %v", err)
	}
}

// twoComponents builds a path a0-a1-a2 and a triangle b0-b1-b2 as separate
// roots.
func twoComponents(t *testing.T) *canvas.Canvas {
	t.Helper()
	c := canvas.New()
	add := func(g canvas.ID, n int) []canvas.ID {
		ids := make([]canvas.ID, n)
		for i := range ids {
			id, err := c.AddNode(g, r2.Vec{X: float64(i) * 40}, "", canvas.NodeStyle{})
			if err != nil {
				t.Fatal(err)
			}
			ids[i] = id
		}
		return ids
	}
	link := func(a, b canvas.ID) {
		if _, err := c.AddEdge(a, b, "", canvas.EdgeStyle{}); err != nil {
			t.Fatal(err)
		}
	}
	a := add(c.AddGraph(r2.Vec{}), 3)
	link(a[0], a[1])
	link(a[1], a[2])
	b := add(c.AddGraph(r2.Vec{Y: 100}), 3)
	link(b[0], b[1])
	link(b[1], b[2])
	link(b[2], b[0])
	return c
}

func TestWriteEdgeList(t *testing.T) {
	c := twoComponents(t)
	var buf bytes.Buffer
	if err := WriteEdgeList(c, &buf); err != nil {
		t.Fatalf("WriteEdgeList: %v", err)
	}
	want := "6\n0,1\n1,2\n3,4\n3,5\n4,5\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteEdgeList() = %q, want %q", got, want)
	}

	d, err := ReadEdgeList(strings.NewReader(want), "two")
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	c2, err := d.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var again bytes.Buffer
	if err := WriteEdgeList(c2, &again); err != nil {
		t.Fatalf("WriteEdgeList: %v", err)
	}
	if again.String() != want {
		t.Errorf("edge list round trip = %q, want %q", again.String(), want)
	}
	if got := len(c2.Components(c2.Roots()[0])); got != 2 {
		t.Errorf("components = %d, want 2", got)
	}
}

func TestReadEdgeList(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		nodes   int
		edges   int
		wantErr bool
	}{
		{"comments and spaces", "# ring\n3\n\n0 1\n1,2\n 2 , 0 \n", 3, 3, false},
		{"no edges", "4\n", 4, 0, false},
		{"empty graph", "0\n", 0, 0, false},
		{"empty input", "", 0, 0, true},
		{"bad count", "three\n", 0, 0, true},
		{"out of range", "3\n0,3\n", 0, 0, true},
		{"self loop", "3\n1,1\n", 0, 0, true},
		{"single number", "3\n0\n", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ReadEdgeList(strings.NewReader(tt.in), tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadEdgeList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidFormat) {
					t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
				}
				return
			}
			if _, n, e := d.Counts(); n != tt.nodes || e != tt.edges {
				t.Errorf("counts = %d, %d, want %d, %d", n, e, tt.nodes, tt.edges)
			}
		})
	}
}

func TestWriteTikZ(t *testing.T) {
	c := canvas.New()
	g := c.AddGraph(r2.Vec{})
	a, _ := c.AddNode(g, r2.Vec{}, "a_1", canvas.NodeStyle{})
	red := canvas.DefaultNodeStyle
	red.Fill = "#ff0000"
	b, _ := c.AddNode(g, r2.Vec{X: 96, Y: 48}, "b", red)
	if _, err := c.AddEdge(a, b, "", canvas.EdgeStyle{}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteTikZ(c, &buf, 96); err != nil {
		t.Fatalf("WriteTikZ: %v", err)
	}
	want := `\begin{tikzpicture}[x=1in, y=1in, xscale=1, yscale=1,
	n/.style={fill=white, draw=black, shape=circle,
	minimum size=0.2083in, inner sep=0, font=\fontsize{10}{1}\selectfont,
	line width=0.0104in},
	e/.style={draw=black, line width=0.0104in},
	l/.style={font=\fontsize{9}{1}\selectfont}]
\node (v0) at (-0.5000,0.2500) [n] {$a_1^{}$};
\node (v1) at (0.5000,-0.2500) [n, fill=red] {$b$};
\path (v0) edge[e] node[l] {$$} (v1);
\end{tikzpicture}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteTikZ mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTikZDefinesColoursOnce(t *testing.T) {
	c := canvas.New()
	g := c.AddGraph(r2.Vec{})
	odd := canvas.DefaultNodeStyle
	odd.Fill = "#123456"
	for i := 0; i < 3; i++ {
		if _, err := c.AddNode(g, r2.Vec{X: float64(i) * 10}, "", canvas.NodeStyle{}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := c.AddNode(g, r2.Vec{Y: float64(i+1) * 10}, "", odd); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := WriteTikZ(c, &buf, 0); err != nil {
		t.Fatalf("WriteTikZ: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, `\definecolor{n3fillClr} {RGB} {18,52,86}`); got != 1 {
		t.Errorf("colour defined %d times, want 1:\n%s", got, out)
	}
	if got := strings.Count(out, "fill=n3fillClr"); got != 2 {
		t.Errorf("colour used %d times, want 2:\n%s", got, out)
	}
}

func TestTikzName(t *testing.T) {
	tests := []struct {
		hex  string
		want string
	}{
		{"#000000", "black"},
		{"#fff", "white"},
		{"#808080", "gray"},
		{"#7f7f7f", "gray"},
		{"#ff8000", "orange"},
		{"#123456", ""},
	}
	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, _ := tikzName(tt.hex)
			if got != tt.want {
				t.Errorf("tikzName(%q) = %q, want %q", tt.hex, got, tt.want)
			}
		})
	}
	common := []struct {
		vals []float64
		want float64
	}{
		{[]float64{1, 2, 2, 1}, 1},
		{[]float64{2, 1, 1, 2}, 2},
		{[]float64{3, 1, 2, 2}, 2},
		{[]float64{5}, 5},
	}
	for _, tt := range common {
		if got := mostCommon(tt.vals, 0); got != tt.want {
			t.Errorf("mostCommon(%v) = %v, want %v", tt.vals, got, tt.want)
		}
	}
	if !math.IsNaN(mostCommon(nil, math.NaN())) {
		t.Error("mostCommon(nil) should return the fallback")
	}
}
