package render

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
)

// DefaultMargin pads the scene bounds on every side.
const DefaultMargin = 10

// Disc is a node resolved into scene space.
type Disc struct {
	ID     canvas.ID
	Center r2.Vec
	Radius float64
	Label  string
	Style  canvas.NodeStyle
}

// Segment is an edge resolved into scene space.
type Segment struct {
	ID           canvas.ID
	Source, Dest canvas.ID
	From, To     r2.Vec
	Label        string
	Style        canvas.EdgeStyle
}

// Mid returns the midpoint of the segment, where its label sits.
func (s Segment) Mid() r2.Vec {
	return r2.Scale(0.5, r2.Add(s.From, s.To))
}

// Scene is a flat, drawable copy of a canvas. Edges come first so that
// nodes are painted over them.
type Scene struct {
	Bounds r2.Box
	Nodes  []Disc
	Edges  []Segment
}

// Width returns the width of the padded bounds.
func (s *Scene) Width() float64 { return s.Bounds.Max.X - s.Bounds.Min.X }

// Height returns the height of the padded bounds.
func (s *Scene) Height() float64 { return s.Bounds.Max.Y - s.Bounds.Min.Y }

// Flatten resolves every root graph of c into scene coordinates. Graphs
// appear in registry order and items in child order. The bounds enclose
// every node disc plus margin; an empty canvas yields a margin-sized box
// around the origin.
func Flatten(c *canvas.Canvas, margin float64) *Scene {
	s := &Scene{}
	for _, g := range c.Roots() {
		graph := c.Graph(g)
		for _, eid := range graph.EdgeIDs() {
			e := c.Edge(eid)
			from, _ := c.ScenePos(e.Source)
			to, _ := c.ScenePos(e.Dest)
			s.Edges = append(s.Edges, Segment{ID: eid, Source: e.Source, Dest: e.Dest, From: from, To: to, Label: e.Label, Style: e.Style})
		}
		for _, nid := range graph.NodeIDs() {
			n := c.Node(nid)
			p, _ := c.ScenePos(nid)
			s.Nodes = append(s.Nodes, Disc{ID: nid, Center: p, Radius: n.Radius(), Label: n.Label, Style: n.Style})
		}
	}

	box, ok := c.SceneBounds()
	if !ok {
		box = r2.Box{}
	}
	pad := r2.Vec{X: margin, Y: margin}
	s.Bounds = r2.Box{Min: r2.Sub(box.Min, pad), Max: r2.Add(box.Max, pad)}
	return s
}
