package io

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
)

// FormatVersion is the document version written by this package.
const FormatVersion = 1

// Document is the serialized form of a canvas.
type Document struct {
	ID      string  `json:"id" bson:"_id"`
	Name    string  `json:"name,omitempty" bson:"name,omitempty"`
	Version int     `json:"version" bson:"version"`
	Graphs  []Graph `json:"graphs" bson:"graphs"`
}

// Graph is one root graph of a Document.
type Graph struct {
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Rotation float64 `json:"rotation,omitempty" bson:"rotation,omitempty"`
	Nodes    []Node  `json:"nodes" bson:"nodes"`
	Edges    []Edge  `json:"edges" bson:"edges"`
}

// Node is a node position relative to its graph's origin.
type Node struct {
	X     float64    `json:"x" bson:"x"`
	Y     float64    `json:"y" bson:"y"`
	Label string     `json:"label,omitempty" bson:"label,omitempty"`
	Style *NodeStyle `json:"style,omitempty" bson:"style,omitempty"`
}

// Edge joins two nodes of the same Graph by index.
type Edge struct {
	From  int        `json:"from" bson:"from"`
	To    int        `json:"to" bson:"to"`
	Label string     `json:"label,omitempty" bson:"label,omitempty"`
	Style *EdgeStyle `json:"style,omitempty" bson:"style,omitempty"`
}

// NodeStyle mirrors canvas.NodeStyle.
type NodeStyle struct {
	Diameter  float64 `json:"diameter" bson:"diameter"`
	PenWidth  float64 `json:"pen_width" bson:"pen_width"`
	Fill      string  `json:"fill" bson:"fill"`
	Line      string  `json:"line" bson:"line"`
	LabelSize float64 `json:"label_size" bson:"label_size"`
}

// EdgeStyle mirrors canvas.EdgeStyle.
type EdgeStyle struct {
	PenWidth  float64 `json:"pen_width" bson:"pen_width"`
	Color     string  `json:"color" bson:"color"`
	LabelSize float64 `json:"label_size" bson:"label_size"`
}

// New returns an empty document with a fresh ID.
func New(name string) *Document {
	return &Document{ID: uuid.NewString(), Name: name, Version: FormatVersion}
}

// FromCanvas captures every root graph of c in registry order.
func FromCanvas(c *canvas.Canvas, name string) *Document {
	d := New(name)
	for _, gid := range c.Roots() {
		g := c.Graph(gid)
		out := Graph{X: g.Pos.X, Y: g.Pos.Y, Rotation: g.Rotation}
		index := make(map[canvas.ID]int)
		for _, nid := range g.NodeIDs() {
			n := c.Node(nid)
			index[nid] = len(out.Nodes)
			out.Nodes = append(out.Nodes, Node{X: n.Pos.X, Y: n.Pos.Y, Label: n.Label, Style: nodeStyleOf(n.Style)})
		}
		for _, eid := range g.EdgeIDs() {
			e := c.Edge(eid)
			out.Edges = append(out.Edges, Edge{
				From:  index[e.Source],
				To:    index[e.Dest],
				Label: e.Label,
				Style: edgeStyleOf(e.Style),
			})
		}
		d.Graphs = append(d.Graphs, out)
	}
	return d
}

// Counts returns the number of graphs, nodes and edges in d.
func (d *Document) Counts() (graphs, nodes, edges int) {
	for _, g := range d.Graphs {
		nodes += len(g.Nodes)
		edges += len(g.Edges)
	}
	return len(d.Graphs), nodes, edges
}

// Validate checks that d can be built into a canvas.
func (d *Document) Validate() error {
	if d.ID != "" {
		if err := errors.ValidateDocumentID(d.ID); err != nil {
			return err
		}
	}
	if d.Version < 0 || d.Version > FormatVersion {
		return errors.New(errors.ErrCodeInvalidDocument, "unsupported document version %d", d.Version)
	}
	for gi, g := range d.Graphs {
		for ni, n := range g.Nodes {
			if n.Style == nil {
				continue
			}
			for _, col := range []string{n.Style.Fill, n.Style.Line} {
				if col == "" {
					continue
				}
				if err := errors.ValidateColor(col); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidDocument, err, "graph %d node %d", gi, ni)
				}
			}
		}
		for ei, e := range g.Edges {
			if e.From < 0 || e.From >= len(g.Nodes) || e.To < 0 || e.To >= len(g.Nodes) {
				return errors.New(errors.ErrCodeInvalidDocument, "graph %d edge %d: endpoint out of range", gi, ei)
			}
			if e.From == e.To {
				return errors.New(errors.ErrCodeInvalidDocument, "graph %d edge %d: self loop", gi, ei)
			}
			if e.Style != nil && e.Style.Color != "" {
				if err := errors.ValidateColor(e.Style.Color); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidDocument, err, "graph %d edge %d", gi, ei)
				}
			}
		}
	}
	return nil
}

// Build creates a new canvas holding the graphs of d.
func (d *Document) Build(opts ...canvas.Option) (*canvas.Canvas, error) {
	c := canvas.New(opts...)
	if _, err := d.AppendTo(c); err != nil {
		return nil, err
	}
	return c, nil
}

// AppendTo adds the graphs of d to c as new roots and returns their IDs.
// Nothing is added if d is invalid.
func (d *Document) AppendTo(c *canvas.Canvas) ([]canvas.ID, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	var roots []canvas.ID
	for _, g := range d.Graphs {
		gid := c.AddGraph(r2.Vec{X: g.X, Y: g.Y})
		ids := make([]canvas.ID, len(g.Nodes))
		for i, n := range g.Nodes {
			id, err := c.AddNode(gid, r2.Vec{X: n.X, Y: n.Y}, n.Label, n.Style.toCanvas())
			if err != nil {
				return roots, errors.Wrap(errors.ErrCodeInternal, err, "build node %d", i)
			}
			ids[i] = id
		}
		for i, e := range g.Edges {
			if _, err := c.AddEdge(ids[e.From], ids[e.To], e.Label, e.Style.toCanvas()); err != nil {
				return roots, errors.Wrap(errors.ErrCodeInternal, err, "build edge %d", i)
			}
		}
		if g.Rotation != 0 {
			c.RotateGraph(gid, g.Rotation, false)
		}
		roots = append(roots, gid)
	}
	return roots, nil
}

func nodeStyleOf(s canvas.NodeStyle) *NodeStyle {
	if s == canvas.DefaultNodeStyle {
		return nil
	}
	return &NodeStyle{Diameter: s.Diameter, PenWidth: s.PenWidth, Fill: s.Fill, Line: s.Line, LabelSize: s.LabelSize}
}

func edgeStyleOf(s canvas.EdgeStyle) *EdgeStyle {
	if s == canvas.DefaultEdgeStyle {
		return nil
	}
	return &EdgeStyle{PenWidth: s.PenWidth, Color: s.Color, LabelSize: s.LabelSize}
}

// toCanvas returns the zero style for a nil receiver so that the canvas
// applies its default.
func (s *NodeStyle) toCanvas() canvas.NodeStyle {
	if s == nil {
		return canvas.NodeStyle{}
	}
	return canvas.NodeStyle{Diameter: s.Diameter, PenWidth: s.PenWidth, Fill: s.Fill, Line: s.Line, LabelSize: s.LabelSize}
}

func (s *EdgeStyle) toCanvas() canvas.EdgeStyle {
	if s == nil {
		return canvas.EdgeStyle{}
	}
	return canvas.EdgeStyle{PenWidth: s.PenWidth, Color: s.Color, LabelSize: s.LabelSize}
}
