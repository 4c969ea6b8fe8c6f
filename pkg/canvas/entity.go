package canvas

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// ID identifies a Node, Edge or Graph within one Canvas.
// The zero ID never names a live entity.
type ID uint64

// String returns the ID in decimal.
func (id ID) String() string {
	return fmt.Sprintf("%d", uint64(id))
}

// Kind distinguishes the entity types stored in a Canvas.
type Kind uint8

const (
	// KindNode marks a Node.
	KindNode Kind = iota + 1
	// KindEdge marks an Edge.
	KindEdge
	// KindGraph marks a Graph.
	KindGraph
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	case KindGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// Ref names an entity together with its kind. Graph child lists hold Refs
// whose Kind is either KindNode or KindEdge.
type Ref struct {
	Kind Kind
	ID   ID
}

// NodeRef returns a Ref to the node with the given ID.
func NodeRef(id ID) Ref { return Ref{Kind: KindNode, ID: id} }

// EdgeRef returns a Ref to the edge with the given ID.
func EdgeRef(id ID) Ref { return Ref{Kind: KindEdge, ID: id} }

// GraphRef returns a Ref to the graph with the given ID.
func GraphRef(id ID) Ref { return Ref{Kind: KindGraph, ID: id} }

func (r Ref) String() string {
	return r.Kind.String() + " " + r.ID.String()
}

// NodeStyle holds the drawing attributes of a Node. Lengths are in scene
// units.
type NodeStyle struct {
	Diameter  float64
	PenWidth  float64
	Fill      string
	Line      string
	LabelSize float64
}

// EdgeStyle holds the drawing attributes of an Edge.
type EdgeStyle struct {
	PenWidth  float64
	Color     string
	LabelSize float64
}

// DefaultNodeStyle supplies every attribute a NodeStyle leaves zero.
var DefaultNodeStyle = NodeStyle{
	Diameter:  20,
	PenWidth:  1,
	Fill:      "#ffffff",
	Line:      "#000000",
	LabelSize: 10,
}

// DefaultEdgeStyle supplies every attribute an EdgeStyle leaves zero.
var DefaultEdgeStyle = EdgeStyle{
	PenWidth:  1,
	Color:     "#000000",
	LabelSize: 9,
}

// Node is a drawn vertex.
type Node struct {
	ID     ID
	Parent ID

	// Pos is the position relative to the parent Graph's origin, before the
	// parent's rotation is applied.
	Pos r2.Vec

	// Rotation is the node's own rotation in degrees. Nodes inside a
	// rotated Graph carry the opposite of the Graph's rotation.
	Rotation float64

	Label string
	Style NodeStyle

	// Edges lists the incident edges in the order they were attached.
	Edges []ID
}

// Radius returns half of the node's diameter.
func (n *Node) Radius() float64 {
	return n.Style.Diameter / 2
}

// Edge connects two distinct Nodes of the same Graph.
type Edge struct {
	ID       ID
	Parent   ID
	Source   ID
	Dest     ID
	Rotation float64
	Label    string
	Style    EdgeStyle
}

// Other returns the endpoint of e that is not n. It returns 0 if n is not an
// endpoint of e.
func (e *Edge) Other(n ID) ID {
	switch n {
	case e.Source:
		return e.Dest
	case e.Dest:
		return e.Source
	default:
		return 0
	}
}

// Connects reports whether e joins a and b in either direction.
func (e *Edge) Connects(a, b ID) bool {
	return (e.Source == a && e.Dest == b) || (e.Source == b && e.Dest == a)
}

// Graph is a container of Nodes and Edges.
type Graph struct {
	ID ID

	// Pos is the scene position of the graph's origin.
	Pos r2.Vec

	// Rotation is applied to all children about the origin, in degrees.
	Rotation float64

	// Children lists owned nodes and edges in insertion order.
	Children []Ref
}

// NodeIDs returns the IDs of the graph's child nodes in child order.
func (g *Graph) NodeIDs() []ID {
	var ids []ID
	for _, r := range g.Children {
		if r.Kind == KindNode {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// EdgeIDs returns the IDs of the graph's child edges in child order.
func (g *Graph) EdgeIDs() []ID {
	var ids []ID
	for _, r := range g.Children {
		if r.Kind == KindEdge {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// orDefault fills every zero field from DefaultNodeStyle.
func (s NodeStyle) orDefault() NodeStyle {
	d := DefaultNodeStyle
	if s.Diameter <= 0 {
		s.Diameter = d.Diameter
	}
	if s.PenWidth <= 0 {
		s.PenWidth = d.PenWidth
	}
	if s.Fill == "" {
		s.Fill = d.Fill
	}
	if s.Line == "" {
		s.Line = d.Line
	}
	if s.LabelSize <= 0 {
		s.LabelSize = d.LabelSize
	}
	return s
}

// orDefault fills every zero field from DefaultEdgeStyle.
func (s EdgeStyle) orDefault() EdgeStyle {
	d := DefaultEdgeStyle
	if s.PenWidth <= 0 {
		s.PenWidth = d.PenWidth
	}
	if s.Color == "" {
		s.Color = d.Color
	}
	if s.LabelSize <= 0 {
		s.LabelSize = d.LabelSize
	}
	return s
}
