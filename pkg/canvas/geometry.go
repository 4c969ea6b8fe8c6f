package canvas

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the tolerance used for geometric comparisons.
const Epsilon = 1e-9

// rotate turns p about the origin by deg degrees.
func rotate(p r2.Vec, deg float64) r2.Vec {
	if deg == 0 {
		return p
	}
	return r2.Rotate(p, deg*math.Pi/180, r2.Vec{})
}

// ScenePos returns the scene position of node n. Unknown nodes yield the
// zero vector and false.
func (c *Canvas) ScenePos(n ID) (r2.Vec, bool) {
	node := c.nodes[n]
	if node == nil {
		return r2.Vec{}, false
	}
	return c.toScene(node.Parent, node.Pos), true
}

func (c *Canvas) toScene(g ID, local r2.Vec) r2.Vec {
	graph := c.graphs[g]
	return r2.Add(graph.Pos, rotate(local, graph.Rotation))
}

// ToLocal converts a scene position into the local coordinates of graph g.
func (c *Canvas) ToLocal(g ID, scene r2.Vec) (r2.Vec, bool) {
	graph := c.graphs[g]
	if graph == nil {
		return r2.Vec{}, false
	}
	return c.toLocal(g, scene), true
}

func (c *Canvas) toLocal(g ID, scene r2.Vec) r2.Vec {
	graph := c.graphs[g]
	return rotate(r2.Sub(scene, graph.Pos), -graph.Rotation)
}

// Bounds describes the extent of a graph's nodes.
type Bounds struct {
	// Rect is the scene-space rectangle covering the nodes.
	Rect r2.Box

	// Center is the midpoint of Rect.
	Center r2.Vec

	// LocalCentroid is the mean of the nodes' local positions. It does not
	// depend on the graph's own position or rotation.
	LocalCentroid r2.Vec
}

// Width returns the width of the rectangle.
func (b Bounds) Width() float64 { return b.Rect.Max.X - b.Rect.Min.X }

// Height returns the height of the rectangle.
func (b Bounds) Height() float64 { return b.Rect.Max.Y - b.Rect.Min.Y }

// BoundingBox computes the bounds of graph g's nodes. When includeRadii is
// set each node contributes a square of its diameter instead of a point.
// It returns false when g is unknown or has no nodes.
func (c *Canvas) BoundingBox(g ID, includeRadii bool) (Bounds, bool) {
	graph := c.graphs[g]
	if graph == nil {
		return Bounds{}, false
	}
	var (
		b     Bounds
		sum   r2.Vec
		count int
	)
	for _, id := range graph.NodeIDs() {
		node := c.nodes[id]
		p := c.toScene(g, node.Pos)
		r := 0.0
		if includeRadii {
			r = node.Radius()
		}
		lo := r2.Vec{X: p.X - r, Y: p.Y - r}
		hi := r2.Vec{X: p.X + r, Y: p.Y + r}
		if count == 0 {
			b.Rect = r2.Box{Min: lo, Max: hi}
		} else {
			b.Rect.Min.X = math.Min(b.Rect.Min.X, lo.X)
			b.Rect.Min.Y = math.Min(b.Rect.Min.Y, lo.Y)
			b.Rect.Max.X = math.Max(b.Rect.Max.X, hi.X)
			b.Rect.Max.Y = math.Max(b.Rect.Max.Y, hi.Y)
		}
		sum = r2.Add(sum, node.Pos)
		count++
	}
	if count == 0 {
		return Bounds{}, false
	}
	b.Center = r2.Scale(0.5, r2.Add(b.Rect.Min, b.Rect.Max))
	b.LocalCentroid = r2.Scale(1/float64(count), sum)
	return b, true
}

// SceneBounds returns the rectangle covering every node on the canvas,
// inflated by node radii. It returns false for an empty canvas.
func (c *Canvas) SceneBounds() (r2.Box, bool) {
	var (
		box r2.Box
		ok  bool
	)
	for _, g := range c.registry.ids {
		b, has := c.BoundingBox(g, true)
		if !has {
			continue
		}
		if !ok {
			box, ok = b.Rect, true
			continue
		}
		box.Min.X = math.Min(box.Min.X, b.Rect.Min.X)
		box.Min.Y = math.Min(box.Min.Y, b.Rect.Min.Y)
		box.Max.X = math.Max(box.Max.X, b.Rect.Max.X)
		box.Max.Y = math.Max(box.Max.Y, b.Rect.Max.Y)
	}
	return box, ok
}

// CenterGraph moves the origin of graph g to the centroid of its nodes
// without moving anything on screen. Afterwards the local centroid is the
// zero vector. Calling it again is a no-op. It returns false when g is
// unknown or has no nodes. Observers hear about it only when the origin
// actually moved.
func (c *Canvas) CenterGraph(g ID) bool {
	moved, ok := c.centerGraph(g)
	if moved {
		c.notifyChanged()
	}
	return ok
}

// centerGraph is CenterGraph without notification, for operations that
// notify once at the end.
func (c *Canvas) centerGraph(g ID) (moved, ok bool) {
	b, ok := c.BoundingBox(g, false)
	if !ok {
		return false, false
	}
	centroid := b.LocalCentroid
	if r2.Norm(centroid) < Epsilon {
		return false, true
	}
	graph := c.graphs[g]
	for _, id := range graph.NodeIDs() {
		node := c.nodes[id]
		node.Pos = r2.Sub(node.Pos, centroid)
	}
	graph.Pos = r2.Add(graph.Pos, rotate(centroid, graph.Rotation))
	return true, true
}

// TranslateGraph moves graph g by delta in scene space.
func (c *Canvas) TranslateGraph(g ID, delta r2.Vec) bool {
	graph := c.graphs[g]
	if graph == nil {
		return false
	}
	graph.Pos = r2.Add(graph.Pos, delta)
	c.notifyChanged()
	return true
}

// MoveGraph places the origin of graph g at scene position p.
func (c *Canvas) MoveGraph(g ID, p r2.Vec) bool {
	graph := c.graphs[g]
	if graph == nil {
		return false
	}
	graph.Pos = p
	c.notifyChanged()
	return true
}

// RotateGraph sets the rotation of graph g to deg, or adds deg to it when
// relative is set. Children receive the opposite rotation so their labels
// stay upright.
func (c *Canvas) RotateGraph(g ID, deg float64, relative bool) bool {
	graph := c.graphs[g]
	if graph == nil {
		return false
	}
	c.setRotation(graph, deg, relative)
	c.notifyChanged()
	return true
}

func (c *Canvas) setRotation(graph *Graph, deg float64, relative bool) {
	if relative {
		deg += graph.Rotation
	}
	graph.Rotation = math.Mod(deg, 360)
	for _, r := range graph.Children {
		switch r.Kind {
		case KindNode:
			c.nodes[r.ID].Rotation = -graph.Rotation
		case KindEdge:
			c.edges[r.ID].Rotation = -graph.Rotation
		}
	}
}

// MoveNode places node n at scene position p, leaving its graph in place.
func (c *Canvas) MoveNode(n ID, p r2.Vec) bool {
	node := c.nodes[n]
	if node == nil {
		return false
	}
	node.Pos = c.toLocal(node.Parent, p)
	c.notifyChanged()
	return true
}

// SnapNode rounds the scene position of node n to the nearest multiple of
// grid.
func (c *Canvas) SnapNode(n ID, grid float64) bool {
	p, ok := c.ScenePos(n)
	if !ok || grid <= 0 {
		return false
	}
	return c.MoveNode(n, r2.Vec{
		X: math.Round(p.X/grid) * grid,
		Y: math.Round(p.Y/grid) * grid,
	})
}

// SnapGraph moves the origin of graph g down to the grid cell that
// contains it.
func (c *Canvas) SnapGraph(g ID, grid float64) bool {
	graph := c.graphs[g]
	if graph == nil || grid <= 0 {
		return false
	}
	return c.MoveGraph(g, r2.Vec{
		X: math.Floor(graph.Pos.X/grid) * grid,
		Y: math.Floor(graph.Pos.Y/grid) * grid,
	})
}
