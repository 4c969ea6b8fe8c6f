package canvas

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

// JoinTwoNodes identifies n2 with n1. The root graph of n2 is translated so
// the two nodes coincide, n2's edges are redirected to n1, and the contents
// of both roots move into a new root that replaces them. n2 is destroyed.
//
// The request is ignored, returning false, when either node is unknown, the
// nodes are the same, or they already share a root.
func (c *Canvas) JoinTwoNodes(n1, n2 ID) (ID, bool) {
	a, b := c.nodes[n1], c.nodes[n2]
	if a == nil || b == nil || n1 == n2 || a.Parent == b.Parent {
		c.logger.Debug("two-node join ignored", "n1", n1, "n2", n2)
		return 0, false
	}
	root1, root2 := a.Parent, b.Parent
	joined := c.newGraph(c.graphs[root1].Pos)

	p1 := c.toScene(root1, a.Pos)
	p2 := c.toScene(root2, b.Pos)
	c.moveRoot(root2, Pose{
		Pos:      r2.Add(c.graphs[root2].Pos, r2.Sub(p1, p2)),
		Rotation: c.graphs[root2].Rotation,
	})

	c.redirectEdges(n2, n1)

	c.adoptAll(root1, joined.ID)
	c.adoptAll(root2, joined.ID, NodeRef(n2))
	if isInteger(a.Label) {
		c.relabel(joined.ID)
	}
	c.centerGraph(joined.ID)

	c.destroyNode(n2)
	c.destroyGraph(root1)
	c.destroyGraph(root2)
	c.registry.Add(joined.ID)

	c.logger.Debug("joined graphs", "root1", root1, "root2", root2, "graph", joined.ID)
	c.notifyJoined(joined.ID)
	c.notifyChanged()
	return joined.ID, true
}

// JoinFourNodes identifies n2a with n1a and n2b with n1b. The root of the
// second pair is rotated about its origin until segment n2a-n2b is parallel
// to n1a-n1b, then translated so the midpoints of the segments coincide.
// Edges of n2a and n2b are redirected, a duplicated n1a-n1b edge is
// collapsed to one, and both roots are replaced by a new root.
//
// The request is ignored, returning false, unless the four nodes are
// distinct, n1a and n1b share one root, n2a and n2b share another, and the
// two roots differ.
func (c *Canvas) JoinFourNodes(n1a, n1b, n2a, n2b ID) (ID, bool) {
	if !c.validFourJoin(n1a, n1b, n2a, n2b) {
		c.logger.Debug("four-node join ignored", "n1a", n1a, "n1b", n1b, "n2a", n2a, "n2b", n2b)
		return 0, false
	}
	root1, root2 := c.nodes[n1a].Parent, c.nodes[n2a].Parent
	joined := c.newGraph(c.graphs[root1].Pos)

	p1a, _ := c.ScenePos(n1a)
	p1b, _ := c.ScenePos(n1b)
	p2a, _ := c.ScenePos(n2a)
	p2b, _ := c.ScenePos(n2b)

	turn := alignmentAngle(r2.Sub(p1b, p1a), r2.Sub(p2b, p2a))
	g2 := c.graphs[root2]
	c.moveRoot(root2, Pose{Pos: g2.Pos, Rotation: g2.Rotation + turn})

	// Positions changed with the rotation.
	p2a, _ = c.ScenePos(n2a)
	p2b, _ = c.ScenePos(n2b)
	shift := r2.Sub(midpoint(p1a, p1b), midpoint(p2a, p2b))
	c.moveRoot(root2, Pose{Pos: r2.Add(g2.Pos, shift), Rotation: g2.Rotation})

	c.redirectEdges(n2a, n1a)
	c.redirectEdges(n2b, n1b)
	c.collapseDuplicates(n1a, n1b)

	c.adoptAll(root1, joined.ID)
	c.adoptAll(root2, joined.ID, NodeRef(n2a), NodeRef(n2b))
	if isInteger(c.nodes[n1a].Label) {
		c.relabel(joined.ID)
	}
	c.centerGraph(joined.ID)

	c.destroyNode(n2a)
	c.destroyNode(n2b)
	c.destroyGraph(root1)
	c.destroyGraph(root2)
	c.registry.Add(joined.ID)

	c.logger.Debug("joined graphs", "root1", root1, "root2", root2, "graph", joined.ID, "turn", turn)
	c.notifyJoined(joined.ID)
	c.notifyChanged()
	return joined.ID, true
}

func (c *Canvas) validFourJoin(n1a, n1b, n2a, n2b ID) bool {
	ids := []ID{n1a, n1b, n2a, n2b}
	for i, id := range ids {
		if c.nodes[id] == nil {
			return false
		}
		for _, other := range ids[i+1:] {
			if id == other {
				return false
			}
		}
	}
	root1, root2 := c.nodes[n1a].Parent, c.nodes[n2a].Parent
	return c.nodes[n1b].Parent == root1 &&
		c.nodes[n2b].Parent == root2 &&
		root1 != root2
}

// moveRoot hands the movement to the animator, then applies the final pose.
func (c *Canvas) moveRoot(g ID, to Pose) {
	c.animate(g, to)
	graph := c.graphs[g]
	graph.Pos = to.Pos
	if to.Rotation != graph.Rotation {
		c.setRotation(graph, to.Rotation, false)
	}
}

// redirectEdges moves every edge endpoint at from over to to.
func (c *Canvas) redirectEdges(from, to ID) {
	src, dst := c.nodes[from], c.nodes[to]
	for _, eid := range src.Edges {
		e := c.edges[eid]
		if e.Source == from {
			e.Source = to
		}
		if e.Dest == from {
			e.Dest = to
		}
		dst.Edges = append(dst.Edges, eid)
	}
	src.Edges = nil
}

// collapseDuplicates keeps the first edge between a and b and deletes the
// rest.
func (c *Canvas) collapseDuplicates(a, b ID) {
	var dups []ID
	seen := false
	for _, eid := range c.nodes[a].Edges {
		if !c.edges[eid].Connects(a, b) {
			continue
		}
		if seen {
			dups = append(dups, eid)
		}
		seen = true
	}
	for _, eid := range dups {
		c.detachEdge(eid)
	}
	if len(dups) > 0 {
		c.logger.Debug("collapsed duplicate edges", "a", a, "b", b, "removed", len(dups))
	}
}

// relabel numbers the nodes of g from 0 in child order.
func (c *Canvas) relabel(g ID) {
	for i, id := range c.graphs[g].NodeIDs() {
		c.nodes[id].Label = strconv.Itoa(i)
	}
}

// alignmentAngle returns the rotation in degrees that turns direction v
// onto direction u. Degenerate directions need no rotation.
func alignmentAngle(u, v r2.Vec) float64 {
	if r2.Norm(u) < Epsilon || r2.Norm(v) < Epsilon {
		return 0
	}
	rad := math.Atan2(u.Y, u.X) - math.Atan2(v.Y, v.X)
	return rad * 180 / math.Pi
}

func midpoint(a, b r2.Vec) r2.Vec {
	return r2.Scale(0.5, r2.Add(a, b))
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
