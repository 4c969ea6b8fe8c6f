package canvas

import "slices"

// DeleteEdge removes edge e and splits its graph if the endpoints are no
// longer connected. It returns false if e is unknown.
func (c *Canvas) DeleteEdge(e ID) bool {
	edge := c.edges[e]
	if edge == nil {
		return false
	}
	src, dst := edge.Source, edge.Dest
	c.detachEdge(e)
	c.separate([]ID{dst, src})
	c.notifyChanged()
	return true
}

// DeleteNode removes node n with its incident edges. When n had two or more
// distinct neighbours the remaining structure is checked for disconnection.
// A graph left without children is removed from the canvas. It returns
// false if n is unknown.
func (c *Canvas) DeleteNode(n ID) bool {
	node := c.nodes[n]
	if node == nil {
		return false
	}
	neighbors := c.Neighbors(n)
	for _, eid := range slices.Clone(node.Edges) {
		c.detachEdge(eid)
	}
	if len(neighbors) > 1 {
		c.separate(neighbors)
	}
	parent := node.Parent
	c.destroyNode(n)
	c.pruneEmpty(parent)
	c.notifyChanged()
	return true
}

// DeleteGraph removes root graph g together with all of its nodes and
// edges. It returns false if g is unknown.
func (c *Canvas) DeleteGraph(g ID) bool {
	if c.graphs[g] == nil {
		return false
	}
	c.destroyGraph(g)
	c.notifyChanged()
	return true
}

// Delete removes the referenced item using DeleteNode, DeleteEdge or
// DeleteGraph.
func (c *Canvas) Delete(r Ref) bool {
	switch r.Kind {
	case KindNode:
		return c.DeleteNode(r.ID)
	case KindEdge:
		return c.DeleteEdge(r.ID)
	case KindGraph:
		return c.DeleteGraph(r.ID)
	default:
		return false
	}
}

// Clear removes everything from the canvas. IDs are not reused afterwards.
func (c *Canvas) Clear() {
	clear(c.nodes)
	clear(c.edges)
	clear(c.graphs)
	c.registry.reset()
	c.notifyChanged()
}
