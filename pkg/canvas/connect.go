package canvas

import "gonum.org/v1/gonum/spatial/r2"

// Connect adds an edge between n1 and n2 the way freehand drawing does.
// If an edge already joins the nodes in either direction nothing is added
// and the existing edge is returned with false. When the nodes belong to
// different roots, both roots are merged into a new centred root first,
// keeping every item in place.
func (c *Canvas) Connect(n1, n2 ID) (ID, bool) {
	a, b := c.nodes[n1], c.nodes[n2]
	if a == nil || b == nil || n1 == n2 {
		return 0, false
	}
	if e := c.FindEdge(n1, n2); e != 0 {
		return e, false
	}
	if a.Parent != b.Parent {
		c.merge(a.Parent, b.Parent)
	}
	e := c.attachEdge(a.Parent, n1, n2)
	c.notifyChanged()
	return e.ID, true
}

// merge moves the contents of g1 and g2 into a new root and destroys them.
func (c *Canvas) merge(g1, g2 ID) ID {
	merged := c.newGraph(r2.Vec{})
	c.adoptAll(g1, merged.ID)
	c.adoptAll(g2, merged.ID)
	c.centerGraph(merged.ID)
	c.destroyGraph(g1)
	c.destroyGraph(g2)
	c.registry.Add(merged.ID)
	c.logger.Debug("merged graphs", "g1", g1, "g2", g2, "graph", merged.ID)
	c.notifyJoined(merged.ID)
	return merged.ID
}
