package canvas

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// HitTest returns the topmost item at scene position p. Nodes win over
// edges; later roots and later children are on top. slack widens every
// target by that many scene units. The zero Ref means nothing was hit.
func (c *Canvas) HitTest(p r2.Vec, slack float64) Ref {
	roots := slices.Clone(c.registry.ids)
	slices.Reverse(roots)
	for _, g := range roots {
		nodes := c.graphs[g].NodeIDs()
		for i := len(nodes) - 1; i >= 0; i-- {
			n := c.nodes[nodes[i]]
			if r2.Norm(r2.Sub(c.toScene(g, n.Pos), p)) <= n.Radius()+slack {
				return NodeRef(n.ID)
			}
		}
	}
	for _, g := range roots {
		edges := c.graphs[g].EdgeIDs()
		for i := len(edges) - 1; i >= 0; i-- {
			e := c.edges[edges[i]]
			a := c.toScene(g, c.nodes[e.Source].Pos)
			b := c.toScene(g, c.nodes[e.Dest].Pos)
			if segmentDistance(p, a, b) <= e.Style.PenWidth/2+slack {
				return EdgeRef(e.ID)
			}
		}
	}
	return Ref{}
}

// NodesIn returns the nodes whose scene position lies inside box, in
// NodeIDs order.
func (c *Canvas) NodesIn(box r2.Box) []ID {
	box = box.Canon()
	var out []ID
	for _, id := range c.NodeIDs() {
		p, _ := c.ScenePos(id)
		if box.Contains(p) {
			out = append(out, id)
		}
	}
	return out
}

func segmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Dot(ab, ab)
	if l2 < Epsilon {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = max(0, min(1, t))
	return r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, ab))))
}
