package canvas

import (
	"fmt"
	"slices"
)

// Reparent moves a node or edge into graph g. A node keeps its scene
// position: its local position is converted from the old graph's
// coordinates to g's. The item's own rotation is reset to zero.
func (c *Canvas) Reparent(r Ref, g ID) error {
	target := c.graphs[g]
	if target == nil {
		return fmt.Errorf("reparent %s: %w", r, ErrUnknownGraph)
	}
	switch r.Kind {
	case KindNode:
		node := c.nodes[r.ID]
		if node == nil {
			return fmt.Errorf("reparent %s: %w", r, ErrUnknownNode)
		}
		if node.Parent == g {
			return nil
		}
		scene := c.toScene(node.Parent, node.Pos)
		c.removeChild(node.Parent, r)
		node.Parent = g
		node.Pos = c.toLocal(g, scene)
		node.Rotation = 0
	case KindEdge:
		edge := c.edges[r.ID]
		if edge == nil {
			return fmt.Errorf("reparent %s: %w", r, ErrUnknownEdge)
		}
		if edge.Parent == g {
			return nil
		}
		c.removeChild(edge.Parent, r)
		edge.Parent = g
		edge.Rotation = 0
	default:
		return fmt.Errorf("reparent %s: %w", r, ErrInvalidRef)
	}
	target.Children = append(target.Children, r)
	return nil
}

// mustReparent is used by operations that have already validated their
// inputs; a failure means the arena is corrupt.
func (c *Canvas) mustReparent(r Ref, g ID) {
	if err := c.Reparent(r, g); err != nil {
		panic("canvas: " + err.Error())
	}
}

// adoptAll reparents every child of from into to, skipping the listed
// refs.
func (c *Canvas) adoptAll(from, to ID, skip ...Ref) {
	children := append([]Ref(nil), c.graphs[from].Children...)
	for _, r := range children {
		if slices.Contains(skip, r) {
			continue
		}
		c.mustReparent(r, to)
	}
}
