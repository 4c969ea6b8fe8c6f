package canvas

import (
	"errors"
	"fmt"
	"slices"
)

// Check verifies the structural invariants of the canvas and returns every
// violation found, joined into one error. A nil result means:
//   - every registered root is a live graph and every live graph is a root
//   - every node and edge is listed exactly once, by its parent
//   - edge endpoints are distinct live nodes of the edge's graph and list
//     the edge among their incident edges
//   - no graph lists another graph as a child
//
// Connectivity is not checked. A root with several components is valid,
// for example after a freestyle chain restarts; see Components.
func (c *Canvas) Check() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for _, g := range c.registry.ids {
		if c.graphs[g] == nil {
			fail("registry: root %d is not a live graph", g)
		}
	}
	owners := make(map[Ref]int)
	for id, graph := range c.graphs {
		if !c.registry.Contains(id) {
			fail("graph %d: not registered as a root", id)
		}
		for _, r := range graph.Children {
			owners[r]++
			switch r.Kind {
			case KindNode:
				if n := c.nodes[r.ID]; n == nil {
					fail("graph %d: child %s is not live", id, r)
				} else if n.Parent != id {
					fail("graph %d: child %s names parent %d", id, r, n.Parent)
				}
			case KindEdge:
				if e := c.edges[r.ID]; e == nil {
					fail("graph %d: child %s is not live", id, r)
				} else if e.Parent != id {
					fail("graph %d: child %s names parent %d", id, r, e.Parent)
				}
			default:
				fail("graph %d: child %s is not a node or edge", id, r)
			}
		}
	}
	for id := range c.nodes {
		if k := owners[NodeRef(id)]; k != 1 {
			fail("node %d: listed by %d graphs", id, k)
		}
	}
	for id, e := range c.edges {
		if k := owners[EdgeRef(id)]; k != 1 {
			fail("edge %d: listed by %d graphs", id, k)
		}
		if e.Source == e.Dest {
			fail("edge %d: self loop on node %d", id, e.Source)
		}
		for _, end := range []ID{e.Source, e.Dest} {
			n := c.nodes[end]
			switch {
			case n == nil:
				fail("edge %d: endpoint %d is not live", id, end)
			case n.Parent != e.Parent:
				fail("edge %d: endpoint %d belongs to graph %d, edge to %d", id, end, n.Parent, e.Parent)
			case !slices.Contains(n.Edges, id):
				fail("edge %d: endpoint %d does not list it", id, end)
			}
		}
	}
	for id, n := range c.nodes {
		for _, eid := range n.Edges {
			if e := c.edges[eid]; e == nil || e.Other(id) == 0 {
				fail("node %d: incident edge %d does not touch it", id, eid)
			}
		}
	}
	return errors.Join(errs...)
}

// Components returns the connected components of graph g as lists of node
// IDs. Each list follows child order, and lists are ordered by their first
// node. A graph built only by joins, separations and connections has at
// most one component.
func (c *Canvas) Components(g ID) [][]ID {
	graph := c.graphs[g]
	if graph == nil {
		return nil
	}
	var out [][]ID
	assigned := make(map[ID]bool)
	nodes := graph.NodeIDs()
	for _, n := range nodes {
		if assigned[n] {
			continue
		}
		comp := c.reach(n)
		var ids []ID
		for _, m := range nodes {
			if comp.nodes[m] {
				ids = append(ids, m)
				assigned[m] = true
			}
		}
		out = append(out, ids)
	}
	return out
}
