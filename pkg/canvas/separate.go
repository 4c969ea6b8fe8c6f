package canvas

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"gonum.org/v1/gonum/spatial/r2"
)

// component is the set of nodes and edges reached by one traversal.
type component struct {
	nodes map[ID]bool
	edges map[ID]bool
}

// reach collects everything connected to start through incident edges.
func (c *Canvas) reach(start ID) component {
	comp := component{
		nodes: map[ID]bool{start: true},
		edges: map[ID]bool{},
	}
	queue := linkedlistqueue.New()
	queue.Enqueue(start)
	for !queue.Empty() {
		v, _ := queue.Dequeue()
		n := v.(ID)
		for _, eid := range c.nodes[n].Edges {
			if comp.edges[eid] {
				continue
			}
			comp.edges[eid] = true
			other := c.edges[eid].Other(n)
			if !comp.nodes[other] {
				comp.nodes[other] = true
				queue.Enqueue(other)
			}
		}
	}
	return comp
}

// Connected reports whether a and b are joined by a path of edges.
func (c *Canvas) Connected(a, b ID) bool {
	if c.nodes[a] == nil || c.nodes[b] == nil {
		return false
	}
	return c.reach(a).nodes[b]
}

// SeparateIfNeeded splits root graphs that became disconnected after an
// edge or node was removed. witnesses are the nodes that were connected
// through the removed item. Witnesses are processed in order; each one not
// yet accounted for seeds a traversal, and when the traversal misses some
// of the later witnesses its component moves into a new root graph. The
// component of the last remaining witness stays in the original graph.
//
// It returns the IDs of the spawned graphs. Observers are told only if
// something was spawned; from names the first graph that split.
func (c *Canvas) SeparateIfNeeded(witnesses []ID) []ID {
	spawned := c.separate(witnesses)
	if len(spawned) > 0 {
		c.notifyChanged()
	}
	return spawned
}

// separate splits without the change notification, for deletes that send
// their own.
func (c *Canvas) separate(witnesses []ID) []ID {
	var (
		from    ID
		spawned []ID
	)
	for _, grp := range c.groupWitnesses(witnesses) {
		created := c.separateGroup(grp.parent, grp.nodes)
		if len(created) == 0 {
			continue
		}
		if from == 0 {
			from = grp.parent
		}
		c.logger.Debug("separated graph", "graph", grp.parent, "spawned", created)
		spawned = append(spawned, created...)
	}
	if len(spawned) > 0 {
		c.notifySeparated(from, spawned)
	}
	return spawned
}

type witnessGroup struct {
	parent ID
	nodes  []ID
}

// groupWitnesses drops unknown and repeated witnesses and groups the rest
// by owning graph, keeping first-seen order.
func (c *Canvas) groupWitnesses(witnesses []ID) []witnessGroup {
	var groups []witnessGroup
	index := make(map[ID]int)
	seen := make(map[ID]bool)
	for _, w := range witnesses {
		node := c.nodes[w]
		if node == nil || seen[w] {
			continue
		}
		seen[w] = true
		i, ok := index[node.Parent]
		if !ok {
			i = len(groups)
			index[node.Parent] = i
			groups = append(groups, witnessGroup{parent: node.Parent})
		}
		groups[i].nodes = append(groups[i].nodes, w)
	}
	return groups
}

func (c *Canvas) separateGroup(parent ID, ws []ID) []ID {
	var created []ID
	accounted := make([]bool, len(ws))
	for i := 0; i < len(ws)-1; i++ {
		if accounted[i] {
			continue
		}
		comp := c.reach(ws[i])
		all := true
		for j := i + 1; j < len(ws); j++ {
			if accounted[j] {
				continue
			}
			if comp.nodes[ws[j]] {
				accounted[j] = true
			} else {
				all = false
			}
		}
		if all {
			break
		}
		created = append(created, c.spawn(parent, comp))
	}
	return created
}

// spawn moves comp out of parent into a new centred root graph.
func (c *Canvas) spawn(parent ID, comp component) ID {
	g := c.newGraph(r2.Vec{})
	children := append([]Ref(nil), c.graphs[parent].Children...)
	for _, r := range children {
		switch {
		case r.Kind == KindNode && comp.nodes[r.ID],
			r.Kind == KindEdge && comp.edges[r.ID]:
			c.mustReparent(r, g.ID)
		}
	}
	c.centerGraph(g.ID)
	c.registry.Add(g.ID)
	return g.ID
}
