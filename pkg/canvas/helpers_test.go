package canvas

import (
	"math"
	"slices"
	"strconv"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

const tol = 1e-6

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
}

// buildPath adds a root graph at origin holding a path whose i-th node sits
// at i*step. Nodes are labelled with their index.
func buildPath(t *testing.T, c *Canvas, origin, step r2.Vec, n int) (ID, []ID) {
	t.Helper()
	g := c.AddGraph(origin)
	nodes := make([]ID, n)
	for i := range nodes {
		id, err := c.AddNode(g, r2.Scale(float64(i), step), strconv.Itoa(i), NodeStyle{})
		if err != nil {
			t.Fatalf("AddNode: %v", err)
		}
		nodes[i] = id
	}
	for i := 1; i < n; i++ {
		mustEdge(t, c, nodes[i-1], nodes[i])
	}
	return g, nodes
}

// buildCycle adds a root graph holding an n-cycle on a circle of radius r.
func buildCycle(t *testing.T, c *Canvas, origin r2.Vec, n int, r float64) (ID, []ID) {
	t.Helper()
	g := c.AddGraph(origin)
	nodes := make([]ID, n)
	for i := range nodes {
		a := 2 * math.Pi * float64(i) / float64(n)
		id, err := c.AddNode(g, r2.Vec{X: r * math.Sin(a), Y: -r * math.Cos(a)}, strconv.Itoa(i), NodeStyle{})
		if err != nil {
			t.Fatalf("AddNode: %v", err)
		}
		nodes[i] = id
	}
	for i := range nodes {
		mustEdge(t, c, nodes[i], nodes[(i+1)%n])
	}
	return g, nodes
}

func mustEdge(t *testing.T, c *Canvas, a, b ID) ID {
	t.Helper()
	id, err := c.AddEdge(a, b, "", EdgeStyle{})
	if err != nil {
		t.Fatalf("AddEdge(%d, %d): %v", a, b, err)
	}
	return id
}

func mustCheck(t *testing.T, c *Canvas) {
	t.Helper()
	if err := c.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func scenePos(t *testing.T, c *Canvas, n ID) r2.Vec {
	t.Helper()
	p, ok := c.ScenePos(n)
	if !ok {
		t.Fatalf("ScenePos(%d): unknown node", n)
	}
	return p
}

// snapshot is a deep copy of the canvas contents used to compare states.
type snapshot struct {
	Nodes  map[ID]Node
	Edges  map[ID]Edge
	Graphs map[ID]Graph
	Roots  []ID
}

func takeSnapshot(c *Canvas) snapshot {
	s := snapshot{
		Nodes:  make(map[ID]Node, len(c.nodes)),
		Edges:  make(map[ID]Edge, len(c.edges)),
		Graphs: make(map[ID]Graph, len(c.graphs)),
		Roots:  c.Roots(),
	}
	for id, n := range c.nodes {
		cp := *n
		cp.Edges = slices.Clone(n.Edges)
		s.Nodes[id] = cp
	}
	for id, e := range c.edges {
		s.Edges[id] = *e
	}
	for id, g := range c.graphs {
		cp := *g
		cp.Children = slices.Clone(g.Children)
		s.Graphs[id] = cp
	}
	return s
}

// recorder counts notifications.
type recorder struct {
	joined    []ID
	separated [][]ID
	from      []ID
	changed   int
}

func (r *recorder) OnGraphJoined(g ID) { r.joined = append(r.joined, g) }

func (r *recorder) OnGraphSeparated(from ID, spawned []ID) {
	r.from = append(r.from, from)
	r.separated = append(r.separated, spawned)
}

func (r *recorder) OnChanged() { r.changed++ }
