package canvas

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestDeleteBridgeEdge(t *testing.T) {
	rec := &recorder{}
	c := New(WithObserver(rec))
	g, n := buildPath(t, c, r2.Vec{X: 20, Y: 20}, r2.Vec{X: 40}, 4)
	nodes, edges := c.NodeCount(), c.EdgeCount()
	before := make(map[ID]r2.Vec)
	for _, id := range n {
		before[id] = scenePos(t, c, id)
	}

	if !c.DeleteEdge(c.FindEdge(n[1], n[2])) {
		t.Fatal("DeleteEdge returned false")
	}
	mustCheck(t, c)

	roots := c.Roots()
	if len(roots) != 2 {
		t.Fatalf("roots = %v, want 2", roots)
	}
	if diff := cmp.Diff([]ID{n[0], n[1]}, c.Graph(g).NodeIDs()); diff != "" {
		t.Errorf("original graph nodes (-want +got):\n%s", diff)
	}
	spawned := roots[1]
	if diff := cmp.Diff([]ID{n[2], n[3]}, c.Graph(spawned).NodeIDs()); diff != "" {
		t.Errorf("spawned graph nodes (-want +got):\n%s", diff)
	}
	if got := c.NodeCount(); got != nodes {
		t.Errorf("nodes = %d, want %d", got, nodes)
	}
	if got := c.EdgeCount() + 1; got != edges {
		t.Errorf("edges + removed = %d, want %d", got, edges)
	}
	for id, want := range before {
		if got := scenePos(t, c, id); !near(got, want) {
			t.Errorf("node %d moved: %v -> %v", id, want, got)
		}
	}
	if b, _ := c.BoundingBox(spawned, false); r2.Norm(b.LocalCentroid) > 1e-6 {
		t.Errorf("spawned graph not centred: %v", b.LocalCentroid)
	}

	if len(rec.separated) != 1 {
		t.Fatalf("separated notifications = %d, want 1", len(rec.separated))
	}
	if rec.from[0] != g || !cmp.Equal(rec.separated[0], []ID{spawned}) {
		t.Errorf("separated(%d, %v), want (%d, [%d])", rec.from[0], rec.separated[0], g, spawned)
	}
}

func TestDeleteCycleEdge(t *testing.T) {
	rec := &recorder{}
	c := New(WithObserver(rec))
	_, n := buildCycle(t, c, r2.Vec{X: 100, Y: 100}, 5, 50)

	for i := 0; i < 5; i++ {
		c2 := New()
		_, m := buildCycle(t, c2, r2.Vec{}, 5, 50)
		c2.DeleteEdge(c2.FindEdge(m[i], m[(i+1)%5]))
		if got := len(c2.Roots()); got != 1 {
			t.Errorf("removing edge %d: roots = %d, want 1", i, got)
		}
	}

	c.DeleteEdge(c.FindEdge(n[0], n[1]))
	mustCheck(t, c)
	if len(rec.separated) != 0 {
		t.Errorf("separated notified %d times", len(rec.separated))
	}
	if rec.changed == 0 {
		t.Error("changed not notified")
	}
}

func TestDeleteNode(t *testing.T) {
	tests := []struct {
		name      string
		build     func(t *testing.T, c *Canvas) ID
		wantRoots int
		wantNodes int
		wantSplit int
	}{
		{
			name: "StarCentre",
			build: func(t *testing.T, c *Canvas) ID {
				g := c.AddGraph(r2.Vec{})
				hub, _ := c.AddNode(g, r2.Vec{}, "", NodeStyle{})
				for _, p := range []r2.Vec{{X: 10}, {Y: 10}, {X: -10}} {
					leaf, _ := c.AddNode(g, p, "", NodeStyle{})
					mustEdge(t, c, hub, leaf)
				}
				return hub
			},
			wantRoots: 3,
			wantNodes: 3,
			wantSplit: 1,
		},
		{
			name: "PathLeaf",
			build: func(t *testing.T, c *Canvas) ID {
				_, n := buildPath(t, c, r2.Vec{}, r2.Vec{X: 10}, 3)
				return n[0]
			},
			wantRoots: 1,
			wantNodes: 2,
		},
		{
			name: "PathMiddle",
			build: func(t *testing.T, c *Canvas) ID {
				_, n := buildPath(t, c, r2.Vec{}, r2.Vec{X: 10}, 5)
				return n[2]
			},
			wantRoots: 2,
			wantNodes: 4,
			wantSplit: 1,
		},
		{
			name: "CycleNode",
			build: func(t *testing.T, c *Canvas) ID {
				_, n := buildCycle(t, c, r2.Vec{}, 6, 30)
				return n[3]
			},
			wantRoots: 1,
			wantNodes: 5,
		},
		{
			name: "IsolatedNode",
			build: func(t *testing.T, c *Canvas) ID {
				g := c.AddGraph(r2.Vec{})
				n, _ := c.AddNode(g, r2.Vec{}, "", NodeStyle{})
				return n
			},
			wantRoots: 0,
			wantNodes: 0,
		},
		{
			name: "ParallelEdges",
			build: func(t *testing.T, c *Canvas) ID {
				_, n := buildPath(t, c, r2.Vec{}, r2.Vec{X: 10}, 3)
				mustEdge(t, c, n[1], n[0])
				return n[1]
			},
			wantRoots: 2,
			wantNodes: 2,
			wantSplit: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := New(WithObserver(rec))
			n := tt.build(t, c)
			if !c.DeleteNode(n) {
				t.Fatal("DeleteNode returned false")
			}
			mustCheck(t, c)
			if c.Node(n) != nil {
				t.Error("deleted node still live")
			}
			if got := len(c.Roots()); got != tt.wantRoots {
				t.Errorf("roots = %d, want %d", got, tt.wantRoots)
			}
			if got := c.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := len(rec.separated); got != tt.wantSplit {
				t.Errorf("separated notifications = %d, want %d", got, tt.wantSplit)
			}
			for _, g := range c.Roots() {
				if comps := c.Components(g); len(comps) != 1 {
					t.Errorf("graph %d has %d components", g, len(comps))
				}
			}
		})
	}
}

func TestSeparateIfNeeded(t *testing.T) {
	rec := &recorder{}
	c := New(WithObserver(rec))
	g := c.AddGraph(r2.Vec{})
	var n []ID
	for i := 0; i < 5; i++ {
		id, _ := c.AddNode(g, r2.Vec{X: float64(10 * i)}, "", NodeStyle{})
		n = append(n, id)
	}
	mustEdge(t, c, n[0], n[1])
	mustEdge(t, c, n[2], n[3])

	// Repeated and unknown witnesses are ignored.
	changed := rec.changed
	spawned := c.SeparateIfNeeded([]ID{n[0], n[0], 999, n[2], n[1], n[4]})
	mustCheck(t, c)
	if len(spawned) != 2 {
		t.Fatalf("spawned = %v, want 2 graphs", spawned)
	}
	if diff := cmp.Diff([]ID{n[0], n[1]}, c.Graph(spawned[0]).NodeIDs()); diff != "" {
		t.Errorf("first spawned (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ID{n[2], n[3]}, c.Graph(spawned[1]).NodeIDs()); diff != "" {
		t.Errorf("second spawned (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ID{n[4]}, c.Graph(g).NodeIDs()); diff != "" {
		t.Errorf("original keeps last witness (-want +got):\n%s", diff)
	}
	if got := rec.changed - changed; got != 1 {
		t.Errorf("split notified changed %d times, want 1", got)
	}

	changed = rec.changed
	if got := c.SeparateIfNeeded([]ID{n[0]}); len(got) != 0 {
		t.Errorf("single witness spawned %v", got)
	}
	if got := c.SeparateIfNeeded(nil); len(got) != 0 {
		t.Errorf("no witnesses spawned %v", got)
	}
	if rec.changed != changed {
		t.Errorf("no-op separation notified changed %d times", rec.changed-changed)
	}
}

func TestDeleteEdgeNotifiesOnce(t *testing.T) {
	rec := &recorder{}
	c := New(WithObserver(rec))
	_, n := buildPath(t, c, r2.Vec{}, r2.Vec{X: 10}, 4)
	changed := rec.changed

	if !c.DeleteEdge(c.FindEdge(n[1], n[2])) {
		t.Fatal("DeleteEdge returned false")
	}
	if got := len(c.Roots()); got != 2 {
		t.Fatalf("roots = %d, want 2", got)
	}
	if got := rec.changed - changed; got != 1 {
		t.Errorf("changed notified %d times, want 1", got)
	}
}

func TestDeleteGraphAndUnknown(t *testing.T) {
	c := New()
	g, _ := buildPath(t, c, r2.Vec{}, r2.Vec{X: 10}, 3)
	keep, _ := buildPath(t, c, r2.Vec{X: 100}, r2.Vec{X: 10}, 2)

	if c.DeleteNode(999) || c.DeleteEdge(999) || c.DeleteGraph(999) {
		t.Error("deleting unknown items returned true")
	}
	if c.Delete(Ref{}) {
		t.Error("Delete of zero ref returned true")
	}
	if !c.Delete(GraphRef(g)) {
		t.Fatal("DeleteGraph returned false")
	}
	mustCheck(t, c)
	if diff := cmp.Diff([]ID{keep}, c.Roots()); diff != "" {
		t.Errorf("Roots mismatch (-want +got):\n%s", diff)
	}
	if c.NodeCount() != 2 || c.EdgeCount() != 1 {
		t.Errorf("counts = %d/%d, want 2/1", c.NodeCount(), c.EdgeCount())
	}
}

func TestConnect(t *testing.T) {
	rec := &recorder{}
	c := New(WithObserver(rec))
	g1 := c.AddGraph(r2.Vec{X: 10, Y: 10})
	a, _ := c.AddNode(g1, r2.Vec{}, "", NodeStyle{})
	g2 := c.AddGraph(r2.Vec{X: 90, Y: 30})
	b, _ := c.AddNode(g2, r2.Vec{}, "", NodeStyle{})
	pa, pb := scenePos(t, c, a), scenePos(t, c, b)

	e, ok := c.Connect(a, b)
	if !ok {
		t.Fatal("Connect returned false")
	}
	mustCheck(t, c)
	roots := c.Roots()
	if len(roots) != 1 || c.Edge(e).Parent != roots[0] {
		t.Fatalf("roots = %v, edge parent = %d", roots, c.Edge(e).Parent)
	}
	if !near(scenePos(t, c, a), pa) || !near(scenePos(t, c, b), pb) {
		t.Error("nodes moved while merging")
	}
	if len(rec.joined) != 1 {
		t.Errorf("joined notifications = %d, want 1", len(rec.joined))
	}

	again, ok := c.Connect(b, a)
	if ok || again != e {
		t.Errorf("Connect(b, a) = %d, %v; want %d, false", again, ok, e)
	}
	if _, ok := c.Connect(a, a); ok {
		t.Error("Connect(a, a) returned true")
	}
	if !c.Connected(a, b) {
		t.Error("Connected(a, b) = false")
	}
}
