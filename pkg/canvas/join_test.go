package canvas

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestJoinTwoNodes(t *testing.T) {
	rec := &recorder{}
	c := New(WithObserver(rec))
	g1, a := buildPath(t, c, r2.Vec{X: 100, Y: 100}, r2.Vec{X: 50}, 3)
	g2, b := buildPath(t, c, r2.Vec{X: 400, Y: 300}, r2.Vec{Y: 50}, 3)
	nodes, edges := c.NodeCount(), c.EdgeCount()
	anchor := scenePos(t, c, a[2])
	before := []r2.Vec{scenePos(t, c, a[0]), scenePos(t, c, a[1])}

	g, ok := c.JoinTwoNodes(a[2], b[0])
	if !ok {
		t.Fatal("JoinTwoNodes returned false")
	}
	mustCheck(t, c)

	if diff := cmp.Diff([]ID{g}, c.Roots()); diff != "" {
		t.Errorf("Roots mismatch (-want +got):\n%s", diff)
	}
	if c.Graph(g1) != nil || c.Graph(g2) != nil {
		t.Error("source graphs still live")
	}
	if c.Node(b[0]) != nil {
		t.Error("identified node still live")
	}
	if got := c.NodeCount(); got != nodes-1 {
		t.Errorf("nodes = %d, want %d", got, nodes-1)
	}
	if got := c.EdgeCount(); got != edges {
		t.Errorf("edges = %d, want %d", got, edges)
	}

	// The first graph does not move; the second hangs off the anchor.
	for i, want := range before {
		if got := scenePos(t, c, a[i]); !near(got, want) {
			t.Errorf("a[%d] = %v, want %v", i, got, want)
		}
	}
	if got := scenePos(t, c, a[2]); !near(got, anchor) {
		t.Errorf("anchor moved to %v", got)
	}
	if got := scenePos(t, c, b[1]); !near(got, r2.Add(anchor, r2.Vec{Y: 50})) {
		t.Errorf("b[1] = %v", got)
	}
	if got := scenePos(t, c, b[2]); !near(got, r2.Add(anchor, r2.Vec{Y: 100})) {
		t.Errorf("b[2] = %v", got)
	}
	if c.FindEdge(a[2], b[1]) == 0 {
		t.Error("edge of identified node was not redirected")
	}

	bb, _ := c.BoundingBox(g, false)
	if r2.Norm(bb.LocalCentroid) > 1e-6 {
		t.Errorf("joined graph not centred: %v", bb.LocalCentroid)
	}

	var labels []string
	for _, n := range c.Graph(g).NodeIDs() {
		labels = append(labels, c.Node(n).Label)
	}
	if diff := cmp.Diff([]string{"0", "1", "2", "3", "4"}, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]ID{g}, rec.joined); diff != "" {
		t.Errorf("joined notifications (-want +got):\n%s", diff)
	}
}

func TestJoinTwoNodesRotatedRoots(t *testing.T) {
	c := New()
	g1, a := buildPath(t, c, r2.Vec{X: 100, Y: 50}, r2.Vec{X: 40}, 3)
	g2, b := buildPath(t, c, r2.Vec{X: -80, Y: 200}, r2.Vec{Y: 30}, 3)
	c.RotateGraph(g1, 30, false)
	c.RotateGraph(g2, -115, false)

	before := []r2.Vec{scenePos(t, c, a[0]), scenePos(t, c, a[1]), scenePos(t, c, a[2])}
	p2 := scenePos(t, c, b[0])
	// Offsets of b's other nodes from the node being identified.
	offsets := []r2.Vec{r2.Sub(scenePos(t, c, b[1]), p2), r2.Sub(scenePos(t, c, b[2]), p2)}

	g, ok := c.JoinTwoNodes(a[1], b[0])
	if !ok {
		t.Fatal("JoinTwoNodes returned false")
	}
	mustCheck(t, c)

	for i, want := range before {
		if got := scenePos(t, c, a[i]); !near(got, want) {
			t.Errorf("a[%d] moved: %v -> %v", i, want, got)
		}
	}
	for i, off := range offsets {
		want := r2.Add(before[1], off)
		if got := scenePos(t, c, b[i+1]); !near(got, want) {
			t.Errorf("b[%d] = %v, want %v", i+1, got, want)
		}
	}
	bb, _ := c.BoundingBox(g, false)
	if r2.Norm(bb.LocalCentroid) > 1e-6 {
		t.Errorf("joined graph not centred: %v", bb.LocalCentroid)
	}
}

func TestJoinTwoNodesKeepsTextLabels(t *testing.T) {
	c := New()
	g1 := c.AddGraph(r2.Vec{})
	x, _ := c.AddNode(g1, r2.Vec{}, "x", NodeStyle{})
	g2 := c.AddGraph(r2.Vec{X: 50})
	y, _ := c.AddNode(g2, r2.Vec{}, "7", NodeStyle{})
	z, _ := c.AddNode(g2, r2.Vec{X: 10}, "8", NodeStyle{})
	mustEdge(t, c, y, z)

	if _, ok := c.JoinTwoNodes(x, y); !ok {
		t.Fatal("JoinTwoNodes returned false")
	}
	if c.Node(x).Label != "x" || c.Node(z).Label != "8" {
		t.Errorf("labels changed: %q %q", c.Node(x).Label, c.Node(z).Label)
	}
}

func TestJoinTwoNodesPreconditions(t *testing.T) {
	c := New()
	_, a := buildPath(t, c, r2.Vec{}, r2.Vec{X: 10}, 3)
	_, b := buildPath(t, c, r2.Vec{X: 100}, r2.Vec{X: 10}, 2)

	tests := []struct {
		name   string
		n1, n2 ID
	}{
		{"SameNode", a[0], a[0]},
		{"SameParent", a[0], a[2]},
		{"UnknownFirst", 999, b[0]},
		{"UnknownSecond", a[0], 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c.observers = []Observer{rec}
			before := takeSnapshot(c)
			if _, ok := c.JoinTwoNodes(tt.n1, tt.n2); ok {
				t.Error("JoinTwoNodes returned true")
			}
			if diff := cmp.Diff(before, takeSnapshot(c)); diff != "" {
				t.Errorf("canvas changed (-before +after):\n%s", diff)
			}
			if rec.changed != 0 || len(rec.joined) != 0 {
				t.Error("ignored join notified observers")
			}
		})
	}
}

func TestJoinFourNodes(t *testing.T) {
	c := New()
	g1 := c.AddGraph(r2.Vec{X: 100, Y: 100})
	a, _ := c.AddNode(g1, r2.Vec{}, "0", NodeStyle{})
	b, _ := c.AddNode(g1, r2.Vec{X: 50}, "1", NodeStyle{})
	mustEdge(t, c, a, b)

	g2 := c.AddGraph(r2.Vec{X: 400, Y: 300})
	p, _ := c.AddNode(g2, r2.Vec{}, "0", NodeStyle{})
	q, _ := c.AddNode(g2, r2.Vec{Y: 50}, "1", NodeStyle{})
	r, _ := c.AddNode(g2, r2.Vec{X: 30, Y: 25}, "2", NodeStyle{})
	mustEdge(t, c, p, q)
	mustEdge(t, c, q, r)
	mustEdge(t, c, r, p)

	g, ok := c.JoinFourNodes(a, b, p, q)
	if !ok {
		t.Fatal("JoinFourNodes returned false")
	}
	mustCheck(t, c)

	if got := c.NodeCount(); got != 3 {
		t.Errorf("nodes = %d, want 3", got)
	}
	if got := c.EdgeCount(); got != 3 {
		t.Errorf("edges = %d, want 3", got)
	}
	var between int
	for _, e := range c.Graph(g).EdgeIDs() {
		if c.Edge(e).Connects(a, b) {
			between++
		}
	}
	if between != 1 {
		t.Errorf("edges between a and b = %d, want 1", between)
	}

	// q-p is rotated onto b-a, so r ends up above the midpoint of a-b.
	if got := scenePos(t, c, r); !near(got, r2.Vec{X: 125, Y: 70}) {
		t.Errorf("r = %v, want (125, 70)", got)
	}
	if got := scenePos(t, c, a); !near(got, r2.Vec{X: 100, Y: 100}) {
		t.Errorf("a moved to %v", got)
	}
	if c.FindEdge(a, r) == 0 || c.FindEdge(b, r) == 0 {
		t.Error("edges of identified nodes were not redirected")
	}
}

func TestJoinFourNodesWithoutSharedEdge(t *testing.T) {
	c := New()
	_, a := buildPath(t, c, r2.Vec{}, r2.Vec{X: 10}, 3)
	_, b := buildPath(t, c, r2.Vec{X: 200}, r2.Vec{X: 10}, 3)
	edges := c.EdgeCount()

	if _, ok := c.JoinFourNodes(a[0], a[2], b[0], b[2]); !ok {
		t.Fatal("JoinFourNodes returned false")
	}
	mustCheck(t, c)
	if got := c.EdgeCount(); got != edges {
		t.Errorf("edges = %d, want %d", got, edges)
	}
	if got := c.NodeCount(); got != 4 {
		t.Errorf("nodes = %d, want 4", got)
	}
}

func TestJoinFourNodesPreconditions(t *testing.T) {
	c := New()
	_, a := buildPath(t, c, r2.Vec{}, r2.Vec{X: 10}, 2)
	_, b := buildPath(t, c, r2.Vec{X: 100}, r2.Vec{X: 10}, 3)

	tests := []struct {
		name string
		ids  [4]ID
	}{
		{"Repeated", [4]ID{a[0], a[0], b[0], b[1]}},
		{"FirstPairSplit", [4]ID{a[0], b[2], b[0], b[1]}},
		{"SecondPairSplit", [4]ID{a[0], a[1], b[0], a[1]}},
		{"SameRoot", [4]ID{b[0], b[1], b[2], b[1]}},
		{"SameRootDistinct", [4]ID{b[0], b[1], b[2], a[0]}},
		{"Unknown", [4]ID{a[0], a[1], b[0], 999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := takeSnapshot(c)
			if _, ok := c.JoinFourNodes(tt.ids[0], tt.ids[1], tt.ids[2], tt.ids[3]); ok {
				t.Error("JoinFourNodes returned true")
			}
			if diff := cmp.Diff(before, takeSnapshot(c)); diff != "" {
				t.Errorf("canvas changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestJoinFourNodesDegenerate(t *testing.T) {
	c := New()
	g1 := c.AddGraph(r2.Vec{})
	a, _ := c.AddNode(g1, r2.Vec{}, "", NodeStyle{})
	b, _ := c.AddNode(g1, r2.Vec{}, "", NodeStyle{})
	g2 := c.AddGraph(r2.Vec{X: 40})
	p, _ := c.AddNode(g2, r2.Vec{}, "", NodeStyle{})
	q, _ := c.AddNode(g2, r2.Vec{X: 10}, "", NodeStyle{})

	if _, ok := c.JoinFourNodes(a, b, p, q); !ok {
		t.Fatal("JoinFourNodes returned false")
	}
	mustCheck(t, c)
}

func TestJoinAnimation(t *testing.T) {
	var frames [][]Pose
	anim := AnimatorFunc(func(_ ID, f []Pose) { frames = append(frames, f) })

	c := New(WithAnimator(anim, 5))
	_, a := buildPath(t, c, r2.Vec{}, r2.Vec{X: 10}, 2)
	g2, b := buildPath(t, c, r2.Vec{X: 100}, r2.Vec{Y: 10}, 2)
	start, _ := c.PoseOf(g2)

	if _, ok := c.JoinTwoNodes(a[1], b[0]); !ok {
		t.Fatal("JoinTwoNodes returned false")
	}
	if len(frames) != 1 || len(frames[0]) != 5 {
		t.Fatalf("frames = %v", frames)
	}
	last := frames[0][4]
	if !near(last.Pos, r2.Vec{X: 10}) || last.Rotation != start.Rotation {
		t.Errorf("final frame = %+v", last)
	}
	if got := scenePos(t, c, b[1]); !near(got, r2.Vec{X: 10, Y: 10}) {
		t.Errorf("b[1] = %v, want (10, 10)", got)
	}
}

func TestAlignmentAngle(t *testing.T) {
	tests := []struct {
		name string
		u, v r2.Vec
		want float64
	}{
		{"Parallel", r2.Vec{X: 1}, r2.Vec{X: 5}, 0},
		{"Quarter", r2.Vec{X: 1}, r2.Vec{Y: 1}, -90},
		{"Opposite", r2.Vec{Y: 1}, r2.Vec{Y: -1}, 180},
		{"ZeroU", r2.Vec{}, r2.Vec{X: 1}, 0},
		{"ZeroV", r2.Vec{X: 1}, r2.Vec{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alignmentAngle(tt.u, tt.v)
			if d := got - tt.want; d > tol || d < -tol {
				t.Errorf("alignmentAngle = %v, want %v", got, tt.want)
			}
		})
	}
}
