package canvas

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrUnknownNode is returned when a node ID does not name a live node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned when an edge ID does not name a live edge.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrUnknownGraph is returned when a graph ID does not name a live graph.
	ErrUnknownGraph = errors.New("unknown graph")

	// ErrSelfLoop is returned by AddEdge when both endpoints are the same node.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrCrossGraph is returned by AddEdge when the endpoints belong to
	// different graphs. Use Connect to merge the graphs while adding the edge.
	ErrCrossGraph = errors.New("edge endpoints belong to different graphs")

	// ErrInvalidRef is returned when a Ref has a kind that cannot be used in
	// the requested position.
	ErrInvalidRef = errors.New("invalid reference kind")
)

// Canvas is the state of one open drawing: the entity arena, the root
// registry and the registered observers.
type Canvas struct {
	nodes  map[ID]*Node
	edges  map[ID]*Edge
	graphs map[ID]*Graph

	registry Registry
	lastID   ID

	observers []Observer
	animator  Animator
	frames    int
	logger    *log.Logger
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(c *Canvas) { c.Subscribe(o) }
}

// WithAnimator installs an Animator that receives intermediate poses of
// graphs moved by joins. frames is the number of poses per movement; values
// below 1 fall back to DefaultFrames.
func WithAnimator(a Animator, frames int) Option {
	return func(c *Canvas) {
		c.animator = a
		if frames > 0 {
			c.frames = frames
		}
	}
}

// WithLogger sets the logger used for debug output. By default nothing is
// logged.
func WithLogger(l *log.Logger) Option {
	return func(c *Canvas) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty canvas.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		nodes:  make(map[ID]*Node),
		edges:  make(map[ID]*Edge),
		graphs: make(map[ID]*Graph),
		frames: DefaultFrames,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Canvas) nextID() ID {
	c.lastID++
	return c.lastID
}

// =============================================================================
// Accessors
// =============================================================================

// Node returns the node with the given ID, or nil. The returned value is
// owned by the canvas and must not be modified directly.
func (c *Canvas) Node(id ID) *Node { return c.nodes[id] }

// Edge returns the edge with the given ID, or nil.
func (c *Canvas) Edge(id ID) *Edge { return c.edges[id] }

// Graph returns the graph with the given ID, or nil.
func (c *Canvas) Graph(id ID) *Graph { return c.graphs[id] }

// Roots returns the IDs of all root graphs in registration order.
func (c *Canvas) Roots() []ID { return c.registry.IDs() }

// IsRoot reports whether g is a registered root graph.
func (c *Canvas) IsRoot(g ID) bool { return c.registry.Contains(g) }

// RootOf returns the root graph that owns node n, or 0 if n is unknown.
// Graphs do not nest, so this is the node's parent.
func (c *Canvas) RootOf(n ID) ID {
	if node := c.nodes[n]; node != nil {
		return node.Parent
	}
	return 0
}

// NodeCount returns the number of nodes on the canvas.
func (c *Canvas) NodeCount() int { return len(c.nodes) }

// EdgeCount returns the number of edges on the canvas.
func (c *Canvas) EdgeCount() int { return len(c.edges) }

// GraphCount returns the number of graphs on the canvas.
func (c *Canvas) GraphCount() int { return len(c.graphs) }

// NodeIDs returns every node ID, grouped by root in registry order and in
// child order within each root.
func (c *Canvas) NodeIDs() []ID {
	var ids []ID
	for _, g := range c.registry.ids {
		ids = append(ids, c.graphs[g].NodeIDs()...)
	}
	return ids
}

// Neighbors returns the distinct nodes adjacent to n in incident-edge order.
func (c *Canvas) Neighbors(n ID) []ID {
	node := c.nodes[n]
	if node == nil {
		return nil
	}
	var out []ID
	for _, eid := range node.Edges {
		other := c.edges[eid].Other(n)
		if other != 0 && other != n && !slices.Contains(out, other) {
			out = append(out, other)
		}
	}
	return out
}

// FindEdge returns the first edge joining a and b in either direction, or 0.
func (c *Canvas) FindEdge(a, b ID) ID {
	node := c.nodes[a]
	if node == nil {
		return 0
	}
	for _, eid := range node.Edges {
		if c.edges[eid].Connects(a, b) {
			return eid
		}
	}
	return 0
}

// =============================================================================
// Construction
// =============================================================================

// AddGraph creates an empty root graph with its origin at pos.
func (c *Canvas) AddGraph(pos r2.Vec) ID {
	g := c.newGraph(pos)
	c.registry.Add(g.ID)
	c.notifyChanged()
	return g.ID
}

func (c *Canvas) newGraph(pos r2.Vec) *Graph {
	g := &Graph{ID: c.nextID(), Pos: pos}
	c.graphs[g.ID] = g
	return g
}

// AddNode creates a node in graph g at the given local position. Zero
// style fields take their DefaultNodeStyle value.
func (c *Canvas) AddNode(g ID, pos r2.Vec, label string, style NodeStyle) (ID, error) {
	graph := c.graphs[g]
	if graph == nil {
		return 0, fmt.Errorf("add node to %d: %w", g, ErrUnknownGraph)
	}
	n := &Node{
		ID:       c.nextID(),
		Parent:   g,
		Pos:      pos,
		Rotation: -graph.Rotation,
		Label:    label,
		Style:    style.orDefault(),
	}
	c.nodes[n.ID] = n
	graph.Children = append(graph.Children, NodeRef(n.ID))
	c.notifyChanged()
	return n.ID, nil
}

// AddEdge creates an edge from src to dst in the graph that owns both. A
// zero style field takes its DefaultEdgeStyle value.
func (c *Canvas) AddEdge(src, dst ID, label string, style EdgeStyle) (ID, error) {
	s, d := c.nodes[src], c.nodes[dst]
	if s == nil {
		return 0, fmt.Errorf("add edge: source %d: %w", src, ErrUnknownNode)
	}
	if d == nil {
		return 0, fmt.Errorf("add edge: destination %d: %w", dst, ErrUnknownNode)
	}
	if src == dst {
		return 0, ErrSelfLoop
	}
	if s.Parent != d.Parent {
		return 0, ErrCrossGraph
	}
	e := c.attachEdge(s.Parent, src, dst)
	e.Label = label
	e.Style = style.orDefault()
	c.notifyChanged()
	return e.ID, nil
}

func (c *Canvas) attachEdge(g, src, dst ID) *Edge {
	graph := c.graphs[g]
	e := &Edge{
		ID:       c.nextID(),
		Parent:   g,
		Source:   src,
		Dest:     dst,
		Rotation: -graph.Rotation,
		Style:    DefaultEdgeStyle,
	}
	c.edges[e.ID] = e
	graph.Children = append(graph.Children, EdgeRef(e.ID))
	c.nodes[src].Edges = append(c.nodes[src].Edges, e.ID)
	c.nodes[dst].Edges = append(c.nodes[dst].Edges, e.ID)
	return e
}

// SetNodeLabel replaces the label of node n.
func (c *Canvas) SetNodeLabel(n ID, label string) error {
	node := c.nodes[n]
	if node == nil {
		return fmt.Errorf("set label of %d: %w", n, ErrUnknownNode)
	}
	node.Label = label
	c.notifyChanged()
	return nil
}

// SetNodeStyle replaces the style of node n.
func (c *Canvas) SetNodeStyle(n ID, style NodeStyle) error {
	node := c.nodes[n]
	if node == nil {
		return fmt.Errorf("set style of %d: %w", n, ErrUnknownNode)
	}
	node.Style = style.orDefault()
	c.notifyChanged()
	return nil
}

// SetEdgeLabel replaces the label of edge e.
func (c *Canvas) SetEdgeLabel(e ID, label string) error {
	edge := c.edges[e]
	if edge == nil {
		return fmt.Errorf("set label of %d: %w", e, ErrUnknownEdge)
	}
	edge.Label = label
	c.notifyChanged()
	return nil
}

// SetEdgeStyle replaces the style of edge e.
func (c *Canvas) SetEdgeStyle(e ID, style EdgeStyle) error {
	edge := c.edges[e]
	if edge == nil {
		return fmt.Errorf("set style of %d: %w", e, ErrUnknownEdge)
	}
	edge.Style = style.orDefault()
	c.notifyChanged()
	return nil
}

// =============================================================================
// Removal helpers
// =============================================================================

// detachEdge removes e from its endpoints' incident lists and from its
// parent's children, then drops it from the arena.
func (c *Canvas) detachEdge(e ID) {
	edge := c.edges[e]
	if edge == nil {
		return
	}
	for _, n := range []ID{edge.Source, edge.Dest} {
		if node := c.nodes[n]; node != nil {
			node.Edges = slices.DeleteFunc(node.Edges, func(x ID) bool { return x == e })
		}
	}
	c.removeChild(edge.Parent, EdgeRef(e))
	delete(c.edges, e)
}

// destroyNode drops a node that no longer has incident edges.
func (c *Canvas) destroyNode(n ID) {
	node := c.nodes[n]
	if node == nil {
		return
	}
	if len(node.Edges) != 0 {
		panic(fmt.Sprintf("canvas: destroying node %d with %d incident edges", n, len(node.Edges)))
	}
	c.removeChild(node.Parent, NodeRef(n))
	delete(c.nodes, n)
}

// destroyGraph drops a graph and unregisters it. Remaining children are
// destroyed with it.
func (c *Canvas) destroyGraph(g ID) {
	graph := c.graphs[g]
	if graph == nil {
		return
	}
	for _, eid := range graph.EdgeIDs() {
		c.detachEdge(eid)
	}
	for _, nid := range graph.NodeIDs() {
		c.destroyNode(nid)
	}
	c.registry.Remove(g)
	delete(c.graphs, g)
}

func (c *Canvas) removeChild(g ID, r Ref) {
	if graph := c.graphs[g]; graph != nil {
		graph.Children = slices.DeleteFunc(graph.Children, func(x Ref) bool { return x == r })
	}
}

// pruneEmpty destroys g if it has no children left.
func (c *Canvas) pruneEmpty(g ID) bool {
	graph := c.graphs[g]
	if graph == nil || len(graph.Children) > 0 {
		return false
	}
	c.registry.Remove(g)
	delete(c.graphs, g)
	c.logger.Debug("removed empty graph", "graph", g)
	return true
}
