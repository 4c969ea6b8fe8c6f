package mode

import (
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/emirpasic/gods/stacks/arraystack"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
)

// DefaultSlack is the hit-test tolerance in scene units.
const DefaultSlack = 3

// Picks holds the nodes accumulated in join mode. N1a and N1b belong to
// one root graph, N2a and N2b to another.
type Picks struct {
	N1a, N1b canvas.ID
	N2a, N2b canvas.ID
}

// Complete reports whether all four nodes are picked.
func (p Picks) Complete() bool {
	return p.N1a != 0 && p.N1b != 0 && p.N2a != 0 && p.N2b != 0
}

// Count returns the number of picked nodes.
func (p Picks) Count() int {
	n := 0
	for _, id := range []canvas.ID{p.N1a, p.N1b, p.N2a, p.N2b} {
		if id != 0 {
			n++
		}
	}
	return n
}

type move struct {
	node canvas.ID
	from r2.Vec
}

// gesture is the pointer interaction between Press and Release.
type gesture struct {
	hit    canvas.Ref
	start  r2.Vec
	target canvas.ID
	origin r2.Vec
	moved  bool
}

// Machine routes gestures on one canvas according to the current mode.
// Like the canvas itself it must be used from a single goroutine.
type Machine struct {
	c    *canvas.Canvas
	mode Mode

	grid      float64
	snap      bool
	slack     float64
	nodeStyle canvas.NodeStyle
	edgeStyle canvas.EdgeStyle
	logger    *log.Logger

	picks     Picks
	undo      *arraystack.Stack
	press     *gesture
	freestyle canvas.ID
	chain     canvas.ID
	selection []canvas.ID
}

// Option configures a Machine.
type Option func(*Machine)

// WithGrid sets the snapping grid. When snap is set, released nodes are
// rounded to the grid and released graphs are floored to it.
func WithGrid(size float64, snap bool) Option {
	return func(m *Machine) {
		if size > 0 {
			m.grid = size
		}
		m.snap = snap
	}
}

// WithStyles sets the styles of nodes and edges drawn in freestyle mode.
func WithStyles(node canvas.NodeStyle, edge canvas.EdgeStyle) Option {
	return func(m *Machine) {
		m.nodeStyle = node
		m.edgeStyle = edge
	}
}

// WithSlack sets the hit-test tolerance.
func WithSlack(slack float64) Option {
	return func(m *Machine) { m.slack = slack }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Machine in drag mode.
func New(c *canvas.Canvas, opts ...Option) *Machine {
	m := &Machine{
		c:      c,
		mode:   Drag,
		grid:   10,
		slack:  DefaultSlack,
		logger: log.New(io.Discard),
		undo:   arraystack.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Canvas returns the canvas the machine operates on.
func (m *Machine) Canvas() *canvas.Canvas { return m.c }

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Picks returns the nodes picked so far in join mode.
func (m *Machine) Picks() Picks { return m.picks }

// Selection returns the nodes selected in select mode.
func (m *Machine) Selection() []canvas.ID {
	return append([]canvas.ID(nil), m.selection...)
}

// FreestyleGraph returns the graph receiving new freestyle nodes, or 0.
func (m *Machine) FreestyleGraph() canvas.ID { return m.freestyle }

// UndoDepth returns the number of node moves that can be undone.
func (m *Machine) UndoDepth() int { return m.undo.Size() }

// SetMode switches to mode next. Every partial gesture is discarded.
// Leaving freestyle mode removes the freestyle graph when nothing was
// drawn and centres it otherwise; entering freestyle mode creates it.
func (m *Machine) SetMode(next Mode) {
	prev := m.mode
	m.reset()
	if prev == Freestyle && next != Freestyle {
		m.finishFreestyle()
	}
	m.mode = next
	if next == Freestyle && prev != Freestyle {
		m.startFreestyle()
	}
	m.logger.Debug("mode changed", "from", prev, "to", next)
}

func (m *Machine) reset() {
	m.picks = Picks{}
	m.undo.Clear()
	m.press = nil
	m.chain = 0
	m.selection = nil
}

// =============================================================================
// Clicks
// =============================================================================

// Click handles a single click at scene position at.
func (m *Machine) Click(at r2.Vec) bool {
	return m.ClickItem(m.c.HitTest(at, m.slack), at)
}

// ClickItem handles a click on item r at scene position at. The zero Ref
// stands for empty canvas.
func (m *Machine) ClickItem(r canvas.Ref, at r2.Vec) bool {
	switch m.mode {
	case Join:
		if r.Kind != canvas.KindNode {
			return false
		}
		return m.pick(r.ID)
	case Delete:
		if r.Kind != canvas.KindNode && r.Kind != canvas.KindEdge {
			return false
		}
		m.logger.Debug("deleting", "item", r)
		return m.c.Delete(r)
	case Freestyle:
		if r.Kind == canvas.KindNode {
			return m.chainTo(r.ID)
		}
		if r == (canvas.Ref{}) {
			return m.draw(at)
		}
	case Select:
		if r.Kind == canvas.KindNode {
			m.toggle(r.ID)
			return true
		}
		if r == (canvas.Ref{}) && len(m.selection) > 0 {
			m.selection = nil
			return true
		}
	}
	return false
}

// DoubleClick handles a double click at scene position at.
func (m *Machine) DoubleClick(at r2.Vec) bool {
	return m.DoubleClickItem(m.c.HitTest(at, m.slack))
}

// DoubleClickItem handles a double click on item r. In delete mode the
// whole root graph owning r is removed.
func (m *Machine) DoubleClickItem(r canvas.Ref) bool {
	if m.mode != Delete {
		return false
	}
	var g canvas.ID
	switch r.Kind {
	case canvas.KindNode:
		g = m.c.RootOf(r.ID)
	case canvas.KindEdge:
		if e := m.c.Edge(r.ID); e != nil {
			g = e.Parent
		}
	case canvas.KindGraph:
		g = r.ID
	}
	if g == 0 {
		return false
	}
	m.logger.Debug("deleting graph", "graph", g)
	return m.c.DeleteGraph(g)
}

// =============================================================================
// Keys
// =============================================================================

// Key handles a key press. Recognised keys are "j" (join the picked
// nodes), "esc" (undo the last move in edit mode, otherwise abandon the
// current gesture) and "x" (delete the selection in select mode).
func (m *Machine) Key(k string) bool {
	switch k {
	case "j":
		if m.mode != Join {
			return false
		}
		_, ok := m.Join()
		return ok
	case "esc":
		switch m.mode {
		case Edit:
			return m.Undo()
		case Join:
			m.picks = Picks{}
			return true
		case Freestyle:
			m.chain = 0
			return true
		case Select:
			m.selection = nil
			return true
		}
	case "x", "delete":
		if m.mode != Select || len(m.selection) == 0 {
			return false
		}
		for _, n := range m.selection {
			m.c.DeleteNode(n)
		}
		m.selection = nil
		return true
	}
	return false
}

// Join runs the four-node join when four nodes are picked and the
// two-node join on N1a and N2a otherwise. The picks are cleared either
// way.
func (m *Machine) Join() (canvas.ID, bool) {
	p := m.picks
	m.picks = Picks{}
	switch {
	case p.Complete():
		return m.c.JoinFourNodes(p.N1a, p.N1b, p.N2a, p.N2b)
	case p.N1a != 0 && p.N2a != 0:
		return m.c.JoinTwoNodes(p.N1a, p.N2a)
	default:
		return 0, false
	}
}

// pick adds n to the join picks. The first node starts the first pair. A
// node in the same root completes the first pair; a node in another root
// starts the second pair, which a further node of that root completes.
func (m *Machine) pick(n canvas.ID) bool {
	root := m.c.RootOf(n)
	if root == 0 {
		return false
	}
	p := &m.picks
	switch {
	case p.N1a == 0:
		p.N1a = n
	case root == m.c.RootOf(p.N1a):
		if n == p.N1a || p.N1b != 0 {
			return false
		}
		p.N1b = n
	case p.N2a == 0:
		p.N2a = n
	case root == m.c.RootOf(p.N2a):
		if n == p.N2a || p.N2b != 0 {
			return false
		}
		p.N2b = n
	default:
		return false
	}
	m.logger.Debug("picked node", "node", n, "count", p.Count())
	return true
}

// Undo reverts the last node move recorded in edit mode.
func (m *Machine) Undo() bool {
	v, ok := m.undo.Pop()
	if !ok {
		return false
	}
	mv := v.(move)
	return m.c.MoveNode(mv.node, mv.from)
}

// =============================================================================
// Pointer drags
// =============================================================================

// Press starts a pointer gesture at scene position at.
func (m *Machine) Press(at r2.Vec) bool {
	return m.PressItem(m.c.HitTest(at, m.slack), at)
}

// PressItem starts a pointer gesture on item r.
func (m *Machine) PressItem(r canvas.Ref, at r2.Vec) bool {
	m.press = nil
	switch m.mode {
	case Drag:
		g := m.rootOf(r)
		if g == 0 {
			return false
		}
		m.press = &gesture{hit: r, start: at, target: g, origin: m.c.Graph(g).Pos}
	case Edit:
		if r.Kind != canvas.KindNode {
			return false
		}
		from, _ := m.c.ScenePos(r.ID)
		m.press = &gesture{hit: r, start: at, target: r.ID, origin: from}
	case Select:
		if r != (canvas.Ref{}) {
			return false
		}
		m.press = &gesture{start: at}
	default:
		return false
	}
	return true
}

// Move continues the current gesture at scene position at.
func (m *Machine) Move(at r2.Vec) bool {
	g := m.press
	if g == nil {
		return false
	}
	delta := r2.Sub(at, g.start)
	switch m.mode {
	case Drag:
		g.moved = m.c.MoveGraph(g.target, r2.Add(g.origin, delta)) || g.moved
	case Edit:
		g.moved = m.c.MoveNode(g.target, r2.Add(g.origin, delta)) || g.moved
	case Select:
		g.moved = true
	}
	return g.moved
}

// Release ends the current gesture at scene position at.
func (m *Machine) Release(at r2.Vec) bool {
	g := m.press
	m.press = nil
	if g == nil {
		return false
	}
	switch m.mode {
	case Drag:
		if !g.moved && at == g.start {
			return false
		}
		m.c.MoveGraph(g.target, r2.Add(g.origin, r2.Sub(at, g.start)))
		if m.snap {
			m.c.SnapGraph(g.target, m.grid)
		}
	case Edit:
		if !g.moved && at == g.start {
			return false
		}
		m.c.MoveNode(g.target, r2.Add(g.origin, r2.Sub(at, g.start)))
		if m.snap {
			m.c.SnapNode(g.target, m.grid)
		}
		m.undo.Push(move{node: g.target, from: g.origin})
	case Select:
		m.selection = m.c.NodesIn(r2.Box{Min: g.start, Max: at})
	}
	return true
}

// DragTo is a complete press, move and release from one position to
// another.
func (m *Machine) DragTo(from, to r2.Vec) bool {
	if !m.Press(from) {
		return false
	}
	m.Move(to)
	return m.Release(to)
}

func (m *Machine) rootOf(r canvas.Ref) canvas.ID {
	switch r.Kind {
	case canvas.KindNode:
		return m.c.RootOf(r.ID)
	case canvas.KindEdge:
		if e := m.c.Edge(r.ID); e != nil {
			return e.Parent
		}
	case canvas.KindGraph:
		if m.c.IsRoot(r.ID) {
			return r.ID
		}
	}
	return 0
}

// =============================================================================
// Freestyle and selection
// =============================================================================

func (m *Machine) startFreestyle() {
	m.freestyle = m.c.AddGraph(r2.Vec{})
}

func (m *Machine) finishFreestyle() {
	g := m.c.Graph(m.freestyle)
	switch {
	case g == nil:
	case len(g.Children) == 0:
		m.c.DeleteGraph(m.freestyle)
	default:
		m.c.CenterGraph(m.freestyle)
	}
	m.freestyle = 0
}

// draw creates a freestyle node at scene position at and connects it to
// the previous node of the chain.
func (m *Machine) draw(at r2.Vec) bool {
	if m.c.Graph(m.freestyle) == nil {
		m.startFreestyle()
	}
	local, _ := m.c.ToLocal(m.freestyle, at)
	label := strconv.Itoa(len(m.c.Graph(m.freestyle).NodeIDs()))
	n, err := m.c.AddNode(m.freestyle, local, label, m.nodeStyle)
	if err != nil {
		m.logger.Warn("freestyle node", "err", err)
		return false
	}
	if m.snap {
		m.c.SnapNode(n, m.grid)
	}
	m.chainTo(n)
	return true
}

// chainTo connects the previous node of the chain to n and continues the
// chain from n. Connecting nodes of different graphs merges them; the
// merged graph then receives new freestyle nodes.
func (m *Machine) chainTo(n canvas.ID) bool {
	prev := m.chain
	m.chain = n
	if prev == 0 || prev == n || m.c.Node(prev) == nil {
		return true
	}
	e, added := m.c.Connect(prev, n)
	if added && m.edgeStyle != (canvas.EdgeStyle{}) {
		_ = m.c.SetEdgeStyle(e, m.edgeStyle)
	}
	if m.c.Graph(m.freestyle) == nil {
		m.freestyle = m.c.RootOf(n)
	}
	return true
}

func (m *Machine) toggle(n canvas.ID) {
	for i, id := range m.selection {
		if id == n {
			m.selection = append(m.selection[:i], m.selection[i+1:]...)
			return
		}
	}
	m.selection = append(m.selection, n)
}
