package script

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/layout"
	"github.com/matzehuels/graphcanvas/pkg/mode"
)

type command func(in *Interpreter, a *args) error

var commands = map[string]command{
	// building
	"graph":  cmdGraph,
	"node":   cmdNode,
	"edge":   cmdEdge,
	"layout": cmdLayout,
	"label":  cmdLabel,

	// gestures
	"mode":    cmdMode,
	"click":   cmdClick,
	"dclick":  cmdDoubleClick,
	"press":   cmdPress,
	"move":    cmdMove,
	"release": cmdRelease,
	"drag":    cmdDrag,
	"key":     cmdKey,
	"undo":    cmdUndo,
	"select":  cmdSelect,

	// operators
	"join":    cmdJoin,
	"connect": cmdConnect,
	"delete":  cmdDelete,
	"center":  cmdCenter,
	"rotate":  cmdRotate,
	"place":   cmdPlace,
	"clear":   cmdClear,

	// inspection
	"check":  cmdCheck,
	"print":  cmdPrint,
	"expect": cmdExpect,
}

// Verbs lists the command names in sorted order.
func Verbs() []string {
	out := make([]string, 0, len(commands))
	for v := range commands {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// Building
// =============================================================================

// graph NAME [at P]
func cmdGraph(in *Interpreter, a *args) error {
	name, err := a.word("a graph name")
	if err != nil {
		return err
	}
	var at r2.Vec
	if a.keyword("at") {
		if at, err = a.point("the origin"); err != nil {
			return err
		}
	}
	in.names[name] = canvas.GraphRef(in.c.AddGraph(at))
	return nil
}

// node NAME [in G] [at P] [label TEXT]
//
// Without "in" the node gets a new root graph whose origin is P.
func cmdNode(in *Interpreter, a *args) error {
	name, err := a.word("a node name")
	if err != nil {
		return err
	}
	var (
		g     canvas.ID
		at    r2.Vec
		label string
	)
	for a.more() {
		switch {
		case a.keyword("in"):
			g, err = in.graphOf(a)
		case a.keyword("at"):
			at, err = a.point("the position")
		case a.keyword("label"):
			label, err = a.text("a label")
		default:
			return a.failf("unexpected argument")
		}
		if err != nil {
			return err
		}
	}

	local := r2.Vec{}
	if g == 0 {
		g = in.c.AddGraph(at)
	} else {
		local, _ = in.c.ToLocal(g, at)
	}
	id, err := in.c.AddNode(g, local, label, in.nodeStyle)
	if err != nil {
		return failAt(a.st.Pos, err, "node %s", name)
	}
	in.names[name] = canvas.NodeRef(id)
	return nil
}

// edge A B [label TEXT] [as NAME]
func cmdEdge(in *Interpreter, a *args) error {
	src, err := in.node(a)
	if err != nil {
		return err
	}
	dst, err := in.node(a)
	if err != nil {
		return err
	}
	var label, name string
	for a.more() {
		switch {
		case a.keyword("label"):
			label, err = a.text("a label")
		case a.keyword("as"):
			name, err = a.word("an edge name")
		default:
			return a.failf("unexpected argument")
		}
		if err != nil {
			return err
		}
	}
	id, err := in.c.AddEdge(src, dst, label, in.edgeStyle)
	if err != nil {
		return failAt(a.st.Pos, err, "edge")
	}
	if name != "" {
		in.names[name] = canvas.EdgeRef(id)
	}
	return nil
}

// layout KIND [N [M]] [at P] [size W H] [offsets TEXT] [labels] [noedges] [as NAME]
//
// "as NAME" binds NAME to the graph and NAME.i to its i-th node.
func cmdLayout(in *Interpreter, a *args) error {
	pos := a.pos()
	kindName, err := a.word("a graph family")
	if err != nil {
		return err
	}
	kind, err := layout.ParseKind(kindName)
	if err != nil {
		return failAt(pos, err, "layout")
	}
	p := layout.Params{Kind: kind, NodeStyle: in.nodeStyle, EdgeStyle: in.edgeStyle}
	n, ok, err := a.optInteger("the node count")
	if err != nil {
		return err
	}
	if ok {
		p.N = n
		if p.M, _, err = a.optInteger("the second size"); err != nil {
			return err
		}
	}

	var name string
	for a.more() {
		switch {
		case a.keyword("at"):
			p.Pos, err = a.point("the position")
		case a.keyword("size"):
			if p.Width, err = a.number("the width"); err == nil {
				p.Height, err = a.number("the height")
			}
		case a.keyword("offsets"):
			p.Offsets, err = a.text("the offsets")
		case a.keyword("labels"):
			p.Labels = true
		case a.keyword("noedges"):
			p.NoEdges = true
		case a.keyword("as"):
			name, err = a.word("a graph name")
		default:
			return a.failf("unexpected argument")
		}
		if err != nil {
			return err
		}
	}

	g, err := layout.Generate(in.c, p)
	if err != nil {
		return failAt(a.st.Pos, err, "layout %s", kind)
	}
	if name != "" {
		in.names[name] = canvas.GraphRef(g)
		for i, id := range in.c.Graph(g).NodeIDs() {
			in.names[name+"."+strconv.Itoa(i)] = canvas.NodeRef(id)
		}
	}
	return nil
}

// label NAME TEXT sets the label of a node or edge.
func cmdLabel(in *Interpreter, a *args) error {
	r, err := in.ref(a, canvas.KindNode, canvas.KindEdge)
	if err != nil {
		return err
	}
	text, err := a.text("a label")
	if err != nil {
		return err
	}
	if r.Kind == canvas.KindNode {
		err = in.c.SetNodeLabel(r.ID, text)
	} else {
		err = in.c.SetEdgeLabel(r.ID, text)
	}
	if err != nil {
		return failAt(a.st.Pos, err, "label")
	}
	return nil
}

// =============================================================================
// Gestures
// =============================================================================

func cmdMode(in *Interpreter, a *args) error {
	pos := a.pos()
	name, err := a.word("a mode")
	if err != nil {
		return err
	}
	m, err := mode.Parse(name)
	if err != nil {
		return failAt(pos, err, "mode")
	}
	in.m.SetMode(m)
	return nil
}

func cmdClick(in *Interpreter, a *args) error {
	r, p, err := in.target(a)
	if err != nil {
		return err
	}
	if r == nil {
		in.m.Click(p)
	} else {
		in.m.ClickItem(*r, p)
	}
	return nil
}

func cmdDoubleClick(in *Interpreter, a *args) error {
	r, p, err := in.target(a)
	if err != nil {
		return err
	}
	if r == nil {
		in.m.DoubleClick(p)
	} else {
		in.m.DoubleClickItem(*r)
	}
	return nil
}

func cmdPress(in *Interpreter, a *args) error {
	r, p, err := in.target(a)
	if err != nil {
		return err
	}
	if r == nil {
		in.m.Press(p)
	} else {
		in.m.PressItem(*r, p)
	}
	return nil
}

func cmdMove(in *Interpreter, a *args) error {
	_, p, err := in.target(a)
	if err != nil {
		return err
	}
	in.m.Move(p)
	return nil
}

func cmdRelease(in *Interpreter, a *args) error {
	_, p, err := in.target(a)
	if err != nil {
		return err
	}
	in.m.Release(p)
	return nil
}

// drag FROM to TO, where FROM and TO are positions or names.
func cmdDrag(in *Interpreter, a *args) error {
	r, from, err := in.target(a)
	if err != nil {
		return err
	}
	if !a.keyword("to") {
		return a.failf(`expected "to"`)
	}
	_, to, err := in.target(a)
	if err != nil {
		return err
	}
	var pressed bool
	if r == nil {
		pressed = in.m.Press(from)
	} else {
		pressed = in.m.PressItem(*r, from)
	}
	if pressed {
		in.m.Move(to)
		in.m.Release(to)
	}
	return nil
}

func cmdKey(in *Interpreter, a *args) error {
	k, err := a.text("a key")
	if err != nil {
		return err
	}
	in.m.Key(strings.ToLower(k))
	return nil
}

func cmdUndo(in *Interpreter, _ *args) error {
	in.m.Undo()
	return nil
}

// select P1 P2 runs a rectangle selection in select mode.
func cmdSelect(in *Interpreter, a *args) error {
	if in.m.Mode() != mode.Select {
		return a.failf("needs select mode, current mode is %s", in.m.Mode())
	}
	from, err := a.point("the first corner")
	if err != nil {
		return err
	}
	to, err := a.point("the second corner")
	if err != nil {
		return err
	}
	in.m.DragTo(from, to)
	return nil
}

// =============================================================================
// Operators
// =============================================================================

// join A B [C D] [as NAME]
//
// Two nodes are identified with each other; four nodes join the edge A-B
// with the edge C-D.
func cmdJoin(in *Interpreter, a *args) error {
	var nodes []canvas.ID
	for len(nodes) < 4 {
		if arg := a.peek(); arg == nil || arg.Word == nil || *arg.Word == "as" {
			break
		}
		n, err := in.node(a)
		if err != nil {
			return err
		}
		nodes = append(nodes, n)
	}

	var (
		g  canvas.ID
		ok bool
	)
	switch len(nodes) {
	case 2:
		g, ok = in.c.JoinTwoNodes(nodes[0], nodes[1])
	case 4:
		g, ok = in.c.JoinFourNodes(nodes[0], nodes[1], nodes[2], nodes[3])
	default:
		return a.failf("needs two or four nodes, got %d", len(nodes))
	}
	if !ok {
		return failAt(a.st.Pos, nil, "join: nodes cannot be joined")
	}
	if a.keyword("as") {
		name, err := a.word("a graph name")
		if err != nil {
			return err
		}
		in.names[name] = canvas.GraphRef(g)
	}
	return nil
}

// connect A B [as NAME]
func cmdConnect(in *Interpreter, a *args) error {
	n1, err := in.node(a)
	if err != nil {
		return err
	}
	n2, err := in.node(a)
	if err != nil {
		return err
	}
	if n1 == n2 {
		return failAt(a.st.Pos, nil, "connect: a node cannot connect to itself")
	}
	e, _ := in.c.Connect(n1, n2)
	if a.keyword("as") {
		name, err := a.word("an edge name")
		if err != nil {
			return err
		}
		in.names[name] = canvas.EdgeRef(e)
	}
	return nil
}

func cmdDelete(in *Interpreter, a *args) error {
	r, err := in.ref(a)
	if err != nil {
		return err
	}
	in.c.Delete(r)
	return nil
}

func cmdCenter(in *Interpreter, a *args) error {
	g, err := in.graphOf(a)
	if err != nil {
		return err
	}
	in.c.CenterGraph(g)
	return nil
}

// rotate NAME DEGREES [relative]
func cmdRotate(in *Interpreter, a *args) error {
	g, err := in.graphOf(a)
	if err != nil {
		return err
	}
	deg, err := a.number("an angle in degrees")
	if err != nil {
		return err
	}
	in.c.RotateGraph(g, deg, a.keyword("relative"))
	return nil
}

// place NAME at P moves a root graph's origin to P.
func cmdPlace(in *Interpreter, a *args) error {
	g, err := in.graphOf(a)
	if err != nil {
		return err
	}
	if !a.keyword("at") {
		return a.failf(`expected "at"`)
	}
	p, err := a.point("the position")
	if err != nil {
		return err
	}
	in.c.MoveGraph(g, p)
	return nil
}

func cmdClear(in *Interpreter, _ *args) error {
	in.m.SetMode(in.m.Mode())
	in.c.Clear()
	clear(in.names)
	return nil
}

// =============================================================================
// Inspection
// =============================================================================

func cmdCheck(in *Interpreter, a *args) error {
	if err := in.c.Check(); err != nil {
		return failAt(a.st.Pos, err, "check failed")
	}
	return nil
}

// print [NAME...]
func cmdPrint(in *Interpreter, a *args) error {
	if !a.more() {
		in.printf("mode=%s roots=%d graphs=%d nodes=%d edges=%d\n",
			in.m.Mode(), len(in.c.Roots()), in.c.GraphCount(), in.c.NodeCount(), in.c.EdgeCount())
		return nil
	}
	for a.more() {
		pos := a.pos()
		name, err := a.word("a name")
		if err != nil {
			return err
		}
		r, ok := in.names[name]
		if !ok {
			return failAt(pos, nil, "print: unknown name %q", name)
		}
		in.printf("%s %s\n", name, in.describe(r))
	}
	return nil
}

func (in *Interpreter) describe(r canvas.Ref) string {
	if !in.alive(r) {
		return "deleted"
	}
	p := in.position(r)
	at := "(" + num(p.X) + ", " + num(p.Y) + ")"
	switch r.Kind {
	case canvas.KindNode:
		n := in.c.Node(r.ID)
		return "node " + r.ID.String() + " at " + at + " in graph " + in.c.RootOf(r.ID).String() + " label " + strconv.Quote(n.Label)
	case canvas.KindEdge:
		e := in.c.Edge(r.ID)
		return "edge " + r.ID.String() + " " + e.Source.String() + "-" + e.Dest.String() + " label " + strconv.Quote(e.Label)
	default:
		g := in.c.Graph(r.ID)
		return "graph " + r.ID.String() + " at " + at + " rotation " + num(g.Rotation) +
			" nodes " + strconv.Itoa(len(g.NodeIDs())) + " edges " + strconv.Itoa(len(g.EdgeIDs()))
	}
}

// expect roots|graphs|nodes|edges N, expect mode NAME,
// expect selected N, or expect NAME deleted|alive.
func cmdExpect(in *Interpreter, a *args) error {
	what, err := a.word("what to expect")
	if err != nil {
		return err
	}
	counts := map[string]func() int{
		"roots":    func() int { return len(in.c.Roots()) },
		"graphs":   in.c.GraphCount,
		"nodes":    in.c.NodeCount,
		"edges":    in.c.EdgeCount,
		"selected": func() int { return len(in.m.Selection()) },
	}
	if count, ok := counts[what]; ok {
		want, err := a.integer("a count")
		if err != nil {
			return err
		}
		if got := count(); got != want {
			return failAt(a.st.Pos, nil, "expect: %s = %d, want %d", what, got, want)
		}
		return nil
	}
	if what == "mode" {
		name, err := a.word("a mode")
		if err != nil {
			return err
		}
		if got := in.m.Mode().String(); got != name {
			return failAt(a.st.Pos, nil, "expect: mode = %s, want %s", got, name)
		}
		return nil
	}

	r, ok := in.names[what]
	if !ok {
		return failAt(a.st.Pos, nil, "expect: unknown name %q", what)
	}
	state, err := a.word("deleted or alive")
	if err != nil {
		return err
	}
	switch state {
	case "deleted", "alive":
		if alive := in.alive(r); alive != (state == "alive") {
			return failAt(a.st.Pos, nil, "expect: %s is not %s", what, state)
		}
		return nil
	}
	return failAt(a.st.Pos, nil, "expect: want deleted or alive, got %q", state)
}

func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
