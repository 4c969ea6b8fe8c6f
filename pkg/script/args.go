package script

import (
	"fmt"
	"math"

	"github.com/alecthomas/participle/v2/lexer"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
)

func failAt(pos lexer.Position, cause error, format string, a ...any) error {
	return &errors.ScriptError{
		Line:    pos.Line,
		Column:  pos.Column,
		Message: fmt.Sprintf(format, a...),
		Cause:   cause,
	}
}

// args walks the arguments of one statement.
type args struct {
	st *Statement
	i  int
}

func (a *args) peek() *Arg {
	if a.i < len(a.st.Args) {
		return a.st.Args[a.i]
	}
	return nil
}

func (a *args) more() bool { return a.peek() != nil }

// pos is the position of the next argument, or of the statement when all
// arguments are consumed.
func (a *args) pos() lexer.Position {
	if arg := a.peek(); arg != nil {
		return arg.Pos
	}
	return a.st.Pos
}

func (a *args) failf(format string, v ...any) error {
	return failAt(a.pos(), nil, a.st.Verb+": "+format, v...)
}

func (a *args) done() error {
	if a.more() {
		return a.failf("unexpected argument")
	}
	return nil
}

// keyword consumes the next argument if it is the bare word w.
func (a *args) keyword(w string) bool {
	if arg := a.peek(); arg != nil && arg.Word != nil && *arg.Word == w {
		a.i++
		return true
	}
	return false
}

func (a *args) word(what string) (string, error) {
	arg := a.peek()
	if arg == nil || arg.Word == nil {
		return "", a.failf("expected %s", what)
	}
	a.i++
	return *arg.Word, nil
}

// text accepts a quoted string or a bare word.
func (a *args) text(what string) (string, error) {
	arg := a.peek()
	switch {
	case arg != nil && arg.String != nil:
		a.i++
		return *arg.String, nil
	case arg != nil && arg.Word != nil:
		a.i++
		return *arg.Word, nil
	}
	return "", a.failf("expected %s", what)
}

func (a *args) number(what string) (float64, error) {
	arg := a.peek()
	if arg == nil || arg.Number == nil {
		return 0, a.failf("expected %s", what)
	}
	a.i++
	return *arg.Number, nil
}

func (a *args) integer(what string) (int, error) {
	pos := a.pos()
	v, err := a.number(what)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, failAt(pos, nil, "%s: %s must be a whole number", a.st.Verb, what)
	}
	return int(v), nil
}

// optInteger consumes the next argument if it is a number.
func (a *args) optInteger(what string) (int, bool, error) {
	if arg := a.peek(); arg == nil || arg.Number == nil {
		return 0, false, nil
	}
	v, err := a.integer(what)
	return v, err == nil, err
}

func (a *args) point(what string) (r2.Vec, error) {
	arg := a.peek()
	if arg == nil || arg.Point == nil {
		return r2.Vec{}, a.failf("expected %s as (x, y)", what)
	}
	a.i++
	return r2.Vec{X: arg.Point.X, Y: arg.Point.Y}, nil
}

// =============================================================================
// Names and targets
// =============================================================================

// ref resolves a bound name to a live item.
func (in *Interpreter) ref(a *args, want ...canvas.Kind) (canvas.Ref, error) {
	pos := a.pos()
	name, err := a.word("a name")
	if err != nil {
		return canvas.Ref{}, err
	}
	r, ok := in.names[name]
	if !ok {
		return canvas.Ref{}, failAt(pos, nil, "%s: unknown name %q", a.st.Verb, name)
	}
	if !in.alive(r) {
		return canvas.Ref{}, failAt(pos, nil, "%s: %s no longer exists", a.st.Verb, name)
	}
	if len(want) == 0 {
		return r, nil
	}
	for _, k := range want {
		if r.Kind == k {
			return r, nil
		}
	}
	return canvas.Ref{}, failAt(pos, nil, "%s: %s is a %s", a.st.Verb, name, r.Kind)
}

func (in *Interpreter) node(a *args) (canvas.ID, error) {
	r, err := in.ref(a, canvas.KindNode)
	return r.ID, err
}

// graphOf resolves a name to a root graph. Nodes and edges stand for the
// graph that owns them.
func (in *Interpreter) graphOf(a *args) (canvas.ID, error) {
	r, err := in.ref(a)
	if err != nil {
		return 0, err
	}
	switch r.Kind {
	case canvas.KindNode:
		return in.c.RootOf(r.ID), nil
	case canvas.KindEdge:
		return in.c.Edge(r.ID).Parent, nil
	}
	return r.ID, nil
}

// target resolves a point or a name. A point yields a nil Ref and leaves
// hit-testing to the machine.
func (in *Interpreter) target(a *args) (*canvas.Ref, r2.Vec, error) {
	if arg := a.peek(); arg != nil && arg.Point != nil {
		p, err := a.point("a position")
		return nil, p, err
	}
	r, err := in.ref(a)
	if err != nil {
		return nil, r2.Vec{}, err
	}
	return &r, in.position(r), nil
}

// position is the scene position of a node, the midpoint of an edge or
// the origin of a graph.
func (in *Interpreter) position(r canvas.Ref) r2.Vec {
	switch r.Kind {
	case canvas.KindNode:
		p, _ := in.c.ScenePos(r.ID)
		return p
	case canvas.KindEdge:
		e := in.c.Edge(r.ID)
		a, _ := in.c.ScenePos(e.Source)
		b, _ := in.c.ScenePos(e.Dest)
		return r2.Scale(0.5, r2.Add(a, b))
	case canvas.KindGraph:
		return in.c.Graph(r.ID).Pos
	}
	return r2.Vec{}
}

func (in *Interpreter) alive(r canvas.Ref) bool {
	switch r.Kind {
	case canvas.KindNode:
		return in.c.Node(r.ID) != nil
	case canvas.KindEdge:
		return in.c.Edge(r.ID) != nil
	case canvas.KindGraph:
		return in.c.Graph(r.ID) != nil
	}
	return false
}
