// Package script runs line-oriented canvas scripts.
//
// A script drives a [mode.Machine] the way a user would, with clicks, drags
// and key presses at scene positions or on named items, and can also call
// the canvas operators directly. Names bound by "node", "graph", "edge"
// and "layout ... as" refer to items in later statements.
//
//	layout cycle 5 at (0, 0) labels as C
//	layout path 3 at (200, 0) as P
//	mode join
//	click C.0
//	click P.0
//	key j
//	check
//
// Syntax and runtime problems are reported as *errors.ScriptError carrying
// the line and column of the offending statement.
package script

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	"github.com/matzehuels/graphcanvas/pkg/mode"
)

// Interpreter executes scripts against one machine. It is not safe for
// concurrent use.
type Interpreter struct {
	m      *mode.Machine
	c      *canvas.Canvas
	out    io.Writer
	logger *log.Logger
	names  map[string]canvas.Ref

	nodeStyle canvas.NodeStyle
	edgeStyle canvas.EdgeStyle
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets where "print" writes. The default discards output.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithLogger sets the logger for statement tracing.
func WithLogger(l *log.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithStyles sets the styles of nodes and edges created by scripts.
func WithStyles(node canvas.NodeStyle, edge canvas.EdgeStyle) Option {
	return func(in *Interpreter) { in.nodeStyle, in.edgeStyle = node, edge }
}

// New returns an interpreter driving m.
func New(m *mode.Machine, opts ...Option) *Interpreter {
	in := &Interpreter{
		m:      m,
		c:      m.Canvas(),
		out:    io.Discard,
		logger: log.Default(),
		names:  make(map[string]canvas.Ref),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run parses and executes src.
func (in *Interpreter) Run(ctx context.Context, src string) error {
	s, err := Parse(src)
	if err != nil {
		return err
	}
	return in.Exec(ctx, s)
}

// Exec executes the statements of s in order and stops at the first
// failure. Statements already executed stay applied.
func (in *Interpreter) Exec(ctx context.Context, s *Script) error {
	for _, st := range s.Statements {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeTimeout, err, "script interrupted at line %d", st.Pos.Line)
		}
		if err := in.exec(st); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(st *Statement) error {
	cmd, ok := commands[st.Verb]
	if !ok {
		return failAt(st.Pos, nil, "unknown command %q", st.Verb)
	}
	in.logger.Debug("script", "line", st.Pos.Line, "verb", st.Verb, "args", len(st.Args))
	a := &args{st: st}
	if err := cmd(in, a); err != nil {
		return err
	}
	return a.done()
}

// Lookup returns the item bound to name.
func (in *Interpreter) Lookup(name string) (canvas.Ref, bool) {
	r, ok := in.names[name]
	return r, ok
}

// Names returns the bound names in sorted order.
func (in *Interpreter) Names() []string {
	out := make([]string, 0, len(in.names))
	for n := range in.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Bind names an existing item.
func (in *Interpreter) Bind(name string, r canvas.Ref) {
	in.names[name] = r
}

func (in *Interpreter) printf(format string, a ...any) {
	fmt.Fprintf(in.out, format, a...)
}
