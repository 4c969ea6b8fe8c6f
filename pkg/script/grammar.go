package script

import (
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/graphcanvas/pkg/errors"
)

// Script is a parsed program: statements separated by newlines or ";".
type Script struct {
	Statements []*Statement `( @@ | ";" | EOL )*`
}

// Statement is a verb followed by its arguments.
type Statement struct {
	Pos lexer.Position

	Verb string `@Ident`
	Args []*Arg `@@*`
}

// Arg is one statement argument.
type Arg struct {
	Pos lexer.Position

	Point  *Point   `  @@`
	Number *float64 `| @Number`
	String *string  `| @String`
	Word   *string  `| @Ident`
}

// Point is a literal scene position "(x, y)".
type Point struct {
	X float64 `"(" @Number`
	Y float64 `"," @Number ")"`
}

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"comment", `#[^\n]*`},
	{"String", `"(\\.|[^"\\])*"`},
	{"Number", `[-+]?(\d+(\.\d*)?|\.\d+)`},
	{"Ident", `[A-Za-z_][A-Za-z0-9_.\-]*`},
	{"Punct", `[(),;]`},
	{"EOL", `\r?\n`},
	{"whitespace", `[ \t\r]+`},
})

var parser = participle.MustBuild[Script](
	participle.Lexer(scriptLexer),
	participle.Unquote("String"),
)

// Parse parses src. Syntax errors are returned as *errors.ScriptError.
func Parse(src string) (*Script, error) {
	s, err := parser.ParseString("", src)
	if err != nil {
		return nil, syntaxError(err)
	}
	return s, nil
}

// ParseReader parses a script read from r.
func ParseReader(name string, r io.Reader) (*Script, error) {
	s, err := parser.Parse(name, r)
	if err != nil {
		return nil, syntaxError(err)
	}
	return s, nil
}

func syntaxError(err error) error {
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		return &errors.ScriptError{Line: pos.Line, Column: pos.Column, Message: perr.Message()}
	}
	return &errors.ScriptError{Message: "parse", Cause: err}
}
