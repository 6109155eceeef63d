package syntax

import (
	"bytes"
	"strings"

	"github.com/roar-lang/roar/internal/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Number is an expression node for a numeric literal. Literals are
// always non-negative in source; negative values arise from the "-"
// prefix operator.
type Number struct {
	ValuePos token.Position // position of literal
	Literal  string         // literal text from the source
	Value    float64        // literal value
}

func (x *Number) exprNode() {}

func (x *Number) Pos() token.Position { return x.ValuePos }
func (x *Number) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Number) String() string { return x.Literal }

// Bool is an expression node for a boolean literal.
type Bool struct {
	ValuePos token.Position // position of literal
	Value    bool           // literal value
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }

func (x *Bool) End() token.Position {
	if x.Value {
		return x.ValuePos.Advance(4)
	}
	return x.ValuePos.Advance(5)
}

func (x *Bool) String() string {
	if x.Value {
		return "true"
	}
	return "false"
}

// Segment is one piece of a string literal: either literal text or an
// interpolated expression. Exactly one of the fields is set.
type Segment struct {
	Text string // literal text, already unescaped
	Expr Expr   // interpolated expression
}

// String is an expression node for a dash delimited string literal,
// possibly containing ${...} interpolations.
type String struct {
	ValuePos token.Position // position of the opening dash
	Raw      string         // raw text between the dashes
	Segments []Segment      // literal and interpolated pieces in order
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.ValuePos.Advance(len(x.Raw) + 2) }

func (x *String) String() string { return "-" + x.Raw + "-" }

// IsTemplate returns true if the literal contains any interpolated
// expressions.
func (x *String) IsTemplate() bool {
	for _, seg := range x.Segments {
		if seg.Expr != nil {
			return true
		}
	}
	return false
}

// Text returns the unescaped literal text. Interpolated segments are
// rendered as their source form.
func (x *String) Text() string {
	var out bytes.Buffer
	for _, seg := range x.Segments {
		if seg.Expr != nil {
			out.WriteString("${" + seg.Expr.String() + "}")
			continue
		}
		out.WriteString(seg.Text)
	}
	return out.String()
}

// Prefix is an operator expression where the operator precedes the
// operand, as in "!done" and "-x".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string         // operator: "!" or "-"
	X     Expr           // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string {
	return "(" + x.Op + x.X.String() + ")"
}

// Infix is an operator expression where the operator is between the
// operands. This covers arithmetic, logical and comparison operators;
// phrase comparisons carry their folded operator, so "is at most"
// appears here as "<=".
type Infix struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator: "+", "-", "==", "and", etc.
	Y     Expr           // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Call is an expression node for a function call. Only named functions
// exist in the language, so the callee is always an identifier.
type Call struct {
	Fun    *Ident         // function name
	Lparen token.Position // position of "("
	Args   []Expr         // call arguments
	Rparen token.Position // position of ")"
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	return x.Fun.String() + "(" + strings.Join(args, ", ") + ")"
}
