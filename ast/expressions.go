package ast

import "strings"

// Ident is an expression node that refers to a declared name. Its type
// comes from the binding, so a later refinement of the binding's type
// is visible through every identifier that shares it.
type Ident struct {
	Binding *Binding
}

func (x *Ident) exprNode() {}

func (x *Ident) Kind() Kind { return KindIdent }

func (x *Ident) Type() Type {
	if x.Binding == nil {
		return TypeUnknown
	}
	if x.Binding.Callable() {
		return TypeFunction
	}
	return x.Binding.VarType
}

func (x *Ident) String() string {
	if x.Binding == nil {
		return "<unbound>"
	}
	return x.Binding.Name
}

// Unary is an operator expression with a single operand: numeric
// negation "-" or boolean negation "!".
type Unary struct {
	Op string
	X  Expr
}

func (x *Unary) exprNode() {}

func (x *Unary) Kind() Kind { return KindUnary }

func (x *Unary) Type() Type {
	switch x.Op {
	case "-":
		return TypeNumber
	case "!":
		return TypeBoolean
	}
	return TypeUnknown
}

func (x *Unary) String() string {
	return "(" + x.Op + x.X.String() + ")"
}

// Binary is an arithmetic or logical operator expression. The
// operators "<<" and ">>" are produced by strength reduction only and
// never appear in source.
type Binary struct {
	Op string
	X  Expr
	Y  Expr
}

func (x *Binary) exprNode() {}

func (x *Binary) Kind() Kind { return KindBinary }

func (x *Binary) Type() Type {
	switch x.Op {
	case "and", "or":
		return TypeBoolean
	case "<<", ">>":
		return TypeNumber
	case "+":
		xt, yt := x.X.Type(), x.Y.Type()
		if xt == TypeString || yt == TypeString {
			return TypeString
		}
		if xt == TypeUnknown || yt == TypeUnknown {
			return TypeUnknown
		}
		return TypeNumber
	default:
		if x.X.Type() == TypeNumber && x.Y.Type() == TypeNumber {
			return TypeNumber
		}
		return TypeUnknown
	}
}

func (x *Binary) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Compare is a comparison operator expression. Phrase comparisons are
// folded before this node is built, so the operator is always one of
// the six symbolic forms.
type Compare struct {
	Op string
	X  Expr
	Y  Expr
}

func (x *Compare) exprNode() {}

func (x *Compare) Kind() Kind { return KindCompare }
func (x *Compare) Type() Type { return TypeBoolean }

func (x *Compare) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Call is an expression node for a call to a declared function or a
// builtin. Ret is resolved by the analyzer when the call is built; a
// recursive call inside a function whose return type is still being
// inferred resolves to number.
type Call struct {
	Fun  *Ident
	Args []Expr
	Ret  Type
}

func (x *Call) exprNode() {}

func (x *Call) Kind() Kind { return KindCall }
func (x *Call) Type() Type { return x.Ret }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	return x.Fun.String() + "(" + strings.Join(args, ", ") + ")"
}

// Range wraps the bound expression of a counting loop. The loop runs
// from zero up to, but not including, the bound.
type Range struct {
	Bound Expr
}

func (x *Range) exprNode() {}

func (x *Range) Kind() Kind { return KindRange }
func (x *Range) Type() Type { return TypeNumber }

func (x *Range) String() string {
	return "range " + x.Bound.String()
}
