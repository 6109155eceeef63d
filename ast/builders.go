package ast

import "github.com/roar-lang/roar/errz"

// The New* factories build one node per kind. The expression factories
// compute type compatibility from the already-resolved operand types;
// they never consult scope, which is the analyzer's job. Factories
// that can reject input return a type error without location context,
// and the analyzer attaches the source position.

// NewProgram builds the root node from top level statements.
func NewProgram(stmts []Stmt) *Program {
	return &Program{Stmts: stmts}
}

// NewBlock builds a statement block.
func NewBlock(stmts []Stmt) *Block {
	return &Block{Stmts: stmts}
}

// NewAssign builds an assignment. Declares marks the assignment that
// first creates the binding.
func NewAssign(name *Ident, value Expr, declares bool) *Assign {
	return &Assign{Name: name, Value: value, Declares: declares}
}

// NewPrint builds a print statement.
func NewPrint(value Expr) *Print {
	return &Print{Value: value}
}

// NewFunc builds a function declaration.
func NewFunc(name *Ident, params []*Ident, body *Block) *Func {
	return &Func{Name: name, Params: params, Body: body}
}

// NewReturn builds a return statement.
func NewReturn(value Expr) *Return {
	return &Return{Value: value}
}

// NewBreak builds a break statement.
func NewBreak() *Break {
	return &Break{}
}

// NewIf builds a conditional statement. The alternate may be nil,
// another *If for a conditioned else branch, or a *Block for the
// final otherwise branch.
func NewIf(cond Expr, consequent *Block, alternate Stmt) *If {
	return &If{Cond: cond, Consequent: consequent, Alternate: alternate}
}

// NewWhile builds a range bounded loop.
func NewWhile(loopVar *Ident, bound *Range, body *Block) *While {
	return &While{Var: loopVar, Bound: bound, Body: body}
}

// NewComment builds a comment statement.
func NewComment(text string) *Comment {
	return &Comment{Text: text}
}

// NewIdent builds an identifier reference for a binding.
func NewIdent(b *Binding) *Ident {
	return &Ident{Binding: b}
}

// NewNumber builds a numeric literal.
func NewNumber(value float64) *Number {
	return &Number{Value: value}
}

// NewString builds a string literal from its segments.
func NewString(segments []Segment) *String {
	return &String{Segments: segments}
}

// NewText builds a plain string literal holding the given text.
func NewText(text string) *String {
	return &String{Segments: []Segment{{Text: text}}}
}

// NewBool builds a boolean literal.
func NewBool(value bool) *Bool {
	return &Bool{Value: value}
}

// NewCall builds a function call with its resolved return type.
func NewCall(fun *Ident, args []Expr, ret Type) *Call {
	return &Call{Fun: fun, Args: args, Ret: ret}
}

// NewRange builds a loop range from its bound expression.
func NewRange(bound Expr) *Range {
	return &Range{Bound: bound}
}

// NewBinary builds an arithmetic or logical expression. The type rules:
// "and"/"or" take booleans; "+" with either operand string concatenates
// with implicit stringification; every other combination of the
// arithmetic operators requires numbers. Unknown operand types pass
// through unchecked. Division by a literal zero is rejected outright.
func NewBinary(op string, x, y Expr) (*Binary, error) {
	xt, yt := x.Type(), y.Type()
	switch op {
	case "and", "or":
		if !acceptsBoolean(xt) || !acceptsBoolean(yt) {
			return nil, applyError(op, xt, yt)
		}
	case "+":
		if xt == TypeFunction || yt == TypeFunction {
			return nil, applyError(op, xt, yt)
		}
		if xt != TypeString && yt != TypeString {
			if xt == TypeBoolean || yt == TypeBoolean {
				return nil, applyError(op, xt, yt)
			}
		}
	case "-", "*", "/", "%":
		if !acceptsNumber(xt) || !acceptsNumber(yt) {
			return nil, applyError(op, xt, yt)
		}
		if op == "/" {
			if n, ok := y.(*Number); ok && n.Value == 0 {
				return nil, errz.New(errz.ErrType, "Cannot divide by zero")
			}
		}
	default:
		return nil, errz.Newf(errz.ErrType, "unsupported operator '%s'", op)
	}
	return &Binary{Op: op, X: x, Y: y}, nil
}

// NewCompare builds a comparison expression. Equality accepts operands
// of differing type; ordering requires two numbers or two strings.
// Function references cannot be compared with anything.
func NewCompare(op string, x, y Expr) (*Compare, error) {
	xt, yt := x.Type(), y.Type()
	if xt == TypeFunction || yt == TypeFunction {
		return nil, errz.New(errz.ErrType, "cannot compare function and number")
	}
	switch op {
	case "==", "!=":
	case "<", "<=", ">", ">=":
		if !orderable(xt, yt) {
			return nil, errz.Newf(errz.ErrType, "expected number or string, got %s and %s", xt, yt)
		}
	default:
		return nil, errz.Newf(errz.ErrType, "unsupported comparison '%s'", op)
	}
	return &Compare{Op: op, X: x, Y: y}, nil
}

// NewUnary builds a unary expression. Negation takes a number and
// logical not takes a boolean.
func NewUnary(op string, x Expr) (*Unary, error) {
	t := x.Type()
	switch op {
	case "-":
		if !acceptsNumber(t) {
			return nil, errz.Newf(errz.ErrType, "Cannot apply '-' to %s", t)
		}
	case "!":
		if !acceptsBoolean(t) {
			return nil, errz.Newf(errz.ErrType, "Cannot apply '!' to %s", t)
		}
	default:
		return nil, errz.Newf(errz.ErrType, "unsupported operator '%s'", op)
	}
	return &Unary{Op: op, X: x}, nil
}

func acceptsNumber(t Type) bool {
	return t == TypeNumber || t == TypeUnknown
}

func acceptsBoolean(t Type) bool {
	return t == TypeBoolean || t == TypeUnknown
}

func orderable(xt, yt Type) bool {
	if xt == TypeUnknown || yt == TypeUnknown {
		return true
	}
	return (xt == TypeNumber && yt == TypeNumber) || (xt == TypeString && yt == TypeString)
}

func applyError(op string, xt, yt Type) error {
	return errz.Newf(errz.ErrType, "Cannot apply '%s' to %s and %s", op, xt, yt)
}
