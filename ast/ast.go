// Package ast defines the typed abstract syntax tree produced by the
// analyzer. Unlike the parse tree in the syntax package, these nodes
// carry no source positions: they carry resolved bindings and types.
// Nodes are built once by the analyzer through the New* factories and
// are never mutated afterwards; the optimizer rebuilds nodes rather
// than changing them in place.
package ast

// Kind identifies a node variant. The set is closed; every stage of
// the pipeline dispatches on it.
type Kind string

// Node kinds
const (
	KindProgram Kind = "program"
	KindBlock   Kind = "block"
	KindAssign  Kind = "assign"
	KindPrint   Kind = "print"
	KindFunc    Kind = "func"
	KindReturn  Kind = "return"
	KindIf      Kind = "if"
	KindWhile   Kind = "while"
	KindBreak   Kind = "break"
	KindComment Kind = "comment"
	KindBinary  Kind = "binary"
	KindCompare Kind = "compare"
	KindUnary   Kind = "unary"
	KindIdent   Kind = "ident"
	KindNumber  Kind = "number"
	KindString  Kind = "string"
	KindBoolean Kind = "boolean"
	KindCall    Kind = "call"
	KindRange   Kind = "range"
)

// Node represents a portion of the typed syntax tree.
type Node interface {
	// Kind returns the variant tag for this node.
	Kind() Kind

	// String returns a human friendly representation of the Node. This
	// should be similar to the original source code, but not
	// necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Every expression has a resolved
// static type.
type Expr interface {
	Node
	// Type returns the static type of the expression.
	Type() Type
	exprNode()
}

// Type is the static type of an expression.
type Type int

// Expression types. TypeUnknown is used where static inference
// genuinely cannot determine the type; it propagates rather than
// being guessed at. TypeFunction only appears on a bare reference to
// a function name, which no well-typed program keeps in a value
// position.
const (
	TypeUnknown Type = iota
	TypeNumber
	TypeString
	TypeBoolean
	TypeFunction
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// BindKind describes what sort of declaration a name is bound to.
type BindKind int

// Binding kinds
const (
	BindVar BindKind = iota
	BindParam
	BindLoopVar
	BindFunc
	BindBuiltin
)

func (k BindKind) String() string {
	switch k {
	case BindParam:
		return "parameter"
	case BindLoopVar:
		return "loop variable"
	case BindFunc:
		return "function"
	case BindBuiltin:
		return "builtin"
	default:
		return "variable"
	}
}

// Binding is the declaration a name resolves to. Every identifier node
// that refers to the same declaration shares one *Binding, so bindings
// compare by pointer. The code generator keys its rename map on that
// identity.
type Binding struct {
	Name string   // declared name
	Kind BindKind // what the name is bound to

	// VarType is the type of the bound value. Unused for functions.
	VarType Type

	// Arity and RetType describe functions and builtins.
	Arity   int
	RetType Type
}

// Mutable reports whether the binding may be the target of an
// assignment. Functions, builtins and loop variables are immutable.
func (b *Binding) Mutable() bool {
	return b.Kind == BindVar || b.Kind == BindParam
}

// Callable reports whether the binding names something that can be
// called.
func (b *Binding) Callable() bool {
	return b.Kind == BindFunc || b.Kind == BindBuiltin
}
