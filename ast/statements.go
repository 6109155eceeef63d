package ast

import (
	"bytes"
	"strings"
)

func joinStmts(stmts []Stmt) string {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n")
}

// Program is the root node: an ordered sequence of top level
// statements.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Kind() Kind { return KindProgram }

func (p *Program) String() string { return joinStmts(p.Stmts) }

// Block is an ordered sequence of statements used as the body of
// functions, branches and loops. It may be empty.
type Block struct {
	Stmts []Stmt
}

func (s *Block) stmtNode() {}

func (s *Block) Kind() Kind { return KindBlock }

func (s *Block) String() string {
	if len(s.Stmts) == 0 {
		return "| |"
	}
	return "|\n" + joinStmts(s.Stmts) + "\n|"
}

// Assign binds or rebinds a name to the value of an expression.
// Declares is true on the assignment that first creates the binding,
// which is what the code generator turns into a declaration.
type Assign struct {
	Name     *Ident
	Value    Expr
	Declares bool
}

func (s *Assign) stmtNode() {}

func (s *Assign) Kind() Kind { return KindAssign }

func (s *Assign) String() string {
	return s.Name.String() + " = " + s.Value.String()
}

// Print is a statement that prints the value of one expression.
type Print struct {
	Value Expr
}

func (s *Print) stmtNode() {}

func (s *Print) Kind() Kind { return KindPrint }

func (s *Print) String() string { return "roar " + s.Value.String() }

// Func is a function declaration. The name and parameters refer to
// their bindings; the function's return type lives on the name's
// binding so that calls resolved earlier see later refinements.
type Func struct {
	Name   *Ident
	Params []*Ident
	Body   *Block
}

func (s *Func) stmtNode() {}

func (s *Func) Kind() Kind { return KindFunc }

func (s *Func) String() string {
	var out bytes.Buffer
	out.WriteString("hunt ")
	out.WriteString(s.Name.String())
	out.WriteString("(")
	params := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		params = append(params, p.String())
	}
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(s.Body.String())
	return out.String()
}

// Return is a statement returning a value from the enclosing function.
type Return struct {
	Value Expr
}

func (s *Return) stmtNode() {}

func (s *Return) Kind() Kind { return KindReturn }

func (s *Return) String() string { return "give " + s.Value.String() }

// Break exits the enclosing loop.
type Break struct{}

func (s *Break) stmtNode() {}

func (s *Break) Kind() Kind { return KindBreak }

func (s *Break) String() string { return "flee" }

// If is a conditional statement. In a chain like if/else(x)/otherwise
// the alternate of each If is either another *If or the final *Block.
type If struct {
	Cond       Expr
	Consequent *Block
	Alternate  Stmt // *If, *Block or nil
}

func (s *If) stmtNode() {}

func (s *If) Kind() Kind { return KindIf }

func (s *If) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	s.writeChain(&out)
	return out.String()
}

func (s *If) writeChain(out *bytes.Buffer) {
	out.WriteString("(")
	out.WriteString(s.Cond.String())
	out.WriteString(") ")
	out.WriteString(s.Consequent.String())
	switch alt := s.Alternate.(type) {
	case *If:
		out.WriteString(" else ")
		alt.writeChain(out)
	case *Block:
		out.WriteString(" otherwise ")
		out.WriteString(alt.String())
	}
}

// While is the range bounded counting loop. The loop variable counts
// from zero up to the range bound and is immutable inside the body.
type While struct {
	Var   *Ident
	Bound *Range
	Body  *Block
}

func (s *While) stmtNode() {}

func (s *While) Kind() Kind { return KindWhile }

func (s *While) String() string {
	var out bytes.Buffer
	out.WriteString("prowl ")
	out.WriteString(s.Var.String())
	out.WriteString(" in ")
	out.WriteString(s.Bound.String())
	out.WriteString(" ")
	out.WriteString(s.Body.String())
	return out.String()
}

// Comment is a line comment carried through the pipeline so the
// generator can emit it in targets that support comments.
type Comment struct {
	Text string
}

func (s *Comment) stmtNode() {}

func (s *Comment) Kind() Kind { return KindComment }

func (s *Comment) String() string { return "#" + s.Text }
