package syntax

import (
	"bytes"
	"strings"

	"github.com/roar-lang/roar/internal/token"
)

func joinStmts(stmts []Stmt) string {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "\n")
}

// Print is a statement node for a "roar" statement, which prints the
// value of a single expression.
type Print struct {
	Roar  token.Position // position of "roar" keyword
	Value Expr           // expression to print
}

func (s *Print) stmtNode() {}

func (s *Print) Pos() token.Position { return s.Roar }
func (s *Print) End() token.Position { return s.Value.End() }

func (s *Print) String() string { return "roar " + s.Value.String() }

// Assign is a statement node that binds or rebinds a name to the value
// of an expression.
type Assign struct {
	Name      *Ident         // assignment target
	AssignPos token.Position // position of "="
	Value     Expr           // assigned expression
}

func (s *Assign) stmtNode() {}

func (s *Assign) Pos() token.Position { return s.Name.Pos() }
func (s *Assign) End() token.Position { return s.Value.End() }

func (s *Assign) String() string {
	return s.Name.String() + " = " + s.Value.String()
}

// Func is a statement node for a "hunt" function declaration.
type Func struct {
	Hunt   token.Position // position of "hunt" keyword
	Name   *Ident         // function name
	Params []*Ident       // parameter names
	Body   *Block         // function body
}

func (s *Func) stmtNode() {}

func (s *Func) Pos() token.Position { return s.Hunt }
func (s *Func) End() token.Position { return s.Body.End() }

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

// Return is a statement node for a "give" statement.
type Return struct {
	Give  token.Position // position of "give" keyword
	Value Expr           // returned expression
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.Give }
func (s *Return) End() token.Position { return s.Value.End() }

func (s *Return) String() string { return "give " + s.Value.String() }

// Break is a statement node for a "flee" statement.
type Break struct {
	Flee token.Position // position of "flee" keyword
}

func (s *Break) stmtNode() {}

func (s *Break) Pos() token.Position { return s.Flee }
func (s *Break) End() token.Position { return s.Flee.Advance(4) }

func (s *Break) String() string { return "flee" }

// If is a statement node for an if statement, with an optional
// alternate branch. In a chain like if/else(x)/otherwise the alternate
// of each If is either another *If or the final *Block.
type If struct {
	If         token.Position // position of "if", "else" or "otherwise"
	Cond       Expr           // condition
	Consequent *Block         // branch taken when the condition holds
	Alternate  Stmt           // *If, *Block or nil
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.If }

func (s *If) End() token.Position {
	if s.Alternate != nil {
		return s.Alternate.End()
	}
	return s.Consequent.End()
}

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

// Loop is a statement node for a "prowl" counting loop. The parser
// accepts any primary expression as the loop variable; the analyzer
// rejects everything but a plain identifier.
type Loop struct {
	Prowl token.Position // position of "prowl" keyword
	Var   Expr           // loop variable
	Bound Expr           // range bound expression
	Body  *Block         // loop body
}

func (s *Loop) stmtNode() {}

func (s *Loop) Pos() token.Position { return s.Prowl }
func (s *Loop) End() token.Position { return s.Body.End() }

func (s *Loop) String() string {
	var out bytes.Buffer
	out.WriteString("prowl ")
	out.WriteString(s.Var.String())
	out.WriteString(" in range ")
	out.WriteString(s.Bound.String())
	out.WriteString(" ")
	out.WriteString(s.Body.String())
	return out.String()
}

// Comment is a statement node holding one # line comment.
type Comment struct {
	Hash token.Position // position of "#"
	Text string         // comment text, excluding the "#"
}

func (s *Comment) stmtNode() {}

func (s *Comment) Pos() token.Position { return s.Hash }
func (s *Comment) End() token.Position { return s.Hash.Advance(len(s.Text) + 1) }

func (s *Comment) String() string { return "#" + s.Text }

// Block is a pipe delimited sequence of statements, used as the body
// of functions, branches and loops.
type Block struct {
	Open  token.Position // position of the opening "|"
	Stmts []Stmt         // statements in the block
	Close token.Position // position of the closing "|"
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() token.Position { return s.Open }
func (s *Block) End() token.Position { return s.Close.Advance(1) }

func (s *Block) String() string {
	if len(s.Stmts) == 0 {
		return "| |"
	}
	return "|\n" + joinStmts(s.Stmts) + "\n|"
}
