// Package codegen renders an analyzed program as source text in a
// target dialect. JavaScript is the only built in dialect; any other
// target fails with an ErrTarget error, which keeps the dialect switch
// an extension point rather than a silent default.
//
// Statements render one per line through a per-kind dispatch. Name
// collisions between distinct bindings are resolved by the namer, and
// declarations first made inside a branch are hoisted as a bare let so
// the name survives the branch the way it does in the source language.
package codegen

import (
	"strings"

	"github.com/roar-lang/roar/ast"
	"github.com/roar-lang/roar/errz"
)

// Target selects the output dialect.
type Target string

// JS is the JavaScript target dialect.
const JS Target = "js"

// Generate renders the program in the given target dialect.
func Generate(program *ast.Program, target Target) (string, error) {
	switch target {
	case JS:
	case "":
		return "", errz.New(errz.ErrTarget, "no target dialect selected")
	default:
		return "", errz.Newf(errz.ErrTarget, "unsupported target dialect '%s'", target)
	}
	e := &emitter{
		names:       newNamer(),
		predeclared: make(map[*ast.Binding]bool),
	}
	e.stmts(program.Stmts)
	return e.out.String(), nil
}

// emitter accumulates the output text. Statements append whole
// indented lines; expressions render to strings through expr.go.
type emitter struct {
	out         strings.Builder
	indent      int
	names       *namer
	predeclared map[*ast.Binding]bool
}

func (e *emitter) line(s string) {
	for i := 0; i < e.indent; i++ {
		e.out.WriteString("  ")
	}
	e.out.WriteString(s)
	e.out.WriteByte('\n')
}

func (e *emitter) stmts(list []ast.Stmt) {
	for _, s := range list {
		if ifStmt, ok := s.(*ast.If); ok {
			e.hoistBranchDeclarations(ifStmt)
		}
		e.stmt(s)
	}
}

func (e *emitter) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Assign:
		e.assign(s)
	case *ast.Print:
		e.line("console.log(" + e.expr(s.Value, precLowest) + ");")
	case *ast.Func:
		e.fn(s)
	case *ast.Return:
		e.line("return " + e.expr(s.Value, precLowest) + ";")
	case *ast.Break:
		e.line("break;")
	case *ast.If:
		e.ifChain(s)
	case *ast.While:
		e.loop(s)
	case *ast.Comment:
		e.line("//" + s.Text)
	case *ast.Block:
		e.stmts(s.Stmts)
	}
}

func (e *emitter) assign(s *ast.Assign) {
	name := e.names.name(s.Name.Binding)
	value := e.expr(s.Value, precLowest)
	if s.Declares && !e.predeclared[s.Name.Binding] {
		e.line("let " + name + " = " + value + ";")
		return
	}
	e.line(name + " = " + value + ";")
}

func (e *emitter) fn(s *ast.Func) {
	name := e.names.name(s.Name.Binding)
	params := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		params = append(params, e.names.name(p.Binding))
	}
	e.line("function " + name + "(" + strings.Join(params, ", ") + ") {")
	e.body(s.Body)
	e.line("}")
}

func (e *emitter) ifChain(s *ast.If) {
	e.line("if (" + e.expr(s.Cond, precLowest) + ") {")
	e.body(s.Consequent)
	alt := s.Alternate
	for alt != nil {
		switch a := alt.(type) {
		case *ast.If:
			e.line("} else if (" + e.expr(a.Cond, precLowest) + ") {")
			e.body(a.Consequent)
			alt = a.Alternate
		case *ast.Block:
			e.line("} else {")
			e.body(a)
			alt = nil
		}
	}
	e.line("}")
}

// loop renders the counting loop. A literal bound goes straight into
// the header; any other bound is hoisted into a const so it is
// evaluated exactly once, before the loop runs.
func (e *emitter) loop(s *ast.While) {
	bound := s.Bound.Bound
	limit := ""
	if n, ok := bound.(*ast.Number); ok {
		limit = formatNumber(n.Value)
	} else {
		limit = e.names.fresh("limit")
		e.line("const " + limit + " = " + e.expr(bound, precLowest) + ";")
	}
	name := e.names.name(s.Var.Binding)
	e.line("for (let " + name + " = 0; " + name + " < " + limit + "; " + name + "++) {")
	e.body(s.Body)
	e.line("}")
}

func (e *emitter) body(b *ast.Block) {
	e.indent++
	e.stmts(b.Stmts)
	e.indent--
}

// hoistBranchDeclarations emits a bare let for every binding whose
// declaring assignment sits inside the branches of the chain. Branch
// bodies share the enclosing scope in the source language, while let
// inside a JavaScript block does not escape it, so the declaration has
// to move out in front of the statement.
func (e *emitter) hoistBranchDeclarations(s *ast.If) {
	for _, b := range branchDeclarations(s) {
		if e.predeclared[b] {
			continue
		}
		e.predeclared[b] = true
		e.line("let " + e.names.name(b) + ";")
	}
}

// branchDeclarations collects bindings declared inside the branches of
// an if chain, in source order. Function and loop bodies open scopes
// of their own, so the walk stops at them.
func branchDeclarations(s *ast.If) []*ast.Binding {
	var found []*ast.Binding
	var walkBlock func(b *ast.Block)
	var walkIf func(s *ast.If)
	walkBlock = func(b *ast.Block) {
		for _, stmt := range b.Stmts {
			switch stmt := stmt.(type) {
			case *ast.Assign:
				if stmt.Declares {
					found = append(found, stmt.Name.Binding)
				}
			case *ast.If:
				walkIf(stmt)
			}
		}
	}
	walkIf = func(s *ast.If) {
		walkBlock(s.Consequent)
		switch alt := s.Alternate.(type) {
		case *ast.If:
			walkIf(alt)
		case *ast.Block:
			walkBlock(alt)
		}
	}
	walkIf(s)
	return found
}
