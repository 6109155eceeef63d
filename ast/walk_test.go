package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	// Build: x = 1 + 2
	x := numVar("x")
	sum, err := NewBinary("+", NewNumber(1), NewNumber(2))
	require.NoError(t, err)
	program := NewProgram([]Stmt{NewAssign(x, sum, true)})

	var visited []Kind
	Inspect(program, func(n Node) bool {
		visited = append(visited, n.Kind())
		return true
	})

	expected := []Kind{KindProgram, KindAssign, KindIdent, KindBinary, KindNumber, KindNumber}
	assert.Equal(t, expected, visited)
}

func TestWalkPrune(t *testing.T) {
	x := numVar("x")
	sum, err := NewBinary("+", NewNumber(1), NewNumber(2))
	require.NoError(t, err)
	program := NewProgram([]Stmt{NewAssign(x, sum, true)})

	var visited []Kind
	Inspect(program, func(n Node) bool {
		visited = append(visited, n.Kind())
		// Do not descend into expressions.
		return n.Kind() != KindBinary
	})

	expected := []Kind{KindProgram, KindAssign, KindIdent, KindBinary}
	assert.Equal(t, expected, visited)
}

func TestWalkIfChain(t *testing.T) {
	cond, err := NewCompare("<", numVar("x"), NewNumber(5))
	require.NoError(t, err)
	chain := NewIf(cond,
		NewBlock([]Stmt{NewBreak()}),
		NewBlock([]Stmt{NewPrint(NewNumber(1))}),
	)

	var kinds []Kind
	Inspect(chain, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})

	expected := []Kind{
		KindIf, KindCompare, KindIdent, KindNumber,
		KindBlock, KindBreak,
		KindBlock, KindPrint, KindNumber,
	}
	assert.Equal(t, expected, kinds)
}

func TestWalkStringTemplate(t *testing.T) {
	str := NewString([]Segment{
		{Text: "total: "},
		{Expr: numVar("total")},
	})
	program := NewProgram([]Stmt{NewPrint(str)})

	var idents int
	Inspect(program, func(n Node) bool {
		if n.Kind() == KindIdent {
			idents++
		}
		return true
	})
	assert.Equal(t, 1, idents)
}

func TestWalkLoop(t *testing.T) {
	i := NewIdent(&Binding{Name: "i", Kind: BindLoopVar, VarType: TypeNumber})
	loop := NewWhile(i, NewRange(numVar("n")), NewBlock([]Stmt{NewPrint(i)}))

	var kinds []Kind
	Inspect(loop, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})

	expected := []Kind{
		KindWhile, KindIdent, KindRange, KindIdent,
		KindBlock, KindPrint, KindIdent,
	}
	assert.Equal(t, expected, kinds)
}

func TestPreorder(t *testing.T) {
	x := numVar("x")
	sum, err := NewBinary("+", NewNumber(1), NewNumber(2))
	require.NoError(t, err)
	program := NewProgram([]Stmt{NewAssign(x, sum, true)})

	var kinds []Kind
	for n := range Preorder(program) {
		kinds = append(kinds, n.Kind())
	}
	expected := []Kind{KindProgram, KindAssign, KindIdent, KindBinary, KindNumber, KindNumber}
	assert.Equal(t, expected, kinds)

	// Early termination stops the traversal.
	kinds = nil
	for n := range Preorder(program) {
		kinds = append(kinds, n.Kind())
		if n.Kind() == KindBinary {
			break
		}
	}
	expected = []Kind{KindProgram, KindAssign, KindIdent, KindBinary}
	assert.Equal(t, expected, kinds)
}

type funcCounter struct {
	count int
}

func (c *funcCounter) Visit(n Node) Visitor {
	if _, ok := n.(*Func); ok {
		c.count++
		// Do not descend into nested functions.
		return nil
	}
	return c
}

func TestWalkVisitor(t *testing.T) {
	f := NewIdent(&Binding{Name: "f", Kind: BindFunc, Arity: 0, RetType: TypeNumber})
	fn := NewFunc(f, nil, NewBlock([]Stmt{NewReturn(NewNumber(1))}))
	program := NewProgram([]Stmt{fn, NewPrint(NewNumber(2))})

	counter := &funcCounter{}
	Walk(counter, program)
	assert.Equal(t, 1, counter.count)
}
