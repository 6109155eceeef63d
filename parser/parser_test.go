package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roar-lang/roar/errz"
	"github.com/roar-lang/roar/syntax"
)

func parse(t *testing.T, input string) *syntax.Program {
	t.Helper()
	program, err := Parse(context.Background(), input)
	require.NoError(t, err)
	return program
}

func parseErr(t *testing.T, input string) *errz.Error {
	t.Helper()
	_, err := Parse(context.Background(), input)
	require.Error(t, err)
	e, ok := errz.As(err)
	require.True(t, ok, "expected a structured error, got %T", err)
	require.Equal(t, errz.ErrSyntax, e.Kind)
	return e
}

func TestAssignStatement(t *testing.T) {
	program := parse(t, "count = 42")
	require.Len(t, program.Stmts, 1)

	stmt, ok := program.Stmts[0].(*syntax.Assign)
	require.True(t, ok)
	assert.Equal(t, "count", stmt.Name.Name)

	num, ok := stmt.Value.(*syntax.Number)
	require.True(t, ok)
	assert.Equal(t, 42.0, num.Value)
	assert.Equal(t, "42", num.Literal)

	assert.Equal(t, 1, stmt.Pos().LineNumber())
	assert.Equal(t, 1, stmt.Pos().ColumnNumber())
	assert.Equal(t, 11, stmt.End().ColumnNumber())
}

func TestPrintStatement(t *testing.T) {
	program := parse(t, "roar -Hello LMU!-")
	require.Len(t, program.Stmts, 1)

	stmt, ok := program.Stmts[0].(*syntax.Print)
	require.True(t, ok)

	str, ok := stmt.Value.(*syntax.String)
	require.True(t, ok)
	assert.Equal(t, "Hello LMU!", str.Raw)
	assert.False(t, str.IsTemplate())
	require.Len(t, str.Segments, 1)
	assert.Equal(t, "Hello LMU!", str.Segments[0].Text)
}

func TestStringInterpolation(t *testing.T) {
	program := parse(t, "roar -sum: ${a + b}!-")
	stmt := program.Stmts[0].(*syntax.Print)

	str, ok := stmt.Value.(*syntax.String)
	require.True(t, ok)
	assert.True(t, str.IsTemplate())
	require.Len(t, str.Segments, 3)

	assert.Equal(t, "sum: ", str.Segments[0].Text)
	require.NotNil(t, str.Segments[1].Expr)
	assert.Equal(t, "(a + b)", str.Segments[1].Expr.String())
	assert.Equal(t, "!", str.Segments[2].Text)
}

func TestStringEscapes(t *testing.T) {
	program := parse(t, `roar -one\ntwo \${not expr}-`)
	str := program.Stmts[0].(*syntax.Print).Value.(*syntax.String)
	assert.False(t, str.IsTemplate())
	require.Len(t, str.Segments, 1)
	assert.Equal(t, "one\ntwo ${not expr}", str.Segments[0].Text)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x = a + b * c", "(a + (b * c))"},
		{"x = a * b + c", "((a * b) + c)"},
		{"x = a + b - c", "((a + b) - c)"},
		{"x = a * b / c % d", "(((a * b) / c) % d)"},
		{"x = 2 * (a + b)", "(2 * (a + b))"},
		{"x = -a * b", "((-a) * b)"},
		{"x = !done", "(!done)"},
		{"x = !a and b or c", "(((!a) and b) or c)"},
		{"x = a == b and c != d", "((a == b) and (c != d))"},
		{"x = a < b == c > d", "((a < b) == (c > d))"},
		{"x = a + b < c + d", "((a + b) < (c + d))"},
		{"x = a is at most b and c is at least d", "((a <= b) and (c >= d))"},
		{"x = a is equal to b or a is not equal to c", "((a == b) or (a != c))"},
		{"x = a is less than b + 1", "(a < (b + 1))"},
		{"x = a is greater than b", "(a > b)"},
		{"x = n % 2 == 0", "((n % 2) == 0)"},
		{"x = f(1) + g(2, 3)", "(f(1) + g(2, 3))"},
		{"x = sqrt(16)", "sqrt(16)"},
		{"x = sqrt(a + b) * 2", "(sqrt((a + b)) * 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := parse(t, tt.input)
			require.Len(t, program.Stmts, 1)
			stmt, ok := program.Stmts[0].(*syntax.Assign)
			require.True(t, ok)
			assert.Equal(t, tt.expected, stmt.Value.String())
		})
	}
}

func TestCallExpression(t *testing.T) {
	program := parse(t, "x = add(1, 2 * 3, y)")
	stmt := program.Stmts[0].(*syntax.Assign)

	call, ok := stmt.Value.(*syntax.Call)
	require.True(t, ok)
	assert.Equal(t, "add", call.Fun.Name)
	require.Len(t, call.Args, 3)
	assert.Equal(t, "1", call.Args[0].String())
	assert.Equal(t, "(2 * 3)", call.Args[1].String())
	assert.Equal(t, "y", call.Args[2].String())

	program = parse(t, "x = zero()")
	call = program.Stmts[0].(*syntax.Assign).Value.(*syntax.Call)
	assert.Equal(t, "zero", call.Fun.Name)
	assert.Len(t, call.Args, 0)
}

func TestFuncStatement(t *testing.T) {
	program := parse(t, `
hunt add(a, b) |
  give a + b
|`)
	require.Len(t, program.Stmts, 1)

	fn, ok := program.Stmts[0].(*syntax.Func)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "b", fn.Params[1].Name)

	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*syntax.Return)
	require.True(t, ok)
	assert.Equal(t, "(a + b)", ret.Value.String())
}

func TestFuncNoParams(t *testing.T) {
	program := parse(t, "hunt five() | give 5 |")
	fn := program.Stmts[0].(*syntax.Func)
	assert.Equal(t, "five", fn.Name.Name)
	assert.Len(t, fn.Params, 0)
	assert.Len(t, fn.Body.Stmts, 1)
}

func TestIfStatement(t *testing.T) {
	program := parse(t, `
if (x < 5) |
  roar x
|`)
	stmt, ok := program.Stmts[0].(*syntax.If)
	require.True(t, ok)
	assert.Equal(t, "(x < 5)", stmt.Cond.String())
	assert.Len(t, stmt.Consequent.Stmts, 1)
	assert.Nil(t, stmt.Alternate)
}

func TestIfChain(t *testing.T) {
	program := parse(t, `
if (x < 5) |
  roar 1
| else (x < 10) |
  roar 2
| otherwise |
  roar 3
|`)
	require.Len(t, program.Stmts, 1)

	first, ok := program.Stmts[0].(*syntax.If)
	require.True(t, ok)
	assert.Equal(t, "(x < 5)", first.Cond.String())

	second, ok := first.Alternate.(*syntax.If)
	require.True(t, ok)
	assert.Equal(t, "(x < 10)", second.Cond.String())

	final, ok := second.Alternate.(*syntax.Block)
	require.True(t, ok)
	require.Len(t, final.Stmts, 1)
	assert.Equal(t, "roar 3", final.Stmts[0].String())
}

func TestIfOtherwiseOnly(t *testing.T) {
	program := parse(t, "if (ok) | roar 1 | otherwise | roar 2 |")
	stmt := program.Stmts[0].(*syntax.If)
	block, ok := stmt.Alternate.(*syntax.Block)
	require.True(t, ok)
	assert.Len(t, block.Stmts, 1)
}

func TestLoopStatement(t *testing.T) {
	program := parse(t, `
prowl i in range 10 |
  roar i
|`)
	stmt, ok := program.Stmts[0].(*syntax.Loop)
	require.True(t, ok)

	v, ok := stmt.Var.(*syntax.Ident)
	require.True(t, ok)
	assert.Equal(t, "i", v.Name)

	bound, ok := stmt.Bound.(*syntax.Number)
	require.True(t, ok)
	assert.Equal(t, 10.0, bound.Value)

	require.Len(t, stmt.Body.Stmts, 1)
}

func TestLoopExprBound(t *testing.T) {
	program := parse(t, "prowl i in range n + 2 | flee |")
	stmt := program.Stmts[0].(*syntax.Loop)
	assert.Equal(t, "(n + 2)", stmt.Bound.String())
}

// A number in loop variable position parses; the analyzer rejects it
// with a clearer message than the parser could give.
func TestLoopNumberVar(t *testing.T) {
	program := parse(t, "prowl 5 in range 10 | flee |")
	stmt := program.Stmts[0].(*syntax.Loop)
	_, ok := stmt.Var.(*syntax.Number)
	assert.True(t, ok)
}

func TestComments(t *testing.T) {
	program := parse(t, `# count things
x = 1
# done`)
	require.Len(t, program.Stmts, 3)

	first, ok := program.Stmts[0].(*syntax.Comment)
	require.True(t, ok)
	assert.Equal(t, " count things", first.Text)

	last, ok := program.Stmts[2].(*syntax.Comment)
	require.True(t, ok)
	assert.Equal(t, " done", last.Text)
}

func TestCommentInBlock(t *testing.T) {
	program := parse(t, `
hunt f() |
  # returns one
  give 1
|`)
	fn := program.Stmts[0].(*syntax.Func)
	require.Len(t, fn.Body.Stmts, 2)
	_, ok := fn.Body.Stmts[0].(*syntax.Comment)
	assert.True(t, ok)
}

func TestCommentInsideExpression(t *testing.T) {
	program := parse(t, "x = 1 + # carried over\n2")
	require.Len(t, program.Stmts, 1)
	stmt := program.Stmts[0].(*syntax.Assign)
	assert.Equal(t, "(1 + 2)", stmt.Value.String())
}

func TestCommentAfterExpression(t *testing.T) {
	program := parse(t, "x = 1 # note")
	require.Len(t, program.Stmts, 2)
	_, ok := program.Stmts[1].(*syntax.Comment)
	assert.True(t, ok)
}

func TestProgramString(t *testing.T) {
	input := `# greet
hunt greet(name) |
give -Hi, ${name}!-
|
x = greet(-LMU-)
roar x`
	program := parse(t, input)
	assert.Equal(t, input, program.String())
}

func TestNodePositions(t *testing.T) {
	program := parse(t, "x = 5\nroar x")
	require.Len(t, program.Stmts, 2)

	first := program.Stmts[0]
	assert.Equal(t, 1, first.Pos().LineNumber())
	assert.Equal(t, 1, first.Pos().ColumnNumber())
	assert.Equal(t, 6, first.End().ColumnNumber())

	second := program.Stmts[1]
	assert.Equal(t, 2, second.Pos().LineNumber())
	assert.Equal(t, 1, second.Pos().ColumnNumber())
	assert.Equal(t, 7, second.End().ColumnNumber())
}

func TestBlockPositions(t *testing.T) {
	program := parse(t, "hunt f() | |")
	fn := program.Stmts[0].(*syntax.Func)
	assert.Equal(t, 1, fn.Pos().ColumnNumber())
	assert.Equal(t, 13, fn.End().ColumnNumber())
	assert.Equal(t, 10, fn.Body.Open.ColumnNumber())
	assert.Equal(t, 12, fn.Body.Close.ColumnNumber())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"x", "expected '=' but found end of input"},
		{"x + 1", "expected '=' but found '+'"},
		{"f(1)", "expected '=' but found '('"},
		{"5", "expected a statement but found number '5'"},
		{"x = 5 5", "expected a statement but found number '5'"},
		{"roar", "expected an expression but found end of input"},
		{"x =", "expected an expression but found end of input"},
		{"x = (1 + 2", "expected ')' but found end of input"},
		{"if x < 5 | roar 1 |", "expected '(' but found identifier 'x'"},
		{"if (x | roar 1 |", "expected ')' but found '|'"},
		{"if (x) | roar 1 | else | roar 2 |", "expected '(' but found '|'"},
		{"hunt f( | give 1 |", "expected a parameter name but found '|'"},
		{"hunt f(a,) | give 1 |", "expected a parameter name but found ')'"},
		{"hunt f() roar 1", "expected '|' but found 'roar'"},
		{"hunt 5() | give 1 |", "expected a function name but found number '5'"},
		{"prowl i in 10 | roar i |", "expected 'range' but found number '10'"},
		{"prowl i range 10 | roar i |", "expected 'in' but found 'range'"},
		{"prowl | in range 10", "expected a loop variable but found '|'"},
		{"x = 5 @ 3", `unexpected character "@"`},
		{"x = a is something", `invalid comparison phrase "is"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := parseErr(t, tt.input)
			assert.Equal(t, tt.message, e.Message)
		})
	}
}

func TestErrorLocation(t *testing.T) {
	e := parseErr(t, "x = 1\ny = (2 + 3")
	assert.Equal(t, "expected ')' but found end of input", e.Message)
	assert.Equal(t, 2, e.Location.Line)
	assert.Equal(t, 11, e.Location.Column)
	assert.Equal(t, "y = (2 + 3", e.Location.Source)
}

func TestUnterminatedBlock(t *testing.T) {
	e := parseErr(t, "hunt f() |\n  give 1")
	assert.Equal(t, "expected '|' but found end of input", e.Message)
	assert.Equal(t, "blocks open and close with '|'", e.Hint)
}

func TestInterpolationErrors(t *testing.T) {
	e := parseErr(t, "x = -value: ${}-")
	assert.Equal(t, "invalid interpolation: expected an expression but found end of input", e.Message)

	e = parseErr(t, "x = -value: ${a b}-")
	assert.Equal(t, "invalid interpolation: expected end of expression but found identifier 'b'", e.Message)

	e = parseErr(t, `x = -value: ${a-`)
	assert.Equal(t, "missing '}' in template: value: ${a", e.Message)
}

func TestCallNonFunction(t *testing.T) {
	e := parseErr(t, "x = (a + b)(1)")
	assert.Equal(t, "expected a function name before '('", e.Message)
}

func TestFilenameInErrors(t *testing.T) {
	_, err := Parse(context.Background(), "5", WithFilename("pride.roar"))
	require.Error(t, err)
	se, ok := errz.As(err)
	require.True(t, ok)
	assert.Equal(t, "pride.roar", se.Location.Filename)

	// Lexer errors in the very first token carry the filename too.
	_, err = Parse(context.Background(), "@", WithFilename("early.roar"))
	require.Error(t, err)
	se, ok = errz.As(err)
	require.True(t, ok)
	assert.Equal(t, "early.roar", se.Location.Filename)
}

func TestMaxDepth(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("x = ")
	for i := 0; i < 600; i++ {
		sb.WriteString("(")
	}
	sb.WriteString("1")
	for i := 0; i < 600; i++ {
		sb.WriteString(")")
	}
	input := sb.String()

	_, err := Parse(context.Background(), input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum expression nesting depth")

	_, err = Parse(context.Background(), input, WithMaxDepth(1000))
	assert.NoError(t, err)

	_, err = Parse(context.Background(), "x = ((((((1))))))", WithMaxDepth(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum expression nesting depth")

	_, err = Parse(context.Background(), "x = ((((1 + 2) * 3) - 4) / 5)")
	assert.NoError(t, err)
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Parse(ctx, "x = 1\ny = 2\nz = 3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFirstErrorWins(t *testing.T) {
	// Both lines are bad; only the first is reported.
	e := parseErr(t, "x +\n5")
	assert.Equal(t, "expected '=' but found '+'", e.Message)
	assert.Equal(t, 1, e.Location.Line)
}
