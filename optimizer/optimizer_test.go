package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roar-lang/roar/analyzer"
	"github.com/roar-lang/roar/ast"
	"github.com/roar-lang/roar/parser"
)

func optimize(t *testing.T, input string) *ast.Program {
	t.Helper()
	parsed, err := parser.Parse(context.Background(), input)
	require.NoError(t, err)
	program, err := analyzer.Analyze(parsed, analyzer.WithSource(input))
	require.NoError(t, err)
	return Optimize(program)
}

// lastAssignValue returns the optimized value of the final assignment
// in the program.
func lastAssignValue(t *testing.T, program *ast.Program) ast.Expr {
	t.Helper()
	require.NotEmpty(t, program.Stmts)
	last := program.Stmts[len(program.Stmts)-1]
	assign, ok := last.(*ast.Assign)
	require.True(t, ok, "got %T", last)
	return assign.Value
}

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"x = 5 + 8", 13},
		{"x = 10 - 4 / 2", 8},
		{"x = 2 * 3 + 1", 7},
		{"x = 10 % 3", 1},
		{"x = 7 / 2", 3.5},
		{"x = 0 - -5", 5},
		{"x = (2 + 3) * 1", 5},
	}
	for _, tt := range tests {
		program := optimize(t, tt.input)
		n, ok := lastAssignValue(t, program).(*ast.Number)
		require.True(t, ok, "input: %s", tt.input)
		assert.Equal(t, tt.want, n.Value, "input: %s", tt.input)
	}
}

func TestStringConcatFolding(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x = -a- + -b-", "ab"},
		{"x = -n: - + 3", "n: 3"},
		{"x = 1 + -a-", "1a"},
		{"x = true + - yes-", "true yes"},
	}
	for _, tt := range tests {
		program := optimize(t, tt.input)
		s, ok := lastAssignValue(t, program).(*ast.String)
		require.True(t, ok, "input: %s", tt.input)
		assert.Equal(t, tt.want, s.Text(), "input: %s", tt.input)
		assert.False(t, s.IsTemplate(), "input: %s", tt.input)
	}

	// A template operand depends on runtime interpolation and is not
	// folded.
	program := optimize(t, "x = -a- + -b ${1}-")
	assert.IsType(t, &ast.Binary{}, lastAssignValue(t, program))
}

func TestDivisionByFoldedZero(t *testing.T) {
	program := optimize(t, "x = 5 / (3 - 3)")
	b, ok := lastAssignValue(t, program).(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "/", b.Op)
	assert.Equal(t, float64(0), b.Y.(*ast.Number).Value)

	program = optimize(t, "x = 5 % (1 - 1)")
	b, ok = lastAssignValue(t, program).(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "%", b.Op)
}

func TestIdentityElimination(t *testing.T) {
	for _, input := range []string{
		"y = 1\nx = y + 0",
		"y = 1\nx = 0 + y",
		"y = 1\nx = y * 1",
		"y = 1\nx = 1 * y",
	} {
		program := optimize(t, input)
		ident, ok := lastAssignValue(t, program).(*ast.Ident)
		require.True(t, ok, "input: %s", input)
		assert.Equal(t, "y", ident.Binding.Name, "input: %s", input)
	}

	for _, input := range []string{"y = 1\nx = y * 0", "y = 1\nx = 0 * y"} {
		program := optimize(t, input)
		n, ok := lastAssignValue(t, program).(*ast.Number)
		require.True(t, ok, "input: %s", input)
		assert.Equal(t, float64(0), n.Value, "input: %s", input)
	}

	// Adding zero to a string concatenates "0"; the identity only
	// applies to numbers.
	program := optimize(t, "s = -a-\nx = s + 0")
	assert.IsType(t, &ast.Binary{}, lastAssignValue(t, program))
}

func TestStrengthReduction(t *testing.T) {
	tests := []struct {
		input string
		op    string
		shift float64
	}{
		{"y = 1\nx = y * 8", "<<", 3},
		{"y = 1\nx = 8 * y", "<<", 3},
		{"y = 1\nx = y * 2", "<<", 1},
		{"y = 1\nx = y * 16", "<<", 4},
		{"y = 1\nx = y / 4", ">>", 2},
	}
	for _, tt := range tests {
		program := optimize(t, tt.input)
		b, ok := lastAssignValue(t, program).(*ast.Binary)
		require.True(t, ok, "input: %s", tt.input)
		assert.Equal(t, tt.op, b.Op, "input: %s", tt.input)
		assert.Equal(t, "y", b.X.(*ast.Ident).Binding.Name, "input: %s", tt.input)
		assert.Equal(t, tt.shift, b.Y.(*ast.Number).Value, "input: %s", tt.input)
	}

	for _, input := range []string{"y = 1\nx = y * 3", "y = 1\nx = y * 0.5"} {
		program := optimize(t, input)
		b, ok := lastAssignValue(t, program).(*ast.Binary)
		require.True(t, ok, "input: %s", input)
		assert.Equal(t, "*", b.Op, "input: %s", input)
	}
}

func TestTermCombination(t *testing.T) {
	program := optimize(t, "y = 1\nx = y + 2 + 3")
	b, ok := lastAssignValue(t, program).(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", b.Op)
	assert.Equal(t, "y", b.X.(*ast.Ident).Binding.Name)
	assert.Equal(t, float64(5), b.Y.(*ast.Number).Value)

	// Only the literal-tail shape combines; the literal-head shape is
	// left alone in a single pass.
	program = optimize(t, "y = 1\nx = 2 + y + 3")
	b, ok = lastAssignValue(t, program).(*ast.Binary)
	require.True(t, ok)
	assert.IsType(t, &ast.Binary{}, b.X)
	assert.Equal(t, float64(3), b.Y.(*ast.Number).Value)
}

func TestShortCircuitFolding(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"b = true\nx = true and b", "b"},
		{"b = true\nx = false and b", "false"},
		{"b = true\nx = b and true", "b"},
		{"b = true\nx = b and false", "false"},
		{"b = true\nx = true or b", "true"},
		{"b = true\nx = false or b", "b"},
		{"b = true\nx = b or true", "true"},
		{"b = true\nx = b or false", "b"},
	}
	for _, tt := range tests {
		program := optimize(t, tt.input)
		assert.Equal(t, tt.want, lastAssignValue(t, program).String(), "input: %s", tt.input)
	}
}

func TestDoubleNegation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x = !true", "false"},
		{"x = !!true", "true"},
		{"b = true\nx = !!b", "b"},
	}
	for _, tt := range tests {
		program := optimize(t, tt.input)
		assert.Equal(t, tt.want, lastAssignValue(t, program).String(), "input: %s", tt.input)
	}
}

func TestComparisonFolding(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x = 3 < 5", "true"},
		{"x = 5 <= 4", "false"},
		{"x = -a- == -b-", "false"},
		{"x = -abc- <= -abd-", "true"},
		{"x = -b- > -a-", "true"},
		{"x = true == true", "true"},
		{"x = true != false", "true"},
		{"x = 1 == -one-", "false"},
		{"x = 1 != -one-", "true"},
	}
	for _, tt := range tests {
		program := optimize(t, tt.input)
		b, ok := lastAssignValue(t, program).(*ast.Bool)
		require.True(t, ok, "input: %s", tt.input)
		assert.Equal(t, tt.want, b.String(), "input: %s", tt.input)
	}
}

func TestStructuralComparisonFolding(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"y = 1\nx = y == y", "true"},
		{"y = 1\nx = y != y", "false"},
		{"y = 1\nx = y < y", "false"},
		{"y = 1\nx = y + 1 >= y + 1", "true"},
	}
	for _, tt := range tests {
		program := optimize(t, tt.input)
		assert.Equal(t, tt.want, lastAssignValue(t, program).String(), "input: %s", tt.input)
	}

	program := optimize(t, "y = 1\nz = 2\nx = y == z")
	assert.IsType(t, &ast.Compare{}, lastAssignValue(t, program))
}

func TestSelfAssignmentRemoval(t *testing.T) {
	program := optimize(t, "x = 1\nx = x")
	assert.Len(t, program.Stmts, 1)

	// Identity elimination exposes the self-assignment.
	program = optimize(t, "x = 1\nx = x * 1")
	assert.Len(t, program.Stmts, 1)

	program = optimize(t, "x = 1\ny = x")
	assert.Len(t, program.Stmts, 2)
}

func TestDeadIf(t *testing.T) {
	program := optimize(t, "if (true) |\nroar 1\n|")
	require.Len(t, program.Stmts, 1)
	assert.IsType(t, &ast.Print{}, program.Stmts[0])

	program = optimize(t, "if (false) |\nroar 1\n|")
	assert.Empty(t, program.Stmts)

	program = optimize(t, "if (false) |\nroar 1\n| otherwise |\nroar 2\n|")
	require.Len(t, program.Stmts, 1)
	print := program.Stmts[0].(*ast.Print)
	assert.Equal(t, float64(2), print.Value.(*ast.Number).Value)

	program = optimize(t, "if (true) |\nroar 1\n| otherwise |\nroar 2\n|")
	require.Len(t, program.Stmts, 1)
	print = program.Stmts[0].(*ast.Print)
	assert.Equal(t, float64(1), print.Value.(*ast.Number).Value)

	// Empty consequent and no alternate drops the whole statement.
	program = optimize(t, "a = 1\nif (a > 0) | |")
	assert.Len(t, program.Stmts, 1)
}

func TestDeadIfPromotesChainTail(t *testing.T) {
	input := "a = 1\nif (false) |\nroar 1\n| else (a == 1) |\nroar 2\n| otherwise |\nroar 3\n|"
	program := optimize(t, input)
	require.Len(t, program.Stmts, 2)
	ifStmt, ok := program.Stmts[1].(*ast.If)
	require.True(t, ok, "got %T", program.Stmts[1])
	assert.Equal(t, "==", ifStmt.Cond.(*ast.Compare).Op)
	assert.Equal(t, float64(2), ifStmt.Consequent.Stmts[0].(*ast.Print).Value.(*ast.Number).Value)
	assert.IsType(t, &ast.Block{}, ifStmt.Alternate)
}

func TestDeadIfKeepsDeclarations(t *testing.T) {
	// The branch declares x and a later statement reads it, so the
	// statement cannot be dropped.
	program := optimize(t, "if (false) |\nx = 1\n|\nroar x")
	require.Len(t, program.Stmts, 2)
	assert.IsType(t, &ast.If{}, program.Stmts[0])

	program = optimize(t, "if (true) |\nroar 1\n| otherwise |\nx = 1\n|\nroar x")
	require.Len(t, program.Stmts, 2)
	assert.IsType(t, &ast.If{}, program.Stmts[0])
}

func TestNegatedConditionSwap(t *testing.T) {
	program := optimize(t, "a = 1\nif (a != 1) |\nroar 1\n| otherwise |\nroar 2\n|")
	ifStmt := program.Stmts[1].(*ast.If)
	assert.Equal(t, "==", ifStmt.Cond.(*ast.Compare).Op)
	assert.Equal(t, float64(2), ifStmt.Consequent.Stmts[0].(*ast.Print).Value.(*ast.Number).Value)
	alternate := ifStmt.Alternate.(*ast.Block)
	assert.Equal(t, float64(1), alternate.Stmts[0].(*ast.Print).Value.(*ast.Number).Value)

	// An else-if chain keeps its shape.
	program = optimize(t, "a = 1\nif (a != 1) |\nroar 1\n| else (a == 2) |\nroar 2\n|")
	ifStmt = program.Stmts[1].(*ast.If)
	assert.Equal(t, "!=", ifStmt.Cond.(*ast.Compare).Op)
}

func TestDeadLoop(t *testing.T) {
	for _, input := range []string{
		"prowl i in range 0 |\nroar i\n|",
		"prowl i in range 3 - 5 |\nroar i\n|",
		"prowl i in range 5 | |",
	} {
		program := optimize(t, input)
		assert.Empty(t, program.Stmts, "input: %s", input)
	}

	program := optimize(t, "n = 5\nprowl i in range n | |")
	assert.Len(t, program.Stmts, 1)

	program = optimize(t, "prowl i in range 3 |\nroar i\n|")
	require.Len(t, program.Stmts, 1)
	assert.IsType(t, &ast.While{}, program.Stmts[0])
}

func TestLoopBodyEmptiedByRewrites(t *testing.T) {
	// The self-assignment is removed, which empties the body, which
	// removes the loop.
	program := optimize(t, "x = 1\nprowl i in range 3 |\nx = x\n|")
	assert.Len(t, program.Stmts, 1)
}

func TestBuiltinFolding(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"x = sqrt(16)", 4},
		{"x = abs(0 - 5)", 5},
		{"x = floor(3.7)", 3},
	}
	for _, tt := range tests {
		program := optimize(t, tt.input)
		n, ok := lastAssignValue(t, program).(*ast.Number)
		require.True(t, ok, "input: %s", tt.input)
		assert.Equal(t, tt.want, n.Value, "input: %s", tt.input)
	}

	program := optimize(t, "n = 16\nx = sqrt(n)")
	assert.IsType(t, &ast.Call{}, lastAssignValue(t, program))

	program = optimize(t, "hunt f(a) |\ngive a\n|\nx = f(1)")
	assert.IsType(t, &ast.Call{}, lastAssignValue(t, program))
}

func TestTemplateInnerOptimized(t *testing.T) {
	program := optimize(t, "n = 2\nroar -v: ${n * 8}-")
	print := program.Stmts[1].(*ast.Print)
	str := print.Value.(*ast.String)
	require.Len(t, str.Segments, 2)
	shifted, ok := str.Segments[1].Expr.(*ast.Binary)
	require.True(t, ok, "got %T", str.Segments[1].Expr)
	assert.Equal(t, "<<", shifted.Op)
}

func TestFunctionBodyOptimized(t *testing.T) {
	program := optimize(t, "hunt f(a) |\ngive a * 1 + 0\n|")
	fn := program.Stmts[0].(*ast.Func)
	ret := fn.Body.Stmts[0].(*ast.Return)
	ident, ok := ret.Value.(*ast.Ident)
	require.True(t, ok, "got %T", ret.Value)
	assert.Equal(t, "a", ident.Binding.Name)
}

func TestCommentsAndBreaksPreserved(t *testing.T) {
	program := optimize(t, "# note\nprowl i in range 3 |\nflee\n|")
	require.Len(t, program.Stmts, 2)
	assert.IsType(t, &ast.Comment{}, program.Stmts[0])
	loop := program.Stmts[1].(*ast.While)
	assert.IsType(t, &ast.Break{}, loop.Body.Stmts[0])
}

func TestIdempotence(t *testing.T) {
	input := "x = 5 + 8\ny = x * 8\nhunt f(a) |\ngive a + 0\n|\nroar -x: ${x}-\nif (x > 0) |\nroar 1\n|\nprowl i in range 3 |\nroar i\n|"
	once := optimize(t, input)
	twice := Optimize(once)
	assert.True(t, ast.Equal(once, twice), "second pass changed the tree")
}
