// Package optimizer rewrites typed programs into cheaper equivalent
// ones.
//
// The traversal is bottom-up and runs once: children are optimized
// before their parent's rules apply, so a rewrite that enables another
// one level up is caught, while one that would require re-visiting a
// sibling is not. No fixpoint iteration is attempted.
//
// Statement rewrites splice: a rule may replace one statement with zero
// or more statements in the enclosing list. Expression rewrites return
// replacement nodes; shared subtrees are never mutated.
package optimizer

import (
	"cmp"
	"math"
	"math/bits"

	"github.com/roar-lang/roar/ast"
	"github.com/roar-lang/roar/builtins"
)

// Optimizer rewrites typed programs.
type Optimizer struct {
	builtins map[string]*builtins.Builtin
}

// New creates a new Optimizer.
func New() *Optimizer {
	return &Optimizer{builtins: builtins.Builtins()}
}

// Optimize returns an optimized copy of the program.
func Optimize(program *ast.Program) *ast.Program {
	return New().Optimize(program)
}

// Optimize returns an optimized copy of the program.
func (o *Optimizer) Optimize(program *ast.Program) *ast.Program {
	return &ast.Program{Stmts: o.optimizeStmts(program.Stmts)}
}

func (o *Optimizer) optimizeStmts(stmts []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, o.optimizeStmt(stmt)...)
	}
	return out
}

// optimizeStmt optimizes one statement, returning the zero or more
// statements that replace it.
func (o *Optimizer) optimizeStmt(stmt ast.Stmt) []ast.Stmt {
	switch stmt := stmt.(type) {
	case *ast.Assign:
		return o.optimizeAssign(stmt)
	case *ast.Print:
		return []ast.Stmt{&ast.Print{Value: o.optimizeExpr(stmt.Value)}}
	case *ast.Func:
		return []ast.Stmt{&ast.Func{
			Name:   stmt.Name,
			Params: stmt.Params,
			Body:   o.optimizeBlock(stmt.Body),
		}}
	case *ast.Return:
		return []ast.Stmt{&ast.Return{Value: o.optimizeExpr(stmt.Value)}}
	case *ast.If:
		return o.optimizeIf(stmt)
	case *ast.While:
		return o.optimizeWhile(stmt)
	default:
		// Break and Comment carry nothing to rewrite.
		return []ast.Stmt{stmt}
	}
}

func (o *Optimizer) optimizeBlock(block *ast.Block) *ast.Block {
	return &ast.Block{Stmts: o.optimizeStmts(block.Stmts)}
}

// optimizeAssign drops an assignment whose value reduces to its own
// target. The declaring assignment of a variable can never reduce that
// way: its right side was resolved before the name existed.
func (o *Optimizer) optimizeAssign(stmt *ast.Assign) []ast.Stmt {
	value := o.optimizeExpr(stmt.Value)
	if ident, ok := value.(*ast.Ident); ok && ident.Binding == stmt.Name.Binding {
		return nil
	}
	return []ast.Stmt{&ast.Assign{Name: stmt.Name, Value: value, Declares: stmt.Declares}}
}

// optimizeIf optimizes an if statement appearing in a statement list.
// A literal condition selects a branch, splicing its statements into
// the enclosing list; an if left with an empty consequent and no
// alternate drops entirely.
func (o *Optimizer) optimizeIf(stmt *ast.If) []ast.Stmt {
	switch reduced := o.optimizeBranch(stmt).(type) {
	case *ast.Block:
		return reduced.Stmts
	case *ast.If:
		if len(reduced.Consequent.Stmts) == 0 && reduced.Alternate == nil {
			return nil
		}
		return []ast.Stmt{reduced}
	default:
		return nil
	}
}

// optimizeBranch reduces one link of a conditional chain to nil, an
// unconditional *ast.Block or a rebuilt *ast.If.
//
// Collapsing a literal condition is skipped when a discarded branch
// holds the declaring assignment of a variable: the variable outlives
// the branch, so removing the statement would strand every later
// reference. The kept if still has its branches optimized.
func (o *Optimizer) optimizeBranch(stmt *ast.If) ast.Stmt {
	cond := o.optimizeExpr(stmt.Cond)
	if b, ok := cond.(*ast.Bool); ok {
		if b.Value {
			if !declaresIn(stmt.Alternate) {
				return o.optimizeBlock(stmt.Consequent)
			}
		} else if !declaresVariable(stmt.Consequent.Stmts) {
			return o.optimizeAlternate(stmt.Alternate)
		}
	}

	consequent, alternate := stmt.Consequent, stmt.Alternate
	// if (a != b) reads better with the branches swapped under ==. An
	// else-if chain has no block to swap into, so it keeps its shape.
	if compare, ok := cond.(*ast.Compare); ok && compare.Op == "!=" {
		if block, ok := alternate.(*ast.Block); ok {
			cond = &ast.Compare{Op: "==", X: compare.X, Y: compare.Y}
			consequent, alternate = block, consequent
		}
	}
	return &ast.If{
		Cond:       cond,
		Consequent: o.optimizeBlock(consequent),
		Alternate:  o.optimizeAlternate(alternate),
	}
}

// optimizeAlternate reduces the alternate of an if statement. An empty
// otherwise drops; a conditioned else reduces like any branch link.
func (o *Optimizer) optimizeAlternate(alt ast.Stmt) ast.Stmt {
	switch alt := alt.(type) {
	case *ast.Block:
		block := o.optimizeBlock(alt)
		if len(block.Stmts) == 0 {
			return nil
		}
		return block
	case *ast.If:
		reduced := o.optimizeBranch(alt)
		switch reduced := reduced.(type) {
		case *ast.Block:
			if len(reduced.Stmts) == 0 {
				return nil
			}
		case *ast.If:
			if len(reduced.Consequent.Stmts) == 0 && reduced.Alternate == nil {
				return nil
			}
		}
		return reduced
	}
	return nil
}

// optimizeWhile drops a loop with a literal non-positive bound or an
// empty body. Loop variables and variables first assigned in the body
// are local to it, so removal cannot strand a reference.
func (o *Optimizer) optimizeWhile(stmt *ast.While) []ast.Stmt {
	bound := o.optimizeExpr(stmt.Bound.Bound)
	if n, ok := bound.(*ast.Number); ok && n.Value <= 0 {
		return nil
	}
	body := o.optimizeBlock(stmt.Body)
	if len(body.Stmts) == 0 {
		return nil
	}
	return []ast.Stmt{&ast.While{
		Var:   stmt.Var,
		Bound: &ast.Range{Bound: bound},
		Body:  body,
	}}
}

// declaresVariable reports whether any statement in the list is an
// assignment that first declares its target. Function and loop bodies
// open scopes of their own, so the walk does not descend into them.
func declaresVariable(stmts []ast.Stmt) bool {
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *ast.Assign:
			if stmt.Declares {
				return true
			}
		case *ast.If:
			if declaresVariable(stmt.Consequent.Stmts) || declaresIn(stmt.Alternate) {
				return true
			}
		}
	}
	return false
}

func declaresIn(stmt ast.Stmt) bool {
	switch stmt := stmt.(type) {
	case *ast.Block:
		return declaresVariable(stmt.Stmts)
	case *ast.If:
		return declaresVariable(stmt.Consequent.Stmts) || declaresIn(stmt.Alternate)
	}
	return false
}

func (o *Optimizer) optimizeExpr(expr ast.Expr) ast.Expr {
	switch expr := expr.(type) {
	case *ast.Binary:
		return o.optimizeBinary(expr)
	case *ast.Compare:
		return o.optimizeCompare(expr)
	case *ast.Unary:
		return o.optimizeUnary(expr)
	case *ast.Call:
		return o.optimizeCall(expr)
	case *ast.String:
		return o.optimizeString(expr)
	default:
		// Ident, Number and Bool carry nothing to rewrite.
		return expr
	}
}

func (o *Optimizer) optimizeBinary(expr *ast.Binary) ast.Expr {
	x := o.optimizeExpr(expr.X)
	y := o.optimizeExpr(expr.Y)
	if expr.Op == "and" || expr.Op == "or" {
		return optimizeLogical(expr.Op, x, y)
	}
	if folded, ok := foldArithmetic(expr.Op, x, y); ok {
		return folded
	}
	if reduced, ok := reduceArithmetic(expr.Op, x, y); ok {
		return reduced
	}
	return &ast.Binary{Op: expr.Op, X: x, Y: y}
}

// foldArithmetic evaluates an arithmetic node whose operands are both
// literals. Division or modulus by a literal zero is left unfolded: a
// well typed program never contains one, but the optimizer must not
// fail on one either.
func foldArithmetic(op string, x, y ast.Expr) (ast.Expr, bool) {
	if op == "+" {
		if s, ok := foldConcat(x, y); ok {
			return s, true
		}
	}
	xn, ok := x.(*ast.Number)
	if !ok {
		return nil, false
	}
	yn, ok := y.(*ast.Number)
	if !ok {
		return nil, false
	}
	switch op {
	case "+":
		return &ast.Number{Value: xn.Value + yn.Value}, true
	case "-":
		return &ast.Number{Value: xn.Value - yn.Value}, true
	case "*":
		return &ast.Number{Value: xn.Value * yn.Value}, true
	case "/":
		if yn.Value == 0 {
			return nil, false
		}
		return &ast.Number{Value: xn.Value / yn.Value}, true
	case "%":
		if yn.Value == 0 {
			return nil, false
		}
		return &ast.Number{Value: math.Mod(xn.Value, yn.Value)}, true
	}
	return nil, false
}

// foldConcat joins two literals when at least one is a plain string,
// rendering the other the way the target prints it.
func foldConcat(x, y ast.Expr) (*ast.String, bool) {
	xs, xok := literalText(x)
	ys, yok := literalText(y)
	if !xok || !yok {
		return nil, false
	}
	if !isPlainString(x) && !isPlainString(y) {
		return nil, false
	}
	return ast.NewText(xs + ys), true
}

func isPlainString(expr ast.Expr) bool {
	s, ok := expr.(*ast.String)
	return ok && !s.IsTemplate()
}

// literalText renders a literal operand as text. Template strings are
// not literals; their value depends on runtime interpolation.
func literalText(expr ast.Expr) (string, bool) {
	switch expr := expr.(type) {
	case *ast.String:
		if expr.IsTemplate() {
			return "", false
		}
		return expr.Text(), true
	case *ast.Number, *ast.Bool:
		return expr.String(), true
	}
	return "", false
}

// reduceArithmetic applies the identity, strength reduction and term
// combination rules to a node with one literal operand. The additive
// rules only fire on number-typed operands; "+" with a string operand
// concatenates, where dropping a zero would change the result.
func reduceArithmetic(op string, x, y ast.Expr) (ast.Expr, bool) {
	switch op {
	case "+":
		if isZero(x) && y.Type() == ast.TypeNumber {
			return y, true
		}
		if isZero(y) && x.Type() == ast.TypeNumber {
			return x, true
		}
		if combined, ok := combineTerms(x, y); ok {
			return combined, true
		}
	case "*":
		if isZero(x) || isZero(y) {
			return &ast.Number{Value: 0}, true
		}
		if isOne(x) {
			return y, true
		}
		if isOne(y) {
			return x, true
		}
		if shift, ok := shiftFor(y); ok {
			return &ast.Binary{Op: "<<", X: x, Y: shift}, true
		}
		if shift, ok := shiftFor(x); ok {
			return &ast.Binary{Op: "<<", X: y, Y: shift}, true
		}
	case "/":
		if shift, ok := shiftFor(y); ok {
			return &ast.Binary{Op: ">>", X: x, Y: shift}, true
		}
	}
	return nil, false
}

// combineTerms folds the literal tail of one level of addition:
// (x + c1) + c2 becomes x + (c1+c2). Deeper re-association is out of
// scope for a single pass.
func combineTerms(x, y ast.Expr) (ast.Expr, bool) {
	c2, ok := y.(*ast.Number)
	if !ok {
		return nil, false
	}
	inner, ok := x.(*ast.Binary)
	if !ok || inner.Op != "+" {
		return nil, false
	}
	c1, ok := inner.Y.(*ast.Number)
	if !ok || inner.X.Type() != ast.TypeNumber {
		return nil, false
	}
	return &ast.Binary{
		Op: "+",
		X:  inner.X,
		Y:  &ast.Number{Value: c1.Value + c2.Value},
	}, true
}

func isZero(expr ast.Expr) bool {
	n, ok := expr.(*ast.Number)
	return ok && n.Value == 0
}

func isOne(expr ast.Expr) bool {
	n, ok := expr.(*ast.Number)
	return ok && n.Value == 1
}

// shiftFor returns the shift amount for a literal power of two no
// smaller than two.
func shiftFor(expr ast.Expr) (*ast.Number, bool) {
	n, ok := expr.(*ast.Number)
	if !ok || n.Value < 2 || n.Value > float64(1<<62) || n.Value != math.Trunc(n.Value) {
		return nil, false
	}
	v := uint64(n.Value)
	if v&(v-1) != 0 {
		return nil, false
	}
	return &ast.Number{Value: float64(bits.TrailingZeros64(v))}, true
}

// optimizeLogical applies short-circuit folding. A literal on either
// side selects the other operand or decides the result outright.
func optimizeLogical(op string, x, y ast.Expr) ast.Expr {
	if b, ok := x.(*ast.Bool); ok {
		return foldLogical(op, b.Value, y)
	}
	if b, ok := y.(*ast.Bool); ok {
		return foldLogical(op, b.Value, x)
	}
	return &ast.Binary{Op: op, X: x, Y: y}
}

func foldLogical(op string, literal bool, other ast.Expr) ast.Expr {
	if op == "and" {
		if literal {
			return other
		}
		return &ast.Bool{Value: false}
	}
	if literal {
		return &ast.Bool{Value: true}
	}
	return other
}

func (o *Optimizer) optimizeCompare(expr *ast.Compare) ast.Expr {
	x := o.optimizeExpr(expr.X)
	y := o.optimizeExpr(expr.Y)
	if folded, ok := foldCompare(expr.Op, x, y); ok {
		return folded
	}
	// Structurally identical operands decide reflexive comparisons
	// regardless of their runtime value.
	if ast.Equal(x, y) {
		switch expr.Op {
		case "==", "<=", ">=":
			return &ast.Bool{Value: true}
		case "!=", "<", ">":
			return &ast.Bool{Value: false}
		}
	}
	return &ast.Compare{Op: expr.Op, X: x, Y: y}
}

// foldCompare evaluates a comparison of two literals. Literals of
// different types are only ever strictly unequal.
func foldCompare(op string, x, y ast.Expr) (ast.Expr, bool) {
	xk, xok := literalKind(x)
	yk, yok := literalKind(y)
	if !xok || !yok {
		return nil, false
	}
	if xk != yk {
		switch op {
		case "==":
			return &ast.Bool{Value: false}, true
		case "!=":
			return &ast.Bool{Value: true}, true
		}
		return nil, false
	}
	switch xv := x.(type) {
	case *ast.Number:
		return foldOrdered(op, xv.Value, y.(*ast.Number).Value)
	case *ast.String:
		return foldOrdered(op, xv.Text(), y.(*ast.String).Text())
	case *ast.Bool:
		yv := y.(*ast.Bool)
		switch op {
		case "==":
			return &ast.Bool{Value: xv.Value == yv.Value}, true
		case "!=":
			return &ast.Bool{Value: xv.Value != yv.Value}, true
		}
	}
	return nil, false
}

func foldOrdered[T cmp.Ordered](op string, x, y T) (ast.Expr, bool) {
	switch op {
	case "==":
		return &ast.Bool{Value: x == y}, true
	case "!=":
		return &ast.Bool{Value: x != y}, true
	case "<":
		return &ast.Bool{Value: x < y}, true
	case "<=":
		return &ast.Bool{Value: x <= y}, true
	case ">":
		return &ast.Bool{Value: x > y}, true
	case ">=":
		return &ast.Bool{Value: x >= y}, true
	}
	return nil, false
}

// literalKind classifies a foldable literal operand.
func literalKind(expr ast.Expr) (ast.Kind, bool) {
	switch expr := expr.(type) {
	case *ast.Number, *ast.Bool:
		return expr.Kind(), true
	case *ast.String:
		if expr.IsTemplate() {
			return "", false
		}
		return expr.Kind(), true
	}
	return "", false
}

func (o *Optimizer) optimizeUnary(expr *ast.Unary) ast.Expr {
	x := o.optimizeExpr(expr.X)
	switch expr.Op {
	case "-":
		if n, ok := x.(*ast.Number); ok {
			return &ast.Number{Value: -n.Value}
		}
	case "!":
		if b, ok := x.(*ast.Bool); ok {
			return &ast.Bool{Value: !b.Value}
		}
		if inner, ok := x.(*ast.Unary); ok && inner.Op == "!" {
			return inner.X
		}
	}
	return &ast.Unary{Op: expr.Op, X: x}
}

// optimizeCall folds a builtin call whose argument is a literal number.
// User functions are never inlined.
func (o *Optimizer) optimizeCall(expr *ast.Call) ast.Expr {
	args := make([]ast.Expr, 0, len(expr.Args))
	for _, arg := range expr.Args {
		args = append(args, o.optimizeExpr(arg))
	}
	if expr.Fun.Binding.Kind == ast.BindBuiltin && len(args) == 1 {
		if b, ok := o.builtins[expr.Fun.Binding.Name]; ok && b.Fold != nil {
			if n, ok := args[0].(*ast.Number); ok {
				return &ast.Number{Value: b.Fold(n.Value)}
			}
		}
	}
	return &ast.Call{Fun: expr.Fun, Args: args, Ret: expr.Ret}
}

func (o *Optimizer) optimizeString(expr *ast.String) ast.Expr {
	segments := make([]ast.Segment, 0, len(expr.Segments))
	for _, seg := range expr.Segments {
		if seg.Expr != nil {
			segments = append(segments, ast.Segment{Expr: o.optimizeExpr(seg.Expr)})
			continue
		}
		segments = append(segments, seg)
	}
	return &ast.String{Segments: segments}
}
