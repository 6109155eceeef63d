// Package analyzer checks a Roar parse tree and lowers it into the
// typed tree defined in the ast package.
//
// Analysis is a single top-down pass over the statements in source
// order, so a name must be declared before it is referenced. Names
// resolve through a chain of scope frames (see Context); assigning to
// a name that is not yet visible declares it in the current frame.
// The first violated rule stops the pass and is returned as a semantic
// or type error with its source location.
package analyzer

import (
	"strings"

	"github.com/roar-lang/roar/ast"
	"github.com/roar-lang/roar/errz"
	"github.com/roar-lang/roar/internal/token"
	"github.com/roar-lang/roar/syntax"
)

// Analyzer lowers parse trees into typed programs.
type Analyzer struct {
	filename string
	lines    []string
}

// Option is a configuration function for the Analyzer.
type Option func(*Analyzer)

// WithFilename sets the filename reported in error locations.
func WithFilename(filename string) Option {
	return func(a *Analyzer) {
		a.filename = filename
	}
}

// WithSource provides the original source text, so that error locations
// can carry the offending line.
func WithSource(source string) Option {
	return func(a *Analyzer) {
		a.lines = strings.Split(source, "\n")
	}
}

// New creates a new Analyzer with the given options.
func New(options ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Analyze resolves and checks the given parse tree, returning the typed
// program.
func Analyze(program *syntax.Program, options ...Option) (*ast.Program, error) {
	return New(options...).Analyze(program)
}

// Analyze resolves and checks the given parse tree. The root scope is
// preloaded with the builtin functions.
func (a *Analyzer) Analyze(program *syntax.Program) (*ast.Program, error) {
	stmts, err := a.analyzeStmts(NewContext(), program.Stmts)
	if err != nil {
		return nil, err
	}
	return ast.NewProgram(stmts), nil
}

func (a *Analyzer) analyzeStmts(scope *Context, stmts []syntax.Stmt) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		s, err := a.analyzeStmt(scope, stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (a *Analyzer) analyzeStmt(scope *Context, stmt syntax.Stmt) (ast.Stmt, error) {
	switch stmt := stmt.(type) {
	case *syntax.Print:
		return a.analyzePrint(scope, stmt)
	case *syntax.Assign:
		return a.analyzeAssign(scope, stmt)
	case *syntax.Func:
		return a.analyzeFunc(scope, stmt)
	case *syntax.Return:
		return a.analyzeReturn(scope, stmt)
	case *syntax.Break:
		return a.analyzeBreak(scope, stmt)
	case *syntax.If:
		return a.analyzeIf(scope, stmt)
	case *syntax.Loop:
		return a.analyzeLoop(scope, stmt)
	case *syntax.Comment:
		return ast.NewComment(stmt.Text), nil
	default:
		return nil, a.errorf(stmt, "unknown statement type: %T", stmt)
	}
}

// analyzeBlock lowers a block in the given scope. Blocks do not open a
// frame of their own; the caller decides whether one is needed.
func (a *Analyzer) analyzeBlock(scope *Context, block *syntax.Block) (*ast.Block, error) {
	stmts, err := a.analyzeStmts(scope, block.Stmts)
	if err != nil {
		return nil, err
	}
	return ast.NewBlock(stmts), nil
}

func (a *Analyzer) analyzePrint(scope *Context, stmt *syntax.Print) (*ast.Print, error) {
	value, err := a.analyzeExpr(scope, stmt.Value)
	if err != nil {
		return nil, err
	}
	return ast.NewPrint(value), nil
}

// analyzeAssign resolves an assignment. The right-hand side is analyzed
// first, in the scope that excludes the new name, so "x = x" on an
// undeclared x reports the reference error. An assignment whose target
// resolves to an enclosing binding reassigns it; declaration happens
// only when no binding is visible.
func (a *Analyzer) analyzeAssign(scope *Context, stmt *syntax.Assign) (*ast.Assign, error) {
	value, err := a.analyzeExpr(scope, stmt.Value)
	if err != nil {
		return nil, err
	}
	name := stmt.Name.Name
	binding, found := scope.Lookup(name)
	if !found {
		binding = &ast.Binding{Name: name, Kind: ast.BindVar, VarType: value.Type()}
		scope.Declare(binding)
		return ast.NewAssign(ast.NewIdent(binding), value, true), nil
	}
	if binding.Callable() {
		return nil, a.errorf(stmt.Name, "assignment to immutable variable '%s'", name)
	}
	if binding.Kind == ast.BindLoopVar {
		return nil, a.errorf(stmt.Name, "cannot reassign loop variable '%s'", name)
	}
	if binding.VarType != ast.TypeUnknown && value.Type() != ast.TypeUnknown &&
		binding.VarType != value.Type() {
		return nil, a.errorf(stmt, "operands must have the same type")
	}
	if binding.VarType == ast.TypeUnknown {
		binding.VarType = value.Type()
	}
	return ast.NewAssign(ast.NewIdent(binding), value, false), nil
}

// analyzeFunc registers the function in the enclosing scope before its
// body is analyzed, so recursive calls resolve. Parameters carry no
// type annotations and default to number.
func (a *Analyzer) analyzeFunc(scope *Context, stmt *syntax.Func) (*ast.Func, error) {
	name := stmt.Name.Name
	if _, found := scope.LookupLocal(name); found {
		return nil, a.errorf(stmt.Name, "'%s' already declared in this scope", name)
	}
	binding := &ast.Binding{Name: name, Kind: ast.BindFunc, Arity: len(stmt.Params)}
	scope.Declare(binding)

	body := scope.NewFunctionBody(binding)
	params := make([]*ast.Ident, 0, len(stmt.Params))
	for _, p := range stmt.Params {
		if _, found := body.LookupLocal(p.Name); found {
			return nil, a.errorf(p, "'%s' already declared in this scope", p.Name)
		}
		pb := &ast.Binding{Name: p.Name, Kind: ast.BindParam, VarType: ast.TypeNumber}
		body.Declare(pb)
		params = append(params, ast.NewIdent(pb))
	}
	block, err := a.analyzeBlock(body, stmt.Body)
	if err != nil {
		return nil, err
	}
	// A function without a give of known type returns a number.
	if binding.RetType == ast.TypeUnknown {
		binding.RetType = ast.TypeNumber
	}
	return ast.NewFunc(ast.NewIdent(binding), params, block), nil
}

// analyzeReturn validates the statement against the enclosing function
// and infers the function's return type from the first give whose value
// has a known type.
func (a *Analyzer) analyzeReturn(scope *Context, stmt *syntax.Return) (*ast.Return, error) {
	if !scope.InFunction() {
		return nil, a.errorf(stmt, "return used outside of a function")
	}
	value, err := a.analyzeExpr(scope, stmt.Value)
	if err != nil {
		return nil, err
	}
	if fn := scope.Function(); fn.RetType == ast.TypeUnknown {
		if t := value.Type(); t != ast.TypeUnknown {
			fn.RetType = t
		}
	}
	return ast.NewReturn(value), nil
}

func (a *Analyzer) analyzeBreak(scope *Context, stmt *syntax.Break) (*ast.Break, error) {
	if !scope.InLoop() {
		return nil, a.errorf(stmt, "break used outside of a loop")
	}
	return ast.NewBreak(), nil
}

func (a *Analyzer) analyzeIf(scope *Context, stmt *syntax.If) (*ast.If, error) {
	cond, err := a.analyzeExpr(scope, stmt.Cond)
	if err != nil {
		return nil, err
	}
	consequent, err := a.analyzeBlock(scope, stmt.Consequent)
	if err != nil {
		return nil, err
	}
	var alternate ast.Stmt
	switch alt := stmt.Alternate.(type) {
	case *syntax.If:
		nested, err := a.analyzeIf(scope, alt)
		if err != nil {
			return nil, err
		}
		alternate = nested
	case *syntax.Block:
		otherwise, err := a.analyzeBlock(scope, alt)
		if err != nil {
			return nil, err
		}
		if err := a.checkBranchTypes(stmt, consequent, otherwise); err != nil {
			return nil, err
		}
		alternate = otherwise
	}
	return ast.NewIf(cond, consequent, alternate), nil
}

// checkBranchTypes enforces agreement between the two terminal branches
// of an if/otherwise pair. The check applies only when each branch is a
// single assignment; richer branches are left to run time, matching
// the reference behavior rather than full path-sensitive inference.
func (a *Analyzer) checkBranchTypes(stmt *syntax.If, consequent, otherwise *ast.Block) error {
	first, ok := singleAssign(consequent)
	if !ok {
		return nil
	}
	second, ok := singleAssign(otherwise)
	if !ok {
		return nil
	}
	ft, st := first.Value.Type(), second.Value.Type()
	if ft == ast.TypeUnknown || st == ast.TypeUnknown {
		return nil
	}
	if ft != st {
		return a.errorf(stmt, "mismatched types in if-else branches")
	}
	return nil
}

func singleAssign(block *ast.Block) (*ast.Assign, bool) {
	if len(block.Stmts) != 1 {
		return nil, false
	}
	assign, ok := block.Stmts[0].(*ast.Assign)
	return assign, ok
}

// analyzeLoop lowers a prowl loop. The bound is evaluated once before
// the loop runs, so it is analyzed in the enclosing scope. The loop
// variable is a fresh immutable number binding in the body frame.
func (a *Analyzer) analyzeLoop(scope *Context, stmt *syntax.Loop) (*ast.While, error) {
	bound, err := a.analyzeExpr(scope, stmt.Bound)
	if err != nil {
		return nil, err
	}
	if negativeLiteral(stmt.Bound) {
		return nil, a.errorf(stmt.Bound, "range requires non-negative value")
	}
	loopVar, ok := stmt.Var.(*syntax.Ident)
	if !ok {
		return nil, a.errorf(stmt.Var, "invalid loop variable")
	}
	body := scope.NewLoopBody()
	binding := &ast.Binding{Name: loopVar.Name, Kind: ast.BindLoopVar, VarType: ast.TypeNumber}
	body.Declare(binding)
	block, err := a.analyzeBlock(body, stmt.Body)
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(ast.NewIdent(binding), ast.NewRange(bound), block), nil
}

// negativeLiteral reports whether the expression is a negated numeric
// literal. A bare literal is never negative in source; the sign arrives
// as a prefix operator.
func negativeLiteral(bound syntax.Expr) bool {
	prefix, ok := bound.(*syntax.Prefix)
	if !ok || prefix.Op != "-" {
		return false
	}
	n, ok := prefix.X.(*syntax.Number)
	return ok && n.Value > 0
}

func (a *Analyzer) analyzeExpr(scope *Context, expr syntax.Expr) (ast.Expr, error) {
	switch expr := expr.(type) {
	case *syntax.Ident:
		return a.analyzeIdent(scope, expr)
	case *syntax.Number:
		return ast.NewNumber(expr.Value), nil
	case *syntax.Bool:
		return ast.NewBool(expr.Value), nil
	case *syntax.String:
		return a.analyzeString(scope, expr)
	case *syntax.Prefix:
		return a.analyzePrefix(scope, expr)
	case *syntax.Infix:
		return a.analyzeInfix(scope, expr)
	case *syntax.Call:
		return a.analyzeCall(scope, expr)
	default:
		return nil, a.errorf(expr, "unknown expression type: %T", expr)
	}
}

func (a *Analyzer) analyzeIdent(scope *Context, expr *syntax.Ident) (*ast.Ident, error) {
	binding, found := scope.Lookup(expr.Name)
	if !found {
		return nil, a.undeclaredError(scope, expr)
	}
	return ast.NewIdent(binding), nil
}

// analyzeString lowers a string literal. Each interpolation span is a
// full expression analyzed in the current scope.
func (a *Analyzer) analyzeString(scope *Context, expr *syntax.String) (*ast.String, error) {
	segments := make([]ast.Segment, 0, len(expr.Segments))
	for _, seg := range expr.Segments {
		if seg.Expr == nil {
			segments = append(segments, ast.Segment{Text: seg.Text})
			continue
		}
		value, err := a.analyzeExpr(scope, seg.Expr)
		if err != nil {
			return nil, err
		}
		segments = append(segments, ast.Segment{Expr: value})
	}
	return ast.NewString(segments), nil
}

func (a *Analyzer) analyzePrefix(scope *Context, expr *syntax.Prefix) (ast.Expr, error) {
	x, err := a.analyzeExpr(scope, expr.X)
	if err != nil {
		return nil, err
	}
	unary, err := ast.NewUnary(expr.Op, x)
	if err != nil {
		return nil, a.located(err, expr.OpPos)
	}
	return unary, nil
}

func (a *Analyzer) analyzeInfix(scope *Context, expr *syntax.Infix) (ast.Expr, error) {
	x, err := a.analyzeExpr(scope, expr.X)
	if err != nil {
		return nil, err
	}
	y, err := a.analyzeExpr(scope, expr.Y)
	if err != nil {
		return nil, err
	}
	if isCompareOp(expr.Op) {
		compare, err := ast.NewCompare(expr.Op, x, y)
		if err != nil {
			return nil, a.located(err, expr.OpPos)
		}
		return compare, nil
	}
	binary, err := ast.NewBinary(expr.Op, x, y)
	if err != nil {
		return nil, a.located(err, expr.OpPos)
	}
	return binary, nil
}

func isCompareOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

// analyzeCall resolves the callee, checks the argument count against
// the declared parameter count and types the call with the function's
// return type. A recursive call made before the first give is analyzed
// resolves to number.
func (a *Analyzer) analyzeCall(scope *Context, expr *syntax.Call) (*ast.Call, error) {
	binding, found := scope.Lookup(expr.Fun.Name)
	if !found {
		return nil, a.undeclaredError(scope, expr.Fun)
	}
	if !binding.Callable() {
		return nil, a.errorf(expr.Fun, "'%s' is not a function", expr.Fun.Name)
	}
	if len(expr.Args) != binding.Arity {
		return nil, a.errorf(expr, "expected %d argument(s) but %d passed",
			binding.Arity, len(expr.Args))
	}
	args := make([]ast.Expr, 0, len(expr.Args))
	for _, arg := range expr.Args {
		value, err := a.analyzeExpr(scope, arg)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	ret := binding.RetType
	if ret == ast.TypeUnknown {
		ret = ast.TypeNumber
	}
	return ast.NewCall(ast.NewIdent(binding), args, ret), nil
}

// undeclaredError builds the error for a reference to an unbound name,
// with a "did you mean" hint when a similar name is in scope.
func (a *Analyzer) undeclaredError(scope *Context, expr *syntax.Ident) error {
	err := errz.Newf(errz.ErrSemantic, "Variable '%s' not declared", expr.Name)
	if hint := errz.FormatSuggestions(errz.SuggestSimilar(expr.Name, scope.Names())); hint != "" {
		err = err.WithHint(hint)
	}
	return a.errorAt(err, expr.Pos())
}

// errorf creates a semantic error located at the start of node.
func (a *Analyzer) errorf(node syntax.Node, format string, args ...any) error {
	return a.errorAt(errz.Newf(errz.ErrSemantic, format, args...), node.Pos())
}

// located attaches a position to an error raised by one of the ast
// factories, which carry no location of their own.
func (a *Analyzer) located(err error, pos token.Position) error {
	if e, ok := errz.As(err); ok {
		return a.errorAt(e, pos)
	}
	return err
}

// errorAt wraps err with the source location for pos.
func (a *Analyzer) errorAt(err *errz.Error, pos token.Position) error {
	return err.WithLocation(errz.SourceLocation{
		Filename: a.filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
		Source:   a.sourceLine(pos.Line),
	})
}

func (a *Analyzer) sourceLine(line int) string {
	if line < 0 || line >= len(a.lines) {
		return ""
	}
	return a.lines[line]
}
