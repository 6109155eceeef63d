package ast

// Equal reports whether two nodes are structurally equal. Identifiers
// are equal only when they share the same binding, so two distinct
// variables that happen to have the same name never compare equal. The
// comparison ignores nothing else: operators, literal values and
// statement order all count.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Program:
		y, ok := b.(*Program)
		return ok && equalStmts(x.Stmts, y.Stmts)
	case *Block:
		y, ok := b.(*Block)
		return ok && equalStmts(x.Stmts, y.Stmts)
	case *Assign:
		y, ok := b.(*Assign)
		return ok && x.Declares == y.Declares &&
			Equal(x.Name, y.Name) && Equal(x.Value, y.Value)
	case *Print:
		y, ok := b.(*Print)
		return ok && Equal(x.Value, y.Value)
	case *Func:
		y, ok := b.(*Func)
		if !ok || !Equal(x.Name, y.Name) || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return Equal(x.Body, y.Body)
	case *Return:
		y, ok := b.(*Return)
		return ok && Equal(x.Value, y.Value)
	case *Break:
		_, ok := b.(*Break)
		return ok
	case *If:
		y, ok := b.(*If)
		return ok && Equal(x.Cond, y.Cond) &&
			Equal(x.Consequent, y.Consequent) &&
			equalAlternate(x.Alternate, y.Alternate)
	case *While:
		y, ok := b.(*While)
		return ok && Equal(x.Var, y.Var) &&
			Equal(x.Bound, y.Bound) && Equal(x.Body, y.Body)
	case *Comment:
		y, ok := b.(*Comment)
		return ok && x.Text == y.Text
	case *Ident:
		y, ok := b.(*Ident)
		return ok && x.Binding == y.Binding
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *String:
		y, ok := b.(*String)
		if !ok || len(x.Segments) != len(y.Segments) {
			return false
		}
		for i := range x.Segments {
			xs, ys := x.Segments[i], y.Segments[i]
			if xs.Text != ys.Text {
				return false
			}
			if (xs.Expr == nil) != (ys.Expr == nil) {
				return false
			}
			if xs.Expr != nil && !Equal(xs.Expr, ys.Expr) {
				return false
			}
		}
		return true
	case *Bool:
		y, ok := b.(*Bool)
		return ok && x.Value == y.Value
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && Equal(x.X, y.X)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.X, y.X) && Equal(x.Y, y.Y)
	case *Compare:
		y, ok := b.(*Compare)
		return ok && x.Op == y.Op && Equal(x.X, y.X) && Equal(x.Y, y.Y)
	case *Call:
		y, ok := b.(*Call)
		if !ok || !Equal(x.Fun, y.Fun) || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *Range:
		y, ok := b.(*Range)
		return ok && Equal(x.Bound, y.Bound)
	}
	return false
}

func equalStmts(a, b []Stmt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalAlternate(a, b Stmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}
