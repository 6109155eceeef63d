package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	// Walk children based on node type
	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}
	case *Block:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}
	case *Assign:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Print:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *Func:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		for _, param := range n.Params {
			Walk(v, param)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *If:
		if n.Cond != nil {
			Walk(v, n.Cond)
		}
		if n.Consequent != nil {
			Walk(v, n.Consequent)
		}
		if n.Alternate != nil {
			Walk(v, n.Alternate)
		}
	case *While:
		if n.Var != nil {
			Walk(v, n.Var)
		}
		if n.Bound != nil {
			Walk(v, n.Bound)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}

	// Statements without children
	case *Break:
	case *Comment:

	// Expressions
	case *Binary:
		if n.X != nil {
			Walk(v, n.X)
		}
		if n.Y != nil {
			Walk(v, n.Y)
		}
	case *Compare:
		if n.X != nil {
			Walk(v, n.X)
		}
		if n.Y != nil {
			Walk(v, n.Y)
		}
	case *Unary:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *Call:
		if n.Fun != nil {
			Walk(v, n.Fun)
		}
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *Range:
		if n.Bound != nil {
			Walk(v, n.Bound)
		}
	case *String:
		// String may contain template expressions
		for _, seg := range n.Segments {
			if seg.Expr != nil {
				Walk(v, seg.Expr)
			}
		}

	// Leaf expressions
	case *Ident:
	case *Number:
	case *Bool:
	}
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			switch node := n.(type) {
			case *Program:
				for _, stmt := range node.Stmts {
					if !visit(stmt) {
						return false
					}
				}
			case *Block:
				for _, stmt := range node.Stmts {
					if !visit(stmt) {
						return false
					}
				}
			case *Assign:
				if node.Name != nil && !visit(node.Name) {
					return false
				}
				if node.Value != nil && !visit(node.Value) {
					return false
				}
			case *Print:
				if node.Value != nil && !visit(node.Value) {
					return false
				}
			case *Func:
				if node.Name != nil && !visit(node.Name) {
					return false
				}
				for _, param := range node.Params {
					if !visit(param) {
						return false
					}
				}
				if node.Body != nil && !visit(node.Body) {
					return false
				}
			case *Return:
				if node.Value != nil && !visit(node.Value) {
					return false
				}
			case *If:
				if node.Cond != nil && !visit(node.Cond) {
					return false
				}
				if node.Consequent != nil && !visit(node.Consequent) {
					return false
				}
				if node.Alternate != nil && !visit(node.Alternate) {
					return false
				}
			case *While:
				if node.Var != nil && !visit(node.Var) {
					return false
				}
				if node.Bound != nil && !visit(node.Bound) {
					return false
				}
				if node.Body != nil && !visit(node.Body) {
					return false
				}
			case *Binary:
				if node.X != nil && !visit(node.X) {
					return false
				}
				if node.Y != nil && !visit(node.Y) {
					return false
				}
			case *Compare:
				if node.X != nil && !visit(node.X) {
					return false
				}
				if node.Y != nil && !visit(node.Y) {
					return false
				}
			case *Unary:
				if node.X != nil && !visit(node.X) {
					return false
				}
			case *Call:
				if node.Fun != nil && !visit(node.Fun) {
					return false
				}
				for _, arg := range node.Args {
					if !visit(arg) {
						return false
					}
				}
			case *Range:
				if node.Bound != nil && !visit(node.Bound) {
					return false
				}
			case *String:
				for _, seg := range node.Segments {
					if seg.Expr != nil && !visit(seg.Expr) {
						return false
					}
				}
			}
			return true
		}
		visit(root)
	}
}
