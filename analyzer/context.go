package analyzer

import (
	"sort"

	"github.com/roar-lang/roar/ast"
	"github.com/roar-lang/roar/builtins"
)

// Context tracks which names are bound in a given scope. Contexts form
// a parent-linked chain; name lookup walks the chain outward. A frame
// opens for function bodies and loop bodies only. Branches and plain
// blocks share their enclosing frame, so a variable first assigned
// inside an if branch remains visible after the statement.
type Context struct {
	parent   *Context
	bindings map[string]*ast.Binding

	// inLoop is true inside a loop body. Function boundaries reset it:
	// a flee inside a nested function does not see an enclosing loop.
	inLoop bool

	// fn is the binding of the function whose body this frame belongs
	// to, nil at the top level. Return statements use it for return
	// type inference.
	fn *ast.Binding
}

// NewContext creates the root scope frame, preloaded with the builtin
// functions. Top level code shares this frame, so declaring a name that
// collides with a builtin is an error.
func NewContext() *Context {
	ctx := &Context{bindings: map[string]*ast.Binding{}}
	for name, b := range builtins.Builtins() {
		ctx.bindings[name] = &ast.Binding{
			Name:    name,
			Kind:    ast.BindBuiltin,
			Arity:   b.Arity,
			RetType: ast.TypeNumber,
		}
	}
	return ctx
}

// NewChild creates a nested scope frame that inherits the loop flag and
// enclosing function of the current frame.
func (c *Context) NewChild() *Context {
	return &Context{
		parent:   c,
		bindings: map[string]*ast.Binding{},
		inLoop:   c.inLoop,
		fn:       c.fn,
	}
}

// NewFunctionBody creates the frame for the body of fn.
func (c *Context) NewFunctionBody(fn *ast.Binding) *Context {
	child := c.NewChild()
	child.fn = fn
	child.inLoop = false
	return child
}

// NewLoopBody creates the frame for a loop body.
func (c *Context) NewLoopBody() *Context {
	child := c.NewChild()
	child.inLoop = true
	return child
}

// Lookup resolves a name through the scope chain.
func (c *Context) Lookup(name string) (*ast.Binding, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if b, ok := ctx.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// LookupLocal resolves a name in this frame only, ignoring enclosing
// scopes.
func (c *Context) LookupLocal(name string) (*ast.Binding, bool) {
	b, ok := c.bindings[name]
	return b, ok
}

// Declare binds a name in this frame, shadowing any binding of the same
// name in an enclosing frame.
func (c *Context) Declare(b *ast.Binding) {
	c.bindings[b.Name] = b
}

// InLoop reports whether this frame is inside a loop body.
func (c *Context) InLoop() bool {
	return c.inLoop
}

// InFunction reports whether this frame is inside a function body.
func (c *Context) InFunction() bool {
	return c.fn != nil
}

// Function returns the binding of the enclosing function, or nil at the
// top level.
func (c *Context) Function() *ast.Binding {
	return c.fn
}

// Names returns every name visible from this frame, sorted. Used to
// build "did you mean" suggestions.
func (c *Context) Names() []string {
	seen := map[string]bool{}
	var names []string
	for ctx := c; ctx != nil; ctx = ctx.parent {
		for name := range ctx.bindings {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
