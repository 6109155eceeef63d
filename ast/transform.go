package ast

// Transformer modifies an AST between analysis and code generation.
// Transformers receive ownership of the AST and return a (possibly new) AST.
type Transformer interface {
	// Transform processes the AST and returns the result.
	// The returned AST may be the same instance (modified in place)
	// or a completely new AST.
	Transform(program *Program) (*Program, error)
}

// TransformerFunc is an adapter to use a function as a Transformer.
type TransformerFunc func(*Program) (*Program, error)

// Transform implements the Transformer interface.
func (f TransformerFunc) Transform(p *Program) (*Program, error) {
	return f(p)
}
