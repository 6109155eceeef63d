// Package builtins defines the built-in functions of the Roar language.
package builtins

import "math"

// Builtin describes one built-in function. Each builtin takes a fixed
// number of number arguments and returns a number. Fold evaluates the
// builtin at compile time when its argument is a literal.
type Builtin struct {
	Name  string
	Arity int
	Fold  func(float64) float64
}

// Builtins returns the default set of built-in functions keyed by name.
func Builtins() map[string]*Builtin {
	return map[string]*Builtin{
		"sqrt": {
			Name:  "sqrt",
			Arity: 1,
			Fold:  math.Sqrt,
		},
		"abs": {
			Name:  "abs",
			Arity: 1,
			Fold:  math.Abs,
		},
		"floor": {
			Name:  "floor",
			Arity: 1,
			Fold:  math.Floor,
		},
	}
}

// Names returns the builtin names in no particular order.
func Names() []string {
	table := Builtins()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	return names
}
