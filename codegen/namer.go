package codegen

import (
	"fmt"

	"github.com/roar-lang/roar/ast"
)

// reservedJS holds names the generator must never assign to a user
// binding: ECMAScript reserved words, the literal identifiers, and the
// globals the emitted code itself depends on.
var reservedJS = []string{
	"await", "break", "case", "catch", "class", "const", "continue",
	"debugger", "default", "delete", "do", "else", "enum", "export",
	"extends", "false", "finally", "for", "function", "if", "import",
	"in", "instanceof", "let", "new", "null", "return", "static",
	"super", "switch", "this", "throw", "true", "try", "typeof",
	"undefined", "var", "void", "while", "with", "yield",
	"console", "Math", "Infinity", "NaN",
}

// namer assigns emitted names to bindings. The first binding to
// request a name keeps it; any later binding declared with the same
// source name gets a numeric suffix (name_2, name_3, ...). Assignment
// order follows emission order, so renaming is deterministic, and
// every reference resolves through its binding to the assigned name.
type namer struct {
	assigned map[*ast.Binding]string
	taken    map[string]bool
}

func newNamer() *namer {
	taken := make(map[string]bool, len(reservedJS))
	for _, w := range reservedJS {
		taken[w] = true
	}
	return &namer{
		assigned: make(map[*ast.Binding]string),
		taken:    taken,
	}
}

func (n *namer) name(b *ast.Binding) string {
	if name, ok := n.assigned[b]; ok {
		return name
	}
	name := n.claim(b.Name)
	n.assigned[b] = name
	return name
}

// fresh claims a name owned by no binding, for generator introduced
// locals such as hoisted loop bounds.
func (n *namer) fresh(base string) string {
	return n.claim(base)
}

func (n *namer) claim(base string) string {
	if !n.taken[base] {
		n.taken[base] = true
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if !n.taken[candidate] {
			n.taken[candidate] = true
			return candidate
		}
	}
}
