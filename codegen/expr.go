package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roar-lang/roar/ast"
)

// Binding power of each operator in the target grammar, loosest first.
// An operand whose own level is below the level required by its
// context gets wrapped in parentheses, so emitted code keeps the
// evaluation order of the tree regardless of how it was built.
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precCompare
	precShift
	precSum
	precProduct
	precUnary
	precPrimary
)

func precedence(x ast.Expr) int {
	switch x := x.(type) {
	case *ast.Binary:
		switch x.Op {
		case "or":
			return precOr
		case "and":
			return precAnd
		case "<<", ">>":
			return precShift
		case "+", "-":
			return precSum
		case "*", "/", "%":
			return precProduct
		}
	case *ast.Compare:
		if x.Op == "==" || x.Op == "!=" {
			return precEquality
		}
		return precCompare
	case *ast.Unary:
		return precUnary
	}
	return precPrimary
}

// jsOp maps source operators onto their target spellings. Equality is
// strict so that mixed type comparisons behave like the analyzer's
// literal folding.
func jsOp(op string) string {
	switch op {
	case "and":
		return "&&"
	case "or":
		return "||"
	case "==":
		return "==="
	case "!=":
		return "!=="
	}
	return op
}

func (e *emitter) expr(x ast.Expr, min int) string {
	var rendered string
	switch x := x.(type) {
	case *ast.Ident:
		rendered = e.names.name(x.Binding)
	case *ast.Number:
		rendered = formatNumber(x.Value)
	case *ast.Bool:
		rendered = x.String()
	case *ast.String:
		rendered = e.stringLit(x)
	case *ast.Unary:
		rendered = e.unary(x)
	case *ast.Binary:
		rendered = e.binary(x)
	case *ast.Compare:
		rendered = e.compare(x)
	case *ast.Call:
		rendered = e.call(x)
	case *ast.Range:
		rendered = e.expr(x.Bound, min)
	}
	if precedence(x) < min {
		return "(" + rendered + ")"
	}
	return rendered
}

// binary and compare render the left operand at their own level and
// the right one a level tighter, which parenthesizes exactly the
// right-nested trees whose grouping the target would otherwise lose.
func (e *emitter) binary(x *ast.Binary) string {
	prec := precedence(x)
	return e.expr(x.X, prec) + " " + jsOp(x.Op) + " " + e.expr(x.Y, prec+1)
}

func (e *emitter) compare(x *ast.Compare) string {
	prec := precedence(x)
	return e.expr(x.X, prec) + " " + jsOp(x.Op) + " " + e.expr(x.Y, prec+1)
}

func (e *emitter) unary(x *ast.Unary) string {
	operand := e.expr(x.X, precUnary)
	if x.Op == "-" && strings.HasPrefix(operand, "-") {
		operand = "(" + operand + ")"
	}
	return x.Op + operand
}

func (e *emitter) call(x *ast.Call) string {
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, e.expr(a, precLowest))
	}
	callee := ""
	if x.Fun.Binding.Kind == ast.BindBuiltin {
		callee = "Math." + x.Fun.Binding.Name
	} else {
		callee = e.names.name(x.Fun.Binding)
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}

func (e *emitter) stringLit(x *ast.String) string {
	if !x.IsTemplate() {
		return quoteJS(x.Text())
	}
	var out strings.Builder
	out.WriteByte('`')
	for _, seg := range x.Segments {
		if seg.Expr != nil {
			out.WriteString("${")
			out.WriteString(e.expr(seg.Expr, precLowest))
			out.WriteByte('}')
			continue
		}
		out.WriteString(escapeTemplate(seg.Text))
	}
	out.WriteByte('`')
	return out.String()
}

// formatNumber renders the shortest decimal form that round-trips the
// value. The non-finite values map onto the target's global
// identifiers of the same meaning.
func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quoteJS(s string) string {
	var out strings.Builder
	out.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			out.WriteString(`\\`)
		case '"':
			out.WriteString(`\"`)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case '\t':
			out.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&out, `\u%04x`, r)
				continue
			}
			out.WriteRune(r)
		}
	}
	out.WriteByte('"')
	return out.String()
}

func escapeTemplate(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			out.WriteString(`\\`)
		case c == '`':
			out.WriteString("\\`")
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			out.WriteString(`\$`)
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}
