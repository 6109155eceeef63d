package ast

import (
	"bytes"
	"strconv"
)

// Number is an expression node that holds a numeric literal. All Roar
// numbers share one floating point representation.
type Number struct {
	Value float64
}

func (x *Number) exprNode() {}

func (x *Number) Kind() Kind { return KindNumber }
func (x *Number) Type() Type { return TypeNumber }

func (x *Number) String() string {
	return strconv.FormatFloat(x.Value, 'f', -1, 64)
}

// IsInteger returns true if the literal holds a whole number.
func (x *Number) IsInteger() bool {
	return x.Value == float64(int64(x.Value))
}

// Segment is one piece of a string literal: either literal text or an
// interpolated expression. Exactly one of the fields is set.
type Segment struct {
	Text string
	Expr Expr
}

// String is an expression node that holds a string literal, possibly
// with interpolated expressions.
type String struct {
	Segments []Segment
}

func (x *String) exprNode() {}

func (x *String) Kind() Kind { return KindString }
func (x *String) Type() Type { return TypeString }

func (x *String) String() string {
	var out bytes.Buffer
	out.WriteString("-")
	for _, seg := range x.Segments {
		if seg.Expr != nil {
			out.WriteString("${" + seg.Expr.String() + "}")
			continue
		}
		out.WriteString(seg.Text)
	}
	out.WriteString("-")
	return out.String()
}

// IsTemplate returns true if the literal contains any interpolated
// expressions.
func (x *String) IsTemplate() bool {
	for _, seg := range x.Segments {
		if seg.Expr != nil {
			return true
		}
	}
	return false
}

// Text returns the literal text of a plain string. For templates the
// interpolated segments are skipped.
func (x *String) Text() string {
	var out bytes.Buffer
	for _, seg := range x.Segments {
		if seg.Expr == nil {
			out.WriteString(seg.Text)
		}
	}
	return out.String()
}

// Bool is an expression node that holds a boolean literal.
type Bool struct {
	Value bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Kind() Kind { return KindBoolean }
func (x *Bool) Type() Type { return TypeBoolean }

func (x *Bool) String() string {
	if x.Value {
		return "true"
	}
	return "false"
}
