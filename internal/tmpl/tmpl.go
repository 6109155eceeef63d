// Package tmpl splits string literal contents into literal text and
// ${...} interpolation fragments.
package tmpl

import (
	"fmt"
	"strings"
)

// Fragment is one piece of a template string: either literal text or an
// expression to be interpolated.
type Fragment struct {
	value      string
	isVariable bool
}

// Value returns the fragment text. For variable fragments this is the
// expression source between the braces.
func (f *Fragment) Value() string { return f.value }

// IsVariable returns true if this fragment is an interpolated expression.
func (f *Fragment) IsVariable() bool { return f.isVariable }

// Template is a parsed template string.
type Template struct {
	value     string
	fragments []*Fragment
}

// Value returns the original template text.
func (t *Template) Value() string { return t.value }

// Fragments returns the template's fragments in order.
func (t *Template) Fragments() []*Fragment { return t.fragments }

// Parse splits the input into literal and ${...} expression fragments.
// Escape pairs are carried through untouched, so a backslash before a
// dollar sign keeps the dollar sign literal. Escapes in literal text
// are resolved later with Unescape.
func Parse(input string) (*Template, error) {
	t := &Template{value: input}
	var cur strings.Builder
	i := 0
	n := len(input)
	for i < n {
		c := input[i]
		if c == '\\' && i+1 < n {
			cur.WriteByte(c)
			cur.WriteByte(input[i+1])
			i += 2
			continue
		}
		if c == '$' && i+1 < n && input[i+1] == '{' {
			end := strings.IndexByte(input[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("missing '}' in template: %s", input)
			}
			if cur.Len() > 0 {
				t.fragments = append(t.fragments, &Fragment{value: cur.String()})
				cur.Reset()
			}
			t.fragments = append(t.fragments, &Fragment{
				value:      input[i+2 : i+2+end],
				isVariable: true,
			})
			i += end + 3
			continue
		}
		cur.WriteByte(c)
		i++
	}
	if cur.Len() > 0 {
		t.fragments = append(t.fragments, &Fragment{value: cur.String()})
	}
	return t, nil
}

// Unescape resolves backslash escapes in literal string text. The
// sequences \n and \t become newline and tab. For any other pair the
// backslash is dropped and the escaped character kept, which covers
// \-, \$ and \\.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
