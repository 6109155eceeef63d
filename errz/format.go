package errz

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Colors used for error formatting
var (
	colorHeader   = color.New(color.FgRed, color.Bold)
	colorLocation = color.New(color.FgCyan)
	colorGutter   = color.New(color.FgHiBlack)
	colorCaret    = color.New(color.FgHiRed)
	colorHint     = color.New(color.FgHiYellow)
)

// Formatter renders errors for terminal display.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Format renders an error. Structured errors get a header, a location
// arrow, the offending source line with a caret, and any hint:
//
//	syntax error: expected '|' but found ')'
//	  --> main.roar:3:7
//	   |
//	 3 | if (x))
//	   |       ^
//	   = hint: remove the extra ')'
//
// Other errors render as their Error() text.
func (f *Formatter) Format(err error) string {
	e, ok := As(err)
	if !ok {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString(f.apply(colorHeader, e.Kind.String()))
	b.WriteString(": ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	loc := e.Location
	width := 2
	if loc.Line >= 100 {
		width = len(fmt.Sprintf("%d", loc.Line))
	}
	pad := strings.Repeat(" ", width)

	if !loc.IsZero() {
		b.WriteString(pad)
		b.WriteString(f.apply(colorLocation, "--> "+loc.String()))
		b.WriteString("\n")
	}

	if loc.Source != "" {
		b.WriteString(f.apply(colorGutter, pad+" |"))
		b.WriteString("\n")
		b.WriteString(f.apply(colorGutter, fmt.Sprintf("%*d | ", width, loc.Line)))
		b.WriteString(loc.Source)
		b.WriteString("\n")
		if loc.Column > 0 {
			b.WriteString(f.apply(colorGutter, pad+" | "))
			b.WriteString(strings.Repeat(" ", loc.Column-1))
			b.WriteString(f.apply(colorCaret, "^"))
			b.WriteString("\n")
		}
	}

	if e.Hint != "" {
		b.WriteString(f.apply(colorGutter, pad+" = "))
		b.WriteString(f.apply(colorHint, "hint: "))
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

func (f *Formatter) apply(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}
