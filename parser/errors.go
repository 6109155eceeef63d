package parser

import (
	"fmt"

	"github.com/roar-lang/roar/errz"
	"github.com/roar-lang/roar/internal/token"
)

// ErrorOpts holds the data used to build a syntax error. Message is
// required; the rest adds location context when available.
type ErrorOpts struct {
	Message       string
	Hint          string
	Cause         error
	File          string
	StartPosition token.Position
	SourceCode    string
}

// NewSyntaxError returns a structured syntax error populated with the
// given error data.
func NewSyntaxError(opts ErrorOpts) *errz.Error {
	err := errz.New(errz.ErrSyntax, opts.Message)
	if opts.Hint != "" {
		err = err.WithHint(opts.Hint)
	}
	if opts.Cause != nil {
		err = err.WithCause(opts.Cause)
	}
	return err.WithLocation(errz.SourceLocation{
		Filename: opts.File,
		Line:     opts.StartPosition.LineNumber(),
		Column:   opts.StartPosition.ColumnNumber(),
		Source:   opts.SourceCode,
	})
}

// describe renders a token for use in an "expected X but found Y"
// message.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return fmt.Sprintf("identifier '%s'", tok.Literal)
	case token.NUMBER:
		return fmt.Sprintf("number '%s'", tok.Literal)
	case token.STRING:
		return "string literal"
	case token.COMMENT:
		return "comment"
	default:
		return fmt.Sprintf("'%s'", tok.Literal)
	}
}
