// Package lexer provides a lexer for turning Roar source code into a
// stream of tokens.
//
// Most of the scanner is conventional. The unusual part is the dash:
// Roar delimits string literals with '-' characters, so the same byte
// means subtraction in "x - 1" and opens a string in "roar -hi-". The
// lexer resolves this by tracking whether the previous token can end a
// value. A dash after a value is always subtraction. A dash anywhere
// else opens a string if a closing dash appears before the end of the
// line, and falls back to subtraction otherwise, which keeps forms like
// "x = -5" working.
package lexer

import (
	"fmt"
	"strings"

	"github.com/roar-lang/roar/internal/token"
)

// Error represents a lexing failure at a particular source position.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string { return e.Message }

// Option is a configuration function for the Lexer.
type Option func(*Lexer)

// WithFile sets the filename attached to token positions.
func WithFile(name string) Option {
	return func(l *Lexer) { l.file = name }
}

// Lexer turns Roar source text into a stream of tokens.
type Lexer struct {
	input     string
	pos       int  // offset of ch
	readPos   int  // offset after ch
	ch        byte // current character, 0 at end of input
	line      int  // 0-indexed current line
	lineStart int  // offset of the start of the current line
	file      string
	endsValue bool // whether the previous token can end a value
}

// New returns a Lexer for the given source text.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

// Filename returns the filename attached to token positions.
func (l *Lexer) Filename() string { return l.file }

// SetFilename sets the filename attached to token positions.
func (l *Lexer) SetFilename(name string) { l.file = name }

// GetLineText returns the full line of source text containing the
// start of the given token.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start < 0 || start > len(l.input) {
		return ""
	}
	rest := l.input[start:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// Next returns the next token in the input. At the end of the input an
// EOF token is returned, repeatedly if need be. Lexing failures return
// an ILLEGAL token along with an *Error carrying the position.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	start := l.position()
	switch {
	case l.ch == 0:
		return l.ret(token.Token{
			Type:          token.EOF,
			StartPosition: start,
			EndPosition:   start,
		})
	case l.ch == '#':
		return l.ret(l.readComment(start))
	case l.ch == '=':
		if l.peek() == '=' {
			l.advance()
			l.advance()
			return l.ret(l.newToken(token.EQ, "==", start))
		}
		l.advance()
		return l.ret(l.newToken(token.ASSIGN, "=", start))
	case l.ch == '!':
		if l.peek() == '=' {
			l.advance()
			l.advance()
			return l.ret(l.newToken(token.NOT_EQ, "!=", start))
		}
		l.advance()
		return l.ret(l.newToken(token.BANG, "!", start))
	case l.ch == '<':
		if l.peek() == '=' {
			l.advance()
			l.advance()
			return l.ret(l.newToken(token.LT_EQUALS, "<=", start))
		}
		l.advance()
		return l.ret(l.newToken(token.LT, "<", start))
	case l.ch == '>':
		if l.peek() == '=' {
			l.advance()
			l.advance()
			return l.ret(l.newToken(token.GT_EQUALS, ">=", start))
		}
		l.advance()
		return l.ret(l.newToken(token.GT, ">", start))
	case l.ch == '+':
		l.advance()
		return l.ret(l.newToken(token.PLUS, "+", start))
	case l.ch == '*':
		l.advance()
		return l.ret(l.newToken(token.ASTERISK, "*", start))
	case l.ch == '/':
		l.advance()
		return l.ret(l.newToken(token.SLASH, "/", start))
	case l.ch == '%':
		l.advance()
		return l.ret(l.newToken(token.MOD, "%", start))
	case l.ch == '(':
		l.advance()
		return l.ret(l.newToken(token.LPAREN, "(", start))
	case l.ch == ')':
		l.advance()
		return l.ret(l.newToken(token.RPAREN, ")", start))
	case l.ch == ',':
		l.advance()
		return l.ret(l.newToken(token.COMMA, ",", start))
	case l.ch == '|':
		l.advance()
		return l.ret(l.newToken(token.PIPE, "|", start))
	case l.ch == '-':
		if l.endsValue {
			l.advance()
			return l.ret(l.newToken(token.MINUS, "-", start))
		}
		return l.ret(l.readString(start))
	case isDigit(l.ch):
		return l.ret(l.newToken(token.NUMBER, l.readNumber(), start))
	case isLetter(l.ch):
		lit := l.readIdentifier()
		typ := token.LookupIdentifier(lit)
		if typ == token.IS {
			return l.readPhrase(start)
		}
		return l.ret(l.newToken(typ, lit, start))
	default:
		ch := l.ch
		l.advance()
		tok := token.Token{
			Type:          token.ILLEGAL,
			Literal:       string(ch),
			StartPosition: start,
			EndPosition:   start,
		}
		l.endsValue = false
		return tok, &Error{Pos: start, Message: fmt.Sprintf("unexpected character %q", string(ch))}
	}
}

// Tokenize consumes the entire input and returns all tokens up to and
// including the EOF token.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.pos - l.lineStart,
		File:      l.file,
	}
}

func (l *Lexer) newToken(typ token.Type, literal string, start token.Position) token.Token {
	end := start
	if n := len(literal); n > 0 {
		end = start.Advance(n - 1)
	}
	return token.Token{Type: typ, Literal: literal, StartPosition: start, EndPosition: end}
}

// ret records whether the returned token can end a value, which decides
// how a following dash is lexed.
func (l *Lexer) ret(tok token.Token) (token.Token, error) {
	switch tok.Type {
	case token.IDENT, token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.RPAREN:
		l.endsValue = true
	case token.COMMENT:
		// comments are invisible to value context
	default:
		l.endsValue = false
	}
	return tok, nil
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		l.readPos = len(l.input) + 1
		return
	}
	l.ch = l.input[l.readPos]
	l.pos = l.readPos
	l.readPos++
}

// advance moves to the next character, keeping line accounting current.
func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.pos + 1
	}
	l.readChar()
}

func (l *Lexer) peek() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.advance()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.advance()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.advance()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		l.advance()
		for isDigit(l.ch) {
			l.advance()
		}
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readComment(start token.Position) token.Token {
	l.advance() // consume '#'
	textStart := l.pos
	for l.ch != '\n' && l.ch != 0 {
		l.advance()
	}
	text := l.input[textStart:l.pos]
	return token.Token{
		Type:          token.COMMENT,
		Literal:       text,
		StartPosition: start,
		EndPosition:   start.Advance(len(text)),
	}
}

// readString scans a dash-delimited string literal. The literal is kept
// raw: escape sequences and ${...} interpolations are resolved by the
// parser. If no closing dash appears before the end of the line, the
// opening dash is re-lexed as a MINUS token.
func (l *Lexer) readString(start token.Position) token.Token {
	mark := l.save()
	l.advance() // opening dash
	contentStart := l.pos
	for {
		if l.ch == 0 || l.ch == '\n' {
			l.restore(mark)
			l.advance()
			return l.newToken(token.MINUS, "-", start)
		}
		if l.ch == '\\' {
			l.advance()
			if l.ch == 0 || l.ch == '\n' {
				continue
			}
			l.advance()
			continue
		}
		if l.ch == '-' {
			break
		}
		l.advance()
	}
	raw := l.input[contentStart:l.pos]
	l.advance() // closing dash
	return token.Token{
		Type:          token.STRING,
		Literal:       raw,
		StartPosition: start,
		EndPosition:   start.Advance(len(raw) + 1),
	}
}

// readPhrase folds the keyword "is" and the words that follow it into a
// single comparison operator token, e.g. "is at most" into <=.
func (l *Lexer) readPhrase(start token.Position) (token.Token, error) {
	var words []string
	end := start.Advance(1) // covers "is"
	for {
		mark := l.save()
		l.skipWhitespace()
		if !isLetter(l.ch) {
			l.restore(mark)
			break
		}
		wordStart := l.position()
		word := l.readIdentifier()
		if !token.HasPhrasePrefix(append(words, word)) {
			l.restore(mark)
			break
		}
		words = append(words, word)
		end = wordStart.Advance(len(word) - 1)
	}
	literal := token.PhraseLiteral(words)
	phrase, ok := token.MatchPhrase(words)
	if !ok {
		tok := token.Token{
			Type:          token.ILLEGAL,
			Literal:       literal,
			StartPosition: start,
			EndPosition:   end,
		}
		l.endsValue = false
		return tok, &Error{Pos: start, Message: fmt.Sprintf("invalid comparison phrase %q", literal)}
	}
	l.endsValue = false
	return token.Token{
		Type:          phrase.Type,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   end,
	}, nil
}

type mark struct {
	pos       int
	readPos   int
	ch        byte
	line      int
	lineStart int
}

func (l *Lexer) save() mark {
	return mark{pos: l.pos, readPos: l.readPos, ch: l.ch, line: l.line, lineStart: l.lineStart}
}

func (l *Lexer) restore(m mark) {
	l.pos = m.pos
	l.readPos = m.readPos
	l.ch = m.ch
	l.line = m.line
	l.lineStart = m.lineStart
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
