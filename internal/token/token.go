// Package token defines language keywords and tokens used when lexing source code.
package token

import "strings"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Used for computing End positions from a start position.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"
	COMMENT Type = "COMMENT"

	IDENT  Type = "IDENT"
	NUMBER Type = "NUMBER"
	STRING Type = "STRING"

	ASSIGN   Type = "="
	PLUS     Type = "+"
	MINUS    Type = "-"
	ASTERISK Type = "*"
	SLASH    Type = "/"
	MOD      Type = "%"
	BANG     Type = "!"

	EQ        Type = "=="
	NOT_EQ    Type = "!="
	LT        Type = "<"
	LT_EQUALS Type = "<="
	GT        Type = ">"
	GT_EQUALS Type = ">="

	LPAREN Type = "("
	RPAREN Type = ")"
	COMMA  Type = ","
	PIPE   Type = "|"

	ROAR      Type = "ROAR"
	HUNT      Type = "HUNT"
	GIVE      Type = "GIVE"
	FLEE      Type = "FLEE"
	PROWL     Type = "PROWL"
	IF        Type = "IF"
	ELSE      Type = "ELSE"
	OTHERWISE Type = "OTHERWISE"
	IN        Type = "IN"
	RANGE     Type = "RANGE"
	IS        Type = "IS"
	AND       Type = "AND"
	OR        Type = "OR"
	TRUE      Type = "TRUE"
	FALSE     Type = "FALSE"
)

// Reserved keywords
var keywords = map[string]Type{
	"roar":      ROAR,
	"hunt":      HUNT,
	"give":      GIVE,
	"flee":      FLEE,
	"prowl":     PROWL,
	"if":        IF,
	"else":      ELSE,
	"otherwise": OTHERWISE,
	"in":        IN,
	"range":     RANGE,
	"is":        IS,
	"and":       AND,
	"or":        OR,
	"true":      TRUE,
	"false":     FALSE,
}

// LookupIdentifier determines whether an identifier is a keyword or not.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// Phrase is a multi-word comparison operator introduced by the keyword "is".
// The lexer folds the keyword and the words that follow it into a single
// operator token, so "is at most" lexes the same as "<=".
type Phrase struct {
	Words []string // the words following "is"
	Type  Type     // the operator the phrase folds into
}

// Phrases lists every comparison phrase in the language. The words after
// "is" are not reserved; outside of a phrase they are ordinary identifiers.
var Phrases = []Phrase{
	{Words: []string{"equal", "to"}, Type: EQ},
	{Words: []string{"not", "equal", "to"}, Type: NOT_EQ},
	{Words: []string{"less", "than"}, Type: LT},
	{Words: []string{"greater", "than"}, Type: GT},
	{Words: []string{"at", "most"}, Type: LT_EQUALS},
	{Words: []string{"at", "least"}, Type: GT_EQUALS},
}

// HasPhrasePrefix returns true if any comparison phrase begins with the
// given words. The lexer uses this to decide whether to consume the next
// word while folding a phrase.
func HasPhrasePrefix(words []string) bool {
	for _, p := range Phrases {
		if len(words) > len(p.Words) {
			continue
		}
		match := true
		for i, w := range words {
			if p.Words[i] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// MatchPhrase returns the comparison phrase exactly matching the given
// words, if one exists.
func MatchPhrase(words []string) (Phrase, bool) {
	for _, p := range Phrases {
		if len(p.Words) != len(words) {
			continue
		}
		match := true
		for i, w := range words {
			if p.Words[i] != w {
				match = false
				break
			}
		}
		if match {
			return p, true
		}
	}
	return Phrase{}, false
}

// PhraseLiteral returns the canonical source spelling of a phrase with the
// given words, e.g. "is equal to".
func PhraseLiteral(words []string) string {
	if len(words) == 0 {
		return "is"
	}
	return "is " + strings.Join(words, " ")
}
