// Package parser is used to generate the parse tree for a program.
//
// A parser is created by calling New() with a lexer as input. The parser
// should then be used only once, by calling parser.Parse() to produce
// the parse tree. Parsing stops at the first error.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/roar-lang/roar/errz"
	"github.com/roar-lang/roar/internal/lexer"
	"github.com/roar-lang/roar/internal/tmpl"
	"github.com/roar-lang/roar/internal/token"
	"github.com/roar-lang/roar/syntax"
)

type (
	prefixParseFn func() syntax.Expr
	infixParseFn  func(syntax.Expr) syntax.Expr
)

// Parse the provided input as Roar source code and return the parse
// tree. This is a shorthand way to create a Lexer and Parser and then
// call Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*syntax.Program, error) {
	return New(lexer.New(input), options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name used in error locations.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// err holds the first error encountered, which ends parsing.
	err *errz.Error

	// prefixParseFns holds a map of parsing methods for
	// prefix-based syntax.
	prefixParseFns map[token.Type]prefixParseFn

	// infixParseFns holds a map of parsing methods for
	// infix-based syntax.
	infixParseFns map[token.Type]infixParseFn

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" {
		l.SetFilename(p.filename)
	}

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]

	// Register prefix functions
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)

	// Register infix functions
	p.registerInfix(token.PLUS, p.parseInfixExpr)
	p.registerInfix(token.MINUS, p.parseInfixExpr)
	p.registerInfix(token.ASTERISK, p.parseInfixExpr)
	p.registerInfix(token.SLASH, p.parseInfixExpr)
	p.registerInfix(token.MOD, p.parseInfixExpr)
	p.registerInfix(token.EQ, p.parseInfixExpr)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(token.LT, p.parseInfixExpr)
	p.registerInfix(token.LT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.GT, p.parseInfixExpr)
	p.registerInfix(token.GT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.AND, p.parseInfixExpr)
	p.registerInfix(token.OR, p.parseInfixExpr)
	p.registerInfix(token.LPAREN, p.parseCall)

	return p
}

// Parse the program that is provided via the lexer. Returns the parse
// tree for the full input, or the first error encountered.
func (p *Parser) Parse(ctx context.Context) (*syntax.Program, error) {
	p.ctx = ctx
	// An error may already exist because tokens are read from the
	// lexer in the constructor.
	if p.err != nil {
		return nil, p.err
	}
	program := &syntax.Program{}
	for p.curToken.Type != token.EOF {
		// Check for context cancellation
		select {
		case <-p.ctx.Done():
			return nil, p.ctx.Err()
		default:
		}
		stmt := p.parseStatement()
		if p.err != nil {
			return nil, p.err
		}
		if stmt != nil {
			program.Stmts = append(program.Stmts, stmt)
		}
		p.nextToken()
	}
	if p.err != nil {
		return nil, p.err
	}
	return program, nil
}

// registerPrefix registers a function for handling a prefix expression.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers a function for handling an infix expression.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken pulls the next token from the lexer. Lexer errors become
// syntax errors and end parsing.
func (p *Parser) nextToken() {
	tok, err := p.l.Next()
	p.curToken = p.peekToken
	p.peekToken = tok
	if err != nil && p.err == nil {
		opts := ErrorOpts{
			Message: err.Error(),
			Cause:   err,
			File:    p.l.Filename(),
		}
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			opts.StartPosition = lexErr.Pos
			opts.SourceCode = p.l.GetLineText(token.Token{StartPosition: lexErr.Pos})
		}
		p.err = NewSyntaxError(opts)
	}
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the expected type and
// otherwise records an "expected X but found Y" error.
func (p *Parser) expectPeek(t token.Type, what string) bool {
	return p.expectPeekHint(t, what, "")
}

func (p *Parser) expectPeekHint(t token.Type, what, hint string) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorExpectedHint(p.peekToken, what, hint)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) setError(err *errz.Error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) errorExpected(tok token.Token, what string) {
	p.errorExpectedHint(tok, what, "")
}

func (p *Parser) errorExpectedHint(tok token.Token, what, hint string) {
	p.setError(NewSyntaxError(ErrorOpts{
		Message:       fmt.Sprintf("expected %s but found %s", what, describe(tok)),
		Hint:          hint,
		File:          p.l.Filename(),
		StartPosition: tok.StartPosition,
		SourceCode:    p.l.GetLineText(tok),
	}))
}

func (p *Parser) enterExpr() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.setError(NewSyntaxError(ErrorOpts{
			Message:       "exceeded maximum expression nesting depth",
			File:          p.l.Filename(),
			StartPosition: p.curToken.StartPosition,
			SourceCode:    p.l.GetLineText(p.curToken),
		}))
		return false
	}
	return true
}

func (p *Parser) leaveExpr() {
	p.depth--
}

// parseStatement parses the statement beginning at the current token,
// leaving the current token on the last token of the statement.
func (p *Parser) parseStatement() syntax.Stmt {
	switch p.curToken.Type {
	case token.ROAR:
		return p.parsePrint()
	case token.HUNT:
		return p.parseFunc()
	case token.GIVE:
		return p.parseReturn()
	case token.FLEE:
		return &syntax.Break{Flee: p.curToken.StartPosition}
	case token.IF:
		return p.parseIf()
	case token.PROWL:
		return p.parseLoop()
	case token.COMMENT:
		return &syntax.Comment{
			Hash: p.curToken.StartPosition,
			Text: p.curToken.Literal,
		}
	case token.IDENT:
		return p.parseAssign()
	default:
		p.errorExpected(p.curToken, "a statement")
		return nil
	}
}

func (p *Parser) parsePrint() syntax.Stmt {
	pos := p.curToken.StartPosition
	p.nextToken()
	value := p.parseExpr(LOWEST)
	if value == nil {
		return nil
	}
	return &syntax.Print{Roar: pos, Value: value}
}

func (p *Parser) parseReturn() syntax.Stmt {
	pos := p.curToken.StartPosition
	p.nextToken()
	value := p.parseExpr(LOWEST)
	if value == nil {
		return nil
	}
	return &syntax.Return{Give: pos, Value: value}
}

func (p *Parser) parseAssign() syntax.Stmt {
	name := &syntax.Ident{
		NamePos: p.curToken.StartPosition,
		Name:    p.curToken.Literal,
	}
	if !p.expectPeek(token.ASSIGN, "'='") {
		return nil
	}
	assignPos := p.curToken.StartPosition
	p.nextToken()
	value := p.parseExpr(LOWEST)
	if value == nil {
		return nil
	}
	return &syntax.Assign{Name: name, AssignPos: assignPos, Value: value}
}

func (p *Parser) parseFunc() syntax.Stmt {
	hunt := p.curToken.StartPosition
	if !p.expectPeek(token.IDENT, "a function name") {
		return nil
	}
	name := &syntax.Ident{
		NamePos: p.curToken.StartPosition,
		Name:    p.curToken.Literal,
	}
	if !p.expectPeek(token.LPAREN, "'('") {
		return nil
	}
	var params []*syntax.Ident
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		if !p.expectPeek(token.IDENT, "a parameter name") {
			return nil
		}
		params = append(params, &syntax.Ident{
			NamePos: p.curToken.StartPosition,
			Name:    p.curToken.Literal,
		})
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if !p.expectPeek(token.IDENT, "a parameter name") {
				return nil
			}
			params = append(params, &syntax.Ident{
				NamePos: p.curToken.StartPosition,
				Name:    p.curToken.Literal,
			})
		}
		if !p.expectPeek(token.RPAREN, "')'") {
			return nil
		}
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &syntax.Func{Hunt: hunt, Name: name, Params: params, Body: body}
}

// parseIf parses an if statement along with any else/otherwise chain.
// It is reused for the else branches themselves, which share the same
// shape: keyword, parenthesized condition, block.
func (p *Parser) parseIf() syntax.Stmt {
	pos := p.curToken.StartPosition
	if !p.expectPeek(token.LPAREN, "'('") {
		return nil
	}
	p.nextToken()
	cond := p.parseExpr(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN, "')'") {
		return nil
	}
	consequent := p.parseBlock()
	if consequent == nil {
		return nil
	}
	stmt := &syntax.If{If: pos, Cond: cond, Consequent: consequent}
	switch {
	case p.peekTokenIs(token.ELSE):
		p.nextToken()
		alt := p.parseIf()
		if alt == nil {
			return nil
		}
		stmt.Alternate = alt
	case p.peekTokenIs(token.OTHERWISE):
		p.nextToken()
		block := p.parseBlock()
		if block == nil {
			return nil
		}
		stmt.Alternate = block
	}
	return stmt
}

func (p *Parser) parseLoop() syntax.Stmt {
	pos := p.curToken.StartPosition
	p.nextToken()
	var loopVar syntax.Expr
	switch p.curToken.Type {
	case token.IDENT:
		loopVar = p.parseIdent()
	case token.NUMBER:
		// Accepted here so the analyzer can report a clearer
		// "invalid loop variable" error.
		loopVar = p.parseNumber()
	default:
		p.errorExpected(p.curToken, "a loop variable")
		return nil
	}
	if loopVar == nil {
		return nil
	}
	if !p.expectPeek(token.IN, "'in'") {
		return nil
	}
	if !p.expectPeek(token.RANGE, "'range'") {
		return nil
	}
	p.nextToken()
	bound := p.parseExpr(LOWEST)
	if bound == nil {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &syntax.Loop{Prowl: pos, Var: loopVar, Bound: bound, Body: body}
}

func (p *Parser) parseBlock() *syntax.Block {
	if !p.expectPeekHint(token.PIPE, "'|'", "blocks open and close with '|'") {
		return nil
	}
	block := &syntax.Block{Open: p.curToken.StartPosition}
	for !p.peekTokenIs(token.PIPE) {
		if p.peekTokenIs(token.EOF) {
			p.errorExpectedHint(p.peekToken, "'|'", "blocks open and close with '|'")
			return nil
		}
		p.nextToken()
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.nextToken()
	block.Close = p.curToken.StartPosition
	return block
}

// parseExpr parses an expression using Pratt parsing, leaving the
// current token on the last token of the expression.
func (p *Parser) parseExpr(precedence int) syntax.Expr {
	if p.err != nil {
		return nil
	}
	if !p.enterExpr() {
		return nil
	}
	defer p.leaveExpr()
	// Comments are trivia inside an expression; only statement
	// position keeps them.
	for p.curTokenIs(token.COMMENT) {
		p.nextToken()
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorExpected(p.curToken, "an expression")
		return nil
	}
	left := prefix()
	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdent() syntax.Expr {
	return &syntax.Ident{
		NamePos: p.curToken.StartPosition,
		Name:    p.curToken.Literal,
	}
}

func (p *Parser) parseNumber() syntax.Expr {
	lit := p.curToken.Literal
	value, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.setError(NewSyntaxError(ErrorOpts{
			Message:       fmt.Sprintf("invalid number literal '%s'", lit),
			Cause:         err,
			File:          p.l.Filename(),
			StartPosition: p.curToken.StartPosition,
			SourceCode:    p.l.GetLineText(p.curToken),
		}))
		return nil
	}
	return &syntax.Number{
		ValuePos: p.curToken.StartPosition,
		Literal:  lit,
		Value:    value,
	}
}

func (p *Parser) parseBoolean() syntax.Expr {
	return &syntax.Bool{
		ValuePos: p.curToken.StartPosition,
		Value:    p.curTokenIs(token.TRUE),
	}
}

func (p *Parser) parsePrefixExpr() syntax.Expr {
	pos := p.curToken.StartPosition
	op := p.curToken.Literal
	p.nextToken()
	x := p.parseExpr(PREFIX)
	if x == nil {
		return nil
	}
	return &syntax.Prefix{OpPos: pos, Op: op, X: x}
}

func (p *Parser) parseGroupedExpr() syntax.Expr {
	p.nextToken()
	expr := p.parseExpr(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN, "')'") {
		return nil
	}
	return expr
}

// parseString parses a string literal, splitting out any ${...}
// interpolations and parsing each as an expression.
func (p *Parser) parseString() syntax.Expr {
	tok := p.curToken
	t, err := tmpl.Parse(tok.Literal)
	if err != nil {
		p.setError(NewSyntaxError(ErrorOpts{
			Message:       err.Error(),
			File:          p.l.Filename(),
			StartPosition: tok.StartPosition,
			SourceCode:    p.l.GetLineText(tok),
		}))
		return nil
	}
	str := &syntax.String{ValuePos: tok.StartPosition, Raw: tok.Literal}
	for _, f := range t.Fragments() {
		if !f.IsVariable() {
			str.Segments = append(str.Segments, syntax.Segment{
				Text: tmpl.Unescape(f.Value()),
			})
			continue
		}
		expr, ferr := parseExprString(f.Value())
		if ferr != nil {
			msg := ferr.Error()
			if e, ok := errz.As(ferr); ok {
				msg = e.Message
			}
			p.setError(NewSyntaxError(ErrorOpts{
				Message:       fmt.Sprintf("invalid interpolation: %s", msg),
				File:          p.l.Filename(),
				StartPosition: tok.StartPosition,
				SourceCode:    p.l.GetLineText(tok),
			}))
			return nil
		}
		str.Segments = append(str.Segments, syntax.Segment{Expr: expr})
	}
	return str
}

// parseExprString parses one standalone expression, as found inside a
// string interpolation.
func parseExprString(src string) (syntax.Expr, error) {
	p := New(lexer.New(src))
	if p.err != nil {
		return nil, p.err
	}
	expr := p.parseExpr(LOWEST)
	if p.err != nil {
		return nil, p.err
	}
	if !p.peekTokenIs(token.EOF) {
		return nil, NewSyntaxError(ErrorOpts{
			Message: fmt.Sprintf("expected end of expression but found %s", describe(p.peekToken)),
		})
	}
	return expr, nil
}

func (p *Parser) parseInfixExpr(left syntax.Expr) syntax.Expr {
	op := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(precedence)
	if right == nil {
		return nil
	}
	return &syntax.Infix{
		X:     left,
		OpPos: op.StartPosition,
		Op:    infixOp(op),
		Y:     right,
	}
}

// infixOp maps an operator token to its canonical operator spelling.
// Phrase comparisons collapse to the symbolic operator, so a token
// lexed from "is at most" yields "<=".
func infixOp(tok token.Token) string {
	switch tok.Type {
	case token.AND:
		return "and"
	case token.OR:
		return "or"
	default:
		return string(tok.Type)
	}
}

func (p *Parser) parseCall(fun syntax.Expr) syntax.Expr {
	ident, ok := fun.(*syntax.Ident)
	if !ok {
		p.setError(NewSyntaxError(ErrorOpts{
			Message:       "expected a function name before '('",
			File:          p.l.Filename(),
			StartPosition: p.curToken.StartPosition,
			SourceCode:    p.l.GetLineText(p.curToken),
		}))
		return nil
	}
	call := &syntax.Call{Fun: ident, Lparen: p.curToken.StartPosition}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		call.Rparen = p.curToken.StartPosition
		return call
	}
	p.nextToken()
	arg := p.parseExpr(LOWEST)
	if arg == nil {
		return nil
	}
	call.Args = append(call.Args, arg)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpr(LOWEST)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
	}
	if !p.expectPeek(token.RPAREN, "')'") {
		return nil
	}
	call.Rparen = p.curToken.StartPosition
	return call
}
