package parser

import "github.com/roar-lang/roar/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	COND        // and, or
	EQUALS      // == or !=
	LESSGREATER // > or <
	SUM         // + or -
	PRODUCT     // *, / or %
	PREFIX      // -X or !X
	CALL        // myFunction(X)
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.AND:       COND,
	token.OR:        COND,
	token.EQ:        EQUALS,
	token.NOT_EQ:    EQUALS,
	token.LT:        LESSGREATER,
	token.LT_EQUALS: LESSGREATER,
	token.GT:        LESSGREATER,
	token.GT_EQUALS: LESSGREATER,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.SLASH:     PRODUCT,
	token.ASTERISK:  PRODUCT,
	token.MOD:       PRODUCT,
	token.LPAREN:    CALL,
}
