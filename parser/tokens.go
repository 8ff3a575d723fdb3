package parser

import "fmt"

// Ensure EOF is defined
const eof = 0

// Token types
const (
	IDENTIFIER = iota + 1
	INT_LITERAL
	REAL_LITERAL
	STRING_LITERAL
	BOOL_LITERAL
	INF

	// Keywords
	IF
	ELIF
	ELSE
	END
	WHILE
	FOR
	IN
	STEP
	RETURN
	AND
	OR
	NOT
	BOOLEAN

	// Punctuation
	LPAREN
	RPAREN
	COMMA
	COLON
	SEMICOLON
	DOT
	ELLIPSIS
	QUESTION

	// Assignment operators
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	MUL_ASSIGN
	DIV_ASSIGN

	// Binary / unary operators
	EQ
	NEQ
	LT
	LTE
	GT
	GTE
	PLUS
	MINUS
	MUL
	DIV
	MOD
	POW
	TILDE
)

var tokenNames = map[int]string{
	eof:            "EOF",
	IDENTIFIER:     "IDENTIFIER",
	INT_LITERAL:    "INT_LITERAL",
	REAL_LITERAL:   "REAL_LITERAL",
	STRING_LITERAL: "STRING_LITERAL",
	BOOL_LITERAL:   "BOOL_LITERAL",
	INF:            "INF",
	IF:             "IF",
	ELIF:           "ELIF",
	ELSE:           "ELSE",
	END:            "END",
	WHILE:          "WHILE",
	FOR:            "FOR",
	IN:             "IN",
	STEP:           "STEP",
	RETURN:         "RETURN",
	AND:            "AND",
	OR:             "OR",
	NOT:            "NOT",
	BOOLEAN:        "BOOLEAN",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	COMMA:          "COMMA",
	COLON:          "COLON",
	SEMICOLON:      "SEMICOLON",
	DOT:            "DOT",
	ELLIPSIS:       "ELLIPSIS",
	QUESTION:       "QUESTION",
	ASSIGN:         "ASSIGN",
	PLUS_ASSIGN:    "PLUS_ASSIGN",
	MINUS_ASSIGN:   "MINUS_ASSIGN",
	MUL_ASSIGN:     "MUL_ASSIGN",
	DIV_ASSIGN:     "DIV_ASSIGN",
	EQ:             "EQ",
	NEQ:            "NEQ",
	LT:             "LT",
	LTE:            "LTE",
	GT:             "GT",
	GTE:            "GTE",
	PLUS:           "PLUS",
	MINUS:          "MINUS",
	MUL:            "MUL",
	DIV:            "DIV",
	MOD:            "MOD",
	POW:            "POW",
	TILDE:          "TILDE",
}

var keywords = map[string]int{
	"if":      IF,
	"elif":    ELIF,
	"else":    ELSE,
	"end":     END,
	"while":   WHILE,
	"for":     FOR,
	"in":      IN,
	"step":    STEP,
	"return":  RETURN,
	"and":     AND,
	"or":      OR,
	"not":     NOT,
	"boolean": BOOLEAN,
	"true":    BOOL_LITERAL,
	"false":   BOOL_LITERAL,
	"inf":     INF,
}

// TokenString returns a printable name for a token type.
func TokenString(tok int) string {
	if name, ok := tokenNames[tok]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", tok)
}

// TokenNode carries the position and raw text of a scanned token.
type TokenNode struct {
	NodeInfo
	Text string
}

func (t *TokenNode) String() string { return t.Text }

// SPLSymType is the semantic value attached to each token by the lexer.
type SPLSymType struct {
	node  *TokenNode
	expr  Expr            // Literals
	ident *IdentifierExpr // Identifiers
	sval  string          // Operator text
}
