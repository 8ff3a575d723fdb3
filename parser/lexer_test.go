package parser

import (
	"strings"
	"testing"

	"github.com/panyam/splcheck/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper struct for expected token properties
type expectedToken struct {
	tok       int    // Token type (e.g., IDENTIFIER, INT_LITERAL, IF)
	text      string // Raw token text as scanned by lexer
	startLine int
	startCol  int
	literal   any // For literals: the parsed value
}

func runLexerTest(t *testing.T, input string, expectedTokens []expectedToken) *Lexer {
	t.Helper()
	lexer := NewLexer(strings.NewReader(input))
	lval := &SPLSymType{}

	for i, exp := range expectedTokens {
		tok := lexer.Lex(lval)
		expTokStr := TokenString(exp.tok)
		require.Equal(t, exp.tok, tok, "Test %d: Token type mismatch. Expected %s, got %s ('%s')", i, expTokStr, TokenString(tok), lexer.Text())
		assert.Equal(t, exp.text, lexer.Text(), "Test %d: Token text mismatch for %s.", i, expTokStr)
		if exp.startLine > 0 {
			assert.Equal(t, exp.startLine, lexer.Pos().Line, "Test %d: Line mismatch for %s.", i, expTokStr)
			assert.Equal(t, exp.startCol, lexer.Pos().Col, "Test %d: Col mismatch for %s.", i, expTokStr)
		}
		if exp.literal != nil {
			lit, ok := lval.expr.(*LiteralExpr)
			require.True(t, ok, "Test %d: Expected LiteralExpr for token %s, got %T", i, expTokStr, lval.expr)
			assert.Equal(t, exp.literal, lit.Value, "Test %d: Literal value mismatch", i)
			assert.Equal(t, lexer.Pos(), lit.Pos())
		}
		if exp.tok == IDENTIFIER {
			require.NotNil(t, lval.ident)
			assert.Equal(t, exp.text, lval.ident.Name)
		}
	}

	finalTok := lexer.Lex(lval)
	assert.Equal(t, eof, finalTok, "Expected EOF after all tokens, got %s ('%s')", TokenString(finalTok), lexer.Text())
	return lexer
}

func TestLexDeclaration(t *testing.T) {
	lexer := runLexerTest(t, "integer x = 5", []expectedToken{
		{IDENTIFIER, "integer", 1, 1, nil},
		{IDENTIFIER, "x", 1, 9, nil},
		{ASSIGN, "=", 1, 11, nil},
		{INT_LITERAL, "5", 1, 13, int64(5)},
	})
	assert.NoError(t, lexer.LastError())
}

func TestLexKeywordsAndLiterals(t *testing.T) {
	runLexerTest(t, `boolean ok = true and not false or inf`, []expectedToken{
		{BOOLEAN, "boolean", 0, 0, nil},
		{IDENTIFIER, "ok", 0, 0, nil},
		{ASSIGN, "=", 0, 0, nil},
		{BOOL_LITERAL, "true", 0, 0, true},
		{AND, "and", 0, 0, nil},
		{NOT, "not", 0, 0, nil},
		{BOOL_LITERAL, "false", 0, 0, false},
		{OR, "or", 0, 0, nil},
		{INF, "inf", 0, 0, nil},
	})
}

func TestLexNumbers(t *testing.T) {
	runLexerTest(t, "1.5e-3 2E4 .5 42", []expectedToken{
		{REAL_LITERAL, "1.5e-3", 0, 0, 1.5e-3},
		{REAL_LITERAL, "2E4", 0, 0, 2e4},
		{REAL_LITERAL, ".5", 0, 0, 0.5},
		{INT_LITERAL, "42", 0, 0, int64(42)},
	})
}

func TestLexRange(t *testing.T) {
	runLexerTest(t, "for i in 0...10 step 2:", []expectedToken{
		{FOR, "for", 0, 0, nil},
		{IDENTIFIER, "i", 0, 0, nil},
		{IN, "in", 0, 0, nil},
		{INT_LITERAL, "0", 0, 0, int64(0)},
		{ELLIPSIS, "...", 0, 0, nil},
		{INT_LITERAL, "10", 0, 0, int64(10)},
		{STEP, "step", 0, 0, nil},
		{INT_LITERAL, "2", 0, 0, int64(2)},
		{COLON, ":", 0, 0, nil},
	})
}

func TestLexOperators(t *testing.T) {
	runLexerTest(t, "a <> b != c ** 2 <= d >= e += -1 ~x % 3 ? 1 : 2", []expectedToken{
		{IDENTIFIER, "a", 0, 0, nil},
		{NEQ, "<>", 0, 0, nil},
		{IDENTIFIER, "b", 0, 0, nil},
		{NEQ, "!=", 0, 0, nil},
		{IDENTIFIER, "c", 0, 0, nil},
		{POW, "**", 0, 0, nil},
		{INT_LITERAL, "2", 0, 0, nil},
		{LTE, "<=", 0, 0, nil},
		{IDENTIFIER, "d", 0, 0, nil},
		{GTE, ">=", 0, 0, nil},
		{IDENTIFIER, "e", 0, 0, nil},
		{PLUS_ASSIGN, "+=", 0, 0, nil},
		{MINUS, "-", 0, 0, nil},
		{INT_LITERAL, "1", 0, 0, nil},
		{TILDE, "~", 0, 0, nil},
		{IDENTIFIER, "x", 0, 0, nil},
		{MOD, "%", 0, 0, nil},
		{INT_LITERAL, "3", 0, 0, nil},
		{QUESTION, "?", 0, 0, nil},
		{INT_LITERAL, "1", 0, 0, nil},
		{COLON, ":", 0, 0, nil},
		{INT_LITERAL, "2", 0, 0, nil},
	})
}

func TestLexComments(t *testing.T) {
	input := "# line comment\nx // trailing\n/* block\n comment */ y"
	runLexerTest(t, input, []expectedToken{
		{IDENTIFIER, "x", 2, 1, nil},
		{IDENTIFIER, "y", 4, 13, nil},
	})
}

func TestLexStrings(t *testing.T) {
	runLexerTest(t, `"a\"b" "tab\there"`, []expectedToken{
		{STRING_LITERAL, `"a\"b"`, 0, 0, `a"b`},
		{STRING_LITERAL, `"tab\there"`, 0, 0, "tab\there"},
	})
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input         string
		errorContains string
	}{
		{`"abc`, "unterminated string literal"},
		{"x @ y", "unexpected character '@'"},
		{"/* never closed", "unterminated block comment"},
		{`"bad \q"`, "invalid escape sequence"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			lexer := NewLexer(strings.NewReader(tc.input))
			lval := &SPLSymType{}
			for tok := lexer.Lex(lval); tok != eof; tok = lexer.Lex(lval) {
			}
			require.Error(t, lexer.LastError())
			assert.Contains(t, lexer.LastError().Error(), tc.errorContains)
		})
	}
}

func TestLexLiteralKinds(t *testing.T) {
	lexer := NewLexer(strings.NewReader(`1 2.0 "s" true inf`))
	lval := &SPLSymType{}
	var kinds []decl.LiteralKind
	for tok := lexer.Lex(lval); tok != eof; tok = lexer.Lex(lval) {
		kinds = append(kinds, lval.expr.(*LiteralExpr).Kind)
	}
	assert.Equal(t, []decl.LiteralKind{decl.IntLiteral, decl.RealLiteral, decl.StringLiteral, decl.BoolLiteral, decl.InfLiteral}, kinds)
}
