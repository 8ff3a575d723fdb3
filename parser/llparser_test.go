package parser

import (
	"testing"

	"github.com/panyam/splcheck/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"additive is left assoc", "a - b - c", "((a - b) - c)"},
		{"mul binds tighter", "a + b * c", "(a + (b * c))"},
		{"power is right assoc", "2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"unary minus below power", "-2 ** 2", "(-(2 ** 2))"},
		{"negative exponent", "2 ** -1", "(2 ** (-1))"},
		{"comparison above logic", "x > 0 and r < 2", "((x > 0) and (r < 2))"},
		{"and binds tighter than or", "a or b and c", "(a or (b and c))"},
		{"not below comparison", "not x > 0", "(not (x > 0))"},
		{"ternary", "a ? 1 : 2.5", "(a ? 1 : 2.5)"},
		{"nested ternary", "a ? b ? 1 : 2 : 3", "(a ? (b ? 1 : 2) : 3)"},
		{"parens", "(a + b) * c", "(((a + b)) * c)"},
		{"call", "pow(x, 2) + max(a, b)", "(pow(x, 2) + max(a, b))"},
		{"empty call", "random()", "random()"},
		{"bit not", "~x % 3", "((~x) % 3)"},
		{"diamond", "a <> b", "(a <> b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseFragment(t, tt.input, func(p *LLParser) (Expr, error) {
				return p.ParseExpression()
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual.String())
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	tests := []struct {
		input         string
		errorContains string
	}{
		{"a +", "expected expression"},
		{"(a + b", "expected RPAREN"},
		{"a ? b", "expected COLON"},
		{"f(a,", "expected expression"},
		{`"abc`, "unterminated string literal"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseFragment(t, tt.input, func(p *LLParser) (Expr, error) {
				return p.ParseExpression()
			})
			assertError(t, tt.input, err, true, tt.errorContains)
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"declaration", "integer x = 5", "integer x = 5"},
		{"multi declaration", "real r, s = 1.5", "real r, s = 1.5"},
		{"boolean declaration", "boolean ok = x > 0 and r < 2", "boolean ok = ((x > 0) and (r < 2))"},
		{"qualified type", "units.Voltage v", "units.Voltage v"},
		{"assignment", "x = x + 1", "x = (x + 1)"},
		{"compound assignment", "x += 1", "x += 1"},
		{"expression statement", "print(x)", "print(x)"},
		{"return", "return x", "return x"},
		{"if", "if c:\n  x = 1\nend", "if c: x = 1 end"},
		{"if elif else", "if c:\n x = 1\nelif d:\n x = 2\nelse:\n x = 3\nend", "if c: x = 1 elif d: x = 2 else: x = 3 end"},
		{"empty if body", "if c:\nend", "if c:  end"},
		{"while", "while x < 10:\n  x += 1\nend", "while (x < 10): x += 1 end"},
		{"for", "for i in 0 ... 10 step 2:\n  x += i\nend", "for i in 0 ... 10 step 2: x += i end"},
		{"for without step", "for i in 0...n:\nend", "for i in 0 ... n:  end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseFragment(t, tt.input, func(p *LLParser) (Stmt, error) {
				return p.ParseStmt()
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual.String())
		})
	}
}

func TestParseStatementErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		errorContains string
	}{
		{"unclosed if", "if x > 0:\n  x = 1", "is not closed"},
		{"missing colon", "while x\n  x = 1\nend", "expected COLON"},
		{"missing initializer", "integer x = ", "expected expression"},
		{"missing range", "for i in 0 10:\nend", "expected ELLIPSIS"},
		{"dangling declaration", "integer x,", "expected IDENTIFIER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFragment(t, tt.input, func(p *LLParser) (Stmt, error) {
				return p.ParseStmt()
			})
			assertError(t, tt.input, err, true, tt.errorContains)
		})
	}
}

func TestParseDeclarationTree(t *testing.T) {
	input := "boolean a, b = not c"
	actual, err := parseFragment(t, input, func(p *LLParser) (Stmt, error) {
		return p.ParseStmt()
	})
	require.NoError(t, err)

	expected := &DeclarationStmt{
		Vars:          []*IdentifierExpr{decl.NewIdentifierExpr("a"), decl.NewIdentifierExpr("b")},
		PrimitiveType: &PrimitiveTypeDecl{Name: "boolean"},
		Init:          &UnaryExpr{Operator: "not", Right: decl.NewIdentifierExpr("c")},
	}
	assertNodeEqual(t, input, expected, actual)
}

func TestParseAssignmentTree(t *testing.T) {
	input := "x -= pow(y, 2)"
	actual, err := parseFragment(t, input, func(p *LLParser) (Stmt, error) {
		return p.ParseStmt()
	})
	require.NoError(t, err)

	expected := &AssignmentStmt{
		Var:      decl.NewIdentifierExpr("x"),
		Operator: "-=",
		Value: &CallExpr{
			Function: decl.NewIdentifierExpr("pow"),
			Args:     []Expr{decl.NewIdentifierExpr("y"), decl.NewIntLiteral(2)},
		},
	}
	assertNodeEqual(t, input, expected, actual)
}

func TestLineBreaksEndStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"paren on next line is not a call", "integer b = a\n(b)", []string{"integer b = a", "(b)"}},
		{"unary on next line is not subtraction", "integer b = a\n-b", []string{"integer b = a", "(-b)"}},
		{"power on next line", "x = a\n** 2", nil},
		{"identifiers on separate lines", "a\nb", []string{"a", "b"}},
		{"bare return then statement", "if x > 0:\n  return\n  x = 2\nend", []string{"if (x > 0): return; x = 2 end"}},
		{"return with value", "while c:\n  return x + 1\nend", []string{"while c: return (x + 1) end"}},
		{"continuation inside parens", "integer b = (a\n  - b)\nc = pow(a,\n  b)", []string{"integer b = ((a - b))", "c = pow(a, b)"}},
		{"ternary on next line", "x = a\n? b : c", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseString(tt.input)
			if tt.expected == nil {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			var actual []string
			for _, stmt := range file.Statements {
				actual = append(actual, stmt.String())
			}
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestStatementsOnOneLineNeedSeparator(t *testing.T) {
	_, err := ParseString("x = 1 y = 2")
	assertError(t, "x = 1 y = 2", err, true, "expected a new line or ';' before IDENTIFIER")

	file, err := ParseString("x = 1; y = 2")
	require.NoError(t, err)
	assert.Len(t, file.Statements, 2)

	file, err = ParseString("if c: x = 1 end")
	require.NoError(t, err)
	assert.Len(t, file.Statements, 1)
}
