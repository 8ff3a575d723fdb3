package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Binding strength of each operator, loosest first.  Matches the parser.
const (
	precTernary = iota + 1
	precOr
	precAnd
	precNot
	precCompare
	precAdd
	precMul
	precUnary
	precPower
	precPrimary
)

var binaryPrecedence = map[string]int{
	"or": precOr, "and": precAnd,
	"==": precCompare, "!=": precCompare, "<>": precCompare,
	"<": precCompare, "<=": precCompare, ">": precCompare, ">=": precCompare,
	"+": precAdd, "-": precAdd,
	"*": precMul, "/": precMul, "%": precMul,
	"**": precPower,
}

func precedence(expr Expr) int {
	switch e := expr.(type) {
	case *TernaryExpr:
		return precTernary
	case *BinaryExpr:
		return binaryPrecedence[e.Operator]
	case *UnaryExpr:
		if e.Operator == "not" {
			return precNot
		}
		return precUnary
	}
	return precPrimary
}

// Source renders an expression as SPL source, adding parentheses only where
// the tree could not be re-parsed without them.
func Source(expr Expr) string {
	switch e := expr.(type) {
	case nil:
		return ""
	case *ParenExpr:
		return "(" + Source(e.Inner) + ")"
	case *UnaryExpr:
		if e.Operator == "not" {
			return "not " + wrap(e.Right, precNot)
		}
		return e.Operator + wrap(e.Right, precUnary)
	case *BinaryExpr:
		p := binaryPrecedence[e.Operator]
		if e.Operator == "**" {
			// right associative, and the exponent may be a bare unary
			right := wrap(e.Right, p)
			if u, ok := e.Right.(*UnaryExpr); ok && u.Operator != "not" {
				right = Source(u)
			}
			return fmt.Sprintf("%s ** %s", wrap(e.Left, p+1), right)
		}
		return fmt.Sprintf("%s %s %s", wrap(e.Left, p), e.Operator, wrap(e.Right, p+1))
	case *TernaryExpr:
		return fmt.Sprintf("%s ? %s : %s", wrap(e.Condition, precOr), Source(e.Then), Source(e.Else))
	case *CallExpr:
		return fmt.Sprintf("%s(%s)", e.Function.Name, strings.Join(gfn.Map(e.Args, Source), ", "))
	}
	return expr.String()
}

// wrap renders expr, parenthesized if it binds looser than minPrec.
func wrap(expr Expr, minPrec int) string {
	if precedence(expr) < minPrec {
		return "(" + Source(expr) + ")"
	}
	return Source(expr)
}
