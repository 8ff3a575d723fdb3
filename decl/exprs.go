package decl

import (
	"fmt"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Expr represents an expression node (evaluates to a value).
type Expr interface {
	Node
	exprNode() // Marker method for expressions
	PrettyPrint(cp CodePrinter)
}

type ExprBase struct {
	NodeInfo
}

func (me *ExprBase) exprNode() {}

// LiteralKind identifies the kind of value a literal holds.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	RealLiteral
	StringLiteral
	BoolLiteral
	InfLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case IntLiteral:
		return "integer"
	case RealLiteral:
		return "real"
	case StringLiteral:
		return "string"
	case BoolLiteral:
		return "boolean"
	case InfLiteral:
		return "inf"
	}
	return "unknown"
}

// LiteralExpr represents literal values
type LiteralExpr struct {
	ExprBase
	Kind  LiteralKind
	Value any // int64, float64, string or bool
}

func NewIntLiteral(v int64) *LiteralExpr    { return &LiteralExpr{Kind: IntLiteral, Value: v} }
func NewRealLiteral(v float64) *LiteralExpr { return &LiteralExpr{Kind: RealLiteral, Value: v} }
func NewStringLiteral(v string) *LiteralExpr {
	return &LiteralExpr{Kind: StringLiteral, Value: v}
}
func NewBoolLiteral(v bool) *LiteralExpr { return &LiteralExpr{Kind: BoolLiteral, Value: v} }

func (l *LiteralExpr) String() string {
	switch l.Kind {
	case StringLiteral:
		return strconv.Quote(l.Value.(string))
	case InfLiteral:
		return "inf"
	case RealLiteral:
		// keep a decimal point so the text lexes as a real again
		out := strconv.FormatFloat(l.Value.(float64), 'g', -1, 64)
		if !strings.ContainsAny(out, ".eEIN") {
			out += ".0"
		}
		return out
	}
	return fmt.Sprintf("%v", l.Value)
}

func (l *LiteralExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(Source(l))
}

// IdentifierExpr represents variable or function names
type IdentifierExpr struct {
	ExprBase
	Name string
}

func NewIdentifierExpr(name string) *IdentifierExpr {
	return &IdentifierExpr{Name: name}
}

func (i *IdentifierExpr) String() string { return i.Name }
func (i *IdentifierExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(i.Name)
}

// UnaryExpr represents `operator operand`
type UnaryExpr struct {
	ExprBase
	Operator string // "not", "-", "+", "~"
	Right    Expr
}

func (u *UnaryExpr) String() string {
	if u.Operator == "not" {
		return fmt.Sprintf("(not %s)", u.Right)
	}
	return fmt.Sprintf("(%s%s)", u.Operator, u.Right)
}
func (u *UnaryExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(Source(u))
}

// BinaryExpr represents `left operator right`
type BinaryExpr struct {
	ExprBase
	Left     Expr
	Operator string // "or", "and", "==", "!=", "<>", "<", "<=", ">", ">=", "+", "-", "*", "/", "%", "**"
	Right    Expr
}

func (b *BinaryExpr) String() string {
	leftStr := "nil"
	if b.Left != nil {
		leftStr = b.Left.String()
	}
	rightStr := "nil"
	if b.Right != nil {
		rightStr = b.Right.String()
	}
	return fmt.Sprintf("(%s %s %s)", leftStr, b.Operator, rightStr)
}
func (b *BinaryExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(Source(b))
}

// ParenExpr is an explicitly parenthesized expression.
type ParenExpr struct {
	ExprBase
	Inner Expr
}

func (p *ParenExpr) String() string { return fmt.Sprintf("(%s)", p.Inner) }
func (p *ParenExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(Source(p))
}

// TernaryExpr represents `cond ? then : else`
type TernaryExpr struct {
	ExprBase
	Condition Expr
	Then      Expr
	Else      Expr
}

func (t *TernaryExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", t.Condition, t.Then, t.Else)
}
func (t *TernaryExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(Source(t))
}

// CallExpr represents a call to a predefined function, eg `pow(x, 2)`
type CallExpr struct {
	ExprBase
	Function *IdentifierExpr
	Args     []Expr
}

func (c *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", c.Function.Name, strings.Join(gfn.Map(c.Args, func(e Expr) string { return e.String() }), ", "))
}
func (c *CallExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(Source(c))
}

// Children returns the direct sub-expressions of an expression.
func Children(expr Expr) []Expr {
	switch e := expr.(type) {
	case *UnaryExpr:
		return []Expr{e.Right}
	case *BinaryExpr:
		return []Expr{e.Left, e.Right}
	case *ParenExpr:
		return []Expr{e.Inner}
	case *TernaryExpr:
		return []Expr{e.Condition, e.Then, e.Else}
	case *CallExpr:
		out := []Expr{e.Function}
		return append(out, e.Args...)
	}
	return nil
}
