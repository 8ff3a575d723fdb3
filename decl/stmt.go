package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// --- Statements ---

// Stmt represents a statement node (performs an action, controls flow).
type Stmt interface {
	Node
	stmtNode() // Marker method for statements
	PrettyPrint(cp CodePrinter)
}

type StmtBase struct {
	NodeInfo
}

func (s *StmtBase) stmtNode() {}

// BlockStmt is the sequence of statements making up a clause or loop body.
type BlockStmt struct {
	StmtBase
	Statements []Stmt
}

func (b *BlockStmt) String() string {
	return strings.Join(gfn.Map(b.Statements, func(s Stmt) string { return s.String() }), "; ")
}

func (b *BlockStmt) PrettyPrint(cp CodePrinter) {
	if b == nil {
		return
	}
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, stmt := range b.Statements {
			stmt.PrettyPrint(cp)
			cp.Println("")
		}
	})
}

// IfClause is the leading `if cond:` part of an IfStmt
type IfClause struct {
	NodeInfo
	Condition Expr
	Body      *BlockStmt
}

func (c *IfClause) String() string { return fmt.Sprintf("if %s: %s", c.Condition, c.Body) }

// ElifClause is an `elif cond:` part of an IfStmt
type ElifClause struct {
	NodeInfo
	Condition Expr
	Body      *BlockStmt
}

func (c *ElifClause) String() string { return fmt.Sprintf("elif %s: %s", c.Condition, c.Body) }

// ElseClause is the trailing `else:` part of an IfStmt
type ElseClause struct {
	NodeInfo
	Body *BlockStmt
}

func (c *ElseClause) String() string { return fmt.Sprintf("else: %s", c.Body) }

// IfStmt represents `if cond: ... elif cond: ... else: ... end`
type IfStmt struct {
	StmtBase
	If    *IfClause
	Elifs []*ElifClause
	Else  *ElseClause // Optional
}

func (s *IfStmt) String() string {
	parts := []string{s.If.String()}
	for _, elif := range s.Elifs {
		parts = append(parts, elif.String())
	}
	if s.Else != nil {
		parts = append(parts, s.Else.String())
	}
	parts = append(parts, "end")
	return strings.Join(parts, " ")
}

func (s *IfStmt) PrettyPrint(cp CodePrinter) {
	cp.Print("if ")
	s.If.Condition.PrettyPrint(cp)
	cp.Println(":")
	s.If.Body.PrettyPrint(cp)
	for _, elif := range s.Elifs {
		cp.Print("elif ")
		elif.Condition.PrettyPrint(cp)
		cp.Println(":")
		elif.Body.PrettyPrint(cp)
	}
	if s.Else != nil {
		cp.Println("else:")
		s.Else.Body.PrettyPrint(cp)
	}
	cp.Print("end")
}

// WhileStmt represents `while cond: ... end`
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      *BlockStmt
}

func (w *WhileStmt) String() string {
	return fmt.Sprintf("while %s: %s end", w.Condition, w.Body)
}

func (w *WhileStmt) PrettyPrint(cp CodePrinter) {
	cp.Print("while ")
	w.Condition.PrettyPrint(cp)
	cp.Println(":")
	w.Body.PrettyPrint(cp)
	cp.Print("end")
}

// ForStmt represents `for var in from ... to step s: ... end`
type ForStmt struct {
	StmtBase
	Var  *IdentifierExpr
	From Expr
	To   Expr
	Step Expr // Optional
	Body *BlockStmt
}

func (f *ForStmt) String() string {
	step := ""
	if f.Step != nil {
		step = fmt.Sprintf(" step %s", f.Step)
	}
	return fmt.Sprintf("for %s in %s ... %s%s: %s end", f.Var, f.From, f.To, step, f.Body)
}

func (f *ForStmt) PrettyPrint(cp CodePrinter) {
	cp.Printf("for %s in ", f.Var.Name)
	f.From.PrettyPrint(cp)
	cp.Print(" ... ")
	f.To.PrettyPrint(cp)
	if f.Step != nil {
		cp.Print(" step ")
		f.Step.PrettyPrint(cp)
	}
	cp.Println(":")
	f.Body.PrettyPrint(cp)
	cp.Print("end")
}

// AssignmentStmt represents `var = expr` and the compound forms `+= -= *= /=`
type AssignmentStmt struct {
	StmtBase
	Var      *IdentifierExpr
	Operator string
	Value    Expr
}

func (a *AssignmentStmt) String() string {
	return fmt.Sprintf("%s %s %s", a.Var, a.Operator, a.Value)
}

func (a *AssignmentStmt) PrettyPrint(cp CodePrinter) {
	cp.Printf("%s %s %s", a.Var.Name, a.Operator, Source(a.Value))
}

// DeclarationStmt represents `type var1, var2 = expr`.
// Exactly one of PrimitiveType and Type is set by the parser.
type DeclarationStmt struct {
	StmtBase
	Vars          []*IdentifierExpr
	PrimitiveType *PrimitiveTypeDecl
	Type          *QualifiedName
	Init          Expr // Optional
}

func (d *DeclarationStmt) typeString() string {
	if d.PrimitiveType != nil {
		return d.PrimitiveType.String()
	} else if d.Type != nil {
		return d.Type.String()
	}
	return "<untyped>"
}

func (d *DeclarationStmt) String() string {
	vars := strings.Join(gfn.Map(d.Vars, func(i *IdentifierExpr) string { return i.Name }), ", ")
	if d.Init == nil {
		return fmt.Sprintf("%s %s", d.typeString(), vars)
	}
	return fmt.Sprintf("%s %s = %s", d.typeString(), vars, d.Init)
}

func (d *DeclarationStmt) PrettyPrint(cp CodePrinter) {
	vars := strings.Join(gfn.Map(d.Vars, func(i *IdentifierExpr) string { return i.Name }), ", ")
	if d.Init == nil {
		cp.Printf("%s %s", d.typeString(), vars)
		return
	}
	cp.Printf("%s %s = %s", d.typeString(), vars, Source(d.Init))
}

// ExprStmt represents an expression used as a statement (e.g., a call)
type ExprStmt struct {
	StmtBase
	Expression Expr
}

func (e *ExprStmt) String() string { return e.Expression.String() }

func (e *ExprStmt) PrettyPrint(cp CodePrinter) {
	e.Expression.PrettyPrint(cp)
}

// ReturnStmt represents `return` or `return expr`
type ReturnStmt struct {
	StmtBase
	ReturnValue Expr // Optional
}

func (r *ReturnStmt) String() string {
	if r.ReturnValue == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.ReturnValue)
}

func (r *ReturnStmt) PrettyPrint(cp CodePrinter) {
	if r.ReturnValue == nil {
		cp.Print("return")
		return
	}
	cp.Printf("return %s", Source(r.ReturnValue))
}
