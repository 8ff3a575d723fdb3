package checker

import (
	"github.com/panyam/splcheck/decl"
)

// Walker visits a file's statements in document order and hands each
// construct to the checker.
type Walker struct {
	checker *IllegalExpressionChecker
}

func NewWalker(checker *IllegalExpressionChecker) *Walker {
	return &Walker{checker: checker}
}

// Walk checks every statement of file, recursing into nested blocks.
func (w *Walker) Walk(file *decl.FileDecl) {
	w.checker.File = file.FullPath
	w.walkStmts(file.Statements)
}

func (w *Walker) walkBlock(block *decl.BlockStmt) {
	if block != nil {
		w.walkStmts(block.Statements)
	}
}

func (w *Walker) walkStmts(stmts []decl.Stmt) {
	for _, stmt := range stmts {
		w.walkStmt(stmt)
	}
}

func (w *Walker) walkStmt(stmt decl.Stmt) {
	switch s := stmt.(type) {
	case *decl.IfStmt:
		w.checker.CheckIfClause(s.If)
		w.walkBlock(s.If.Body)
		for _, elif := range s.Elifs {
			w.checker.CheckElifClause(elif)
			w.walkBlock(elif.Body)
		}
		if s.Else != nil {
			w.walkBlock(s.Else.Body)
		}
	case *decl.WhileStmt:
		w.checker.CheckWhileStmt(s)
		w.walkBlock(s.Body)
	case *decl.ForStmt:
		w.checker.CheckForStmt(s)
		w.walkBlock(s.Body)
	case *decl.AssignmentStmt:
		w.checker.CheckAssignment(s)
	case *decl.DeclarationStmt:
		w.checker.CheckDeclaration(s)
	case *decl.BlockStmt:
		w.walkBlock(s)
	}
}
