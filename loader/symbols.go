package loader

import (
	"log/slog"
	"strings"

	"github.com/panyam/splcheck/decl"
)

// SymbolBuilder attaches scopes to every node of a file and declares the
// variables it introduces.  It runs once per file before any checks.
type SymbolBuilder struct {
	types  *TypeSystem
	errors *ErrorCollector
	logger *slog.Logger
}

func NewSymbolBuilder(types *TypeSystem, errors *ErrorCollector, logger *slog.Logger) *SymbolBuilder {
	if errors == nil {
		errors = &ErrorCollector{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SymbolBuilder{types: types, errors: errors, logger: logger}
}

// Errors returns the collector symbol errors are reported to.
func (b *SymbolBuilder) Errors() *ErrorCollector {
	return b.errors
}

// Build creates the file scope and walks all statements.  The returned
// scope is a child of a fresh global scope for the builder's type system.
func (b *SymbolBuilder) Build(file *FileDecl) *Scope {
	scope := b.types.GlobalScope().Push(file.FullPath)
	file.SetEnclosingScope(scope)
	b.buildStmts(scope, file.Statements)
	b.logger.Debug("built symbols", "file", file.FullPath, "symbols", len(scope.Symbols()), "errors", len(b.errors.Errors))
	return scope
}

func (b *SymbolBuilder) buildStmts(scope *Scope, stmts []Stmt) {
	for _, stmt := range stmts {
		b.buildStmt(scope, stmt)
	}
}

func (b *SymbolBuilder) block(parent *Scope, name string, body *BlockStmt) {
	if body == nil {
		return
	}
	scope := parent.Push(name)
	body.SetEnclosingScope(scope)
	b.buildStmts(scope, body.Statements)
}

func (b *SymbolBuilder) buildStmt(scope *Scope, stmt Stmt) {
	stmt.SetEnclosingScope(scope)
	switch s := stmt.(type) {
	case *DeclarationStmt:
		b.declare(scope, s)
	case *AssignmentStmt:
		attachExpr(scope, s.Var)
		attachExpr(scope, s.Value)
	case *IfStmt:
		s.If.SetEnclosingScope(scope)
		attachExpr(scope, s.If.Condition)
		b.block(scope, "if", s.If.Body)
		for _, elif := range s.Elifs {
			elif.SetEnclosingScope(scope)
			attachExpr(scope, elif.Condition)
			b.block(scope, "elif", elif.Body)
		}
		if s.Else != nil {
			s.Else.SetEnclosingScope(scope)
			b.block(scope, "else", s.Else.Body)
		}
	case *WhileStmt:
		attachExpr(scope, s.Condition)
		b.block(scope, "while", s.Body)
	case *ForStmt:
		// The loop variable must already be declared in an enclosing scope
		attachExpr(scope, s.Var)
		attachExpr(scope, s.From)
		attachExpr(scope, s.To)
		attachExpr(scope, s.Step)
		b.block(scope, "for", s.Body)
	case *ExprStmt:
		attachExpr(scope, s.Expression)
	case *ReturnStmt:
		attachExpr(scope, s.ReturnValue)
	case *BlockStmt:
		b.block(scope, "block", s)
	}
}

// declare resolves the declared type and defines each variable.
func (b *SymbolBuilder) declare(scope *Scope, s *DeclarationStmt) {
	attachExpr(scope, s.Init)
	var declared *Type
	if s.PrimitiveType != nil {
		s.PrimitiveType.SetEnclosingScope(scope)
		declared = b.types.Boolean()
	} else if s.Type != nil {
		s.Type.SetEnclosingScope(scope)
		name := strings.Join(s.Type.Parts, ".")
		sym, ok := scope.Resolve(name, decl.TypeKind)
		if !ok {
			b.errors.Errorf(s.Type.Pos(), "unknown type '%s'", name)
			return
		}
		declared = sym.Type
	} else {
		b.errors.Errorf(s.Pos(), "declaration has no type")
		return
	}

	for _, v := range s.Vars {
		v.SetEnclosingScope(scope)
		if err := scope.Define(&Symbol{Name: v.Name, Kind: decl.VariableKind, Type: declared, Decl: v}); err != nil {
			b.errors.Errorf(v.Pos(), "%s", err.Error())
		}
	}
}

// attachExpr sets scope on expr and all of its sub-expressions.
func attachExpr(scope *Scope, expr Expr) {
	if expr == nil {
		return
	}
	expr.SetEnclosingScope(scope)
	for _, child := range decl.Children(expr) {
		attachExpr(scope, child)
	}
}
