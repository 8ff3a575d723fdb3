package loader

import "github.com/panyam/splcheck/decl"

type Location = decl.Location
type Node = decl.Node
type FileDecl = decl.FileDecl
type Scope = decl.Scope
type Symbol = decl.Symbol
type Type = decl.Type
type TypeSystem = decl.TypeSystem

type Expr = decl.Expr
type IdentifierExpr = decl.IdentifierExpr

type Stmt = decl.Stmt
type BlockStmt = decl.BlockStmt
type IfStmt = decl.IfStmt
type WhileStmt = decl.WhileStmt
type ForStmt = decl.ForStmt
type AssignmentStmt = decl.AssignmentStmt
type DeclarationStmt = decl.DeclarationStmt
type ExprStmt = decl.ExprStmt
type ReturnStmt = decl.ReturnStmt
