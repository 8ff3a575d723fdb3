package parser

import "github.com/panyam/splcheck/decl"

type Location = decl.Location
type NodeInfo = decl.NodeInfo
type Node = decl.Node
type File = decl.FileDecl

type Expr = decl.Expr
type ExprBase = decl.ExprBase
type LiteralExpr = decl.LiteralExpr
type IdentifierExpr = decl.IdentifierExpr
type BinaryExpr = decl.BinaryExpr
type UnaryExpr = decl.UnaryExpr
type ParenExpr = decl.ParenExpr
type TernaryExpr = decl.TernaryExpr
type CallExpr = decl.CallExpr

type Stmt = decl.Stmt
type StmtBase = decl.StmtBase
type BlockStmt = decl.BlockStmt
type IfStmt = decl.IfStmt
type IfClause = decl.IfClause
type ElifClause = decl.ElifClause
type ElseClause = decl.ElseClause
type WhileStmt = decl.WhileStmt
type ForStmt = decl.ForStmt
type AssignmentStmt = decl.AssignmentStmt
type DeclarationStmt = decl.DeclarationStmt
type ExprStmt = decl.ExprStmt
type ReturnStmt = decl.ReturnStmt
type QualifiedName = decl.QualifiedName
type PrimitiveTypeDecl = decl.PrimitiveTypeDecl
