package decl

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// --- Interfaces ---

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() Location  // Starting position (for error reporting)
	End() Location  // Ending position
	String() string // String representation for debugging/printing

	// The scope a node lives in.  This is attached by the symbol table builder
	// and is only a back-reference - nodes never own their scope.
	EnclosingScope() (*Scope, bool)
	SetEnclosingScope(scope *Scope)
}

// Location is a position in a source file.
type Location struct {
	Pos  int // Byte offset from the start of the input
	Line int // 1-based
	Col  int // 1-based, rune based
}

func (l Location) LineColStr() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

func (l Location) IsZero() bool {
	return l.Line == 0 && l.Col == 0
}

func (l Location) String() string {
	return l.LineColStr()
}

// --- Base Struct ---

// NodeInfo embeddable struct for position and scope tracking.
type NodeInfo struct {
	StartPos, StopPos Location

	scope *Scope
}

func (n *NodeInfo) Pos() Location  { return n.StartPos }
func (n *NodeInfo) End() Location  { return n.StopPos }
func (n *NodeInfo) String() string { return "{Node}" } // Default stringer

func (n *NodeInfo) EnclosingScope() (*Scope, bool) {
	return n.scope, n.scope != nil
}

func (n *NodeInfo) SetEnclosingScope(scope *Scope) {
	n.scope = scope
}

// --- Top Level declarations ---

// FileDecl represents the top-level node of a parsed SPL file.
type FileDecl struct {
	NodeInfo
	FullPath   string
	Statements []Stmt
}

func (f *FileDecl) String() string {
	return strings.Join(gfn.Map(f.Statements, func(s Stmt) string { return s.String() }), "\n")
}

func (f *FileDecl) PrettyPrint(cp CodePrinter) {
	for _, stmt := range f.Statements {
		stmt.PrettyPrint(cp)
		cp.Println("")
	}
}

// QualifiedName is a dotted reference to a (possibly user defined) type, eg `integer` or `units.Voltage`
type QualifiedName struct {
	NodeInfo
	Parts []string
}

func (q *QualifiedName) String() string {
	return strings.Join(q.Parts, ".")
}

// PrimitiveTypeDecl is the tag for the built-in `boolean` type in a declaration.
type PrimitiveTypeDecl struct {
	NodeInfo
	Name string
}

func (p *PrimitiveTypeDecl) String() string { return p.Name }
