package loader

import (
	"testing"

	"github.com/panyam/splcheck/decl"
	"github.com/panyam/splcheck/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSymbols(t *testing.T, ts *TypeSystem, src string) (*FileDecl, *Scope, *ErrorCollector) {
	t.Helper()
	file, err := parser.ParseString(src)
	require.NoError(t, err)
	builder := NewSymbolBuilder(ts, nil, nil)
	scope := builder.Build(file)
	return file, scope, builder.Errors()
}

func TestBuildDeclaresVariables(t *testing.T) {
	_, scope, errs := buildSymbols(t, decl.NewTypeSystem(), "integer x = 1\nreal r, s\nboolean ok")
	require.False(t, errs.HasErrors())

	var names []string
	for _, sym := range scope.Symbols() {
		names = append(names, sym.String())
	}
	assert.Equal(t, []string{"variable x: integer", "variable r: real", "variable s: real", "variable ok: boolean"}, names)
	assert.Equal(t, "global", scope.Parent().Name())
}

func TestBuildAttachesScopes(t *testing.T) {
	file, fileScope, errs := buildSymbols(t, decl.NewTypeSystem(), "integer x = 1\nif x > 0:\n  integer y = x + 1\nend")
	require.False(t, errs.HasErrors())

	ifStmt := file.Statements[1].(*IfStmt)
	condScope, ok := ifStmt.If.Condition.EnclosingScope()
	require.True(t, ok)
	assert.Same(t, fileScope, condScope)

	inner := ifStmt.If.Body.Statements[0].(*DeclarationStmt)
	innerScope, ok := inner.EnclosingScope()
	require.True(t, ok)
	assert.Same(t, fileScope, innerScope.Parent())
	assert.Equal(t, "if", innerScope.Name())

	// Every sub-expression of the initializer sees the block scope
	binary := inner.Init.(*decl.BinaryExpr)
	leftScope, _ := binary.Left.EnclosingScope()
	assert.Same(t, innerScope, leftScope)

	_, ok = fileScope.ResolveLocal("y", decl.VariableKind)
	assert.False(t, ok)
	_, ok = innerScope.ResolveLocal("y", decl.VariableKind)
	assert.True(t, ok)
}

func TestBuildUnknownType(t *testing.T) {
	_, _, errs := buildSymbols(t, decl.NewTypeSystem(), "Voltage v = 5")
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, "pos 1:1: unknown type 'Voltage'", errs.Errors[0].Error())
}

func TestBuildQualifiedUserType(t *testing.T) {
	ts := decl.NewTypeSystem()
	_, err := ts.Register("units.Voltage")
	require.NoError(t, err)
	_, scope, errs := buildSymbols(t, ts, "units.Voltage v")
	require.False(t, errs.HasErrors())
	sym, ok := scope.Resolve("v", decl.VariableKind)
	require.True(t, ok)
	assert.Equal(t, "units.Voltage", sym.Type.Name)
}

func TestBuildRedeclaration(t *testing.T) {
	_, _, errs := buildSymbols(t, decl.NewTypeSystem(), "integer x\nreal x\nwhile true:\n  real x\nend")
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, "pos 2:6: variable 'x' already declared at 1:9", errs.Errors[0].Error())
}

func TestErrorCollectorLimit(t *testing.T) {
	errs := &ErrorCollector{MaxErrors: 2}
	builder := NewSymbolBuilder(decl.NewTypeSystem(), errs, nil)
	file, err := parser.ParseString("A a\nB b\nC c")
	require.NoError(t, err)
	builder.Build(file)
	assert.Len(t, errs.Errors, 2)
	assert.Equal(t, 1, errs.Dropped())
	assert.True(t, errs.Full())
}
