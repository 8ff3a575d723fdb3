package decl

import "fmt"

type SymbolKind int

const (
	VariableKind SymbolKind = iota
	TypeKind
	FunctionKind
)

func (k SymbolKind) String() string {
	switch k {
	case VariableKind:
		return "variable"
	case TypeKind:
		return "type"
	case FunctionKind:
		return "function"
	}
	return "unknown"
}

// Symbol is a named entity resolved through a scope.
//
// For variables Type is the declared type, for types it is the type itself
// and for functions it is the return type.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Type     *Type
	Function *FunctionSignature // Only for FunctionKind
	Decl     Node               // Declaring node if declared in source

	owner *Scope
}

// Owner is the scope the symbol was defined in.
func (s *Symbol) Owner() *Scope { return s.owner }

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s: %s", s.Kind, s.Name, s.Type)
}

type symbolKey struct {
	name string
	kind SymbolKind
}

// Scope maps (name, kind) pairs to symbols.  Scopes form a tree through their
// parent links.
type Scope struct {
	name    string
	parent  *Scope
	symbols map[symbolKey]*Symbol
	order   []*Symbol
}

// NewScope creates a new scope nested in parent (which may be nil for a root).
func NewScope(parent *Scope, name string) *Scope {
	return &Scope{
		name:    name,
		parent:  parent,
		symbols: map[symbolKey]*Symbol{},
	}
}

// Push creates a new nested scope.
func (s *Scope) Push(name string) *Scope {
	return NewScope(s, name)
}

func (s *Scope) Name() string   { return s.name }
func (s *Scope) Parent() *Scope { return s.parent }

// Define adds a symbol to this scope.  Defining the same name and kind twice
// in one scope is an error, shadowing an outer scope is not.
func (s *Scope) Define(sym *Symbol) error {
	key := symbolKey{sym.Name, sym.Kind}
	if existing, ok := s.symbols[key]; ok {
		if existing.Decl != nil {
			return fmt.Errorf("%s '%s' already declared at %s", sym.Kind, sym.Name, existing.Decl.Pos().LineColStr())
		}
		return fmt.Errorf("%s '%s' already declared", sym.Kind, sym.Name)
	}
	sym.owner = s
	s.symbols[key] = sym
	s.order = append(s.order, sym)
	return nil
}

func (s *Scope) mustDefine(sym *Symbol) {
	if err := s.Define(sym); err != nil {
		panic(err)
	}
}

// ResolveLocal looks up a symbol in this scope only.
func (s *Scope) ResolveLocal(name string, kind SymbolKind) (*Symbol, bool) {
	sym, ok := s.symbols[symbolKey{name, kind}]
	return sym, ok
}

// Resolve looks up a symbol in this scope and then in the enclosing scopes.
func (s *Scope) Resolve(name string, kind SymbolKind) (*Symbol, bool) {
	for curr := s; curr != nil; curr = curr.parent {
		if sym, ok := curr.ResolveLocal(name, kind); ok {
			return sym, true
		}
	}
	return nil, false
}

// Symbols returns the symbols defined directly in this scope in definition order.
func (s *Scope) Symbols() []*Symbol {
	return s.order
}
