package decl

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	gfn "github.com/panyam/goutils/fn"
)

// Type is a named primitive or user defined type.  Two types are equal iff
// their canonical names match.
type Type struct {
	Name string
}

const (
	BooleanTypeName = "boolean"
	IntegerTypeName = "integer"
	RealTypeName    = "real"
	StringTypeName  = "string"
	VoidTypeName    = "void"
)

var (
	// Use singletons for predefined types
	BooleanType = &Type{Name: BooleanTypeName}
	IntegerType = &Type{Name: IntegerTypeName}
	RealType    = &Type{Name: RealTypeName}
	StringType  = &Type{Name: StringTypeName}
	VoidType    = &Type{Name: VoidTypeName}
)

// String representation of the type
func (t *Type) String() string {
	if t == nil {
		return "<nil_type>"
	}
	return t.Name
}

// Equals checks if two types are the same type.
func (t *Type) Equals(other *Type) bool {
	if t == other { // Pointer equality check (useful for singletons)
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.Name == other.Name
}

func (t *Type) IsNumeric() bool {
	return t.Equals(IntegerType) || t.Equals(RealType)
}

// Widening says a value of type From may be used where To is declared.
type Widening struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

func (w Widening) String() string { return fmt.Sprintf("%s -> %s", w.From, w.To) }

// FunctionSignature describes a predefined function callable from SPL.
type FunctionSignature struct {
	Name       string
	Params     []*Type
	ReturnType *Type
}

func (f *FunctionSignature) String() string {
	return fmt.Sprintf("%s(%s) %s", f.Name, strings.Join(gfn.Map(f.Params, func(t *Type) string { return t.String() }), ", "), f.ReturnType)
}

// TypeSystem is the registry of known types, predefined functions and the
// compatibility table between types.
type TypeSystem struct {
	mutex     sync.RWMutex
	types     map[string]*Type
	widenings map[Widening]bool
	functions map[string]*FunctionSignature
}

// NewTypeSystem creates a type system seeded with the predefined types,
// functions and the integer -> real widening.
func NewTypeSystem() *TypeSystem {
	ts := &TypeSystem{
		types:     map[string]*Type{},
		widenings: map[Widening]bool{},
		functions: map[string]*FunctionSignature{},
	}
	for _, t := range []*Type{BooleanType, IntegerType, RealType, StringType, VoidType} {
		ts.types[t.Name] = t
	}
	ts.widenings[Widening{From: IntegerTypeName, To: RealTypeName}] = true
	for _, f := range predefinedFunctions() {
		ts.functions[f.Name] = f
	}
	return ts
}

func predefinedFunctions() []*FunctionSignature {
	return []*FunctionSignature{
		{Name: "exp", Params: []*Type{RealType}, ReturnType: RealType},
		{Name: "log", Params: []*Type{RealType}, ReturnType: RealType},
		{Name: "pow", Params: []*Type{RealType, RealType}, ReturnType: RealType},
		{Name: "max", Params: []*Type{RealType, RealType}, ReturnType: RealType},
		{Name: "min", Params: []*Type{RealType, RealType}, ReturnType: RealType},
		{Name: "abs", Params: []*Type{RealType}, ReturnType: RealType},
		{Name: "random", ReturnType: RealType},
		{Name: "randomInt", ReturnType: IntegerType},
		{Name: "print", Params: []*Type{StringType}, ReturnType: VoidType},
		{Name: "println", Params: []*Type{StringType}, ReturnType: VoidType},
	}
}

// Lookup returns the type registered under a canonical name.
func (ts *TypeSystem) Lookup(name string) (*Type, bool) {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	t, ok := ts.types[name]
	return t, ok
}

// Boolean returns the canonical boolean type.
func (ts *TypeSystem) Boolean() *Type {
	return BooleanType
}

// Register adds a user defined type.  Registering an existing name returns the
// existing type.
func (ts *TypeSystem) Register(name string) (*Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("type name cannot be empty")
	}
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	if t, ok := ts.types[name]; ok {
		return t, nil
	}
	t := &Type{Name: name}
	ts.types[name] = t
	return t, nil
}

// AddWidening allows values of type `from` to initialize variables declared as `to`.
func (ts *TypeSystem) AddWidening(from, to string) error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	if _, ok := ts.types[from]; !ok {
		return fmt.Errorf("widening %s -> %s: unknown type '%s'", from, to, from)
	}
	if _, ok := ts.types[to]; !ok {
		return fmt.Errorf("widening %s -> %s: unknown type '%s'", from, to, to)
	}
	ts.widenings[Widening{From: from, To: to}] = true
	return nil
}

// IsCompatible reports whether a value of type actual may be used where
// declared is expected.  Identical types are always compatible, otherwise the
// widening table decides.
func (ts *TypeSystem) IsCompatible(declared, actual *Type) bool {
	if declared == nil || actual == nil {
		return false
	}
	if declared.Equals(actual) {
		return true
	}
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	return ts.widenings[Widening{From: actual.Name, To: declared.Name}]
}

// Wider returns the type both a and b can be widened to, if any.
func (ts *TypeSystem) Wider(a, b *Type) (*Type, bool) {
	if ts.IsCompatible(a, b) {
		return a, true
	}
	if ts.IsCompatible(b, a) {
		return b, true
	}
	return nil, false
}

// Function returns the signature of a predefined function.
func (ts *TypeSystem) Function(name string) (*FunctionSignature, bool) {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	f, ok := ts.functions[name]
	return f, ok
}

// Types returns all registered types sorted by name.
func (ts *TypeSystem) Types() []*Type {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	out := make([]*Type, 0, len(ts.types))
	for _, t := range ts.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Widenings returns the compatibility table sorted by (from, to).
func (ts *TypeSystem) Widenings() []Widening {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	out := make([]Widening, 0, len(ts.widenings))
	for w := range ts.widenings {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// Functions returns all predefined functions sorted by name.
func (ts *TypeSystem) Functions() []*FunctionSignature {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	out := make([]*FunctionSignature, 0, len(ts.functions))
	for _, f := range ts.functions {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GlobalScope creates a root scope holding every registered type and function.
func (ts *TypeSystem) GlobalScope() *Scope {
	scope := NewScope(nil, "global")
	for _, t := range ts.Types() {
		scope.mustDefine(&Symbol{Name: t.Name, Kind: TypeKind, Type: t})
	}
	for _, f := range ts.Functions() {
		scope.mustDefine(&Symbol{Name: f.Name, Kind: FunctionKind, Type: f.ReturnType, Function: f})
	}
	return scope
}
