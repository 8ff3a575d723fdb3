package decl

import (
	"fmt"
)

// TypeResult is the outcome of inferring an expression's type.  It is either
// Resolved or Unresolved and consumers are expected to switch on both.
type TypeResult interface {
	isTypeResult()
	String() string
}

// Resolved carries the type derived for an expression.
type Resolved struct {
	Type *Type
}

// Unresolved carries the reason no type could be derived.
type Unresolved struct {
	Reason string
}

func (Resolved) isTypeResult()   {}
func (Unresolved) isTypeResult() {}

func (r Resolved) String() string   { return r.Type.String() }
func (u Unresolved) String() string { return "unresolved: " + u.Reason }

func Unresolvedf(format string, args ...any) Unresolved {
	return Unresolved{Reason: fmt.Sprintf(format, args...)}
}

// TypeCalculator derives expression types from the predefined type registry
// and the scopes attached to expressions.  It holds no per-expression state and
// never modifies the AST.
type TypeCalculator struct {
	types *TypeSystem
}

func NewTypeCalculator(types *TypeSystem) *TypeCalculator {
	if types == nil {
		types = NewTypeSystem()
	}
	return &TypeCalculator{types: types}
}

func (c *TypeCalculator) Types() *TypeSystem { return c.types }

// ComputeType recursively infers the type of an expression.
func (c *TypeCalculator) ComputeType(expr Expr) TypeResult {
	if expr == nil {
		return Unresolvedf("cannot infer type for nil expression")
	}

	switch e := expr.(type) {
	case *LiteralExpr:
		return c.literalType(e)
	case *IdentifierExpr:
		return c.identifierType(e)
	case *ParenExpr:
		return c.ComputeType(e.Inner)
	case *UnaryExpr:
		return c.unaryType(e)
	case *BinaryExpr:
		return c.binaryType(e)
	case *TernaryExpr:
		return c.ternaryType(e)
	case *CallExpr:
		return c.callType(e)
	}
	return Unresolvedf("pos %s: type inference not implemented for expression type %T", expr.Pos().LineColStr(), expr)
}

// operandTypes infers both operands, stopping at the first failure.
func (c *TypeCalculator) operandTypes(e *BinaryExpr) (left, right *Type, failure TypeResult) {
	switch r := c.ComputeType(e.Left).(type) {
	case Unresolved:
		return nil, nil, Unresolvedf("pos %s: error inferring type for left operand of '%s': %s", e.Pos().LineColStr(), e.Operator, r.Reason)
	case Resolved:
		left = r.Type
	}
	switch r := c.ComputeType(e.Right).(type) {
	case Unresolved:
		return nil, nil, Unresolvedf("pos %s: error inferring type for right operand of '%s': %s", e.Pos().LineColStr(), e.Operator, r.Reason)
	case Resolved:
		right = r.Type
	}
	return left, right, nil
}

func (c *TypeCalculator) literalType(e *LiteralExpr) TypeResult {
	switch e.Kind {
	case IntLiteral:
		return Resolved{IntegerType}
	case RealLiteral, InfLiteral:
		return Resolved{RealType}
	case StringLiteral:
		return Resolved{StringType}
	case BoolLiteral:
		return Resolved{BooleanType}
	}
	return Unresolvedf("pos %s: literal has unknown kind %d", e.Pos().LineColStr(), e.Kind)
}

func (c *TypeCalculator) identifierType(e *IdentifierExpr) TypeResult {
	if e == nil {
		return Unresolvedf("cannot infer type for nil identifier")
	}
	scope, ok := e.EnclosingScope()
	if !ok {
		return Unresolvedf("pos %s: identifier '%s' has no enclosing scope", e.Pos().LineColStr(), e.Name)
	}
	sym, ok := scope.Resolve(e.Name, VariableKind)
	if !ok {
		return Unresolvedf("pos %s: identifier '%s' not found", e.Pos().LineColStr(), e.Name)
	}
	if sym.Type == nil {
		return Unresolvedf("pos %s: identifier '%s' resolved but its type is nil", e.Pos().LineColStr(), e.Name)
	}
	return Resolved{sym.Type}
}

func (c *TypeCalculator) unaryType(e *UnaryExpr) TypeResult {
	var operand *Type
	switch r := c.ComputeType(e.Right).(type) {
	case Unresolved:
		return Unresolvedf("pos %s: error inferring type for operand of '%s': %s", e.Pos().LineColStr(), e.Operator, r.Reason)
	case Resolved:
		operand = r.Type
	}

	switch e.Operator {
	case "not":
		if operand.Equals(BooleanType) {
			return Resolved{BooleanType}
		}
		return Unresolvedf("pos %s: type mismatch for operator 'not': requires boolean, got %s", e.Pos().LineColStr(), operand)
	case "-", "+":
		if operand.IsNumeric() {
			return Resolved{operand}
		}
		return Unresolvedf("pos %s: type mismatch for operator '%s': requires integer or real, got %s", e.Pos().LineColStr(), e.Operator, operand)
	case "~":
		if operand.Equals(IntegerType) {
			return Resolved{IntegerType}
		}
		return Unresolvedf("pos %s: type mismatch for operator '~': requires integer, got %s", e.Pos().LineColStr(), operand)
	}
	return Unresolvedf("pos %s: unsupported unary operator '%s'", e.Pos().LineColStr(), e.Operator)
}

func (c *TypeCalculator) binaryType(e *BinaryExpr) TypeResult {
	left, right, failure := c.operandTypes(e)
	if failure != nil {
		return failure
	}

	switch e.Operator {
	case "+", "-", "*", "/", "**":
		if left.Equals(IntegerType) && right.Equals(IntegerType) {
			return Resolved{IntegerType}
		}
		if left.IsNumeric() && right.IsNumeric() {
			return Resolved{RealType}
		}
		if e.Operator == "+" && left.Equals(StringType) && right.Equals(StringType) {
			return Resolved{StringType}
		}
		return Unresolvedf("pos %s: type mismatch for operator '%s': cannot apply to %s and %s", e.Pos().LineColStr(), e.Operator, left, right)
	case "%":
		if left.Equals(IntegerType) && right.Equals(IntegerType) {
			return Resolved{IntegerType}
		}
		return Unresolvedf("pos %s: type mismatch for operator '%%': requires two integers, got %s and %s", e.Pos().LineColStr(), left, right)
	case "<", "<=", ">", ">=":
		if left.IsNumeric() && right.IsNumeric() {
			return Resolved{BooleanType}
		}
		return Unresolvedf("pos %s: type mismatch for comparison operator '%s': cannot compare %s and %s", e.Pos().LineColStr(), e.Operator, left, right)
	case "==", "!=", "<>":
		if (left.IsNumeric() && right.IsNumeric()) || left.Equals(right) {
			return Resolved{BooleanType}
		}
		return Unresolvedf("pos %s: type mismatch for comparison operator '%s': cannot compare %s and %s", e.Pos().LineColStr(), e.Operator, left, right)
	case "and", "or":
		if left.Equals(BooleanType) && right.Equals(BooleanType) {
			return Resolved{BooleanType}
		}
		return Unresolvedf("pos %s: type mismatch for logical operator '%s': requires two booleans, got %s and %s", e.Pos().LineColStr(), e.Operator, left, right)
	}
	return Unresolvedf("pos %s: unsupported binary operator '%s'", e.Pos().LineColStr(), e.Operator)
}

func (c *TypeCalculator) ternaryType(e *TernaryExpr) TypeResult {
	switch r := c.ComputeType(e.Condition).(type) {
	case Unresolved:
		return Unresolvedf("pos %s: error inferring type for condition of conditional expression: %s", e.Pos().LineColStr(), r.Reason)
	case Resolved:
		if !r.Type.Equals(BooleanType) {
			return Unresolvedf("pos %s: condition of conditional expression must be boolean, got %s", e.Pos().LineColStr(), r.Type)
		}
	}

	var thenType, elseType *Type
	switch r := c.ComputeType(e.Then).(type) {
	case Unresolved:
		return Unresolvedf("pos %s: error inferring type for true branch of conditional expression: %s", e.Pos().LineColStr(), r.Reason)
	case Resolved:
		thenType = r.Type
	}
	switch r := c.ComputeType(e.Else).(type) {
	case Unresolved:
		return Unresolvedf("pos %s: error inferring type for false branch of conditional expression: %s", e.Pos().LineColStr(), r.Reason)
	case Resolved:
		elseType = r.Type
	}

	if wider, ok := c.types.Wider(thenType, elseType); ok {
		return Resolved{wider}
	}
	return Unresolvedf("pos %s: type mismatch in conditional expression branches: %s and %s", e.Pos().LineColStr(), thenType, elseType)
}

func (c *TypeCalculator) callType(e *CallExpr) TypeResult {
	if e == nil || e.Function == nil {
		return Unresolvedf("cannot infer type for nil call")
	}
	name := e.Function.Name
	scope, ok := e.EnclosingScope()
	if !ok {
		return Unresolvedf("pos %s: call to '%s' has no enclosing scope", e.Pos().LineColStr(), name)
	}
	sym, ok := scope.Resolve(name, FunctionKind)
	if !ok || sym.Function == nil {
		return Unresolvedf("pos %s: function '%s' not found", e.Pos().LineColStr(), name)
	}
	fn := sym.Function
	if len(e.Args) != len(fn.Params) {
		return Unresolvedf("pos %s: argument count mismatch for call to '%s': expected %d, got %d", e.Pos().LineColStr(), name, len(fn.Params), len(e.Args))
	}
	for i, arg := range e.Args {
		switch r := c.ComputeType(arg).(type) {
		case Unresolved:
			return Unresolvedf("pos %s: error inferring type for argument %d of call to '%s': %s", arg.Pos().LineColStr(), i+1, name, r.Reason)
		case Resolved:
			if !c.types.IsCompatible(fn.Params[i], r.Type) {
				return Unresolvedf("pos %s: type mismatch for argument %d of call to '%s': expected %s, got %s", arg.Pos().LineColStr(), i+1, name, fn.Params[i], r.Type)
			}
		}
	}
	return Resolved{fn.ReturnType}
}
