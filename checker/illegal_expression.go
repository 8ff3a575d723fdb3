package checker

import (
	"fmt"
	"log/slog"

	"github.com/panyam/splcheck/decl"
)

// IllegalExpressionCode is reported by every check in this file.
const IllegalExpressionCode = "SPL_ILLEGAL_EXPRESSION"

// ContractViolation is panicked when a node reaches a checker in a state the
// symbol builder never produces.  It is never reported as a diagnostic.
type ContractViolation struct {
	Pos    decl.Location
	Reason string
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation at %s: %s", c.Pos.LineColStr(), c.Reason)
}

func violation(node decl.Node, format string, args ...any) {
	panic(&ContractViolation{Pos: node.Pos(), Reason: fmt.Sprintf(format, args...)})
}

// ForBounds holds the inferred types of a for loop's range.
type ForBounds struct {
	From, To decl.TypeResult
	Step     decl.TypeResult // Only valid when HasStep
	HasStep  bool
}

// ForRule decides whether a for loop is illegal given its inferred bounds.
// A non-empty message is reported as a diagnostic.
type ForRule func(stmt *decl.ForStmt, bounds ForBounds) (message string)

// AssignmentRule decides whether an assignment is illegal given the inferred
// types of its target and value.
type AssignmentRule func(stmt *decl.AssignmentStmt, target, value decl.TypeResult) (message string)

// IllegalExpressionChecker verifies that conditions are boolean and that
// initializers are compatible with their declared types.  Each Check method
// reports at most one diagnostic.
type IllegalExpressionChecker struct {
	// File is stamped on every reported diagnostic
	File string

	// Optional hooks, nil means the construct is never reported
	ForRule        ForRule
	AssignmentRule AssignmentRule

	calc   *decl.TypeCalculator
	sink   Sink
	logger *slog.Logger
}

func NewIllegalExpressionChecker(types *decl.TypeSystem, sink Sink) *IllegalExpressionChecker {
	return &IllegalExpressionChecker{
		calc:   decl.NewTypeCalculator(types),
		sink:   sink,
		logger: slog.Default(),
	}
}

// WithLogger replaces the logger used for debug tracing.
func (c *IllegalExpressionChecker) WithLogger(logger *slog.Logger) *IllegalExpressionChecker {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (c *IllegalExpressionChecker) report(pos decl.Location, format string, args ...any) {
	d := Diagnostic{Code: IllegalExpressionCode, Message: fmt.Sprintf(format, args...), Pos: pos, File: c.File}
	c.logger.Debug("illegal expression", "file", c.File, "pos", pos.LineColStr(), "message", d.Message)
	c.sink.Report(d)
}

// checkCondition handles the shared if/elif/while rule.
func (c *IllegalExpressionChecker) checkCondition(pos decl.Location, cond decl.Expr, construct string) {
	switch r := c.calc.ComputeType(cond).(type) {
	case decl.Unresolved:
		c.report(pos, "Cannot determine the type of the expression in the %s. Reason: %s", construct, r.Reason)
	case decl.Resolved:
		if !r.Type.Equals(c.calc.Types().Boolean()) {
			c.report(pos, "Cannot use non boolean expression of type %s in the %s", r.Type, construct)
		}
	}
}

func (c *IllegalExpressionChecker) CheckIfClause(node *decl.IfClause) {
	c.checkCondition(node.Pos(), node.Condition, "if clause")
}

func (c *IllegalExpressionChecker) CheckElifClause(node *decl.ElifClause) {
	c.checkCondition(node.Pos(), node.Condition, "elif clause")
}

func (c *IllegalExpressionChecker) CheckWhileStmt(node *decl.WhileStmt) {
	c.checkCondition(node.Pos(), node.Condition, "while statement")
}

// CheckForStmt infers the loop range and defers to ForRule.
func (c *IllegalExpressionChecker) CheckForStmt(node *decl.ForStmt) {
	if c.ForRule == nil {
		return
	}
	bounds := ForBounds{
		From: c.calc.ComputeType(node.From),
		To:   c.calc.ComputeType(node.To),
	}
	if node.Step != nil {
		bounds.Step = c.calc.ComputeType(node.Step)
		bounds.HasStep = true
	}
	if msg := c.ForRule(node, bounds); msg != "" {
		c.report(node.Pos(), "%s", msg)
	}
}

// CheckAssignment infers both sides and defers to AssignmentRule.
func (c *IllegalExpressionChecker) CheckAssignment(node *decl.AssignmentStmt) {
	if c.AssignmentRule == nil {
		return
	}
	target := c.calc.ComputeType(node.Var)
	value := c.calc.ComputeType(node.Value)
	if msg := c.AssignmentRule(node, target, value); msg != "" {
		c.report(node.Pos(), "%s", msg)
	}
}

// CheckDeclaration verifies an initializer against the declared type.  All
// variables in one declaration share a type, so the first one stands in for
// the rest.
func (c *IllegalExpressionChecker) CheckDeclaration(node *decl.DeclarationStmt) {
	scope, ok := node.EnclosingScope()
	if !ok {
		violation(node, "declaration has no enclosing scope, symbols were not built")
	}
	if node.Init == nil {
		return
	}
	if len(node.Vars) == 0 {
		violation(node, "declaration has no variables")
	}

	varName := node.Vars[0].Name
	typeName := declarationTypeName(node)
	sym, ok := scope.Resolve(varName, decl.VariableKind)
	if !ok || sym.Type == nil {
		violation(node, "cannot resolve the type of the variable '%s'", varName)
	}

	switch r := c.calc.ComputeType(node.Init).(type) {
	case decl.Unresolved:
		c.report(node.Pos(), "Cannot determine the type of the initializer expression. Reason: %s", r.Reason)
	case decl.Resolved:
		if !c.calc.Types().IsCompatible(sym.Type, r.Type) {
			c.report(node.Pos(), "Cannot initialize variable %s of type %s with an expression of type %s", varName, typeName, r.Type)
		}
	}
}

func declarationTypeName(node *decl.DeclarationStmt) string {
	if node.PrimitiveType != nil {
		return decl.BooleanTypeName
	}
	if node.Type != nil {
		return node.Type.String()
	}
	violation(node, "declaration has no type")
	return ""
}
