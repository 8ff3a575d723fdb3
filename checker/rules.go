package checker

import (
	"fmt"

	"github.com/panyam/splcheck/decl"
)

type boundResult struct {
	name   string
	result decl.TypeResult
}

// StrictForRule requires every bound of a for loop to be numeric.
func StrictForRule(stmt *decl.ForStmt, bounds ForBounds) string {
	parts := []boundResult{{"start", bounds.From}, {"end", bounds.To}}
	if bounds.HasStep {
		parts = append(parts, boundResult{"step", bounds.Step})
	}
	for _, part := range parts {
		switch r := part.result.(type) {
		case decl.Unresolved:
			return fmt.Sprintf("Cannot determine the type of the %s of the for loop over %s. Reason: %s", part.name, stmt.Var.Name, r.Reason)
		case decl.Resolved:
			if !r.Type.IsNumeric() {
				return fmt.Sprintf("Cannot use non numeric expression of type %s as the %s of the for loop over %s", r.Type, part.name, stmt.Var.Name)
			}
		}
	}
	return ""
}

// StrictAssignmentRule returns an AssignmentRule requiring the value to be
// compatible with the target variable's declared type.  Compound operators
// also need a numeric target, or a string target for `+=`.
func StrictAssignmentRule(types *decl.TypeSystem) AssignmentRule {
	return func(stmt *decl.AssignmentStmt, target, value decl.TypeResult) string {
		targetType, ok := target.(decl.Resolved)
		if !ok {
			return fmt.Sprintf("Cannot determine the type of the assigned variable. Reason: %s", target.(decl.Unresolved).Reason)
		}
		if !compoundAllowed(stmt.Operator, targetType.Type) {
			return fmt.Sprintf("Cannot use operator %s on variable %s of type %s", stmt.Operator, stmt.Var.Name, targetType.Type)
		}
		switch r := value.(type) {
		case decl.Unresolved:
			return fmt.Sprintf("Cannot determine the type of the assigned expression. Reason: %s", r.Reason)
		case decl.Resolved:
			if !types.IsCompatible(targetType.Type, r.Type) {
				return fmt.Sprintf("Cannot assign an expression of type %s to variable %s of type %s", r.Type, stmt.Var.Name, targetType.Type)
			}
		}
		return ""
	}
}

func compoundAllowed(op string, target *decl.Type) bool {
	switch op {
	case "=":
		return true
	case "+=":
		return target.IsNumeric() || target.Equals(decl.StringType)
	}
	return target.IsNumeric()
}
