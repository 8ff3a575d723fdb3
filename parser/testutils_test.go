package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
)

var locationType = reflect.TypeOf(Location{})

// cleanNodeInfo recursively zeroes every Location reachable from node so
// trees built by hand can be compared with parsed ones.
func cleanNodeInfo(node any) {
	clean(reflect.ValueOf(node))
}

func clean(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			clean(v.Elem())
		}
	case reflect.Struct:
		if v.Type() == locationType {
			if v.CanSet() {
				v.Set(reflect.Zero(locationType))
			}
			return
		}
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				clean(v.Field(i))
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			clean(v.Index(i))
		}
	}
}

// parseFragment is a generic helper to parse a fragment using a specific parse function
// from the LLParser (e.g., p.ParseExpression, p.ParseStmt).
func parseFragment[T Node](t *testing.T, input string, parseFunc func(p *LLParser) (T, error)) (actualNode T, err error) {
	t.Helper()
	parser := NewLLParser(NewLexer(strings.NewReader(input)))
	actualNode, err = parseFunc(parser)
	if err == nil {
		if peeked := parser.PeekToken(); peeked != eof {
			t.Errorf("Input: %q\nParser did not consume all input. Remaining token: %s", input, TokenString(peeked))
		}
	}
	return
}

// assertNodeEqual compares position-free trees.
func assertNodeEqual(t *testing.T, input string, expected, actual Node) {
	t.Helper()
	cleanNodeInfo(expected)
	cleanNodeInfo(actual)
	if diff := deep.Equal(expected, actual); diff != nil {
		t.Errorf("Input: %q\nAST mismatch: %v", input, diff)
	}
}

// assertError checks for expected errors.
func assertError(t *testing.T, input string, err error, expectError bool, errorContains string) {
	t.Helper()
	if expectError {
		if assert.Error(t, err, "Input: %q", input) && errorContains != "" {
			assert.Contains(t, err.Error(), errorContains, "Input: %q", input)
		}
	} else {
		assert.NoError(t, err, "Input: %q", input)
	}
}
