package loader

import (
	"fmt"
	"io"
)

type ErrorCollector struct {
	// Errors for this file
	Errors []error

	// Max errors to keep, further errors are dropped
	// 0 => no limit
	MaxErrors int

	dropped int
}

func (f *ErrorCollector) HasErrors() bool {
	return len(f.Errors) > 0
}

// Full reports whether the collector has reached its limit.
func (f *ErrorCollector) Full() bool {
	return f.MaxErrors > 0 && len(f.Errors) >= f.MaxErrors
}

// Dropped is the number of errors discarded after the limit was reached.
func (f *ErrorCollector) Dropped() int {
	return f.dropped
}

func (f *ErrorCollector) PrintErrors(w io.Writer) {
	for _, err := range f.Errors {
		fmt.Fprintln(w, err)
	}
	if f.dropped > 0 {
		fmt.Fprintf(w, "... and %d more errors\n", f.dropped)
	}
}

func (i *ErrorCollector) AddErrors(errs ...error) {
	for _, err := range errs {
		if i.Full() {
			i.dropped++
			continue
		}
		i.Errors = append(i.Errors, err)
	}
}

func (i *ErrorCollector) Errorf(pos Location, format string, args ...any) bool {
	i.AddErrors(fmt.Errorf("pos %s: %s", pos.LineColStr(), fmt.Sprintf(format, args...)))
	return false
}

// InternalError is raised when the checker finds the tree in a state the
// symbol builder should never produce (a declaration without a scope, a
// declared variable missing from its scope, ...).  It is a bug in the tool,
// not in the model being checked.
type InternalError struct {
	Path  string
	Value any
	Stack []byte
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error while checking '%s': %v", e.Path, e.Value)
}

func (e *InternalError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
