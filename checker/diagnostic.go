package checker

import (
	"fmt"
	"sort"
	"sync"

	"github.com/panyam/splcheck/decl"
)

// Diagnostic is a single reported rule violation.
type Diagnostic struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Pos     decl.Location `json:"pos"`
	File    string        `json:"file,omitempty"`
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("error[%s] %s: %s", d.Pos.LineColStr(), d.Code, d.Message)
	}
	return fmt.Sprintf("error[%s:%s] %s: %s", d.File, d.Pos.LineColStr(), d.Code, d.Message)
}

// Sink receives diagnostics as checkers emit them.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(d Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Collector is a Sink that keeps every diagnostic in arrival order.  It is
// safe to share between goroutines checking different files.
type Collector struct {
	// Limit caps the number of kept diagnostics, 0 => no limit
	Limit int

	mu          sync.Mutex
	diagnostics []Diagnostic
	dropped     int
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Limit > 0 && len(c.diagnostics) >= c.Limit {
		c.dropped++
		return
	}
	c.diagnostics = append(c.diagnostics, d)
}

// All returns a copy of the collected diagnostics in arrival order.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diagnostics...)
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diagnostics)
}

// Dropped is the number of diagnostics discarded because of Limit.
func (c *Collector) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Sorted returns the diagnostics ordered by file, line, column and message.
func (c *Collector) Sorted() []Diagnostic {
	out := c.All()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Col != b.Pos.Col {
			return a.Pos.Col < b.Pos.Col
		}
		return a.Message < b.Message
	})
	return out
}
