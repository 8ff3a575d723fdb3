package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/panyam/splcheck/checker"
	"github.com/panyam/splcheck/parser"
	"golang.org/x/sync/errgroup"
)

// Loader reads, parses and checks SPL files.
type Loader struct {
	fs    FileSystem
	types *TypeSystem

	// Parallelism bounds CheckFiles, <= 0 => one worker per file
	Parallelism int

	// MaxErrors caps symbol errors collected per file, 0 => no limit
	MaxErrors int

	// Optional checker hooks installed on every run
	ForRule        checker.ForRule
	AssignmentRule checker.AssignmentRule

	Logger *slog.Logger
}

// NewLoader creates a loader reading from fs and checking against types.
func NewLoader(fs FileSystem, types *TypeSystem) *Loader {
	return &Loader{
		fs:     fs,
		types:  types,
		Logger: slog.Default(),
	}
}

func (l *Loader) Types() *TypeSystem { return l.types }

// SymbolError carries every symbol table error found in a file.
type SymbolError struct {
	Path   string
	Errors []error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol errors in '%s': %v", e.Path, errors.Join(e.Errors...))
}

func (e *SymbolError) Unwrap() []error { return e.Errors }

// ParseFile reads and parses a file without building symbols.
func (l *Loader) ParseFile(path string) (*FileDecl, error) {
	content, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read '%s': %w", path, err)
	}
	_, file, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing error in '%s': %w", path, err)
	}
	file.FullPath = path
	return file, nil
}

// LoadFile parses a file and builds its symbol table.  A file with symbol
// errors is returned alongside a *SymbolError and must not be checked.
func (l *Loader) LoadFile(path string) (*FileDecl, error) {
	file, err := l.ParseFile(path)
	if err != nil {
		return nil, err
	}
	builder := NewSymbolBuilder(l.types, &ErrorCollector{MaxErrors: l.MaxErrors}, l.Logger)
	builder.Build(file)
	if builder.Errors().HasErrors() {
		return file, &SymbolError{Path: path, Errors: builder.Errors().Errors}
	}
	return file, nil
}

// CheckFile runs all checks over a loaded file, reporting to sink.
func (l *Loader) CheckFile(file *FileDecl, sink checker.Sink) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InternalError{Path: file.FullPath, Value: r, Stack: debug.Stack()}
			l.Logger.Error("internal error", "file", file.FullPath, "error", r)
		}
	}()
	c := checker.NewIllegalExpressionChecker(l.types, sink).WithLogger(l.Logger)
	c.ForRule = l.ForRule
	c.AssignmentRule = l.AssignmentRule
	checker.NewWalker(c).Walk(file)
	return nil
}

// FileResult is the outcome of loading and checking one file.
type FileResult struct {
	Path string
	File *FileDecl
	Err  error
}

// CheckFiles loads and checks paths concurrently, sharing sink between
// workers.  Results are in the same order as paths.  The returned error is
// only non-nil if ctx was cancelled; per file failures are in the results.
func (l *Loader) CheckFiles(ctx context.Context, paths []string, sink checker.Sink) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	if l.Parallelism > 0 {
		group.SetLimit(l.Parallelism)
	}
	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = l.checkPath(path, sink)
			return nil
		})
	}
	err := group.Wait()
	return results, err
}

func (l *Loader) checkPath(path string, sink checker.Sink) FileResult {
	file, err := l.LoadFile(path)
	if err != nil {
		l.Logger.Debug("load failed", "file", path, "error", err)
		return FileResult{Path: path, File: file, Err: err}
	}
	err = l.CheckFile(file, sink)
	return FileResult{Path: path, File: file, Err: err}
}
