package loader

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/panyam/splcheck/checker"
	"github.com/panyam/splcheck/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"
)

func TestLoadFileFromDisk(t *testing.T) {
	dir := fs.NewDir(t, "splcheck",
		fs.WithFile("ok.spl", "integer x = 1\nwhile x < 10:\n  x += 1\nend\n"),
		fs.WithFile("bad.spl", "integer x = 1\nif x:\nend\n"),
	)
	l := NewLoader(NewLocalFS(dir.Path()), decl.NewTypeSystem())

	file, err := l.LoadFile("ok.spl")
	require.NoError(t, err)
	assert.Equal(t, "ok.spl", file.FullPath)
	assert.Len(t, file.Statements, 2)

	sink := checker.NewCollector()
	file, err = l.LoadFile("bad.spl")
	require.NoError(t, err)
	require.NoError(t, l.CheckFile(file, sink))
	require.Equal(t, 1, sink.Len())
	assert.Equal(t, "bad.spl", sink.All()[0].File)
}

func TestLoadFileErrors(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.PreloadFiles(map[string]string{
		"syntax.spl":  "integer x = ",
		"symbols.spl": "Voltage v\ninteger x\ninteger x",
	})
	l := NewLoader(mfs, decl.NewTypeSystem())

	_, err := l.LoadFile("missing.spl")
	assert.ErrorContains(t, err, "cannot read 'missing.spl'")

	_, err = l.LoadFile("syntax.spl")
	assert.ErrorContains(t, err, "parsing error in 'syntax.spl'")

	file, err := l.LoadFile("symbols.spl")
	require.NotNil(t, file)
	var symErr *SymbolError
	require.True(t, errors.As(err, &symErr))
	assert.Len(t, symErr.Errors, 2)
	assert.Contains(t, err.Error(), "unknown type 'Voltage'")
}

func TestCheckFileRecoversInternalErrors(t *testing.T) {
	mfs := NewMemoryFS()
	require.NoError(t, mfs.WriteFile("m.spl", []byte("boolean b = true")))
	l := NewLoader(mfs, decl.NewTypeSystem())

	// Parse without building symbols so the declaration has no scope
	file, err := l.ParseFile("m.spl")
	require.NoError(t, err)

	sink := checker.NewCollector()
	err = l.CheckFile(file, sink)
	var internal *InternalError
	require.True(t, errors.As(err, &internal))
	assert.Equal(t, "m.spl", internal.Path)
	assert.NotEmpty(t, internal.Stack)
	var cv *checker.ContractViolation
	assert.True(t, errors.As(err, &cv))
	assert.Equal(t, 0, sink.Len(), "internal errors never become diagnostics")
}

func TestCheckFilesMatchesSequential(t *testing.T) {
	mfs := NewMemoryFS()
	var paths []string
	for i := 0; i < 12; i++ {
		path := fmt.Sprintf("models/m%02d.spl", i)
		paths = append(paths, path)
		src := fmt.Sprintf("integer x = %d\nboolean b = x\nif x > %d:\nelif x:\nend\n", i, i)
		require.NoError(t, mfs.WriteFile(path, []byte(src)))
	}
	paths = append(paths, "models/missing.spl")

	l := NewLoader(mfs, decl.NewTypeSystem())
	l.Parallelism = 4
	parallel := checker.NewCollector()
	results, err := l.CheckFiles(context.Background(), paths, parallel)
	require.NoError(t, err)
	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.Error(t, results[len(results)-1].Err)

	sequential := checker.NewCollector()
	for _, path := range paths[:12] {
		file, err := l.LoadFile(path)
		require.NoError(t, err)
		require.NoError(t, l.CheckFile(file, sequential))
	}
	assert.Equal(t, 24, parallel.Len())
	assert.Equal(t, sequential.Sorted(), parallel.Sorted())
}

func TestCheckFilesCancelled(t *testing.T) {
	mfs := NewMemoryFS()
	require.NoError(t, mfs.WriteFile("a.spl", []byte("integer x")))
	l := NewLoader(mfs, decl.NewTypeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.CheckFiles(ctx, []string{"a.spl"}, checker.NewCollector())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryFSListFiles(t *testing.T) {
	mfs := NewMemoryFS()
	mfs.PreloadFiles(map[string]string{"a/2.spl": "", "a/1.spl": "", "b/3.spl": ""})
	files, err := mfs.ListFiles("a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1.spl", "a/2.spl"}, files)
	assert.True(t, mfs.Exists("b/3.spl"))
	assert.False(t, mfs.Exists("c.spl"))
}
