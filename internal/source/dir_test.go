package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDirRoot_FetchBytes_MissingIsNilNotError(t *testing.T) {
	dir := t.TempDir()
	root, err := NewDirRoot(dir)
	require.NoError(t, err)

	data, err := root.FetchBytes("com/example/Missing.class")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDirRoot_FetchBytes_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "com", "example", "Foo.class"), []byte("bytes"))

	root, err := NewDirRoot(dir)
	require.NoError(t, err)

	data, err := root.FetchBytes("com/example/Foo.class")
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)
}

func TestDirRoot_Enumerate_FindsAllAndOnlyMatching(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "com", "example", "Foo.class"), []byte("a"))
	writeFile(t, filepath.Join(dir, "com", "example", "Bar.class"), []byte("b"))
	writeFile(t, filepath.Join(dir, "README.txt"), []byte("c"))

	root, err := NewDirRoot(dir)
	require.NoError(t, err)

	ch, err := root.Enumerate(context.Background())
	require.NoError(t, err)

	var names []string
	for ref := range ch {
		names = append(names, ref.Name)
	}
	assert.ElementsMatch(t, []string{"com/example/Foo.class", "com/example/Bar.class"}, names)
}

func TestDirRoot_Enumerate_RespectsExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "com", "example", "Foo.class"), []byte("a"))
	writeFile(t, filepath.Join(dir, "com", "example", "internal", "Hidden.class"), []byte("b"))

	root, err := NewDirRoot(dir, WithExclude("**/internal/**"))
	require.NoError(t, err)

	ch, err := root.Enumerate(context.Background())
	require.NoError(t, err)

	var names []string
	for ref := range ch {
		names = append(names, ref.Name)
	}
	assert.ElementsMatch(t, []string{"com/example/Foo.class"}, names)
}

func TestDirRoot_Enumerate_CancelledContextStopsEarly(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFile(t, filepath.Join(dir, "pkg", string(rune('A'+i))+".class"), []byte("x"))
	}

	root, err := NewDirRoot(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := root.Enumerate(ctx)
	require.NoError(t, err)

	<-ch
	cancel()

	// Draining to completion must not hang once cancelled.
	for range ch {
	}
}

func TestDirRoot_NewDirRoot_RejectsNonDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notadir")
	writeFile(t, file, []byte("x"))

	_, err := NewDirRoot(file)
	assert.Error(t, err)
}
