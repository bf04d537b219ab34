package source

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestArchiveRoot_FetchBytes_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classes.jar")
	writeTestZip(t, path, map[string]string{
		"com/example/Foo.class": "foo-bytes",
		"META-INF/MANIFEST.MF":  "manifest",
	})

	root, err := NewArchiveRoot(path)
	require.NoError(t, err)
	defer root.Close()

	data, err := root.FetchBytes("com/example/Foo.class")
	require.NoError(t, err)
	assert.Equal(t, []byte("foo-bytes"), data)

	data, err = root.FetchBytes("com/example/Missing.class")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestArchiveRoot_Enumerate_OnlyMatchingEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classes.jar")
	writeTestZip(t, path, map[string]string{
		"com/example/Foo.class": "a",
		"com/example/Bar.class": "b",
		"META-INF/MANIFEST.MF":  "c",
	})

	root, err := NewArchiveRoot(path)
	require.NoError(t, err)
	defer root.Close()

	ch, err := root.Enumerate(context.Background())
	require.NoError(t, err)

	var names []string
	for ref := range ch {
		names = append(names, ref.Name)
		data, err := ref.Read()
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
	assert.ElementsMatch(t, []string{"com/example/Foo.class", "com/example/Bar.class"}, names)
}

func TestArchiveRoot_NewArchiveRoot_MissingFile(t *testing.T) {
	_, err := NewArchiveRoot(filepath.Join(t.TempDir(), "nope.jar"))
	assert.Error(t, err)
}
