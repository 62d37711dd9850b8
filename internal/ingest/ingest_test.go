package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o600))
}

func collectPaths(t *testing.T, root string, opts Options) ([]string, []string) {
	t.Helper()
	records, warnings, err := Collect(root, opts)
	require.NoError(t, err)
	paths := make([]string, 0, len(records))
	for _, r := range records {
		paths = append(paths, r.Path)
	}
	return paths, warnings
}

func TestCollectWalksTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py", []byte("import os\nos.system(cmd)\n"))
	writeFile(t, root, "src/web/index.js", []byte("eval(x)\n"))
	writeFile(t, root, ".git/config", []byte("[core]\n"))
	writeFile(t, root, "logo.png", []byte{0x89, 'P', 'N', 'G'})

	paths, warnings := collectPaths(t, root, Options{})
	assert.ElementsMatch(t, []string{"src/app.py", "src/web/index.js"}, paths)
	assert.Empty(t, warnings)
}

func TestCollectKeepsDependencyDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/left-pad/index.js", []byte("eval(x)\n"))
	writeFile(t, root, "vendor/pkg/lib.go", []byte("package lib\n"))

	paths, _ := collectPaths(t, root, Options{})
	assert.Contains(t, paths, "node_modules/left-pad/index.js")
	assert.Contains(t, paths, "vendor/pkg/lib.go")
}

func TestCollectSkipsOversizeWithWarning(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.txt", []byte("0123456789012345678901234567890123456789\n"))
	writeFile(t, root, "small.txt", []byte("ok\n"))

	paths, warnings := collectPaths(t, root, Options{MaxFileBytes: 16})
	assert.Equal(t, []string{"small.txt"}, paths)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "big.txt")
	assert.Contains(t, warnings[0], "exceeds")
}

func TestCollectSkipsBinaryContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blob.dat", []byte{'a', 0x00, 'b'})
	writeFile(t, root, "text.dat", []byte("plain\n"))

	paths, warnings := collectPaths(t, root, Options{})
	assert.Equal(t, []string{"text.dat"}, paths)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "binary")
}

func TestCollectSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "real.txt", []byte("hello\n"))
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))

	paths, _ := collectPaths(t, root, Options{})
	assert.Equal(t, []string{"real.txt"}, paths)
}

func TestCollectSingleFileRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "only.py", []byte("a = 1\nb = 2\n"))

	records, warnings, err := Collect(filepath.Join(root, "only.py"), Options{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 1)
	assert.Equal(t, "only.py", records[0].Path)
	assert.Equal(t, "python", records[0].Language)
	assert.Equal(t, 3, records[0].LineCount)
}

func TestCollectMissingRoot(t *testing.T) {
	_, _, err := Collect(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
}
