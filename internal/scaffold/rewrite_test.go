package scaffold

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(path, []byte("module github.com/corpix/go-boilerplate\r\n\ngo 1.25\nrequire go-boilerplate"), 0o644))

	table := Table{{Pattern: "go-boilerplate", Replacement: "widget"}}
	require.NoError(t, RewriteFile(path, table.Apply))

	assert.Equal(t, "module github.com/corpix/widget\r\n\ngo 1.25\nrequire widget", readFile(t, path))
	assert.Empty(t, tempEntries(t, dir))
}

func TestRewriteFile_TransformSeesBodyOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\r\ntwo\n"), 0o644))

	var seen []string
	require.NoError(t, RewriteFile(path, func(line string) string {
		seen = append(seen, line)
		return strings.ToUpper(line)
	}))

	assert.Equal(t, []string{"one", "two"}, seen)
	assert.Equal(t, "ONE\r\nTWO\n", readFile(t, path))
}

func TestRewriteFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	require.NoError(t, RewriteFile(path, strings.ToUpper))
	assert.Empty(t, readFile(t, path))
}

func TestRewriteFile_PreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not tracked on Windows")
	}
	path := filepath.Join(t.TempDir(), "run.sh")
	require.NoError(t, os.WriteFile(path, []byte("echo go-boilerplate\n"), 0o755))
	require.NoError(t, os.Chmod(path, 0o751))

	require.NoError(t, RewriteFile(path, strings.ToUpper))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o751), info.Mode().Perm())
	assert.Equal(t, "ECHO GO-BOILERPLATE\n", readFile(t, path))
}

func TestRewriteFile_ThroughSymlink(t *testing.T) {
	requireSymlinks(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "real.go")
	link := filepath.Join(dir, "link.go")
	require.NoError(t, os.WriteFile(target, []byte("package old\n"), 0o644))
	require.NoError(t, os.Symlink("real.go", link))

	require.NoError(t, RewriteFile(link, func(s string) string {
		return strings.ReplaceAll(s, "old", "new")
	}))

	assert.Equal(t, "package new\n", readFile(t, target))
	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "real.go", dest)
}

func TestRewriteFile_Missing(t *testing.T) {
	err := RewriteFile(filepath.Join(t.TempDir(), "missing"), strings.ToUpper)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var oe *OpError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "rewrite", oe.Op)
}

func TestRewriteFile_Directory(t *testing.T) {
	err := RewriteFile(t.TempDir(), strings.ToUpper)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}

func TestSplitEOL(t *testing.T) {
	tests := []struct{ in, body, eol string }{
		{"a\n", "a", "\n"},
		{"a\r\n", "a", "\r\n"},
		{"a", "a", ""},
		{"\n", "", "\n"},
		{"a\r", "a\r", ""},
	}
	for _, tt := range tests {
		body, eol := splitEOL(tt.in)
		assert.Equal(t, tt.body, body, "%q", tt.in)
		assert.Equal(t, tt.eol, eol, "%q", tt.in)
	}
}
