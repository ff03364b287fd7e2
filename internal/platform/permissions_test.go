package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChmod(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.txt")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0644))

	require.NoError(t, Chmod(path, 0600))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestPreserveMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are ignored on Windows")
	}
	tmp := t.TempDir()
	src := filepath.Join(tmp, "run.sh")
	dst := filepath.Join(tmp, "run.sh.tmp")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(dst, []byte("#!/bin/sh\n"), 0600))

	require.NoError(t, PreserveMode(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestPreserveMode_MissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := PreserveMode(filepath.Join(tmp, "nope"), filepath.Join(tmp, "dst"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
