package source

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_LocalDirectory(t *testing.T) {
	dir := t.TempDir()

	tmpl, err := Resolve(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, dir, tmpl.Dir)
	assert.False(t, tmpl.Remote)
	assert.True(t, tmpl.Updated.IsZero())
}

func TestResolve_LocalMissing(t *testing.T) {
	_, err := Resolve(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_LocalFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Resolve(context.Background(), file, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_Empty(t *testing.T) {
	_, err := Resolve(context.Background(), "", Options{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_RemoteUsesFreshCache(t *testing.T) {
	cache := t.TempDir()
	dir := filepath.Join(cache, "example.com-acme-tmpl")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o644))
	WriteFreshnessMarker(dir)

	tmpl, err := Resolve(context.Background(), "https://example.com/acme/tmpl.git", Options{CacheDir: cache})
	require.NoError(t, err)
	assert.Equal(t, dir, tmpl.Dir)
	assert.True(t, tmpl.Remote)
	assert.False(t, tmpl.Updated.IsZero())
	assert.FileExists(t, filepath.Join(dir, "go.mod"))
}

func TestResolve_RemoteRequiresCacheDir(t *testing.T) {
	_, err := Resolve(context.Background(), "https://example.com/acme/tmpl.git", Options{})
	assert.Error(t, err)
}

func TestClone_FailureKeepsExistingCache(t *testing.T) {
	cache := t.TempDir()
	dir := filepath.Join(cache, "tmpl")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep"), []byte("x"), 0o644))

	err := Clone(context.Background(), filepath.Join(cache, "no-such-repo"), dir)
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(dir, "keep"))
	assert.NoDirExists(t, dir+tmpSuffix)
}

func TestCacheKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/corpix/go-boilerplate.git", "github.com-corpix-go-boilerplate"},
		{"git@github.com:corpix/go-boilerplate.git", "github.com-corpix-go-boilerplate"},
		{"ssh://git@example.com:2222/team/tmpl", "example.com-team-tmpl"},
	}
	for _, tt := range tests {
		ep, err := transport.NewEndpoint(tt.url)
		require.NoError(t, err)
		assert.Equal(t, tt.want, CacheKey(ep), tt.url)
	}
}

func TestFreshnessMarker(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tmpl")

	assert.True(t, ReadFreshnessMarker(dir).IsZero())
	assert.True(t, IsStale(dir, DefaultMaxAge))

	WriteFreshnessMarker(dir)
	assert.WithinDuration(t, time.Now(), ReadFreshnessMarker(dir), 2*time.Second)
	assert.False(t, IsStale(dir, DefaultMaxAge))

	old := time.Now().Add(-8 * 24 * time.Hour).Unix()
	require.NoError(t, os.WriteFile(dir+freshnessSuffix, []byte(strconv.FormatInt(old, 10)), 0o644))
	assert.True(t, IsStale(dir, DefaultMaxAge))

	require.NoError(t, os.WriteFile(dir+freshnessSuffix, []byte("garbage"), 0o644))
	assert.True(t, ReadFreshnessMarker(dir).IsZero())
}
