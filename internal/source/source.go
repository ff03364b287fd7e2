// Package source resolves a template reference to a directory on disk.
// Local directories are used in place. Git URLs are cloned shallowly into
// a cache directory, refreshed when stale, and guarded by a lock file so
// concurrent runs do not clone over each other.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/gofrs/flock"

	"github.com/corpix/bootstrap/internal/output"
)

const (
	// DefaultMaxAge is the default staleness threshold (7 days).
	DefaultMaxAge = 7 * 24 * time.Hour

	// tmpSuffix is appended to the cache dir during atomic clone.
	tmpSuffix = ".tmp"

	freshnessSuffix = ".updated"
	lockSuffix      = ".lock"
	lockRetryDelay  = 100 * time.Millisecond
)

// ErrNotFound is returned for a reference that is neither an existing
// directory nor a remote URL.
var ErrNotFound = errors.New("template not found")

// Options control how remote templates are cached.
type Options struct {
	CacheDir string        // where clones are kept
	Refresh  bool          // re-clone even when the cache is fresh
	MaxAge   time.Duration // zero means DefaultMaxAge
}

// Template is a resolved template tree.
type Template struct {
	Ref     string
	Dir     string
	Remote  bool
	Updated time.Time // clone time of a remote template, zero for local ones
}

var nonKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Resolve returns the template tree for ref.
func Resolve(ctx context.Context, ref string, opts Options) (*Template, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	ep, err := transport.NewEndpoint(ref)
	if err != nil {
		return nil, fmt.Errorf("parsing template reference %s: %w", ref, err)
	}
	if ep.Protocol == "file" {
		return resolveLocal(ref, ep.Path)
	}
	return resolveRemote(ctx, ref, ep, opts)
}

func resolveLocal(ref, path string) (*Template, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", ref, err)
	}
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", ref, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, ref)
	}
	return &Template{Ref: ref, Dir: dir}, nil
}

func resolveRemote(ctx context.Context, ref string, ep *transport.Endpoint, opts Options) (*Template, error) {
	if opts.CacheDir == "" {
		return nil, errors.New("cache directory is not configured")
	}
	maxAge := opts.MaxAge
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}

	if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", opts.CacheDir, err)
	}

	dir := filepath.Join(opts.CacheDir, CacheKey(ep))
	lock := flock.New(dir + lockSuffix)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("locking template cache %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("locking template cache %s: %w", dir, ctx.Err())
	}
	defer func() { _ = lock.Unlock() }()

	if opts.Refresh || !exists(dir) || IsStale(dir, maxAge) {
		output.Debug("cloning template", "url", ref, "dir", dir)
		if err := Clone(ctx, ref, dir); err != nil {
			return nil, err
		}
	} else {
		output.Debug("using cached template", "url", ref, "dir", dir)
	}

	return &Template{
		Ref:     ref,
		Dir:     dir,
		Remote:  true,
		Updated: ReadFreshnessMarker(dir),
	}, nil
}

// CacheKey derives a directory name from a remote endpoint,
// e.g. github.com/corpix/go-boilerplate.git -> github.com-corpix-go-boilerplate.
func CacheKey(ep *transport.Endpoint) string {
	key := ep.Host + "/" + strings.TrimSuffix(strings.Trim(ep.Path, "/"), ".git")
	key = nonKeyChars.ReplaceAllString(key, "-")
	return strings.Trim(key, "-.")
}

// Clone performs a shallow clone of url into targetDir.
//
// The clone is atomic: it writes to a .tmp directory first, then renames
// on success. On failure the .tmp directory is cleaned up and an existing
// targetDir is left as it was.
func Clone(ctx context.Context, url, targetDir string) error {
	tmpDir := targetDir + tmpSuffix

	// Clean up any leftover tmp dir from a previous failed attempt.
	_ = os.RemoveAll(tmpDir)

	_, err := git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:          url,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("cloning template %s: %w", url, err)
	}

	if err := os.RemoveAll(targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("removing cached template %s: %w", targetDir, err)
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("finalizing template clone: %w", err)
	}

	WriteFreshnessMarker(targetDir)
	return nil
}

// WriteFreshnessMarker records the current Unix time next to dir.
func WriteFreshnessMarker(dir string) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	_ = os.WriteFile(dir+freshnessSuffix, []byte(ts), 0o644)
}

// ReadFreshnessMarker returns the time recorded next to dir, or the zero
// time when there is no readable marker.
func ReadFreshnessMarker(dir string) time.Time {
	data, err := os.ReadFile(dir + freshnessSuffix)
	if err != nil {
		return time.Time{}
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// IsStale returns true if dir was last cloned more than maxAge ago or
// has no freshness marker.
func IsStale(dir string, maxAge time.Duration) bool {
	updated := ReadFreshnessMarker(dir)
	if updated.IsZero() {
		return true
	}
	return time.Since(updated) > maxAge
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
