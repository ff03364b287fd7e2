package scaffold

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/corpix/bootstrap/internal/platform"
)

// Discover returns the template files under root: files (joined to root, in
// order, whether or not they exist) followed by every regular file matching
// glob that is not inside the exclude subtree. Paths are absolute. Nothing
// is deduplicated, so a file listed explicitly and matched by glob appears
// twice; rewriting it twice is harmless because a second pass finds no
// pattern left to replace. Symlinks are never matched by glob.
func Discover(root string, files []string, glob, exclude string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, opError("discover", root, ErrIO, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, opError("discover", abs, ErrNotFound, err)
	}
	if !info.IsDir() {
		return nil, opError("discover", abs, ErrNotFound, errors.New("not a directory"))
	}

	paths := make([]string, 0, len(files))
	for _, name := range files {
		paths = append(paths, filepath.Join(abs, filepath.FromSlash(name)))
	}
	if glob == "" {
		return paths, nil
	}

	matches, err := doublestar.Glob(os.DirFS(abs), glob,
		doublestar.WithFilesOnly(),
		doublestar.WithNoFollow(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, opError("discover", path.Join(filepath.ToSlash(abs), glob), ErrSearch, err)
	}

	for _, match := range matches {
		if excluded(match, exclude) {
			continue
		}
		full := filepath.Join(abs, filepath.FromSlash(match))
		link, err := platform.IsSymlink(full)
		if err != nil {
			return nil, opError("discover", full, ErrSearch, err)
		}
		if link {
			continue
		}
		paths = append(paths, full)
	}
	return paths, nil
}

// excluded reports whether the slash-separated rel lies inside subtree.
// Matching is by path segment: "vendor" excludes "vendor/x.go" but not
// "vendored/x.go".
func excluded(rel, subtree string) bool {
	if subtree == "" {
		return false
	}
	subtree = path.Clean(filepath.ToSlash(subtree))
	return rel == subtree || strings.HasPrefix(rel, subtree+"/")
}
