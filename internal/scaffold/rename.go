package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/corpix/bootstrap/internal/output"
)

// RenameSpec moves From to To, both relative to the project root. To may
// contain {placeholders}.
type RenameSpec struct {
	From string
	To   string
}

// RenameAll applies specs in order and returns the new relative paths.
// Specs run one after another against the live tree, so nested renames
// must be listed leaf first: renaming "pkg/old.ext" before "pkg" works,
// the reverse order fails because "pkg/old.ext" no longer exists.
// Missing parents of a destination are created.
func RenameAll(root string, specs []RenameSpec, vars map[string]string) ([]string, error) {
	renamed := make([]string, 0, len(specs))

	for _, spec := range specs {
		to := Expand(spec.To, vars)
		from := filepath.FromSlash(spec.From)
		dest := filepath.FromSlash(to)
		if !filepath.IsLocal(from) || !filepath.IsLocal(dest) {
			return renamed, opError("rename", spec.From, ErrRename,
				fmt.Errorf("%s -> %s leaves the project root", spec.From, to))
		}

		src := filepath.Join(root, from)
		dst := filepath.Join(root, dest)
		if _, err := os.Lstat(src); err != nil {
			return renamed, opError("rename", src, ErrRename, err)
		}
		if src == dst {
			continue
		}
		if _, err := os.Lstat(dst); err == nil {
			return renamed, opError("rename", dst, ErrRename, ErrAlreadyExists)
		}

		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return renamed, opError("rename", dst, ErrRename, err)
		}
		if err := os.Rename(src, dst); err != nil {
			return renamed, opError("rename", src, ErrRename, err)
		}

		output.Debug("renamed", "from", spec.From, "to", to)
		renamed = append(renamed, filepath.ToSlash(dest))
	}
	return renamed, nil
}
