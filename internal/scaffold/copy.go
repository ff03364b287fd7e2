package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/corpix/bootstrap/internal/output"
	"github.com/corpix/bootstrap/internal/platform"
)

// CopyTree recursively copies source to destination. Symbolic links are
// recreated as links with the same target text, regular files keep their
// bytes and permission bits, directories keep their modes. Sockets, devices
// and named pipes are skipped.
//
// destination must not exist; that check runs before any other I/O and
// fails with ErrAlreadyExists. Any later failure returns ErrCopy and leaves
// whatever was already copied on disk.
func CopyTree(source, destination string) error {
	if _, err := os.Lstat(destination); err == nil {
		return opError("copy", destination, ErrAlreadyExists, nil)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return opError("copy", destination, ErrCopy, err)
	}

	info, err := os.Stat(source)
	if err != nil {
		return opError("copy", source, ErrCopy, err)
	}
	if !info.IsDir() {
		return opError("copy", source, ErrCopy, errors.New("not a directory"))
	}
	if inside, err := within(destination, source); err != nil {
		return opError("copy", destination, ErrCopy, err)
	} else if inside {
		return opError("copy", destination, ErrCopy, fmt.Errorf("destination is inside %s", source))
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return opError("copy", destination, ErrCopy, err)
	}

	output.Debug("copying tree", "source", source, "destination", destination)
	return copyDir(source, destination, info.Mode())
}

// copyDir creates dst owner-writable, fills it, then applies mode so that
// read-only source directories can still be copied.
func copyDir(src, dst string, mode fs.FileMode) error {
	if err := os.Mkdir(dst, 0o700); err != nil {
		return opError("copy", dst, ErrCopy, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return opError("copy", src, ErrCopy, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch t := entry.Type(); {
		case t&fs.ModeSymlink != 0:
			if err := platform.CopySymlink(srcPath, dstPath); err != nil {
				return opError("copy", srcPath, ErrCopy, err)
			}
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return opError("copy", srcPath, ErrCopy, err)
			}
			if err := copyDir(srcPath, dstPath, info.Mode()); err != nil {
				return err
			}
		case t.IsRegular():
			if err := copyFile(srcPath, dstPath); err != nil {
				return opError("copy", srcPath, ErrCopy, err)
			}
		default:
			output.Debug("skipping special file", "path", srcPath, "type", t.String())
		}
	}

	if err := platform.Chmod(dst, mode.Perm()); err != nil {
		return opError("copy", dst, ErrCopy, err)
	}
	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// The umask may have masked bits off at creation time.
	return platform.PreserveMode(src, dst)
}

// within reports whether path equals or lies below dir.
func within(path, dir string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}
