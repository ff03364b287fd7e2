package scaffold

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/corpix/bootstrap/internal/output"
	"github.com/corpix/bootstrap/internal/platform"
)

// RewriteFile streams path line by line through transform into a temp file
// in the same directory, then renames the temp file over the original. The
// original is never partially written: until the rename it is untouched,
// after it the new content is complete. Line terminators ("\n" or "\r\n")
// are kept and transform only sees the line body. Permission bits are
// preserved. When path is a symlink its target is rewritten and the link
// is left alone.
func RewriteFile(path string, transform func(string) string) error {
	return replaceFile("rewrite", path, func(src io.Reader, dst io.Writer) error {
		return rewriteLines(src, dst, transform)
	})
}

// replaceFile is the temp-file + rename primitive shared by RewriteFile and
// PatchConfig. fill reads the current content from src and writes the new
// content to dst. The temp descriptor is closed on every path; the temp
// file is removed unless it was renamed into place.
func replaceFile(op, path string, fill func(src io.Reader, dst io.Writer) error) error {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return opError(op, path, ErrIO, err)
	}
	info, err := os.Stat(real)
	if err != nil {
		return opError(op, real, ErrIO, err)
	}
	if !info.Mode().IsRegular() {
		return opError(op, real, ErrIO, errors.New("not a regular file"))
	}

	src, err := os.Open(real)
	if err != nil {
		return opError(op, real, ErrIO, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(real), "."+filepath.Base(real)+".*.tmp")
	if err != nil {
		return opError(op, real, ErrIO, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	werr := fill(src, tmp)
	if werr == nil {
		werr = tmp.Sync()
	}
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		var oe *OpError
		if errors.As(werr, &oe) {
			return werr
		}
		return opError(op, real, ErrIO, werr)
	}

	if err := platform.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return opError(op, real, ErrIO, err)
	}

	// Windows refuses to rename over a file that is still open.
	_ = src.Close()

	if err := os.Rename(tmpPath, real); err != nil {
		return opError(op, real, ErrRename, err)
	}
	committed = true

	output.Debug("rewrote file", "path", real)
	return nil
}

func rewriteLines(src io.Reader, dst io.Writer, transform func(string) string) error {
	r := bufio.NewReader(src)
	w := bufio.NewWriter(dst)

	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			body, eol := splitEOL(line)
			if _, werr := w.WriteString(transform(body)); werr != nil {
				return werr
			}
			if _, werr := w.WriteString(eol); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return w.Flush()
}

func splitEOL(line string) (body, eol string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}
