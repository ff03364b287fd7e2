package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrSymlinkUnsupported is returned when the platform refuses to create a
// symbolic link (Windows without developer mode).
var ErrSymlinkUnsupported = errors.New("symbolic links are not supported on this platform")

// IsSymlink reports whether path itself (not its target) is a symbolic link.
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// CopySymlink recreates the symbolic link src at dst with the same target
// text. The target is never resolved, so relative links stay relative and
// dangling links stay dangling.
func CopySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return fmt.Errorf("reading link %s: %w", src, err)
	}

	if err := os.Symlink(target, dst); err != nil {
		if runtime.GOOS == "windows" && !IsSymlinkSupported() {
			return fmt.Errorf("linking %s: %w", dst, ErrSymlinkUnsupported)
		}
		return fmt.Errorf("linking %s -> %s: %w", dst, target, err)
	}
	return nil
}

// IsSymlinkSupported returns true if the current platform supports native symlinks.
// On Windows this attempts a test symlink to check developer mode.
func IsSymlinkSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}

	tmpDir := os.TempDir()
	link := filepath.Join(tmpDir, ".bootstrap-symlink-test")
	defer os.Remove(link)

	return os.Symlink(tmpDir, link) == nil
}
