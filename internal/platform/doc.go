// Package platform provides cross-platform filesystem operations used while
// copying and rewriting a template tree: verbatim symlink duplication and
// permission management. On Windows, symlinks need developer mode and
// permission bits are ignored.
package platform
