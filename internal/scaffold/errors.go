package scaffold

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with errors.Is.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrSearch        = errors.New("template search failed")
	ErrIO            = errors.New("i/o failure")
	ErrRename        = errors.New("rename failed")
	ErrCopy          = errors.New("copy failed")
	ErrConfig        = errors.New("invalid structured config")
	ErrHook          = errors.New("finalization hook failed")
)

// OpError records the operation and path that failed.
type OpError struct {
	Op   string // e.g. "copy", "rewrite", "rename"
	Path string
	Kind error // one of the Err* kinds above
	Err  error // underlying cause, may be nil
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause, so errors.Is matches
// ErrRename as well as fs.ErrNotExist.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func opError(op, path string, kind, err error) error {
	return &OpError{Op: op, Path: path, Kind: kind, Err: err}
}

// StateError wraps a failure with the orchestrator state it happened in.
type StateError struct {
	State State
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// Hint returns user guidance for err. Failures after the copy started
// leave a partial tree behind, which must be removed before retrying.
func Hint(err error, target string) string {
	var se *StateError
	if !errors.As(err, &se) {
		return ""
	}
	switch {
	case se.State == StateCheckDestination:
		return fmt.Sprintf("choose another directory or remove %s first", target)
	case se.State > StateCheckDestination:
		return fmt.Sprintf("%s may be partially written; remove it and run again", target)
	}
	return ""
}
