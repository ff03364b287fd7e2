package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/corpix/bootstrap/internal/output"
)

// State is a step of a bootstrap run. States are entered in declaration
// order and never revisited.
type State int

const (
	StateCheckDestination State = iota
	StateCopyTree
	StateDiscoverFiles
	StateSubstituteEach
	StatePatchStructuredConfig
	StateDiscardFiles
	StateRenameFiles
	StateInvokeFinalizationHooks
	StateDone
)

var stateNames = [...]string{
	StateCheckDestination:        "check destination",
	StateCopyTree:                "copy tree",
	StateDiscoverFiles:           "discover files",
	StateSubstituteEach:          "substitute",
	StatePatchStructuredConfig:   "patch config",
	StateDiscardFiles:            "discard files",
	StateRenameFiles:             "rename files",
	StateInvokeFinalizationHooks: "finalization hooks",
	StateDone:                    "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Options configure a single Bootstrap run.
type Options struct {
	Source     string // template tree, left untouched
	Target     string // must not exist
	Vars       Vars
	Plan       Plan
	HookPolicy HookPolicy
	Stdout     io.Writer // build hook output, nil discards
	Stderr     io.Writer
}

// Result describes what a run did. On failure it is still returned, with
// Reached set to the state that failed.
type Result struct {
	Target    string
	Templates []string // rewritten files, relative to Target
	Discarded []string
	Renamed   []string
	Detached  bool
	Built     bool
	Warnings  []string
	Reached   State
}

type run struct {
	opts      Options
	result    *Result
	templates []string
	root      string // Target with symlinks resolved
}

// Bootstrap materializes a new project at opts.Target from opts.Source.
//
// A relative Target is made absolute first. An empty Vars.Name is rejected
// before any state is entered. A failure in any state stops the run and
// returns a *StateError. Nothing is rolled back; only a failure in
// StateCheckDestination guarantees the target was not touched.
func Bootstrap(ctx context.Context, opts Options) (*Result, error) {
	if opts.Vars.Name == "" {
		return &Result{Target: opts.Target}, errNoName
	}
	if abs, err := filepath.Abs(opts.Target); err == nil {
		opts.Target = abs
	}
	r := &run{
		opts:   opts,
		result: &Result{Target: opts.Target},
	}
	if r.opts.HookPolicy == "" {
		r.opts.HookPolicy = HookWarn
	}

	steps := []struct {
		state State
		fn    func(context.Context) error
	}{
		{StateCheckDestination, r.checkDestination},
		{StateCopyTree, r.copyTree},
		{StateDiscoverFiles, r.discoverFiles},
		{StateSubstituteEach, r.substituteEach},
		{StatePatchStructuredConfig, r.patchConfig},
		{StateDiscardFiles, r.discardFiles},
		{StateRenameFiles, r.renameFiles},
		{StateInvokeFinalizationHooks, r.finalize},
	}

	for _, step := range steps {
		r.result.Reached = step.state
		if err := ctx.Err(); err != nil {
			return r.result, &StateError{State: step.state, Err: err}
		}
		output.Debug("bootstrap state", "state", step.state.String())
		if err := step.fn(ctx); err != nil {
			return r.result, &StateError{State: step.state, Err: err}
		}
	}

	r.result.Reached = StateDone
	return r.result, nil
}

// CheckDestination fails with ErrAlreadyExists when anything, even a
// dangling symlink, already occupies target. It does no other I/O.
func CheckDestination(target string) error {
	_, err := os.Lstat(target)
	switch {
	case err == nil:
		return opError("check", target, ErrAlreadyExists, nil)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return opError("check", target, ErrIO, err)
	}
}

func (r *run) checkDestination(context.Context) error {
	return CheckDestination(r.opts.Target)
}

func (r *run) copyTree(context.Context) error {
	return CopyTree(r.opts.Source, r.opts.Target)
}

func (r *run) discoverFiles(context.Context) error {
	root, err := filepath.EvalSymlinks(r.opts.Target)
	if err != nil {
		return opError("discover", r.opts.Target, ErrIO, err)
	}
	r.root = root

	p := r.opts.Plan
	paths, err := Discover(r.opts.Target, p.Files, p.Glob, p.Exclude)
	if err != nil {
		return err
	}
	r.templates = paths
	return nil
}

func (r *run) substituteEach(ctx context.Context) error {
	table := r.opts.Plan.Table(r.opts.Vars)
	for _, path := range r.templates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.confined("rewrite", path); err != nil {
			return err
		}
		if err := RewriteFile(path, table.Apply); err != nil {
			return err
		}
		r.result.Templates = append(r.result.Templates, r.rel(path))
	}
	return nil
}

func (r *run) patchConfig(context.Context) error {
	if r.opts.Plan.Config == "" {
		return nil
	}
	path := filepath.Join(r.opts.Target, filepath.FromSlash(r.opts.Plan.Config))
	if err := r.confined("patch", path); err != nil {
		return err
	}
	return PatchConfig(path, r.opts.Vars.ConfigValues())
}

func (r *run) discardFiles(context.Context) error {
	for _, name := range r.opts.Plan.Discard {
		path := filepath.Join(r.opts.Target, filepath.FromSlash(name))
		if _, err := os.Lstat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return opError("discard", path, ErrNotFound, err)
			}
			return opError("discard", path, ErrIO, err)
		}
		if err := os.RemoveAll(path); err != nil {
			return opError("discard", path, ErrIO, err)
		}
		output.Debug("discarded", "path", path)
		r.result.Discarded = append(r.result.Discarded, filepath.ToSlash(name))
	}
	return nil
}

func (r *run) renameFiles(context.Context) error {
	renamed, err := RenameAll(r.opts.Target, r.opts.Plan.Renames, r.opts.Vars.Map())
	r.result.Renamed = renamed
	return err
}

// finalize runs the hooks. Under HookWarn a failure becomes a warning and
// the remaining hooks still run.
func (r *run) finalize(ctx context.Context) error {
	p := r.opts.Plan
	if r.opts.HookPolicy == HookSkip {
		output.Debug("finalization hooks skipped")
		return nil
	}

	if p.DetachRemote != "" {
		detached, err := DetachRemote(r.opts.Target, p.DetachRemote)
		if err := r.hookFailed(err); err != nil {
			return err
		}
		r.result.Detached = detached
	}

	if len(p.Build) > 0 {
		err := RunBuild(ctx, r.opts.Target, p.Build, r.opts.Stdout, r.opts.Stderr)
		if err := r.hookFailed(err); err != nil {
			return err
		}
		r.result.Built = err == nil
	}
	return nil
}

func (r *run) hookFailed(err error) error {
	if err == nil {
		return nil
	}
	if r.opts.HookPolicy == HookFail {
		return err
	}
	output.Warn("finalization hook failed", "err", err)
	r.result.Warnings = append(r.result.Warnings, err.Error())
	return nil
}

// confined rejects a path whose symlinks resolve outside the target, so a
// link copied from the template cannot redirect a write elsewhere. A path
// that does not resolve is left for the caller to report.
func (r *run) confined(op, path string) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil
	}
	ok, err := within(resolved, r.root)
	if err != nil {
		return opError(op, path, ErrIO, err)
	}
	if !ok {
		return opError(op, path, ErrIO, fmt.Errorf("resolves to %s, outside %s", resolved, r.opts.Target))
	}
	return nil
}

func (r *run) rel(path string) string {
	rel, err := filepath.Rel(r.opts.Target, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
