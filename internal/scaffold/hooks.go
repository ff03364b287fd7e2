package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
)

// HookPolicy decides what a failing finalization hook does to the run.
type HookPolicy string

const (
	// HookWarn reports hook failures as warnings; the run still succeeds.
	HookWarn HookPolicy = "warn"
	// HookFail aborts the run with ErrHook.
	HookFail HookPolicy = "fail"
	// HookSkip does not run hooks at all.
	HookSkip HookPolicy = "skip"
)

// HookPolicies lists the accepted policy names.
var HookPolicies = []HookPolicy{HookWarn, HookFail, HookSkip}

// ParseHookPolicy converts a flag or config value into a HookPolicy.
// The empty string selects HookWarn.
func ParseHookPolicy(s string) (HookPolicy, error) {
	if s == "" {
		return HookWarn, nil
	}
	for _, p := range HookPolicies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown hook policy %q: must be one of warn, fail, skip", s)
}

// DetachRemote deletes the named remote from the git repository at dir so
// the new project no longer points at the template's origin. It reports
// whether a remote was removed; a directory without a repository, or a
// repository without that remote, has nothing to detach.
func DetachRemote(dir, remote string) (bool, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return false, nil
	}
	if err != nil {
		return false, opError("detach", dir, ErrHook, err)
	}

	if err := repo.DeleteRemote(remote); err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return false, nil
		}
		return false, opError("detach", dir, ErrHook, fmt.Errorf("removing remote %s: %w", remote, err))
	}
	return true, nil
}

// RunBuild runs argv with dir as the working directory. Nil writers discard
// the corresponding stream.
func RunBuild(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) error {
	if len(argv) == 0 {
		return nil
	}

	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return opError("build", argv[0], ErrHook, err)
	}

	cmd := exec.CommandContext(ctx, bin, argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return opError("build", strings.Join(argv, " "), ErrHook, err)
	}
	return nil
}
