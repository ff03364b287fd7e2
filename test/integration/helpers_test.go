//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir     string // BOOTSTRAP_HOME, holds config.yaml and the template cache
	TemplateDir string // a go-boilerplate style template repository
	WorkDir     string // where new projects are created
}

// setupTestEnv creates isolated temp directories and points BOOTSTRAP_HOME
// at one of them. The env var is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:     t.TempDir(),
		TemplateDir: t.TempDir(),
		WorkDir:     t.TempDir(),
	}
	t.Setenv("BOOTSTRAP_HOME", env.HomeDir)
	return env
}

// setupTemplate writes a template tree with a manifest and commits it to a
// git repository whose origin points at the upstream boilerplate.
func setupTemplate(t *testing.T, dir string) {
	t.Helper()

	build := "    - make\n"
	if runtime.GOOS != "windows" {
		build = "    - sh\n    - -c\n    - echo built > BUILD\n"
	}

	writeFile(t, filepath.Join(dir, ".bootstrap.yaml"), `name: go-boilerplate
description: Go service boilerplate
templates:
  files: [go.mod, Makefile, README.md]
  glob: "**/*.go"
  exclude: vendor
substitutions:
  - pattern: Go service boilerplate
    replacement: "{description}"
  - pattern: github.com/corpix/go-boilerplate
    replacement: "{host}/{user}/{name}"
  - pattern: go-boilerplate
    replacement: "{name}"
config: project.json
discard: [bootstrap]
renames:
  - from: cmd/go-boilerplate/go-boilerplate.go
    to: cmd/go-boilerplate/{name}.go
  - from: cmd/go-boilerplate
    to: cmd/{name}
hooks:
  detach_remote: origin
  build:
`+build)
	writeFile(t, filepath.Join(dir, "go.mod"), "module github.com/corpix/go-boilerplate\n\ngo 1.25\n")
	writeFile(t, filepath.Join(dir, "Makefile"), "NAME := go-boilerplate\n\nall:\n\t@echo built > BUILD\n")
	writeFile(t, filepath.Join(dir, "README.md"), "# go-boilerplate\r\n\r\nGo service boilerplate\r\n")
	writeFile(t, filepath.Join(dir, "cmd", "go-boilerplate", "go-boilerplate.go"),
		"package main\n\nimport \"github.com/corpix/go-boilerplate/cli\"\n\nfunc main() { cli.Run() }\n")
	writeFile(t, filepath.Join(dir, "cli", "cli.go"), "package cli\n\nfunc Run() {}\n")
	writeFile(t, filepath.Join(dir, "vendor", "dep", "dep.go"), "package dep // github.com/corpix/go-boilerplate\n")
	writeFile(t, filepath.Join(dir, "project.json"), `{"version":"0.0.1","host":"github.com"}`)
	writeFile(t, filepath.Join(dir, "bootstrap"), "#!/bin/sh\nexec go run github.com/corpix/bootstrap \"$@\"\n")

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("git init: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("git add: %v", err)
	}
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("git commit: %v", err)
	}
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/corpix/go-boilerplate.git"},
	})
	if err != nil {
		t.Fatalf("git remote add: %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected %s to not exist", path)
	}
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	if got := readFile(t, path); got != want {
		t.Errorf("%s:\n got %q\nwant %q", path, got, want)
	}
}

func assertNoResidue(t *testing.T, root, needle string) {
	t.Helper()
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && (d.Name() == ".git" || d.Name() == "vendor") {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		if strings.Contains(readFile(t, path), needle) {
			t.Errorf("%s still contains %q", path, needle)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
}

func remoteNames(t *testing.T, dir string) []string {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("opening repo %s: %v", dir, err)
	}
	remotes, err := repo.Remotes()
	if err != nil {
		t.Fatalf("listing remotes: %v", err)
	}
	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		names = append(names, r.Config().Name)
	}
	return names
}
