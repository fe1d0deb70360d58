// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

// Package git provides typed access to the git CLI for the repository
// operations vendorhook needs: detecting whether the project root is a
// work tree, listing uncommitted changes under the vendor destination,
// and removing build-time vendored files afterward. All commands target
// a specific directory via the -C flag, which is automatically injected
// by all Repository methods.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Repository represents a git work tree at a specific directory. All
// operations target this directory via "git -C <dir>". There is no
// default directory — callers must always specify which project root
// they mean.
type Repository struct {
	dir string
}

// NewRepository returns a Repository targeting the given directory.
// The directory is normally a project root inside a work tree.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git command targeting this repository and returns
// stdout. Stderr is captured separately and included in error messages
// on failure.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), r.dir, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Command returns an *exec.Cmd for a git command without running it.
// The caller gets full control over Stdin, Stdout, and Stderr before
// starting the process. The -C flag targeting this repository is
// automatically prepended.
func (r *Repository) Command(ctx context.Context, args ...string) *exec.Cmd {
	fullArgs := append([]string{"-C", r.dir}, args...)
	return exec.CommandContext(ctx, "git", fullArgs...)
}

// IsWorkTree reports whether the repository directory is inside a git
// work tree. A missing git binary or any git failure (not a repository,
// bare repository) reports false — callers degrade to warnings rather
// than failing a build when git is unavailable.
func (r *Repository) IsWorkTree(ctx context.Context) bool {
	output, err := r.Run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false
	}
	return strings.TrimSpace(output) == "true"
}

// Status runs "git status --porcelain=v1" limited to the given paths
// (the whole tree when none are given) and parses the output. Returns
// only entries with worktree-side changes plus untracked files; see
// ParseStatus for the exact rules.
func (r *Repository) Status(ctx context.Context, paths ...string) ([]StatusEntry, error) {
	args := []string{"status", "--porcelain=v1"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return ParseStatus(output), nil
}

// StagedPaths returns the paths with staged (index-side) changes under
// the given path. These do not show up in Status when the worktree side
// is clean, but they still mean the directory differs from HEAD.
func (r *Repository) StagedPaths(ctx context.Context, path string) ([]string, error) {
	output, err := r.Run(ctx, "diff", "--name-only", "--cached", "--", path)
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// HasTracked reports whether any tracked files exist under path.
// "git checkout -- path" fails on a pathspec that matches nothing
// known to git, so callers check this before reverting.
func (r *Repository) HasTracked(ctx context.Context, path string) (bool, error) {
	output, err := r.Run(ctx, "ls-files", "--", path)
	if err != nil {
		return false, err
	}
	return len(splitLines(output)) > 0, nil
}

// Clean removes untracked files and directories under path, including
// ignored files ("git clean -fdx -- path"). This is how build-time
// vendored files are deleted: the vendoring tool only ever creates
// untracked files, so clean removes exactly what it wrote.
func (r *Repository) Clean(ctx context.Context, path string) error {
	_, err := r.Run(ctx, "clean", "-fdx", "--", path)
	return err
}

// Restore reverts tracked files under path to their committed state
// ("git checkout -- path"). Run after Clean so that tracked files the
// vendoring tool modified (import rewrites of pre-existing files) are
// put back.
func (r *Repository) Restore(ctx context.Context, path string) error {
	_, err := r.Run(ctx, "checkout", "--", path)
	return err
}

// splitLines splits command output into trimmed non-empty lines.
func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
