// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

// Package hook implements the build hook adapter: the bridge between a
// packaging backend's build lifecycle and the external vendoring tool.
//
// The lifecycle is one pass per build, strictly ordered:
//
//  1. Initialize — validate configuration, guard against uncommitted
//     changes under the destination, run the vendoring tool. After
//     Initialize the destination holds the vendored dependencies and
//     the host assembles them into the artifact.
//  2. Finalize — after artifact assembly (successful or not), remove
//     everything vendoring wrote using git, so the working tree never
//     retains vendored files outside a build.
//
// Finalize is safe to call even when Initialize failed partway: the
// vendoring tool may have written files before failing, and those must
// not survive either.
package hook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vendorhook/vendorhook/lib/config"
	"github.com/vendorhook/vendorhook/lib/git"
	"github.com/vendorhook/vendorhook/lib/treehash"
	"github.com/vendorhook/vendorhook/lib/vendoring"
)

// SourceTarget is the build target name for source archives. Vendoring
// always runs for source builds; for other targets it is skipped when
// the build root is an unpacked source archive (see sourceMarker).
const SourceTarget = "sdist"

// sourceMarker is the file whose presence in the project root marks an
// unpacked source archive. Building a wheel from an extracted sdist
// must not vendor again — the sdist already contains the vendored
// files.
const sourceMarker = "PKG-INFO"

// Git is the version-control surface the hook needs. *git.Repository
// implements it; tests substitute fakes.
type Git interface {
	IsWorkTree(ctx context.Context) bool
	Status(ctx context.Context, paths ...string) ([]git.StatusEntry, error)
	StagedPaths(ctx context.Context, path string) ([]string, error)
	HasTracked(ctx context.Context, path string) (bool, error)
	Clean(ctx context.Context, path string) error
	Restore(ctx context.Context, path string) error
}

// Hook is the build hook adapter for one build invocation. Not safe
// for concurrent use; the build lifecycle is strictly sequential.
type Hook struct {
	root   string
	cfg    *config.Config
	tool   vendoring.Tool
	git    Git
	logger *slog.Logger
	target string

	// skipped is set when Initialize decided vendoring is not needed
	// for this build (wheel-from-sdist). Finalize is then a no-op.
	skipped bool

	// preDigest is the destination digest recorded before vendoring,
	// used by Finalize to verify the tree was restored.
	preDigest     treehash.Digest
	havePreDigest bool
}

// Option configures a Hook.
type Option func(*Hook)

// WithTool injects the vendoring tool collaborator.
func WithTool(tool vendoring.Tool) Option {
	return func(h *Hook) { h.tool = tool }
}

// WithGit injects the version-control collaborator.
func WithGit(g Git) Option {
	return func(h *Hook) { h.git = g }
}

// WithLogger sets the logger. The default discards nothing — it logs
// to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hook) { h.logger = logger }
}

// WithTarget sets the build target name the host backend is producing
// (e.g. "sdist", "wheel"). Defaults to SourceTarget, which always
// vendors.
func WithTarget(target string) Option {
	return func(h *Hook) { h.target = target }
}

// New constructs a hook for the given project root and validated
// configuration. Returns a *config.ConfigurationError when required
// options are missing or malformed; in that case no subprocess will
// ever be spawned for this build.
func New(root string, cfg *config.Config, options ...Option) (*Hook, error) {
	if err := cfg.Validate(root); err != nil {
		return nil, err
	}

	h := &Hook{
		root:   root,
		cfg:    cfg,
		target: SourceTarget,
	}
	for _, option := range options {
		option(h)
	}
	if h.tool == nil {
		h.tool = &vendoring.CLITool{}
	}
	if h.git == nil {
		h.git = git.NewRepository(root)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h, nil
}

// FromOptions constructs a hook from the raw option mapping a host
// backend read out of project metadata.
func FromOptions(root string, options map[string]any, hookOptions ...Option) (*Hook, error) {
	cfg, err := config.FromOptions(options)
	if err != nil {
		return nil, err
	}
	return New(root, cfg, hookOptions...)
}

// Config returns the build configuration the hook was constructed
// with. The caller must not mutate it.
func (h *Hook) Config() *config.Config {
	return h.cfg
}

// Skipped reports whether Initialize decided this build does not
// vendor (wheel built from an extracted sdist).
func (h *Hook) Skipped() bool {
	return h.skipped
}

// Initialize runs the pre-build step: the dirty-destination guard and
// the vendoring tool. On success the destination directory holds the
// vendored dependencies, ready for the host to package.
//
// Errors are fatal to the build: *DirtyTreeError from the guard,
// *vendoring.InvocationError from the tool. The caller should still
// run Finalize afterward to remove partial writes.
func (h *Hook) Initialize(ctx context.Context) error {
	// Building a non-source target from an unpacked source archive:
	// the archive already contains the vendored files, and there is no
	// git work tree to clean against.
	if h.target != SourceTarget {
		if _, err := os.Stat(filepath.Join(h.root, sourceMarker)); err == nil {
			h.logger.Info("skipping vendoring: building from an extracted source archive",
				"target", h.target)
			h.skipped = true
			return nil
		}
	}

	destination := h.cfg.DestinationPath(h.root)

	if _, err := os.Stat(destination); err == nil {
		if err := h.guardDirtyDestination(ctx); err != nil {
			return err
		}
	}

	digest, err := treehash.DirectoryDigest(destination)
	if err != nil {
		h.logger.Warn("cannot snapshot destination before vendoring", "error", err)
	} else {
		h.preDigest = digest
		h.havePreDigest = true
	}

	return h.tool.Sync(ctx, h.root, h.cfg)
}

// guardDirtyDestination checks for uncommitted changes under the
// destination. Outside a work tree the check degrades to a warning —
// there is nothing to compare against.
func (h *Hook) guardDirtyDestination(ctx context.Context) error {
	if !h.git.IsWorkTree(ctx) {
		h.logger.Warn("not a git work tree; cannot check for uncommitted changes",
			"destination", h.cfg.Destination)
		return nil
	}

	entries, err := h.git.Status(ctx, h.cfg.Destination)
	if err != nil {
		h.logger.Warn("could not check for uncommitted changes in vendor directory", "error", err)
		return nil
	}
	staged, err := h.git.StagedPaths(ctx, h.cfg.Destination)
	if err != nil {
		h.logger.Warn("could not check for staged changes in vendor directory", "error", err)
		return nil
	}

	untracked := git.Paths(git.FilterStatus(entries, git.Untracked))
	modified := git.Paths(git.FilterStatus(entries, git.Modified, git.Deleted, git.Renamed, git.Copied))
	modified = append(modified, staged...)

	if len(untracked) == 0 && len(modified) == 0 {
		return nil
	}

	h.logger.Warn("uncommitted changes detected in vendor directory",
		"destination", h.cfg.Destination,
		"untracked", untracked,
		"modified", modified)

	if h.cfg.AbortOnChangedFiles {
		return &DirtyTreeError{
			Destination: h.cfg.Destination,
			Untracked:   untracked,
			Modified:    modified,
		}
	}
	return nil
}

// Finalize removes the vendored files from the working tree after the
// host has finished packaging (or after a failed build). Untracked
// files under the destination are deleted with git clean, tracked
// files reverted with git checkout, and untracked protected files are
// restored from an in-memory snapshot taken before cleaning.
//
// Returns a *CleanupError when cleanup could not run (not a work tree,
// git failure). Callers must report it — a warning, not a build
// failure: the artifact has already been produced.
func (h *Hook) Finalize(ctx context.Context) error {
	if h.skipped {
		return nil
	}

	destination := h.cfg.DestinationPath(h.root)
	if _, err := os.Stat(destination); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if !h.git.IsWorkTree(ctx) {
		return &CleanupError{
			Destination: h.cfg.Destination,
			Err:         errors.New("not a git work tree"),
		}
	}

	h.logger.Info("cleaning vendored files", "destination", h.cfg.Destination)

	protected, err := h.snapshotProtected(destination)
	if err != nil {
		return &CleanupError{Destination: h.cfg.Destination, Err: err}
	}

	if err := h.git.Clean(ctx, h.cfg.Destination); err != nil {
		return &CleanupError{Destination: h.cfg.Destination, Err: err}
	}

	// Revert tracked files only when there are any — checkout fails on
	// a pathspec nothing in the index matches.
	tracked, err := h.git.HasTracked(ctx, h.cfg.Destination)
	if err != nil {
		return &CleanupError{Destination: h.cfg.Destination, Err: err}
	}
	if tracked {
		if err := h.git.Restore(ctx, h.cfg.Destination); err != nil {
			return &CleanupError{Destination: h.cfg.Destination, Err: err}
		}
	}

	if err := h.restoreProtected(destination, protected); err != nil {
		return &CleanupError{Destination: h.cfg.Destination, Err: err}
	}

	h.verifyRestored(destination)
	return nil
}

// protectedFile is the snapshot of one protected file taken before
// cleanup, so files that git does not track can be written back.
type protectedFile struct {
	name    string
	mode    fs.FileMode
	content []byte
}

func (h *Hook) snapshotProtected(destination string) ([]protectedFile, error) {
	var snapshots []protectedFile
	for _, name := range h.cfg.ProtectedFiles {
		path := filepath.Join(destination, name)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading protected file %s: %w", name, err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading protected file %s: %w", name, err)
		}
		snapshots = append(snapshots, protectedFile{
			name:    name,
			mode:    info.Mode().Perm(),
			content: content,
		})
	}
	return snapshots, nil
}

func (h *Hook) restoreProtected(destination string, snapshots []protectedFile) error {
	for _, snapshot := range snapshots {
		path := filepath.Join(destination, snapshot.name)
		if _, err := os.Stat(path); err == nil {
			// git checkout already put it back.
			continue
		}
		if err := os.MkdirAll(destination, 0755); err != nil {
			return fmt.Errorf("restoring protected file %s: %w", snapshot.name, err)
		}
		if err := os.WriteFile(path, snapshot.content, snapshot.mode); err != nil {
			return fmt.Errorf("restoring protected file %s: %w", snapshot.name, err)
		}
	}
	return nil
}

// verifyRestored compares the post-cleanup destination digest with the
// pre-build one. A mismatch is logged, never fatal: the artifact is
// already built and the operator needs to know the tree is off, not
// lose the build.
func (h *Hook) verifyRestored(destination string) {
	if !h.havePreDigest {
		return
	}
	digest, err := treehash.DirectoryDigest(destination)
	if err != nil {
		h.logger.Warn("cannot verify destination restoration", "error", err)
		return
	}
	if digest != h.preDigest {
		h.logger.Warn("destination differs from its pre-build state after cleanup",
			"destination", h.cfg.Destination,
			"before", h.preDigest.String(),
			"after", digest.String())
		return
	}
	h.logger.Info("destination restored to pre-build state", "destination", h.cfg.Destination)
}
