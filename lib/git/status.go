// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"strconv"
	"strings"
)

// FileStatus classifies a working-tree change reported by git status.
type FileStatus int

const (
	// Untracked is a file git does not know about ("??").
	Untracked FileStatus = iota
	// Modified is a tracked file with worktree-side edits.
	Modified
	// Deleted is a tracked file removed from the worktree.
	Deleted
	// Renamed is a file moved to a new path.
	Renamed
	// Copied is a file copied to a new path.
	Copied
)

// String returns the lowercase status name used in log output.
func (s FileStatus) String() string {
	switch s {
	case Untracked:
		return "untracked"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	case Copied:
		return "copied"
	}
	return "unknown"
}

// StatusEntry is one working-tree change from git status output.
type StatusEntry struct {
	// Status classifies the change.
	Status FileStatus

	// Path is the file path relative to the repository root.
	Path string

	// OriginalPath is the pre-rename/pre-copy path for Renamed and
	// Copied entries, empty otherwise.
	OriginalPath string
}

// ParseStatus parses "git status --porcelain=v1" output into entries
// for files whose worktree state differs from the index, plus
// untracked files.
//
// Porcelain v1 lines carry a two-character status code: the first
// character is the index (staged) status, the second the worktree
// status. Entries that are fully staged (index status set, worktree
// clean) are skipped — the build did not touch them, a commit-in-
// progress did. Unmerged conflict entries are also skipped; the build
// cannot reason about them and cleanup must not delete conflict state.
func ParseStatus(output string) []StatusEntry {
	var entries []StatusEntry

	for _, line := range strings.Split(output, "\n") {
		if len(line) < 4 {
			continue
		}

		indexStatus := line[0]
		worktreeStatus := line[1]
		pathPart := line[3:]

		// Fully staged: index has changes, worktree is clean.
		if indexStatus != ' ' && worktreeStatus == ' ' {
			continue
		}

		var original string
		if before, after, found := strings.Cut(pathPart, " -> "); found {
			original = unquotePath(before)
			pathPart = after
		}
		path := unquotePath(pathPart)

		switch {
		case indexStatus == '?' && worktreeStatus == '?':
			entries = append(entries, StatusEntry{Status: Untracked, Path: path})
		case worktreeStatus == 'M':
			entries = append(entries, StatusEntry{Status: Modified, Path: path, OriginalPath: original})
		case worktreeStatus == 'D':
			entries = append(entries, StatusEntry{Status: Deleted, Path: path})
		case worktreeStatus == 'R' || indexStatus == 'R':
			entries = append(entries, StatusEntry{Status: Renamed, Path: path, OriginalPath: original})
		case worktreeStatus == 'C' || indexStatus == 'C':
			entries = append(entries, StatusEntry{Status: Copied, Path: path, OriginalPath: original})
		}
	}

	return entries
}

// Paths extracts the file paths from status entries, preserving order.
func Paths(entries []StatusEntry) []string {
	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = entry.Path
	}
	return paths
}

// FilterStatus returns the entries whose status is one of the given
// statuses, preserving order.
func FilterStatus(entries []StatusEntry, statuses ...FileStatus) []StatusEntry {
	var filtered []StatusEntry
	for _, entry := range entries {
		for _, status := range statuses {
			if entry.Status == status {
				filtered = append(filtered, entry)
				break
			}
		}
	}
	return filtered
}

// unquotePath undoes git's C-style quoting of paths containing spaces
// or special characters. Unquoted paths pass through unchanged; quoted
// paths that fail to parse are returned verbatim rather than dropped,
// so a malformed line degrades to a cosmetic problem instead of a
// missed cleanup.
func unquotePath(path string) string {
	if len(path) < 2 || path[0] != '"' {
		return path
	}
	unquoted, err := strconv.Unquote(path)
	if err != nil {
		return path
	}
	return unquoted
}
