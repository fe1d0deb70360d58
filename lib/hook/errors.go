// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import (
	"fmt"
)

// DirtyTreeError reports uncommitted changes under the vendor
// destination before vendoring ran. Building would mix stale local
// edits into the artifact, and cleanup would destroy them.
type DirtyTreeError struct {
	// Destination is the vendor directory, relative to the project root.
	Destination string

	// Untracked and Modified list the offending paths.
	Untracked []string
	Modified  []string
}

func (e *DirtyTreeError) Error() string {
	return fmt.Sprintf("uncommitted changes in vendor directory %s: "+
		"commit or stash these changes before building, or set "+
		"abort-on-changed-files: false to ignore", e.Destination)
}

// CleanupError reports that post-build cleanup failed and the working
// tree may still hold vendored files. The artifact, if one was
// produced, is unaffected — callers surface this as a warning, never
// silently.
type CleanupError struct {
	// Destination is the vendor directory that may remain dirty.
	Destination string

	// Err is the underlying failure.
	Err error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleaning vendored files from %s: %v (vendored files may remain in the working tree)",
		e.Destination, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}
