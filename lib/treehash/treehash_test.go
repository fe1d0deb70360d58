// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

package treehash

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirectoryDigest_Deterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha")
	writeFile(t, dir, "sub/b.txt", "beta")

	first, err := DirectoryDigest(dir)
	if err != nil {
		t.Fatalf("DirectoryDigest: %v", err)
	}
	second, err := DirectoryDigest(dir)
	if err != nil {
		t.Fatalf("DirectoryDigest: %v", err)
	}
	if first != second {
		t.Errorf("digest not deterministic: %s vs %s", first, second)
	}
}

func TestDirectoryDigest_IdenticalTrees(t *testing.T) {
	t.Parallel()

	left := t.TempDir()
	right := t.TempDir()
	for _, dir := range []string{left, right} {
		writeFile(t, dir, "a.txt", "alpha")
		writeFile(t, dir, "sub/b.txt", "beta")
	}

	leftDigest, err := DirectoryDigest(left)
	if err != nil {
		t.Fatalf("DirectoryDigest(left): %v", err)
	}
	rightDigest, err := DirectoryDigest(right)
	if err != nil {
		t.Fatalf("DirectoryDigest(right): %v", err)
	}
	if leftDigest != rightDigest {
		t.Errorf("identical trees digest differently: %s vs %s", leftDigest, rightDigest)
	}
}

func TestDirectoryDigest_ContentChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha")
	before, err := DirectoryDigest(dir)
	if err != nil {
		t.Fatalf("DirectoryDigest: %v", err)
	}

	writeFile(t, dir, "a.txt", "changed")
	after, err := DirectoryDigest(dir)
	if err != nil {
		t.Fatalf("DirectoryDigest: %v", err)
	}
	if before == after {
		t.Error("digest unchanged after content edit")
	}
}

func TestDirectoryDigest_NewFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha")
	before, err := DirectoryDigest(dir)
	if err != nil {
		t.Fatalf("DirectoryDigest: %v", err)
	}

	writeFile(t, dir, "b.txt", "beta")
	after, err := DirectoryDigest(dir)
	if err != nil {
		t.Fatalf("DirectoryDigest: %v", err)
	}
	if before == after {
		t.Error("digest unchanged after adding a file")
	}
}

func TestDirectoryDigest_MissingEqualsEmpty(t *testing.T) {
	t.Parallel()

	missing, err := DirectoryDigest(filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatalf("DirectoryDigest(missing): %v", err)
	}
	empty, err := DirectoryDigest(t.TempDir())
	if err != nil {
		t.Fatalf("DirectoryDigest(empty): %v", err)
	}
	if missing != empty {
		t.Errorf("missing dir digest %s != empty dir digest %s", missing, empty)
	}
}

func TestDigest_String(t *testing.T) {
	t.Parallel()

	digest, err := DirectoryDigest(t.TempDir())
	if err != nil {
		t.Fatalf("DirectoryDigest: %v", err)
	}
	if len(digest.String()) != 64 {
		t.Errorf("String() length = %d, want 64 hex characters", len(digest.String()))
	}
}
