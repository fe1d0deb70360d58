// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

package vendoring

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vendorhook/vendorhook/lib/config"
)

// installFakeTool writes an executable shell script named "vendoring"
// into a fresh directory and puts that directory at the front of PATH.
// The script body receives the invocation arguments as "$@".
func installFakeTool(t *testing.T, script string) {
	t.Helper()

	binDir := t.TempDir()
	path := filepath.Join(binDir, "vendoring")
	content := "#!/bin/sh\n" + script + "\n"
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestCLITool_Sync(t *testing.T) {
	root := t.TempDir()
	// The fake tool records its arguments and working directory.
	installFakeTool(t, `printf '%s\n' "$@" > args.txt; pwd > cwd.txt`)

	cfg := &config.Config{
		Destination: "src/_vendor",
		VendorArgs:  []string{"--verbose"},
	}

	tool := &CLITool{}
	if err := tool.Sync(context.Background(), root, cfg); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	args, err := os.ReadFile(filepath.Join(root, "args.txt"))
	if err != nil {
		t.Fatalf("fake tool did not run in project root: %v", err)
	}
	if got := strings.TrimSpace(string(args)); got != "sync\n--verbose" {
		t.Errorf("tool args = %q, want sync and --verbose", got)
	}
}

func TestCLITool_Sync_NonZeroExit(t *testing.T) {
	root := t.TempDir()
	installFakeTool(t, `echo "resolution failed" >&2; exit 3`)

	tool := &CLITool{}
	err := tool.Sync(context.Background(), root, &config.Config{Destination: "vendor"})
	if err == nil {
		t.Fatal("expected error for non-zero tool exit")
	}

	var invocationErr *InvocationError
	if !errors.As(err, &invocationErr) {
		t.Fatalf("error type = %T, want *InvocationError", err)
	}
	if !strings.Contains(invocationErr.Stderr, "resolution failed") {
		t.Errorf("Stderr = %q, want tool stderr", invocationErr.Stderr)
	}
	if len(invocationErr.Command) == 0 || invocationErr.Command[1] != "sync" {
		t.Errorf("Command = %v, want the sync command line", invocationErr.Command)
	}
}

func TestCLITool_Sync_MissingExecutableNoFallback(t *testing.T) {
	// Restrict PATH to an empty directory so neither the tool nor a
	// fallback runner resolves.
	t.Setenv("PATH", t.TempDir())

	tool := &CLITool{Executable: "definitely-not-installed"}
	err := tool.Sync(context.Background(), t.TempDir(), &config.Config{Destination: "vendor"})
	if err == nil {
		t.Fatal("expected error when the tool is not installed")
	}

	var invocationErr *InvocationError
	if !errors.As(err, &invocationErr) {
		t.Fatalf("error type = %T, want *InvocationError", err)
	}
	if !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("error = %v, want PATH diagnosis", err)
	}
}

func TestCLITool_Sync_FallbackRunner(t *testing.T) {
	root := t.TempDir()

	// Install only the fallback runner; the primary executable is
	// missing, so the command must be re-rooted through the runner.
	binDir := t.TempDir()
	runner := filepath.Join(binDir, "uvx")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > fallback-args.txt\n"
	if err := os.WriteFile(runner, []byte(script), 0755); err != nil {
		t.Fatalf("write fake runner: %v", err)
	}
	t.Setenv("PATH", binDir)

	tool := &CLITool{}
	if err := tool.Sync(context.Background(), root, &config.Config{Destination: "vendor"}); err != nil {
		t.Fatalf("Sync via fallback: %v", err)
	}

	args, err := os.ReadFile(filepath.Join(root, "fallback-args.txt"))
	if err != nil {
		t.Fatalf("fallback runner did not run: %v", err)
	}
	if got := strings.TrimSpace(string(args)); got != "vendoring\nsync" {
		t.Errorf("runner args = %q, want vendoring sync", got)
	}
}
