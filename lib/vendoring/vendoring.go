// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

// Package vendoring invokes the external vendoring tool. The tool owns
// all actual vendoring logic — dependency resolution, import
// rewriting, license collection — and is treated as an opaque
// collaborator: this package only builds its command line, runs it,
// and reports failure.
//
// The Tool interface exists so the hook can be tested with a fake that
// records invocations instead of spawning processes.
package vendoring

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/vendorhook/vendorhook/lib/config"
)

// DefaultExecutable is the vendoring tool binary invoked when none is
// configured.
const DefaultExecutable = "vendoring"

// DefaultFallbackRunner runs the tool through an ephemeral-environment
// runner when the executable itself is not on PATH.
var DefaultFallbackRunner = []string{"uvx"}

// Tool vendors dependencies into the project tree. Sync runs the
// tool's synchronization entry point from the project root; on return
// the configured destination holds the vendored dependencies.
type Tool interface {
	Sync(ctx context.Context, root string, cfg *config.Config) error
}

// InvocationError reports a failed vendoring tool run. The build
// aborts; cleanup is still attempted for any files the tool wrote
// before failing.
type InvocationError struct {
	// Command is the full command line that was run.
	Command []string

	// Stderr is the tool's captured stderr, trimmed.
	Stderr string

	// Err is the underlying process error.
	Err error
}

func (e *InvocationError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("vendoring tool failed: %s: %v", strings.Join(e.Command, " "), e.Err)
	}
	return fmt.Sprintf("vendoring tool failed: %s: %v (stderr: %s)", strings.Join(e.Command, " "), e.Err, e.Stderr)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// CLITool runs the vendoring tool as a subprocess.
type CLITool struct {
	// Executable is the tool binary. Empty means DefaultExecutable.
	Executable string

	// FallbackRunner is prepended to the command line when Executable
	// is not on PATH (e.g. ["uvx"]). Empty means DefaultFallbackRunner;
	// nil-length after defaulting disables the fallback.
	FallbackRunner []string

	// Logger receives the command line before each run. Nil disables
	// logging.
	Logger *slog.Logger
}

// Sync runs "<executable> sync <vendor-args...>" from the project
// root. When the executable is missing from PATH, the command is
// retried through the fallback runner, matching environments where the
// tool is only available via an ephemeral runner.
func (t *CLITool) Sync(ctx context.Context, root string, cfg *config.Config) error {
	executable := t.Executable
	if executable == "" {
		executable = DefaultExecutable
	}

	commandLine := append([]string{executable, "sync"}, cfg.VendorArgs...)

	if _, err := exec.LookPath(executable); err != nil {
		fallback := t.FallbackRunner
		if fallback == nil {
			fallback = DefaultFallbackRunner
		}
		if len(fallback) == 0 {
			return &InvocationError{Command: commandLine, Err: fmt.Errorf("%s not found in PATH", executable)}
		}
		if _, err := exec.LookPath(fallback[0]); err != nil {
			return &InvocationError{
				Command: commandLine,
				Err:     fmt.Errorf("neither %s nor %s found in PATH", executable, fallback[0]),
			}
		}
		commandLine = append(append([]string(nil), fallback...), commandLine...)
	}

	if t.Logger != nil {
		t.Logger.Info("running vendoring tool",
			"command", strings.Join(commandLine, " "),
			"root", root,
			"destination", cfg.Destination)
	}

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, commandLine[0], commandLine[1:]...)
	command.Dir = root
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return &InvocationError{
			Command: commandLine,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	if t.Logger != nil {
		t.Logger.Info("vendoring complete", "destination", cfg.Destination)
	}
	return nil
}
