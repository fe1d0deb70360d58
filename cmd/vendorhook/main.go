// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

// Vendorhook drives build-time vendoring around a packaging build.
// Dependencies listed in the project's requirements file are vendored
// into the configured destination before the build and removed from
// the working tree afterward using git, so they ship inside the
// artifact but never pollute the source checkout.
//
// Subcommands:
//
//	vendorhook sync            run the vendoring tool only
//	vendorhook clean           remove vendored files from the tree
//	vendorhook run -- CMD...   full lifecycle around a build command
//
// Configuration comes from the project manifest (vendorhook.jsonc) or
// an explicit --config YAML file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/vendorhook/vendorhook/lib/hook"
	"github.com/vendorhook/vendorhook/lib/process"
	"github.com/vendorhook/vendorhook/lib/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("vendorhook")
		return
	}
	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "-h" || os.Args[1] == "--help" {
		printUsage(os.Stdout)
		if len(os.Args) < 2 {
			os.Exit(2)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "sync":
		if err := runSync(ctx, args); err != nil {
			process.Fatal(err)
		}
	case "clean":
		if err := runClean(ctx, args); err != nil {
			process.Fatal(err)
		}
	case "run":
		code, err := runBuild(ctx, args)
		process.Exit(code, err)
	default:
		fmt.Fprintf(os.Stderr, "vendorhook: unknown subcommand %q\n\n", subcommand)
		printUsage(os.Stderr)
		os.Exit(2)
	}
}

// runSync runs the pre-build step only: the vendoring tool populates
// the destination and the files are left in place. Useful for
// inspecting what would ship.
func runSync(ctx context.Context, args []string) error {
	params, flagSet := newCommonFlags("vendorhook sync")
	if err := parseNoArgs(flagSet, args); err != nil {
		return err
	}

	h, _, err := buildHook(params)
	if err != nil {
		return err
	}
	return h.Initialize(ctx)
}

// runClean runs the cleanup step only. Unlike the lifecycle wrapper,
// a cleanup failure here is the command failing, so it is returned
// rather than downgraded to a warning.
func runClean(ctx context.Context, args []string) error {
	params, flagSet := newCommonFlags("vendorhook clean")
	if err := parseNoArgs(flagSet, args); err != nil {
		return err
	}

	h, _, err := buildHook(params)
	if err != nil {
		return err
	}
	return h.Finalize(ctx)
}

// runBuild wraps a build command in the full lifecycle: vendor, run
// the command, clean up. Cleanup runs even when the build command
// fails, and the exit code mirrors the build command's.
func runBuild(ctx context.Context, args []string) (int, error) {
	params, flagSet := newCommonFlags("vendorhook run")
	if err := flagSet.Parse(args); err != nil {
		return 2, err
	}

	command := flagSet.Args()
	if len(command) == 0 {
		return 2, fmt.Errorf("usage: vendorhook run [flags] -- <build command> [args...]")
	}

	h, logger, err := buildHook(params)
	if err != nil {
		return 1, err
	}

	// Cleanup must survive an interrupt: the signal that cancels ctx
	// also ends the build command, and the git commands that remove the
	// vendored files still have to run after that.
	cleanupCtx := context.WithoutCancel(ctx)

	if err := h.Initialize(ctx); err != nil {
		// The tool may have written files before failing; remove them
		// so the tree is not left in a half-vendored state.
		finalize(cleanupCtx, h, logger)
		return 1, err
	}

	code, buildErr := runChild(command)

	finalize(cleanupCtx, h, logger)

	if buildErr != nil {
		return code, buildErr
	}
	return code, nil
}

// finalize runs cleanup and reports failure as a warning. Silent
// cleanup failure is disallowed — a dirty tree defeats build-time-only
// vendoring — but a produced artifact is not revoked over it.
func finalize(ctx context.Context, h *hook.Hook, logger *slog.Logger) {
	if err := h.Finalize(ctx); err != nil {
		logger.Warn("cleanup failed", "error", err)
	}
}

func parseNoArgs(flagSet *pflag.FlagSet, args []string) error {
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if remaining := flagSet.Args(); len(remaining) > 0 {
		return fmt.Errorf("unexpected argument: %s", remaining[0])
	}
	return nil
}

func printUsage(out *os.File) {
	fmt.Fprint(out, `vendorhook — build-time vendoring around packaging builds

Usage:
  vendorhook sync  [flags]                 vendor dependencies into the tree
  vendorhook clean [flags]                 remove vendored files via git
  vendorhook run   [flags] -- CMD [ARG...] vendor, run the build command, clean up
  vendorhook --version

Flags:
  --root DIR        project root (default ".")
  --manifest FILE   project manifest (default: vendorhook.jsonc in the root)
  --config FILE     YAML config overriding the manifest's vendoring section
  --target NAME     build target name (default "sdist")
  --tool BIN        vendoring tool executable (default "vendoring")
  --log-level LEVEL debug, info, warn, or error (default "info")
`)
}
