// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/vendorhook/vendorhook/lib/config"
	"github.com/vendorhook/vendorhook/lib/hook"
	"github.com/vendorhook/vendorhook/lib/manifest"
	"github.com/vendorhook/vendorhook/lib/vendoring"
)

// commonParams holds the flags shared by every subcommand.
type commonParams struct {
	root         string
	manifestPath string
	configPath   string
	target       string
	tool         string
	logLevel     string
}

func newCommonFlags(name string) (*commonParams, *pflag.FlagSet) {
	params := &commonParams{}
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&params.root, "root", ".", "project root directory")
	flagSet.StringVar(&params.manifestPath, "manifest", "", "project manifest path (default: vendorhook.jsonc in the root)")
	flagSet.StringVar(&params.configPath, "config", "", "YAML config file overriding the manifest's vendoring section")
	flagSet.StringVar(&params.target, "target", hook.SourceTarget, "build target name")
	flagSet.StringVar(&params.tool, "tool", "", "vendoring tool executable")
	flagSet.StringVar(&params.logLevel, "log-level", "info", "log level: debug, info, warn, or error")
	return params, flagSet
}

// buildHook assembles the hook and its collaborators from the parsed
// flags.
func buildHook(params *commonParams) (*hook.Hook, *slog.Logger, error) {
	logger, err := newLogger(params.logLevel)
	if err != nil {
		return nil, nil, err
	}

	root, err := filepath.Abs(params.root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving project root: %w", err)
	}

	cfg, err := loadConfig(root, params)
	if err != nil {
		return nil, nil, err
	}

	tool := &vendoring.CLITool{
		Executable: params.tool,
		Logger:     logger,
	}

	h, err := hook.New(root, cfg,
		hook.WithTool(tool),
		hook.WithLogger(logger),
		hook.WithTarget(params.target),
	)
	if err != nil {
		return nil, nil, err
	}
	return h, logger, nil
}

// loadConfig resolves the configuration source: an explicit --config
// file wins, otherwise the project manifest's vendoring section.
func loadConfig(root string, params *commonParams) (*config.Config, error) {
	if params.configPath != "" {
		return config.LoadFile(params.configPath)
	}

	manifestPath := params.manifestPath
	if manifestPath == "" {
		located, err := manifest.Locate(root)
		if err != nil {
			return nil, fmt.Errorf("no configuration: %w (or pass --config)", err)
		}
		manifestPath = located
	}

	parsed, err := manifest.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	return parsed.Config()
}

// newLogger builds the CLI logger: human-readable text on stderr,
// matching the level flag.
func newLogger(level string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q (want debug, info, warn, or error)", level)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})), nil
}
