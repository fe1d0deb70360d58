// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

// Package config defines the build configuration for the vendoring
// hook.
//
// Configuration reaches the hook one of two ways:
//   - FromOptions: the host packaging backend hands the hook its raw
//     option mapping from project metadata.
//   - LoadFile: a standalone YAML file for CLI runs.
//
// The configuration is immutable for the duration of one build. The
// hook only reads it; ownership stays with the host.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultProtectedFiles are the destination files cleanup must never
// delete when no protected-files option is given. __init__.py marks
// the vendor directory as a package and pre-exists the build.
var DefaultProtectedFiles = []string{"__init__.py"}

// Config is the build configuration for one vendoring run.
type Config struct {
	// Destination is the vendor directory, relative to the project
	// root. The vendoring tool writes into it; cleanup empties it.
	Destination string `yaml:"destination"`

	// Requirements is the path to the requirements file the vendoring
	// tool consumes, relative to the project root.
	Requirements string `yaml:"requirements"`

	// Namespace is the import prefix the vendoring tool rewrites
	// vendored imports to use (e.g. "myapp._vendor").
	Namespace string `yaml:"namespace"`

	// ProtectedFiles are filenames in the destination that must
	// survive cleanup. Defaults to DefaultProtectedFiles.
	ProtectedFiles []string `yaml:"protected-files"`

	// AbortOnChangedFiles aborts the build when the destination has
	// uncommitted changes before vendoring runs. Default true: stale
	// vendored files would silently ship in the artifact otherwise.
	AbortOnChangedFiles bool `yaml:"abort-on-changed-files"`

	// VendorArgs are extra arguments forwarded verbatim to the
	// vendoring tool.
	VendorArgs []string `yaml:"vendor-args"`
}

// ConfigurationError reports a missing or malformed required option.
// The build aborts before any external invocation.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid vendoring configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Default returns the configuration defaults applied before decoding.
// They only cover optional fields — destination and requirements have
// no default and must be configured explicitly.
func Default() *Config {
	return &Config{
		ProtectedFiles:      append([]string(nil), DefaultProtectedFiles...),
		AbortOnChangedFiles: true,
	}
}

// FromOptions decodes the option mapping supplied by the host backend.
// Option names are the kebab-case YAML keys of Config. Unknown options
// are rejected so that a typoed option fails the build loudly instead
// of being silently ignored. Tool-native options are never accepted as
// top-level keys; they go under vendor-args, which is forwarded to the
// vendoring tool verbatim.
func FromOptions(options map[string]any) (*Config, error) {
	data, err := yaml.Marshal(options)
	if err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("encoding options: %w", err)}
	}
	return decode(data, "build options")
}

// LoadFile loads configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("reading %s: %w", path, err)}
	}
	return decode(data, path)
}

func decode(data []byte, source string) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigurationError{Err: fmt.Errorf("parsing %s: %w", source, err)}
	}

	return cfg, nil
}

// Validate checks the configuration against the project root. Returns
// a ConfigurationError joining every problem found, or nil.
func (c *Config) Validate(root string) error {
	var errs []error

	if c.Destination == "" {
		errs = append(errs, errors.New("destination is required"))
	} else if !filepath.IsLocal(c.Destination) {
		errs = append(errs, fmt.Errorf("destination %q escapes the project root", c.Destination))
	}

	if c.Requirements == "" {
		errs = append(errs, errors.New("requirements is required"))
	} else {
		requirementsPath := c.Requirements
		if !filepath.IsAbs(requirementsPath) {
			requirementsPath = filepath.Join(root, requirementsPath)
		}
		if _, err := os.Stat(requirementsPath); err != nil {
			errs = append(errs, fmt.Errorf("requirements file %s: %w", c.Requirements, err))
		}
	}

	if len(errs) > 0 {
		return &ConfigurationError{Err: errors.Join(errs...)}
	}
	return nil
}

// DestinationPath returns the absolute destination directory for the
// given project root.
func (c *Config) DestinationPath(root string) string {
	return filepath.Join(root, c.Destination)
}

// IsProtected reports whether the given filename (a base name, not a
// path) is in the protected list.
func (c *Config) IsProtected(name string) bool {
	for _, protected := range c.ProtectedFiles {
		if protected == name {
			return true
		}
	}
	return false
}
