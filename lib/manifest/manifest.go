// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest parses project manifests for standalone vendorhook
// runs. Manifests are authored as JSONC (JSON extended with comments
// and trailing commas) so projects can annotate why dependencies are
// vendored. The vendoring section carries the same options a host
// packaging backend would pass to the hook.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/vendorhook/vendorhook/lib/config"
)

// DefaultFilename is the manifest name Locate looks for in a project
// root.
const DefaultFilename = "vendorhook.jsonc"

// Manifest is a parsed project manifest.
type Manifest struct {
	// Name is the project name, used only for log output.
	Name string `json:"name"`

	// Vendoring holds the raw vendoring options. Decoded by Config.
	Vendoring map[string]any `json:"vendoring"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Manifest.
func Parse(data []byte) (*Manifest, error) {
	stripped := jsonc.ToJSON(data)

	var parsed Manifest
	if err := json.Unmarshal(stripped, &parsed); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	return &parsed, nil
}

// ReadFile reads a JSONC manifest from disk and parses it. Returns a
// descriptive error if the file cannot be read or the JSON is
// malformed.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	parsed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return parsed, nil
}

// Locate returns the manifest path in the given project root, or an
// error if no manifest exists there.
func Locate(root string) (string, error) {
	path := filepath.Join(root, DefaultFilename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no %s in %s: %w", DefaultFilename, root, err)
	}
	return path, nil
}

// Config decodes the manifest's vendoring section into a build
// configuration. A manifest without a vendoring section yields the
// configuration defaults, which fail validation later with a clear
// message about the missing required options.
func (m *Manifest) Config() (*config.Config, error) {
	return config.FromOptions(m.Vendoring)
}
