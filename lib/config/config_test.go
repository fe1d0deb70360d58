// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// projectRoot creates a temp project root containing a requirements
// file and an empty destination directory.
func projectRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "vendor-requirements.txt"), []byte("urllib3==2.0.4\n"), 0644); err != nil {
		t.Fatalf("write requirements: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "src", "_vendor"), 0755); err != nil {
		t.Fatalf("mkdir destination: %v", err)
	}
	return root
}

func TestFromOptions(t *testing.T) {
	t.Parallel()

	cfg, err := FromOptions(map[string]any{
		"destination":  "src/_vendor",
		"requirements": "vendor-requirements.txt",
		"namespace":    "myapp._vendor",
		"vendor-args":  []string{"--verbose"},
	})
	if err != nil {
		t.Fatalf("FromOptions: %v", err)
	}

	if cfg.Destination != "src/_vendor" {
		t.Errorf("Destination = %q", cfg.Destination)
	}
	if cfg.Requirements != "vendor-requirements.txt" {
		t.Errorf("Requirements = %q", cfg.Requirements)
	}
	if cfg.Namespace != "myapp._vendor" {
		t.Errorf("Namespace = %q", cfg.Namespace)
	}
	if !reflect.DeepEqual(cfg.VendorArgs, []string{"--verbose"}) {
		t.Errorf("VendorArgs = %v", cfg.VendorArgs)
	}
	if !cfg.AbortOnChangedFiles {
		t.Error("AbortOnChangedFiles should default to true")
	}
	if !reflect.DeepEqual(cfg.ProtectedFiles, []string{"__init__.py"}) {
		t.Errorf("ProtectedFiles = %v, want default", cfg.ProtectedFiles)
	}
}

func TestFromOptions_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := FromOptions(map[string]any{
		"destination":            "src/_vendor",
		"requirements":           "vendor-requirements.txt",
		"abort-on-changed-files": false,
		"protected-files":        []string{"__init__.py", "LICENSE"},
	})
	if err != nil {
		t.Fatalf("FromOptions: %v", err)
	}

	if cfg.AbortOnChangedFiles {
		t.Error("AbortOnChangedFiles = true, want false")
	}
	if !cfg.IsProtected("LICENSE") {
		t.Error("LICENSE should be protected")
	}
	if cfg.IsProtected("somefile.py") {
		t.Error("somefile.py should not be protected")
	}
}

func TestFromOptions_UnknownOption(t *testing.T) {
	t.Parallel()

	_, err := FromOptions(map[string]any{
		"destination": "src/_vendor",
		"destinatoin": "typo",
	})
	if err == nil {
		t.Fatal("expected error for unknown option")
	}

	var configErr *ConfigurationError
	if !errors.As(err, &configErr) {
		t.Errorf("error type = %T, want *ConfigurationError", err)
	}
}

func TestFromOptions_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := FromOptions(nil)
	if err != nil {
		t.Fatalf("FromOptions(nil): %v", err)
	}
	if cfg.Destination != "" || !cfg.AbortOnChangedFiles {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vendorhook.yaml")
	content := "destination: src/_vendor\nrequirements: vendor-requirements.txt\nnamespace: myapp._vendor\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Destination != "src/_vendor" || cfg.Namespace != "myapp._vendor" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var configErr *ConfigurationError
	if !errors.As(err, &configErr) {
		t.Errorf("error type = %T, want *ConfigurationError", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	root := projectRoot(t)
	cfg := &Config{
		Destination:  "src/_vendor",
		Requirements: "vendor-requirements.txt",
	}

	if err := cfg.Validate(root); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	t.Parallel()

	root := projectRoot(t)
	err := (&Config{}).Validate(root)
	if err == nil {
		t.Fatal("expected error for empty config")
	}

	var configErr *ConfigurationError
	if !errors.As(err, &configErr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
	// Both problems should be reported at once.
	message := err.Error()
	for _, want := range []string{"destination is required", "requirements is required"} {
		if !strings.Contains(message, want) {
			t.Errorf("error %q missing %q", message, want)
		}
	}
}

func TestValidate_MissingRequirementsFile(t *testing.T) {
	t.Parallel()

	root := projectRoot(t)
	cfg := &Config{
		Destination:  "src/_vendor",
		Requirements: "does-not-exist.txt",
	}

	if err := cfg.Validate(root); err == nil {
		t.Fatal("expected error for missing requirements file")
	}
}

func TestValidate_EscapingDestination(t *testing.T) {
	t.Parallel()

	root := projectRoot(t)
	cfg := &Config{
		Destination:  "../outside",
		Requirements: "vendor-requirements.txt",
	}

	if err := cfg.Validate(root); err == nil {
		t.Fatal("expected error for destination escaping the root")
	}
}

func TestDestinationPath(t *testing.T) {
	t.Parallel()

	cfg := &Config{Destination: "src/_vendor"}
	want := filepath.Join("/project", "src", "_vendor")
	if got := cfg.DestinationPath("/project"); got != want {
		t.Errorf("DestinationPath = %q, want %q", got, want)
	}
}
