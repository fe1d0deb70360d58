// Copyright 2026 The Vendorhook Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry holds the static build hook registration table. A
// host packaging backend discovers hooks by name: factories are
// registered once at process start (package init), looked up per
// build, and the table is never mutated during a build — the same
// model as database/sql driver registration.
//
// Importing this package registers the "vendoring" hook.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vendorhook/vendorhook/lib/hook"
)

// VendoringHookName is the extension point name the vendoring hook
// registers under.
const VendoringHookName = "vendoring"

// Factory constructs a hook for one build from the project root and
// the raw option mapping the host read out of project metadata.
type Factory func(root string, options map[string]any, hookOptions ...hook.Option) (*hook.Hook, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a hook factory available under the given name. It
// panics on a duplicate or empty name or a nil factory: registration
// bugs are programmer errors, caught at process start.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	if name == "" {
		panic("registry: Register with empty hook name")
	}
	if factory == nil {
		panic("registry: Register with nil factory for " + name)
	}
	if _, exists := factories[name]; exists {
		panic("registry: Register called twice for hook " + name)
	}
	factories[name] = factory
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()

	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("no build hook registered as %q (known: %v)", name, namesLocked())
	}
	return factory, nil
}

// Names returns the registered hook names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(VendoringHookName, hook.FromOptions)
}
