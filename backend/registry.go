// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/ink/render"
)

type entry struct {
	priority int
	factory  Factory
}

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]entry)
)

// Register registers a device factory under name with a selection
// priority. This is typically called from init() functions in backend
// packages. Registering an existing name replaces it.
func Register(name string, priority int, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = entry{priority: priority, factory: factory}
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns registered backend names, highest priority first.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedNames()
}

func sortedNames() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := backends[names[i]].priority, backends[names[j]].priority
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get creates a device from the named backend.
func Get(name string, opts Options) (render.Device, error) {
	registryMu.RLock()
	e, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	dev, err := e.factory(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrBackendNotAvailable, name, err)
	}
	return dev, nil
}

// Default creates a device from the highest priority backend whose
// factory succeeds. GPU backends fall through to software when no adapter
// can be opened.
func Default(opts Options) (render.Device, error) {
	registryMu.RLock()
	names := sortedNames()
	registryMu.RUnlock()

	var errs []error
	for _, name := range names {
		dev, err := Get(name, opts)
		if err == nil {
			return dev, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrBackendNotAvailable
	}
	return nil, errors.Join(errs...)
}

// MustDefault returns the default device or panics.
func MustDefault(opts Options) render.Device {
	dev, err := Default(opts)
	if err != nil {
		panic(err)
	}
	return dev
}
