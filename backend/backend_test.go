// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/ink/render"
)

// fakeDevice only answers Name; registry tests never draw.
type fakeDevice struct {
	render.Device
	name string
}

func (d *fakeDevice) Name() string { return d.name }

func register(t *testing.T, name string, priority int, fail bool) {
	t.Helper()
	Register(name, priority, func(Options) (render.Device, error) {
		if fail {
			return nil, errors.New("no adapter")
		}
		return &fakeDevice{name: name}, nil
	})
	t.Cleanup(func() { Unregister(name) })
}

func TestRegistryRegisterAndGet(t *testing.T) {
	register(t, "test-a", 1, false)

	if !IsRegistered("test-a") {
		t.Fatal("test-a should be registered")
	}
	dev, err := Get("test-a", Options{})
	if err != nil {
		t.Fatalf("Get(test-a) error = %v", err)
	}
	if dev.Name() != "test-a" {
		t.Errorf("Name() = %q, want %q", dev.Name(), "test-a")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	_, err := Get("nonexistent", Options{})
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Get(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegistryGetFactoryError(t *testing.T) {
	register(t, "test-broken", 1, true)

	_, err := Get("test-broken", Options{})
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegistryAvailableOrder(t *testing.T) {
	register(t, "test-low", -2, false)
	register(t, "test-high", 1000, false)

	names := Available()
	if len(names) < 2 || names[0] != "test-high" {
		t.Fatalf("Available() = %v, want test-high first", names)
	}
	if names[len(names)-1] != "test-low" {
		t.Errorf("Available() = %v, want test-low last", names)
	}
}

func TestRegistryDefaultFallsThrough(t *testing.T) {
	register(t, "test-gpu", 1000, true)
	register(t, "test-cpu", 999, false)

	dev, err := Default(Options{})
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if dev.Name() != "test-cpu" {
		t.Errorf("Default() = %q, want test-cpu", dev.Name())
	}
}

func TestRegistryMustDefault(t *testing.T) {
	register(t, "test-only", 1000, false)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	if dev := MustDefault(Options{}); dev == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryUnregister(t *testing.T) {
	Register("test-backend", 1, func(Options) (render.Device, error) {
		return &fakeDevice{name: "test-backend"}, nil
	})
	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	Unregister("test-backend")

	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}
