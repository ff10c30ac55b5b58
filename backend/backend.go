// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"

	"github.com/gogpu/ink/render"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or its factory fails.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Selection priorities. Higher wins in Default.
const (
	PrioritySoftware = 10
	PriorityGPU      = 100
)

// Options are passed to every factory.
type Options struct {
	// Handle is the host's GPU device. Backends that can share a host
	// device use it; nil asks them to open their own.
	Handle render.DeviceHandle

	// Label prefixes debug labels of created resources.
	Label string
}

// Factory creates a device.
type Factory func(opts Options) (render.Device, error)
