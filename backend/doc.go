// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend is the registry of render.Device implementations.
//
// Device packages register themselves from init(), so importing them is
// enough to make them selectable:
//
//	import (
//		_ "github.com/gogpu/ink/backend/software"
//		_ "github.com/gogpu/ink/backend/wgpu"
//	)
//
// # Backend Selection
//
// Default tries backends in priority order and returns the first device
// that opens. Get requests a specific backend by name:
//
//	dev, err := backend.Default(backend.Options{})
//
//	// Or share the host's GPU device.
//	dev, err := backend.Get("wgpu", backend.Options{Handle: host})
//
// # Available Backends
//
//   - "wgpu": gogpu/wgpu HAL device (priority 100)
//   - "software": CPU reference device (priority 10, always available)
package backend
