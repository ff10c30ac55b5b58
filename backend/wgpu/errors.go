// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import "errors"

var (
	// ErrNoAdapter is returned by Open when no GPU adapter is available.
	ErrNoAdapter = errors.New("wgpu: no GPU adapter found")

	// ErrNoHAL is returned when a host device handle does not expose
	// HalDevice() and HalQueue().
	ErrNoHAL = errors.New("wgpu: device handle does not expose HAL types")

	// ErrMissingAttribute is returned when a program lacks the vertex input
	// a draw kind feeds.
	ErrMissingAttribute = errors.New("wgpu: program lacks vertex attribute")
)
