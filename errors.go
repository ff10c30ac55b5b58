// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import "errors"

// Common errors returned by Renderer operations.
var (
	// ErrNilDevice is returned when a Renderer is created without a device.
	ErrNilDevice = errors.New("ink: nil render device")

	// ErrInvalidDimensions is returned when a canvas size is not positive.
	ErrInvalidDimensions = errors.New("ink: invalid dimensions")

	// ErrPickOutOfBounds is returned when a picking readback is requested
	// outside the picking target.
	ErrPickOutOfBounds = errors.New("ink: pick position outside target")

	// ErrInvalidOption is returned when an option carries a value the
	// renderer cannot work with (zero spacing, non-positive ratio).
	ErrInvalidOption = errors.New("ink: invalid option")
)
