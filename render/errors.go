// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "errors"

var (
	// ErrPassActive is returned by Begin while another pass is open.
	ErrPassActive = errors.New("render: a pass is already active")

	// ErrPassEnded is returned by draw calls on an ended pass.
	ErrPassEnded = errors.New("render: pass already ended")

	// ErrForeignResource is returned when a target, texture or program was
	// not created by the device it is passed to.
	ErrForeignResource = errors.New("render: resource belongs to another device")

	// ErrInvalidTarget is returned for zero-sized or destroyed targets.
	ErrInvalidTarget = errors.New("render: invalid target")

	// ErrOutOfBounds is returned by ReadPixel for coordinates outside the
	// target.
	ErrOutOfBounds = errors.New("render: pixel out of bounds")

	// ErrDeviceClosed is returned by every operation after Close.
	ErrDeviceClosed = errors.New("render: device closed")
)
