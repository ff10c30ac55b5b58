// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import "errors"

var (
	// ErrInvalidID is returned for IDs that cannot travel through the
	// picking pass or that collide with its background.
	ErrInvalidID = errors.New("recording: object ID outside pick colour space")

	// ErrDuplicateID is returned when an ID is already in use.
	ErrDuplicateID = errors.New("recording: duplicate object ID")

	// ErrIDSpaceExhausted is returned when every pick ID has been handed out.
	ErrIDSpaceExhausted = errors.New("recording: object IDs exhausted")

	// ErrEmptyObject is returned for objects without sprites or with a
	// range outside the arena.
	ErrEmptyObject = errors.New("recording: object has no sprites")

	// ErrUnknownID is returned for IDs no object carries.
	ErrUnknownID = errors.New("recording: unknown object ID")
)
