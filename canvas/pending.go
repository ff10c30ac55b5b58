// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

// Pending is the work requested for the next frame. Higher values include
// the work of lower ones, so requests merge by taking the maximum.
type Pending uint8

const (
	// PendingNone requests only presentation.
	PendingNone Pending = iota

	// PendingIncremental draws newly added sprites on top of the canvas.
	PendingIncremental

	// PendingRedraw clears the canvas and redraws everything visible.
	PendingRedraw

	// PendingPicking resolves the object under the pointer, then redraws.
	PendingPicking
)

// String implements fmt.Stringer.
func (p Pending) String() string {
	switch p {
	case PendingNone:
		return "none"
	case PendingIncremental:
		return "incremental"
	case PendingRedraw:
		return "redraw"
	case PendingPicking:
		return "picking"
	default:
		return "unknown"
	}
}

// merge returns the stronger of two requests.
func (p Pending) merge(q Pending) Pending {
	return max(p, q)
}
