// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import "errors"

// Common errors returned by Canvas operations.
var (
	// ErrClosed is returned when operations are attempted on a closed canvas.
	ErrClosed = errors.New("canvas: canvas is closed")

	// ErrNilRenderer is returned by New without a renderer.
	ErrNilRenderer = errors.New("canvas: nil renderer")

	// ErrNilTimeline is returned by New without a timeline.
	ErrNilTimeline = errors.New("canvas: nil timeline")

	// ErrNotSized is returned by Frame before the first successful Resize.
	ErrNotSized = errors.New("canvas: not sized")

	// ErrFramebuffer is returned when the canvas or picking target cannot be
	// allocated. The canvas keeps its previous targets and retries on the
	// next Frame or Resize.
	ErrFramebuffer = errors.New("canvas: framebuffer allocation failed")

	// ErrInvalidDrawContext is returned when the host texture cannot be drawn.
	ErrInvalidDrawContext = errors.New("canvas: texture does not implement gpucontext.Texture")

	// ErrInvalidRenderer is returned when the draw context has no texture
	// creator.
	ErrInvalidRenderer = errors.New("canvas: draw context has no gpucontext.TextureCreator")
)
