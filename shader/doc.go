// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader holds the shader unit: one WGSL program compiled and
// validated with naga, plus the uniform, resource and attribute locations
// reflected from it.
//
// A Program also owns a CPU-side copy of its uniform block. Renderers set
// uniforms by name (zoom_scroll, color, manipulation, point_size, viewport)
// and devices upload Program.Uniforms before each draw. Names the program
// does not declare are ignored, the same way a missing GL uniform location
// is.
//
// The built-in programs are embedded:
//
//	stroke          point sprites in paint colour
//	picking         point sprites in encoded pick colour
//	selection_rect  selection outline
//	canvas          textured quad (canvas blit, cursor)
package shader
