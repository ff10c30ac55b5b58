// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ink is the rendering and hit-testing core of a stylus drawing
// tool built around a timeline of strokes.
//
// # Overview
//
// Pointer samples arrive sparse and unevenly spaced. The Renderer turns
// them into a dense sequence of evenly spaced ink sprites stored in an
// append-only SpriteArena, draws ranges of that arena as strokes, and
// resolves clicks to objects by drawing every object in a unique pick
// colour into an off-screen target and reading one pixel back.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ink"
//	    "github.com/gogpu/ink/backend/software"
//	)
//
//	dev := software.New()
//	r, _ := ink.NewRenderer(dev)
//	r.WindowSizeChanged(800, 600)
//
//	r.AddPoint(ink.Pt(0, 0))
//	n := r.AddStroke(ink.Seg(ink.Pt(0, 0), ink.Pt(5000, 0)))
//
// # Coordinate System
//
// Sprites live in fixed-point normalized space: both axes span
// [-FixedScale, FixedScale], X grows right and Y grows up. The canvas is
// DefaultCanvasRatio times taller than wide; the Viewport's zoom and scroll
// select the visible slice. Use Viewport.Rescale to map window pixels into
// sprite space.
//
// # Picking
//
// Object IDs are 24-bit. EncodePickID stores the low byte in red, the middle
// byte in green and the high byte in blue. The picking target clears to
// white, so empty space reads back as NoPick.
//
// # Architecture
//
//   - ink: Renderer, SpriteArena, Walker, Viewport, pick colours
//   - ink/shader: WGSL programs with naga reflection
//   - ink/render: device abstraction and scoped passes
//   - ink/backend: software and wgpu devices
//   - ink/canvas: per-frame orchestration and input
//   - ink/recording: reference timeline and selection
package ink

// Version is the current version of the library.
const Version = "0.1.0"
