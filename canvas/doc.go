// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package canvas drives an ink.Renderer once per frame and translates
// pointer input into strokes.
//
// The canvas owns three targets sized to the window: the persistent canvas
// image strokes accumulate in, the colour-coded picking image, and the
// screen image the canvas is composited onto together with the playback
// cursor. Work requested between frames is merged into one Pending value
// and consumed by the next Frame call:
//
//	PendingPicking      draw pick colours, read the pixel under the pointer,
//	                    then fall through to a redraw
//	PendingRedraw       clear the canvas and redraw every visible object
//	PendingIncremental  draw only what was added (also while playing)
//
// # Usage
//
//	c, err := canvas.New(renderer, canvas.Deps{
//	    Timeline: timeline,
//	    Selection: timeline,
//	    Window: app,
//	})
//	c.Resize(800, 600)
//
//	app.OnPointer(c.HandlePointer)
//	app.OnDraw(func(dc gpucontext.TextureDrawer) {
//	    c.Frame(ctx)
//	    c.PresentTo(dc)
//	})
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use. Input handlers and Frame must run
// on the same goroutine, as with any UI event loop.
//
// # Integration Without Circular Imports
//
// The timeline, selection and window chrome are consumed through the narrow
// Timeline, Selection and Chrome interfaces, and the host window through
// gpucontext.WindowProvider and gpucontext.TextureDrawer.
package canvas
