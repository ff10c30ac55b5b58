// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package recording is a reference timeline for the canvas: it records
// pen strokes as objects over ranges of the renderer's sprite arena, draws
// them back, plays them in arena order and resolves selections.
//
// # Architecture
//
//   - Recorder: live timeline; implements canvas.Timeline and
//     canvas.Selection
//   - Object: one drawable, a sprite range with colour, size, transform
//     and pick ID
//   - Recording: immutable snapshot of the objects, replayable into any
//     Drawer
//
// # Basic Usage
//
//	rec := recording.NewRecorder(renderer.Arena())
//	c, _ := canvas.New(renderer, canvas.Deps{Timeline: rec, Selection: rec})
//	rec.SetRedrawRequester(c.RequestRedraw)
//
//	rec.SetColor(ink.Hex("#1e3a8a"))
//	rec.SetPointSize(12)
//	// pointer input through c.HandlePointer now records strokes
//
// # Object IDs
//
// IDs double as pick colours and therefore live in 24 bits. They are
// handed out from 1 upwards; ink.NoPick, the colour of the empty picking
// background, is never used. Adding an object with an ID outside that
// space is an error.
//
// The Recorder is not safe for concurrent use.
package recording
