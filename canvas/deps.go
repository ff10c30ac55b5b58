// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/render"
)

// Tool is the active editing tool reported by the chrome.
type Tool uint8

// Tools the canvas distinguishes.
const (
	ToolPen Tool = iota
	ToolPointer
)

// Drawer is handed to the timeline to draw strokes into the current pass.
// In picking mode the same calls draw pick colours instead of paint.
type Drawer struct {
	r    *ink.Renderer
	pass render.Pass
}

// DrawStroke draws sprites [from, to) of the arena as one object.
func (d *Drawer) DrawStroke(from, to int, c ink.RGB, pointSize float32, transform ink.Mat4, id ink.PickID) error {
	return d.r.DrawStrokeSpritesRange(d.pass, from, to, c, pointSize, transform, id)
}

// Picking reports whether the draw resolves object IDs.
func (d *Drawer) Picking() bool { return d.r.Picking() }

// Viewport returns the renderer's viewport, for culling.
func (d *Drawer) Viewport() ink.Viewport { return d.r.Viewport() }

// Timeline owns the drawable objects and reacts to pointer input.
// Positions are in fixed-point canvas space.
type Timeline interface {
	// RedrawScreen draws every object visible at the current frame.
	RedrawScreen(d *Drawer) error

	// IncrementalDraw draws what changed since the last draw.
	IncrementalDraw(d *Drawer) error

	// IsPlaying reports whether playback is running.
	IsPlaying() bool

	// CursorPosition is where the playback cursor is drawn.
	CursorPosition() ink.Point

	HoverStart(pos ink.Point)
	HoverMove(pos ink.Point)
	HoverEnd()

	// PressStart begins a stroke. counter is the sprite counter and
	// cursor the arena position after the stroke's first sprite.
	PressStart(pos ink.Point, counter, cursor int)

	// PressMove extends the stroke; cursor is the arena position after
	// the new sprites.
	PressMove(pos ink.Point, cursor int)

	PressEnd()
}

// Selection receives picking results and reports the selection outline.
type Selection interface {
	// SetActiveID is called with the object under pos, or ink.NoPick.
	SetActiveID(id ink.PickID, pos ink.Point)

	// SelectionRect returns the outline to draw, if any.
	SelectionRect() (ink.Rect, bool)
}

// Chrome is the window chrome around the canvas.
type Chrome interface {
	ActiveTool() Tool
	ChildWindowOpen() bool
}

// Scroller is implemented by chrome that owns the canvas scrollbar. The
// canvas forwards wheel input to it and falls back to scrolling itself
// when ScrollBy returns false.
type Scroller interface {
	ScrollBy(units int) bool
}

// Deps are the canvas collaborators. Timeline is required.
type Deps struct {
	Timeline  Timeline
	Selection Selection
	Chrome    Chrome
	Window    gpucontext.WindowProvider
}

type defaultChrome struct{}

func (defaultChrome) ActiveTool() Tool      { return ToolPen }
func (defaultChrome) ChildWindowOpen() bool { return false }
