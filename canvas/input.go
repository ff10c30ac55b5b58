// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"math"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ink"
)

// HandlePointer feeds one pointer event to the canvas. Mouse, pen and touch
// are handled alike; pointer coordinates are logical pixels and are scaled
// by the window's scale factor.
//
// A press adds a sprite and starts a stroke, moves while pressed extend it
// with evenly spaced sprites, and moves while released are hover. Cancel
// ends a stroke like a release. Events before the first Resize are dropped.
func (c *Canvas) HandlePointer(ev gpucontext.PointerEvent) {
	if c.closed || c.width == 0 {
		return
	}
	var pos ink.Point
	switch ev.Type {
	case gpucontext.PointerDown:
		pos = c.locate(ev.X, ev.Y)
		c.press(pos)
	case gpucontext.PointerMove:
		pos = c.locate(ev.X, ev.Y)
		c.move(pos)
	case gpucontext.PointerUp, gpucontext.PointerCancel:
		pos = c.locate(ev.X, ev.Y)
		c.release(pos)
	default:
		return
	}
	c.lastPos = pos
}

// locate converts a logical window position to canvas space and remembers
// the physical pixel for picking.
func (c *Canvas) locate(x, y float64) ink.Point {
	sf := 1.0
	if c.deps.Window != nil {
		sf = c.deps.Window.ScaleFactor()
	}
	px, py := x*sf, y*sf
	c.pointerX, c.pointerY = int(math.Floor(px)), int(math.Floor(py))
	v := c.r.Viewport()
	return v.Rescale(float32(px), float32(py))
}

func (c *Canvas) press(pos ink.Point) {
	if c.down {
		return
	}
	c.down = true
	cursor := c.r.AddPoint(pos)
	tl := c.deps.Timeline
	tl.HoverEnd()
	tl.PressStart(pos, c.r.SpriteCount(), cursor)
	c.RequestIncrementalDraw()
}

func (c *Canvas) move(pos ink.Point) {
	if !c.down {
		c.deps.Timeline.HoverMove(pos)
		return
	}
	cursor := c.r.AddStroke(ink.Seg(c.lastPos, pos))
	c.deps.Timeline.PressMove(pos, cursor)
	c.RequestIncrementalDraw()
}

func (c *Canvas) release(pos ink.Point) {
	if !c.down {
		return
	}
	c.down = false
	tl := c.deps.Timeline
	tl.PressEnd()
	tl.HoverStart(pos)
}

// HandleScroll scrolls the canvas with the wheel. One wheel notch moves the
// scrollbar by 120/ScrollSensitivity units. Chrome implementing Scroller
// gets the first chance to apply the change to its own scrollbar.
func (c *Canvas) HandleScroll(ev gpucontext.ScrollEvent) {
	if c.closed {
		return
	}
	var delta float64
	switch ev.DeltaMode {
	case gpucontext.ScrollDeltaLine:
		delta = ev.DeltaY * wheelNotch
	case gpucontext.ScrollDeltaPage:
		v := c.r.Viewport()
		delta = ev.DeltaY * float64(v.PageStep()) * c.opts.scrollSensitivity
	default:
		delta = ev.DeltaY
	}
	units := int(math.Round(delta / c.opts.scrollSensitivity))
	if units == 0 {
		return
	}
	if s, ok := c.chrome.(Scroller); ok && s.ScrollBy(units) {
		return
	}
	c.ScrollBy(units)
}
