// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/render"
)

// Frame runs one tick: it consumes the pending work, composites the canvas
// onto the screen target and asks the window for the next frame.
//
// Picking completes before the redraw it triggers. Draw failures are
// logged and returned; the remaining steps of the frame still run.
func (c *Canvas) Frame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.closed {
		return ErrClosed
	}
	if c.needTargets {
		if err := c.allocTargets(); err != nil {
			return err
		}
	}
	if c.canvasTarget == nil {
		return ErrNotSized
	}

	work := c.pending
	c.pending = PendingNone

	var errs []error
	if work == PendingPicking {
		errs = append(errs, c.pick())
		work = PendingRedraw
	}

	playing := c.deps.Timeline.IsPlaying()
	switch {
	case work == PendingRedraw:
		errs = append(errs, c.redraw())
	case work == PendingIncremental || playing:
		errs = append(errs, c.incremental())
	}
	errs = append(errs, c.composite(playing))

	c.countFrame()
	if c.deps.Window != nil && !c.chrome.ChildWindowOpen() {
		c.deps.Window.RequestRedraw()
	}

	err := errors.Join(errs...)
	if err != nil {
		ink.Logger().Warn("canvas: frame failed", "work", work.String(), "err", err)
	}
	return err
}

// draw runs fn inside a pass on t. A nil fn only applies the load op.
func (c *Canvas) draw(t render.Target, load render.LoadOp, clear render.Color, fn func(*Drawer) error) (err error) {
	pass, err := c.dev.Begin(t, load, clear)
	if err != nil {
		return fmt.Errorf("canvas: begin pass: %w", err)
	}
	defer func() {
		if endErr := pass.End(); err == nil && endErr != nil {
			err = fmt.Errorf("canvas: end pass: %w", endErr)
		}
	}()
	if fn == nil {
		return nil
	}
	return fn(&Drawer{r: c.r, pass: pass})
}

// pick draws every visible object in its pick colour and hands the ID under
// the pointer to the selection.
func (c *Canvas) pick() error {
	restore := c.r.EnterPicking()
	err := c.draw(c.pickTarget, render.LoadOpClear, render.White, c.deps.Timeline.RedrawScreen)
	restore()
	if err != nil {
		return err
	}

	id, err := c.r.ProcessPicking(c.pickTarget, c.pointerX, c.pointerY)
	switch {
	case errors.Is(err, ink.ErrPickOutOfBounds):
		id = ink.NoPick
	case err != nil:
		return err
	}
	if c.deps.Selection != nil {
		c.deps.Selection.SetActiveID(id, c.lastPos)
	}
	return nil
}

func (c *Canvas) redraw() error {
	return c.draw(c.canvasTarget, render.LoadOpClear, c.opts.clear, func(d *Drawer) error {
		if err := c.deps.Timeline.RedrawScreen(d); err != nil {
			return err
		}
		if c.deps.Selection == nil || c.chrome.ActiveTool() != ToolPointer {
			return nil
		}
		rect, ok := c.deps.Selection.SelectionRect()
		if !ok {
			return nil
		}
		return c.r.RenderSelectionRect(d.pass, rect)
	})
}

func (c *Canvas) incremental() error {
	return c.draw(c.canvasTarget, render.LoadOpLoad, render.Transparent, c.deps.Timeline.IncrementalDraw)
}

// composite blits the canvas onto the screen target and overlays the
// playback cursor.
func (c *Canvas) composite(playing bool) error {
	tex := c.dev.TargetTexture(c.canvasTarget)
	return c.draw(c.screenTarget, render.LoadOpClear, c.opts.clear, func(d *Drawer) error {
		if err := c.r.BlitCanvas(d.pass, tex); err != nil {
			return err
		}
		if !playing {
			return nil
		}
		return c.r.DrawCursor(d.pass, c.deps.Timeline.CursorPosition())
	})
}

func (c *Canvas) countFrame() {
	c.frames++
	n := c.opts.fpsInterval
	if n <= 0 || c.frames%n != 0 {
		return
	}
	now := c.opts.now()
	if elapsed := now.Sub(c.fpsStart).Seconds(); elapsed > 0 {
		c.fps = float64(n) / elapsed
		ink.Logger().Info("canvas: fps", "fps", c.fps, "frames", c.frames)
	}
	c.fpsStart = now
}
