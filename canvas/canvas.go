// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/render"
)

// Canvas schedules the renderer's work per frame and feeds it pointer input.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	r      *ink.Renderer
	dev    render.Device
	deps   Deps
	chrome Chrome
	opts   options

	width, height int
	canvasTarget  render.Target
	pickTarget    render.Target
	screenTarget  render.Target
	needTargets   bool

	pending Pending

	down        bool
	lastPos     ink.Point
	pointerX    int
	pointerY    int
	scrollValue int

	frames   int
	fpsStart time.Time
	fps      float64

	hostTex gpucontext.Texture
	closed  bool
}

// New creates a canvas drawing through r's device. The canvas has no
// targets until the first Resize; the first frame after it redraws
// everything.
func New(r *ink.Renderer, deps Deps, opts ...Option) (*Canvas, error) {
	if r == nil {
		return nil, ErrNilRenderer
	}
	if deps.Timeline == nil {
		return nil, ErrNilTimeline
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Canvas{
		r:       r,
		dev:     r.Device(),
		deps:    deps,
		chrome:  deps.Chrome,
		opts:    o,
		pending: PendingRedraw,
	}
	if c.chrome == nil {
		c.chrome = defaultChrome{}
	}
	c.fpsStart = o.now()
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(r *ink.Renderer, deps Deps, opts ...Option) *Canvas {
	c, err := New(r, deps, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Renderer returns the renderer the canvas drives.
func (c *Canvas) Renderer() *ink.Renderer { return c.r }

// Size returns the canvas dimensions in pixels.
func (c *Canvas) Size() (width, height int) { return c.width, c.height }

// Pending returns the work scheduled for the next frame.
func (c *Canvas) Pending() Pending { return c.pending }

// Resize adapts the canvas to a window of width by height physical pixels.
//
// The renderer's viewport and the scrollbar follow the new size and a full
// redraw is requested even when the size is unchanged. If the targets
// cannot be allocated the previous ones are kept, ErrFramebuffer is
// returned, and the next Frame or Resize retries.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrClosed
	}
	if err := c.r.WindowSizeChanged(width, height); err != nil {
		return err
	}
	c.request(PendingRedraw)

	v := c.r.Viewport()
	if _, hi := v.ScrollRange(); c.scrollValue > hi {
		c.ScrollTo(hi)
	}

	if width == c.width && height == c.height && !c.needTargets {
		return nil
	}
	c.width, c.height = width, height
	return c.allocTargets()
}

var targetLabels = [...]string{"ink.canvas", "ink.picking", "ink.screen"}

// allocTargets replaces the three targets with ones of the current size.
// Nothing is replaced unless all three allocations succeed.
func (c *Canvas) allocTargets() error {
	var fresh [len(targetLabels)]render.Target
	for i, label := range targetLabels {
		t, err := c.dev.NewTarget(render.TargetDescriptor{
			Label:  label,
			Width:  c.width,
			Height: c.height,
		})
		if err != nil {
			for _, done := range fresh[:i] {
				c.dev.DestroyTarget(done)
			}
			c.needTargets = true
			ink.Logger().Warn("canvas: framebuffer allocation failed",
				"target", label, "width", c.width, "height", c.height, "err", err)
			return fmt.Errorf("%w: %s %dx%d: %w", ErrFramebuffer, label, c.width, c.height, err)
		}
		fresh[i] = t
	}

	c.destroyTargets()
	c.canvasTarget, c.pickTarget, c.screenTarget = fresh[0], fresh[1], fresh[2]
	c.needTargets = false
	ink.Logger().Debug("canvas: targets allocated", "width", c.width, "height", c.height)

	if err := c.clear(c.canvasTarget, c.opts.clear); err != nil {
		return err
	}
	return c.clear(c.pickTarget, render.White)
}

func (c *Canvas) clear(t render.Target, col render.Color) error {
	return c.draw(t, render.LoadOpClear, col, nil)
}

func (c *Canvas) destroyTargets() {
	c.dev.DestroyTarget(c.canvasTarget)
	c.dev.DestroyTarget(c.pickTarget)
	c.dev.DestroyTarget(c.screenTarget)
	c.canvasTarget, c.pickTarget, c.screenTarget = nil, nil, nil
}

// RequestRedraw schedules a full redraw.
func (c *Canvas) RequestRedraw() { c.request(PendingRedraw) }

// RequestIncrementalDraw schedules drawing of newly added strokes.
func (c *Canvas) RequestIncrementalDraw() { c.request(PendingIncremental) }

// RequestPicking schedules resolving the object under the pointer, followed
// by a full redraw.
func (c *Canvas) RequestPicking() { c.request(PendingPicking) }

func (c *Canvas) request(p Pending) {
	c.pending = c.pending.merge(p)
	if c.deps.Window != nil {
		c.deps.Window.RequestRedraw()
	}
}

// ScrollValue returns the scrollbar position the viewport shows.
func (c *Canvas) ScrollValue() int { return c.scrollValue }

// ScrollTo moves the viewport to scrollbar value v, clamped to the
// scrollbar range, and schedules a redraw when it moved.
func (c *Canvas) ScrollTo(v int) {
	view := c.r.Viewport()
	lo, hi := view.ScrollRange()
	v = min(max(v, lo), hi)
	if v == c.scrollValue {
		return
	}
	c.scrollValue = v
	c.r.SetViewportYStart(v)
	c.RequestRedraw()
}

// ScrollBy moves the viewport by units scrollbar units.
func (c *Canvas) ScrollBy(units int) {
	c.ScrollTo(c.scrollValue + units)
}

// FPS returns the frame rate measured over the last complete FPS interval.
func (c *Canvas) FPS() float64 { return c.fps }

// Snapshot reads back the canvas target, rows top-down.
func (c *Canvas) Snapshot() (*image.RGBA, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.canvasTarget == nil {
		return nil, ErrNotSized
	}
	return c.dev.ReadTarget(c.canvasTarget)
}

// Close releases the canvas targets and the host texture. The renderer and
// its device stay open. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.destroyTargets()
	c.releaseHostTexture()
	return nil
}
