// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import (
	"fmt"

	"github.com/gogpu/ink/render"
	"github.com/gogpu/ink/shader"
)

// ScrollBar mirrors the viewport position. Values are in scrollbar units,
// the full canvas being ScrollBarSize.
type ScrollBar interface {
	SetPageStep(step int)
	SetRange(lo, hi int)
}

// Renderer turns pointer samples into sprites and draws them.
//
// The renderer owns the sprite arena, the shader programs and the viewport.
// Drawing happens through passes opened on its device by the caller, which
// lets one frame mix redraw, incremental and picking work on different
// targets.
//
// Renderer is NOT safe for concurrent use.
type Renderer struct {
	dev    render.Device
	opts   options
	arena  *SpriteArena
	walker *Walker
	view   Viewport

	stroke    *shader.Program
	picking   *shader.Program
	selection *shader.Program
	textured  *shader.Program

	pickingMode bool
	synced      int
	cursor      render.Texture

	barNotified bool
	barStep     int
	barHi       int

	unsubscribe func()
}

// NewRenderer creates a renderer drawing through dev.
func NewRenderer(dev render.Device, opts ...Option) (*Renderer, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		dev:    dev,
		opts:   o,
		arena:  NewSpriteArena(o.maxSprites),
		walker: NewWalker(o.spacing, o.ratio),
		view:   NewViewport(o.ratio),
	}
	progs := []struct {
		dst  **shader.Program
		name string
	}{
		{&r.stroke, shader.Stroke},
		{&r.picking, shader.Picking},
		{&r.selection, shader.SelectionRect},
		{&r.textured, shader.Canvas},
	}
	for _, p := range progs {
		prog, err := shader.Load(p.name)
		if err != nil {
			return nil, fmt.Errorf("ink: load %s program: %w", p.name, err)
		}
		*p.dst = prog
	}
	identity := [16]float32(Identity())
	r.stroke.SetMat4(uniformManipulation, identity)
	r.picking.SetMat4(uniformManipulation, identity)
	sr, sg, sb := o.selectionColor.Vec3()
	r.selection.SetVec3(uniformColor, sr, sg, sb)
	r.pushViewport()

	img := CursorImage()
	tex, err := dev.NewTexture("ink.cursor", CursorSize, CursorSize, img.Pix)
	if err != nil {
		return nil, fmt.Errorf("ink: cursor texture: %w", err)
	}
	r.cursor = tex
	r.unsubscribe = propagateLogger(dev)

	Logger().Debug("ink: renderer created", "device", dev.Name(), "spacing", o.spacing, "ratio", o.ratio)
	return r, nil
}

// Uniform member names shared by the programs.
const (
	uniformZoomScroll   = "zoom_scroll"
	uniformViewport     = "viewport"
	uniformColor        = "color"
	uniformPointSize    = "point_size"
	uniformManipulation = "manipulation"
)

// Device returns the device the renderer draws through.
func (r *Renderer) Device() render.Device { return r.dev }

// Viewport returns a copy of the current viewport state.
func (r *Renderer) Viewport() Viewport { return r.view }

// Arena returns the sprite arena. Callers must not append to it directly.
func (r *Renderer) Arena() *SpriteArena { return r.arena }

// SpriteCount returns the sprite counter.
func (r *Renderer) SpriteCount() int { return r.arena.Len() }

// AddPoint appends one sprite at pos and starts a new spacing interval, so
// the next stroke segment places its first sprite one spacing away. It
// returns the sprite counter after the append. Out-of-range positions and
// appends past capacity are dropped silently.
func (r *Renderer) AddPoint(pos Point) int {
	r.arena.Append(pos)
	r.walker.Reset()
	return r.arena.Len()
}

// AddStroke fills seg with evenly spaced sprites and returns the sprite
// counter after the append.
func (r *Renderer) AddStroke(seg Segment) int {
	r.walker.Walk(seg, func(p Point) {
		r.arena.Append(p)
	})
	return r.arena.Len()
}

// EnterPicking switches sprite draws to the picking program until the
// returned restore func is called. Nested calls restore the outer state.
//
//	restore := r.EnterPicking()
//	defer restore()
func (r *Renderer) EnterPicking() (restore func()) {
	prev := r.pickingMode
	r.pickingMode = true
	return func() { r.pickingMode = prev }
}

// Picking reports whether sprite draws currently use the picking program.
func (r *Renderer) Picking() bool { return r.pickingMode }

// DrawStrokeSpritesRange draws sprites [from, to) as one stroke.
//
// In normal mode the sprites get the paint colour and a diameter of
// pointSize scaled to the canvas width. In picking mode they get id's
// pick colour and are drawn PickingSizeAdjustment larger. transform is
// applied to every sprite in normalized canvas space.
func (r *Renderer) DrawStrokeSpritesRange(pass render.Pass, from, to int, c RGB, pointSize float32, transform Mat4, id PickID) error {
	to = min(to, r.arena.Len())
	from = max(from, 0)
	if from >= to {
		return nil
	}
	if err := r.syncSprites(); err != nil {
		return err
	}

	w, _ := r.view.Size()
	prog := r.stroke
	size := pointSize * float32(w) * r.opts.normalAdjust
	if r.pickingMode {
		prog = r.picking
		c = id.Color()
		size = (pointSize + r.opts.pickingAdjust) * float32(w) * r.opts.normalAdjust
	}
	cr, cg, cb := c.Vec3()
	prog.SetVec3(uniformColor, cr, cg, cb)
	prog.SetFloat(uniformPointSize, size)
	prog.SetMat4(uniformManipulation, [16]float32(transform))
	return pass.DrawSprites(prog, from, to-from)
}

// syncSprites uploads sprites appended since the last draw.
func (r *Renderer) syncSprites() error {
	n := r.arena.Len()
	if n <= r.synced {
		return nil
	}
	if err := r.dev.SyncSprites(r.arena.Bytes(), r.synced*SpriteSize); err != nil {
		return fmt.Errorf("ink: sync sprites [%d, %d): %w", r.synced, n, err)
	}
	r.synced = n
	return nil
}

// ProcessPicking reads the picking target under window pixel (px, py),
// top-left origin, and decodes the object ID drawn there. The background
// decodes to NoPick. The read blocks until the GPU has finished.
func (r *Renderer) ProcessPicking(t render.Target, px, py int) (PickID, error) {
	w, h := t.Width(), t.Height()
	if px < 0 || py < 0 || px >= w || py >= h {
		return NoPick, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrPickOutOfBounds, px, py, w, h)
	}
	pix, err := r.dev.ReadPixel(t, px, h-1-py)
	if err != nil {
		Logger().Warn("ink: picking readback failed", "x", px, "y", py, "err", err)
		return NoPick, fmt.Errorf("ink: picking readback: %w", err)
	}
	id := DecodePickColor(pix[0], pix[1], pix[2])
	Logger().Debug("ink: picked", "x", px, "y", py, "id", uint32(id))
	return id, nil
}

// WindowSizeChanged recomputes zoom and scroll for a w by h window, pushes
// them to every program, updates the scrollbar and requests a redraw. A
// call with the current size changes nothing.
func (r *Renderer) WindowSizeChanged(w, h int) error {
	changed, err := r.view.Resize(w, h)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	Logger().Info("ink: window resized", "width", w, "height", h, "zoom", r.view.Zoom())
	r.pushViewport()
	r.updateScrollBar()
	r.requestRedraw()
	return nil
}

// SetViewportYStart scrolls to a scrollbar value in [0, ScrollBarSize].
func (r *Renderer) SetViewportYStart(value int) {
	if !r.view.SetScrollValue(float32(value)) {
		return
	}
	r.pushViewport()
	r.requestRedraw()
}

func (r *Renderer) pushViewport() {
	w, h := r.view.Size()
	zoom, scroll := r.view.Zoom(), r.view.Scroll()
	for _, p := range []*shader.Program{r.stroke, r.picking, r.selection, r.textured} {
		p.SetVec2(uniformZoomScroll, zoom, scroll)
		p.SetVec2(uniformViewport, float32(w), float32(h))
	}
}

func (r *Renderer) updateScrollBar() {
	sb := r.opts.scrollBar
	if sb == nil {
		return
	}
	step := r.view.PageStep()
	_, hi := r.view.ScrollRange()
	if r.barNotified && step == r.barStep && hi == r.barHi {
		return
	}
	r.barNotified, r.barStep, r.barHi = true, step, hi
	sb.SetPageStep(step)
	sb.SetRange(0, hi)
}

func (r *Renderer) requestRedraw() {
	if r.opts.requestRedraw != nil {
		r.opts.requestRedraw()
	}
}

// RenderSelectionRect outlines rect, padded by zoom/300 so the outline
// clears the selected sprites.
func (r *Renderer) RenderSelectionRect(pass render.Pass, rect Rect) error {
	padded := rect.Pad(r.view.Zoom() / 300)
	return pass.DrawLineLoop(r.selection, padded.Corners())
}

// DrawCursor draws the playback cursor centred on pos, a fixed-point
// canvas position, at twice the cursor image size.
func (r *Renderer) DrawCursor(pass render.Pass, pos Point) error {
	w, h := r.view.Size()
	if w == 0 || h == 0 {
		return nil
	}
	n := pos.Normalized()
	cx := n.X
	cy := r.view.ClipY(n.Y)
	half := float32(CursorSize)
	qw := 2 * half / float32(w)
	qh := 2 * half / float32(h)
	// Anchored at the top edge with negative height so the image is upright.
	return r.DrawTexturedRect(pass, r.cursor, cx-qw/2, cy+qh/2, qw, -qh)
}

// DrawTexturedRect draws tex over the clip-space rectangle at (x, y) with
// size (w, h), uv (0,1) at (x, y).
func (r *Renderer) DrawTexturedRect(pass render.Pass, tex render.Texture, x, y, w, h float32) error {
	return pass.DrawTexturedQuad(r.textured, tex, render.Quad{X: x, Y: y, W: w, H: h})
}

// BlitCanvas copies a full-window texture to the pass target.
func (r *Renderer) BlitCanvas(pass render.Pass, tex render.Texture) error {
	return r.DrawTexturedRect(pass, tex, -1, 1, 2, -2)
}

// Close releases the renderer's device resources. The device itself is
// not closed.
func (r *Renderer) Close() {
	if r.cursor != nil {
		r.dev.DestroyTexture(r.cursor)
		r.cursor = nil
	}
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}
