// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import (
	"errors"
	"testing"

	"github.com/gogpu/ink/backend/software"
	"github.com/gogpu/ink/render"
)

type recordingScrollBar struct {
	steps  []int
	ranges [][2]int
}

func (s *recordingScrollBar) SetPageStep(step int) { s.steps = append(s.steps, step) }
func (s *recordingScrollBar) SetRange(lo, hi int)  { s.ranges = append(s.ranges, [2]int{lo, hi}) }

func newTestRenderer(t *testing.T, opts ...Option) (*Renderer, *software.Device) {
	t.Helper()
	dev := software.New()
	r, err := NewRenderer(dev, opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		dev.Close()
	})
	return r, dev
}

func TestNewRendererErrors(t *testing.T) {
	if _, err := NewRenderer(nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewRenderer(nil) error = %v, want ErrNilDevice", err)
	}

	bad := []Option{
		WithSpacing(0),
		WithCanvasRatio(-1),
		WithMaxSprites(-5),
		WithSizeAdjustments(0, 4),
	}
	for i, opt := range bad {
		if _, err := NewRenderer(software.New(), opt); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("option %d: error = %v, want ErrInvalidOption", i, err)
		}
	}
}

func TestAddPointIncrementsAndResetsLeftover(t *testing.T) {
	r, _ := newTestRenderer(t, WithSpacing(7))

	r.walker.SetLeftover(1)
	if got := r.AddPoint(Pt(10, 10)); got != 1 {
		t.Errorf("AddPoint() = %d, want 1", got)
	}
	if got := r.walker.Leftover(); got != 7 {
		t.Errorf("leftover after AddPoint = %v, want 7", got)
	}
	if got := r.AddPoint(Pt(20, 20)); got != 2 {
		t.Errorf("second AddPoint() = %d, want 2", got)
	}
}

func TestAddStrokeSpacingScenario(t *testing.T) {
	r, _ := newTestRenderer(t, WithSpacing(2))

	r.AddPoint(Pt(0, 0))
	n := r.AddStroke(Seg(Pt(0, 0), Pt(10, 0)))
	if n != 6 {
		t.Fatalf("AddStroke() = %d, want 6", n)
	}
	for i, want := range []int16{0, 2, 4, 6, 8, 10} {
		if got := r.Arena().At(i); got != (Sprite{X: want}) {
			t.Errorf("sprite %d = %v, want {%d 0}", i, got, want)
		}
	}
}

func TestOutOfRangeInputIsDropped(t *testing.T) {
	r, _ := newTestRenderer(t)

	if got := r.AddPoint(Pt(40000, 0)); got != 0 {
		t.Errorf("AddPoint(out of range) = %d, want 0", got)
	}
	// The stroke crosses the top edge; only the in-range part is stored.
	r.AddPoint(Pt(0, 32000))
	n := r.AddStroke(Seg(Pt(0, 32000), Pt(0, 34000)))
	for i := 0; i < n; i++ {
		if s := r.Arena().At(i); s.Y > 32767 || s.Y < 32000 {
			t.Errorf("sprite %d = %v outside the stroke", i, s)
		}
	}
	if n == 0 || n > 1+(767*DefaultCanvasRatio)/DefaultSpacing+1 {
		t.Errorf("stored %d sprites for the in-range part", n)
	}
}

func TestCapacityBound(t *testing.T) {
	r, _ := newTestRenderer(t, WithMaxSprites(3), WithSpacing(1))
	r.AddPoint(Pt(0, 0))
	if got := r.AddStroke(Seg(Pt(0, 0), Pt(100, 0))); got != 3 {
		t.Errorf("AddStroke() = %d, want capacity 3", got)
	}
	if r.Arena().Dropped() == 0 {
		t.Error("expected dropped sprites")
	}
}

func TestWindowSizeChangedIdempotent(t *testing.T) {
	bar := &recordingScrollBar{}
	redraws := 0
	r, _ := newTestRenderer(t, WithScrollBar(bar), WithRedrawRequester(func() { redraws++ }))

	for i := 0; i < 2; i++ {
		if err := r.WindowSizeChanged(600, 800); err != nil {
			t.Fatalf("WindowSizeChanged() error = %v", err)
		}
	}
	v := r.Viewport()
	if want := float32(3); v.Zoom() != want {
		t.Errorf("Zoom() = %v, want %v", v.Zoom(), want)
	}
	if len(bar.steps) != 1 || len(bar.ranges) != 1 {
		t.Fatalf("scrollbar notified %d/%d times, want once", len(bar.steps), len(bar.ranges))
	}
	if bar.steps[0] != 3333 || bar.ranges[0] != [2]int{0, 6667} {
		t.Errorf("scrollbar = step %d range %v, want 3333 [0 6667]", bar.steps[0], bar.ranges[0])
	}
	if redraws != 1 {
		t.Errorf("redraws = %d, want 1", redraws)
	}

	zs, _ := r.stroke.Vec2(uniformZoomScroll)
	if zs[0] != v.Zoom() || zs[1] != 0 {
		t.Errorf("stroke zoom_scroll = %v", zs)
	}
	vp, _ := r.picking.Vec2(uniformViewport)
	if vp != [2]float32{600, 800} {
		t.Errorf("picking viewport = %v", vp)
	}

	if err := r.WindowSizeChanged(0, 600); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("WindowSizeChanged(0, 600) error = %v", err)
	}
}

func TestSetViewportYStart(t *testing.T) {
	redraws := 0
	r, _ := newTestRenderer(t, WithRedrawRequester(func() { redraws++ }))
	if err := r.WindowSizeChanged(100, 100); err != nil {
		t.Fatal(err)
	}
	redraws = 0

	r.SetViewportYStart(5000)
	r.SetViewportYStart(5000)
	if redraws != 1 {
		t.Errorf("redraws = %d, want 1", redraws)
	}
	zs, _ := r.selection.Vec2(uniformZoomScroll)
	if zs[0] != 4 || zs[1] != 4 {
		t.Errorf("selection zoom_scroll = %v, want [4 4]", zs)
	}
}

func TestPickingReturnsObjectID(t *testing.T) {
	r, dev := newTestRenderer(t)
	if err := r.WindowSizeChanged(100, 100); err != nil {
		t.Fatal(err)
	}
	v := r.Viewport()
	pos := v.Rescale(50, 50)
	r.AddPoint(pos)

	target, err := dev.NewTarget(render.TargetDescriptor{Label: "picking", Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	pass, err := dev.Begin(target, render.LoadOpClear, render.White)
	if err != nil {
		t.Fatal(err)
	}
	restore := r.EnterPicking()
	if !r.Picking() {
		t.Error("Picking() = false inside EnterPicking")
	}
	err = r.DrawStrokeSpritesRange(pass, 0, r.SpriteCount(), Black, 50, Identity(), 42)
	restore()
	pass.End()
	if err != nil {
		t.Fatalf("DrawStrokeSpritesRange() error = %v", err)
	}
	if r.Picking() {
		t.Error("Picking() = true after restore")
	}

	id, err := r.ProcessPicking(target, 50, 50)
	if err != nil {
		t.Fatalf("ProcessPicking() error = %v", err)
	}
	if id != 42 {
		t.Errorf("ProcessPicking() = %d, want 42", id)
	}

	bg, err := r.ProcessPicking(target, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if bg != NoPick {
		t.Errorf("background = %#x, want NoPick", uint32(bg))
	}

	if _, err := r.ProcessPicking(target, 100, 0); !errors.Is(err, ErrPickOutOfBounds) {
		t.Errorf("out of bounds error = %v", err)
	}
}

func TestDrawUsesPaintColourAndSize(t *testing.T) {
	r, dev := newTestRenderer(t)
	if err := r.WindowSizeChanged(200, 200); err != nil {
		t.Fatal(err)
	}
	v := r.Viewport()
	r.AddPoint(v.Rescale(100, 100))

	target, _ := dev.NewTarget(render.TargetDescriptor{Width: 200, Height: 200})
	pass, _ := dev.Begin(target, render.LoadOpClear, render.White)
	defer pass.End()
	// 100 * 200/1000 = 20px diameter.
	if err := r.DrawStrokeSpritesRange(pass, 0, 1, RGB{0, 1, 0}, 100, Identity(), 7); err != nil {
		t.Fatal(err)
	}
	pass.End()

	img, _ := dev.ReadTarget(target)
	if c := img.RGBAAt(100, 100); c.G != 255 || c.R != 0 {
		t.Errorf("centre = %v, want green", c)
	}
	if c := img.RGBAAt(100, 92); c.G != 255 || c.R != 0 {
		t.Errorf("inside radius = %v, want green", c)
	}
	if c := img.RGBAAt(100, 115); c.R != 255 {
		t.Errorf("outside radius = %v, want white", c)
	}
}

func TestDrawRangeClamped(t *testing.T) {
	r, dev := newTestRenderer(t)
	if err := r.WindowSizeChanged(10, 10); err != nil {
		t.Fatal(err)
	}
	target, _ := dev.NewTarget(render.TargetDescriptor{Width: 10, Height: 10})
	pass, _ := dev.Begin(target, render.LoadOpClear, render.White)
	defer pass.End()

	if err := r.DrawStrokeSpritesRange(pass, 0, 100, Black, 1, Identity(), 1); err != nil {
		t.Errorf("empty arena draw error = %v", err)
	}
	r.AddPoint(Pt(0, 0))
	if err := r.DrawStrokeSpritesRange(pass, -3, 100, Black, 1, Identity(), 1); err != nil {
		t.Errorf("clamped draw error = %v", err)
	}
}

func TestCursorAndSelectionDraw(t *testing.T) {
	r, dev := newTestRenderer(t)
	if err := r.WindowSizeChanged(128, 128); err != nil {
		t.Fatal(err)
	}
	target, _ := dev.NewTarget(render.TargetDescriptor{Width: 128, Height: 128})
	pass, _ := dev.Begin(target, render.LoadOpClear, render.White)
	defer pass.End()

	v := r.Viewport()
	if err := r.DrawCursor(pass, v.Rescale(64, 64)); err != nil {
		t.Fatalf("DrawCursor() error = %v", err)
	}
	sel := RectFromPoints(Pt(-0.5, 0.6), Pt(0.5, 0.9))
	if err := r.RenderSelectionRect(pass, sel); err != nil {
		t.Fatalf("RenderSelectionRect() error = %v", err)
	}
	pass.End()

	img, _ := dev.ReadTarget(target)
	// The cursor dot covers the centre.
	if c := img.RGBAAt(64, 64); c.R == 255 && c.G == 255 {
		t.Errorf("cursor centre = %v, want cursor colour", c)
	}
	// Left edge of the selection outline: x = -0.5 - zoom/300.
	left := float32(1-0.5) - float32(4)/300
	x := int(left / 2 * 128)
	found := false
	for y := 0; y < 128 && !found; y++ {
		c := img.RGBAAt(x, y)
		found = c.B > c.R
	}
	if !found {
		t.Errorf("no selection outline in column %d", x)
	}
}

func TestCloseReleasesCursor(t *testing.T) {
	dev := software.New()
	r, err := NewRenderer(dev)
	if err != nil {
		t.Fatal(err)
	}
	if dev.Live() != 1 {
		t.Fatalf("Live() = %d, want the cursor texture", dev.Live())
	}
	r.Close()
	r.Close()
	if dev.Live() != 0 {
		t.Errorf("Live() = %d after Close", dev.Live())
	}
}
