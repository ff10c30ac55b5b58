// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import (
	"fmt"

	"github.com/chewxy/math32"
)

const (
	// DefaultCanvasRatio is the canvas height as a multiple of its width.
	DefaultCanvasRatio = 4

	// ScrollBarSize is the scrollbar's full range in scrollbar units.
	ScrollBarSize = 10000
)

// Viewport maps the tall canvas onto the visible window.
//
// The canvas is Ratio times taller than it is wide. Zoom is the number of
// window heights the whole canvas spans and Scroll shifts the visible slice
// down the canvas; both are pushed to every shader as zoom_scroll.
type Viewport struct {
	Ratio float32

	width  int
	height int
	zoom   float32
	scroll float32
	yStart float32
}

// NewViewport returns a viewport for a canvas of the given aspect ratio.
// The viewport has no size until Resize is called.
func NewViewport(ratio float32) Viewport {
	return Viewport{Ratio: ratio, zoom: 1}
}

// Resize recomputes zoom and scroll for a window of w by h pixels and
// reports whether anything changed.
func (v *Viewport) Resize(w, h int) (bool, error) {
	if w <= 0 || h <= 0 {
		return false, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, w, h)
	}
	zoom := v.Ratio * float32(w) / float32(h)
	changed := w != v.width || h != v.height || zoom != v.zoom
	v.width, v.height = w, h
	v.zoom = zoom
	v.scroll = v.yStart * v.zoom * 2
	return changed, nil
}

// SetScrollValue positions the viewport from a scrollbar value in
// [0, ScrollBarSize] and reports whether the scroll offset changed.
func (v *Viewport) SetScrollValue(value float32) bool {
	yStart := value / ScrollBarSize
	scroll := yStart * v.zoom * 2
	changed := yStart != v.yStart || scroll != v.scroll
	v.yStart = yStart
	v.scroll = scroll
	return changed
}

// Size returns the window size in pixels.
func (v *Viewport) Size() (width, height int) {
	return v.width, v.height
}

// Zoom returns the aspect-corrected ratio of width to height.
func (v *Viewport) Zoom() float32 { return v.zoom }

// Scroll returns the vertical clip-space offset of the visible slice.
func (v *Viewport) Scroll() float32 { return v.scroll }

// YStart returns the normalized scroll position in [0, 1].
func (v *Viewport) YStart() float32 { return v.yStart }

// TotalHeight returns the full canvas height in window pixels.
func (v *Viewport) TotalHeight() float32 {
	return float32(v.width) * v.Ratio
}

// PageStep returns the scrollbar page step: the visible fraction of the
// canvas in scrollbar units.
func (v *Viewport) PageStep() int {
	if v.zoom <= 0 {
		return ScrollBarSize
	}
	return int(ScrollBarSize / v.zoom)
}

// ScrollRange returns the scrollbar range matching PageStep.
func (v *Viewport) ScrollRange() (lo, hi int) {
	hi = ScrollBarSize - v.PageStep()
	if hi < 0 {
		hi = 0
	}
	return 0, hi
}

// Rescale maps a window pixel position to fixed-point normalized space,
// folding the scroll position into the vertical axis.
func (v *Viewport) Rescale(x, y float32) Point {
	if v.width == 0 {
		return Point{}
	}
	return Point{
		X: (x/float32(v.width)*2 - 1) * FixedScale,
		Y: ((y/v.TotalHeight()+v.yStart)*-2 + 1) * FixedScale,
	}
}

// ClipY applies the zoom/scroll transform to a normalized y, matching the
// vertex shaders.
func (v *Viewport) ClipY(y float32) float32 {
	return y*v.zoom - v.zoom + 1 + v.scroll
}

// WindowPixel returns the window pixel covering a normalized position, the
// inverse of Rescale up to pixel quantization. Useful for tests and for
// placing overlays.
func (v *Viewport) WindowPixel(p Point) (x, y int) {
	n := p.Normalized()
	cy := v.ClipY(n.Y)
	fx := (n.X + 1) / 2 * float32(v.width)
	fy := (1 - cy) / 2 * float32(v.height)
	return int(math32.Floor(fx)), int(math32.Floor(fy))
}
