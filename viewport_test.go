// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportResize(t *testing.T) {
	v := NewViewport(4)

	changed, err := v.Resize(800, 600)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.InDelta(t, 4*800.0/600.0, v.Zoom(), 1e-6)
	assert.Zero(t, v.Scroll())

	zoom, scroll := v.Zoom(), v.Scroll()
	changed, err = v.Resize(800, 600)
	require.NoError(t, err)
	assert.False(t, changed, "second identical resize reported a change")
	assert.Equal(t, zoom, v.Zoom())
	assert.Equal(t, scroll, v.Scroll())
}

func TestViewportResizeInvalid(t *testing.T) {
	v := NewViewport(4)
	for _, size := range [][2]int{{0, 100}, {100, 0}, {-1, 5}} {
		_, err := v.Resize(size[0], size[1])
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Resize(%d, %d) error = %v, want ErrInvalidDimensions", size[0], size[1], err)
		}
	}
}

func TestViewportScroll(t *testing.T) {
	v := NewViewport(4)
	_, err := v.Resize(500, 1000)
	require.NoError(t, err)

	assert.True(t, v.SetScrollValue(2500))
	assert.InDelta(t, 0.25, v.YStart(), 1e-6)
	assert.InDelta(t, 0.25*2*2, v.Scroll(), 1e-6)
	assert.False(t, v.SetScrollValue(2500))

	// Scroll follows zoom on resize.
	_, err = v.Resize(1000, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 0.25*4*2, v.Scroll(), 1e-6)
}

func TestViewportScrollBar(t *testing.T) {
	v := NewViewport(4)
	_, err := v.Resize(500, 1000)
	require.NoError(t, err)

	// Zoom 2: half the canvas is visible.
	assert.Equal(t, 5000, v.PageStep())
	lo, hi := v.ScrollRange()
	assert.Equal(t, 0, lo)
	assert.Equal(t, 5000, hi)
}

func TestViewportRescale(t *testing.T) {
	v := NewViewport(4)
	_, err := v.Resize(200, 400)
	require.NoError(t, err)

	tests := []struct {
		name string
		x, y float32
		want Point
	}{
		{"top left", 0, 0, Pt(-FixedScale, FixedScale)},
		{"top right", 200, 0, Pt(FixedScale, FixedScale)},
		{"canvas bottom", 100, 800, Pt(0, -FixedScale)},
		{"first screen centre", 100, 200, Pt(0, FixedScale*0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Rescale(tt.x, tt.y)
			assert.InDelta(t, tt.want.X, got.X, 0.01)
			assert.InDelta(t, tt.want.Y, got.Y, 0.01)
		})
	}
}

func TestViewportRescaleFoldsScroll(t *testing.T) {
	v := NewViewport(4)
	_, err := v.Resize(200, 400)
	require.NoError(t, err)
	v.SetScrollValue(5000)

	// Halfway down the canvas is now at the top of the window.
	got := v.Rescale(0, 0)
	assert.InDelta(t, 0, got.Y, 0.01)
}

func TestViewportWindowPixelInvertsRescale(t *testing.T) {
	v := NewViewport(4)
	_, err := v.Resize(320, 240)
	require.NoError(t, err)
	v.SetScrollValue(1234)

	for _, px := range [][2]int{{0, 0}, {17, 33}, {160, 120}, {319, 239}} {
		p := v.Rescale(float32(px[0])+0.5, float32(px[1])+0.5)
		x, y := v.WindowPixel(p)
		assert.Equal(t, px[0], x, "x for %v", px)
		assert.Equal(t, px[1], y, "y for %v", px)
	}
}
