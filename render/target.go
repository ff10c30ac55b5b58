// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"

	"github.com/gogpu/gputypes"
)

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// The software device renders into PixmapTargets and samples them as
// textures, so a PixmapTarget is both a Target and a Texture. Rows are
// stored top-down as in any image.RGBA.
type PixmapTarget struct {
	label string
	img   *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// SetLabel sets a debug label.
func (t *PixmapTarget) SetLabel(label string) { t.label = label }

// Label returns the debug label.
func (t *PixmapTarget) Label() string { return t.label }

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Clear fills the entire target with the given colour.
func (t *PixmapTarget) Clear(c Color) {
	px := c.RGBA8()
	pix := t.img.Pix
	if len(pix) == 0 {
		return
	}
	copy(pix[:4], px[:])
	// Doubling copy fills the rest in O(log n) calls.
	for n := 4; n < len(pix); n *= 2 {
		copy(pix[n:], pix[:n])
	}
}

// PixelAt returns the RGBA8 pixel at image coordinates (top-left origin).
func (t *PixmapTarget) PixelAt(x, y int) [4]byte {
	i := t.img.PixOffset(x, y)
	return [4]byte(t.img.Pix[i : i+4])
}

// SetPixelAt stores an RGBA8 pixel at image coordinates.
func (t *PixmapTarget) SetPixelAt(x, y int, px [4]byte) {
	i := t.img.PixOffset(x, y)
	copy(t.img.Pix[i:i+4], px[:])
}

// InBounds reports whether (x, y) lies inside the target.
func (t *PixmapTarget) InBounds(x, y int) bool {
	return image.Pt(x, y).In(t.img.Bounds())
}

// Resize replaces the backing image. The contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

var (
	_ Target  = (*PixmapTarget)(nil)
	_ Texture = (*PixmapTarget)(nil)
)
