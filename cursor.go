// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import (
	"image"
	"image/color"
	"sync"

	"github.com/chewxy/math32"
)

// CursorSize is the edge length of the playback cursor image in pixels.
// It is drawn at twice this size on screen.
const CursorSize = 32

var (
	cursorOnce sync.Once
	cursorImg  *image.RGBA
)

// CursorImage returns the playback cursor: a ring with a centre dot,
// antialiased, premultiplied. The image is shared; do not modify it.
func CursorImage() *image.RGBA {
	cursorOnce.Do(func() {
		cursorImg = drawCursor(CursorSize, color.NRGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff})
	})
	return cursorImg
}

func drawCursor(size int, c color.NRGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	centre := float32(size) / 2
	outer := centre - 1
	const (
		ring = 2.5
		dot  = 2.5
	)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math32.Hypot(float32(x)+0.5-centre, float32(y)+0.5-centre)
			// Coverage of the ring band and the dot, one pixel of falloff.
			cov := max(
				clamp01(ring/2+0.5-math32.Abs(d-(outer-ring/2))),
				clamp01(dot+0.5-d),
			)
			if cov == 0 {
				continue
			}
			a := float32(c.A) * cov
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(float32(c.R)*a/255 + 0.5),
				G: uint8(float32(c.G)*a/255 + 0.5),
				B: uint8(float32(c.B)*a/255 + 0.5),
				A: uint8(a + 0.5),
			})
		}
	}
	return img
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
