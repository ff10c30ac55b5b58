// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ink/render"
)

// copyPitchAlignment is the row pitch alignment texture-to-buffer copies
// require.
const copyPitchAlignment = 256

// ReadPixel implements render.Device.
func (d *Device) ReadPixel(t render.Target, x, y int) ([4]byte, error) {
	tt, err := d.own(t)
	if err != nil {
		return [4]byte{}, err
	}
	if x < 0 || y < 0 || x >= tt.width || y >= tt.height {
		return [4]byte{}, fmt.Errorf("%w: (%d, %d) in %dx%d", render.ErrOutOfBounds, x, y, tt.width, tt.height)
	}
	// Texture rows are stored top-down.
	px, err := d.copyOut(tt, image.Rect(x, tt.height-1-y, x+1, tt.height-y))
	if err != nil {
		return [4]byte{}, err
	}
	return [4]byte(px[:4]), nil
}

// ReadTarget implements render.Device.
func (d *Device) ReadTarget(t render.Target) (*image.RGBA, error) {
	tt, err := d.own(t)
	if err != nil {
		return nil, err
	}
	r := image.Rect(0, 0, tt.width, tt.height)
	pix, err := d.copyOut(tt, r)
	if err != nil {
		return nil, err
	}
	return &image.RGBA{Pix: pix, Stride: tt.width * 4, Rect: r}, nil
}

// copyOut copies region r of the texture through a staging buffer and
// returns it tightly packed.
func (d *Device) copyOut(tt *texture, r image.Rectangle) ([]byte, error) {
	w, h := uint32(r.Dx()), uint32(r.Dy())
	bytesPerRow := w * 4
	aligned := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	size := uint64(aligned) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: tt.label + "_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create readback buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	err = d.submit(tt.label+"_readback", func(enc hal.CommandEncoder) error {
		if b, ok := tt.barrier(gputypes.TextureUsageCopySrc); ok {
			enc.TransitionTextures([]hal.TextureBarrier{b})
		}
		enc.CopyTextureToBuffer(tt.tex, staging, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{BytesPerRow: aligned, RowsPerImage: h},
			TextureBase: hal.ImageCopyTexture{
				Texture: tt.tex,
				Origin:  hal.Origin3D{X: uint32(r.Min.X), Y: uint32(r.Min.Y)},
				Aspect:  gputypes.TextureAspectAll,
			},
			Size: hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		}})
		return nil
	})
	if err != nil {
		return nil, err
	}

	m, err := d.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("wgpu: map readback buffer: %w", err)
	}
	src := unsafe.Slice((*byte)(m.Ptr), size)
	out := make([]byte, int(bytesPerRow)*int(h))
	for row := range int(h) {
		copy(out[row*int(bytesPerRow):(row+1)*int(bytesPerRow)], src[row*int(aligned):])
	}
	if err := d.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("wgpu: unmap readback buffer: %w", err)
	}
	return out, nil
}
