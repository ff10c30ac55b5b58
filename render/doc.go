// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render defines the device layer the ink renderer draws through.
//
// A Device owns render targets, textures and the GPU-side copy of the sprite
// arena. Drawing happens inside a Pass: Device.Begin binds one target for
// writing and returns the Pass, and Pass.End releases it. Only one pass may
// be open on a device at a time, and End is idempotent so call sites can
// always defer it:
//
//	pass, err := dev.Begin(target, render.LoadOpClear, render.White)
//	if err != nil {
//	    return err
//	}
//	defer pass.End()
//	pass.DrawSprites(prog, 0, n)
//
// # Coordinates
//
// Draw calls use OpenGL conventions: clip space y points up, and texture
// coordinates have v = 0 at the bottom row of an image. ReadPixel takes a
// bottom-left origin as well. ReadTarget returns a top-down *image.RGBA.
//
// # Implementations
//
//   - backend/software: CPU rasteriser over PixmapTarget
//   - backend/wgpu: gogpu/wgpu HAL device
//
// # Thread Safety
//
// Devices are NOT thread-safe. A device and its passes must be used from a
// single goroutine.
package render
