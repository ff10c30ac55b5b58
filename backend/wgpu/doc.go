// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu implements render.Device on the gogpu/wgpu hardware
// abstraction layer.
//
// # Devices
//
// Open either shares the host's GPU device, when backend.Options.Handle
// exposes HalDevice() and HalQueue(), or opens a standalone Vulkan device
// and picks the first discrete or integrated adapter. New wraps an
// already opened hal.Device and hal.Queue, which is how tests run the
// device on the noop backend.
//
// # Pipelines
//
// Programs from the shader package are compiled to render pipelines on
// first use and cached per program name, draw kind and target format:
//
//	DrawSprites       instanced Snorm16x2 sprites, six vertices each
//	DrawLineLoop      line strip, closed by repeating the first point
//	DrawTexturedQuad  two triangles, texture at binding 0, sampler at 1
//
// Sprite and line pipelines write colour unblended so that picking
// colours reach the target intact. Textured quads blend with straight
// alpha.
//
// # Passes
//
// A pass snapshots each program's uniform block into its own uniform
// buffer at draw time and encodes the recorded draws when End is called.
// End submits and waits for the queue to go idle, so reads issued after
// End observe the pass.
//
// Importing the package registers it with the backend registry at GPU
// priority:
//
//	import _ "github.com/gogpu/ink/backend/wgpu"
package wgpu
