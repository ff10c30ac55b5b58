// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software implements render.Device on the CPU.
//
// The device mirrors what the WGSL programs do on a GPU: sprites become
// hard-edged discs, selection outlines are one-pixel line loops and
// textured quads are nearest-neighbour sampled and alpha blended. Every
// target is a render.PixmapTarget, so reads are exact and immediate, which
// makes this device the reference for picking tests.
//
// Importing the package registers it with the backend registry:
//
//	import _ "github.com/gogpu/ink/backend/software"
package software
