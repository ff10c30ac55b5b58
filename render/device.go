// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ink/shader"
)

// DeviceHandle provides GPU device access from the host application.
//
// Hosts such as gogpu.App implement it and pass it to backend/wgpu so the
// ink device shares the host's GPU device and queue instead of opening its
// own.
type DeviceHandle = gpucontext.DeviceProvider

// LoadOp selects what happens to a target's contents when a pass begins.
type LoadOp uint8

const (
	// LoadOpLoad keeps the existing contents.
	LoadOpLoad LoadOp = iota

	// LoadOpClear clears the target to the pass clear colour.
	LoadOpClear
)

// String implements fmt.Stringer.
func (op LoadOp) String() string {
	if op == LoadOpClear {
		return "clear"
	}
	return "load"
}

// Color is a linear RGBA clear colour with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common clear colours.
var (
	White       = Color{1, 1, 1, 1}
	Transparent = Color{}
)

// RGBA8 returns the colour as 8-bit components.
func (c Color) RGBA8() [4]byte {
	return [4]byte{unorm8(c.R), unorm8(c.G), unorm8(c.B), unorm8(c.A)}
}

func unorm8(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v*255 + 0.5)
	}
}

// TargetDescriptor describes an off-screen colour target.
type TargetDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the target size in pixels.
	Width, Height int

	// Format is the colour format. Zero selects RGBA8Unorm.
	Format gputypes.TextureFormat
}

// Target is an off-screen colour target that passes render into and that
// can later be sampled as a texture.
type Target interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat
}

// Texture is a sampled image. It satisfies gpucontext.Texture.
type Texture interface {
	Width() int
	Height() int
}

var _ gpucontext.Texture = Texture(nil)

// Quad is an axis-aligned rectangle in clip space. (X, Y) is the corner
// sampled at uv (0, 1); W and H may be negative.
type Quad struct {
	X, Y, W, H float32
}

// Vertices returns the quad as a triangle list of position and uv pairs:
// uv (0,1) at (x,y), (0,0) at (x,y+h), (1,0) at (x+w,y+h), (1,1) at (x+w,y).
func (q Quad) Vertices() [6][4]float32 {
	a := [4]float32{q.X, q.Y, 0, 1}
	b := [4]float32{q.X, q.Y + q.H, 0, 0}
	c := [4]float32{q.X + q.W, q.Y + q.H, 1, 0}
	d := [4]float32{q.X + q.W, q.Y, 1, 1}
	return [6][4]float32{a, b, c, a, c, d}
}

// Device creates targets and textures, holds the GPU copy of the sprite
// arena, and opens passes.
type Device interface {
	// Name identifies the implementation ("software", "wgpu").
	Name() string

	// NewTarget allocates an off-screen colour target.
	NewTarget(desc TargetDescriptor) (Target, error)

	// DestroyTarget releases a target. Destroying nil is a no-op.
	DestroyTarget(t Target)

	// TargetTexture returns a texture view of a target for sampling.
	TargetTexture(t Target) Texture

	// NewTexture uploads an RGBA8 image, rows top-down.
	NewTexture(label string, width, height int, rgba []byte) (Texture, error)

	// DestroyTexture releases a texture. Destroying nil is a no-op.
	DestroyTexture(t Texture)

	// SyncSprites uploads all[from:] into the sprite buffer at the same
	// offset. all is the full arena byte slice; the device grows its buffer
	// as needed.
	SyncSprites(all []byte, from int) error

	// Begin opens a pass rendering into t.
	Begin(t Target, load LoadOp, clear Color) (Pass, error)

	// ReadPixel reads one RGBA8 pixel, (0, 0) being the bottom-left corner.
	// It blocks until all submitted work has finished.
	ReadPixel(t Target, x, y int) ([4]byte, error)

	// ReadTarget reads back the whole target as a top-down image.
	ReadTarget(t Target) (*image.RGBA, error)

	// Close releases every resource owned by the device.
	Close() error
}

// Pass records draws into one target. Uniforms are taken from each
// program's current uniform block at the time of the draw call.
type Pass interface {
	// DrawSprites draws count synced sprites starting at first as discs.
	DrawSprites(p *shader.Program, first, count int) error

	// DrawLineLoop draws a closed polyline through pts (canvas space).
	DrawLineLoop(p *shader.Program, pts [][2]float32) error

	// DrawTexturedQuad draws tex over q with alpha blending.
	DrawTexturedQuad(p *shader.Program, tex Texture, q Quad) error

	// End finishes the pass. Calling End more than once is a no-op.
	End() error
}

// Scope tracks the single open pass of a device. Devices embed it.
type Scope struct {
	open bool
}

// Acquire marks a pass as open, failing if one already is.
func (s *Scope) Acquire() error {
	if s.open {
		return ErrPassActive
	}
	s.open = true
	return nil
}

// Release marks the open pass as ended.
func (s *Scope) Release() {
	s.open = false
}

// Active reports whether a pass is open.
func (s *Scope) Active() bool {
	return s.open
}
