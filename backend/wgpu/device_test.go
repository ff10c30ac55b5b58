// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/backend"
	"github.com/gogpu/ink/render"
	"github.com/gogpu/ink/shader"
)

// openNoop opens a device on the noop HAL backend. Noop textures hold no
// data, so every readback returns zeros.
func openNoop(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	inst, err := noop.API{}.CreateInstance(&hal.InstanceDescriptor{})
	require.NoError(t, err)
	adapters := inst.EnumerateAdapters(nil)
	require.NotEmpty(t, adapters)
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	require.NoError(t, err)
	return open.Device, open.Queue
}

func newDevice(t *testing.T) *Device {
	t.Helper()
	dev, queue := openNoop(t)
	d, err := New(dev, queue)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newTarget(t *testing.T, d *Device, w, h int) *texture {
	t.Helper()
	tg, err := d.NewTarget(render.TargetDescriptor{Label: "test", Width: w, Height: h})
	require.NoError(t, err)
	return tg.(*texture)
}

func sprites(n int) []byte {
	b := make([]byte, 4*n)
	for i := range n {
		binary.LittleEndian.PutUint16(b[i*4:], uint16(int16(i*100)))
	}
	return b
}

func strokeProgram(t *testing.T) *shader.Program {
	t.Helper()
	p, err := shader.Load(shader.Stroke)
	require.NoError(t, err)
	p.SetVec2("zoom_scroll", 1, 0)
	p.SetVec2("viewport", 64, 64)
	p.SetFloat("point_size", 4)
	return p
}

func TestRegistered(t *testing.T) {
	assert.True(t, backend.IsRegistered(Name))
}

func TestNewRejectsNil(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestTargetLifecycle(t *testing.T) {
	d := newDevice(t)

	_, err := d.NewTarget(render.TargetDescriptor{Label: "empty", Width: 0, Height: 10})
	require.ErrorIs(t, err, render.ErrInvalidTarget)

	tg := newTarget(t, d, 32, 16)
	assert.Equal(t, 32, tg.Width())
	assert.Equal(t, 16, tg.Height())
	assert.Equal(t, gputypes.TextureFormatRGBA8Unorm, tg.Format())
	assert.Equal(t, "ink.test", tg.Label())
	assert.Equal(t, 1, d.Live())
	assert.Same(t, tg, d.TargetTexture(tg))

	d.DestroyTarget(tg)
	d.DestroyTarget(tg)
	d.DestroyTarget(nil)
	assert.Equal(t, 0, d.Live())

	_, err = d.Begin(tg, render.LoadOpClear, render.White)
	assert.ErrorIs(t, err, render.ErrInvalidTarget)
}

func TestTextureIsNotARenderTarget(t *testing.T) {
	d := newDevice(t)
	tex, err := d.NewTexture("host", 2, 2, make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, gputypes.TextureUsageCopyDst, tex.(*texture).state)

	_, err = d.Begin(tex.(*texture), render.LoadOpLoad, render.White)
	assert.ErrorIs(t, err, render.ErrInvalidTarget)

	_, err = d.NewTexture("short", 2, 2, make([]byte, 15))
	assert.ErrorIs(t, err, render.ErrInvalidTarget)
}

func TestSinglePass(t *testing.T) {
	d := newDevice(t)
	tg := newTarget(t, d, 8, 8)

	rp, err := d.Begin(tg, render.LoadOpClear, render.White)
	require.NoError(t, err)
	_, err = d.Begin(tg, render.LoadOpLoad, render.White)
	assert.ErrorIs(t, err, render.ErrPassActive)

	require.NoError(t, rp.End())
	require.NoError(t, rp.End())
	assert.Equal(t, gputypes.TextureUsageRenderAttachment, tg.state)
	assert.ErrorIs(t, rp.DrawSprites(strokeProgram(t), 0, 0), render.ErrPassEnded)

	again, err := d.Begin(tg, render.LoadOpLoad, render.White)
	require.NoError(t, err)
	require.NoError(t, again.End())
}

func TestDrawSpritesRecordsInstances(t *testing.T) {
	d := newDevice(t)
	tg := newTarget(t, d, 64, 64)
	require.NoError(t, d.SyncSprites(sprites(3), 0))

	rp, err := d.Begin(tg, render.LoadOpClear, render.White)
	require.NoError(t, err)
	ps := rp.(*pass)

	require.Error(t, rp.DrawSprites(strokeProgram(t), 2, 2))
	require.NoError(t, rp.DrawSprites(strokeProgram(t), 1, 2))
	require.NoError(t, rp.DrawSprites(strokeProgram(t), 0, 0))
	require.NoError(t, rp.DrawSprites(strokeProgram(t), 0, 1))

	require.Len(t, ps.draws, 2)
	assert.Equal(t, uint32(6), ps.draws[0].vertexCount)
	assert.Equal(t, uint32(2), ps.draws[0].instanceCount)
	assert.Equal(t, uint32(1), ps.draws[0].firstInstance)
	// Clones of one program share a pipeline; each draw owns its uniforms.
	assert.Len(t, d.pipelines, 1)
	assert.Len(t, ps.groups, 2)
	assert.Len(t, ps.buffers, 2)

	require.NoError(t, rp.End())
	assert.Nil(t, ps.draws)
	assert.Nil(t, ps.buffers)
}

func TestSyncSprites(t *testing.T) {
	d := newDevice(t)

	require.Error(t, d.SyncSprites(sprites(2), 12))
	require.Error(t, d.SyncSprites(make([]byte, 6), 0))
	require.Error(t, d.SyncSprites(sprites(2), 2))

	require.NoError(t, d.SyncSprites(sprites(2), 0))
	assert.Equal(t, uint64(minSpriteBytes), d.spriteCap)
	assert.Empty(t, d.retired)

	require.NoError(t, d.SyncSprites(sprites(4), 8))
	assert.Equal(t, 16, d.spriteLen)

	big := sprites(minSpriteBytes/4 + 1)
	require.NoError(t, d.SyncSprites(big, 16))
	assert.Equal(t, uint64(2*minSpriteBytes), d.spriteCap)
	assert.Len(t, d.retired, 1)

	// Retired buffers are released after the next submission.
	rp, err := d.Begin(newTarget(t, d, 4, 4), render.LoadOpClear, render.White)
	require.NoError(t, err)
	require.NoError(t, rp.End())
	assert.Empty(t, d.retired)
}

func TestLineLoopCloses(t *testing.T) {
	d := newDevice(t)
	tg := newTarget(t, d, 16, 16)
	sel, err := shader.Load(shader.SelectionRect)
	require.NoError(t, err)

	rp, err := d.Begin(tg, render.LoadOpLoad, render.White)
	require.NoError(t, err)
	ps := rp.(*pass)

	pts := [][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}
	require.NoError(t, rp.DrawLineLoop(sel, pts[:1]))
	require.NoError(t, rp.DrawLineLoop(sel, pts))
	require.Len(t, ps.draws, 1)
	assert.Equal(t, uint32(5), ps.draws[0].vertexCount)
	require.NoError(t, rp.End())
}

func TestTexturedQuad(t *testing.T) {
	d := newDevice(t)
	other := newDevice(t)
	tg := newTarget(t, d, 16, 16)
	src := newTarget(t, d, 16, 16)
	foreign := newTarget(t, other, 16, 16)
	blit, err := shader.Load(shader.Canvas)
	require.NoError(t, err)

	rp, err := d.Begin(tg, render.LoadOpClear, render.White)
	require.NoError(t, err)
	q := render.Quad{X: -1, Y: 1, W: 2, H: -2}

	assert.ErrorIs(t, rp.DrawTexturedQuad(blit, tg, q), render.ErrInvalidTarget)
	assert.ErrorIs(t, rp.DrawTexturedQuad(blit, foreign, q), render.ErrForeignResource)
	require.NoError(t, rp.DrawTexturedQuad(blit, d.TargetTexture(src), q))
	require.NoError(t, rp.End())

	assert.Equal(t, gputypes.TextureUsageTextureBinding, src.state)
	assert.Equal(t, gputypes.TextureUsageRenderAttachment, tg.state)
	assert.NotNil(t, d.sampler)
}

func TestProgramWithoutSpriteInput(t *testing.T) {
	d := newDevice(t)
	tg := newTarget(t, d, 8, 8)
	require.NoError(t, d.SyncSprites(sprites(1), 0))
	blit, err := shader.Load(shader.Canvas)
	require.NoError(t, err)

	rp, err := d.Begin(tg, render.LoadOpClear, render.White)
	require.NoError(t, err)
	assert.ErrorIs(t, rp.DrawSprites(blit, 0, 1), ErrMissingAttribute)
	require.NoError(t, rp.End())
}

func TestReadback(t *testing.T) {
	d := newDevice(t)
	// 300 pixels is 1200 bytes per row, padded to 1280 in the staging copy.
	tg := newTarget(t, d, 300, 2)

	_, err := d.ReadPixel(tg, 300, 0)
	require.ErrorIs(t, err, render.ErrOutOfBounds)
	_, err = d.ReadPixel(tg, 0, -1)
	require.ErrorIs(t, err, render.ErrOutOfBounds)

	px, err := d.ReadPixel(tg, 299, 1)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{}, px)
	assert.Equal(t, gputypes.TextureUsageCopySrc, tg.state)

	img, err := d.ReadTarget(tg)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Len(t, img.Pix, 300*2*4)
}

func TestClose(t *testing.T) {
	d := newDevice(t)
	tg := newTarget(t, d, 8, 8)
	require.NoError(t, d.SyncSprites(sprites(1), 0))

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err := d.NewTarget(render.TargetDescriptor{Width: 1, Height: 1})
	assert.ErrorIs(t, err, render.ErrDeviceClosed)
	_, err = d.Begin(tg, render.LoadOpClear, render.White)
	assert.ErrorIs(t, err, render.ErrDeviceClosed)
	_, err = d.ReadPixel(tg, 0, 0)
	assert.ErrorIs(t, err, render.ErrDeviceClosed)
	assert.ErrorIs(t, d.SyncSprites(sprites(1), 0), render.ErrDeviceClosed)
	assert.Empty(t, d.pipelines)
}

// hostDevice is a host handle that shares its HAL device.
type hostDevice struct {
	dev   hal.Device
	queue hal.Queue
}

func (h *hostDevice) Device() gpucontext.Device { return h.dev }

func (h *hostDevice) Queue() gpucontext.Queue { return h.queue }

func (h *hostDevice) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

func (h *hostDevice) Adapter() gpucontext.Adapter { return nil }

func (h *hostDevice) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "host"}
}

func (h *hostDevice) HalDevice() any { return h.dev }

func (h *hostDevice) HalQueue() any { return h.queue }

// webgpuHost exposes only the WebGPU-level device provider.
type webgpuHost struct {
	gpucontext.DeviceProvider
}

func TestOpenSharesHostDevice(t *testing.T) {
	dev, queue := openNoop(t)

	d, err := Open(backend.Options{Handle: &hostDevice{dev: dev, queue: queue}, Label: "app"})
	require.NoError(t, err)
	assert.True(t, d.external)
	assert.Equal(t, "host", d.Adapter())
	tg := newTarget(t, d, 4, 4)
	assert.Equal(t, "app.test", tg.Label())
	require.NoError(t, d.Close())

	dev2, err := backend.Get(Name, backend.Options{Handle: &hostDevice{dev: dev, queue: queue}})
	require.NoError(t, err)
	assert.Equal(t, Name, dev2.Name())
}

func TestOpenRejectsHandleWithoutHAL(t *testing.T) {
	_, err := Open(backend.Options{Handle: webgpuHost{}})
	assert.ErrorIs(t, err, ErrNoHAL)
}

func TestRendererFrameOnGPU(t *testing.T) {
	d := newDevice(t)
	r, err := ink.NewRenderer(d)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.WindowSizeChanged(64, 64))

	tg := newTarget(t, d, 64, 64)
	r.AddPoint(ink.Pt(0, 0))
	r.AddStroke(ink.Seg(ink.Pt(0, 0), ink.Pt(1000, 1000)))

	restore := r.EnterPicking()
	rp, err := d.Begin(tg, render.LoadOpClear, render.White)
	require.NoError(t, err)
	require.NoError(t, r.DrawStrokeSpritesRange(rp, 0, r.SpriteCount(), ink.Black, 8, ink.Identity(), 7))
	require.NoError(t, rp.End())
	restore()

	id, err := r.ProcessPicking(tg, 32, 32)
	require.NoError(t, err)
	assert.Equal(t, ink.PickID(0), id)
}
