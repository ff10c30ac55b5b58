// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // registers the Vulkan HAL backend

	"github.com/gogpu/ink/backend"
	"github.com/gogpu/ink/render"
)

// Name is the registry name of the GPU device.
const Name = "wgpu"

// minSpriteBytes is the initial size of the sprite vertex buffer.
const minSpriteBytes = 64 << 10

func init() {
	backend.Register(Name, backend.PriorityGPU, func(opts backend.Options) (render.Device, error) {
		return Open(opts)
	})
}

// Device is the GPU render.Device.
//
// Device is NOT safe for concurrent use.
type Device struct {
	render.Scope

	log      *slog.Logger
	label    string
	adapter  string
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	external bool

	sprites   hal.Buffer
	spriteCap uint64
	spriteLen int
	retired   []hal.Buffer

	sampler   hal.Sampler
	pipelines map[pipelineKey]*pipeline

	live   int
	closed bool
}

// New wraps an open HAL device and queue. The caller keeps ownership of
// both; Close releases only what the ink device created.
func New(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: nil device or queue")
	}
	return &Device{
		log:       slog.New(slog.DiscardHandler),
		label:     "ink",
		device:    device,
		queue:     queue,
		external:  true,
		pipelines: make(map[pipelineKey]*pipeline),
	}, nil
}

// Open creates a device. A host handle that exposes its HAL device and
// queue is shared; without a handle a standalone Vulkan device is opened.
func Open(opts backend.Options) (*Device, error) {
	var (
		d   *Device
		err error
	)
	if opts.Handle != nil {
		d, err = fromHandle(opts.Handle)
	} else {
		d, err = openStandalone()
	}
	if err != nil {
		return nil, err
	}
	if opts.Label != "" {
		d.label = opts.Label
	}
	return d, nil
}

func fromHandle(h render.DeviceHandle) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := h.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
	}
	d, err := New(device, queue)
	if err != nil {
		return nil, err
	}
	d.adapter = h.AdapterInfo().Name
	return d, nil
}

func openStandalone() (*Device, error) {
	api, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoAdapter)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device on %q: %w", selected.Info.Name, err)
	}
	d, err := New(open.Device, open.Queue)
	if err != nil {
		instance.Destroy()
		return nil, err
	}
	d.external = false
	d.instance = instance
	d.adapter = selected.Info.Name
	return d, nil
}

// SetLogger sets the device logger. Nil silences it.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.log = l
	d.log.Debug("wgpu: device ready", "adapter", d.adapter, "shared", d.external)
}

// Name implements render.Device.
func (d *Device) Name() string { return Name }

// Adapter returns the adapter name, empty when unknown.
func (d *Device) Adapter() string { return d.adapter }

// Live returns the number of targets and textures not yet destroyed.
func (d *Device) Live() int { return d.live }

// texture is a GPU texture with its default view. Targets are textures
// created with render attachment usage.
type texture struct {
	dev       *Device
	label     string
	width     int
	height    int
	format    gputypes.TextureFormat
	tex       hal.Texture
	view      hal.TextureView
	state     gputypes.TextureUsage
	target    bool
	destroyed bool
}

func (t *texture) Width() int { return t.width }

func (t *texture) Height() int { return t.height }

func (t *texture) Format() gputypes.TextureFormat { return t.format }

func (t *texture) Label() string { return t.label }

// barrier moves the texture into usage to, reporting false when it is
// already there.
func (t *texture) barrier(to gputypes.TextureUsage) (hal.TextureBarrier, bool) {
	if t.state == to {
		return hal.TextureBarrier{}, false
	}
	b := hal.TextureBarrier{
		Texture: t.tex,
		Range: hal.TextureRange{
			Aspect:          gputypes.TextureAspectAll,
			MipLevelCount:   1,
			ArrayLayerCount: 1,
		},
		Usage: hal.TextureUsageTransition{OldUsage: t.state, NewUsage: to},
	}
	t.state = to
	return b, true
}

func (d *Device) newTexture(label string, w, h int, format gputypes.TextureFormat, usage gputypes.TextureUsage) (*texture, error) {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label + "_view",
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create view %q: %w", label, err)
	}
	d.live++
	return &texture{
		dev:    d,
		label:  label,
		width:  w,
		height: h,
		format: format,
		tex:    tex,
		view:   view,
	}, nil
}

func (d *Device) destroy(t *texture) {
	if t == nil || t.dev != d || t.destroyed {
		return
	}
	t.destroyed = true
	d.live--
	if d.closed {
		return
	}
	d.device.DestroyTextureView(t.view)
	d.device.DestroyTexture(t.tex)
}

// NewTarget implements render.Device.
func (d *Device) NewTarget(desc render.TargetDescriptor) (render.Target, error) {
	if d.closed {
		return nil, render.ErrDeviceClosed
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: %q %dx%d", render.ErrInvalidTarget, desc.Label, desc.Width, desc.Height)
	}
	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	t, err := d.newTexture(d.label+"."+desc.Label, desc.Width, desc.Height, format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc)
	if err != nil {
		return nil, err
	}
	t.target = true
	d.log.Debug("wgpu: target created", "label", t.label, "width", desc.Width, "height", desc.Height)
	return t, nil
}

// DestroyTarget implements render.Device.
func (d *Device) DestroyTarget(t render.Target) {
	if tt, ok := t.(*texture); ok {
		d.destroy(tt)
	}
}

// TargetTexture implements render.Device. A target is sampled through its
// own default view.
func (d *Device) TargetTexture(t render.Target) render.Texture {
	tt, ok := t.(*texture)
	if !ok || tt.dev != d {
		return nil
	}
	return tt
}

// NewTexture implements render.Device.
func (d *Device) NewTexture(label string, width, height int, rgba []byte) (render.Texture, error) {
	if d.closed {
		return nil, render.ErrDeviceClosed
	}
	if width <= 0 || height <= 0 || len(rgba) < width*height*4 {
		return nil, fmt.Errorf("%w: texture %q %dx%d with %d bytes", render.ErrInvalidTarget, label, width, height, len(rgba))
	}
	t, err := d.newTexture(d.label+"."+label, width, height, gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	err = d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		rgba[:width*height*4],
		&hal.ImageDataLayout{BytesPerRow: uint32(width * 4), RowsPerImage: uint32(height)},
		&hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
	)
	if err != nil {
		d.destroy(t)
		return nil, fmt.Errorf("wgpu: upload texture %q: %w", label, err)
	}
	t.state = gputypes.TextureUsageCopyDst
	return t, nil
}

// DestroyTexture implements render.Device.
func (d *Device) DestroyTexture(t render.Texture) {
	if tt, ok := t.(*texture); ok {
		d.destroy(tt)
	}
}

// SyncSprites implements render.Device. Growing the buffer re-uploads the
// whole arena; the old buffer stays alive until the next submission
// finishes because recorded passes may still reference it.
func (d *Device) SyncSprites(all []byte, from int) error {
	if d.closed {
		return render.ErrDeviceClosed
	}
	if from < 0 || from > len(all) {
		return fmt.Errorf("wgpu: sync offset %d outside [0, %d]", from, len(all))
	}
	if len(all)%4 != 0 || from%4 != 0 {
		return fmt.Errorf("wgpu: sprite data not 4-byte aligned (len %d, from %d)", len(all), from)
	}
	need := uint64(len(all))
	if need > d.spriteCap {
		size := max(need, 2*d.spriteCap, minSpriteBytes)
		buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: d.label + ".sprites",
			Size:  size,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("wgpu: grow sprite buffer to %d bytes: %w", size, err)
		}
		if d.sprites != nil {
			d.retired = append(d.retired, d.sprites)
		}
		d.sprites = buf
		d.spriteCap = size
		from = 0
		d.log.Debug("wgpu: sprite buffer grown", "bytes", size)
	}
	if from < len(all) {
		if err := d.queue.WriteBuffer(d.sprites, uint64(from), all[from:]); err != nil {
			return fmt.Errorf("wgpu: upload sprites: %w", err)
		}
	}
	d.spriteLen = len(all)
	return nil
}

// Begin implements render.Device.
func (d *Device) Begin(t render.Target, load render.LoadOp, clear render.Color) (render.Pass, error) {
	tt, err := d.own(t)
	if err != nil {
		return nil, err
	}
	if !tt.target {
		return nil, fmt.Errorf("%w: %q is not a render target", render.ErrInvalidTarget, tt.label)
	}
	if err := d.Acquire(); err != nil {
		return nil, err
	}
	return &pass{dev: d, dst: tt, load: load, clear: clear}, nil
}

// Close implements render.Device.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	err := d.device.WaitIdle()
	d.releaseRetired()
	for key, pl := range d.pipelines {
		pl.destroy(d.device)
		delete(d.pipelines, key)
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
	if d.sprites != nil {
		d.device.DestroyBuffer(d.sprites)
		d.sprites = nil
	}
	if d.live > 0 {
		d.log.Debug("wgpu: closing with live resources", "count", d.live)
	}
	d.closed = true
	if !d.external {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	if err != nil {
		return fmt.Errorf("wgpu: wait idle on close: %w", err)
	}
	return nil
}

func (d *Device) releaseRetired() {
	for _, b := range d.retired {
		d.device.DestroyBuffer(b)
	}
	d.retired = d.retired[:0]
}

// submit records commands into a fresh encoder, submits them and waits
// for the queue to drain.
func (d *Device) submit(label string, record func(enc hal.CommandEncoder) error) error {
	enc, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("wgpu: create encoder %q: %w", label, err)
	}
	defer enc.Destroy()

	if err := enc.BeginEncoding(label); err != nil {
		return fmt.Errorf("wgpu: begin encoding %q: %w", label, err)
	}
	if err := record(enc); err != nil {
		enc.DiscardEncoding()
		return err
	}
	cmd, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding %q: %w", label, err)
	}
	defer d.device.FreeCommandBuffer(cmd)

	if _, err := d.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return fmt.Errorf("wgpu: submit %q: %w", label, err)
	}
	if err := d.device.WaitIdle(); err != nil {
		return fmt.Errorf("wgpu: wait %q: %w", label, err)
	}
	return nil
}

func (d *Device) own(t render.Target) (*texture, error) {
	if d.closed {
		return nil, render.ErrDeviceClosed
	}
	tt, ok := t.(*texture)
	if !ok || tt == nil || tt.dev != d {
		return nil, render.ErrForeignResource
	}
	if tt.destroyed {
		return nil, fmt.Errorf("%w: %q destroyed", render.ErrInvalidTarget, tt.label)
	}
	return tt, nil
}

var (
	_ render.Device  = (*Device)(nil)
	_ render.Target  = (*texture)(nil)
	_ render.Texture = (*texture)(nil)
)
