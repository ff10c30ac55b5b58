// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/ink/backend"
	"github.com/gogpu/ink/render"
)

// Name is the registry name of the software device.
const Name = "software"

func init() {
	backend.Register(Name, backend.PrioritySoftware, func(backend.Options) (render.Device, error) {
		return New(), nil
	})
}

// target is a PixmapTarget tagged with its owning device.
type target struct {
	*render.PixmapTarget
	dev       *Device
	destroyed bool
}

// Device is the CPU render.Device.
//
// Device is NOT safe for concurrent use.
type Device struct {
	render.Scope

	log     *slog.Logger
	sprites []byte
	closed  bool
	live    int
}

// New creates a software device.
func New() *Device {
	return &Device{log: slog.New(slog.DiscardHandler)}
}

// SetLogger sets the device logger. Nil silences it.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.log = l
}

// Name implements render.Device.
func (d *Device) Name() string { return Name }

// NewTarget implements render.Device.
func (d *Device) NewTarget(desc render.TargetDescriptor) (render.Target, error) {
	if d.closed {
		return nil, render.ErrDeviceClosed
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: %q %dx%d", render.ErrInvalidTarget, desc.Label, desc.Width, desc.Height)
	}
	pt := render.NewPixmapTarget(desc.Width, desc.Height)
	pt.SetLabel(desc.Label)
	d.live++
	d.log.Debug("software: target created", "label", desc.Label, "width", desc.Width, "height", desc.Height)
	return &target{PixmapTarget: pt, dev: d}, nil
}

// DestroyTarget implements render.Device.
func (d *Device) DestroyTarget(t render.Target) {
	tt, ok := t.(*target)
	if !ok || tt == nil || tt.dev != d || tt.destroyed {
		return
	}
	tt.destroyed = true
	d.live--
}

// TargetTexture implements render.Device. A software target is its own
// texture.
func (d *Device) TargetTexture(t render.Target) render.Texture {
	tt, ok := t.(*target)
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
	pt := render.NewPixmapTarget(width, height)
	pt.SetLabel(label)
	copy(pt.Pixels(), rgba)
	d.live++
	return &target{PixmapTarget: pt, dev: d}, nil
}

// DestroyTexture implements render.Device.
func (d *Device) DestroyTexture(t render.Texture) {
	if tt, ok := t.(*target); ok {
		d.DestroyTarget(tt)
	}
}

// Live returns the number of targets and textures not yet destroyed.
func (d *Device) Live() int { return d.live }

// SyncSprites implements render.Device.
func (d *Device) SyncSprites(all []byte, from int) error {
	if d.closed {
		return render.ErrDeviceClosed
	}
	if from < 0 || from > len(all) {
		return fmt.Errorf("software: sync offset %d outside [0, %d]", from, len(all))
	}
	if cap(d.sprites) < len(all) {
		grown := make([]byte, len(all), max(len(all), 2*cap(d.sprites)))
		copy(grown, d.sprites)
		d.sprites = grown
	}
	d.sprites = d.sprites[:len(all)]
	copy(d.sprites[from:], all[from:])
	return nil
}

// Begin implements render.Device.
func (d *Device) Begin(t render.Target, load render.LoadOp, clear render.Color) (render.Pass, error) {
	tt, err := d.own(t)
	if err != nil {
		return nil, err
	}
	if err := d.Acquire(); err != nil {
		return nil, err
	}
	if load == render.LoadOpClear {
		tt.Clear(clear)
	}
	return &pass{dev: d, dst: tt}, nil
}

// ReadPixel implements render.Device.
func (d *Device) ReadPixel(t render.Target, x, y int) ([4]byte, error) {
	tt, err := d.own(t)
	if err != nil {
		return [4]byte{}, err
	}
	row := tt.Height() - 1 - y
	if !tt.InBounds(x, row) {
		return [4]byte{}, fmt.Errorf("%w: (%d, %d) in %dx%d", render.ErrOutOfBounds, x, y, tt.Width(), tt.Height())
	}
	return tt.PixelAt(x, row), nil
}

// ReadTarget implements render.Device.
func (d *Device) ReadTarget(t render.Target) (*image.RGBA, error) {
	tt, err := d.own(t)
	if err != nil {
		return nil, err
	}
	src := tt.Image()
	img := image.NewRGBA(src.Bounds())
	copy(img.Pix, src.Pix)
	return img, nil
}

// Close implements render.Device.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.sprites = nil
	if d.live > 0 {
		d.log.Debug("software: closing with live resources", "count", d.live)
	}
	return nil
}

func (d *Device) own(t render.Target) (*target, error) {
	if d.closed {
		return nil, render.ErrDeviceClosed
	}
	tt, ok := t.(*target)
	if !ok || tt == nil || tt.dev != d {
		return nil, render.ErrForeignResource
	}
	if tt.destroyed {
		return nil, fmt.Errorf("%w: %q destroyed", render.ErrInvalidTarget, tt.Label())
	}
	return tt, nil
}

var _ render.Device = (*Device)(nil)
