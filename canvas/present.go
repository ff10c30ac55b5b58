// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// textureDestroyer is implemented by host textures that hold GPU memory.
type textureDestroyer interface {
	Destroy()
}

// PresentTo draws the last composited frame to a host that composites
// textures itself, at position (0, 0).
//
// The host texture is created on first use through dc's TextureCreator and
// updated in place afterwards when it supports gpucontext.TextureUpdater.
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    c.Frame(ctx)
//	    c.PresentTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) PresentTo(dc gpucontext.TextureDrawer) error {
	if c.closed {
		return ErrClosed
	}
	if c.screenTarget == nil {
		return ErrNotSized
	}
	img, err := c.dev.ReadTarget(c.screenTarget)
	if err != nil {
		return fmt.Errorf("canvas: read screen target: %w", err)
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	if c.hostTex != nil && c.hostTex.Width() == w && c.hostTex.Height() == h {
		if u, ok := c.hostTex.(gpucontext.TextureUpdater); ok {
			if err := u.UpdateData(img.Pix); err != nil {
				return fmt.Errorf("canvas: UpdateData failed: %w", err)
			}
			return dc.DrawTexture(c.hostTex, 0, 0)
		}
	}

	creator := dc.TextureCreator()
	if creator == nil {
		return ErrInvalidRenderer
	}
	tex, err := creator.NewTextureFromRGBA(w, h, img.Pix)
	if err != nil {
		return fmt.Errorf("canvas: NewTextureFromRGBA failed: %w", err)
	}
	if tex == nil {
		return ErrInvalidDrawContext
	}
	// Targets hold premultiplied alpha.
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}

	// Creation waited for the GPU, so the old texture is no longer in use.
	c.releaseHostTexture()
	c.hostTex = tex
	return dc.DrawTexture(tex, 0, 0)
}

func (c *Canvas) releaseHostTexture() {
	if c.hostTex == nil {
		return
	}
	if d, ok := c.hostTex.(textureDestroyer); ok {
		d.Destroy()
	}
	c.hostTex = nil
}
