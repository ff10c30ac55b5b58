// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"github.com/gogpu/ink/render"
	"github.com/gogpu/ink/shader"
)

// pass rasterises into one PixmapTarget.
type pass struct {
	dev   *Device
	dst   *target
	ended bool
}

// uniforms is the subset of a program's uniform block the rasteriser
// reads. Members a program does not declare keep neutral values.
type uniforms struct {
	m          [16]float32
	zoom       float32
	scroll     float32
	viewport   [2]float32
	color      [4]byte
	pointSize  float32
	hasManip   bool
	hasSprites bool
}

func readUniforms(p *shader.Program) uniforms {
	u := uniforms{zoom: 1, color: [4]byte{0, 0, 0, 255}}
	if m, ok := p.Mat4("manipulation"); ok {
		u.m = m
		u.hasManip = true
	}
	if zs, ok := p.Vec2("zoom_scroll"); ok {
		u.zoom, u.scroll = zs[0], zs[1]
	}
	if vp, ok := p.Vec2("viewport"); ok {
		u.viewport = vp
	}
	if c, ok := p.Vec3("color"); ok {
		u.color = render.Color{R: c[0], G: c[1], B: c[2], A: 1}.RGBA8()
	}
	if ps, ok := p.Float("point_size"); ok {
		u.pointSize = ps
		u.hasSprites = true
	}
	return u
}

// transform maps a canvas-space point through manipulation and the
// zoom/scroll window into clip space.
func (u *uniforms) transform(x, y float32) (float32, float32) {
	if u.hasManip {
		m := &u.m
		x, y = m[0]*x+m[4]*y+m[12], m[1]*x+m[5]*y+m[13]
	}
	return x, y*u.zoom - u.zoom + 1 + u.scroll
}

// toPixel converts clip space to continuous image coordinates (top-left
// origin, y down).
func (ps *pass) toPixel(x, y float32) (float32, float32) {
	w := float32(ps.dst.Width())
	h := float32(ps.dst.Height())
	return (x + 1) * 0.5 * w, (1 - y) * 0.5 * h
}

func (ps *pass) check(p *shader.Program) error {
	if ps.ended {
		return render.ErrPassEnded
	}
	if p == nil {
		return fmt.Errorf("software: nil program")
	}
	return nil
}

// DrawSprites implements render.Pass.
func (ps *pass) DrawSprites(p *shader.Program, first, count int) error {
	if err := ps.check(p); err != nil {
		return err
	}
	n := len(ps.dev.sprites) / 4
	if first < 0 || count < 0 || first+count > n {
		return fmt.Errorf("software: sprites [%d, %d) outside synced range %d", first, first+count, n)
	}
	u := readUniforms(p)
	if !u.hasSprites || u.viewport[0] <= 0 || u.viewport[1] <= 0 {
		return nil
	}

	w := float32(ps.dst.Width())
	h := float32(ps.dst.Height())
	// Clip half extent is point_size/viewport; in pixels that is half the
	// point size scaled by target/viewport.
	rx := max(u.pointSize/u.viewport[0]*w*0.5, 0.5)
	ry := max(u.pointSize/u.viewport[1]*h*0.5, 0.5)

	for i := first; i < first+count; i++ {
		off := i * 4
		sx := snorm16(binary.LittleEndian.Uint16(ps.dev.sprites[off:]))
		sy := snorm16(binary.LittleEndian.Uint16(ps.dev.sprites[off+2:]))
		cx, cy := ps.toPixel(u.transform(sx, sy))
		ps.disc(cx, cy, rx, ry, u.color)
	}
	return nil
}

// disc fills every pixel whose centre lies inside the ellipse, plus the
// pixel containing the centre so sub-pixel sprites still register.
func (ps *pass) disc(cx, cy, rx, ry float32, c [4]byte) {
	dst := ps.dst
	x0 := max(int(math32.Floor(cx-rx)), 0)
	x1 := min(int(math32.Ceil(cx+rx)), dst.Width()-1)
	y0 := max(int(math32.Floor(cy-ry)), 0)
	y1 := min(int(math32.Ceil(cy+ry)), dst.Height()-1)
	for y := y0; y <= y1; y++ {
		dy := (float32(y) + 0.5 - cy) / ry
		for x := x0; x <= x1; x++ {
			dx := (float32(x) + 0.5 - cx) / rx
			if dx*dx+dy*dy <= 1 {
				dst.SetPixelAt(x, y, c)
			}
		}
	}
	if px, py := int(math32.Floor(cx)), int(math32.Floor(cy)); dst.InBounds(px, py) {
		dst.SetPixelAt(px, py, c)
	}
}

// DrawLineLoop implements render.Pass.
func (ps *pass) DrawLineLoop(p *shader.Program, pts [][2]float32) error {
	if err := ps.check(p); err != nil {
		return err
	}
	if len(pts) < 2 {
		return nil
	}
	u := readUniforms(p)
	u.hasManip = false
	prev := pts[len(pts)-1]
	for _, pt := range pts {
		x0, y0 := ps.toPixel(u.transform(prev[0], prev[1]))
		x1, y1 := ps.toPixel(u.transform(pt[0], pt[1]))
		ps.line(x0, y0, x1, y1, u.color)
		prev = pt
	}
	return nil
}

// line draws a one-pixel DDA line between continuous pixel coordinates.
func (ps *pass) line(x0, y0, x1, y1 float32, c [4]byte) {
	steps := int(math32.Ceil(max(math32.Abs(x1-x0), math32.Abs(y1-y0))))
	if steps == 0 {
		steps = 1
	}
	dx := (x1 - x0) / float32(steps)
	dy := (y1 - y0) / float32(steps)
	x, y := x0, y0
	for i := 0; i <= steps; i++ {
		px := int(math32.Floor(x))
		py := int(math32.Floor(y))
		// Lines on the right or bottom edge land one past the last pixel.
		px = min(px, ps.dst.Width()-1)
		py = min(py, ps.dst.Height()-1)
		if ps.dst.InBounds(px, py) {
			ps.dst.SetPixelAt(px, py, c)
		}
		x += dx
		y += dy
	}
}

// DrawTexturedQuad implements render.Pass.
func (ps *pass) DrawTexturedQuad(p *shader.Program, tex render.Texture, q render.Quad) error {
	if err := ps.check(p); err != nil {
		return err
	}
	src, ok := tex.(*target)
	if !ok || src.dev != ps.dev {
		return render.ErrForeignResource
	}
	if src.destroyed {
		return fmt.Errorf("%w: texture %q destroyed", render.ErrInvalidTarget, src.Label())
	}
	if src == ps.dst {
		return fmt.Errorf("software: texture %q is the pass target", src.Label())
	}

	// v = 1 is the first image row, so the uv (0,1) corner at (X, Y) is the
	// image's top-left when the quad extends downwards (H < 0).
	ax, ay := ps.toPixel(q.X, q.Y)
	bx, by := ps.toPixel(q.X+q.W, q.Y+q.H)
	flipX := bx < ax
	flipY := by < ay
	dr := image.Rect(round(min(ax, bx)), round(min(ay, by)), round(max(ax, bx)), round(max(ay, by)))
	if dr.Empty() {
		return nil
	}

	dst := ps.dst.Image()
	if !flipX && !flipY {
		draw.NearestNeighbor.Scale(dst, dr, src.Image(), src.Image().Bounds(), draw.Over, nil)
		return nil
	}
	ps.blitFlipped(src, dr, flipX, flipY)
	return nil
}

// blitFlipped is the nearest-neighbour src-over path for mirrored quads.
func (ps *pass) blitFlipped(src *target, dr image.Rectangle, flipX, flipY bool) {
	vis := dr.Intersect(ps.dst.Image().Bounds())
	sw, sh := src.Width(), src.Height()
	for y := vis.Min.Y; y < vis.Max.Y; y++ {
		ty := (y - dr.Min.Y) * sh / dr.Dy()
		if flipY {
			ty = sh - 1 - ty
		}
		for x := vis.Min.X; x < vis.Max.X; x++ {
			tx := (x - dr.Min.X) * sw / dr.Dx()
			if flipX {
				tx = sw - 1 - tx
			}
			ps.dst.SetPixelAt(x, y, over(src.PixelAt(tx, ty), ps.dst.PixelAt(x, y)))
		}
	}
}

// over composites premultiplied s onto d.
func over(s, d [4]byte) [4]byte {
	inv := 255 - uint32(s[3])
	var out [4]byte
	for i := range out {
		out[i] = byte(min(uint32(s[i])+(uint32(d[i])*inv+127)/255, 255))
	}
	return out
}

// End implements render.Pass.
func (ps *pass) End() error {
	if ps.ended {
		return nil
	}
	ps.ended = true
	ps.dev.Release()
	return nil
}

// snorm16 decodes a signed 16-bit value the way a snorm16 vertex format
// does.
func snorm16(v uint16) float32 {
	return max(float32(int16(v))/32767, -1)
}

func round(v float32) int {
	return int(math32.Floor(v + 0.5))
}

var _ render.Pass = (*pass)(nil)
