// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"github.com/gogpu/ink"
)

// DefaultPointSize is the stroke size new recorders start with, in
// thousandths of the canvas width.
const DefaultPointSize = 8

// Object is one drawable: the sprites [From, To) of the arena drawn with a
// single colour, size and transform.
type Object struct {
	ID        ink.PickID
	From, To  int
	Color     ink.RGB
	PointSize float32
	Transform ink.Mat4
}

// Len returns the number of sprites in the object.
func (o Object) Len() int { return o.To - o.From }

// overlap clips the object's range to [lo, hi).
func (o Object) overlap(lo, hi int) (from, to int, ok bool) {
	from, to = max(o.From, lo), min(o.To, hi)
	return from, to, from < to
}

// draw issues the object's sprites in [lo, hi).
func (o Object) draw(d Drawer, lo, hi int) error {
	from, to, ok := o.overlap(lo, hi)
	if !ok {
		return nil
	}
	return d.DrawStroke(from, to, o.Color, o.PointSize, o.Transform, o.ID)
}

// Bounds returns the object's bounding rectangle in normalized canvas
// space, with the transform applied.
func (o Object) Bounds(src SpriteSource) ink.Rect {
	var r ink.Rect
	first := true
	for i := o.From; i < o.To && i < src.Len(); i++ {
		n := src.At(i).Point().Normalized()
		x, y := o.Transform.Apply(n.X, n.Y)
		if first {
			r = ink.Rect{Min: ink.Pt(x, y), Max: ink.Pt(x, y)}
			first = false
			continue
		}
		r.Min.X, r.Min.Y = min(r.Min.X, x), min(r.Min.Y, y)
		r.Max.X, r.Max.Y = max(r.Max.X, x), max(r.Max.Y, y)
	}
	return r
}

// SpriteSource is the read side of the sprite arena.
type SpriteSource interface {
	Len() int
	At(i int) ink.Sprite
}

// Drawer draws sprite ranges. *canvas.Drawer implements it.
type Drawer interface {
	DrawStroke(from, to int, c ink.RGB, pointSize float32, transform ink.Mat4, id ink.PickID) error
	Picking() bool
}
