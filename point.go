// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import "github.com/chewxy/math32"

// Point is a position in fixed-point normalized device space.
//
// Both axes span [-SCALE, SCALE] where SCALE is [FixedScale]. X grows to the
// right and Y grows upwards; the top edge of the canvas is Y = +FixedScale.
type Point struct {
	X, Y float32
}

// Pt is a convenience function to create a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// InRange reports whether p can be stored as a sprite without overflow.
func (p Point) InRange() bool {
	return p.X >= minFixed && p.X <= FixedScale && p.Y >= minFixed && p.Y <= FixedScale
}

// Normalized returns p divided by FixedScale, i.e. in [-1, 1] clip units.
func (p Point) Normalized() Point {
	return Point{X: p.X / FixedScale, Y: p.Y / FixedScale}
}

// Segment is the straight line between two consecutive pointer samples.
type Segment struct {
	From, To Point
}

// Seg is a convenience function to create a Segment.
func Seg(from, to Point) Segment {
	return Segment{From: from, To: to}
}

// Length returns the segment length with the vertical delta weighted by
// ratio. Normalized Y covers ratio times more pixels than normalized X on a
// canvas with that aspect ratio, so the weighting keeps spacing visually
// uniform in both directions.
func (s Segment) Length(ratio float32) float32 {
	w := s.To.X - s.From.X
	h := s.To.Y - s.From.Y
	return math32.Sqrt(h*h*ratio*ratio + w*w)
}
