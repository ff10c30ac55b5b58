// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

// Rect is an axis-aligned rectangle in normalized canvas space, the space
// of Point.Normalized before zoom and scroll are applied.
type Rect struct {
	Min, Max Point
}

// RectFromPoints returns the rectangle spanned by two corners in any order.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Min: Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return !(r.Min.X < r.Max.X) || !(r.Min.Y < r.Max.Y)
}

// Pad returns r grown by d on every side; negative d shrinks it.
func (r Rect) Pad(d float32) Rect {
	return Rect{
		Min: Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: Point{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// Union returns the smallest rectangle containing r and s. An empty
// operand is ignored.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	return Rect{
		Min: Point{X: min(r.Min.X, s.Min.X), Y: min(r.Min.Y, s.Min.Y)},
		Max: Point{X: max(r.Max.X, s.Max.X), Y: max(r.Max.Y, s.Max.Y)},
	}
}

// Corners returns the corners counter-clockwise from bottom-left.
func (r Rect) Corners() [][2]float32 {
	return [][2]float32{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}
}
