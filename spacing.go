// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import "github.com/chewxy/math32"

// maxWalk bounds the sprites one segment may produce. The fixed-point
// canvas is 65536 units across, so a valid segment never comes close.
const maxWalk = 1 << 24

// Walker samples pointer segments into evenly spaced sprite positions.
//
// The walker carries a leftover distance between segments: the offset along
// the next segment at which the next sprite is due. Consecutive segments of
// one stroke therefore produce sprites exactly Spacing apart no matter how
// the pointer samples are distributed.
type Walker struct {
	Spacing float32
	Ratio   float32

	leftover float32
}

// NewWalker returns a walker for the given spacing and canvas aspect ratio
// with a leftover of one full spacing.
func NewWalker(spacing, ratio float32) *Walker {
	return &Walker{Spacing: spacing, Ratio: ratio, leftover: spacing}
}

// Reset starts a fresh spacing interval. It is called after a stroke's first
// sprite has been placed, so the next sprite lands one spacing away from it.
func (w *Walker) Reset() {
	w.leftover = w.Spacing
}

// Leftover returns the offset at which the next sprite is due.
func (w *Walker) Leftover() float32 {
	return w.leftover
}

// SetLeftover overrides the carried offset.
func (w *Walker) SetLeftover(e float32) {
	w.leftover = e
}

// Walk emits sprite positions along seg starting at the carried leftover E
// and stepping by Spacing S. With aspect-corrected length L it emits
// floor((L-E)/S)+1 positions when E < L and none otherwise, then carries
// E+n*S-L into the next call.
//
// Offsets are computed as E+k*S rather than by repeated addition so long
// segments do not accumulate rounding drift.
//
// A segment with a non-finite length, or one needing more than maxWalk
// sprites, is dropped: nothing is emitted and the leftover is kept, so the
// stroke continues from the next valid sample.
func (w *Walker) Walk(seg Segment, emit func(Point)) int {
	length := seg.Length(w.Ratio)
	if math32.IsNaN(length) || math32.IsInf(length, 0) {
		return 0
	}
	e := w.leftover
	if w.Spacing <= 0 || !(e < length) {
		w.leftover = e - length
		return 0
	}

	steps := math32.Floor((length - e) / w.Spacing)
	if !(steps < maxWalk) {
		return 0
	}
	n := int(steps) + 1
	dx := seg.To.X - seg.From.X
	dy := seg.To.Y - seg.From.Y
	for k := 0; k < n; k++ {
		t := (e + float32(k)*w.Spacing) / length
		emit(Point{X: seg.From.X + dx*t, Y: seg.From.Y + dy*t})
	}
	w.leftover = e + float32(n)*w.Spacing - length
	return n
}
