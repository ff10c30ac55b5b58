// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import "encoding/binary"

const (
	// FixedScale is the quantization factor between clip space [-1, 1] and
	// the int16 sprite coordinates.
	FixedScale = 32767

	minFixed = -32768

	// SpriteSize is the byte size of one sprite: two little-endian int16.
	SpriteSize = 4

	// DefaultMaxSprites bounds the arena when no explicit capacity is given.
	DefaultMaxSprites = 10_000_000

	// initialArenaSprites is the first allocation; the arena doubles from
	// there until it reaches its bound.
	initialArenaSprites = 4096
)

// Sprite is one ink dab in fixed-point normalized device space.
type Sprite struct {
	X, Y int16
}

// Point returns the sprite position as a fixed-point Point.
func (s Sprite) Point() Point {
	return Point{X: float32(s.X), Y: float32(s.Y)}
}

// SpriteArena is an append-only sprite store indexed by a monotonically
// increasing counter. Sprites are never mutated or removed, so an index
// handed out once stays valid for the arena's lifetime.
//
// Storage grows geometrically up to the capacity bound. Appends beyond the
// bound are dropped and do not advance the counter.
//
// SpriteArena is NOT safe for concurrent use.
type SpriteArena struct {
	data     []byte
	count    int
	capacity int
	dropped  int
}

// NewSpriteArena creates an arena holding at most maxSprites sprites.
// A non-positive bound selects DefaultMaxSprites.
func NewSpriteArena(maxSprites int) *SpriteArena {
	if maxSprites <= 0 {
		maxSprites = DefaultMaxSprites
	}
	return &SpriteArena{capacity: maxSprites}
}

// Append stores a sprite at p and reports whether it was written.
// Points outside the int16 range and appends past capacity are dropped.
func (a *SpriteArena) Append(p Point) bool {
	if !p.InRange() {
		return false
	}
	if a.count >= a.capacity {
		a.dropped++
		if a.dropped == 1 {
			Logger().Warn("ink: sprite arena full, dropping sprites", "capacity", a.capacity)
		}
		return false
	}
	a.grow()

	off := a.count * SpriteSize
	// Truncation toward zero matches a C-style float to short cast.
	binary.LittleEndian.PutUint16(a.data[off:], uint16(int16(p.X)))
	binary.LittleEndian.PutUint16(a.data[off+2:], uint16(int16(p.Y)))
	a.count++
	return true
}

func (a *SpriteArena) grow() {
	need := (a.count + 1) * SpriteSize
	if need <= len(a.data) {
		return
	}
	n := len(a.data) / SpriteSize * 2
	if n < initialArenaSprites {
		n = initialArenaSprites
	}
	if n > a.capacity {
		n = a.capacity
	}
	data := make([]byte, n*SpriteSize)
	copy(data, a.data[:a.count*SpriteSize])
	a.data = data
	Logger().Debug("ink: sprite arena grown", "sprites", n)
}

// Len returns the sprite counter: the number of sprites stored.
func (a *SpriteArena) Len() int {
	return a.count
}

// Cap returns the capacity bound.
func (a *SpriteArena) Cap() int {
	return a.capacity
}

// Dropped returns how many appends were rejected for lack of capacity.
func (a *SpriteArena) Dropped() int {
	return a.dropped
}

// At returns the sprite at index i. It panics if i is out of range.
func (a *SpriteArena) At(i int) Sprite {
	if i < 0 || i >= a.count {
		panic("ink: sprite index out of range")
	}
	off := i * SpriteSize
	return Sprite{
		X: int16(binary.LittleEndian.Uint16(a.data[off:])),
		Y: int16(binary.LittleEndian.Uint16(a.data[off+2:])),
	}
}

// Bytes returns the stored sprites in wire layout. The slice aliases the
// arena and is only valid until the next Append.
func (a *SpriteArena) Bytes() []byte {
	return a.data[:a.count*SpriteSize]
}
