// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

// PickID identifies a drawable object in the picking pass.
//
// Only the low 24 bits are representable: the ID travels through the
// picking target as an RGB8 colour.
type PickID uint32

const (
	// MaxPickID is the largest identifier that survives the picking pass.
	MaxPickID PickID = 1<<24 - 1

	// NoPick is what an empty picking pixel decodes to. The picking target
	// is cleared to opaque white, so background reads back as 0xFFFFFF.
	// Collaborators should not hand this value out to objects.
	NoPick PickID = MaxPickID
)

// Valid reports whether id fits in the 24-bit pick colour space.
func (id PickID) Valid() bool {
	return id <= MaxPickID
}

// EncodePickID splits id into the RGB triple written by the picking shader:
// R holds the low byte, G the middle byte and B the high byte.
// Bits above 24 are discarded.
func EncodePickID(id PickID) (r, g, b uint8) {
	return uint8(id), uint8(id >> 8), uint8(id >> 16)
}

// DecodePickColor is the inverse of EncodePickID.
func DecodePickColor(r, g, b uint8) PickID {
	return PickID(r) | PickID(g)<<8 | PickID(b)<<16
}

// Color returns the encoded pick colour as normalized shader floats.
func (id PickID) Color() RGB {
	r, g, b := EncodePickID(id)
	return RGB{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
	}
}
