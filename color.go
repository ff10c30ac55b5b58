// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import (
	"fmt"
	"image/color"
)

// RGB is an opaque paint colour. Each component is in the range [0, 1].
type RGB struct {
	R, G, B float32
}

// Common colours.
var (
	Black = RGB{0, 0, 0}
	White = RGB{1, 1, 1}
)

// Color converts RGB to the standard color.Color interface.
func (c RGB) Color() color.Color {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: 0xFF,
	}
}

// Vec3 returns the components in shader order.
func (c RGB) Vec3() (r, g, b float32) {
	return c.R, c.G, c.B
}

// FromColor converts a standard color.Color to RGB, dropping alpha.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: float32(r) / 65535,
		G: float32(g) / 65535,
		B: float32(b) / 65535,
	}
}

// Hex creates a colour from a hex string, returning black when the string
// cannot be parsed. Use ParseHex to get the error.
func Hex(hex string) RGB {
	c, err := ParseHex(hex)
	if err != nil {
		return Black
	}
	return c
}

// ParseHex parses "#RGB" or "#RRGGBB" (the '#' is optional).
func ParseHex(hex string) (RGB, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b uint32
	var ok bool
	switch len(s) {
	case 3:
		r, ok = parseHex(s[0:1])
		if ok {
			g, ok = parseHex(s[1:2])
		}
		if ok {
			b, ok = parseHex(s[2:3])
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		r, ok = parseHex(s[0:2])
		if ok {
			g, ok = parseHex(s[2:4])
		}
		if ok {
			b, ok = parseHex(s[4:6])
		}
	}
	if !ok {
		return Black, fmt.Errorf("ink: invalid hex colour %q", hex)
	}

	return RGB{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
	}, nil
}

// Hex formats the colour as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

func parseHex(s string) (uint32, bool) {
	var val uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		val *= 16
		switch {
		case '0' <= c && c <= '9':
			val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			val += uint32(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return val, true
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xFF
	}
	return uint8(v*255 + 0.5)
}
