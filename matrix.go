// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

// Mat4 is a 4x4 transformation matrix in column-major order, the layout a
// WGSL mat4x4<f32> uniform expects:
//
//	| m[0] m[4] m[8]  m[12] |
//	| m[1] m[5] m[9]  m[13] |
//	| m[2] m[6] m[10] m[14] |
//	| m[3] m[7] m[11] m[15] |
//
// Strokes use it for object-local manipulation (move and resize tools).
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix in normalized units.
func Translate(x, y float32) Mat4 {
	m := Identity()
	m[12] = x
	m[13] = y
	return m
}

// Scale creates a scaling matrix.
func Scale(x, y float32) Mat4 {
	m := Identity()
	m[0] = x
	m[5] = y
	return m
}

// ScaleAbout scales by (sx, sy) keeping the point (cx, cy) fixed.
func ScaleAbout(sx, sy, cx, cy float32) Mat4 {
	return Translate(cx, cy).Multiply(Scale(sx, sy)).Multiply(Translate(-cx, -cy))
}

// Multiply returns m * other, so other is applied first.
func (m Mat4) Multiply(other Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// Apply transforms the point (x, y, 0, 1) and returns the resulting x, y.
func (m Mat4) Apply(x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Mat4) IsIdentity() bool {
	return m == Identity()
}
