// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import "testing"

func TestMat4Apply(t *testing.T) {
	tests := []struct {
		name         string
		m            Mat4
		x, y         float32
		wantX, wantY float32
	}{
		{"identity", Identity(), 0.25, -0.5, 0.25, -0.5},
		{"translate", Translate(0.1, 0.2), 0, 0, 0.1, 0.2},
		{"scale", Scale(2, 3), 0.5, 0.5, 1, 1.5},
		{"scale about center", ScaleAbout(2, 2, 1, 1), 1, 1, 1, 1},
		{"scale then translate", Translate(1, 0).Multiply(Scale(2, 2)), 1, 1, 3, 2},
		{"translate then scale", Scale(2, 2).Multiply(Translate(1, 0)), 1, 1, 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.Apply(tt.x, tt.y)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMat4MultiplyIdentity(t *testing.T) {
	m := Translate(3, 4).Multiply(Scale(5, 6))
	if got := m.Multiply(Identity()); got != m {
		t.Errorf("m * I = %v, want %v", got, m)
	}
	if got := Identity().Multiply(m); got != m {
		t.Errorf("I * m = %v, want %v", got, m)
	}
	if !Identity().IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
	if m.IsIdentity() {
		t.Error("non-identity matrix reported as identity")
	}
}
