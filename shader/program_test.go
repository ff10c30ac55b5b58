// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsCompile(t *testing.T) {
	for _, name := range []string{Stroke, Picking, SelectionRect, Canvas} {
		t.Run(name, func(t *testing.T) {
			p, err := Load(name)
			require.NoError(t, err)
			vs, fs := p.EntryPoints()
			assert.Equal(t, "vs_main", vs)
			assert.Equal(t, "fs_main", fs)
			assert.Equal(t, name, p.Name())
		})
	}
}

func TestStrokeUniformLayout(t *testing.T) {
	p := MustLoad(Stroke)

	tests := []struct {
		name   string
		offset int
		kind   Kind
	}{
		{"manipulation", 0, KindMat4},
		{"zoom_scroll", 64, KindVec2},
		{"viewport", 72, KindVec2},
		{"color", 80, KindVec3},
		{"point_size", 92, KindFloat},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.offset, p.UniformLocation(tt.name), tt.name)
		u, ok := p.Uniform(tt.name)
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.kind, u.Kind, tt.name)
	}
	assert.Len(t, p.Uniforms(), 96)
	assert.Equal(t, 0, p.AttributeLocation("sprite"))
	assert.Equal(t, -1, p.AttributeLocation("position"))
}

func TestPickingMatchesStrokeLayout(t *testing.T) {
	stroke := MustLoad(Stroke)
	picking := MustLoad(Picking)
	for _, name := range []string{"manipulation", "zoom_scroll", "viewport", "color", "point_size"} {
		assert.Equal(t, stroke.UniformLocation(name), picking.UniformLocation(name), name)
	}
}

func TestCanvasBindings(t *testing.T) {
	p := MustLoad(Canvas)
	assert.False(t, p.HasUniforms())
	assert.Equal(t, -1, p.UniformLocation("zoom_scroll"))

	b := p.Bindings()
	require.Len(t, b, 2)
	assert.Equal(t, ResourceBinding{Name: "tex", Kind: ResourceTexture, Binding: 0}, b[0])
	assert.Equal(t, ResourceBinding{Name: "samp", Kind: ResourceSampler, Binding: 1}, b[1])
	assert.Equal(t, 0, p.AttributeLocation("position"))
	assert.Equal(t, 1, p.AttributeLocation("uv"))
}

func TestSettersRoundTrip(t *testing.T) {
	p := MustLoad(Stroke)

	p.SetFloat("point_size", 2.5)
	p.SetVec2("zoom_scroll", 3, -0.5)
	p.SetVec3("color", 0.1, 0.2, 0.3)
	m := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0.25, -0.25, 0, 1}
	p.SetMat4("manipulation", m)

	f, ok := p.Float("point_size")
	assert.True(t, ok)
	assert.Equal(t, float32(2.5), f)

	zs, _ := p.Vec2("zoom_scroll")
	assert.Equal(t, [2]float32{3, -0.5}, zs)

	c, _ := p.Vec3("color")
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, c)

	got, _ := p.Mat4("manipulation")
	assert.Equal(t, m, got)
}

func TestUnknownUniformIsNoop(t *testing.T) {
	p := MustLoad(SelectionRect)
	before := append([]byte(nil), p.Uniforms()...)

	p.SetFloat("point_size", 4)
	p.SetMat4("manipulation", [16]float32{1})
	// Kind mismatch is ignored as well.
	p.SetFloat("color", 1)

	assert.Equal(t, before, p.Uniforms())
	_, ok := p.Float("point_size")
	assert.False(t, ok)
}

func TestLoadReturnsIndependentBlocks(t *testing.T) {
	a := MustLoad(Stroke)
	b := MustLoad(Stroke)
	a.SetFloat("point_size", 7)

	v, _ := b.Float("point_size")
	assert.Zero(t, v)
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("broken", "fn vs_main( {")
	assert.True(t, errors.Is(err, ErrParse), "got %v", err)

	noFragment := `
@vertex
fn vs_main(@location(0) p: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(p, 0.0, 1.0);
}
`
	_, err = Compile("vertex-only", noFragment)
	assert.True(t, errors.Is(err, ErrEntryPoint), "got %v", err)

	_, err = Load("missing")
	assert.Error(t, err)
}

func TestCompileReusesReflection(t *testing.T) {
	src, err := Source(Stroke)
	require.NoError(t, err)
	_, err = Compile("first", src)
	require.NoError(t, err)

	before := CacheStats()
	p, err := Compile("second", src)
	require.NoError(t, err)
	after := CacheStats()

	assert.Equal(t, before.Hits+1, after.Hits, "same source must hit the cache")
	assert.Equal(t, before.Misses, after.Misses)
	assert.Equal(t, "second", p.Name(), "clones take the caller's name")

	_, err = Compile("broken", "fn vs_main( {")
	require.Error(t, err)
	_, err = Compile("broken", "fn vs_main( {")
	assert.True(t, errors.Is(err, ErrParse), "failures are not cached: %v", err)
}

func TestLoadCompilesOnce(t *testing.T) {
	compiled.Clear()
	compiled.ResetStats()

	a, err := Load(Canvas)
	require.NoError(t, err)
	b, err := Load(Canvas)
	require.NoError(t, err)

	s := CacheStats()
	assert.Equal(t, uint64(1), s.Misses, "first load compiles")
	assert.Equal(t, uint64(1), s.Hits, "second load reuses the compilation")
	assert.NotSame(t, a, b)
}
