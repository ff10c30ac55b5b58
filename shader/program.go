// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/naga"

	"github.com/gogpu/ink/cache"
)

// Errors returned by Compile.
var (
	// ErrParse is returned when WGSL source fails to parse or lower.
	ErrParse = errors.New("shader: parse failed")

	// ErrValidation is returned when the lowered module fails validation.
	ErrValidation = errors.New("shader: validation failed")

	// ErrEntryPoint is returned when a program lacks a vertex or fragment
	// entry point.
	ErrEntryPoint = errors.New("shader: missing entry point")
)

// uniformAlign is the size granularity of uniform blocks.
const uniformAlign = 16

// Program is one compiled shader program.
//
// Program is NOT safe for concurrent use.
type Program struct {
	name   string
	source string

	vertexEntry   string
	fragmentEntry string

	uniforms   map[string]Uniform
	bindings   []ResourceBinding
	attributes map[string]Attribute
	block      []byte
}

// compiled holds reflected programs by source. Callers get clones, so the
// cached templates are never written to.
var compiled = cache.New[string, *Program](cache.DefaultCapacity)

// Compile parses, lowers and validates WGSL source and reflects its
// uniform block, resource bindings and vertex attributes. Programs built
// from the same source share the reflection and are compiled once.
func Compile(name, source string) (*Program, error) {
	tmpl, err := compiled.GetOrCreate(source, func() (*Program, error) {
		return compile(name, source)
	})
	if err != nil {
		return nil, err
	}
	p := tmpl.Clone()
	p.name = name
	return p, nil
}

// CacheStats reports how often Compile reused an earlier compilation.
func CacheStats() cache.Stats { return compiled.Stats() }

func compile(name, source string) (*Program, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrValidation, name, err)
	}
	if len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrValidation, name, errors.Join(errs...))
	}

	p := &Program{
		name:       name,
		source:     source,
		uniforms:   make(map[string]Uniform),
		attributes: make(map[string]Attribute),
	}
	if err := p.reflect(module); err != nil {
		return nil, fmt.Errorf("shader: %s: %w", name, err)
	}
	return p, nil
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// Source returns the WGSL source the program was compiled from.
func (p *Program) Source() string { return p.source }

// EntryPoints returns the vertex and fragment entry point names.
func (p *Program) EntryPoints() (vertex, fragment string) {
	return p.vertexEntry, p.fragmentEntry
}

// UniformLocation returns the byte offset of a uniform member, or -1 if
// the program has no member with that name.
func (p *Program) UniformLocation(name string) int {
	u, ok := p.uniforms[name]
	if !ok {
		return -1
	}
	return int(u.Offset)
}

// Uniform returns the reflected uniform member with the given name.
func (p *Program) Uniform(name string) (Uniform, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

// AttributeLocation returns the vertex input location of an attribute, or
// -1 if the vertex entry point has no input with that name.
func (p *Program) AttributeLocation(name string) int {
	a, ok := p.attributes[name]
	if !ok {
		return -1
	}
	return int(a.Location)
}

// Bindings returns the program's group 0 resources ordered by binding.
func (p *Program) Bindings() []ResourceBinding {
	return p.bindings
}

// HasUniforms reports whether the program declares a uniform block.
func (p *Program) HasUniforms() bool {
	return len(p.block) > 0
}

// Uniforms returns the current uniform block contents. The slice aliases
// the program; devices copy it before the next uniform change.
func (p *Program) Uniforms() []byte {
	return p.block
}

// SetFloat sets a scalar f32 uniform.
func (p *Program) SetFloat(name string, v float32) {
	p.set(name, KindFloat, v)
}

// SetVec2 sets a vec2<f32> uniform.
func (p *Program) SetVec2(name string, x, y float32) {
	p.set(name, KindVec2, x, y)
}

// SetVec3 sets a vec3<f32> uniform.
func (p *Program) SetVec3(name string, x, y, z float32) {
	p.set(name, KindVec3, x, y, z)
}

// SetVec4 sets a vec4<f32> uniform.
func (p *Program) SetVec4(name string, x, y, z, w float32) {
	p.set(name, KindVec4, x, y, z, w)
}

// SetMat4 sets a mat4x4<f32> uniform from 16 column-major floats.
func (p *Program) SetMat4(name string, m [16]float32) {
	p.set(name, KindMat4, m[:]...)
}

func (p *Program) set(name string, kind Kind, vals ...float32) {
	u, ok := p.uniforms[name]
	if !ok || u.Kind != kind {
		return
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(p.block[int(u.Offset)+i*4:], math.Float32bits(v))
	}
}

// Float returns a scalar uniform and whether the program declares it.
func (p *Program) Float(name string) (float32, bool) {
	v, ok := p.get(name, KindFloat, 1)
	if !ok {
		return 0, false
	}
	return v[0], true
}

// Vec2 returns a vec2 uniform and whether the program declares it.
func (p *Program) Vec2(name string) ([2]float32, bool) {
	var out [2]float32
	v, ok := p.get(name, KindVec2, 2)
	copy(out[:], v)
	return out, ok
}

// Vec3 returns a vec3 uniform and whether the program declares it.
func (p *Program) Vec3(name string) ([3]float32, bool) {
	var out [3]float32
	v, ok := p.get(name, KindVec3, 3)
	copy(out[:], v)
	return out, ok
}

// Mat4 returns a mat4x4 uniform and whether the program declares it.
func (p *Program) Mat4(name string) ([16]float32, bool) {
	var out [16]float32
	v, ok := p.get(name, KindMat4, 16)
	copy(out[:], v)
	return out, ok
}

func (p *Program) get(name string, kind Kind, n int) ([]float32, bool) {
	u, ok := p.uniforms[name]
	if !ok || u.Kind != kind {
		return nil, false
	}
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(p.block[int(u.Offset)+i*4:]))
	}
	return vals, true
}

// Clone returns a program sharing reflection data with p but owning its
// own uniform block.
func (p *Program) Clone() *Program {
	c := *p
	c.block = append([]byte(nil), p.block...)
	return &c
}

// String implements fmt.Stringer.
func (p *Program) String() string {
	return fmt.Sprintf("shader.Program(%s, %d uniforms, %d bindings)", p.name, len(p.uniforms), len(p.bindings))
}

func alignUp(n, a uint32) uint32 {
	return (n + a - 1) &^ (a - 1)
}
