// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"sort"

	"github.com/gogpu/naga/ir"
)

// Kind is the WGSL type of a reflected uniform member.
type Kind uint8

// Uniform member kinds understood by Program setters.
const (
	KindUnsupported Kind = iota
	KindFloat
	KindVec2
	KindVec3
	KindVec4
	KindMat4
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "f32"
	case KindVec2:
		return "vec2<f32>"
	case KindVec3:
		return "vec3<f32>"
	case KindVec4:
		return "vec4<f32>"
	case KindMat4:
		return "mat4x4<f32>"
	default:
		return "unsupported"
	}
}

// Size returns the byte size of a value of this kind.
func (k Kind) Size() int {
	switch k {
	case KindFloat:
		return 4
	case KindVec2:
		return 8
	case KindVec3:
		return 12
	case KindVec4:
		return 16
	case KindMat4:
		return 64
	default:
		return 0
	}
}

// Uniform is one member of a program's uniform block.
type Uniform struct {
	Name   string
	Kind   Kind
	Offset uint32
}

// ResourceKind classifies a bound resource.
type ResourceKind uint8

// Resource kinds.
const (
	ResourceUniformBuffer ResourceKind = iota
	ResourceTexture
	ResourceSampler
)

// ResourceBinding is one bind group entry declared by a program.
type ResourceBinding struct {
	Name    string
	Kind    ResourceKind
	Group   uint32
	Binding uint32
}

// Attribute is a vertex entry point input with a location.
type Attribute struct {
	Name     string
	Kind     Kind
	Location uint32
}

func (p *Program) reflect(m *ir.Module) error {
	for _, ep := range m.EntryPoints {
		switch ep.Stage {
		case ir.StageVertex:
			if p.vertexEntry == "" {
				p.vertexEntry = ep.Name
				p.reflectAttributes(m, ep)
			}
		case ir.StageFragment:
			if p.fragmentEntry == "" {
				p.fragmentEntry = ep.Name
			}
		}
	}
	if p.vertexEntry == "" || p.fragmentEntry == "" {
		return ErrEntryPoint
	}

	for _, gv := range m.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		rb := ResourceBinding{Name: gv.Name, Group: gv.Binding.Group, Binding: gv.Binding.Binding}
		switch gv.Space {
		case ir.SpaceUniform:
			rb.Kind = ResourceUniformBuffer
			if p.block != nil {
				return fmt.Errorf("more than one uniform block (%q)", gv.Name)
			}
			if err := p.reflectBlock(m, gv.Type); err != nil {
				return err
			}
		case ir.SpaceHandle:
			switch m.Types[gv.Type].Inner.(type) {
			case ir.ImageType:
				rb.Kind = ResourceTexture
			case ir.SamplerType:
				rb.Kind = ResourceSampler
			default:
				continue
			}
		default:
			continue
		}
		if rb.Group != 0 {
			return fmt.Errorf("binding %q uses group %d, only group 0 is supported", gv.Name, rb.Group)
		}
		p.bindings = append(p.bindings, rb)
	}
	sort.Slice(p.bindings, func(i, j int) bool {
		return p.bindings[i].Binding < p.bindings[j].Binding
	})
	return nil
}

func (p *Program) reflectBlock(m *ir.Module, h ir.TypeHandle) error {
	st, ok := m.Types[h].Inner.(ir.StructType)
	if !ok {
		return fmt.Errorf("uniform block type %q is not a struct", m.Types[h].Name)
	}
	for _, mem := range st.Members {
		k := kindOf(m, mem.Type)
		if k == KindUnsupported {
			return fmt.Errorf("uniform %q has unsupported type", mem.Name)
		}
		p.uniforms[mem.Name] = Uniform{Name: mem.Name, Kind: k, Offset: mem.Offset}
	}
	p.block = make([]byte, alignUp(st.Span, uniformAlign))
	return nil
}

func (p *Program) reflectAttributes(m *ir.Module, ep ir.EntryPoint) {
	for _, arg := range ep.Function.Arguments {
		if arg.Binding == nil {
			continue
		}
		loc, ok := (*arg.Binding).(ir.LocationBinding)
		if !ok {
			continue
		}
		p.attributes[arg.Name] = Attribute{
			Name:     arg.Name,
			Kind:     kindOf(m, arg.Type),
			Location: loc.Location,
		}
	}
}

func kindOf(m *ir.Module, h ir.TypeHandle) Kind {
	if int(h) >= len(m.Types) {
		return KindUnsupported
	}
	switch t := m.Types[h].Inner.(type) {
	case ir.ScalarType:
		if t.Kind == ir.ScalarFloat && t.Width == 4 {
			return KindFloat
		}
	case ir.VectorType:
		if t.Scalar.Kind != ir.ScalarFloat || t.Scalar.Width != 4 {
			return KindUnsupported
		}
		switch t.Size {
		case ir.Vec2:
			return KindVec2
		case ir.Vec3:
			return KindVec3
		case ir.Vec4:
			return KindVec4
		}
	case ir.MatrixType:
		if t.Columns == ir.Vec4 && t.Rows == ir.Vec4 && t.Scalar.Kind == ir.ScalarFloat {
			return KindMat4
		}
	}
	return KindUnsupported
}
