// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ink/shader"
)

// drawKind selects the vertex layout and topology of a pipeline.
type drawKind uint8

const (
	drawSprites drawKind = iota
	drawLines
	drawQuad
)

func (k drawKind) String() string {
	switch k {
	case drawSprites:
		return "sprites"
	case drawLines:
		return "lines"
	default:
		return "quad"
	}
}

// Vertex strides in bytes.
const (
	spriteStride = 4  // Snorm16x2
	lineStride   = 8  // position vec2<f32>
	quadStride   = 16 // position vec2<f32>, uv vec2<f32>
)

type pipelineKey struct {
	program string
	kind    drawKind
	format  gputypes.TextureFormat
}

// pipeline holds the GPU objects compiled from one program for one draw
// kind and target format.
type pipeline struct {
	module   hal.ShaderModule
	groupLay hal.BindGroupLayout
	pipeLay  hal.PipelineLayout
	pipe     hal.RenderPipeline
	bindings []shader.ResourceBinding
}

func (pl *pipeline) destroy(device hal.Device) {
	if pl.pipe != nil {
		device.DestroyRenderPipeline(pl.pipe)
	}
	if pl.pipeLay != nil {
		device.DestroyPipelineLayout(pl.pipeLay)
	}
	if pl.groupLay != nil {
		device.DestroyBindGroupLayout(pl.groupLay)
	}
	if pl.module != nil {
		device.DestroyShaderModule(pl.module)
	}
}

// pipelineFor returns the cached pipeline for p, compiling it on first use.
func (d *Device) pipelineFor(p *shader.Program, kind drawKind, format gputypes.TextureFormat) (*pipeline, error) {
	key := pipelineKey{program: p.Name(), kind: kind, format: format}
	if pl, ok := d.pipelines[key]; ok {
		return pl, nil
	}
	pl, err := d.createPipeline(p, kind, format)
	if err != nil {
		return nil, err
	}
	d.pipelines[key] = pl
	d.log.Debug("wgpu: pipeline compiled", "program", p.Name(), "kind", kind)
	return pl, nil
}

func (d *Device) createPipeline(p *shader.Program, kind drawKind, format gputypes.TextureFormat) (*pipeline, error) { //nolint:funlen // one descriptor per stage
	buffers, err := vertexLayout(p, kind)
	if err != nil {
		return nil, err
	}
	label := fmt.Sprintf("%s.%s.%s", d.label, p.Name(), kind)
	pl := &pipeline{bindings: p.Bindings()}

	pl.module, err = d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: hal.ShaderSource{WGSL: p.Source()},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile %s: %w", label, err)
	}

	var groups []hal.BindGroupLayout
	if entries := layoutEntries(pl.bindings); len(entries) > 0 {
		pl.groupLay, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   label + "_group_layout",
			Entries: entries,
		})
		if err != nil {
			pl.destroy(d.device)
			return nil, fmt.Errorf("wgpu: bind group layout %s: %w", label, err)
		}
		groups = append(groups, pl.groupLay)
	}
	pl.pipeLay, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		pl.destroy(d.device)
		return nil, fmt.Errorf("wgpu: pipeline layout %s: %w", label, err)
	}

	topology := gputypes.PrimitiveTopologyTriangleList
	blend := gputypes.BlendStateReplace()
	switch kind {
	case drawLines:
		topology = gputypes.PrimitiveTopologyLineStrip
	case drawQuad:
		blend = gputypes.BlendStateAlpha()
	}
	vs, fs := p.EntryPoints()
	pl.pipe, err = d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: pl.pipeLay,
		Vertex: hal.VertexState{
			Module:     pl.module,
			EntryPoint: vs,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     pl.module,
			EntryPoint: fs,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		pl.destroy(d.device)
		return nil, fmt.Errorf("wgpu: create pipeline %s: %w", label, err)
	}
	return pl, nil
}

func attribute(p *shader.Program, name string) (uint32, error) {
	loc := p.AttributeLocation(name)
	if loc < 0 {
		return 0, fmt.Errorf("%w: %q has no %q input", ErrMissingAttribute, p.Name(), name)
	}
	return uint32(loc), nil
}

// vertexLayout describes the single vertex buffer each draw kind binds.
func vertexLayout(p *shader.Program, kind drawKind) ([]gputypes.VertexBufferLayout, error) {
	switch kind {
	case drawSprites:
		loc, err := attribute(p, "sprite")
		if err != nil {
			return nil, err
		}
		return []gputypes.VertexBufferLayout{{
			ArrayStride: spriteStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatSnorm16x2, Offset: 0, ShaderLocation: loc},
			},
		}}, nil
	case drawLines:
		loc, err := attribute(p, "position")
		if err != nil {
			return nil, err
		}
		return []gputypes.VertexBufferLayout{{
			ArrayStride: lineStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: loc},
			},
		}}, nil
	default:
		pos, err := attribute(p, "position")
		if err != nil {
			return nil, err
		}
		uv, err := attribute(p, "uv")
		if err != nil {
			return nil, err
		}
		return []gputypes.VertexBufferLayout{{
			ArrayStride: quadStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: pos},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: uv},
			},
		}}, nil
	}
}

func layoutEntries(bindings []shader.ResourceBinding) []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(bindings))
	for _, b := range bindings {
		e := gputypes.BindGroupLayoutEntry{
			Binding:    b.Binding,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		}
		switch b.Kind {
		case shader.ResourceUniformBuffer:
			e.Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}
		case shader.ResourceTexture:
			e.Visibility = gputypes.ShaderStageFragment
			e.Texture = &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		case shader.ResourceSampler:
			e.Visibility = gputypes.ShaderStageFragment
			e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
		}
		entries = append(entries, e)
	}
	return entries
}

// bindGroup binds a per-draw uniform buffer and, for textured quads, the
// sampled view and the shared nearest sampler.
func (d *Device) bindGroup(pl *pipeline, uniform hal.Buffer, uniformSize uint64, view hal.TextureView) (hal.BindGroup, error) {
	if pl.groupLay == nil {
		return nil, nil
	}
	entries := make([]gputypes.BindGroupEntry, 0, len(pl.bindings))
	for _, b := range pl.bindings {
		e := gputypes.BindGroupEntry{Binding: b.Binding}
		switch b.Kind {
		case shader.ResourceUniformBuffer:
			if uniform == nil {
				return nil, fmt.Errorf("wgpu: binding %q needs a uniform buffer", b.Name)
			}
			e.Resource = gputypes.BufferBinding{Buffer: uniform.NativeHandle(), Size: uniformSize}
		case shader.ResourceTexture:
			if view == nil {
				return nil, fmt.Errorf("wgpu: binding %q needs a texture", b.Name)
			}
			e.Resource = gputypes.TextureViewBinding{TextureView: view.NativeHandle()}
		case shader.ResourceSampler:
			s, err := d.nearestSampler()
			if err != nil {
				return nil, err
			}
			e.Resource = gputypes.SamplerBinding{Sampler: s.NativeHandle()}
		}
		entries = append(entries, e)
	}
	g, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   d.label + "_group",
		Layout:  pl.groupLay,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group: %w", err)
	}
	return g, nil
}

func (d *Device) nearestSampler() (hal.Sampler, error) {
	if d.sampler != nil {
		return d.sampler, nil
	}
	s, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        d.label + ".nearest",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
		Anisotropy:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	d.sampler = s
	return s, nil
}
