// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ink/render"
	"github.com/gogpu/ink/shader"
)

// draw is one recorded draw call.
type draw struct {
	pl            *pipeline
	group         hal.BindGroup
	vertices      hal.Buffer
	vertexCount   uint32
	instanceCount uint32
	firstInstance uint32
	sampled       *texture
}

// pass records draws into one target. Nothing reaches the GPU until End.
type pass struct {
	dev   *Device
	dst   *texture
	load  render.LoadOp
	clear render.Color
	ended bool

	draws   []draw
	buffers []hal.Buffer
	groups  []hal.BindGroup
}

func (ps *pass) check(p *shader.Program) error {
	if ps.ended {
		return render.ErrPassEnded
	}
	if ps.dev.closed {
		return render.ErrDeviceClosed
	}
	if p == nil {
		return fmt.Errorf("wgpu: nil program")
	}
	return nil
}

// DrawSprites implements render.Pass.
func (ps *pass) DrawSprites(p *shader.Program, first, count int) error {
	if err := ps.check(p); err != nil {
		return err
	}
	n := ps.dev.spriteLen / spriteStride
	if first < 0 || count < 0 || first+count > n {
		return fmt.Errorf("wgpu: sprites [%d, %d) outside synced range %d", first, first+count, n)
	}
	if count == 0 {
		return nil
	}
	pl, err := ps.dev.pipelineFor(p, drawSprites, ps.dst.format)
	if err != nil {
		return err
	}
	group, err := ps.bind(p, pl, nil)
	if err != nil {
		return err
	}
	ps.draws = append(ps.draws, draw{
		pl:            pl,
		group:         group,
		vertices:      ps.dev.sprites,
		vertexCount:   6,
		instanceCount: uint32(count),
		firstInstance: uint32(first),
	})
	return nil
}

// DrawLineLoop implements render.Pass.
func (ps *pass) DrawLineLoop(p *shader.Program, pts [][2]float32) error {
	if err := ps.check(p); err != nil {
		return err
	}
	if len(pts) < 2 {
		return nil
	}
	pl, err := ps.dev.pipelineFor(p, drawLines, ps.dst.format)
	if err != nil {
		return err
	}
	data := make([]byte, 0, (len(pts)+1)*lineStride)
	for i := range len(pts) + 1 {
		pt := pts[i%len(pts)]
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(pt[0]))
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(pt[1]))
	}
	vb, err := ps.upload("lines", data, gputypes.BufferUsageVertex)
	if err != nil {
		return err
	}
	group, err := ps.bind(p, pl, nil)
	if err != nil {
		return err
	}
	ps.draws = append(ps.draws, draw{
		pl:            pl,
		group:         group,
		vertices:      vb,
		vertexCount:   uint32(len(pts) + 1),
		instanceCount: 1,
	})
	return nil
}

// DrawTexturedQuad implements render.Pass.
func (ps *pass) DrawTexturedQuad(p *shader.Program, tex render.Texture, q render.Quad) error {
	if err := ps.check(p); err != nil {
		return err
	}
	tt, ok := tex.(*texture)
	if !ok || tt == nil || tt.dev != ps.dev {
		return render.ErrForeignResource
	}
	if tt.destroyed {
		return fmt.Errorf("%w: %q destroyed", render.ErrInvalidTarget, tt.label)
	}
	if tt == ps.dst {
		return fmt.Errorf("%w: %q sampled while rendering into it", render.ErrInvalidTarget, tt.label)
	}
	pl, err := ps.dev.pipelineFor(p, drawQuad, ps.dst.format)
	if err != nil {
		return err
	}
	verts := q.Vertices()
	data := make([]byte, 0, len(verts)*quadStride)
	for _, v := range verts {
		for _, f := range v {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
		}
	}
	vb, err := ps.upload("quad", data, gputypes.BufferUsageVertex)
	if err != nil {
		return err
	}
	group, err := ps.bind(p, pl, tt.view)
	if err != nil {
		return err
	}
	ps.draws = append(ps.draws, draw{
		pl:            pl,
		group:         group,
		vertices:      vb,
		vertexCount:   uint32(len(verts)),
		instanceCount: 1,
		sampled:       tt,
	})
	return nil
}

// bind snapshots the program's uniform block into a fresh buffer and
// builds the draw's bind group.
func (ps *pass) bind(p *shader.Program, pl *pipeline, view hal.TextureView) (hal.BindGroup, error) {
	var (
		ub   hal.Buffer
		size uint64
	)
	if p.HasUniforms() {
		block := p.Uniforms()
		size = alignUp(uint64(len(block)), 16)
		data := make([]byte, size)
		copy(data, block)
		var err error
		if ub, err = ps.upload("uniforms", data, gputypes.BufferUsageUniform); err != nil {
			return nil, err
		}
	}
	g, err := ps.dev.bindGroup(pl, ub, size, view)
	if err != nil {
		return nil, err
	}
	if g != nil {
		ps.groups = append(ps.groups, g)
	}
	return g, nil
}

// upload creates a buffer owned by the pass and fills it with data.
func (ps *pass) upload(what string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := ps.dev.device.CreateBuffer(&hal.BufferDescriptor{
		Label: ps.dev.label + "." + what,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %s buffer: %w", what, err)
	}
	ps.buffers = append(ps.buffers, buf)
	if err := ps.dev.queue.WriteBuffer(buf, 0, data); err != nil {
		return nil, fmt.Errorf("wgpu: upload %s: %w", what, err)
	}
	return buf, nil
}

// End implements render.Pass. It encodes the recorded draws, submits them
// and waits for the GPU to finish.
func (ps *pass) End() error {
	if ps.ended {
		return nil
	}
	ps.ended = true
	dev := ps.dev
	defer dev.Release()
	defer ps.release()
	if dev.closed {
		return render.ErrDeviceClosed
	}

	loadOp := gputypes.LoadOpLoad
	if ps.load == render.LoadOpClear {
		loadOp = gputypes.LoadOpClear
	}
	c := ps.clear
	return dev.submit(ps.dst.label, func(enc hal.CommandEncoder) error {
		var barriers []hal.TextureBarrier
		for _, dr := range ps.draws {
			if dr.sampled == nil {
				continue
			}
			if b, ok := dr.sampled.barrier(gputypes.TextureUsageTextureBinding); ok {
				barriers = append(barriers, b)
			}
		}
		if b, ok := ps.dst.barrier(gputypes.TextureUsageRenderAttachment); ok {
			barriers = append(barriers, b)
		}
		if len(barriers) > 0 {
			enc.TransitionTextures(barriers)
		}

		rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: ps.dst.label + "_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       ps.dst.view,
				LoadOp:     loadOp,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)},
			}},
		})
		for _, dr := range ps.draws {
			rp.SetPipeline(dr.pl.pipe)
			if dr.group != nil {
				rp.SetBindGroup(0, dr.group, nil)
			}
			rp.SetVertexBuffer(0, dr.vertices, 0)
			rp.Draw(dr.vertexCount, dr.instanceCount, 0, dr.firstInstance)
		}
		rp.End()
		return nil
	})
}

// release frees per-draw resources once the submission has finished.
func (ps *pass) release() {
	dev := ps.dev
	if !dev.closed {
		for _, g := range ps.groups {
			dev.device.DestroyBindGroup(g)
		}
		for _, b := range ps.buffers {
			dev.device.DestroyBuffer(b)
		}
		dev.releaseRetired()
	}
	ps.groups = nil
	ps.buffers = nil
	ps.draws = nil
}

func alignUp(n, a uint64) uint64 {
	return (n + a - 1) &^ (a - 1)
}
