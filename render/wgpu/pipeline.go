// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rift/hmd"
	"github.com/gogpu/rift/render"
)

//go:embed shaders/distortion.wgsl
var distortionShaderSource string

// posStride is the byte stride of the position stream. Layout per vertex:
//
//	position (vec2<f32>)       = 8 bytes
//	timewarp factor (f32)      = 4 bytes
//	vignette factor (f32)      = 4 bytes
//
// packed as one vec4<f32> at location 0.
const posStride = 16

// uvStride is the byte stride of each per-channel tan-angle stream
// (vec2<f32> at locations 1 to 3).
const uvStride = 8

// uniformSize is the byte size of the stage uniform block: UV scale and
// offset (two vec2<f32>) followed by the timewarp start and end matrices.
const uniformSize = 16 + 64 + 64

// program is the compiled correction pipeline shared by both eye stages.
type program struct {
	device hal.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
}

var _ render.Program = (*program)(nil)

// newProgram compiles the correction shader and builds the render
// pipeline targeting the given color format.
func newProgram(device hal.Device, format gputypes.TextureFormat) (*program, error) {
	p := &program{device: device}

	shader, err := compileShader(device, "distortion_shader", distortionShaderSource)
	if err != nil {
		p.Destroy()
		return nil, err
	}
	p.shader = shader

	// Binding 0: Uniforms (vertex + fragment)
	// Binding 1: source texture (fragment)
	// Binding 2: sampler (fragment)
	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "distortion_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create distortion bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "distortion_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create distortion pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "distortion_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create distortion sampler: %w", err)
	}
	p.sampler = sampler

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "distortion_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    distortionVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create distortion pipeline: %w", err)
	}
	p.pipeline = pipeline

	return p, nil
}

// Destroy releases all pipeline resources in reverse creation order.
// Safe to call on a partially built program.
func (p *program) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// distortionVertexLayout returns the four vertex buffer slots of the
// correction pipeline: the packed position stream and one tan-angle
// stream per color channel.
func distortionVertexLayout() []gputypes.VertexBufferLayout {
	uvSlot := func(location uint32) gputypes.VertexBufferLayout {
		return gputypes.VertexBufferLayout{
			ArrayStride: uvStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: location},
			},
		}
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: posStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
			},
		},
		uvSlot(1), // red
		uvSlot(2), // green
		uvSlot(3), // blue
	}
}

// packUniforms serializes one eye's UV mapping and timewarp matrices into
// the shader's uniform block. WGSL matrices are column-major.
func packUniforms(cfg render.EyeStageConfig) []byte {
	buf := make([]byte, 0, uniformSize)
	f32 := func(v float64) []byte {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v)))
		return b[:]
	}
	buf = append(buf, f32(cfg.UVScale.X)...)
	buf = append(buf, f32(cfg.UVScale.Y)...)
	buf = append(buf, f32(cfg.UVOffset.X)...)
	buf = append(buf, f32(cfg.UVOffset.Y)...)
	for _, m := range [2]hmd.Matrix4{cfg.TimewarpStart, cfg.TimewarpEnd} {
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				buf = append(buf, f32(m[r][c])...)
			}
		}
	}
	return buf
}
