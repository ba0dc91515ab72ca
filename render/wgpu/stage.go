// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rift/hmd"
	"github.com/gogpu/rift/render"
)

// eyeDraw is one eye's recorded correction draw: static mesh buffers,
// the uniform block, and the bind group over the eye's source texture.
// Everything is uploaded once at build time; compositors replay it every
// frame through Encode.
type eyeDraw struct {
	device hal.Device

	posBuf     hal.Buffer
	uvBufs     [3]hal.Buffer
	indexBuf   hal.Buffer
	uniformBuf hal.Buffer
	srcView    hal.TextureView
	bindGroup  hal.BindGroup

	pipeline   hal.RenderPipeline
	indexCount uint32
}

var _ render.DrawObject = (*eyeDraw)(nil)

// halTextureProvider is how host textures expose their wgpu identity
// across the toolkit-agnostic render.Texture interface.
type halTextureProvider interface {
	HalTexture() any
}

// buildEyeDraw uploads one eye's mesh and uniforms and binds them to the
// eye's source texture.
func buildEyeDraw(device hal.Device, queue hal.Queue, prog *program, cfg render.EyeStageConfig) (*eyeDraw, error) {
	if cfg.Mesh == nil || cfg.Mesh.VertexCount() == 0 {
		return nil, fmt.Errorf("eye %d: empty distortion mesh", int(cfg.Eye))
	}
	tp, ok := cfg.Source.(halTextureProvider)
	if !ok {
		return nil, fmt.Errorf("eye %d: source texture does not expose a wgpu texture", int(cfg.Eye))
	}
	srcTex, ok := tp.HalTexture().(hal.Texture)
	if !ok || srcTex == nil {
		return nil, fmt.Errorf("eye %d: HalTexture is not hal.Texture", int(cfg.Eye))
	}

	d := &eyeDraw{
		device:     device,
		pipeline:   prog.pipeline,
		indexCount: uint32(cfg.Mesh.IndexCount()),
	}

	var err error
	if d.posBuf, err = uploadBuffer(device, queue, "distortion_pos",
		packPositions(cfg.Mesh), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst); err != nil {
		d.Destroy()
		return nil, err
	}
	for i, ch := range packUVStreams(cfg.Mesh) {
		label := [3]string{"distortion_uv_r", "distortion_uv_g", "distortion_uv_b"}[i]
		if d.uvBufs[i], err = uploadBuffer(device, queue, label,
			ch, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst); err != nil {
			d.Destroy()
			return nil, err
		}
	}
	if d.indexBuf, err = uploadBuffer(device, queue, "distortion_index",
		packIndices(cfg.Mesh), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst); err != nil {
		d.Destroy()
		return nil, err
	}
	if d.uniformBuf, err = uploadBuffer(device, queue, "distortion_uniforms",
		packUniforms(cfg), gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst); err != nil {
		d.Destroy()
		return nil, err
	}

	view, err := device.CreateTextureView(srcTex, &hal.TextureViewDescriptor{
		Label:     fmt.Sprintf("distortion_src_eye%d", int(cfg.Eye)),
		Format:    cfg.Source.Format(),
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		d.Destroy()
		return nil, fmt.Errorf("create source view: %w", err)
	}
	d.srcView = view

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "distortion_bind",
		Layout: prog.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: d.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: d.srcView.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: prog.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		d.Destroy()
		return nil, fmt.Errorf("create distortion bind group: %w", err)
	}
	d.bindGroup = bindGroup

	return d, nil
}

// Encode replays the recorded correction draw into a render pass whose
// color attachment is the eye's half of the window surface.
func (d *eyeDraw) Encode(rp hal.RenderPassEncoder) {
	rp.SetPipeline(d.pipeline)
	rp.SetBindGroup(0, d.bindGroup, nil)
	rp.SetVertexBuffer(0, d.posBuf, 0)
	for i, buf := range d.uvBufs {
		rp.SetVertexBuffer(uint32(i+1), buf, 0)
	}
	rp.SetIndexBuffer(d.indexBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(d.indexCount, 1, 0, 0, 0)
}

// Destroy releases the draw's GPU resources. Safe to call on a partially
// built draw and safe to call twice.
func (d *eyeDraw) Destroy() {
	if d.device == nil {
		return
	}
	if d.bindGroup != nil {
		d.device.DestroyBindGroup(d.bindGroup)
		d.bindGroup = nil
	}
	if d.srcView != nil {
		d.device.DestroyTextureView(d.srcView)
		d.srcView = nil
	}
	for _, buf := range [...]hal.Buffer{d.uniformBuf, d.indexBuf, d.uvBufs[0], d.uvBufs[1], d.uvBufs[2], d.posBuf} {
		if buf != nil {
			d.device.DestroyBuffer(buf)
		}
	}
	d.uniformBuf, d.indexBuf, d.posBuf = nil, nil, nil
	d.uvBufs = [3]hal.Buffer{}
}

// uploadBuffer creates a buffer and writes data into it through the queue.
func uploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func appendF32(buf []byte, v float64) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v)))
	return append(buf, b[:]...)
}

// packPositions serializes the position stream: x, y, timewarp factor,
// vignette factor per vertex.
func packPositions(m *hmd.DistortionMesh) []byte {
	buf := make([]byte, 0, m.VertexCount()*posStride)
	for _, v := range m.Vertices {
		buf = appendF32(buf, v.ScreenPos.X)
		buf = appendF32(buf, v.ScreenPos.Y)
		buf = appendF32(buf, v.TimewarpFactor)
		buf = appendF32(buf, v.VignetteFactor)
	}
	return buf
}

// packUVStreams serializes the three per-channel tan-angle streams.
func packUVStreams(m *hmd.DistortionMesh) [3][]byte {
	var out [3][]byte
	for i := range out {
		out[i] = make([]byte, 0, m.VertexCount()*uvStride)
	}
	for _, v := range m.Vertices {
		out[0] = appendF32(out[0], v.TanEyeAnglesR.X)
		out[0] = appendF32(out[0], v.TanEyeAnglesR.Y)
		out[1] = appendF32(out[1], v.TanEyeAnglesG.X)
		out[1] = appendF32(out[1], v.TanEyeAnglesG.Y)
		out[2] = appendF32(out[2], v.TanEyeAnglesB.X)
		out[2] = appendF32(out[2], v.TanEyeAnglesB.Y)
	}
	return out
}

// packIndices serializes the index list, padded to 4-byte alignment as
// buffer sizes require.
func packIndices(m *hmd.DistortionMesh) []byte {
	n := len(m.Indices)
	buf := make([]byte, 0, (n+n%2)*2)
	for _, idx := range m.Indices {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], idx)
		buf = append(buf, b[:]...)
	}
	if n%2 == 1 {
		buf = append(buf, 0, 0)
	}
	return buf
}
