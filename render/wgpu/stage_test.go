// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rift/hmd"
	"github.com/gogpu/rift/render"
)

func f32At(t *testing.T, buf []byte, index int) float32 {
	t.Helper()
	off := index * 4
	if off+4 > len(buf) {
		t.Fatalf("read past end of buffer: float %d of %d bytes", index, len(buf))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func testMesh() *hmd.DistortionMesh {
	return &hmd.DistortionMesh{
		Vertices: []hmd.DistortionVertex{
			{
				ScreenPos:      hmd.Vec2{X: -1, Y: 1},
				TimewarpFactor: 0,
				VignetteFactor: 0.25,
				TanEyeAnglesR:  hmd.Vec2{X: -1.1, Y: 1.1},
				TanEyeAnglesG:  hmd.Vec2{X: -1.0, Y: 1.0},
				TanEyeAnglesB:  hmd.Vec2{X: -0.9, Y: 0.9},
			},
			{
				ScreenPos:      hmd.Vec2{X: 0, Y: 0},
				TimewarpFactor: 0.5,
				VignetteFactor: 1,
				TanEyeAnglesG:  hmd.Vec2{X: 0.1, Y: -0.1},
			},
			{
				ScreenPos:      hmd.Vec2{X: 1, Y: -1},
				TimewarpFactor: 1,
				VignetteFactor: 0,
				TanEyeAnglesR:  hmd.Vec2{X: 1.1, Y: -1.1},
				TanEyeAnglesG:  hmd.Vec2{X: 1.0, Y: -1.0},
				TanEyeAnglesB:  hmd.Vec2{X: 0.9, Y: -0.9},
			},
		},
		Indices: []uint16{0, 1, 2},
	}
}

func TestPackPositions(t *testing.T) {
	m := testMesh()
	buf := packPositions(m)
	if len(buf) != m.VertexCount()*posStride {
		t.Fatalf("len = %d, want %d", len(buf), m.VertexCount()*posStride)
	}
	for i, v := range m.Vertices {
		base := i * 4
		if got := f32At(t, buf, base); got != float32(v.ScreenPos.X) {
			t.Errorf("vertex %d x = %v, want %v", i, got, v.ScreenPos.X)
		}
		if got := f32At(t, buf, base+1); got != float32(v.ScreenPos.Y) {
			t.Errorf("vertex %d y = %v, want %v", i, got, v.ScreenPos.Y)
		}
		if got := f32At(t, buf, base+2); got != float32(v.TimewarpFactor) {
			t.Errorf("vertex %d timewarp = %v, want %v", i, got, v.TimewarpFactor)
		}
		if got := f32At(t, buf, base+3); got != float32(v.VignetteFactor) {
			t.Errorf("vertex %d vignette = %v, want %v", i, got, v.VignetteFactor)
		}
	}
}

func TestPackUVStreams(t *testing.T) {
	m := testMesh()
	streams := packUVStreams(m)
	for ch, buf := range streams {
		if len(buf) != m.VertexCount()*uvStride {
			t.Fatalf("channel %d len = %d, want %d", ch, len(buf), m.VertexCount()*uvStride)
		}
	}
	for i, v := range m.Vertices {
		want := [3]hmd.Vec2{v.TanEyeAnglesR, v.TanEyeAnglesG, v.TanEyeAnglesB}
		for ch := range streams {
			if got := f32At(t, streams[ch], i*2); got != float32(want[ch].X) {
				t.Errorf("channel %d vertex %d u = %v, want %v", ch, i, got, want[ch].X)
			}
			if got := f32At(t, streams[ch], i*2+1); got != float32(want[ch].Y) {
				t.Errorf("channel %d vertex %d v = %v, want %v", ch, i, got, want[ch].Y)
			}
		}
	}
}

func TestPackIndices(t *testing.T) {
	m := testMesh()
	buf := packIndices(m)
	// Three uint16 indices pad to 8 bytes.
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	for i, want := range m.Indices {
		if got := binary.LittleEndian.Uint16(buf[i*2:]); got != want {
			t.Errorf("index %d = %d, want %d", i, got, want)
		}
	}
	if pad := binary.LittleEndian.Uint16(buf[6:]); pad != 0 {
		t.Errorf("padding = %d, want 0", pad)
	}

	m.Indices = append(m.Indices, 2, 1, 0)
	if got := len(packIndices(m)); got != 12 {
		t.Errorf("even count len = %d, want 12 without padding", got)
	}
}

func TestPackUniforms(t *testing.T) {
	start := hmd.Identity4()
	start[0][3] = 7 // row 0, column 3
	cfg := render.EyeStageConfig{
		UVScale:       hmd.Vec2{X: 0.5, Y: -0.5},
		UVOffset:      hmd.Vec2{X: 0.25, Y: 0.75},
		TimewarpStart: start,
		TimewarpEnd:   hmd.Identity4(),
	}

	buf := packUniforms(cfg)
	if len(buf) != uniformSize {
		t.Fatalf("len = %d, want %d", len(buf), uniformSize)
	}

	if got := f32At(t, buf, 0); got != 0.5 {
		t.Errorf("uv scale x = %v, want 0.5", got)
	}
	if got := f32At(t, buf, 1); got != -0.5 {
		t.Errorf("uv scale y = %v, want -0.5", got)
	}
	if got := f32At(t, buf, 2); got != 0.25 {
		t.Errorf("uv offset x = %v, want 0.25", got)
	}
	if got := f32At(t, buf, 3); got != 0.75 {
		t.Errorf("uv offset y = %v, want 0.75", got)
	}

	// Matrices land column-major after the 16-byte header: element (r, c)
	// sits at float index 4 + c*4 + r.
	if got := f32At(t, buf, 4+3*4+0); got != 7 {
		t.Errorf("start[0][3] = %v at column-major slot, want 7", got)
	}
	// The diagonal stays the diagonal in either order.
	for i := 0; i < 4; i++ {
		if got := f32At(t, buf, 4+16+i*4+i); got != 1 {
			t.Errorf("end diagonal [%d][%d] = %v, want 1", i, i, got)
		}
	}
}

func TestDistortionVertexLayout(t *testing.T) {
	layout := distortionVertexLayout()
	if len(layout) != 4 {
		t.Fatalf("slots = %d, want 4", len(layout))
	}

	pos := layout[0]
	if pos.ArrayStride != posStride {
		t.Errorf("position stride = %d, want %d", pos.ArrayStride, posStride)
	}
	if len(pos.Attributes) != 1 || pos.Attributes[0].Format != gputypes.VertexFormatFloat32x4 {
		t.Errorf("position attributes = %+v, want one vec4", pos.Attributes)
	}

	for slot := 1; slot < 4; slot++ {
		uv := layout[slot]
		if uv.ArrayStride != uvStride {
			t.Errorf("slot %d stride = %d, want %d", slot, uv.ArrayStride, uvStride)
		}
		if len(uv.Attributes) != 1 {
			t.Fatalf("slot %d has %d attributes, want 1", slot, len(uv.Attributes))
		}
		attr := uv.Attributes[0]
		if attr.Format != gputypes.VertexFormatFloat32x2 {
			t.Errorf("slot %d format = %v, want Float32x2", slot, attr.Format)
		}
		if attr.ShaderLocation != uint32(slot) {
			t.Errorf("slot %d location = %d, want %d", slot, attr.ShaderLocation, slot)
		}
	}
}
