package emu

import (
	"math"
	"testing"

	"github.com/gogpu/rift/hmd"
)

func symmetricFov(tan float64) hmd.FovPort {
	return hmd.FovPort{LeftTan: tan, RightTan: tan, UpTan: tan, DownTan: tan}
}

func TestGenerateMeshTopology(t *testing.T) {
	p := DK2()
	fovs := []hmd.FovPort{
		symmetricFov(1.0),
		symmetricFov(0.6),
		{LeftTan: 1.2, RightTan: 0.9, UpTan: 1.1, DownTan: 1.4},
	}
	for _, eye := range []hmd.Eye{hmd.EyeLeft, hmd.EyeRight} {
		g := p.MeshGrid[eye]
		wantVerts := (g + 1) * (g + 1)
		wantIdx := g * g * 6
		for _, fov := range fovs {
			m, err := generateMesh(p, eye, fov)
			if err != nil {
				t.Fatalf("generateMesh(%v, %+v) = %v", eye, fov, err)
			}
			if m.VertexCount() != wantVerts {
				t.Errorf("%v eye: VertexCount = %d, want %d", eye, m.VertexCount(), wantVerts)
			}
			if m.IndexCount() != wantIdx {
				t.Errorf("%v eye: IndexCount = %d, want %d", eye, m.IndexCount(), wantIdx)
			}
			for i, idx := range m.Indices {
				if int(idx) >= m.VertexCount() {
					t.Fatalf("%v eye: index[%d] = %d out of range (%d vertices)", eye, i, idx, m.VertexCount())
				}
			}
		}
	}
}

func TestGenerateMeshScreenPositions(t *testing.T) {
	p := DK2()
	fov := symmetricFov(1.0)

	bounds := map[hmd.Eye][2]float64{
		hmd.EyeLeft:  {-1, 0},
		hmd.EyeRight: {0, 1},
	}
	for eye, b := range bounds {
		m, err := generateMesh(p, eye, fov)
		if err != nil {
			t.Fatalf("generateMesh: %v", err)
		}
		for _, v := range m.Vertices {
			if v.ScreenPos.X < b[0]-1e-12 || v.ScreenPos.X > b[1]+1e-12 {
				t.Fatalf("%v eye: vertex x = %g outside [%g, %g]", eye, v.ScreenPos.X, b[0], b[1])
			}
			if v.ScreenPos.Y < -1-1e-12 || v.ScreenPos.Y > 1+1e-12 {
				t.Fatalf("%v eye: vertex y = %g outside [-1, 1]", eye, v.ScreenPos.Y)
			}
		}
	}
}

func TestGenerateMeshFactors(t *testing.T) {
	m, err := generateMesh(DK2(), hmd.EyeLeft, symmetricFov(1.0))
	if err != nil {
		t.Fatalf("generateMesh: %v", err)
	}
	for i, v := range m.Vertices {
		if v.VignetteFactor < 0 || v.VignetteFactor > 1 {
			t.Fatalf("vertex %d: vignette = %g outside [0, 1]", i, v.VignetteFactor)
		}
		if v.TimewarpFactor < 0 || v.TimewarpFactor > 1 {
			t.Fatalf("vertex %d: timewarp factor = %g outside [0, 1]", i, v.TimewarpFactor)
		}
	}
	// Corner vertices sit on the viewport border and must be fully faded.
	if got := m.Vertices[0].VignetteFactor; got != 0 {
		t.Errorf("corner vignette = %g, want 0", got)
	}
}

func TestGenerateMeshChromaticOrdering(t *testing.T) {
	// DK2 chroma puts blue outside green and red inside green, so at any
	// off-center vertex |blue| >= |green| >= |red| on each tan-angle axis.
	m, err := generateMesh(DK2(), hmd.EyeLeft, symmetricFov(1.0))
	if err != nil {
		t.Fatalf("generateMesh: %v", err)
	}
	for i, v := range m.Vertices {
		r := math.Hypot(v.TanEyeAnglesR.X, v.TanEyeAnglesR.Y)
		g := math.Hypot(v.TanEyeAnglesG.X, v.TanEyeAnglesG.Y)
		b := math.Hypot(v.TanEyeAnglesB.X, v.TanEyeAnglesB.Y)
		if g < 1e-9 {
			continue
		}
		if b < g || r > g {
			t.Fatalf("vertex %d: chroma radii r=%g g=%g b=%g, want r <= g <= b", i, r, g, b)
		}
	}
}

func TestGenerateMeshDistortionGrows(t *testing.T) {
	// The DK2 polynomial scales outward monotonically, so the green
	// tan-angle radius must exceed the undistorted radius off center.
	p := DK2()
	fov := symmetricFov(1.0)
	m, err := generateMesh(p, hmd.EyeLeft, fov)
	if err != nil {
		t.Fatalf("generateMesh: %v", err)
	}
	g := p.MeshGrid[hmd.EyeLeft]
	// Grid corner: undistorted tan-angle is (-1, 1), radius sqrt(2).
	corner := m.Vertices[0]
	undistorted := math.Sqrt2
	distorted := math.Hypot(corner.TanEyeAnglesG.X, corner.TanEyeAnglesG.Y)
	if distorted <= undistorted {
		t.Errorf("corner green radius = %g, want > %g", distorted, undistorted)
	}
	// Grid center (even grid): tan-angle zero stays zero.
	if g%2 == 0 {
		center := m.Vertices[(g/2)*(g+1)+g/2]
		if r := math.Hypot(center.TanEyeAnglesG.X, center.TanEyeAnglesG.Y); r > 1e-9 {
			t.Errorf("center green radius = %g, want ~0", r)
		}
	}
}

func TestGenerateMeshErrors(t *testing.T) {
	p := DK2()
	if _, err := generateMesh(p, hmd.EyeCount, symmetricFov(1)); err == nil {
		t.Error("generateMesh accepted invalid eye")
	}
	if _, err := generateMesh(p, hmd.EyeLeft, hmd.FovPort{}); err == nil {
		t.Error("generateMesh accepted degenerate FOV")
	}
}

func TestRenderScaleAndOffsetSymmetric(t *testing.T) {
	fov := symmetricFov(1.0)
	tex := hmd.Size{W: 100, H: 100}
	vp := hmd.Rect{X: 0, Y: 0, W: 100, H: 100}

	scale, offset := renderScaleAndOffset(fov, tex, vp)
	if math.Abs(scale.X-0.5) > 1e-12 || math.Abs(offset.X-0.5) > 1e-12 {
		t.Errorf("horizontal mapping = scale %g offset %g, want 0.5, 0.5", scale.X, offset.X)
	}
	if math.Abs(scale.Y+0.5) > 1e-12 || math.Abs(offset.Y-0.5) > 1e-12 {
		t.Errorf("vertical mapping = scale %g offset %g, want -0.5, 0.5", scale.Y, offset.Y)
	}

	// Center of view maps to the viewport center, extreme tan angles to
	// the edges (top of view lands at v=0, texture origin top-left).
	if u := 0*scale.X + offset.X; math.Abs(u-0.5) > 1e-12 {
		t.Errorf("center u = %g, want 0.5", u)
	}
	if v := 1*scale.Y + offset.Y; math.Abs(v) > 1e-12 {
		t.Errorf("top v = %g, want 0", v)
	}
	if v := -1*scale.Y + offset.Y; math.Abs(v-1) > 1e-12 {
		t.Errorf("bottom v = %g, want 1", v)
	}
}

func TestRenderScaleAndOffsetViewportSubset(t *testing.T) {
	// Right half of a shared 200px texture.
	fov := symmetricFov(1.0)
	tex := hmd.Size{W: 200, H: 100}
	vp := hmd.Rect{X: 100, Y: 0, W: 100, H: 100}

	scale, offset := renderScaleAndOffset(fov, tex, vp)
	// tan = -LeftTan maps to the viewport's left edge, u = 0.5 of the
	// shared texture; tan = +RightTan maps to u = 1.0.
	if u := -1*scale.X + offset.X; math.Abs(u-0.5) > 1e-12 {
		t.Errorf("left edge u = %g, want 0.5", u)
	}
	if u := 1*scale.X + offset.X; math.Abs(u-1.0) > 1e-12 {
		t.Errorf("right edge u = %g, want 1.0", u)
	}
}

func TestDistortionScalePolynomial(t *testing.T) {
	k := [4]float64{1.0, 0.5, 0.25, 0.125}
	rsq := 2.0
	want := 1.0 + 0.5*2 + 0.25*4 + 0.125*8
	if got := distortionScale(k, rsq); math.Abs(got-want) > 1e-12 {
		t.Errorf("distortionScale = %g, want %g", got, want)
	}
}
