package emu

import (
	"fmt"
	"math"

	"github.com/gogpu/rift/hmd"
)

// distortionScale evaluates the radial distortion polynomial at squared
// tan-angle radius rsq. The result scales an undistorted tan-angle vector
// outward to the direction the lens actually bends to, so sampling there
// cancels the pincushion distortion of the optics.
func distortionScale(k [4]float64, rsq float64) float64 {
	return k[0] + rsq*(k[1]+rsq*(k[2]+rsq*k[3]))
}

// chromaScale returns the red and blue channel scale factors relative to
// green at squared radius rsq. The lens refracts short wavelengths more
// strongly, so blue lands further out than red.
func chromaScale(c [4]float64, rsq float64) (red, blue float64) {
	return c[0] + c[1]*rsq, c[2] + c[3]*rsq
}

// vignetteFactor fades the image near the viewport border. u and v are the
// vertex's normalized position inside the eye viewport. The fade ramps from
// 0 at the border to 1 one-eighth of the way in, hiding the hard edge of
// the render target behind the lens falloff.
func vignetteFactor(u, v float64) float64 {
	d := math.Min(math.Min(u, 1-u), math.Min(v, 1-v))
	f := d * 8
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// generateMesh builds the triangulated correction mesh for one eye.
//
// Vertices form a regular (g+1) x (g+1) grid over the eye's half of the
// panel in NDC. For each vertex the undistorted source direction is found
// by mapping the grid position through the FOV extents into tan-angle
// space, then scaling by the distortion polynomial; the per-channel UV
// pairs additionally apply the chromatic aberration factors. The timewarp
// factor follows the panel's vertical scan-out.
func generateMesh(p Profile, eye hmd.Eye, fov hmd.FovPort) (*hmd.DistortionMesh, error) {
	if !eye.Valid() {
		return nil, fmt.Errorf("emu: mesh generation for invalid eye %d", int(eye))
	}
	if fov.LeftTan+fov.RightTan <= 0 || fov.UpTan+fov.DownTan <= 0 {
		return nil, fmt.Errorf("emu: mesh generation for degenerate FOV %+v", fov)
	}

	g := p.MeshGrid[eye]
	stride := g + 1
	mesh := &hmd.DistortionMesh{
		Vertices: make([]hmd.DistortionVertex, 0, stride*stride),
		Indices:  make([]uint16, 0, g*g*6),
	}

	for j := 0; j <= g; j++ {
		v := float64(j) / float64(g)
		for i := 0; i <= g; i++ {
			u := float64(i) / float64(g)

			// Undistorted view direction for this screen position.
			tx := -fov.LeftTan + u*(fov.LeftTan+fov.RightTan)
			ty := fov.UpTan - v*(fov.UpTan+fov.DownTan)
			rsq := tx*tx + ty*ty

			scale := distortionScale(p.DistortionK, rsq)
			red, blue := chromaScale(p.ChromaK, rsq)

			// Output position in full-panel NDC: the left eye covers
			// x in [-1, 0], the right eye [0, 1].
			ndcX := u - 1
			if eye == hmd.EyeRight {
				ndcX = u
			}
			ndcY := 1 - 2*v

			mesh.Vertices = append(mesh.Vertices, hmd.DistortionVertex{
				ScreenPos:      hmd.Vec2{X: ndcX, Y: ndcY},
				TimewarpFactor: v,
				VignetteFactor: vignetteFactor(u, v),
				TanEyeAnglesR:  hmd.Vec2{X: tx * scale * red, Y: ty * scale * red},
				TanEyeAnglesG:  hmd.Vec2{X: tx * scale, Y: ty * scale},
				TanEyeAnglesB:  hmd.Vec2{X: tx * scale * blue, Y: ty * scale * blue},
			})
		}
	}

	// Two counter-clockwise triangles per grid cell.
	for j := 0; j < g; j++ {
		for i := 0; i < g; i++ {
			a := uint16(j*stride + i)
			b := uint16(j*stride + i + 1)
			c := uint16((j+1)*stride + i)
			d := uint16((j+1)*stride + i + 1)
			mesh.Indices = append(mesh.Indices, a, b, c, b, d, c)
		}
	}

	return mesh, nil
}

// renderScaleAndOffset computes the affine mapping from tan-angle space to
// the render target's UV space: u = tx*scale.X + offset.X and
// v = ty*scale.Y + offset.Y.
//
// Horizontally, tan angles span [-LeftTan, RightTan] across the viewport.
// Vertically the sign flips: positive (up) tan angles map toward v = 0,
// matching the top-left texture origin, so scale.Y is negative.
func renderScaleAndOffset(fov hmd.FovPort, textureSize hmd.Size, viewport hmd.Rect) (scale, offset hmd.Vec2) {
	texW := float64(textureSize.W)
	texH := float64(textureSize.H)
	extX := fov.LeftTan + fov.RightTan
	extY := fov.UpTan + fov.DownTan

	scale = hmd.Vec2{
		X: float64(viewport.W) / (texW * extX),
		Y: -float64(viewport.H) / (texH * extY),
	}
	offset = hmd.Vec2{
		X: (float64(viewport.X) + float64(viewport.W)*fov.LeftTan/extX) / texW,
		Y: (float64(viewport.Y) + float64(viewport.H)*fov.UpTan/extY) / texH,
	}
	return scale, offset
}
