package rift

import (
	"fmt"
	"math"

	"github.com/gogpu/rift/hmd"
)

// EyeRender bundles everything a renderer needs to set up one eye:
// the resolved FOV, the render target size and viewport, the distortion
// mesh with its UV mapping, and the timewarp matrices for the frame.
// Session.ResolveEye produces it and the Session retains it until the eye
// is resolved again or the device closes.
type EyeRender struct {
	Eye               hmd.Eye
	Fov               hmd.FovPort
	TextureSize       hmd.Size
	Viewport          hmd.Rect
	PixelsPerTanAngle hmd.Vec2
	HmdShift          hmd.Vec3
	Pose              hmd.Pose
	Mesh              *hmd.DistortionMesh
	UVScale           hmd.Vec2
	UVOffset          hmd.Vec2
	TimewarpStart     hmd.Matrix4
	TimewarpEnd       hmd.Matrix4
}

// vertexDoubles is the number of values VertexData emits per mesh vertex:
// screen x/y, timewarp and vignette factors, and three UV pairs.
const vertexDoubles = 10

// VertexData flattens the mesh vertices to vertexDoubles values each, in
// the order x, y, timewarp, vignette, rU, rV, gU, gV, bU, bV. Screen
// positions pass through unchanged; the V of each tan-angle UV pair is
// negated for consumers whose texture origin is bottom-left.
func (er *EyeRender) VertexData() []float64 {
	if er.Mesh == nil {
		return nil
	}
	out := make([]float64, 0, len(er.Mesh.Vertices)*vertexDoubles)
	for _, v := range er.Mesh.Vertices {
		out = append(out,
			v.ScreenPos.X, v.ScreenPos.Y,
			v.TimewarpFactor, v.VignetteFactor,
			v.TanEyeAnglesR.X, -v.TanEyeAnglesR.Y,
			v.TanEyeAnglesG.X, -v.TanEyeAnglesG.Y,
			v.TanEyeAnglesB.X, -v.TanEyeAnglesB.Y)
	}
	return out
}

// tanDeg converts a half-angle in degrees to its tangent.
func tanDeg(deg float64) float64 {
	return math.Tan(deg * math.Pi / 180)
}

// maxFovTan bounds each half-angle tangent; tan(89 degrees) is about 57,
// so anything larger means a half-angle at or past 90 degrees.
const maxFovTan = 60.0

func validFov(fov hmd.FovPort) bool {
	for _, t := range [4]float64{fov.LeftTan, fov.RightTan, fov.UpTan, fov.DownTan} {
		if t <= 0 || t > maxFovTan || math.IsNaN(t) {
			return false
		}
	}
	return true
}

// DefaultFov returns the recommended field of view of the device behind
// handle for eye.
func (s *Session) DefaultFov(handle int, eye hmd.Eye) (hmd.FovPort, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return hmd.FovPort{}, err
	}
	if !eye.Valid() {
		return hmd.FovPort{}, fmt.Errorf("%w: eye %d", ErrInvalidArgument, int(eye))
	}
	return d.dev.DefaultFov(eye), nil
}

// ResolveEye computes the full set of rendering parameters for one eye of
// the device behind handle: render target size, distortion mesh, UV
// mapping, and timewarp matrices. Without options it uses the device's
// recommended FOV at native pixel density.
//
// Each call replaces the eye's previous resolution; the mesh held by the
// old one is destroyed. The returned EyeRender stays valid until the next
// ResolveEye for the same eye or until the device closes.
func (s *Session) ResolveEye(handle int, eye hmd.Eye, opts ...FovOption) (*EyeRender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return nil, err
	}
	return s.resolveEye(d, eye, opts)
}

// resolveEye does the work of ResolveEye. Callers must hold s.mu.
func (s *Session) resolveEye(d *Device, eye hmd.Eye, opts []FovOption) (*EyeRender, error) {
	if !eye.Valid() {
		return nil, fmt.Errorf("%w: eye %d", ErrInvalidArgument, int(eye))
	}

	o := fovOptions{pixelDensity: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pixelDensity <= 0 {
		return nil, fmt.Errorf("%w: pixel density %g", ErrInvalidArgument, o.pixelDensity)
	}

	fov := d.dev.DefaultFov(eye)
	if o.fov != nil {
		fov = *o.fov
	}
	if !validFov(fov) {
		return nil, fmt.Errorf("%w: FOV half-angle tangents %+v", ErrInvalidArgument, fov)
	}

	texSize := d.dev.FovTextureSize(eye, fov, o.pixelDensity)
	if s.opts.sizeOverride.W > 0 && s.opts.sizeOverride.H > 0 {
		Logger().Debug("texture size overridden",
			"handle", d.handle, "eye", eye,
			"derived_w", texSize.W, "derived_h", texSize.H,
			"forced_w", s.opts.sizeOverride.W, "forced_h", s.opts.sizeOverride.H)
		texSize = s.opts.sizeOverride
	}
	viewport := hmd.Rect{X: 0, Y: 0, W: texSize.W, H: texSize.H}

	rd := d.dev.RenderDesc(eye, fov)
	uvScale, uvOffset := d.dev.RenderScaleAndOffset(fov, texSize, viewport)

	// Drop the previous resolution before building the new mesh so a
	// failed rebuild never leaks the old one.
	d.releaseEye(eye)

	mesh, err := d.dev.CreateDistortionMesh(eye, fov)
	if err != nil {
		return nil, fmt.Errorf("%w: distortion mesh: %v", ErrSystem, err)
	}

	pose := d.dev.EyePose(eye)
	start, end := d.dev.EyeTimewarpMatrices(eye, pose)

	er := &EyeRender{
		Eye:               eye,
		Fov:               fov,
		TextureSize:       texSize,
		Viewport:          viewport,
		PixelsPerTanAngle: rd.PixelsPerTanAngleAtCenter,
		HmdShift:          rd.HmdToEyeOffset,
		Pose:              pose,
		Mesh:              mesh,
		UVScale:           uvScale,
		UVOffset:          uvOffset,
		TimewarpStart:     start,
		TimewarpEnd:       end,
	}
	d.eyes[eye] = er

	Logger().Debug("eye resolved",
		"handle", d.handle, "eye", eye,
		"tex_w", texSize.W, "tex_h", texSize.H,
		"vertices", mesh.VertexCount(), "indices", mesh.IndexCount())
	return er, nil
}

// EyeRenderState returns the most recent resolution for eye, or
// ErrNotFound when the eye has not been resolved since the device opened.
func (s *Session) EyeRenderState(handle int, eye hmd.Eye) (*EyeRender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return nil, err
	}
	if !eye.Valid() {
		return nil, fmt.Errorf("%w: eye %d", ErrInvalidArgument, int(eye))
	}
	er := d.eyes[eye]
	if er == nil {
		return nil, fmt.Errorf("%w: eye %d not resolved on handle %d", ErrNotFound, int(eye), handle)
	}
	return er, nil
}
