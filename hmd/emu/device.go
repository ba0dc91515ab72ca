package emu

import (
	"math"

	"github.com/gogpu/rift/hmd"
)

// Device is one emulated headset. The head it reports is static: identity
// orientation at a fixed seated height, zero velocities and accelerations.
// Timestamps come from the runtime clock, so repeated queries are
// monotonically non-decreasing.
type Device struct {
	rt        *Runtime
	index     int // -1 for the debug device
	profile   Profile
	caps      hmd.TrackingCaps
	destroyed bool
}

// headHeight is the static head position above the origin, in meters,
// roughly a seated user's eye level relative to the tracking origin.
const headHeight = 0.0

func newDevice(rt *Runtime, index int) *Device {
	return &Device{
		rt:      rt,
		index:   index,
		profile: rt.profile,
	}
}

// Info describes the emulated headset.
func (d *Device) Info() hmd.DeviceInfo {
	return hmd.DeviceInfo{
		ProductName:   d.profile.Name,
		Manufacturer:  d.profile.Manufacturer,
		SerialNumber:  d.profile.SerialNumber,
		VendorID:      d.profile.VendorID,
		ProductID:     d.profile.ProductID,
		FirmwareMajor: d.profile.FirmwareMajor,
		FirmwareMinor: d.profile.FirmwareMinor,
		Resolution:    hmd.Size{W: d.profile.PanelWidth, H: d.profile.PanelHeight},
	}
}

// DefaultFov returns the profile's recommended FOV for eye.
func (d *Device) DefaultFov(eye hmd.Eye) hmd.FovPort {
	return d.profile.fov(eye)
}

// ConfigureTracking records the requested capabilities. The emulated
// sensors accept any configuration.
func (d *Device) ConfigureTracking(caps hmd.TrackingCaps) error {
	d.caps = caps
	return nil
}

// TrackingState returns the static head state stamped with the runtime
// clock. A positive predictionTime shifts the timestamp to the requested
// target time; with a static head there is nothing else to extrapolate.
func (d *Device) TrackingState(predictionTime float64) hmd.TrackingState {
	now := d.rt.clock()
	t := now
	if predictionTime > 0 {
		t = now + predictionTime
	}
	return hmd.TrackingState{
		Time: t,
		HeadPose: hmd.Pose{
			Position:    hmd.Vec3{X: 0, Y: headHeight, Z: 0},
			Orientation: hmd.QuatIdentity(),
		},
	}
}

// FovTextureSize returns the recommended render target size: the panel's
// pixels-per-tan-angle density at the distortion center, multiplied by the
// FOV extent and the requested density ratio.
func (d *Device) FovTextureSize(eye hmd.Eye, fov hmd.FovPort, pixelsPerDisplay float64) hmd.Size {
	pptX, pptY := d.pixelsPerTanAngle()
	w := int(math.Ceil(pptX * (fov.LeftTan + fov.RightTan) * pixelsPerDisplay))
	h := int(math.Ceil(pptY * (fov.UpTan + fov.DownTan) * pixelsPerDisplay))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return hmd.Size{W: w, H: h}
}

// pixelsPerTanAngle is the panel pixel density per tan-angle unit at the
// center of distortion, derived from the per-eye panel half and the
// profile's default FOV extent. It is a property of panel and lens, not of
// the FOV a caller renders with.
func (d *Device) pixelsPerTanAngle() (x, y float64) {
	def := d.profile.fov(hmd.EyeLeft)
	x = float64(d.profile.PanelWidth/2) / (def.LeftTan + def.RightTan)
	y = float64(d.profile.PanelHeight) / (def.UpTan + def.DownTan)
	return x, y
}

// RenderDesc resolves the per-eye render parameters for fov. The distorted
// viewport is the eye's half of the panel; the eye offset places the eye at
// half the lens separation to either side of the head frame.
func (d *Device) RenderDesc(eye hmd.Eye, fov hmd.FovPort) hmd.EyeRenderDesc {
	half := d.profile.PanelWidth / 2
	vp := hmd.Rect{X: 0, Y: 0, W: half, H: d.profile.PanelHeight}
	if eye == hmd.EyeRight {
		vp.X = half
	}

	offX := d.profile.LensSeparation / 2
	if eye == hmd.EyeRight {
		offX = -offX
	}

	pptX, pptY := d.pixelsPerTanAngle()
	return hmd.EyeRenderDesc{
		Eye:                       eye,
		Fov:                       fov,
		DistortedViewport:         vp,
		PixelsPerTanAngleAtCenter: hmd.Vec2{X: pptX, Y: pptY},
		HmdToEyeOffset:            hmd.Vec3{X: offX, Y: 0, Z: d.profile.EyeReliefDepth},
	}
}

// CreateDistortionMesh generates the correction mesh for fov and registers
// it with the runtime's resource accounting.
func (d *Device) CreateDistortionMesh(eye hmd.Eye, fov hmd.FovPort) (*hmd.DistortionMesh, error) {
	m, err := generateMesh(d.profile, eye, fov)
	if err != nil {
		return nil, err
	}
	d.rt.liveMeshes++
	return m, nil
}

// DestroyDistortionMesh releases a mesh created by this runtime.
func (d *Device) DestroyDistortionMesh(m *hmd.DistortionMesh) {
	if m == nil {
		return
	}
	m.Vertices = nil
	m.Indices = nil
	d.rt.liveMeshes--
}

// RenderScaleAndOffset computes the tan-angle to texture UV mapping.
func (d *Device) RenderScaleAndOffset(fov hmd.FovPort, textureSize hmd.Size, viewport hmd.Rect) (scale, offset hmd.Vec2) {
	return renderScaleAndOffset(fov, textureSize, viewport)
}

// EyePose is the static head pose shifted by the eye's offset.
func (d *Device) EyePose(eye hmd.Eye) hmd.Pose {
	desc := d.RenderDesc(eye, d.DefaultFov(eye))
	head := d.TrackingState(0).HeadPose
	return hmd.Pose{
		Position: hmd.Vec3{
			X: head.Position.X + desc.HmdToEyeOffset.X,
			Y: head.Position.Y + desc.HmdToEyeOffset.Y,
			Z: head.Position.Z + desc.HmdToEyeOffset.Z,
		},
		Orientation: head.Orientation,
	}
}

// EyeTimewarpMatrices predicts the scan-out rotation correction for pose.
// The emulated head never rotates, so both matrices describe the delta
// between the render pose and the (identical) predicted pose: identity.
// The computation still goes through the real quaternion path so the unit
// is exercised end to end.
func (d *Device) EyeTimewarpMatrices(eye hmd.Eye, pose hmd.Pose) (start, end hmd.Matrix4) {
	predicted := d.TrackingState(0).HeadPose.Orientation
	start = TimewarpMatrix(pose.Orientation, predicted)
	end = TimewarpMatrix(pose.Orientation, predicted)
	return start, end
}

// Destroy releases the device slot. Idempotent.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.rt.release(d.index)
}

var _ hmd.Device = (*Device)(nil)
