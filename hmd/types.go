package hmd

// Eye selects one of the two per-eye render paths.
type Eye int

const (
	// EyeLeft is the left eye (index 0).
	EyeLeft Eye = iota
	// EyeRight is the right eye (index 1).
	EyeRight
	// EyeCount is the number of eyes.
	EyeCount
)

// Valid reports whether e names an actual eye.
func (e Eye) Valid() bool {
	return e == EyeLeft || e == EyeRight
}

// String returns "left", "right", or a numeric fallback for invalid values.
func (e Eye) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	}
	return "eye(invalid)"
}

// Vec2 is a 2-component vector.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3-component vector.
type Vec3 struct {
	X, Y, Z float64
}

// Quat is a rotation quaternion in (x, y, z, w) component order, the order
// used by the tracking state vector.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// Size is a texture or panel extent in pixels.
type Size struct {
	W, H int
}

// Rect is a viewport rectangle in pixels.
type Rect struct {
	X, Y, W, H int
}

// FovPort describes a field of view as tangents of the half-angles from the
// line of sight in the four directions. All tangents are positive for any
// usable FOV.
type FovPort struct {
	UpTan, DownTan, LeftTan, RightTan float64
}

// Pose is a rigid-body position and orientation.
type Pose struct {
	Position    Vec3
	Orientation Quat
}

// TrackingState is the head state sampled or predicted at a point in time.
type TrackingState struct {
	// Time is the time in seconds the state applies to. For predicted
	// states this is the requested target time.
	Time float64

	HeadPose Pose

	LinearVelocity      Vec3 // meters/sec
	AngularVelocity     Vec3 // radians/sec
	LinearAcceleration  Vec3 // meters/sec^2
	AngularAcceleration Vec3 // radians/sec^2
}

// Vector flattens the state into the fixed 20-element layout consumed by
// scripting frontends:
//
//	[0]      time in seconds
//	[1..3]   position x, y, z
//	[4..7]   orientation quaternion x, y, z, w
//	[8..10]  linear velocity
//	[11..13] angular velocity
//	[14..16] linear acceleration
//	[17..19] angular acceleration
func (s TrackingState) Vector() [20]float64 {
	return [20]float64{
		s.Time,
		s.HeadPose.Position.X, s.HeadPose.Position.Y, s.HeadPose.Position.Z,
		s.HeadPose.Orientation.X, s.HeadPose.Orientation.Y, s.HeadPose.Orientation.Z, s.HeadPose.Orientation.W,
		s.LinearVelocity.X, s.LinearVelocity.Y, s.LinearVelocity.Z,
		s.AngularVelocity.X, s.AngularVelocity.Y, s.AngularVelocity.Z,
		s.LinearAcceleration.X, s.LinearAcceleration.Y, s.LinearAcceleration.Z,
		s.AngularAcceleration.X, s.AngularAcceleration.Y, s.AngularAcceleration.Z,
	}
}

// Matrix4 is a row-major 4x4 matrix, the layout timewarp matrices are
// exchanged in.
type Matrix4 [4][4]float64

// Identity4 returns the identity matrix.
func Identity4() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Matrix4) IsIdentity() bool {
	return m == Identity4()
}

// Flatten returns the 16 elements in row-major order.
func (m Matrix4) Flatten() [16]float64 {
	var out [16]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m[r][c]
		}
	}
	return out
}

// EyeRenderDesc bundles the per-eye rendering parameters resolved for a
// specific FOV. It is immutable once returned by Device.RenderDesc.
type EyeRenderDesc struct {
	Eye Eye

	// Fov is the field of view the descriptor was resolved for.
	Fov FovPort

	// DistortedViewport is the region of the display panel the distorted
	// output for this eye covers.
	DistortedViewport Rect

	// PixelsPerTanAngleAtCenter is the pixel density at the distortion
	// center, per tan-angle unit.
	PixelsPerTanAngleAtCenter Vec2

	// HmdToEyeOffset translates from the head reference frame to the
	// eye's view frame, in meters.
	HmdToEyeOffset Vec3
}

// DeviceInfo identifies an opened headset.
type DeviceInfo struct {
	ProductName  string
	Manufacturer string
	SerialNumber string

	VendorID  uint16
	ProductID uint16

	FirmwareMajor int
	FirmwareMinor int

	// Resolution is the full panel size in pixels (both eyes).
	Resolution Size
}

// TrackingCaps selects the sensor capabilities to enable on a device.
// Capabilities the hardware lacks are silently ignored by the runtime, so
// requesting the full set is safe on every device generation.
type TrackingCaps uint32

const (
	// TrackingOrientation enables orientation tracking.
	TrackingOrientation TrackingCaps = 1 << iota
	// TrackingMagYawCorrection enables magnetometer-based yaw drift correction.
	TrackingMagYawCorrection
	// TrackingPosition enables positional tracking.
	TrackingPosition
)
