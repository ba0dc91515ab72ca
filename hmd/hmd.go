package hmd

// SDK is the headset runtime the driver binds to. Implementations own
// device discovery and creation; everything per-device lives behind Device.
//
// The driver initializes the runtime lazily and at most once per session;
// Shutdown is only invoked when the session closes all devices.
type SDK interface {
	// Initialize brings up the runtime. Idempotent at the driver level:
	// the driver guards against repeated calls.
	Initialize() error

	// Shutdown tears the runtime down. Called only after every open
	// device has been destroyed.
	Shutdown()

	// Version returns the runtime version string, for diagnostics.
	Version() string

	// Detect returns the number of attached headsets. A runtime that
	// cannot reach its service process reports an error; the driver
	// treats that as zero devices with a warning rather than a failure.
	Detect() (int, error)

	// Create opens the headset at deviceIndex (0-based). It fails when
	// the index is out of range or the device is in use elsewhere.
	Create(deviceIndex int) (Device, error)

	// CreateDebug opens an emulated headset that needs no hardware.
	// It provides static but well-formed tracking and a full optical
	// model, for testing and development.
	CreateDebug() (Device, error)
}

// Device is one opened headset. All calls are cheap, synchronous reads or
// state flips against the runtime; none of them block. Device is not safe
// for concurrent use.
type Device interface {
	// Info describes the headset.
	Info() DeviceInfo

	// DefaultFov returns the device's recommended field of view for eye.
	DefaultFov(eye Eye) FovPort

	// ConfigureTracking enables the requested sensor capabilities, or
	// disables tracking entirely when caps is zero. Capabilities the
	// hardware lacks are ignored.
	ConfigureTracking(caps TrackingCaps) error

	// TrackingState samples the head state. predictionTime zero returns
	// the latest measured state; positive values extrapolate to that
	// many seconds ahead using the runtime's prediction model. Never
	// fails: emulated or sensorless devices return best-effort data.
	TrackingState(predictionTime float64) TrackingState

	// FovTextureSize returns the recommended render target size for the
	// given FOV at the given pixel density (render target pixels per
	// display pixel at the distortion center).
	FovTextureSize(eye Eye, fov FovPort, pixelsPerDisplay float64) Size

	// RenderDesc resolves the per-eye render parameters for fov.
	RenderDesc(eye Eye, fov FovPort) EyeRenderDesc

	// CreateDistortionMesh generates the lens correction mesh for fov.
	// The mesh holds runtime-owned resources and must be released with
	// DestroyDistortionMesh.
	CreateDistortionMesh(eye Eye, fov FovPort) (*DistortionMesh, error)

	// DestroyDistortionMesh releases a mesh. Nil is a no-op.
	DestroyDistortionMesh(m *DistortionMesh)

	// RenderScaleAndOffset computes the affine UV mapping from tan-angle
	// eye space into the shared render target's texture space, for a
	// mesh resolved with fov and rendered into viewport of a texture of
	// textureSize.
	RenderScaleAndOffset(fov FovPort, textureSize Size, viewport Rect) (scale, offset Vec2)

	// EyePose returns the current head pose adjusted for the eye's
	// offset, the reference pose timewarp corrects against.
	EyePose(eye Eye) Pose

	// EyeTimewarpMatrices predicts the rotation correction matrices for
	// the start and end of the next display scan-out, relative to pose.
	EyeTimewarpMatrices(eye Eye, pose Pose) (start, end Matrix4)

	// Destroy releases the device. The device must not be used after.
	Destroy()
}
