package emu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/rift/hmd"
)

// Version is the version string the emulated runtime reports.
const Version = "emu-0.5.0"

// ErrNotInitialized is returned when devices are created before Initialize.
var ErrNotInitialized = errors.New("emu: runtime not initialized")

// Runtime is an in-process headset runtime. It tracks every distortion mesh
// it hands out, so tests can assert that the driver releases meshes when
// replacing or closing them.
//
// Runtime is not safe for concurrent use; the driver serializes access.
type Runtime struct {
	initialized bool
	profile     Profile
	attached    int
	inUse       map[int]bool

	clock func() float64

	liveMeshes int
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithProfile selects the headset profile for all devices the runtime
// creates. Defaults to DK2.
func WithProfile(p Profile) Option {
	return func(r *Runtime) { r.profile = p }
}

// WithAttachedDevices sets how many "real" headsets the runtime pretends
// are plugged in. Defaults to zero: only the debug device is available,
// matching a development machine without hardware.
func WithAttachedDevices(n int) Option {
	return func(r *Runtime) { r.attached = n }
}

// WithClock overrides the tracking timestamp source. The function must be
// monotonically non-decreasing. Used by tests for deterministic timestamps.
func WithClock(now func() float64) Option {
	return func(r *Runtime) { r.clock = now }
}

// NewRuntime creates an emulated runtime.
func NewRuntime(opts ...Option) *Runtime {
	start := time.Now()
	r := &Runtime{
		profile: DK2(),
		inUse:   make(map[int]bool),
		clock: func() float64 {
			return time.Since(start).Seconds()
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize brings the runtime up.
func (r *Runtime) Initialize() error {
	if err := r.profile.Validate(); err != nil {
		return err
	}
	r.initialized = true
	return nil
}

// Shutdown tears the runtime down. Devices created earlier become inert.
func (r *Runtime) Shutdown() {
	r.initialized = false
}

// Version returns the emulated runtime version string.
func (r *Runtime) Version() string { return Version }

// Detect returns the number of attached (simulated) headsets.
func (r *Runtime) Detect() (int, error) {
	if !r.initialized {
		return 0, ErrNotInitialized
	}
	return r.attached, nil
}

// Create opens the simulated headset at deviceIndex. A device already
// opened and not yet destroyed counts as in use, like a headset grabbed by
// another process.
func (r *Runtime) Create(deviceIndex int) (hmd.Device, error) {
	if !r.initialized {
		return nil, ErrNotInitialized
	}
	if deviceIndex < 0 || deviceIndex >= r.attached {
		return nil, fmt.Errorf("emu: no headset at device index %d (%d attached)", deviceIndex, r.attached)
	}
	if r.inUse[deviceIndex] {
		return nil, fmt.Errorf("emu: headset at device index %d is already in use", deviceIndex)
	}
	r.inUse[deviceIndex] = true
	return newDevice(r, deviceIndex), nil
}

// CreateDebug opens the emulated debug headset. Always succeeds on an
// initialized runtime, and any number may be open at once.
func (r *Runtime) CreateDebug() (hmd.Device, error) {
	if !r.initialized {
		return nil, ErrNotInitialized
	}
	return newDevice(r, -1), nil
}

// LiveMeshes returns the number of distortion meshes created and not yet
// destroyed across all of the runtime's devices.
func (r *Runtime) LiveMeshes() int { return r.liveMeshes }

func (r *Runtime) release(deviceIndex int) {
	if deviceIndex >= 0 {
		delete(r.inUse, deviceIndex)
	}
}

var _ hmd.SDK = (*Runtime)(nil)
