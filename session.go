package rift

import (
	"fmt"
	"sync"

	"github.com/gogpu/rift/hmd"
	"github.com/gogpu/rift/hmd/emu"
)

// MaxDevices is the number of headsets a Session can hold open at once.
const MaxDevices = 10

// Session owns the headset runtime and the table of open devices.
// Handles returned by Open are 1-based slot numbers; handle h always maps
// to the same device until it is closed, regardless of what other handles
// come and go around it.
//
// All methods are safe for concurrent use.
type Session struct {
	mu          sync.Mutex
	sdk         hmd.SDK
	opts        sessionOptions
	initialized bool
	slots       [MaxDevices]*Device
	openCount   int
}

// NewSession creates a Session. Without options it drives the emulated
// runtime with a DK2 optical profile; the runtime itself is initialized
// lazily on the first call that needs it.
func NewSession(opts ...SessionOption) *Session {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.sdk == nil {
		o.sdk = emu.NewRuntime()
	}
	return &Session{sdk: o.sdk, opts: o}
}

// ensureInit initializes the runtime on first use.
// Callers must hold s.mu.
func (s *Session) ensureInit() error {
	if s.initialized {
		return nil
	}
	if err := s.sdk.Initialize(); err != nil {
		return fmt.Errorf("%w: initialize: %v", ErrSystem, err)
	}
	s.initialized = true

	count, err := s.sdk.Detect()
	if err != nil {
		count = 0
	}
	Logger().Info("runtime initialized",
		"version", s.sdk.Version(),
		"devices", count)
	return nil
}

// Version reports the runtime's version string, initializing it if needed.
func (s *Session) Version() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(); err != nil {
		return "", err
	}
	return s.sdk.Version(), nil
}

// GetCount re-detects attached headsets and returns how many can be
// opened. The result never exceeds MaxDevices.
func (s *Session) GetCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(); err != nil {
		return 0, err
	}
	count, err := s.sdk.Detect()
	if err != nil {
		// A runtime that cannot reach its service has no devices; that
		// is an answer, not a failure.
		Logger().Warn("device detection failed", "error", err)
		return 0, nil
	}
	if count < 0 {
		// Some runtimes report negative counts while their service is
		// still starting up.
		Logger().Warn("negative device count from runtime", "detected", count)
		count = 0
	}
	if count > MaxDevices {
		Logger().Debug("detected device count clamped",
			"detected", count, "max", MaxDevices)
		count = MaxDevices
	}
	return count, nil
}

// Open connects to the headset at deviceIndex and returns its handle.
// Pass deviceIndex -1 to open an emulated debug headset, which succeeds
// even when no hardware is attached.
func (s *Session) Open(deviceIndex int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureInit(); err != nil {
		return 0, err
	}

	slot := -1
	for i := range s.slots {
		if s.slots[i] == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		return 0, fmt.Errorf("%w (max %d)", ErrCapacityExceeded, MaxDevices)
	}

	var (
		dev hmd.Device
		err error
	)
	switch {
	case deviceIndex == -1:
		dev, err = s.sdk.CreateDebug()
	case deviceIndex < 0:
		return 0, fmt.Errorf("%w: device index %d", ErrInvalidArgument, deviceIndex)
	default:
		var count int
		count, err = s.sdk.Detect()
		if err != nil {
			return 0, fmt.Errorf("%w: detect: %v", ErrSystem, err)
		}
		if deviceIndex >= count {
			return 0, fmt.Errorf("%w: index %d, %d attached", ErrNoDevice, deviceIndex, count)
		}
		dev, err = s.sdk.Create(deviceIndex)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: open device %d: %v", ErrSystem, deviceIndex, err)
	}

	d := &Device{
		handle: slot + 1,
		dev:    dev,
		info:   dev.Info(),
	}
	s.slots[slot] = d
	s.openCount++

	Logger().Info("device opened",
		"handle", d.handle,
		"index", deviceIndex,
		"product", d.info.ProductName,
		"serial", d.info.SerialNumber,
		"panel_w", d.info.Resolution.W,
		"panel_h", d.info.Resolution.H)
	return d.handle, nil
}

// Close releases the device behind handle. The runtime stays up even
// when the last device closes; only CloseAll shuts it down.
func (s *Session) Close(handle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return err
	}
	s.closeDevice(d)
	return nil
}

// CloseAll closes every open device and shuts the runtime down. It is
// safe to call with nothing open.
func (s *Session) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.slots {
		if d != nil {
			s.closeDevice(d)
		}
	}
	if s.initialized {
		s.shutdown()
	}
}

// closeDevice tears down one device. Callers must hold s.mu.
func (s *Session) closeDevice(d *Device) {
	if d.tracking {
		if err := d.dev.ConfigureTracking(0); err != nil {
			Logger().Warn("tracking release failed", "handle", d.handle, "error", err)
		}
		d.tracking = false
	}
	for eye := range d.eyes {
		d.releaseEye(hmd.Eye(eye))
	}
	d.dev.Destroy()
	s.slots[d.handle-1] = nil
	s.openCount--
	Logger().Info("device closed", "handle", d.handle)
}

// shutdown stops the runtime. Callers must hold s.mu.
func (s *Session) shutdown() {
	s.sdk.Shutdown()
	s.initialized = false
	Logger().Info("runtime shut down")
}

// IsOpen reports whether handle refers to an open device.
func (s *Session) IsOpen(handle int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return handle >= 1 && handle <= MaxDevices && s.slots[handle-1] != nil
}

// Info returns the static description of the device behind handle.
func (s *Session) Info(handle int) (hmd.DeviceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return hmd.DeviceInfo{}, err
	}
	return d.info, nil
}

// lookup resolves a handle to its open device.
// Callers must hold s.mu.
func (s *Session) lookup(handle int) (*Device, error) {
	if handle < 1 || handle > MaxDevices {
		return nil, fmt.Errorf("%w: handle %d out of range [1, %d]", ErrInvalidArgument, handle, MaxDevices)
	}
	d := s.slots[handle-1]
	if d == nil {
		return nil, fmt.Errorf("%w: handle %d", ErrNotFound, handle)
	}
	return d, nil
}
