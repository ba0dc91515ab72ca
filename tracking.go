package rift

import (
	"fmt"

	"github.com/gogpu/rift/hmd"
)

// StartTracking enables head tracking on the device behind handle,
// requesting orientation, magnetometer yaw correction, and position.
// Starting a device that is already tracking is an error.
func (s *Session) StartTracking(handle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return err
	}
	if d.tracking {
		return fmt.Errorf("%w: handle %d", ErrAlreadyTracking, handle)
	}
	caps := hmd.TrackingOrientation | hmd.TrackingMagYawCorrection | hmd.TrackingPosition
	if err := d.dev.ConfigureTracking(caps); err != nil {
		return fmt.Errorf("%w: configure tracking: %v", ErrSystem, err)
	}
	d.tracking = true
	Logger().Debug("tracking started", "handle", handle)
	return nil
}

// StopTracking disables head tracking on the device behind handle.
// Stopping a device that is not tracking is a no-op.
func (s *Session) StopTracking(handle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return err
	}
	if !d.tracking {
		return nil
	}
	if err := d.dev.ConfigureTracking(0); err != nil {
		return fmt.Errorf("%w: release tracking: %v", ErrSystem, err)
	}
	d.tracking = false
	Logger().Debug("tracking stopped", "handle", handle)
	return nil
}

// IsTracking reports whether the device behind handle has tracking
// started.
func (s *Session) IsTracking(handle int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return false, err
	}
	return d.tracking, nil
}

// GetTrackingState samples the head state of the device behind handle.
// predictionTime is seconds ahead of now to predict for; zero samples the
// latest state, and negative values are rejected.
func (s *Session) GetTrackingState(handle int, predictionTime float64) (hmd.TrackingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return hmd.TrackingState{}, err
	}
	if predictionTime < 0 {
		return hmd.TrackingState{}, fmt.Errorf("%w: prediction time %g", ErrInvalidArgument, predictionTime)
	}
	return d.dev.TrackingState(predictionTime), nil
}
