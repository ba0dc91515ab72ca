package rift

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/rift/hmd"
	"github.com/gogpu/rift/hmd/emu"
)

func TestStartStopTracking(t *testing.T) {
	s, _ := newTestSession(t)
	h, _ := s.Open(-1)

	if on, err := s.IsTracking(h); err != nil || on {
		t.Errorf("IsTracking() = %v, %v before StartTracking", on, err)
	}
	if err := s.StartTracking(h); err != nil {
		t.Fatalf("StartTracking = %v", err)
	}
	if on, err := s.IsTracking(h); err != nil || !on {
		t.Errorf("IsTracking() = %v, %v after StartTracking", on, err)
	}
	if err := s.StartTracking(h); !errors.Is(err, ErrAlreadyTracking) {
		t.Errorf("second StartTracking = %v, want ErrAlreadyTracking", err)
	}

	if err := s.StopTracking(h); err != nil {
		t.Fatalf("StopTracking = %v", err)
	}
	if on, err := s.IsTracking(h); err != nil || on {
		t.Errorf("IsTracking() = %v, %v after StopTracking", on, err)
	}
	// Stopping a stopped device is a no-op, not an error.
	if err := s.StopTracking(h); err != nil {
		t.Errorf("repeated StopTracking = %v", err)
	}
}

func TestTrackingClosedHandle(t *testing.T) {
	s, _ := newTestSession(t)
	h, _ := s.Open(-1)
	s.Close(h)

	if err := s.StartTracking(h); !errors.Is(err, ErrNotFound) {
		t.Errorf("StartTracking on closed handle = %v, want ErrNotFound", err)
	}
	if _, err := s.GetTrackingState(h, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTrackingState on closed handle = %v, want ErrNotFound", err)
	}
}

func TestGetTrackingStateRejectsNegativePrediction(t *testing.T) {
	s, _ := newTestSession(t)
	h, _ := s.Open(-1)

	if _, err := s.GetTrackingState(h, -0.01); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("GetTrackingState(-0.01) = %v, want ErrInvalidArgument", err)
	}
}

func TestGetTrackingStateTimestamps(t *testing.T) {
	now := 10.0
	rt := emu.NewRuntime(emu.WithClock(func() float64 { return now }))
	s := NewSession(WithSDK(rt))
	t.Cleanup(s.CloseAll)

	h, _ := s.Open(-1)
	if err := s.StartTracking(h); err != nil {
		t.Fatalf("StartTracking = %v", err)
	}

	st1, err := s.GetTrackingState(h, 0)
	if err != nil {
		t.Fatalf("GetTrackingState = %v", err)
	}
	if st1.Time != 10.0 {
		t.Errorf("Time = %v, want 10.0", st1.Time)
	}

	now = 10.5
	st2, _ := s.GetTrackingState(h, 0)
	if st2.Time <= st1.Time {
		t.Errorf("timestamps not monotonic: %v then %v", st1.Time, st2.Time)
	}

	// Prediction offsets the sample time into the future.
	st3, _ := s.GetTrackingState(h, 0.02)
	if got, want := st3.Time, 10.52; math.Abs(got-want) > 1e-9 {
		t.Errorf("predicted Time = %v, want %v", got, want)
	}
}

func TestFullDeviceScenario(t *testing.T) {
	s, _ := newTestSession(t)

	h, err := s.Open(-1)
	if err != nil {
		t.Fatalf("Open(-1) = %v", err)
	}
	if err := s.StartTracking(h); err != nil {
		t.Fatalf("StartTracking = %v", err)
	}

	st, err := s.GetTrackingState(h, 0.011)
	if err != nil {
		t.Fatalf("GetTrackingState = %v", err)
	}
	vec := st.Vector()
	if len(vec) != 20 {
		t.Fatalf("state vector length = %d, want 20", len(vec))
	}
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("vector[%d] = %v, want finite", i, v)
		}
	}

	for _, eye := range []hmd.Eye{hmd.EyeLeft, hmd.EyeRight} {
		if _, err := s.ResolveEye(h, eye); err != nil {
			t.Fatalf("ResolveEye(%v) = %v", eye, err)
		}
	}

	if err := s.Close(h); err != nil {
		t.Fatalf("Close = %v", err)
	}
	if s.IsOpen(h) {
		t.Error("IsOpen() = true after Close")
	}
}
