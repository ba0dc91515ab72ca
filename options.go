package rift

import (
	"github.com/gogpu/rift/hmd"
	"github.com/gogpu/rift/render"
)

// SessionOption configures a Session during creation.
// Use functional options to customize Session behavior.
//
// Example:
//
//	// Default runtime (emulated headset)
//	s := rift.NewSession()
//
//	// Custom runtime (dependency injection)
//	s := rift.NewSession(rift.WithSDK(myRuntime))
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	sdk          hmd.SDK
	timewarp     bool
	sizeOverride hmd.Size
	stageBuilder render.StageBuilder
}

// defaultSessionOptions returns the default session options.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		sdk: nil, // Will be set to the emulated runtime if nil
	}
}

// WithSDK sets the headset runtime backing the Session.
// Use this for dependency injection of a hardware runtime or a
// customized emulated one.
//
// Example:
//
//	rt := emu.NewRuntime(emu.WithAttachedDevices(2))
//	s := rift.NewSession(rift.WithSDK(rt))
func WithSDK(sdk hmd.SDK) SessionOption {
	return func(o *sessionOptions) {
		o.sdk = sdk
	}
}

// WithTimewarp enables live orientation timewarp in the correction
// shader. ResolveEye always computes the timewarp matrices; this flag
// controls whether installed stages apply them or reproject with
// identity. Disabled by default.
func WithTimewarp(enabled bool) SessionOption {
	return func(o *sessionOptions) {
		o.timewarp = enabled
	}
}

// WithTextureSizeOverride forces every resolved eye render target to the
// given size instead of the size derived from the FOV. Intended for
// debugging shader and viewport issues with a fixed target; leave unset
// for production use.
func WithTextureSizeOverride(w, h int) SessionOption {
	return func(o *sessionOptions) {
		o.sizeOverride = hmd.Size{W: w, H: h}
	}
}

// WithStageBuilder sets the factory that compiles correction stages for
// PerformPostWindowOpenSetup. Without one, setup reports that distortion
// stages were not installed and the session remains usable for tracking
// and parameter queries.
//
// Example:
//
//	s := rift.NewSession(rift.WithStageBuilder(wgpu.NewBackend()))
func WithStageBuilder(b render.StageBuilder) SessionOption {
	return func(o *sessionOptions) {
		o.stageBuilder = b
	}
}

// FovOption adjusts how an eye's rendering parameters are resolved.
type FovOption func(*fovOptions)

// fovOptions holds per-resolve overrides for ResolveEye.
type fovOptions struct {
	fov          *hmd.FovPort
	pixelDensity float64
}

// WithFovDegrees overrides the device's recommended field of view with
// explicit half-angles in degrees. Values must lie in (0, 90).
func WithFovDegrees(left, right, up, down float64) FovOption {
	return func(o *fovOptions) {
		fov := hmd.FovPort{
			LeftTan:  tanDeg(left),
			RightTan: tanDeg(right),
			UpTan:    tanDeg(up),
			DownTan:  tanDeg(down),
		}
		o.fov = &fov
	}
}

// WithPixelDensity scales the render target resolution relative to the
// display's native pixel density at the lens center. 1.0 renders at
// native density; values below 1 trade sharpness for fill rate.
func WithPixelDensity(d float64) FovOption {
	return func(o *fovOptions) {
		o.pixelDensity = d
	}
}
