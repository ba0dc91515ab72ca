// Package rift drives virtual-reality headsets: device lifecycle, head
// tracking queries, and the per-eye lens-distortion correction pipeline.
//
// # Overview
//
// rift sits between a host rendering application and a headset runtime.
// The runtime (an hmd.SDK) owns the hardware; rift owns the open-device
// table, resolves per-eye rendering parameters (render target size,
// distortion mesh, UV mapping, timewarp matrices), and installs the
// correction stages into the host window's compositing chains. Without
// hardware, the built-in emulated runtime (hmd/emu) drives the full
// pipeline with a software DK2 optical model.
//
// # Quick Start
//
//	import "github.com/gogpu/rift"
//
//	s := rift.NewSession()
//	defer s.CloseAll()
//
//	// Open the emulated headset and start tracking.
//	h, err := s.Open(-1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.StartTracking(h); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Resolve rendering parameters for both eyes.
//	left, _ := s.ResolveEye(h, hmd.EyeLeft)
//	right, _ := s.ResolveEye(h, hmd.EyeRight)
//
//	state, _ := s.GetTrackingState(h, 0)
//
// # Architecture
//
// The module is organized into:
//   - Public API: Session, Device, EyeRender, Dispatcher
//   - hmd: runtime collaborator interfaces and wire types
//   - hmd/emu: emulated runtime with a full software optical model
//   - render: host compositor integration, render/wgpu: GPU backend
package rift
