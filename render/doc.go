// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render installs lens-correction stages into a host window's
// compositing chains.
//
// # Key Principle
//
// render RECEIVES a GPU device from the host application, it does NOT
// create its own. The host implements Window and Compositor around its
// windowing toolkit, a StageBuilder (such as render/wgpu) compiles the
// correction program and per-eye draw objects on the host's device, and
// InstallDistortionStages wires the built stages into the window's
// per-eye chains.
//
// # Core Interfaces
//
//   - DeviceHandle: GPU device access provided by the host application
//   - Window: the stereo output window and its compositor
//   - StageBuilder: compiles EyeStageConfig into installable stages
package render
