// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements the lens-correction stage builder on gogpu/wgpu.
//
// The Backend compiles one WGSL correction program (via gogpu/naga) and,
// per eye, uploads the distortion mesh into static vertex and index
// buffers recorded once at setup time. The resulting draw objects expose
// Encode for wgpu-based compositors to replay every frame without
// touching the mesh data again.
//
// The backend never creates a window or surface. It renders onto the
// device the host shares through render.DeviceHandle; NewStandalone
// exists for headless use and tests.
package wgpu
