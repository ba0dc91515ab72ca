// Package hmd defines the types and collaborator interfaces through which
// the rift driver talks to a head-mounted-display runtime.
//
// The package carries no vendor code. SDK and Device are the contract a
// runtime binding has to satisfy; rift/hmd/emu provides a complete software
// implementation that emulates a Rift DK2-class headset, including its
// optical model, so the full driver pipeline can run and be tested without
// hardware.
//
// Conventions follow the Oculus SDK 0.5 wire formats the driver was built
// against: field-of-view ports are tangents of half-angles, distortion
// meshes carry three tan-angle UV pairs per vertex for per-channel
// chromatic aberration correction, and timewarp matrices come in
// start/end-of-scanout pairs.
package hmd
