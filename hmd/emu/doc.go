// Package emu is a software headset runtime implementing the hmd.SDK and
// hmd.Device contracts without hardware.
//
// The emulated device models a Rift DK2: panel geometry, per-eye default
// fields of view, a radial lens distortion polynomial with per-channel
// chromatic aberration, vignetting, and timewarp matrix prediction. The
// head is static (no sensors are simulated), but every query returns
// well-formed, internally consistent data, which makes the package suitable
// both as the deviceIndex -1 debug device and as the test double for the
// whole driver.
//
// Headset profiles are plain structs and can be loaded from YAML files, so
// alternative lens models can be tried without recompiling.
package emu
