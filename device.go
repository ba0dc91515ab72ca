package rift

import (
	"github.com/gogpu/rift/hmd"
)

// Device is a Session's record of one open headset: the runtime device,
// its static description, the tracking flag, and the rendering state
// resolved per eye. It is owned by the Session and accessed only under
// the Session's lock.
type Device struct {
	handle   int
	dev      hmd.Device
	info     hmd.DeviceInfo
	tracking bool
	eyes     [hmd.EyeCount]*EyeRender
}

// releaseEye destroys the distortion mesh held by one eye's render state
// and clears the slot. A nil slot is a no-op.
func (d *Device) releaseEye(eye hmd.Eye) {
	er := d.eyes[eye]
	if er == nil {
		return
	}
	if er.Mesh != nil {
		d.dev.DestroyDistortionMesh(er.Mesh)
		er.Mesh = nil
	}
	d.eyes[eye] = nil
}
