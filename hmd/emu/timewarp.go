package emu

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/rift/hmd"
)

// TimewarpMatrix returns the rotation that re-projects a frame rendered
// with head orientation from onto the display at orientation to. The
// result is the delta rotation to * from^-1 as a row-major 4x4 matrix.
func TimewarpMatrix(from, to hmd.Quat) hmd.Matrix4 {
	qf := mgl64.Quat{W: from.W, V: mgl64.Vec3{from.X, from.Y, from.Z}}
	qt := mgl64.Quat{W: to.W, V: mgl64.Vec3{to.X, to.Y, to.Z}}

	delta := qt.Mul(qf.Inverse()).Normalize()
	m := delta.Mat4()

	var out hmd.Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}
