package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are fixed-axis roll, pitch, yaw angles in radians, applied about X, then Y, then Z.
// This is the convention of the "rpy" attribute of URDF origins.
type EulerAngles struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Quaternion returns the rotation as a unit quaternion qz*qy*qx.
func (ea *EulerAngles) Quaternion() quat.Number {
	qx := (&R4AA{Theta: ea.Roll, RX: 1}).ToQuat()
	qy := (&R4AA{Theta: ea.Pitch, RY: 1}).ToQuat()
	qz := (&R4AA{Theta: ea.Yaw, RZ: 1}).ToQuat()
	return quat.Mul(qz, quat.Mul(qy, qx))
}

// RotationMatrix returns Rz(yaw)*Ry(pitch)*Rx(roll).
func (ea *EulerAngles) RotationMatrix() mgl64.Mat3 {
	return QuatToMat3(ea.Quaternion())
}

// QuatToMat3 converts a unit quaternion to the equivalent rotation matrix.
func QuatToMat3(q quat.Number) mgl64.Mat3 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mgl64.Mat3FromRows(
		mgl64.Vec3{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		mgl64.Vec3{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		mgl64.Vec3{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	)
}

// Skew returns the cross product matrix of v, so that Skew(v)*u == v x u.
func Skew(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3{0, -v[2], v[1]},
		mgl64.Vec3{v[2], 0, -v[0]},
		mgl64.Vec3{-v[1], v[0], 0},
	)
}
