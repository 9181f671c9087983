package types

import "github.com/go-gl/mathgl/mgl32"

// A column-major 3x3 matrix.
type Mat3 mgl32.Mat3

// Build the camera rotation matrix Rz * Ry * Rx from a set of Euler angles
// (in radians). Each axis matrix rotates by the negated angle so that a
// positive yaw turns the view to the left and a positive pitch tilts it down.
func EulerZYX(angles Vec3) Mat3 {
	rx := mgl32.Rotate3DX(-angles[0])
	ry := mgl32.Rotate3DY(-angles[1])
	rz := mgl32.Rotate3DZ(-angles[2])
	return Mat3(rz.Mul3(ry).Mul3(rx))
}

// Multiply matrix with a column vector.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3(mgl32.Mat3(m).Mul3x1(mgl32.Vec3(v)))
}

// Identity matrix.
func Ident3() Mat3 {
	return Mat3(mgl32.Ident3())
}
