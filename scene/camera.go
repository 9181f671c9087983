package scene

import "github.com/achilleasa/go-pathtrace/types"

// The camera type controls the scene camera. The camera looks down its local
// +Z axis; Rotation holds Euler angles (radians) applied in Z*Y*X order.
type Camera struct {
	// Distance from the eye to the image plane, in pixels. Together with the
	// frame width it controls the field of view.
	FocalLength float32

	Position types.Vec3
	Rotation types.Vec3
}

func NewCamera(focalLength float32) *Camera {
	return &Camera{
		FocalLength: focalLength,
	}
}

// Move the camera by a camera-space offset.
func (c *Camera) Move(delta types.Vec3) {
	c.Position = c.Position.Add(types.EulerZYX(c.Rotation).MulVec3(delta))
}

// Adjust the camera Euler angles.
func (c *Camera) Rotate(delta types.Vec3) {
	c.Rotation = c.Rotation.Add(delta)
}
