package kernel

import (
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/types"
)

// Depth reported for every fragment; it takes part in the sampler hash.
const fragDepth = 0.5

// The immutable per-draw parameters shared by every pixel of a draw.
type DrawParams struct {
	FrameW, FrameH int

	// Number of samples already blended into the accumulation buffer.
	Samples uint32

	// Per-draw random seed; each component is expected to be non-zero.
	Seed types.Vec3

	// Sub-pixel offset of this draw in pixels.
	Jitter types.Vec2

	focalLength float32
	eye         types.Vec3
	rot         types.Mat3
}

// Capture the camera state for a draw.
func NewDrawParams(cam *scene.Camera, frameW, frameH int, samples uint32, seed types.Vec3, jitter types.Vec2) *DrawParams {
	return &DrawParams{
		FrameW:      frameW,
		FrameH:      frameH,
		Samples:     samples,
		Seed:        seed,
		Jitter:      jitter,
		focalLength: cam.FocalLength,
		eye:         cam.Position,
		rot:         types.EulerZYX(cam.Rotation),
	}
}

// Generate the primary ray through the fragment at (fragX, fragY). Fragment
// coordinates address pixel centers with y pointing up.
func (d *DrawParams) PrimaryRay(fragX, fragY float32) Ray {
	p := types.Vec3{
		fragX - float32(d.FrameW)/2 + d.Jitter[0],
		fragY - float32(d.FrameH)/2 + d.Jitter[1],
		d.focalLength,
	}
	return Ray{
		Origin: d.eye,
		Dir:    d.rot.MulVec3(p).Normalize(),
	}
}
