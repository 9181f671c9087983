package renderer

import (
	"context"
	"image"

	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/types"
)

type Renderer interface {
	// Accumulate the requested number of frames, run the post-processing
	// pipeline over a copy of the result and return the final image.
	Render(ctx context.Context, frames uint32) (*image.RGBA, error)

	// Replace the scene. Resets accumulation.
	UpdateScene(sc *scene.Scene) error

	// Replace the camera. Resets accumulation.
	UpdateCamera(camera *scene.Camera) error

	// Change the frame dimensions. Resets accumulation.
	Resize(frameW, frameH uint32) error

	// Get the number of samples accumulated since the last reset.
	Samples() uint32

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// Get the sub-pixel offset for draw instance i of an n x n jitter grid. The
// offsets are cell centers inside [-0.5, 0.5).
func JitterOffset(instance, n uint32) types.Vec2 {
	if n <= 1 {
		return types.Vec2{}
	}
	cell := 1 / float32(n)
	return types.Vec2{
		(float32(instance%n)+0.5)*cell - 0.5,
		(float32(instance/n)+0.5)*cell - 0.5,
	}
}
