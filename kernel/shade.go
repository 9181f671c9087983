package kernel

import (
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/types"
)

// A read-only view of an accumulation buffer. Out of range coordinates are
// clamped to the closest edge texel.
type Texture interface {
	At(x, y int) types.Vec4
}

// A writable accumulation buffer.
type Target interface {
	Set(x, y int, c types.Vec4)
}

// Blend a new sample into a running mean of samples previous values.
func Blend(prev, sample types.Vec3, samples uint32) types.Vec3 {
	w := 1 / (float32(samples) + 1)
	return sample.Mul(w).Add(prev.Mul(1 - w))
}

// Trace one sample for pixel (x, y) and blend it with the pixel's value in
// prev. The returned color always has alpha set to 1.
func ShadePixel(sc *scene.Scene, d *DrawParams, prev Texture, x, y int) types.Vec4 {
	fragX, fragY := float32(x)+0.5, float32(y)+0.5

	smp := NewSampler(
		types.Vec3{fragX, fragY, fragDepth},
		d.Seed,
		PixelSeed(fragX, fragY, d.FrameW, d.Samples),
	)
	smp.Float()

	sample := Trace(sc, d.PrimaryRay(fragX, fragY), smp)
	return Blend(prev.At(x, y).Vec3(), sample, d.Samples).Vec4(1)
}
