package kernel

import (
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/types"
)

// Max number of path segments traced per sample.
const MaxBounces = 4

// Estimate the radiance arriving along ray. The path is extended by at most
// MaxBounces segments and ends early when a segment misses the scene. Light
// is only gathered when a bounce hits an emissive surface.
//
// The diffuse direction is the normalized surface normal plus a random point
// in the unit ball; the sum is not renormalized.
func Trace(sc *scene.Scene, ray Ray, smp *Sampler) types.Vec3 {
	incoming := types.Vec3{}
	throughput := types.Vec3{1, 1, 1}

	for bounce := 0; bounce < MaxBounces; bounce++ {
		hit, ok := FindNearest(sc, ray)
		if !ok {
			break
		}
		mat := &sc.Materials[hit.MaterialIndex]

		specular := ray.Dir.Reflect(hit.Normal)
		diffuse := hit.Normal.Normalize().Add(smp.UnitBallDirection())

		ray.Origin = hit.Point
		ray.Dir = diffuse.Mix(specular, mat.Specular)

		incoming = incoming.Add(throughput.MulVec(mat.Emission))
		throughput = throughput.MulVec(mat.Albedo)
	}

	return incoming
}
