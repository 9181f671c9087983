package kernel

import (
	"math"

	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/types"
)

const (
	// Hits at or beyond this distance are ignored by FindNearest.
	MaxDistance float32 = 100000

	// Triangle determinants below this value are treated as a miss. This
	// culls back faces and rays grazing the triangle plane.
	DeterminantEpsilon float32 = 1e-6
)

type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// Get the point at distance t along the ray.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// The result of a ray/primitive intersection test.
type HitInfo struct {
	Point types.Vec3

	// Surface normal at the hit point. Not normalized.
	Normal types.Vec3

	// Distance along the ray, in units of the ray direction length.
	Dist float32

	// Barycentric (u, v, w) coordinates of the hit point. Only set for triangles.
	Barycentric types.Vec3

	MaterialIndex int
}

// Intersect a ray with a sphere. Only the near root of the quadratic is
// considered; if it lies behind the ray origin the test reports a miss even
// when the far root is in front of it.
func IntersectSphere(sphere *scene.Sphere, ray Ray) (HitInfo, bool) {
	offset := ray.Origin.Sub(sphere.Center)
	a := ray.Dir.Dot(ray.Dir)
	if a == 0 {
		return HitInfo{}, false
	}
	b := 2 * offset.Dot(ray.Dir)
	c := offset.Dot(offset) - sphere.Radius*sphere.Radius

	d := b*b - 4*a*c
	if d < 0 {
		return HitInfo{}, false
	}

	dist := -b - float32(math.Sqrt(float64(d)))
	if dist < 0 {
		return HitInfo{}, false
	}
	dist /= a + a

	point := ray.At(dist)
	return HitInfo{
		Point:         point,
		Normal:        point.Sub(sphere.Center),
		Dist:          dist,
		MaterialIndex: sphere.MaterialIndex,
	}, true
}

// Intersect a ray with a single-sided triangle.
func IntersectTriangle(tri *scene.Triangle, ray Ray) (HitInfo, bool) {
	edgeAB := tri.Vertices[1].Sub(tri.Vertices[0])
	edgeAC := tri.Vertices[2].Sub(tri.Vertices[0])
	normal := edgeAB.Cross(edgeAC)

	det := -ray.Dir.Dot(normal)
	if det < DeterminantEpsilon {
		return HitInfo{}, false
	}
	invDet := 1 / det

	ao := ray.Origin.Sub(tri.Vertices[0])
	dist := ao.Dot(normal) * invDet
	if !(dist > 0) {
		return HitInfo{}, false
	}

	dao := ao.Cross(ray.Dir)
	u := edgeAC.Dot(dao) * invDet
	v := -edgeAB.Dot(dao) * invDet
	w := 1 - u - v
	if u < 0 || v < 0 || w < 0 {
		return HitInfo{}, false
	}

	return HitInfo{
		Point:         ray.At(dist),
		Normal:        normal,
		Dist:          dist,
		Barycentric:   types.Vec3{u, v, w},
		MaterialIndex: tri.MaterialIndex,
	}, true
}

// Scan all triangles and then all spheres and return the closest hit. On
// equal distances the primitive scanned first wins.
func FindNearest(sc *scene.Scene, ray Ray) (HitInfo, bool) {
	var (
		nearest HitInfo
		found   bool
		minDist = MaxDistance
	)

	for i := range sc.Triangles {
		if hit, ok := IntersectTriangle(&sc.Triangles[i], ray); ok && hit.Dist < minDist {
			nearest, found, minDist = hit, true, hit.Dist
		}
	}
	for i := range sc.Spheres {
		if hit, ok := IntersectSphere(&sc.Spheres[i], ray); ok && hit.Dist < minDist {
			nearest, found, minDist = hit, true, hit.Dist
		}
	}

	return nearest, found
}
