package scene

import "github.com/achilleasa/go-pathtrace/types"

// A single-sided triangle. Rays are only intersected when they approach the
// triangle from the side its face normal points to.
type Triangle struct {
	Vertices [3]types.Vec3

	// Per-vertex normals. Stored for completeness; intersection tests use the
	// face normal.
	Normals [3]types.Vec3

	MaterialIndex int
}

// Create a triangle whose vertex normals are set to the unit face normal.
func NewTriangle(v0, v1, v2 types.Vec3, materialIndex int) Triangle {
	tri := Triangle{
		Vertices:      [3]types.Vec3{v0, v1, v2},
		MaterialIndex: materialIndex,
	}
	n := tri.FaceNormal().Normalize()
	tri.Normals = [3]types.Vec3{n, n, n}
	return tri
}

// Get the un-normalized face normal (B-A)x(C-A).
func (t *Triangle) FaceNormal() types.Vec3 {
	return t.Vertices[1].Sub(t.Vertices[0]).Cross(t.Vertices[2].Sub(t.Vertices[0]))
}

// Get the triangle centroid.
func (t *Triangle) Centroid() types.Vec3 {
	return t.Vertices[0].Add(t.Vertices[1]).Add(t.Vertices[2]).Mul(1.0 / 3.0)
}

// Swap the winding of the triangle if needed so that its face normal points
// towards p.
func (t *Triangle) FaceTowards(p types.Vec3) {
	if t.FaceNormal().Dot(p.Sub(t.Vertices[0])) >= 0 {
		return
	}
	t.Vertices[1], t.Vertices[2] = t.Vertices[2], t.Vertices[1]
	t.Normals[1], t.Normals[2] = t.Normals[2], t.Normals[1]
	for i := range t.Normals {
		t.Normals[i] = t.Normals[i].Mul(-1)
	}
}

type Sphere struct {
	Center        types.Vec3
	Radius        float32
	MaterialIndex int
}
