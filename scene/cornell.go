package scene

import "github.com/achilleasa/go-pathtrace/types"

// Focal length that yields a ~60 degree horizontal field of view on a 512
// pixel wide frame.
const CornellFocalLength = 443.4

// Build the built-in Cornell box: a unit box open towards the camera with a
// ceiling light, a mirror sphere and a glossy sphere.
func CornellBox() *Scene {
	sc := NewScene()

	// Materials are added in a fixed order so their indices are known.
	for _, mat := range []Material{
		{Name: "white", Albedo: types.XYZ(0.75, 0.75, 0.75)},
		{Name: "red", Albedo: types.XYZ(0.75, 0.15, 0.15)},
		{Name: "green", Albedo: types.XYZ(0.15, 0.75, 0.15)},
		{Name: "light", Albedo: types.XYZ(0.8, 0.8, 0.8), Emission: types.XYZ(8, 8, 8)},
		{Name: "mirror", Albedo: types.XYZ(0.95, 0.95, 0.95), Specular: 1},
		{Name: "glossy", Albedo: types.XYZ(0.3, 0.5, 0.9), Specular: 0.6},
	} {
		if _, err := sc.AddMaterial(mat); err != nil {
			panic(err)
		}
	}
	const (
		white = iota
		red
		green
		light
		mirror
		glossy
	)

	interior := types.XYZ(0, 0, 0)
	quad := func(a, b, c, d types.Vec3, mat int) {
		for _, tri := range []Triangle{NewTriangle(a, b, c, mat), NewTriangle(a, c, d, mat)} {
			tri.FaceTowards(interior)
			if err := sc.AddTriangle(tri); err != nil {
				panic(err)
			}
		}
	}

	// floor, ceiling and back wall
	quad(types.XYZ(-1, -1, -1), types.XYZ(1, -1, -1), types.XYZ(1, -1, 1), types.XYZ(-1, -1, 1), white)
	quad(types.XYZ(-1, 1, -1), types.XYZ(1, 1, -1), types.XYZ(1, 1, 1), types.XYZ(-1, 1, 1), white)
	quad(types.XYZ(-1, -1, 1), types.XYZ(1, -1, 1), types.XYZ(1, 1, 1), types.XYZ(-1, 1, 1), white)

	// side walls
	quad(types.XYZ(-1, -1, -1), types.XYZ(-1, -1, 1), types.XYZ(-1, 1, 1), types.XYZ(-1, 1, -1), red)
	quad(types.XYZ(1, -1, -1), types.XYZ(1, -1, 1), types.XYZ(1, 1, 1), types.XYZ(1, 1, -1), green)

	// area light just below the ceiling
	quad(types.XYZ(-0.3, 0.99, -0.3), types.XYZ(0.3, 0.99, -0.3), types.XYZ(0.3, 0.99, 0.3), types.XYZ(-0.3, 0.99, 0.3), light)

	for _, sphere := range []Sphere{
		{Center: types.XYZ(-0.45, -0.6, 0.3), Radius: 0.4, MaterialIndex: mirror},
		{Center: types.XYZ(0.45, -0.6, -0.3), Radius: 0.4, MaterialIndex: glossy},
	} {
		if err := sc.AddSphere(sphere); err != nil {
			panic(err)
		}
	}

	cam := NewCamera(CornellFocalLength)
	cam.Position = types.XYZ(0, 0, -3.4)
	sc.SetCamera(cam)

	return sc
}
