package scene

import (
	"bytes"
	"fmt"
	"math"

	"github.com/achilleasa/go-pathtrace/types"
	"github.com/olekukonko/tablewriter"
)

// Fixed primitive capacities. The kernel scans these lists linearly for
// every ray so they are kept small.
const (
	MaxTriangles = 14
	MaxSpheres   = 2
	MaxMaterials = 6
)

type Scene struct {
	Camera *Camera

	Materials []Material
	Triangles []Triangle
	Spheres   []Sphere
}

func NewScene() *Scene {
	return &Scene{
		Materials: make([]Material, 0),
		Triangles: make([]Triangle, 0),
		Spheres:   make([]Sphere, 0),
	}
}

// Attach a camera to the scene.
func (sc *Scene) SetCamera(camera *Camera) {
	sc.Camera = camera
}

// Add a material to the scene and return its index.
func (sc *Scene) AddMaterial(mat Material) (int, error) {
	if mat.Name != "" {
		if _, exists := sc.MaterialIndex(mat.Name); exists {
			return -1, fmt.Errorf("%w: %q", ErrDuplicateMaterial, mat.Name)
		}
	}
	if len(sc.Materials) >= MaxMaterials {
		return -1, ErrTooManyMaterials
	}
	if err := mat.Validate(); err != nil {
		return -1, err
	}
	sc.Materials = append(sc.Materials, mat)
	return len(sc.Materials) - 1, nil
}

// Lookup a material index by name.
func (sc *Scene) MaterialIndex(name string) (int, bool) {
	for index, mat := range sc.Materials {
		if mat.Name == name {
			return index, true
		}
	}
	return -1, false
}

// Add a triangle to the scene. The triangle material must be added first.
func (sc *Scene) AddTriangle(tri Triangle) error {
	if len(sc.Triangles) >= MaxTriangles {
		return ErrTooManyTriangles
	}
	if tri.MaterialIndex < 0 || tri.MaterialIndex >= len(sc.Materials) {
		return fmt.Errorf("%w: triangle references material %d", ErrInvalidMaterialIndex, tri.MaterialIndex)
	}
	sc.Triangles = append(sc.Triangles, tri)
	return nil
}

// Add a sphere to the scene. The sphere material must be added first.
func (sc *Scene) AddSphere(sphere Sphere) error {
	if len(sc.Spheres) >= MaxSpheres {
		return ErrTooManySpheres
	}
	if !(sphere.Radius > 0) {
		return fmt.Errorf("%w: got %f", ErrInvalidRadius, sphere.Radius)
	}
	if sphere.MaterialIndex < 0 || sphere.MaterialIndex >= len(sc.Materials) {
		return fmt.Errorf("%w: sphere references material %d", ErrInvalidMaterialIndex, sphere.MaterialIndex)
	}
	sc.Spheres = append(sc.Spheres, sphere)
	return nil
}

// Check that the scene can be handed to the kernel: capacities are respected,
// materials are in range, every material index is valid, all radii are
// positive and a camera exists.
func (sc *Scene) Validate() error {
	switch {
	case len(sc.Triangles) > MaxTriangles:
		return fmt.Errorf("%w: %d > %d", ErrTooManyTriangles, len(sc.Triangles), MaxTriangles)
	case len(sc.Spheres) > MaxSpheres:
		return fmt.Errorf("%w: %d > %d", ErrTooManySpheres, len(sc.Spheres), MaxSpheres)
	case len(sc.Materials) > MaxMaterials:
		return fmt.Errorf("%w: %d > %d", ErrTooManyMaterials, len(sc.Materials), MaxMaterials)
	case sc.Camera == nil:
		return ErrCameraNotDefined
	}

	for index := range sc.Materials {
		if err := sc.Materials[index].Validate(); err != nil {
			return err
		}
	}
	for index, tri := range sc.Triangles {
		if tri.MaterialIndex < 0 || tri.MaterialIndex >= len(sc.Materials) {
			return fmt.Errorf("%w: triangle %d references material %d", ErrInvalidMaterialIndex, index, tri.MaterialIndex)
		}
	}
	for index, sphere := range sc.Spheres {
		if !(sphere.Radius > 0) {
			return fmt.Errorf("%w: sphere %d has radius %f", ErrInvalidRadius, index, sphere.Radius)
		}
		if sphere.MaterialIndex < 0 || sphere.MaterialIndex >= len(sc.Materials) {
			return fmt.Errorf("%w: sphere %d references material %d", ErrInvalidMaterialIndex, index, sphere.MaterialIndex)
		}
	}

	return nil
}

// Build a tabular representation of the scene contents.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Details"})
	table.Append([]string{"Geometry", "Triangles", fmt.Sprintf("%d / %d", len(sc.Triangles), MaxTriangles)})
	table.Append([]string{"", "Spheres", fmt.Sprintf("%d / %d", len(sc.Spheres), MaxSpheres)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "---", fmt.Sprintf("%d / %d", len(sc.Materials), MaxMaterials)})
	for _, mat := range sc.Materials {
		table.Append([]string{
			"",
			mat.Name,
			fmt.Sprintf("albedo %s emission %s specular %.2f", fmtVec(mat.Albedo), fmtVec(mat.Emission), mat.Specular),
		})
	}
	if sc.Camera != nil {
		table.Append([]string{" ", " ", " "})
		table.Append([]string{"Camera", "Focal length", fmt.Sprintf("%.2f", sc.Camera.FocalLength)})
		table.Append([]string{"", "Position", fmtVec(sc.Camera.Position)})
		table.Append([]string{"", "Rotation (deg)", fmtVec(sc.Camera.Rotation.Mul(180 / math.Pi))})
	}

	table.Render()
	return buf.String()
}

func fmtVec(v types.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}
