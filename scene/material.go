package scene

import (
	"fmt"

	"github.com/achilleasa/go-pathtrace/types"
)

// Defines a scene material.
type Material struct {
	// Material name as declared in the mtl file.
	Name string

	// Surface reflectance in [0, 1].
	Albedo types.Vec3

	// Emitted radiance. Zero for non-light surfaces.
	Emission types.Vec3

	// Blend factor between a diffuse bounce (0) and a mirror bounce (1).
	Specular float32
}

// Returns true if the material emits light.
func (m *Material) IsEmissive() bool {
	return m.Emission.MaxComponent() > 0
}

// Check that albedo and specular lie in [0, 1] and emission is not negative.
func (m *Material) Validate() error {
	for i := 0; i < 3; i++ {
		if !(m.Albedo[i] >= 0 && m.Albedo[i] <= 1) {
			return fmt.Errorf("%w: material %q albedo %v outside [0, 1]", ErrInvalidMaterial, m.Name, m.Albedo)
		}
		if !(m.Emission[i] >= 0) {
			return fmt.Errorf("%w: material %q has negative emission %v", ErrInvalidMaterial, m.Name, m.Emission)
		}
	}
	if !(m.Specular >= 0 && m.Specular <= 1) {
		return fmt.Errorf("%w: material %q specular %v outside [0, 1]", ErrInvalidMaterial, m.Name, m.Specular)
	}
	return nil
}
