package scene

import "errors"

var (
	ErrTooManyTriangles     = errors.New("scene: triangle count exceeds capacity")
	ErrTooManySpheres       = errors.New("scene: sphere count exceeds capacity")
	ErrTooManyMaterials     = errors.New("scene: material count exceeds capacity")
	ErrInvalidMaterialIndex = errors.New("scene: invalid material index")
	ErrInvalidMaterial      = errors.New("scene: invalid material parameters")
	ErrInvalidRadius        = errors.New("scene: sphere radius must be positive")
	ErrDuplicateMaterial    = errors.New("scene: material already defined")
	ErrCameraNotDefined     = errors.New("scene: no camera defined")
)
