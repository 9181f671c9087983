package writer

import "github.com/achilleasa/go-pathtrace/scene"

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write scene definition
	Write(*scene.Scene) error
}

// Write scene to a compiled zip file.
func WriteScene(sc *scene.Scene, filename string) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	return newZipSceneWriter(filename).Write(sc)
}
