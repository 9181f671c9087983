package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/go-pathtrace/asset"
	"github.com/achilleasa/go-pathtrace/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or a http(s) URL. The reader is selected
// based on the file extension.
func ReadScene(filename string) (*scene.Scene, error) {
	var reader Reader
	switch {
	case strings.HasSuffix(filename, ".obj"):
		reader = newWavefrontReader()
	case strings.HasSuffix(filename, ".zip"):
		reader = newZipSceneReader()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	sc, err := reader.Read(res)
	if err != nil {
		return nil, err
	}

	if err = sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}
