package reader

import "errors"

var (
	ErrUnsupportedFormat = errors.New("reader: unsupported scene file format")
	ErrNoSceneData       = errors.New("reader: zip file does not contain scene data")
)
