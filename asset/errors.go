package asset

import "errors"

var (
	ErrUnsupportedScheme = errors.New("resource: unsupported scheme")
)
