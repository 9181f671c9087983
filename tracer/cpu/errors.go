package cpu

import "errors"

var (
	ErrNoSceneData      = errors.New("cpu tracer: no scene data")
	ErrNoCamera         = errors.New("cpu tracer: no camera defined")
	ErrBlockDropped     = errors.New("cpu tracer: worker did not receive block request")
	ErrUnsupportedData  = errors.New("cpu tracer: unsupported update payload")
	ErrTracerNotStarted = errors.New("cpu tracer: tracer not initialized")
)
