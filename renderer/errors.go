package renderer

import "errors"

var (
	ErrNoTracers              = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined        = errors.New("renderer: no scene defined")
	ErrCameraNotDefined       = errors.New("renderer: no camera defined")
	ErrInterrupted            = errors.New("renderer: interrupted while rendering")
	ErrInvalidFrameDims       = errors.New("renderer: frame dimensions must be positive")
	ErrInvalidJitterGrid      = errors.New("renderer: jitter grid size must be at least 1")
	ErrInvalidExposure        = errors.New("renderer: exposure must be positive")
	ErrInvalidDenoiseSigma    = errors.New("renderer: denoise sigmas must be positive")
	ErrInteractiveUnsupported = errors.New("renderer: interactive mode requires a build with the 'interactive' tag")
)
