package renderer

import "math"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of frames to accumulate. Each frame issues JitterGrid^2
	// sequential draws. In interactive mode 0 keeps accumulating forever.
	Frames uint32

	// Sub-pixel jitter grid size. A value of n spreads the draws of a
	// frame over an n x n grid of offsets inside each pixel.
	JitterGrid uint32

	// Number of tracers. If set to 0, one tracer per cpu core is used.
	NumTracers uint32

	// Exposure for tonemapping.
	Exposure float32

	// Bilateral denoise post-process settings.
	Denoise             bool
	DenoiseSigmaSpatial float32
	DenoiseSigmaRange   float32

	// Seed for the per-draw random seed generator.
	Seed int64
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:              512,
		FrameH:              512,
		Frames:              16,
		JitterGrid:          1,
		Exposure:            1.0,
		DenoiseSigmaSpatial: 2.0,
		DenoiseSigmaRange:   0.1,
		Seed:                1,
	}
}

// Check options for invalid values.
func (opts *Options) Validate() error {
	switch {
	case opts.FrameW == 0 || opts.FrameH == 0:
		return ErrInvalidFrameDims
	case opts.JitterGrid == 0:
		return ErrInvalidJitterGrid
	case !(opts.Exposure > 0) || math.IsInf(float64(opts.Exposure), 0):
		return ErrInvalidExposure
	case opts.Denoise && (!(opts.DenoiseSigmaSpatial > 0) || !(opts.DenoiseSigmaRange > 0)):
		return ErrInvalidDenoiseSigma
	}
	return nil
}

// Number of draws issued per frame.
func (opts *Options) DrawsPerFrame() uint32 {
	return opts.JitterGrid * opts.JitterGrid
}
