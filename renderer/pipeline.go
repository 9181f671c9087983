package renderer

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/achilleasa/go-pathtrace/kernel"
)

// An alias for functions that can be used as part of the post-processing
// pipeline. Stages operate on a copy of the accumulation buffer; changes
// never feed back into subsequent draws.
type Stage func(buf *AccumBuffer) (time.Duration, error)

// The list of pluggable stages executed after the requested frames have
// been accumulated.
type Pipeline struct {
	PostProcess []Stage
}

// Build the default pipeline for the supplied options.
func DefaultPipeline(opts Options) *Pipeline {
	pipeline := &Pipeline{
		PostProcess: make([]Stage, 0),
	}

	if opts.Denoise {
		pipeline.PostProcess = append(pipeline.PostProcess, Denoise(opts.DenoiseSigmaSpatial, opts.DenoiseSigmaRange))
	}
	pipeline.PostProcess = append(pipeline.PostProcess, Tonemap(opts.Exposure))

	return pipeline
}

// Apply a bilateral filter to every texel.
func Denoise(sigmaSpatial, sigmaRange float32) Stage {
	return func(buf *AccumBuffer) (time.Duration, error) {
		start := time.Now()
		src := buf.Clone()
		for y := 0; y < buf.Height(); y++ {
			for x := 0; x < buf.Width(); x++ {
				alpha := src.At(x, y)[3]
				buf.Set(x, y, kernel.Denoise(src, x, y, sigmaSpatial, sigmaRange).Vec4(alpha))
			}
		}
		return time.Since(start), nil
	}
}

// Scale colors by exposure and clamp them to [0, 1].
func Tonemap(exposure float32) Stage {
	return func(buf *AccumBuffer) (time.Duration, error) {
		start := time.Now()
		for y := 0; y < buf.Height(); y++ {
			for x := 0; x < buf.Width(); x++ {
				c := buf.At(x, y)
				buf.Set(x, y, c.Vec3().Mul(exposure).Clamp(0, 1).Vec4(c[3]))
			}
		}
		return time.Since(start), nil
	}
}

// Encode the buffer as a png image.
func SavePNG(imgFile string) Stage {
	return func(buf *AccumBuffer) (time.Duration, error) {
		start := time.Now()
		f, err := os.Create(imgFile)
		if err != nil {
			return 0, err
		}
		defer f.Close()

		if err = png.Encode(f, buf.ToRGBA()); err != nil {
			return time.Since(start), fmt.Errorf("renderer: could not encode %s: %w", imgFile, err)
		}
		return time.Since(start), nil
	}
}
