//go:build !interactive

package renderer

import (
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/tracer"
)

// Interactive rendering needs cgo bindings for glfw and opengl which are only
// compiled in with the 'interactive' build tag.
func NewInteractive(sc *scene.Scene, scheduler tracer.BlockScheduler, pipeline *Pipeline, opts Options) (Renderer, error) {
	return nil, ErrInteractiveUnsupported
}
