package tracer

import (
	"time"

	"github.com/achilleasa/go-pathtrace/kernel"
	"github.com/achilleasa/go-pathtrace/types"
)

type UpdateType uint8

const (
	// Replace the scene; data is a *scene.Scene.
	UpdateScene UpdateType = iota

	// Replace the camera; data is a *scene.Camera.
	UpdateCamera
)

// A unit of work that is processed by a tracer: one row block of a single
// full-screen draw.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// Frame dimensions.
	FrameW uint32
	FrameH uint32

	// Number of samples already accumulated; drives the blend weight and
	// decorrelates the per-pixel random state.
	Samples uint32

	// Per-draw random seed and sub-pixel jitter offset.
	Seed   types.Vec3
	Jitter types.Vec2

	// The accumulation buffer written by the previous draw and the buffer
	// that receives this draw's output. They never alias.
	Prev kernel.Texture
	Next kernel.Target

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering the last block.
	RenderTime time.Duration

	// The time spent applying pending updates before the last block.
	UpdateTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's computation speed relative to a single cpu core.
	Speed() uint32

	// Start the tracer.
	Init() error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Queue an update; pending updates are applied before the next block.
	Update(UpdateType, interface{})

	// Retrieve last frame statistics.
	Stats() *Stats
}
