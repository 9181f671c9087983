package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/go-pathtrace/log"
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/tracer"
	"github.com/achilleasa/go-pathtrace/tracer/cpu"
	"github.com/achilleasa/go-pathtrace/types"
)

// A progressive renderer that splits every draw into row blocks processed by
// a pool of cpu tracers.
type defaultRenderer struct {
	sync.Mutex

	logger log.Logger

	options   Options
	pipeline  *Pipeline
	scheduler tracer.BlockScheduler

	tracers          []tracer.Tracer
	blockAssignments []uint32

	scene  *scene.Scene
	camera scene.Camera

	// Ping-pong accumulation buffers; buffers[front] holds the latest result.
	buffers [2]*AccumBuffer
	front   int

	// Samples accumulated since the last reset.
	samples uint32

	// Generator for the per-draw seed.
	rng *rand.Rand

	// Per-tracer block render times (ns) for the current Render call.
	renderTimes [][]float64

	stats FrameStats
}

// Create a new default renderer using the specified block scheduler and post-processing pipeline.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, pipeline *Pipeline, opts Options) (Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if pipeline == nil {
		pipeline = DefaultPipeline(opts)
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		options:   opts,
		pipeline:  pipeline,
		scheduler: scheduler,
		scene:     sc,
		camera:    *sc.Camera,
		rng:       rand.New(rand.NewSource(opts.Seed)),
	}

	start := time.Now()
	r.spawnTracers(tracerCount(opts))
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}
	r.logger.Infof("setup %d tracers in %d ms", len(r.tracers), time.Since(start).Nanoseconds()/1000000)

	r.allocBuffers()
	return r, nil
}

// Number of tracers for the given options; defaults to one per CPU and never
// exceeds the frame height.
func tracerCount(opts Options) int {
	numTracers := int(opts.NumTracers)
	if numTracers == 0 {
		numTracers = runtime.NumCPU()
	}
	if numTracers > int(opts.FrameH) {
		numTracers = int(opts.FrameH)
	}
	return numTracers
}

// Grow the tracer pool to want tracers. New tracers receive the current scene
// and camera. This method is meant to be called while holding r.Lock()
func (r *defaultRenderer) spawnTracers(want int) {
	for i := len(r.tracers); i < want; i++ {
		tr := cpu.NewTracer(fmt.Sprintf("cpu-%d", i))
		if err := tr.Init(); err != nil {
			r.logger.Warningf("skipping tracer %s due to init error: %v", tr.Id(), err)
			continue
		}
		cam := r.camera
		tr.Update(tracer.UpdateScene, r.scene)
		tr.Update(tracer.UpdateCamera, &cam)
		r.tracers = append(r.tracers, tr)
	}
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.Lock()
	defer r.Unlock()

	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	r.Lock()
	defer r.Unlock()
	return r.stats
}

// Get the number of samples accumulated since the last reset.
func (r *defaultRenderer) Samples() uint32 {
	r.Lock()
	defer r.Unlock()
	return r.samples
}

// Replace the scene.
func (r *defaultRenderer) UpdateScene(sc *scene.Scene) error {
	if sc == nil {
		return ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return ErrCameraNotDefined
	}
	if err := sc.Validate(); err != nil {
		return err
	}

	r.Lock()
	defer r.Unlock()

	r.scene = sc
	r.camera = *sc.Camera
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateScene, sc)
	}
	r.reset()
	return nil
}

// Replace the camera.
func (r *defaultRenderer) UpdateCamera(camera *scene.Camera) error {
	if camera == nil {
		return ErrCameraNotDefined
	}

	r.Lock()
	defer r.Unlock()

	r.camera = *camera
	for _, tr := range r.tracers {
		cam := r.camera
		tr.Update(tracer.UpdateCamera, &cam)
	}
	r.reset()
	return nil
}

// Change the frame dimensions.
func (r *defaultRenderer) Resize(frameW, frameH uint32) error {
	if frameW == 0 || frameH == 0 {
		return ErrInvalidFrameDims
	}

	r.Lock()
	defer r.Unlock()

	r.options.FrameW, r.options.FrameH = frameW, frameH

	// Every tracer needs at least one row.
	want := tracerCount(r.options)
	if len(r.tracers) > want {
		for _, tr := range r.tracers[want:] {
			tr.Close()
		}
		r.tracers = r.tracers[:want]
	} else if len(r.tracers) < want {
		r.spawnTracers(want)
	}
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	r.allocBuffers()
	return nil
}

// Accumulate frames and return the post-processed image.
func (r *defaultRenderer) Render(ctx context.Context, frames uint32) (*image.RGBA, error) {
	r.Lock()
	defer r.Unlock()

	if err := r.accumulate(ctx, frames); err != nil {
		return nil, err
	}
	return r.postProcess()
}

// Issue frames*JitterGrid^2 sequential draws. Cancellation is only checked
// between draws. This method is meant to be called while holding r.Lock()
func (r *defaultRenderer) accumulate(ctx context.Context, frames uint32) error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	start := time.Now()
	r.renderTimes = make([][]float64, len(r.tracers))
	r.stats = FrameStats{}

	drawsPerFrame := r.options.DrawsPerFrame()
	for frame := uint32(0); frame < frames; frame++ {
		for instance := uint32(0); instance < drawsPerFrame; instance++ {
			select {
			case <-ctx.Done():
				return ErrInterrupted
			default:
			}

			if err := r.draw(JitterOffset(instance, r.options.JitterGrid)); err != nil {
				return err
			}
			r.stats.Draws++
		}
		r.stats.Frames++
		r.logger.Debugf("frame %d/%d complete; %d samples accumulated", frame+1, frames, r.samples)
	}
	r.stats.RenderTime = time.Since(start)
	r.collectStats()
	return nil
}

// Issue a single full-screen draw: every tracer renders its row block reading
// the front buffer and writing the back buffer. Buffers are swapped and the
// sample counter advances once all blocks complete.
func (r *defaultRenderer) draw(jitter types.Vec2) error {
	assignments := r.scheduler.Schedule(r.tracers, r.options.FrameH)
	r.blockAssignments = append(r.blockAssignments[:0], assignments...)

	prev := r.buffers[r.front]
	next := r.buffers[1-r.front]
	seed := r.nextSeed()

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32
	for idx, tr := range r.tracers {
		tr.Enqueue(tracer.BlockRequest{
			BlockY:   blockY,
			BlockH:   r.blockAssignments[idx],
			FrameW:   r.options.FrameW,
			FrameH:   r.options.FrameH,
			Samples:  r.samples,
			Seed:     seed,
			Jitter:   jitter,
			Prev:     prev,
			Next:     next,
			DoneChan: doneChan,
			ErrChan:  errChan,
		})
		blockY += r.blockAssignments[idx]
	}

	// Wait for all tracers to finish before reporting any error; tracers
	// may still be writing to the back buffer.
	var err error
	for pending := len(r.tracers); pending > 0; pending-- {
		select {
		case <-doneChan:
		case blockErr := <-errChan:
			if err == nil {
				err = blockErr
			}
		}
	}
	if err != nil {
		return err
	}

	for idx, tr := range r.tracers {
		r.renderTimes[idx] = append(r.renderTimes[idx], float64(tr.Stats().RenderTime.Nanoseconds()))
	}

	r.front = 1 - r.front
	r.samples++
	return nil
}

// Generate the next per-draw seed. Components lie in [1, 2) so the seed
// product used by the sampler never collapses to zero.
func (r *defaultRenderer) nextSeed() types.Vec3 {
	return types.Vec3{
		1 + r.rng.Float32(),
		1 + r.rng.Float32(),
		1 + r.rng.Float32(),
	}
}

// Clear accumulation state. This method is meant to be called while holding r.Lock()
func (r *defaultRenderer) reset() {
	r.samples = 0
	r.front = 0
	for _, buf := range r.buffers {
		if buf != nil {
			buf.Clear()
		}
	}
}

// Allocate accumulation buffers for the current frame size and reset.
func (r *defaultRenderer) allocBuffers() {
	w, h := int(r.options.FrameW), int(r.options.FrameH)
	r.buffers[0] = NewAccumBuffer(w, h)
	r.buffers[1] = NewAccumBuffer(w, h)
	r.reset()
}

// Run the post-processing pipeline on a copy of the front buffer.
func (r *defaultRenderer) postProcess() (*image.RGBA, error) {
	start := time.Now()
	out := r.buffers[r.front].Clone()
	for _, stage := range r.pipeline.PostProcess {
		if _, err := stage(out); err != nil {
			return nil, err
		}
	}
	r.stats.PostProcessTime = time.Since(start)
	return out.ToRGBA(), nil
}

// Populate tracer statistics for the last Render call.
func (r *defaultRenderer) collectStats() {
	r.stats.Samples = r.samples
	r.stats.Tracers = make([]TracerStat, len(r.tracers))
	for idx, tr := range r.tracers {
		trStats := tr.Stats()
		mean, stdDev := timeStats(r.renderTimes[idx])

		var blockH uint32
		if idx < len(r.blockAssignments) {
			blockH = r.blockAssignments[idx]
		}
		r.stats.Tracers[idx] = TracerStat{
			Id:           tr.Id(),
			BlockH:       blockH,
			FramePercent: 100.0 * float32(blockH) / float32(r.options.FrameH),
			RenderTime:   trStats.RenderTime,
			MeanTime:     mean,
			StdDevTime:   stdDev,
		}
	}
}
