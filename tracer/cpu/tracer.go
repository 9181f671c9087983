package cpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/go-pathtrace/kernel"
	"github.com/achilleasa/go-pathtrace/log"
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/tracer"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateMu     sync.Mutex
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	stats *tracer.Stats

	// Scene and camera used by the worker. Only accessed by the worker
	// goroutine once it has started.
	sceneData *scene.Scene
	camera    scene.Camera
	hasCamera bool
}

// Create a new cpu tracer. Each tracer renders its blocks on a single
// goroutine.
func NewTracer(id string) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		blockReqChan: make(chan tracer.BlockRequest, 1),
		updateBuffer: make(map[tracer.UpdateType]interface{}),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// A cpu tracer is the speed baseline.
func (tr *cpuTracer) Speed() uint32 {
	return 1
}

// Initialize tracer
func (tr *cpuTracer) Init() error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		tr.startWorker()
	}
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
		tr.wg.Wait()
	}

	tr.sceneData = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	tr.Lock()
	running := tr.closeChan != nil
	tr.Unlock()
	if !running {
		blockReq.ErrChan <- ErrTracerNotStarted
		return
	}

	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrBlockDropped
	}
}

// Append a change to the tracer's update buffer. A scene update carries its
// own camera and replaces any camera update queued before it.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.updateMu.Lock()
	defer tr.updateMu.Unlock()
	if updateType == tracer.UpdateScene {
		delete(tr.updateBuffer, tracer.UpdateCamera)
	}
	tr.updateBuffer[updateType] = data
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Commit queued changes. Scene updates are applied before camera updates so
// an explicit camera queued after a scene overrides the one bundled with it.
// Invalid entries are discarded without affecting the valid ones; the first
// validation error is returned after the valid entries have been applied.
func (tr *cpuTracer) commitUpdates() error {
	tr.updateMu.Lock()
	pending := tr.updateBuffer
	tr.updateBuffer = make(map[tracer.UpdateType]interface{})
	tr.updateMu.Unlock()

	var (
		firstErr  error
		sceneData *scene.Scene
		hasScene  bool
		camera    *scene.Camera
	)
	for updateType, data := range pending {
		var err error
		switch updateType {
		case tracer.UpdateScene:
			sceneData, hasScene = data.(*scene.Scene)
			if !hasScene {
				err = fmt.Errorf("%w: expected *scene.Scene; got %T", ErrUnsupportedData, data)
			}
		case tracer.UpdateCamera:
			cam, ok := data.(*scene.Camera)
			if !ok || cam == nil {
				err = fmt.Errorf("%w: expected *scene.Camera; got %T", ErrUnsupportedData, data)
			}
			camera = cam
		default:
			err = fmt.Errorf("cpu tracer: unsupported update type %d", updateType)
		}

		if err != nil {
			tr.logger.Warningf("discarding update: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if hasScene {
		tr.sceneData = sceneData
		if sceneData != nil && sceneData.Camera != nil {
			tr.camera, tr.hasCamera = *sceneData.Camera, true
		}
	}
	if camera != nil {
		tr.camera, tr.hasCamera = *camera, true
	}

	return firstErr
}

func (tr *cpuTracer) hasPendingUpdates() bool {
	tr.updateMu.Lock()
	defer tr.updateMu.Unlock()
	return len(tr.updateBuffer) != 0
}

// Spawn a go-routine to process block render requests. This method is meant
// to be called while holding tr.Lock()
func (tr *cpuTracer) startWorker() {
	tr.closeChan = make(chan struct{})
	closeChan := tr.closeChan

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:

				// Apply any pending changes
				if tr.hasPendingUpdates() {
					startTime = time.Now()
					err = tr.commitUpdates()
					if err != nil {
						blockReq.ErrChan <- err
						continue
					}
					tr.stats.UpdateTime = time.Since(startTime)
				}

				// Render block and reply with our completion status
				startTime = time.Now()
				err = tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				tr.logger.Debugf("rendered rows [%d, %d) in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.stats.RenderTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				// Ack close
				closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.sceneData == nil {
		return ErrNoSceneData
	}
	if !tr.hasCamera {
		return ErrNoCamera
	}

	draw := kernel.NewDrawParams(
		&tr.camera,
		int(blockReq.FrameW),
		int(blockReq.FrameH),
		blockReq.Samples,
		blockReq.Seed,
		blockReq.Jitter,
	)

	lastRow := blockReq.BlockY + blockReq.BlockH
	if lastRow > blockReq.FrameH {
		lastRow = blockReq.FrameH
	}
	for y := int(blockReq.BlockY); y < int(lastRow); y++ {
		for x := 0; x < int(blockReq.FrameW); x++ {
			blockReq.Next.Set(x, y, kernel.ShadePixel(tr.sceneData, draw, blockReq.Prev, x, y))
		}
	}

	return nil
}
