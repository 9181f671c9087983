package cpu

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/achilleasa/go-pathtrace/log"
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/tracer"
	"github.com/achilleasa/go-pathtrace/types"
)

type testBuffer struct {
	w, h   int
	texels []types.Vec4
}

func newTestBuffer(w, h int) *testBuffer {
	return &testBuffer{w: w, h: h, texels: make([]types.Vec4, w*h)}
}

func (b *testBuffer) At(x, y int) types.Vec4 {
	if x < 0 {
		x = 0
	} else if x >= b.w {
		x = b.w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= b.h {
		y = b.h - 1
	}
	return b.texels[y*b.w+x]
}

func (b *testBuffer) Set(x, y int, c types.Vec4) {
	b.texels[y*b.w+x] = c
}

func TestTracerBlockWorker(t *testing.T) {
	log.SetSink(io.Discard)
	tr := createTestTracer(t)
	defer tr.Close()

	tr.Update(tracer.UpdateScene, scene.CornellBox())

	prev := newTestBuffer(16, 16)
	next := newTestBuffer(16, 16)
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)

	tr.Enqueue(tracer.BlockRequest{
		BlockY:   4,
		BlockH:   8,
		FrameW:   16,
		FrameH:   16,
		Seed:     types.XYZ(1.1, 1.2, 1.3),
		Prev:     prev,
		Next:     next,
		DoneChan: doneChan,
		ErrChan:  errChan,
	})

	select {
	case rows := <-doneChan:
		if rows != 8 {
			t.Fatalf("expected 8 completed rows; got %d", rows)
		}
	case err := <-errChan:
		t.Fatal(err)
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for block to render")
	}

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			alpha := next.At(x, y)[3]
			inBlock := y >= 4 && y < 12
			if inBlock && alpha != 1 {
				t.Fatalf("[pixel %d,%d] expected rendered pixel alpha to be 1; got %f", x, y, alpha)
			} else if !inBlock && alpha != 0 {
				t.Fatalf("[pixel %d,%d] expected pixel outside the block to be untouched", x, y)
			}
		}
	}

	stats := tr.Stats()
	if stats.BlockH != 8 {
		t.Fatalf("expected stats block height 8; got %d", stats.BlockH)
	}
}

func TestTracerWithoutScene(t *testing.T) {
	log.SetSink(io.Discard)
	tr := createTestTracer(t)
	defer tr.Close()

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{
		BlockH:   1,
		FrameW:   4,
		FrameH:   4,
		Prev:     newTestBuffer(4, 4),
		Next:     newTestBuffer(4, 4),
		DoneChan: doneChan,
		ErrChan:  errChan,
	})

	select {
	case <-doneChan:
		t.Fatal("expected block to fail")
	case err := <-errChan:
		if err != ErrNoSceneData {
			t.Fatalf("expected to get ErrNoSceneData; got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for block error")
	}
}

func TestTracerCameraUpdate(t *testing.T) {
	log.SetSink(io.Discard)
	tr := createTestTracer(t)
	defer tr.Close()

	sc := scene.CornellBox()
	tr.Update(tracer.UpdateScene, sc)

	// Point the camera away from the box; every sample misses.
	cam := *sc.Camera
	cam.Rotation = types.XYZ(0, 3.14159, 0)
	tr.Update(tracer.UpdateCamera, &cam)

	next := newTestBuffer(8, 8)
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{
		BlockH:   8,
		FrameW:   8,
		FrameH:   8,
		Seed:     types.XYZ(1.1, 1.2, 1.3),
		Prev:     newTestBuffer(8, 8),
		Next:     next,
		DoneChan: doneChan,
		ErrChan:  errChan,
	})

	select {
	case <-doneChan:
	case err := <-errChan:
		t.Fatal(err)
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for block to render")
	}

	for index, texel := range next.texels {
		if texel != types.XYZW(0, 0, 0, 1) {
			t.Fatalf("[texel %d] expected black; got %v", index, texel)
		}
	}

	tr.Update(tracer.UpdateCamera, "bogus")
	tr.Enqueue(tracer.BlockRequest{
		BlockH:   1,
		FrameW:   8,
		FrameH:   8,
		Prev:     newTestBuffer(8, 8),
		Next:     next,
		DoneChan: doneChan,
		ErrChan:  errChan,
	})
	select {
	case <-doneChan:
		t.Fatal("expected block to fail")
	case <-errChan:
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for block error")
	}
}

func TestTracerNotStarted(t *testing.T) {
	tr := NewTracer("idle")
	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{ErrChan: errChan})
	if err := <-errChan; err != ErrTracerNotStarted {
		t.Fatalf("expected to get ErrTracerNotStarted; got %v", err)
	}
}

func createTestTracer(t *testing.T) tracer.Tracer {
	tr := NewTracer("test")
	if err := tr.Init(); err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestTracerSceneUpdateOverridesQueuedCamera(t *testing.T) {
	log.SetSink(io.Discard)
	tr := createTestTracer(t)
	defer tr.Close()

	// A camera facing away from the box, queued before the scene update.
	sc := scene.CornellBox()
	cam := *sc.Camera
	cam.Rotation = types.XYZ(0, 3.14159, 0)
	tr.Update(tracer.UpdateCamera, &cam)
	tr.Update(tracer.UpdateScene, sc)

	next := newTestBuffer(8, 8)
	if err := renderTestBlock(tr, next); err != nil {
		t.Fatal(err)
	}
	if countLitTexels(next) == 0 {
		t.Fatal("expected the scene camera to be used; got an all black block")
	}

	// A camera queued after the scene still overrides the scene camera.
	tr.Update(tracer.UpdateScene, sc)
	tr.Update(tracer.UpdateCamera, &cam)
	next = newTestBuffer(8, 8)
	if err := renderTestBlock(tr, next); err != nil {
		t.Fatal(err)
	}
	if lit := countLitTexels(next); lit != 0 {
		t.Fatalf("expected the queued camera to be used; got %d lit texels", lit)
	}
}

func TestTracerKeepsValidUpdatesOnError(t *testing.T) {
	log.SetSink(io.Discard)
	tr := createTestTracer(t)
	defer tr.Close()

	tr.Update(tracer.UpdateScene, scene.CornellBox())
	tr.Update(tracer.UpdateCamera, "bogus")

	next := newTestBuffer(8, 8)
	err := renderTestBlock(tr, next)
	if !errors.Is(err, ErrUnsupportedData) {
		t.Fatalf("expected to get ErrUnsupportedData; got %v", err)
	}

	// The scene queued alongside the bad camera must have been applied.
	if err = renderTestBlock(tr, next); err != nil {
		t.Fatalf("expected the scene update to survive; got %v", err)
	}
	if countLitTexels(next) == 0 {
		t.Fatal("expected a rendered block; got an all black block")
	}
}

func renderTestBlock(tr tracer.Tracer, next *testBuffer) error {
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{
		BlockH:   uint32(next.h),
		FrameW:   uint32(next.w),
		FrameH:   uint32(next.h),
		Seed:     types.XYZ(1.1, 1.2, 1.3),
		Prev:     newTestBuffer(next.w, next.h),
		Next:     next,
		DoneChan: doneChan,
		ErrChan:  errChan,
	})

	select {
	case <-doneChan:
		return nil
	case err := <-errChan:
		return err
	case <-time.After(10 * time.Second):
		return errors.New("timeout waiting for block")
	}
}

func countLitTexels(b *testBuffer) int {
	lit := 0
	for _, texel := range b.texels {
		if texel.Vec3() != (types.Vec3{}) {
			lit++
		}
	}
	return lit
}
