package renderer

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/achilleasa/go-pathtrace/kernel"
	"github.com/achilleasa/go-pathtrace/scene"
	"github.com/achilleasa/go-pathtrace/tracer"
	"github.com/achilleasa/go-pathtrace/types"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.FrameW = 12
	opts.FrameH = 9
	opts.JitterGrid = 2
	opts.NumTracers = 3
	opts.Seed = 7
	return opts
}

func createTestRenderer(t *testing.T, opts Options) *defaultRenderer {
	r, err := NewDefault(scene.CornellBox(), tracer.PerfectScheduler(), nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	return r.(*defaultRenderer)
}

func TestRendererMatchesSequentialKernel(t *testing.T) {
	opts := testOptions()
	r := createTestRenderer(t, opts)
	defer r.Close()

	if _, err := r.Render(context.Background(), 2); err != nil {
		t.Fatal(err)
	}

	// Replay the same draws on a single goroutine.
	sc := scene.CornellBox()
	w, h := int(opts.FrameW), int(opts.FrameH)
	rng := rand.New(rand.NewSource(opts.Seed))
	prev, next := NewAccumBuffer(w, h), NewAccumBuffer(w, h)
	numSamples := 2 * opts.DrawsPerFrame()
	for sample := uint32(0); sample < numSamples; sample++ {
		seed := types.Vec3{1 + rng.Float32(), 1 + rng.Float32(), 1 + rng.Float32()}
		jitter := JitterOffset(sample%opts.DrawsPerFrame(), opts.JitterGrid)
		d := kernel.NewDrawParams(sc.Camera, w, h, sample, seed, jitter)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				next.Set(x, y, kernel.ShadePixel(sc, d, prev, x, y))
			}
		}
		prev, next = next, prev
	}

	front := r.buffers[r.front]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if exp, got := prev.At(x, y), front.At(x, y); exp != got {
				t.Fatalf("[pixel %d,%d] expected %v; got %v", x, y, exp, got)
			}
		}
	}

	if r.Samples() != numSamples {
		t.Fatalf("expected %d accumulated samples; got %d", numSamples, r.Samples())
	}
}

func TestRendererStats(t *testing.T) {
	r := createTestRenderer(t, testOptions())
	defer r.Close()

	img, err := r.Render(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 9 {
		t.Fatalf("expected a 12x9 image; got %v", img.Bounds())
	}

	stats := r.Stats()
	if stats.Frames != 2 || stats.Draws != 8 || stats.Samples != 8 {
		t.Fatalf("expected 2 frames, 8 draws and 8 samples; got %d, %d, %d", stats.Frames, stats.Draws, stats.Samples)
	}
	if len(stats.Tracers) != 3 {
		t.Fatalf("expected stats for 3 tracers; got %d", len(stats.Tracers))
	}

	var rows uint32
	var percent float32
	for _, trStat := range stats.Tracers {
		rows += trStat.BlockH
		percent += trStat.FramePercent
		if trStat.StdDevTime < 0 {
			t.Fatalf("expected non-negative std dev; got %v", trStat.StdDevTime)
		}
	}
	if rows != 9 {
		t.Fatalf("expected block heights to add up to the frame height; got %d", rows)
	}
	if percent < 99.9 || percent > 100.1 {
		t.Fatalf("expected frame percentages to add up to 100; got %f", percent)
	}
}

func TestRendererResetOnCameraChange(t *testing.T) {
	r := createTestRenderer(t, testOptions())
	defer r.Close()

	if _, err := r.Render(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if r.Samples() == 0 {
		t.Fatal("expected samples to be accumulated")
	}

	cam := *scene.CornellBox().Camera
	cam.Move(types.XYZ(0, 0, 0.5))
	if err := r.UpdateCamera(&cam); err != nil {
		t.Fatal(err)
	}
	if r.Samples() != 0 {
		t.Fatalf("expected camera change to reset the sample counter; got %d", r.Samples())
	}
	for _, buf := range r.buffers {
		if out := buf.At(6, 4); out != (types.Vec4{}) {
			t.Fatalf("expected accumulation buffers to be cleared; got %v", out)
		}
	}

	if err := r.UpdateScene(scene.CornellBox()); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := r.UpdateScene(scene.NewScene()); err != ErrCameraNotDefined {
		t.Fatalf("expected a missing camera error; got %v", err)
	}
}

func TestRendererResetOnSceneChange(t *testing.T) {
	r := createTestRenderer(t, testOptions())
	defer r.Close()

	if _, err := r.Render(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := r.UpdateScene(scene.CornellBox()); err != nil {
		t.Fatal(err)
	}
	if r.Samples() != 0 {
		t.Fatalf("expected scene change to reset the sample counter; got %d", r.Samples())
	}
	for index, buf := range r.buffers {
		for y := 0; y < 9; y++ {
			for x := 0; x < 12; x++ {
				if out := buf.At(x, y); out != (types.Vec4{}) {
					t.Fatalf("[buffer %d] expected pixel %d,%d to be cleared; got %v", index, x, y, out)
				}
			}
		}
	}
}

func TestRendererCameraThenSceneUpdate(t *testing.T) {
	moved := *scene.CornellBox().Camera
	moved.Move(types.XYZ(0, 0, 0.5))
	moved.Rotate(types.XYZ(0, 0.3, 0))

	// Reference: only the scene update.
	want := createTestRenderer(t, testOptions())
	defer want.Close()
	if err := want.UpdateScene(scene.CornellBox()); err != nil {
		t.Fatal(err)
	}

	// A camera change followed by a scene update must render with the
	// camera that ships with the new scene.
	got := createTestRenderer(t, testOptions())
	defer got.Close()
	if err := got.UpdateCamera(&moved); err != nil {
		t.Fatal(err)
	}
	if err := got.UpdateScene(scene.CornellBox()); err != nil {
		t.Fatal(err)
	}

	// Only the camera change; must differ from the reference.
	other := createTestRenderer(t, testOptions())
	defer other.Close()
	if err := other.UpdateCamera(&moved); err != nil {
		t.Fatal(err)
	}

	for _, r := range []*defaultRenderer{want, got, other} {
		if _, err := r.Render(context.Background(), 1); err != nil {
			t.Fatal(err)
		}
	}

	differs := false
	for y := 0; y < 9; y++ {
		for x := 0; x < 12; x++ {
			exp := want.buffers[want.front].At(x, y)
			if out := got.buffers[got.front].At(x, y); out != exp {
				t.Fatalf("[pixel %d,%d] expected %v; got %v", x, y, exp, out)
			}
			if other.buffers[other.front].At(x, y) != exp {
				differs = true
			}
		}
	}
	if !differs {
		t.Fatal("expected the moved camera to produce a different image")
	}
}

func TestRendererResize(t *testing.T) {
	r := createTestRenderer(t, testOptions())
	defer r.Close()

	if err := r.Resize(4, 2); err != nil {
		t.Fatal(err)
	}
	if len(r.tracers) != 2 {
		t.Fatalf("expected tracer count to be capped to the frame height; got %d", len(r.tracers))
	}

	img, err := r.Render(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Fatalf("expected a 4x2 image; got %v", img.Bounds())
	}

	// Growing the frame again restores the requested tracer count.
	if err = r.Resize(12, 9); err != nil {
		t.Fatal(err)
	}
	if len(r.tracers) != 3 {
		t.Fatalf("expected tracer pool to grow back to 3 tracers; got %d", len(r.tracers))
	}
	if img, err = r.Render(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 9 {
		t.Fatalf("expected a 12x9 image; got %v", img.Bounds())
	}

	if err = r.Resize(0, 2); err != ErrInvalidFrameDims {
		t.Fatalf("expected to get ErrInvalidFrameDims; got %v", err)
	}
}

func TestRendererInterrupt(t *testing.T) {
	r := createTestRenderer(t, testOptions())
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, 4); err != ErrInterrupted {
		t.Fatalf("expected to get ErrInterrupted; got %v", err)
	}
	if r.Samples() != 0 {
		t.Fatalf("expected no samples after an interrupted render; got %d", r.Samples())
	}
}

func TestNewDefaultErrors(t *testing.T) {
	opts := testOptions()
	opts.FrameW = 0
	if _, err := NewDefault(scene.CornellBox(), tracer.NaiveScheduler(), nil, opts); err != ErrInvalidFrameDims {
		t.Fatalf("expected to get ErrInvalidFrameDims; got %v", err)
	}

	if _, err := NewDefault(nil, tracer.NaiveScheduler(), nil, testOptions()); err != ErrSceneNotDefined {
		t.Fatalf("expected to get ErrSceneNotDefined; got %v", err)
	}

	sc := scene.CornellBox()
	sc.Camera = nil
	if _, err := NewDefault(sc, tracer.NaiveScheduler(), nil, testOptions()); err != ErrCameraNotDefined {
		t.Fatalf("expected to get ErrCameraNotDefined; got %v", err)
	}

	sc = scene.CornellBox()
	sc.Spheres[0].Radius = 0
	if _, err := NewDefault(sc, tracer.NaiveScheduler(), nil, testOptions()); !errors.Is(err, scene.ErrInvalidRadius) {
		t.Fatalf("expected to get ErrInvalidRadius; got %v", err)
	}
}
