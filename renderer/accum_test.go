package renderer

import (
	"math"
	"testing"

	"github.com/achilleasa/go-pathtrace/types"
)

func TestAccumBufferClamp(t *testing.T) {
	buf := NewAccumBuffer(3, 2)
	buf.Set(0, 0, types.XYZW(1, 0, 0, 1))
	buf.Set(2, 1, types.XYZW(0, 0, 1, 1))

	type spec struct {
		x, y int
		exp  types.Vec4
	}
	specs := []spec{
		{-5, -5, types.XYZW(1, 0, 0, 1)},
		{0, 0, types.XYZW(1, 0, 0, 1)},
		{10, 10, types.XYZW(0, 0, 1, 1)},
		{2, 7, types.XYZW(0, 0, 1, 1)},
		{1, 0, types.Vec4{}},
	}
	for index, s := range specs {
		if out := buf.At(s.x, s.y); out != s.exp {
			t.Fatalf("[spec %d] expected texel %v; got %v", index, s.exp, out)
		}
	}

	clone := buf.Clone()
	buf.Clear()
	if out := buf.At(0, 0); out != (types.Vec4{}) {
		t.Fatalf("expected cleared texel; got %v", out)
	}
	if out := clone.At(0, 0); out != types.XYZW(1, 0, 0, 1) {
		t.Fatalf("expected clone to be unaffected by Clear; got %v", out)
	}
}

func TestAccumBufferToRGBA(t *testing.T) {
	nan := float32(math.NaN())
	buf := NewAccumBuffer(2, 2)
	// bottom row
	buf.Set(0, 0, types.XYZW(1, 0.5, 0, 1))
	buf.Set(1, 0, types.XYZW(nan, 2, -1, 1))
	// top row
	buf.Set(0, 1, types.XYZW(0, 0, 1, 1))

	img := buf.ToRGBA()
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("expected a 2x2 image; got %v", img.Bounds())
	}

	type spec struct {
		x, y int
		exp  [4]uint8
	}
	specs := []spec{
		// image row 0 is the buffer's top row
		{0, 0, [4]uint8{0, 0, 255, 255}},
		{1, 0, [4]uint8{0, 0, 0, 255}},
		{0, 1, [4]uint8{255, 128, 0, 255}},
		{1, 1, [4]uint8{0, 255, 0, 255}},
	}
	for index, s := range specs {
		offset := img.PixOffset(s.x, s.y)
		var got [4]uint8
		copy(got[:], img.Pix[offset:offset+4])
		if got != s.exp {
			t.Fatalf("[spec %d] expected pixel %v; got %v", index, s.exp, got)
		}
	}
}

func TestJitterOffset(t *testing.T) {
	type spec struct {
		instance, n uint32
		exp         types.Vec2
	}
	specs := []spec{
		{0, 1, types.Vec2{0, 0}},
		{0, 2, types.Vec2{-0.25, -0.25}},
		{1, 2, types.Vec2{0.25, -0.25}},
		{2, 2, types.Vec2{-0.25, 0.25}},
		{3, 2, types.Vec2{0.25, 0.25}},
		{4, 3, types.Vec2{0, 0}},
	}
	for index, s := range specs {
		out := JitterOffset(s.instance, s.n)
		if math.Abs(float64(out[0]-s.exp[0])) > 1e-6 || math.Abs(float64(out[1]-s.exp[1])) > 1e-6 {
			t.Fatalf("[spec %d] expected offset %v; got %v", index, s.exp, out)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	type spec struct {
		mutate func(*Options)
		expErr error
	}
	specs := []spec{
		{func(o *Options) {}, nil},
		{func(o *Options) { o.FrameW = 0 }, ErrInvalidFrameDims},
		{func(o *Options) { o.FrameH = 0 }, ErrInvalidFrameDims},
		{func(o *Options) { o.JitterGrid = 0 }, ErrInvalidJitterGrid},
		{func(o *Options) { o.Exposure = 0 }, ErrInvalidExposure},
		{func(o *Options) { o.Exposure = float32(math.NaN()) }, ErrInvalidExposure},
		{func(o *Options) { o.Denoise = true; o.DenoiseSigmaRange = 0 }, ErrInvalidDenoiseSigma},
		{func(o *Options) { o.Denoise = true }, nil},
	}

	for index, s := range specs {
		opts := DefaultOptions()
		s.mutate(&opts)
		if err := opts.Validate(); err != s.expErr {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}
