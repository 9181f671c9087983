package kernel

import (
	"math"
	"testing"

	"github.com/achilleasa/go-pathtrace/types"
)

func TestDenoiseUniform(t *testing.T) {
	color := types.XYZW(0.3, 0.6, 0.9, 1)
	tex := newTestTexture(16, 16, color)

	// Includes edge texels whose windows are clamped
	for _, p := range [][2]int{{8, 8}, {0, 0}, {15, 3}} {
		out := Denoise(tex, p[0], p[1], 2, 0.1)
		if out != color.Vec3() {
			t.Fatalf("[pixel %v] expected uniform input to pass through unchanged; got %v", p, out)
		}
	}
}

func TestDenoiseOutlier(t *testing.T) {
	base := types.XYZW(0.5, 0.5, 0.5, 1)
	tex := newTestTexture(16, 16, base)
	tex.Set(9, 8, types.XYZW(10, 10, 10, 1))

	out := Denoise(tex, 8, 8, 2, 0.01)
	if !types.ApproxEqual(out, base.Vec3(), 1e-4) {
		t.Fatalf("expected outlier to be suppressed; got %v", out)
	}

	// A wide range kernel lets the outlier bleed in
	out = Denoise(tex, 8, 8, 2, 1000)
	if out[0]-base[0] < 0.01 {
		t.Fatalf("expected outlier to contribute with a wide range sigma; got %v", out)
	}
}

func TestDenoiseGuards(t *testing.T) {
	tex := newTestTexture(8, 8, types.XYZW(0.1, 0.2, 0.3, 1))
	tex.Set(3, 3, types.XYZW(5, 5, 5, 1))

	type spec struct {
		sigmaSpatial, sigmaRange float32
	}
	specs := []spec{
		{0, 0.1},
		{2, 0},
		{-1, 0.1},
		{float32(math.NaN()), 0.1},
	}
	center := tex.At(4, 3).Vec3()
	for index, s := range specs {
		out := Denoise(tex, 4, 3, s.sigmaSpatial, s.sigmaRange)
		if out != center {
			t.Fatalf("[spec %d] expected center color %v; got %v", index, center, out)
		}
	}

	nan := float32(math.NaN())
	tex.Set(0, 0, types.XYZW(nan, nan, nan, 1))
	out := Denoise(tex, 0, 0, 2, 0.1)
	if out[0] == out[0] {
		t.Fatalf("expected NaN center to be returned unchanged; got %v", out)
	}
}
