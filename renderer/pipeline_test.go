package renderer

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/go-pathtrace/types"
)

func TestTonemapStage(t *testing.T) {
	buf := NewAccumBuffer(2, 1)
	buf.Set(0, 0, types.XYZW(0.25, 0.5, 1, 1))
	buf.Set(1, 0, types.XYZW(-1, 0.1, 3, 1))

	if _, err := Tonemap(2)(buf); err != nil {
		t.Fatal(err)
	}

	type spec struct {
		x   int
		exp types.Vec4
	}
	specs := []spec{
		{0, types.XYZW(0.5, 1, 1, 1)},
		{1, types.XYZW(0, 0.2, 1, 1)},
	}
	for index, s := range specs {
		if out := buf.At(s.x, 0); out != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, out)
		}
	}
}

func TestDenoiseStage(t *testing.T) {
	buf := NewAccumBuffer(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			buf.Set(x, y, types.XYZW(0.2, 0.4, 0.6, 1))
		}
	}
	buf.Set(4, 4, types.XYZW(50, 50, 50, 1))

	if _, err := Denoise(2, 0.01)(buf); err != nil {
		t.Fatal(err)
	}

	// Neighbours ignore the outlier and the outlier keeps its own value
	if out := buf.At(3, 4); !types.ApproxEqual(out.Vec3(), types.XYZ(0.2, 0.4, 0.6), 1e-5) {
		t.Fatalf("expected neighbour to be unaffected by the outlier; got %v", out)
	}
	if out := buf.At(4, 4); out[0] != 50 || out[3] != 1 {
		t.Fatalf("expected outlier to keep its value; got %v", out)
	}
}

func TestDefaultPipeline(t *testing.T) {
	opts := DefaultOptions()
	if stages := len(DefaultPipeline(opts).PostProcess); stages != 1 {
		t.Fatalf("expected 1 stage; got %d", stages)
	}

	opts.Denoise = true
	if stages := len(DefaultPipeline(opts).PostProcess); stages != 2 {
		t.Fatalf("expected 2 stages; got %d", stages)
	}
}

func TestSavePNGStage(t *testing.T) {
	buf := NewAccumBuffer(4, 3)
	buf.Set(0, 0, types.XYZW(1, 1, 1, 1))

	imgFile := filepath.Join(t.TempDir(), "frame.png")
	if _, err := SavePNG(imgFile)(buf); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(imgFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("expected a 4x3 image; got %v", img.Bounds())
	}

	// Buffer row 0 is the bottom image row.
	r, g, b, _ := img.At(0, 2).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatalf("expected white pixel at the bottom-left corner; got %d %d %d", r, g, b)
	}
}

func TestSavePNGStageError(t *testing.T) {
	imgFile := filepath.Join(t.TempDir(), "missing", "frame.png")
	if _, err := SavePNG(imgFile)(NewAccumBuffer(1, 1)); err == nil {
		t.Fatal("expected an error writing to a missing directory")
	}
}
