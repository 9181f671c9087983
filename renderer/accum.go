package renderer

import (
	"image"
	"math"

	"github.com/achilleasa/go-pathtrace/types"
)

// An RGBA float accumulation buffer. Row 0 is the bottom row of the frame.
// Reads outside the buffer are clamped to the closest edge texel.
type AccumBuffer struct {
	w, h int
	data []float32
}

func NewAccumBuffer(w, h int) *AccumBuffer {
	return &AccumBuffer{
		w:    w,
		h:    h,
		data: make([]float32, w*h*4),
	}
}

func (b *AccumBuffer) Width() int {
	return b.w
}

func (b *AccumBuffer) Height() int {
	return b.h
}

// Read the texel at (x, y).
func (b *AccumBuffer) At(x, y int) types.Vec4 {
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
	offset := (y*b.w + x) * 4
	return types.Vec4{b.data[offset], b.data[offset+1], b.data[offset+2], b.data[offset+3]}
}

// Write the texel at (x, y).
func (b *AccumBuffer) Set(x, y int, c types.Vec4) {
	offset := (y*b.w + x) * 4
	copy(b.data[offset:offset+4], c[:])
}

// Zero all texels.
func (b *AccumBuffer) Clear() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// Create a copy of the buffer.
func (b *AccumBuffer) Clone() *AccumBuffer {
	out := &AccumBuffer{
		w:    b.w,
		h:    b.h,
		data: make([]float32, len(b.data)),
	}
	copy(out.data, b.data)
	return out
}

// Convert to an 8-bit image with row 0 at the top. NaN components map to 0
// and all components are clamped to [0, 1]. Alpha is always opaque.
func (b *AccumBuffer) ToRGBA() *image.RGBA {
	return b.toRGBA(true)
}

func (b *AccumBuffer) toRGBA(flipY bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.w, b.h))
	for y := 0; y < b.h; y++ {
		dstY := y
		if flipY {
			dstY = b.h - 1 - y
		}
		for x := 0; x < b.w; x++ {
			c := b.At(x, y).Vec3().Clamp(0, 1)
			offset := img.PixOffset(x, dstY)
			img.Pix[offset] = toByte(c[0])
			img.Pix[offset+1] = toByte(c[1])
			img.Pix[offset+2] = toByte(c[2])
			img.Pix[offset+3] = 255
		}
	}
	return img
}

func toByte(v float32) uint8 {
	return uint8(math.Round(float64(v) * 255))
}
