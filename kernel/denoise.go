package kernel

import (
	"math"

	"github.com/achilleasa/go-pathtrace/types"
)

// Radius of the denoise window; the window spans (2*DenoiseRadius+1)^2 texels.
const DenoiseRadius = 3

// Apply a bilateral filter to the texel at (x, y). Each neighbour is weighted
// by exp(-|offset|/sigmaSpatial) * exp(-|color-center|/sigmaRange).
//
// The weighted average is accumulated relative to the center color so a
// uniform neighbourhood reproduces its input exactly. The center color is
// returned unchanged if either sigma is not positive or the weights do not
// sum to a finite positive value.
func Denoise(tex Texture, x, y int, sigmaSpatial, sigmaRange float32) types.Vec3 {
	center := tex.At(x, y).Vec3()
	if !(sigmaSpatial > 0) || !(sigmaRange > 0) {
		return center
	}

	var (
		acc         types.Vec3
		totalWeight float64
	)
	for j := -DenoiseRadius; j <= DenoiseRadius; j++ {
		for i := -DenoiseRadius; i <= DenoiseRadius; i++ {
			diff := tex.At(x+i, y+j).Vec3().Sub(center)

			offsetLen := math.Sqrt(float64(i*i + j*j))
			weight := math.Exp(-offsetLen/float64(sigmaSpatial)) *
				math.Exp(-float64(diff.Len())/float64(sigmaRange))

			acc = acc.Add(diff.Mul(float32(weight)))
			totalWeight += weight
		}
	}

	if !(totalWeight > 0) || math.IsInf(totalWeight, 0) {
		return center
	}
	return center.Add(acc.Mul(float32(1 / totalWeight)))
}
