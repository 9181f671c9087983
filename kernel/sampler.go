package kernel

import (
	"math"

	"github.com/achilleasa/go-pathtrace/types"
)

const (
	// Max rejection sampling attempts for UnitBallDirection.
	MaxDirectionAttempts = 10

	// Multiplier applied to the sample counter when seeding a pixel so that
	// consecutive samples of the same pixel start from unrelated states.
	SeedStride = 50561

	hashScale = 508.5453
)

// A sine hash generator bound to a single pixel. Every call to Float both
// reads and replaces State, so a pixel draws a reproducible sequence for a
// given (fragment, seed, initial state) triple.
type Sampler struct {
	frag types.Vec3
	seed types.Vec3

	State float64
}

// Create a sampler for the fragment at fragCoord using the per-draw seed.
func NewSampler(fragCoord, seed types.Vec3, state float64) *Sampler {
	return &Sampler{
		frag:  fragCoord,
		seed:  seed,
		State: state,
	}
}

// Generate the next value in [0, 1).
func (s *Sampler) Float() float32 {
	k := s.State * float64(s.seed[0]) * float64(s.seed[1]) * float64(s.seed[2])
	var dot float64
	for i := 0; i < 3; i++ {
		dot += float64(s.frag[i]) * (float64(s.seed[i]) + k)
	}

	v := math.Sin(dot) * hashScale
	v -= math.Floor(v)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s.State = v

	out := float32(v)
	if out >= 1 {
		out = math.Nextafter32(1, 0)
	}
	return out
}

// Pick a random point inside the unit ball by rejection sampling. If all
// attempts land outside the ball the zero vector is returned.
func (s *Sampler) UnitBallDirection() types.Vec3 {
	for i := 0; i < MaxDirectionAttempts; i++ {
		p := types.Vec3{
			s.Float()*2 - 1,
			s.Float()*2 - 1,
			s.Float()*2 - 1,
		}
		if p.LenSq() <= 1 {
			return p
		}
	}
	return types.Vec3{}
}

// Calculate the initial sampler state for a fragment: its linear index in the
// frame offset by samples*SeedStride.
func PixelSeed(fragX, fragY float32, frameW int, samples uint32) float64 {
	return float64(fragY)*float64(frameW) + float64(fragX) + float64(samples)*SeedStride
}
