package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The block height and the percentage of total frame area it represents
	// for the last draw.
	BlockH       uint32
	FramePercent float32

	// Render time for the last assigned block.
	RenderTime time.Duration

	// Mean and standard deviation of the block render time across all
	// draws of the last Render call.
	MeanTime   time.Duration
	StdDevTime time.Duration
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for the last Render call.
	RenderTime time.Duration

	// Time spent in post-processing stages.
	PostProcessTime time.Duration

	// Frames and draws completed by the last Render call.
	Frames uint32
	Draws  uint32

	// The value of the sample counter after the last Render call.
	Samples uint32
}

// Summarize a set of block render times.
func timeStats(samples []float64) (mean, stdDev time.Duration) {
	switch len(samples) {
	case 0:
		return 0, 0
	case 1:
		return time.Duration(samples[0]), 0
	}

	m, s := stat.MeanStdDev(samples, nil)
	return time.Duration(m), time.Duration(s)
}
