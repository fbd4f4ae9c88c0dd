package telemetry

import (
	"log/slog"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated fountain statistics for a time window.
type WindowStats struct {
	WindowStartFrame uint64  `csv:"-"`
	WindowEndFrame   uint64  `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	Particles int `csv:"particles"`

	// Emissions during window
	Emitted  int     `csv:"emitted"`
	EmitRate float64 `csv:"emit_rate"` // emissions per simulated second

	// Height distribution (sampled at window end)
	HeightMean float64 `csv:"height_mean"`
	HeightP50  float64 `csv:"height_p50"`
	HeightP90  float64 `csv:"height_p90"`
	HeightMax  float64 `csv:"height_max"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
}

// Percentile returns the empirical p-quantile of a sorted slice: the first
// value whose cumulative share reaches p. p is clamped to [0, 1]. Returns 0
// if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = max(0, min(p, 1))
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeWindowStats summarizes particle state at the end of a window.
// emitted is the number of emissions since the window started.
func ComputeWindowStats(start, end uint64, dt float64, positions, velocities []mgl32.Vec3, emitted int) WindowStats {
	s := WindowStats{
		WindowStartFrame: start,
		WindowEndFrame:   end,
		SimTimeSec:       float64(end) * dt,
		Particles:        len(positions),
		Emitted:          emitted,
	}
	if span := float64(end-start) * dt; span > 0 {
		s.EmitRate = float64(emitted) / span
	}

	if len(positions) == 0 {
		return s
	}

	heights := make([]float64, len(positions))
	for i, p := range positions {
		heights[i] = float64(p.Y())
	}
	s.HeightMean = stat.Mean(heights, nil)
	sort.Float64s(heights)
	s.HeightP50 = Percentile(heights, 0.50)
	s.HeightP90 = Percentile(heights, 0.90)
	s.HeightMax = heights[len(heights)-1]

	if len(velocities) > 0 {
		speeds := make([]float64, len(velocities))
		for i, v := range velocities {
			speeds[i] = float64(v.Len())
		}
		s.SpeedMean, s.SpeedStd = stat.PopMeanStdDev(speeds, nil)
	}

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartFrame),
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("emitted", s.Emitted),
		slog.Float64("emit_rate", s.EmitRate),
		slog.Float64("height_mean", s.HeightMean),
		slog.Float64("height_p50", s.HeightP50),
		slog.Float64("height_p90", s.HeightP90),
		slog.Float64("height_max", s.HeightMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"emitted", s.Emitted,
		"emit_rate", int(s.EmitRate),
		"height_mean", float32(s.HeightMean),
		"height_max", float32(s.HeightMax),
		"speed_mean", float32(s.SpeedMean),
	)
}
