package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fountain/systems"
)

// Result holds the frame timings for one thread count.
type Result struct {
	Threads         int     `csv:"threads"`
	Particles       int     `csv:"particles"`
	Frames          int     `csv:"frames"`
	MeanFrameUS     float64 `csv:"mean_frame_us"`
	StdDevFrameUS   float64 `csv:"stddev_frame_us"`
	P50FrameUS      float64 `csv:"p50_frame_us"`
	P95FrameUS      float64 `csv:"p95_frame_us"`
	ParticlesPerSec float64 `csv:"particles_per_sec"`
	Speedup         float64 `csv:"speedup"` // relative to the first thread count
	Emitted         int     `csv:"emitted"`
}

// parseThreads parses a comma-separated list of positive worker counts.
func parseThreads(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("thread count %q: %w", part, err)
		}
		if n < 1 || n > systems.MaxThreads {
			return nil, fmt.Errorf("thread count must be in [1, %d], got %d", systems.MaxThreads, n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no thread counts in %q", s)
	}
	return out, nil
}

// measure runs warmup untimed frames followed by frames timed ones.
func measure(params systems.EmitterParams, count, threads int, dt float32, warmup, frames int) (Result, error) {
	ps, err := systems.NewParticleSystem(params, count, threads, dt)
	if err != nil {
		return Result{}, err
	}
	defer ps.Shutdown()

	for i := 0; i < warmup; i++ {
		if err := ps.Update(); err != nil {
			return Result{}, err
		}
	}

	samples := make([]float64, frames)
	emitted := 0
	for i := range samples {
		start := time.Now()
		if err := ps.Update(); err != nil {
			return Result{}, err
		}
		samples[i] = float64(time.Since(start).Microseconds())
		emitted += ps.Emitted()
	}

	return summarize(samples, count, ps.Threads(), emitted), nil
}

// summarize builds a Result from per-frame durations in microseconds.
func summarize(samples []float64, count, threads, emitted int) Result {
	r := Result{
		Threads:   threads,
		Particles: count,
		Frames:    len(samples),
		Emitted:   emitted,
	}
	if len(samples) == 0 {
		return r
	}

	r.MeanFrameUS, r.StdDevFrameUS = stat.MeanStdDev(samples, nil)
	if len(samples) < 2 {
		r.StdDevFrameUS = 0
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	r.P50FrameUS = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	r.P95FrameUS = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	if r.MeanFrameUS > 0 {
		r.ParticlesPerSec = float64(count) / (r.MeanFrameUS / 1e6)
	}
	return r
}

// applySpeedup fills Speedup relative to the first result.
func applySpeedup(results []Result) {
	if len(results) == 0 || results[0].MeanFrameUS == 0 {
		return
	}
	base := results[0].MeanFrameUS
	for i := range results {
		if results[i].MeanFrameUS > 0 {
			results[i].Speedup = base / results[i].MeanFrameUS
		}
	}
}
