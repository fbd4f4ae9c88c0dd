package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for one frame.
const (
	PhaseInput    = "input"
	PhaseSimulate = "simulate"
	PhaseUpload   = "upload"
	PhaseRender   = "render"
)

// phaseOrder fixes the order phases appear in logs and CSV.
var phaseOrder = []string{PhaseInput, PhaseSimulate, PhaseUpload, PhaseRender}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
	Particles    int // particles advanced during the frame
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize       int
	samples          []PerfSample
	writeIndex       int
	sampleCount      int
	currentPhases    map[string]time.Duration
	currentParticles int
	tickStart        time.Time
	phaseStart       time.Time
	lastPhase        string

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.currentParticles = 0
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// AddParticles records particles advanced during the current frame.
func (p *PerfCollector) AddParticles(n int) {
	p.currentParticles += n
}

// EndTick finishes timing the current frame and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
		Particles:    p.currentParticles,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Frame timing
	AvgTickDuration    time.Duration
	MinTickDuration    time.Duration
	MaxTickDuration    time.Duration
	StdDevTickDuration time.Duration

	// Simulation phase distribution
	AvgSimulate time.Duration
	P95Simulate time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total frame time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond     float64
	ParticlesPerSecond float64 // particles advanced per second of simulate time

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	// Frame timing is always available (independent of tick samples)
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	ticks := make([]float64, p.sampleCount)
	sims := make([]float64, p.sampleCount)
	var minTick, maxTick time.Duration
	var particles int
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		ticks[i] = float64(s.TickDuration)
		sims[i] = float64(s.Phases[PhaseSimulate])
		particles += s.Particles

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	meanTick, stdTick := stat.MeanStdDev(ticks, nil)
	if p.sampleCount < 2 {
		stdTick = 0
	}
	avgTick := time.Duration(meanTick)

	meanSim := stat.Mean(sims, nil)
	sort.Float64s(sims)
	p95Sim := stat.Quantile(0.95, stat.Empirical, sims, nil)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	var particlesPerSec float64
	if simTotal := phaseSum[PhaseSimulate]; simTotal > 0 {
		particlesPerSec = float64(particles) / simTotal.Seconds()
	}

	return PerfStats{
		AvgTickDuration:    avgTick,
		MinTickDuration:    minTick,
		MaxTickDuration:    maxTick,
		StdDevTickDuration: time.Duration(stdTick),
		AvgSimulate:        time.Duration(meanSim),
		P95Simulate:        time.Duration(p95Sim),
		PhaseAvg:           phaseAvg,
		PhasePct:           phasePct,
		TicksPerSecond:     ticksPerSec,
		ParticlesPerSecond: particlesPerSec,
		FrameDuration:      p.frameDuration,
		FPS:                fps,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"sim_p95_us", s.P95Simulate.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"particles_per_sec", int64(s.ParticlesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("stddev_tick_us", s.StdDevTickDuration.Microseconds()),
		slog.Int64("sim_p95_us", s.P95Simulate.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("particles_per_sec", s.ParticlesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd       int32   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	StdDevTickUS    int64   `csv:"stddev_tick_us"`
	AvgSimulateUS   int64   `csv:"avg_simulate_us"`
	P95SimulateUS   int64   `csv:"p95_simulate_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	ParticlesPerSec float64 `csv:"particles_per_sec"`
	FPS             float64 `csv:"fps"`
	InputPct        float64 `csv:"input_pct"`
	SimulatePct     float64 `csv:"simulate_pct"`
	UploadPct       float64 `csv:"upload_pct"`
	RenderPct       float64 `csv:"render_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		StdDevTickUS:    s.StdDevTickDuration.Microseconds(),
		AvgSimulateUS:   s.AvgSimulate.Microseconds(),
		P95SimulateUS:   s.P95Simulate.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		ParticlesPerSec: s.ParticlesPerSecond,
		FPS:             s.FPS,
		InputPct:        s.PhasePct[PhaseInput],
		SimulatePct:     s.PhasePct[PhaseSimulate],
		UploadPct:       s.PhasePct[PhaseUpload],
		RenderPct:       s.PhasePct[PhaseRender],
	}
}
