package game

import (
	"log/slog"

	"github.com/pthm-cable/fountain/telemetry"
)

// flushTelemetry logs and writes stats when the current window is complete.
func (g *Game) flushTelemetry() {
	frame := g.particles.Frames()
	if frame-g.windowStart < g.logEvery {
		return
	}

	store := g.particles.Store()
	stats := telemetry.ComputeWindowStats(
		g.windowStart, frame, g.cfg.Particles.DT,
		store.Positions, store.Velocities,
		g.windowEmitted,
	)
	perfStats := g.perf.Stats()

	perfStats.LogStats()
	if g.logStats {
		stats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if err := g.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, int32(frame)); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	g.windowStart = frame
	g.windowEmitted = 0
}

// Snapshot writes the current particle state to the output directory.
func (g *Game) Snapshot() {
	if g.output == nil {
		slog.Warn("snapshot ignored: no output directory")
		return
	}

	store := g.particles.Store()
	if store == nil {
		return
	}
	snap, err := telemetry.NewSnapshot(g.particles.Frames(), store.Positions, store.Velocities, store.Elapsed)
	if err != nil {
		slog.Error("failed to capture snapshot", "error", err)
		return
	}
	path, err := g.output.WriteSnapshot(snap)
	if err != nil {
		slog.Error("failed to write snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", snap.Frame, "particles", len(snap.Rows))
}
