package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pthm-cable/fountain/config"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	positions := []mgl32.Vec3{{0, 0.5, 0}, {1.25, 2, -3}, {-4, 0.75, 8}}
	velocities := []mgl32.Vec3{{1, 2, 3}, {0, -9.8, 0}, {0.5, 0, -0.5}}
	elapsed := []float32{0, 1.5, 4.75}

	snapshot, err := NewSnapshot(120, positions, velocities, elapsed)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	path := filepath.Join(tmpDir, "snap.csv")
	if err := SaveSnapshot(snapshot, path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	loaded, err := LoadSnapshot(path, 120)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if len(loaded.Rows) != len(positions) {
		t.Fatalf("expected %d rows, got %d", len(positions), len(loaded.Rows))
	}
	for i, row := range loaded.Rows {
		if row != snapshot.Rows[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, snapshot.Rows[i], row)
		}
	}
	for i, p := range loaded.Positions() {
		if p != positions[i] {
			t.Errorf("position %d: expected %v, got %v", i, positions[i], p)
		}
	}
}

func TestNewSnapshotPositionsOnly(t *testing.T) {
	snapshot, err := NewSnapshot(1, []mgl32.Vec3{{1, 2, 3}}, nil, nil)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if r := snapshot.Rows[0]; r.VelX != 0 || r.Elapsed != 0 || r.Y != 2 {
		t.Errorf("unexpected row %+v", r)
	}
}

func TestNewSnapshotRejectsMismatchedLengths(t *testing.T) {
	positions := []mgl32.Vec3{{}, {}}
	if _, err := NewSnapshot(0, positions, []mgl32.Vec3{{}}, nil); err == nil {
		t.Error("expected error for short velocities")
	}
	if _, err := NewSnapshot(0, positions, nil, []float32{1, 2, 3}); err == nil {
		t.Error("expected error for long elapsed times")
	}
}

func TestOutputManager(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "run")

	om, err := NewOutputManager(tmpDir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WritePerf(PerfStats{TicksPerSecond: 60}, int32(i)); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
		if err := om.WriteStats(WindowStats{WindowEndFrame: uint64(i)}); err != nil {
			t.Fatalf("WriteStats: %v", err)
		}
	}

	snapshot, _ := NewSnapshot(7, []mgl32.Vec3{{1, 1, 1}}, nil, nil)
	path, err := om.WriteSnapshot(snapshot)
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_000007.csv" {
		t.Errorf("unexpected snapshot path %s", path)
	}
	if om.Snapshots() != 1 {
		t.Errorf("expected 1 snapshot, got %d", om.Snapshots())
	}

	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// One header plus one line per record
	for _, name := range []string{"perf.csv", "stats.csv"} {
		data, err := os.ReadFile(filepath.Join(tmpDir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 4 {
			t.Errorf("%s: expected 4 lines, got %d", name, len(lines))
		}
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml: %v", err)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager without error, got %v, %v", om, err)
	}

	// Nil manager methods are no-ops
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("WritePerf on nil: %v", err)
	}
	if path, err := om.WriteSnapshot(&Snapshot{}); path != "" || err != nil {
		t.Errorf("WriteSnapshot on nil: %q, %v", path, err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}
