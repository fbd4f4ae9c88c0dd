package telemetry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p25", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.25, 3.0},
		{"p85", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.85, 9.0},
		{"below range", []float64{1, 2, 3}, -0.5, 1.0},
		{"above range", []float64{1, 2, 3}, 1.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeWindowStats(t *testing.T) {
	positions := []mgl32.Vec3{{0, 1, 0}, {0, 2, 0}, {0, 3, 0}, {0, 4, 0}}
	velocities := []mgl32.Vec3{{3, 4, 0}, {0, 5, 0}, {0, 0, 5}, {5, 0, 0}}

	s := ComputeWindowStats(60, 120, 0.5, positions, velocities, 90)

	if s.Particles != 4 {
		t.Errorf("particles = %d, want 4", s.Particles)
	}
	if math.Abs(s.SimTimeSec-60) > 1e-9 {
		t.Errorf("sim_time = %v, want 60", s.SimTimeSec)
	}
	// 90 emissions over 60 frames of 0.5s
	if math.Abs(s.EmitRate-3) > 1e-9 {
		t.Errorf("emit_rate = %v, want 3", s.EmitRate)
	}
	if math.Abs(s.HeightMean-2.5) > 1e-6 {
		t.Errorf("height_mean = %v, want 2.5", s.HeightMean)
	}
	if s.HeightP50 != 2 {
		t.Errorf("height_p50 = %v, want 2", s.HeightP50)
	}
	if s.HeightP90 != 4 {
		t.Errorf("height_p90 = %v, want 4", s.HeightP90)
	}
	if s.HeightMax != 4 {
		t.Errorf("height_max = %v, want 4", s.HeightMax)
	}
	if math.Abs(s.SpeedMean-5) > 1e-6 || s.SpeedStd > 1e-6 {
		t.Errorf("speed = %v ± %v, want 5 ± 0", s.SpeedMean, s.SpeedStd)
	}
}

func TestComputeWindowStatsEmpty(t *testing.T) {
	s := ComputeWindowStats(0, 0, 1.0/60, nil, nil, 0)

	if s.Particles != 0 || s.EmitRate != 0 || s.HeightMax != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
}
