package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/fountain/systems"
)

func TestParseThreads(t *testing.T) {
	got, err := parseThreads(" 1, 2,,8 ")
	if err != nil {
		t.Fatalf("parseThreads: %v", err)
	}
	want := []int{1, 2, 8}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}

	for _, bad := range []string{"", "0", "2,x", "-1", "4,4096"} {
		if _, err := parseThreads(bad); err == nil {
			t.Errorf("parseThreads(%q): expected error", bad)
		}
	}
}

func TestSummarize(t *testing.T) {
	samples := []float64{100, 300, 200, 400}
	r := summarize(samples, 1000, 2, 5)

	if r.Frames != 4 || r.Threads != 2 || r.Emitted != 5 {
		t.Errorf("unexpected counts %+v", r)
	}
	if r.MeanFrameUS != 250 {
		t.Errorf("expected mean 250us, got %f", r.MeanFrameUS)
	}
	if r.P95FrameUS != 400 {
		t.Errorf("expected p95 400us, got %f", r.P95FrameUS)
	}
	// 1000 particles every 250us
	if math.Abs(r.ParticlesPerSec-4e6) > 1 {
		t.Errorf("expected 4M particles/s, got %f", r.ParticlesPerSec)
	}

	// Input order is preserved
	if samples[1] != 300 {
		t.Error("summarize reordered its input")
	}
}

func TestApplySpeedup(t *testing.T) {
	results := []Result{{MeanFrameUS: 400}, {MeanFrameUS: 200}, {MeanFrameUS: 100}}
	applySpeedup(results)

	for i, want := range []float64{1, 2, 4} {
		if results[i].Speedup != want {
			t.Errorf("result %d: expected speedup %v, got %v", i, want, results[i].Speedup)
		}
	}
}

func TestMeasure(t *testing.T) {
	r, err := measure(systems.DefaultEmitterParams(), 2000, 3, 1.0/60, 5, 20)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if r.Frames != 20 || r.Threads != 3 || r.Particles != 2000 {
		t.Errorf("unexpected result %+v", r)
	}
	if r.P95FrameUS < r.P50FrameUS {
		t.Errorf("p95 %f below p50 %f", r.P95FrameUS, r.P50FrameUS)
	}
}
