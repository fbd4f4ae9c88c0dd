// Package main measures particle update throughput across worker counts.
//
// Usage: go run ./cmd/bench -threads 1,2,4,8 -output bench-out
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/systems"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	threadList := flag.String("threads", "1,2,4,8", "Comma-separated worker counts to measure")
	particles := flag.Int("particles", 0, "Particle count (0 = use config)")
	frames := flag.Int("frames", 600, "Timed frames per worker count")
	warmup := flag.Int("warmup", 60, "Untimed frames before measuring")
	outputDir := flag.String("output", "", "Output directory for results.csv (empty = print only)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	threads, err := parseThreads(*threadList)
	if err != nil {
		log.Fatalf("invalid -threads: %v", err)
	}

	count := cfg.Particles.Count
	if *particles > 0 {
		count = *particles
	}

	params := systems.EmitterParams{
		Origin:   cfg.Derived.Origin,
		Gravity:  cfg.Derived.Gravity,
		Force:    cfg.Derived.Force,
		Duration: cfg.Derived.Duration,
		Radius:   cfg.Derived.Radius,
	}

	fmt.Printf("Measuring %d particles over %d frames (warmup %d) for threads %v\n",
		count, *frames, *warmup, threads)

	startTime := time.Now()
	results := make([]Result, 0, len(threads))
	for _, n := range threads {
		r, err := measure(params, count, n, cfg.Derived.DT32, *warmup, *frames)
		if err != nil {
			log.Fatalf("threads=%d: %v", n, err)
		}
		results = append(results, r)
		fmt.Printf("threads=%-3d mean=%8.1fus p95=%8.1fus rate=%6.2fM/s | elapsed: %s\n",
			r.Threads, r.MeanFrameUS, r.P95FrameUS, r.ParticlesPerSec/1e6,
			formatDuration(time.Since(startTime)))
	}
	applySpeedup(results)

	fmt.Println("\nSpeedup:")
	for _, r := range results {
		fmt.Printf("  %2d threads: %.2fx\n", r.Threads, r.Speedup)
	}

	if *outputDir == "" {
		return
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	resultsPath := filepath.Join(*outputDir, "results.csv")
	f, err := os.Create(resultsPath)
	if err != nil {
		log.Fatalf("failed to create results file: %v", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&results, f); err != nil {
		log.Fatalf("failed to write results: %v", err)
	}

	configOutPath := filepath.Join(*outputDir, "config.yaml")
	if err := cfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write config: %v", err)
	}

	fmt.Printf("\nResults saved to: %s\n", resultsPath)
}
