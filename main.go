package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config copy and snapshots")
	maxFrames := flag.Uint64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	threads := flag.Int("threads", 0, "Worker count (0 = use config)")
	particles := flag.Int("particles", 0, "Particle count (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		OutputDir: *outputDir,
		Headless:  *headless,
		LogStats:  *logStats,
		Threads:   *threads,
		Particles: *particles,
	}

	if *headless {
		os.Exit(runHeadless(opts, *maxFrames))
	}

	os.Exit(runWindowed(opts, cfg, *maxFrames))
}

// runWindowed opens the window and runs the frame loop, returning the exit code.
func runWindowed(opts game.Options, cfg *config.Config, maxFrames uint64) int {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			slog.Error("update failed", "error", err)
			return 1
		}
		g.Draw()

		if maxFrames > 0 && g.Frame() >= maxFrames {
			slog.Info("max frames reached", "frame", g.Frame())
			break
		}
	}
	return 0
}

// runHeadless steps the simulation without a window and returns the exit code.
func runHeadless(opts game.Options, maxFrames uint64) int {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer g.Unload()

	slog.Info("starting headless simulation", "max_frames", maxFrames)

	for {
		if err := g.UpdateHeadless(); err != nil {
			slog.Error("update failed", "error", err)
			return 1
		}

		if maxFrames > 0 && g.Frame() >= maxFrames {
			slog.Info("max frames reached", "frame", g.Frame())
			return 0
		}
	}
}
