// Package game runs the fountain: it owns the particle system, the scene and
// the camera, and drives them once per frame.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/fountain/camera"
	"github.com/pthm-cable/fountain/components"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/renderer"
	"github.com/pthm-cable/fountain/scene"
	"github.com/pthm-cable/fountain/systems"
	"github.com/pthm-cable/fountain/telemetry"
	"github.com/pthm-cable/fountain/ui"
)

// Options configures a game instance.
type Options struct {
	OutputDir string // CSV logs, config copy and snapshots (empty = disabled)
	Headless  bool   // No window; Draw must not be called
	LogStats  bool   // Log window stats alongside perf lines
	Threads   int    // Overrides particles.threads when > 0
	Particles int    // Overrides particles.count when > 0
}

// Game holds the complete demo state.
type Game struct {
	cfg       *config.Config
	particles *systems.ParticleSystem
	scene     *scene.Scene
	camera    *camera.Camera

	// Rendering (nil in headless mode)
	background *renderer.BackgroundRenderer
	meshes     *renderer.MeshRenderer
	points     *renderer.ParticleRenderer
	uploader   renderer.PositionUploader
	hud        *ui.HUD

	// Telemetry
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	logStats      bool
	logEvery      uint64 // frames per telemetry window
	windowStart   uint64
	windowEmitted int // emissions since windowStart
	totalEmitted  int

	headless      bool
	paused        bool
	terrainHidden bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game from the global configuration.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	count := cfg.Particles.Count
	if opts.Particles > 0 {
		count = opts.Particles
	}
	threads := cfg.Derived.Threads
	if opts.Threads > 0 {
		threads = opts.Threads
	}

	params := systems.EmitterParams{
		Origin:   cfg.Derived.Origin,
		Gravity:  cfg.Derived.Gravity,
		Force:    cfg.Derived.Force,
		Duration: cfg.Derived.Duration,
		Radius:   cfg.Derived.Radius,
	}
	ps, err := systems.NewParticleSystem(params, count, threads, cfg.Derived.DT32)
	if err != nil {
		return nil, fmt.Errorf("creating particle system: %w", err)
	}

	sc, err := scene.Build(cfg)
	if err != nil {
		ps.Shutdown()
		return nil, fmt.Errorf("building scene: %w", err)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		ps.Shutdown()
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g := &Game{
		cfg:          cfg,
		particles:    ps,
		scene:        sc,
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:       output,
		logStats:     opts.LogStats,
		logEvery:     framesPerWindow(cfg.Telemetry.LogInterval, cfg.Particles.DT),
		headless:     opts.Headless,
		screenWidth:  cfg.Derived.ScreenW,
		screenHeight: cfg.Derived.ScreenH,
	}

	cc := &cfg.Camera
	g.camera = camera.New(g.screenWidth, g.screenHeight, float32(cc.Distance), float32(cc.Orbit), float32(cc.Pitch))
	g.camera.SetDistanceLimits(float32(cc.MinDistance), float32(cc.MaxDistance))

	if !opts.Headless {
		g.background = renderer.NewBackgroundRenderer(int32(g.screenWidth), int32(g.screenHeight))
		g.meshes = renderer.NewMeshRenderer()
		g.points = renderer.NewParticleRenderer(count)
		g.uploader = g.points
		g.hud = ui.NewHUD()
		g.uploader.Upload(ps.Positions())
	}

	slog.Info("game started",
		"particles", count,
		"threads", ps.Threads(),
		"headless", opts.Headless,
		"output_dir", output.Dir(),
	)

	return g, nil
}

// framesPerWindow converts a log interval in seconds to a frame count.
func framesPerWindow(interval, dt float64) uint64 {
	n := uint64(interval/dt + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// Update handles input and advances the simulation by one frame unless paused.
// Draw must be called afterwards to finish the frame.
func (g *Game) Update() error {
	g.perf.RecordFrame()
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	if g.paused {
		return nil
	}
	if err := g.step(); err != nil {
		return err
	}

	g.perf.StartPhase(telemetry.PhaseUpload)
	g.uploader.Upload(g.particles.Positions())
	return nil
}

// UpdateHeadless advances the simulation by one frame without input or rendering.
func (g *Game) UpdateHeadless() error {
	g.perf.StartTick()
	err := g.step()
	g.perf.EndTick()
	return err
}

// step runs one particle update and flushes telemetry at window boundaries.
func (g *Game) step() error {
	g.perf.StartPhase(telemetry.PhaseSimulate)
	if err := g.particles.Update(); err != nil {
		return fmt.Errorf("frame %d: %w", g.particles.Frames(), err)
	}
	g.perf.AddParticles(g.particles.Count())
	g.windowEmitted += g.particles.Emitted()
	g.totalEmitted += g.particles.Emitted()

	g.flushTelemetry()
	return nil
}

// TogglePause pauses or resumes the simulation.
func (g *Game) TogglePause() {
	g.paused = !g.paused
	slog.Info("pause toggled", "paused", g.paused, "frame", g.particles.Frames())
}

// ToggleTerrain shows or hides the terrain entities.
func (g *Game) ToggleTerrain() {
	g.terrainHidden = !g.terrainHidden
	g.scene.SetHidden(components.KindTerrain, g.terrainHidden)
	slog.Info("terrain toggled", "hidden", g.terrainHidden)
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Frame returns the number of completed simulation frames.
func (g *Game) Frame() uint64 {
	return g.particles.Frames()
}

// Unload stops the workers and closes output files.
func (g *Game) Unload() {
	frames := g.particles.Frames()
	g.particles.Shutdown()

	if g.meshes != nil {
		g.meshes.Unload()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}

	slog.Info("game stopped", "frames", frames, "emitted", g.totalEmitted)
}
