// Package config provides configuration loading and access for the fountain demo.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pthm-cable/fountain/systems"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all demo configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Particles ParticlesConfig `yaml:"particles"`
	Camera    CameraConfig    `yaml:"camera"`
	Scene     SceneConfig     `yaml:"scene"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// ParticlesConfig holds the simulation constants. They are fixed for the
// lifetime of a particle system.
type ParticlesConfig struct {
	Count          int       `yaml:"count"`
	Threads        int       `yaml:"threads"` // 0 = GOMAXPROCS
	DT             float64   `yaml:"dt"`
	Duration       float64   `yaml:"duration"`        // Lifetime in seconds before re-emission
	Force          float64   `yaml:"force"`           // Speed of a freshly emitted particle
	Gravity        []float64 `yaml:"gravity"`         // Constant acceleration (x, y, z)
	Origin         []float64 `yaml:"origin"`          // Emitter position (x, y, z)
	EmissionRadius float64   `yaml:"emission_radius"` // Horizontal spread of the emission cone
}

// CameraConfig holds orbit camera parameters.
type CameraConfig struct {
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	Orbit       float64 `yaml:"orbit"` // Initial orbit angle in radians
	Pitch       float64 `yaml:"pitch"` // Initial pitch angle in radians
	Fovy        float64 `yaml:"fovy"`  // Vertical field of view in degrees
	ZoomStep    float64 `yaml:"zoom_step"`
}

// SceneConfig holds the static geometry the particles are rendered against.
type SceneConfig struct {
	EmitterMesh string        `yaml:"emitter_mesh"` // PLY file (empty = built-in pyramid)
	EmitterSize float64       `yaml:"emitter_size"`
	PlaneSize   float64       `yaml:"plane_size"`
	Terrain     TerrainConfig `yaml:"terrain"`
}

// TerrainConfig holds procedural heightmap parameters.
type TerrainConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Size     int     `yaml:"size"`      // Samples per side
	CellSize float64 `yaml:"cell_size"` // World units between samples
	Height   float64 `yaml:"height"`    // Peak amplitude
	Scale    float64 `yaml:"scale"`     // Noise frequency
	Octaves  int     `yaml:"octaves"`
	Seed     int64   `yaml:"seed"`
	OffsetY  float64 `yaml:"offset_y"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // Frames in the rolling perf window
	LogInterval float64 `yaml:"log_interval"` // Seconds between perf log lines
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32    // Particles.DT as float32
	Threads  int        // Resolved worker count
	Gravity  mgl32.Vec3 // Particles.Gravity
	Origin   mgl32.Vec3 // Particles.Origin
	ScreenW  float32
	ScreenH  float32
	Fovy32   float32
	Duration float32
	Force    float32
	Radius   float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Parse decodes YAML data over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Environment variables that override file values.
const (
	EnvParticles = "FOUNTAIN_PARTICLES"
	EnvThreads   = "FOUNTAIN_THREADS"
	EnvTargetFPS = "FOUNTAIN_TARGET_FPS"
)

// applyEnv overrides a few run-shaping values from the environment. Unset or
// malformed variables leave the loaded value in place.
func (c *Config) applyEnv() {
	c.Particles.Count = env.Int(EnvParticles, c.Particles.Count)
	c.Particles.Threads = env.Int(EnvThreads, c.Particles.Threads)
	c.Screen.TargetFPS = env.Int(EnvTargetFPS, c.Screen.TargetFPS)
}

func (c *Config) validate() error {
	var errs []error
	p := &c.Particles
	if p.Count <= 0 || p.Count > systems.MaxParticles {
		errs = append(errs, fmt.Errorf("particles.count must be in [1, %d], got %d", systems.MaxParticles, p.Count))
	}
	if p.Threads < 0 || p.Threads > systems.MaxThreads {
		errs = append(errs, fmt.Errorf("particles.threads must be in [0, %d], got %d", systems.MaxThreads, p.Threads))
	}
	if p.DT <= 0 {
		errs = append(errs, fmt.Errorf("particles.dt must be positive, got %g", p.DT))
	}
	if len(p.Gravity) != 3 {
		errs = append(errs, fmt.Errorf("particles.gravity needs 3 components, got %d", len(p.Gravity)))
	}
	if len(p.Origin) != 3 {
		errs = append(errs, fmt.Errorf("particles.origin needs 3 components, got %d", len(p.Origin)))
	}
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		errs = append(errs, fmt.Errorf("camera.min_distance %g exceeds max_distance %g",
			c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if t := c.Scene.Terrain; t.Enabled && (t.Size < 2 || t.Size*t.Size > 1<<16) {
		errs = append(errs, fmt.Errorf("scene.terrain.size must be in [2, 256], got %d", t.Size))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	p := &c.Particles
	c.Derived.DT32 = float32(p.DT)
	c.Derived.Duration = float32(p.Duration)
	c.Derived.Force = float32(p.Force)
	c.Derived.Radius = float32(p.EmissionRadius)
	c.Derived.Gravity = vec3(p.Gravity)
	c.Derived.Origin = vec3(p.Origin)

	c.Derived.Threads = p.Threads
	if c.Derived.Threads == 0 {
		c.Derived.Threads = min(runtime.GOMAXPROCS(0), systems.MaxThreads)
	}

	c.Derived.ScreenW = float32(c.Screen.Width)
	c.Derived.ScreenH = float32(c.Screen.Height)
	c.Derived.Fovy32 = float32(c.Camera.Fovy)
}

func vec3(v []float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
