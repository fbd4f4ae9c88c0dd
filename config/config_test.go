package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Particles.Count != 10000 {
		t.Errorf("expected 10000 particles, got %d", cfg.Particles.Count)
	}
	if cfg.Derived.Threads != 4 {
		t.Errorf("expected 4 threads, got %d", cfg.Derived.Threads)
	}
	if !cfg.Derived.Gravity.ApproxEqual(mgl32.Vec3{0, -9.8, 0}) {
		t.Errorf("expected gravity (0,-9.8,0), got %v", cfg.Derived.Gravity)
	}
	if !cfg.Derived.Origin.ApproxEqual(mgl32.Vec3{0, 0.5, 0}) {
		t.Errorf("expected origin (0,0.5,0), got %v", cfg.Derived.Origin)
	}
	if cfg.Derived.DT32 <= 0 {
		t.Errorf("expected positive dt, got %f", cfg.Derived.DT32)
	}
}

func TestParseOverridesOnlyPresentFields(t *testing.T) {
	cfg, err := Parse([]byte("particles:\n  count: 64\n  threads: 0\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Particles.Count != 64 {
		t.Errorf("expected count 64, got %d", cfg.Particles.Count)
	}
	// Untouched fields keep their defaults
	if cfg.Particles.Force != 10 {
		t.Errorf("expected default force 10, got %f", cfg.Particles.Force)
	}
	if cfg.Derived.Threads != runtime.GOMAXPROCS(0) {
		t.Errorf("threads 0 should resolve to GOMAXPROCS, got %d", cfg.Derived.Threads)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
		want string
	}{
		{"zero count", "particles:\n  count: 0\n", "particles.count"},
		{"count too large", "particles:\n  count: 100000000\n", "particles.count"},
		{"negative threads", "particles:\n  threads: -1\n", "particles.threads"},
		{"too many threads", "particles:\n  threads: 4096\n", "particles.threads"},
		{"negative dt", "particles:\n  dt: -1\n", "particles.dt"},
		{"short gravity", "particles:\n  gravity: [0, -9.8]\n", "particles.gravity"},
		{"camera range", "camera:\n  min_distance: 10\n  max_distance: 1\n", "camera.min_distance"},
		{"terrain too large", "scene:\n  terrain:\n    size: 512\n", "scene.terrain.size"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Particles.Count = 123

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Particles.Count != 123 {
		t.Errorf("expected count 123 after reload, got %d", loaded.Particles.Count)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvParticles, "2048")
	t.Setenv(EnvThreads, "3")
	t.Setenv(EnvTargetFPS, "not-a-number")

	cfg, err := Parse([]byte("particles:\n  count: 64\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.Particles.Count != 2048 {
		t.Errorf("expected env particle count 2048, got %d", cfg.Particles.Count)
	}
	if cfg.Derived.Threads != 3 {
		t.Errorf("expected env thread count 3, got %d", cfg.Derived.Threads)
	}
	// Malformed values keep the loaded value
	if cfg.Screen.TargetFPS != 60 {
		t.Errorf("expected target fps 60, got %d", cfg.Screen.TargetFPS)
	}
}

func TestEnvOverrideStillValidated(t *testing.T) {
	t.Setenv(EnvThreads, "-2")

	if _, err := Parse(nil); err == nil {
		t.Error("expected negative env thread count to be rejected")
	}
}
