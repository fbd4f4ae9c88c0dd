package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewParticleStoreSeedsRadialFan(t *testing.T) {
	params := DefaultEmitterParams()
	params.Origin = mgl32.Vec3{1, 2, 3}
	store := NewParticleStore(8, params)

	if store.Len() != 8 {
		t.Fatalf("expected 8 particles, got %d", store.Len())
	}

	for i := 0; i < store.Len(); i++ {
		if store.Positions[i] != params.Origin {
			t.Errorf("particle %d: expected position at origin, got %v", i, store.Positions[i])
		}
		if store.Elapsed[i] != 0 {
			t.Errorf("particle %d: expected elapsed 0, got %f", i, store.Elapsed[i])
		}
		if store.Durations[i] != params.Duration {
			t.Errorf("particle %d: expected duration %f, got %f", i, params.Duration, store.Durations[i])
		}

		v := store.Velocities[i]
		if math.Abs(float64(v.Len()-params.Force)) > 1e-4 {
			t.Errorf("particle %d: expected speed %f, got %f", i, params.Force, v.Len())
		}

		// Horizontal direction follows θ_i = i·2π/count
		want := float64(i) * 2 * math.Pi / 8
		got := math.Atan2(float64(-v.Z()), float64(v.X()))
		if got < 0 {
			got += 2 * math.Pi
		}
		if math.Abs(got-want) > 1e-4 {
			t.Errorf("particle %d: expected angle %f, got %f", i, want, got)
		}
	}
}

func TestEmissionCursorWraps(t *testing.T) {
	cursor := NewEmissionCursor(0, 4) // step π/2

	for i := 1; i <= 9; i++ {
		got := cursor.Advance()
		if got <= 0 || float64(got) > 2*math.Pi+1e-5 {
			t.Fatalf("advance %d: angle %f outside (0, 2π]", i, got)
		}
		want := float64(i) * math.Pi / 2
		if d := angleDiff(float64(got), want); d > 1e-4 {
			t.Errorf("advance %d: expected %f mod 2π, got %f", i, want, got)
		}
	}
}

// angleDiff returns the absolute difference between two angles modulo 2π.
func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

func TestStepIntegrationOrder(t *testing.T) {
	params := DefaultEmitterParams()
	params.Gravity = mgl32.Vec3{0, -10, 0}
	store := NewParticleStore(1, params)

	p0 := mgl32.Vec3{1, 2, 3}
	v0 := mgl32.Vec3{4, 5, 6}
	store.Positions[0] = p0
	store.Velocities[0] = v0

	dt := float32(0.25)
	cursor := NewEmissionCursor(0, 1)
	emitted := StepRange(store, &params, Range{0, 1}, dt, &cursor)

	if emitted != 0 {
		t.Fatalf("expected no emission, got %d", emitted)
	}

	// Position must use the velocity from before gravity was applied
	wantP := p0.Add(v0.Mul(dt))
	wantV := v0.Add(params.Gravity.Mul(dt))
	if store.Positions[0] != wantP {
		t.Errorf("expected position %v, got %v", wantP, store.Positions[0])
	}
	if store.Velocities[0] != wantV {
		t.Errorf("expected velocity %v, got %v", wantV, store.Velocities[0])
	}
	if store.Elapsed[0] != dt {
		t.Errorf("expected elapsed %f, got %f", dt, store.Elapsed[0])
	}
}

func TestStepEmissionReset(t *testing.T) {
	params := DefaultEmitterParams()
	params.Origin = mgl32.Vec3{0, 0.5, 0}
	store := NewParticleStore(6, params)

	// Scatter particles and push half past their lifetime
	for i := 0; i < store.Len(); i++ {
		store.Positions[i] = mgl32.Vec3{float32(i), -3, float32(i) * 2}
		if i%2 == 0 {
			store.Elapsed[i] = params.Duration + 1
		} else {
			store.Elapsed[i] = 1
		}
	}

	cursor := NewEmissionCursor(0, store.Len())
	emitted := StepRange(store, &params, Range{0, store.Len()}, 0.1, &cursor)

	if emitted != 3 {
		t.Errorf("expected 3 emissions, got %d", emitted)
	}
	for i := 0; i < store.Len(); i += 2 {
		if store.Elapsed[i] != 0 {
			t.Errorf("particle %d: expected elapsed reset to 0, got %f", i, store.Elapsed[i])
		}
		if store.Positions[i] != params.Origin {
			t.Errorf("particle %d: expected position reset to origin, got %v", i, store.Positions[i])
		}
	}
	for i := 1; i < store.Len(); i += 2 {
		if store.Positions[i] == params.Origin {
			t.Errorf("particle %d: should not have been emitted", i)
		}
	}
}

func TestStepOnlyTouchesRange(t *testing.T) {
	params := DefaultEmitterParams()
	store := NewParticleStore(10, params)
	before := make([]mgl32.Vec3, store.Len())
	copy(before, store.Positions)

	cursor := NewEmissionCursor(3, store.Len())
	StepRange(store, &params, Range{3, 7}, 0.5, &cursor)

	for i := 0; i < store.Len(); i++ {
		inside := i >= 3 && i < 7
		changed := store.Positions[i] != before[i]
		if inside != changed {
			t.Errorf("particle %d: inside=%v changed=%v", i, inside, changed)
		}
	}
}
