// Package systems contains the particle simulation core: storage, work
// partitioning, the per-particle step and the worker pool that runs it.
package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const tau = 2 * math.Pi

// MaxParticles bounds the store size accepted by NewParticleStore.
const MaxParticles = 1 << 24

// MaxThreads bounds the worker count accepted by NewParticleSystem.
const MaxThreads = 1024

// EmitterParams holds the constants every worker reads during a step.
// They are written before the worker pool starts and never change afterwards.
type EmitterParams struct {
	Origin   mgl32.Vec3 // spawn point for every emission
	Gravity  mgl32.Vec3 // constant acceleration
	Force    float32    // speed of a freshly emitted particle
	Duration float32    // lifetime in seconds before re-emission
	Radius   float32    // horizontal spread of the emission cone
}

// DefaultEmitterParams returns the fountain the demo ships with.
func DefaultEmitterParams() EmitterParams {
	return EmitterParams{
		Gravity:  mgl32.Vec3{0, -9.8, 0},
		Force:    10,
		Duration: 5,
		Radius:   0.5,
	}
}

// ParticleStore holds particle state as parallel slices.
// Slices are sized once and never resized.
type ParticleStore struct {
	Positions  []mgl32.Vec3
	Velocities []mgl32.Vec3
	Durations  []float32
	Elapsed    []float32
}

// NewParticleStore allocates count particles at the emitter origin, fanned out
// radially so they do not all overlap before the first step.
func NewParticleStore(count int, params EmitterParams) *ParticleStore {
	s := &ParticleStore{
		Positions:  make([]mgl32.Vec3, count),
		Velocities: make([]mgl32.Vec3, count),
		Durations:  make([]float32, count),
		Elapsed:    make([]float32, count),
	}

	theta := float32(tau) / float32(count)
	for i := 0; i < count; i++ {
		s.Positions[i] = params.Origin
		s.Velocities[i] = emissionVelocity(float32(i)*theta, &params)
		s.Durations[i] = params.Duration
	}
	return s
}

// Len returns the number of particles in the store.
func (s *ParticleStore) Len() int {
	return len(s.Positions)
}

// emissionVelocity returns the launch velocity for the given cone angle.
func emissionVelocity(angle float32, p *EmitterParams) mgl32.Vec3 {
	sin, cos := math.Sincos(float64(angle))
	dir := mgl32.Vec3{p.Radius * float32(cos), 1, -p.Radius * float32(sin)}
	return dir.Normalize().Mul(p.Force)
}

// EmissionCursor is the running angle used for re-emissions. Each worker owns
// one, so emissions in different ranges never contend.
type EmissionCursor struct {
	Angle float32
	Step  float32
}

// NewEmissionCursor returns a cursor for a range starting at index start in a
// system of count particles.
func NewEmissionCursor(start, count int) EmissionCursor {
	step := float32(tau) / float32(count)
	return EmissionCursor{
		Angle: float32(start) * step,
		Step:  step,
	}
}

// Advance moves the cursor one step and returns the new angle in (0, 2π].
func (c *EmissionCursor) Advance() float32 {
	c.Angle += c.Step
	for c.Angle > tau {
		c.Angle -= tau
	}
	return c.Angle
}

// StepRange advances every particle in r by dt and returns how many were
// re-emitted. Position is integrated with the velocity from before this
// step's gravity increment.
func StepRange(s *ParticleStore, p *EmitterParams, r Range, dt float32, cursor *EmissionCursor) int {
	pos := s.Positions[r.Start:r.End]
	vel := s.Velocities[r.Start:r.End]
	dur := s.Durations[r.Start:r.End]
	elapsed := s.Elapsed[r.Start:r.End]

	gravityStep := p.Gravity.Mul(dt)
	emitted := 0

	for i := range pos {
		elapsed[i] += dt
		if elapsed[i] > dur[i] {
			elapsed[i] = 0
			pos[i] = p.Origin
			vel[i] = emissionVelocity(cursor.Advance(), p)
			emitted++
			continue
		}

		pos[i] = pos[i].Add(vel[i].Mul(dt))
		vel[i] = vel[i].Add(gravityStep)
	}

	return emitted
}
