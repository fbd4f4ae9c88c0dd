package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrShutDown is returned by Update after Shutdown.
	ErrShutDown = errors.New("particle system shut down")
	// ErrWorkerFailed is returned by Update once any worker has failed.
	// The failure is permanent for the lifetime of the system.
	ErrWorkerFailed = errors.New("particle worker failed")
)

// ParticleSystem owns a particle store and the worker pool that advances it.
// Update, Shutdown and the accessors must be called from a single
// coordinating goroutine.
type ParticleSystem struct {
	params EmitterParams
	store  *ParticleStore
	count  int
	dt     float32
	ranges []Range
	pool   *workerPool

	frames   uint64
	emitted  int
	err      error
	shutdown bool
}

// NewParticleSystem allocates and seeds count particles, partitions them over
// threadCount workers and starts the workers parked on their wake signal.
func NewParticleSystem(params EmitterParams, count, threadCount int, dt float32) (*ParticleSystem, error) {
	return newParticleSystem(params, count, threadCount, dt, nil)
}

func newParticleSystem(params EmitterParams, count, threadCount int, dt float32, step stepFunc) (*ParticleSystem, error) {
	if count <= 0 || count > MaxParticles {
		return nil, fmt.Errorf("particle count %d out of range [1, %d]", count, MaxParticles)
	}
	if !(dt > 0) || math.IsInf(float64(dt), 0) {
		return nil, fmt.Errorf("time step must be positive and finite, got %v", dt)
	}
	if threadCount > MaxThreads {
		return nil, fmt.Errorf("thread count %d exceeds %d", threadCount, MaxThreads)
	}
	if threadCount < 1 {
		threadCount = 1
	}

	s := &ParticleSystem{
		params: params,
		store:  NewParticleStore(count, params),
		count:  count,
		dt:     dt,
		ranges: Partition(count, threadCount),
	}
	if step == nil {
		step = s.stepWorker
	}

	s.pool = newWorkerPool(s.ranges, count, step)
	s.pool.start()

	slog.Info("particle system initialized",
		"particles", count,
		"threads", threadCount,
		"dt", dt,
		"force", params.Force,
		"duration", params.Duration,
	)

	return s, nil
}

// stepWorker is the default step: advance the worker's range by one dt.
func (s *ParticleSystem) stepWorker(w *worker) {
	w.emitted = StepRange(s.store, &s.params, w.span, s.dt, &w.cursor)
}

// Update advances the simulation by one time step. It returns only after
// every worker has finished its range and is parked again, so positions may
// be read as soon as it returns.
func (s *ParticleSystem) Update() error {
	if s.shutdown {
		return ErrShutDown
	}
	if s.err != nil {
		return s.err
	}

	if err := s.pool.dispatch(); err != nil {
		s.err = err
		return err
	}

	s.emitted = 0
	for _, w := range s.pool.workers {
		s.emitted += w.emitted
	}
	s.frames++
	return nil
}

// Shutdown stops the workers and releases the particle store. Further
// Update calls return ErrShutDown. Safe to call more than once.
func (s *ParticleSystem) Shutdown() {
	if s.shutdown {
		return
	}
	s.shutdown = true
	s.pool.stop()
	s.store = nil

	slog.Info("particle system shut down", "frames", s.frames)
}

// Positions returns the live position slice. It is only valid between
// Update calls and is nil after Shutdown.
func (s *ParticleSystem) Positions() []mgl32.Vec3 {
	if s.store == nil {
		return nil
	}
	return s.store.Positions
}

// Store returns the underlying particle store, nil after Shutdown.
func (s *ParticleSystem) Store() *ParticleStore {
	return s.store
}

// Count returns the particle count fixed at initialization.
func (s *ParticleSystem) Count() int {
	return s.count
}

// Threads returns the number of workers.
func (s *ParticleSystem) Threads() int {
	return len(s.ranges)
}

// Ranges returns a copy of the per-worker index ranges.
func (s *ParticleSystem) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Params returns the emitter constants.
func (s *ParticleSystem) Params() EmitterParams {
	return s.params
}

// TimeStep returns the fixed simulation dt.
func (s *ParticleSystem) TimeStep() float32 {
	return s.dt
}

// Frames returns the number of completed updates.
func (s *ParticleSystem) Frames() uint64 {
	return s.frames
}

// Emitted returns how many particles were re-emitted by the last update.
func (s *ParticleSystem) Emitted() int {
	return s.emitted
}

// Err returns the sticky worker failure, if any.
func (s *ParticleSystem) Err() error {
	return s.err
}

// WorkerStates returns a snapshot of each worker's lifecycle state.
func (s *ParticleSystem) WorkerStates() []WorkerState {
	return s.pool.states()
}
