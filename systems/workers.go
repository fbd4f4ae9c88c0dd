package systems

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// WorkerState is the lifecycle state of a particle worker.
type WorkerState int32

const (
	WorkerIdle WorkerState = iota
	WorkerRunning
	WorkerExited
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerRunning:
		return "running"
	case WorkerExited:
		return "exited"
	}
	return fmt.Sprintf("WorkerState(%d)", int32(s))
}

// worker is bound to one index range for the lifetime of the pool.
type worker struct {
	id      int
	span    Range
	cursor  EmissionCursor
	emitted int

	wake  chan struct{} // go signal, capacity 1
	state atomic.Int32
}

// workerResult is sent on the done channel once per wake.
type workerResult struct {
	id  int
	err error
}

// stepFunc runs the simulation step for one worker's range.
type stepFunc func(w *worker)

// workerPool runs a fixed set of goroutines with one fan-out/fan-in barrier
// per dispatch.
type workerPool struct {
	workers []*worker
	step    stepFunc

	done    chan workerResult // workers signal completion
	running atomic.Bool       // cleared only by stop
	wg      sync.WaitGroup    // tracks live workers
}

func newWorkerPool(ranges []Range, count int, step stepFunc) *workerPool {
	p := &workerPool{
		workers: make([]*worker, len(ranges)),
		step:    step,
		done:    make(chan workerResult, len(ranges)),
	}
	for i, r := range ranges {
		p.workers[i] = &worker{
			id:     i,
			span:   r,
			cursor: NewEmissionCursor(r.Start, count),
			wake:   make(chan struct{}, 1),
		}
	}
	return p
}

// start launches one goroutine per worker, each parked on its wake signal.
func (p *workerPool) start() {
	p.running.Store(true)
	for _, w := range p.workers {
		p.wg.Add(1)
		go p.run(w)
	}
}

// run is the worker loop.
func (p *workerPool) run(w *worker) {
	defer p.wg.Done()
	defer w.state.Store(int32(WorkerExited))

	slog.Debug("particle worker started", "worker", w.id, "start", w.span.Start, "end", w.span.End)

	for p.running.Load() {
		<-w.wake
		if !p.running.Load() {
			break
		}

		w.state.Store(int32(WorkerRunning))
		err := p.execute(w)
		w.state.Store(int32(WorkerIdle))

		p.done <- workerResult{id: w.id, err: err}
		if err != nil {
			slog.Error("particle worker failed", "worker", w.id, "error", err)
			return
		}
	}

	slog.Debug("particle worker exiting", "worker", w.id)
}

// execute runs the step, turning a panic into an error for the coordinator.
func (p *workerPool) execute(w *worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: worker %d [%d, %d): %v", ErrWorkerFailed, w.id, w.span.Start, w.span.End, r)
		}
	}()
	p.step(w)
	return nil
}

// dispatch wakes every worker and blocks until all of them report done.
// Returns the first worker failure, if any.
func (p *workerPool) dispatch() error {
	for _, w := range p.workers {
		w.wake <- struct{}{}
	}

	var firstErr error
	for range p.workers {
		res := <-p.done
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
	}
	return firstErr
}

// stop clears the running flag, releases every parked worker and waits for
// all of them to exit. Safe to call more than once.
func (p *workerPool) stop() {
	if !p.running.Swap(false) {
		return
	}

	for _, w := range p.workers {
		select {
		case w.wake <- struct{}{}:
		default:
			// Already signalled; the worker will see the cleared flag.
		}
	}
	p.wg.Wait()

	for _, w := range p.workers {
		close(w.wake)
	}
}

// states returns a snapshot of every worker's state.
func (p *workerPool) states() []WorkerState {
	out := make([]WorkerState, len(p.workers))
	for i, w := range p.workers {
		out[i] = WorkerState(w.state.Load())
	}
	return out
}
