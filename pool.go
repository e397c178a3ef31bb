package workq

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Job is a zero-argument unit of work, executed exactly once by
// whichever pool worker pops it. Jobs must be safe to hand to another
// goroutine; they own everything they capture.
type Job = func()

// DefaultWorkers is the worker count used when the hardware parallelism
// probe yields an unusable value.
const DefaultWorkers = 4

// Pool is a fixed-size worker pool draining jobs from a shared
// [Receiver]. Workers start immediately on construction and run until
// the receiver's queue is closed and drained; closing that queue (by
// closing the last [Sender] handle, or directly) is the only way to
// stop them.
//
// Jobs are delivered in FIFO order from the queue, but there is no
// ordering guarantee on completion across workers.
type Pool struct {
	src     *Receiver[Job]
	workers int
	cfg     poolConfig

	wg     sync.WaitGroup
	exited atomic.Int64

	// Observability counters.
	active   atomic.Int64
	executed atomic.Int64
	panicked atomic.Int64

	panicMu    sync.Mutex
	panics     []*WorkerError
	firstPanic *PanicError

	joinOnce  sync.Once
	joinErr   error
	joinPanic *PanicError
}

// PoolStats provides a point-in-time snapshot of pool activity.
type PoolStats struct {
	Workers    int   // worker count (fixed at creation)
	Active     int64 // jobs currently executing
	Executed   int64 // jobs finished (including panicked)
	Panicked   int64 // jobs that panicked
	QueueDepth int   // jobs waiting in the shared queue
}

// NewPool spawns a pool of workers over r. Each worker drains its own
// clone of r until the underlying queue is closed and empty. The worker
// count comes from [WithWorkers] if given, otherwise from the hardware
// parallelism probe with a [DefaultWorkers] fallback.
//
// The pool must be finalized with [Pool.Join]. Panics if r is nil.
func NewPool(r *Receiver[Job], opts ...PoolOption) *Pool {
	if r == nil {
		panic("workq: NewPool requires non-nil Receiver")
	}

	var cfg poolConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	n := cfg.workers
	if n == 0 {
		n = detectWorkers()
	}

	p := &Pool{
		src:     r,
		workers: n,
		cfg:     cfg,
	}

	p.wg.Add(n)
	for id := range n {
		go p.worker(id, r.Clone())
	}
	return p
}

func detectWorkers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return DefaultWorkers
}

func (p *Pool) worker(id int, src *Receiver[Job]) {
	// exited must be visible before the Join waiter is released, so
	// IsFinished is already true for anyone unblocked by Join.
	defer p.wg.Done()
	defer p.exited.Add(1)

	for {
		job, err := src.Recv()
		if err != nil {
			return
		}
		if pe := p.runJob(id, job); pe != nil {
			p.recordPanic(id, pe)
			if !p.cfg.panicAsErr {
				// The panic killed this worker, as it would have
				// killed a dedicated thread. Siblings keep draining.
				return
			}
		}
	}
}

func (p *Pool) runJob(id int, job Job) (pe *PanicError) {
	p.active.Add(1)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			pe = newPanicError(r)
			p.panicked.Add(1)
		}
		p.active.Add(-1)
		p.executed.Add(1)
		if p.cfg.onJobDone != nil {
			p.cfg.onJobDone(id, time.Since(start))
		}
	}()
	job()
	return nil
}

func (p *Pool) recordPanic(id int, pe *PanicError) {
	p.panicMu.Lock()
	defer p.panicMu.Unlock()
	p.panics = append(p.panics, &WorkerError{Worker: id, Err: pe})
	if p.firstPanic == nil {
		p.firstPanic = pe
	}
}

// IsFinished reports whether every worker has exited. It never blocks
// and is safe to poll repeatedly.
func (p *Pool) IsFinished() bool {
	return p.exited.Load() == int64(p.workers)
}

// Join blocks until every worker has exited, then surfaces captured job
// panics: by default it re-raises the first [*PanicError]; with
// [WithPanicAsError] it returns all captured panics as [*WorkerError]s
// joined via [errors.Join]. One worker's panic never prevents the others
// from being joined.
//
// Join only returns once the receiver's queue has been closed and
// drained; a producer that never closes its sender handles keeps the
// pool alive forever. Join is idempotent.
func (p *Pool) Join() error {
	p.joinOnce.Do(func() {
		p.wg.Wait()

		p.panicMu.Lock()
		defer p.panicMu.Unlock()
		if len(p.panics) == 0 {
			return
		}
		if p.cfg.panicAsErr {
			errs := make([]error, len(p.panics))
			for i, we := range p.panics {
				errs[i] = we
			}
			p.joinErr = errors.Join(errs...)
		} else {
			p.joinPanic = p.firstPanic
		}
	})

	if p.joinPanic != nil {
		panic(p.joinPanic)
	}
	return p.joinErr
}

// Stats returns a point-in-time snapshot of pool activity.
// Safe to call concurrently.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:    p.workers,
		Active:     p.active.Load(),
		Executed:   p.executed.Load(),
		Panicked:   p.panicked.Load(),
		QueueDepth: p.src.Queue().Len(),
	}
}

// Workers returns the pool's fixed worker count.
func (p *Pool) Workers() int { return p.workers }
