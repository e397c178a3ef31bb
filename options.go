package workq

import "time"

type poolConfig struct {
	workers    int // 0 means auto-detect
	panicAsErr bool
	onJobDone  func(worker int, d time.Duration)
}

// PoolOption configures a [Pool] or an [Executor]'s embedded pool.
type PoolOption func(*poolConfig)

// WithWorkers fixes the worker count instead of auto-detecting it from
// hardware parallelism.
//
// Panics if n <= 0.
func WithWorkers(n int) PoolOption {
	if n <= 0 {
		panic("workq: WithWorkers requires n > 0")
	}
	return func(c *poolConfig) {
		c.workers = n
	}
}

// WithPanicAsError converts job panics to [*WorkerError] values returned
// from [Pool.Join], instead of re-raising the first captured panic. A
// worker whose job panics also keeps draining under this option, rather
// than exiting with the captured panic.
func WithPanicAsError() PoolOption {
	return func(c *poolConfig) {
		c.panicAsErr = true
	}
}

// WithOnJobDone registers a hook invoked after each job finishes, with
// the executing worker's index and the job's wall-clock duration. The
// hook runs on the worker goroutine, after panic recovery; a panic in
// the hook itself is intentionally unrecovered.
//
// Panics if fn is nil.
func WithOnJobDone(fn func(worker int, d time.Duration)) PoolOption {
	if fn == nil {
		panic("workq: WithOnJobDone requires non-nil callback")
	}
	return func(c *poolConfig) {
		c.onJobDone = fn
	}
}
