package workq

import "sync"

// Executor owns a job queue, a [Sender] pre-attached to it, and a
// lazily started [Pool] consuming from it. It is the usual top-level
// composition: producers submit through the executor, workers drain the
// embedded queue, and [Executor.Close] tears both down in the one order
// that cannot deadlock.
//
// An Executor is usable as a long-lived package variable: jobs submitted
// before [Executor.Start] simply accumulate in the queue and drain once
// the workers begin.
type Executor struct {
	q      *Queue[Job]
	sender *Sender[Job]
	opts   []PoolOption

	mu     sync.Mutex
	pool   *Pool
	closed bool
}

// NewExecutor creates an executor with a fresh, empty, open queue and an
// attached sender, but no workers yet. Call [Executor.Start] to begin
// execution. The options configure the pool built by Start.
func NewExecutor(opts ...PoolOption) *Executor {
	q := New[Job]()
	return &Executor{
		q:      q,
		sender: NewSender(q),
		opts:   opts,
	}
}

// Start spins up the worker pool over the embedded queue. Starting an
// already-started executor does nothing; so does starting one that has
// been closed.
func (e *Executor) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pool != nil || e.closed {
		return
	}
	e.pool = NewPool(NewReceiver(e.q), e.opts...)
}

// Sender returns the executor's attached sender handle, for producers
// that want to enqueue directly or hand out clones. Valid before and
// after Start.
func (e *Executor) Sender() *Sender[Job] { return e.sender }

// Submit enqueues job through the attached sender. Returns a
// [*PushError] once the executor has been closed.
//
// Panics if job is nil.
func (e *Executor) Submit(job Job) error {
	if job == nil {
		panic("workq: Submit requires non-nil job")
	}
	return e.sender.Send(job)
}

// Stats returns the pool's activity snapshot, or the zero PoolStats if
// the executor has not been started.
func (e *Executor) Stats() PoolStats {
	e.mu.Lock()
	pool := e.pool
	e.mu.Unlock()
	if pool == nil {
		return PoolStats{}
	}
	return pool.Stats()
}

// Close tears the executor down: it closes the attached sender first —
// closing the queue and releasing any workers blocked on it — and only
// then joins the pool. Reversing that order would join workers that
// block forever on a queue nobody closes.
//
// Already-queued jobs still drain before the workers exit. The result is
// the pool's [Pool.Join] outcome: a re-raised [*PanicError] for a job
// panic by default, or the joined [*WorkerError]s with
// [WithPanicAsError]. Close on a never-started executor just closes the
// queue. Idempotent.
//
// Liveness contract: if producers hold live clones of [Executor.Sender],
// the queue stays open and Close blocks until they close them. That is
// by design, not an error state.
func (e *Executor) Close() error {
	e.mu.Lock()
	pool := e.pool
	e.closed = true
	e.mu.Unlock()

	_ = e.sender.Close()
	if pool == nil {
		return nil
	}
	return pool.Join()
}
