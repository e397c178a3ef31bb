// Package workq provides a closable, blocking FIFO job queue and a
// fixed-size worker pool that drains it, composed behind an executor
// with deadlock-free teardown.
//
// The pieces are deliberately small: a [Queue] is the only shared
// mutable state, sender/receiver handles scope who may push and who may
// pop, and closing the queue is the single shutdown signal the whole
// system needs.
//
// # Queue
//
// [Queue] is safe for any number of concurrent pushers and poppers.
// [Queue.Pop] blocks until an item arrives; [Queue.Push] is
// non-blocking. [Queue.Close] is a one-way transition that hands the
// closer whatever was still queued and wakes every blocked waiter; after
// that, pops drain the nothing that remains and report [ErrClosed]
// immediately. [NewBounded] adds an opt-in capacity under which Push
// blocks while the queue is full.
//
//	q := workq.New[int]()
//	q.Push(1)
//	v, err := q.Pop()
//
// # Endpoints
//
// [Endpoints] splits a queue into a [Sender] and a [Receiver]. Sender
// handles are reference-counted: producers clone one handle each, and
// the queue closes when the last handle does — that closure is how
// workers learn to stop. Receivers are cheap cloneable views with pull
// iteration via [Receiver.All]:
//
//	tx, rx := workq.Endpoints(q)
//	go func() {
//	    defer tx.Close()
//	    tx.Send(42)
//	}()
//	for v := range rx.All() {
//	    use(v)
//	}
//
// # Pool
//
// [NewPool] spawns one goroutine per detected CPU (overridable with
// [WithWorkers], falling back to [DefaultWorkers]), each draining a
// receiver clone until closure. [Pool.IsFinished] is a non-blocking
// completion check; [Pool.Join] blocks until every worker has exited.
// A job panic is captured with its stack and re-raised at Join — or
// returned as [*WorkerError] values with [WithPanicAsError] — and never
// prevents sibling workers from being joined.
//
// # Executor
//
// [Executor] pins the pieces together: it owns a queue and a
// pre-attached sender from construction, and [Executor.Start] lazily
// spins up the pool. [Executor.Close] closes the sender strictly before
// joining the pool, so blocked workers always wake before anyone waits
// on them.
//
//	e := workq.NewExecutor()
//	e.Start()
//	e.Submit(func() { work() })
//	err := e.Close()
//
// There is no mid-job cancellation and no timeout in this core: once
// popped, a job runs to completion on its worker, and the only
// cancellation lever is closing the queue. A producer that never closes
// its sender handles keeps the pool alive forever; that liveness
// contract is the caller's to honor.
package workq
