package workq

import (
	"iter"
	"sync"
)

// Queue is a closable FIFO queue safe for any number of concurrent
// pushers and poppers. [Queue.Pop] blocks until an item arrives or the
// queue closes; [Queue.Push] never blocks on an unbounded queue.
//
// Closing is a one-way transition: after [Queue.Close], pushes fail with
// a [*PushError], already-queued items keep draining via Pop, and once
// the queue is empty every Pop returns [ErrClosed] without blocking.
//
// The zero value is not usable; create queues via [New], [NewBounded],
// or [FromSlice].
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	notFull  sync.Cond // bounded queues only
	items    []T
	closed   bool
	capacity int // 0 means unbounded
}

// New creates an empty, open, unbounded queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.notEmpty.L = &q.mu
	q.notFull.L = &q.mu
	return q
}

// NewBounded creates an empty, open queue holding at most capacity
// items. [Queue.Push] on a full bounded queue blocks until a pop frees a
// slot or the queue closes.
//
// Panics if capacity <= 0.
func NewBounded[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic("workq: NewBounded requires capacity > 0")
	}
	q := New[T]()
	q.capacity = capacity
	return q
}

// FromSlice creates an open, unbounded queue pre-loaded with items, in
// order. The slice is copied; the caller keeps ownership of it.
func FromSlice[T any](items []T) *Queue[T] {
	q := New[T]()
	q.items = append(q.items, items...)
	return q
}

// Push appends item to the queue. It returns a [*PushError] carrying the
// item back if the queue was already closed. On an unbounded queue Push
// never blocks; on a bounded queue it blocks while the queue is full and
// still open.
func (q *Queue[T]) Push(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.capacity > 0 && len(q.items) >= q.capacity && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return &PushError[T]{Item: item}
	}

	q.items = append(q.items, item)
	q.notEmpty.Signal()
	return nil
}

// Pop removes and returns the earliest still-queued item, blocking until
// one is available or the queue closes. Once the queue is closed and
// empty, Pop returns [ErrClosed] immediately, never blocking again.
func (q *Queue[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		var zero T
		return zero, ErrClosed
	}

	var zero T
	item := q.items[0]
	q.items[0] = zero // release the popped item to the GC
	q.items = q.items[1:]

	// Wake one more waiter only when it has something to take; waking
	// everything on each pop would stampede idle workers.
	if len(q.items) > 0 {
		q.notEmpty.Signal()
	}
	if q.capacity > 0 {
		q.notFull.Signal()
	}
	return item, nil
}

// Close marks the queue closed and returns a snapshot of the items that
// were still queued, for the caller to inspect, log, or re-route. The
// queue retains those items: pops keep delivering them until the queue
// is empty, and only then report [ErrClosed], so everything pushed
// before the close is still drained exactly once. Every blocked Pop and
// Push wakes and observes the closure. Close is one-shot: a second call
// returns [ErrClosed] and a nil slice.
func (q *Queue[T]) Close() ([]T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, ErrClosed
	}
	q.closed = true
	rest := make([]T, len(q.items))
	copy(rest, q.items)

	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
	return rest, nil
}

// IsClosed reports whether the queue has been closed. It never blocks.
func (q *Queue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of items currently queued. It never blocks.
// The value may be stale by the time the caller acts on it.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// All returns a lazy iteration over popped items. The sequence pulls via
// [Queue.Pop], so it blocks while the queue is open and empty, and stops
// exactly when Pop reports closure. Any number of iterations may run
// concurrently over one queue; each item is delivered to exactly one of
// them.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, err := q.Pop()
			if err != nil {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}
