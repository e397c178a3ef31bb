package workq

import "sync/atomic"

// Sender is a producer handle over a shared [Queue]. Handles are
// reference-counted: [Sender.Clone] adds a live handle, and closing the
// last live handle closes the queue. That closure is the sole mechanism
// by which pool workers learn to stop, so producers must close every
// handle they hold once they are done submitting.
type Sender[T any] struct {
	q      *Queue[T]
	live   *atomic.Int64 // live handles across all clones
	closed atomic.Bool   // this handle
}

// NewSender creates the first sender handle for q.
//
// Panics if q is nil.
func NewSender[T any](q *Queue[T]) *Sender[T] {
	if q == nil {
		panic("workq: NewSender requires non-nil queue")
	}
	live := &atomic.Int64{}
	live.Add(1)
	return &Sender[T]{q: q, live: live}
}

// Endpoints creates a sender and a receiver over q. Equivalent to
// calling [NewSender] and [NewReceiver] separately.
func Endpoints[T any](q *Queue[T]) (*Sender[T], *Receiver[T]) {
	return NewSender(q), NewReceiver(q)
}

// Send pushes item onto the queue. It returns a [*PushError] carrying
// the item back if the queue was closed, or if this handle has already
// been closed.
func (s *Sender[T]) Send(item T) error {
	if s.closed.Load() {
		return &PushError[T]{Item: item}
	}
	return s.q.Push(item)
}

// Clone returns a new live handle sharing the same queue. The queue
// stays open until every handle has been closed.
//
// Panics if called on a closed handle: a closed handle has already given
// up its share of the queue's lifetime.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed.Load() {
		panic("workq: Clone of closed Sender")
	}
	s.live.Add(1)
	return &Sender[T]{q: s.q, live: s.live}
}

// Close closes this handle. When it is the last live handle for the
// queue, the queue itself is closed, waking every blocked worker.
// Close is idempotent per handle and always returns nil for a handle
// that was still open; leftover queued items keep draining through
// receivers as usual.
func (s *Sender[T]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.live.Add(-1) > 0 {
		return nil
	}
	// Last handle. An error here means someone closed the queue
	// directly; the handle's obligation is discharged either way.
	_, _ = s.q.Close()
	return nil
}

// Queue returns the underlying shared queue.
func (s *Sender[T]) Queue() *Queue[T] { return s.q }
