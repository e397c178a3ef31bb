package workq

import "iter"

// Receiver is a consumer handle over a shared [Queue]. Receivers are
// cheap views: cloning one yields an equally valid handle onto the same
// queue, which is how pool workers each get their own handle without
// copying queue state. The "single consumer" shape of the usual
// sender/receiver pairing is intent, not an enforced restriction.
type Receiver[T any] struct {
	q *Queue[T]
}

// NewReceiver creates a receiver handle for q.
//
// Panics if q is nil.
func NewReceiver[T any](q *Queue[T]) *Receiver[T] {
	if q == nil {
		panic("workq: NewReceiver requires non-nil queue")
	}
	return &Receiver[T]{q: q}
}

// Recv pops the next item, blocking until one is available or the queue
// closes. Returns [ErrClosed] once the queue is closed and drained.
func (r *Receiver[T]) Recv() (T, error) {
	return r.q.Pop()
}

// Clone returns a new handle onto the same queue.
func (r *Receiver[T]) Clone() *Receiver[T] {
	return &Receiver[T]{q: r.q}
}

// All returns a lazy iteration over received items, stopping when the
// queue is closed and drained. The iteration is not restartable after
// exhaustion, but fresh iterations may be created at any time; state
// lives in the shared queue, not the iterator.
func (r *Receiver[T]) All() iter.Seq[T] {
	return r.q.All()
}

// Queue returns the underlying shared queue.
func (r *Receiver[T]) Queue() *Queue[T] { return r.q }
