package workq

import "errors"

// ErrClosed is returned by queue operations once the queue has been
// closed: by [Queue.Pop] and [Receiver.Recv] when the queue is closed
// and drained, and by [Queue.Close] when the queue was already closed.
var ErrClosed = errors.New("workq: queue is closed")

// PushError reports a push rejected by a closed queue. Item carries the
// rejected value back to the caller so it can be cancelled, logged, or
// re-routed. PushError wraps [ErrClosed], so errors.Is(err, ErrClosed)
// holds.
type PushError[T any] struct {
	// Item is the value that was not enqueued.
	Item T
}

func (e *PushError[T]) Error() string {
	return "workq: push on closed queue"
}

// Unwrap returns [ErrClosed].
func (e *PushError[T]) Unwrap() error { return ErrClosed }
