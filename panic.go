package workq

import (
	"fmt"
	"runtime"
)

// PanicError wraps a value recovered from a panicking job together with
// the worker goroutine's stack trace captured at the point of the panic.
//
// By default a job panic is re-raised as a *PanicError in [Pool.Join]
// (and therefore in [Executor.Close]). With [WithPanicAsError] it is
// returned as a regular error instead, wrapped in a [*WorkerError] for
// attribution.
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	// Stack is the worker's stack trace at the point of panic.
	Stack string
}

// Error returns the panic value followed by the full stack trace.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap returns nil. PanicError does not wrap another error.
func (e *PanicError) Unwrap() error { return nil }

func newPanicError(v any) *PanicError {
	// 8 KiB holds most stack traces; runtime.Stack truncates gracefully
	// if the buffer is too small.
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}

// WorkerError attributes a job failure to the pool worker that executed
// the job. [Pool.Join] wraps every captured panic in a WorkerError when
// [WithPanicAsError] is set, so callers can tell which workers failed.
type WorkerError struct {
	// Worker is the zero-based index of the worker within its pool.
	Worker int

	// Err is the underlying failure, a [*PanicError] for job panics.
	Err error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("workq: worker %d: %v", e.Worker, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }
