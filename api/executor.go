// Package api
// Author: momentics
//
// Executor contract for asynchronous task dispatch.

package api

import "time"

// Executor abstracts asynchronous task execution behind the engine facade.
type Executor interface {
	// Submit schedules task for execution. It blocks only on queue
	// backpressure and returns ErrEngineStopped after shutdown.
	Submit(task Task) (Handle, error)

	// NumWorkers returns the configured worker parallelism degree.
	NumWorkers() int
}

// Handle is the caller-side view of one submitted task's outcome. Dropping a
// handle without reading it is legal (fire-and-forget); the outcome slot is
// kept alive by the worker side.
type Handle interface {
	// ID returns the work item identifier, unique and monotonically
	// increasing within the process.
	ID() string

	// Wait blocks until the outcome is available and returns it. All
	// concurrent waiters observe the same stored outcome.
	Wait() (any, error)

	// TryWait waits up to timeout. ok=false with ErrStillPending means the
	// outcome was not available in time; the waiter is suspended, not spun.
	TryWait(timeout time.Duration) (value any, ok bool, err error)
}
