// File: engine/handle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package engine

import (
	"time"

	"github.com/momentics/hioload-exec/api"
	"github.com/momentics/hioload-exec/core/concurrency"
)

// Handle is the caller's reference to one submitted task's outcome. It owns
// nothing but the promise; dropping it unread is legal, the worker side keeps
// the promise alive until the outcome is written.
type Handle struct {
	id      string
	promise *concurrency.Promise[any]
}

// Ensure compile-time interface compliance.
var _ api.Handle = (*Handle)(nil)

// ID returns the work item identifier.
func (h *Handle) ID() string { return h.id }

// Wait blocks until the task's outcome is stored and returns it.
func (h *Handle) Wait() (any, error) {
	return h.promise.Wait()
}

// TryWait waits up to timeout; ok=false with api.ErrStillPending if the task
// has not finished in time.
func (h *Handle) TryWait(timeout time.Duration) (any, bool, error) {
	return h.promise.TryWait(timeout)
}

// Done exposes the completion signal for select-based composition.
func (h *Handle) Done() <-chan struct{} { return h.promise.Done() }
