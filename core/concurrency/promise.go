// File: core/concurrency/promise.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Promise is a one-shot, single-producer outcome slot shared between the
// worker that computes a value and the handle held by the caller. The only
// state transitions are pending→success and pending→failure, both terminal.
// Completion is broadcast by closing a channel, so any number of waiters
// wake exactly once and read the same stored outcome.

package concurrency

import (
	"sync"
	"time"

	"github.com/momentics/hioload-exec/api"
)

// Promise holds exactly one of {pending, success(value), failure(error)}.
// The mutex is the single synchronization boundary for the outcome slot.
type Promise[T any] struct {
	mu      sync.Mutex
	settled bool
	done    chan struct{}
	value   T
	err     error
}

// NewPromise creates a promise in the pending state.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Complete transitions pending→success. A second transition of any kind
// returns api.ErrAlreadyCompleted; the stored outcome is never overwritten.
func (p *Promise[T]) Complete(value T) error {
	return p.settle(value, nil)
}

// Fail transitions pending→failure with the given cause.
func (p *Promise[T]) Fail(cause error) error {
	var zero T
	return p.settle(zero, cause)
}

// settle performs the one-shot transition. The value and err fields are
// written strictly before the done channel is closed; waiters read them only
// after observing the close, so no torn outcome is ever visible.
func (p *Promise[T]) settle(value T, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.settled {
		return api.ErrAlreadyCompleted
	}
	p.settled = true
	p.value = value
	p.err = err
	close(p.done)
	return nil
}

// Wait blocks the caller until the promise leaves pending and returns the
// stored outcome. Multiple concurrent waiters are permitted.
func (p *Promise[T]) Wait() (T, error) {
	<-p.done
	return p.value, p.err
}

// TryWait waits up to timeout. It returns ok=false with api.ErrStillPending
// if the promise is still pending when the timeout elapses. The waiter is
// suspended on the completion channel, never spinning.
func (p *Promise[T]) TryWait(timeout time.Duration) (value T, ok bool, err error) {
	select {
	case <-p.done:
		return p.value, true, p.err
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-p.done:
		return p.value, true, p.err
	case <-timer.C:
		var zero T
		return zero, false, api.ErrStillPending
	}
}

// Done exposes the completion signal for select-based composition.
func (p *Promise[T]) Done() <-chan struct{} { return p.done }
