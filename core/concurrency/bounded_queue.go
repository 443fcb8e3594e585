// File: core/concurrency/bounded_queue.go
// Package concurrency provides the blocking bounded FIFO feeding the pool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BoundedQueue is a mutex-and-condvar FIFO over an eapache ring queue. Every
// suspension point (full push, empty pop) parks on a condition variable and
// is woken by the opposite operation or by Close; no path busy-polls. The
// internal ring is touched only under the single mutex.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-exec/api"
)

// BoundedQueue is a thread-safe FIFO with blocking and non-blocking variants
// of both ends. Capacity 0 means no bound (pushes never block).
type BoundedQueue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	items    *queue.Queue
	capacity int
	closed   bool
}

// NewBoundedQueue creates an open queue with the given capacity bound.
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	if capacity < 0 {
		capacity = 0
	}
	q := &BoundedQueue[T]{
		items:    queue.New(),
		capacity: capacity,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push inserts item at the tail, blocking while the queue is at capacity.
// Returns api.ErrQueueClosed if the queue is closed before the insert lands.
func (q *BoundedQueue[T]) Push(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.closed && q.capacity > 0 && q.items.Length() >= q.capacity {
		q.notFull.Wait()
	}
	if q.closed {
		return api.ErrQueueClosed
	}
	q.items.Add(item)
	q.notEmpty.Signal()
	return nil
}

// TryPush inserts item without blocking. It fails with api.ErrQueueFull at
// capacity and api.ErrQueueClosed after close.
func (q *BoundedQueue[T]) TryPush(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return api.ErrQueueClosed
	}
	if q.capacity > 0 && q.items.Length() >= q.capacity {
		return api.ErrQueueFull
	}
	q.items.Add(item)
	q.notEmpty.Signal()
	return nil
}

// Pop removes the head item, blocking while the queue is empty and open.
// After Close it keeps draining remaining items in FIFO order and returns
// api.ErrQueueClosed once empty, so workers can exit cleanly.
func (q *BoundedQueue[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Length() == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.items.Length() == 0 {
		var zero T
		return zero, api.ErrQueueClosed
	}
	item := q.items.Remove().(T)
	q.notFull.Signal()
	return item, nil
}

// Close marks the queue closed and wakes every parked producer and consumer.
// Idempotent.
func (q *BoundedQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len returns the number of queued items.
func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Cap returns the configured capacity bound, 0 if unbounded.
func (q *BoundedQueue[T]) Cap() int { return q.capacity }
