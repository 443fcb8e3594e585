// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error types and error handling utilities for hioload-exec.

package api

import (
	"errors"
	"fmt"
)

// Sentinel errors used across the library.
var (
	// ErrAlreadyCompleted indicates a second completion of a one-shot promise.
	// This is protocol misuse by the producer, not a recoverable condition.
	ErrAlreadyCompleted = errors.New("promise already completed")

	// ErrQueueFull indicates a non-blocking push hit the capacity bound.
	ErrQueueFull = errors.New("queue is full")

	// ErrQueueClosed indicates a push after close, or a pop on a closed and
	// fully drained queue.
	ErrQueueClosed = errors.New("queue is closed")

	// ErrEngineStopped indicates a submission after shutdown.
	ErrEngineStopped = errors.New("engine is stopped")

	// ErrStillPending indicates a timed wait elapsed before completion.
	ErrStillPending = errors.New("result still pending")
)

// TaskError wraps a failure raised by a submitted task function. It is the
// only failure kind produced inside the worker loop: both returned errors and
// recovered panics are converted to it, so a faulty task never terminates
// its worker.
type TaskError struct {
	ID    string // work item identifier
	Cause error
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed: %v", e.ID, e.Cause)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *TaskError) Unwrap() error { return e.Cause }

// NewTaskError wraps cause into a TaskError for work item id.
func NewTaskError(id string, cause error) *TaskError {
	return &TaskError{ID: id, Cause: cause}
}
