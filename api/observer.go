// File: api/observer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Completion notification contract. Observer-style fan-out is expressed as a
// stored callback value, not a type hierarchy: anything that wants completion
// events registers a CompletionObserver with the pool.

package api

import "time"

// CompletionEvent describes the outcome of one executed work item.
type CompletionEvent struct {
	ID       string        // work item identifier
	Value    any           // success payload, nil on failure
	Err      error         // nil on success
	Duration time.Duration // wall-clock execution time
}

// CompletionObserver receives one event per finished work item. Observers
// run on the worker goroutine that executed the item and must be cheap and
// non-blocking.
type CompletionObserver func(CompletionEvent)
