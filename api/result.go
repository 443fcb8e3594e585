// File: api/result.go
// Author: momentics <momentics@gmail.com>
//
// Generic result and task contracts.

package api

import "context"

// Task is one unit of deferred work. It captures everything it needs;
// the context is cancelled when the engine shuts down.
type Task func(ctx context.Context) (any, error)

// Result wraps any payload or error.
type Result[T any] struct {
	Value T
	Err   error
}
