// File: fake/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Deterministic in-process fake of the api.Executor contract for consumer
// tests: tasks run synchronously on the submitting goroutine and the handle
// is already settled when Submit returns.

package fake

import (
	"context"
	"fmt"
	"time"

	"github.com/momentics/hioload-exec/api"
	"github.com/momentics/hioload-exec/core/concurrency"
)

// Executor runs every submitted task inline.
type Executor struct {
	// Ctx is passed to tasks; context.Background() if nil.
	Ctx context.Context
}

var _ api.Executor = (*Executor)(nil)

// Submit executes task immediately and returns a settled handle.
func (f *Executor) Submit(task api.Task) (api.Handle, error) {
	ctx := f.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	h := &handle{id: concurrency.NewID()}
	h.value, h.err = runRecovered(ctx, task)
	if h.err != nil {
		h.err = api.NewTaskError(h.id, h.err)
	}
	return h, nil
}

// NumWorkers reports 1: the fake is strictly sequential.
func (f *Executor) NumWorkers() int { return 1 }

func runRecovered(ctx context.Context, task api.Task) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return task(ctx)
}

// handle is an already-settled api.Handle.
type handle struct {
	id    string
	value any
	err   error
}

func (h *handle) ID() string { return h.id }

func (h *handle) Wait() (any, error) { return h.value, h.err }

func (h *handle) TryWait(time.Duration) (any, bool, error) { return h.value, true, h.err }
