// File: engine/engine.go
// Unified facade layer for the hioload-exec library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Engine aggregates the core components behind a single facade: the bounded
// queue and worker pool, the range partitioner, optional Prometheus metrics,
// and ULID handle identifiers. Callers submit tasks and receive handles, run
// cache-aware bulk loops via ParallelFor, and tear the engine down with a
// draining or discarding shutdown.

package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/momentics/hioload-exec/api"
	"github.com/momentics/hioload-exec/control"
	"github.com/momentics/hioload-exec/core/concurrency"
	"github.com/momentics/hioload-exec/partition"
)

// ChunkFunc processes one contiguous chunk [start, end) of a bulk range.
// The access pattern within a chunk is strictly increasing and never
// interleaved with other chunks, which is what keeps it cache-resident.
type ChunkFunc func(ctx context.Context, start, end int) error

// ElementFunc processes a single index of a bulk range.
type ElementFunc func(ctx context.Context, i int) error

// Engine is the main facade type.
type Engine struct {
	cfg       *Config
	pool      *concurrency.Pool
	metrics   *control.Metrics
	observers []api.CompletionObserver
}

// Ensure compile-time interface compliance.
var (
	_ api.Executor         = (*Engine)(nil)
	_ api.GracefulShutdown = (*Engine)(nil)
)

// New constructs an Engine, applies the options, and starts the workers.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.PoolSize < 0 || e.cfg.QueueCapacity < 0 || e.cfg.CacheResidencyBudget < 0 {
		return nil, fmt.Errorf("engine: negative configuration value: %+v", *e.cfg)
	}

	poolOpts := []concurrency.PoolOption{
		concurrency.WithPinning(e.cfg.PinWorkers),
	}
	if e.cfg.Logger != nil {
		poolOpts = append(poolOpts, concurrency.WithLogger(e.cfg.Logger))
	}
	e.pool = concurrency.NewPool(e.cfg.PoolSize, e.cfg.QueueCapacity, poolOpts...)

	if e.cfg.EnableMetrics {
		e.metrics = control.NewMetrics(
			e.cfg.Registerer,
			func() float64 { return float64(e.pool.QueueDepth()) },
			func() float64 { return float64(e.pool.ActiveCount()) },
		)
		e.pool.OnCompletion(e.metrics.Observe)
	}
	for _, obs := range e.observers {
		e.pool.OnCompletion(obs)
	}

	e.pool.Start()
	return e, nil
}

// Submit wraps task in a work item and pushes it onto the queue, returning a
// handle immediately. It blocks only when the queue is at capacity and fails
// with api.ErrEngineStopped after shutdown.
func (e *Engine) Submit(task api.Task) (api.Handle, error) {
	promise, id, err := e.pool.Submit(task)
	if err != nil {
		e.countRejected()
		return nil, err
	}
	e.countSubmitted()
	return &Handle{id: id, promise: promise}, nil
}

// TrySubmit is the non-blocking variant; it fails with api.ErrQueueFull
// instead of waiting out backpressure.
func (e *Engine) TrySubmit(task api.Task) (api.Handle, error) {
	promise, id, err := e.pool.TrySubmit(task)
	if err != nil {
		e.countRejected()
		return nil, err
	}
	e.countSubmitted()
	return &Handle{id: id, promise: promise}, nil
}

// ParallelFor partitions [start, end) into cache-resident chunks, submits
// each chunk as one work item, and blocks until every chunk has completed.
// If any chunk fails, the remaining chunks still run to completion and the
// first failure in chunk start order is returned.
func (e *Engine) ParallelFor(ctx context.Context, start, end int, fp partition.Footprint, fn ChunkFunc) error {
	if end <= start {
		return nil
	}
	chunks := partition.PlanRange(start, end, fp, e.cfg.CacheResidencyBudget, e.pool.NumWorkers())
	if e.metrics != nil {
		e.metrics.ChunksPlanned.Add(float64(len(chunks)))
	}

	// The per-item completion hook is the join barrier: each chunk reports
	// its outcome into its own slot and decrements the wait group.
	errs := make([]error, len(chunks))
	var barrier sync.WaitGroup
	barrier.Add(len(chunks))
	for i, c := range chunks {
		task := func(_ context.Context) (any, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fn(ctx, c.Start, c.End)
		}
		_, _, err := e.pool.SubmitWith(task, func(ev api.CompletionEvent) {
			errs[i] = ev.Err
			barrier.Done()
		})
		if err != nil {
			// Queue closed under us; account for the chunks that never
			// made it in and keep waiting for the ones that did.
			e.countRejected()
			errs[i] = err
			barrier.Done()
			continue
		}
		e.countSubmitted()
	}
	barrier.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("parallel_for chunk %s: %w", chunks[i], err)
		}
	}
	return nil
}

// ParallelForEach is the per-element convenience over ParallelFor: fn is
// applied sequentially inside each chunk, preserving the contiguous
// increasing access pattern.
func (e *Engine) ParallelForEach(ctx context.Context, start, end int, fp partition.Footprint, fn ElementFunc) error {
	return e.ParallelFor(ctx, start, end, fp, func(ctx context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// Shutdown stops the engine. drain=true waits for every queued task; with
// drain=false in-flight tasks finish and queued ones are failed with
// api.ErrEngineStopped. Further submissions fail with api.ErrEngineStopped.
func (e *Engine) Shutdown(drain bool) error {
	return e.pool.Shutdown(drain)
}

// NumWorkers returns the configured worker parallelism degree.
func (e *Engine) NumWorkers() int { return e.pool.NumWorkers() }

// Stats returns a point-in-time snapshot of engine runtime state.
func (e *Engine) Stats() control.Stats {
	submitted, completed, failed, discarded := e.pool.Counters()
	return control.Stats{
		Submitted:  submitted,
		Completed:  completed,
		Failed:     failed,
		Discarded:  discarded,
		QueueDepth: e.pool.QueueDepth(),
		Active:     e.pool.ActiveCount(),
		Workers:    e.pool.NumWorkers(),
		Stopped:    e.pool.Stopped(),
	}
}

func (e *Engine) countSubmitted() {
	if e.metrics != nil {
		e.metrics.TasksSubmitted.Inc()
	}
}

func (e *Engine) countRejected() {
	if e.metrics != nil {
		e.metrics.TasksRejected.Inc()
	}
}
