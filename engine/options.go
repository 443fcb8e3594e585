// File: engine/options.go
// Package engine defines functional options for the Engine facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package engine

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-exec/api"
)

// Option customizes engine initialization.
type Option func(*Engine)

// WithPoolSize sets the number of worker goroutines.
func WithPoolSize(n int) Option {
	return func(e *Engine) { e.cfg.PoolSize = n }
}

// WithQueueCapacity sets the backpressure threshold; 0 removes the bound.
func WithQueueCapacity(n int) Option {
	return func(e *Engine) { e.cfg.QueueCapacity = n }
}

// WithCacheResidencyBudget overrides the per-chunk element budget used by
// ParallelFor.
func WithCacheResidencyBudget(n int) Option {
	return func(e *Engine) { e.cfg.CacheResidencyBudget = n }
}

// WithPinning pins worker threads to CPU cores.
func WithPinning(enabled bool) Option {
	return func(e *Engine) { e.cfg.PinWorkers = enabled }
}

// WithLogger attaches a structured logger for engine diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.cfg.Logger = l }
}

// WithMetrics enables Prometheus collectors, registered with reg; a nil reg
// selects the default registry.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.cfg.EnableMetrics = true
		e.cfg.Registerer = reg
	}
}

// WithObserver registers a completion observer for every finished task.
func WithObserver(obs api.CompletionObserver) Option {
	return func(e *Engine) { e.observers = append(e.observers, obs) }
}
