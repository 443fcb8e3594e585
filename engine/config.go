// File: engine/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package engine

import (
	"log/slog"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

// Default tunables. The cache residency budget is an abstract element-count
// threshold, deliberately platform-independent; callers with measured cache
// behavior override it per engine.
const (
	// DefaultQueueCapacity bounds the pending queue when the caller does not
	// choose a bound: finite to contain submission bursts, large enough to
	// stay out of the way.
	DefaultQueueCapacity = 1024

	// DefaultCacheResidencyBudget is the conservative per-chunk element
	// budget used by ParallelFor.
	DefaultCacheResidencyBudget = 8192
)

// Config holds parameters immutable per engine instance.
type Config struct {
	PoolSize             int                   // worker parallelism degree
	QueueCapacity        int                   // backpressure threshold, 0 = unbounded
	CacheResidencyBudget int                   // chunk sizing target for ParallelFor
	PinWorkers           bool                  // pin worker threads to CPU cores
	Logger               *slog.Logger          // nil disables logging
	Registerer           prometheus.Registerer // nil = default registry
	EnableMetrics        bool                  // register Prometheus collectors
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		PoolSize:             runtime.NumCPU(),            // hardware concurrency
		QueueCapacity:        DefaultQueueCapacity,        // finite burst headroom
		CacheResidencyBudget: DefaultCacheResidencyBudget, // conservative chunking
		PinWorkers:           false,                       // pinning is opt-in
		EnableMetrics:        false,                       // collectors are opt-in
	}
}
