// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for engine observability. The engine wires Observe
// into the pool as a completion observer and ticks the submission counters
// on the submit path.

package control

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-exec/api"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	TasksSubmitted prometheus.Counter
	TasksCompleted prometheus.Counter
	TasksFailed    prometheus.Counter
	TasksRejected  prometheus.Counter
	TasksDiscarded prometheus.Counter
	QueueDepth     prometheus.GaugeFunc
	ActiveWorkers  prometheus.GaugeFunc
	TaskDuration   prometheus.Histogram
	ChunksPlanned  prometheus.Counter
}

// NewMetrics creates and registers the engine collectors with reg. A nil
// registerer falls back to the default registry. queueDepth and activeWorkers
// are sampled lazily on scrape.
func NewMetrics(reg prometheus.Registerer, queueDepth, activeWorkers func() float64) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		TasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hioload_exec_tasks_submitted_total",
			Help: "Total number of tasks accepted by the engine.",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hioload_exec_tasks_completed_total",
			Help: "Total number of tasks that completed successfully.",
		}),
		TasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hioload_exec_tasks_failed_total",
			Help: "Total number of tasks that failed or panicked.",
		}),
		TasksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hioload_exec_tasks_rejected_total",
			Help: "Total number of submissions rejected by backpressure or shutdown.",
		}),
		TasksDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hioload_exec_tasks_discarded_total",
			Help: "Total number of queued tasks dropped by a non-draining shutdown.",
		}),
		QueueDepth: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "hioload_exec_queue_depth",
			Help: "Number of tasks currently waiting in the queue.",
		}, queueDepth),
		ActiveWorkers: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "hioload_exec_active_workers",
			Help: "Number of workers currently executing a task.",
		}, activeWorkers),
		TaskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hioload_exec_task_duration_seconds",
			Help:    "Wall-clock task execution time in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		ChunksPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hioload_exec_chunks_planned_total",
			Help: "Total number of chunks produced by the range partitioner.",
		}),
	}
	reg.MustRegister(
		m.TasksSubmitted, m.TasksCompleted, m.TasksFailed, m.TasksRejected,
		m.TasksDiscarded, m.QueueDepth, m.ActiveWorkers, m.TaskDuration,
		m.ChunksPlanned,
	)
	return m
}

// Observe updates the outcome collectors from one completion event.
func (m *Metrics) Observe(ev api.CompletionEvent) {
	switch {
	case ev.Err == nil:
		m.TasksCompleted.Inc()
		m.TaskDuration.Observe(ev.Duration.Seconds())
	case errors.Is(ev.Err, api.ErrEngineStopped):
		m.TasksDiscarded.Inc()
	default:
		m.TasksFailed.Inc()
		m.TaskDuration.Observe(ev.Duration.Seconds())
	}
}
