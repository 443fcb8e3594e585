// control/stats.go
// Author: momentics <momentics@gmail.com>
//
// Point-in-time runtime statistics snapshot, cheap enough to sample in a
// tight loop. Prometheus collectors cover export; Stats covers in-process
// introspection and tests.

package control

// Stats is a snapshot of engine runtime state.
type Stats struct {
	Submitted  uint64 // tasks accepted
	Completed  uint64 // tasks finished successfully
	Failed     uint64 // tasks failed or panicked
	Discarded  uint64 // queued tasks dropped by non-draining shutdown
	QueueDepth int    // tasks currently waiting
	Active     int    // workers currently executing
	Workers    int    // configured parallelism degree
	Stopped    bool   // true once shutdown has begun
}

// InFlight returns the number of tasks submitted but not yet resolved.
func (s Stats) InFlight() uint64 {
	return s.Submitted - s.Completed - s.Failed - s.Discarded
}
