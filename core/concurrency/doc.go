// File: core/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency primitives for hioload-exec: one-shot promises, the blocking
// bounded FIFO, the worker pool, and per-platform worker CPU pinning.
//
// Shared mutable state is limited to the queue's ring and each promise's
// outcome slot, and each has exactly one synchronization boundary (the queue
// mutex, the promise mutex). Every suspension point parks on a condition
// variable or channel; nothing busy-polls.
package concurrency
