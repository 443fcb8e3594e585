//go:build linux
// +build linux

// File: core/concurrency/pin_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux implementation of worker thread pinning via sched_setaffinity.
// Pinning keeps a worker's cache working set on one core, which is the point
// of handing it contiguous chunks in the first place.

package concurrency

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinCurrentThread locks the calling goroutine to its OS thread and binds
// that thread to the core derived from the worker index.
func pinCurrentThread(workerID int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(workerID % runtime.NumCPU())
	return unix.SchedSetaffinity(0, &set)
}
