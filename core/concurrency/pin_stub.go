//go:build !linux
// +build !linux

// File: core/concurrency/pin_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without sched_setaffinity. Pinning is best-effort; the
// pool logs the error and keeps running unpinned.

package concurrency

import "errors"

func pinCurrentThread(workerID int) error {
	return errors.New("affinity: not supported on this platform")
}
