// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown unifies orderly teardown across components.
type GracefulShutdown interface {
	// Shutdown stops the component. With drain=true it waits for all
	// already-queued work to finish; with drain=false it lets in-flight
	// work finish and discards anything still queued.
	Shutdown(drain bool) error
}
