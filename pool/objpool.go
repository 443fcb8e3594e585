// File: pool/objpool.go
// Package pool provides typed free-lists over sync.Pool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The worker pool recycles work-item shells through a SyncPool so that a
// steady stream of submissions allocates only the per-task promise, not the
// shell around it.

package pool

import "sync"

// ObjectPool hands out reusable instances of T. Put returns an instance to
// the pool; the caller must not touch it afterwards.
type ObjectPool[T any] interface {
	Get() T
	Put(T)
}

// SyncPool is an ObjectPool backed by sync.Pool. Instances handed back via
// Put may be dropped by the runtime at any time, so Get falls through to the
// creator whenever the free-list is empty.
type SyncPool[T any] struct {
	inner sync.Pool
}

// NewSyncPool builds a pool that uses creator to mint fresh instances.
func NewSyncPool[T any](creator func() T) *SyncPool[T] {
	sp := &SyncPool[T]{}
	sp.inner.New = func() any { return creator() }
	return sp
}

// Get returns a pooled instance, minting one when none is cached. The
// instance may carry state from its previous life; callers reset what they
// use.
func (sp *SyncPool[T]) Get() T {
	return sp.inner.Get().(T)
}

// Put places obj back on the free-list for reuse.
func (sp *SyncPool[T]) Put(obj T) {
	sp.inner.Put(obj)
}
