// File: core/concurrency/workerpool.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool runs a fixed set of long-lived workers over one BoundedQueue. Each
// worker loops pop → execute → settle the item's promise, recovering panics
// at the loop boundary so a faulty task never takes a worker down. Completion
// events fan out to registered observers and to the per-item barrier hook.

package concurrency

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-exec/api"
	"github.com/momentics/hioload-exec/pool"
)

// workItem is one schedulable unit: the task closure plus its outcome slot.
// Ownership moves queue → executing worker; the promise is the shared
// remainder kept alive by the caller's handle. Shells are recycled through
// itemPool once the outcome has been written.
type workItem struct {
	id      string
	task    api.Task
	promise *Promise[any]
	onDone  api.CompletionObserver // barrier hook, may be nil
}

// Pool owns the workers and the queue feeding them.
type Pool struct {
	queue   *BoundedQueue[*workItem]
	workers int
	pin     bool
	logger  *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	obsMu     sync.Mutex   // guards observer registration
	observers atomic.Value // []api.CompletionObserver, copy-on-write
	itemPool  *pool.SyncPool[*workItem]

	wg      sync.WaitGroup
	started atomic.Bool
	stopped atomic.Bool

	submitted atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	discarded atomic.Uint64
	active    atomic.Int64
	discard   atomic.Bool
}

// PoolOption customizes pool initialization.
type PoolOption func(*Pool)

// WithLogger attaches a structured logger for worker diagnostics.
func WithLogger(l *slog.Logger) PoolOption {
	return func(p *Pool) { p.logger = l }
}

// WithPinning pins each worker's OS thread to a CPU core for cache affinity.
func WithPinning(enabled bool) PoolOption {
	return func(p *Pool) { p.pin = enabled }
}

// WithObserver registers a completion observer at construction time.
func WithObserver(obs api.CompletionObserver) PoolOption {
	return func(p *Pool) { p.OnCompletion(obs) }
}

// NewPool creates a pool of the given size over a queue with the given
// capacity bound. workers <= 0 selects the hardware concurrency; capacity 0
// leaves the queue unbounded. Workers are spawned by Start.
func NewPool(workers, queueCapacity int, opts ...PoolOption) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		queue:   NewBoundedQueue[*workItem](queueCapacity),
		workers: workers,
		logger:  slog.New(discardSlogHandler{}),
		baseCtx: ctx,
		cancel:  cancel,
	}
	p.observers.Store([]api.CompletionObserver{})
	p.itemPool = pool.NewSyncPool(func() *workItem { return &workItem{} })
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start spawns the worker goroutines. Subsequent calls have no effect.
func (p *Pool) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
}

// Submit wraps task into a work item and pushes it, blocking on backpressure.
// It returns the item's promise and identifier immediately; the task runs
// asynchronously.
func (p *Pool) Submit(task api.Task) (*Promise[any], string, error) {
	return p.enqueue(task, nil, true)
}

// TrySubmit is the non-blocking variant; it fails with api.ErrQueueFull when
// the queue is at capacity.
func (p *Pool) TrySubmit(task api.Task) (*Promise[any], string, error) {
	return p.enqueue(task, nil, false)
}

// SubmitWith attaches a per-item completion hook, used by the engine facade
// to build join barriers for bulk operations.
func (p *Pool) SubmitWith(task api.Task, onDone api.CompletionObserver) (*Promise[any], string, error) {
	return p.enqueue(task, onDone, true)
}

func (p *Pool) enqueue(task api.Task, onDone api.CompletionObserver, block bool) (*Promise[any], string, error) {
	if p.stopped.Load() {
		return nil, "", api.ErrEngineStopped
	}
	item := p.itemPool.Get()
	item.id = NewID()
	item.task = task
	item.promise = NewPromise[any]()
	item.onDone = onDone

	// Ownership of the shell passes to a worker the moment the push lands;
	// a worker may execute and recycle it before we return. Hold on to the
	// fields the caller needs before letting go.
	promise, id := item.promise, item.id

	var err error
	if block {
		err = p.queue.Push(item)
	} else {
		err = p.queue.TryPush(item)
	}
	if err != nil {
		p.recycle(item)
		if err == api.ErrQueueClosed {
			return nil, "", api.ErrEngineStopped
		}
		return nil, "", err
	}
	p.submitted.Add(1)
	return promise, id, nil
}

// OnCompletion registers an observer invoked once per finished work item.
// Registration takes a lock and republishes the slice; the hot path in
// notify stays a lock-free load.
func (p *Pool) OnCompletion(obs api.CompletionObserver) {
	p.obsMu.Lock()
	defer p.obsMu.Unlock()
	old := p.observers.Load().([]api.CompletionObserver)
	next := make([]api.CompletionObserver, len(old)+1)
	copy(next, old)
	next[len(old)] = obs
	p.observers.Store(next)
}

// Shutdown closes the queue and waits for the workers to exit. With
// drain=true every already-queued item is executed first; with drain=false
// in-flight items finish and the rest are failed with api.ErrEngineStopped
// without executing, so no handle blocks forever. Idempotent.
func (p *Pool) Shutdown(drain bool) error {
	if !p.stopped.CompareAndSwap(false, true) {
		p.wg.Wait()
		return nil
	}
	if !drain {
		p.discard.Store(true)
	}
	p.queue.Close()
	p.wg.Wait()
	p.cancel()
	return nil
}

// NumWorkers returns the configured worker count.
func (p *Pool) NumWorkers() int { return p.workers }

// QueueDepth returns the number of items waiting in the queue.
func (p *Pool) QueueDepth() int { return p.queue.Len() }

// Counters returns lifetime submitted/completed/failed/discarded totals.
func (p *Pool) Counters() (submitted, completed, failed, discarded uint64) {
	return p.submitted.Load(), p.completed.Load(), p.failed.Load(), p.discarded.Load()
}

// ActiveCount returns the number of workers currently executing a task.
func (p *Pool) ActiveCount() int { return int(p.active.Load()) }

// Stopped reports whether shutdown has begun.
func (p *Pool) Stopped() bool { return p.stopped.Load() }

// run is the worker loop. Pop suspends on the queue's condition variable;
// api.ErrQueueClosed after the final drain is the exit signal.
func (p *Pool) run(id int) {
	defer p.wg.Done()
	if p.pin {
		if err := pinCurrentThread(id); err != nil {
			p.logger.Warn("worker pinning failed", "worker", id, "error", err)
		}
	}
	for {
		item, err := p.queue.Pop()
		if err != nil {
			return
		}
		if p.discard.Load() {
			p.dropItem(item)
			continue
		}
		p.execute(item)
	}
}

// execute runs one item and settles its promise. Task errors and panics both
// become api.TaskError failures; they never propagate out of the loop.
func (p *Pool) execute(item *workItem) {
	p.active.Add(1)
	defer p.active.Add(-1)
	start := time.Now()
	value, err := p.runTask(item)
	ev := api.CompletionEvent{
		ID:       item.id,
		Duration: time.Since(start),
	}
	if err != nil {
		terr := api.NewTaskError(item.id, err)
		ev.Err = terr
		p.failed.Add(1)
		if f := item.promise.Fail(terr); f != nil {
			p.logger.Error("promise misuse", "item", item.id, "error", f)
		}
	} else {
		ev.Value = value
		p.completed.Add(1)
		if f := item.promise.Complete(value); f != nil {
			p.logger.Error("promise misuse", "item", item.id, "error", f)
		}
	}
	p.notify(item, ev)
	p.recycle(item)
}

func (p *Pool) runTask(item *workItem) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return item.task(p.baseCtx)
}

// dropItem fails a queued-but-undispatched item during non-draining shutdown.
func (p *Pool) dropItem(item *workItem) {
	p.discarded.Add(1)
	ev := api.CompletionEvent{ID: item.id, Err: api.ErrEngineStopped}
	if f := item.promise.Fail(api.ErrEngineStopped); f != nil {
		p.logger.Error("promise misuse", "item", item.id, "error", f)
	}
	p.notify(item, ev)
	p.recycle(item)
}

func (p *Pool) notify(item *workItem, ev api.CompletionEvent) {
	if item.onDone != nil {
		item.onDone(ev)
	}
	for _, obs := range p.observers.Load().([]api.CompletionObserver) {
		obs(ev)
	}
}

func (p *Pool) recycle(item *workItem) {
	*item = workItem{}
	p.itemPool.Put(item)
}
