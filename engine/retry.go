// File: engine/retry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Backpressure-aware submission: retries non-blocking submits under an
// exponential backoff while the queue is full, without ever parking the
// caller on the queue's condition variable.

package engine

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/momentics/hioload-exec/api"
)

// retryInitialInterval is kept short: queue-full windows are typically
// transient bursts, not outages.
const retryInitialInterval = time.Millisecond

// SubmitRetry submits task, backing off and retrying while the queue is
// full. Any error other than api.ErrQueueFull stops the retry loop, as does
// ctx cancellation.
func (e *Engine) SubmitRetry(ctx context.Context, task api.Task) (api.Handle, error) {
	op := func() (api.Handle, error) {
		h, err := e.TrySubmit(task)
		if err != nil {
			if errors.Is(err, api.ErrQueueFull) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return h, nil
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval
	return backoff.Retry(ctx, op, backoff.WithBackOff(bo))
}
