package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/momentics/hioload-exec/api"
)

// Two workers, capacity four, six tasks yielding 42: all six handles must
// resolve to 42 without any caller blocking forever.
func TestEngineSubmitBasic(t *testing.T) {
	e, err := New(WithPoolSize(2), WithQueueCapacity(4))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown(true)

	handles := make([]api.Handle, 0, 6)
	for i := 0; i < 6; i++ {
		h, err := e.Submit(func(context.Context) (any, error) { return 42, nil })
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		handles = append(handles, h)
	}
	for i, h := range handles {
		v, ok, err := h.TryWait(5 * time.Second)
		if !ok || err != nil || v != 42 {
			t.Fatalf("handle %d: got (%v, %v, %v), want (42, true, nil)", i, v, ok, err)
		}
	}
}

func TestEngineTaskFailureSurfacesOnHandle(t *testing.T) {
	e, err := New(WithPoolSize(1))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown(true)

	boom := errors.New("boom")
	h, err := e.Submit(func(context.Context) (any, error) { return nil, boom })
	if err != nil {
		t.Fatal(err)
	}
	_, werr := h.Wait()
	var terr *api.TaskError
	if !errors.As(werr, &terr) || !errors.Is(werr, boom) {
		t.Fatalf("want TaskError wrapping boom, got %v", werr)
	}
	if terr.ID != h.ID() {
		t.Fatalf("TaskError id %q != handle id %q", terr.ID, h.ID())
	}
}

func TestEngineTrySubmitBackpressure(t *testing.T) {
	e, err := New(WithPoolSize(1), WithQueueCapacity(1))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown(false)

	release := make(chan struct{})
	started := make(chan struct{})
	if _, err := e.Submit(func(context.Context) (any, error) {
		close(started)
		<-release
		return nil, nil
	}); err != nil {
		t.Fatal(err)
	}
	<-started
	if _, err := e.Submit(func(context.Context) (any, error) { return nil, nil }); err != nil {
		t.Fatal(err) // fills the single queue slot
	}

	if _, err := e.TrySubmit(func(context.Context) (any, error) { return nil, nil }); !errors.Is(err, api.ErrQueueFull) {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
	close(release)
}

func TestEngineSubmitRetry(t *testing.T) {
	e, err := New(WithPoolSize(1), WithQueueCapacity(1))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown(true)

	release := make(chan struct{})
	started := make(chan struct{})
	if _, err := e.Submit(func(context.Context) (any, error) {
		close(started)
		<-release
		return nil, nil
	}); err != nil {
		t.Fatal(err)
	}
	<-started
	if _, err := e.Submit(func(context.Context) (any, error) { return nil, nil }); err != nil {
		t.Fatal(err)
	}

	// Queue is full now; free it shortly after the retry loop starts.
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	h, err := e.SubmitRetry(context.Background(), func(context.Context) (any, error) { return "retried", nil })
	if err != nil {
		t.Fatalf("SubmitRetry: %v", err)
	}
	if v, err := h.Wait(); err != nil || v != "retried" {
		t.Fatalf("retried task: got (%v, %v)", v, err)
	}
}

func TestEngineSubmitRetryPermanentError(t *testing.T) {
	e, err := New(WithPoolSize(1))
	if err != nil {
		t.Fatal(err)
	}
	e.Shutdown(true)

	_, err = e.SubmitRetry(context.Background(), func(context.Context) (any, error) { return nil, nil })
	if !errors.Is(err, api.ErrEngineStopped) {
		t.Fatalf("want ErrEngineStopped without retrying, got %v", err)
	}
}

func TestEngineShutdownDrain(t *testing.T) {
	e, err := New(WithPoolSize(4), WithQueueCapacity(0))
	if err != nil {
		t.Fatal(err)
	}

	const n = 200
	var done atomic.Int64
	handles := make([]api.Handle, 0, n)
	for i := 0; i < n; i++ {
		h, err := e.Submit(func(context.Context) (any, error) {
			done.Add(1)
			return nil, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		handles = append(handles, h)
	}

	if err := e.Shutdown(true); err != nil {
		t.Fatal(err)
	}
	if done.Load() != n {
		t.Fatalf("drain returned with %d of %d done", done.Load(), n)
	}
	for _, h := range handles {
		if _, ok, err := h.TryWait(0); !ok || err != nil {
			t.Fatalf("outcome not observable after drain: ok=%v err=%v", ok, err)
		}
	}

	if _, err := e.Submit(func(context.Context) (any, error) { return nil, nil }); !errors.Is(err, api.ErrEngineStopped) {
		t.Fatalf("Submit after shutdown: want ErrEngineStopped, got %v", err)
	}

	st := e.Stats()
	if !st.Stopped || st.Completed != n || st.InFlight() != 0 {
		t.Fatalf("stats after drain: %+v", st)
	}
}

func TestEngineStats(t *testing.T) {
	e, err := New(WithPoolSize(3))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Shutdown(true)

	if st := e.Stats(); st.Workers != 3 || st.Stopped {
		t.Fatalf("initial stats: %+v", st)
	}
	h, err := e.Submit(func(context.Context) (any, error) { return nil, errors.New("x") })
	if err != nil {
		t.Fatal(err)
	}
	h.Wait()
	if st := e.Stats(); st.Submitted != 1 || st.Failed != 1 {
		t.Fatalf("stats after failure: %+v", st)
	}
}

func TestEngineMetricsCollectors(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	e, err := New(WithPoolSize(2), WithMetrics(reg))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		h, err := e.Submit(func(context.Context) (any, error) { return nil, nil })
		if err != nil {
			t.Fatal(err)
		}
		h.Wait()
	}
	e.Shutdown(true)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{
		"hioload_exec_tasks_submitted_total": 5,
		"hioload_exec_tasks_completed_total": 5,
		"hioload_exec_tasks_failed_total":    0,
	}
	for _, mf := range families {
		if expected, ok := want[mf.GetName()]; ok {
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != expected {
				t.Fatalf("%s: got %v, want %v", mf.GetName(), got, expected)
			}
			delete(want, mf.GetName())
		}
	}
	for name := range want {
		t.Fatalf("collector %s not gathered", name)
	}
}

func TestEngineObserverOption(t *testing.T) {
	var events atomic.Int64
	e, err := New(WithPoolSize(2), WithObserver(func(api.CompletionEvent) { events.Add(1) }))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if _, err := e.Submit(func(context.Context) (any, error) { return nil, nil }); err != nil {
			t.Fatal(err)
		}
	}
	e.Shutdown(true)
	if events.Load() != 10 {
		t.Fatalf("observer saw %d events, want 10", events.Load())
	}
}

func TestEngineRejectsNegativeConfig(t *testing.T) {
	if _, err := New(WithPoolSize(-1)); err == nil {
		t.Fatal("want error for negative pool size")
	}
	if _, err := New(WithQueueCapacity(-1)); err == nil {
		t.Fatal("want error for negative capacity")
	}
}
