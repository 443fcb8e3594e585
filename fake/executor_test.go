package fake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/momentics/hioload-exec/api"
)

func TestFakeExecutorRunsInline(t *testing.T) {
	f := &Executor{}
	ran := false
	h, err := f.Submit(func(context.Context) (any, error) {
		ran = true
		return "v", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("task did not run inline")
	}
	if v, err := h.Wait(); err != nil || v != "v" {
		t.Fatalf("Wait: got (%v, %v)", v, err)
	}
	if v, ok, err := h.TryWait(time.Nanosecond); !ok || err != nil || v != "v" {
		t.Fatalf("TryWait: got (%v, %v, %v)", v, ok, err)
	}
}

func TestFakeExecutorWrapsFailures(t *testing.T) {
	f := &Executor{}
	h, err := f.Submit(func(context.Context) (any, error) { panic("nope") })
	if err != nil {
		t.Fatal(err)
	}
	_, werr := h.Wait()
	var terr *api.TaskError
	if !errors.As(werr, &terr) {
		t.Fatalf("want TaskError, got %v", werr)
	}
}
