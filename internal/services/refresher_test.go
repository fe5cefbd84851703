package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeScreen struct {
	name     string
	reloadFn func(ctx context.Context) error
	calls    int32
}

func (f *fakeScreen) Name() string { return f.name }

func (f *fakeScreen) Reload(ctx context.Context) error {
	atomic.AddInt32(&f.calls, 1)
	if f.reloadFn == nil {
		return nil
	}
	return f.reloadFn(ctx)
}

func TestTickReloadsEveryScreen(t *testing.T) {
	ok := &fakeScreen{name: "dashboard"}
	failing := &fakeScreen{name: "transactions", reloadFn: func(context.Context) error {
		return errors.New("server unreachable")
	}}
	var rendered int32
	r, err := NewRefresher(nil, RefresherConfig{Interval: time.Minute}, func(context.Context) {
		atomic.AddInt32(&rendered, 1)
	}, failing, ok)
	if err != nil {
		t.Fatalf("NewRefresher: %v", err)
	}

	r.Tick(context.Background())
	if ok.calls != 1 || failing.calls != 1 || rendered != 1 {
		t.Fatalf("calls: ok=%d failing=%d rendered=%d", ok.calls, failing.calls, rendered)
	}
}

func TestRefresherRunsOnSchedule(t *testing.T) {
	screen := &fakeScreen{name: "dashboard"}
	r, err := NewRefresher(nil, RefresherConfig{Interval: time.Second}, nil, screen)
	if err != nil {
		t.Fatalf("NewRefresher: %v", err)
	}
	r.Start()
	defer func() { _ = r.Stop(context.Background()) }()

	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt32(&screen.calls) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("scheduled reload never ran")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
