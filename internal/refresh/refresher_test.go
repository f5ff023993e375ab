package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/bazaarsetu/internal/session"
)

// mockScreen counts refreshes and tracks peak concurrency.
type mockScreen struct {
	err     error
	delay   time.Duration
	calls   *atomic.Int32
	active  *atomic.Int32
	maxSeen *atomic.Int32
}

func (m *mockScreen) Refresh(ctx context.Context) error {
	m.calls.Add(1)
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		old := m.maxSeen.Load()
		if n <= old || m.maxSeen.CompareAndSwap(old, n) {
			break
		}
	}
	select {
	case <-time.After(m.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return m.err
}

func (m *mockScreen) Close() {}

// mockSessions returns a fixed list of sessions.
type mockSessions struct {
	infos []session.Info
}

func (m *mockSessions) Snapshot() []session.Info {
	return m.infos
}

func newSessions(n int, err error, delay time.Duration) (*mockSessions, *atomic.Int32, *atomic.Int32) {
	var calls, active, maxSeen atomic.Int32
	src := &mockSessions{}
	for i := 0; i < n; i++ {
		src.infos = append(src.infos, session.Info{
			ID:   uuid.New(),
			Kind: "home",
			Screen: &mockScreen{
				err:     err,
				delay:   delay,
				calls:   &calls,
				active:  &active,
				maxSeen: &maxSeen,
			},
		})
	}
	return src, &calls, &maxSeen
}

func TestRefresher_RefreshAll(t *testing.T) {
	src, calls, maxSeen := newSessions(8, nil, 10*time.Millisecond)

	r := New(Config{Interval: time.Hour, Concurrency: 3, Timeout: time.Second}, src, nil)
	res := r.RefreshAll(context.Background())

	if res.Sessions != 8 || res.Refreshed != 8 || res.Errors != 0 {
		t.Errorf("result = %+v, want 8 refreshed", res)
	}
	if got := calls.Load(); got != 8 {
		t.Errorf("calls = %d, want 8", got)
	}
	if got := maxSeen.Load(); got > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", got)
	}
}

func TestRefresher_Errors(t *testing.T) {
	src, _, _ := newSessions(3, errors.New("backend down"), 0)

	r := New(Config{Interval: time.Hour, Concurrency: 2}, src, nil)
	res := r.RefreshAll(context.Background())

	if res.Refreshed != 0 || res.Errors != 3 {
		t.Errorf("result = %+v, want 3 errors", res)
	}
}

func TestRefresher_Timeout(t *testing.T) {
	src, _, _ := newSessions(2, nil, time.Second)

	r := New(Config{Interval: time.Hour, Concurrency: 2, Timeout: 10 * time.Millisecond}, src, nil)
	start := time.Now()
	res := r.RefreshAll(context.Background())

	if res.Errors != 2 {
		t.Errorf("result = %+v, want 2 timeouts", res)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("RefreshAll took %v, timeout not applied", elapsed)
	}
}

func TestRefresher_Empty(t *testing.T) {
	r := New(DefaultConfig(), &mockSessions{}, nil)
	if res := r.RefreshAll(context.Background()); res != (Result{}) {
		t.Errorf("result = %+v, want zero", res)
	}
}

func TestRefresher_StartStop(t *testing.T) {
	src, calls, _ := newSessions(2, nil, 0)

	r := New(Config{Interval: 10 * time.Millisecond, Concurrency: 2}, src, nil)
	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := r.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if calls.Load() < 2 {
		t.Errorf("calls = %d, want at least 2", calls.Load())
	}
}
