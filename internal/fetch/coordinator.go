package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Dataset names an independently fetched collection.
type Dataset string

const (
	Prices Dataset = "prices"
	States Dataset = "states"
	Market Dataset = "market"
	Trend  Dataset = "trend"
)

// ErrStale marks a response superseded by a later request for the same data set.
var ErrStale = errors.New("stale response")

// Ticket identifies one issued request.
type Ticket struct {
	Dataset Dataset
	Seq     uint64
}

// Stats counts requests for one data set.
type Stats struct {
	Issued  int64
	Applied int64
	Dropped int64
	Latest  uint64
}

type tracker struct {
	latest uint64
	cancel context.CancelFunc
	stats  Stats
}

// Coordinator tracks the latest request per data set. It is safe for concurrent use.
type Coordinator struct {
	mu     sync.Mutex
	sets   map[Dataset]*tracker
	logger *slog.Logger

	wg sync.WaitGroup
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		sets:   make(map[Dataset]*tracker),
		logger: logger,
	}
}

func (c *Coordinator) trackerLocked(ds Dataset) *tracker {
	t, ok := c.sets[ds]
	if !ok {
		t = &tracker{}
		c.sets[ds] = t
	}
	return t
}

// Begin issues the next ticket for ds and cancels the request it supersedes.
// The returned context is canceled when a later request begins, when the
// ticket completes, or when ctx is canceled.
func (c *Coordinator) Begin(ctx context.Context, ds Dataset) (context.Context, Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.trackerLocked(ds)
	if t.cancel != nil {
		t.cancel()
	}

	reqCtx, cancel := context.WithCancel(ctx)
	t.latest++
	t.cancel = cancel
	t.stats.Issued++

	return reqCtx, Ticket{Dataset: ds, Seq: t.latest}
}

// Complete reports whether the ticket's response may be applied.
// It returns false if a later request for the same data set has been issued.
func (c *Coordinator) Complete(tk Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.trackerLocked(tk.Dataset)
	if tk.Seq < t.latest {
		t.stats.Dropped++
		c.logger.Debug("dropping stale response",
			"dataset", tk.Dataset,
			"seq", tk.Seq,
			"latest", t.latest,
		)
		return false
	}

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.stats.Applied++
	return true
}

// Current reports whether tk is still the latest ticket for its data set.
func (c *Coordinator) Current(tk Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return tk.Seq >= c.trackerLocked(tk.Dataset).latest
}

// Stats returns a copy of the counters for ds.
func (c *Coordinator) Stats(ds Dataset) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.trackerLocked(ds)
	s := t.stats
	s.Latest = t.latest
	return s
}

// CancelAll cancels every in-flight request. Tickets issued before the call
// still complete normally; their fetches observe a canceled context.
func (c *Coordinator) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.sets {
		if t.cancel != nil {
			t.cancel()
			t.cancel = nil
		}
	}
}

// Wait blocks until every fetch started with Start has finished.
func (c *Coordinator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start issues a request for ds and runs fn on a new goroutine.
// When fn returns, owner is locked and apply runs only if the request is still
// the latest for ds; stale results are discarded silently.
//
// The caller must hold owner while calling Start so that issuing the ticket is
// ordered with the state it was computed from.
func Start[T any](
	ctx context.Context,
	c *Coordinator,
	owner sync.Locker,
	ds Dataset,
	fn func(context.Context) (T, error),
	apply func(T, error),
) Ticket {
	reqCtx, tk := c.Begin(ctx, ds)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		result, err := fn(reqCtx)

		owner.Lock()
		defer owner.Unlock()

		if !c.Complete(tk) {
			return
		}
		apply(result, err)
	}()

	return tk
}
