package refresh

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/rickgao/bazaarsetu/internal/session"
)

// SessionSource provides the sessions to refresh.
type SessionSource interface {
	Snapshot() []session.Info
}

// Config holds refresher configuration.
type Config struct {
	Interval    time.Duration // Refresh interval (default: 5m)
	Concurrency int           // Max concurrent refreshes (default: 4)
	Timeout     time.Duration // Per-session timeout (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    5 * time.Minute,
		Concurrency: 4,
		Timeout:     30 * time.Second,
	}
}

// Result summarizes one refresh cycle.
type Result struct {
	Sessions  int
	Refreshed int64
	Errors    int64
}

// Refresher periodically refreshes every open session.
type Refresher struct {
	cfg      Config
	sessions SessionSource
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Refresher.
func New(cfg Config, sessions SessionSource, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Refresher{
		cfg:      cfg,
		sessions: sessions,
		logger:   logger,
	}
}

// Start begins the refresh loop. The first cycle runs after one interval
// since new sessions load their own data.
func (r *Refresher) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("session refresher started",
		"interval", r.cfg.Interval,
		"concurrency", r.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the refresher.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("session refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.RefreshAll(r.ctx)
		}
	}
}

// RefreshAll refreshes every open session with bounded concurrency.
func (r *Refresher) RefreshAll(ctx context.Context) Result {
	start := time.Now()

	infos := r.sessions.Snapshot()
	res := Result{Sessions: len(infos)}
	if len(infos) == 0 {
		r.logger.Debug("no sessions to refresh")
		return res
	}

	sem := semaphore.NewWeighted(int64(r.cfg.Concurrency))
	var wg sync.WaitGroup
	var refreshed, errs atomic.Int64

	for _, info := range infos {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(info session.Info) {
			defer wg.Done()
			defer sem.Release(1)

			if err := r.refreshOne(ctx, info.Screen); err != nil {
				r.logger.Warn("failed to refresh session",
					"session", info.ID,
					"kind", info.Kind,
					"err", err,
				)
				errs.Add(1)
				return
			}
			refreshed.Add(1)
		}(info)
	}

	wg.Wait()

	res.Refreshed = refreshed.Load()
	res.Errors = errs.Load()

	r.logger.Info("refresh cycle complete",
		"sessions", res.Sessions,
		"refreshed", res.Refreshed,
		"errors", res.Errors,
		"duration", time.Since(start),
	)
	return res
}

func (r *Refresher) refreshOne(ctx context.Context, s session.Screen) error {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	return s.Refresh(ctx)
}
