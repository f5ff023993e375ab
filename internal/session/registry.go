package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrFull is returned by Add when the registry holds MaxSessions sessions.
var ErrFull = errors.New("too many sessions")

// Screen is a live view that can be refreshed and closed.
type Screen interface {
	Refresh(ctx context.Context) error
	Close()
}

// Config holds registry configuration.
type Config struct {
	MaxSessions  int
	IdleTimeout  time.Duration
	ReapInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSessions:  1000,
		IdleTimeout:  10 * time.Minute,
		ReapInterval: time.Minute,
	}
}

// Info describes one session.
type Info struct {
	ID       uuid.UUID
	Kind     string
	Screen   Screen
	Created  time.Time
	LastSeen time.Time
}

type entry struct {
	info Info
}

// Registry tracks open sessions. It is safe for concurrent use.
type Registry struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*entry),
	}
}

// Add registers a screen and returns its session ID.
func (r *Registry) Add(kind string, s Screen) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		return uuid.Nil, ErrFull
	}

	now := r.now()
	id := uuid.New()
	r.sessions[id] = &entry{info: Info{
		ID:       id,
		Kind:     kind,
		Screen:   s,
		Created:  now,
		LastSeen: now,
	}}

	r.logger.Debug("session opened", "session", id, "kind", kind, "open", len(r.sessions))
	return id, nil
}

// Get returns a session by ID.
func (r *Registry) Get(id uuid.UUID) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok {
		return Info{}, false
	}
	return e.info, true
}

// Touch records client activity. It returns false for unknown sessions.
func (r *Registry) Touch(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if ok {
		e.info.LastSeen = r.now()
	}
	return ok
}

// Remove closes and forgets a session. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	open := len(r.sessions)
	r.mu.Unlock()

	if ok {
		e.info.Screen.Close()
		r.logger.Debug("session closed", "session", id, "open", open)
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns every open session.
func (r *Registry) Snapshot() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.info)
	}
	return out
}

// Start begins reaping idle sessions in the background.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.reapLoop()

	r.logger.Info("session registry started",
		"max_sessions", r.cfg.MaxSessions,
		"idle_timeout", r.cfg.IdleTimeout,
	)
	return nil
}

// Stop stops the reaper and closes every session.
func (r *Registry) Stop(ctx context.Context) error {
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
	case <-ctx.Done():
		return ctx.Err()
	}

	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*entry)
	r.mu.Unlock()

	for _, e := range sessions {
		e.info.Screen.Close()
	}

	r.logger.Info("session registry stopped", "closed", len(sessions))
	return nil
}

func (r *Registry) reapLoop() {
	defer r.wg.Done()

	interval := r.cfg.ReapInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if n := r.reapIdle(); n > 0 {
				r.logger.Info("reaped idle sessions", "count", n, "open", r.Len())
			}
		}
	}
}

// reapIdle closes sessions idle for longer than the idle timeout.
func (r *Registry) reapIdle() int {
	if r.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.IdleTimeout)

	r.mu.Lock()
	var idle []*entry
	for id, e := range r.sessions {
		if e.info.LastSeen.Before(cutoff) {
			idle = append(idle, e)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, e := range idle {
		e.info.Screen.Close()
	}
	return len(idle)
}
