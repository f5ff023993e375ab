package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rickgao/bazaarsetu/internal/fetch"
	"github.com/rickgao/bazaarsetu/internal/i18n"
	"github.com/rickgao/bazaarsetu/internal/model"
)

// ChangeBufferSize is the capacity of a screen's change channel.
const ChangeBufferSize = 16

// ErrClosed is returned by operations on a closed screen.
var ErrClosed = errors.New("screen closed")

// screen holds the state every screen session shares.
// Fields below mu are guarded by it.
type screen struct {
	src    Source
	coord  *fetch.Coordinator
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	changes chan uint64

	mu       sync.Mutex
	resolver *i18n.Resolver
	version  uint64
	closed   bool
}

func (s *screen) init(ctx context.Context, src Source, lang model.Language, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.src = src
	s.coord = fetch.NewCoordinator(logger)
	s.logger = logger
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.changes = make(chan uint64, ChangeBufferSize)
	s.resolver = i18n.NewResolver(lang)
}

// Changes returns a channel that receives the new version after every
// applied change. Slow readers only miss intermediate versions.
func (s *screen) Changes() <-chan uint64 {
	return s.changes
}

// Language returns the screen's display language.
func (s *screen) Language() model.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver.Language()
}

// Version returns the number of changes applied so far.
func (s *screen) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Done is closed when the screen is closed.
func (s *screen) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Wait blocks until every in-flight fetch has been applied or dropped.
func (s *screen) Wait(ctx context.Context) error {
	return s.coord.Wait(ctx)
}

// Stats returns fetch counters for one data set.
func (s *screen) Stats(ds fetch.Dataset) fetch.Stats {
	return s.coord.Stats(ds)
}

// Close cancels in-flight fetches. Late responses are discarded.
func (s *screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.coord.CancelAll()
}

// setLanguageLocked switches the resolver. Callers hold mu.
func (s *screen) setLanguageLocked(lang model.Language) bool {
	lang = i18n.ParseLanguage(string(lang))
	if lang == s.resolver.Language() {
		return false
	}
	s.resolver = i18n.NewResolver(lang)
	return true
}

// notifyLocked bumps the version and publishes it without blocking,
// dropping the oldest pending version when the channel is full.
func (s *screen) notifyLocked() {
	s.version++
	select {
	case s.changes <- s.version:
	default:
		select {
		case <-s.changes:
		default:
		}
		select {
		case s.changes <- s.version:
		default:
		}
	}
}

// load starts fn for ds and applies its result under mu if it is still the
// latest request and the screen is open. Callers hold mu.
func load[T any](s *screen, ds fetch.Dataset, fn func(context.Context) (T, error), apply func(T, error)) {
	if s.closed {
		return
	}
	fetch.Start(s.ctx, s.coord, &s.mu, ds, fn, func(v T, err error) {
		if s.closed {
			return
		}
		if err != nil {
			s.logger.Warn("fetch failed", "dataset", ds, "error", err)
		}
		apply(v, err)
		s.notifyLocked()
	})
}

// refresh waits for the fetches started by start to settle.
func (s *screen) refresh(ctx context.Context, start func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	start()
	s.mu.Unlock()

	return s.Wait(ctx)
}
