package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rpggio/tacboard/internal/domain/tac"
	"golang.org/x/sync/singleflight"
)

// Service caches one dataset per session. Each session fetches at most once
// while it stays cached; failed fetches are not cached.
type Service struct {
	source DatasetSource
	cache  *expirable.LRU[string, *Session]
	group  singleflight.Group
	logger *slog.Logger
}

// NewService creates a new session service.
func NewService(source DatasetSource, opts Options, logger *slog.Logger) *Service {
	defaults := DefaultOptions()
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaults.MaxSessions
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		source: source,
		logger: logger,
	}
	s.cache = expirable.NewLRU[string, *Session](opts.MaxSessions, s.onEvict, opts.TTL)
	return s
}

// Open starts a new session and loads its dataset.
func (s *Service) Open(ctx context.Context) (*Session, error) {
	return s.load(ctx, uuid.NewString())
}

// Get returns the session for id, loading its dataset if the session is unknown or expired.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidInput
	}
	if sess, ok := s.cache.Get(id); ok {
		return sess, nil
	}
	return s.load(ctx, id)
}

// Dataset implements tac.DatasetProvider.
func (s *Service) Dataset(ctx context.Context, id string) (tac.Dataset, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return tac.Dataset{}, err
	}
	return sess.Dataset, nil
}

// Close drops the session so the next request under its id fetches again.
func (s *Service) Close(id string) bool {
	return s.cache.Remove(id)
}

// Len returns the number of cached sessions.
func (s *Service) Len() int {
	return s.cache.Len()
}

// load fetches the dataset for id once, however many callers ask for it.
// The fetch is detached from any single caller's cancellation and bounded
// by the source's own timeout; each caller stops waiting when its ctx ends.
func (s *Service) load(ctx context.Context, id string) (*Session, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(id, func() (any, error) {
		if sess, ok := s.cache.Get(id); ok {
			return sess, nil
		}
		ds, err := s.source.Load(fetchCtx)
		if err != nil {
			return nil, err
		}
		sess := &Session{ID: id, CreatedAt: time.Now(), Dataset: ds}
		s.cache.Add(id, sess)
		s.logger.InfoContext(fetchCtx, "session opened", "session_id", id, "rows", ds.Len())
		return sess, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("session %s: %w", id, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("session %s: %w", id, res.Err)
		}
		if res.Shared {
			s.logger.DebugContext(ctx, "session load shared", "session_id", id)
		}
		return res.Val.(*Session), nil
	}
}

func (s *Service) onEvict(id string, _ *Session) {
	s.logger.Debug("session evicted", "session_id", id)
}
