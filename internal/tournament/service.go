package tournament

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Service orchestrates tournament lookups with cache-aside reads.
type Service struct {
	store  Store
	cache  *Cache
	logger zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store  Store
	Cache  *Cache
	Logger zerolog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("tournament: store is required")
	}
	return &Service{store: cfg.Store, cache: cfg.Cache, logger: cfg.Logger}, nil
}

// List returns tournaments matching the filter. The unfiltered listing is the
// hot path for the landing page and is served cache-aside; filtered queries go
// straight to the store.
func (s *Service) List(ctx context.Context, f Filter) ([]Tournament, error) {
	if !f.IsZero() {
		return s.store.List(ctx, f)
	}

	const key = "tournaments:all"
	var cached []Tournament
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Msg("tournament cache read failed")
	}
	if hit {
		return cached, nil
	}

	rows, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, key, rows); err != nil {
		s.logger.Warn().Err(err).Msg("tournament cache write failed")
	}
	return rows, nil
}

// Get returns a single tournament by id.
func (s *Service) Get(ctx context.Context, id string) (Tournament, error) {
	key := "tournaments:id:" + id
	var cached Tournament
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Msg("tournament cache read failed")
	}
	if hit {
		return cached, nil
	}

	t, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Tournament{}, ErrNotFound
		}
		return Tournament{}, fmt.Errorf("tournament: get: %w", err)
	}
	if err := s.cache.SetJSON(ctx, key, t); err != nil {
		s.logger.Warn().Err(err).Msg("tournament cache write failed")
	}
	return t, nil
}
