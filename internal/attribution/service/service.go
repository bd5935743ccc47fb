// Package service implements first-touch campaign attribution for visitor sessions.
package service

import (
	"context"
	"net/url"

	"quote_portal_backend/internal/attribution/repository"
	"quote_portal_backend/platform/logger"
)

// Service reads and records attribution for a session.
type Service struct {
	store repository.Store
	log   *logger.Logger
}

// New creates a new attribution service.
func New(store repository.Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Observe records the campaign parameters in query when the session has none yet
// and returns the session's attribution afterwards.
func (s *Service) Observe(ctx context.Context, sessionID string, query url.Values) (repository.Params, error) {
	existing, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return repository.Params{}, err
	}

	var current *repository.Params
	if ok {
		current = &existing
	}
	next, store := Capture(current, query)
	if !store {
		return next, nil
	}

	stored, err := s.store.SetIfAbsent(ctx, sessionID, next)
	if err != nil {
		return repository.Params{}, err
	}
	if !stored {
		// Another request for the same session stored first.
		winner, _, err := s.store.Get(ctx, sessionID)
		return winner, err
	}

	s.log.WithContext(ctx).Debug("attribution captured", "utm_source", next.Source, "utm_campaign", next.Campaign)
	return next, nil
}

// Current returns the session's attribution, empty when nothing was captured.
func (s *Service) Current(ctx context.Context, sessionID string) (repository.Params, error) {
	p, _, err := s.store.Get(ctx, sessionID)
	return p, err
}

// Clear forgets the session's attribution.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}
