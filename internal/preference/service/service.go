package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"consentvault/internal/preference/metrics"
	"consentvault/internal/preference/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/sentinel"
	platformsync "consentvault/pkg/platform/sync"
	"consentvault/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

type Store interface {
	Upsert(ctx context.Context, prefs *models.Preferences) (*models.Preferences, error)
	FindByConsentKey(ctx context.Context, key id.ConsentKey) (*models.Preferences, error)
	SoftDelete(ctx context.Context, key id.ConsentKey, at time.Time) (bool, error)
	ListAll(ctx context.Context) ([]*models.Preferences, error)
}

// ContextManager keeps the processing-context ledger in step with preference changes.
type ContextManager interface {
	OnPreferencesChanged(ctx context.Context, key id.ConsentKey, qualifying bool) error
	SoftDelete(ctx context.Context, key id.ConsentKey) (bool, error)
}

type Option func(*Service)

type Service struct {
	store    Store
	contexts ContextManager
	locks    *platformsync.ShardedMutex
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, contexts ContextManager, opts ...Option) *Service {
	s := &Service{
		store:    store,
		contexts: contexts,
		locks:    platformsync.NewShardedMutex(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set replaces the purposes for key and then reconciles the processing context.
// Both steps run under a per-key lock so a preference write and its context
// follow-up are never interleaved with another write for the same key.
func (s *Service) Set(ctx context.Context, key id.ConsentKey, req *models.SetRequest) (*models.Preferences, error) {
	if key.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "consent key required")
	}
	requestID := requestcontext.RequestID(ctx)

	unlock := s.locks.Lock(string(key))
	defer unlock()

	stored, err := s.store.Upsert(ctx, models.NewPreferences(key, req.Purposes(), requestcontext.Now(ctx)))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save preferences")
	}
	qualifying := stored.Qualifies()
	if s.metrics != nil {
		s.metrics.IncrementUpdate(qualifying)
	}

	if s.contexts != nil {
		if err := s.contexts.OnPreferencesChanged(ctx, key, qualifying); err != nil {
			s.logger.ErrorContext(ctx, "processing context update failed after preference write",
				"error", err,
				"consent_key", key.Masked(),
				"request_id", requestID,
			)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update processing context")
		}
	}

	s.logger.InfoContext(ctx, "preferences updated",
		"consent_key", key.Masked(),
		"qualifying", qualifying,
		"request_id", requestID,
	)
	return stored, nil
}

// Get returns the stored preferences, or the defaults when none exist.
func (s *Service) Get(ctx context.Context, key id.ConsentKey) (*models.Preferences, error) {
	prefs, err := s.store.FindByConsentKey(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Defaults(key), nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load preferences")
	}
	return prefs, nil
}

// Find returns the stored record or nil when absent.
func (s *Service) Find(ctx context.Context, key id.ConsentKey) (*models.Preferences, error) {
	prefs, err := s.store.FindByConsentKey(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load preferences")
	}
	return prefs, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Preferences, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list preferences")
	}
	return all, nil
}

// SoftDelete withdraws every optional purpose. It reports whether the record
// transitioned; an absent record or a repeat call reports false without error.
func (s *Service) SoftDelete(ctx context.Context, key id.ConsentKey) (bool, error) {
	unlock := s.locks.Lock(string(key))
	defer unlock()
	return s.softDelete(ctx, key)
}

// Withdraw soft-deletes the preferences and the processing context for key
// while holding the key lock, so a concurrent Set cannot land between the two
// steps. Both steps always run; each ledger's failure is reported on its own.
func (s *Service) Withdraw(ctx context.Context, key id.ConsentKey) (prefErr, ctxErr error) {
	unlock := s.locks.Lock(string(key))
	defer unlock()

	_, prefErr = s.softDelete(ctx, key)
	if s.contexts != nil {
		_, ctxErr = s.contexts.SoftDelete(ctx, key)
	}
	return prefErr, ctxErr
}

func (s *Service) softDelete(ctx context.Context, key id.ConsentKey) (bool, error) {
	changed, err := s.store.SoftDelete(ctx, key, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to soft delete preferences")
	}
	if changed {
		if s.metrics != nil {
			s.metrics.IncrementSoftDelete()
		}
		s.logger.InfoContext(ctx, "preferences soft deleted",
			"consent_key", key.Masked(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return changed, nil
}
