package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"consentvault/internal/platform/metrics"
	"consentvault/internal/processing/geolocation"
	"consentvault/internal/processing/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/privacy"
	"consentvault/pkg/platform/sentinel"
	"consentvault/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

type Store interface {
	Upsert(ctx context.Context, c *models.Context) (*models.Context, error)
	FindByConsentKey(ctx context.Context, key id.ConsentKey) (*models.Context, error)
	Withdraw(ctx context.Context, key id.ConsentKey, at time.Time, grace time.Duration) (bool, error)
	ListAll(ctx context.Context) ([]*models.Context, error)
}

// Locator resolves an address to a geography snapshot.
type Locator interface {
	Lookup(ctx context.Context, ip string) (models.Geo, error)
}

const defaultPurgeGrace = 30 * 24 * time.Hour

type Option func(*Service)

// Service keeps the processing-context ledger aligned with the preference ledger.
type Service struct {
	store   Store
	locator Locator
	logger  *slog.Logger
	metrics *metrics.Metrics
	policy  privacy.Policy
	grace   time.Duration
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

// WithPurgeGrace sets the delay between withdrawal and hard purge.
func WithPurgeGrace(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.grace = d
		}
	}
}

func WithAnonymization(enabled bool) Option {
	return func(s *Service) {
		s.policy = privacy.Policy{Anonymize: enabled}
	}
}

// New builds the manager. A nil locator stores placeholder geography.
func New(store Store, locator Locator, opts ...Option) *Service {
	s := &Service{
		store:   store,
		locator: locator,
		logger:  slog.Default(),
		policy:  privacy.Policy{Anonymize: true},
		grace:   defaultPurgeGrace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnPreferencesChanged creates or refreshes the consent-logging record when a
// qualifying purpose is accepted, and withdraws it otherwise.
func (s *Service) OnPreferencesChanged(ctx context.Context, key id.ConsentKey, qualifying bool) error {
	if !qualifying {
		_, err := s.SoftDelete(ctx, key)
		return err
	}

	rawIP := requestcontext.ClientIP(ctx)
	record, err := models.NewAcceptedContext(key, s.policy.Apply(rawIP), s.resolve(ctx, rawIP), requestcontext.Now(ctx))
	if err != nil {
		return err
	}
	if _, err := s.store.Upsert(ctx, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save processing context")
	}
	s.logger.InfoContext(ctx, "processing context recorded",
		"consent_key", key.Masked(),
		"purpose", string(record.Purpose),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// SoftDelete withdraws the active record for key. The purge time is fixed at
// withdrawal and never moved by later calls. It reports whether a record transitioned.
func (s *Service) SoftDelete(ctx context.Context, key id.ConsentKey) (bool, error) {
	changed, err := s.store.Withdraw(ctx, key, requestcontext.Now(ctx), s.grace)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to withdraw processing context")
	}
	if changed {
		s.logger.InfoContext(ctx, "processing context withdrawn",
			"consent_key", key.Masked(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return changed, nil
}

// Find returns the record for key, or nil when there is none.
func (s *Service) Find(ctx context.Context, key id.ConsentKey) (*models.Context, error) {
	c, err := s.store.FindByConsentKey(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load processing context")
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Context, error) {
	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list processing contexts")
	}
	return all, nil
}

// resolve never fails: lookup errors degrade to placeholder geography.
func (s *Service) resolve(ctx context.Context, ip string) models.Geo {
	if s.locator == nil || ip == "" {
		s.countLookup("skipped")
		return models.UnknownGeo()
	}
	geo, err := s.locator.Lookup(ctx, ip)
	if err != nil {
		outcome := "degraded"
		switch {
		case errors.Is(err, geolocation.ErrNotRoutable):
			outcome = "skipped"
		case errors.Is(err, geolocation.ErrCircuitOpen):
			outcome = "circuit_open"
		}
		s.countLookup(outcome)
		degraded := dErrors.Wrap(err, dErrors.CodeUpstreamDegraded, "geolocation unavailable, using placeholders")
		s.logger.WarnContext(ctx, degraded.Error(),
			"error", err,
			"outcome", outcome,
			"request_id", requestcontext.RequestID(ctx),
		)
		return models.UnknownGeo()
	}
	s.countLookup("ok")
	return geo
}

func (s *Service) countLookup(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementGeolocationLookup(outcome)
	}
}
