package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"consentvault/internal/audit/models"
	"consentvault/internal/platform/metrics"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/privacy"
	"consentvault/pkg/requestcontext"
)

// Store is the append-only audit trail.
type Store interface {
	Append(ctx context.Context, record *models.Record) error
	ListRecent(ctx context.Context, limit int) ([]*models.Record, error)
}

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type Option func(*Service)

// Service writes audit records synchronously. A failed write is returned as
// audit_write_failed so the enclosing privileged operation fails with it.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	policy  privacy.Policy
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

func WithAnonymization(enabled bool) Option {
	return func(s *Service) {
		s.policy = privacy.Policy{Anonymize: enabled}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		policy: privacy.Policy{Anonymize: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends one audit record for actor. A nil actor is allowed only when
// key identifies the subject acting on their own data.
func (s *Service) Record(ctx context.Context, actor id.AdminID, action models.Action, key id.ConsentKey, detail string) error {
	requestID := requestcontext.RequestID(ctx)
	record, err := models.NewRecord(
		id.AuditID(uuid.New()),
		actor,
		action,
		key,
		detail,
		s.policy.Apply(requestcontext.ClientIP(ctx)),
		requestcontext.Now(ctx),
	)
	if err != nil {
		s.observe(string(action), "invalid")
		return err
	}

	if err := s.store.Append(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "audit write failed",
			"error", err,
			"action", string(action),
			"consent_key", key.Masked(),
			"request_id", requestID,
		)
		s.observe(string(action), "failed")
		return dErrors.Wrap(err, dErrors.CodeAuditWriteFailed, "audit write failed")
	}

	attrs := []any{
		"event", "audit_" + string(action),
		"log_type", "audit",
		"audit_id", record.ID.String(),
		"request_id", requestID,
	}
	if !actor.IsNil() {
		attrs = append(attrs, "actor_id", actor.String())
	}
	if !key.IsNil() {
		attrs = append(attrs, "consent_key", key.Masked())
	}
	s.logger.InfoContext(ctx, "audit record written", attrs...)
	s.observe(string(action), "ok")
	return nil
}

// ListRecent returns the newest audit records, capped at maxListLimit.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*models.Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	records, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit records")
	}
	return records, nil
}

func (s *Service) observe(action, outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementAuditWrite(action, outcome)
	}
}
