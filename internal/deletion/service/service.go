package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	auditmodels "consentvault/internal/audit/models"
	"consentvault/internal/deletion/delivery"
	"consentvault/internal/deletion/models"
	"consentvault/internal/platform/metrics"
	secmodels "consentvault/internal/security/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/sentinel"
	"consentvault/pkg/requestcontext"
)

// CodeStore holds at most one outstanding code per identity.
type CodeStore interface {
	Save(ctx context.Context, code *models.Code) error
	Take(ctx context.Context, identityID id.IdentityID) (*models.Code, error)
	Discard(ctx context.Context, code *models.Code) error
}

type Throttle interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Sender interface {
	Send(ctx context.Context, n delivery.Notification) error
}

type ContactVerifier interface {
	ConfirmContact(ctx context.Context, identityID id.IdentityID, contact string) error
}

// ConsentWithdrawer soft-deletes the preference and processing-context
// ledgers for a consent key as one serialized step. Absent and already-deleted
// records are not errors; each ledger's failure is reported separately.
type ConsentWithdrawer interface {
	Withdraw(ctx context.Context, key id.ConsentKey) (prefErr, ctxErr error)
}

type AuditRecorder interface {
	Record(ctx context.Context, actor id.AdminID, action auditmodels.Action, key id.ConsentKey, detail string) error
}

type SecurityRecorder interface {
	Record(ctx context.Context, eventType secmodels.EventType)
}

const defaultDeliveryTimeout = 5 * time.Second

type Option func(*Service)

// Service runs the second-factor deletion workflow.
type Service struct {
	codes           CodeStore
	throttle        Throttle
	sender          Sender
	contacts        ContactVerifier
	consent         ConsentWithdrawer
	audit           AuditRecorder
	security        SecurityRecorder
	logger          *slog.Logger
	metrics         *metrics.Metrics
	deliveryTimeout time.Duration
	generate        func() (string, error)
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

func WithThrottle(t Throttle) Option {
	return func(s *Service) {
		s.throttle = t
	}
}

func WithSecurityRecorder(r SecurityRecorder) Option {
	return func(s *Service) {
		s.security = r
	}
}

func WithDeliveryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.deliveryTimeout = d
		}
	}
}

// WithCodeGenerator replaces the random code source. Tests only.
func WithCodeGenerator(fn func() (string, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.generate = fn
		}
	}
}

func New(codes CodeStore, sender Sender, contacts ContactVerifier, consent ConsentWithdrawer, audit AuditRecorder, opts ...Option) *Service {
	s := &Service{
		codes:           codes,
		sender:          sender,
		contacts:        contacts,
		consent:         consent,
		audit:           audit,
		logger:          slog.Default(),
		deliveryTimeout: defaultDeliveryTimeout,
		generate:        models.GenerateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestCode issues a fresh code for the identity, replacing any outstanding
// one, and delivers it to contact. A delivery failure leaves no code behind.
func (s *Service) RequestCode(ctx context.Context, identityID id.IdentityID, key id.ConsentKey, req *models.RequestCodeRequest) (*models.CodeIssued, error) {
	requestID := requestcontext.RequestID(ctx)

	if err := s.contacts.ConfirmContact(ctx, identityID, req.Contact); err != nil {
		s.count("request", string(dErrors.CodeOf(err)))
		return nil, err
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, identityID.String())
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "code request throttle unavailable, allowing request",
				"error", err,
				"request_id", requestID,
			)
		case !allowed:
			s.count("request", "throttled")
			return nil, dErrors.New(dErrors.CodeTooManyRequests, "too many code requests")
		}
	}

	value, err := s.generate()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
	}
	code, err := models.NewCode(identityID, key, value, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.codes.Save(ctx, code); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store code")
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
	defer cancel()
	err = s.sender.Send(sendCtx, delivery.Notification{
		IdentityID: identityID,
		Contact:    req.Contact,
		Code:       code.Value,
		ExpiresAt:  code.ExpiresAt,
	})
	if err != nil {
		if discardErr := s.codes.Discard(context.WithoutCancel(ctx), code); discardErr != nil {
			s.logger.WarnContext(ctx, "failed to discard undelivered code",
				"error", discardErr,
				"request_id", requestID,
			)
		}
		s.logger.ErrorContext(ctx, "deletion code delivery failed",
			"error", err,
			"identity_id", identityID.String(),
			"request_id", requestID,
		)
		s.count("request", "delivery_failed")
		return nil, dErrors.Wrap(err, dErrors.CodeUpstreamFatal, "code delivery failed")
	}

	if s.security != nil {
		s.security.Record(ctx, secmodels.EventDeletionCodeRequested)
	}
	s.count("request", "ok")
	s.logger.InfoContext(ctx, "deletion code issued",
		"identity_id", identityID.String(),
		"request_id", requestID,
	)
	return &models.CodeIssued{ExpiresAt: code.ExpiresAt}, nil
}

// VerifyCode consumes the identity's code and, on a match, soft-deletes the
// preference and processing-context ledgers and writes the audit record that
// marks the deletion complete.
func (s *Service) VerifyCode(ctx context.Context, identityID id.IdentityID, req *models.VerifyCodeRequest) (*models.DeletionResult, error) {
	if !models.ValidCodeFormat(req.Code) {
		return nil, dErrors.New(dErrors.CodeValidation, "code must be exactly six digits")
	}

	code, err := s.codes.Take(ctx, identityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.count("verify", "no_code")
			return nil, dErrors.New(dErrors.CodeNoCodeRequested, "no deletion code requested")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load code")
	}
	if code.IsExpired(requestcontext.Now(ctx)) {
		s.count("verify", "expired")
		return nil, dErrors.New(dErrors.CodeCodeExpired, "deletion code expired")
	}
	if !code.Matches(req.Code) {
		s.count("verify", "mismatch")
		return nil, dErrors.New(dErrors.CodeCodeMismatch, "deletion code does not match")
	}

	result, err := s.cascade(ctx, code.ConsentKey)
	if err != nil {
		s.count("verify", string(dErrors.CodeOf(err)))
		return nil, err
	}

	if s.security != nil {
		s.security.Record(ctx, secmodels.EventDeletionVerified)
	}
	s.count("verify", "ok")
	return result, nil
}

// cascade is the deletion saga. Each step is idempotent and independently
// retryable; the audit write runs last and is the completion marker.
func (s *Service) cascade(ctx context.Context, key id.ConsentKey) (*models.DeletionResult, error) {
	requestID := requestcontext.RequestID(ctx)

	prefErr, ctxErr := s.consent.Withdraw(ctx, key)

	if prefErr != nil && ctxErr != nil {
		s.logger.ErrorContext(ctx, "deletion cascade failed on both ledgers",
			"preferences_error", prefErr,
			"context_error", ctxErr,
			"consent_key", key.Masked(),
			"request_id", requestID,
		)
		return nil, dErrors.Wrap(errors.Join(prefErr, ctxErr), dErrors.CodeInternal, "failed to delete consent records")
	}
	if prefErr != nil || ctxErr != nil {
		s.logger.WarnContext(ctx, "deletion cascade partially failed",
			"preferences_error", prefErr,
			"context_error", ctxErr,
			"consent_key", key.Masked(),
			"request_id", requestID,
		)
	}

	result := &models.DeletionResult{
		PreferencesDeleted: prefErr == nil,
		ContextDeleted:     ctxErr == nil,
	}
	detail := fmt.Sprintf("self-service deletion preferences=%t context=%t", result.PreferencesDeleted, result.ContextDeleted)
	if err := s.audit.Record(ctx, id.AdminID{}, auditmodels.ActionSoftDelete, key, detail); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) count(stage, outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementDeletionCode(stage, outcome)
	}
}
