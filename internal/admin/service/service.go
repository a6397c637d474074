package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"consentvault/internal/admin/models"
	auditmodels "consentvault/internal/audit/models"
	identitymodels "consentvault/internal/identity/models"
	jwttoken "consentvault/internal/jwt_token"
	"consentvault/internal/platform/metrics"
	prefmodels "consentvault/internal/preference/models"
	procmodels "consentvault/internal/processing/models"
	secmodels "consentvault/internal/security/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/credential"
	"consentvault/pkg/platform/sentinel"
	"consentvault/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, admin *models.Administrator) error
	FindByLogin(ctx context.Context, login string) (*models.Administrator, error)
	RecordLogin(ctx context.Context, adminID id.AdminID, at time.Time) error
}

type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
	CompareDummy(password string)
}

type TokenIssuer interface {
	IssueAdminToken(ctx context.Context, adminID id.AdminID) (*jwttoken.IssuedToken, error)
}

type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// IdentityLedger, PreferenceLedger and ContextLedger are the consent-keyed
// ledgers an administrator reads and deletes. Find returns nil when absent.
// PreferenceLedger.Withdraw soft-deletes preferences and the processing
// context together under the consent key's lock.
type IdentityLedger interface {
	List(ctx context.Context) ([]*identitymodels.Identity, error)
	Find(ctx context.Context, key id.ConsentKey) (*identitymodels.Identity, error)
	SoftDelete(ctx context.Context, key id.ConsentKey) error
}

type PreferenceLedger interface {
	List(ctx context.Context) ([]*prefmodels.Preferences, error)
	Find(ctx context.Context, key id.ConsentKey) (*prefmodels.Preferences, error)
	Withdraw(ctx context.Context, key id.ConsentKey) (prefErr, ctxErr error)
}

type ContextLedger interface {
	List(ctx context.Context) ([]*procmodels.Context, error)
	Find(ctx context.Context, key id.ConsentKey) (*procmodels.Context, error)
}

// AuditRecorder writes the audit trail. An error means the privileged
// operation must be reported as failed.
type AuditRecorder interface {
	Record(ctx context.Context, actor id.AdminID, action auditmodels.Action, key id.ConsentKey, detail string) error
}

type SecurityLog interface {
	Record(ctx context.Context, eventType secmodels.EventType)
	ListRecent(ctx context.Context, limit int) ([]*secmodels.Event, error)
}

const invalidCredentials = "invalid credentials"

type Option func(*Service)

type Service struct {
	admins      Store
	hasher      PasswordHasher
	tokens      TokenIssuer
	revocations RevocationList
	identities  IdentityLedger
	preferences PreferenceLedger
	contexts    ContextLedger
	audit       AuditRecorder
	security    SecurityLog
	logger      *slog.Logger
	metrics     *metrics.Metrics
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

// WithSecurityLog records admin login attempts and enables ListSecurityEvents.
func WithSecurityLog(l SecurityLog) Option {
	return func(s *Service) {
		s.security = l
	}
}

func New(
	admins Store,
	hasher PasswordHasher,
	tokens TokenIssuer,
	revocations RevocationList,
	identities IdentityLedger,
	preferences PreferenceLedger,
	contexts ContextLedger,
	audit AuditRecorder,
	opts ...Option,
) *Service {
	s := &Service{
		admins:      admins,
		hasher:      hasher,
		tokens:      tokens,
		revocations: revocations,
		identities:  identities,
		preferences: preferences,
		contexts:    contexts,
		audit:       audit,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the credential pair and issues an administrator session token.
// The token is only returned once the login has been audited.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	requestID := requestcontext.RequestID(ctx)

	admin, err := s.admins.FindByLogin(ctx, req.Login)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load administrator")
		}
		s.hasher.CompareDummy(req.Password)
		s.loginFailed(ctx, requestID)
		return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
	}
	if err := s.hasher.Compare(admin.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, credential.ErrMismatch) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credential")
		}
		s.loginFailed(ctx, requestID)
		return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
	}

	token, err := s.tokens.IssueAdminToken(ctx, admin.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue admin token")
	}
	if err := s.audit.Record(ctx, admin.ID, auditmodels.ActionLogin, "", "admin login"); err != nil {
		return nil, err
	}
	if err := s.admins.RecordLogin(ctx, admin.ID, requestcontext.Now(ctx)); err != nil {
		s.logger.WarnContext(ctx, "failed to record admin last login",
			"error", err,
			"admin_id", admin.ID.String(),
			"request_id", requestID,
		)
	}

	if s.security != nil {
		s.security.Record(ctx, secmodels.EventAdminLoginSucceeded)
	}
	if s.metrics != nil {
		s.metrics.IncrementAdminLogin("succeeded")
	}
	s.logger.InfoContext(ctx, "admin logged in",
		"admin_id", admin.ID.String(),
		"request_id", requestID,
	)
	return &models.LoginResult{Token: token.Value, ExpiresAt: token.ExpiresAt}, nil
}

// Logout revokes the token that authenticated the request for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, adminID id.AdminID) error {
	jti := requestcontext.TokenJTI(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeInternal, "token context missing")
	}
	remaining := requestcontext.TokenExpiry(ctx).Sub(requestcontext.Now(ctx))
	if remaining > 0 {
		if err := s.revocations.RevokeToken(ctx, jti, remaining); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
		}
	}
	if err := s.audit.Record(ctx, adminID, auditmodels.ActionLogout, "", "admin logout"); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "admin logged out",
		"admin_id", adminID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// ListRecords returns every consent key with whatever each ledger holds for it.
func (s *Service) ListRecords(ctx context.Context, adminID id.AdminID) ([]*models.Record, error) {
	identities, err := s.identities.List(ctx)
	if err != nil {
		return nil, err
	}
	preferences, err := s.preferences.List(ctx)
	if err != nil {
		return nil, err
	}
	contexts, err := s.contexts.List(ctx)
	if err != nil {
		return nil, err
	}

	records := models.Aggregate(identities, preferences, contexts)
	if err := s.audit.Record(ctx, adminID, auditmodels.ActionDataFetch, "", fmt.Sprintf("list records count=%d", len(records))); err != nil {
		return nil, err
	}
	return records, nil
}

// GetRecord returns the joined view for one consent key. Unknown keys are not
// audited since nothing was disclosed.
func (s *Service) GetRecord(ctx context.Context, adminID id.AdminID, key id.ConsentKey) (*models.Record, error) {
	record, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.audit.Record(ctx, adminID, auditmodels.ActionDataFetch, key, "get record"); err != nil {
		return nil, err
	}
	return record, nil
}

// SoftDeleteRecord runs the deletion cascade for key across both consent
// ledgers and the identity. Each step is idempotent; the audit write is last
// and marks the deletion complete.
func (s *Service) SoftDeleteRecord(ctx context.Context, adminID id.AdminID, key id.ConsentKey) (*models.SoftDeleteResult, error) {
	requestID := requestcontext.RequestID(ctx)

	record, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	prefErr, ctxErr := s.preferences.Withdraw(ctx, key)
	succeeded := 0
	if prefErr == nil {
		succeeded++
	}
	if ctxErr == nil {
		succeeded++
	}
	var identityErr error
	if record.Identity != nil {
		if identityErr = s.identities.SoftDelete(ctx, key); identityErr == nil {
			succeeded++
		}
	}

	// nothing transitioned, so there is no deletion to audit
	if succeeded == 0 {
		s.logger.ErrorContext(ctx, "admin deletion failed on every ledger",
			"preferences_error", prefErr,
			"context_error", ctxErr,
			"identity_error", identityErr,
			"consent_key", key.Masked(),
			"request_id", requestID,
		)
		return nil, dErrors.Wrap(errors.Join(prefErr, ctxErr, identityErr), dErrors.CodeInternal, "failed to delete record")
	}
	if prefErr != nil || ctxErr != nil || identityErr != nil {
		s.logger.WarnContext(ctx, "admin deletion partially failed",
			"preferences_error", prefErr,
			"context_error", ctxErr,
			"identity_error", identityErr,
			"consent_key", key.Masked(),
			"request_id", requestID,
		)
	}

	result := &models.SoftDeleteResult{
		IdentityDeleted:    record.Identity != nil && identityErr == nil,
		PreferencesDeleted: prefErr == nil,
		ContextDeleted:     ctxErr == nil,
	}
	detail := fmt.Sprintf("admin deletion identity=%t preferences=%t context=%t",
		result.IdentityDeleted, result.PreferencesDeleted, result.ContextDeleted)
	if err := s.audit.Record(ctx, adminID, auditmodels.ActionSoftDelete, key, detail); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "record soft deleted by admin",
		"admin_id", adminID.String(),
		"consent_key", key.Masked(),
		"request_id", requestID,
	)
	return result, nil
}

// ListSecurityEvents returns the newest security events.
func (s *Service) ListSecurityEvents(ctx context.Context, adminID id.AdminID, limit int) ([]*secmodels.Event, error) {
	events := []*secmodels.Event{}
	if s.security != nil {
		var err error
		events, err = s.security.ListRecent(ctx, limit)
		if err != nil {
			return nil, err
		}
	}
	if err := s.audit.Record(ctx, adminID, auditmodels.ActionDataFetch, "", fmt.Sprintf("list security events count=%d", len(events))); err != nil {
		return nil, err
	}
	return events, nil
}

// Bootstrap creates the first administrator when login is configured and not
// yet present. Running it on every start is safe.
func (s *Service) Bootstrap(ctx context.Context, login, password string) error {
	if login == "" || password == "" {
		return nil
	}
	if _, err := s.admins.FindByLogin(ctx, login); err == nil {
		return nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load administrator")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash credential")
	}
	admin, err := models.NewAdministrator(id.AdminID(uuid.New()), login, hash, requestcontext.Now(ctx))
	if err != nil {
		return err
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create administrator")
	}
	s.logger.InfoContext(ctx, "bootstrap administrator created", "admin_id", admin.ID.String())
	return nil
}

func (s *Service) lookup(ctx context.Context, key id.ConsentKey) (*models.Record, error) {
	identity, err := s.identities.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	preferences, err := s.preferences.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	processing, err := s.contexts.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	record := models.NewRecord(key, identity, preferences, processing)
	if record == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no records for consent key")
	}
	return record, nil
}

func (s *Service) loginFailed(ctx context.Context, requestID string) {
	if s.security != nil {
		s.security.Record(ctx, secmodels.EventAdminLoginFailed)
	}
	if s.metrics != nil {
		s.metrics.IncrementAdminLogin("failed")
	}
	s.logger.InfoContext(ctx, "admin login rejected", "request_id", requestID)
}
