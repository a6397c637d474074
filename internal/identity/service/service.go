package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"consentvault/internal/identity/models"
	jwttoken "consentvault/internal/jwt_token"
	"consentvault/internal/platform/metrics"
	secmodels "consentvault/internal/security/models"
	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/credential"
	"consentvault/pkg/platform/sentinel"
	"consentvault/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Store persists identity records.
type Store interface {
	Create(ctx context.Context, identity *models.Identity) error
	FindByID(ctx context.Context, identityID id.IdentityID) (*models.Identity, error)
	FindByContactDigest(ctx context.Context, digest models.ContactDigest) (*models.Identity, error)
	FindByConsentKey(ctx context.Context, key id.ConsentKey) (*models.Identity, error)
	TouchLastActivity(ctx context.Context, identityID id.IdentityID, at time.Time) error
	SoftDelete(ctx context.Context, key id.ConsentKey, at time.Time) error
	ListAll(ctx context.Context) ([]*models.Identity, error)
}

type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
	CompareDummy(password string)
}

type TokenIssuer interface {
	IssueUserToken(ctx context.Context, identityID id.IdentityID, key id.ConsentKey) (*jwttoken.IssuedToken, error)
}

// SecurityRecorder appends best-effort security events.
type SecurityRecorder interface {
	Record(ctx context.Context, eventType secmodels.EventType)
}

const maxConsentKeyAttempts = 5

// invalidCredentials is the single answer for unknown contacts and wrong passwords.
const invalidCredentials = "invalid credentials"

type Option func(*Service)

type Service struct {
	store    Store
	hasher   PasswordHasher
	tokens   TokenIssuer
	security SecurityRecorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
	newKey   func() (id.ConsentKey, error)
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

// WithSecurityRecorder enables security event logging for authentication attempts.
func WithSecurityRecorder(r SecurityRecorder) Option {
	return func(s *Service) {
		s.security = r
	}
}

// WithConsentKeyGenerator replaces the random key source. Used by tests to force collisions.
func WithConsentKeyGenerator(fn func() (id.ConsentKey, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.newKey = fn
		}
	}
}

func New(store Store, hasher PasswordHasher, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: slog.Default(),
		newKey: id.NewConsentKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an identity with a fresh consent key. The raw contact is
// reduced to its digest before it reaches the store.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error) {
	requestID := requestcontext.RequestID(ctx)
	digest, err := models.NewContactDigest(req.Contact)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash credential")
	}

	now := requestcontext.Now(ctx)
	for attempt := 1; attempt <= maxConsentKeyAttempts; attempt++ {
		key, err := s.newKey()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate consent key")
		}
		identity, err := models.NewIdentity(id.IdentityID(uuid.New()), req.Name, digest, hash, key, now)
		if err != nil {
			return nil, err
		}

		err = s.store.Create(ctx, identity)
		switch {
		case err == nil:
			if s.metrics != nil {
				s.metrics.IncrementIdentitiesRegistered()
			}
			s.logger.InfoContext(ctx, "identity registered",
				"identity_id", identity.ID.String(),
				"consent_key", key.Masked(),
				"request_id", requestID,
			)
			return &models.RegisterResult{Identity: identity.View(), ConsentKey: key.String()}, nil
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "contact already registered")
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			s.logger.WarnContext(ctx, "consent key collision, retrying",
				"attempt", attempt,
				"request_id", requestID,
			)
			continue
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create identity")
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "could not allocate a unique consent key")
}

// Authenticate verifies a contact/password pair and issues a user session token.
func (s *Service) Authenticate(ctx context.Context, req *models.AuthenticateRequest) (*models.AuthenticateResult, error) {
	requestID := requestcontext.RequestID(ctx)
	digest, err := models.NewContactDigest(req.Contact)
	if err != nil {
		return nil, err
	}

	identity, err := s.store.FindByContactDigest(ctx, digest)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
		}
		s.hasher.CompareDummy(req.Password)
		s.authFailed(ctx, requestID)
		return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
	}

	if err := s.hasher.Compare(identity.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, credential.ErrMismatch) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credential")
		}
		s.authFailed(ctx, requestID)
		return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
	}

	s.touch(ctx, identity.ID)

	token, err := s.tokens.IssueUserToken(ctx, identity.ID, identity.ConsentKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}

	if s.security != nil {
		s.security.Record(ctx, secmodels.EventAuthenticationSucceeded)
	}
	if s.metrics != nil {
		s.metrics.IncrementAuthentication("succeeded")
	}
	s.logger.InfoContext(ctx, "identity authenticated",
		"identity_id", identity.ID.String(),
		"request_id", requestID,
	)
	return &models.AuthenticateResult{Token: token.Value, ExpiresAt: token.ExpiresAt}, nil
}

// Profile returns the caller's own masked identity and refreshes last activity.
func (s *Service) Profile(ctx context.Context, identityID id.IdentityID) (*models.View, error) {
	identity, err := s.store.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "identity not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	if identity.IsDeleted() {
		return nil, dErrors.New(dErrors.CodeNotFound, "identity not found")
	}
	s.touch(ctx, identity.ID)
	identity.LastActivity = requestcontext.Now(ctx)
	return identity.View(), nil
}

// ConfirmContact checks that contact is the delivery address on file for the
// identity. Only a digest is kept, so the caller must supply the address.
func (s *Service) ConfirmContact(ctx context.Context, identityID id.IdentityID, contact string) error {
	identity, err := s.store.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "identity not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	if identity.IsDeleted() {
		return dErrors.New(dErrors.CodeNotFound, "identity not found")
	}
	if identity.ContactDigest.IsEmpty() || !identity.ContactDigest.Matches(contact) {
		return dErrors.New(dErrors.CodeNoContactOnFile, "no matching contact on file")
	}
	return nil
}

// Find returns the identity owning key, or nil when there is none. Soft-deleted
// identities are returned; admin views show them until the sweeper purges them.
func (s *Service) Find(ctx context.Context, key id.ConsentKey) (*models.Identity, error) {
	identity, err := s.store.FindByConsentKey(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity")
	}
	return identity, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Identity, error) {
	identities, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list identities")
	}
	return identities, nil
}

// SoftDelete marks the identity owning key as deleted. Repeated calls are no-ops.
func (s *Service) SoftDelete(ctx context.Context, key id.ConsentKey) error {
	if err := s.store.SoftDelete(ctx, key, requestcontext.Now(ctx)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "identity not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to soft delete identity")
	}
	return nil
}

// touch refreshes last activity. A failure only delays the inactivity purge,
// so it is logged and swallowed.
func (s *Service) touch(ctx context.Context, identityID id.IdentityID) {
	if err := s.store.TouchLastActivity(ctx, identityID, requestcontext.Now(ctx)); err != nil {
		s.logger.WarnContext(ctx, "failed to refresh last activity",
			"error", err,
			"identity_id", identityID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (s *Service) authFailed(ctx context.Context, requestID string) {
	if s.security != nil {
		s.security.Record(ctx, secmodels.EventAuthenticationFailed)
	}
	if s.metrics != nil {
		s.metrics.IncrementAuthentication("failed")
	}
	s.logger.InfoContext(ctx, "authentication rejected", "request_id", requestID)
}
