package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/requestcontext"
)

// Role distinguishes end-user sessions from administrator sessions.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SessionClaims are carried by every token this service issues.
// Subject is the identity ID for users and the administrator ID for admins.
type SessionClaims struct {
	Role       Role   `json:"role"`
	ConsentKey string `json:"ck,omitempty"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token plus the values callers need to track it.
type IssuedToken struct {
	Value     string
	JTI       string
	ExpiresAt time.Time
}

// JWTService handles JWT creation and validation
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	userTTL    time.Duration
	adminTTL   time.Duration
}

func NewJWTService(signingKey, issuer, audience string, userTTL, adminTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		userTTL:    userTTL,
		adminTTL:   adminTTL,
	}
}

// IssueUserToken signs a session token for an authenticated identity.
func (s *JWTService) IssueUserToken(ctx context.Context, identityID id.IdentityID, key id.ConsentKey) (*IssuedToken, error) {
	if identityID.IsNil() || key.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "identity and consent key required")
	}
	return s.issue(ctx, RoleUser, identityID.String(), string(key), s.userTTL)
}

// IssueAdminToken signs a short-lived administrator session token.
func (s *JWTService) IssueAdminToken(ctx context.Context, adminID id.AdminID) (*IssuedToken, error) {
	if adminID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "admin id required")
	}
	return s.issue(ctx, RoleAdmin, adminID.String(), "", s.adminTTL)
}

func (s *JWTService) issue(ctx context.Context, role Role, subject, consentKey string, ttl time.Duration) (*IssuedToken, error) {
	jti, err := newJTI()
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Role:       role,
		ConsentKey: consentKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        jti,
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	// NumericDate truncates to seconds; report what the token actually carries.
	return &IssuedToken{Value: signed, JTI: jti, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// ValidateToken verifies signature, algorithm, issuer, audience and expiry.
// Expired tokens yield CodeUnauthorized with message "token expired" so callers
// can tell them apart in logs; every other failure is "invalid token".
func (s *JWTService) ValidateToken(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

func newJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate jti: %w", err)
	}
	return hex.EncodeToString(b), nil
}
