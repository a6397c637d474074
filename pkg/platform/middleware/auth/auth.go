package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	id "consentvault/pkg/domain"
	"consentvault/pkg/requestcontext"
)

const (
	roleUser  = "user"
	roleAdmin = "admin"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// TokenRevocationChecker reports whether a token's JTI has been revoked.
type TokenRevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Claims is the transport-neutral view of a validated session token.
type Claims struct {
	Subject    string
	Role       string
	ConsentKey string
	JTI        string
	ExpiresAt  time.Time
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

func bearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// RequireUser validates an end-user session token and stores the identity,
// consent key and token metadata in the request context.
// Any failure yields 401 with the same description.
func RequireUser(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token", "request_id", requestID)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil || claims.Role != roleUser {
				logger.WarnContext(ctx, "unauthorized access - invalid user token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			identityID, err := id.ParseIdentityID(claims.Subject)
			if err != nil || identityID.IsNil() {
				logger.WarnContext(ctx, "unauthorized access - malformed token subject", "request_id", requestID)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}
			key, err := id.ParseConsentKey(claims.ConsentKey)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed consent key claim", "request_id", requestID)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithIdentity(ctx, identityID, key)
			ctx = requestcontext.WithToken(ctx, claims.JTI, claims.ExpiresAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin validates an administrator session token.
// A missing token yields 401; an invalid, expired, revoked or non-admin token
// yields 403 with one description so callers cannot tell the causes apart.
func RequireAdmin(validator TokenValidator, revocations TokenRevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "admin access denied - missing token", "request_id", requestID)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			forbid := func(reason string, args ...any) {
				logger.WarnContext(ctx, "admin access denied - "+reason, append(args, "request_id", requestID)...)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Invalid or expired session")
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				forbid("invalid token", "error", err)
				return
			}
			if claims.Role != roleAdmin {
				forbid("wrong role")
				return
			}
			adminID, err := id.ParseAdminID(claims.Subject)
			if err != nil || adminID.IsNil() {
				forbid("malformed subject")
				return
			}
			if claims.JTI == "" {
				forbid("missing jti")
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsTokenRevoked(ctx, claims.JTI)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check token revocation",
						"error", err,
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to validate token")
					return
				}
				if revoked {
					forbid("token revoked", "jti", claims.JTI)
					return
				}
			}

			ctx = requestcontext.WithAdminID(ctx, adminID)
			ctx = requestcontext.WithToken(ctx, claims.JTI, claims.ExpiresAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
