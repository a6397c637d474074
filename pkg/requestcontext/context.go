// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
//
//	identityID := requestcontext.IdentityID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "consentvault/pkg/domain"
)

type (
	identityIDKey  struct{}
	consentKeyKey  struct{}
	adminIDKey     struct{}
	tokenJTIKey    struct{}
	tokenExpiryKey struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyIdentityID  = identityIDKey{}
	ContextKeyConsentKey  = consentKeyKey{}
	ContextKeyAdminID     = adminIDKey{}
	ContextKeyTokenJTI    = tokenJTIKey{}
	ContextKeyTokenExpiry = tokenExpiryKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyUserAgent   = userAgentKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// -----------------------------------------------------------------------------
// Identity context (set by user auth middleware)
// -----------------------------------------------------------------------------

// IdentityID retrieves the authenticated identity from the context.
// Returns the zero value (nil UUID) if not set.
func IdentityID(ctx context.Context) id.IdentityID {
	if v, ok := ctx.Value(ContextKeyIdentityID).(id.IdentityID); ok {
		return v
	}
	return id.IdentityID{}
}

// ConsentKey retrieves the consent key of the authenticated identity.
func ConsentKey(ctx context.Context) id.ConsentKey {
	if v, ok := ctx.Value(ContextKeyConsentKey).(id.ConsentKey); ok {
		return v
	}
	return ""
}

// WithIdentity injects the authenticated identity and its consent key.
func WithIdentity(ctx context.Context, identityID id.IdentityID, key id.ConsentKey) context.Context {
	ctx = context.WithValue(ctx, ContextKeyIdentityID, identityID)
	return context.WithValue(ctx, ContextKeyConsentKey, key)
}

// -----------------------------------------------------------------------------
// Admin context (set by admin auth middleware)
// -----------------------------------------------------------------------------

// AdminID retrieves the authenticated administrator from the context.
func AdminID(ctx context.Context) id.AdminID {
	if v, ok := ctx.Value(ContextKeyAdminID).(id.AdminID); ok {
		return v
	}
	return id.AdminID{}
}

// WithAdminID injects an administrator ID into the context.
func WithAdminID(ctx context.Context, adminID id.AdminID) context.Context {
	return context.WithValue(ctx, ContextKeyAdminID, adminID)
}

// TokenJTI retrieves the JWT ID of the token that authenticated the request.
func TokenJTI(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyTokenJTI).(string); ok {
		return v
	}
	return ""
}

// TokenExpiry retrieves the expiry of the token that authenticated the request.
func TokenExpiry(ctx context.Context) time.Time {
	if v, ok := ctx.Value(ContextKeyTokenExpiry).(time.Time); ok {
		return v
	}
	return time.Time{}
}

// WithToken injects the token's JTI and expiry into the context.
func WithToken(ctx context.Context, jti string, expiresAt time.Time) context.Context {
	ctx = context.WithValue(ctx, ContextKeyTokenJTI, jti)
	return context.WithValue(ctx, ContextKeyTokenExpiry, expiresAt)
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent)
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	return context.WithValue(ctx, ContextKeyUserAgent, userAgent)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
