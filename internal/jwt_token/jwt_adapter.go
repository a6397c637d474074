package jwttoken

import (
	"consentvault/pkg/platform/middleware/auth"
)

// ToMiddlewareClaims flattens session claims into the transport-neutral shape
// the auth middleware consumes.
func ToMiddlewareClaims(claims *SessionClaims) *auth.Claims {
	out := &auth.Claims{
		Subject:    claims.Subject,
		Role:       string(claims.Role),
		ConsentKey: claims.ConsentKey,
		JTI:        claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}

type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
