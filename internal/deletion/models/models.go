package models

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
)

const (
	// CodeLength and CodeTTL are fixed by policy, not configuration.
	CodeLength = 6
	CodeTTL    = 5 * time.Minute

	// TombstoneTTL keeps an expired code readable long enough to answer
	// code_expired instead of no_code_requested.
	TombstoneTTL = 10 * time.Minute
)

var codeSpace = big.NewInt(1_000_000)

// Code is the single outstanding deletion code of one identity.
type Code struct {
	IdentityID id.IdentityID
	ConsentKey id.ConsentKey
	Value      string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

func NewCode(identityID id.IdentityID, key id.ConsentKey, value string, issuedAt time.Time) (*Code, error) {
	if identityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "identity required")
	}
	if key.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "consent key required")
	}
	if !ValidCodeFormat(value) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "malformed code")
	}
	return &Code{
		IdentityID: identityID,
		ConsentKey: key,
		Value:      value,
		IssuedAt:   issuedAt,
		ExpiresAt:  issuedAt.Add(CodeTTL),
	}, nil
}

// IsExpired reports whether now is at or past the expiry.
func (c *Code) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Matches compares in constant time.
func (c *Code) Matches(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(candidate)) == 1
}

// RetainUntil is when a store may forget the code entirely.
func (c *Code) RetainUntil() time.Time {
	return c.ExpiresAt.Add(TombstoneTTL)
}

// GenerateCode draws a uniformly random zero-padded six digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// ValidCodeFormat accepts exactly six ASCII digits.
func ValidCodeFormat(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
