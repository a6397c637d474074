// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"

	dErrors "consentvault/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing IdentityID where AdminID is expected.
type (
	IdentityID uuid.UUID
	AdminID    uuid.UUID
	AuditID    uuid.UUID
	EventID    uuid.UUID
)

// ConsentKey is the join key linking an identity to its satellite records.
// It is short, URL-safe and immutable once assigned.
type ConsentKey string

// ConsentKeyLength is the number of characters in a generated consent key.
const ConsentKeyLength = 8

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseIdentityID(s string) (IdentityID, error) {
	id, err := parseUUID(s, "identity ID")
	return IdentityID(id), err
}

func ParseAdminID(s string) (AdminID, error) {
	id, err := parseUUID(s, "admin ID")
	return AdminID(id), err
}

// ParseConsentKey validates the shape of an externally supplied consent key.
func ParseConsentKey(s string) (ConsentKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "consent key cannot be empty")
	}
	if len(s) != ConsentKeyLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid consent key format")
	}
	for _, r := range s {
		if !isConsentKeyRune(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "invalid consent key format")
		}
	}
	return ConsentKey(s), nil
}

// NewConsentKey draws a fresh random consent key. Collisions are resolved by
// the caller retrying against the unique index.
func NewConsentKey() (ConsentKey, error) {
	for {
		b := make([]byte, 6)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		encoded := base64.RawURLEncoding.EncodeToString(b)
		encoded = strings.Map(func(r rune) rune {
			if isConsentKeyRune(r) {
				return r
			}
			return -1
		}, encoded)
		if len(encoded) >= ConsentKeyLength {
			return ConsentKey(encoded[:ConsentKeyLength]), nil
		}
	}
}

func isConsentKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

// String methods - for logging and debugging.

func (id IdentityID) String() string { return uuid.UUID(id).String() }
func (id AdminID) String() string    { return uuid.UUID(id).String() }
func (id AuditID) String() string    { return uuid.UUID(id).String() }
func (id EventID) String() string    { return uuid.UUID(id).String() }
func (k ConsentKey) String() string  { return string(k) }

// Masked renders the key with only its first and last two characters visible.
func (k ConsentKey) Masked() string {
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return string(k[:2]) + strings.Repeat("*", len(k)-4) + string(k[len(k)-2:])
}

// IsNil checks - used for service-layer validation.

func (id IdentityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AdminID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AuditID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (k ConsentKey) IsNil() bool  { return k == "" }

// parseUUID is the shared validation logic.
// Nil UUIDs are allowed here; services reject them with IsNil so that store
// lookups keep returning consistent "not found" errors.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
