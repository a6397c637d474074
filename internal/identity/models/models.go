package models

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
)

// ContactDigest is the one-way form of a contact address. The raw address is
// never stored; the digest only answers "is this the same contact".
type ContactDigest string

// NewContactDigest normalizes the address (trimmed, lowercased) and hashes it.
func NewContactDigest(contact string) (ContactDigest, error) {
	normalized := strings.ToLower(strings.TrimSpace(contact))
	if normalized == "" {
		return "", dErrors.New(dErrors.CodeValidation, "contact is required")
	}
	sum := sha256.Sum256([]byte(normalized))
	return ContactDigest(hex.EncodeToString(sum[:])), nil
}

// Matches reports whether contact normalizes to this digest.
func (d ContactDigest) Matches(contact string) bool {
	if d == "" {
		return false
	}
	other, err := NewContactDigest(contact)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(d), []byte(other)) == 1
}

func (d ContactDigest) IsEmpty() bool { return d == "" }

// Identity is the root record. Every satellite record references it by ConsentKey.
type Identity struct {
	ID            id.IdentityID
	Name          string
	ContactDigest ContactDigest
	PasswordHash  []byte
	ConsentKey    id.ConsentKey
	CreatedAt     time.Time
	LastActivity  time.Time
	DeletedAt     *time.Time
}

// NewIdentity validates the invariants of a freshly registered identity.
func NewIdentity(identityID id.IdentityID, name string, digest ContactDigest, passwordHash []byte, key id.ConsentKey, now time.Time) (*Identity, error) {
	if identityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "identity id required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name required")
	}
	if digest.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contact digest required")
	}
	if len(passwordHash) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash required")
	}
	if key.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "consent key required")
	}
	return &Identity{
		ID:            identityID,
		Name:          name,
		ContactDigest: digest,
		PasswordHash:  passwordHash,
		ConsentKey:    key,
		CreatedAt:     now,
		LastActivity:  now,
	}, nil
}

func (i *Identity) IsDeleted() bool {
	return i.DeletedAt != nil
}

// View is the public projection of an identity. The consent key is masked and
// neither the contact digest nor the credential hash is ever exposed.
type View struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	ConsentKey   string     `json:"consent_key"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity time.Time  `json:"last_activity"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

func (i *Identity) View() *View {
	return &View{
		ID:           i.ID.String(),
		Name:         i.Name,
		ConsentKey:   i.ConsentKey.Masked(),
		CreatedAt:    i.CreatedAt,
		LastActivity: i.LastActivity,
		DeletedAt:    i.DeletedAt,
	}
}
