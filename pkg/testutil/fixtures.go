package testutil

import (
	"time"

	"github.com/google/uuid"

	identitymodels "consentvault/internal/identity/models"
	prefmodels "consentvault/internal/preference/models"
	procmodels "consentvault/internal/processing/models"
	id "consentvault/pkg/domain"
)

// TestIDs provides pre-generated IDs for deterministic test data.
var TestIDs = struct {
	IdentityID1 id.IdentityID
	IdentityID2 id.IdentityID
	AdminID1    id.AdminID
	ConsentKey1 id.ConsentKey
	ConsentKey2 id.ConsentKey
}{
	IdentityID1: id.IdentityID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	IdentityID2: id.IdentityID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	AdminID1:    id.AdminID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	ConsentKey1: id.ConsentKey("K1abcdef"),
	ConsentKey2: id.ConsentKey("K2ghijkl"),
}

// IdentityBuilder provides a fluent interface for building test identities.
type IdentityBuilder struct {
	identity *identitymodels.Identity
}

func NewIdentityBuilder() *IdentityBuilder {
	now := time.Now()
	digest, _ := identitymodels.NewContactDigest("ada@example.com") //nolint:errcheck // constant input
	return &IdentityBuilder{
		identity: &identitymodels.Identity{
			ID:            id.IdentityID(uuid.New()),
			Name:          "Ada",
			ContactDigest: digest,
			PasswordHash:  []byte("$2a$04$placeholderplaceholderplaceholderplaceholderpl"),
			ConsentKey:    TestIDs.ConsentKey1,
			CreatedAt:     now,
			LastActivity:  now,
		},
	}
}

func (b *IdentityBuilder) WithID(identityID id.IdentityID) *IdentityBuilder {
	b.identity.ID = identityID
	return b
}

func (b *IdentityBuilder) WithConsentKey(key id.ConsentKey) *IdentityBuilder {
	b.identity.ConsentKey = key
	return b
}

func (b *IdentityBuilder) WithContact(contact string) *IdentityBuilder {
	digest, err := identitymodels.NewContactDigest(contact)
	if err == nil {
		b.identity.ContactDigest = digest
	}
	return b
}

func (b *IdentityBuilder) LastActiveAt(t time.Time) *IdentityBuilder {
	b.identity.CreatedAt = t
	b.identity.LastActivity = t
	return b
}

func (b *IdentityBuilder) DeletedAt(t time.Time) *IdentityBuilder {
	b.identity.DeletedAt = &t
	return b
}

func (b *IdentityBuilder) Build() *identitymodels.Identity {
	return b.identity
}

// NewTestPreferences returns a record created at createdAt with the given purposes.
func NewTestPreferences(key id.ConsentKey, p prefmodels.Purposes, createdAt time.Time) *prefmodels.Preferences {
	return prefmodels.NewPreferences(key, p, createdAt)
}

// NewTestContext returns an accepted consent-logging context with placeholder geography.
func NewTestContext(key id.ConsentKey, createdAt time.Time) *procmodels.Context {
	c, err := procmodels.NewAcceptedContext(key, "203.0.113.0", procmodels.UnknownGeo(), createdAt)
	if err != nil {
		panic(err)
	}
	return c
}
