package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
)

func TestContactDigest(t *testing.T) {
	a, err := NewContactDigest("  A@X.com ")
	require.NoError(t, err)
	b, err := NewContactDigest("a@x.com")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, string(a), 64)
	assert.NotContains(t, string(a), "a@x.com")
	assert.True(t, a.Matches("A@x.COM"))
	assert.False(t, a.Matches("b@x.com"))
	assert.False(t, ContactDigest("").Matches("a@x.com"))

	_, err = NewContactDigest("   ")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNewIdentityInvariants(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	digest, _ := NewContactDigest("a@x.com")
	identityID := id.IdentityID(uuid.New())

	identity, err := NewIdentity(identityID, "Ada", digest, []byte("hash"), id.ConsentKey("K1abcdef"), now)
	require.NoError(t, err)
	assert.Equal(t, now, identity.LastActivity)
	assert.False(t, identity.IsDeleted())

	_, err = NewIdentity(identityID, "Ada", digest, []byte("hash"), "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewIdentity(identityID, " ", digest, []byte("hash"), "K1abcdef", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestViewMasksSecrets(t *testing.T) {
	digest, _ := NewContactDigest("a@x.com")
	identity, err := NewIdentity(id.IdentityID(uuid.New()), "Ada", digest, []byte("hash"), id.ConsentKey("K1abcdef"), time.Now())
	require.NoError(t, err)

	view := identity.View()
	assert.Equal(t, "K1****ef", view.ConsentKey)
}
