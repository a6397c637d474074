package jwttoken

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "consentvault/pkg/domain"
	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/requestcontext"
)

var (
	identityID = id.IdentityID(uuid.New())
	adminID    = id.AdminID(uuid.New())
	consentKey = id.ConsentKey("Ab3dE_9z")
)

func newService() *JWTService {
	return NewJWTService("test-signing-key", "consentvault", "consentvault-api", time.Hour, 15*time.Minute)
}

func Test_IssueUserToken(t *testing.T) {
	svc := newService()
	issued, err := svc.IssueUserToken(context.Background(), identityID, consentKey)
	require.NoError(t, err)
	require.NotEmpty(t, issued.Value)
	assert.Len(t, issued.JTI, 32)

	claims, err := svc.ValidateToken(issued.Value)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, claims.Role)
	assert.Equal(t, identityID.String(), claims.Subject)
	assert.Equal(t, string(consentKey), claims.ConsentKey)
	assert.Equal(t, issued.JTI, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_IssueAdminToken(t *testing.T) {
	svc := newService()
	issued, err := svc.IssueAdminToken(context.Background(), adminID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(issued.Value)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Empty(t, claims.ConsentKey)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, time.Minute)
}

func Test_IssueRejectsNilIDs(t *testing.T) {
	svc := newService()
	_, err := svc.IssueUserToken(context.Background(), id.IdentityID{}, consentKey)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	_, err = svc.IssueAdminToken(context.Background(), id.AdminID{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func Test_ValidateToken_Expired(t *testing.T) {
	svc := newService()
	ctx := requestcontext.WithTime(context.Background(), time.Now().Add(-2*time.Hour))
	issued, err := svc.IssueAdminToken(ctx, adminID)
	require.NoError(t, err)

	_, err = svc.ValidateToken(issued.Value)
	require.ErrorContains(t, err, "token expired")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_Garbage(t *testing.T) {
	_, err := newService().ValidateToken("not-a-jwt")
	require.ErrorContains(t, err, "invalid token")

	_, err = newService().ValidateToken("")
	require.ErrorContains(t, err, "invalid token")
}

func Test_ValidateToken_WrongKeyOrIssuer(t *testing.T) {
	other := NewJWTService("another-key", "consentvault", "consentvault-api", time.Hour, time.Hour)
	issued, err := other.IssueAdminToken(context.Background(), adminID)
	require.NoError(t, err)
	_, err = newService().ValidateToken(issued.Value)
	require.ErrorContains(t, err, "invalid token")

	foreign := NewJWTService("test-signing-key", "someone-else", "consentvault-api", time.Hour, time.Hour)
	issued, err = foreign.IssueAdminToken(context.Background(), adminID)
	require.NoError(t, err)
	_, err = newService().ValidateToken(issued.Value)
	require.ErrorContains(t, err, "invalid token")
}

func Test_ValidateToken_RejectsAlgorithmConfusion(t *testing.T) {
	claims := SessionClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			Issuer:    "consentvault",
			Audience:  []string{"consentvault-api"},
			ID:        "abc",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newService().ValidateToken(signed)
	require.ErrorContains(t, err, "invalid token")
}

func Test_AdapterCarriesClaims(t *testing.T) {
	svc := newService()
	issued, err := svc.IssueUserToken(context.Background(), identityID, consentKey)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(svc).ValidateToken(issued.Value)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, issued.JTI, claims.JTI)
	assert.Equal(t, issued.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
}
