package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentvault/internal/processing/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

func accepted(t *testing.T, key id.ConsentKey, at time.Time) *models.Context {
	t.Helper()
	c, err := models.NewAcceptedContext(key, "198.51.100.0", models.Geo{City: "Lyon"}, at)
	require.NoError(t, err)
	return c
}

func TestUpsertRefreshKeepsCreation(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.Upsert(ctx, accepted(t, "K1abcdef", t0))
	require.NoError(t, err)
	stored, err := s.Upsert(ctx, accepted(t, "K1abcdef", t0.Add(time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, t0, stored.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour), stored.UpdatedAt)
}

func TestWithdrawThenReaccept(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	grace := 30 * 24 * time.Hour

	changed, err := s.Withdraw(ctx, "K1abcdef", t0, grace)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = s.Upsert(ctx, accepted(t, "K1abcdef", t0))
	require.NoError(t, err)

	changed, err = s.Withdraw(ctx, "K1abcdef", t0.Add(time.Hour), grace)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Withdraw(ctx, "K1abcdef", t0.Add(48*time.Hour), grace)
	require.NoError(t, err)
	assert.False(t, changed)

	withdrawn, err := s.FindByConsentKey(ctx, "K1abcdef")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, withdrawn.Status)
	purgeAt := t0.Add(time.Hour).Add(grace)
	assert.Equal(t, purgeAt, *withdrawn.PurgeAt)

	reaccepted, err := s.Upsert(ctx, accepted(t, "K1abcdef", t0.Add(2*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, reaccepted.Status)
	assert.Equal(t, t0, reaccepted.CreatedAt)
	assert.Nil(t, reaccepted.DeletedAt)
	require.NotNil(t, reaccepted.PurgeAt)
	assert.Equal(t, purgeAt, *reaccepted.PurgeAt, "re-acceptance keeps the original purge time")

	changed, err = s.Withdraw(ctx, "K1abcdef", t0.Add(72*time.Hour), grace)
	require.NoError(t, err)
	assert.True(t, changed)
	again, err := s.FindByConsentKey(ctx, "K1abcdef")
	require.NoError(t, err)
	assert.Equal(t, purgeAt, *again.PurgeAt, "a second withdrawal does not extend the schedule")

	n, err := s.DeletePurgeDue(ctx, purgeAt)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	recreatedAt := purgeAt.Add(time.Hour)
	recreated, err := s.Upsert(ctx, accepted(t, "K1abcdef", recreatedAt))
	require.NoError(t, err)
	assert.Equal(t, recreatedAt, recreated.CreatedAt)
	assert.Nil(t, recreated.PurgeAt)
}

func TestDeletePurgeDue(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _ = s.Upsert(ctx, accepted(t, "Kwithdrn", t0))
	_, _ = s.Upsert(ctx, accepted(t, "Kactive0", t0))
	_, _ = s.Withdraw(ctx, "Kwithdrn", t0, 24*time.Hour)

	n, err := s.DeletePurgeDue(ctx, t0.Add(23*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.DeletePurgeDue(ctx, t0.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.DeletePurgeDue(ctx, t0.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.FindByConsentKey(ctx, "Kwithdrn")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = s.FindByConsentKey(ctx, "Kactive0")
	assert.NoError(t, err)
}
