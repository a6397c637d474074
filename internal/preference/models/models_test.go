package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPreferencesForcesStrictlyNecessary(t *testing.T) {
	off := false
	on := true
	req := &SetRequest{StrictlyNecessary: &off, Performance: &on}

	prefs := NewPreferences("K1abcdef", req.Purposes(), time.Now())
	assert.True(t, prefs.StrictlyNecessary)
	assert.True(t, prefs.Performance)
	assert.False(t, prefs.Functional)
	assert.False(t, prefs.Advertising)
	assert.False(t, prefs.SocialMedia)
	assert.True(t, prefs.Qualifies())
}

func TestQualifies(t *testing.T) {
	now := time.Now()
	assert.False(t, NewPreferences("K", Purposes{Advertising: true, SocialMedia: true}, now).Qualifies())
	assert.True(t, NewPreferences("K", Purposes{Functional: true}, now).Qualifies())

	withdrawn := NewPreferences("K", Purposes{Functional: true}, now)
	withdrawn.Withdraw(now)
	assert.False(t, withdrawn.Qualifies())
}

func TestWithdrawIsIdempotent(t *testing.T) {
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	prefs := NewPreferences("K", Purposes{Performance: true, Advertising: true}, first)

	assert.True(t, prefs.Withdraw(first))
	snapshot := *prefs

	assert.False(t, prefs.Withdraw(first.Add(time.Hour)))
	assert.Equal(t, snapshot, *prefs)
	assert.Equal(t, first, *prefs.DeletedAt)
	assert.True(t, prefs.StrictlyNecessary)
}
