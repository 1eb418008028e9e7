package services

import (
	"testing"

	"bug-bounty-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUser(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store)

	u, err := svc.EnsureUser(f.ctx, "auth0|42", "Ada", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "auth0|42", u.ID)
	assert.Equal(t, "Ada", u.Name)
	assert.Zero(t, u.TotalEarnings)

	_, err = f.store.CreditEarnings(f.ctx, "auth0|42", 80)
	require.NoError(t, err)

	// same identity again: no reset
	u, err = svc.EnsureUser(f.ctx, "auth0|42", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, 80.0, u.TotalEarnings)

	u, err = svc.EnsureUser(f.ctx, "auth0|42", "Ada L.", "")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, 80.0, u.TotalEarnings)
}

func TestEnsureUser_RequiresID(t *testing.T) {
	f := newFixture(t)
	_, err := NewUserService(f.store).EnsureUser(f.ctx, "  ", "x", "y")
	requireKind(t, err, models.KindValidation, "")
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	f.user(t, "hunter", 1700)
	svc := NewUserService(f.store)

	profile, err := svc.GetProfile(f.ctx, "hunter")
	require.NoError(t, err)
	assert.Equal(t, 1700.0, profile.TotalEarnings)
	assert.Equal(t, "hunter@example.com", profile.Email)

	_, err = svc.GetProfile(f.ctx, "nobody")
	requireKind(t, err, models.KindNotFound, "User not found")
}
