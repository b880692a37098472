package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	twitter := "@tim"
	u, err := f.users.Register(ctx, " Tim ", "tim", "secret", &twitter)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Tim", u.Name)
	assert.NotEqual(t, "secret", u.PasswordHash)
	assert.True(t, f.hasher.Verify("secret", u.PasswordHash))
	require.NotNil(t, u.TwitterURL)
	assert.Equal(t, "@tim", *u.TwitterURL)

	_, err = f.users.Register(ctx, "Other", "tim", "secret", nil)
	assert.ErrorIs(t, err, common.ErrConstraintViolation)
}

func TestUserService_Register_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name, userName, password string
	}{
		{"", "u", "p"},
		{"n", "  ", "p"},
		{"n", "u", ""},
		{"n", "u", string(make([]byte, 73))},
	}
	for _, tt := range tests {
		_, err := f.users.Register(ctx, tt.name, tt.userName, tt.password, nil)
		assert.ErrorIs(t, err, common.ErrorValidation)
	}
}

func TestUserService_EnsureUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.EnsureUser(ctx, "Admin", "admin", "password")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.users.EnsureUser(ctx, "Admin", "admin", "other")
	require.NoError(t, err)
	assert.False(t, created)

	list, err := f.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUserService_Acronyms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.mustUser(t, "alice")
	bob := f.mustUser(t, "bob")
	f.mustAcronym(t, alice, "OMG", "Oh My God")
	f.mustAcronym(t, bob, "TIL", "Today I Learned")

	got, err := f.users.Acronyms(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "OMG", got[0].Short)

	_, err = f.users.Acronyms(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
