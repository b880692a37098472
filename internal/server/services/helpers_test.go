package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/tilapp/internal/server/auth"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	rm         *repomanager.InMemoryRepositoryManager
	hasher     *auth.PasswordHasher
	users      *UserService
	tokens     *TokenAuthority
	sessions   *SessionAuthenticator
	guard      *ForgeryGuard
	categories *CategoryService
	acronyms   *AcronymService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rm := repomanager.NewInMemoryRepositoryManager()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	cats := NewCategoryService(nil, rm)
	return &fixture{
		rm:         rm,
		hasher:     hasher,
		users:      NewUserService(nil, rm, hasher),
		tokens:     NewTokenAuthority(nil, rm, hasher, 32),
		sessions:   NewSessionAuthenticator(nil, rm, time.Hour),
		guard:      NewForgeryGuard(nil, rm, 32),
		categories: cats,
		acronyms:   NewAcronymService(nil, rm, cats, 4, nil),
	}
}

func (f *fixture) mustUser(t *testing.T, userName string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), "User "+userName, userName, "password", nil)
	require.NoError(t, err)
	return u
}

func (f *fixture) mustAcronym(t *testing.T, owner *models.User, short, long string) *models.Acronym {
	t.Helper()
	a, err := f.acronyms.Create(context.Background(), owner.ID, short, long)
	require.NoError(t, err)
	return a
}
