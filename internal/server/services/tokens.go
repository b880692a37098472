package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/auth"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenAuthority issues and validates opaque bearer tokens. Tokens do not
// expire; they stay valid until revoked.
type TokenAuthority struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokenSize   int
}

// NewTokenAuthority builds the authority. tokenSize is the number of random
// bytes per token and is raised to common.MinTokenSize when smaller.
func NewTokenAuthority(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokenSize int) *TokenAuthority {
	return &TokenAuthority{db: db, repomanager: m, hasher: hasher, tokenSize: max(tokenSize, common.MinTokenSize)}
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords both yield common.ErrInvalidCredentials.
func (a *TokenAuthority) Authenticate(ctx context.Context, userName, password string) (*models.User, error) {
	user, err := a.repomanager.Users(a.db).GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			a.hasher.Burn(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	if !a.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	return user, nil
}

// Issue mints and persists a new token bound to user.
func (a *TokenAuthority) Issue(ctx context.Context, user *models.User) (*models.Token, error) {
	value, err := common.MakeRandHexString(a.tokenSize)
	if err != nil {
		return nil, common.ErrorInternal
	}
	token := &models.Token{ID: uuid.NewString(), Value: value, UserID: user.ID}
	if err := a.repomanager.Tokens(a.db).Create(ctx, token); err != nil {
		return nil, fmt.Errorf("error storing token: %w", err)
	}
	return token, nil
}

// Resolve returns the user owning the token. Unknown tokens, and tokens
// whose user no longer exists, yield common.ErrInvalidToken.
func (a *TokenAuthority) Resolve(ctx context.Context, value string) (*models.User, error) {
	if value == "" {
		return nil, common.ErrInvalidToken
	}
	token, err := a.repomanager.Tokens(a.db).FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching token: %w", err)
	}
	user, err := a.repomanager.Users(a.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// Revoke deletes a token. Revoking an unknown token is not an error.
func (a *TokenAuthority) Revoke(ctx context.Context, value string) error {
	return a.repomanager.Tokens(a.db).Delete(ctx, value)
}

// RevokeAll deletes every token held by userID.
func (a *TokenAuthority) RevokeAll(ctx context.Context, userID string) (int64, error) {
	return a.repomanager.Tokens(a.db).DeleteByUser(ctx, userID)
}
