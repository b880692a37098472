// Package sessions declares the repository contract for browser sessions.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

type Repository interface {
	// Create stores a new session. A session's owner never changes in place;
	// logging in or out replaces the row under a fresh id.
	Create(ctx context.Context, session *models.Session) error

	// Find returns a live session. Missing and expired sessions both yield
	// common.ErrorNotFound.
	Find(ctx context.Context, id string) (*models.Session, error)

	Delete(ctx context.Context, id string) error

	// SetCSRFToken replaces the pending anti-forgery token.
	SetCSRFToken(ctx context.Context, id string, token string) error

	// TakeCSRFToken atomically reads and clears the pending anti-forgery
	// token. An empty string means nothing was pending.
	TakeCSRFToken(ctx context.Context, id string) (string, error)

	// DeleteExpired purges sessions past their expiry and reports how many.
	DeleteExpired(ctx context.Context) (int64, error)
}
