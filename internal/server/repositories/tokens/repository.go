// Package tokens declares the server-side repository contract for opaque
// bearer tokens.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

// Repository defines operations for issuing, resolving, and revoking bearer tokens.
type Repository interface {
	// Create stores a new token. A duplicate value yields common.ErrConstraintViolation.
	Create(ctx context.Context, token *models.Token) error

	// FindByValue looks up a token by its exact value. Implementations return
	// common.ErrorNotFound when the token is absent.
	FindByValue(ctx context.Context, value string) (*models.Token, error)

	// Delete removes a token by value. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, value string) error

	// DeleteByUser removes every token the user holds and reports how many.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
