// Package acronyms declares the repository contract for acronyms and its
// PostgreSQL implementation.
package acronyms

import (
	"context"

	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, acronym *models.Acronym) error
	GetByID(ctx context.Context, id string) (*models.Acronym, error)
	Update(ctx context.Context, acronym *models.Acronym) error
	// Delete fails with common.ErrConstraintViolation while categories are still attached.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Acronym, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Acronym, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*models.Acronym, error)
	// Search matches term exactly against either Short or Long.
	Search(ctx context.Context, term string) ([]*models.Acronym, error)
	// First returns common.ErrorNotFound when there are no acronyms.
	First(ctx context.Context) (*models.Acronym, error)
	// Sorted lists acronyms ordered by Short ascending.
	Sorted(ctx context.Context) ([]*models.Acronym, error)
}
