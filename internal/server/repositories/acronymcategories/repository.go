// Package acronymcategories declares the repository contract for the
// acronym ↔ category association.
package acronymcategories

import (
	"context"

	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

type Repository interface {
	// Create links an acronym to a category. A duplicate pair, or an unknown
	// acronym or category, yields common.ErrConstraintViolation.
	Create(ctx context.Context, link *models.AcronymCategory) error
	Exists(ctx context.Context, acronymID string, categoryID int64) (bool, error)
	// Delete removes the link. Removing an absent link is not an error.
	Delete(ctx context.Context, acronymID string, categoryID int64) error
	DeleteByAcronym(ctx context.Context, acronymID string) error
}
