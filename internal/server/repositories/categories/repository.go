// Package categories declares the repository contract for categories (tags).
package categories

import (
	"context"

	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

type Repository interface {
	// Create assigns the category ID. A taken name yields common.ErrConstraintViolation.
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	// GetByName matches case-sensitively.
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	ListByAcronym(ctx context.Context, acronymID string) ([]*models.Category, error)
}
