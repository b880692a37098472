package acronymcategories

import (
	"context"

	"github.com/dmitrijs2005/tilapp/internal/dbx"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, link *models.AcronymCategory) error {
	query :=
		`INSERT INTO acronym_categories (id, acronym_id, category_id)
		 VALUES ($1, $2, $3)
		 `
	_, err := r.db.ExecContext(ctx, query, link.ID, link.AcronymID, link.CategoryID)
	return dbx.WrapError(err)
}

func (r *PostgresRepository) Exists(ctx context.Context, acronymID string, categoryID int64) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM acronym_categories WHERE acronym_id = $1 AND category_id = $2
		 )`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, acronymID, categoryID).Scan(&exists); err != nil {
		return false, dbx.WrapError(err)
	}
	return exists, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, acronymID string, categoryID int64) error {
	query := `DELETE FROM acronym_categories WHERE acronym_id = $1 AND category_id = $2`
	_, err := r.db.ExecContext(ctx, query, acronymID, categoryID)
	return dbx.WrapError(err)
}

func (r *PostgresRepository) DeleteByAcronym(ctx context.Context, acronymID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM acronym_categories WHERE acronym_id = $1`, acronymID)
	return dbx.WrapError(err)
}
