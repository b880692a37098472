package categories

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

func (r *PostgresRepository) Create(ctx context.Context, c *models.Category) error {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	return dbx.WrapError(r.db.QueryRowContext(ctx, query, c.Name).Scan(&c.ID))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return scanCategory(r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id))
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return scanCategory(r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE name = $1`, name))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Category, error) {
	return r.query(ctx, `SELECT id, name FROM categories ORDER BY id`)
}

func (r *PostgresRepository) ListByAcronym(ctx context.Context, acronymID string) ([]*models.Category, error) {
	query :=
		`SELECT c.id, c.name
		 FROM categories c
		 JOIN acronym_categories ac ON ac.category_id = c.id
		 WHERE ac.acronym_id = $1
		 ORDER BY c.id
		 `
	return r.query(ctx, query, acronymID)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Category, error) {
	return dbx.QueryAll(ctx, r.db, scanCategory, query, args...)
}

func scanCategory(row dbx.Scanner) (*models.Category, error) {
	c := &models.Category{}
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		return nil, dbx.WrapError(err)
	}
	return c, nil
}
