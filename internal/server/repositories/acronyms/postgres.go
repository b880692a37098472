package acronyms

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

func (r *PostgresRepository) Create(ctx context.Context, a *models.Acronym) error {
	query :=
		`INSERT INTO acronyms (id, short, long, user_id)
		 VALUES ($1, $2, $3, $4)
		 `
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Short, a.Long, a.UserID)
	return dbx.WrapError(err)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Acronym, error) {
	query := `SELECT id, short, long, user_id FROM acronyms WHERE id = $1`

	a := &models.Acronym{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Short, &a.Long, &a.UserID); err != nil {
		return nil, dbx.WrapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Acronym) error {
	query :=
		`UPDATE acronyms SET short = $2, long = $3, user_id = $4
		 WHERE id = $1
		 `
	return dbx.RequireRow(r.db.ExecContext(ctx, query, a.ID, a.Short, a.Long, a.UserID))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return dbx.RequireRow(r.db.ExecContext(ctx, `DELETE FROM acronyms WHERE id = $1`, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Acronym, error) {
	return r.query(ctx, `SELECT id, short, long, user_id FROM acronyms`)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Acronym, error) {
	return r.query(ctx, `SELECT id, short, long, user_id FROM acronyms WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*models.Acronym, error) {
	query :=
		`SELECT a.id, a.short, a.long, a.user_id
		 FROM acronyms a
		 JOIN acronym_categories ac ON ac.acronym_id = a.id
		 WHERE ac.category_id = $1
		 `
	return r.query(ctx, query, categoryID)
}

func (r *PostgresRepository) Search(ctx context.Context, term string) ([]*models.Acronym, error) {
	return r.query(ctx, `SELECT id, short, long, user_id FROM acronyms WHERE short = $1 OR long = $1`, term)
}

func (r *PostgresRepository) First(ctx context.Context) (*models.Acronym, error) {
	query := `SELECT id, short, long, user_id FROM acronyms LIMIT 1`

	return scanAcronym(r.db.QueryRowContext(ctx, query))
}

func (r *PostgresRepository) Sorted(ctx context.Context) ([]*models.Acronym, error) {
	return r.query(ctx, `SELECT id, short, long, user_id FROM acronyms ORDER BY short ASC`)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Acronym, error) {
	return dbx.QueryAll(ctx, r.db, scanAcronym, query, args...)
}

func scanAcronym(row dbx.Scanner) (*models.Acronym, error) {
	a := &models.Acronym{}
	if err := row.Scan(&a.ID, &a.Short, &a.Long, &a.UserID); err != nil {
		return nil, dbx.WrapError(err)
	}
	return a, nil
}
