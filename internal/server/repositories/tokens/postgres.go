package tokens

import (
	"context"

	"github.com/dmitrijs2005/tilapp/internal/dbx"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.Token) error {
	query := `
		INSERT INTO tokens (id, value, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query, token.ID, token.Value, token.UserID).Scan(&token.CreatedAt); err != nil {
		return dbx.WrapError(err)
	}
	return nil
}

func (r *PostgresRepository) FindByValue(ctx context.Context, value string) (*models.Token, error) {
	query := `
		SELECT id, value, user_id, created_at
		FROM tokens
		WHERE value = $1
	`
	token := &models.Token{}
	if err := r.db.QueryRowContext(ctx, query, value).Scan(&token.ID, &token.Value, &token.UserID, &token.CreatedAt); err != nil {
		return nil, dbx.WrapError(err)
	}
	return token, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, value string) error {
	query := `
		DELETE FROM tokens
		WHERE value = $1
	`
	if _, err := r.db.ExecContext(ctx, query, value); err != nil {
		return dbx.WrapError(err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	query := `
		DELETE FROM tokens
		WHERE user_id = $1
	`
	return dbx.Affected(r.db.ExecContext(ctx, query, userID))
}
