package users

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tilapp/internal/dbx"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, username, password_hash, twitter_url, created_at`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, name, username, password_hash, twitter_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.UserName, user.PasswordHash, user.TwitterURL).Scan(&user.CreatedAt)
	if err != nil {
		return nil, dbx.WrapError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, userName))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`

	return dbx.QueryAll(ctx, r.db, scanUser, query)
}

func scanUser(row dbx.Scanner) (*models.User, error) {
	user := &models.User{}
	var twitter sql.NullString
	if err := row.Scan(&user.ID, &user.Name, &user.UserName, &user.PasswordHash, &twitter, &user.CreatedAt); err != nil {
		return nil, dbx.WrapError(err)
	}
	if twitter.Valid {
		user.TwitterURL = &twitter.String
	}
	return user, nil
}
