package sessions

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

func nullableUserID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, csrf_token, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		session.ID, nullableUserID(session.UserID), session.CSRFToken, session.ExpiresAt).Scan(&session.CreatedAt)
	return dbx.WrapError(err)
}

func (r *PostgresRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, csrf_token, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > now()
	`
	session := &models.Session{}
	var userID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&session.ID, &userID, &session.CSRFToken, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	session.UserID = userID.String
	return session, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM sessions
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id)
	return dbx.WrapError(err)
}

func (r *PostgresRepository) SetCSRFToken(ctx context.Context, id string, token string) error {
	query := `
		UPDATE sessions SET csrf_token = $2
		WHERE id = $1
	`
	return dbx.RequireRow(r.db.ExecContext(ctx, query, id, token))
}

func (r *PostgresRepository) TakeCSRFToken(ctx context.Context, id string) (string, error) {
	// the sub-select locks the row so concurrent takers serialize and only
	// the first sees the token
	query := `
		UPDATE sessions s SET csrf_token = ''
		FROM (SELECT id, csrf_token FROM sessions WHERE id = $1 FOR UPDATE) old
		WHERE s.id = old.id
		RETURNING old.csrf_token
	`
	var token string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&token); err != nil {
		return "", dbx.WrapError(err)
	}
	return token, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at <= now()
	`
	return dbx.Affected(r.db.ExecContext(ctx, query))
}
