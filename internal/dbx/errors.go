package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes surfaced as common.ErrConstraintViolation.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// WrapError maps driver errors onto the repository error vocabulary:
// sql.ErrNoRows becomes common.ErrorNotFound, unique and foreign-key
// violations become common.ErrConstraintViolation, everything else is
// wrapped as "db error".
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrConstraintViolation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
