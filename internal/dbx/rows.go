package dbx

import (
	"context"
	"database/sql"
)

// Scanner is the Scan method shared by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// QueryAll runs query and converts each row with scan. scan is expected to
// return errors already mapped by WrapError. The result is empty, never
// nil, when no rows match.
func QueryAll[T any](ctx context.Context, db DBTX, scan func(Scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapError(err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapError(err)
	}
	return result, nil
}

// Affected reports how many rows an exec touched.
func Affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, WrapError(err)
	}
	return n, nil
}

// RequireRow is Affected for statements that must touch a row. Zero rows
// maps to common.ErrorNotFound.
func RequireRow(res sql.Result, err error) error {
	n, err := Affected(res, err)
	if err != nil {
		return err
	}
	if n == 0 {
		return WrapError(sql.ErrNoRows)
	}
	return nil
}
