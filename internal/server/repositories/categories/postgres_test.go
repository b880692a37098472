package categories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `INSERT\s+INTO\s+categories\s*\(name\)\s*VALUES\s*\(\$1\)\s*RETURNING\s+id`
	mock.ExpectQuery(q).WithArgs("Funny").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(q).WithArgs("Funny").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"})

	c := &models.Category{Name: "Funny"}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, int64(3), c.ID)

	err := repo.Create(context.Background(), &models.Category{Name: "Funny"})
	assert.ErrorIs(t, err, common.ErrConstraintViolation)
}

func TestGetByName_CaseSensitiveLookup(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `SELECT\s+id,\s*name\s+FROM\s+categories\s+WHERE\s+name\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs("Funny").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Funny"))
	mock.ExpectQuery(q).WithArgs("funny").
		WillReturnError(sql.ErrNoRows)

	c, err := repo.GetByName(context.Background(), "Funny")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)

	_, err = repo.GetByName(context.Background(), "funny")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1`).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListAndListByAcronym(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+categories\s+ORDER\s+BY\s+id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Funny").AddRow(int64(2), "Nerdy"))
	mock.ExpectQuery(`(?s)JOIN\s+acronym_categories\s+ac\s+ON\s+ac\.category_id\s*=\s*c\.id.*WHERE\s+ac\.acronym_id\s*=\s*\$1`).
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "Nerdy"))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	tags, err := repo.ListByAcronym(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Nerdy", tags[0].Name)
}
