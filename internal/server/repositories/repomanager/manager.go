// Package repomanager vends repositories bound to a database handle or a
// transaction, so services can choose per call whether to run inside a tx.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tilapp/internal/dbx"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/acronymcategories"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/acronyms"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/categories"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	// InTx runs fn inside a transaction on db and commits when fn succeeds.
	InTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error

	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Acronyms(db dbx.DBTX) acronyms.Repository
	Categories(db dbx.DBTX) categories.Repository
	AcronymCategories(db dbx.DBTX) acronymcategories.Repository
}
