package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tilapp/internal/dbx"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/acronymcategories"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/acronyms"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/categories"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/inmemory"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/users"
)

// InMemoryRepositoryManager ignores the db handles it is given and serves
// every repository from one shared inmemory.Store. InTx runs fn directly;
// there is no rollback.
type InMemoryRepositoryManager struct {
	store *inmemory.Store
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{store: inmemory.NewStore()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) InTx(ctx context.Context, _ *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.store.Users()
}

func (m *InMemoryRepositoryManager) Tokens(dbx.DBTX) tokens.Repository {
	return m.store.Tokens()
}

func (m *InMemoryRepositoryManager) Sessions(dbx.DBTX) sessions.Repository {
	return m.store.Sessions()
}

func (m *InMemoryRepositoryManager) Acronyms(dbx.DBTX) acronyms.Repository {
	return m.store.Acronyms()
}

func (m *InMemoryRepositoryManager) Categories(dbx.DBTX) categories.Repository {
	return m.store.Categories()
}

func (m *InMemoryRepositoryManager) AcronymCategories(dbx.DBTX) acronymcategories.Repository {
	return m.store.AcronymCategories()
}
