// Package repomanager vends repositories bound to a DBTX so services can
// run the same repository code against *sql.DB or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/migrations"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/audit"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/credentials"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/master"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/preferences"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Credentials(db dbx.DBTX) credentials.Repository
	Master(db dbx.DBTX) master.Repository
	Preferences(db dbx.DBTX) preferences.Repository
	Audit(db dbx.DBTX) audit.Repository
}

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Master(db dbx.DBTX) master.Repository {
	return master.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Preferences(db dbx.DBTX) preferences.Repository {
	return preferences.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Audit(db dbx.DBTX) audit.Repository {
	return audit.NewSQLiteRepository(db)
}

// migrateUp is a seam for tests.
var migrateUp = migrations.Up

// RunMigrations applies the embedded goose migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db)
}
