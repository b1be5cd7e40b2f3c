// Package storage opens the vault database: it takes the process lock,
// connects to SQLite, applies migrations and verifies the resulting schema.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/filex"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/migrations"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/repomanager"
	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

const (
	DBFileName   = "vault.db"
	LockFileName = "vault.lock"
)

// requiredColumns lists what the repositories read and write.
var requiredColumns = map[string][]string{
	"credentials":    {"id", "website", "username", "password", "created_at", "updated_at", "deleted_at"},
	"master_account": {"username", "password", "created_at", "updated_at"},
	"preferences": {"identity", "session_timeout_seconds", "lock_on_tab_inactive",
		"lock_on_suspicious_activity", "auto_lock_enabled", "lock_on_window_blur", "created_at", "updated_at"},
	"audit_events": {"id", "identity", "action_type", "description", "target_resource", "origin_address",
		"origin_agent", "success", "error_message", "session_id", "extra", "created_at"},
}

// Store owns the database handle and the process lock.
type Store struct {
	DB   *sql.DB
	Path string
	lock *flock.Flock
}

// DSN builds the modernc.org/sqlite connection string for path.
func DSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

// Open prepares the vault in dataDir. A second process opening the same
// directory gets ErrVaultInUse.
func Open(ctx context.Context, dataDir string, repos repomanager.RepositoryManager, log logging.Logger) (*Store, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	lock := flock.New(filepath.Join(dir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: lock: %v", common.ErrStorage, err)
	}
	if !locked {
		return nil, common.ErrVaultInUse
	}

	path := filepath.Join(dir, DBFileName)
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("%w: open: %v", common.ErrStorage, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("%w: ping: %v", common.ErrStorage, err)
	}

	if err := Migrate(ctx, db, repos, log); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	log.Info(ctx, "vault database ready", "path", path)
	return &Store{DB: db, Path: path, lock: lock}, nil
}

// Migrate applies migrations. A failed migration is tolerated when the
// schema still has every column the repositories need.
func Migrate(ctx context.Context, db *sql.DB, repos repomanager.RepositoryManager, log logging.Logger) error {
	merr := repos.RunMigrations(ctx, db)
	if merr == nil {
		return nil
	}

	log.Warn(ctx, "migration failed, probing schema", "error", merr)
	if err := CheckSchema(ctx, db); err != nil {
		return fmt.Errorf("%w: migration failed (%v) and schema unusable: %w", common.ErrStorage, merr, err)
	}
	log.Warn(ctx, "continuing with existing schema")
	return nil
}

// CheckSchema reports the first table or column that is missing.
func CheckSchema(ctx context.Context, db *sql.DB) error {
	tables := make([]string, 0, len(requiredColumns))
	for t := range requiredColumns {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	for _, table := range tables {
		have, err := migrations.TableColumns(ctx, db, table)
		if err != nil {
			return err
		}
		if len(have) == 0 {
			return fmt.Errorf("table %s missing", table)
		}
		for _, col := range requiredColumns[table] {
			if _, ok := have[col]; !ok {
				return fmt.Errorf("column %s.%s missing", table, col)
			}
		}
	}
	return nil
}

// Close closes the database and releases the process lock.
func (s *Store) Close() error {
	err := s.DB.Close()
	if uerr := s.lock.Unlock(); err == nil {
		err = uerr
	}
	return err
}
