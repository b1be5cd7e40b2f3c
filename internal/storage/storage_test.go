package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// failingMigrations wraps the real manager but fails RunMigrations after
// optionally running the real migrations.
type failingMigrations struct {
	repomanager.RepositoryManager
	runReal bool
}

func (f failingMigrations) RunMigrations(ctx context.Context, db *sql.DB) error {
	if f.runReal {
		if err := f.RepositoryManager.RunMigrations(ctx, db); err != nil {
			return err
		}
	}
	return errors.New("goose: dirty version")
}

func TestOpen_FreshVault(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "vault")
	var buf bytes.Buffer

	s, err := Open(ctx, dir, repomanager.NewSQLiteRepositoryManager(), testLogger(&buf))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, filepath.Join(dir, DBFileName), s.Path)
	require.NoError(t, CheckSchema(ctx, s.DB))

	var mode string
	require.NoError(t, s.DB.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpen_SecondProcessRejected(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	var buf bytes.Buffer
	repos := repomanager.NewSQLiteRepositoryManager()

	s, err := Open(ctx, dir, repos, testLogger(&buf))
	require.NoError(t, err)

	_, err = Open(ctx, dir, repos, testLogger(&buf))
	require.ErrorIs(t, err, common.ErrVaultInUse)

	require.NoError(t, s.Close())
	s2, err := Open(ctx, dir, repos, testLogger(&buf))
	require.NoError(t, err, "lock is released on close")
	require.NoError(t, s2.Close())
}

func TestMigrate_FailureToleratedWhenSchemaUsable(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	s, err := Open(ctx, t.TempDir(), failingMigrations{repomanager.NewSQLiteRepositoryManager(), true}, testLogger(&buf))
	require.NoError(t, err)
	defer s.Close()

	assert.Contains(t, buf.String(), "migration failed")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestMigrate_FailureFatalWhenSchemaUnusable(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	_, err := Open(ctx, t.TempDir(), failingMigrations{repomanager.NewSQLiteRepositoryManager(), false}, testLogger(&buf))
	require.ErrorIs(t, err, common.ErrStorage)
}

func TestCheckSchema_MissingColumn(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", DSN(filepath.Join(t.TempDir(), "x.db")))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE audit_events (id INTEGER)`)
	require.NoError(t, err)

	err = CheckSchema(ctx, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit_events")
}

func TestDSN_UsableByDriver(t *testing.T) {
	db, err := sql.Open("sqlite", DSN(filepath.Join(t.TempDir(), "d.db")))
	require.NoError(t, err)
	defer db.Close()

	var timeout int
	require.NoError(t, db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, 5000, timeout)

	err = dbx.WithTx(context.Background(), db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `CREATE TABLE t (id INTEGER)`)
		return err
	})
	require.NoError(t, err)
}
