package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vaultkeeper/internal/migrations"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type env struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	cipher *cryptox.Cipher
	clock  *timex.ManualClock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	db, err := sql.Open("sqlite", "file:"+filepath.Join(dir, "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))

	km := cryptox.NewKeyManager(filepath.Join(dir, cryptox.KeyFileName))
	require.NoError(t, km.LoadOrCreate())

	return &env{
		db:     db,
		repos:  repomanager.NewSQLiteRepositoryManager(),
		cipher: cryptox.NewCipher(km),
		clock:  timex.NewManualClock(t0),
	}
}
