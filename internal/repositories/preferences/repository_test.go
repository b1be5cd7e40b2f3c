package preferences

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/migrations"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func TestPreferencesRepository(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupDB(t))
	now := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	_, err := r.Get(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorNotFound)

	p := models.DefaultPreferences("alice", now)
	require.NoError(t, r.Insert(ctx, &p))

	other := p
	other.SessionTimeoutSeconds = 999
	require.NoError(t, r.Insert(ctx, &other), "second insert is ignored")

	got, err := r.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	got.SessionTimeoutSeconds = 600
	got.LockOnWindowBlur = false
	got.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, r.Update(ctx, got))

	again, err := r.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 600, again.SessionTimeoutSeconds)
	assert.False(t, again.LockOnWindowBlur)
	assert.True(t, again.AutoLockEnabled)
	assert.Equal(t, now, again.CreatedAt)

	missing := models.DefaultPreferences("bob", now)
	require.ErrorIs(t, r.Update(ctx, &missing), common.ErrorNotFound)
}
