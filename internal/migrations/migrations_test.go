package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUp_FreshDatabase(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	require.NoError(t, Up(ctx, db))
	require.NoError(t, Up(ctx, db), "second run must be a no-op")

	v, err := Version(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	cols, err := TableColumns(ctx, db, "credentials")
	require.NoError(t, err)
	for _, c := range []string{"id", "website", "username", "password", "created_at", "updated_at", "deleted_at"} {
		assert.Contains(t, cols, c)
	}
	cols, err = TableColumns(ctx, db, "audit_events")
	require.NoError(t, err)
	assert.Contains(t, cols, "extra")
}

func TestUp_LegacyLayout(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	_, err := db.Exec(`
CREATE TABLE credentials (id INTEGER PRIMARY KEY, website TEXT UNIQUE NOT NULL, username TEXT NOT NULL, password TEXT NOT NULL);
CREATE TABLE master_account (username TEXT NOT NULL, password TEXT NOT NULL);
INSERT INTO credentials (website, username, password) VALUES ('old.example', 'u', 'p');
INSERT INTO master_account (username, password) VALUES ('mu', 'mp');
`)
	require.NoError(t, err)

	require.NoError(t, Up(ctx, db))

	var website string
	var created, updated int64
	var deleted sql.NullInt64
	require.NoError(t, db.QueryRow(`SELECT website, created_at, updated_at, deleted_at FROM credentials`).
		Scan(&website, &created, &updated, &deleted))
	assert.Equal(t, "old.example", website)
	assert.Positive(t, created)
	assert.Equal(t, created, updated)
	assert.False(t, deleted.Valid)

	var mcreated int64
	require.NoError(t, db.QueryRow(`SELECT created_at FROM master_account`).Scan(&mcreated))
	assert.Positive(t, mcreated)
}

func TestUp_PartialUniqueIndex(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	require.NoError(t, Up(ctx, db))

	_, err := db.Exec(`INSERT INTO credentials (website, username, password, created_at, updated_at, deleted_at) VALUES ('a', 'u', 'p', 1, 1, 5)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO credentials (website, username, password, created_at, updated_at) VALUES ('a', 'u', 'p', 2, 2)`)
	require.NoError(t, err, "a deleted row must not block a new active one")
	_, err = db.Exec(`INSERT INTO credentials (website, username, password, created_at, updated_at) VALUES ('a', 'u', 'p', 3, 3)`)
	require.Error(t, err, "two active rows for one website are rejected")
}
