// Package credentials persists website credentials in SQLite.
//
// Rows are never removed: deletion sets deleted_at, and storing a website
// again revives the most recent row for it. A partial unique index keeps at
// most one active row per website.
//
// Typical Usage
//
//	repo := credentials.NewSQLiteRepository(tx)
//	created, _ := repo.Upsert(ctx, "example.com", encUser, encPass, now)
//	c, _ := repo.GetActive(ctx, "example.com")
//	_ = repo.SoftDelete(ctx, "example.com", now)
package credentials
