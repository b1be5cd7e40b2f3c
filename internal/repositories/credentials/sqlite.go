package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert should run inside a transaction: it is an UPDATE followed by an
// INSERT when nothing matched. The active row wins over deleted ones, then
// the most recently deleted.
func (r *SQLiteRepository) Upsert(ctx context.Context, website, encUsername, encPassword string, now time.Time) (bool, error) {
	query := `UPDATE credentials
		SET username = ?, password = ?, updated_at = ?, deleted_at = NULL
		WHERE id = (
			SELECT id FROM credentials WHERE website = ?
			ORDER BY deleted_at IS NOT NULL, deleted_at DESC, id DESC
			LIMIT 1
		)`
	ts := timex.ToUnix(now)
	res, err := r.db.ExecContext(ctx, query, encUsername, encPassword, ts, website)
	if err != nil {
		return false, dbx.Wrap("update credential", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.Wrap("rows affected", err)
	}
	if n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO credentials (website, username, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		website, encUsername, encPassword, ts, ts)
	if err != nil {
		return false, dbx.Wrap("insert credential", err)
	}
	return true, nil
}

func (r *SQLiteRepository) GetActive(ctx context.Context, website string) (*models.Credential, error) {
	query := `SELECT id, website, username, password, created_at, updated_at
		FROM credentials WHERE website = ? AND deleted_at IS NULL`
	row := r.db.QueryRowContext(ctx, query, website)

	c, err := scanCredential(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("credential %q: %w", website, common.ErrorNotFound)
		}
		return nil, dbx.Wrap("select credential", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, website, encPassword string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credentials SET password = ?, updated_at = ? WHERE website = ? AND deleted_at IS NULL`,
		encPassword, timex.ToUnix(now), website)
	if err != nil {
		return dbx.Wrap("update password", err)
	}
	return expectOne(res, website)
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, website string, now time.Time) error {
	ts := timex.ToUnix(now)
	res, err := r.db.ExecContext(ctx,
		`UPDATE credentials SET deleted_at = ?, updated_at = ? WHERE website = ? AND deleted_at IS NULL`,
		ts, ts, website)
	if err != nil {
		return dbx.Wrap("soft delete credential", err)
	}
	return expectOne(res, website)
}

func (r *SQLiteRepository) ListActive(ctx context.Context) ([]models.Credential, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, website, username, password, created_at, updated_at
		FROM credentials WHERE deleted_at IS NULL ORDER BY website`)
	if err != nil {
		return nil, dbx.Wrap("select credentials", err)
	}
	defer rows.Close()

	var result []models.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, dbx.Wrap("scan credential", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Wrap("iterate credentials", err)
	}
	return result, nil
}

func (r *SQLiteRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials WHERE deleted_at IS NULL`).Scan(&n); err != nil {
		return 0, dbx.Wrap("count credentials", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Websites(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT website FROM credentials WHERE deleted_at IS NULL ORDER BY website`)
	if err != nil {
		return nil, dbx.Wrap("select websites", err)
	}
	defer rows.Close()

	sites := []string{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, dbx.Wrap("scan website", err)
		}
		sites = append(sites, w)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Wrap("iterate websites", err)
	}
	return sites, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCredential(s scanner) (*models.Credential, error) {
	var (
		c                models.Credential
		created, updated int64
	)
	if err := s.Scan(&c.ID, &c.Website, &c.EncryptedUsername, &c.EncryptedPassword, &created, &updated); err != nil {
		return nil, err
	}
	c.CreatedAt = timex.FromUnix(created)
	c.UpdatedAt = timex.FromUnix(updated)
	return &c, nil
}

func expectOne(res sql.Result, website string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Wrap("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("credential %q: %w", website, common.ErrorNotFound)
	}
	return nil
}
