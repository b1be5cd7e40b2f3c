// Package preferences persists per-identity lock settings.
package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
)

type Repository interface {
	// Get returns the stored row or ErrorNotFound.
	Get(ctx context.Context, identity string) (*models.Preferences, error)
	// Insert stores p unless a row for the identity already exists.
	Insert(ctx context.Context, p *models.Preferences) error
	Update(ctx context.Context, p *models.Preferences) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, identity string) (*models.Preferences, error) {
	var (
		p                models.Preferences
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT identity, session_timeout_seconds, lock_on_tab_inactive,
			lock_on_suspicious_activity, auto_lock_enabled, lock_on_window_blur, created_at, updated_at
		FROM preferences WHERE identity = ?`, identity).
		Scan(&p.Identity, &p.SessionTimeoutSeconds, &p.LockOnTabInactive, &p.LockOnSuspiciousActivity,
			&p.AutoLockEnabled, &p.LockOnWindowBlur, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("preferences for %q: %w", identity, common.ErrorNotFound)
		}
		return nil, dbx.Wrap("select preferences", err)
	}
	p.CreatedAt = timex.FromUnix(created)
	p.UpdatedAt = timex.FromUnix(updated)
	return &p, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.Preferences) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO preferences (identity, session_timeout_seconds,
			lock_on_tab_inactive, lock_on_suspicious_activity, auto_lock_enabled, lock_on_window_blur,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity) DO NOTHING`,
		p.Identity, p.SessionTimeoutSeconds, p.LockOnTabInactive, p.LockOnSuspiciousActivity,
		p.AutoLockEnabled, p.LockOnWindowBlur, timex.ToUnix(p.CreatedAt), timex.ToUnix(p.UpdatedAt))
	if err != nil {
		return dbx.Wrap("insert preferences", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, p *models.Preferences) error {
	res, err := r.db.ExecContext(ctx, `UPDATE preferences SET session_timeout_seconds = ?,
			lock_on_tab_inactive = ?, lock_on_suspicious_activity = ?, auto_lock_enabled = ?,
			lock_on_window_blur = ?, updated_at = ?
		WHERE identity = ?`,
		p.SessionTimeoutSeconds, p.LockOnTabInactive, p.LockOnSuspiciousActivity,
		p.AutoLockEnabled, p.LockOnWindowBlur, timex.ToUnix(p.UpdatedAt), p.Identity)
	if err != nil {
		return dbx.Wrap("update preferences", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Wrap("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("preferences for %q: %w", p.Identity, common.ErrorNotFound)
	}
	return nil
}
