// Package master persists the single master account row.
package master

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
	// Get returns the master account or ErrorNotFound.
	Get(ctx context.Context) (*models.MasterAccount, error)
	// Create inserts the account; ErrAlreadyExists when one is present.
	Create(ctx context.Context, m *models.MasterAccount) error
	// Replace swaps the stored account for m. Run it inside a transaction.
	Replace(ctx context.Context, m *models.MasterAccount) error
	Exists(ctx context.Context) (bool, error)
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context) (*models.MasterAccount, error) {
	var (
		m                models.MasterAccount
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password, created_at, updated_at FROM master_account ORDER BY rowid LIMIT 1`).
		Scan(&m.EncryptedUsername, &m.EncryptedPassword, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("master account: %w", common.ErrorNotFound)
		}
		return nil, dbx.Wrap("select master account", err)
	}
	m.CreatedAt = timex.FromUnix(created)
	m.UpdatedAt = timex.FromUnix(updated)
	return &m, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM master_account`).Scan(&n); err != nil {
		return false, dbx.Wrap("count master account", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, m *models.MasterAccount) error {
	exists, err := r.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("master account: %w", common.ErrAlreadyExists)
	}
	return r.insert(ctx, m)
}

func (r *SQLiteRepository) Replace(ctx context.Context, m *models.MasterAccount) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM master_account`); err != nil {
		return dbx.Wrap("delete master account", err)
	}
	return r.insert(ctx, m)
}

func (r *SQLiteRepository) insert(ctx context.Context, m *models.MasterAccount) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO master_account (username, password, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		m.EncryptedUsername, m.EncryptedPassword, timex.ToUnix(m.CreatedAt), timex.ToUnix(m.UpdatedAt))
	if err != nil {
		return dbx.Wrap("insert master account", err)
	}
	return nil
}
