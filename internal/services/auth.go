package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
)

// AuthService manages the single master account.
//
// Contract:
//   - Signup: create the account; ErrAlreadyExists if one is present.
//   - Verify: compare a username/password pair in constant time.
//   - ChangePassword: replace the stored password, keeping the username.
//   - Username: the decrypted identity, for sessions and audit.
type AuthService interface {
	Exists(ctx context.Context) (bool, error)
	Signup(ctx context.Context, username, password string) error
	Verify(ctx context.Context, username, password string) (bool, error)
	ChangePassword(ctx context.Context, newPassword string) error
	Username(ctx context.Context) (string, error)
}

type authService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	cipher Encryptor
	clock  timex.Clock
}

func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, cipher Encryptor, clock timex.Clock) AuthService {
	return &authService{db: db, repos: repos, cipher: cipher, clock: clock}
}

func (a *authService) Exists(ctx context.Context) (bool, error) {
	var ok bool
	err := retry(ctx, func() error {
		var err error
		ok, err = a.repos.Master(a.db).Exists(ctx)
		return err
	})
	return ok, err
}

func (a *authService) Signup(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrInvalidInput)
	}
	encUser, err := a.cipher.Encrypt(username)
	if err != nil {
		return fmt.Errorf("encrypt username: %w", err)
	}
	encPass, err := a.cipher.Encrypt(password)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}

	now := a.clock.Now()
	m := &models.MasterAccount{EncryptedUsername: encUser, EncryptedPassword: encPass, CreatedAt: now, UpdatedAt: now}
	return withTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return a.repos.Master(tx).Create(ctx, m)
	})
}

// Verify returns false, nil for a wrong pair or a missing account.
// Decryption failures are returned, never reported as a mismatch.
func (a *authService) Verify(ctx context.Context, username, password string) (bool, error) {
	user, pass, err := a.load(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username))
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password))
	return userOK&passOK == 1, nil
}

func (a *authService) ChangePassword(ctx context.Context, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	}
	encPass, err := a.cipher.Encrypt(newPassword)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}

	return withTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.repos.Master(tx)
		current, err := repo.Get(ctx)
		if err != nil {
			return err
		}
		current.EncryptedPassword = encPass
		current.UpdatedAt = a.clock.Now()
		return repo.Replace(ctx, current)
	})
}

func (a *authService) Username(ctx context.Context) (string, error) {
	user, _, err := a.load(ctx)
	return user, err
}

func (a *authService) load(ctx context.Context) (string, string, error) {
	var m *models.MasterAccount
	err := retry(ctx, func() error {
		var err error
		m, err = a.repos.Master(a.db).Get(ctx)
		return err
	})
	if err != nil {
		return "", "", err
	}
	user, err := a.cipher.Decrypt(m.EncryptedUsername)
	if err != nil {
		return "", "", fmt.Errorf("master username: %w", err)
	}
	pass, err := a.cipher.Decrypt(m.EncryptedPassword)
	if err != nil {
		return "", "", fmt.Errorf("master password: %w", err)
	}
	return user, pass, nil
}
