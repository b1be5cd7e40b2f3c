package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
)

// PreferenceService reads and updates per-identity preferences. A row is
// created with defaults the first time an identity is seen.
type PreferenceService interface {
	Get(ctx context.Context, identity string) (models.Preferences, error)
	Update(ctx context.Context, identity string, u models.PreferencesUpdate) (models.Preferences, error)
	SessionTimeout(ctx context.Context, identity string) (time.Duration, error)
}

type preferenceService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	clock timex.Clock
}

func NewPreferenceService(db *sql.DB, repos repomanager.RepositoryManager, clock timex.Clock) PreferenceService {
	return &preferenceService{db: db, repos: repos, clock: clock}
}

func (s *preferenceService) Get(ctx context.Context, identity string) (models.Preferences, error) {
	var p models.Preferences
	err := withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		p, err = s.getOrCreate(ctx, tx, identity)
		return err
	})
	return p, err
}

// Update validates u and applies it. An empty update returns the current
// values unchanged.
func (s *preferenceService) Update(ctx context.Context, identity string, u models.PreferencesUpdate) (models.Preferences, error) {
	if err := u.Validate(); err != nil {
		return models.Preferences{}, err
	}

	var p models.Preferences
	err := withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		p, err = s.getOrCreate(ctx, tx, identity)
		if err != nil || u.Empty() {
			return err
		}
		u.Apply(&p)
		p.UpdatedAt = s.clock.Now()
		return s.repos.Preferences(tx).Update(ctx, &p)
	})
	return p, err
}

// SessionTimeout makes the service a session.TimeoutSource.
func (s *preferenceService) SessionTimeout(ctx context.Context, identity string) (time.Duration, error) {
	p, err := s.Get(ctx, identity)
	if err != nil {
		return 0, err
	}
	return time.Duration(p.SessionTimeoutSeconds) * time.Second, nil
}

func (s *preferenceService) getOrCreate(ctx context.Context, tx dbx.DBTX, identity string) (models.Preferences, error) {
	repo := s.repos.Preferences(tx)

	p, err := repo.Get(ctx, identity)
	if err == nil {
		return *p, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return models.Preferences{}, err
	}

	def := models.DefaultPreferences(identity, s.clock.Now())
	if err := repo.Insert(ctx, &def); err != nil {
		return models.Preferences{}, err
	}
	p, err = repo.Get(ctx, identity)
	if err != nil {
		return models.Preferences{}, err
	}
	return *p, nil
}
